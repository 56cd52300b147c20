package main

import (
	"os"
	"testing"
	"time"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir requires Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Cache.Path != "api_cache.db" {
		t.Errorf("cache path = %q", cfg.Cache.Path)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := `
server:
  addr: ":9090"
cache:
  ttl: 30m
snowflake:
  account: xy12345
  user: loader
  password: secret
  warehouse: COMPUTE_WH
  database: ANALYTICS
  schema: PUBLIC
  role: ANALYST
sql:
  mysql_dsn: "user:pw@tcp(localhost)/db"
`
	if err := os.WriteFile("dashboard.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", cfg.Cache.TTL)
	}
	if cfg.Snowflake.Account != "xy12345" || cfg.Snowflake.Warehouse != "COMPUTE_WH" {
		t.Errorf("snowflake config = %+v", cfg.Snowflake)
	}
	if cfg.SQL.MySQLDSN == "" {
		t.Error("mysql_dsn not read")
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	chdir(t, t.TempDir())
	if err := os.WriteFile("dashboard.yaml", []byte(":\nnot yaml ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
