package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/golang/snappy"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// apiCache stores raw upstream API responses in SQLite so re-loading the same
// endpoint within the TTL doesn't hit the upstream again. Bodies are
// snappy-compressed; JSON compresses well and the cache stays small.
type apiCache struct {
	db        *sql.DB
	ttl       time.Duration
	scheduler *gocron.Scheduler
}

// openAPICache opens (or creates) the cache database and starts the
// background sweep that removes expired entries every minute.
func openAPICache(path string, ttl time.Duration) (*apiCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	createTableSQL := `
    CREATE TABLE IF NOT EXISTS api_cache (
        url TEXT PRIMARY KEY,
        body BLOB NOT NULL,
        fetched_at INTEGER NOT NULL
    );`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	c := &apiCache{db: db, ttl: ttl}
	c.startSweeper()
	return c, nil
}

// startSweeper deletes expired cache entries every minute
func (c *apiCache) startSweeper() {
	c.scheduler = gocron.NewScheduler(time.UTC)
	c.scheduler.Every(1).Minute().Do(func() {
		cutoff := time.Now().Add(-c.ttl).Unix()
		result, err := c.db.Exec("DELETE FROM api_cache WHERE fetched_at <= ?", cutoff)
		if err != nil {
			log.Printf("Failed to sweep expired cache entries: %v", err)
			return
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			log.Printf("Swept %d expired cache entries", rows)
		}
	})
	c.scheduler.StartAsync()
}

// Get returns the cached body for a URL if it is still within the TTL
func (c *apiCache) Get(url string) ([]byte, bool) {
	cutoff := time.Now().Add(-c.ttl).Unix()
	var compressed []byte
	row := c.db.QueryRow("SELECT body FROM api_cache WHERE url = ? AND fetched_at > ?", url, cutoff)
	if err := row.Scan(&compressed); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("Failed to read cache entry: %v", err)
		}
		return nil, false
	}
	body, err := snappy.Decode(nil, compressed)
	if err != nil {
		log.Printf("Failed to decompress cache entry for %s: %v", url, err)
		return nil, false
	}
	return body, true
}

// Put stores a response body for a URL, replacing any previous entry
func (c *apiCache) Put(url string, body []byte) error {
	compressed := snappy.Encode(nil, body)
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO api_cache (url, body, fetched_at) VALUES (?, ?, ?)",
		url, compressed, time.Now().Unix(),
	)
	return err
}

// Close stops the sweeper and closes the database
func (c *apiCache) Close() error {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
	return c.db.Close()
}
