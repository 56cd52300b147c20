package main

import (
	"reflect"
	"testing"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset(
		[]string{"date", "category", "value", "count"},
		[][]string{
			{"2024-01-01", "A", "100", "5"},
			{"2024-01-02", "B", "150", "8"},
			{"2024-01-03", "A", "120", ""},
		},
		"CSV", "sample.csv",
	)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return ds
}

func TestKindInference(t *testing.T) {
	ds := sampleDataset(t)

	wantKinds := map[string]ColumnKind{
		"date":     KindTime,
		"category": KindCategorical,
		"value":    KindNumeric,
		"count":    KindNumeric,
	}
	for _, col := range ds.Columns {
		if col.Kind != wantKinds[col.Name] {
			t.Errorf("column %s: kind = %s, want %s", col.Name, col.Kind, wantKinds[col.Name])
		}
	}
}

func TestKindInference_MissingOnly(t *testing.T) {
	if got := inferKind([]string{"", "", ""}); got != KindCategorical {
		t.Fatalf("all-missing column: kind = %s, want categorical", got)
	}
}

func TestKindInference_MixedNumeric(t *testing.T) {
	// One non-numeric value makes the column categorical
	if got := inferKind([]string{"1", "2", "three"}); got != KindCategorical {
		t.Fatalf("mixed column: kind = %s, want categorical", got)
	}
	// Missing values don't break numeric inference
	if got := inferKind([]string{"1", "", "3.5"}); got != KindNumeric {
		t.Fatalf("numeric column with gap: kind = %s, want numeric", got)
	}
}

func TestNewDataset_RaggedRows(t *testing.T) {
	_, err := NewDataset([]string{"a", "b"}, [][]string{{"1"}}, "CSV", "x")
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestNumericValues_SkipsMissing(t *testing.T) {
	ds := sampleDataset(t)
	got := ds.NumericValues("count")
	if !reflect.DeepEqual(got, []float64{5, 8}) {
		t.Fatalf("count values = %v, want [5 8]", got)
	}
}

func TestUniqueValues(t *testing.T) {
	ds := sampleDataset(t)
	got := ds.UniqueValues("category")
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("unique categories = %v, want [A B]", got)
	}
}

func TestFilterByValues(t *testing.T) {
	ds := sampleDataset(t)
	filtered, err := ds.FilterByValues("category", []string{"A"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if filtered.RowCount() != 2 {
		t.Fatalf("filtered rows = %d, want 2", filtered.RowCount())
	}
	for _, row := range filtered.Rows {
		if row[1] != "A" {
			t.Fatalf("unexpected row after filter: %v", row)
		}
	}
	if _, err := ds.FilterByValues("nope", []string{"A"}); err == nil {
		t.Fatal("expected error for unknown filter column")
	}
}

func TestPreview(t *testing.T) {
	ds := sampleDataset(t)
	if got := len(ds.Preview(2)); got != 2 {
		t.Fatalf("preview rows = %d, want 2", got)
	}
	if got := len(ds.Preview(100)); got != 3 {
		t.Fatalf("preview rows = %d, want all 3", got)
	}
}
