package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ColumnKind classifies a column for charting and statistics
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindTime        ColumnKind = "time"
	KindCategorical ColumnKind = "categorical"
)

// Column is a named, typed column of the loaded dataset
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Dataset is the in-memory table shared by all tabs for one session.
// Cells are stored as strings; an empty string is a missing value.
// It is replaced wholesale whenever the session loads from a new source.
type Dataset struct {
	Columns  []Column
	Rows     [][]string
	Source   string // "CSV", "SQL" or "API"
	Label    string // filename, driver name or URL
	LoadedAt time.Time
}

// Date/time layouts accepted by kind inference, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// NewDataset builds a dataset from a header and rows, inferring column kinds.
// Every row must have len(header) cells; the loaders guarantee that.
func NewDataset(header []string, rows [][]string, source, label string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset has no columns")
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(header))
		}
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Kind: inferKind(columnValues(rows, i))}
	}

	return &Dataset{
		Columns:  cols,
		Rows:     rows,
		Source:   source,
		Label:    label,
		LoadedAt: time.Now(),
	}, nil
}

func columnValues(rows [][]string, idx int) []string {
	vals := make([]string, 0, len(rows))
	for _, row := range rows {
		vals = append(vals, row[idx])
	}
	return vals
}

// inferKind sniffs a column's kind from its non-missing values.
// numeric wins if every value parses as a float, time if every value matches
// a known layout; everything else (and all-missing columns) is categorical.
func inferKind(values []string) ColumnKind {
	seen := 0
	numeric := true
	timelike := true
	for _, v := range values {
		if v == "" {
			continue
		}
		seen++
		if numeric {
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				numeric = false
			}
		}
		if timelike && !parsesAsTime(v) {
			timelike = false
		}
		if !numeric && !timelike {
			break
		}
	}
	if seen == 0 {
		return KindCategorical
	}
	if numeric {
		return KindNumeric
	}
	if timelike {
		return KindTime
	}
	return KindCategorical
}

func parsesAsTime(v string) bool {
	v = strings.TrimSpace(v)
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// RowCount returns the number of data rows
func (d *Dataset) RowCount() int { return len(d.Rows) }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.Columns) }

// ColumnIndex returns the position of a column, or -1 if absent
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns all column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the names of numeric columns
func (d *Dataset) NumericColumns() []string {
	return d.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns the names of categorical columns
func (d *Dataset) CategoricalColumns() []string {
	return d.columnsOfKind(KindCategorical)
}

func (d *Dataset) columnsOfKind(kind ColumnKind) []string {
	var names []string
	for _, c := range d.Columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericValues returns the parsed non-missing values of a numeric column
func (d *Dataset) NumericValues(name string) []float64 {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	var vals []float64
	for _, row := range d.Rows {
		if row[idx] == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			continue
		}
		vals = append(vals, f)
	}
	return vals
}

// parseCell parses a single cell as a float, reporting whether it was
// present and parseable
func parseCell(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// UniqueValues returns the distinct non-missing values of a column, sorted
func (d *Dataset) UniqueValues(name string) []string {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	set := map[string]struct{}{}
	for _, row := range d.Rows {
		if row[idx] != "" {
			set[row[idx]] = struct{}{}
		}
	}
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

// FilterByValues returns a copy keeping only rows whose cell in the given
// column matches one of the values. Column kinds are preserved as-is.
func (d *Dataset) FilterByValues(name string, values []string) (*Dataset, error) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	keep := map[string]struct{}{}
	for _, v := range values {
		keep[v] = struct{}{}
	}
	filtered := &Dataset{
		Columns:  d.Columns,
		Source:   d.Source,
		Label:    d.Label,
		LoadedAt: d.LoadedAt,
	}
	for _, row := range d.Rows {
		if _, ok := keep[row[idx]]; ok {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered, nil
}

// Preview returns up to limit rows for display
func (d *Dataset) Preview(limit int) [][]string {
	if limit <= 0 || limit >= len(d.Rows) {
		return d.Rows
	}
	return d.Rows[:limit]
}
