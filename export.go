package main

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// writeCSV writes the dataset as CSV (header + rows)
func writeCSV(ds *Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, row := range ds.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX writes the dataset to an Excel workbook: a Data sheet with the
// table and, when numeric columns exist, a Statistics sheet with the
// descriptive summary.
func writeXLSX(ds *Dataset, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const dataSheet = "Data"
	f.SetSheetName("Sheet1", dataSheet)

	header := make([]interface{}, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for r, row := range ds.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			// Numeric columns become real number cells
			if ds.Columns[i].Kind == KindNumeric {
				if fv, ok := parseCell(v); ok {
					cells[i] = fv
					continue
				}
			}
			cells[i] = v
		}
		axis := "A" + strconv.Itoa(r+2)
		if err := f.SetSheetRow(dataSheet, axis, &cells); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", r+1, err)
		}
	}

	if stats := describe(ds); len(stats) > 0 {
		const statsSheet = "Statistics"
		if _, err := f.NewSheet(statsSheet); err != nil {
			return fmt.Errorf("create statistics sheet: %w", err)
		}
		statsHeader := []interface{}{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
		if err := f.SetSheetRow(statsSheet, "A1", &statsHeader); err != nil {
			return fmt.Errorf("write statistics header: %w", err)
		}
		for i, s := range stats {
			row := []interface{}{s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max}
			axis := "A" + strconv.Itoa(i+2)
			if err := f.SetSheetRow(statsSheet, axis, &row); err != nil {
				return fmt.Errorf("write statistics row: %w", err)
			}
		}
	}

	return f.Write(w)
}

// writeZip bundles the data and its statistics as CSV files into one archive
func writeZip(ds *Dataset, w io.Writer) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	dataFile, err := zw.Create("data.csv")
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	if err := writeCSV(ds, dataFile); err != nil {
		return err
	}

	stats := describe(ds)
	if len(stats) == 0 {
		return nil
	}
	statsFile, err := zw.Create("statistics.csv")
	if err != nil {
		return fmt.Errorf("create zip entry: %w", err)
	}
	cw := csv.NewWriter(statsFile)
	if err := cw.Write([]string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}); err != nil {
		return fmt.Errorf("write statistics header: %w", err)
	}
	for _, s := range stats {
		rec := []string{
			s.Column,
			strconv.Itoa(s.Count),
			formatStat(s.Mean),
			formatStat(s.Std),
			formatStat(s.Min),
			formatStat(s.Q1),
			formatStat(s.Median),
			formatStat(s.Q3),
			formatStat(s.Max),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write statistics row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exportBody renders the dataset in the requested format and returns the
// bytes, content type and file extension.
func exportBody(ds *Dataset, format string) ([]byte, string, string, error) {
	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := writeCSV(ds, &buf); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "text/csv", "csv", nil
	case "xlsx":
		if err := writeXLSX(ds, &buf); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", nil
	case "zip":
		if err := writeZip(ds, &buf); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "application/zip", "zip", nil
	default:
		return nil, "", "", fmt.Errorf("unknown export format %q (want csv, xlsx or zip)", format)
	}
}
