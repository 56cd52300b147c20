package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 900
	chartHeight = 500
)

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// renderChart renders the requested chart type as a PNG to w.
// x, y and group name columns of the dataset; group is optional.
func renderChart(ds *Dataset, typ, x, y, group string, w io.Writer) error {
	switch typ {
	case "bar":
		return renderBar(ds, x, y, w)
	case "line":
		return renderLine(ds, x, y, group, false, w)
	case "scatter":
		return renderLine(ds, x, y, group, true, w)
	case "histogram":
		return renderHistogram(ds, x, w)
	case "box":
		return renderBox(ds, y, group, w)
	default:
		return fmt.Errorf("unknown chart type %q (want bar, line, scatter, histogram or box)", typ)
	}
}

func requireColumn(ds *Dataset, name, axis string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%s column is required", axis)
	}
	idx := ds.ColumnIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("unknown %s column %q", axis, name)
	}
	return idx, nil
}

// renderBar draws one bar per distinct x value, summing y over duplicate
// x values, in first-appearance order.
func renderBar(ds *Dataset, x, y string, w io.Writer) error {
	xi, err := requireColumn(ds, x, "x")
	if err != nil {
		return err
	}
	yi, err := requireColumn(ds, y, "y")
	if err != nil {
		return err
	}

	sums := map[string]float64{}
	var order []string
	for _, row := range ds.Rows {
		label := row[xi]
		val, ok := parseCell(row[yi])
		if label == "" || !ok {
			continue
		}
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += val
	}
	if len(order) == 0 {
		return fmt.Errorf("no plottable rows for %s vs %s", x, y)
	}

	bars := make([]chart.Value, len(order))
	for i, label := range order {
		bars[i] = chart.Value{Label: label, Value: sums[label]}
	}

	bc := chart.BarChart{
		Title:      fmt.Sprintf("%s by %s", y, x),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(len(bars)),
		Bars:       bars,
		YAxis:      chart.YAxis{Name: y},
	}
	return bc.Render(chart.PNG, w)
}

func barWidth(n int) int {
	bw := (chartWidth - 100) / (n * 2)
	if bw < 4 {
		bw = 4
	}
	if bw > 60 {
		bw = 60
	}
	return bw
}

// renderLine draws a line chart (or scatter when pointsOnly is set). Rows
// keep their dataset order; a group column splits them into colored series.
func renderLine(ds *Dataset, x, y, group string, pointsOnly bool, w io.Writer) error {
	xi, err := requireColumn(ds, x, "x")
	if err != nil {
		return err
	}
	yi, err := requireColumn(ds, y, "y")
	if err != nil {
		return err
	}
	gi := -1
	if group != "" {
		if gi, err = requireColumn(ds, group, "group"); err != nil {
			return err
		}
	}

	xIsTime := ds.Columns[xi].Kind == KindTime
	xIsNumeric := ds.Columns[xi].Kind == KindNumeric

	type seriesData struct {
		times []time.Time
		xs    []float64
		ys    []float64
	}
	byGroup := map[string]*seriesData{}
	var order []string
	for rowIdx, row := range ds.Rows {
		yVal, ok := parseCell(row[yi])
		if !ok {
			continue
		}
		key := ""
		if gi >= 0 {
			key = row[gi]
		}
		sd, seen := byGroup[key]
		if !seen {
			sd = &seriesData{}
			byGroup[key] = sd
			order = append(order, key)
		}
		switch {
		case xIsTime:
			t, ok := parseTimeCell(row[xi])
			if !ok {
				continue
			}
			sd.times = append(sd.times, t)
		case xIsNumeric:
			xVal, ok := parseCell(row[xi])
			if !ok {
				continue
			}
			sd.xs = append(sd.xs, xVal)
		default:
			// categorical x falls back to row position
			sd.xs = append(sd.xs, float64(rowIdx))
		}
		sd.ys = append(sd.ys, yVal)
	}
	if len(order) == 0 {
		return fmt.Errorf("no plottable rows for %s vs %s", x, y)
	}

	var series []chart.Series
	for i, key := range order {
		sd := byGroup[key]
		if len(sd.ys) == 0 {
			continue
		}
		name := key
		if name == "" {
			name = y
		}
		col := chart.GetDefaultColor(i)
		var st chart.Style
		if pointsOnly {
			st = pointStyle(col)
		} else {
			st = chart.Style{StrokeColor: col, StrokeWidth: 2, DotWidth: 3, DotColor: col}
		}
		if xIsTime {
			times, ys := padTimeSeries(sd.times, sd.ys)
			series = append(series, chart.TimeSeries{Name: name, XValues: times, YValues: ys, Style: st})
		} else {
			xs, ys := padContinuousSeries(sd.xs, sd.ys)
			series = append(series, chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st})
		}
	}

	if len(series) == 0 {
		return fmt.Errorf("no plottable rows for %s vs %s", x, y)
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s vs %s", y, x),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 10}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: x},
		YAxis:      chart.YAxis{Name: y},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

// Pad to at least two X values for go-chart; single-point series fail the
// x-range computation.
func padContinuousSeries(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 1 {
		return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
	}
	return xs, ys
}

func padTimeSeries(times []time.Time, ys []float64) ([]time.Time, []float64) {
	if len(times) == 1 {
		return []time.Time{times[0], times[0].Add(time.Minute)}, []float64{ys[0], ys[0]}
	}
	return times, ys
}

func parseTimeCell(v string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// renderHistogram bins a numeric column and draws the counts as bars
func renderHistogram(ds *Dataset, x string, w io.Writer) error {
	if _, err := requireColumn(ds, x, "x"); err != nil {
		return err
	}
	vals := ds.NumericValues(x)
	if len(vals) == 0 {
		return fmt.Errorf("column %q has no numeric values", x)
	}

	min, max := vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Sturges' rule, clamped to keep labels readable
	bins := int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	if bins < 5 {
		bins = 5
	}
	if bins > 25 {
		bins = 25
	}
	if min == max {
		bins = 1
	}

	counts := make([]int, bins)
	width := (max - min) / float64(bins)
	for _, v := range vals {
		idx := 0
		if width > 0 {
			idx = int((v - min) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		counts[idx]++
	}

	bars := make([]chart.Value, bins)
	for i, c := range counts {
		lo := min + float64(i)*width
		bars[i] = chart.Value{
			Label: strconv.FormatFloat(lo, 'g', 4, 64),
			Value: float64(c),
		}
	}

	bc := chart.BarChart{
		Title:      fmt.Sprintf("Distribution of %s", x),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(bins),
		Bars:       bars,
		YAxis:      chart.YAxis{Name: "count"},
	}
	return bc.Render(chart.PNG, w)
}

// renderBox draws one box per group (or a single box when group is empty)
// from the five-number summary. go-chart has no box series, so each box is
// composed from vertical line series: a thin whisker min..max, a thick box
// Q1..Q3 and a median tick.
func renderBox(ds *Dataset, y, group string, w io.Writer) error {
	yi, err := requireColumn(ds, y, "y")
	if err != nil {
		return err
	}
	gi := -1
	if group != "" {
		if gi, err = requireColumn(ds, group, "group"); err != nil {
			return err
		}
	}

	byGroup := map[string][]float64{}
	var order []string
	for _, row := range ds.Rows {
		val, ok := parseCell(row[yi])
		if !ok {
			continue
		}
		key := y
		if gi >= 0 {
			if row[gi] == "" {
				continue
			}
			key = row[gi]
		}
		if _, seen := byGroup[key]; !seen {
			order = append(order, key)
		}
		byGroup[key] = append(byGroup[key], val)
	}
	if len(order) == 0 {
		return fmt.Errorf("column %q has no numeric values", y)
	}

	var series []chart.Series
	ticks := []chart.Tick{{Value: 0, Label: ""}}
	for i, key := range order {
		vals := byGroup[key]
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		lo, hi := sorted[0], sorted[len(sorted)-1]
		q1 := quantile(sorted, 0.25)
		med := quantile(sorted, 0.5)
		q3 := quantile(sorted, 0.75)

		xp := float64(i + 1)
		col := chart.GetDefaultColor(i)
		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{xp, xp},
				YValues: []float64{lo, hi},
				Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5},
			},
			chart.ContinuousSeries{
				XValues: []float64{xp, xp},
				YValues: []float64{q1, q3},
				Style:   chart.Style{StrokeColor: col, StrokeWidth: 18},
			},
			chart.ContinuousSeries{
				XValues: []float64{xp - 0.15, xp + 0.15},
				YValues: []float64{med, med},
				Style:   chart.Style{StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
			},
		)
		ticks = append(ticks, chart.Tick{Value: xp, Label: key})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(order) + 1), Label: ""})

	ch := chart.Chart{
		Title:      fmt.Sprintf("Box plot of %s", y),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 10}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(order) + 1)},
		},
		YAxis:  chart.YAxis{Name: y},
		Series: series,
	}
	return ch.Render(chart.PNG, w)
}
