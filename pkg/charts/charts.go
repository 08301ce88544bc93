// Package charts rasterizes the revenue charts embedded in appraisal
// decks: a quarterly two-line comparison and a twelve-point monthly area
// chart. Charts render to PNG with transparent backgrounds so they sit on
// any slide theme.
package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/escribadocs/escriba/pkg/brformat"
)

var (
	currentYearColor  = drawing.ColorFromHex("f39c12")
	previousYearColor = drawing.ColorFromHex("7a2be2")
	monthlyAreaColor  = drawing.ColorFromHex("720d83")
)

// ChartDataError reports input data a chart cannot be drawn from.
type ChartDataError struct {
	Chart   string
	Message string
}

func (e *ChartDataError) Error() string {
	return fmt.Sprintf("%s chart: %s", e.Chart, e.Message)
}

// NewChartDataError creates a chart data error.
func NewChartDataError(chartName, format string, args ...interface{}) error {
	return &ChartDataError{Chart: chartName, Message: fmt.Sprintf(format, args...)}
}

// Coerce parses one chart value, accepting Brazilian and machine decimal
// notation. Unparseable input degrades to NaN, which plots as a gap.
func Coerce(s string) float64 {
	v, err := brformat.ParseDecimal(s)
	if err != nil {
		return math.NaN()
	}
	return v
}

// CoerceAll maps Coerce over a value list.
func CoerceAll(values []string) []float64 {
	out := make([]float64, len(values))
	for i, s := range values {
		out[i] = Coerce(s)
	}
	return out
}

// quarterLabel turns "2025-3" into the two-line axis label "3º Tri\n2025".
func quarterLabel(raw string) (string, error) {
	year, quarter, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return "", NewChartDataError("quarterly", "bad quarter label %q, want AAAA-Q", raw)
	}
	q, err := strconv.Atoi(quarter)
	if err != nil || q < 1 || q > 4 {
		return "", NewChartDataError("quarterly", "bad quarter in label %q", raw)
	}
	return fmt.Sprintf("%dº Tri\n%s", q, year), nil
}

// Series is one named line of a chart. Missing points carry NaN and break
// the line rather than drawing through the gap.
type Series struct {
	Name   string
	Values []float64
}

// QuarterlyComparison renders two revenue lines over a shared quarter
// axis. Quarter labels arrive as "AAAA-Q". The y-axis tops out at the
// smallest multiple of 20 covering the finite data, never below 80, with
// gridlines every 20. A chart with no finite value at all is an error.
func QuarterlyComparison(quarters []string, current, previous Series, w io.Writer) error {
	if len(quarters) == 0 {
		return NewChartDataError("quarterly", "no quarters")
	}
	if len(current.Values) != len(quarters) || len(previous.Values) != len(quarters) {
		return NewChartDataError("quarterly", "series length mismatch: %d quarters, %d/%d values",
			len(quarters), len(current.Values), len(previous.Values))
	}
	if !hasFinite(current.Values) && !hasFinite(previous.Values) {
		return NewChartDataError("quarterly", "no plottable value")
	}

	yMax := stepCeiling(20, 80, current.Values, previous.Values)
	fmtr := brformat.New(brformat.BrazilianPortuguese())

	var ticks []chart.Tick
	for i, q := range quarters {
		label, err := quarterLabel(q)
		if err != nil {
			return err
		}
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	var yTicks []chart.Tick
	for v := 0.0; v <= yMax; v += 20 {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: fmtr.Int(int64(v))})
	}

	var series []chart.Series
	series = append(series, lineSegments(current, currentYearColor, 0)...)
	series = append(series, lineSegments(previous, previousYearColor, 0)...)

	graph := chart.Chart{
		Width:      900,
		Height:     480,
		Background: chart.Style{FillColor: drawing.ColorTransparent},
		Canvas:     chart.Style{FillColor: drawing.ColorTransparent},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(quarters) - 1)},
		},
		YAxis: chart.YAxis{
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// hasFinite reports whether at least one value is plottable.
func hasFinite(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// stepCeiling returns the smallest multiple of step at or above every
// finite value, floored at min.
func stepCeiling(step, min float64, seriesValues ...[]float64) float64 {
	top := min
	for _, values := range seriesValues {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if needed := math.Ceil(v/step) * step; needed > top {
				top = needed
			}
		}
	}
	return top
}

// lineSegments splits a series on NaN values into contiguous finite
// segments, one continuous series each, so gaps stay gaps. Only the first
// segment carries the legend name. A non-zero fill alpha turns the
// segments into areas.
func lineSegments(s Series, color drawing.Color, fillAlpha uint8) []chart.Series {
	var out []chart.Series
	style := chart.Style{StrokeColor: color, StrokeWidth: 3}
	if fillAlpha > 0 {
		fill := color
		fill.A = fillAlpha
		style.FillColor = fill
		style.StrokeWidth = 2
	}

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		xs := make([]float64, 0, end-start)
		ys := make([]float64, 0, end-start)
		for i := start; i < end; i++ {
			xs = append(xs, float64(i))
			ys = append(ys, s.Values[i])
		}
		name := ""
		if len(out) == 0 {
			name = s.Name
		}
		out = append(out, chart.ContinuousSeries{
			Name:    name,
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
		start = -1
	}

	for i, v := range s.Values {
		if math.IsNaN(v) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(s.Values))
	return out
}

// monthsInYear is the fixed span of the monthly chart: one point per
// month, no more, no less.
const monthsInYear = 12

// monthShortNames follows the Brazilian short-month convention, indexed by
// month number.
var monthShortNames = [monthsInYear + 1]string{"",
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// monthLabels generates twelve axis labels starting at the "AAAA-MM"
// month, carrying the two-digit year when the span crosses a year
// boundary: "Set/25".
func monthLabels(start string) ([]string, error) {
	yearStr, monthStr, ok := strings.Cut(strings.TrimSpace(start), "-")
	if !ok {
		return nil, NewChartDataError("monthly", "bad start month %q, want AAAA-MM", start)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, NewChartDataError("monthly", "bad year in %q", start)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return nil, NewChartDataError("monthly", "bad month in %q", start)
	}

	labels := make([]string, monthsInYear)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s/%02d", monthShortNames[month], year%100)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return labels, nil
}

// MonthlyRevenue renders a year of revenue as a filled area over exactly
// twelve monthly points beginning at the "AAAA-MM" start month. Months
// without data carry NaN and interrupt the area. The y-axis climbs in
// steps of 5000 up to the smallest step covering the data, labeled as
// Brazilian currency.
func MonthlyRevenue(startMonth string, values []float64, w io.Writer) error {
	if len(values) != monthsInYear {
		return NewChartDataError("monthly", "need %d values, got %d", monthsInYear, len(values))
	}
	labels, err := monthLabels(startMonth)
	if err != nil {
		return err
	}

	const step = 5000.0
	yMax := stepCeiling(step, step, values)
	fmtr := brformat.New(brformat.BrazilianPortuguese())

	var ticks []chart.Tick
	for i, label := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	var yTicks []chart.Tick
	for v := 0.0; v <= yMax; v += step {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: "R$ " + fmtr.Int(int64(v))})
	}

	graph := chart.Chart{
		Width:      960,
		Height:     420,
		Background: chart.Style{FillColor: drawing.ColorTransparent},
		Canvas:     chart.Style{FillColor: drawing.ColorTransparent},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: monthsInYear - 1},
		},
		YAxis: chart.YAxis{
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: lineSegments(Series{Values: values}, monthlyAreaColor, 90),
	}

	return graph.Render(chart.PNG, w)
}
