package viz

import (
	"fmt"
	"strings"
)

// ChartModel is the normalized render model for the four chart types.
// Categories are display labels (already truncated where a budget
// applies); FullCategories keep the untruncated text for tooltips.
type ChartModel struct {
	Type           VizType
	Orientation    string // bar only: "vertical" or "horizontal"
	Categories     []string
	FullCategories []string
	Series         []Series
	Slices         []Slice  // pie only
	Legend         []string // pie only: "name (pp.p%)"
	Smooth         bool     // monotone interpolation between points
	AreaFill       bool     // fill to baseline, fading to transparent
}

// Series is a single named value sequence. Colors is populated per point
// for bar charts and left empty for line/area, where Color covers the
// whole series.
type Series struct {
	Name   string
	Color  string
	Values []float64
	Labels []string // formatted values for tooltips
	Colors []string
}

// Slice is one pie segment. ShowLabel is false for slices below the share
// threshold so small slices do not clutter the chart.
type Slice struct {
	Name      string
	Value     float64
	Percent   float64
	Color     string
	ShowLabel bool
}

// LabelShareThreshold is the minimum percentage share a pie slice must
// reach to receive an on-chart label.
const LabelShareThreshold = 5.0

const emptyChartMessage = "No data available for chart"

const (
	orientationVertical   = "vertical"
	orientationHorizontal = "horizontal"
)

// renderBar projects a bar record. Orientation selects vertical bars
// (categories on X, 10-char label budget) or horizontal bars (categories
// on Y, 25-char budget). Bars are colored by index modulo the palette.
func renderBar(rec Record) RenderModel {
	xField := firstNonEmpty(rec.Config.XField, rec.Config.LabelField, "name")
	yField := firstNonEmpty(rec.Config.YField, rec.Config.ValueField, "value")

	rows := Sanitize(asRecordSlice(rec.Data), []string{yField})
	if len(rows) == 0 {
		return placeholderModel(rec, string(TypeBar), emptyChartMessage)
	}

	// Orientation tolerates the same loose casing as vizType
	orientation := orientationVertical
	budget := TruncateVertical
	if strings.ToLower(strings.TrimSpace(rec.Config.Orientation)) == orientationHorizontal {
		orientation = orientationHorizontal
		budget = TruncateHorizontal
	}

	chart := &ChartModel{
		Type:        TypeBar,
		Orientation: orientation,
	}
	series := Series{Name: FormatLabel(yField)}
	for i, row := range rows {
		full := valueString(row[xField])
		v, _ := toFloat64(row[yField])
		chart.Categories = append(chart.Categories, Truncate(full, budget))
		chart.FullCategories = append(chart.FullCategories, full)
		series.Values = append(series.Values, v)
		series.Labels = append(series.Labels, FormatValue(v, ValueNumber))
		series.Colors = append(series.Colors, PaletteColor(i))
	}
	chart.Series = []Series{series}

	return RenderModel{
		Kind:        string(TypeBar),
		Title:       rec.Title,
		Description: rec.Description,
		Chart:       chart,
	}
}

// renderPie projects a pie/donut record. Entries with value <= 0 are
// filtered out; a zero total renders the empty state. Labels appear only
// on slices at or above the share threshold.
func renderPie(rec Record) RenderModel {
	labelField := firstNonEmpty(rec.Config.LabelField, rec.Config.XField, "name")
	valueField := firstNonEmpty(rec.Config.ValueField, rec.Config.YField, "value")

	rows := Sanitize(asRecordSlice(rec.Data), []string{valueField})

	var total float64
	kept := rows[:0:0]
	for _, row := range rows {
		v, _ := toFloat64(row[valueField])
		if v <= 0 {
			continue
		}
		total += v
		kept = append(kept, row)
	}
	if len(kept) == 0 || total == 0 {
		return placeholderModel(rec, string(TypePie), emptyChartMessage)
	}

	chart := &ChartModel{Type: TypePie}
	for i, row := range kept {
		v, _ := toFloat64(row[valueField])
		name := valueString(row[labelField])
		pct := v / total * 100
		chart.Slices = append(chart.Slices, Slice{
			Name:      name,
			Value:     v,
			Percent:   pct,
			Color:     PaletteColor(i),
			ShowLabel: pct >= LabelShareThreshold,
		})
		chart.Legend = append(chart.Legend, fmt.Sprintf("%s (%.1f%%)", name, pct))
	}

	return RenderModel{
		Kind:        string(TypePie),
		Title:       rec.Title,
		Description: rec.Description,
		Chart:       chart,
	}
}

// renderLine projects a line or area record. Multi-series charts come from
// config.yFields; a single yField otherwise. Both variants use monotone
// interpolation; the area variant additionally fills to the baseline.
func renderLine(rec Record, area bool) RenderModel {
	kind := TypeLine
	if area {
		kind = TypeArea
	}

	xField := firstNonEmpty(rec.Config.XField, rec.Config.LabelField, "name")
	yFields := rec.Config.YFields
	if len(yFields) == 0 {
		yFields = []string{firstNonEmpty(rec.Config.YField, rec.Config.ValueField, "value")}
	}

	rows := Sanitize(asRecordSlice(rec.Data), yFields)
	if len(rows) == 0 {
		return placeholderModel(rec, string(kind), emptyChartMessage)
	}

	chart := &ChartModel{
		Type:     kind,
		Smooth:   true,
		AreaFill: area,
	}
	for _, row := range rows {
		full := valueString(row[xField])
		chart.Categories = append(chart.Categories, full)
		chart.FullCategories = append(chart.FullCategories, full)
	}
	for i, field := range yFields {
		s := Series{
			Name:  FormatLabel(field),
			Color: PaletteColor(i),
		}
		for _, row := range rows {
			v, _ := toFloat64(row[field])
			s.Values = append(s.Values, v)
			s.Labels = append(s.Labels, FormatValue(v, ValueNumber))
		}
		chart.Series = append(chart.Series, s)
	}

	return RenderModel{
		Kind:        string(kind),
		Title:       rec.Title,
		Description: rec.Description,
		Chart:       chart,
	}
}
