package viz

import "testing"

func chartData(vals ...float64) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = map[string]any{"name": "item", "value": v}
	}
	return out
}

func TestRenderBar_Vertical(t *testing.T) {
	rec := Record{
		VizType: "bar",
		Title:   "Market Size by Region",
		Data: []any{
			map[string]any{"name": "North America Oncology", "value": 1200},
			map[string]any{"name": "EU", "value": 800},
		},
	}

	m := Render(rec)
	if m.Chart == nil || m.Chart.Type != TypeBar {
		t.Fatalf("expected bar chart model, got %+v", m)
	}
	if m.Chart.Orientation != "vertical" {
		t.Errorf("orientation = %q; want vertical", m.Chart.Orientation)
	}
	// 10-char budget for vertical category labels
	if m.Chart.Categories[0] != "North Amer..." {
		t.Errorf("truncated label = %q", m.Chart.Categories[0])
	}
	if m.Chart.FullCategories[0] != "North America Oncology" {
		t.Errorf("full label lost: %q", m.Chart.FullCategories[0])
	}
	s := m.Chart.Series[0]
	if s.Values[0] != 1200 || s.Labels[0] != "1.2K" {
		t.Errorf("series values = %v labels = %v", s.Values, s.Labels)
	}
	if s.Colors[0] != PaletteColor(0) || s.Colors[1] != PaletteColor(1) {
		t.Errorf("bar colors not cycled by index: %v", s.Colors)
	}
}

func TestRenderBar_HorizontalBudget(t *testing.T) {
	rec := Record{
		VizType: "bar",
		Config:  Config{Orientation: "horizontal"},
		Data: []any{
			map[string]any{"name": "Cardiovascular Disease Therapeutics Portfolio", "value": 10},
		},
	}
	m := Render(rec)
	if m.Chart.Orientation != "horizontal" {
		t.Fatalf("orientation = %q", m.Chart.Orientation)
	}
	want := "Cardiovascular Disease Th..."
	if m.Chart.Categories[0] != want {
		t.Errorf("truncated label = %q; want %q", m.Chart.Categories[0], want)
	}
}

func TestRenderBar_OrientationIsCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"Horizontal", "HORIZONTAL", " horizontal "} {
		rec := Record{
			VizType: "bar",
			Config:  Config{Orientation: raw},
			Data:    chartData(1),
		}
		if m := Render(rec); m.Chart.Orientation != "horizontal" {
			t.Errorf("orientation %q resolved to %q; want horizontal", raw, m.Chart.Orientation)
		}
	}
}

func TestRenderBar_EmptyData(t *testing.T) {
	m := Render(Record{VizType: "bar"})
	if m.Placeholder == nil || m.Placeholder.Message != "No data available for chart" {
		t.Errorf("empty bar placeholder = %+v", m.Placeholder)
	}
	if m.Kind != "bar" {
		t.Errorf("kind = %q; want bar", m.Kind)
	}
}

func TestRenderBar_MissingValuesCoercedToZero(t *testing.T) {
	m := Render(Record{VizType: "bar", Data: []any{
		map[string]any{"name": "a"},
		map[string]any{"name": "b", "value": 3},
	}})
	s := m.Chart.Series[0]
	if s.Values[0] != 0 || s.Values[1] != 3 {
		t.Errorf("values = %v; want [0 3]", s.Values)
	}
}

func TestRenderPie_ShareThreshold(t *testing.T) {
	m := Render(Record{VizType: "pie", Data: []any{
		map[string]any{"name": "approved", "value": 97},
		map[string]any{"name": "withdrawn", "value": 3},
	}})

	if m.Chart == nil || len(m.Chart.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %+v", m.Chart)
	}
	if !m.Chart.Slices[0].ShowLabel {
		t.Error("97% slice should carry an on-chart label")
	}
	if m.Chart.Slices[1].ShowLabel {
		t.Error("3% slice is below the 5% threshold and should not be labeled")
	}
	if m.Chart.Legend[0] != "approved (97.0%)" {
		t.Errorf("legend entry = %q", m.Chart.Legend[0])
	}
}

func TestRenderPie_FiltersNonPositive(t *testing.T) {
	m := Render(Record{VizType: "pie", Data: []any{
		map[string]any{"name": "a", "value": -5},
		map[string]any{"name": "b", "value": 0},
		map[string]any{"name": "c", "value": 10},
	}})
	if len(m.Chart.Slices) != 1 || m.Chart.Slices[0].Name != "c" {
		t.Errorf("slices = %+v; want only c", m.Chart.Slices)
	}
	if m.Chart.Slices[0].Percent != 100 {
		t.Errorf("percent = %v; want 100", m.Chart.Slices[0].Percent)
	}
}

func TestRenderPie_ZeroTotalIsEmptyState(t *testing.T) {
	m := Render(Record{VizType: "pie", Data: []any{
		map[string]any{"name": "a", "value": 0},
	}})
	if m.Placeholder == nil {
		t.Error("zero-sum pie should render the chart empty state")
	}
}

func TestRenderLine_MultiSeries(t *testing.T) {
	m := Render(Record{
		VizType: "line",
		Config:  Config{XField: "year", YFields: []string{"revenue", "rd_spend"}},
		Data: []any{
			map[string]any{"year": 2023, "revenue": 1200.0, "rd_spend": 300.0},
			map[string]any{"year": 2024, "revenue": 1500.0},
		},
	})

	if len(m.Chart.Series) != 2 {
		t.Fatalf("series count = %d; want 2", len(m.Chart.Series))
	}
	if m.Chart.Series[0].Name != "Revenue" || m.Chart.Series[1].Name != "Rd Spend" {
		t.Errorf("series names = %q, %q", m.Chart.Series[0].Name, m.Chart.Series[1].Name)
	}
	if m.Chart.Series[0].Color != PaletteColor(0) || m.Chart.Series[1].Color != PaletteColor(1) {
		t.Error("series colors not cycled by index")
	}
	// second point has no rd_spend; sanitizer defaults it
	if m.Chart.Series[1].Values[1] != 0 {
		t.Errorf("missing series value = %v; want 0", m.Chart.Series[1].Values[1])
	}
	if !m.Chart.Smooth {
		t.Error("line charts use monotone interpolation")
	}
	if m.Chart.AreaFill {
		t.Error("plain line must not set area fill")
	}
	if m.Chart.Categories[0] != "2023" {
		t.Errorf("category = %q; want 2023", m.Chart.Categories[0])
	}
}

func TestRenderArea_SetsFill(t *testing.T) {
	m := Render(Record{VizType: "area", Data: chartData(1, 2, 3)})
	if m.Chart == nil || m.Chart.Type != TypeArea {
		t.Fatalf("expected area model, got %+v", m)
	}
	if !m.Chart.AreaFill || !m.Chart.Smooth {
		t.Errorf("area flags = fill:%v smooth:%v", m.Chart.AreaFill, m.Chart.Smooth)
	}
}

func TestRenderChart_MalformedDataIsEmptyState(t *testing.T) {
	// Data that is not a record sequence collapses to the empty state.
	for _, data := range []any{"not a list", 42, map[string]any{"value": 1}} {
		m := Render(Record{VizType: "line", Data: data})
		if m.Placeholder == nil {
			t.Errorf("data %v should render placeholder", data)
		}
	}
}
