package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"AgentViz/src/viz"
)

// TerminalExporter renders a payload as plain text: cards with colored
// trend arrows, compact chart summaries, and ASCII tables.
type TerminalExporter struct {
	w io.Writer
}

// NewTerminalExporter creates an exporter writing to w.
func NewTerminalExporter(w io.Writer) *TerminalExporter {
	return &TerminalExporter{w: w}
}

var (
	trendUpColor   = color.New(color.FgGreen)
	trendDownColor = color.New(color.FgRed)
	headingColor   = color.New(color.Bold)
	dimColor       = color.New(color.Faint)
)

// Export writes every visualization in canonical order.
func (e *TerminalExporter) Export(p *Payload) error {
	models := viz.ComposeList(p.Visualizations)
	if len(models) == 0 {
		return fmt.Errorf("no visualizations to export")
	}

	agent := p.Agent
	if agent == "" {
		agent = "agent"
	}
	headingColor.Fprintf(e.w, "=== %s: %d visualizations ===\n\n", agent, len(models))

	for _, m := range models {
		if err := e.writeModel(m); err != nil {
			return err
		}
	}
	return nil
}

func (e *TerminalExporter) writeModel(m viz.RenderModel) error {
	if m.Title != "" {
		headingColor.Fprintf(e.w, "%s\n", m.Title)
	}
	if m.Description != "" {
		dimColor.Fprintf(e.w, "%s\n", m.Description)
	}

	switch {
	case m.Card != nil:
		e.writeCard(m.Card)
	case m.Chart != nil:
		e.writeChart(m.Chart)
	case m.Table != nil:
		e.writeTable(m.Table)
	case m.Image != nil:
		fmt.Fprintf(e.w, "  [image] %s\n", m.Image.URL)
		if m.Image.Caption != "" {
			fmt.Fprintf(e.w, "  %s\n", m.Image.Caption)
		}
	case m.Placeholder != nil:
		dimColor.Fprintf(e.w, "  %s\n", m.Placeholder.Message)
	}

	fmt.Fprintln(e.w)
	return nil
}

func (e *TerminalExporter) writeCard(card *viz.CardModel) {
	line := fmt.Sprintf("  %s", card.Value)
	if card.Unit != "" {
		line += " " + card.Unit
	}
	fmt.Fprintln(e.w, line)

	if card.HasDelta {
		label := viz.DeltaLabel(card.Delta)
		switch card.Trend {
		case viz.TrendUp:
			trendUpColor.Fprintf(e.w, "  ▲ %s\n", label)
		case viz.TrendDown:
			trendDownColor.Fprintf(e.w, "  ▼ %s\n", label)
		default:
			fmt.Fprintf(e.w, "  %s\n", label)
		}
	}
}

// writeChart prints a compact value summary per category; pies show the
// legend entries, which already carry the percentage shares.
func (e *TerminalExporter) writeChart(chart *viz.ChartModel) {
	if chart.Type == viz.TypePie {
		for _, entry := range chart.Legend {
			fmt.Fprintf(e.w, "  %s\n", entry)
		}
		return
	}

	for _, s := range chart.Series {
		if len(chart.Series) > 1 {
			fmt.Fprintf(e.w, "  %s:\n", s.Name)
		}
		for i, label := range s.Labels {
			cat := ""
			if i < len(chart.FullCategories) {
				cat = chart.FullCategories[i]
			}
			fmt.Fprintf(e.w, "  %-30s %s\n", cat, label)
		}
	}
}

func (e *TerminalExporter) writeTable(t *viz.TableModel) {
	table := tablewriter.NewWriter(e.w)

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		h := col.Label
		if col.Key == t.SortKey {
			if t.SortDir == viz.SortDesc {
				h += " ▼"
			} else {
				h += " ▲"
			}
		}
		headers[i] = h
	}
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell.Display
		}
		table.Append(cells)
	}
	table.Render()

	dimColor.Fprintf(e.w, "  page %d/%d, %d rows\n", t.Page+1, t.TotalPages, t.TotalRows)
}

// Summarize returns a one-line digest of a payload, for log output.
func Summarize(p *Payload) string {
	counts := make(map[string]int)
	for _, rec := range p.Visualizations {
		if t, ok := viz.ResolveType(rec.VizType); ok {
			counts[string(t)]++
		} else {
			counts["unsupported"]++
		}
	}
	parts := make([]string, 0, len(counts))
	for _, kind := range []string{"card", "bar", "pie", "line", "area", "image", "table", "unsupported"} {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind))
		}
	}
	return strings.Join(parts, ", ")
}
