package export

import (
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"AgentViz/src/viz"
)

// HTMLExporter renders a payload into a single self-contained dashboard
// page: metric cards at the top, charts in canonical order in the middle,
// images and tables at the bottom.
type HTMLExporter struct {
	outputDir string
	sessionID string
	cache     *viz.RenderCache
}

// NewHTMLExporter creates an exporter writing into outputDir.
func NewHTMLExporter(outputDir string) *HTMLExporter {
	return &HTMLExporter{
		outputDir: outputDir,
		sessionID: uuid.New().String(),
		cache:     viz.NewRenderCache(10 * time.Minute),
	}
}

// SessionID returns the export session identifier used in file names.
func (e *HTMLExporter) SessionID() string {
	return e.sessionID
}

// Export renders the payload and writes the dashboard HTML, returning the
// output path.
func (e *HTMLExporter) Export(p *Payload) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	models := e.cache.ComposeList(p.Visualizations)
	if len(models) == 0 {
		return "", fmt.Errorf("no visualizations to export")
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Agent Dashboard - %s", e.sessionID)

	var top strings.Builder    // header + cards, injected after <body>
	var bottom strings.Builder // images, tables, placeholders, before </body>

	top.WriteString(e.headerHTML(p, len(models)))
	chartsAdded := 0

	for _, m := range models {
		switch {
		case m.Card != nil:
			top.WriteString(cardHTML(m))
		case m.Chart != nil:
			switch m.Chart.Type {
			case viz.TypeBar:
				page.AddCharts(barChart(m))
			case viz.TypePie:
				page.AddCharts(pieChart(m))
			default:
				page.AddCharts(lineChart(m))
			}
			chartsAdded++
		case m.Table != nil:
			bottom.WriteString(tableHTML(m))
		case m.Image != nil:
			bottom.WriteString(imageHTML(m))
		case m.Placeholder != nil:
			bottom.WriteString(placeholderHTML(m))
		}
	}

	var content string
	if chartsAdded > 0 {
		var buf strings.Builder
		if err := page.Render(&buf); err != nil {
			return "", fmt.Errorf("failed to render charts: %w", err)
		}
		content = buf.String()
	} else {
		content = "<html><head></head><body></body></html>"
	}

	// Inject the non-chart sections around the rendered chart page
	content = strings.Replace(content, "</head>", dashboardCSS+"</head>", 1)
	content = strings.Replace(content, "<body>", "<body>\n"+top.String(), 1)
	content = strings.Replace(content, "</body>", bottom.String()+"</body>", 1)

	outputPath := filepath.Join(e.outputDir, fmt.Sprintf("%s-dashboard.html", e.sessionID))
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write dashboard file: %w", err)
	}

	log.Printf("Generated dashboard: %s (%d sections, %d charts)", outputPath, len(models), chartsAdded)
	return outputPath, nil
}

func (e *HTMLExporter) headerHTML(p *Payload, count int) string {
	agent := p.Agent
	if agent == "" {
		agent = "agent"
	}
	generated := p.GeneratedAt
	if generated == "" {
		generated = time.Now().Format("2006-01-02 15:04:05 MST")
	}
	return fmt.Sprintf(`<div class="dash-header">
    <h1>%s intelligence</h1>
    <div class="session-id">Session: %s | Generated: %s | %d visualizations</div>
</div>
`, html.EscapeString(agent), e.sessionID, html.EscapeString(generated), count)
}

// cardHTML renders one metric card. Trend styling picks the arrow and the
// accent color class.
func cardHTML(m viz.RenderModel) string {
	card := m.Card
	arrow, class := "", "trend-neutral"
	switch card.Trend {
	case viz.TrendUp:
		arrow, class = "▲ ", "trend-up"
	case viz.TrendDown:
		arrow, class = "▼ ", "trend-down"
	}

	var delta string
	if card.HasDelta {
		delta = fmt.Sprintf(`<div class="card-delta %s">%s%s</div>`,
			class, arrow, viz.DeltaLabel(card.Delta))
	}
	unit := ""
	if card.Unit != "" {
		unit = fmt.Sprintf(`<span class="card-unit">%s</span>`, html.EscapeString(card.Unit))
	}
	return fmt.Sprintf(`<div class="metric-card" id="%s">
    <div class="card-title">%s</div>
    <div class="card-value">%s %s</div>
    %s
</div>
`, html.EscapeString(m.Key), html.EscapeString(m.Title), html.EscapeString(card.Value), unit, delta)
}

func tableHTML(m viz.RenderModel) string {
	var sb strings.Builder
	sb.WriteString(`<div class="table-section">` + "\n")
	if m.Title != "" {
		sb.WriteString(fmt.Sprintf("    <h3>%s</h3>\n", html.EscapeString(m.Title)))
	}
	sb.WriteString(`    <table class="data-table"><thead><tr>`)
	for _, col := range m.Table.Columns {
		sb.WriteString(fmt.Sprintf("<th>%s</th>", html.EscapeString(col.Label)))
	}
	sb.WriteString("</tr></thead><tbody>\n")
	for _, row := range m.Table.Rows {
		sb.WriteString("        <tr>")
		for _, cell := range row {
			// Full value travels in the tooltip; display text is truncated
			sb.WriteString(fmt.Sprintf(`<td title="%s">%s</td>`,
				html.EscapeString(cell.Full), html.EscapeString(cell.Display)))
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString(fmt.Sprintf(`    </tbody></table>
    <div class="table-footer">Page %d of %d (%d rows)</div>
</div>
`, m.Table.Page+1, m.Table.TotalPages, m.Table.TotalRows))
	return sb.String()
}

func imageHTML(m viz.RenderModel) string {
	img := m.Image
	var sb strings.Builder
	sb.WriteString(`<div class="image-section">` + "\n")
	if m.Title != "" {
		sb.WriteString(fmt.Sprintf("    <h3>%s</h3>\n", html.EscapeString(m.Title)))
	}
	sb.WriteString(fmt.Sprintf(`    <img src="%s" alt="%s"/>`+"\n",
		html.EscapeString(img.URL), html.EscapeString(img.Caption)))
	if img.Caption != "" {
		sb.WriteString(fmt.Sprintf(`    <div class="image-caption">%s</div>`+"\n", html.EscapeString(img.Caption)))
	}
	if img.Source != "" || img.SourceURL != "" {
		sb.WriteString(fmt.Sprintf(`    <div class="image-source"><a href="%s">%s</a></div>`+"\n",
			html.EscapeString(img.SourceURL), html.EscapeString(img.Source)))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

func placeholderHTML(m viz.RenderModel) string {
	title := m.Title
	if title == "" {
		title = m.Kind
	}
	return fmt.Sprintf(`<div class="placeholder-section">
    <h3>%s</h3>
    <div class="placeholder-message">%s</div>
</div>
`, html.EscapeString(title), html.EscapeString(m.Placeholder.Message))
}

// barChart builds a go-echarts bar from the render model. Horizontal
// orientation swaps the axes.
func barChart(m viz.RenderModel) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    m.Title,
			Subtitle: m.Description,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "10%",
			Right:  "10%",
			Bottom: "20%",
			Top:    "80",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "400px",
		}),
	)

	series := m.Chart.Series[0]
	barData := make([]opts.BarData, len(series.Values))
	for i, v := range series.Values {
		barData[i] = opts.BarData{
			Value: v,
			ItemStyle: &opts.ItemStyle{
				Color: series.Colors[i],
			},
		}
	}

	bar.SetXAxis(m.Chart.Categories)
	bar.AddSeries(series.Name, barData,
		charts.WithBarChartOpts(opts.BarChart{
			BarGap: "10%",
		}),
	)
	if m.Chart.Orientation == "horizontal" {
		bar.XYReversal()
	}
	return bar
}

// pieChart builds a go-echarts pie. Per-slice labels follow the render
// model's share-threshold decision.
func pieChart(m viz.RenderModel) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    m.Title,
			Subtitle: m.Description,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Data: m.Chart.Legend,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "400px",
		}),
	)

	pieData := make([]opts.PieData, len(m.Chart.Slices))
	for i, slice := range m.Chart.Slices {
		pieData[i] = opts.PieData{
			Name:  fmt.Sprintf("%s (%.1f%%)", slice.Name, slice.Percent),
			Value: slice.Value,
			ItemStyle: &opts.ItemStyle{
				Color: slice.Color,
			},
			Label: &opts.Label{
				Show:      opts.Bool(slice.ShowLabel),
				Formatter: "{b}",
			},
		}
	}

	pie.AddSeries(m.Title, pieData,
		charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"40%", "70%"},
		}),
	)
	return pie
}

// lineChart builds a go-echarts line for both line and area models.
func lineChart(m viz.RenderModel) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    m.Title,
			Subtitle: m.Description,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(len(m.Chart.Series) > 1),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "10%",
			Right:  "10%",
			Bottom: "20%",
			Top:    "80",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "450px",
		}),
	)

	line.SetXAxis(m.Chart.Categories)
	for _, s := range m.Chart.Series {
		lineData := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			lineData[i] = opts.LineData{Value: v}
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(m.Chart.Smooth),
				ShowSymbol: opts.Bool(true),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: s.Color,
			}),
		}
		if m.Chart.AreaFill {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{
				Opacity: opts.Float(0.25),
			}))
		}
		line.AddSeries(s.Name, lineData, seriesOpts...)
	}
	return line
}

const dashboardCSS = `
    <style>
        * {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
        }
        body {
            max-width: 1400px;
            margin: 0 auto;
            padding: 20px;
            font-size: 14px;
        }
        .dash-header {
            margin-bottom: 15px;
            padding-bottom: 10px;
            border-bottom: 2px solid #333;
        }
        .dash-header h1 {
            margin: 0;
            font-size: 18px;
            font-weight: bold;
            text-transform: capitalize;
        }
        .dash-header .session-id {
            font-size: 11px;
            color: #666;
            font-family: monospace;
        }
        .metric-card {
            display: inline-block;
            min-width: 180px;
            margin: 0 10px 15px 0;
            padding: 15px;
            background: #f5f5f5;
            border: 1px solid #ddd;
            vertical-align: top;
        }
        .card-title {
            font-size: 12px;
            color: #666;
        }
        .card-value {
            font-size: 24px;
            font-weight: bold;
            margin: 5px 0;
        }
        .card-unit {
            font-size: 12px;
            color: #666;
            font-weight: normal;
        }
        .card-delta { font-size: 12px; }
        .trend-up { color: #2e7d32; }
        .trend-down { color: #c62828; }
        .trend-neutral { color: #666; }
        .table-section, .image-section, .placeholder-section {
            margin: 15px 0;
            padding: 15px;
            background: #f5f5f5;
            border: 1px solid #ddd;
        }
        .data-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 12px;
        }
        .data-table th {
            text-align: left;
            padding: 5px 8px;
            border-bottom: 2px solid #333;
        }
        .data-table td {
            padding: 4px 8px;
            border-bottom: 1px solid #eee;
        }
        .table-footer {
            margin-top: 8px;
            font-size: 11px;
            color: #666;
        }
        .image-section img { max-width: 100%; }
        .image-caption { font-size: 12px; color: #666; }
        .image-source { font-size: 11px; }
        .placeholder-message {
            padding: 20px;
            text-align: center;
            color: #999;
            font-style: italic;
        }
        .container {
            display: block !important;
            margin: 0 0 10px 0 !important;
            padding: 15px !important;
            background: #f5f5f5 !important;
            border: 1px solid #ddd !important;
            box-sizing: border-box !important;
            overflow: hidden !important;
        }
        .item { margin: 0 !important; }
        .item > div[_echarts_instance_] { width: 100% !important; }
    </style>
`
