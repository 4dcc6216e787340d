package viz

import "fmt"

// RenderModel is a framework-agnostic description of what to display for a
// single Record. Exactly one of Chart, Table, Card, Image or Placeholder is
// set; Kind reports which renderer ran ("unsupported" when none matched).
// The same model can back a web page, a terminal dashboard or a document
// export.
type RenderModel struct {
	Key         string
	Kind        string
	Title       string
	Description string

	Chart       *ChartModel
	Table       *TableModel
	Card        *CardModel
	Image       *ImageModel
	Placeholder *Placeholder
}

// Placeholder is the visible degraded output for malformed or empty
// records. Operators must be able to see that something failed to render
// without the page crashing, so placeholders are part of the contract.
type Placeholder struct {
	Message string
}

// KindUnsupported marks records whose type tag resolved to no renderer.
const KindUnsupported = "unsupported"

// ImageModel carries an image reference with optional attribution.
type ImageModel struct {
	URL       string
	Caption   string
	SourceURL string
	Source    string
}

// Render dispatches a Record to its renderer by lower-cased vizType and
// returns the resulting render model. It never panics: unknown types,
// missing data and empty datasets all degrade to placeholders. Tables are
// rendered with fresh state; interactive surfaces that own sort/page state
// use RenderTable directly.
func Render(rec Record) RenderModel {
	t, ok := ResolveType(rec.VizType)
	if !ok {
		return RenderModel{
			Kind:        KindUnsupported,
			Title:       rec.Title,
			Description: rec.Description,
			Placeholder: &Placeholder{
				Message: fmt.Sprintf("unsupported visualization type: %s", rec.VizType),
			},
		}
	}

	switch t {
	case TypeBar:
		return renderBar(rec)
	case TypePie:
		return renderPie(rec)
	case TypeLine:
		return renderLine(rec, false)
	case TypeArea:
		return renderLine(rec, true)
	case TypeTable:
		return RenderTable(rec, NewTableState())
	case TypeCard:
		return renderCard(rec)
	default:
		return renderImage(rec)
	}
}

// composeOrder is the canonical bucket order for multi-record displays:
// summary numbers first, narrative charts next, raw tables last.
var composeOrder = []VizType{
	TypeCard, TypeBar, TypePie, TypeLine, TypeArea, TypeImage, TypeTable,
}

// ComposeList renders an unordered sequence of records and returns the
// models grouped by type in canonical order. Within a bucket the original
// relative order is preserved. Each record renders independently, so one
// corrupted record degrades to a placeholder without affecting siblings;
// unsupported records are emitted after the known buckets, still in input
// order.
func ComposeList(recs []Record) []RenderModel {
	return composeWith(recs, Render)
}

func composeWith(recs []Record, render func(Record) RenderModel) []RenderModel {
	buckets := make(map[VizType][]RenderModel, len(composeOrder))
	var unsupported []RenderModel

	for i, rec := range recs {
		m := render(rec)
		m.Key = recordKey(rec, i)
		t, ok := ResolveType(rec.VizType)
		if !ok {
			unsupported = append(unsupported, m)
			continue
		}
		buckets[t] = append(buckets[t], m)
	}

	out := make([]RenderModel, 0, len(recs))
	for _, t := range composeOrder {
		out = append(out, buckets[t]...)
	}
	return append(out, unsupported...)
}

// recordKey returns the record's stable identifier, synthesizing one from
// the input position when the agent supplied none.
func recordKey(rec Record, i int) string {
	if rec.ID != "" {
		return rec.ID
	}
	return fmt.Sprintf("viz-%d", i)
}

// renderImage projects an image record. Records with neither an imageUrl
// nor inline content degrade to a placeholder.
func renderImage(rec Record) RenderModel {
	m := asMap(rec.Data)
	url := firstNonEmpty(getString(m, "imageUrl"), getString(m, "content"))
	if url == "" {
		return placeholderModel(rec, string(TypeImage), "No image available")
	}
	return RenderModel{
		Kind:        string(TypeImage),
		Title:       rec.Title,
		Description: rec.Description,
		Image: &ImageModel{
			URL:       url,
			Caption:   getString(m, "caption"),
			SourceURL: getString(m, "sourceUrl"),
			Source:    getString(m, "source"),
		},
	}
}

func placeholderModel(rec Record, kind, msg string) RenderModel {
	return RenderModel{
		Kind:        kind,
		Title:       rec.Title,
		Description: rec.Description,
		Placeholder: &Placeholder{Message: msg},
	}
}
