package viz

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection orders table rows ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Page size bounds. The cap exists to bound render cost when an agent
// asks for an absurd page.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const emptyTableMessage = "No data available for table"

// TableState is the only record-scoped mutable state in the engine. It is
// owned by the rendering surface, not the record, and every view is a pure
// recomputation from the full row set against it.
type TableState struct {
	Page    int
	SortKey string
	SortDir SortDirection
}

// NewTableState returns the initial state: first page, unsorted.
func NewTableState() TableState {
	return TableState{Page: 0, SortDir: SortAsc}
}

// SortBy applies the header-click transition: clicking the active key
// flips direction, clicking a different key switches to it ascending.
// The page index is deliberately left alone; resetting it on sort would
// lose the reader's position.
func (s TableState) SortBy(key string) TableState {
	if key == s.SortKey {
		if s.SortDir == SortAsc {
			s.SortDir = SortDesc
		} else {
			s.SortDir = SortAsc
		}
		return s
	}
	s.SortKey = key
	s.SortDir = SortAsc
	return s
}

// ChangePage clamps the requested page into the valid range for the given
// total, so a stale index never renders an empty page after rows shrink.
func (s TableState) ChangePage(page, totalPages int) TableState {
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case page < 0:
		s.Page = 0
	case page > totalPages-1:
		s.Page = totalPages - 1
	default:
		s.Page = page
	}
	return s
}

// Column is a resolved table column descriptor.
type Column struct {
	Key   string
	Label string
	Type  ValueType
}

// NormalizeColumns resolves raw column descriptors, which may be bare
// field-name strings or {key, label, type} maps. Descriptors without a
// resolvable non-empty key are dropped.
func NormalizeColumns(raw any) []Column {
	items, ok := raw.([]any)
	if !ok {
		// Already-typed descriptor lists from Go callers
		if strs, ok := raw.([]string); ok {
			items = make([]any, len(strs))
			for i, s := range strs {
				items[i] = s
			}
		} else if maps, ok := raw.([]map[string]any); ok {
			items = make([]any, len(maps))
			for i, m := range maps {
				items[i] = m
			}
		}
	}

	var cols []Column
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				cols = append(cols, Column{Key: v, Label: FormatLabel(v), Type: ValueNumber})
			}
		case map[string]any:
			key := getString(v, "key")
			if key == "" {
				continue
			}
			label := getString(v, "label")
			if label == "" {
				label = FormatLabel(key)
			}
			cols = append(cols, Column{
				Key:   key,
				Label: label,
				Type:  ParseValueType(getString(v, "type")),
			})
		}
	}
	return cols
}

// collator backs locale string comparison during sorting.
var collator = collate.New(language.English)

// SortRows returns a stably sorted copy of rows by the given key. Two
// numeric values compare numerically, everything else compares as locale
// strings. Nil and missing values always order last regardless of
// direction; the tie-break is deliberate and does not mirror between
// ascending and descending. An empty key returns the rows unchanged.
func SortRows(rows []map[string]any, key string, dir SortDirection) []map[string]any {
	out := make([]map[string]any, len(rows))
	copy(out, rows)
	if key == "" {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i][key], out[j][key]
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return false // nulls last
		}
		if b == nil {
			return true
		}

		var c int
		fa, aok := toFloat64(a)
		fb, bok := toFloat64(b)
		if aok && bok {
			switch {
			case fa < fb:
				c = -1
			case fa > fb:
				c = 1
			}
		} else {
			c = collator.CompareString(valueString(a), valueString(b))
		}

		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Page describes one pagination window over a row set.
type Page struct {
	Index      int
	Start      int
	End        int
	TotalPages int
	PageSize   int
}

// Paginate computes the clamped page window for rowCount rows. Page size
// defaults and is capped; the requested index is clamped into
// [0, totalPages-1] so it stays valid as the row set shrinks.
func Paginate(rowCount, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	totalPages := (rowCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	start := page * pageSize
	if start > rowCount {
		start = rowCount
	}
	end := start + pageSize
	if end > rowCount {
		end = rowCount
	}
	return Page{Index: page, Start: start, End: end, TotalPages: totalPages, PageSize: pageSize}
}

// Cell is one rendered table cell: truncated display text plus the full
// value so fidelity is only elided, never destroyed.
type Cell struct {
	Display string
	Full    string
}

// TableModel is the render model for one page of a sorted table.
type TableModel struct {
	Columns    []Column
	Rows       [][]Cell
	Page       int
	TotalPages int
	TotalRows  int
	SortKey    string
	SortDir    SortDirection
}

// RenderTable projects a table record through the given state: normalize
// columns, sort the full row set, paginate, format cells. Rows without any
// resolvable columns render the table empty state. Cells whose key is
// absent from the row render as an em-dash.
func RenderTable(rec Record, state TableState) RenderModel {
	data := asMap(rec.Data)
	cols := NormalizeColumns(data["columns"])
	rows := asRecordSlice(data["rows"])
	if len(cols) == 0 || len(rows) == 0 {
		return placeholderModel(rec, string(TypeTable), emptyTableMessage)
	}

	sorted := SortRows(rows, state.SortKey, state.SortDir)
	page := Paginate(len(sorted), state.Page, rec.Config.PageSize)

	model := &TableModel{
		Columns:    cols,
		Page:       page.Index,
		TotalPages: page.TotalPages,
		TotalRows:  len(sorted),
		SortKey:    state.SortKey,
		SortDir:    state.SortDir,
	}
	for _, row := range sorted[page.Start:page.End] {
		cells := make([]Cell, len(cols))
		for i, col := range cols {
			v, ok := row[col.Key]
			if !ok || v == nil {
				cells[i] = Cell{Display: EmDash, Full: EmDash}
				continue
			}
			full := FormatValue(v, col.Type)
			cells[i] = Cell{Display: Truncate(full, TruncateCell), Full: full}
		}
		model.Rows = append(model.Rows, cells)
	}

	return RenderModel{
		Kind:        string(TypeTable),
		Title:       rec.Title,
		Description: rec.Description,
		Table:       model,
	}
}
