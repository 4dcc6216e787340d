package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"AgentViz/src/viz"
)

func TestNewPayloadLoader(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"response.json", false},
		{"response.jsonl", false},
		{"data.csv", false},
		{"data.tsv", false},
		{"data.parquet", false},
		{"data.xml", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := NewPayloadLoader(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewPayloadLoader(%q) error = %v; wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestParsePayload_Envelope(t *testing.T) {
	input := `{
		"agent": "market",
		"generatedAt": "2026-08-20",
		"visualizations": [
			{"id": "rev", "vizType": "card", "data": {"value": 1500}}
		]
	}`
	p, err := ParsePayload(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if p.Agent != "market" {
		t.Errorf("agent = %q", p.Agent)
	}
	if len(p.Visualizations) != 1 {
		t.Fatalf("got %d records", len(p.Visualizations))
	}

	data := p.Visualizations[0].Data.(map[string]any)
	if v, ok := data["value"].(int64); !ok || v != 1500 {
		t.Errorf("value = %v (%T); want int64 1500", data["value"], data["value"])
	}
}

func TestParsePayload_BareList(t *testing.T) {
	input := `[
		{"vizType": "bar", "data": [{"name": "a", "value": 1.5}]},
		{"vizType": "card", "data": {"value": 2}}
	]`
	p, err := ParsePayload(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if len(p.Visualizations) != 2 {
		t.Fatalf("got %d records; want 2", len(p.Visualizations))
	}

	rows := p.Visualizations[0].Data.([]any)
	row := rows[0].(map[string]any)
	if v, ok := row["value"].(float64); !ok || v != 1.5 {
		t.Errorf("value = %v (%T); want float64 1.5", row["value"], row["value"])
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	if _, err := ParsePayload(strings.NewReader(`{not json`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestJSONLLoader_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	content := `{"id": "a", "vizType": "card", "data": {"value": 1}}
this line is not json
{"id": "b", "vizType": "card", "data": {"value": 2}}

{"id": "c", "vizType": "table"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := (&JSONLLoader{}).Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Visualizations) != 3 {
		t.Fatalf("got %d records; want 3 (malformed and blank lines skipped)", len(p.Visualizations))
	}
	if p.Visualizations[1].ID != "b" {
		t.Errorf("second record = %q; want b", p.Visualizations[1].ID)
	}
}

func TestCSVLoader_BuildsTableRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	content := "drug,phase,enrollment\naspirin,III,4500\nnovodrug,II,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := (&CSVLoader{delimiter: ','}).Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Visualizations) != 1 {
		t.Fatalf("got %d records; want 1", len(p.Visualizations))
	}

	rec := p.Visualizations[0]
	if rec.VizType != string(viz.TypeTable) {
		t.Errorf("vizType = %q; want table", rec.VizType)
	}
	if rec.ID != "trials" {
		t.Errorf("id = %q; want trials", rec.ID)
	}

	data := rec.Data.(map[string]any)
	cols := data["columns"].([]any)
	if len(cols) != 3 || cols[0] != "drug" {
		t.Errorf("columns = %v", cols)
	}
	rows := data["rows"].([]map[string]any)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if v, ok := rows[0]["enrollment"].(int64); !ok || v != 4500 {
		t.Errorf("enrollment = %v (%T); want int64 4500", rows[0]["enrollment"], rows[0]["enrollment"])
	}
	if rows[1]["enrollment"] != nil {
		t.Errorf("empty cell = %v; want nil", rows[1]["enrollment"])
	}

	// The loaded record must render through the standard table path
	m := viz.Render(rec)
	if m.Table == nil {
		t.Fatal("loaded CSV record did not render as a table")
	}
	if m.Table.TotalRows != 2 {
		t.Errorf("rendered rows = %d", m.Table.TotalRows)
	}
}

func TestParseCSVValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"4500", int64(4500)},
		{"3.14", 3.14},
		{"Phase III", "Phase III"},
		{"", nil},
		{"  ", nil},
		// Trailing text means the cell is not a number; keep it whole
		{"12abc", "12abc"},
		{"3.14mg", "3.14mg"},
		{"NCT01234567", "NCT01234567"},
	}
	for _, tt := range tests {
		if got := parseCSVValue(tt.in); got != tt.want {
			t.Errorf("parseCSVValue(%q) = %v (%T); want %v", tt.in, got, got, tt.want)
		}
	}
}
