package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"AgentViz/src/viz"
)

// Payload is one agent response: a batch of visualization records plus
// optional envelope metadata.
type Payload struct {
	Agent          string       `json:"agent,omitempty"`
	GeneratedAt    string       `json:"generatedAt,omitempty"`
	Visualizations []viz.Record `json:"visualizations"`
}

// PayloadLoader reads an agent payload from a file.
type PayloadLoader interface {
	Load(path string) (*Payload, error)
}

// NewPayloadLoader creates a loader for the file's format, keyed by
// extension. JSON and JSONL carry full visualization records; CSV and
// Parquet carry bare tabular data and load as a single table record.
func NewPayloadLoader(path string) (PayloadLoader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return &JSONLoader{}, nil
	case ".jsonl":
		return &JSONLLoader{}, nil
	case ".csv":
		return &CSVLoader{delimiter: ','}, nil
	case ".tsv":
		return &CSVLoader{delimiter: '\t'}, nil
	case ".parquet":
		return &ParquetLoader{}, nil
	default:
		return nil, fmt.Errorf("unknown payload format: %s (supported: json, jsonl, csv, tsv, parquet)", ext)
	}
}

// =============================================================================
// JSON Loader
// =============================================================================

// JSONLoader reads a payload that is either an envelope
// {"agent": ..., "visualizations": [...]} or a bare record list.
type JSONLoader struct{}

func (l *JSONLoader) Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload file: %w", err)
	}
	defer f.Close()
	return ParsePayload(f)
}

// ParsePayload decodes a JSON payload from r, accepting both the envelope
// and bare-list shapes.
func ParsePayload(r io.Reader) (*Payload, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var recs []viz.Record
		if err := unmarshalNumbered(raw, &recs); err != nil {
			return nil, fmt.Errorf("failed to decode record list: %w", err)
		}
		return normalizePayload(&Payload{Visualizations: recs}), nil
	}

	var p Payload
	if err := unmarshalNumbered(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode payload envelope: %w", err)
	}
	return normalizePayload(&p), nil
}

// unmarshalNumbered decodes with UseNumber so large integers survive.
func unmarshalNumbered(raw json.RawMessage, v any) error {
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	return decoder.Decode(v)
}

// normalizePayload walks each record's data, collapsing json.Number values
// into int64/float64 for the renderers.
func normalizePayload(p *Payload) *Payload {
	for i := range p.Visualizations {
		p.Visualizations[i].Data = convertJSONNumbers(p.Visualizations[i].Data)
	}
	return p
}

func convertJSONNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, v := range val {
			val[k] = convertJSONNumbers(v)
		}
		return val
	case []any:
		for i, v := range val {
			val[i] = convertJSONNumbers(v)
		}
		return val
	}
	return v
}

// =============================================================================
// JSONL Loader
// =============================================================================

// JSONLLoader reads one visualization record per line. Malformed lines are
// skipped with a warning rather than failing the batch, matching the
// engine's per-record isolation.
type JSONLLoader struct{}

func (l *JSONLLoader) Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL file: %w", err)
	}
	defer f.Close()

	p := &Payload{}
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec viz.Record
		decoder := json.NewDecoder(strings.NewReader(line))
		decoder.UseNumber()
		if err := decoder.Decode(&rec); err != nil {
			log.Printf("Warning: skipping malformed JSONL line %d: %v", lineNum, err)
			continue
		}
		rec.Data = convertJSONNumbers(rec.Data)
		p.Visualizations = append(p.Visualizations, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading JSONL file: %w", err)
	}
	return p, nil
}

// =============================================================================
// CSV/TSV Loader
// =============================================================================

// CSVLoader reads tabular data into a single table visualization record.
// Columns come from the header in file order.
type CSVLoader struct {
	delimiter rune
}

func (l *CSVLoader) Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = l.delimiter
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows []map[string]any
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		rec := make(map[string]any, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = parseCSVValue(row[i])
			}
		}
		rows = append(rows, rec)
	}

	return &Payload{Visualizations: []viz.Record{tableRecord(path, header, rows)}}, nil
}

// parseCSVValue types a raw cell: whole-string integers and floats become
// numbers, anything with trailing text stays a string so no data is lost.
func parseCSVValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// tableRecord wraps bare tabular rows in a table visualization record
// titled after the source file.
func tableRecord(path string, columns []string, rows []map[string]any) viz.Record {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	base := filepath.Base(path)
	return viz.Record{
		ID:      strings.TrimSuffix(base, filepath.Ext(base)),
		VizType: string(viz.TypeTable),
		Title:   base,
		Data: map[string]any{
			"columns": cols,
			"rows":    rows,
		},
	}
}
