package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"AgentViz/src/viz"
)

// ParquetLoader reads columnar tabular data into a single table
// visualization record.
type ParquetLoader struct{}

func (l *ParquetLoader) Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	// Dynamic row reading: the schema gives both the column names and the
	// file's column order, which the table record preserves.
	schema := pf.Schema()
	columnPaths := schema.Columns()
	colNames := make([]string, len(columnPaths))
	for i, colPath := range columnPaths {
		colNames[i] = strings.Join(colPath, ".")
	}

	var rows []map[string]any
	for _, rowGroup := range pf.RowGroups() {
		rg := rowGroup.Rows()
		buffer := make([]parquet.Row, 100)

		for {
			n, err := rg.ReadRows(buffer)
			if n == 0 && err != nil {
				if err == io.EOF {
					break
				}
				rg.Close()
				return nil, err
			}

			for i := 0; i < n; i++ {
				row := buffer[i]
				rec := make(map[string]any)
				for _, v := range row {
					if v.IsNull() {
						continue // absent key renders as the empty cell
					}
					colIdx := v.Column()
					if colIdx >= 0 && colIdx < len(colNames) {
						rec[colNames[colIdx]] = convertParquetValue(v)
					}
				}
				rows = append(rows, rec)
			}

			if err == io.EOF {
				break
			}
		}
		rg.Close()
	}

	return &Payload{Visualizations: []viz.Record{tableRecord(path, colNames, rows)}}, nil
}

func convertParquetValue(v parquet.Value) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return v.String()
	default:
		return v.String()
	}
}

// TableToParquet writes a table record's raw rows to a Parquet file with a
// schema inferred from the row values. Only the projected columns are
// written, untruncated; sorting and pagination do not apply here.
func TableToParquet(rec viz.Record, path string) error {
	data, ok := rec.Data.(map[string]any)
	if !ok {
		return fmt.Errorf("record %q carries no table data", rec.ID)
	}
	cols := viz.NormalizeColumns(data["columns"])
	rows, _ := data["rows"].([]map[string]any)
	if rows == nil {
		if items, ok := data["rows"].([]any); ok {
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					rows = append(rows, m)
				}
			}
		}
	}
	if len(cols) == 0 || len(rows) == 0 {
		return fmt.Errorf("record %q has no rows to export", rec.ID)
	}

	// Build schema from the first non-nil value seen per column
	group := make(parquet.Group)
	for _, col := range cols {
		node := parquet.Node(parquet.String())
		for _, row := range rows {
			if v := row[col.Key]; v != nil {
				node = inferParquetNode(v)
				break
			}
		}
		group[col.Key] = parquet.Optional(node)
	}
	schema := parquet.NewSchema("TableExport", group)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[any](f, schema)
	for _, row := range rows {
		projected := make(map[string]any, len(cols))
		for _, col := range cols {
			projected[col.Key] = row[col.Key]
		}
		if _, err := writer.Write([]any{projected}); err != nil {
			return fmt.Errorf("failed to write parquet row: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	log.Printf("Exported table %q: %s (%d rows, %d columns)", rec.ID, path, len(rows), len(cols))
	return nil
}

// inferParquetNode maps Go values to Parquet Nodes
func inferParquetNode(v any) parquet.Node {
	switch val := v.(type) {
	case int, int32, int64:
		return parquet.Int(64)
	case float32, float64:
		return parquet.Leaf(parquet.DoubleType)
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return parquet.Int(64)
		}
		return parquet.Leaf(parquet.DoubleType)
	case bool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}
