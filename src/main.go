package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"AgentViz/src/config"
	"AgentViz/src/export"
	"AgentViz/src/viz"
)

func main() {
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("")

	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	log.Printf("Session UUID: %s", cfg.SessionUUID)
	for _, line := range strings.Split(strings.TrimRight(cfg.String(), "\n"), "\n") {
		log.Print(line)
	}

	loader, err := export.NewPayloadLoader(cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}
	payload, err := loader.Load(cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to load payload: %v", err)
	}
	if cfg.PageSize > 0 {
		for i := range payload.Visualizations {
			if payload.Visualizations[i].Config.PageSize == 0 {
				payload.Visualizations[i].Config.PageSize = cfg.PageSize
			}
		}
	}
	log.Printf("Loaded %d visualizations (%s)", len(payload.Visualizations), export.Summarize(payload))

	switch cfg.Format {
	case "term":
		if err := export.NewTerminalExporter(os.Stdout).Export(payload); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	default:
		exporter := export.NewHTMLExporter(cfg.OutputDir)
		path, err := exporter.Export(payload)
		if err != nil {
			log.Fatalf("Failed to render dashboard: %v", err)
		}
		log.Printf("Dashboard written to %s", path)
	}

	if cfg.ExportTables {
		for _, rec := range payload.Visualizations {
			if t, ok := viz.ResolveType(rec.VizType); !ok || t != viz.TypeTable {
				continue
			}
			name := rec.ID
			if name == "" {
				name = fmt.Sprintf("table-%s", cfg.SessionUUID)
			}
			path := filepath.Join(cfg.OutputDir, name+".parquet")
			if err := export.TableToParquet(rec, path); err != nil {
				log.Printf("Warning: failed to export table %q: %v", rec.ID, err)
			}
		}
	}

	log.Println("Done.")
}
