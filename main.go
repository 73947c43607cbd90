package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

var (
	Version = "1.0.0"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	inputFile := flag.String("input", "", "Dataset file to process (CSV, TSV or Excel)")
	countryCol := flag.String("country-col", "", "Column holding country names")
	valueCol := flag.String("value-col", "", "Column holding numeric values")
	yearCol := flag.String("year-col", "", "Column holding the observation year")
	method := flag.String("method", "", "Aggregation method: sum, mean, max, min, latest")
	serve := flag.Bool("serve", false, "Run the web interface instead of a one-shot run")
	showHistory := flag.Bool("history", false, "Print recent processing runs and exit")
	flag.Parse()

	// .env is optional; a missing file is fine
	_ = godotenv.Load()

	config, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if pw := os.Getenv("SPATIALMAP_ADMIN_PASSWORD"); pw != "" {
		config.AdminPassword = pw
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	registry, err := LoadRegistry()
	if err != nil {
		log.Fatalf("Failed to load country registry: %v", err)
	}

	overrides, err := LoadOverrides(config.Resolver.OverridesFile)
	if err != nil {
		log.Fatalf("Failed to load overrides: %v", err)
	}

	resolver, err := NewResolver(registry, overrides, config.Resolver.FuzzyThreshold)
	if err != nil {
		log.Fatalf("Failed to build resolver: %v", err)
	}

	history, err := NewHistoryStore(config.HistoryFile)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer history.Close()

	switch {
	case *showHistory:
		records, err := history.RecentRuns(0)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		PrintHistory(records)

	case *serve:
		log.Printf("spatialmap v%s starting...", Version)
		log.Printf("Registry: %d countries loaded", registry.Len())

		sessions := NewSessionManager(config.AdminPassword)
		server := NewWebServer(config, resolver, registry, history, sessions)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start web server: %v", err)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		log.Println("spatialmap running. Press Ctrl+C to stop.")
		<-sigChan
		log.Println("Shutting down...")

	case *inputFile != "":
		if err := runOnce(config, resolver, registry, history, *inputFile,
			config.RunOptions(*countryCol, *valueCol, *yearCol, *method)); err != nil {
			log.Fatalf("%v", err)
		}

	default:
		fmt.Fprintln(os.Stderr, "Usage: spatialmap --input data.csv [flags], --serve or --history")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

// runOnce processes a single dataset file and writes every report artifact
// to the output directory
func runOnce(config *Config, resolver *Resolver, registry *Registry, history *HistoryStore, path string, opts Options) error {
	dataset, err := LoadDataset(path)
	if err != nil {
		return err
	}
	log.Printf("Loaded %s: %d rows, %d columns", dataset.Name, len(dataset.Rows), len(dataset.Columns))

	result, err := Aggregate(dataset, resolver, opts)
	if err != nil {
		return err
	}

	summary := Summarize(result.Values())

	var breaks []float64
	if summary.Count > 0 {
		breaks, err = ComputeBreaks(result.Values(), config.Legend.Classes, BinMethod(config.Legend.Method))
		if err != nil {
			log.Printf("Warning: failed to compute legend breaks: %v", err)
		}
	}

	PrintResult(result, summary, opts.ValueColumn, config.TopN)

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(dataset.Name, filepath.Ext(dataset.Name))
	out := func(suffix string) string {
		return filepath.Join(config.OutputDir, base+suffix)
	}

	if err := WriteMarkdownReport(out("_report.md"), result, summary, breaks, opts.ValueColumn, config.TopN); err != nil {
		return err
	}
	if err := WriteAnnotatedCSV(out("_resolved.csv"), result); err != nil {
		return err
	}
	if err := WriteExcelReport(out("_report.xlsx"), result); err != nil {
		return err
	}

	if summary.Count > 0 {
		if err := RenderBarChart(result, opts.ValueColumn, config.TopN, out("_top.png")); err != nil {
			log.Printf("Warning: failed to render bar chart: %v", err)
		}
		if err := RenderWorldMap(result, registry, breaks, opts.ValueColumn, out("_map.png")); err != nil {
			log.Printf("Warning: failed to render map: %v", err)
		}
	}

	if history != nil {
		if _, err := history.RecordRun(result); err != nil {
			log.Printf("Warning: failed to record run history: %v", err)
		}
	}

	log.Printf("Reports written to %s", config.OutputDir)
	return nil
}
