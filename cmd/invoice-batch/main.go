package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"invoice-qc/constants"
	"invoice-qc/internal/batch"
	"invoice-qc/internal/common"
	"invoice-qc/internal/docsrc"
	"invoice-qc/internal/extract"
	"invoice-qc/internal/report"
	"invoice-qc/internal/validate"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir        = flag.String("dir", "", fmt.Sprintf("directory of invoice documents to process (%s; required)", strings.Join(constants.FileTypes, "/")))
		reportPath = flag.String("report", "", "output validation report JSON path (defaults to <dir>/../report.json)")
		extracted  = flag.String("extracted", "", "optional path to write extracted invoice JSON")
		xlsxPath   = flag.String("xlsx", "", "optional path to write an XLSX report")
		workers    = flag.Int("workers", 0, "concurrent extraction workers (defaults to BATCH_WORKERS)")
	)
	flag.Parse()

	// Validate required flags
	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(2)
	}
	if *reportPath == "" {
		*reportPath = filepath.Join(filepath.Dir(*dir), "report.json")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *workers <= 0 {
		*workers = cfg.Batch.Workers
	}

	ctx := context.Background()

	// Read documents
	source := docsrc.NewSource(logger, cfg.Extract.PDFToTextBin).WithExecTimeout(cfg.Batch.ExtractTimeout)
	docs, stats, err := source.ReadDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to read directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		logger.Warn("no documents found", "dir", *dir)
		os.Exit(1)
	}

	// Extract and validate
	extractor := extract.NewExtractor(logger)
	validator, err := validate.NewValidator(logger)
	if err != nil {
		logger.Error("failed to build validator", "error", err)
		os.Exit(1)
	}
	processor := batch.NewProcessor(extractor, validator, logger, batch.WithWorkers(*workers))
	rep, invoices := processor.Process(ctx, docs)

	// Write report JSON
	if err := writeJSON(*reportPath, rep); err != nil {
		logger.Error("failed to write report", "path", *reportPath, "error", err)
		os.Exit(1)
	}

	// Optionally write extracted invoices
	if *extracted != "" {
		if err := writeJSON(*extracted, invoices); err != nil {
			logger.Error("failed to write extracted invoices", "path", *extracted, "error", err)
			os.Exit(1)
		}
	}

	// Optionally write XLSX
	if *xlsxPath != "" {
		xlsxBytes, err := report.NewService(logger).BuildXLSX(rep)
		if err != nil {
			logger.Error("failed to build xlsx report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write xlsx report", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
	}

	// Log summary
	sum := rep.Summary
	logger.Info("batch run complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed_reads", stats.Failed,
		"total_invoices", sum.TotalInvoices,
		"valid", sum.ValidInvoices,
		"invalid", sum.InvalidInvoices,
		"report", *reportPath,
	)

	fmt.Printf("Batch run complete!\n")
	fmt.Printf("- Documents processed: %d\n", sum.TotalInvoices)
	fmt.Printf("- Valid: %d\n", sum.ValidInvoices)
	fmt.Printf("- Invalid: %d\n", sum.InvalidInvoices)
	for cat, n := range sum.ErrorCounts {
		fmt.Printf("  %s: %d\n", cat, n)
	}
	fmt.Printf("- Report: %s\n", *reportPath)

	// Non-zero exit when invalid invoices exist, for scripting.
	if sum.InvalidInvoices > 0 {
		os.Exit(1)
	}
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return common.WrapError(err, "create output directory")
		}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return common.WrapError(err, "marshal output")
	}
	return common.WrapError(os.WriteFile(path, append(b, '\n'), 0644), "write output")
}
