package report

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"invoice-qc/internal/validate"
)

// Service produces XLSX bytes for validation reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildXLSX returns a workbook with one row per validated invoice and a
// second sheet carrying the batch summary.
func (s *Service) BuildXLSX(rep *validate.BatchReport) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const resultsSheet = "Results"
	const summarySheet = "Summary"

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(resultsSheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Invoice ID", "Valid", "Error Count", "Errors"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(resultsSheet, cell, h)
	}

	row := 2
	for _, r := range rep.Results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(resultsSheet, cell, v)
		}
		write(1, r.InvoiceID)
		write(2, r.IsValid)
		write(3, len(r.Errors))
		write(4, strings.Join(r.Errors, "; "))
		row++
	}

	sum := rep.Summary
	summaryRows := [][2]any{
		{"Total Invoices", sum.TotalInvoices},
		{"Valid Invoices", sum.ValidInvoices},
		{"Invalid Invoices", sum.InvalidInvoices},
	}
	categories := make([]string, 0, len(sum.ErrorCounts))
	for cat := range sum.ErrorCounts {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		summaryRows = append(summaryRows, [2]any{fmt.Sprintf("Errors: %s", cat), sum.ErrorCounts[cat]})
	}
	for i, pair := range summaryRows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(summarySheet, keyCell, pair[0])
		_ = f.SetCellValue(summarySheet, valCell, pair[1])
	}

	// Widen a few columns
	_ = f.SetColWidth(resultsSheet, "A", "A", 24)
	_ = f.SetColWidth(resultsSheet, "B", "C", 12)
	_ = f.SetColWidth(resultsSheet, "D", "D", 80)
	_ = f.SetColWidth(summarySheet, "A", "A", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"rows", len(rep.Results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
