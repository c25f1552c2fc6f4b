package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/crimecard/intake/internal/repository"
)

// Service is a tiny façade over the report repository that produces XLSX
// bytes for exports.
type Service struct {
	reports repository.ReportRepository
	logger  *slog.Logger
}

func NewService(reports repository.ReportRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reports: reports, logger: logger}
}

// ExportReportsXLSX returns an XLSX workbook (as bytes) with all incident
// records, newest first.
func (s *Service) ExportReportsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Reports"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Created At",
		"Source",
		"Input Method",
		"Classification",
		"Severity",
		"Headline",
		"Summary",
		"Locations",
		"Persons",
		"Weapons",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.CreatedAt.Format("2006-01-02 15:04:05"))
		write(2, r.Source)
		write(3, string(r.InputMethod))
		write(4, r.Classification)
		write(5, r.SeverityScore)
		write(6, r.Headline)
		write(7, truncate(r.Summary, 140))
		write(8, strings.Join(r.Entities.Locations, "; "))
		write(9, strings.Join(r.Entities.Persons, "; "))
		write(10, strings.Join(r.Entities.Weapons, "; "))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 20) // created at
	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "D", 18) // classification
	_ = f.SetColWidth(sheet, "F", "G", 48) // headline, summary
	_ = f.SetColWidth(sheet, "H", "J", 28) // entity columns

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate shortens s to at most n runes, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
