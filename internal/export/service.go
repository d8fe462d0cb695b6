// Package export serializes a reviewed record into the fixed four-sheet XLSX
// workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tharindu-jay/policyscan/internal/format"
	"github.com/tharindu-jay/policyscan/internal/record"
)

// Filename is the artifact name offered for download.
const Filename = "insurance_details.xlsx"

// Sheet names, in workbook order.
const (
	SheetPolicyVehicle = "Policy & Vehicle Details"
	SheetVehicleInfo   = "Vehicle Information"
	SheetCoverage      = "Insurance Coverage"
	SheetProposer      = "Policy & Proposer"
)

// Service produces XLSX bytes for a flat record.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportXLSX renders the record into a four-sheet workbook. Sheet and column
// order are fixed and exhaustive; every declared field appears even when
// empty. Date and amount fields are reformatted at export time so edits that
// bypassed the mapper still come out normalized (both formatters are no-ops
// on already-correct input). All cells are written as text.
func (s *Service) ExportXLSX(rec record.FlatRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	// excelize seeds a workbook with "Sheet1"; rename it into the first
	// sheet so the final order is exactly the declared one.
	if err := f.SetSheetName("Sheet1", SheetPolicyVehicle); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	for _, sheet := range []string{SheetVehicleInfo, SheetCoverage, SheetProposer} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
	}

	writeCell := func(sheet string, col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellStr(sheet, cell, v)
	}

	// Sheet 1: policy & vehicle fields, copied as edited.
	for i, field := range record.PolicyVehicleFields {
		if err := writeCell(SheetPolicyVehicle, i+1, 1, field); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		v, _ := rec.Field(field)
		if err := writeCell(SheetPolicyVehicle, i+1, 2, v); err != nil {
			return nil, fmt.Errorf("write cell: %w", err)
		}
	}

	// Sheet 2: vehicle information with dates and amounts re-normalized.
	for i, field := range record.VehicleInfoFields {
		if err := writeCell(SheetVehicleInfo, i+1, 1, field); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		v, _ := rec.Field(field)
		switch field {
		case "Year_of_Make", "First_Registration_Date":
			v = format.NormalizeDate(v)
		case "Market_Value", "Extra_Fittings_Value", "Total_Value_Insured":
			v = format.FormatNumeric(v)
		}
		if err := writeCell(SheetVehicleInfo, i+1, 2, v); err != nil {
			return nil, fmt.Errorf("write cell: %w", err)
		}
	}

	// Sheet 3: one row per cover, amounts re-normalized.
	for i, field := range record.CoverageFields {
		if err := writeCell(SheetCoverage, i+1, 1, field); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for i, cover := range rec.Covers {
		row := i + 2
		if err := writeCell(SheetCoverage, 1, row, cover.CoverType); err != nil {
			return nil, fmt.Errorf("write cover: %w", err)
		}
		if err := writeCell(SheetCoverage, 2, row, format.FormatNumeric(cover.Amount)); err != nil {
			return nil, fmt.Errorf("write cover: %w", err)
		}
		if err := writeCell(SheetCoverage, 3, row, cover.AdditionalInfo); err != nil {
			return nil, fmt.Errorf("write cover: %w", err)
		}
	}

	// Sheet 4: period and proposer details, dates re-normalized.
	for i, field := range record.PeriodProposerFields {
		if err := writeCell(SheetProposer, i+1, 1, field); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	proposerRow := []string{
		format.NormalizeDate(rec.PeriodFrom),
		format.NormalizeDate(rec.PeriodTo),
		format.NormalizeDate(rec.Proposer.Date),
		rec.Proposer.ProposerSignature,
	}
	for i, v := range proposerRow {
		if err := writeCell(SheetProposer, i+1, 2, v); err != nil {
			return nil, fmt.Errorf("write cell: %w", err)
		}
	}

	// Widen the busier columns.
	_ = f.SetColWidth(SheetPolicyVehicle, "A", "M", 18)
	_ = f.SetColWidth(SheetVehicleInfo, "A", "N", 18)
	_ = f.SetColWidth(SheetCoverage, "A", "C", 24)
	_ = f.SetColWidth(SheetProposer, "A", "D", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"covers", len(rec.Covers),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
