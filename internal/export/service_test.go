package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tharindu-jay/policyscan/internal/record"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExportXLSXLayout(t *testing.T) {
	var rec record.FlatRecord
	rec.PolicyNumber = "POL-2024-00123"
	// left unnormalized on purpose; export must reformat
	rec.YearOfMake = "2018-01-05"
	rec.TotalValueInsured = "4500000"
	rec.MarketValue = "4,500,000"
	rec.PeriodFrom = "2024-04-01"
	rec.PeriodTo = "31/03/2025"
	rec.Covers = []record.CoverEntry{
		{CoverType: "Flood Cover", Amount: "250000", AdditionalInfo: "natural perils"},
	}
	rec.Proposer = record.ProposerDetails{Date: "1 Apr 2024", ProposerSignature: "John Silva"}

	data, err := NewService(nil).ExportXLSX(rec)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{
		SheetPolicyVehicle, SheetVehicleInfo, SheetCoverage, SheetProposer,
	}, f.GetSheetList())

	// sheet 1: header row and values in declared order
	v, err := f.GetCellValue(SheetPolicyVehicle, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Policy_Number", v)
	v, err = f.GetCellValue(SheetPolicyVehicle, "A2")
	require.NoError(t, err)
	assert.Equal(t, "POL-2024-00123", v)

	// sheet 2: export-time reformatting of dates and amounts
	headers, err := f.GetRows(SheetVehicleInfo)
	require.NoError(t, err)
	require.NotEmpty(t, headers)
	assert.Equal(t, record.VehicleInfoFields, headers[0])

	v, err = f.GetCellValue(SheetVehicleInfo, "D2") // Year_of_Make
	require.NoError(t, err)
	assert.Equal(t, "05/01/2018", v)
	v, err = f.GetCellValue(SheetVehicleInfo, "L2") // Market_Value, already formatted
	require.NoError(t, err)
	assert.Equal(t, "4,500,000", v)
	v, err = f.GetCellValue(SheetVehicleInfo, "N2") // Total_Value_Insured
	require.NoError(t, err)
	assert.Equal(t, "4,500,000", v)

	// sheet 3: covers in list order with formatted amounts
	v, err = f.GetCellValue(SheetCoverage, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Flood Cover", v)
	v, err = f.GetCellValue(SheetCoverage, "B2")
	require.NoError(t, err)
	assert.Equal(t, "250,000", v)

	// sheet 4: period and proposer details normalized
	v, err = f.GetCellValue(SheetProposer, "A2")
	require.NoError(t, err)
	assert.Equal(t, "01/04/2024", v)
	v, err = f.GetCellValue(SheetProposer, "C2")
	require.NoError(t, err)
	assert.Equal(t, "01/04/2024", v)
	v, err = f.GetCellValue(SheetProposer, "D2")
	require.NoError(t, err)
	assert.Equal(t, "John Silva", v)
}

func TestExportXLSXEmptyRecordIsExhaustive(t *testing.T) {
	data, err := NewService(nil).ExportXLSX(record.FlatRecord{})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	require.Equal(t, []string{
		SheetPolicyVehicle, SheetVehicleInfo, SheetCoverage, SheetProposer,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetPolicyVehicle)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, record.PolicyVehicleFields, rows[0])

	rows, err = f.GetRows(SheetCoverage)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, record.CoverageFields, rows[0])

	rows, err = f.GetRows(SheetProposer)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, record.PeriodProposerFields, rows[0])

	// the data row exists but is entirely empty
	v, err := f.GetCellValue(SheetPolicyVehicle, "A2")
	require.NoError(t, err)
	assert.Equal(t, "", v)
	v, err = f.GetCellValue(SheetVehicleInfo, "N2")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
