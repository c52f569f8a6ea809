package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vaxreg/internal/vaccination/models"
)

func TestWriteWorkbook(t *testing.T) {
	rows := []models.CenterDoses{
		{CenterID: "C001", CenterName: "City Hospital", Doses: 4},
		{CenterID: "C002", CenterName: "Health Clinic", Doses: 0},
		{CenterID: "C404", Doses: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Center ID", "Center Name", "Doses"},
		{"C001", "City Hospital", "4"},
		{"C002", "Health Clinic", "0"},
		{"C404", "", "1"},
	}, got)

	v, err := f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "4", v)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, got)
}
