// Package report renders the doses-per-center summary as an xlsx workbook
// with a table and a column chart.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vaxreg/internal/vaccination/models"
)

const (
	SheetName  = "Doses"
	ChartTitle = "Doses per Center"
)

// Header is the first row of the table.
var Header = []string{"Center ID", "Center Name", "Doses"}

var columnWidths = []float64{14, 28, 10}

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook renders rows and writes the workbook to w. The chart is
// omitted when there are no rows.
func WriteWorkbook(w io.Writer, rows []models.CenterDoses) error {
	f, err := Build(rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build creates the workbook in memory. The caller closes it.
func Build(rows []models.CenterDoses) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeTable(f, rows); err != nil {
		f.Close()
		return nil, err
	}
	if len(rows) > 0 {
		if err := addChart(f, len(rows)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, rows []models.CenterDoses) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.CenterID, r.CenterName, r.Doses}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}

func addChart(f *excelize.File, n int) error {
	lastRow := n + 1
	err := f.AddChart(SheetName, "E2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$C$1", SheetName),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetName, lastRow),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", SheetName, lastRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: ChartTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Center ID"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Number of Doses"}}},
	})
	if err != nil {
		return fmt.Errorf("add chart: %w", err)
	}
	return nil
}
