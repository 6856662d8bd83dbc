package export

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	recapSheet       = "Rekap Absensi"
	recapHeaderRow   = 4
)

var recapHeaders = []string{"ID", "Nama", "Jabatan", "Hadir", "Telat", "Izin/Sakit", "Alpha", "Total Catatan"}

// BranchRecapExcel renders a branch recap as an xlsx workbook.
func BranchRecapExcel(r report.BranchRecap) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recapSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create period style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(recapHeaders))

	f.SetCellValue(recapSheet, "A1", "REKAP ABSENSI - "+strings.ToUpper(r.BranchName))
	f.MergeCell(recapSheet, "A1", lastCol+"1")
	f.SetCellStyle(recapSheet, "A1", lastCol+"1", titleStyle)
	f.SetRowHeight(recapSheet, 1, 25)

	f.SetCellValue(recapSheet, "A2", "Periode: "+r.PeriodLabel)
	f.MergeCell(recapSheet, "A2", lastCol+"2")
	f.SetCellStyle(recapSheet, "A2", lastCol+"2", centered)

	for i, h := range recapHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, recapHeaderRow)
		f.SetCellValue(recapSheet, cell, h)
	}
	f.SetCellStyle(recapSheet, fmt.Sprintf("A%d", recapHeaderRow), fmt.Sprintf("%s%d", lastCol, recapHeaderRow), headerStyle)

	for i, row := range r.Rows {
		values := []interface{}{row.UserID, row.Name, string(row.Role), row.Hadir, row.Telat, row.Izin, row.Alpha, row.TotalRecords}
		cell, _ := excelize.CoordinatesToCellName(1, recapHeaderRow+1+i)
		if err := f.SetSheetRow(recapSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", row.UserID, err)
		}
	}

	f.SetColWidth(recapSheet, "A", "A", 38)
	f.SetColWidth(recapSheet, "B", "B", 25)
	f.SetColWidth(recapSheet, "C", "C", 15)
	f.SetColWidth(recapSheet, "D", "G", 10)
	f.SetColWidth(recapSheet, "H", "H", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
