package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"classtrack/internal/attendance"
)

// Header is the fixed export column set, in order.
var Header = []string{"Date", "Student Name", "Roll No", "Status"}

// Rows projects records into export cells; exported rows equal the
// filtered rows in order.
func Rows(records []attendance.EnrichedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := "Absent"
		if rec.Present {
			status = "Present"
		}
		rows = append(rows, []string{rec.Date, rec.StudentName, rec.RollNo, status})
	}
	return rows
}

// WritePDF renders the records as a paginated A4 table.
func WritePDF(w io.Writer, title string, records []attendance.EnrichedRecord) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(40, 40, 40)
	pdf.Cell(0, 10, title)
	pdf.Ln(14)

	widths := []float64{35, 75, 35, 35}

	header := func() {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(22, 160, 133)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range Header {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(40, 40, 40)
	}
	header()

	for i, row := range Rows(records) {
		// keep the header with at least one row on each page
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		fill := i%2 == 1
		pdf.SetFillColor(240, 240, 240)
		for j, cell := range row {
			pdf.CellFormat(widths[j], 7, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// WriteXLSX renders the records as a single-sheet workbook with a bold,
// filterable header row and heuristic column widths.
func WriteXLSX(w io.Writer, sheet string, records []attendance.EnrichedRecord) error {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, h := range Header {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(Header)) + "1"
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	rows := Rows(records)
	for r, row := range rows {
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// width heuristic from header and the first rows
	for c := 1; c <= len(Header); c++ {
		maxim := len(Header[c-1])
		for r := 0; r < minim(50, len(rows)); r++ {
			if l := len(rows[r][c-1]); l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheet, colName(c), colName(c), w)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return f.Close()
}

// colName converts a 1-based column index to its letter form (1 -> A, 27 -> AA).
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
