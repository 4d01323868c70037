package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sgovph/sgov-backend/internal/models"
)

// AttendanceSheet renders an event roster as a single-sheet workbook.
// Timestamps are rendered in loc; a nil loc falls back to UTC.
func AttendanceSheet(event models.EventWithOrg, records []models.AttendanceWithUser, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []string{"Name", "Student ID", "Department", "Check-in", "Check-out", "Status"}
	for col, h := range header {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}

	for r, rec := range records {
		row := []string{
			rec.UserName,
			orDash(rec.StudentID),
			orDash(rec.Department),
			fmtTime(rec.CheckInTime, loc),
			fmtTime(rec.CheckOutTime, loc),
			string(rec.Status),
		}
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := applyHeaderFormatting(f, sheet, len(header)); err != nil {
		return nil, err
	}
	return f, nil
}

// BuildAttendanceFilename builds a human-readable workbook filename.
func BuildAttendanceFilename(eventTitle string, date time.Time) string {
	base := fmt.Sprintf("Attendance - %s - %s.xlsx", cleanName(eventTitle), date.Format("2006-01-02"))
	return sanitizeFileName(base)
}

// applyHeaderFormatting applies a bold header row, an auto-filter, and
// heuristic column widths.
func applyHeaderFormatting(f *excelize.File, sheet string, cols int) error {
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", colName(cols)), style)
	}
	_ = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", colName(cols)), nil)

	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	widths := make([]float64, cols)
	for c := 0; c < cols; c++ {
		widths[c] = 12
	}
	for _, row := range rows {
		for c := 0; c < cols && c < len(row); c++ {
			w := float64(len(row[c])) * 1.1
			if w > 40 {
				w = 40
			}
			if w > widths[c] {
				widths[c] = w
			}
		}
	}
	for i := 0; i < cols; i++ {
		col := colName(i + 1)
		_ = f.SetColWidth(sheet, col, col, widths[i])
	}
	return nil
}

func colName(n int) string {
	// 1 -> A; 27 -> AA
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func fmtTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "—"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = invalidFileRe.ReplaceAllString(s, "_")
	return s
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "event"
	}
	return s
}
