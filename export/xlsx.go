package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/kilianp07/school/core/course"
)

// DefaultSheet is the sheet name used when none is configured.
const DefaultSheet = "Schedule"

var xlsxHeader = []string{"Day", "Start", "End", "Weeks", "Course", "Abbreviation", "Type", "Classroom", "Teacher", "Code", "Finals"}

// XLSX writes one row per course to a single spreadsheet sheet.
type XLSX struct {
	Options
	Sheet string
}

// Export writes the workbook.
func (e *XLSX) Export(w io.Writer, courses []*course.Course) error {
	name := e.Sheet
	if name == "" {
		name = DefaultSheet
	}
	f := xlsx.NewFile()
	sh, err := f.AddSheet(name)
	if err != nil {
		return fmt.Errorf("xlsx: add sheet: %w", err)
	}

	bold := xlsx.NewStyle()
	bold.Font.Bold = true
	bold.ApplyFont = true
	row := sh.AddRow()
	for _, h := range xlsxHeader {
		cell := row.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for _, c := range courses {
		row := sh.AddRow()
		if c.Scheduled() {
			row.AddCell().SetString(c.Time.Day)
			row.AddCell().SetString(strings.TrimSpace(course.FormatHHMM(c.Time.Start)))
			row.AddCell().SetString(strings.TrimSpace(course.FormatHHMM(c.Time.End)))
			row.AddCell().SetString(c.Time.Weeks)
		} else {
			for range 4 {
				row.AddCell()
			}
		}
		row.AddCell().SetString(c.Name)
		row.AddCell().SetString(c.Abbreviation)
		row.AddCell().SetString(c.Type)
		if c.Classroom != nil {
			row.AddCell().SetString(classroomText(c.Classroom))
		} else {
			row.AddCell()
		}
		if c.Teacher != nil {
			row.AddCell().SetString(strings.Join(c.Teacher.Name, ", "))
		} else {
			row.AddCell()
		}
		row.AddCell().SetString(c.Code)
		if c.Finals != nil {
			row.AddCell().SetString(c.Finals.Date.In(e.location()).Format("2006-01-02 15:04"))
		} else {
			row.AddCell()
		}
	}
	sh.SetColWidth(1, 4, 8)
	sh.SetColWidth(5, 5, 32)
	sh.SetColWidth(8, 9, 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}
