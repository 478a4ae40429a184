package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kilianp07/school/core/course"
)

// DaysUntil returns "done" for past dates, otherwise the number of started
// days until date counting today.
func DaysUntil(now, date time.Time) string {
	d := date.Sub(now)
	if d < 0 {
		return "done"
	}
	return fmt.Sprintf("%d days", int(d.Hours()/24)+1)
}

// Finals writes the final exams ordered by date.
func Finals(w io.Writer, courses []*course.Course, opts Options) error {
	var finals []*course.Course
	for _, c := range courses {
		if c.Finals != nil {
			finals = append(finals, c)
		}
	}
	if len(finals) == 0 {
		return ErrNoFinals
	}
	sort.SliceStable(finals, func(i, j int) bool {
		return finals[i].Finals.Date.Before(finals[j].Finals.Date)
	})

	now := opts.now()
	rows := make([][]string, 0, len(finals))
	for _, c := range finals {
		f := c.Finals
		date := f.Date.In(now.Location())
		floor := "-"
		if f.Classroom.Floor != nil {
			floor = strconv.Itoa(*f.Classroom.Floor)
		}
		rows = append(rows, []string{
			c.DisplayName(opts.Short),
			fmt.Sprintf("%d. %d. %d", date.Day(), int(date.Month()), date.Year()),
			date.Format("15:04"),
			DaysUntil(now, f.Date),
			room(&f.Classroom),
			floor,
		})
	}

	s := newStyles(w, opts.Colors)
	t := newTable(s).
		Headers("Finals!", "Date", "Time", "Due", "Room", "Floor").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return s.cell.Inherit(s.day)
			}
			if rows[row][3] == "done" {
				return s.cell.Faint(true)
			}
			return s.cell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
