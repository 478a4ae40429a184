// Package report renders the schedule for the terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kilianp07/school/core/course"
)

var (
	ErrInvalidOption = errors.New("invalid option")
	ErrNoCourses     = errors.New("no courses matching the criteria found")
	ErrNoFinals      = errors.New("no finals added yet")
	ErrNoAttribute   = errors.New("the course does not contain this attribute")
)

// Options are passed to every report.
type Options struct {
	// Short shows abbreviations instead of full names.
	Short bool
	Now   time.Time
	// Colors maps a course type to a lipgloss color.
	Colors map[string]string
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Filters are the options of "list courses".
var Filters = []string{"t", "tm", "mo", "tu", "we", "th", "fr", "sa", "su", "plain"}

// DayFilter returns the predicate over course weekdays selected by option, as
// seen from today. "" selects every day.
func DayFilter(option string, today int) (func(weekday int) bool, error) {
	switch option {
	case "":
		return func(int) bool { return true }, nil
	case "t":
		return func(wd int) bool { return wd == today }, nil
	case "tm":
		return func(wd int) bool { return wd == (today+1)%7 }, nil
	}
	for i, name := range course.Weekdays {
		if option == name[:2] {
			return func(wd int) bool { return wd == i }, nil
		}
	}
	return nil, fmt.Errorf("%w '%s' (choose from %s)", ErrInvalidOption, option, strings.Join(Filters, ", "))
}

type styles struct {
	r      *lipgloss.Renderer
	border lipgloss.Style
	day    lipgloss.Style
	cell   lipgloss.Style
	colors map[string]string
}

func newStyles(w io.Writer, colors map[string]string) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		r:      r,
		border: r.NewStyle().Foreground(lipgloss.Color("240")),
		day:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		cell:   r.NewStyle().Padding(0, 1),
		colors: colors,
	}
}

func (s styles) typeColor(typ string) (lipgloss.Color, bool) {
	c, ok := s.colors[typ]
	return lipgloss.Color(c), ok && c != ""
}

func newTable(s styles) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border)
}

func timeRange(t *course.Time) string {
	out := strings.TrimSpace(course.FormatHHMM(t.Start)) + " - " + strings.TrimSpace(course.FormatHHMM(t.End))
	if t.Weeks != "" {
		out += " (" + t.Weeks + ")"
	}
	return out
}

func room(r *course.Classroom) string {
	if r == nil || r.Number == "" {
		return "-"
	}
	return r.Number
}

// nextDate returns the date of the next occurrence of weekday from now.
func nextDate(now time.Time, weekday int) time.Time {
	return now.AddDate(0, 0, (weekday-course.WeekdayOf(now)+7)%7)
}

func dayTitle(day int, now time.Time) string {
	name := course.Weekdays[day]
	d := nextDate(now, day)
	return fmt.Sprintf("%s%s / %d. %d.", strings.ToUpper(name[:1]), name[1:], d.Day(), int(d.Month()))
}

// Courses writes the schedule table. courses must be in schedule order; the
// unscheduled ones are listed at the end only when option is "". The "plain"
// option writes one tab separated line per course instead.
func Courses(w io.Writer, courses []*course.Course, option string, opts Options) error {
	if option == "plain" {
		return Plain(w, courses, opts)
	}
	now := opts.now()
	keep, err := DayFilter(option, course.WeekdayOf(now))
	if err != nil {
		return err
	}
	s := newStyles(w, opts.Colors)

	var rows [][]string
	dayRows := map[int]bool{}
	types := map[int]string{}
	lastDay := -1
	for _, c := range courses {
		if !c.Scheduled() {
			continue
		}
		wd, err := c.Weekday()
		if err != nil || !keep(wd) {
			continue
		}
		if wd != lastDay {
			dayRows[len(rows)] = true
			rows = append(rows, []string{dayTitle(wd, now), "", "", ""})
			lastDay = wd
		}
		name := c.DisplayName(opts.Short)
		if c.IsOngoing(now) {
			name = "•" + name + "•"
		}
		types[len(rows)] = c.Type
		rows = append(rows, []string{name, typeInitial(c), timeRange(c.Time), room(c.Classroom)})
	}
	if option == "" {
		first := true
		for _, c := range courses {
			if c.Scheduled() {
				continue
			}
			if first {
				dayRows[len(rows)] = true
				rows = append(rows, []string{"Unscheduled", "", "", ""})
				first = false
			}
			types[len(rows)] = c.Type
			rows = append(rows, []string{c.DisplayName(opts.Short), typeInitial(c), "-", "-"})
		}
	}
	if len(rows) == 0 {
		return ErrNoCourses
	}

	t := newTable(s).Rows(rows...).StyleFunc(func(row, col int) lipgloss.Style {
		st := s.cell
		if dayRows[row] {
			return st.Inherit(s.day)
		}
		if col == 0 {
			if color, ok := s.typeColor(types[row]); ok {
				st = st.Foreground(color)
			}
		}
		return st
	})
	_, err = fmt.Fprintln(w, t.Render())
	return err
}

func typeInitial(c *course.Course) string {
	if i := c.TypeInitial(); i != "" {
		return i
	}
	return "-"
}

// Plain writes "identifier<TAB>name<TAB>type<TAB>slot" lines for scripts.
func Plain(w io.Writer, courses []*course.Course, opts Options) error {
	for _, c := range courses {
		slot := "-"
		if c.Scheduled() {
			slot = c.Time.Day + " " + timeRange(c.Time)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Identifier(), c.DisplayName(opts.Short), c.Type, slot); err != nil {
			return err
		}
	}
	return nil
}
