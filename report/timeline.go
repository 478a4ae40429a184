package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kilianp07/school/core/course"
)

const (
	timelineStart = 9 * 60
	timelineEnd   = 21 * 60
	// one character per slot
	timelineSlot = 10
)

// Timeline draws one line per weekday with every course as a bracketed block
// positioned by its start and end. Courses are expected in schedule order.
func Timeline(w io.Writer, courses []*course.Course, opts Options) error {
	width := (timelineEnd - timelineStart) / timelineSlot

	var header strings.Builder
	for m := timelineStart; m < timelineEnd; m += 60 {
		fmt.Fprintf(&header, "%6s", strings.TrimSpace(course.FormatHHMM(m)))
	}

	var lines []string
	var line strings.Builder
	cursor := timelineStart
	lastDay := -1
	flush := func() {
		lines = append(lines, padRight(line.String(), width))
		line.Reset()
	}
	for _, c := range courses {
		wd, err := c.Weekday()
		if err != nil {
			continue
		}
		if wd != lastDay {
			if lastDay >= 0 {
				flush()
			}
			lastDay = wd
			cursor = timelineStart
		}
		start := max(c.Time.Start, cursor)
		line.WriteString(strings.Repeat(" ", (start-cursor)/timelineSlot))
		line.WriteString(block(c.DisplayName(true), (c.Time.End-start)/timelineSlot))
		cursor = max(cursor, c.Time.End)
	}
	if lastDay < 0 {
		return ErrNoCourses
	}
	flush()

	s := newStyles(w, opts.Colors)
	body := header.String() + "\n" + strings.Repeat("─", max(width, lipgloss.Width(header.String()))) + "\n" + strings.Join(lines, "\n")
	box := s.r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	_, err := fmt.Fprintln(w, box.Render(body))
	return err
}

// block renders "(abbr)" centred in n characters, truncating abbr when the
// course is too short for it.
func block(abbr string, n int) string {
	r := []rune(abbr)
	inner := max(n-2, 0)
	if len(r) > inner {
		r = r[:inner]
	}
	pad := inner - len(r)
	return "(" + strings.Repeat(" ", pad/2) + string(r) + strings.Repeat(" ", pad-pad/2) + ")"
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
