// Package cron renders the weekly course notifications as crontab lines and
// keeps them inside a marked block of a system crontab file.
package cron

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/kilianp07/school/core/course"
)

const (
	BeginMarker = "# BEGINNING: course schedule crons (autogenerated, do not change)"
	EndMarker   = "# END: course schedule crons"

	// NoticeLead is how many minutes before the end of a course the
	// "next course" notification fires.
	NoticeLead = 5
)

// ErrUnterminatedBlock is returned when the begin marker has no matching end marker.
var ErrUnterminatedBlock = errors.New("crontab block has no end marker")

// Default message templates. Each template receives a MessageData.
const (
	DefaultNextTemplate = `Další předmět je <i>{{.Next.Name}} ({{.Next.Type}})</i>, který začíná <i>{{.Gap}} minut</i> po tomto` +
		`{{with .Next.Classroom}} v učebně <i>{{.Number}}</i>{{with .Floor}} ({{.}}. patro){{end}}{{end}}.`
	DefaultLastTemplate    = `Dnes již žádný další předmět není.`
	DefaultStartedTemplate = `právě začal předmět <i>{{.Course.Name}} ({{.Course.Type}})</i>.`
)

// Options control how the block is rendered.
type Options struct {
	User          string
	NotifyCommand string
	// Templates; empty ones fall back to the defaults above.
	NextTemplate    string
	LastTemplate    string
	StartedTemplate string
}

// MessageData is passed to the message templates.
type MessageData struct {
	Course *course.Course
	Next   *course.Course
	// Gap is the number of minutes between the end of Course and the start of Next.
	Gap int
}

// Expression returns the "M H * * D" expression firing weekly at the given
// minute of the week. Minutes outside the week wrap around.
func Expression(minuteOfWeek int) string {
	m := minuteOfWeek % course.MinutesPerWeek
	if m < 0 {
		m += course.MinutesPerWeek
	}
	day := m / course.MinutesPerDay
	rest := m % course.MinutesPerDay
	// cron counts Sunday as 0 and Monday as 1; Sunday is written as 7
	return fmt.Sprintf("%d %d * * %d", rest%60, rest/60, day+1)
}

type templates struct {
	next, last, started *template.Template
}

func parseTemplates(opts Options) (*templates, error) {
	parse := func(name, text, def string) (*template.Template, error) {
		if text == "" {
			text = def
		}
		t, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s message: %w", name, err)
		}
		return t, nil
	}
	var (
		ts  templates
		err error
	)
	if ts.next, err = parse("next", opts.NextTemplate, DefaultNextTemplate); err != nil {
		return nil, err
	}
	if ts.last, err = parse("last", opts.LastTemplate, DefaultLastTemplate); err != nil {
		return nil, err
	}
	if ts.started, err = parse("started", opts.StartedTemplate, DefaultStartedTemplate); err != nil {
		return nil, err
	}
	return &ts, nil
}

func execute(t *template.Template, data MessageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s message for %s: %w", t.Name(), data.Course, err)
	}
	// the body is single-quoted on the crontab line
	return strings.ReplaceAll(buf.String(), "'", "’"), nil
}

// Render returns two crontab lines per course: the "next course" message
// NoticeLead minutes before its end and the "started" message at its start.
// The courses are expected in schedule order; unscheduled ones are skipped.
func Render(courses []*course.Course, opts Options) ([]string, error) {
	ts, err := parseTemplates(opts)
	if err != nil {
		return nil, err
	}
	var scheduled []*course.Course
	for _, c := range courses {
		if c.Scheduled() {
			scheduled = append(scheduled, c)
		}
	}

	lines := make([]string, 0, 2*len(scheduled))
	for i, c := range scheduled {
		data := MessageData{Course: c}
		tmpl := ts.last
		if i+1 < len(scheduled) && strings.EqualFold(scheduled[i+1].Time.Day, c.Time.Day) {
			data.Next = scheduled[i+1]
			data.Gap = data.Next.Time.Start - c.Time.End
			tmpl = ts.next
		}
		next, err := execute(tmpl, data)
		if err != nil {
			return nil, err
		}
		started, err := execute(ts.started, data)
		if err != nil {
			return nil, err
		}
		base := c.StartOfWeek() - c.Time.Start
		lines = append(lines,
			line(Expression(base+c.Time.End-NoticeLead), opts, next),
			line(Expression(base+c.Time.Start), opts, started),
		)
	}
	return lines, nil
}

func line(expr string, opts Options, body string) string {
	return fmt.Sprintf("%s %s %s '%s'", expr, opts.User, opts.NotifyCommand, body)
}

// Splice replaces the marked block of existing with block, markers included.
// When there is no block yet it is appended. Everything outside the markers
// is kept as is.
func Splice(existing []byte, block []string) ([]byte, error) {
	var rendered bytes.Buffer
	rendered.WriteString(BeginMarker + "\n")
	for _, l := range block {
		rendered.WriteString(l + "\n")
	}
	rendered.WriteString(EndMarker + "\n")

	begin, end := -1, -1
	offset := 0
	for offset < len(existing) {
		next := bytes.IndexByte(existing[offset:], '\n')
		lineEnd := len(existing)
		if next >= 0 {
			lineEnd = offset + next + 1
		}
		text := strings.TrimSpace(string(existing[offset:lineEnd]))
		switch {
		case begin < 0 && text == BeginMarker:
			begin = offset
		case begin >= 0 && text == EndMarker:
			end = lineEnd
		}
		if end >= 0 {
			break
		}
		offset = lineEnd
	}

	var out bytes.Buffer
	switch {
	case begin < 0:
		out.Write(existing)
		if len(existing) > 0 && existing[len(existing)-1] != '\n' {
			out.WriteByte('\n')
		}
		out.Write(rendered.Bytes())
	case end < 0:
		return nil, ErrUnterminatedBlock
	default:
		out.Write(existing[:begin])
		out.Write(rendered.Bytes())
		out.Write(existing[end:])
	}
	return out.Bytes(), nil
}

// Update splices block into the crontab file at path, creating it if needed.
func Update(path string, block []string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read crontab: %w", err)
	}
	out, err := Splice(existing, block)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	mode := os.FileMode(0o644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, out, mode); err != nil {
		return fmt.Errorf("write crontab: %w", err)
	}
	return nil
}
