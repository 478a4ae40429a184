// Package export writes the schedule in formats other programs understand:
// iCalendar, spreadsheets and JSON.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/school/core/course"
	"github.com/kilianp07/school/core/factory"
)

// Exporter writes courses, already in schedule order, to w.
type Exporter interface {
	Export(w io.Writer, courses []*course.Course) error
}

// Options are shared by every format.
type Options struct {
	// SemesterStart and SemesterEnd bound recurring events. A zero start
	// means the week of Now.
	SemesterStart time.Time
	SemesterEnd   time.Time
	Location      *time.Location
	Now           time.Time
	Short         bool
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// FirstOccurrence returns the first start of c on or after from, in loc.
func FirstOccurrence(c *course.Course, from time.Time, loc *time.Location) (time.Time, error) {
	wd, err := c.Weekday()
	if err != nil {
		return time.Time{}, err
	}
	from = from.In(loc)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	day = day.AddDate(0, 0, (wd-course.WeekdayOf(day)+7)%7)
	return day.Add(time.Duration(c.Time.Start) * time.Minute), nil
}

// MatchesParity reports whether t falls in a week of the course's parity.
// Courses without "even" or "odd" weeks match every week.
func MatchesParity(c *course.Course, t time.Time) bool {
	_, week := t.ISOWeek()
	switch c.Time.Weeks {
	case "even":
		return week%2 == 0
	case "odd":
		return week%2 == 1
	}
	return true
}

// NewRegistry returns the known formats, each configured with opts.
func NewRegistry(opts Options) *factory.Registry[Exporter] {
	reg := factory.NewRegistry[Exporter]()
	reg.MustRegister("ics", func(conf map[string]any) (Exporter, error) {
		var c struct {
			Name string `json:"name"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, fmt.Errorf("ics: %w", err)
		}
		return &ICS{Options: opts, Name: c.Name}, nil
	})
	reg.MustRegister("xlsx", func(conf map[string]any) (Exporter, error) {
		var c struct {
			Sheet string `json:"sheet"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		return &XLSX{Options: opts, Sheet: c.Sheet}, nil
	})
	reg.MustRegister("json", func(conf map[string]any) (Exporter, error) {
		var c struct {
			Indent string `json:"indent"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		return &JSON{Indent: c.Indent}, nil
	})
	return reg
}
