package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/kilianp07/school/core/course"
)

// uidSpace namespaces event UIDs so that re-exports update existing events.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kilianp07/school"))

// ICS writes one weekly recurring event per scheduled course and one event
// per final exam.
type ICS struct {
	Options
	Name string
}

// Export serialises the calendar.
func (e *ICS) Export(w io.Writer, courses []*course.Course) error {
	loc := e.location()
	now := e.Now
	if now.IsZero() {
		now = time.Now()
	}
	from := e.SemesterStart
	if from.IsZero() {
		from = now.AddDate(0, 0, -course.WeekdayOf(now))
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//school//Course schedule//EN")
	if e.Name != "" {
		cal.SetXWRCalName(e.Name)
	}
	zone := newZoneWriter(loc)
	if zone.named() {
		cal.SetXWRTimezone(loc.String())
		lo, hi := e.horizon(from, courses)
		zone.addTimezone(cal, lo, hi)
	}

	for _, c := range courses {
		if c.Finals != nil {
			ev := cal.AddEvent(uid(c, "finals"))
			ev.SetDtStampTime(now)
			zone.set(ev, ics.ComponentPropertyDtStart, c.Finals.Date)
			zone.set(ev, ics.ComponentPropertyDtEnd, c.Finals.Date.Add(2*time.Hour))
			ev.SetSummary(fmt.Sprintf("Finals: %s", c.DisplayName(e.Short)))
			if room := classroomText(&c.Finals.Classroom); room != "" {
				ev.SetLocation(room)
			}
		}
		if !c.Scheduled() {
			continue
		}
		start, err := FirstOccurrence(c, from, loc)
		if err != nil {
			return fmt.Errorf("%s: %w", c, err)
		}
		interval := 1
		if c.Time.Weeks == "even" || c.Time.Weeks == "odd" {
			interval = 2
			if !MatchesParity(c, start) {
				start = start.AddDate(0, 0, 7)
			}
		}
		ev := cal.AddEvent(uid(c, "weekly"))
		ev.SetDtStampTime(now)
		zone.set(ev, ics.ComponentPropertyDtStart, start)
		zone.set(ev, ics.ComponentPropertyDtEnd, start.Add(time.Duration(c.Time.End-c.Time.Start)*time.Minute))
		ev.SetSummary(fmt.Sprintf("%s (%s)", c.DisplayName(e.Short), c.Type))
		if c.Classroom != nil {
			if room := classroomText(c.Classroom); room != "" {
				ev.SetLocation(room)
			}
		}
		if desc := description(c); desc != "" {
			ev.SetDescription(desc)
		}
		if url := c.PrimaryWebsite(); url != "" {
			ev.SetURL(url)
		}
		rule := fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d", interval)
		if !e.SemesterEnd.IsZero() {
			rule += ";UNTIL=" + zone.until(e.SemesterEnd)
		}
		ev.AddRrule(rule)
	}
	return cal.SerializeTo(w)
}

// horizon is the span the VTIMEZONE must cover: every event start plus a
// year of recurrences when the semester end is unknown.
func (e *ICS) horizon(from time.Time, courses []*course.Course) (time.Time, time.Time) {
	lo, hi := from, e.SemesterEnd
	if hi.IsZero() {
		hi = from.AddDate(1, 0, 0)
	}
	for _, c := range courses {
		if c.Finals == nil {
			continue
		}
		if c.Finals.Date.Before(lo) {
			lo = c.Finals.Date
		}
		if c.Finals.Date.After(hi) {
			hi = c.Finals.Date
		}
	}
	return lo, hi
}

func uid(c *course.Course, kind string) string {
	return uuid.NewSHA1(uidSpace, []byte(c.Identifier()+"/"+c.Name+"/"+kind)).String()
}

func classroomText(r *course.Classroom) string {
	var parts []string
	if r.Number != "" {
		parts = append(parts, r.Number)
	}
	if r.Floor != nil {
		parts = append(parts, fmt.Sprintf("floor %d", *r.Floor))
	}
	if r.Address != "" {
		parts = append(parts, r.Address)
	}
	return strings.Join(parts, ", ")
}

func description(c *course.Course) string {
	var lines []string
	if c.Teacher != nil && len(c.Teacher.Name) > 0 {
		lines = append(lines, "Teacher: "+strings.Join(c.Teacher.Name, ", "))
	}
	if c.Code != "" {
		lines = append(lines, "Code: "+c.Code)
	}
	if c.Online != "" {
		lines = append(lines, "Online: "+c.Online)
	}
	if c.Time.Weeks != "" {
		lines = append(lines, "Weeks: "+c.Time.Weeks)
	}
	return strings.Join(lines, "\n")
}
