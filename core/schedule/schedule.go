// Package schedule orders courses into the weekly schedule and answers the
// "ongoing", "next" and "which course is meant" queries.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kilianp07/school/core/course"
)

// NoMatchError is returned when an identifier resolves to no course.
type NoMatchError struct {
	Token string
}

func (e *NoMatchError) Error() string {
	if e.Token == "" {
		return "no course matching the criteria"
	}
	return fmt.Sprintf("no course matching '%s'", e.Token)
}

// AmbiguousMatchError is returned when a query yields several equally valid courses.
type AmbiguousMatchError struct {
	Token      string
	Candidates []*course.Course
}

func (e *AmbiguousMatchError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	if e.Token == "" {
		return fmt.Sprintf("multiple courses matching: %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("multiple courses matching '%s': %s", e.Token, strings.Join(names, ", "))
}

// Engine answers queries over one load pass of courses.
type Engine struct {
	courses []*course.Course
}

// New returns an Engine over courses, kept in discovery order.
func New(courses []*course.Course) *Engine {
	return &Engine{courses: courses}
}

// Courses returns the courses in discovery order.
func (e *Engine) Courses() []*course.Course { return e.courses }

// Sorted returns the schedule: scheduled courses by (weekday, start), then the
// unscheduled ones when requested. Ties keep discovery order.
func (e *Engine) Sorted(includeUnscheduled bool) []*course.Course {
	out := make([]*course.Course, 0, len(e.courses))
	for _, c := range e.courses {
		if c.Scheduled() || includeUnscheduled {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Scheduled() != b.Scheduled() {
			return a.Scheduled()
		}
		if !a.Scheduled() {
			return false
		}
		return a.StartOfWeek() < b.StartOfWeek()
	})
	return out
}

// Ongoing returns every course in progress at now, in schedule order.
func (e *Engine) Ongoing(now time.Time) []*course.Course {
	var out []*course.Course
	for _, c := range e.Sorted(false) {
		if c.IsOngoing(now) {
			out = append(out, c)
		}
	}
	return out
}

// OngoingCourse returns the course in progress at now, or nil. Overlapping
// slots in the data are reported as an AmbiguousMatchError.
func (e *Engine) OngoingCourse(now time.Time) (*course.Course, error) {
	ongoing := e.Ongoing(now)
	switch len(ongoing) {
	case 0:
		return nil, nil
	case 1:
		return ongoing[0], nil
	default:
		return nil, &AmbiguousMatchError{Candidates: ongoing}
	}
}

// Distance returns the minutes from now until c next starts, modulo one week.
func Distance(now time.Time, c *course.Course) int {
	d := (c.StartOfWeek() - course.MinuteOfWeek(now)) % course.MinutesPerWeek
	if d < 0 {
		d += course.MinutesPerWeek
	}
	return d
}

// Next returns the scheduled course starting soonest from now. Ties go to the
// first course in schedule order.
func (e *Engine) Next(now time.Time) (*course.Course, bool) {
	var best *course.Course
	bestDist := course.MinutesPerWeek
	for _, c := range e.Sorted(false) {
		if d := Distance(now, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != nil
}

// Match interprets token as "<abbreviation>[-<type initial>]". Exact
// abbreviations of any course win; otherwise the token is matched as a name
// prefix of a scheduled course, ignoring case and diacritics. The type part
// must be exactly the first letter of the type.
func (e *Engine) Match(token string) []*course.Course {
	token = strings.ToLower(strings.TrimSpace(token))
	ident, typePrefix, _ := strings.Cut(token, "-")

	var byAbbr []*course.Course
	for _, c := range e.Sorted(true) {
		if strings.ToLower(c.Abbreviation) == ident && typeMatches(c, typePrefix) {
			byAbbr = append(byAbbr, c)
		}
	}
	if len(byAbbr) > 0 {
		return byAbbr
	}

	var byName []*course.Course
	prefix := fold(ident)
	for _, c := range e.Sorted(false) {
		if strings.HasPrefix(fold(c.Name), prefix) && typeMatches(c, typePrefix) {
			byName = append(byName, c)
		}
	}
	return byName
}

// Resolve maps a user-supplied identifier to courses. An empty token means the
// ongoing course, or the next one when nothing is in progress; "n" and "next"
// mean the next course.
func (e *Engine) Resolve(token string, now time.Time) ([]*course.Course, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	var out []*course.Course
	switch t {
	case "":
		out = e.Ongoing(now)
		if len(out) == 0 {
			if c, ok := e.Next(now); ok {
				out = []*course.Course{c}
			}
		}
	case "n", "next":
		if c, ok := e.Next(now); ok {
			out = []*course.Course{c}
		}
	default:
		out = e.Match(t)
	}
	if len(out) == 0 {
		return nil, &NoMatchError{Token: token}
	}
	return out, nil
}

func typeMatches(c *course.Course, initial string) bool {
	return initial == "" || initial == c.TypeInitial()
}

// fold lower-cases s and strips combining marks so that "Lineární" matches "linearni".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, cases.Fold().String(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
