package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	icalLocal = "20060102T150405"
	icalUTC   = "20060102T150405Z"
)

// zoneWriter formats event times so that recurrences keep their wall-clock
// time across DST changes. UTC times carry a Z suffix, time.Local produces
// floating times and any other location is written with a TZID parameter.
type zoneWriter struct {
	loc *time.Location
}

func newZoneWriter(loc *time.Location) zoneWriter {
	return zoneWriter{loc: loc}
}

func (z zoneWriter) utc() bool { return z.loc == time.UTC }

func (z zoneWriter) named() bool {
	return !z.utc() && z.loc != time.Local && z.loc.String() != "Local"
}

func (z zoneWriter) set(ev *ics.VEvent, prop ics.ComponentProperty, t time.Time) {
	switch {
	case z.utc():
		ev.SetProperty(prop, t.UTC().Format(icalUTC))
	case z.named():
		ev.SetProperty(prop, t.In(z.loc).Format(icalLocal), ics.WithTZID(z.loc.String()))
	default:
		ev.SetProperty(prop, t.In(z.loc).Format(icalLocal))
	}
}

// until formats an RRULE UNTIL: UTC unless the start is floating.
func (z zoneWriter) until(t time.Time) string {
	if z.utc() || z.named() {
		return t.UTC().Format(icalUTC)
	}
	return t.In(z.loc).Format(icalLocal)
}

// addTimezone appends a VTIMEZONE describing every offset change of the
// location between lo and hi.
func (z zoneWriter) addTimezone(cal *ics.Calendar, lo, hi time.Time) {
	tz := cal.AddTimezone(z.loc.String())
	t := lo.In(z.loc)
	start, end := t.ZoneBounds()
	if start.IsZero() {
		start = t
	}
	name, offset := start.Zone()
	tz.Components = append(tz.Components, observance(start, name, offset, offset))
	for !end.IsZero() && !end.After(hi) {
		_, prev := end.Add(-time.Second).Zone()
		name, offset := end.Zone()
		tz.Components = append(tz.Components, observance(end, name, prev, offset))
		_, end = end.ZoneBounds()
	}
}

// observance is a STANDARD or DAYLIGHT block starting at the transition at,
// whose DTSTART is expressed in the offset in force before it.
func observance(at time.Time, name string, from, to int) ics.Component {
	base := ics.ComponentBase{}
	base.SetProperty(ics.ComponentPropertyDtStart, at.In(time.FixedZone("", from)).Format(icalLocal))
	base.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), formatOffset(from))
	base.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), formatOffset(to))
	if name != "" {
		base.SetProperty(ics.ComponentProperty(ics.PropertyTzname), name)
	}
	if at.IsDST() {
		return &ics.Daylight{ComponentBase: base}
	}
	return &ics.Standard{ComponentBase: base}
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}
