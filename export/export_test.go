package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/kilianp07/school/core/course"
	"github.com/kilianp07/school/core/factory"
)

var (
	semesterStart = time.Date(2024, 2, 19, 0, 0, 0, 0, time.UTC)
	semesterEnd   = time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	now           = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
)

func fixture() []*course.Course {
	floor := 1
	return []*course.Course{
		{
			Name: "Linear algebra", Abbreviation: "LA", Type: "lecture",
			Classroom: &course.Classroom{Number: "T9:107", Floor: &floor},
			Teacher:   &course.Teacher{Name: []string{"Jan Novák"}},
			Time:      &course.Time{Day: "Monday", Start: 540, End: 630},
			Finals:    &course.Finals{Date: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)},
			Website:   []string{"https://example.org/la"},
		},
		{
			Name: "Linear algebra", Abbreviation: "LA", Type: "lab",
			Time: &course.Time{Day: "Wednesday", Start: 600, End: 690, Weeks: "odd"},
		},
		{Name: "Thesis", Abbreviation: "T", Type: "other"},
	}
}

func TestFirstOccurrence(t *testing.T) {
	c := fixture()[1]
	got, err := FirstOccurrence(c, semesterStart, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 21, 10, 0, 0, 0, time.UTC), got)

	_, err = FirstOccurrence(fixture()[2], semesterStart, time.UTC)
	assert.Error(t, err)
}

func TestMatchesParity(t *testing.T) {
	even := &course.Course{Time: &course.Time{Weeks: "even"}}
	odd := &course.Course{Time: &course.Time{Weeks: "odd"}}
	weekly := &course.Course{Time: &course.Time{}}
	week8 := time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC)

	assert.True(t, MatchesParity(even, week8))
	assert.False(t, MatchesParity(odd, week8))
	assert.True(t, MatchesParity(odd, week8.AddDate(0, 0, 7)))
	assert.True(t, MatchesParity(weekly, week8))
}

func TestICS(t *testing.T) {
	e := &ICS{Options: Options{SemesterStart: semesterStart, SemesterEnd: semesterEnd, Location: time.UTC, Now: now}, Name: "Spring"}
	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, fixture()))

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	finals := events[0]
	assert.Equal(t, "Finals: Linear algebra", finals.GetProperty(ics.ComponentPropertySummary).Value)

	lecture := events[1]
	start, err := lecture.GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 19, 9, 0, 0, 0, time.UTC), start.UTC())
	end, err := lecture.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, end.Sub(start))
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=1;UNTIL=20240517T000000Z", lecture.GetProperty(ics.ComponentPropertyRrule).Value)
	assert.Contains(t, lecture.GetProperty(ics.ComponentPropertyLocation).Value, "T9:107")

	// week 8 is even, the odd lab moves to the following week
	lab := events[2]
	start, err = lab.GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC), start.UTC())
	assert.Contains(t, lab.GetProperty(ics.ComponentPropertyRrule).Value, "INTERVAL=2")

	var again bytes.Buffer
	require.NoError(t, e.Export(&again, fixture()))
	cal2, err := ics.ParseCalendar(strings.NewReader(again.String()))
	require.NoError(t, err)
	for i, ev := range cal2.Events() {
		assert.Equal(t, events[i].Id(), ev.Id())
	}
}

func TestICSKeepsWallClockAcrossDST(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	e := &ICS{Options: Options{
		SemesterStart: time.Date(2024, 9, 30, 0, 0, 0, 0, prague),
		SemesterEnd:   time.Date(2025, 1, 10, 0, 0, 0, 0, prague),
		Location:      prague,
		Now:           now,
	}}
	courses := []*course.Course{{
		Name: "Linear algebra", Abbreviation: "LA", Type: "lecture",
		Time:   &course.Time{Day: "Monday", Start: 540, End: 630},
		Finals: &course.Finals{Date: time.Date(2025, 1, 20, 9, 0, 0, 0, prague)},
	}}
	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, courses))
	out := buf.String()

	assert.Contains(t, out, "DTSTART;TZID=Europe/Prague:20240930T090000")
	assert.Contains(t, out, "DTEND;TZID=Europe/Prague:20240930T103000")
	assert.Contains(t, out, "DTSTART;TZID=Europe/Prague:20250120T090000")
	assert.NotRegexp(t, `(?m)^DTSTART:\d{8}T\d{6}Z`, out)
	assert.Contains(t, out, "BEGIN:VTIMEZONE")
	assert.Contains(t, out, "TZID:Europe/Prague")
	// the 27 October 2024 switch back to CET
	assert.Contains(t, out, "DTSTART:20241027T030000")
	assert.Contains(t, out, "TZOFFSETFROM:+0200")
	assert.Contains(t, out, "TZOFFSETTO:+0100")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, cal.Timezones(), 1)
	lecture := cal.Events()[1]
	start, err := lecture.GetStartAt()
	require.NoError(t, err)
	assert.Equal(t, 9, start.In(prague).Hour())
	// a week after the switch the lecture still starts at nine
	assert.Equal(t, 9, start.AddDate(0, 0, 7*5).In(prague).Hour())
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=1;UNTIL=20250109T230000Z", lecture.GetProperty(ics.ComponentPropertyRrule).Value)
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&XLSX{Options: Options{Location: time.UTC}}).Export(&buf, fixture()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sh := f.Sheets[0]
	assert.Equal(t, DefaultSheet, sh.Name)

	cell := func(r, c int) string {
		t.Helper()
		cl, err := sh.Cell(r, c)
		require.NoError(t, err)
		return cl.Value
	}
	assert.Equal(t, "Day", cell(0, 0))
	assert.Equal(t, "Monday", cell(1, 0))
	assert.Equal(t, "9:00", cell(1, 1))
	assert.Equal(t, "10:30", cell(1, 2))
	assert.Equal(t, "Linear algebra", cell(1, 4))
	assert.Equal(t, "Jan Novák", cell(1, 8))
	assert.Equal(t, "2024-06-03 09:00", cell(1, 10))
	assert.Equal(t, "odd", cell(2, 3))
	assert.Equal(t, "", cell(3, 0))
	assert.Equal(t, "Thesis", cell(3, 4))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSON{}).Export(&buf, fixture()))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "lecture", got[0]["type"])
	assert.NotContains(t, got[2], "time")

	buf.Reset()
	require.NoError(t, (&JSON{Indent: "  "}).Export(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(Options{})
	assert.Equal(t, []string{"ics", "json", "xlsx"}, reg.Names())

	e, err := reg.Create(factory.ModuleConfig{Type: "xlsx", Conf: map[string]any{"sheet": "Week"}})
	require.NoError(t, err)
	assert.Equal(t, "Week", e.(*XLSX).Sheet)

	_, err = reg.Create(factory.ModuleConfig{Type: "json", Conf: map[string]any{"bogus": 1}})
	assert.Error(t, err)

	_, err = reg.Create(factory.ModuleConfig{Type: "pdf"})
	var unknown *factory.UnknownTypeError
	assert.ErrorAs(t, err, &unknown)
}
