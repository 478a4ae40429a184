package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/school/core/course"
)

// Monday 4 March 2024, 9:30
var monday = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func fixture() []*course.Course {
	floor := 2
	return []*course.Course{
		{Name: "Linear algebra", Abbreviation: "LA", Type: "lecture",
			Time:      &course.Time{Day: "Monday", Start: 540, End: 630},
			Classroom: &course.Classroom{Number: "T9:107"},
			Finals:    &course.Finals{Date: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), Classroom: course.Classroom{Number: "T9:105", Floor: &floor}}},
		{Name: "Linear algebra", Abbreviation: "LA", Type: "lab",
			Time: &course.Time{Day: "Monday", Start: 660, End: 750, Weeks: "even"}},
		{Name: "Programming", Abbreviation: "PRG", Type: "lecture",
			Time:   &course.Time{Day: "Tuesday", Start: 720, End: 810},
			Finals: &course.Finals{Date: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}},
		{Name: "Thesis", Abbreviation: "T", Type: "other"},
	}
}

func TestDayFilter(t *testing.T) {
	tests := []struct {
		option string
		today  int
		match  int
		miss   int
	}{
		{"", 0, 5, -1},
		{"t", 2, 2, 3},
		{"tm", 6, 0, 6},
		{"mo", 3, 0, 3},
		{"su", 0, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			keep, err := DayFilter(tt.option, tt.today)
			require.NoError(t, err)
			assert.True(t, keep(tt.match))
			if tt.miss >= 0 {
				assert.False(t, keep(tt.miss))
			}
		})
	}

	_, err := DayFilter("xx", 0)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestCourses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Courses(&buf, fixture(), "", Options{Now: monday}))
	out := buf.String()
	assert.Contains(t, out, "Monday / 4. 3.")
	assert.Contains(t, out, "Tuesday / 5. 3.")
	assert.Contains(t, out, "•Linear algebra•")
	assert.Contains(t, out, "11:00 - 12:30 (even)")
	assert.Contains(t, out, "T9:107")
	assert.Contains(t, out, "Unscheduled")
	assert.Contains(t, out, "Thesis")
	assert.Less(t, strings.Index(out, "Monday"), strings.Index(out, "Tuesday"))
}

func TestCoursesFiltered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Courses(&buf, fixture(), "tm", Options{Now: monday, Short: true}))
	out := buf.String()
	assert.Contains(t, out, "PRG")
	assert.NotContains(t, out, "Monday")
	assert.NotContains(t, out, "Unscheduled")

	assert.ErrorIs(t, Courses(&buf, fixture(), "fr", Options{Now: monday}), ErrNoCourses)
	assert.ErrorIs(t, Courses(&buf, fixture(), "friday", Options{Now: monday}), ErrInvalidOption)
}

func TestPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Courses(&buf, fixture(), "plain", Options{Short: true}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "la-l\tLA\tlecture\tMonday 9:00 - 10:30", lines[0])
	assert.Equal(t, "t-o\tT\tother\t-", lines[3])
}

func TestFinals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Finals(&buf, fixture(), Options{Now: monday}))
	out := buf.String()
	assert.Contains(t, out, "Finals!")
	assert.Contains(t, out, "10. 3. 2024")
	assert.Contains(t, out, "6 days")
	assert.Contains(t, out, "done")
	// ordered by date
	assert.Less(t, strings.Index(out, "Programming"), strings.Index(out, "Linear algebra"))

	assert.ErrorIs(t, Finals(&buf, fixture()[3:], Options{}), ErrNoFinals)
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, "done", DaysUntil(monday, monday.Add(-time.Minute)))
	assert.Equal(t, "1 days", DaysUntil(monday, monday.Add(time.Hour)))
	assert.Equal(t, "2 days", DaysUntil(monday, monday.Add(25*time.Hour)))
}

func TestTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Timeline(&buf, fixture()[:3], Options{}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// border, header, rule, two days, border
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "9:00")
	assert.Contains(t, lines[1], "20:00")
	assert.Contains(t, lines[3], "(  LA   )   (  LA   )")
	assert.Contains(t, lines[4], strings.Repeat(" ", 18)+"(  PRG  )")

	assert.ErrorIs(t, Timeline(&buf, fixture()[3:], Options{}), ErrNoCourses)
}

func TestBlock(t *testing.T) {
	assert.Equal(t, "( LA )", block("LA", 6))
	assert.Equal(t, "(PR)", block("PRG", 4))
	assert.Equal(t, "()", block("PRG", 1))
}

func TestAttribute(t *testing.T) {
	c := fixture()[0]
	var buf bytes.Buffer
	require.NoError(t, Attribute(&buf, c, "name"))
	assert.Equal(t, "Linear algebra\n", buf.String())

	buf.Reset()
	require.NoError(t, Attribute(&buf, c, "classroom.number"))
	assert.Equal(t, "T9:107\n", buf.String())

	buf.Reset()
	require.NoError(t, Attribute(&buf, c, "time"))
	assert.Contains(t, buf.String(), "start: 540")

	buf.Reset()
	require.NoError(t, Attribute(&buf, c, ""))
	assert.Contains(t, buf.String(), "abbreviation: LA")

	assert.ErrorIs(t, Attribute(&buf, c, "teacher"), ErrNoAttribute)
	assert.ErrorIs(t, Attribute(&buf, c, "name.first"), ErrNoAttribute)
}
