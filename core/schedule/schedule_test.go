package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/school/core/course"
)

// 2024-01-15 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, 15+day, hour, minute, 0, 0, time.Local)
}

func mk(name, abbr, typ, day string, start, end int) *course.Course {
	c := &course.Course{Name: name, Abbreviation: abbr, Type: typ, Root: "courses"}
	if day != "" {
		c.Time = &course.Time{Day: day, Start: start, End: end}
	}
	return c
}

func fixture() []*course.Course {
	return []*course.Course{
		mk("Programování", "PROG", "cvičení", "wednesday", 600, 690),
		mk("Lineární algebra", "LA", "přednáška", "monday", 540, 630),
		mk("Lineární algebra", "LA", "cvičení", "tuesday", 720, 810),
		mk("Seminář", "SEM", "přednáška", "", 0, 0),
		mk("Diskrétní matematika", "DM", "přednáška", "monday", 540, 630),
		mk("Analýza", "MA", "přednáška", "friday", 800, 890),
	}
}

func TestSortedOrder(t *testing.T) {
	e := New(fixture())

	got := e.Sorted(false)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Abbreviation + "-" + c.TypeInitial()
	}
	// LA and DM tie on Monday 9:00 and keep discovery order
	assert.Equal(t, []string{"LA-p", "DM-p", "LA-c", "PROG-c", "MA-p"}, names)

	all := e.Sorted(true)
	require.Len(t, all, 6)
	assert.Equal(t, "SEM", all[5].Abbreviation)
}

func TestSortedIsSortedPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var in []*course.Course
		for i := 0; i < 20; i++ {
			start := r.Intn(1300)
			in = append(in, mk("C", "C", "l", course.Weekdays[r.Intn(7)], start, start+1+r.Intn(100)))
		}
		out := New(in).Sorted(false)
		require.Len(t, out, len(in))
		assert.ElementsMatch(t, in, out)
		for i := 1; i < len(out); i++ {
			assert.LessOrEqual(t, out[i-1].StartOfWeek(), out[i].StartOfWeek())
		}
	}
}

func TestOngoing(t *testing.T) {
	e := New(fixture())

	c, err := e.OngoingCourse(at(1, 12, 30))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "LA", c.Abbreviation)
	assert.Equal(t, "cvičení", c.Type)

	c, err = e.OngoingCourse(at(1, 15, 0))
	require.NoError(t, err)
	assert.Nil(t, c)

	// LA and DM overlap on Monday morning
	_, err = e.OngoingCourse(at(0, 9, 30))
	var amb *AmbiguousMatchError
	require.ErrorAs(t, err, &amb)
	assert.Len(t, amb.Candidates, 2)
}

func TestNextPicksNearestForward(t *testing.T) {
	now := at(2, 12, 0)
	soon := mk("Soon", "S", "l", "wednesday", 12*60+30, 13*60)
	// started a minute ago: a full week minus one minute away
	past := mk("Past", "P", "l", "wednesday", 12*60-1, 13*60)
	e := New([]*course.Course{past, soon})

	assert.Equal(t, 30, Distance(now, soon))
	assert.Equal(t, course.MinutesPerWeek-1, Distance(now, past))

	got, ok := e.Next(now)
	require.True(t, ok)
	assert.Same(t, soon, got)
}

func TestNextWrapsAroundWeek(t *testing.T) {
	e := New(fixture())
	// Friday evening: next is Monday morning, tie broken by schedule order
	got, ok := e.Next(at(4, 20, 0))
	require.True(t, ok)
	assert.Equal(t, "LA", got.Abbreviation)
	assert.Equal(t, "přednáška", got.Type)

	_, ok = New(nil).Next(at(0, 0, 0))
	assert.False(t, ok)
}

func TestNextStableWithinGap(t *testing.T) {
	e := New(fixture())
	now := at(2, 13, 0)
	first, _ := e.Next(now)
	for i := 1; i < 60; i++ {
		got, _ := e.Next(now.Add(time.Duration(i) * time.Minute))
		assert.Same(t, first, got)
	}
	for _, c := range e.Sorted(false) {
		d := Distance(now, c)
		assert.GreaterOrEqual(t, d, 0)
		assert.Less(t, d, course.MinutesPerWeek)
	}
}

func TestMatch(t *testing.T) {
	e := New(fixture())

	cases := []struct {
		token string
		want  []string
	}{
		{"la", []string{"LA-p", "LA-c"}},
		{"LA-c", []string{"LA-c"}},
		{"la-p", []string{"LA-p"}},
		{"sem", []string{"SEM-p"}},
		{"linearni", []string{"LA-p", "LA-c"}},
		{"Lineární-p", []string{"LA-p"}},
		{"disk", []string{"DM-p"}},
		{"analyza-c", nil},
		{"xyz", nil},
	}
	for _, c := range cases {
		got := e.Match(c.token)
		var ids []string
		for _, m := range got {
			ids = append(ids, m.Abbreviation+"-"+m.TypeInitial())
		}
		assert.Equal(t, c.want, ids, c.token)
	}
}

func TestMatchTypeIsSingleInitial(t *testing.T) {
	e := New(append(fixture(), mk("Čeština", "CJ", "čtení", "thursday", 600, 690)))

	for _, token := range []string{"la-pr", "la-prednaska", "la-cv", "linearni-pr"} {
		assert.Empty(t, e.Match(token), token)
	}
	assert.Len(t, e.Match("la-p"), 1)
	// the initial is compared as written, diacritics included
	assert.Empty(t, e.Match("cj-c"))
	assert.Len(t, e.Match("cj-č"), 1)
}

func TestMatchNameFallbackSkipsUnscheduled(t *testing.T) {
	e := New(fixture())

	// SEM has no time: reachable by abbreviation only
	assert.Len(t, e.Match("sem"), 1)
	assert.Empty(t, e.Match("seminar"))
	assert.Empty(t, e.Match("semi"))
}

func TestMatchOwnIdentifierIncludesCourse(t *testing.T) {
	e := New(fixture())
	for _, c := range e.Sorted(true) {
		assert.Contains(t, e.Match(c.Identifier()), c, c.Identifier())
		assert.Contains(t, e.Match(c.Abbreviation), c)
	}
}

func TestResolveSpecialTokens(t *testing.T) {
	e := New(fixture())

	got, err := e.Resolve("", at(1, 12, 30))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LA-c", got[0].Abbreviation+"-"+got[0].TypeInitial())

	got, err = e.Resolve("", at(1, 15, 0))
	require.NoError(t, err)
	assert.Equal(t, "PROG", got[0].Abbreviation)

	got, err = e.Resolve("next", at(1, 12, 30))
	require.NoError(t, err)
	assert.Equal(t, "PROG", got[0].Abbreviation)

	got, err = e.Resolve("n", at(1, 12, 30))
	require.NoError(t, err)
	assert.Equal(t, "PROG", got[0].Abbreviation)

	_, err = e.Resolve("nothing", at(0, 0, 0))
	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "nothing", nm.Token)
}
