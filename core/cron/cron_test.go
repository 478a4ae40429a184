package cron

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/school/core/course"
)

func TestExpression(t *testing.T) {
	cases := []struct {
		minute int
		want   string
	}{
		{540, "0 9 * * 1"},
		{course.MinutesPerDay + 12*60 + 25, "25 12 * * 2"},
		{6*course.MinutesPerDay + 23*60 + 59, "59 23 * * 7"},
		// five minutes before Monday midnight wraps to Sunday
		{-5, "55 23 * * 7"},
		{course.MinutesPerWeek + 1, "1 0 * * 1"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Expression(c.minute), c.minute)
	}
}

func floor(n int) *int { return &n }

func TestRender(t *testing.T) {
	la := &course.Course{Name: "Lineární algebra", Abbreviation: "LA", Type: "přednáška",
		Time: &course.Time{Day: "monday", Start: 540, End: 630}}
	dm := &course.Course{Name: "Diskrétní matematika", Abbreviation: "DM", Type: "cvičení",
		Time:      &course.Time{Day: "Monday", Start: 645, End: 735},
		Classroom: &course.Classroom{Number: "S5", Floor: floor(2)}}
	prog := &course.Course{Name: "Programování", Abbreviation: "P", Type: "cvičení",
		Time: &course.Time{Day: "tuesday", Start: 600, End: 690}}
	sem := &course.Course{Name: "Seminář", Abbreviation: "S", Type: "přednáška"}

	lines, err := Render([]*course.Course{la, dm, prog, sem}, Options{User: "student", NotifyCommand: "dunstify rozvrh"})
	require.NoError(t, err)
	require.Len(t, lines, 6)

	assert.Equal(t, "25 10 * * 1 student dunstify rozvrh 'Další předmět je <i>Diskrétní matematika (cvičení)</i>, "+
		"který začíná <i>15 minut</i> po tomto v učebně <i>S5</i> (2. patro).'", lines[0])
	assert.Equal(t, "0 9 * * 1 student dunstify rozvrh 'právě začal předmět <i>Lineární algebra (přednáška)</i>.'", lines[1])
	assert.Equal(t, "10 12 * * 1 student dunstify rozvrh 'Dnes již žádný další předmět není.'", lines[2])
	assert.True(t, strings.HasPrefix(lines[5], "0 10 * * 2 "))
}

func TestRenderCustomTemplates(t *testing.T) {
	c := &course.Course{Name: "Don't", Abbreviation: "D", Type: "lab",
		Time: &course.Time{Day: "friday", Start: 600, End: 690}}

	lines, err := Render([]*course.Course{c}, Options{
		User: "u", NotifyCommand: "notify-send",
		LastTemplate:    "done",
		StartedTemplate: "{{.Course.Name}} started",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"25 11 * * 5 u notify-send 'done'",
		"0 10 * * 5 u notify-send 'Don’t started'",
	}, lines)

	_, err = Render([]*course.Course{c}, Options{StartedTemplate: "{{.Nope"})
	assert.ErrorContains(t, err, "started message")
}

func TestSpliceAppendsWhenMissing(t *testing.T) {
	out, err := Splice([]byte("SHELL=/bin/sh\n0 * * * * root run-parts"), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "SHELL=/bin/sh\n0 * * * * root run-parts\n"+BeginMarker+"\na\nb\n"+EndMarker+"\n", string(out))

	out, err = Splice(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, BeginMarker+"\n"+EndMarker+"\n", string(out))
}

func TestSpliceReplacesBlockInPlace(t *testing.T) {
	before := "# header\n"
	after := "# footer\n17 * * * * root cd / && run-parts --report /etc/cron.hourly\n"
	existing := before + BeginMarker + "\nold 1\nold 2\n  " + EndMarker + "  \n" + after

	out, err := Splice([]byte(existing), []string{"new"})
	require.NoError(t, err)
	assert.Equal(t, before+BeginMarker+"\nnew\n"+EndMarker+"\n"+after, string(out))

	again, err := Splice(out, []string{"new"})
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSpliceUnterminated(t *testing.T) {
	_, err := Splice([]byte("x\n"+BeginMarker+"\nold\n"), nil)
	assert.ErrorIs(t, err, ErrUnterminatedBlock)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crontab")
	require.NoError(t, Update(path, []string{"1 2 * * 3 u cmd 'x'"}))
	require.NoError(t, os.WriteFile(path, append([]byte("# keep\n"), mustRead(t, path)...), 0o644))
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, Update(path, []string{"4 5 * * 6 u cmd 'y'"}))
	assert.Equal(t, "# keep\n"+BeginMarker+"\n4 5 * * 6 u cmd 'y'\n"+EndMarker+"\n", string(mustRead(t, path)))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}
