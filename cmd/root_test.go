package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/school/app"
	"github.com/kilianp07/school/core/dispatch"
	"github.com/kilianp07/school/infra/logger"
)

func writeConfig(t *testing.T, withCourse bool) string {
	t.Helper()
	dir := t.TempDir()
	courses := filepath.Join(dir, "courses")
	require.NoError(t, os.MkdirAll(courses, 0o755))
	if withCourse {
		def := filepath.Join(courses, "Linear algebra (LA)", "lecture", "info.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(def), 0o755))
		require.NoError(t, os.WriteFile(def, []byte("time:\n  day: monday\n  start: 540\n  end: 630\n"), 0o644))
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("courses:\n  folder: courses\n"), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(app.Deps{
		Logger: logger.NopLogger{},
		Now:    func() time.Time { return time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local) },
	})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestHelpWithoutCommand(t *testing.T) {
	out, _, err := execute(t, "-c", writeConfig(t, false))
	require.NoError(t, err)
	assert.Contains(t, out, "A course schedule assistant.")
	assert.Contains(t, out, "  {list}")
	assert.Contains(t, out, "supported flags:")
	assert.Contains(t, out, "--short")
}

func TestNoticeIsNotAnError(t *testing.T) {
	out, errOut, err := execute(t, "-c", writeConfig(t, true), "list", "finals")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "No finals added yet!\n", errOut)
}

func TestShortFlag(t *testing.T) {
	out, _, err := execute(t, "-c", writeConfig(t, true), "-s", "l", "c", "plain")
	require.NoError(t, err)
	assert.Equal(t, "la-l\tLA\tlecture\tmonday 9:00 - 10:30\n", out)
}

func TestDispatchError(t *testing.T) {
	_, _, err := execute(t, "-c", writeConfig(t, false), "frobnicate")
	var unmatched *dispatch.UnmatchedTokenError
	assert.ErrorAs(t, err, &unmatched)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, _, err := execute(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "l", "c")
	assert.Error(t, err)
}
