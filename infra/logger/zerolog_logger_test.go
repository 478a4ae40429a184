package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l, err := NewZerologLogger("test", Options{Level: "debug"})
	require.NoError(t, err)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestDefaultLevelFiltersBelowWarn(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	l, err := newZerologLogger(&buf, "loader", Options{})
	require.NoError(t, err)

	l.Infof("hidden")
	l.Debugw("hidden", map[string]any{"k": 1})
	assert.Zero(t, buf.Len())

	l.Warnf("shown %d", 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown 2", rec["message"])
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "loader", rec["component"])
}

func TestWithSwitchesComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	l, err := newZerologLogger(&buf, "app", Options{Level: "DEBUG"})
	require.NoError(t, err)
	l.With("cron").Debugw("rendered", map[string]any{"lines": 4})
	assert.True(t, strings.Contains(buf.String(), `"component":"cron"`))
	assert.Contains(t, buf.String(), `"lines":4`)
}

func TestInvalidLevel(t *testing.T) {
	_, err := New("x", Options{Level: "loud"})
	assert.Error(t, err)

	var _ Logger = NopLogger{}
}
