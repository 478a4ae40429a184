package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesStdinAndStdout(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	err := NewExec(nil).Run(context.Background(), Command{
		Argv:   []string{"sh", "-c", "tr a-z A-Z"},
		Stdin:  strings.NewReader("cached page"),
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "CACHED PAGE", out.String())
}

func TestRunStderrIsFatal(t *testing.T) {
	requireShell(t)
	err := NewExec(nil).Run(context.Background(), Command{Argv: []string{"sh", "-c", "echo oops >&2"}})
	var toolErr *ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "sh", toolErr.Tool)
	assert.Equal(t, "sh: oops", err.Error())
}

func TestRunExitCodes(t *testing.T) {
	requireShell(t)
	r := NewExec(nil)

	err := r.Run(context.Background(), Command{Argv: []string{"sh", "-c", "exit 3"}})
	var toolErr *ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 3, toolErr.ExitCode)

	assert.NoError(t, r.Run(context.Background(), Command{Argv: []string{"sh", "-c", "exit 1"}, OKExitCodes: []int{1}}))
	assert.NoError(t, r.Run(context.Background(), Command{Argv: []string{"sh", "-c", "echo x >&2; exit 2"}, IgnoreErrors: true}))
}

func TestNotInstalled(t *testing.T) {
	r := &Exec{LookPath: func(string) (string, error) { return "", errors.New("not found") }}

	err := r.Run(context.Background(), Command{Argv: []string{"ranger"}})
	var ni *NotInstalledError
	require.ErrorAs(t, err, &ni)
	assert.Equal(t, "'ranger' is not installed", err.Error())

	err = r.Start(context.Background(), []string{"firefox", "https://example.org"})
	assert.ErrorAs(t, err, &ni)

	assert.Error(t, r.Run(context.Background(), Command{}))
}

func TestStartDetached(t *testing.T) {
	requireShell(t)
	assert.NoError(t, NewExec(nil).Start(context.Background(), []string{"sh", "-c", "exit 0"}))
}

type recordingRunner struct {
	ran []Command
}

func (r *recordingRunner) Start(context.Context, []string) error { return nil }
func (r *recordingRunner) Run(_ context.Context, c Command) error {
	r.ran = append(r.ran, c)
	return nil
}

func TestElevate(t *testing.T) {
	r := &recordingRunner{}
	handed, err := Elevate(context.Background(), r)
	require.NoError(t, err)
	if !handed {
		// running as root
		assert.Empty(t, r.ran)
		return
	}
	require.Len(t, r.ran, 1)
	assert.Equal(t, []string{"sudo", "-E"}, r.ran[0].Argv[:2])
	assert.True(t, r.ran[0].Interactive)
}
