// Package process runs the external tools the CLI hands work to: viewers
// and browsers are started detached, diff and editors are waited for.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"strings"

	"github.com/kilianp07/school/infra/logger"
)

// ExternalToolError is returned when a tool fails or writes to its error stream.
type ExternalToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	switch {
	case msg != "":
		return fmt.Sprintf("%s: %s", e.Tool, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	default:
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// NotInstalledError is returned when a tool cannot be found in PATH.
type NotInstalledError struct {
	Tool string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("'%s' is not installed", e.Tool)
}

// Command describes a blocking invocation.
type Command struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	// Interactive commands share the terminal. Their error stream is not
	// captured and SIGINT is left to them.
	Interactive bool
	// OKExitCodes lists non-zero exit codes that are not failures, such as
	// 1 for diff reporting differences.
	OKExitCodes []int
	// IgnoreErrors swallows any failure of the tool.
	IgnoreErrors bool
}

// Runner starts external processes.
type Runner interface {
	// Start launches argv without waiting for it.
	Start(ctx context.Context, argv []string) error
	// Run launches cmd and waits for it to exit.
	Run(ctx context.Context, cmd Command) error
}

// Exec runs processes with os/exec.
type Exec struct {
	Logger logger.Logger
	// LookPath resolves tool names. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// NewExec returns an Exec logging to log.
func NewExec(log logger.Logger) *Exec {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Exec{Logger: log, LookPath: exec.LookPath}
}

func (e *Exec) log() logger.Logger {
	if e.Logger == nil {
		return logger.NopLogger{}
	}
	return e.Logger
}

func (e *Exec) resolve(argv []string) (string, error) {
	if len(argv) == 0 || argv[0] == "" {
		return "", errors.New("empty command")
	}
	look := e.LookPath
	if look == nil {
		look = exec.LookPath
	}
	path, err := look(argv[0])
	if err != nil {
		return "", &NotInstalledError{Tool: argv[0]}
	}
	return path, nil
}

// Start launches argv detached from the current process.
func (e *Exec) Start(_ context.Context, argv []string) error {
	path, err := e.resolve(argv)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return &ExternalToolError{Tool: argv[0], Err: err}
	}
	e.log().Debugw("started detached", map[string]any{"argv": argv, "pid": cmd.Process.Pid})
	return cmd.Process.Release()
}

// Run launches cmd and waits for it.
func (e *Exec) Run(ctx context.Context, c Command) error {
	path, err := e.resolve(c.Argv)
	if err != nil {
		return err
	}
	tool := c.Argv[0]

	var cmd *exec.Cmd
	if c.Interactive {
		// the terminal delivers SIGINT to the child; it must not end this process
		signal.Ignore(os.Interrupt)
		defer signal.Reset(os.Interrupt)
		cmd = exec.Command(path, c.Argv[1:]...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	} else {
		cmd = exec.CommandContext(ctx, path, c.Argv[1:]...)
		cmd.Stdout = os.Stdout
	}
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	}
	var stderr bytes.Buffer
	if !c.Interactive {
		cmd.Stderr = &stderr
	}

	e.log().Debugw("running", map[string]any{"argv": c.Argv, "interactive": c.Interactive})
	runErr := cmd.Run()
	if c.IgnoreErrors {
		if runErr != nil {
			e.log().Debugf("ignoring %s failure: %v", tool, runErr)
		}
		return nil
	}

	var exitErr *exec.ExitError
	code := 0
	if errors.As(runErr, &exitErr) {
		code = exitErr.ExitCode()
		if slices.Contains(c.OKExitCodes, code) {
			runErr = nil
		}
	}
	if runErr != nil || stderr.Len() > 0 {
		return &ExternalToolError{Tool: tool, ExitCode: code, Stderr: stderr.String(), Err: runErr}
	}
	return nil
}

// Elevate re-executes the current command through "sudo -E" when not running
// as root. It reports whether the work was handed over.
func Elevate(ctx context.Context, r Runner) (bool, error) {
	if os.Geteuid() == 0 {
		return false, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Errorf("locate executable: %w", err)
	}
	argv := append([]string{"sudo", "-E", exe}, os.Args[1:]...)
	return true, r.Run(ctx, Command{Argv: argv, Interactive: true})
}
