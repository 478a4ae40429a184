// Package app wires the configuration, the course repository and the infra
// adapters into the decision tree of actions.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kilianp07/school/config"
	"github.com/kilianp07/school/core/course"
	"github.com/kilianp07/school/core/dispatch"
	"github.com/kilianp07/school/core/mail"
	"github.com/kilianp07/school/core/schedule"
	"github.com/kilianp07/school/core/snapshot"
	"github.com/kilianp07/school/infra/logger"
	"github.com/kilianp07/school/infra/metrics"
	"github.com/kilianp07/school/infra/notify"
	"github.com/kilianp07/school/infra/process"
	"github.com/kilianp07/school/infra/prompt"
	"github.com/kilianp07/school/infra/web"
	"github.com/kilianp07/school/report"
)

// Notice is an informational outcome such as "No finals added yet!". The
// command line prints it and exits successfully.
type Notice struct {
	Message string
}

func (n *Notice) Error() string { return n.Message }

func noticef(format string, args ...any) error {
	return &Notice{Message: fmt.Sprintf(format, args...)}
}

// Options are the global flags.
type Options struct {
	Short bool
}

// Deps are the collaborators of the actions. Zero fields get the production
// implementation.
type Deps struct {
	Logger   logger.Logger
	Out      io.Writer
	Runner   process.Runner
	Fetcher  snapshot.Fetcher
	Prompter prompt.Prompter
	Sender   mail.Sender
	Notifier notify.Notifier
	Metrics  *metrics.PromSink
	Now      func() time.Time
	Getwd    func() (string, error)
	// Elevate re-runs the process with root privileges, see process.Elevate.
	Elevate func(context.Context, process.Runner) (bool, error)
}

// App executes command lines.
type App struct {
	cfg        *config.Config
	opts       Options
	deps       Deps
	log        logger.Logger
	loader     *course.Loader
	cache      *snapshot.Cache
	dispatcher *dispatch.Dispatcher

	engine *schedule.Engine
}

// New builds the App and its decision tree.
func New(cfg *config.Config, opts Options, deps Deps) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = logger.NopLogger{}
	}
	log := deps.Logger
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Runner == nil {
		deps.Runner = process.NewExec(log)
	}
	if deps.Fetcher == nil {
		deps.Fetcher = web.NewFetcher(cfg.Snapshot.Timeout(), log)
	}
	if deps.Prompter == nil {
		deps.Prompter = prompt.NewHuh("")
	}
	if deps.Sender == nil {
		deps.Sender = &mail.SMTPSender{Config: cfg.Mail.SMTP()}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Elevate == nil {
		deps.Elevate = process.Elevate
	}

	loader := course.NewLoader(cfg.Courses.Folder, cfg.Courses.TypeNames(), log)
	loader.DefinitionFile = cfg.Courses.DefinitionFile
	cache := snapshot.New(deps.Fetcher, log)
	cache.FileName = cfg.Snapshot.FileName

	a := &App{cfg: cfg, opts: opts, deps: deps, log: log, loader: loader, cache: cache}
	d, err := dispatch.New(a.tree(), log)
	if err != nil {
		return nil, err
	}
	a.dispatcher = d
	return a, nil
}

// Run dispatches tokens to an action.
func (a *App) Run(ctx context.Context, tokens []string) error {
	return a.dispatcher.Invoke(ctx, tokens)
}

// WriteHelp prints the header and the command tree.
func (a *App) WriteHelp(w io.Writer) error {
	if _, err := fmt.Fprint(w, "A course schedule assistant.\n\nsupported options:\n"); err != nil {
		return err
	}
	return a.dispatcher.Root().WriteHelp(w, 1)
}

// Close releases the notifier when one was opened.
func (a *App) Close() error {
	if c, ok := a.deps.Notifier.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *App) report() report.Options {
	return report.Options{Short: a.opts.Short, Now: a.deps.Now(), Colors: a.cfg.Courses.Colors()}
}

// courses loads the repository once per run, unscheduled courses included.
func (a *App) courses() (*schedule.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	cs, err := a.loader.Load(course.LoadOptions{IncludeUnscheduled: true})
	if err != nil {
		return nil, err
	}
	a.log.Debugf("loaded %d courses from %s", len(cs), a.cfg.Courses.Folder)
	a.engine = schedule.New(cs)
	return a.engine, nil
}

// match resolves the optional identifier argument. "." is the course whose
// folder contains the working directory.
func (a *App) match(args []string) ([]*course.Course, error) {
	tok := token(args)
	if tok == "." {
		wd, err := a.deps.Getwd()
		if err != nil {
			return nil, err
		}
		c, err := a.loader.FromPath(wd)
		if err != nil {
			return nil, err
		}
		return []*course.Course{c}, nil
	}
	e, err := a.courses()
	if err != nil {
		return nil, err
	}
	return e.Resolve(tok, a.deps.Now())
}

// single is match requiring exactly one course.
func (a *App) single(args []string) (*course.Course, error) {
	cs, err := a.match(args)
	if err != nil {
		return nil, err
	}
	if len(cs) > 1 {
		return nil, &schedule.AmbiguousMatchError{Token: token(args), Candidates: cs}
	}
	return cs[0], nil
}

// launch opens target with h, detached or waiting for it.
func (a *App) launch(ctx context.Context, h config.Handler, target string) error {
	argv := append(append([]string(nil), h.Command...), target)
	if h.Detach {
		return a.deps.Runner.Start(ctx, argv)
	}
	return a.deps.Runner.Run(ctx, process.Command{Argv: argv, Interactive: true})
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.deps.Out, format, args...)
}
