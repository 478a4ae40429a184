package app

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/kilianp07/school/core/cron"
	"github.com/kilianp07/school/core/dispatch"
	"github.com/kilianp07/school/core/factory"
	"github.com/kilianp07/school/core/mail"
	"github.com/kilianp07/school/core/semester"
	"github.com/kilianp07/school/export"
	"github.com/kilianp07/school/infra/notify"
)

// cronUser is the configured user, or the one who invoked sudo, or the
// current one.
func (a *App) cronUser() (string, error) {
	if a.cfg.Cron.User != "" {
		return a.cfg.Cron.User, nil
	}
	if u := os.Getenv("SUDO_USER"); u != "" {
		return u, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}
	return u.Username, nil
}

func (a *App) compileCron(ctx context.Context, _ []string) error {
	handed, err := a.deps.Elevate(ctx, a.deps.Runner)
	if err != nil || handed {
		return err
	}
	e, err := a.courses()
	if err != nil {
		return err
	}
	usr, err := a.cronUser()
	if err != nil {
		return err
	}
	block, err := cron.Render(e.Sorted(false), cron.Options{
		User:            usr,
		NotifyCommand:   a.cfg.Cron.NotifyCommand,
		NextTemplate:    a.cfg.Cron.Messages.Next,
		LastTemplate:    a.cfg.Cron.Messages.Last,
		StartedTemplate: a.cfg.Cron.Messages.Started,
	})
	if err != nil {
		return err
	}
	if err := cron.Update(a.cfg.Cron.File, block); err != nil {
		return err
	}
	a.printf("Course messages generated and saved to %s.\n", a.cfg.Cron.File)
	return nil
}

func (a *App) exportAction(format string) dispatch.Action {
	return dispatch.Action{Run: func(_ context.Context, args []string) error {
		return a.export(format, args[0])
	}, MinArgs: 1, MaxArgs: 1}
}

// export writes the schedule in format to path, "-" being standard output.
func (a *App) export(format, path string) error {
	loc, err := a.cfg.Export.Location()
	if err != nil {
		return err
	}
	start, end, err := a.cfg.Export.Semester(loc)
	if err != nil {
		return err
	}
	reg := export.NewRegistry(export.Options{
		SemesterStart: start,
		SemesterEnd:   end,
		Location:      loc,
		Now:           a.deps.Now(),
		Short:         a.opts.Short,
	})
	ex, err := reg.Create(factory.ModuleConfig{Type: format, Conf: a.cfg.Export.Formats[format]})
	if err != nil {
		return err
	}
	e, err := a.courses()
	if err != nil {
		return err
	}
	courses := e.Sorted(true)

	if path == "-" {
		return ex.Export(a.deps.Out, courses)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := ex.Export(f, courses); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	a.printf("Exported %d courses to %s.\n", len(courses), path)
	return nil
}

func (a *App) notifier() (notify.Notifier, error) {
	if a.deps.Notifier != nil {
		return a.deps.Notifier, nil
	}
	n, err := notify.New(a.cfg.Notify.Backends, notify.Deps{Runner: a.deps.Runner, Logger: a.log})
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	a.deps.Notifier = n
	return n, nil
}

func (a *App) notify(ctx context.Context, args []string) error {
	n, err := a.notifier()
	if err != nil {
		return err
	}
	return n.Notify(ctx, "school", strings.Join(args, " "))
}

func (a *App) initialize(_ context.Context, args []string) error {
	in := &semester.Initializer{
		Root: a.cfg.Courses.Folder,
		Options: semester.Options{
			LectureType:    a.cfg.Semester.LectureType,
			LabType:        a.cfg.Semester.LabType,
			DefinitionFile: a.cfg.Courses.DefinitionFile,
		},
		Logger: a.log,
	}
	res, err := in.Initialize(args[0])
	if err != nil {
		return err
	}
	a.printf("Initialized %d courses in %s.\n", res.Courses, a.cfg.Courses.Folder)
	return nil
}

// send mails the definition at args[0] to the teacher of the course whose
// folder contains it, after confirmation.
func (a *App) send(ctx context.Context, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	c, err := a.loader.FromPath(filepath.Dir(path))
	if err != nil {
		return err
	}
	if c.Teacher == nil || len(c.Teacher.Email) == 0 {
		return fmt.Errorf("%s: the teacher has no e-mail", c)
	}
	def, err := mail.ParseFile(path)
	if err != nil {
		return err
	}
	msg, err := mail.Compose(def, a.cfg.Mail.From, c.Teacher.Email, a.deps.Now())
	if err != nil {
		return err
	}
	desc := "Attachments: " + strings.Join(def.Attachments, ", ")
	ok, err := a.deps.Prompter.Confirm(fmt.Sprintf("Send '%s' to %s?", def.Subject, strings.Join(msg.To, ", ")), desc)
	if err != nil {
		return err
	}
	if !ok {
		return noticef("Not sent.")
	}
	if err := a.deps.Sender.Send(ctx, msg); err != nil {
		return err
	}
	a.printf("Sent to %s.\n", strings.Join(msg.To, ", "))
	return nil
}
