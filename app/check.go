package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kilianp07/school/infra/metrics"
	"github.com/kilianp07/school/infra/process"
	"github.com/kilianp07/school/infra/web"
)

func (a *App) sink() (*metrics.PromSink, error) {
	if a.deps.Metrics != nil {
		return a.deps.Metrics, nil
	}
	s, err := metrics.NewPromSink()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	a.deps.Metrics = s
	return s, nil
}

// checkAll refreshes the snapshot of every course with a website. A failing
// course does not stop the others; the failures are returned together.
func (a *App) checkAll(ctx context.Context, _ []string) error {
	e, err := a.courses()
	if err != nil {
		return err
	}
	sink, err := a.sink()
	if err != nil {
		return err
	}
	all := e.Sorted(true)
	sink.RecordCourses(len(all))

	a.printf("Updating course website caches:\n")
	var errs []error
	for _, c := range all {
		name := c.String()
		if len(c.Website) == 0 {
			a.printf("- skipping %s -- no website\n", name)
			sink.RecordCheck(name, metrics.OutcomeSkipped, 0, a.deps.Now())
			continue
		}
		a.printf("- updating %s...\n", name)
		start := time.Now()
		res, err := a.cache.Check(ctx, c)
		took := time.Since(start)
		if err != nil {
			a.log.Warnf("check %s: %v", name, err)
			sink.RecordCheck(name, metrics.OutcomeError, took, a.deps.Now())
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		outcome := metrics.OutcomeUnchanged
		switch {
		case !res.Previous.Present:
			outcome = metrics.OutcomeCreated
		case res.Changed:
			outcome = metrics.OutcomeChanged
			a.printf("  changed: %s\n", web.Title(res.Current.Text))
		}
		sink.RecordCheck(name, outcome, took, a.deps.Now())
	}

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := sink.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

// checkCourse compares the website with its snapshot and shows the changes
// through diff.
func (a *App) checkCourse(ctx context.Context, args []string) error {
	c, err := a.website(args)
	if err != nil {
		return err
	}
	res, err := a.cache.Check(ctx, c)
	if err != nil {
		return err
	}
	if !res.Previous.Present {
		return noticef("Cache file created.")
	}
	if !res.Changed {
		t := res.Previous.ModTime
		return noticef("No updates since %d. %d. %d.", t.Day(), int(t.Month()), t.Year())
	}

	prev, err := os.CreateTemp("", "school-snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(prev.Name())
	_, err = prev.WriteString(res.Previous.Text)
	if cerr := prev.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write previous snapshot: %w", err)
	}

	if title := web.Title(res.Current.Text); title != "" {
		a.printf("%s\n", title)
	}
	return a.deps.Runner.Run(ctx, process.Command{
		Argv:        []string{"diff", "-u", "--color=always", "--label", a.cache.Path(c), "--label", c.Website[0], prev.Name(), "-"},
		Stdin:       strings.NewReader(res.Current.Text),
		Stdout:      a.deps.Out,
		OKExitCodes: []int{1},
	})
}
