package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/school/core/dispatch"
	"github.com/kilianp07/school/report"
)

func (a *App) listCourses(_ context.Context, args []string) error {
	e, err := a.courses()
	if err != nil {
		return err
	}
	option := ""
	if len(args) > 0 {
		option = args[0]
	}
	err = report.Courses(a.deps.Out, e.Sorted(true), option, a.report())
	switch {
	case errors.Is(err, report.ErrInvalidOption):
		return fmt.Errorf("%w: %v", dispatch.ErrBadArguments, err)
	case errors.Is(err, report.ErrNoCourses):
		return noticef("No courses matching the criteria found!")
	}
	return err
}

func (a *App) listAttribute(_ context.Context, args []string) error {
	c, err := a.single(args)
	if err != nil {
		return err
	}
	attr := ""
	if len(args) > 1 {
		attr = args[1]
	}
	if err := report.Attribute(a.deps.Out, c, attr); errors.Is(err, report.ErrNoAttribute) {
		return noticef("The course does not contain this attribute.")
	} else if err != nil {
		return err
	}
	return nil
}

func (a *App) listFinals(context.Context, []string) error {
	e, err := a.courses()
	if err != nil {
		return err
	}
	if err := report.Finals(a.deps.Out, e.Sorted(true), a.report()); errors.Is(err, report.ErrNoFinals) {
		return noticef("No finals added yet!")
	} else if err != nil {
		return err
	}
	return nil
}

func (a *App) listTimeline(context.Context, []string) error {
	e, err := a.courses()
	if err != nil {
		return err
	}
	if err := report.Timeline(a.deps.Out, e.Sorted(false), a.report()); errors.Is(err, report.ErrNoCourses) {
		return noticef("No scheduled courses.")
	} else if err != nil {
		return err
	}
	return nil
}
