package app

import (
	"context"

	"github.com/kilianp07/school/core/dispatch"
)

func (a *App) tree() *dispatch.Node {
	ident := func(run func(ctx context.Context, args []string) error) dispatch.Action {
		return dispatch.Action{Run: run, MaxArgs: 1}
	}
	none := func(run func(ctx context.Context, args []string) error) dispatch.Action {
		return dispatch.Action{Run: run}
	}
	return dispatch.Branch(nil,
		dispatch.Branch([]string{"list"},
			dispatch.Leaf([]string{"courses"}, "List information about the courses.",
				dispatch.Action{Run: a.listCourses, MaxArgs: 1}),
			dispatch.Leaf([]string{"attribute"}, "List the given course attribute.",
				dispatch.Action{Run: a.listAttribute, MinArgs: 1, MaxArgs: 2}),
			dispatch.Leaf([]string{"finals"}, "List dates of all finals.", none(a.listFinals)),
			dispatch.Leaf([]string{"timeline"}, "List the courses in a timeline.", none(a.listTimeline)),
		),
		dispatch.Branch([]string{"compile"},
			dispatch.Leaf([]string{"cron"}, "Add crontab notifications for all courses.", none(a.compileCron)),
		),
		dispatch.Branch([]string{"check"},
			dispatch.Leaf([]string{"all"}, "Update all website caches.", none(a.checkAll)),
			dispatch.Leaf([]string{"course"}, "Check whether the course website has changed.", ident(a.checkCourse)),
		),
		dispatch.Branch([]string{"open"},
			dispatch.Leaf([]string{"folder", "course"}, "Open the course's folder.", ident(a.openFolder)),
			dispatch.Leaf([]string{"website"}, "Open the course's website.", ident(a.openWebsite)),
			dispatch.Leaf([]string{"online"}, "Open the course's online meeting link.", ident(a.openOnline)),
			dispatch.Leaf([]string{"notes"}, "Open the course's notes.", ident(a.openNotes)),
			dispatch.Leaf([]string{"definition"}, "Open the course's definition file.", ident(a.openDefinition)),
		),
		dispatch.Branch([]string{"export"},
			dispatch.Leaf([]string{"ics"}, "Export the schedule as an iCalendar file.", a.exportAction("ics")),
			dispatch.Leaf([]string{"xlsx"}, "Export the schedule as a spreadsheet.", a.exportAction("xlsx")),
			dispatch.Leaf([]string{"json"}, "Export the schedule as JSON.", a.exportAction("json")),
		),
		dispatch.Leaf([]string{"notify"}, "Send a notification through the configured backends.",
			dispatch.Action{Run: a.notify, MinArgs: 1, MaxArgs: -1}),
		dispatch.Leaf([]string{"initialize"}, "Initialize a new semester from a SIS CSV export.",
			dispatch.Action{Run: a.initialize, MinArgs: 1, MaxArgs: 1}),
		dispatch.Leaf([]string{"send"}, "Send the mail described by a file to the course teacher.",
			dispatch.Action{Run: a.send, MinArgs: 1, MaxArgs: 1}),
		dispatch.Leaf([]string{"config"}, "Open the configuration file in the text editor.", none(a.openConfig)),
	)
}
