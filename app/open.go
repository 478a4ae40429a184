package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kilianp07/school/config"
	"github.com/kilianp07/school/core/course"
	"github.com/kilianp07/school/core/schedule"
	"github.com/kilianp07/school/core/snapshot"
)

var (
	errNoOnline = errors.New("the course has no online meeting link")
	errNoNotes  = errors.New("the course has no notes")
	errNoConfig = errors.New("no configuration file in use")
)

func token(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func sameAbbreviation(cs []*course.Course) bool {
	for _, c := range cs[1:] {
		if c.Abbreviation != cs[0].Abbreviation {
			return false
		}
	}
	return true
}

func sameWebsite(cs []*course.Course) bool {
	for _, c := range cs[1:] {
		if !slices.Equal(c.Website, cs[0].Website) {
			return false
		}
	}
	return true
}

// openFolder opens the course folder, or the folder shared by every type
// when the identifier matched several types of one course.
func (a *App) openFolder(ctx context.Context, args []string) error {
	cs, err := a.match(args)
	if err != nil {
		return err
	}
	path := cs[0].Path(false)
	if len(cs) > 1 {
		if !sameAbbreviation(cs) {
			return &schedule.AmbiguousMatchError{Token: token(args), Candidates: cs}
		}
		path = cs[0].Path(true)
	}
	return a.launch(ctx, a.cfg.Handlers.FileBrowser, path)
}

// website returns the course whose website the identifier designates.
// Several matches are fine as long as they share the website.
func (a *App) website(args []string) (*course.Course, error) {
	cs, err := a.match(args)
	if err != nil {
		return nil, err
	}
	if len(cs) > 1 && !sameWebsite(cs) {
		return nil, &schedule.AmbiguousMatchError{Token: token(args), Candidates: cs}
	}
	if len(cs[0].Website) == 0 {
		return nil, snapshot.ErrNoWebsite
	}
	return cs[0], nil
}

func (a *App) openWebsite(ctx context.Context, args []string) error {
	c, err := a.website(args)
	if err != nil {
		return err
	}
	url := c.Website[0]
	if len(c.Website) > 1 {
		i, err := a.deps.Prompter.Select("Which website of "+c.String()+"?", c.Website)
		if err != nil {
			return err
		}
		url = c.Website[i]
	}
	return a.launch(ctx, a.cfg.Handlers.WebBrowser, url)
}

func (a *App) openOnline(ctx context.Context, args []string) error {
	c, err := a.single(args)
	if err != nil {
		return err
	}
	if c.Online == "" {
		return errNoOnline
	}
	return a.launch(ctx, a.cfg.Handlers.WebBrowser, c.Online)
}

// notes lists the configured notes files present in the course folder.
func (a *App) notes(c *course.Course) []string {
	var out []string
	for _, name := range a.cfg.Handlers.NotesFiles {
		p := filepath.Join(c.Path(false), name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

func (a *App) notesHandler(path string) config.Handler {
	if h, ok := a.cfg.Handlers.Notes[strings.ToLower(filepath.Ext(path))]; ok {
		return h
	}
	return a.cfg.Handlers.TextEditor
}

func (a *App) openNotes(ctx context.Context, args []string) error {
	c, err := a.single(args)
	if err != nil {
		return err
	}
	files := a.notes(c)
	if len(files) == 0 {
		return errNoNotes
	}
	path := files[0]
	if len(files) > 1 {
		labels := make([]string, len(files))
		for i, f := range files {
			labels[i] = filepath.Base(f)
		}
		i, err := a.deps.Prompter.Select("Which notes?", labels)
		if err != nil {
			return err
		}
		path = files[i]
	}
	return a.launch(ctx, a.notesHandler(path), path)
}

func (a *App) openDefinition(ctx context.Context, args []string) error {
	c, err := a.single(args)
	if err != nil {
		return err
	}
	return a.launch(ctx, a.cfg.Handlers.TextEditor, filepath.Join(c.Path(false), a.cfg.Courses.DefinitionFile))
}

func (a *App) openConfig(ctx context.Context, _ []string) error {
	if a.cfg.Path == "" {
		return errNoConfig
	}
	return a.launch(ctx, a.cfg.Handlers.TextEditor, a.cfg.Path)
}
