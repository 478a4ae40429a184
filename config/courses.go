package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/school/core/course"
)

// TypeConfig describes one course type folder.
type TypeConfig struct {
	// Color is a lipgloss color (ANSI number or hex) for listings.
	Color string `json:"color"`
}

// CoursesConfig locates the course repository.
type CoursesConfig struct {
	Folder         string                `json:"folder"`
	DefinitionFile string                `json:"definition_file"`
	Types          map[string]TypeConfig `json:"types"`
}

func (c *CoursesConfig) SetDefaults() {
	if c.Folder == "" {
		c.Folder = "courses"
	}
	if c.DefinitionFile == "" {
		c.DefinitionFile = course.DefaultDefinitionFile
	}
}

func (c CoursesConfig) Validate() error {
	if c.Folder == "" {
		return errors.New("folder is required")
	}
	return nil
}

// TypeNames returns the configured type folders in order; empty accepts any.
func (c CoursesConfig) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for n := range c.Types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Colors maps type names to their color.
func (c CoursesConfig) Colors() map[string]string {
	out := make(map[string]string, len(c.Types))
	for n, t := range c.Types {
		out[n] = t.Color
	}
	return out
}

// Handler is an external program opening a path or URL given as its last
// argument.
type Handler struct {
	Command []string `json:"command"`
	// Detach starts the program without waiting, for GUI applications.
	Detach bool `json:"detach"`
}

// HandlersConfig lists the programs used by the open actions.
type HandlersConfig struct {
	FileBrowser Handler `json:"file_browser"`
	WebBrowser  Handler `json:"web_browser"`
	TextEditor  Handler `json:"text_editor"`
	// Notes maps a file extension (".xopp") to its program. Other
	// extensions open in the text editor.
	Notes map[string]Handler `json:"notes"`
	// NotesFiles are the file names looked up in a course folder.
	NotesFiles []string `json:"notes_files"`
}

func (c *HandlersConfig) SetDefaults() {
	if len(c.FileBrowser.Command) == 0 {
		c.FileBrowser = Handler{Command: []string{"ranger"}}
	}
	if len(c.WebBrowser.Command) == 0 {
		c.WebBrowser = Handler{Command: []string{"firefox", "-new-window"}, Detach: true}
	}
	if len(c.TextEditor.Command) == 0 {
		c.TextEditor = Handler{Command: []string{"vim"}}
	}
	if c.Notes == nil {
		c.Notes = map[string]Handler{".xopp": {Command: []string{"xournalpp"}, Detach: true}}
	}
	if len(c.NotesFiles) == 0 {
		c.NotesFiles = []string{"notes.xopp", "notes.md"}
	}
}

func (c HandlersConfig) Validate() error {
	for ext, h := range c.Notes {
		if len(h.Command) == 0 {
			return fmt.Errorf("notes handler for %q has no command", ext)
		}
	}
	return nil
}
