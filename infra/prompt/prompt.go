// Package prompt asks the user to pick between alternatives or to confirm
// an action, using huh forms in the terminal.
package prompt

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter is the interactive surface used by actions.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(title string, options []string) (int, error)
	Confirm(title, description string) (bool, error)
}

// Huh prompts in the terminal.
type Huh struct {
	Accent string
}

// NewHuh returns a terminal prompter using accent as the highlight colour.
func NewHuh(accent string) *Huh {
	if accent == "" {
		accent = "99"
	}
	return &Huh{Accent: accent}
}

// Theme builds the form theme around the accent colour.
func (h *Huh) Theme() *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(h.Accent)
	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	return t
}

// Options turns labels into select options keyed by their index.
func Options(labels []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l, strconv.Itoa(i))
	}
	return opts
}

// Select shows a select form. A single option is returned without asking.
func (h *Huh) Select(title string, options []string) (int, error) {
	switch len(options) {
	case 0:
		return -1, errors.New("nothing to choose from")
	case 1:
		return 0, nil
	}
	var picked string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(Options(options)...).
				Value(&picked).
				Height(min(len(options)+2, 12)),
		),
	).WithTheme(h.Theme())
	if err := form.Run(); err != nil {
		return -1, mapErr(err)
	}
	return strconv.Atoi(picked)
}

// Confirm shows a yes/no form.
func (h *Huh) Confirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok).
				Affirmative("Yes").
				Negative("No"),
		),
	).WithTheme(h.Theme())
	if err := form.Run(); err != nil {
		return false, mapErr(err)
	}
	return ok, nil
}

func mapErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// Static answers prompts without a terminal: always the same choice and
// confirmation. It is used for non-interactive runs.
type Static struct {
	Choice int
	Answer bool
}

// Select returns the configured choice when it is in range.
func (s Static) Select(_ string, options []string) (int, error) {
	if s.Choice < 0 || s.Choice >= len(options) {
		return -1, errors.New("nothing to choose from")
	}
	return s.Choice, nil
}

// Confirm returns the configured answer.
func (s Static) Confirm(string, string) (bool, error) { return s.Answer, nil }
