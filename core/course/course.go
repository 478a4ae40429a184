// Package course defines the Course record, the schema used to decode course
// definition files and the loader that discovers them on disk.
package course

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Teacher holds the contact details of a course teacher.
type Teacher struct {
	Name    []string `json:"name" yaml:"name"`
	Email   []string `json:"email,omitempty" yaml:"email,omitempty"`
	Website string   `json:"website,omitempty" yaml:"website,omitempty"`
	Office  string   `json:"office,omitempty" yaml:"office,omitempty"`
	Note    string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// Classroom locates a room.
type Classroom struct {
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Number  string `json:"number,omitempty" yaml:"number,omitempty"`
	Floor   *int   `json:"floor,omitempty" yaml:"floor,omitempty"`
}

// Time is the weekly slot of a course. Start and End are minutes since midnight.
type Time struct {
	Day   string `json:"day" yaml:"day"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Weeks string `json:"weeks,omitempty" yaml:"weeks,omitempty"`
}

// Finals describes the final exam.
type Finals struct {
	Date      time.Time `json:"date" yaml:"date"`
	Classroom Classroom `json:"classroom" yaml:"classroom"`
}

// Course is one lecture, lab or other session of a subject. Name, Abbreviation
// and Type come from the folder the definition lives in, the rest from the file.
type Course struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Type         string `json:"type"`
	Root         string `json:"-"`

	Code      string     `json:"code,omitempty"`
	Teacher   *Teacher   `json:"teacher,omitempty"`
	Classroom *Classroom `json:"classroom,omitempty"`
	Time      *Time      `json:"time,omitempty"`
	Website   []string   `json:"website,omitempty"`
	Online    string     `json:"online,omitempty"`
	Finals    *Finals    `json:"finals,omitempty"`
	Other     any        `json:"other,omitempty"`
}

// Scheduled reports whether the course has a weekly slot.
func (c *Course) Scheduled() bool { return c.Time != nil }

// Weekday returns the index of the course's day, 0 being Monday.
func (c *Course) Weekday() (int, error) {
	if c.Time == nil {
		return -1, &InvalidIdentifierError{Kind: "weekday", Value: ""}
	}
	return WeekdayIndex(c.Time.Day)
}

// StartOfWeek returns the start of the course in minutes since Monday 00:00.
// Unscheduled courses and invalid days yield -1.
func (c *Course) StartOfWeek() int {
	wd, err := c.Weekday()
	if err != nil {
		return -1
	}
	return wd*MinutesPerDay + c.Time.Start
}

// IsOngoing reports whether now falls on the course's day within [Start, End].
func (c *Course) IsOngoing(now time.Time) bool {
	wd, err := c.Weekday()
	if err != nil {
		return false
	}
	m := MinuteOfDay(now)
	return WeekdayOf(now) == wd && c.Time.Start <= m && m <= c.Time.End
}

// FolderName is the "<Name> (<Abbreviation>)" directory of the course.
func (c *Course) FolderName() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Abbreviation)
}

// Path returns the directory of the course, optionally without the type folder.
func (c *Course) Path(ignoreType bool) string {
	if ignoreType {
		return filepath.Join(c.Root, c.FolderName())
	}
	return filepath.Join(c.Root, c.FolderName(), c.Type)
}

// TypeInitial returns the lower-cased first letter of the type.
func (c *Course) TypeInitial() string {
	for _, r := range strings.ToLower(c.Type) {
		return string(r)
	}
	return ""
}

// Identifier is the "<abbr>-<type initial>" form accepted by the query engine.
func (c *Course) Identifier() string {
	return strings.ToLower(c.Abbreviation) + "-" + c.TypeInitial()
}

// DisplayName returns the abbreviation when short is set, the full name otherwise.
func (c *Course) DisplayName(short bool) string {
	if short {
		return c.Abbreviation
	}
	return c.Name
}

// PrimaryWebsite returns the first website or "" when the course has none.
func (c *Course) PrimaryWebsite() string {
	if len(c.Website) == 0 {
		return ""
	}
	return c.Website[0]
}

func (c *Course) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Type)
}
