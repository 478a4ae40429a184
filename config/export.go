package config

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ExportConfig bounds the exported calendar and configures each format.
type ExportConfig struct {
	// SemesterStart and SemesterEnd are dates such as 2024-02-19.
	SemesterStart string `json:"semester_start"`
	SemesterEnd   string `json:"semester_end"`
	// Timezone is an IANA name; empty means the local zone.
	Timezone string `json:"timezone"`
	// Formats holds the per-format options keyed by format name.
	Formats map[string]map[string]any `json:"formats"`
}

func (c *ExportConfig) SetDefaults() {
	if c.Formats == nil {
		c.Formats = map[string]map[string]any{}
	}
}

func (c ExportConfig) Validate() error {
	loc, err := c.Location()
	if err != nil {
		return err
	}
	start, end, err := c.Semester(loc)
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return fmt.Errorf("semester_start %s is not before semester_end %s", c.SemesterStart, c.SemesterEnd)
	}
	return nil
}

// Location resolves Timezone.
func (c ExportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// Semester parses the semester bounds in loc. Unset bounds are zero.
func (c ExportConfig) Semester(loc *time.Location) (start, end time.Time, err error) {
	if c.SemesterStart != "" {
		if start, err = time.ParseInLocation(dateLayout, c.SemesterStart, loc); err != nil {
			return start, end, fmt.Errorf("semester_start: %w", err)
		}
	}
	if c.SemesterEnd != "" {
		if end, err = time.ParseInLocation(dateLayout, c.SemesterEnd, loc); err != nil {
			return start, end, fmt.Errorf("semester_end: %w", err)
		}
	}
	return start, end, nil
}
