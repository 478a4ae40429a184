package config

import "errors"

// CronConfig configures the notification block written by "compile cron".
type CronConfig struct {
	File string `json:"file"`
	// User runs the notifications; empty means the invoking user.
	User          string `json:"user"`
	NotifyCommand string       `json:"notify_command"`
	Messages      CronMessages `json:"messages"`
}

// CronMessages override the notification templates. They are text/template
// strings executed with the course, the next course and the gap in minutes.
type CronMessages struct {
	Next    string `json:"next"`
	Last    string `json:"last"`
	Started string `json:"started"`
}

func (c *CronConfig) SetDefaults() {
	if c.File == "" {
		c.File = "/etc/crontab"
	}
	if c.NotifyCommand == "" {
		c.NotifyCommand = "dunstify rozvrh"
	}
}

func (c CronConfig) Validate() error {
	if c.NotifyCommand == "" {
		return errors.New("notify_command is required")
	}
	return nil
}
