// Package monitoring reports failed commands to an error tracker.
package monitoring

import "time"

// Monitor records errors and panics of a command run.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// Recover must be deferred. It reports a panic and re-raises it.
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor is used when no tracker is configured.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}
