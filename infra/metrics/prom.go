// Package metrics records the outcome of website checks in Prometheus
// collectors. The CLI exits after each command, so the registry is written
// to a node-exporter textfile instead of being served.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Check outcomes.
const (
	OutcomeCreated   = "created"
	OutcomeUnchanged = "unchanged"
	OutcomeChanged   = "changed"
	OutcomeSkipped   = "skipped"
	OutcomeError     = "error"
)

// PromSink records website checks in Prometheus metrics.
type PromSink struct {
	reg       *prometheus.Registry
	checks    *prometheus.CounterVec
	lastCheck *prometheus.GaugeVec
	fetch     prometheus.Histogram
	courses   prometheus.Gauge
}

// NewPromSink registers the collectors on a fresh registry.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.NewRegistry())
}

// NewPromSinkWithRegistry registers the collectors on reg. Collectors that
// are already registered are reused.
func NewPromSinkWithRegistry(reg *prometheus.Registry) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	checks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_website_checks_total",
		Help: "Total number of course website checks by outcome",
	}, []string{"course", "outcome"})
	lastCheck := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "school_website_last_check_timestamp_seconds",
		Help: "Unix time of the last successful website check",
	}, []string{"course"})
	fetch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "school_website_fetch_seconds",
		Help:    "Time spent fetching course websites",
		Buckets: prometheus.DefBuckets,
	})
	courses := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "school_courses_loaded",
		Help: "Number of courses found in the courses folder",
	})

	var err error
	if checks, err = register(reg, checks); err != nil {
		return nil, err
	}
	if lastCheck, err = register(reg, lastCheck); err != nil {
		return nil, err
	}
	if fetch, err = register(reg, fetch); err != nil {
		return nil, err
	}
	if courses, err = register(reg, courses); err != nil {
		return nil, err
	}
	return &PromSink{reg: reg, checks: checks, lastCheck: lastCheck, fetch: fetch, courses: courses}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Registry exposes the underlying registry.
func (s *PromSink) Registry() *prometheus.Registry { return s.reg }

// RecordCheck counts one website check. Successful outcomes also move the
// last-check timestamp.
func (s *PromSink) RecordCheck(course, outcome string, fetched time.Duration, at time.Time) {
	s.checks.WithLabelValues(course, outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	if fetched > 0 {
		s.fetch.Observe(fetched.Seconds())
	}
	if outcome != OutcomeError {
		s.lastCheck.WithLabelValues(course).Set(float64(at.Unix()))
	}
}

// RecordCourses sets the number of loaded courses.
func (s *PromSink) RecordCourses(n int) {
	s.courses.Set(float64(n))
}

// WriteTextfile writes the registry in the text exposition format to path,
// atomically, for the node-exporter textfile collector.
func (s *PromSink) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, s.reg)
}
