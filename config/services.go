package config

import (
	"errors"
	"time"

	"github.com/kilianp07/school/core/semester"
	"github.com/kilianp07/school/core/snapshot"
)

// SnapshotConfig configures the website cache.
type SnapshotConfig struct {
	FileName       string `json:"file_name"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (c *SnapshotConfig) SetDefaults() {
	if c.FileName == "" {
		c.FileName = snapshot.DefaultFileName
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

func (c SnapshotConfig) Validate() error {
	if c.FileName == "" {
		return errors.New("file_name is required")
	}
	return nil
}

func (c SnapshotConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MetricsConfig enables the node-exporter textfile written by "check all".
type MetricsConfig struct {
	Textfile string `json:"textfile"`
}

// SemesterConfig names the type folders created by "initialize".
type SemesterConfig struct {
	LectureType string `json:"lecture_type"`
	LabType     string `json:"lab_type"`
}

func (c *SemesterConfig) SetDefaults() {
	if c.LectureType == "" {
		c.LectureType = semester.DefaultLectureType
	}
	if c.LabType == "" {
		c.LabType = semester.DefaultLabType
	}
}
