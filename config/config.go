package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPath names the variable holding the config file location.
	EnvPath = "SCHOOL_CONFIG"
	// EnvPrefix prefixes overrides such as SCHOOL_COURSES__FOLDER.
	EnvPrefix = "SCHOOL_"
)

type Config struct {
	Courses  CoursesConfig  `json:"courses"`
	Handlers HandlersConfig `json:"handlers"`
	Cron     CronConfig     `json:"cron"`
	Notify   NotifyConfig   `json:"notify"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Metrics  MetricsConfig  `json:"metrics"`
	Semester SemesterConfig `json:"semester"`
	Mail     MailConfig     `json:"mail"`
	Export   ExportConfig   `json:"export"`
	Logging  LoggingConfig  `json:"logging"`
	Sentry   SentryConfig   `json:"sentry"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `json:"-"`
}

// Resolve returns the config file to read: flag, then $SCHOOL_CONFIG, then
// <UserConfigDir>/school/config.yaml. explicit is false for the last one,
// whose absence is not an error.
func Resolve(flag string) (path string, explicit bool, err error) {
	if flag != "" {
		return flag, true, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, true, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "school", "config.yaml"), false, nil
}

// Load reads the file at path (if any), applies SCHOOL_ environment
// overrides, fills in defaults and validates every section.
func Load(path string, explicit bool) (*Config, error) {
	k := koanf.New(".")
	read := path
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			read = ""
		}
	}
	if read != "" {
		ext := strings.ToLower(filepath.Ext(read))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(read), parser); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Path = read
	cfg.SetDefaults()
	if read != "" && !filepath.IsAbs(cfg.Courses.Folder) {
		cfg.Courses.Folder = filepath.Join(filepath.Dir(read), cfg.Courses.Folder)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps SCHOOL_SECTION__KEY to section.key.
func envKey(s string) string {
	if s == EnvPath {
		return ""
	}
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Courses.SetDefaults()
	c.Handlers.SetDefaults()
	c.Cron.SetDefaults()
	c.Snapshot.SetDefaults()
	c.Semester.SetDefaults()
	c.Mail.SetDefaults()
	c.Export.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and names the failing one.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"courses", c.Courses.Validate},
		{"handlers", c.Handlers.Validate},
		{"cron", c.Cron.Validate},
		{"notify", c.Notify.Validate},
		{"snapshot", c.Snapshot.Validate},
		{"mail", c.Mail.Validate},
		{"export", c.Export.Validate},
		{"logging", c.Logging.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("config %s: %w", ch.name, err)
		}
	}
	return nil
}
