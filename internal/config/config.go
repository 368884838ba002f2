// Package config holds the venue settings for a calendar build.
//
// A Config is a plain value: it is loaded once, overridden by command-line
// flags and then passed by value into the scraper and writer. Nothing in the
// pipeline reads package-level settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/landmark-ics/internal/storage"
)

const (
	DefaultCalendarURL   = "https://landmarktheatre.org/events/calendar/"
	DefaultTimezone      = "America/New_York"
	DefaultEventDuration = 2 * time.Hour
	DefaultFetchTimeout  = 20 * time.Second
	DefaultUserAgent     = "landmark-ics/1.0 (github.com/pfrederiksen/landmark-ics)"
	DefaultUIDDomain     = "landmarktheatre.org"
	DefaultSummaryPrefix = "Landmark: "
	DefaultCalendarName  = "Landmark Theatre"
	DefaultProductID     = "-//landmark-ics//EN"
	DefaultOutput        = "calendar.ics"
)

// Config describes one venue calendar and how to publish it.
type Config struct {
	// CalendarURL is the public event listing page.
	CalendarURL string `yaml:"calendar_url"`

	// Timezone is the IANA zone the venue prints its times in.
	Timezone string `yaml:"timezone"`

	// EventDuration is added to every start time to form the end time.
	EventDuration time.Duration `yaml:"event_duration"`

	// FetchTimeout bounds each HTTP request.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	UserAgent string `yaml:"user_agent"`

	// UIDDomain is appended to every event UID.
	UIDDomain string `yaml:"uid_domain"`

	// SummaryPrefix is prepended to every SUMMARY. Set it to an empty
	// string in the file to publish bare titles.
	SummaryPrefix *string `yaml:"summary_prefix,omitempty"`

	CalendarName string `yaml:"calendar_name"`
	ProductID    string `yaml:"product_id"`

	// Output is where the .ics file is written.
	Output string `yaml:"output"`

	// PrunePast drops events that started more than a day ago.
	PrunePast bool `yaml:"prune_past"`

	// Schedule, if set, is a cron expression (evaluated in Timezone) on
	// which the calendar is rebuilt until the process is stopped.
	Schedule string `yaml:"schedule,omitempty"`
}

// DefaultConfig returns the configuration for the Landmark Theatre.
func DefaultConfig() Config {
	prefix := DefaultSummaryPrefix
	return Config{
		CalendarURL:   DefaultCalendarURL,
		Timezone:      DefaultTimezone,
		EventDuration: DefaultEventDuration,
		FetchTimeout:  DefaultFetchTimeout,
		UserAgent:     DefaultUserAgent,
		UIDDomain:     DefaultUIDDomain,
		SummaryPrefix: &prefix,
		CalendarName:  DefaultCalendarName,
		ProductID:     DefaultProductID,
		Output:        DefaultOutput,
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled files still behave.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.CalendarURL == "" {
		c.CalendarURL = d.CalendarURL
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.EventDuration == 0 {
		c.EventDuration = d.EventDuration
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.UIDDomain == "" {
		c.UIDDomain = d.UIDDomain
	}
	if c.SummaryPrefix == nil {
		c.SummaryPrefix = d.SummaryPrefix
	}
	if c.CalendarName == "" {
		c.CalendarName = d.CalendarName
	}
	if c.ProductID == "" {
		c.ProductID = d.ProductID
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	c.Schedule = strings.TrimSpace(c.Schedule)
}

// Validate reports the first problem that would stop a build from running.
func (c Config) Validate() error {
	u, err := url.Parse(c.CalendarURL)
	if err != nil {
		return fmt.Errorf("invalid calendar_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid calendar_url %q: scheme must be http or https", c.CalendarURL)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.EventDuration <= 0 {
		return fmt.Errorf("event_duration must be positive, got %s", c.EventDuration)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
		}
	}
	return nil
}

// Location loads the venue time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Prefix returns the SUMMARY prefix, empty if none is configured.
func (c Config) Prefix() string {
	if c.SummaryPrefix == nil {
		return ""
	}
	return *c.SummaryPrefix
}

// WithPrefix returns a copy of c using prefix for SUMMARY lines.
func (c Config) WithPrefix(prefix string) Config {
	c.SummaryPrefix = &prefix
	return c
}

// Load reads a YAML config file and fills in defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path as YAML with 0600 permissions, replacing any
// existing file atomically.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return storage.WriteFile(path, 0o600, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
