package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.EventDuration != 2*time.Hour {
		t.Errorf("expected 2h default duration, got %v", cfg.EventDuration)
	}
	if cfg.Prefix() != "Landmark: " {
		t.Errorf("expected default prefix 'Landmark: ', got %q", cfg.Prefix())
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatal(err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("expected America/New_York, got %s", loc)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venue.yaml")
	content := `
calendar_url: https://example.org/calendar/
timezone: America/Chicago
event_duration: 90m
summary_prefix: ""
prune_past: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CalendarURL != "https://example.org/calendar/" {
		t.Errorf("CalendarURL = %q", cfg.CalendarURL)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.EventDuration != 90*time.Minute {
		t.Errorf("EventDuration = %v, want 90m", cfg.EventDuration)
	}
	if cfg.Prefix() != "" {
		t.Errorf("explicit empty prefix should be kept, got %q", cfg.Prefix())
	}
	if !cfg.PrunePast {
		t.Error("PrunePast should be true")
	}

	// Unset fields fall back to defaults
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v, want default", cfg.FetchTimeout)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want default", cfg.Output)
	}
	if cfg.UIDDomain != DefaultUIDDomain {
		t.Errorf("UIDDomain = %q, want default", cfg.UIDDomain)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("calendar_url: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CalendarURL != DefaultCalendarURL {
		t.Errorf("expected defaults for empty path, got %q", cfg.CalendarURL)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "venue.yaml")

	cfg := DefaultConfig().WithPrefix("")
	cfg.Timezone = "Europe/London"
	cfg.Schedule = "0 */6 * * *"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Timezone != "Europe/London" || loaded.Schedule != "0 */6 * * *" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Prefix() != "" {
		t.Errorf("round trip lost empty prefix, got %q", loaded.Prefix())
	}
	if loaded.EventDuration != DefaultEventDuration {
		t.Errorf("EventDuration = %v, want %v", loaded.EventDuration, DefaultEventDuration)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad scheme", func(c *Config) { c.CalendarURL = "ftp://example.org" }, "scheme"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "invalid timezone"},
		{"negative duration", func(c *Config) { c.EventDuration = -time.Hour }, "event_duration"},
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }, "fetch_timeout"},
		{"bad schedule", func(c *Config) { c.Schedule = "every day" }, "invalid schedule"},
		{"good schedule", func(c *Config) { c.Schedule = "@hourly" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWithPrefixDoesNotAlias(t *testing.T) {
	base := DefaultConfig()
	bare := base.WithPrefix("")

	if base.Prefix() != DefaultSummaryPrefix {
		t.Errorf("WithPrefix modified the original: %q", base.Prefix())
	}
	if bare.Prefix() != "" {
		t.Errorf("WithPrefix() prefix = %q, want empty", bare.Prefix())
	}
}
