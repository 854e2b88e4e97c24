package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, DefaultTimezone)
	}
	if cfg.Match.MaxMinutes != 300 || cfg.Match.MinScore != 70 {
		t.Errorf("Match = %+v, want max 300 / score 70", cfg.Match)
	}
	if cfg.Match.Ratio != "token_set" {
		t.Errorf("Match.Ratio = %q, want token_set", cfg.Match.Ratio)
	}
	if cfg.HTTP.Attempts != 3 || cfg.HTTP.RetryDelay != 5*time.Second || cfg.HTTP.BackoffFactor != 1.5 {
		t.Errorf("HTTP retry = %+v", cfg.HTTP)
	}
	if len(cfg.Highlight) != len(DefaultHighlight) {
		t.Errorf("Highlight = %v", cfg.Highlight)
	}
	if !cfg.Render.IsEnabled() {
		t.Error("render fallback should be enabled by default")
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
	if cfg.Location().String() != DefaultTimezone {
		t.Errorf("Location() = %s", cfg.Location())
	}
}

func TestLoad_YAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvfixtures.yml")
	content := `
timezone: UTC
data_dir: /tmp/fixtures
highlight: ["BT SPORT"]
match:
  max_minutes: 120
  ratio: sequence
http:
  attempts: 5
  retry_delay: 1s
render:
  enabled: false
mirror:
  s3:
    bucket: schedules
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.DataDir != "/tmp/fixtures" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if len(cfg.Highlight) != 1 || cfg.Highlight[0] != "BT SPORT" {
		t.Errorf("Highlight = %v", cfg.Highlight)
	}
	if cfg.Match.MaxMinutes != 120 || cfg.Match.MinScore != 70 || cfg.Match.Ratio != "sequence" {
		t.Errorf("Match = %+v", cfg.Match)
	}
	if cfg.HTTP.Attempts != 5 || cfg.HTTP.RetryDelay != time.Second {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.Render.IsEnabled() {
		t.Error("render.enabled: false was ignored")
	}
	if cfg.Mirror.S3.Key != "merged.json" || cfg.Mirror.S3.Region != "us-east-1" {
		t.Errorf("S3 defaults = %+v", cfg.Mirror.S3)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "match: [oops"},
		{"bad ratio", "match:\n  ratio: cosine\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"inverted jitter", "http:\n  jitter_min: 5s\n  jitter_max: 1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TVFIXTURES_DATA_DIR", "/srv/fixtures")
	t.Setenv("TVFIXTURES_LISTEN_ADDR", ":9999")
	t.Setenv("TVFIXTURES_S3_BUCKET", "mirror")
	t.Setenv("TVFIXTURES_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != "/srv/fixtures" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Mirror.S3.Bucket != "mirror" {
		t.Errorf("S3.Bucket = %q", cfg.Mirror.S3.Bucket)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLabel(t *testing.T) {
	cfg := Default()

	summer := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	if got := cfg.Label(summer); got != "Europe/Vienna (GMT+2)" {
		t.Errorf("Label(summer) = %q", got)
	}
	winter := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := cfg.Label(winter); got != "Europe/Vienna (GMT+1)" {
		t.Errorf("Label(winter) = %q", got)
	}

	cfg.TimezoneLabel = "Vienna"
	if got := cfg.Label(summer); got != "Vienna" {
		t.Errorf("explicit Label = %q", got)
	}
}
