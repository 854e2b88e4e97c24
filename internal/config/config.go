// Package config holds the immutable run configuration for tvfixtures.
//
// A Config is resolved once (YAML file, then environment overrides, then
// defaults) and handed to constructors. Nothing in the module reads global
// settings after that point.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // the reference zone must resolve on hosts without a zoneinfo database

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone  = "Europe/Vienna"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

// DefaultHighlight lists broadcasters that sort ahead of all other channels.
var DefaultHighlight = []string{"DAZN", "SKY SPORT", "CANAL PLUS ACTION", "CANAL + ACTION", "SPORTDIGITAL"}

// DefaultStopwords are club-name affixes and articles ignored when matching team names.
var DefaultStopwords = strings.Fields("fc cf afc sc ac fk sv cd aek csm club calcio de la el los the")

type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	Attempts      int           `yaml:"attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	JitterMin     time.Duration `yaml:"jitter_min"`
	JitterMax     time.Duration `yaml:"jitter_max"`
}

type SourceConfig struct {
	BaseURL        string `yaml:"base_url"`
	Referer        string `yaml:"referer"`
	AcceptLanguage string `yaml:"accept_language"`
	RenderURL      string `yaml:"render_url"` // only used by sources with a render fallback
}

type SourcesConfig struct {
	LiveOnSat   SourceConfig `yaml:"liveonsat"`
	SportEventz SourceConfig `yaml:"sporteventz"`
}

type RenderConfig struct {
	Enabled      *bool         `yaml:"enabled"`
	ChromeBin    string        `yaml:"chrome_bin"` // empty = let rod download/locate a browser
	Settle       time.Duration `yaml:"settle"`
	ScrollSettle time.Duration `yaml:"scroll_settle"`
	Timeout      time.Duration `yaml:"timeout"`
}

// IsEnabled reports whether the render fallback may launch a browser.
func (r RenderConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

type MatchConfig struct {
	MaxMinutes int    `yaml:"max_minutes"`
	MinScore   int    `yaml:"min_score"`
	Ratio      string `yaml:"ratio"` // token_set | sequence
}

type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Key      string `yaml:"key"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // non-empty enables path-style addressing (MinIO etc.)
}

type MirrorConfig struct {
	S3 S3Config `yaml:"s3"`
}

type Config struct {
	Timezone      string        `yaml:"timezone"`
	TimezoneLabel string        `yaml:"timezone_label"`
	DataDir       string        `yaml:"data_dir"`
	SnapshotFile  string        `yaml:"snapshot_file"`
	LogFile       string        `yaml:"log_file"`
	LogLevel      string        `yaml:"log_level"` // DEBUG | INFO | WARN | ERROR
	Highlight     []string      `yaml:"highlight"`
	Stopwords     []string      `yaml:"stopwords"`
	Match         MatchConfig   `yaml:"match"`
	HTTP          HTTPConfig    `yaml:"http"`
	Sources       SourcesConfig `yaml:"sources"`
	Render        RenderConfig  `yaml:"render"`
	Server        ServerConfig  `yaml:"server"`
	Mirror        MirrorConfig  `yaml:"mirror"`

	location *time.Location
}

// Default returns a fully populated configuration.
func Default() Config {
	var c Config
	if err := c.finish(); err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML config file, applies environment overrides and fills in
// defaults. A missing file yields the default configuration.
func Load(path string) (Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	c.applyEnv()
	if err := c.finish(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TVFIXTURES_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TVFIXTURES_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("TVFIXTURES_CHROME_BIN"); v != "" {
		c.Render.ChromeBin = v
	}
	if v := os.Getenv("TVFIXTURES_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TVFIXTURES_S3_BUCKET"); v != "" {
		c.Mirror.S3.Bucket = v
	}
}

func (c *Config) finish() error {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.DataDir == "" {
		c.DataDir = filepath.Join("web", "data")
	}
	if c.SnapshotFile == "" {
		c.SnapshotFile = "merged.json"
	}
	if c.LogFile == "" {
		c.LogFile = "reload.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if len(c.Highlight) == 0 {
		c.Highlight = append([]string(nil), DefaultHighlight...)
	}
	if len(c.Stopwords) == 0 {
		c.Stopwords = append([]string(nil), DefaultStopwords...)
	}

	if c.Match.MaxMinutes <= 0 {
		c.Match.MaxMinutes = 300
	}
	if c.Match.MinScore <= 0 {
		c.Match.MinScore = 70
	}
	switch c.Match.Ratio {
	case "":
		c.Match.Ratio = "token_set"
	case "token_set", "sequence":
	default:
		return fmt.Errorf("invalid match.ratio %q (must be token_set or sequence)", c.Match.Ratio)
	}

	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.HTTP.Attempts <= 0 {
		c.HTTP.Attempts = 3
	}
	if c.HTTP.RetryDelay <= 0 {
		c.HTTP.RetryDelay = 5 * time.Second
	}
	if c.HTTP.BackoffFactor < 1 {
		c.HTTP.BackoffFactor = 1.5
	}
	if c.HTTP.JitterMin == 0 && c.HTTP.JitterMax == 0 {
		c.HTTP.JitterMin, c.HTTP.JitterMax = 2*time.Second, 5*time.Second
	}
	if c.HTTP.JitterMax < c.HTTP.JitterMin {
		return fmt.Errorf("http.jitter_max (%s) is below http.jitter_min (%s)", c.HTTP.JitterMax, c.HTTP.JitterMin)
	}

	los := &c.Sources.LiveOnSat
	if los.BaseURL == "" {
		los.BaseURL = "https://liveonsat.com/2day.php"
	}
	if los.Referer == "" {
		los.Referer = "https://liveonsat.com/"
	}
	if los.AcceptLanguage == "" {
		los.AcceptLanguage = "en-US,en;q=0.9"
	}
	se := &c.Sources.SportEventz
	if se.BaseURL == "" {
		se.BaseURL = "https://sporteventz.com/de/component/magictable"
	}
	if se.Referer == "" {
		se.Referer = "https://sporteventz.com/"
	}
	if se.AcceptLanguage == "" {
		se.AcceptLanguage = "de,en;q=0.9"
	}
	if se.RenderURL == "" {
		se.RenderURL = "https://www.sporteventz.com/de/soccer"
	}

	if c.Render.Settle <= 0 {
		c.Render.Settle = 3 * time.Second
	}
	if c.Render.ScrollSettle <= 0 {
		c.Render.ScrollSettle = 1500 * time.Millisecond
	}
	if c.Render.Timeout <= 0 {
		c.Render.Timeout = 60 * time.Second
	}

	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		// a reload can take a full fetch cycle plus a browser render
		c.Server.WriteTimeout = 5 * time.Minute
	}

	if c.Mirror.S3.Bucket != "" {
		if c.Mirror.S3.Key == "" {
			c.Mirror.S3.Key = c.SnapshotFile
		}
		if c.Mirror.S3.Region == "" {
			c.Mirror.S3.Region = "us-east-1"
		}
	}
	return nil
}

// Location returns the fixed reference timezone.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Label returns the timezone label written into snapshots. When no explicit
// label is configured it is derived from the zone's offset at t.
func (c Config) Label(t time.Time) string {
	if c.TimezoneLabel != "" {
		return c.TimezoneLabel
	}
	_, offset := t.In(c.Location()).Zone()
	hours := offset / 3600
	mins := (offset % 3600) / 60
	if mins < 0 {
		mins = -mins
	}
	if mins != 0 {
		return fmt.Sprintf("%s (GMT%+d:%02d)", c.Timezone, hours, mins)
	}
	return fmt.Sprintf("%s (GMT%+d)", c.Timezone, hours)
}
