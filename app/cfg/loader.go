package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./feed-digest.db" description:"Path to the SQLite database file"`

	// Application configuration
	DigestsDir   string `long:"digests-dir" env:"DIGESTS_DIR" default:"./digests" description:"Directory containing digest configuration files"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Publishing target
	SinkURL   string `long:"sink-url" env:"SINK_URL" description:"Base URL of the CMS that receives compiled digests (empty: print to stdout)"`
	SinkToken string `long:"sink-token" env:"SINK_TOKEN" description:"Bearer token for the CMS API (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Feed Digest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Default timezone for digest schedules (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:       raw.DBPath,
		DigestsDir:   raw.DigestsDir,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		SinkURL:      raw.SinkURL,
		SinkToken:    raw.SinkToken,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', falling back to UTC: %v\n", cfg.Timezone, err)
		cfg.Timezone = "UTC"
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Location resolves the configured default timezone. Load guarantees the
// name is valid, so a failure here falls back to UTC.
func (c *Cfg) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
