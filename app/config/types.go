package config

// Digest configuration types, one YAML file per digest.

type Config struct {
	Name     string         `yaml:"-"` // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Title    string         `yaml:"title"`
	Settings ConfigSettings `yaml:"settings"`
	Schedule ConfigSchedule `yaml:"schedule"`
	Header   string         `yaml:"header"`
	Footer   string         `yaml:"footer"`

	// Replacement rules, one "LEFT => RIGHT" per line
	Replacements       string `yaml:"replacements"`
	PrefixReplacements string `yaml:"prefix_replacements"`
}

type ConfigSettings struct {
	Enabled       bool   `yaml:"enabled"`
	MinItems      int    `yaml:"min_items"`
	LinkFormat    string `yaml:"link_format"` // full_link, bold_prefix, link_only
	Status        string `yaml:"status"`      // draft, publish
	Category      int    `yaml:"category"`    // 0 means uncategorized
	HistorySize   int    `yaml:"history_size"`
	ItemLimit     int    `yaml:"item_limit"`
	Timeout       int    `yaml:"timeout"`        // seconds
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryDelay    int    `yaml:"retry_delay"` // seconds
	CacheTTL      int    `yaml:"cache_ttl"`   // seconds
	AutoStrip     bool   `yaml:"auto_strip_prefixes"`
}

type ConfigSchedule struct {
	Hour     int    `yaml:"hour"`
	Minute   int    `yaml:"minute"`
	Weekdays []int  `yaml:"weekdays"` // 0 (Sunday) through 6 (Saturday)
	Timezone string `yaml:"timezone"` // empty: process default
}

// Link format values accepted in ConfigSettings.LinkFormat.
const (
	LinkFormatFull       = "full_link"
	LinkFormatBoldPrefix = "bold_prefix"
	LinkFormatLinkOnly   = "link_only"
)

// Publication status values accepted in ConfigSettings.Status.
const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
)
