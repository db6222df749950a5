package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/feed.xml"
title: "Morning Links"

settings:
  enabled: true
  min_items: 3
  link_format: bold_prefix
  status: publish
  category: 7
  auto_strip_prefixes: true

schedule:
  hour: 8
  minute: 30
  weekdays: [1, 2, 3, 4, 5]

header: "<p>Good morning.</p>"
footer: "<p>See you tomorrow.</p>"

prefix_replacements: |
  The Beat => Comics Beat
`

	err := os.WriteFile(filepath.Join(tempDir, "morning.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 digest config, got %d", configCache.GetConfigCount())
	}

	digestConfig, err := configCache.GetConfig("morning")
	if err != nil {
		t.Fatal(err)
	}

	if digestConfig.Name != "morning" {
		t.Errorf("Expected name 'morning', got '%s'", digestConfig.Name)
	}
	if digestConfig.URL != "https://example.com/feed.xml" {
		t.Errorf("Expected URL 'https://example.com/feed.xml', got '%s'", digestConfig.URL)
	}
	if digestConfig.Title != "Morning Links" {
		t.Errorf("Expected title 'Morning Links', got '%s'", digestConfig.Title)
	}
	if digestConfig.Settings.MinItems != 3 {
		t.Errorf("Expected min items 3, got %d", digestConfig.Settings.MinItems)
	}
	if digestConfig.Settings.LinkFormat != LinkFormatBoldPrefix {
		t.Errorf("Expected link format 'bold_prefix', got '%s'", digestConfig.Settings.LinkFormat)
	}
	if digestConfig.Settings.Category != 7 {
		t.Errorf("Expected category 7, got %d", digestConfig.Settings.Category)
	}
	if !digestConfig.Settings.AutoStrip {
		t.Error("Expected auto strip to be enabled")
	}
	if digestConfig.Schedule.Hour != 8 || digestConfig.Schedule.Minute != 30 {
		t.Errorf("Expected schedule 08:30, got %02d:%02d", digestConfig.Schedule.Hour, digestConfig.Schedule.Minute)
	}
	if len(digestConfig.Schedule.Weekdays) != 5 {
		t.Errorf("Expected 5 weekdays, got %d", len(digestConfig.Schedule.Weekdays))
	}

	rules := digestConfig.PrefixRules()
	if rules["The Beat"] != "Comics Beat" {
		t.Errorf("Expected prefix rule 'The Beat' -> 'Comics Beat', got '%s'", rules["The Beat"])
	}
}

func TestConfigCacheDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/feed.xml"
title: "Links"
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "defaults.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	digestConfig, err := configCache.GetConfig("defaults")
	if err != nil {
		t.Fatal(err)
	}

	if digestConfig.Settings.MinItems != 1 {
		t.Errorf("Expected default min items 1, got %d", digestConfig.Settings.MinItems)
	}
	if digestConfig.Settings.LinkFormat != LinkFormatFull {
		t.Errorf("Expected default link format 'full_link', got '%s'", digestConfig.Settings.LinkFormat)
	}
	if digestConfig.Settings.Status != StatusDraft {
		t.Errorf("Expected default status 'draft', got '%s'", digestConfig.Settings.Status)
	}
	if digestConfig.Settings.HistorySize != 500 {
		t.Errorf("Expected default history size 500, got %d", digestConfig.Settings.HistorySize)
	}
	if digestConfig.Settings.ItemLimit != 100 {
		t.Errorf("Expected default item limit 100, got %d", digestConfig.Settings.ItemLimit)
	}
	if digestConfig.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", digestConfig.Settings.Timeout)
	}
	if digestConfig.Settings.RetryAttempts != 3 {
		t.Errorf("Expected default retry attempts 3, got %d", digestConfig.Settings.RetryAttempts)
	}
	if digestConfig.Settings.RetryDelay != 5 {
		t.Errorf("Expected default retry delay 5, got %d", digestConfig.Settings.RetryDelay)
	}
	if digestConfig.Settings.CacheTTL != 1800 {
		t.Errorf("Expected default cache TTL 1800, got %d", digestConfig.Settings.CacheTTL)
	}
}

func TestConfigCacheInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "missing URL",
			content: "title: Links\nsettings:\n  enabled: true\n",
			errPart: "feed URL is required",
		},
		{
			name:    "missing title",
			content: "url: https://example.com/feed.xml\n",
			errPart: "base title is required",
		},
		{
			name:    "bad link format",
			content: "url: https://example.com/feed.xml\ntitle: Links\nsettings:\n  link_format: shiny\n",
			errPart: "invalid link format",
		},
		{
			name:    "bad hour",
			content: "url: https://example.com/feed.xml\ntitle: Links\nschedule:\n  hour: 24\n",
			errPart: "schedule hour",
		},
		{
			name:    "bad weekday",
			content: "url: https://example.com/feed.xml\ntitle: Links\nschedule:\n  weekdays: [7]\n",
			errPart: "schedule weekday",
		},
		{
			name:    "bad timezone",
			content: "url: https://example.com/feed.xml\ntitle: Links\nschedule:\n  timezone: Mars/Olympus\n",
			errPart: "invalid schedule timezone",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tempDir := t.TempDir()
			err := os.WriteFile(filepath.Join(tempDir, "bad.yml"), []byte(tc.content), 0644)
			if err != nil {
				t.Fatal(err)
			}

			configCache := NewConfigCache(tempDir)
			err = configCache.Run()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("Expected error containing '%s', got: %v", tc.errPart, err)
			}
		})
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache("/nonexistent/path")
	if err := configCache.Run(); err != nil {
		t.Errorf("Expected no error for missing directory, got: %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got %d", configCache.GetConfigCount())
	}
}
