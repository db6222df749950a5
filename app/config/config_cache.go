package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type ConfigCache struct {
	digestsDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewConfigCache(digestsDir string) *ConfigCache {
	return &ConfigCache{
		digestsDir: digestsDir,
		cache:      make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.digestsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.digestsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	cc.mu.Lock()
	cc.cache = make(map[string]*Config)
	cc.mu.Unlock()

	for _, file := range files {
		// Derive digest name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		digestName := strings.TrimSuffix(fileName, ".yml")

		config, err := cc.LoadConfig(digestName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "digest", digestName, "enabled", config.Settings.Enabled, "url", config.URL)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(digestName string) (*Config, error) {
	configFile := cc.getConfigFilePath(digestName)
	digestConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Set digest name from parameter
	digestConfig.Name = digestName

	if err := cc.validateConfig(digestConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[digestConfig.Name] = digestConfig

	return digestConfig, nil
}

func (cc *ConfigCache) GetConfig(digestName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	digestConfig, ok := cc.cache[digestName]
	if !ok {
		return nil, fmt.Errorf("digest config with name '%s' not found", digestName)
	}
	return digestConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var digestConfig Config
	if err := yaml.Unmarshal(data, &digestConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&digestConfig)

	return &digestConfig, nil
}

func setDefaults(digestConfig *Config) {
	if digestConfig.Settings.MinItems == 0 {
		digestConfig.Settings.MinItems = 1
	}
	if digestConfig.Settings.LinkFormat == "" {
		digestConfig.Settings.LinkFormat = LinkFormatFull
	}
	if digestConfig.Settings.Status == "" {
		digestConfig.Settings.Status = StatusDraft
	}
	if digestConfig.Settings.HistorySize == 0 {
		digestConfig.Settings.HistorySize = 500
	}
	if digestConfig.Settings.ItemLimit == 0 {
		digestConfig.Settings.ItemLimit = 100
	}
	if digestConfig.Settings.Timeout == 0 {
		digestConfig.Settings.Timeout = 30
	}
	if digestConfig.Settings.RetryAttempts == 0 {
		digestConfig.Settings.RetryAttempts = 3
	}
	if digestConfig.Settings.RetryDelay == 0 {
		digestConfig.Settings.RetryDelay = 5
	}
	if digestConfig.Settings.CacheTTL == 0 {
		digestConfig.Settings.CacheTTL = 1800
	}
}

func (cc *ConfigCache) validateConfig(digestConfig *Config) error {
	if digestConfig == nil {
		return fmt.Errorf("digestConfig is nil")
	}

	requiredFields := map[string]string{
		"digest name": digestConfig.Name,
		"feed URL":    digestConfig.URL,
		"base title":  digestConfig.Title,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	nonNegativeFields := map[string]int{
		"min items":      digestConfig.Settings.MinItems,
		"history size":   digestConfig.Settings.HistorySize,
		"item limit":     digestConfig.Settings.ItemLimit,
		"timeout":        digestConfig.Settings.Timeout,
		"retry attempts": digestConfig.Settings.RetryAttempts,
		"retry delay":    digestConfig.Settings.RetryDelay,
		"cache TTL":      digestConfig.Settings.CacheTTL,
		"category":       digestConfig.Settings.Category,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	validFormats := map[string]bool{
		LinkFormatFull:       true,
		LinkFormatBoldPrefix: true,
		LinkFormatLinkOnly:   true,
	}
	if !validFormats[digestConfig.Settings.LinkFormat] {
		return fmt.Errorf("invalid link format: %s", digestConfig.Settings.LinkFormat)
	}

	validStatuses := map[string]bool{
		StatusDraft:   true,
		StatusPublish: true,
	}
	if !validStatuses[digestConfig.Settings.Status] {
		return fmt.Errorf("invalid status: %s", digestConfig.Settings.Status)
	}

	if digestConfig.Schedule.Hour < 0 || digestConfig.Schedule.Hour > 23 {
		return fmt.Errorf("schedule hour must be between 0 and 23")
	}
	if digestConfig.Schedule.Minute < 0 || digestConfig.Schedule.Minute > 59 {
		return fmt.Errorf("schedule minute must be between 0 and 59")
	}
	for _, weekday := range digestConfig.Schedule.Weekdays {
		if weekday < 0 || weekday > 6 {
			return fmt.Errorf("schedule weekday must be between 0 and 6, got %d", weekday)
		}
	}
	if digestConfig.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(digestConfig.Schedule.Timezone); err != nil {
			return fmt.Errorf("invalid schedule timezone: %w", err)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(digestName string) string {
	return filepath.Join(cc.digestsDir, digestName+".yml")
}
