package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeArtifacts()
	c.normalizeSelector()
	c.normalizeLogging()
	return c.normalizeJournal()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeArtifacts() {
	if value, ok := os.LookupEnv("LXCSETUP_ARTIFACT_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Artifacts.BaseURL = value
	}
	c.Artifacts.BaseURL = strings.TrimRight(strings.TrimSpace(c.Artifacts.BaseURL), "/")
	if c.Artifacts.BaseURL == "" {
		c.Artifacts.BaseURL = defaultArtifactBaseURL
	}
	if c.Artifacts.FetchTimeout <= 0 {
		c.Artifacts.FetchTimeout = defaultFetchTimeout
	}
}

func (c *Config) normalizeSelector() {
	if c.Selector.Timeout <= 0 {
		c.Selector.Timeout = defaultSelectorTimeout
	}
	c.Selector.DefaultVariant = strings.ToLower(strings.TrimSpace(c.Selector.DefaultVariant))
	if c.Selector.DefaultVariant == "" {
		c.Selector.DefaultVariant = defaultVariant
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = ""
		return nil
	}
	expanded, err := expandPath(c.Journal.Path)
	if err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	c.Journal.Path = expanded
	return nil
}
