package config

import (
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateSelector(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateArtifacts() error {
	parsed, err := url.Parse(c.Artifacts.BaseURL)
	if err != nil {
		return fmt.Errorf("artifacts.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("artifacts.base_url must be an http(s) URL, got %q", c.Artifacts.BaseURL)
	}
	return nil
}

func (c *Config) validateSelector() error {
	switch c.Selector.DefaultVariant {
	case "autoscale", "autoscale-ml":
		return nil
	default:
		return fmt.Errorf("selector.default_variant must be %q or %q, got %q", "autoscale", "autoscale-ml", c.Selector.DefaultVariant)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
