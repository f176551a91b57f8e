package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"

	"cutlist/internal/title"
)

var extensionRe = regexp.MustCompile(`^\.\w+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateTitle(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q must be host:port: %w", c.Paths.APIBind, err)
	}
	for name, path := range map[string]string{
		"paths.title_strategies": c.Paths.TitleStrategies,
		"paths.title_blacklist":  c.Paths.TitleBlacklist,
		"paths.series_index":     c.Paths.SeriesIndex,
	} {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s %q is a directory", name, path)
		}
	}
	return nil
}

func (c *Config) validateMedia() error {
	if !extensionRe.MatchString(c.Media.Extension) {
		return fmt.Errorf("media.extension %q must look like .ts", c.Media.Extension)
	}
	return nil
}

func (c *Config) validateTitle() error {
	if _, err := title.ParseStrategy(c.Title.DefaultStrategy); err != nil {
		return fmt.Errorf("title.default_strategy: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
