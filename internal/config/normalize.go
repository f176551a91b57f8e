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
	c.normalizeMedia()
	c.normalizeTitle()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	// Resource files are optional; empty stays empty.
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"paths.title_strategies", &c.Paths.TitleStrategies},
		{"paths.title_blacklist", &c.Paths.TitleBlacklist},
		{"paths.series_index", &c.Paths.SeriesIndex},
	} {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			*field.value = ""
			continue
		}
		if *field.value, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if value, ok := os.LookupEnv("CUTLIST_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIToken = value
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeMedia() {
	ext := strings.TrimSpace(c.Media.Extension)
	if ext == "" {
		ext = defaultMediaExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Media.Extension = ext
}

func (c *Config) normalizeTitle() {
	c.Title.DefaultStrategy = strings.TrimSpace(c.Title.DefaultStrategy)
	if c.Title.DefaultStrategy == "" {
		c.Title.DefaultStrategy = defaultTitleStrategy
	}
	c.Title.Placeholder = strings.TrimSpace(c.Title.Placeholder)
	if c.Title.Placeholder == "" {
		c.Title.Placeholder = defaultTitlePlaceholder
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
