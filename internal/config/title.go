package config

import (
	"fmt"

	"cutlist/internal/title"
)

// LoadTitleContext builds the read-only title resolution context from the
// [title] section and the resource files named in [paths].
func (c *Config) LoadTitleContext() (*title.Context, error) {
	fallback, err := title.ParseStrategy(c.Title.DefaultStrategy)
	if err != nil {
		return nil, fmt.Errorf("title.default_strategy: %w", err)
	}
	ctx, err := title.LoadContext(title.Files{
		Strategies: c.Paths.TitleStrategies,
		Blacklist:  c.Paths.TitleBlacklist,
		Index:      c.Paths.SeriesIndex,
	}, fallback, c.Title.Placeholder, c.Title.StripApostrophes)
	if err != nil {
		return nil, fmt.Errorf("load title context: %w", err)
	}
	return ctx, nil
}
