package title

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPlaceholder replaces the title of recordings whose filename cannot
// be parsed.
const DefaultPlaceholder = "Nom du fichier converti"

// Context is the read-only input of title resolution.
type Context struct {
	strategies  map[string]Strategy
	fallback    Strategy
	cleaner     *Cleaner
	index       SeriesIndex
	placeholder string
}

// Options configures NewContext.
type Options struct {
	Strategies  map[string]Strategy
	Default     Strategy
	Cleaner     *Cleaner
	Index       SeriesIndex
	Placeholder string
}

// NewContext copies opts into an immutable Context.
func NewContext(opts Options) *Context {
	strategies := make(map[string]Strategy, len(opts.Strategies))
	for channel, s := range opts.Strategies {
		strategies[strings.TrimSpace(channel)] = s
	}
	placeholder := strings.TrimSpace(opts.Placeholder)
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Context{
		strategies:  strategies,
		fallback:    opts.Default,
		cleaner:     opts.Cleaner,
		index:       opts.Index,
		placeholder: placeholder,
	}
}

// Placeholder returns the substitute title for unrecognized filenames.
func (c *Context) Placeholder() string {
	if c == nil {
		return DefaultPlaceholder
	}
	return c.placeholder
}

// StrategyFor returns the strategy configured for channel, or the default.
func (c *Context) StrategyFor(channel string) Strategy {
	if c == nil {
		return Naive
	}
	if s, ok := c.strategies[channel]; ok {
		return s
	}
	return c.fallback
}

// Files names the optional resources loaded by LoadContext. Empty paths are
// skipped.
type Files struct {
	Strategies string
	Blacklist  string
	Index      string
}

// LoadContext reads the strategy YAML, the blacklist and the series index
// JSON. Unknown strategy names fail here rather than during resolution.
func LoadContext(files Files, fallback Strategy, placeholder string, stripApostrophes bool) (*Context, error) {
	opts := Options{Default: fallback, Placeholder: placeholder}

	if files.Strategies != "" {
		data, err := os.ReadFile(files.Strategies)
		if err != nil {
			return nil, fmt.Errorf("read title strategies: %w", err)
		}
		strategies, err := ParseStrategies(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", files.Strategies, err)
		}
		opts.Strategies = strategies
	}

	var blacklist io.Reader = strings.NewReader("")
	if files.Blacklist != "" {
		data, err := os.ReadFile(files.Blacklist)
		if err != nil {
			return nil, fmt.Errorf("read title blacklist: %w", err)
		}
		blacklist = bytes.NewReader(data)
	}
	cleaner, err := ReadCleaner(blacklist, stripApostrophes)
	if err != nil {
		return nil, err
	}
	opts.Cleaner = cleaner

	if files.Index != "" {
		f, err := os.Open(files.Index)
		if err != nil {
			return nil, fmt.Errorf("open series index: %w", err)
		}
		defer f.Close()
		idx, err := ReadSeriesIndex(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", files.Index, err)
		}
		opts.Index = idx
	}

	return NewContext(opts), nil
}

// ParseStrategies decodes a YAML mapping of channel to strategy name.
func ParseStrategies(data []byte) (map[string]Strategy, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode title strategies: %w", err)
	}
	out := make(map[string]Strategy, len(raw))
	for channel, name := range raw {
		s, err := ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", channel, err)
		}
		out[channel] = s
	}
	return out, nil
}
