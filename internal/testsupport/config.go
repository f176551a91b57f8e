package testsupport

import (
	"path/filepath"
	"testing"

	"cutlist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Logging.RetentionDays = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAPIToken sets the bearer token required by the API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithTitleResources writes a blacklist and a strategy file into the temp
// directory and points the config at them. Empty contents are skipped.
func WithTitleResources(strategies, blacklist string) ConfigOption {
	return func(b *configBuilder) {
		if strategies != "" {
			path := filepath.Join(b.baseDir, "title_strategies.yml")
			WriteText(b.t, path, strategies)
			b.cfg.Paths.TitleStrategies = path
		}
		if blacklist != "" {
			path := filepath.Join(b.baseDir, "title_blacklist.txt")
			WriteText(b.t, path, blacklist)
			b.cfg.Paths.TitleBlacklist = path
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
