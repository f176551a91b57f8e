package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cutlist/internal/config"
	"cutlist/internal/title"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "cutlist")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Media.Extension != ".ts" {
		t.Fatalf("unexpected media extension: %q", cfg.Media.Extension)
	}
	if cfg.Title.Placeholder != "Nom du fichier converti" {
		t.Fatalf("unexpected placeholder: %q", cfg.Title.Placeholder)
	}
	if !cfg.Title.StripApostrophes {
		t.Fatal("expected apostrophe stripping enabled by default")
	}
	if cfg.Paths.TitleStrategies != "" || cfg.Paths.TitleBlacklist != "" || cfg.Paths.SeriesIndex != "" {
		t.Fatalf("expected optional title resources to stay empty: %+v", cfg.Paths)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if filepath.Dir(cfg.SessionDBPath()) != cfg.Paths.DataDir {
		t.Fatalf("unexpected session db path: %q", cfg.SessionDBPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cutlist.toml")
	blacklist := filepath.Join(tempDir, "blacklist.txt")
	if err := os.WriteFile(blacklist, []byte(" \\(VM\\)\n"), 0o644); err != nil {
		t.Fatalf("write blacklist: %v", err)
	}

	type payload struct {
		Paths struct {
			DataDir        string `toml:"data_dir"`
			TitleBlacklist string `toml:"title_blacklist"`
		} `toml:"paths"`
		Media struct {
			Extension string `toml:"extension"`
		} `toml:"media"`
		Title struct {
			DefaultStrategy  string `toml:"default_strategy"`
			StripApostrophes bool   `toml:"strip_apostrophes"`
		} `toml:"title"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Paths.TitleBlacklist = blacklist
	custom.Media.Extension = "mkv"
	custom.Title.DefaultStrategy = "SubtitleTitleExpanderExtractor"
	custom.Title.StripApostrophes = false
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Media.Extension != ".mkv" {
		t.Fatalf("expected extension to gain a dot, got %q", cfg.Media.Extension)
	}
	if cfg.Title.StripApostrophes {
		t.Fatal("expected strip_apostrophes override")
	}

	ctx, err := cfg.LoadTitleContext()
	if err != nil {
		t.Fatalf("LoadTitleContext: %v", err)
	}
	if ctx.StrategyFor("any") != title.SubtitleExpander {
		t.Fatalf("unexpected default strategy: %v", ctx.StrategyFor("any"))
	}
}

func TestEnvVarOverridesAPIToken(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cutlist.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\napi_token = \"file-token\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HOME", tempDir)
	t.Setenv("CUTLIST_API_TOKEN", "env-token")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "env-token" {
		t.Fatalf("expected token from env, got %q", cfg.Paths.APIToken)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "cutlist") {
		t.Fatalf("expected data dir to contain cutlist, got %q", cfg.Paths.DataDir)
	}
	if cfg.Title.DefaultStrategy != "Naive" {
		t.Fatalf("unexpected sample strategy %q", cfg.Title.DefaultStrategy)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"extension without dot", func(c *config.Config) { c.Media.Extension = "ts" }},
		{"extension with path", func(c *config.Config) { c.Media.Extension = ".t/s" }},
		{"unknown strategy", func(c *config.Config) { c.Title.DefaultStrategy = "Clever" }},
		{"bad bind", func(c *config.Config) { c.Paths.APIBind = "localhost" }},
		{"missing blacklist", func(c *config.Config) { c.Paths.TitleBlacklist = "/nonexistent/blacklist.txt" }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
