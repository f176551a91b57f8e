package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cutlist/internal/config"
	"cutlist/internal/logging"
	"cutlist/internal/review"
	"cutlist/internal/session"
	"cutlist/internal/title"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	titlesOnce sync.Once
	titles     *title.Context
	titlesErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) titleContext() (*title.Context, error) {
	c.titlesOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.titlesErr = err
			return
		}
		c.titles, c.titlesErr = cfg.LoadTitleContext()
	})
	return c.titles, c.titlesErr
}

// logger writes warnings to stderr so table and JSON output stay clean.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(logger, "cli:"+cmd.Name())
}

// withService opens the session database, runs fn with a review service and
// closes the database again.
func (c *commandContext) withService(cmd *cobra.Command, fn func(*review.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	titles, err := c.titleContext()
	if err != nil {
		return err
	}
	store, err := session.Open(cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	svc, err := review.NewService(store, review.Options{
		Extension: cfg.Media.Extension,
		Titles:    titles,
		Logger:    c.logger(cmd),
	})
	if err != nil {
		return err
	}
	return fn(svc)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
