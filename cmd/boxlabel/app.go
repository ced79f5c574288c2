package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/example/boxlabel/internal/category"
	"github.com/example/boxlabel/internal/config"
	"github.com/example/boxlabel/internal/logutils"
	"github.com/example/boxlabel/internal/theme"
)

// Flags holds the global options and what the Before hook derives from them.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands.
	Config *config.Config
}

// Categories loads the category set from override, falling back to the
// configured file and then the built-in set.
func (f *Flags) Categories(override string) (category.Set, error) {
	path := override
	if path == "" && f.Config != nil {
		path = f.Config.Categories
	}
	return category.Load(path)
}

// Theme resolves the theme named by override or the configuration.
func (f *Flags) Theme(override string) (*theme.Theme, error) {
	cfg := f.Config
	if cfg == nil {
		cfg = config.New()
	}
	if override != "" {
		c := *cfg
		c.Theme = override
		cfg = &c
	}
	return cfg.ResolveTheme(nil)
}

func newApp(flags *Flags) *cli.Command {
	var logCloser func()

	app := &cli.Command{
		Name:      "boxlabel",
		Usage:     "Draw and export bounding-box annotations",
		UsageText: "boxlabel [global options] command [command options]",
		Description: `boxlabel opens an image in a window where rectangular regions can be
drawn, moved, resized and labelled. Submitting writes the boxes, mapped to
the image's original pixels, as a JSON record in the output directory.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("BOXLABEL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write JSON logs to this file instead of stderr",
				Sources:     cli.EnvVars("BOXLABEL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("BOXLABEL_CONFIG"),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.NewLoader(version, flags.ConfigPath).Load()
			if err != nil {
				log.Warn().Err(err).Msg("failed to load config, using defaults")
				cfg = config.New()
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config: %w", err)
			}
			flags.Config = cfg
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = NewAnnotateCmd(flags).Register(app)
	app = NewPreviewCmd(flags).Register(app)
	app = NewExportCmd(flags).Register(app)
	app = NewCategoriesCmd(flags).Register(app)
	app = NewConfigCmd(flags).Register(app)
	app = NewVersionCmd().Register(app)
	return app
}
