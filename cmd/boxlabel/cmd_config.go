package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/example/boxlabel/internal/config"
)

type ConfigCmd struct {
	flags *Flags
}

func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

func (cmd *ConfigCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "config",
		Usage:     "Inspect or save the configuration",
		UsageText: "boxlabel config print|path|save",
		Commands: []*cli.Command{
			{
				Name:   "print",
				Usage:  "Print the effective configuration",
				Action: cmd.print,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file in use",
				Action: cmd.path,
			},
			{
				Name:   "save",
				Usage:  "Write the effective configuration to the configuration file",
				Action: cmd.save,
			},
		},
	})
	return root
}

func (cmd *ConfigCmd) loader() *config.Loader {
	return config.NewLoader(version, cmd.flags.ConfigPath)
}

func (cmd *ConfigCmd) print(ctx context.Context, c *cli.Command) error {
	_, err := fmt.Fprint(c.Root().Writer, cmd.flags.Config.String())
	return err
}

func (cmd *ConfigCmd) path(ctx context.Context, c *cli.Command) error {
	l := cmd.loader()
	path := l.GetConfigPath()
	if path == "" {
		path = l.DefaultPath() + " (not created)"
	}
	_, err := fmt.Fprintln(c.Root().Writer, path)
	return err
}

func (cmd *ConfigCmd) save(ctx context.Context, c *cli.Command) error {
	l := cmd.loader()
	path := l.GetConfigPath()
	if path == "" {
		path = l.DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cmd.flags.Config.String()), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("configuration saved")
	return nil
}
