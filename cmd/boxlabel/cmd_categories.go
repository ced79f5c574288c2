package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type CategoriesCmd struct {
	flags      *Flags
	categories string
	format     string
}

func NewCategoriesCmd(flags *Flags) *CategoriesCmd {
	return &CategoriesCmd{flags: flags}
}

func (cmd *CategoriesCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "categories",
		Usage:     "Validate and print the category set",
		UsageText: "boxlabel categories [--categories FILE] [--format text|yaml]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "categories",
				Usage:       "YAML category file (overrides config)",
				Sources:     cli.EnvVars("BOXLABEL_CATEGORIES"),
				Destination: &cmd.categories,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, yaml)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *CategoriesCmd) run(ctx context.Context, c *cli.Command) error {
	set, err := cmd.flags.Categories(cmd.categories)
	if err != nil {
		return err
	}
	out := c.Root().Writer

	switch cmd.format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return fmt.Errorf("encode categories: %w", err)
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for i, cat := range set.Categories {
			key := "-"
			if i < 9 {
				key = fmt.Sprint(i + 1)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, cat.Title, cat.Color)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", cmd.format)
	}
}
