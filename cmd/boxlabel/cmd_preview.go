package main

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/example/boxlabel/internal/app"
	"github.com/example/boxlabel/internal/imagesrc"
	"github.com/example/boxlabel/internal/render"
)

type PreviewCmd struct {
	flags      *Flags
	file       string
	record     string
	out        string
	categories string
	theme      string
	shadow     bool
}

func NewPreviewCmd(flags *Flags) *PreviewCmd {
	return &PreviewCmd{flags: flags}
}

func (cmd *PreviewCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "preview",
		Usage:     "Render a record's boxes over its image",
		UsageText: "boxlabel preview --file IMAGE --record JSON --out IMAGE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "source image", Required: true, Destination: &cmd.file},
			&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Usage: "export record JSON", Required: true, Destination: &cmd.record},
			&cli.StringFlag{Name: "out", Usage: "output image (.png, .jpg, .webp, ...)", Required: true, Destination: &cmd.out},
			&cli.StringFlag{Name: "categories", Usage: "YAML category file used for box colours", Destination: &cmd.categories},
			&cli.StringFlag{Name: "theme", Usage: "theme name or file", Destination: &cmd.theme},
			&cli.BoolFlag{Name: "shadow", Usage: "draw a drop shadow behind the preview", Destination: &cmd.shadow},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *PreviewCmd) run(ctx context.Context, c *cli.Command) error {
	img, err := imagesrc.Load(cmd.file)
	if err != nil {
		return err
	}
	rec, err := readRecordFile(cmd.record)
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	cats, err := cmd.flags.Categories(cmd.categories)
	if err != nil {
		return err
	}
	th, err := cmd.flags.Theme(cmd.theme)
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}

	out, err := app.RenderRecord(ctx, img, rec, th, cats)
	if err != nil {
		return err
	}
	var final image.Image = out
	if cmd.shadow {
		final = render.Shadow(out, render.DefaultShadowOptions()).Image
	}
	if err := imagesrc.Save(final, cmd.out); err != nil {
		return err
	}
	log.Info().Str("path", cmd.out).Int("boxes", len(rec.Result)).Msg("preview written")
	return nil
}
