package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/example/boxlabel/internal/clipboard"
	"github.com/example/boxlabel/internal/export"
	"github.com/example/boxlabel/internal/imagesrc"
)

type ExportCmd struct {
	flags         *Flags
	file          string
	record        string
	output        string
	fromClipboard bool
	toClipboard   bool
}

func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

func (cmd *ExportCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Validate a record against its image and print it",
		UsageText: "boxlabel export [--file IMAGE] (--record JSON | --from-clipboard) [--output FILE]",
		Description: `Checks the record's points lie inside the image, that the recorded
dimensions match the image when --file is given, and assigns a submission id
when the record has none.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "image the record belongs to", Destination: &cmd.file},
			&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Usage: "export record JSON", Destination: &cmd.record},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this file instead of stdout", Destination: &cmd.output},
			&cli.BoolFlag{Name: "from-clipboard", Usage: "read the record from the clipboard", Destination: &cmd.fromClipboard},
			&cli.BoolFlag{Name: "copy", Usage: "also copy the result to the clipboard", Destination: &cmd.toClipboard},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	rec, err := cmd.load()
	if err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	if cmd.file != "" {
		if err := cmd.checkImage(&rec); err != nil {
			return err
		}
	}
	if rec.Submission == "" {
		rec.Submission = uuid.New().String()
	}

	if err := cmd.write(c.Root().Writer, rec); err != nil {
		return err
	}
	if cmd.toClipboard {
		if err := clipboard.CopyRecord(rec); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		log.Info().Str("submission", rec.Submission).Msg("record copied")
	}
	return nil
}

func (cmd *ExportCmd) load() (export.Record, error) {
	switch {
	case cmd.fromClipboard:
		return clipboard.PasteRecord()
	case cmd.record != "":
		return readRecordFile(cmd.record)
	default:
		return export.Record{}, fmt.Errorf("one of --record or --from-clipboard is required")
	}
}

func (cmd *ExportCmd) checkImage(rec *export.Record) error {
	img, err := imagesrc.Load(cmd.file)
	if err != nil {
		return err
	}
	size := imagesrc.SizeOf(img)
	if size.Width != rec.ImageWidth || size.Height != rec.ImageHeight {
		return fmt.Errorf("record is for a %gx%g image, %s is %gx%g",
			rec.ImageWidth, rec.ImageHeight, cmd.file, size.Width, size.Height)
	}
	if rec.ImageSrc == "" {
		rec.ImageSrc = cmd.file
	}
	return nil
}

func (cmd *ExportCmd) write(stdout io.Writer, rec export.Record) (err error) {
	if cmd.output == "" {
		return export.Write(stdout, rec)
	}
	f, err := os.Create(cmd.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return export.Write(f, rec)
}
