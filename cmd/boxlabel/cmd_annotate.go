package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/example/boxlabel/internal/app"
	"github.com/example/boxlabel/internal/capture"
	"github.com/example/boxlabel/internal/imagesrc"
	"github.com/example/boxlabel/internal/notify"
)

type AnnotateCmd struct {
	flags      *Flags
	file       string
	categories string
	outputDir  string
	theme      string
	width      int
	height     int
	notifySub  bool
	notifyCopy bool
	grab       bool
	region     bool
	display    string
}

func NewAnnotateCmd(flags *Flags) *AnnotateCmd {
	return &AnnotateCmd{flags: flags}
}

func (cmd *AnnotateCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "annotate",
		Usage:     "Open an image in the annotation window",
		UsageText: "boxlabel annotate (--file IMAGE | --capture [--display NAME] | --region) [options]",
		Description: `Keys: b draw, s select, m pan (hold Space to pan temporarily), 1-9 pick a
category, +/- zoom, 0 or r reset the view, Ctrl+Z undo, Ctrl+Y redo,
Delete remove the selected box, Esc cancel a draw, Enter submit,
Ctrl+C copy the record, Ctrl+Shift+C copy the annotated image, Ctrl+Q quit.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "image to annotate",
				Destination: &cmd.file,
			},
			&cli.BoolFlag{
				Name:        "capture",
				Usage:       "annotate a fresh screenshot, saved to the output directory",
				Destination: &cmd.grab,
			},
			&cli.BoolFlag{
				Name:        "region",
				Usage:       "like --capture but pick the region interactively",
				Destination: &cmd.region,
			},
			&cli.StringFlag{
				Name:        "display",
				Usage:       "monitor to capture: name, index or primary",
				Destination: &cmd.display,
			},
			&cli.StringFlag{
				Name:        "categories",
				Usage:       "YAML category file (overrides config)",
				Sources:     cli.EnvVars("BOXLABEL_CATEGORIES"),
				Destination: &cmd.categories,
			},
			&cli.StringFlag{
				Name:        "output-dir",
				Aliases:     []string{"o"},
				Usage:       "directory submitted records are written to (overrides config)",
				Sources:     cli.EnvVars("BOXLABEL_OUTPUT_DIR"),
				Destination: &cmd.outputDir,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "theme name or file (overrides config)",
				Sources:     cli.EnvVars("BOXLABEL_THEME"),
				Destination: &cmd.theme,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "initial window width",
				Destination: &cmd.width,
			},
			&cli.IntFlag{
				Name:        "height",
				Usage:       "initial window height",
				Destination: &cmd.height,
			},
			&cli.BoolFlag{
				Name:        "notify-submit",
				Usage:       "show a desktop notification after submitting",
				Destination: &cmd.notifySub,
			},
			&cli.BoolFlag{
				Name:        "notify-copy",
				Usage:       "show a desktop notification after copying to the clipboard",
				Destination: &cmd.notifyCopy,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *AnnotateCmd) run(ctx context.Context, c *cli.Command) error {
	capturing := cmd.grab || cmd.region
	switch {
	case capturing && cmd.file != "":
		return errors.New("--file cannot be combined with --capture or --region")
	case capturing:
		path, err := cmd.capture(ctx)
		if err != nil {
			return err
		}
		cmd.file = path
	case cmd.file == "":
		return errors.New("one of --file, --capture or --region is required")
	}

	sess, err := cmd.session(c)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("boxlabel - %s", filepath.Base(cmd.file))
	w := app.NewWindow(sess, app.WithTitle(title), app.WithSize(cmd.width, cmd.height),
		app.WithOnClose(func() { log.Debug().Msg("window closed") }))
	log.Info().Str("image", cmd.file).Msg("opening annotation window")
	w.Run()
	return nil
}

// capture saves a screenshot into the output directory and returns its path.
func (cmd *AnnotateCmd) capture(ctx context.Context) (string, error) {
	img, err := capture.Grab(ctx, capture.Options{Display: cmd.display, Interactive: cmd.region})
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	dir := cmd.outputDirFor(".")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, "screenshot-"+time.Now().Format("20060102-150405")+".png")
	if err := imagesrc.Save(img, path); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("screenshot saved")
	return path, nil
}

// outputDirFor resolves the record directory: flag, then config, then
// fallback.
func (cmd *AnnotateCmd) outputDirFor(fallback string) string {
	if cmd.outputDir != "" {
		return cmd.outputDir
	}
	if cfg := cmd.flags.Config; cfg != nil && cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return fallback
}

// session assembles everything the window needs without opening it.
func (cmd *AnnotateCmd) session(c *cli.Command) (*app.Session, error) {
	cfg := cmd.flags.Config

	img, err := imagesrc.Load(cmd.file)
	if err != nil {
		return nil, err
	}
	cats, err := cmd.flags.Categories(cmd.categories)
	if err != nil {
		return nil, err
	}
	th, err := cmd.flags.Theme(cmd.theme)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	outputDir := cmd.outputDirFor(filepath.Dir(cmd.file))

	notifier := notify.New(notify.LoadPreferences())
	submit, copied := false, false
	if cfg != nil {
		submit, copied = cfg.Notify.Submit, cfg.Notify.Copy
	}
	if c.IsSet("notify-submit") {
		submit = cmd.notifySub
	}
	if c.IsSet("notify-copy") {
		copied = cmd.notifyCopy
	}
	notifier.Enable(notify.EventSubmit, submit)
	notifier.Enable(notify.EventCopy, copied)

	opts := []app.Option{
		app.WithCategories(cats),
		app.WithTheme(th),
		app.WithOutputDir(outputDir),
		app.WithNotifier(notifier),
	}
	if cfg != nil && cfg.HandleSize > 0 {
		opts = append(opts, app.WithHandleSize(cfg.HandleSize))
	}
	return app.NewSession(img, cmd.file, opts...), nil
}
