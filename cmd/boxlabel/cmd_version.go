package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type VersionCmd struct{}

func NewVersionCmd() *VersionCmd { return &VersionCmd{} }

func (cmd *VersionCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(ctx context.Context, c *cli.Command) error {
			_, err := fmt.Fprintf(c.Root().Writer, "%s version %s\n", c.Root().Name, build())
			return err
		},
	})
	return root
}
