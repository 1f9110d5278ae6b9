package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

var command = &cli.Command{
	Name:  "logosnap",
	Usage: "Derive presentation-ready brand palettes from logo images",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "HTTP listen address",
			Value:   ":8080",
			Sources: cli.EnvVars("LOGOSNAP_ADDR"),
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Base directory for uploads, outputs and the database",
			Sources: cli.EnvVars("LOGOSNAP_DATA_DIR"),
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return runServer(ctx, c.String("addr"), c.String("data-dir"))
	},
}
