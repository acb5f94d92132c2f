package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/handoff/cmd/app/commands"
	"github.com/allisson/handoff/internal/app"
	"github.com/allisson/handoff/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server, the metrics server and the handoff token sweeper",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "clean-handoff-tokens",
			Usage: "Delete handoff tokens that expired before the retention window",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "retention-seconds",
					Aliases: []string{"r"},
					Value:   0,
					Usage:   "Keep tokens that expired less than this many seconds ago",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many tokens would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.TokenStore()
				if err != nil {
					return err
				}

				return commands.RunCleanHandoffTokens(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("retention-seconds")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
