package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/handoff/cmd/app/commands"
	"github.com/allisson/handoff/internal/app"
	"github.com/allisson/handoff/internal/config"
)

func getTenantCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-company",
			Usage: "Register a tenant company under its own subdomain",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subdomain",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Subdomain label of the company origin (e.g. acme)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable company name",
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

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateCompany(
					ctx,
					tenantUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("subdomain"),
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "assign-user",
			Usage: "Assign a user to a company with a role",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "user-id",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "User ID reported by the identity provider",
				},
				&cli.StringFlag{
					Name:     "company-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Company ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "role",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Role: admin, hr, manager, employee or accountant",
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

				tenantUseCase, err := container.TenantUseCase()
				if err != nil {
					return err
				}

				return commands.RunAssignUser(
					ctx,
					tenantUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("user-id"),
					cmd.String("company-id"),
					cmd.String("role"),
					cmd.String("format"),
				)
			},
		},
	}
}
