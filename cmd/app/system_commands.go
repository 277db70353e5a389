package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/stockdesk/frontend/cmd/app/commands"
	"github.com/stockdesk/frontend/internal/app"
	"github.com/stockdesk/frontend/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the ops server (health, readiness and metrics)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "create-key",
			Usage: "Generate a new envelope key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI that wraps the printed key (e.g., base64key://, gcpkms://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKey(
					ctx,
					container.KeyLoader(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
