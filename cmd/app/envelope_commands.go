package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/stockdesk/frontend/cmd/app/commands"
	"github.com/stockdesk/frontend/internal/app"
	"github.com/stockdesk/frontend/internal/config"
)

func getEnvelopeCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encode",
			Usage: "Encode text or a JSON object into an envelope",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Usage:   "Text to encode",
				},
				&cli.StringFlag{
					Name:    "json",
					Aliases: []string{"j"},
					Usage:   "JSON object to encode; key order is kept",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				return commands.RunEncode(
					ctx,
					useCase,
					commands.DefaultIO().Writer,
					cmd.String("value"),
					cmd.IsSet("value"),
					cmd.String("json"),
				)
			},
		},
		{
			Name:  "decode",
			Usage: "Decode an envelope and print the recovered text",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "envelope",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Envelope in the form base64(iv)$length$base64(ciphertext)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				return commands.RunDecode(
					ctx,
					useCase,
					commands.DefaultIO().Writer,
					cmd.String("envelope"),
				)
			},
		},
	}
}
