package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/stockdesk/frontend/cmd/app/commands"
	"github.com/stockdesk/frontend/internal/app"
	"github.com/stockdesk/frontend/internal/config"
)

func getBackendCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "send",
			Usage: "Send one encoded request to the trading backend and print the response",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "route",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Backend route (e.g., sign_in, update/email, get_user/summary)",
				},
				&cli.StringFlag{
					Name:    "method",
					Aliases: []string{"m"},
					Value:   "GET",
					Usage:   "HTTP method: GET, POST, PUT or DELETE",
				},
				&cli.StringSliceFlag{
					Name:    "param",
					Aliases: []string{"p"},
					Usage:   "Request parameter as key=value; may be repeated",
				},
				&cli.StringFlag{
					Name:  "uuid",
					Usage: "Session uuid for routes acting on a user",
				},
				&cli.StringFlag{
					Name:  "password",
					Usage: "Session password for update routes",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				client, err := container.BackendClient()
				if err != nil {
					return err
				}

				return commands.RunSend(
					ctx,
					client,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.SendInput{
						Route:    cmd.String("route"),
						Method:   cmd.String("method"),
						Params:   cmd.StringSlice("param"),
						UUID:     cmd.String("uuid"),
						Password: cmd.String("password"),
					},
				)
			},
		},
	}
}
