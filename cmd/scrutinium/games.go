//nolint:wrapcheck
package main

import (
	"context"
	"os"
	"strings"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/scrutinium/internal/types"
)

func gamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "List the games the checker knows about",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			formatter, err := format.GetFormatter(cmd.String("format"))
			if err != nil {
				return err
			}

			data := []*format.Data{}

			for _, key := range types.GameKeys() {
				game, _ := types.GameFromKey(key)

				data = append(data, &format.Data{
					Object: key,
					Meta: map[string]any{
						"name":       game.DisplayName,
						"executable": game.ExecutableName,
						"banned":     strings.Join(game.BannedTables, ", "),
					},
				})
			}

			return formatter.PrintAll(data, os.Stdout)
		},
	}
}
