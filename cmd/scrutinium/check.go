//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	scrutinium "github.com/farcloser/scrutinium"
	"github.com/farcloser/scrutinium/internal/manifest"
	"github.com/farcloser/scrutinium/internal/types"
)

var (
	errInvalidArgCount = errors.New("expected exactly one argument: the session manifest path")
	errUnknownGame     = errors.New("unknown game")
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check a mod pack session manifest for consistency problems",
		ArgsUsage: "<manifest.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "game",
				Aliases:  []string{"g"},
				Usage:    "Game the pack targets (see the games command)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "game-path",
				Aliases:  []string{"p"},
				Usage:    "Path to the game install folder",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "path",
				Usage: "Restrict the check to a file or folder of the pack (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "check-ak-only-refs",
				Usage: "Report broken references into assembly-kit-only tables",
			},
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "TOML file with session-wide ignore lists and rules",
			},
			&cli.StringFlag{
				Name:  "previous",
				Usage: "JSON results of a previous run, reused for files outside --path",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the JSON results to a file, reusable through --previous",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit non-zero when any error-level record is found",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			game, known := types.GameFromKey(cmd.String("game"))
			if !known {
				return fmt.Errorf("%w: %q", errUnknownGame, cmd.String("game"))
			}

			manifestPath := cmd.Args().First()

			session, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			diags, err := loadPrevious(cmd.String("previous"))
			if err != nil {
				return err
			}

			if settingsPath := cmd.String("settings"); settingsPath != "" {
				settings, err := loadSettings(settingsPath)
				if err != nil {
					return err
				}

				settings.apply(diags, session.Pack)
			}

			err = diags.Check(ctx, scrutinium.Request{
				Pack:            session.Pack,
				Deps:            session.Store,
				Schema:          session.Schema,
				Game:            game,
				GamePath:        cmd.String("game-path"),
				PathsToCheck:    cmd.StringSlice("path"),
				CheckAKOnlyRefs: cmd.Bool("check-ak-only-refs"),
			})
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			if outputPath := cmd.String("output"); outputPath != "" {
				encoded, err := diags.JSON()
				if err != nil {
					return err
				}

				if err := os.WriteFile(outputPath, encoded, 0o600); err != nil {
					return fmt.Errorf("cannot write results %s: %w", outputPath, err)
				}
			}

			if err := outputResults(manifestPath, diags, cmd.String("format")); err != nil {
				return err
			}

			if cmd.Bool("fail-on-error") && hasErrors(diags) {
				return cli.Exit("", 1)
			}

			return nil
		},
	}
}

// loadPrevious restores a previous session so a partial check can keep its
// records, or starts a fresh one.
func loadPrevious(path string) (*scrutinium.Diagnostics, error) {
	if path == "" {
		return scrutinium.New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read previous results %s: %w", path, err)
	}

	return scrutinium.FromJSON(data)
}
