// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/urfave/cli/v3"
)

// newApp builds the root command. Global flags are visible to every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ytlikes",
		Usage: "Mirror YouTube Music liked songs into a Notion database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, likedCommand, notionCommand, authCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// syncCommand mirrors liked songs into the database
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync liked songs into the Notion database",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Add every liked song that has no row yet",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Compute the songs to add without writing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the result as JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the database in a browser when done",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:  "diff",
				Usage: "List liked songs that would be added",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SyncDiff,
			},
		},
	}
}

// likedCommand reads the liked-songs playlist
func likedCommand(r *Runner) *cli.Command {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}

	return &cli.Command{
		Name:    "liked",
		Aliases: []string{"likes"},
		Usage:   "YouTube Music liked songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print liked songs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to fetch (0 for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LikedList,
			},
			{
				Name:  "export",
				Usage: "Export liked songs to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (" + strings.Join(names, ", ") + ")",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: liked_songs.{ext})",
					},
				},
				Action: r.LikedExport,
			},
		},
	}
}

// notionCommand reads the destination database
func notionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "notion",
		Usage: "Notion database operations",
		Commands: []*cli.Command{
			{
				Name:  "rows",
				Usage: "Print existing rows",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.NotionRows,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Check proxy health and authentication state (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// setupCommand handles configuration and authentication setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt", "ytmusic"},
				Usage:   "Configure YouTube Music authentication from browser headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for browser.json (default: ~/.ytlikes/browser.json)",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive review.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Review pending songs and sync interactively",
		Action:  r.TUI,
	}
}
