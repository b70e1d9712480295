// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/ponyseeo/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write config.toml from the bundled example",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the CLI sign-in.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Sign in with Google and store tokens in the config file",
		Action: r.AuthLogin,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the account the stored token belongs to",
				Action: r.AuthStatus,
			},
		},
	}
}

// serveCommand starts the web gallery.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web gallery",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Development mode (session cookies without the Secure flag)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overriding server.host and server.port",
			},
		},
		Action: r.Serve,
	}
}

// videosCommand lists the signed-in account's videos.
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"ls"},
		Usage:   "List videos using the stored token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, csv, markdown, text)",
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of videos to show (0 for all)",
			},
		},
		Action: r.Videos,
	}
}

// usersCommand lists the sign-in ledger.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "List accounts that have signed in to the web gallery",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Users,
	}
}

// tuiCommand launches the terminal gallery.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse videos in the terminal",
		Action: r.TUI,
	}
}
