// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and local state.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize local state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the account session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the current session state",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output JSON"}},
				Action: r.AuthWhoami,
			},
		},
	}
}

// catalogCommand handles read operations on the shared music catalog
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Browse the music catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.BoolFlag{
						Name:  "fresh",
						Usage: "Bypass the catalog cache",
					},
					&cli.StringFlag{
						Name:    "save",
						Aliases: []string{"o"},
						Usage:   "Write a CSV export to {save}_tracks.csv",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:   "sections",
				Usage:  "Show the trending / for-you / browse split",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.CatalogSections,
			},
			{
				Name:   "refresh",
				Usage:  "Invalidate cached snapshots",
				Action: r.CatalogRefresh,
			},
		},
	}
}

// favCommand handles the favorites collection
func favCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "fav",
		Aliases: []string{"favorites"},
		Usage:   "Manage favorite tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.FavList,
			},
			{
				Name:  "add",
				Usage: "Add a track to favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a track from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavRemove,
			},
		},
	}
}

// downloadsCommand handles the downloads collection and bulk fetches
func downloadsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "downloads",
		Aliases: []string{"dl"},
		Usage:   "Manage downloaded tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recorded downloads",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.DownloadsList,
			},
			{
				Name:  "get",
				Usage: "Download one track's audio and record it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
				},
				Action: r.DownloadsGet,
			},
			{
				Name:  "all",
				Usage: "Download the audio of every favorite concurrently",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent downloads",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 4,
					},
				},
				Action: r.DownloadsAll,
			},
		},
	}
}

// picksCommand handles curated selections
func picksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "picks",
		Usage: "Manage picked tracks for the for-you section",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List picked track ids",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.PicksList,
			},
			{
				Name:  "toggle",
				Usage: "Toggle a track's membership in picks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PicksToggle,
			},
		},
	}
}

// adminCommand handles the management surface for users and tracks
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrative operations (requires an admin account)",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in to the admin area",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AdminLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the admin session",
				Action: r.AdminLogout,
			},
			{
				Name:  "users",
				Usage: "Manage accounts",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List all accounts",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
							&cli.BoolFlag{Name: "csv", Usage: "Output CSV"},
							&cli.BoolFlag{Name: "fresh", Usage: "Bypass the users cache"},
						},
						Action: r.AdminUsersList,
					},
					{
						Name:  "update",
						Usage: "Update an account field",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "New full name"},
							&cli.StringFlag{Name: "email", Usage: "New email"},
							&cli.StringFlag{Name: "type", Usage: "New user type"},
						},
						Action: r.AdminUsersUpdate,
					},
					{
						Name:    "delete",
						Aliases: []string{"rm"},
						Usage:   "Delete an account",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.AdminUsersDelete,
					},
				},
			},
			{
				Name:  "tracks",
				Usage: "Manage catalog tracks",
				Commands: []*cli.Command{
					{
						Name:  "upload",
						Usage: "Upload a new track with its audio file",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Required: true},
							&cli.StringFlag{Name: "artist", Required: true},
							&cli.StringFlag{Name: "genre"},
							&cli.FloatFlag{Name: "duration", Usage: "Duration in seconds"},
							&cli.StringFlag{Name: "audio", Usage: "Path to the audio file", Required: true},
							&cli.StringFlag{Name: "thumbnail", Usage: "Path to the cover image"},
						},
						Action: r.AdminTracksUpload,
					},
					{
						Name:  "update",
						Usage: "Update track metadata",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title"},
							&cli.StringFlag{Name: "artist"},
							&cli.StringFlag{Name: "genre"},
						},
						Action: r.AdminTracksUpdate,
					},
					{
						Name:    "delete",
						Aliases: []string{"rm"},
						Usage:   "Delete a track",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.AdminTracksDelete,
					},
				},
			},
		},
	}
}

// playCommand launches the interactive browser and player.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui", "interactive"},
		Usage:   "Launch the interactive catalog browser and player",
		Action:  r.Play,
	}
}

// apiCommand handles direct backend calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:   "health",
				Usage:  "Check backend connectivity",
				Action: r.APIHealth,
			},
		},
	}
}
