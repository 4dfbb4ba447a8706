// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// app builds the root command. Global flags are applied by [Runner.before].
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "vowfolio",
		Usage:   "Manage a wedding photography gallery: categories, albums, images and hero images",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "mock",
				Usage: "Work on the in-memory sample gallery instead of the API",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func positionFlag() cli.Flag {
	return &cli.IntFlag{
		Name:     "position",
		Aliases:  []string{"p"},
		Usage:    "Target position, starting at 1",
		Required: true,
	}
}

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if needed, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication against the gallery API
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Sources: cli.EnvVars("VOWFOLIO_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and store its bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Sources: cli.EnvVars("VOWFOLIO_PASSWORD")},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "forgot",
				Usage: "Request a password reset link",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
				},
				Action: r.AuthForgot,
			},
			{
				Name:   "status",
				Usage:  "Show the logged in user and check the API health endpoint",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored bearer token",
				Action: r.AuthLogout,
			},
		},
	}
}

// categoriesCommand handles category operations
func categoriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "categories",
		Aliases: []string{"cat"},
		Usage:   "Category operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List categories in order",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.CategoriesList,
			},
			{
				Name:  "add",
				Usage: "Create a category at the end of the list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Category name", Required: true},
					&cli.StringFlag{Name: "slug", Usage: "URL slug (defaults to the slugified name)"},
					&cli.StringFlag{Name: "description", Usage: "Category description"},
					&cli.StringFlag{Name: "thumbnail", Usage: "Thumbnail URL"},
				},
				Action: r.CategoriesAdd,
			},
			{
				Name:      "update",
				Usage:     "Change category fields",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Category name"},
					&cli.StringFlag{Name: "slug", Usage: "URL slug"},
					&cli.StringFlag{Name: "description", Usage: "Category description"},
					&cli.StringFlag{Name: "thumbnail", Usage: "Thumbnail URL"},
				},
				Action: r.CategoriesUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a category with its albums and images",
				Arguments: idArg(),
				Action:    r.CategoriesDelete,
			},
			{
				Name:      "move",
				Usage:     "Move a category to a position",
				Arguments: idArg(),
				Flags:     []cli.Flag{positionFlag()},
				Action:    r.CategoriesMove,
			},
		},
	}
}

// albumsCommand handles album operations
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "albums",
		Usage: "Album operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List albums of a category, or of every category",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Category ID"},
					jsonFlag(),
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "add",
				Usage: "Create an album at the end of its category",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Category ID", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Album name", Required: true},
					&cli.StringFlag{Name: "slug", Usage: "URL slug (defaults to the slugified name)"},
					&cli.StringFlag{Name: "description", Usage: "Album description"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
				},
				Action: r.AlbumsAdd,
			},
			{
				Name:      "update",
				Usage:     "Change album fields; --category moves it to the end of another category",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "New category ID"},
					&cli.StringFlag{Name: "name", Usage: "Album name"},
					&cli.StringFlag{Name: "slug", Usage: "URL slug"},
					&cli.StringFlag{Name: "description", Usage: "Album description"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
				},
				Action: r.AlbumsUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an album with its images",
				Arguments: idArg(),
				Action:    r.AlbumsDelete,
			},
			{
				Name:      "move",
				Usage:     "Move an album to a position within its category",
				Arguments: idArg(),
				Flags:     []cli.Flag{positionFlag()},
				Action:    r.AlbumsMove,
			},
		},
	}
}

// imagesCommand handles image operations
func imagesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "images",
		Aliases: []string{"img"},
		Usage:   "Image operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List images of an album",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album", Usage: "Album ID", Required: true},
					jsonFlag(),
				},
				Action: r.ImagesList,
			},
			{
				Name:  "upload",
				Usage: "Upload an image file, or register an existing image URL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Image file to upload"},
					&cli.StringFlag{Name: "url", Usage: "Existing image URL"},
					&cli.StringFlag{Name: "alt", Usage: "Alt text"},
				},
				Action: r.ImagesUpload,
			},
			{
				Name:  "bulk",
				Usage: "Upload several image files to an album",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album", Usage: "Album ID", Required: true},
				},
				Action: r.ImagesBulk,
			},
			{
				Name:      "update",
				Usage:     "Change image fields; --album moves it to the end of another album",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album", Usage: "New album ID"},
					&cli.StringFlag{Name: "alt", Usage: "Alt text"},
					&cli.StringFlag{Name: "url", Usage: "Image URL"},
				},
				Action: r.ImagesUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an image",
				Arguments: idArg(),
				Action:    r.ImagesDelete,
			},
			{
				Name:      "move",
				Usage:     "Move an image to a position within its album",
				Arguments: idArg(),
				Flags:     []cli.Flag{positionFlag()},
				Action:    r.ImagesMove,
			},
		},
	}
}

// heroCommand handles hero image operations. Hero images are stored in the local database.
func heroCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "hero",
		Usage: "Hero image operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List hero images of a page, or of every page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "page", Usage: "Page name"},
					jsonFlag(),
				},
				Action: r.HeroList,
			},
			{
				Name:  "add",
				Usage: "Add a hero image at the end of its page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "Image URL", Required: true},
					&cli.StringFlag{Name: "page", Usage: "Page name", Value: "home"},
					&cli.StringFlag{Name: "alt", Usage: "Alt text"},
				},
				Action: r.HeroAdd,
			},
			{
				Name:      "update",
				Usage:     "Change hero image fields; --page moves it to the end of another page",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "Image URL"},
					&cli.StringFlag{Name: "page", Usage: "Page name"},
					&cli.StringFlag{Name: "alt", Usage: "Alt text"},
				},
				Action: r.HeroUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a hero image",
				Arguments: idArg(),
				Action:    r.HeroDelete,
			},
			{
				Name:      "move",
				Usage:     "Move a hero image to a position within its page",
				Arguments: idArg(),
				Flags:     []cli.Flag{positionFlag()},
				Action:    r.HeroMove,
			},
		},
	}
}

// exportCommand writes the gallery tree to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the gallery tree as JSON, CSV or Markdown",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, markdown)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: gallery.<ext>)",
			},
		},
		Action: r.Export,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the gallery API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the gallery API, prints the JSON response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
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
		},
	}
}

// serveCommand runs the mock gallery API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a mock gallery API seeded with the sample dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: [server] host and port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive gallery management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive gallery editor with drag to reorder",
		Action:  r.TUI,
	}
}
