// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func idFlag(usage string) cli.Flag {
	return &cli.Int64Flag{
		Name:     "id",
		Usage:    usage,
		Required: true,
	}
}

// authorsCommand handles author operations
func authorsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "authors",
		Aliases: []string{"author", "a"},
		Usage:   "List, create, update and delete authors",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List authors in server order",
				Flags:   jsonFlags(),
				Action:  r.AuthorsList,
			},
			{
				Name:  "create",
				Usage: "Create an author",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Author name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Author email address",
						Required: true,
					},
				},
				Action: r.AuthorsCreate,
			},
			{
				Name:  "update",
				Usage: "Update an author's name and/or email",
				Flags: []cli.Flag{
					idFlag("Author ID"),
					&cli.StringFlag{
						Name:  "name",
						Usage: "New name",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "New email address",
					},
				},
				Action: r.AuthorsUpdate,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete an author and their books",
				Flags:   []cli.Flag{idFlag("Author ID")},
				Action:  r.AuthorsDelete,
			},
		},
	}
}

// booksCommand handles book operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"book", "b"},
		Usage:   "List, search, create, update and delete books",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List books, optionally filtered by title or published date",
				Flags: append(jsonFlags(), &cli.StringFlag{
					Name:    "search",
					Aliases: []string{"s"},
					Usage:   "Case-insensitive match on title or published date",
				}),
				Action: r.BooksList,
			},
			{
				Name:  "create",
				Usage: "Create a book",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Book title",
					},
					&cli.StringFlag{
						Name:  "published",
						Usage: "Publication date (YYYY-MM-DD)",
					},
					&cli.Int64Flag{
						Name:  "author",
						Usage: "Author ID",
					},
				},
				Action: r.BooksCreate,
			},
			{
				Name:  "update",
				Usage: "Update a book's title, publication date and/or author",
				Flags: []cli.Flag{
					idFlag("Book ID"),
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:  "published",
						Usage: "New publication date (YYYY-MM-DD)",
					},
					&cli.Int64Flag{
						Name:  "author",
						Usage: "New author ID",
					},
				},
				Action: r.BooksUpdate,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a book",
				Flags:   []cli.Flag{idFlag("Book ID")},
				Action:  r.BooksDelete,
			},
		},
	}
}

// exportCommand exports the whole catalog
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export authors and books as CSV, Markdown or plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, md or text",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (CSV writes <path>_books.csv and <path>_authors.csv); stdout when empty",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog admin",
		Action:  r.TUI,
	}
}

// serveCommand runs the reference catalog API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog REST API from a SQLite database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the SQLite database (overrides database.path)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address host:port (overrides server.host and server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the API root in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the SQLite database (overrides database.path)",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
