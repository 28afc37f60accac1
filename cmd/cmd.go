// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootFlags are inherited by every subcommand
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (default: config.toml next to the executable)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the songs database (default: [database] path)",
	}
}

// setupCommand handles database and configuration setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the songs schema in a new or existing database",
				Flags:  []cli.Flag{dbFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the config (default: config.toml next to the executable)",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// inspectCommand prints tables, columns and a sample of the songs table
func inspectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "Show tables, songs columns, a sample row and the song count",
		Flags:  []cli.Flag{dbFlag()},
		Action: r.Inspect,
	}
}

// exportCommand filters English songs and writes them out
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export songs with English titles",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: [export] output)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv or txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:  "summary",
				Usage: "Also write classification counts and samples to this JSON file",
			},
		},
		Action: r.Export,
	}
}

// categoriesCommand lists the distinct song categories
func categoriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "categories",
		Aliases: []string{"cats"},
		Usage:   "List distinct song categories",
		Flags: []cli.Flag{
			dbFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Categories,
	}
}

// extractCommand recovers the reference catalogue from the mobile bundle
func extractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract reference songs from a minified JavaScript bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "bundle",
				Aliases:  []string{"b"},
				Usage:    "Path to the JavaScript bundle",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: [compare] reference)",
			},
		},
		Action: r.Extract,
	}
}

// compareCommand reconciles exported song numbers with the reference catalogue
func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare exported song numbers with the reference catalogue and write SQL updates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "local",
				Usage: "Exported songs JSON (default: [export] output)",
			},
			&cli.StringFlag{
				Name:  "reference",
				Usage: "Reference songs JSON (default: [compare] reference)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "SQL output path (default: [compare] output)",
			},
		},
		Action: r.Compare,
	}
}
