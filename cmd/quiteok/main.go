package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/quiteok"
	"github.com/bodgit/quiteok/qoi"
	"github.com/urfave/cli/v2"
)

const defaultDB = "quiteok.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func options(c *cli.Context) quiteok.Options {
	opts := quiteok.Options{
		Colors:  c.Int("colors"),
		Zstd:    c.Bool("zstd"),
		Workers: c.Int("workers"),
	}
	if c.Bool("linear") {
		opts.Colorspace = qoi.Linear
	}
	return opts
}

func withCatalog(c *cli.Context, fn func(*quiteok.QuiteOK) error) error {
	db, err := quiteok.NewCatalog(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	if err := fn(quiteok.New(db, newLogger(c))); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "quiteok"
	app.Usage = "QOI image conversion and catalog utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	encodeFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "colors",
			Usage: "reduce images to at most `N` colors before encoding",
		},
		&cli.BoolFlag{
			Name:  "linear",
			Usage: "mark images as linear rather than sRGB",
		},
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"QUITEOK_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert images or field dumps to QOI",
			Description: "Each FILE is written alongside the original with a .qoi extension.",
			ArgsUsage:   "FILE...",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "zstd",
					Usage: "compress output with zstd",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				q := quiteok.New(nil, newLogger(c))
				for _, file := range c.Args().Slice() {
					if _, err := q.Convert(file, options(c)); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a QOI image to PNG",
			Description: "INFILE may be zstd compressed. OUTFILE may be .png or .qoi, optionally followed by .zst.",
			ArgsUsage:   "INFILE OUTFILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := quiteok.Open(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := quiteok.Save(c.Args().Get(1), m, qoi.SRGB); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and convert every image found",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "zstd",
					Usage: "compress output with zstd",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of files to convert concurrently",
				},
			}, encodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				q := quiteok.New(nil, newLogger(c))
				if err := q.Scan(c.Args().First(), options(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Import images or field dumps into the catalog",
			Description: "",
			ArgsUsage:   "FILE...",
			Flags:       encodeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withCatalog(c, func(q *quiteok.QuiteOK) error {
					for _, file := range c.Args().Slice() {
						if err := q.Import(file, options(c)); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		{
			Name:        "export",
			Usage:       "Export an image from the catalog",
			Description: "The format of OUTFILE is chosen from its extension.",
			ArgsUsage:   "NAME OUTFILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withCatalog(c, func(q *quiteok.QuiteOK) error {
					return q.Export(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:  "list",
			Usage: "List the images in the catalog",
			Action: func(c *cli.Context) error {
				db, err := quiteok.NewCatalog(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				entries, err := db.List()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, e := range entries {
					fmt.Fprintf(c.App.Writer, "%s\t%dx%d\t%d channels\t%s\t%d bytes\n", e.Name, e.Header.Width, e.Header.Height, e.Header.Channels, e.Header.Colorspace, e.Size)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
