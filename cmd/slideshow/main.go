package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/slideshow"
	"github.com/bodgit/slideshow/bmp"
	"github.com/bodgit/slideshow/fbdev"
	"github.com/bodgit/slideshow/framebuffer"
	"github.com/bodgit/slideshow/record"
	"github.com/bodgit/slideshow/terminal"
	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v2"
)

const (
	defaultMode = "640x480"

	exitError    = 1
	exitNotFound = 2
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func parseMode(s string) (int, int, error) {
	var width, height int
	if n, err := fmt.Sscanf(s, "%dx%d", &width, &height); err != nil || n != 2 {
		return 0, 0, fmt.Errorf("invalid mode \"%s\"", s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid mode \"%s\"", s)
	}
	return width, height, nil
}

func exitCode(err error) cli.ExitCoder {
	if errors.Is(err, slideshow.ErrNoImages) {
		return cli.NewExitError(err, exitNotFound)
	}
	return cli.NewExitError(err, exitError)
}

func banner(w io.Writer, name string) {
	title := fmt.Sprintf("Welcome to %s", name)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// splitDir returns a filesystem rooted at the parent of dir so loaded files
// are named including the directory given on the command line.
func splitDir(dir string) (fs.FS, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return os.DirFS(abs), ".", nil
	}
	return os.DirFS(parent), filepath.Base(abs), nil
}

func newSlideshow(c *cli.Context) (*slideshow.Slideshow, func(), error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}

	var db *slideshow.FrameDB
	if file := c.String("db"); file != "" {
		var err error
		if db, err = slideshow.NewFrameDB(file); err != nil {
			return nil, nil, err
		}
	}

	s := slideshow.New(db, logger)
	s.Warnings = log.New(c.App.ErrWriter, "", 0)
	s.Interval = c.Duration("interval")
	s.Options.Flip = c.Bool("flip")

	return s, func() {
		if db != nil {
			db.Close()
		}
	}, nil
}

func load(c *cli.Context) (*slideshow.Slideshow, []*framebuffer.FrameBuffer, func(), error) {
	s, closer, err := newSlideshow(c)
	if err != nil {
		return nil, nil, nil, err
	}

	fsys, dir, err := splitDir(c.Args().First())
	if err != nil {
		closer()
		return nil, nil, nil, err
	}

	frames, err := s.Load(fsys, dir)
	if err != nil {
		closer()
		return nil, nil, nil, err
	}

	return s, frames, closer, nil
}

type surfaceCloser interface {
	framebuffer.Surface
	io.Closer
}

func openSurface(name string, width, height int) (surfaceCloser, error) {
	switch name {
	case "terminal":
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		return terminal.New(screen, width, height)
	case "fbdev":
		s, err := fbdev.New(width, height)
		if err != nil {
			return nil, err
		}
		return nopCloser{s}, nil
	default:
		return nil, fmt.Errorf("unknown surface \"%s\"", name)
	}
}

type nopCloser struct {
	framebuffer.Surface
}

func (nopCloser) Close() error { return nil }

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "slideshow"
	app.Usage = "Bitmap slideshow for raw pixel displays"
	app.Version = "1.0.0"
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SLIDESHOW_DB"},
			Usage:   "path to decoded frame cache",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	decodeFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "flip",
			Usage: "treat rows as stored bottom-up",
		},
		&cli.DurationFlag{
			Name:    "interval",
			EnvVars: []string{"SLIDESHOW_INTERVAL"},
			Value:   slideshow.DefaultInterval,
			Usage:   "time to show each image",
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: defaultMode,
			Usage: "display resolution as WIDTHxHEIGHT",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "show",
			Usage:       "Show every image in a directory, forever",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "surface",
					Value: "terminal",
					Usage: "display surface, either \"terminal\" or \"fbdev\"",
				},
			}, decodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				width, height, err := parseMode(c.String("mode"))
				if err != nil {
					return cli.NewExitError(err, exitError)
				}

				banner(c.App.Writer, c.App.Name)

				s, frames, closer, err := load(c)
				if err != nil {
					return exitCode(err)
				}
				defer closer()

				surface, err := openSurface(c.String("surface"), width, height)
				if err != nil {
					return cli.NewExitError(err, exitError)
				}
				defer surface.Close()

				// Surfaces that can be closed by the user stall themselves
				staller := slideshow.Sleep
				if st, ok := surface.(slideshow.Staller); ok {
					staller = st
				}

				if err := s.Run(frames, surface, staller); err != nil && !errors.Is(err, terminal.ErrClosed) {
					return exitCode(err)
				}

				return nil
			},
		},
		{
			Name:        "record",
			Usage:       "Record the slideshow to an animated GIF",
			Description: "",
			ArgsUsage:   "DIRECTORY FILE",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "frames",
					Usage: "number of frames to record, defaults to one pass over the images",
				},
			}, decodeFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				width, height, err := parseMode(c.String("mode"))
				if err != nil {
					return cli.NewExitError(err, exitError)
				}

				banner(c.App.Writer, c.App.Name)

				s, frames, closer, err := load(c)
				if err != nil {
					return exitCode(err)
				}
				defer closer()

				n := c.Int("frames")
				if n <= 0 {
					n = len(frames)
				}

				f, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, exitError)
				}
				defer f.Close()

				surface, err := record.New(f, width, height, n, s.Interval)
				if err != nil {
					return cli.NewExitError(err, exitError)
				}

				// The interval is stored in the GIF so there's no need to wait
				if err := s.Run(frames, surface, slideshow.StallFunc(func(time.Duration) {})); err != nil && !errors.Is(err, record.ErrComplete) {
					surface.Close()
					return exitCode(err)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and cache decoded images",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       decodeFlags[:1],
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, closer, err := newSlideshow(c)
				if err != nil {
					return cli.NewExitError(err, exitError)
				}
				defer closer()

				if err := s.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, exitError)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Print bitmap header fields",
			Description: "",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for _, file := range c.Args().Slice() {
					b, err := ioutil.ReadFile(file)
					if err != nil {
						return cli.NewExitError(err, exitError)
					}

					config, err := bmp.DecodeConfig(b)
					if err != nil {
						return cli.NewExitError(fmt.Errorf("%s: %w", file, err), exitError)
					}

					fmt.Fprintf(c.App.Writer, "%s: %dx%d, %d bits per pixel, pixel data at offset %d\n", file, config.Width, config.Height, config.BitsPerPixel, config.Offset)
				}

				return nil
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
