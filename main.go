package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ytgrab/ytgrab/internal/downloader"
)

var qualityChoices = []int{144, 240, 360, 480, 720, 1080}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp()
	if err := app.RunContext(ctx, os.Args); err != nil {
		if downloader.CategoryOf(err) == downloader.CategoryInterrupted {
			fmt.Fprintln(os.Stderr, "cancelled by user")
			os.Exit(1)
		}
		if !downloader.IsReported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(downloader.ExitCode(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "ytgrab",
		Usage:     "download YouTube videos and playlists",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "audio-only",
				Usage: "download audio only and transcode to mp3",
			},
			&cli.IntFlag{
				Name:  "quality",
				Usage: "preferred vertical resolution (144, 240, 360, 480, 720, 1080)",
			},
			&cli.BoolFlag{
				Name:  "list-quality",
				Usage: "list available stream qualities and exit",
			},
			&cli.BoolFlag{
				Name:  "playlist",
				Usage: "treat the URL as a playlist",
			},
			&cli.StringFlag{
				Name:  "output",
				Value: ".",
				Usage: "base output directory (videos/ and audio/ are created under it)",
			},
			&cli.DurationFlag{
				Name:  "pace",
				Value: 500 * time.Millisecond,
				Usage: "pause between playlist members",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print extended metadata before each download",
			},
		},
		Action:          run,
		HideHelpCommand: true,
	}
}

func run(c *cli.Context) error {
	url := c.Args().First()
	if url == "" {
		return cli.Exit("usage: ytgrab [options] <url>", 1)
	}
	if !downloader.IsValidURL(url) {
		return cli.Exit("invalid YouTube URL: provide a video or playlist URL", 1)
	}

	quality := c.Int("quality")
	if quality != 0 && !validQuality(quality) {
		return cli.Exit(fmt.Sprintf("invalid quality %d (choose one of %v)", quality, qualityChoices), 1)
	}

	logger := buildLogger(c.Bool("verbose"))
	defer logger.Sync()

	opts := downloader.Options{
		OutputDir: c.String("output"),
		Quality:   quality,
		AudioOnly: c.Bool("audio-only"),
		Verbose:   c.Bool("verbose"),
		Pacing:    c.Duration("pace"),
	}

	dl, err := downloader.New(opts, logger.Sugar())
	if err != nil {
		return fmt.Errorf("initializing downloader: %w", err)
	}

	if c.Bool("list-quality") {
		return dl.ListQualities(c.Context, url, os.Stdout)
	}

	playlistMode := downloader.IsPlaylist(url)
	if c.Bool("playlist") && !playlistMode {
		fmt.Fprintln(os.Stderr, "warning: URL doesn't look like a playlist, continuing with single video download")
	}

	if playlistMode {
		// Partial member failures are reported in the summary and do not
		// affect the exit code; only a whole-playlist resolution failure or
		// an interrupt is fatal.
		_, err := dl.DownloadPlaylist(c.Context, url)
		return err
	}

	outcome := dl.DownloadOne(c.Context, url)
	return outcome.Err
}

func validQuality(quality int) bool {
	for _, choice := range qualityChoices {
		if quality == choice {
			return true
		}
	}
	return false
}

func buildLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	zap.RedirectStdLog(logger)
	return logger
}
