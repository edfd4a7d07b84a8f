package downloader

import "time"

// Options describes one download run. Zero values mean "highest available
// quality, video mode, current directory".
type Options struct {
	// OutputDir is the base directory; videos/ and audio/ live under it.
	OutputDir string
	// Quality is the preferred vertical resolution (e.g. 720). 0 selects the
	// highest available progressive stream.
	Quality int
	// AudioOnly downloads the best audio stream and transcodes it to mp3.
	AudioOnly bool
	// Verbose prints extended video metadata before each download.
	Verbose bool
	// Pacing is the pause inserted after every playlist member to avoid
	// upstream rate limiting.
	Pacing time.Duration
	// Timeout bounds each HTTP request made by the extraction client.
	Timeout time.Duration
}

const (
	defaultPacing  = 500 * time.Millisecond
	defaultTimeout = 3 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Pacing <= 0 {
		o.Pacing = defaultPacing
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}
