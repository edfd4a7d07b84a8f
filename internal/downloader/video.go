package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

// Outcome is the result of one video's processing: a final file path on
// success, or the failure that short-circuited the pipeline.
type Outcome struct {
	Path string
	Err  error
}

// OK reports whether the video produced a file.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Downloader drives the per-video pipeline: resolve metadata, select a
// stream, transfer it to disk, and optionally transcode audio. It is not safe
// for concurrent use; the whole tool is sequential.
type Downloader struct {
	extractor  Extractor
	transcoder Transcoder
	layout     Layout
	printer    *Printer
	log        *zap.SugaredLogger
	opts       Options

	// progress is a seam for tests; nil disables the bar entirely.
	progress func(size int64, label string) io.Writer
}

// New builds a Downloader for the given options: creates the output layout,
// the extraction client, and probes for ffmpeg once. A missing ffmpeg is a
// warning, not an error — audio downloads then keep their original format.
func New(opts Options, logger *zap.SugaredLogger) (*Downloader, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	layout, err := newLayout(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	logger.Debugw("output layout ready", "videos", layout.Videos, "audio", layout.Audio)

	printer := newPrinter(os.Stdout, opts.Verbose)

	var transcoder Transcoder
	if ffmpegAvailable() {
		transcoder = ffmpegTranscoder{}
	} else if opts.AudioOnly {
		printer.Warnf("ffmpeg not found: audio will be kept in its original format")
	}

	d := newDownloader(newExtractor(opts), transcoder, layout, printer, logger, opts)
	d.progress = func(size int64, label string) io.Writer {
		return newProgressBar(os.Stderr, size, label)
	}
	return d, nil
}

func newDownloader(extractor Extractor, transcoder Transcoder, layout Layout, printer *Printer, logger *zap.SugaredLogger, opts Options) *Downloader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Downloader{
		extractor:  extractor,
		transcoder: transcoder,
		layout:     layout,
		printer:    printer,
		log:        logger,
		opts:       opts,
	}
}

// DownloadOne runs the full pipeline for a single video URL. Failures are
// printed here; the returned error is marked so main does not print it again.
func (d *Downloader) DownloadOne(ctx context.Context, url string) Outcome {
	d.printer.Infof("processing: %s", url)
	video, err := d.extractor.GetVideoContext(ctx, url)
	if err != nil {
		return d.reportFailure(Outcome{Err: wrapCategory(CategoryResolve, fmt.Errorf("resolving video: %w", err))})
	}
	return d.reportFailure(d.downloadResolved(ctx, video))
}

func (d *Downloader) reportFailure(outcome Outcome) Outcome {
	if outcome.Err == nil || errors.Is(outcome.Err, context.Canceled) {
		return outcome
	}
	d.printer.Errorf("download failed: %v", outcome.Err)
	outcome.Err = markReported(outcome.Err)
	return outcome
}

func (d *Downloader) downloadResolved(ctx context.Context, video *youtube.Video) Outcome {
	d.printer.Metadata(video)
	if d.opts.AudioOnly {
		return d.downloadAudio(ctx, video)
	}
	return d.downloadVideo(ctx, video)
}

func (d *Downloader) downloadVideo(ctx context.Context, video *youtube.Video) Outcome {
	format := selectVideoStream(video.Formats, d.opts.Quality)
	if format == nil {
		return Outcome{Err: wrapCategory(CategoryNoStream, fmt.Errorf("no stream found for %q", video.Title))}
	}

	title := sanitizeTitle(video.Title)
	dest := filepath.Join(d.layout.Videos, title+"."+mimeToExt(format.MimeType))
	dest, err := nextAvailablePath(dest)
	if err != nil {
		return Outcome{Err: err}
	}

	d.printer.Infof("downloading video: %s", title)
	d.printer.Infof("quality: %s | size: %s", format.QualityLabel, humanBytes(format.ContentLength))

	if err := d.transfer(ctx, video, format, dest); err != nil {
		return Outcome{Err: err}
	}
	d.printer.Successf("video downloaded: %s", dest)
	return Outcome{Path: dest}
}

func (d *Downloader) downloadAudio(ctx context.Context, video *youtube.Video) Outcome {
	format := selectAudioStream(video.Formats)
	if format == nil {
		return Outcome{Err: wrapCategory(CategoryNoStream, fmt.Errorf("no audio stream found for %q", video.Title))}
	}

	title := sanitizeTitle(video.Title)
	tempPath := filepath.Join(d.layout.Audio, title+"_temp."+mimeToExt(format.MimeType))
	tempPath, err := nextAvailablePath(tempPath)
	if err != nil {
		return Outcome{Err: err}
	}

	d.printer.Infof("downloading audio: %s", title)
	d.printer.Infof("size: %s", humanBytes(format.ContentLength))

	if err := d.transfer(ctx, video, format, tempPath); err != nil {
		return Outcome{Err: err}
	}

	if d.transcoder == nil {
		d.printer.Warnf("ffmpeg not available, keeping original audio format: %s", tempPath)
		return Outcome{Path: tempPath}
	}

	finalPath := filepath.Join(d.layout.Audio, title+".mp3")
	finalPath, err = nextAvailablePath(finalPath)
	if err != nil {
		return Outcome{Err: err}
	}

	d.printer.Infof("converting to mp3...")
	if err := d.transcoder.Transcode(ctx, tempPath, finalPath); err != nil {
		// Never lose the user's download: the intermediate file is kept and
		// reported as a degraded success, not a failure.
		d.printer.Errorf("failed to convert to mp3: %v", err)
		d.printer.Warnf("keeping original audio format: %s", tempPath)
		return Outcome{Path: tempPath}
	}

	if err := tagTranscodedAudio(finalPath, video); err != nil {
		d.log.Debugw("mp3 tagging failed", "path", finalPath, "error", err)
	}
	if err := os.Remove(tempPath); err != nil {
		d.log.Debugw("removing intermediate audio failed", "path", tempPath, "error", err)
	}

	d.printer.Successf("mp3 downloaded: %s", finalPath)
	return Outcome{Path: finalPath}
}

// transfer performs the blocking stream copy to dest. A failed transfer
// removes the partial file.
func (d *Downloader) transfer(ctx context.Context, video *youtube.Video, format *youtube.Format, dest string) error {
	stream, size, err := d.extractor.GetStreamContext(ctx, video, format)
	if err != nil {
		return wrapCategory(CategoryTransfer, fmt.Errorf("starting stream: %w", err))
	}
	defer stream.Close()
	if size <= 0 && format.ContentLength > 0 {
		size = format.ContentLength
	}

	file, err := os.Create(dest)
	if err != nil {
		return wrapCategory(CategoryFilesystem, fmt.Errorf("opening output file: %w", err))
	}

	var writer io.Writer = file
	if d.progress != nil {
		writer = io.MultiWriter(file, d.progress(size, filepath.Base(dest)))
	}

	written, copyErr := copyWithContext(ctx, writer, stream)
	closeErr := file.Close()
	if copyErr != nil {
		os.Remove(dest)
		if errors.Is(copyErr, context.Canceled) {
			return wrapCategory(CategoryInterrupted, copyErr)
		}
		return wrapCategory(CategoryTransfer, fmt.Errorf("downloading stream: %w", copyErr))
	}
	if closeErr != nil {
		os.Remove(dest)
		return wrapCategory(CategoryFilesystem, fmt.Errorf("writing output file: %w", closeErr))
	}

	d.log.Debugw("transfer complete", "path", dest, "bytes", written)
	return nil
}
