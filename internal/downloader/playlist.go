package downloader

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkdai/youtube/v2"
)

// PlaylistResult aggregates a playlist run: how many members produced a file
// and, in member order, a description of each failure.
type PlaylistResult struct {
	Total     int
	Successes int
	Failures  []string
}

// DownloadPlaylist resolves the playlist's member list and runs the per-video
// pipeline for every member in reported order. A member's failure is recorded
// and iteration continues; only a failure to resolve the playlist itself (or
// an interrupt) aborts the run. After every member a fixed pacing pause is
// inserted to reduce the chance of upstream rate limiting.
func (d *Downloader) DownloadPlaylist(ctx context.Context, url string) (PlaylistResult, error) {
	d.printer.Infof("processing playlist: %s", url)
	playlist, err := d.extractor.GetPlaylistContext(ctx, url)
	if err != nil {
		return PlaylistResult{}, wrapCategory(CategoryResolve, fmt.Errorf("fetching playlist: %w", err))
	}

	result := PlaylistResult{Total: len(playlist.Videos)}
	d.printer.Infof("playlist: %s (%d videos)", truncateText(playlist.Title, 60), result.Total)

	for i, entry := range playlist.Videos {
		if d.opts.Verbose {
			d.printer.Infof("[%d/%d] processing video...", i+1, result.Total)
		}

		outcome := d.downloadEntry(ctx, entry)
		if outcome.Err != nil {
			if errors.Is(outcome.Err, context.Canceled) {
				return result, wrapCategory(CategoryInterrupted, outcome.Err)
			}
			failure := fmt.Sprintf("video %d: %v", i+1, outcome.Err)
			result.Failures = append(result.Failures, failure)
			d.printer.Errorf("%s", failure)
		} else {
			result.Successes++
		}

		// Deliberate throttle, not an accidental delay.
		if err := sleepWithContext(ctx, d.opts.Pacing); err != nil {
			return result, wrapCategory(CategoryInterrupted, err)
		}
	}

	d.printer.Summary(result)
	return result, nil
}

func (d *Downloader) downloadEntry(ctx context.Context, entry *youtube.PlaylistEntry) Outcome {
	if entry == nil || entry.ID == "" {
		return Outcome{Err: wrapCategory(CategoryResolve, errors.New("missing playlist entry"))}
	}
	video, err := d.extractor.VideoFromPlaylistEntryContext(ctx, entry)
	if err != nil {
		return Outcome{Err: wrapCategory(CategoryResolve, fmt.Errorf("resolving video: %w", err))}
	}
	return d.downloadResolved(ctx, video)
}
