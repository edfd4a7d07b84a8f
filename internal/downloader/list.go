package downloader

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/kkdai/youtube/v2"
)

// ListQualities resolves the video and prints its available stream qualities
// without downloading anything.
func (d *Downloader) ListQualities(ctx context.Context, url string, w io.Writer) error {
	d.printer.Infof("fetching available qualities: %s", url)
	video, err := d.extractor.GetVideoContext(ctx, url)
	if err != nil {
		return wrapCategory(CategoryResolve, fmt.Errorf("resolving video: %w", err))
	}
	return writeQualities(w, video)
}

// writeQualities renders one row per distinct resolution. Progressive streams
// are preferred; when the catalog has none, all streams are listed instead.
func writeQualities(w io.Writer, video *youtube.Video) error {
	formats := make([]*youtube.Format, 0, len(video.Formats))
	for i := range video.Formats {
		f := &video.Formats[i]
		if isProgressive(f) {
			formats = append(formats, f)
		}
	}
	allStreams := len(formats) == 0
	if allStreams {
		for i := range video.Formats {
			formats = append(formats, &video.Formats[i])
		}
	}
	sort.SliceStable(formats, func(i, j int) bool {
		return formats[i].Height > formats[j].Height
	})

	fmt.Fprintf(w, "available qualities for: %s\n", truncateText(video.Title, 60))
	fmt.Fprintf(w, "duration: %s\n", formatDuration(int(video.Duration.Seconds())))
	if allStreams {
		fmt.Fprintln(w, "no progressive streams found, showing all streams")
	}
	fmt.Fprintf(w, "\n%-12s %-6s %-12s %-10s %s\n", "Resolution", "FPS", "Size", "Container", "Progressive")

	seen := map[string]bool{}
	for _, f := range formats {
		resolution := f.QualityLabel
		if resolution == "" {
			resolution = "audio"
		}
		if seen[resolution] && resolution != "audio" {
			continue
		}
		seen[resolution] = true

		fps := "n/a"
		if f.FPS > 0 {
			fps = strconv.Itoa(f.FPS)
		}
		progressive := "no"
		if isProgressive(f) {
			progressive = "yes"
		}
		fmt.Fprintf(w, "%-12s %-6s %-12s %-10s %s\n",
			resolution, fps, humanBytes(f.ContentLength), mimeToExt(f.MimeType), progressive)
	}

	fmt.Fprintln(w, "\nnote: progressive streams contain both video and audio")
	return nil
}
