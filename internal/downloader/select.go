package downloader

import (
	"fmt"

	"github.com/kkdai/youtube/v2"
)

// isProgressive reports whether a format carries both audio and video muxed
// together, downloadable and playable without a separate mux step.
func isProgressive(f *youtube.Format) bool {
	return f.AudioChannels > 0 && f.Width > 0 && f.Height > 0
}

func isAudioOnly(f *youtube.Format) bool {
	return f.AudioChannels > 0 && f.Width == 0 && f.Height == 0
}

func bitrateForFormat(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return 0
}

func betterVideoFormat(candidate, current *youtube.Format) bool {
	if candidate.Height != current.Height {
		return candidate.Height > current.Height
	}
	return bitrateForFormat(candidate) > bitrateForFormat(current)
}

// selectVideoStream picks a downloadable stream for video mode. Ordered
// fallback, first matching rule wins; iteration order is the extraction
// library's, so ties resolve first-match:
//
//  1. exact requested resolution, progressive, mp4
//  2. exact requested resolution, progressive, any container
//  3. exact requested resolution, non-progressive allowed, highest first
//  4. globally highest-resolution progressive stream
//
// Progressive streams are preferred because they avoid a mux step this tool
// does not implement. Returns nil when nothing matches at all. Audio-only
// formats are never selected.
func selectVideoStream(formats []youtube.Format, height int) *youtube.Format {
	if height > 0 {
		label := fmt.Sprintf("%dp", height)

		for i := range formats {
			f := &formats[i]
			if f.QualityLabel == label && isProgressive(f) && mimeToExt(f.MimeType) == "mp4" {
				return f
			}
		}

		for i := range formats {
			f := &formats[i]
			if f.QualityLabel == label && isProgressive(f) {
				return f
			}
		}

		var best *youtube.Format
		for i := range formats {
			f := &formats[i]
			if f.QualityLabel != label || f.Height == 0 {
				continue
			}
			if best == nil || betterVideoFormat(f, best) {
				best = f
			}
		}
		if best != nil {
			return best
		}
	}

	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !isProgressive(f) {
			continue
		}
		if best == nil || betterVideoFormat(f, best) {
			best = f
		}
	}
	return best
}

// selectAudioStream picks the best-quality audio-only stream: highest
// bitrate. Returns nil when the catalog has none.
func selectAudioStream(formats []youtube.Format) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !isAudioOnly(f) {
			continue
		}
		if best == nil || bitrateForFormat(f) > bitrateForFormat(best) {
			best = f
		}
	}
	return best
}
