package downloader

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestListQualitiesRendersProgressiveStreams(t *testing.T) {
	extractor := &fakeExtractor{
		video: &youtube.Video{
			Title: "Quality Sampler",
			Formats: []youtube.Format{
				progressiveFormat(18, 360, "video/mp4", "360p"),
				progressiveFormat(22, 720, "video/mp4", "720p"),
				progressiveFormat(45, 720, "video/webm", "720p"),
				videoOnlyFormat(137, 1080, "video/mp4", "1080p"),
				audioFormat(140, 128000, "audio/mp4"),
			},
		},
	}
	d := newTestDownloader(t, extractor, nil, Options{})

	var buf bytes.Buffer
	if err := d.ListQualities(context.Background(), "https://youtube.com/watch?v=q", &buf); err != nil {
		t.Fatalf("ListQualities: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Quality Sampler") {
		t.Fatalf("output missing title:\n%s", out)
	}
	if !strings.Contains(out, "720p") || !strings.Contains(out, "360p") {
		t.Fatalf("output missing progressive resolutions:\n%s", out)
	}
	// Non-progressive and audio streams are excluded when progressive
	// streams exist.
	if strings.Contains(out, "1080p") {
		t.Fatalf("output lists a non-progressive stream:\n%s", out)
	}
	if strings.Count(out, "720p") != 1 {
		t.Fatalf("duplicate resolution rows not collapsed:\n%s", out)
	}
	if strings.Contains(out, "showing all streams") {
		t.Fatalf("all-streams note present despite progressive catalog:\n%s", out)
	}
}

func TestListQualitiesFallsBackToAllStreams(t *testing.T) {
	extractor := &fakeExtractor{
		video: &youtube.Video{
			Title: "Split Streams Only",
			Formats: []youtube.Format{
				videoOnlyFormat(137, 1080, "video/mp4", "1080p"),
				audioFormat(251, 160000, "audio/webm"),
			},
		},
	}
	d := newTestDownloader(t, extractor, nil, Options{})

	var buf bytes.Buffer
	if err := d.ListQualities(context.Background(), "https://youtube.com/watch?v=split", &buf); err != nil {
		t.Fatalf("ListQualities: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "no progressive streams found, showing all streams") {
		t.Fatalf("output missing the all-streams note:\n%s", out)
	}
	if !strings.Contains(out, "1080p") {
		t.Fatalf("output missing the video-only stream:\n%s", out)
	}
	if !strings.Contains(out, "\naudio") {
		t.Fatalf("output missing the audio row:\n%s", out)
	}
}

func TestListQualitiesResolveFailure(t *testing.T) {
	extractor := &fakeExtractor{videoErr: errors.New("video unavailable")}
	d := newTestDownloader(t, extractor, nil, Options{})

	var buf bytes.Buffer
	err := d.ListQualities(context.Background(), "https://youtube.com/watch?v=gone", &buf)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := CategoryOf(err); got != CategoryResolve {
		t.Fatalf("category = %q, want %q", got, CategoryResolve)
	}
}
