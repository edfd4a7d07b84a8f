package downloader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func testPlaylistVideo(title string) *youtube.Video {
	return &youtube.Video{
		Title:   title,
		Formats: []youtube.Format{progressiveFormat(22, 720, "video/mp4", "720p")},
	}
}

func TestDownloadPlaylistContinuesPastMemberFailure(t *testing.T) {
	extractor := &fakeExtractor{
		playlist: &youtube.Playlist{
			Title: "Mixed Bag",
			Videos: []*youtube.PlaylistEntry{
				{ID: "v1", Title: "First"},
				{ID: "v2", Title: "Second"},
				{ID: "v3", Title: "Third"},
			},
		},
		videos: map[string]*youtube.Video{
			"v1": testPlaylistVideo("First"),
			"v3": testPlaylistVideo("Third"),
		},
		entryErrs:  map[string]error{"v2": errors.New("age restricted")},
		streamData: []byte("stream-bytes"),
	}
	d := newTestDownloader(t, extractor, nil, Options{})

	result, err := d.DownloadPlaylist(context.Background(), "https://youtube.com/playlist?list=PLx")
	if err != nil {
		t.Fatalf("DownloadPlaylist: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Total)
	}
	if result.Successes != 2 {
		t.Fatalf("successes = %d, want 2", result.Successes)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %v, want exactly one", result.Failures)
	}
	if !strings.HasPrefix(result.Failures[0], "video 2: ") {
		t.Fatalf("failure = %q, want a video 2 prefix", result.Failures[0])
	}
	if !strings.Contains(result.Failures[0], "age restricted") {
		t.Fatalf("failure = %q, want the underlying cause", result.Failures[0])
	}
}

func TestDownloadPlaylistMissingEntry(t *testing.T) {
	extractor := &fakeExtractor{
		playlist: &youtube.Playlist{
			Title:  "Holes",
			Videos: []*youtube.PlaylistEntry{{ID: ""}},
		},
	}
	d := newTestDownloader(t, extractor, nil, Options{})

	result, err := d.DownloadPlaylist(context.Background(), "https://youtube.com/playlist?list=PLy")
	if err != nil {
		t.Fatalf("DownloadPlaylist: %v", err)
	}
	if result.Successes != 0 || len(result.Failures) != 1 {
		t.Fatalf("result = %+v, want one failure and no successes", result)
	}
	if !strings.Contains(result.Failures[0], "missing playlist entry") {
		t.Fatalf("failure = %q, want missing-entry message", result.Failures[0])
	}
}

func TestDownloadPlaylistResolveFailureAborts(t *testing.T) {
	extractor := &fakeExtractor{playlistErr: errors.New("playlist private")}
	d := newTestDownloader(t, extractor, nil, Options{})

	result, err := d.DownloadPlaylist(context.Background(), "https://youtube.com/playlist?list=PLz")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := CategoryOf(err); got != CategoryResolve {
		t.Fatalf("category = %q, want %q", got, CategoryResolve)
	}
	if result.Total != 0 {
		t.Fatalf("total = %d, want 0 after aborted resolve", result.Total)
	}
}

func TestDownloadPlaylistStopsOnCancel(t *testing.T) {
	extractor := &fakeExtractor{
		playlist: &youtube.Playlist{
			Title: "Long Running",
			Videos: []*youtube.PlaylistEntry{
				{ID: "v1", Title: "First"},
				{ID: "v2", Title: "Second"},
			},
		},
		videos: map[string]*youtube.Video{
			"v1": testPlaylistVideo("First"),
			"v2": testPlaylistVideo("Second"),
		},
		streamData: []byte("stream-bytes"),
	}
	d := newTestDownloader(t, extractor, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.DownloadPlaylist(ctx, "https://youtube.com/playlist?list=PLc")
	if err == nil {
		t.Fatal("expected an error after cancellation, got nil")
	}
	if got := CategoryOf(err); got != CategoryInterrupted {
		t.Fatalf("category = %q, want %q", got, CategoryInterrupted)
	}
	if result.Successes != 0 {
		t.Fatalf("successes = %d, want 0 after immediate cancel", result.Successes)
	}
}
