package downloader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/kkdai/youtube/v2"
)

// fakeExtractor serves canned metadata and stream bytes so orchestration can
// be exercised without the network.
type fakeExtractor struct {
	video       *youtube.Video
	videoErr    error
	videos      map[string]*youtube.Video
	entryErrs   map[string]error
	playlist    *youtube.Playlist
	playlistErr error
	streamData  []byte
	streamErr   error
}

func (f *fakeExtractor) GetVideoContext(ctx context.Context, url string) (*youtube.Video, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return f.video, nil
}

func (f *fakeExtractor) GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error) {
	if f.playlistErr != nil {
		return nil, f.playlistErr
	}
	return f.playlist, nil
}

func (f *fakeExtractor) VideoFromPlaylistEntryContext(ctx context.Context, entry *youtube.PlaylistEntry) (*youtube.Video, error) {
	if err, ok := f.entryErrs[entry.ID]; ok {
		return nil, err
	}
	if video, ok := f.videos[entry.ID]; ok {
		return video, nil
	}
	return nil, errors.New("unknown playlist entry")
}

func (f *fakeExtractor) GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	if f.streamErr != nil {
		return nil, 0, f.streamErr
	}
	return io.NopCloser(bytes.NewReader(f.streamData)), int64(len(f.streamData)), nil
}

// fakeTranscoder copies input to output, or fails on demand.
type fakeTranscoder struct {
	err   error
	calls int
}

func (t *fakeTranscoder) Transcode(ctx context.Context, input, output string) error {
	t.calls++
	if t.err != nil {
		return wrapCategory(CategoryTranscode, t.err)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, 0o644)
}

func newTestDownloader(t *testing.T, extractor Extractor, transcoder Transcoder, opts Options) *Downloader {
	t.Helper()
	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	layout, err := newLayout(opts.OutputDir)
	if err != nil {
		t.Fatalf("newLayout: %v", err)
	}
	printer := newPrinter(io.Discard, opts.Verbose)
	return newDownloader(extractor, transcoder, layout, printer, nil, opts)
}

func progressiveFormat(itag, height int, mime, label string) youtube.Format {
	return youtube.Format{
		ItagNo:        itag,
		MimeType:      mime,
		QualityLabel:  label,
		Width:         height * 16 / 9,
		Height:        height,
		AudioChannels: 2,
		Bitrate:       height * 1000,
	}
}

func videoOnlyFormat(itag, height int, mime, label string) youtube.Format {
	f := progressiveFormat(itag, height, mime, label)
	f.AudioChannels = 0
	return f
}

func audioFormat(itag, bitrate int, mime string) youtube.Format {
	return youtube.Format{
		ItagNo:        itag,
		MimeType:      mime,
		AudioChannels: 2,
		Bitrate:       bitrate,
	}
}
