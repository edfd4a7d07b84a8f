package downloader

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"
)

// Extractor is the boundary to the component that turns a URL into video or
// playlist metadata and a catalog of downloadable streams. It decouples the
// orchestrator from the concrete youtube.Client, enabling tests with fakes.
type Extractor interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
	VideoFromPlaylistEntryContext(ctx context.Context, entry *youtube.PlaylistEntry) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: 15 * time.Second,
	IdleConnTimeout:       90 * time.Second,
}

// headerTransport fills in browser-like defaults on requests that do not set
// their own headers.
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}
	return t.base.RoundTrip(req)
}

// youtubeExtractor adapts *youtube.Client to the Extractor interface.
type youtubeExtractor struct {
	*youtube.Client
}

var _ Extractor = (*youtubeExtractor)(nil)

// newExtractor builds the production extraction client: shared transport,
// default headers, and retries with backoff for transient failures.
func newExtractor(opts Options) Extractor {
	var transport http.RoundTripper = &headerTransport{base: sharedTransport}
	transport = newRetryTransport(transport, defaultRetryConfig)
	return &youtubeExtractor{&youtube.Client{
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}}
}
