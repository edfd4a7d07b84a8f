package downloader

import (
	"regexp"
	"strings"
)

// Accepted URL shapes: canonical watch URL, short link, playlist URL. Each is
// a prefix match (anchored at the start only), case-insensitive, with scheme
// and www. optional.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(https?://)?(www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`(?i)^(https?://)?(www\.)?youtu\.be/[\w-]+`),
	regexp.MustCompile(`(?i)^(https?://)?(www\.)?youtube\.com/playlist\?list=[\w-]+`),
}

// IsValidURL reports whether raw looks like a YouTube video or playlist
// reference. Callers must not rely on trailing content being rejected.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	for _, pattern := range urlPatterns {
		if pattern.MatchString(raw) {
			return true
		}
	}
	return false
}

// IsPlaylist reports whether raw denotes a playlist. Independent of
// IsValidURL: it may return true for strings that fail validation.
func IsPlaylist(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "playlist?list=")
}
