package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Layout is the filesystem namespace a run writes into: the base output
// directory plus its videos/ and audio/ subdirectories.
type Layout struct {
	Base   string
	Videos string
	Audio  string
}

// newLayout creates the output directories. Creation is idempotent: calling
// it twice on the same base neither errors nor touches existing contents.
func newLayout(base string) (Layout, error) {
	layout := Layout{
		Base:   base,
		Videos: filepath.Join(base, "videos"),
		Audio:  filepath.Join(base, "audio"),
	}
	for _, dir := range []string{layout.Videos, layout.Audio} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Layout{}, wrapCategory(CategoryFilesystem, fmt.Errorf("creating directory %s: %w", dir, err))
		}
	}
	return layout, nil
}

var (
	invalidTitleChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns    = regexp.MustCompile(`\s+`)
)

// sanitizeTitle makes a video title safe to use as a filename: strip the
// characters forbidden on common filesystems, collapse whitespace runs to a
// single space and trim, strip leading/trailing dots. An empty result becomes
// "untitled".
func sanitizeTitle(title string) string {
	clean := invalidTitleChars.ReplaceAllString(title, "")
	clean = whitespaceRuns.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	clean = strings.Trim(clean, ".")
	if clean == "" {
		return "untitled"
	}
	return clean
}

// nextAvailablePath returns path itself when nothing exists there, otherwise
// the first "name (n).ext" variant that is free. Two videos sharing a
// sanitized title therefore both survive instead of the last write winning.
func nextAvailablePath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", wrapCategory(CategoryFilesystem, err)
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	for i := 1; i < 10000; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", name, i, ext))
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return candidate, nil
			}
			return "", wrapCategory(CategoryFilesystem, err)
		}
	}
	return "", wrapCategory(CategoryFilesystem, fmt.Errorf("unable to find available filename for %s", path))
}

func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(mime, "/")
	if len(parts) == 2 && parts[1] != "" {
		switch parts[1] {
		case "3gpp":
			return "3gp"
		default:
			return parts[1]
		}
	}
	return "mp4"
}

func humanBytes(n int64) string {
	const unit = 1024
	if n <= 0 {
		return "unknown"
	}
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 3 {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	suffix := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f%s", value, suffix[exp])
}

// formatDuration renders seconds as HH:MM:SS, or MM:SS under an hour.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "unknown"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// formatCount renders a large number with thousands separators.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		s = s[1:]
	}
	var b strings.Builder
	if n < 0 {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncateText(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
