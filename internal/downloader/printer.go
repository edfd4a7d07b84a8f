package downloader

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/kkdai/youtube/v2"
)

// Printer is the user-facing reporting surface: status lines, the verbose
// metadata block, and the playlist summary. Operational logging goes to zap,
// not here.
type Printer struct {
	out     io.Writer
	verbose bool

	success lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	detail  lipgloss.Style
}

func newPrinter(out io.Writer, verbose bool) *Printer {
	p := &Printer{out: out, verbose: verbose}
	if colorEnabled(out) {
		p.success = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		p.failure = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		p.info = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
		p.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		p.detail = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	}
	return p
}

func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, p.failure.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintln(p.out, p.info.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.out, p.warn.Render(fmt.Sprintf(format, args...)))
}

// Metadata prints the extended video details shown in verbose mode before a
// download starts.
func (p *Printer) Metadata(video *youtube.Video) {
	if !p.verbose {
		return
	}
	published := "unknown"
	if !video.PublishDate.IsZero() {
		published = video.PublishDate.Format("2006-01-02")
	}
	lines := []string{
		fmt.Sprintf("title:     %s", video.Title),
		fmt.Sprintf("duration:  %s", formatDuration(int(video.Duration.Seconds()))),
		fmt.Sprintf("views:     %s", formatCount(video.Views)),
		fmt.Sprintf("channel:   %s", video.Author),
		fmt.Sprintf("published: %s", published),
	}
	for _, line := range lines {
		fmt.Fprintln(p.out, p.detail.Render(line))
	}
}

// Summary reports a playlist run: successes out of total, then each failure
// in member order.
func (p *Printer) Summary(result PlaylistResult) {
	p.Successf("downloaded %d/%d videos", result.Successes, result.Total)
	if len(result.Failures) == 0 {
		return
	}
	p.Errorf("failed downloads: %d", len(result.Failures))
	for _, failure := range result.Failures {
		p.Errorf("  - %s", failure)
	}
}
