package downloader

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/kkdai/youtube/v2"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// audioBitrate is the fixed target bitrate for transcoded audio.
const audioBitrate = "192k"

// Transcoder decodes a downloaded media file and re-encodes it as mp3. It is
// optional at runtime: a nil Transcoder means ffmpeg was not found and audio
// downloads keep their original container.
type Transcoder interface {
	Transcode(ctx context.Context, input, output string) error
}

// ffmpegAvailable probes for an ffmpeg binary once at startup.
func ffmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

type ffmpegTranscoder struct{}

func (ffmpegTranscoder) Transcode(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return wrapCategory(CategoryInterrupted, err)
	}
	err := ffmpeg.Input(input).
		Output(output, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "libmp3lame",
			"b:a":    audioBitrate,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		os.Remove(output)
		return wrapCategory(CategoryTranscode, fmt.Errorf("encoding mp3: %w", err))
	}
	return nil
}

// tagTranscodedAudio embeds ID3v2 metadata into a transcoded mp3. Failures
// here never affect the download outcome.
func tagTranscodedAudio(path string, video *youtube.Video) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if video.Title != "" {
		tag.SetTitle(video.Title)
	}
	if video.Author != "" {
		tag.SetArtist(video.Author)
	}
	if !video.PublishDate.IsZero() {
		tag.AddTextFrame(tag.CommonID("Year"), tag.DefaultEncoding(), fmt.Sprintf("%d", video.PublishDate.Year()))
	}
	return tag.Save()
}
