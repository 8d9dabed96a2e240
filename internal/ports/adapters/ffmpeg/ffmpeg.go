package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"subtran/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Check verifies the ffmpeg binary is reachable before the pipeline starts.
func (a *Adapter) Check(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, "-version")
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg not available at %q: %w\n%s", a.ffmpeg, err, string(b))
	}
	return nil
}

func (a *Adapter) DetectSubtitleCodec(ctx context.Context, inPath string) (string, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-i", inPath,
		"-show_streams",
		"-select_streams", "s",
		"-loglevel", "error",
	)
	b, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("ffprobe subtitle streams: %w\n%s", err, exitDetail(err))
	}
	codec := parseSubtitleCodec(string(b))
	return codec, nil
}

// parseSubtitleCodec scans ffprobe stream output for the first recognized
// subtitle codec.
func parseSubtitleCodec(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "codec_name=hdmv_pgs_subtitle"):
			return types.CodecPGS
		case strings.HasPrefix(line, "codec_name=subrip"), strings.HasPrefix(line, "codec_name=srt"):
			return types.CodecSRT
		}
	}
	return ""
}

func (a *Adapter) ExtractSubtitleStream(ctx context.Context, inPath, outPath, codec string) error {
	// PGS must be stream-copied: re-encoding a bitmap subtitle is meaningless.
	// Text streams are converted to SubRip so downstream sees one format.
	subCodec := "srt"
	if codec == types.CodecPGS {
		subCodec = "copy"
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-map", "0:s:0",
		"-c:s", subCodec,
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract subtitles: %w\n%s", err, string(b))
	}
	return nil
}

func exitDetail(err error) string {
	if ee, ok := err.(*exec.ExitError); ok {
		return string(ee.Stderr)
	}
	return ""
}
