package ports

import (
	"context"
	"image"
)

// MediaTool probes a container for subtitle streams and extracts the first
// one.
type MediaTool interface {
	// DetectSubtitleCodec returns types.CodecPGS, types.CodecSRT or "" when
	// the container carries no subtitle stream.
	DetectSubtitleCodec(ctx context.Context, inPath string) (string, error)
	// ExtractSubtitleStream demuxes the first subtitle stream into outPath.
	// PGS streams are stream-copied; text streams are converted to SubRip.
	ExtractSubtitleStream(ctx context.Context, inPath, outPath, codec string) error
}

// OCR recognizes the text in a single-channel subtitle raster.
type OCR interface {
	RecognizeText(ctx context.Context, img *image.Gray) (string, error)
}

// Translator translates a whole SubRip document, preserving its structure.
// language is a human-readable target language name.
type Translator interface {
	TranslateSRT(ctx context.Context, srtText, language string) (string, error)
}
