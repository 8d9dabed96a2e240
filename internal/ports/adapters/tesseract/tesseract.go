package tesseract

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
)

type Adapter struct {
	bin     string
	lang    string
	workDir string
}

// New returns a tesseract CLI adapter. workDir holds the transient PNG and
// text files exchanged with the binary; empty means the OS temp dir.
func New(binPath, lang, workDir string) *Adapter {
	if binPath == "" {
		binPath = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &Adapter{bin: binPath, lang: lang, workDir: workDir}
}

func (a *Adapter) RecognizeText(ctx context.Context, img *image.Gray) (string, error) {
	f, err := os.CreateTemp(a.workDir, "frame-*.png")
	if err != nil {
		return "", err
	}
	pngPath := f.Name()
	defer os.Remove(pngPath)

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode subtitle frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// tesseract writes <base>.txt next to the input.
	base := strings.TrimSuffix(pngPath, ".png")
	defer os.Remove(base + ".txt")

	cmd := exec.CommandContext(ctx, a.bin, pngPath, base, "-l", a.lang)
	if b, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w\n%s", err, string(b))
	}

	tb, err := os.ReadFile(base + ".txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(tb)), nil
}
