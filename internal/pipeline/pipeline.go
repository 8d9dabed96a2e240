package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"subtran/internal/config"
	"subtran/internal/ports"
	"subtran/internal/ports/adapters/ffmpeg"
	"subtran/internal/ports/adapters/googleai"
	"subtran/internal/ports/adapters/tesseract"
	"subtran/internal/usecase"
)

type Config struct {
	InputPath string
	OutDir    string
	Logf      func(format string, args ...any)

	// CacheDir is the base directory for transient artifacts (extracted
	// streams, OCR frames). If empty, defaults to ".cache".
	CacheDir string

	FFmpegPath  string
	FFprobePath string

	TesseractPath string
	OCRLanguage   string

	Translate            bool
	TargetLanguage       string // BCP 47 tag
	GoogleAIAPIKey       string
	GoogleAIModel        string
	GoogleAIBaseURL      string
	GoogleAIAllowedHosts []string

	KeepExtracted bool
	ShowProgress  bool
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if strings.TrimSpace(c.OCRLanguage) == "" {
		return errors.New("ocr language is empty")
	}
	if c.Translate {
		if c.GoogleAIAPIKey == "" {
			return errors.New("GOOGLE_AI_API_KEY is required when translation is enabled")
		}
		if strings.TrimSpace(c.TargetLanguage) == "" {
			return errors.New("target language is empty")
		}
		return googleai.ValidateBaseURL(c.GoogleAIBaseURL, c.GoogleAIAllowedHosts)
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// adapters
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	if err := media.Check(ctx); err != nil {
		return err
	}

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", hash(cfg.InputPath))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	logf("cache: %s", cacheDir)

	ocr := tesseract.New(cfg.TesseractPath, cfg.OCRLanguage, cacheDir)

	var translator ports.Translator
	if cfg.Translate {
		translator = googleai.New(cfg.GoogleAIAPIKey, cfg.GoogleAIModel, cfg.GoogleAIBaseURL)
	}

	uc := usecase.New(usecase.Deps{
		Media:      media,
		OCR:        ocr,
		Translator: translator,
	})

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	base := outputBase(cfg.InputPath)
	outSRT := filepath.Join(outDir, base+".srt")
	translatedSRT := ""
	if cfg.Translate {
		translatedSRT = filepath.Join(outDir, base+"."+cfg.TargetLanguage+".srt")
	}

	res, err := uc.Run(ctx, usecase.Input{
		InputPath:     cfg.InputPath,
		OutSRT:        outSRT,
		TranslatedSRT: translatedSRT,
		LanguageName:  config.LanguageName(cfg.TargetLanguage),
		CacheDir:      cacheDir,
		KeepExtracted: cfg.KeepExtracted,
		ShowProgress:  cfg.ShowProgress,
		Logf:          logf,
	})
	if err != nil {
		return err
	}

	logf("done: %d cues -> %s", len(res.Cues), res.SRTPath)
	if res.TranslatedPath != "" {
		logf("translated: %s", res.TranslatedPath)
	}
	return nil
}

// outputBase derives the SRT file stem from the input path: extension and
// the ".extracted" suffix produced by the extractor are dropped, the rest is
// normalized to a safe path segment.
func outputBase(inputPath string) string {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name = strings.TrimSuffix(name, ".extracted")
	name = normalizePathSegment(name)
	if name == "" {
		name = "subtitles"
	}
	return name
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-.")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.OCR = (*tesseract.Adapter)(nil)
var _ ports.Translator = (*googleai.Adapter)(nil)
