package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"subtran/internal/domain/pgs"
	"subtran/internal/domain/srt"
	"subtran/internal/ports"
	"subtran/internal/types"
)

type Deps struct {
	Media      ports.MediaTool
	OCR        ports.OCR
	Translator ports.Translator // nil disables translation
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	InputPath string // video container or a raw .sup file

	OutSRT        string // recognized subtitle document
	TranslatedSRT string // written only when Translator is set
	LanguageName  string // target language, human readable

	CacheDir      string
	KeepExtracted bool
	ShowProgress  bool
	Logf          func(format string, args ...any)
}

type Result struct {
	Cues           []types.Cue
	SRTPath        string
	TranslatedPath string
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	supPath, cleanup, err := u.obtainSup(ctx, in, logf)
	if err != nil {
		return Result{}, err
	}
	if supPath == "" {
		// Container carried a text subtitle stream; it was extracted straight
		// to the output path and there is nothing to decode or recognize.
		return u.finishFromSRTFile(ctx, in, logf)
	}
	defer cleanup()

	buf, err := os.ReadFile(supPath)
	if err != nil {
		return Result{}, err
	}

	sets, err := pgs.CollectDisplaySets(buf)
	if err != nil {
		return Result{}, fmt.Errorf("parse PGS stream: %w", err)
	}
	logf("decoded %d display sets", len(sets))

	cues, err := u.recognizeCues(ctx, sets, in.ShowProgress)
	if err != nil {
		return Result{}, err
	}
	logf("recognized %d cues", len(cues))

	doc := srt.Render(cues)
	if err := writeFile(in.OutSRT, []byte(doc)); err != nil {
		return Result{}, err
	}
	logf("wrote %s", in.OutSRT)

	res := Result{Cues: cues, SRTPath: in.OutSRT}
	res.TranslatedPath, err = u.translate(ctx, doc, in, logf)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// obtainSup resolves the input to a raw PGS file. It returns "" when the
// container held a text subtitle stream already written to in.OutSRT.
func (u Usecase) obtainSup(ctx context.Context, in Input, logf func(string, ...any)) (string, func(), error) {
	noop := func() {}
	if strings.EqualFold(filepath.Ext(in.InputPath), ".sup") {
		return in.InputPath, noop, nil
	}

	codec, err := u.d.Media.DetectSubtitleCodec(ctx, in.InputPath)
	if err != nil {
		return "", noop, err
	}
	switch codec {
	case types.CodecSRT:
		logf("container has a text subtitle stream, skipping OCR")
		if err := u.d.Media.ExtractSubtitleStream(ctx, in.InputPath, in.OutSRT, codec); err != nil {
			return "", noop, err
		}
		return "", noop, nil
	case types.CodecPGS:
		supPath := filepath.Join(in.CacheDir, "extracted.sup")
		logf("extracting PGS stream to %s", supPath)
		if err := u.d.Media.ExtractSubtitleStream(ctx, in.InputPath, supPath, codec); err != nil {
			return "", noop, err
		}
		cleanup := noop
		if !in.KeepExtracted {
			cleanup = func() { _ = os.Remove(supPath) }
		}
		return supPath, cleanup, nil
	default:
		return "", noop, errors.New("no subtitle stream found in input")
	}
}

func (u Usecase) recognizeCues(ctx context.Context, sets []pgs.DisplaySet, showProgress bool) ([]types.Cue, error) {
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(sets)), "ocr")
		defer bar.Finish()
	}

	asm := pgs.NewCueAssembler(u.d.OCR.RecognizeText)
	var cues []types.Cue
	for _, ds := range sets {
		cue, err := asm.Feed(ctx, ds)
		if err != nil {
			return nil, err
		}
		if cue != nil {
			cues = append(cues, *cue)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return cues, nil
}

func (u Usecase) finishFromSRTFile(ctx context.Context, in Input, logf func(string, ...any)) (Result, error) {
	b, err := os.ReadFile(in.OutSRT)
	if err != nil {
		return Result{}, err
	}
	cues, err := srt.Parse(string(b))
	if err != nil {
		return Result{}, fmt.Errorf("parse extracted SRT: %w", err)
	}
	res := Result{Cues: cues, SRTPath: in.OutSRT}
	res.TranslatedPath, err = u.translate(ctx, string(b), in, logf)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (u Usecase) translate(ctx context.Context, doc string, in Input, logf func(string, ...any)) (string, error) {
	if u.d.Translator == nil || in.TranslatedSRT == "" {
		return "", nil
	}
	if strings.TrimSpace(doc) == "" {
		logf("nothing to translate, skipping")
		return "", nil
	}

	logf("translating to %s", in.LanguageName)
	translated, err := u.d.Translator.TranslateSRT(ctx, doc, in.LanguageName)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	// Structure check only: a block-count mismatch is worth a warning but the
	// translation is still written out for manual review.
	orig, _ := srt.Parse(doc)
	if got, err := srt.Parse(translated); err != nil {
		logf("warning: translated SRT does not parse cleanly: %v", err)
	} else if len(got) != len(orig) {
		logf("warning: translated SRT has %d cues, original has %d", len(got), len(orig))
	}

	if !strings.HasSuffix(translated, "\n") {
		translated += "\n"
	}
	if err := writeFile(in.TranslatedSRT, []byte(translated)); err != nil {
		return "", err
	}
	logf("wrote %s", in.TranslatedSRT)
	return in.TranslatedSRT, nil
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
