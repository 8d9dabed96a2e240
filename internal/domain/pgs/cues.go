package pgs

import (
	"context"
	"image"
	"strings"

	"subtran/internal/types"
)

// RecognizeFunc turns a materialized subtitle raster into text. Implemented
// by the OCR adapter; treated as a synchronous, ordered call so that cue
// timestamps follow stream order.
type RecognizeFunc func(ctx context.Context, img *image.Gray) (string, error)

type assemblerState int

const (
	// stateIdle: no cue text buffered.
	stateIdle assemblerState = iota
	// stateDisplaying: cue text and start time buffered, waiting for the
	// display set that clears the screen.
	stateDisplaying
)

// CueAssembler walks display sets in stream order and emits timed cues. An
// image-bearing set starts (or replaces) the pending cue; a clearing set
// finishes it. The PGS stream never marks "clear" events with their own
// payload, so the end timestamp is inferred from the clearing set itself.
type CueAssembler struct {
	recognize RecognizeFunc

	state        assemblerState
	pendingText  string
	pendingStart int64
	nextIndex    int
}

func NewCueAssembler(recognize RecognizeFunc) *CueAssembler {
	return &CueAssembler{recognize: recognize, nextIndex: 1}
}

// Feed advances the state machine by one display set and returns a finished
// cue when ds clears a visible subtitle, nil otherwise.
//
// Two image-bearing sets with no clearing set between them overwrite the
// pending cue; the first image is never emitted. This mirrors observed
// encoder behavior and is part of the contract, not a bug.
func (a *CueAssembler) Feed(ctx context.Context, ds DisplaySet) (*types.Cue, error) {
	pal, obj := ds.Palette(), ds.Object()
	if pal != nil && obj != nil {
		text, err := a.recognize(ctx, Materialize(obj, pal))
		if err != nil {
			return nil, err
		}
		// Empty OCR output still transitions; the cue is simply never emitted.
		a.pendingText = strings.TrimSpace(text)
		a.pendingStart = obj.Header().PTS
		a.state = stateDisplaying
		return nil, nil
	}

	if a.state == stateIdle {
		return nil, nil
	}

	var cue *types.Cue
	if a.pendingText != "" {
		cue = &types.Cue{
			Index: a.nextIndex,
			Start: a.pendingStart,
			End:   ds.EndTime(),
			Text:  a.pendingText,
		}
		a.nextIndex++
	}
	a.pendingText = ""
	a.pendingStart = 0
	a.state = stateIdle
	return cue, nil
}

// AssembleCues decodes an entire raw PGS stream into timed cues. Cues
// finalized before a parse failure are returned alongside the error.
func AssembleCues(ctx context.Context, buf []byte, recognize RecognizeFunc) ([]types.Cue, error) {
	asm := NewCueAssembler(recognize)
	var cues []types.Cue
	for ds, err := range DisplaySets(Segments(buf)) {
		if err != nil {
			return cues, err
		}
		cue, err := asm.Feed(ctx, ds)
		if err != nil {
			return cues, err
		}
		if cue != nil {
			cues = append(cues, *cue)
		}
	}
	return cues, nil
}
