package pgs

import "iter"

// DisplaySet is one subtitle presentation state: the segments collected up to
// and including an End segment.
type DisplaySet struct {
	Segments []Segment
}

// Palette returns the set's first palette segment, or nil.
func (ds DisplaySet) Palette() *PaletteSegment {
	for _, seg := range ds.Segments {
		if p, ok := seg.(*PaletteSegment); ok {
			return p
		}
	}
	return nil
}

// Object returns the set's first object segment, or nil.
func (ds DisplaySet) Object() *ObjectSegment {
	for _, seg := range ds.Segments {
		if o, ok := seg.(*ObjectSegment); ok {
			return o
		}
	}
	return nil
}

// ImageBearing reports whether the set carries both an object and a palette,
// i.e. describes a new subtitle image. A set lacking either clears the
// currently visible subtitle.
func (ds DisplaySet) ImageBearing() bool {
	return ds.Palette() != nil && ds.Object() != nil
}

// EndTime is the presentation timestamp of the set's last segment, in
// milliseconds.
func (ds DisplaySet) EndTime() int64 {
	if len(ds.Segments) == 0 {
		return 0
	}
	return ds.Segments[len(ds.Segments)-1].Header().PTS
}

// DisplaySets groups a decoded segment sequence into display sets, in order,
// one pass. A trailing group never closed by an End segment is dropped;
// callers needing completeness guarantees must not rely on the final set of
// an unterminated stream.
func DisplaySets(segs iter.Seq2[Segment, error]) iter.Seq2[DisplaySet, error] {
	return func(yield func(DisplaySet, error) bool) {
		var cur []Segment
		for seg, err := range segs {
			if err != nil {
				yield(DisplaySet{}, err)
				return
			}
			cur = append(cur, seg)
			if _, ok := seg.(*EndSegment); ok {
				if !yield(DisplaySet{Segments: cur}, nil) {
					return
				}
				cur = nil
			}
		}
	}
}

// CollectDisplaySets materializes every display set of a raw stream. Useful
// when the caller needs the count up front, e.g. for progress reporting.
func CollectDisplaySets(buf []byte) ([]DisplaySet, error) {
	var sets []DisplaySet
	for ds, err := range DisplaySets(Segments(buf)) {
		if err != nil {
			return nil, err
		}
		sets = append(sets, ds)
	}
	return sets, nil
}
