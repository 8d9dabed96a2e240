package pgs

import (
	"encoding/binary"
	"fmt"
	"iter"
)

// Segments slices buf into length-prefixed segment records and decodes each
// one. The sequence is lazy, single-pass and stops after the first error; a
// yielded error names the segment index and byte offset that triggered it.
// A buffer that ends exactly on a segment boundary terminates cleanly;
// running out mid-segment is a truncation error.
func Segments(buf []byte) iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		offset := 0
		for index := 0; offset < len(buf); index++ {
			rest := buf[offset:]
			if len(rest) < headerSize {
				yield(nil, fmt.Errorf("segment %d at offset %d: %w", index, offset, ErrTruncatedStream))
				return
			}
			total := headerSize + int(binary.BigEndian.Uint16(rest[11:13]))
			if total > len(rest) {
				yield(nil, fmt.Errorf("segment %d at offset %d: need %d bytes, have %d: %w",
					index, offset, total, len(rest), ErrTruncatedStream))
				return
			}
			seg, err := DecodeSegment(rest[:total])
			if err != nil {
				yield(nil, fmt.Errorf("segment %d at offset %d: %w", index, offset, err))
				return
			}
			if !yield(seg, nil) {
				return
			}
			offset += total
		}
	}
}
