// Package pgs decodes Presentation Graphic Stream subtitle data: the
// bitmap-based format carried in .sup files and Blu-ray style containers.
package pgs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Segment type bytes defined by the PGS format.
const (
	typePalette     = 0x14 // PDS
	typeObject      = 0x15 // ODS
	typeComposition = 0x16 // PCS
	typeWindow      = 0x17 // WDS
	typeEnd         = 0x80 // END
)

// headerSize is the fixed common header: 2 magic + 4 PTS + 4 DTS + 1 type +
// 2 payload length.
const headerSize = 13

var magic = []byte("PG")

var (
	// ErrInvalidSegmentHeader reports a segment whose first two bytes are not
	// the literal "PG" marker. The stream cannot be resynchronized past this
	// point, so the whole parse aborts.
	ErrInvalidSegmentHeader = errors.New("pgs: invalid segment header")

	// ErrTruncatedStream reports a segment whose declared length exceeds the
	// bytes remaining in the buffer.
	ErrTruncatedStream = errors.New("pgs: truncated stream")
)

// Header carries the fields shared by every segment variant. Timestamps are
// stored in milliseconds, converted from the stream's 90 kHz clock.
type Header struct {
	PTS  int64
	DTS  int64
	Type byte
}

// Segment is the closed set of PGS segment variants: PaletteSegment,
// ObjectSegment, CompositionSegment, WindowSegment, EndSegment and
// UnknownSegment. Consumers dispatch with a type switch.
type Segment interface {
	Header() Header
}

// PaletteEntry is one color in YCrCb + alpha form.
type PaletteEntry struct {
	Y     uint8
	Cr    uint8
	Cb    uint8
	Alpha uint8
}

// PaletteSegment (PDS) defines the 256-entry color table used by the object
// in the same display set. Entries not listed in the payload stay zero.
type PaletteSegment struct {
	hdr     Header
	ID      uint8
	Version uint8
	Entries [256]PaletteEntry
}

func (s *PaletteSegment) Header() Header { return s.hdr }

// ObjectSegment (ODS) carries the run-length encoded subtitle bitmap and its
// declared bounds. Data may describe more or fewer pixels than Width×Height;
// Materialize reconciles the difference.
type ObjectSegment struct {
	hdr      Header
	ObjectID uint16
	Width    int
	Height   int
	Data     []byte
}

func (s *ObjectSegment) Header() Header { return s.hdr }

// CompositionSegment (PCS) is preserved for display-set grouping but its
// payload is not interpreted here.
type CompositionSegment struct {
	hdr     Header
	Payload []byte
}

func (s *CompositionSegment) Header() Header { return s.hdr }

// WindowSegment (WDS) is preserved uninterpreted, like CompositionSegment.
type WindowSegment struct {
	hdr     Header
	Payload []byte
}

func (s *WindowSegment) Header() Header { return s.hdr }

// EndSegment (END) terminates a display set.
type EndSegment struct {
	hdr Header
}

func (s *EndSegment) Header() Header { return s.hdr }

// UnknownSegment holds a segment with an unrecognized type byte. Unknown
// types are forward-compatible: the payload is kept but never interpreted.
type UnknownSegment struct {
	hdr     Header
	Payload []byte
}

func (s *UnknownSegment) Header() Header { return s.hdr }

// DecodeSegment interprets one raw segment record, including its common
// header, as sliced by Segments.
func DecodeSegment(raw []byte) (Segment, error) {
	if len(raw) < headerSize {
		return nil, ErrTruncatedStream
	}
	if !bytes.Equal(raw[:2], magic) {
		return nil, ErrInvalidSegmentHeader
	}
	hdr := Header{
		PTS:  int64(binary.BigEndian.Uint32(raw[2:6])) / 90,
		DTS:  int64(binary.BigEndian.Uint32(raw[6:10])) / 90,
		Type: raw[10],
	}
	payload := raw[headerSize:]
	switch hdr.Type {
	case typePalette:
		return decodePalette(hdr, payload), nil
	case typeObject:
		return decodeObject(hdr, payload)
	case typeComposition:
		return &CompositionSegment{hdr: hdr, Payload: payload}, nil
	case typeWindow:
		return &WindowSegment{hdr: hdr, Payload: payload}, nil
	case typeEnd:
		return &EndSegment{hdr: hdr}, nil
	default:
		return &UnknownSegment{hdr: hdr, Payload: payload}, nil
	}
}

func decodePalette(hdr Header, payload []byte) *PaletteSegment {
	seg := &PaletteSegment{hdr: hdr}
	if len(payload) < 2 {
		return seg
	}
	seg.ID = payload[0]
	seg.Version = payload[1]
	body := payload[2:]
	for i := 0; i+5 <= len(body); i += 5 {
		seg.Entries[body[i]] = PaletteEntry{
			Y:     body[i+1],
			Cr:    body[i+2],
			Cb:    body[i+3],
			Alpha: body[i+4],
		}
	}
	return seg
}

func decodeObject(hdr Header, payload []byte) (*ObjectSegment, error) {
	// Fixed object header: 2 id + 1 version + 1 sequence flag + 3 data
	// length + 2 width + 2 height.
	if len(payload) < 11 {
		return nil, fmt.Errorf("pgs: object segment payload %d bytes: %w", len(payload), ErrTruncatedStream)
	}
	return &ObjectSegment{
		hdr:      hdr,
		ObjectID: binary.BigEndian.Uint16(payload[0:2]),
		Width:    int(binary.BigEndian.Uint16(payload[7:9])),
		Height:   int(binary.BigEndian.Uint16(payload[9:11])),
		Data:     payload[11:],
	}, nil
}
