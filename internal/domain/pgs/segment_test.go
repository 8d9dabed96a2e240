package pgs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// mkSegment builds one raw segment: "PG" + PTS + DTS + type + length + payload.
// ptsTicks is in 90 kHz clock units.
func mkSegment(ptsTicks uint32, typ byte, payload []byte) []byte {
	b := make([]byte, headerSize+len(payload))
	copy(b, "PG")
	binary.BigEndian.PutUint32(b[2:6], ptsTicks)
	b[10] = typ
	binary.BigEndian.PutUint16(b[11:13], uint16(len(payload)))
	copy(b[headerSize:], payload)
	return b
}

type paletteColor struct {
	index            byte
	y, cr, cb, alpha byte
}

func palettePayload(colors ...paletteColor) []byte {
	p := []byte{0, 0} // palette id, version
	for _, c := range colors {
		p = append(p, c.index, c.y, c.cr, c.cb, c.alpha)
	}
	return p
}

func objectPayload(width, height int, rle []byte) []byte {
	p := make([]byte, 11+len(rle))
	binary.BigEndian.PutUint16(p[0:2], 1) // object id
	binary.BigEndian.PutUint16(p[7:9], uint16(width))
	binary.BigEndian.PutUint16(p[9:11], uint16(height))
	copy(p[11:], rle)
	return p
}

func TestSegments_ConsumesBufferExactly(t *testing.T) {
	segs := [][]byte{
		mkSegment(90, typeComposition, []byte{1, 2, 3}),
		mkSegment(180, typeWindow, []byte{4}),
		mkSegment(270, typeEnd, nil),
	}
	var buf []byte
	for _, s := range segs {
		buf = append(buf, s...)
	}

	var n, consumed int
	for _, err := range Segments(buf) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		consumed += len(segs[n])
		n++
	}
	if n != len(segs) {
		t.Fatalf("expected %d segments, got %d", len(segs), n)
	}
	if consumed != len(buf) {
		t.Fatalf("consumed %d bytes of %d", consumed, len(buf))
	}
}

func TestSegments_TimestampConversion(t *testing.T) {
	// 90 kHz clock: 90000 ticks = 1000 ms.
	buf := mkSegment(90000, typeEnd, nil)
	for seg, err := range Segments(buf) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := seg.Header().PTS; got != 1000 {
			t.Fatalf("PTS = %d ms, want 1000", got)
		}
	}
}

func TestSegments_TruncatedDeclaredLength(t *testing.T) {
	good := mkSegment(90, typeEnd, nil)
	bad := mkSegment(180, typeWindow, []byte{1, 2, 3, 4})
	buf := append(append([]byte{}, good...), bad[:len(bad)-2]...)

	var segs int
	var lastErr error
	for _, err := range Segments(buf) {
		if err != nil {
			lastErr = err
			break
		}
		segs++
	}
	if segs != 1 {
		t.Fatalf("expected 1 good segment before failure, got %d", segs)
	}
	if !errors.Is(lastErr, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", lastErr)
	}
	if !strings.Contains(lastErr.Error(), "segment 1") || !strings.Contains(lastErr.Error(), "offset 13") {
		t.Fatalf("error should name segment index and offset: %v", lastErr)
	}
}

func TestSegments_TruncatedHeader(t *testing.T) {
	buf := append(mkSegment(90, typeEnd, nil), 'P', 'G', 0)
	var lastErr error
	for _, err := range Segments(buf) {
		if err != nil {
			lastErr = err
		}
	}
	if !errors.Is(lastErr, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream for mid-header exhaustion, got %v", lastErr)
	}
}

func TestDecodeSegment_InvalidMagic(t *testing.T) {
	raw := mkSegment(90, typeEnd, nil)
	raw[0] = 'X'
	if _, err := DecodeSegment(raw); !errors.Is(err, ErrInvalidSegmentHeader) {
		t.Fatalf("expected ErrInvalidSegmentHeader, got %v", err)
	}
}

func TestDecodeSegment_UnknownTypePreserved(t *testing.T) {
	raw := mkSegment(90, 0x42, []byte{9, 8, 7})
	seg, err := DecodeSegment(raw)
	if err != nil {
		t.Fatalf("unknown types must not error: %v", err)
	}
	u, ok := seg.(*UnknownSegment)
	if !ok {
		t.Fatalf("expected UnknownSegment, got %T", seg)
	}
	if !bytes.Equal(u.Payload, []byte{9, 8, 7}) {
		t.Fatalf("payload not preserved: %v", u.Payload)
	}
}

func TestDecodeSegment_VariantDispatch(t *testing.T) {
	tests := []struct {
		typ  byte
		want string
	}{
		{typePalette, "*pgs.PaletteSegment"},
		{typeComposition, "*pgs.CompositionSegment"},
		{typeWindow, "*pgs.WindowSegment"},
		{typeEnd, "*pgs.EndSegment"},
	}
	for _, tt := range tests {
		seg, err := DecodeSegment(mkSegment(90, tt.typ, palettePayload()))
		if err != nil {
			t.Fatalf("type 0x%02x: %v", tt.typ, err)
		}
		if got := fmt.Sprintf("%T", seg); got != tt.want {
			t.Fatalf("type 0x%02x decoded to %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestDecodePalette_UntouchedEntriesStayZero(t *testing.T) {
	raw := mkSegment(90, typePalette, palettePayload(paletteColor{index: 1, y: 200, cr: 128, cb: 128, alpha: 255}))
	seg, err := DecodeSegment(raw)
	if err != nil {
		t.Fatal(err)
	}
	pal := seg.(*PaletteSegment)
	if got := pal.Entries[1]; got != (PaletteEntry{Y: 200, Cr: 128, Cb: 128, Alpha: 255}) {
		t.Fatalf("entry 1 = %+v", got)
	}
	for i, e := range pal.Entries {
		if i == 1 {
			continue
		}
		if e != (PaletteEntry{}) {
			t.Fatalf("entry %d should stay zero, got %+v", i, e)
		}
	}
}

func TestDecodeObject_Fields(t *testing.T) {
	rle := []byte{1, 0, 0}
	seg, err := DecodeSegment(mkSegment(90, typeObject, objectPayload(4, 1, rle)))
	if err != nil {
		t.Fatal(err)
	}
	obj := seg.(*ObjectSegment)
	if obj.ObjectID != 1 || obj.Width != 4 || obj.Height != 1 {
		t.Fatalf("unexpected object header: %+v", obj)
	}
	if !bytes.Equal(obj.Data, rle) {
		t.Fatalf("unexpected RLE data: %v", obj.Data)
	}
}

func TestDecodeObject_ShortPayload(t *testing.T) {
	seg, err := DecodeSegment(mkSegment(90, typeObject, []byte{0, 0, 0}))
	if err == nil {
		t.Fatalf("expected error, got %T", seg)
	}
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
}
