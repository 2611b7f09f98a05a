package cogtiff

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ByteView is a cheap typed view over a fetched byte range, annotated with
// the absolute offset in the source that byte 0 of the buffer corresponds
// to. All reads are little-endian; this package rejects big-endian files at
// header-parse time rather than supporting them here.
type ByteView struct {
	buf          []byte
	sourceOffset int64
}

// NewByteView wraps buf, recording that buf[0] corresponds to absolute
// source offset sourceOffset.
func NewByteView(buf []byte, sourceOffset int64) *ByteView {
	return &ByteView{buf: buf, sourceOffset: sourceOffset}
}

// Len returns the number of bytes held by the view.
func (v *ByteView) Len() int { return len(v.buf) }

// SourceOffset returns the absolute offset of buf[0].
func (v *ByteView) SourceOffset() int64 { return v.sourceOffset }

// HasBytes reports whether [abs, abs+length) is entirely contained in the
// view's buffer.
func (v *ByteView) HasBytes(abs int64, length int) bool {
	if length < 0 || abs < v.sourceOffset {
		return false
	}
	start := abs - v.sourceOffset
	end := start + int64(length)
	return end <= int64(len(v.buf))
}

func (v *ByteView) slice(abs int64, length int) ([]byte, error) {
	if !v.HasBytes(abs, length) {
		return nil, newError(IfdTruncated, fmt.Sprintf("offset %d length %d not resident in view [%d,%d)", abs, length, v.sourceOffset, v.sourceOffset+int64(len(v.buf))))
	}
	start := abs - v.sourceOffset
	return v.buf[start : start+int64(length)], nil
}

// Uint8 reads an unsigned byte at absolute offset abs.
func (v *ByteView) Uint8(abs int64) (uint8, error) {
	b, err := v.slice(abs, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian uint16 at absolute offset abs.
func (v *ByteView) Uint16(abs int64) (uint16, error) {
	b, err := v.slice(abs, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian uint32 at absolute offset abs.
func (v *ByteView) Uint32(abs int64) (uint32, error) {
	b, err := v.slice(abs, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian uint64 at absolute offset abs.
func (v *ByteView) Uint64(abs int64) (uint64, error) {
	b, err := v.slice(abs, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Int8 reads a signed byte at absolute offset abs.
func (v *ByteView) Int8(abs int64) (int8, error) {
	u, err := v.Uint8(abs)
	return int8(u), err
}

// Int16 reads a little-endian int16 at absolute offset abs.
func (v *ByteView) Int16(abs int64) (int16, error) {
	u, err := v.Uint16(abs)
	return int16(u), err
}

// Int32 reads a little-endian int32 at absolute offset abs.
func (v *ByteView) Int32(abs int64) (int32, error) {
	u, err := v.Uint32(abs)
	return int32(u), err
}

// Int64 reads a little-endian int64 at absolute offset abs.
func (v *ByteView) Int64(abs int64) (int64, error) {
	u, err := v.Uint64(abs)
	return int64(u), err
}

// Float32 reads a little-endian IEEE-754 single at absolute offset abs.
func (v *ByteView) Float32(abs int64) (float32, error) {
	u, err := v.Uint32(abs)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// Float64 reads a little-endian IEEE-754 double at absolute offset abs.
func (v *ByteView) Float64(abs int64) (float64, error) {
	u, err := v.Uint64(abs)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// UintWidth reads an unsigned integer of the given byte width (1, 2, 4 or 8)
// at absolute offset abs. It is used throughout the parser wherever a field
// width is determined at runtime by the TIFF/BigTIFF version (IfdConfig).
func (v *ByteView) UintWidth(abs int64, width int) (uint64, error) {
	switch width {
	case 1:
		u, err := v.Uint8(abs)
		return uint64(u), err
	case 2:
		u, err := v.Uint16(abs)
		return uint64(u), err
	case 4:
		u, err := v.Uint32(abs)
		return uint64(u), err
	case 8:
		return v.Uint64(abs)
	default:
		return 0, newError(UnknownDataType, fmt.Sprintf("unsupported field width %d", width))
	}
}

// Bytes returns a copy of the length bytes starting at absolute offset abs.
func (v *ByteView) Bytes(abs int64, length int) ([]byte, error) {
	b, err := v.slice(abs, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
