package cogtiff

import (
	"context"
	"encoding/binary"
)

// fakeSource is an in-memory cogtiff.Source used across tests. Reads past
// the end of data are truncated rather than erroring, matching the real
// Source contract's "may return fewer bytes than requested" clause.
type fakeSource struct {
	data  []byte
	calls int
}

func (s *fakeSource) Fetch(_ context.Context, offset, length int64) ([]byte, error) {
	s.calls++
	if offset >= int64(len(s.data)) {
		return nil, nil
	}
	end := offset + length
	if end > int64(len(s.data)) {
		end = int64(len(s.data))
	}
	return s.data[offset:end], nil
}

func (s *fakeSource) Size(_ context.Context) (int64, bool) {
	return int64(len(s.data)), true
}

// buildClassicStripTiff builds the minimal classic TIFF described in the
// "Classic TIFF, one image, untiled" scenario: a single IFD with
// ImageWidth=256, ImageLength=256, one strip of stripLen bytes.
func buildClassicStripTiff(stripLen int) []byte {
	const (
		headerSize  = 8
		entryCount  = 4
		entrySize   = 12
		ifdCountSz  = 2
		nextPtrSz   = 4
	)
	ifdStart := int64(headerSize)
	entriesStart := ifdStart + ifdCountSz
	nextPtrOffset := entriesStart + entryCount*entrySize
	stripOffset := nextPtrOffset + nextPtrSz

	total := int(stripOffset) + stripLen
	buf := make([]byte, total)

	buf[0], buf[1] = 'I', 'I'
	binary.LittleEndian.PutUint16(buf[2:], 42)
	binary.LittleEndian.PutUint32(buf[4:], uint32(ifdStart))

	binary.LittleEndian.PutUint16(buf[ifdStart:], entryCount)

	writeEntry := func(i int, id uint16, dtype uint16, count uint32, value uint32) {
		off := entriesStart + int64(i)*entrySize
		binary.LittleEndian.PutUint16(buf[off:], id)
		binary.LittleEndian.PutUint16(buf[off+2:], dtype)
		binary.LittleEndian.PutUint32(buf[off+4:], count)
		binary.LittleEndian.PutUint32(buf[off+8:], value)
	}
	writeEntry(0, TagImageWidth, uint16(DTLong), 1, 256)
	writeEntry(1, TagImageLength, uint16(DTLong), 1, 256)
	writeEntry(2, TagStripOffsets, uint16(DTLong), 1, uint32(stripOffset))
	writeEntry(3, TagStripByteCounts, uint16(DTLong), 1, uint32(stripLen))

	binary.LittleEndian.PutUint32(buf[nextPtrOffset:], 0)

	for i := 0; i < stripLen; i++ {
		buf[int(stripOffset)+i] = byte(i)
	}
	return buf
}
