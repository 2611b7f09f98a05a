package cogtiff

import (
	"strconv"
	"strings"
)

// MaxGhostSize is the maximum byte length of a ghost-options block; larger
// gaps between the header and the first IFD are not ghost metadata.
const MaxGhostSize = 16384

// GhostOptions is GDAL's optional KEY=VALUE metadata block written between
// the TIFF header and the first IFD, advertising layout optimizations such
// as the tile-leader trick.
type GhostOptions struct {
	Raw map[string]string
	// TileLeaderByteSize is the width, in bytes, of the little-endian
	// integer GDAL prepends to each tile payload giving its compressed
	// size. Zero means the optimization is not in effect.
	TileLeaderByteSize int
}

// ParseGhostOptions parses raw ASCII KEY=VALUE\n lines. It never errors:
// unknown keys are kept in Raw (key and value trimmed) and ignored by the
// typed fields; lines without '=' or with an empty key are skipped.
func ParseGhostOptions(raw []byte) *GhostOptions {
	opts := &GhostOptions{Raw: map[string]string{}}
	lines := strings.Split(string(raw), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		opts.Raw[key] = value
	}
	if v, ok := opts.Raw["BLOCK_LEADER_SIZE_AS_UINT4"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			opts.TileLeaderByteSize = n
		}
	}
	return opts
}

// MaybeParseGhostOptions parses the ghost block iff its size is strictly
// between 0 and MaxGhostSize, per the TiffReader header-read protocol.
// It returns nil (no error) when the gap does not look like a ghost block.
func MaybeParseGhostOptions(raw []byte, ghostSize int64) *GhostOptions {
	if ghostSize <= 0 || ghostSize >= MaxGhostSize {
		return nil
	}
	return ParseGhostOptions(raw)
}
