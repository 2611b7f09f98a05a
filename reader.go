package cogtiff

import (
	"context"
	"fmt"
	"math"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultHeaderSize  = 16 * 1024
	defaultIfdReadSize = 16 * 1024
	ifdProbeWindow     = 1024
	byteOrderLittle    = 0x4949
	byteOrderBig       = 0x4d4d
	versionClassicWord = 42
	versionBigWord     = 43
)

// ReaderOption configures a TiffReader at construction time, in the same
// functional-options style the rest of this codebase's configuration
// surfaces use.
type ReaderOption func(*TiffReader)

// WithHeaderSize overrides the number of bytes fetched for the initial
// header read (default 16 KiB). Use a larger value for files with large
// ghost-option blocks or many IFD entries in the first IFD.
func WithHeaderSize(n int64) ReaderOption {
	return func(r *TiffReader) { r.headerSize = n }
}

// WithIfdReadSize overrides the chunk size used to fetch an IFD that is not
// already resident in a cached view (default 16 KiB).
func WithIfdReadSize(n int64) ReaderOption {
	return func(r *TiffReader) { r.ifdReadSize = n }
}

// WithLogger attaches a structured logger. Defaults to a shared production
// zap.Logger.
func WithLogger(l *zap.Logger) ReaderOption {
	return func(r *TiffReader) { r.logger = l }
}

// WithMaxParallelInit bounds how many per-image Init calls (and, within
// them, tag fetches) run concurrently. Default 8.
func WithMaxParallelInit(n int) ReaderOption {
	return func(r *TiffReader) { r.maxParallel = n }
}

// Resolution is a per-image (x,y,z) ground sample distance triple, as
// returned by TiffReader.GetResolutions.
type Resolution struct {
	X, Y, Z float64
}

// TiffReader is the top-level entry point: it reads the TIFF/BigTIFF
// header, walks the IFD chain, and exposes the resulting Images.
type TiffReader struct {
	source Source

	headerSize  int64
	ifdReadSize int64
	maxParallel int
	logger      *zap.Logger
	id          string

	initGroup singleflight.Group
	ready     bool

	version        TiffVersion
	ifdConfig      IfdConfig
	firstIfdOffset int64
	ghost          *GhostOptions

	headerView *ByteView
	images     []*Image
}

// New constructs a TiffReader over source without performing any I/O.
// Call Init before using any accessor.
func New(source Source, opts ...ReaderOption) *TiffReader {
	r := &TiffReader{
		source:      source,
		headerSize:  defaultHeaderSize,
		ifdReadSize: defaultIfdReadSize,
		maxParallel: 8,
		logger:      defaultLogger(),
		id:          newCorrelationID(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create constructs a TiffReader and initializes it in one call, mirroring
// the source's create(source) convenience constructor.
func Create(ctx context.Context, source Source, opts ...ReaderOption) (*TiffReader, error) {
	r := New(source, opts...)
	if err := r.Init(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateEx mirrors the source's createEx(source, headerSize, tileSize)
// convenience constructor: headerSize and tileSize are the same knobs
// WithHeaderSize and WithIfdReadSize expose as functional options,
// collected here for callers that prefer positional configuration.
func CreateEx(ctx context.Context, source Source, headerSize, tileSize int64, opts ...ReaderOption) (*TiffReader, error) {
	all := append([]ReaderOption{WithHeaderSize(headerSize), WithIfdReadSize(tileSize)}, opts...)
	return Create(ctx, source, all...)
}

// Init reads the header and walks the IFD chain. It is idempotent and
// concurrency-safe: concurrent callers collapse into a single in-flight
// header fetch, per the single-in-flight-handle requirement.
func (r *TiffReader) Init(ctx context.Context) error {
	_, err, _ := r.initGroup.Do("init", func() (interface{}, error) {
		if r.ready {
			return nil, nil
		}
		if err := r.readHeader(ctx); err != nil {
			return nil, err
		}
		if err := r.walkIfdChain(ctx); err != nil {
			return nil, err
		}
		if err := r.initImages(ctx); err != nil {
			return nil, err
		}
		r.ready = true
		return nil, nil
	})
	return err
}

func (r *TiffReader) readHeader(ctx context.Context) error {
	buf, err := r.source.Fetch(ctx, 0, r.headerSize)
	if err != nil {
		return wrapError(UnsupportedEndian, "fetching header", err)
	}
	view := NewByteView(buf, 0)

	bom, err := view.Uint16(0)
	if err != nil {
		return wrapError(UnsupportedEndian, "reading byte-order mark", err)
	}
	if bom != byteOrderLittle {
		return newError(UnsupportedEndian, fmt.Sprintf("byte-order mark 0x%04x is not little-endian", bom))
	}

	version, err := view.Uint16(2)
	if err != nil {
		return wrapError(UnsupportedVersion, "reading version word", err)
	}

	var headerEnd int64
	switch version {
	case versionClassicWord:
		r.version = VersionClassic
		ptr, err := view.Uint32(4)
		if err != nil {
			return wrapError(UnsupportedVersion, "reading first IFD pointer", err)
		}
		r.firstIfdOffset = int64(ptr)
		headerEnd = 8
	case versionBigWord:
		r.version = VersionBig
		ptrSize, err := view.Uint16(4)
		if err != nil {
			return wrapError(UnsupportedPointerSize, "reading BigTIFF pointer size", err)
		}
		if ptrSize != 8 {
			return newError(UnsupportedPointerSize, fmt.Sprintf("BigTIFF pointer size %d != 8", ptrSize))
		}
		reserved, err := view.Uint16(6)
		if err != nil {
			return wrapError(UnsupportedPointerSize, "reading BigTIFF reserved word", err)
		}
		if reserved != 0 {
			return newError(UnsupportedPointerSize, fmt.Sprintf("BigTIFF reserved word %d != 0", reserved))
		}
		ptr, err := view.Uint64(8)
		if err != nil {
			return wrapError(UnsupportedVersion, "reading first IFD pointer", err)
		}
		r.firstIfdOffset = int64(ptr)
		headerEnd = 16
	default:
		return newError(UnsupportedVersion, fmt.Sprintf("version word %d is neither 42 nor 43", version))
	}

	r.ifdConfig = ConfigFor(r.version)

	ghostSize := r.firstIfdOffset - headerEnd
	if ghostSize > 0 && ghostSize < MaxGhostSize {
		if view.HasBytes(headerEnd, int(ghostSize)) {
			raw, _ := view.Bytes(headerEnd, int(ghostSize))
			r.ghost = MaybeParseGhostOptions(raw, ghostSize)
		} else {
			raw, err := r.source.Fetch(ctx, headerEnd, ghostSize)
			if err == nil {
				r.ghost = MaybeParseGhostOptions(raw, ghostSize)
			}
		}
	}

	r.headerView = view
	r.logger.Debug("parsed tiff header",
		zap.String("reader", r.id),
		zap.Int64("firstIfdOffset", r.firstIfdOffset),
		zap.Bool("bigtiff", r.version == VersionBig),
		zap.Bool("hasGhostOptions", r.ghost != nil))
	return nil
}

// ensureView returns a ByteView covering at least [offset, offset+minLen)
// byte absolute range, reusing the cached header view when possible and
// otherwise fetching a fresh block of ifdReadSize bytes (clamped to the
// source size, if known).
func (r *TiffReader) ensureView(ctx context.Context, offset int64, minLen int) (*ByteView, error) {
	if r.headerView != nil && r.headerView.HasBytes(offset, minLen) {
		return r.headerView, nil
	}
	length := r.ifdReadSize
	if int64(minLen) > length {
		length = int64(minLen)
	}
	if size, ok := r.source.Size(ctx); ok {
		if offset+length > size {
			length = size - offset
		}
	}
	buf, err := r.source.Fetch(ctx, offset, length)
	if err != nil {
		return nil, wrapError(IfdTruncated, "fetching IFD block", err)
	}
	return NewByteView(buf, offset), nil
}

func (r *TiffReader) walkIfdChain(ctx context.Context) error {
	next := r.firstIfdOffset
	for next != 0 {
		view, err := r.ensureView(ctx, next, ifdProbeWindow)
		if err != nil {
			return err
		}
		nextOffset, img, err := r.readIfd(ctx, next, view)
		if err != nil {
			return err
		}
		img.index = len(r.images)
		r.images = append(r.images, img)
		next = nextOffset
	}
	if len(r.images) == 0 {
		return newError(IfdTruncated, "no IFDs found")
	}
	return nil
}

func (r *TiffReader) readIfd(ctx context.Context, offset int64, view *ByteView) (int64, *Image, error) {
	count, err := view.UintWidth(offset, r.ifdConfig.OffsetWidth)
	if err != nil {
		return 0, nil, wrapError(IfdTruncated, "reading IFD entry count", err)
	}
	entriesStart := offset + int64(r.ifdConfig.OffsetWidth)
	neededEntryBytes := int64(count) * int64(r.ifdConfig.EntrySize)

	if !view.HasBytes(entriesStart, int(neededEntryBytes)+r.ifdConfig.PointerWidth) {
		fresh, err := r.ensureView(ctx, offset, int(int64(r.ifdConfig.OffsetWidth)+neededEntryBytes)+r.ifdConfig.PointerWidth)
		if err != nil {
			return 0, nil, err
		}
		if !fresh.HasBytes(entriesStart, int(neededEntryBytes)+r.ifdConfig.PointerWidth) {
			return 0, nil, newError(IfdTruncated, fmt.Sprintf("IFD at %d needs %d entries beyond the loaded range", offset, count))
		}
		view = fresh
	}

	tags := make(map[uint16]*Tag, count)
	for i := int64(0); i < int64(count); i++ {
		entryOffset := entriesStart + i*int64(r.ifdConfig.EntrySize)
		tag, err := DecodeTagEntry(r.ifdConfig, view, entryOffset)
		if err != nil {
			return 0, nil, err
		}
		tags[tag.ID] = tag
	}

	nextOffsetAbs := entriesStart + neededEntryBytes
	nextIfd, err := view.UintWidth(nextOffsetAbs, r.ifdConfig.PointerWidth)
	if err != nil {
		return 0, nil, wrapError(IfdTruncated, "reading next-IFD pointer", err)
	}

	img := newImage(r, tags)
	return int64(nextIfd), img, nil
}

func (r *TiffReader) initImages(ctx context.Context) error {
	p := pool.New().WithContext(ctx).WithMaxGoroutines(r.maxParallel).WithFirstError()
	for _, img := range r.images {
		img := img
		p.Go(func(ctx context.Context) error {
			return img.Init(ctx, true)
		})
	}
	return p.Wait()
}

// Images returns the read-only, header-order slice of decoded images.
// images[0] is the full-resolution base image.
func (r *TiffReader) Images() []*Image { return r.images }

// GhostOptions returns the parsed GDAL ghost-options block, or nil if the
// file did not carry one.
func (r *TiffReader) GhostOptions() *GhostOptions { return r.ghost }

// GetResolutions returns the (x,y,z) ground sample distance of every image
// in header order.
func (r *TiffReader) GetResolutions(ctx context.Context) ([]Resolution, error) {
	out := make([]Resolution, 0, len(r.images))
	for _, img := range r.images {
		rx, ry, rz, err := img.Resolution(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, Resolution{X: rx, Y: ry, Z: rz})
	}
	return out, nil
}

// GetImageByResolution returns the image best matching a requested x
// ground sample distance: the finest image whose resolution is still
// coarse enough to cover res (the smallest resolution >= res), or the
// coarsest available image if res exceeds every image's resolution.
func (r *TiffReader) GetImageByResolution(ctx context.Context, res float64) (*Image, error) {
	if len(r.images) == 0 {
		return nil, newError(IndexOutOfBounds, "reader has no images")
	}
	var best *Image
	bestRx := math.Inf(1)
	for _, img := range r.images {
		rx, _, _, err := img.Resolution(ctx)
		if err != nil {
			continue
		}
		if rx >= res-0.01 && rx < bestRx {
			best = img
			bestRx = rx
		}
	}
	if best == nil {
		best = r.images[len(r.images)-1]
	}
	return best, nil
}
