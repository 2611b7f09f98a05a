package cogtiff

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

// Tile is the output of a successful tile or strip fetch: opaque payload
// bytes plus the MIME type a caller would need to decode them.
type Tile struct {
	MIME  string
	Bytes []byte
}

// TileBounds describes the pixel rectangle a tile covers within its image,
// clamped at the right/bottom edges to the image's actual dimensions.
type TileBounds struct {
	X, Y, W, H int
}

// Image is the per-IFD accessor surface: tag lookup with caching, GeoKey
// unpacking, derived geometry, and the tile/strip fetch hot path. images[0]
// in its parent TiffReader is the full-resolution base; images[i>0] are
// overviews or mask sub-images (NewSubfileType==1).
type Image struct {
	reader *TiffReader
	index  int

	tags      map[uint16]*Tag
	tagFlight singleflight.Group

	geoLoaded bool
	geoKeys   map[uint16]interface{}
}

func newImage(reader *TiffReader, tags map[uint16]*Tag) *Image {
	return &Image{reader: reader, tags: tags}
}

// Index returns this image's position in its reader's Images() slice.
func (img *Image) Index() int { return img.index }

// Value returns the cached value of tag, never performing I/O. ok is false
// if the tag is absent, or present but not yet loaded (Offset/Lazy).
func (img *Image) Value(tagID uint16) (interface{}, bool) {
	tag, ok := img.tags[tagID]
	if !ok {
		return nil, false
	}
	switch tag.Kind {
	case TagInline:
		return tag.Value, true
	default:
		tag.mu.Lock()
		v, loaded := tag.Value, tag.Loaded
		tag.mu.Unlock()
		if !loaded {
			return nil, false
		}
		return v, true
	}
}

// Fetch returns the decoded value of tag, fetching it from the Source if
// necessary. A missing tag returns (nil, nil), matching the spec's "null,
// not error" contract. Concurrent Fetch calls for the same tag id collapse
// into a single Source read.
func (img *Image) Fetch(ctx context.Context, tagID uint16) (interface{}, error) {
	tag, ok := img.tags[tagID]
	if !ok {
		return nil, nil
	}
	if tag.Kind == TagInline {
		return tag.Value, nil
	}

	key := strconv.Itoa(int(tagID))
	v, err, _ := img.tagFlight.Do(key, func() (interface{}, error) {
		tag.mu.Lock()
		defer tag.mu.Unlock()
		if tag.Loaded {
			return tag.Value, nil
		}
		elemSize, err := tag.DataType.Size()
		if err != nil {
			return nil, err
		}
		payloadBytes := elemSize * tag.Count
		buf, err := img.reader.source.Fetch(ctx, tag.ValueOffset, payloadBytes)
		if err != nil {
			return nil, wrapError(ShortRead, fmt.Sprintf("fetching tag %d payload", tagID), err)
		}
		if int64(len(buf)) < payloadBytes {
			return nil, newError(ShortRead, fmt.Sprintf("tag %d: wanted %d bytes, got %d", tagID, payloadBytes, len(buf)))
		}
		val, err := decodeValue(buf, tag.DataType, tag.Count)
		if err != nil {
			return nil, err
		}
		tag.Value = val
		tag.Loaded = true
		return val, nil
	})
	return v, err
}

// offsetArray fetches and normalizes an Offset tag's array to []int64.
func (img *Image) offsetArray(ctx context.Context, tagID uint16) ([]int64, error) {
	v, err := img.Fetch(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return asInt64Slice(v)
}

// importantTags are eagerly fetched during Init so common derived accessors
// (size, resolution, tiling) never need to suspend later.
var importantTags = []uint16{
	TagSamplesPerPixel, TagSampleFormat, TagBitsPerSample, TagCompression,
	TagImageLength, TagImageWidth, TagModelPixelScale, TagModelTiePoint,
	TagModelTransformation, TagTileLength, TagTileWidth,
}

var geoTagSet = []uint16{TagGeoKeyDirectory, TagGeoAsciiParams, TagGeoDoubleParams}

// Init concurrently fetches the important-tag set and, if loadGeoTags is
// true, unpacks the GeoKeyDirectory afterward.
func (img *Image) Init(ctx context.Context, loadGeoTags bool) error {
	tagsToFetch := importantTags
	if loadGeoTags {
		tagsToFetch = append(append([]uint16{}, importantTags...), geoTagSet...)
	}
	p := pool.New().WithContext(ctx).WithMaxGoroutines(img.reader.maxParallel).WithFirstError()
	for _, t := range tagsToFetch {
		t := t
		p.Go(func(ctx context.Context) error {
			_, err := img.Fetch(ctx, t)
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}
	if loadGeoTags {
		return img.LoadGeoTiffTags(ctx)
	}
	return nil
}

// LoadGeoTiffTags unpacks the GeoKeyDirectory, if present, into a lookup
// table of GeoKey id to decoded value. Calling it again is a no-op.
func (img *Image) LoadGeoTiffTags(ctx context.Context) error {
	if img.geoLoaded {
		return nil
	}
	dirVal, err := img.Fetch(ctx, TagGeoKeyDirectory)
	if err != nil {
		return err
	}
	geoKeys := map[uint16]interface{}{}
	if dirVal != nil {
		dir, ok := dirVal.([]uint16)
		if !ok || len(dir) < 4 {
			return newError(GeoKeyMalformed, "GeoKeyDirectory too short")
		}
		numberOfKeys := int(dir[3])
		if len(dir) < 4+numberOfKeys*4 {
			return newError(GeoKeyMalformed, "GeoKeyDirectory shorter than its declared key count")
		}
		for i := 0; i < numberOfKeys; i++ {
			base := 4 + i*4
			keyID := dir[base]
			tagLocation := dir[base+1]
			count := int64(dir[base+2])
			valueOrOffset := int64(dir[base+3])

			if tagLocation == 0 {
				geoKeys[keyID] = valueOrOffset
				continue
			}

			refVal, err := img.Fetch(ctx, tagLocation)
			if err != nil {
				return err
			}
			if refVal == nil {
				return newError(GeoKeyMalformed, fmt.Sprintf("geokey %d references missing tag %d", keyID, tagLocation))
			}
			if f, ok := refVal.(float64); ok {
				refVal = []float64{f} // a one-element DOUBLE tag decodes as a scalar
			}
			switch ref := refVal.(type) {
			case string:
				if count <= 0 {
					geoKeys[keyID] = ""
					continue
				}
				start := valueOrOffset
				end := start + count - 1 // drop the trailing '|' delimiter
				if start < 0 || end > int64(len(ref)) || start > end {
					return newError(GeoKeyMalformed, fmt.Sprintf("geokey %d string slice [%d,%d) out of range for %d-byte value", keyID, start, end, len(ref)))
				}
				geoKeys[keyID] = strings.TrimSpace(ref[start:end])
			case []float64:
				if valueOrOffset < 0 || valueOrOffset+count > int64(len(ref)) {
					return newError(GeoKeyMalformed, fmt.Sprintf("geokey %d double slice out of range", keyID))
				}
				if count == 1 {
					geoKeys[keyID] = ref[valueOrOffset]
				} else {
					geoKeys[keyID] = ref[valueOrOffset : valueOrOffset+count]
				}
			default:
				return newError(GeoKeyMalformed, fmt.Sprintf("geokey %d references tag %d of unexpected type %T", keyID, tagLocation, refVal))
			}
		}
	}
	img.geoKeys = geoKeys
	img.geoLoaded = true
	return nil
}

// ValueGeo looks up a GeoKey. LoadGeoTiffTags must have run first.
func (img *Image) ValueGeo(geoKeyID uint16) (interface{}, error) {
	if !img.geoLoaded {
		return nil, newError(GeoNotLoaded, "call LoadGeoTiffTags before ValueGeo")
	}
	v, ok := img.geoKeys[geoKeyID]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func scalarInt(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case byte:
		return int64(x), true
	}
	return 0, false
}

func scalarFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if i, ok := scalarInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

func floatSlice(v interface{}) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case float64:
		return []float64{x}, true
	}
	return nil, false
}

// Size returns the image's pixel width and height.
func (img *Image) Size(ctx context.Context) (int, int, error) {
	wv, err := img.Fetch(ctx, TagImageWidth)
	if err != nil {
		return 0, 0, err
	}
	hv, err := img.Fetch(ctx, TagImageLength)
	if err != nil {
		return 0, 0, err
	}
	w, ok1 := scalarInt(wv)
	h, ok2 := scalarInt(hv)
	if !ok1 || !ok2 {
		return 0, 0, newError(IndexOutOfBounds, "image has no ImageWidth/ImageLength tags")
	}
	return int(w), int(h), nil
}

// IsSubImage reports whether NewSubfileType marks this image as a reduced
// representation (overview or mask) of images[0].
func (img *Image) IsSubImage() bool {
	v, ok := img.Value(TagNewSubfileType)
	if !ok {
		return false
	}
	n, ok := scalarInt(v)
	return ok && n == 1
}

// Compression returns the image's Compression tag value, or 0 if the tag
// is absent (implicitly CompressionNone per the TIFF baseline).
func (img *Image) Compression(ctx context.Context) (int64, error) {
	return img.compressionCode(ctx)
}

// PhotometricInterpretation returns the image's PhotometricInterpretation
// tag value.
func (img *Image) PhotometricInterpretation(ctx context.Context) (int64, error) {
	v, err := img.Fetch(ctx, TagPhotometricInterpretation)
	if err != nil {
		return 0, err
	}
	n, ok := scalarInt(v)
	if !ok {
		return 0, newError(IndexOutOfBounds, "image has no PhotometricInterpretation tag")
	}
	return n, nil
}

// SamplesPerPixel returns the image's SamplesPerPixel tag value, defaulting
// to 1 per the TIFF baseline when the tag is absent.
func (img *Image) SamplesPerPixel(ctx context.Context) (int64, error) {
	v, err := img.Fetch(ctx, TagSamplesPerPixel)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 1, nil
	}
	n, ok := scalarInt(v)
	if !ok {
		return 0, newError(IndexOutOfBounds, "SamplesPerPixel tag is not a scalar integer")
	}
	return n, nil
}

// SampleFormat returns the per-sample SampleFormat values, one per band.
// Absent defaults to a single unsigned-integer sample, per the TIFF
// baseline.
func (img *Image) SampleFormat(ctx context.Context) ([]int64, error) {
	v, err := img.Fetch(ctx, TagSampleFormat)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []int64{1}, nil
	}
	return asInt64Slice(v)
}

// BitsPerSample returns the per-sample bit depth, one per band. Absent
// defaults to a single 1-bit sample, per the TIFF baseline.
func (img *Image) BitsPerSample(ctx context.Context) ([]int64, error) {
	v, err := img.Fetch(ctx, TagBitsPerSample)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []int64{1}, nil
	}
	return asInt64Slice(v)
}

// GdalNoData parses the GDAL-private GDALNoData tag, an ASCII-encoded
// float, into its numeric value. ok is false if the tag is absent or not
// parseable as a float.
func (img *Image) GdalNoData(ctx context.Context) (float64, bool, error) {
	v, err := img.Fetch(ctx, TagGDALNoData)
	if err != nil {
		return 0, false, err
	}
	s, ok := v.(string)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false, nil
	}
	return f, true, nil
}

// TileOffset returns the absolute file offset of tile idx, for callers that
// only need the offset (e.g. to group tiles into range-request batches). It
// calls GetTileSize and discards the size, so for a non-sparse tile it
// performs the same tile-leader or TileByteCounts read.
func (img *Image) TileOffset(ctx context.Context, idx int) (int64, error) {
	offset, _, err := img.GetTileSize(ctx, idx)
	return offset, err
}

// Origin returns the image's world-space (x,y,z) origin: the geolocation
// of pixel (0,0).
func (img *Image) Origin(ctx context.Context) (float64, float64, float64, error) {
	if tp, err := img.Fetch(ctx, TagModelTiePoint); err == nil {
		if s, ok := floatSlice(tp); ok && len(s) >= 6 {
			return s[3], s[4], s[5], nil
		}
	} else {
		return 0, 0, 0, err
	}
	if tr, err := img.Fetch(ctx, TagModelTransformation); err == nil {
		if s, ok := floatSlice(tr); ok && len(s) >= 16 {
			return s[3], s[7], s[11], nil
		}
	} else {
		return 0, 0, 0, err
	}
	if img.IsSubImage() && img.reader.images[0] != img {
		return img.reader.images[0].Origin(ctx)
	}
	return 0, 0, 0, newError(NoGeoTransform, "no ModelTiePoint/ModelTransformation and not a sub-image")
}

// Resolution returns the image's (x,y,z) ground sample distance. Y is
// negative because raster rows grow downward while world Y grows upward.
func (img *Image) Resolution(ctx context.Context) (float64, float64, float64, error) {
	if ps, err := img.Fetch(ctx, TagModelPixelScale); err == nil {
		if s, ok := floatSlice(ps); ok && len(s) >= 2 {
			rz := 0.0
			if len(s) >= 3 {
				rz = s[2]
			}
			return s[0], -s[1], rz, nil
		}
	} else {
		return 0, 0, 0, err
	}
	if tr, err := img.Fetch(ctx, TagModelTransformation); err == nil {
		if s, ok := floatSlice(tr); ok && len(s) >= 16 {
			return s[0], s[5], s[10], nil
		}
	} else {
		return 0, 0, 0, err
	}
	if img.IsSubImage() && img.reader.images[0] != img {
		base := img.reader.images[0]
		brx, bry, brz, err := base.Resolution(ctx)
		if err != nil {
			return 0, 0, 0, err
		}
		bw, bh, err := base.Size(ctx)
		if err != nil {
			return 0, 0, 0, err
		}
		w, h, err := img.Size(ctx)
		if err != nil || w == 0 || h == 0 {
			return 0, 0, 0, newError(NoGeoTransform, "sub-image has no size to scale base resolution by")
		}
		return brx * float64(bw) / float64(w), bry * float64(bh) / float64(h), brz, nil
	}
	return 0, 0, 0, newError(NoGeoTransform, "no ModelPixelScale/ModelTransformation and not a sub-image")
}

// BBox returns [minX, minY, maxX, maxY] in world coordinates.
func (img *Image) BBox(ctx context.Context) ([4]float64, error) {
	ox, oy, _, err := img.Origin(ctx)
	if err != nil {
		return [4]float64{}, err
	}
	rx, ry, _, err := img.Resolution(ctx)
	if err != nil {
		return [4]float64{}, err
	}
	w, h, err := img.Size(ctx)
	if err != nil {
		return [4]float64{}, err
	}
	x2 := ox + rx*float64(w)
	y2 := oy + ry*float64(h)
	minX, maxX := ox, x2
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := oy, y2
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return [4]float64{minX, minY, maxX, maxY}, nil
}

// EPSG returns the EPSG code describing this image's CRS, preferring the
// projected CS type over the geographic one, or nil if neither GeoKey is
// set (or set to the GeoTIFF "undefined" sentinel).
func (img *Image) EPSG() (*int, error) {
	if v, err := img.ValueGeo(GeoKeyProjectedCSType); err != nil {
		return nil, err
	} else if n, ok := scalarInt(v); ok && n != GeoKeyUndefined {
		out := int(n)
		return &out, nil
	}
	if v, err := img.ValueGeo(GeoKeyGeographicType); err != nil {
		return nil, err
	} else if n, ok := scalarInt(v); ok && n != GeoKeyUndefined {
		out := int(n)
		return &out, nil
	}
	return nil, nil
}

// IsGeoLocated reports whether the image carries enough tags to compute a
// geotransform. It checks ModelPixelScale and ModelTransformation only —
// ModelTiePoint alone does not count, matching this package's reference
// behavior (see DESIGN.md).
func (img *Image) IsGeoLocated() bool {
	if _, ok := img.Value(TagModelPixelScale); ok {
		return true
	}
	if _, ok := img.Value(TagModelTransformation); ok {
		return true
	}
	return false
}

// IsTiled reports whether the image is organized into tiles (vs. strips).
func (img *Image) IsTiled() bool {
	_, ok := img.tags[TagTileWidth]
	return ok
}

// TileSize returns the configured tile width and height.
func (img *Image) TileSize(ctx context.Context) (int, int, error) {
	wv, err := img.Fetch(ctx, TagTileWidth)
	if err != nil {
		return 0, 0, err
	}
	hv, err := img.Fetch(ctx, TagTileLength)
	if err != nil {
		return 0, 0, err
	}
	w, ok1 := scalarInt(wv)
	h, ok2 := scalarInt(hv)
	if !ok1 || !ok2 {
		return 0, 0, newError(IndexOutOfBounds, "image is not tiled")
	}
	return int(w), int(h), nil
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// TileCount returns the number of tiles across (nx) and down (ny) the image.
func (img *Image) TileCount(ctx context.Context) (int, int, error) {
	w, h, err := img.Size(ctx)
	if err != nil {
		return 0, 0, err
	}
	tw, th, err := img.TileSize(ctx)
	if err != nil {
		return 0, 0, err
	}
	return ceilDiv(w, tw), ceilDiv(h, th), nil
}

func tileIndex(x, y, nx int) int { return y*nx + x }

// GetTileBounds returns the pixel rectangle a tile covers, clamped at the
// right/bottom edges of the image.
func (img *Image) GetTileBounds(ctx context.Context, x, y int) (TileBounds, error) {
	w, h, err := img.Size(ctx)
	if err != nil {
		return TileBounds{}, err
	}
	tw, th, err := img.TileSize(ctx)
	if err != nil {
		return TileBounds{}, err
	}
	x0, y0 := x*tw, y*th
	width, height := tw, th
	if x0+width > w {
		width = w - x0
	}
	if y0+height > h {
		height = h - y0
	}
	return TileBounds{X: x0, Y: y0, W: width, H: height}, nil
}

// GetTileSize returns the absolute file offset and byte length of tile idx,
// preferring the GDAL tile-leader optimization (a tiny read at
// offset-leaderSize) over materializing the full TileByteCounts array when
// GhostOptions advertises one.
func (img *Image) GetTileSize(ctx context.Context, idx int) (int64, int64, error) {
	offsets, err := img.offsetArray(ctx, TagTileOffsets)
	if err != nil {
		return 0, 0, err
	}
	if offsets == nil || idx < 0 || idx >= len(offsets) {
		return 0, 0, newError(IndexOutOfBounds, fmt.Sprintf("tile index %d out of range", idx))
	}
	offset := offsets[idx]
	if offset == 0 {
		return 0, 0, nil // sparse tile
	}

	if ghost := img.reader.ghost; ghost != nil && ghost.TileLeaderByteSize > 0 {
		leaderSize := int64(ghost.TileLeaderByteSize)
		buf, err := img.reader.source.Fetch(ctx, offset-leaderSize, leaderSize)
		if err != nil {
			return 0, 0, wrapError(ShortRead, "fetching tile leader", err)
		}
		if int64(len(buf)) < leaderSize {
			return 0, 0, newError(ShortRead, "short read on tile leader")
		}
		size := decodeLeaderUint(buf)
		return offset, size, nil
	}

	counts, err := img.offsetArray(ctx, TagTileByteCounts)
	if err != nil {
		return 0, 0, err
	}
	if counts == nil || idx >= len(counts) {
		return 0, 0, newError(IndexOutOfBounds, fmt.Sprintf("tile index %d out of range of TileByteCounts", idx))
	}
	return offset, counts[idx], nil
}

func decodeLeaderUint(buf []byte) int64 {
	switch len(buf) {
	case 1:
		return int64(buf[0])
	case 2:
		return int64(binary.LittleEndian.Uint16(buf))
	case 4:
		return int64(binary.LittleEndian.Uint32(buf))
	case 8:
		return int64(binary.LittleEndian.Uint64(buf))
	default:
		var v uint64
		for i := len(buf) - 1; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
		return int64(v)
	}
}

// HasTile reports whether tile (x,y) carries data. It never errors:
// out-of-range coordinates simply return false.
func (img *Image) HasTile(ctx context.Context, x, y int) bool {
	nx, ny, err := img.TileCount(ctx)
	if err != nil || x < 0 || y < 0 || x >= nx || y >= ny {
		return false
	}
	offset, _, err := img.GetTileSize(ctx, tileIndex(x, y, nx))
	if err != nil {
		return false
	}
	return offset > 0
}

func mimeForCompression(compression int64) string {
	switch uint32(compression) {
	case CompressionJPEG, CompressionJPEGOld:
		return "image/jpeg"
	case CompressionNone:
		return "application/octet-stream"
	default:
		return "application/octet-stream"
	}
}

// compressionCode returns the image's Compression tag value, or 0
// (CompressionNone-ish "unspecified") if the tag is absent. A missing
// Compression tag does not prevent fetching tile/strip bytes: it only
// disables the JPEG header-splicing path, which requires a known code.
func (img *Image) compressionCode(ctx context.Context) (int64, error) {
	v, err := img.Fetch(ctx, TagCompression)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	c, ok := scalarInt(v)
	if !ok {
		return 0, newError(UnsupportedCompression, "Compression tag is not a scalar integer")
	}
	return c, nil
}

// spliceJPEGTile reconstructs a standalone JPEG from an abbreviated tile
// payload (missing SOI + tables) and the image's shared JPEGTables blob:
// the tables (minus their trailing EOI) are prepended to the tile body
// (minus its leading duplicated SOI).
func spliceJPEGTile(tables, tile []byte) []byte {
	if len(tables) < 2 || len(tile) < 2 {
		return tile
	}
	out := make([]byte, 0, len(tables)-2+len(tile)-2)
	out = append(out, tables[:len(tables)-2]...)
	out = append(out, tile[2:]...)
	return out
}

// GetTile fetches and returns tile (x,y), or nil (no error) if it is
// sparse.
func (img *Image) GetTile(ctx context.Context, x, y int) (*Tile, error) {
	nx, ny, err := img.TileCount(ctx)
	if err != nil {
		return nil, err
	}
	if x < 0 || y < 0 || x >= nx || y >= ny {
		return nil, newError(IndexOutOfBounds, fmt.Sprintf("tile (%d,%d) out of range [0,%d)x[0,%d)", x, y, nx, ny))
	}
	idx := tileIndex(x, y, nx)
	offset, size, err := img.GetTileSize(ctx, idx)
	if err != nil {
		return nil, err
	}
	if offset == 0 {
		return nil, nil // sparse tile
	}
	buf, err := img.reader.source.Fetch(ctx, offset, size)
	if err != nil {
		return nil, wrapError(ShortRead, "fetching tile body", err)
	}
	if int64(len(buf)) < size {
		return nil, newError(ShortRead, fmt.Sprintf("tile (%d,%d): wanted %d bytes, got %d", x, y, size, len(buf)))
	}
	compression, err := img.compressionCode(ctx)
	if err != nil {
		return nil, err
	}
	if uint32(compression) == CompressionJPEG {
		tablesVal, err := img.Fetch(ctx, TagJPEGTables)
		if err != nil {
			return nil, err
		}
		if tables, ok := tablesVal.([]byte); ok {
			buf = spliceJPEGTile(tables, buf)
		}
	}
	return &Tile{MIME: mimeForCompression(compression), Bytes: buf}, nil
}

// StripCount returns the number of strips in the image.
func (img *Image) StripCount(ctx context.Context) (int, error) {
	counts, err := img.offsetArray(ctx, TagStripByteCounts)
	if err != nil {
		return 0, err
	}
	return len(counts), nil
}

// GetStrip fetches and returns strip i. Strips have no tile-leader
// optimization and are mutually exclusive with tiles.
func (img *Image) GetStrip(ctx context.Context, i int) (*Tile, error) {
	offsets, err := img.offsetArray(ctx, TagStripOffsets)
	if err != nil {
		return nil, err
	}
	counts, err := img.offsetArray(ctx, TagStripByteCounts)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(counts) || i >= len(offsets) {
		return nil, newError(IndexOutOfBounds, fmt.Sprintf("strip index %d out of range", i))
	}
	offset, size := offsets[i], counts[i]
	if offset == 0 {
		return nil, nil
	}
	buf, err := img.reader.source.Fetch(ctx, offset, size)
	if err != nil {
		return nil, wrapError(ShortRead, "fetching strip body", err)
	}
	if int64(len(buf)) < size {
		return nil, newError(ShortRead, fmt.Sprintf("strip %d: wanted %d bytes, got %d", i, size, len(buf)))
	}
	compression, err := img.compressionCode(ctx)
	if err != nil {
		return nil, err
	}
	return &Tile{MIME: mimeForCompression(compression), Bytes: buf}, nil
}
