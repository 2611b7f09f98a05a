package cogtiff

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTileSizeUsesTileLeader(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 0x1010)

	const tileOffsetsArrayAbs = 0x100
	offsets := make([]uint32, 6)
	offsets[5] = 0x1000
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(data[tileOffsetsArrayAbs+i*4:], o)
	}
	binary.LittleEndian.PutUint32(data[0x0FFC:], 0x0000ABCD)

	src := &fakeSource{data: data}
	r := New(src)
	r.ghost = &GhostOptions{TileLeaderByteSize: 4}

	img := newImage(r, map[uint16]*Tag{
		TagTileOffsets: {ID: TagTileOffsets, DataType: DTLong, Count: 6, Kind: TagOffset, ValueOffset: tileOffsetsArrayAbs},
	})
	r.images = []*Image{img}

	offset, size, err := img.GetTileSize(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0x1000), offset)
	assert.Equal(t, int64(0xABCD), size)

	// The tile-leader optimization must avoid fetching TileByteCounts.
	if _, ok := img.tags[TagTileByteCounts]; ok {
		t.Fatal("TileByteCounts should not be registered in this scenario")
	}
}

func TestGetTileSizeSparseTileReturnsZeroWithoutBodyFetch(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 64) // all-zero: every TileOffsets entry is sparse
	src := &fakeSource{data: data}
	r := New(src)

	img := newImage(r, map[uint16]*Tag{
		TagTileOffsets:    {ID: TagTileOffsets, DataType: DTLong, Count: 8, Kind: TagOffset, ValueOffset: 0},
		TagTileByteCounts: {ID: TagTileByteCounts, DataType: DTLong, Count: 8, Kind: TagOffset, ValueOffset: 32},
	})
	r.images = []*Image{img}

	offset, size, err := img.GetTileSize(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)
	assert.Equal(t, int64(0), size)
	assert.Equal(t, 1, src.calls) // only the TileOffsets array was read

	hasTile := img.HasTile(ctx, 0, 0) // no size/tile-size tags: false, not an error
	assert.False(t, hasTile)
}

func TestSpliceJPEGTile(t *testing.T) {
	tables := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0xAA, 0xBB, 0xFF, 0xD9}
	tile := []byte{0xFF, 0xD8, 0x11, 0x22, 0x33, 0xFF, 0xD9}

	out := spliceJPEGTile(tables, tile)
	assert.Len(t, out, len(tables)+len(tile)-4)
	assert.Equal(t, []byte{0xFF, 0xD8}, out[:2])
	assert.Equal(t, []byte{0xFF, 0xD9}, out[len(out)-2:])
}

func TestGetImageByResolution(t *testing.T) {
	ctx := context.Background()
	r := New(&fakeSource{})

	mkImg := func(rx float64) *Image {
		return newImage(r, map[uint16]*Tag{
			TagModelPixelScale: {ID: TagModelPixelScale, DataType: DTDouble, Count: 2, Kind: TagInline, Value: []float64{rx, 1.0}},
		})
	}
	base := mkImg(1.0)
	ovr1 := mkImg(2.0)
	ovr2 := mkImg(4.0)
	ovr3 := mkImg(8.0)
	r.images = []*Image{base, ovr1, ovr2, ovr3}

	got, err := r.GetImageByResolution(ctx, 3.5)
	require.NoError(t, err)
	assert.Same(t, ovr2, got)

	got, err = r.GetImageByResolution(ctx, 0.5)
	require.NoError(t, err)
	assert.Same(t, base, got)

	got, err = r.GetImageByResolution(ctx, 100)
	require.NoError(t, err)
	assert.Same(t, ovr3, got)
}

func TestGeoKeyStringExtractionTrimsPipeDelimiter(t *testing.T) {
	ctx := context.Background()
	r := New(&fakeSource{})

	dir := []uint16{1, 0, 0, 1, GeoKeyGTCitation, TagGeoAsciiParams, 7, 0}
	img := newImage(r, map[uint16]*Tag{
		TagGeoKeyDirectory: {ID: TagGeoKeyDirectory, DataType: DTShort, Count: int64(len(dir)), Kind: TagInline, Value: dir},
		TagGeoAsciiParams:  {ID: TagGeoAsciiParams, DataType: DTAscii, Count: 7, Kind: TagInline, Value: "WGS 84|"},
	})
	r.images = []*Image{img}

	require.NoError(t, img.LoadGeoTiffTags(ctx))
	v, err := img.ValueGeo(GeoKeyGTCitation)
	require.NoError(t, err)
	assert.Equal(t, "WGS 84", v)

	// Idempotent: calling it again must be a no-op, not a second decode.
	require.NoError(t, img.LoadGeoTiffTags(ctx))
}

func TestValueGeoBeforeLoadErrors(t *testing.T) {
	r := New(&fakeSource{})
	img := newImage(r, map[uint16]*Tag{})
	_, err := img.ValueGeo(GeoKeyGTCitation)
	assert.True(t, Is(err, GeoNotLoaded))
}

func TestBBoxOrdering(t *testing.T) {
	ctx := context.Background()
	r := New(&fakeSource{})
	img := newImage(r, map[uint16]*Tag{
		TagImageWidth:       {ID: TagImageWidth, DataType: DTLong, Count: 1, Kind: TagInline, Value: uint32(10)},
		TagImageLength:      {ID: TagImageLength, DataType: DTLong, Count: 1, Kind: TagInline, Value: uint32(10)},
		TagModelTiePoint:    {ID: TagModelTiePoint, DataType: DTDouble, Count: 6, Kind: TagInline, Value: []float64{0, 0, 0, 100, 200, 0}},
		TagModelPixelScale:  {ID: TagModelPixelScale, DataType: DTDouble, Count: 2, Kind: TagInline, Value: []float64{1.0, 1.0}},
	})
	r.images = []*Image{img}

	bbox, err := img.BBox(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, bbox[0], bbox[2])
	assert.LessOrEqual(t, bbox[1], bbox[3])
}

func TestScalarTagAccessors(t *testing.T) {
	ctx := context.Background()
	r := New(&fakeSource{})
	img := newImage(r, map[uint16]*Tag{
		TagCompression:               {ID: TagCompression, DataType: DTShort, Count: 1, Kind: TagInline, Value: uint16(CompressionJPEG)},
		TagPhotometricInterpretation: {ID: TagPhotometricInterpretation, DataType: DTShort, Count: 1, Kind: TagInline, Value: uint16(2)},
		TagSamplesPerPixel:           {ID: TagSamplesPerPixel, DataType: DTShort, Count: 1, Kind: TagInline, Value: uint16(3)},
		TagSampleFormat:              {ID: TagSampleFormat, DataType: DTShort, Count: 3, Kind: TagInline, Value: []uint16{1, 1, 1}},
		TagBitsPerSample:             {ID: TagBitsPerSample, DataType: DTShort, Count: 3, Kind: TagInline, Value: []uint16{8, 8, 8}},
		TagGDALNoData:                {ID: TagGDALNoData, DataType: DTAscii, Count: 5, Kind: TagInline, Value: "-9999"},
	})
	r.images = []*Image{img}

	c, err := img.Compression(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, CompressionJPEG, c)

	p, err := img.PhotometricInterpretation(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p)

	spp, err := img.SamplesPerPixel(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, spp)

	sf, err := img.SampleFormat(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, 1}, sf)

	bps, err := img.BitsPerSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 8, 8}, bps)

	nodata, ok, err := img.GdalNoData(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -9999.0, nodata)
}

func TestScalarTagAccessorsDefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()
	r := New(&fakeSource{})
	img := newImage(r, map[uint16]*Tag{})
	r.images = []*Image{img}

	spp, err := img.SamplesPerPixel(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, spp)

	sf, err := img.SampleFormat(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, sf)

	bps, err := img.BitsPerSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, bps)

	_, ok, err := img.GdalNoData(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	c, err := img.Compression(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, c)
}

func TestTileOffset(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 32)
	binary.LittleEndian.PutUint32(data[0:], 0)    // tile 0: sparse
	binary.LittleEndian.PutUint32(data[4:], 4096) // tile 1
	src := &fakeSource{data: data}
	r := New(src)

	img := newImage(r, map[uint16]*Tag{
		TagTileOffsets:    {ID: TagTileOffsets, DataType: DTLong, Count: 2, Kind: TagOffset, ValueOffset: 0},
		TagTileByteCounts: {ID: TagTileByteCounts, DataType: DTLong, Count: 2, Kind: TagOffset, ValueOffset: 8},
	})
	r.images = []*Image{img}

	off, err := img.TileOffset(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, off)

	binary.LittleEndian.PutUint32(data[8:], 0) // TileByteCounts[1], unused by TileOffset
	off, err = img.TileOffset(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 4096, off)
}
