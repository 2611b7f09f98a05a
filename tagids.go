package cogtiff

// TIFF baseline, GeoTIFF and GDAL-private tag ids recognized by this
// package. Names follow the TIFF 6.0 and GeoTIFF 1.1 registries.
const (
	TagNewSubfileType            uint16 = 254
	TagImageWidth                uint16 = 256
	TagImageLength               uint16 = 257
	TagBitsPerSample             uint16 = 258
	TagCompression               uint16 = 259
	TagPhotometricInterpretation uint16 = 262
	TagDocumentName              uint16 = 269
	TagStripOffsets              uint16 = 273
	TagSamplesPerPixel           uint16 = 277
	TagRowsPerStrip              uint16 = 278
	TagStripByteCounts           uint16 = 279
	TagPlanarConfiguration       uint16 = 284
	TagPredictor                 uint16 = 317
	TagColorMap                  uint16 = 320
	TagTileWidth                 uint16 = 322
	TagTileLength                uint16 = 323
	TagTileOffsets               uint16 = 324
	TagTileByteCounts            uint16 = 325
	TagExtraSamples              uint16 = 338
	TagSampleFormat              uint16 = 339
	TagJPEGTables                uint16 = 347
	TagModelPixelScale           uint16 = 33550
	TagModelTiePoint             uint16 = 33922
	TagModelTransformation       uint16 = 34264
	TagGeoKeyDirectory           uint16 = 34735
	TagGeoDoubleParams           uint16 = 34736
	TagGeoAsciiParams            uint16 = 34737
	TagGDALMetadata              uint16 = 42112
	TagGDALNoData                uint16 = 42113
)

// offsetArrayTagIDs is the fixed set of tag ids TagFactory classifies as
// Offset (a numeric array addressed by tile/strip index) rather than Lazy
// (a single logical blob fetched whole).
var offsetArrayTagIDs = map[uint16]bool{
	TagStripOffsets:    true,
	TagStripByteCounts: true,
	TagTileOffsets:     true,
	TagTileByteCounts:  true,
}

// Compression codes referenced directly by the tile-fetch hot path. Other
// codes (LZW, Deflate, WebP, ...) are opaque payloads this package never
// inspects.
const (
	CompressionNone    uint32 = 1
	CompressionJPEGOld uint32 = 6
	CompressionJPEG    uint32 = 7
)
