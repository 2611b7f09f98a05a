// Package cogtiff reads Cloud Optimized GeoTIFF files from a byte-addressable
// Source without materializing the whole file. It decodes the TIFF/BigTIFF
// header, walks the IFD chain, classifies tags into inline/offset/lazy
// storage, applies the GDAL ghost-header and tile-leader optimizations, and
// serves individual tile and strip byte ranges on demand.
//
// Tile payload decompression, geographic reprojection and the concrete
// byte-range transport (HTTP, object storage, local files) are not this
// package's concern; see the source subpackage for reference Source
// implementations.
package cogtiff
