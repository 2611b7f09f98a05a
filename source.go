package cogtiff

import "context"

// Source is the byte-range abstraction a TiffReader reads through. It is
// deliberately minimal: implementations backed by HTTP range requests,
// object storage or local files live outside this package (see the source
// subpackage for reference implementations built on osio and GCS).
//
// Fetch must be safe for concurrent use: a reader issues interleaved
// fetches across images and tags once initialized.
type Source interface {
	// Fetch returns up to length bytes starting at offset. Returning fewer
	// bytes than requested is legal (e.g. at EOF); callers that need an
	// exact length check it themselves and surface ShortRead.
	Fetch(ctx context.Context, offset, length int64) ([]byte, error)
	// Size returns the total byte size of the underlying object, if known.
	Size(ctx context.Context) (int64, bool)
}
