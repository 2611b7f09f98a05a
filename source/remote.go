package source

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/airbusgeo/osio"
	"github.com/airbusgeo/osio/gcs"
)

// RemoteSource is a cogtiff.Source over a GCS object, fronted by osio's
// block-caching range-request adapter. It collapses the small, scattered
// reads a COG reader issues (header, ghost block, per-IFD probes, tile
// leaders) into cache-aligned range requests instead of one HTTP request
// per byte range.
type RemoteSource struct {
	reader io.ReaderAt
	size   int64
}

// OpenGCS opens bucket/object as a RemoteSource. opts are osio.Adapter
// options, e.g. osio.BlockSize and osio.NumCachedBlocks.
func OpenGCS(ctx context.Context, client *storage.Client, bucket, object string, opts ...osio.AdapterOption) (*RemoteSource, error) {
	attrs, err := client.Bucket(bucket).Object(object).Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("stat gs://%s/%s: %w", bucket, object, err)
	}
	handle, err := gcs.Handle(ctx, gcs.GCSClient(client))
	if err != nil {
		return nil, fmt.Errorf("gcs handle: %w", err)
	}
	adapter, err := osio.NewAdapter(handle, opts...)
	if err != nil {
		return nil, fmt.Errorf("osio adapter: %w", err)
	}
	reader, err := adapter.Reader(bucket + "/" + object)
	if err != nil {
		return nil, fmt.Errorf("osio reader for gs://%s/%s: %w", bucket, object, err)
	}
	return &RemoteSource{reader: reader, size: attrs.Size}, nil
}

// Fetch reads up to length bytes at offset through the osio block cache.
func (s *RemoteSource) Fetch(_ context.Context, offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := s.reader.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read at %d: %w", offset, err)
	}
	return buf[:n], nil
}

// Size returns the GCS object's byte length, fetched once at open time.
func (s *RemoteSource) Size(_ context.Context) (int64, bool) {
	return s.size, true
}
