// Package source provides reference cogtiff.Source implementations: a
// local-file driver and a block-caching remote driver over GCS. The core
// parser (package cogtiff) depends only on the Source interface; these are
// the concrete byte-range backends a deployment wires in, the way the
// teacher repository wires os.Open and osio/gcs into its own tools.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// FileSource is a cogtiff.Source backed by a local, seekable file.
type FileSource struct {
	mu   sync.Mutex
	f    *os.File
	size int64
}

// OpenFile opens path and wraps it as a Source.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &FileSource{f: f, size: fi.Size()}, nil
}

// Fetch reads up to length bytes at offset. ctx is not consulted: local
// file reads are not cancellable mid-syscall, matching os.File's own
// contract.
func (s *FileSource) Fetch(_ context.Context, offset, length int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, length)
	n, err := s.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read at %d: %w", offset, err)
	}
	return buf[:n], nil
}

// Size returns the file's byte length.
func (s *FileSource) Size(_ context.Context) (int64, bool) {
	return s.size, true
}

// Close releases the underlying file handle.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
