package cogtiff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiffReaderClassicStripTiff(t *testing.T) {
	ctx := context.Background()
	buf := buildClassicStripTiff(16)
	r := New(&fakeSource{data: buf})

	require.NoError(t, r.Init(ctx))
	require.Len(t, r.Images(), 1)

	img := r.Images()[0]
	assert.False(t, img.IsTiled())

	w, h, err := img.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 256, w)
	assert.Equal(t, 256, h)

	n, err := img.StripCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	strip, err := img.GetStrip(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, strip)
	assert.Len(t, strip.Bytes, 16)
}

func TestTiffReaderInitIsIdempotentAndConcurrencySafe(t *testing.T) {
	ctx := context.Background()
	buf := buildClassicStripTiff(8)
	r := New(&fakeSource{data: buf})

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() { done <- r.Init(ctx) }()
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, <-done)
	}
	assert.Len(t, r.Images(), 1)
}

func TestTiffReaderRejectsBigEndian(t *testing.T) {
	ctx := context.Background()
	buf := buildClassicStripTiff(4)
	buf[0], buf[1] = 'M', 'M'
	r := New(&fakeSource{data: buf})

	err := r.Init(ctx)
	require.Error(t, err)
	assert.True(t, Is(err, UnsupportedEndian))
}

func TestTiffReaderRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	buf := buildClassicStripTiff(4)
	buf[2], buf[3] = 99, 0
	r := New(&fakeSource{data: buf})

	err := r.Init(ctx)
	require.Error(t, err)
	assert.True(t, Is(err, UnsupportedVersion))
}
