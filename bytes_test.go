package cogtiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteViewHasBytes(t *testing.T) {
	v := NewByteView(make([]byte, 16), 100)
	assert.True(t, v.HasBytes(100, 16))
	assert.True(t, v.HasBytes(104, 4))
	assert.False(t, v.HasBytes(99, 1))
	assert.False(t, v.HasBytes(110, 10))
	assert.False(t, v.HasBytes(100, -1))
}

func TestByteViewPrimitiveReads(t *testing.T) {
	buf := []byte{
		0x01,                   // uint8
		0x02, 0x00,             // uint16 = 2
		0x03, 0x00, 0x00, 0x00, // uint32 = 3
		0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // uint64 = 4
	}
	v := NewByteView(buf, 1000)

	u8, err := v.Uint8(1000)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	u16, err := v.Uint16(1001)
	assert.NoError(t, err)
	assert.Equal(t, uint16(2), u16)

	u32, err := v.Uint32(1003)
	assert.NoError(t, err)
	assert.Equal(t, uint32(3), u32)

	u64, err := v.Uint64(1007)
	assert.NoError(t, err)
	assert.Equal(t, uint64(4), u64)

	_, err = v.Uint64(1008) // out of range
	assert.Error(t, err)
	assert.True(t, Is(err, IfdTruncated))
}

func TestByteViewUintWidth(t *testing.T) {
	buf := []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	v := NewByteView(buf, 0)

	w1, err := v.UintWidth(0, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0xff), w1)

	w4, err := v.UintWidth(0, 4)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0xff), w4)

	_, err = v.UintWidth(0, 3)
	assert.Error(t, err)
}
