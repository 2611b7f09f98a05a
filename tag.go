package cogtiff

import (
	"fmt"
	"strings"
	"sync"
)

// TagKind discriminates the three shapes a decoded IFD entry can take.
type TagKind int

const (
	// TagInline values are fully decoded at parse time; they fit in the
	// entry's value/offset field.
	TagInline TagKind = iota
	// TagOffset values are a numeric array addressed by index (tile/strip
	// offsets and byte counts), fetched and cached in full on first use.
	TagOffset
	// TagLazy values are a single logical blob (string, typed array,
	// struct) stored elsewhere, fetched once on first use.
	TagLazy
)

// Tag is the tagged-sum-type value TagFactory produces from a raw IFD
// entry: Inline, Offset or Lazy, discriminated by Kind. Offset and Lazy
// tags carry a mutex because their Value/Loaded fields are mutated lazily,
// behind a per-tag in-flight de-duplication group (see Image.Fetch).
type Tag struct {
	ID       uint16
	DataType DataType
	Count    int64
	Kind     TagKind

	// ValueOffset is the absolute file offset of the payload, valid for
	// Offset and Lazy tags only.
	ValueOffset int64

	mu     sync.Mutex
	Value  interface{}
	Loaded bool
}

// decodeInlineValue decodes count elements of dataType from buf, returning
// a scalar when count==1 and a slice otherwise, per TagFactory step 3.
func decodeInlineValue(buf []byte, dataType DataType, count int64) (interface{}, error) {
	return decodeValue(buf, dataType, count)
}

func decodeValue(buf []byte, dataType DataType, count int64) (interface{}, error) {
	elemSize, err := dataType.Size()
	if err != nil {
		return nil, err
	}
	need := elemSize * count
	if int64(len(buf)) < need {
		return nil, wrapError(ShortRead, fmt.Sprintf("need %d bytes to decode %d elements of type %d, have %d", need, count, dataType, len(buf)), nil)
	}
	view := NewByteView(buf, 0)

	switch dataType {
	case DTAscii:
		s := string(buf[:need])
		s = strings.TrimRight(s, "\x00")
		return s, nil
	case DTByte, DTUndefined:
		out := make([]byte, count)
		copy(out, buf[:need])
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTSByte:
		out := make([]int8, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Int8(i)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTShort:
		out := make([]uint16, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Uint16(i * 2)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTSShort:
		out := make([]int16, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Int16(i * 2)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTLong:
		out := make([]uint32, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Uint32(i * 4)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTSLong:
		out := make([]int32, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Int32(i * 4)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTLong8, DTIfdLong8:
		out := make([]uint64, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Uint64(i * 8)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTSLong8:
		out := make([]int64, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Int64(i * 8)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTFloat:
		out := make([]float32, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Float32(i * 4)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTDouble:
		out := make([]float64, count)
		for i := int64(0); i < count; i++ {
			v, _ := view.Float64(i * 8)
			out[i] = v
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	case DTRational, DTSRational:
		// Decoded as a ratio, one float64 per element; the numerator/
		// denominator pair (two uint32, or two int32 for SRational) is not
		// otherwise useful to callers.
		out := make([]float64, count)
		for i := int64(0); i < count; i++ {
			var num, den float64
			if dataType == DTSRational {
				n, _ := view.Int32(i * 8)
				d, _ := view.Int32(i*8 + 4)
				num, den = float64(n), float64(d)
			} else {
				n, _ := view.Uint32(i * 8)
				d, _ := view.Uint32(i*8 + 4)
				num, den = float64(n), float64(d)
			}
			if den == 0 {
				out[i] = 0
				continue
			}
			out[i] = num / den
		}
		if count == 1 {
			return out[0], nil
		}
		return out, nil
	default:
		return nil, newError(UnknownDataType, fmt.Sprintf("data type code %d", uint16(dataType)))
	}
}

// DecodeTagEntry implements TagFactory: it reads one IFD entry positioned
// at the absolute offset entryOffset within view and classifies it into an
// Inline, Offset or Lazy Tag.
func DecodeTagEntry(cfg IfdConfig, view *ByteView, entryOffset int64) (*Tag, error) {
	id, err := view.Uint16(entryOffset)
	if err != nil {
		return nil, err
	}
	rawType, err := view.Uint16(entryOffset + 2)
	if err != nil {
		return nil, err
	}
	dataType := DataType(rawType)

	countOffset := entryOffset + 4
	count, err := view.UintWidth(countOffset, cfg.PointerWidth)
	if err != nil {
		return nil, err
	}

	valueFieldOffset := countOffset + int64(cfg.PointerWidth)

	elemSize, sizeErr := dataType.Size()
	if sizeErr != nil {
		// Unknown data type: best-effort Inline with the raw value-field
		// bytes, per TagFactory's documented fallback.
		raw, err := view.Bytes(valueFieldOffset, cfg.PointerWidth)
		if err != nil {
			return nil, err
		}
		return &Tag{ID: id, DataType: dataType, Count: int64(count), Kind: TagInline, Value: raw}, nil
	}

	payloadBytes := elemSize * int64(count)

	if payloadBytes <= int64(cfg.PointerWidth) {
		buf, err := view.Bytes(valueFieldOffset, int(payloadBytes))
		if err != nil {
			return nil, err
		}
		val, err := decodeInlineValue(buf, dataType, int64(count))
		if err != nil {
			return nil, err
		}
		return &Tag{ID: id, DataType: dataType, Count: int64(count), Kind: TagInline, Value: val}, nil
	}

	pointer, err := view.UintWidth(valueFieldOffset, cfg.PointerWidth)
	if err != nil {
		return nil, err
	}

	kind := TagLazy
	if offsetArrayTagIDs[id] {
		kind = TagOffset
	}
	return &Tag{ID: id, DataType: dataType, Count: int64(count), Kind: kind, ValueOffset: int64(pointer)}, nil
}

// asInt64Slice normalizes a decoded Offset-tag array (uint16/uint32/uint64
// depending on file flavor) to []int64 for index-based access.
func asInt64Slice(v interface{}) ([]int64, error) {
	switch arr := v.(type) {
	case []uint16:
		out := make([]int64, len(arr))
		for i, x := range arr {
			out[i] = int64(x)
		}
		return out, nil
	case []uint32:
		out := make([]int64, len(arr))
		for i, x := range arr {
			out[i] = int64(x)
		}
		return out, nil
	case []uint64:
		out := make([]int64, len(arr))
		for i, x := range arr {
			out[i] = int64(x)
		}
		return out, nil
	case uint16:
		return []int64{int64(arr)}, nil
	case uint32:
		return []int64{int64(arr)}, nil
	case uint64:
		return []int64{int64(arr)}, nil
	default:
		return nil, newError(UnknownDataType, fmt.Sprintf("unexpected offset-array value type %T", v))
	}
}
