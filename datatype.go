package cogtiff

import "fmt"

// DataType is a TIFF field type code, as read from an IFD entry.
type DataType uint16

const (
	DTByte      DataType = 1
	DTAscii     DataType = 2
	DTShort     DataType = 3
	DTLong      DataType = 4
	DTRational  DataType = 5
	DTSByte     DataType = 6
	DTUndefined DataType = 7
	DTSShort    DataType = 8
	DTSLong     DataType = 9
	DTSRational DataType = 10
	DTFloat     DataType = 11
	DTDouble    DataType = 12
	// BigTIFF additions.
	DTLong8    DataType = 16
	DTSLong8   DataType = 17
	DTIfdLong8 DataType = 18
)

var dataTypeSizes = map[DataType]int64{
	DTByte:      1,
	DTAscii:     1,
	DTShort:     2,
	DTLong:      4,
	DTRational:  8,
	DTSByte:     1,
	DTUndefined: 1,
	DTSShort:    2,
	DTSLong:     4,
	DTSRational: 8,
	DTFloat:     4,
	DTDouble:    8,
	DTLong8:     8,
	DTSLong8:    8,
	DTIfdLong8:  8,
}

// Size returns the byte width of a single element of this data type, or an
// UnknownDataType error if the code is unrecognized.
func (d DataType) Size() (int64, error) {
	sz, ok := dataTypeSizes[d]
	if !ok {
		return 0, newError(UnknownDataType, fmt.Sprintf("data type code %d", uint16(d)))
	}
	return sz, nil
}

// IsKnown reports whether d is a recognized TIFF/BigTIFF data type code.
func (d DataType) IsKnown() bool {
	_, ok := dataTypeSizes[d]
	return ok
}
