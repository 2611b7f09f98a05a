package cogtiff

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failure modes a reader can produce. Header-parse
// errors (UnsupportedEndian..IfdTruncated) are fatal for the TiffReader
// instance that produced them; the rest propagate to the caller without
// affecting the reader's subsequent usability.
type ErrorKind string

const (
	UnsupportedEndian        ErrorKind = "unsupported_endian"
	UnsupportedVersion       ErrorKind = "unsupported_version"
	UnsupportedPointerSize   ErrorKind = "unsupported_pointer_size"
	IfdTruncated             ErrorKind = "ifd_truncated"
	UnknownDataType          ErrorKind = "unknown_data_type"
	ShortRead                ErrorKind = "short_read"
	IndexOutOfBounds         ErrorKind = "index_out_of_bounds"
	NoGeoTransform           ErrorKind = "no_geo_transform"
	GeoNotLoaded             ErrorKind = "geo_not_loaded"
	GeoKeyMalformed          ErrorKind = "geo_key_malformed"
	UnsupportedCompression   ErrorKind = "unsupported_compression"
)

// Error is the error type returned by every exported operation in this
// package. Use errors.As to recover the Kind and branch on it.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cogtiff: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("cogtiff: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
