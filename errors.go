package tagwire

import (
	"github.com/cockroachdb/errors"

	"github.com/dadrian/tagwire/internal"
)

// ErrorKind classifies decoding, encoding and build errors. Each kind is an
// error value usable with errors.Is.
type ErrorKind = internal.ErrorKind

// Error carries offset and classification for better diagnostics.
type Error = internal.Error

const (
	// Data corruption: the input bytes are malformed.
	ErrUnknownTypeCode = internal.ErrUnknownTypeCode
	ErrUnexpectedEOF   = internal.ErrUnexpectedEOF
	ErrBufferOverflow  = internal.ErrBufferOverflow
	ErrBadDataLength   = internal.ErrBadDataLength
	ErrInvalidLength   = internal.ErrInvalidLength
	ErrInvalidValue    = internal.ErrInvalidValue

	// Configuration: a type cannot be given a unit.
	ErrUnsupportedType = internal.ErrUnsupportedType
	ErrHashCollision   = internal.ErrHashCollision
	ErrNameTooLong     = internal.ErrNameTooLong
	ErrInvalidTuple    = internal.ErrInvalidTuple
	ErrInvalidEnum     = internal.ErrInvalidEnum

	// Usage.
	ErrInvalidTarget = internal.ErrInvalidTarget
)

func kindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k, true
	}
	return 0, false
}

// IsDataCorruption reports whether err was caused by malformed input.
func IsDataCorruption(err error) bool {
	k, ok := kindOf(err)
	return ok && k.DataCorruption()
}

// IsConfiguration reports whether err was raised while building a unit.
func IsConfiguration(err error) bool {
	k, ok := kindOf(err)
	return ok && k.Configuration()
}
