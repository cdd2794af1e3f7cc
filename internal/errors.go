package internal

import "fmt"

// ErrorKind classifies decoding, encoding and build errors. A kind is itself
// an error, so callers can match with errors.Is(err, ErrBadDataLength).
type ErrorKind int

const (
	ErrUnknownTypeCode ErrorKind = iota + 1
	ErrUnexpectedEOF
	ErrBufferOverflow
	ErrBadDataLength
	ErrInvalidLength
	ErrInvalidValue
	ErrUnsupportedType
	ErrHashCollision
	ErrNameTooLong
	ErrInvalidTuple
	ErrInvalidEnum
	ErrInvalidTarget
)

var kindNames = map[ErrorKind]string{
	ErrUnknownTypeCode: "unknown type code",
	ErrUnexpectedEOF:   "unexpected end of buffer",
	ErrBufferOverflow:  "buffer overflow",
	ErrBadDataLength:   "bad data length",
	ErrInvalidLength:   "invalid length",
	ErrInvalidValue:    "invalid value",
	ErrUnsupportedType: "unsupported type",
	ErrHashCollision:   "hash collision",
	ErrNameTooLong:     "name too long",
	ErrInvalidTuple:    "invalid tuple type",
	ErrInvalidEnum:     "invalid enum type",
	ErrInvalidTarget:   "invalid target",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

func (k ErrorKind) Error() string { return "tagwire: " + k.String() }

// DataCorruption reports whether the kind describes malformed input bytes.
func (k ErrorKind) DataCorruption() bool {
	switch k {
	case ErrUnknownTypeCode, ErrUnexpectedEOF, ErrBufferOverflow, ErrBadDataLength, ErrInvalidLength, ErrInvalidValue:
		return true
	}
	return false
}

// Configuration reports whether the kind is raised while building a unit.
func (k ErrorKind) Configuration() bool {
	switch k {
	case ErrUnsupportedType, ErrHashCollision, ErrNameTooLong, ErrInvalidTuple, ErrInvalidEnum:
		return true
	}
	return false
}

// Error carries offset and classification for better diagnostics.
type Error struct {
	Offset int
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Offset > 0 {
		return fmt.Sprintf("tagwire: %s at %d: %s", e.Kind.String(), e.Offset, e.Detail)
	}
	return fmt.Sprintf("tagwire: %s: %s", e.Kind.String(), e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{Offset: offset, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
