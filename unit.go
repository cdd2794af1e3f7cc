package tagwire

import (
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// Unit measures, writes and reads values of one concrete type. Read
// receives a settable value.
type Unit interface {
	Size(v reflect.Value) int
	Write(w *Writer, v reflect.Value) error
	Read(r *Reader, v reflect.Value) error
}

// wirer is implemented by built-in units that hold references to the units
// of their field, element, key or value types. deps is in the order the
// unit declared its dependency types.
type wirer interface {
	wire(deps []Unit) error
}

// begin consumes the leading tag of a value. It returns true when the tag
// is want and the payload follows. An Empty tag zeroes v; any other valid
// tag is skipped and v is left untouched.
func begin(r *Reader, v reflect.Value, want TypeCode) (bool, error) {
	c, err := r.ReadCode()
	if err != nil {
		return false, err
	}
	switch c {
	case want:
		return true, nil
	case TypeEmpty:
		v.SetZero()
		return false, nil
	}
	return false, r.SkipPayload(c)
}

// beginVar is begin for variable-length codes; it also reads the length and
// returns the offset at which the payload ends.
func beginVar(r *Reader, v reflect.Value, want TypeCode) (int, bool, error) {
	ok, err := begin(r, v, want)
	if !ok || err != nil {
		return 0, ok, err
	}
	n, err := r.ReadLen()
	if err != nil {
		return 0, false, err
	}
	return r.Offset() + n, true, nil
}

func writeEmpty(w *Writer) error { return w.WriteCode(TypeEmpty) }

// isNull reports whether v is a nil reference.
func isNull(v reflect.Value) bool { return internal.IsNull(v) }

const emptySize = internal.CodeSize
