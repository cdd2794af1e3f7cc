package tagwire

import (
	"io"
	"reflect"
)

// Encoder writes a stream of encoded values to an io.Writer. Values are
// self-delimiting, so a Decoder can read them back one at a time.
type Encoder struct {
	w io.Writer
	s *Serializer
}

// NewEncoder returns an Encoder that uses the default Serializer.
func NewEncoder(w io.Writer) *Encoder { return defaultSerializer().NewEncoder(w) }

func (s *Serializer) NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w, s: s} }

// Encode writes v using its dynamic type as the root.
func (e *Encoder) Encode(v any) error {
	if v == nil {
		_, err := e.w.Write([]byte{byte(TypeEmpty)})
		return err
	}
	rv := addressable(reflect.ValueOf(v))
	return e.s.writeTo(rv.Type(), rv, func(b []byte) error {
		_, err := e.w.Write(b)
		return err
	})
}
