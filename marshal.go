package tagwire

import (
	"reflect"
	"sync"

	"github.com/dadrian/tagwire/internal"
)

// Serializer is a session: it owns one Registry, so each type is built at
// most once per Serializer. It is safe for concurrent use.
type Serializer struct {
	reg *Registry
}

func New(opts ...Option) *Serializer {
	return &Serializer{reg: NewRegistry(opts...)}
}

func (s *Serializer) Registry() *Registry { return s.reg }

// Size returns the encoded length of v, using its dynamic type as the root.
func (s *Serializer) Size(v any) (int, error) {
	if v == nil {
		return emptySize, nil
	}
	rv := addressable(reflect.ValueOf(v))
	return s.size(rv.Type(), rv)
}

// Marshal encodes v using its dynamic type as the root. A nil v encodes as
// a single Empty byte.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	if v == nil {
		return []byte{byte(TypeEmpty)}, nil
	}
	rv := addressable(reflect.ValueOf(v))
	return s.marshal(rv.Type(), rv)
}

// Unmarshal decodes data into the value ptr points to. Fields absent from
// data keep their current values.
func (s *Serializer) Unmarshal(data []byte, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return internal.Errorf(ErrInvalidTarget, 0, "Unmarshal target must be a non-nil pointer, got %T", ptr)
	}
	return s.unmarshal(data, rv.Type().Elem(), rv.Elem())
}

func (s *Serializer) size(t reflect.Type, v reflect.Value) (int, error) {
	u, err := s.reg.Unit(t)
	if err != nil {
		return 0, err
	}
	return u.Size(v), nil
}

func (s *Serializer) marshal(t reflect.Type, v reflect.Value) ([]byte, error) {
	u, err := s.reg.Unit(t)
	if err != nil {
		return nil, err
	}
	n := u.Size(v)
	w := internal.NewWriter(make([]byte, n))
	if err := u.Write(w, v); err != nil {
		return nil, err
	}
	if w.Offset() != n {
		return nil, internal.Errorf(ErrBadDataLength, w.Offset(), "%v measured %d bytes, wrote %d", t, n, w.Offset())
	}
	return w.Bytes(), nil
}

// writeTo encodes into a pooled scratch buffer and hands the bytes to fn
// before returning the buffer.
func (s *Serializer) writeTo(t reflect.Type, v reflect.Value, fn func([]byte) error) error {
	u, err := s.reg.Unit(t)
	if err != nil {
		return err
	}
	n := u.Size(v)
	buf := internal.GetBuffer(n)
	defer internal.PutBuffer(buf)
	w := internal.NewWriter(*buf)
	if err := u.Write(w, v); err != nil {
		return err
	}
	return fn(w.Bytes())
}

func (s *Serializer) unmarshal(data []byte, t reflect.Type, v reflect.Value) error {
	if len(data) == 0 {
		return internal.Errorf(ErrUnexpectedEOF, 0, "no input")
	}
	u, err := s.reg.Unit(t)
	if err != nil {
		return err
	}
	r := internal.NewReader(data)
	if err := u.Read(r, v); err != nil {
		return err
	}
	if r.Len() != 0 {
		return internal.Errorf(ErrBadDataLength, r.Offset(), "%d trailing bytes", r.Len())
	}
	return nil
}

// addressable returns an addressable copy of v.
func addressable(v reflect.Value) reflect.Value {
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}

// Size returns the encoded length of v with T as the root type.
func Size[T any](s *Serializer, v T) (int, error) {
	return s.size(reflect.TypeFor[T](), reflect.ValueOf(&v).Elem())
}

// Serialize encodes v with T as the root type. Use it when T is an
// interface: Marshal would see only the dynamic type.
func Serialize[T any](s *Serializer, v T) ([]byte, error) {
	return s.marshal(reflect.TypeFor[T](), reflect.ValueOf(&v).Elem())
}

// Deserialize decodes data as a T.
func Deserialize[T any](s *Serializer, data []byte) (T, error) {
	var out T
	err := s.unmarshal(data, reflect.TypeFor[T](), reflect.ValueOf(&out).Elem())
	return out, err
}

var defaultSerializer = sync.OnceValue(func() *Serializer { return New() })

// Marshal encodes v with a process-wide default Serializer.
func Marshal(v any) ([]byte, error) { return defaultSerializer().Marshal(v) }

// Unmarshal decodes data into ptr with a process-wide default Serializer.
func Unmarshal(data []byte, ptr any) error { return defaultSerializer().Unmarshal(data, ptr) }
