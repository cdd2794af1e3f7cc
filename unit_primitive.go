package tagwire

import (
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// primitiveUnit handles bool, sized integers, int, uint and floats.
type primitiveUnit struct {
	code TypeCode
}

func (u *primitiveUnit) Size(reflect.Value) int { return internal.FixedSize(u.code) }

func (u *primitiveUnit) Write(w *Writer, v reflect.Value) error {
	if err := w.WriteCode(u.code); err != nil {
		return err
	}
	return internal.PutScalar(w, u.code, v)
}

func (u *primitiveUnit) Read(r *Reader, v reflect.Value) error {
	ok, err := begin(r, v, u.code)
	if !ok || err != nil {
		return err
	}
	return internal.GetScalar(r, u.code, v)
}

// stringUnit writes UTF-16LE code units prefixed by their byte count.
type stringUnit struct{}

func (stringUnit) Size(v reflect.Value) int { return stringSize(v.String()) }

func (stringUnit) Write(w *Writer, v reflect.Value) error { return writeString(w, v.String()) }

func (stringUnit) Read(r *Reader, v reflect.Value) error {
	ok, err := begin(r, v, TypeString)
	if !ok || err != nil {
		return err
	}
	s, err := readStringPayload(r)
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

func stringSize(s string) int { return internal.VarSize(2 * internal.UTF16Len(s)) }

func writeString(w *Writer, s string) error {
	if err := w.WriteCode(TypeString); err != nil {
		return err
	}
	at, err := w.BeginLen()
	if err != nil {
		return err
	}
	if err := internal.PutUTF16(w, s); err != nil {
		return err
	}
	return w.EndLen(at)
}

func readStringPayload(r *Reader) (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	return internal.GetUTF16(r, n)
}

// pointerUnit makes its element nullable: nil writes Empty.
type pointerUnit struct {
	t    reflect.Type
	elem Unit
}

func (u *pointerUnit) wire(deps []Unit) error {
	u.elem = deps[0]
	return nil
}

func (u *pointerUnit) Size(v reflect.Value) int {
	if v.IsNil() {
		return emptySize
	}
	return u.elem.Size(v.Elem())
}

func (u *pointerUnit) Write(w *Writer, v reflect.Value) error {
	if v.IsNil() {
		return writeEmpty(w)
	}
	return u.elem.Write(w, v.Elem())
}

func (u *pointerUnit) Read(r *Reader, v reflect.Value) error {
	at := r.Offset()
	c, err := r.PeekCode()
	if err != nil {
		return err
	}
	if c == TypeEmpty {
		if err := r.Skip(internal.CodeSize); err != nil {
			return err
		}
		v.SetZero()
		return nil
	}
	if !v.IsNil() {
		return u.elem.Read(r, v.Elem())
	}
	// A nil pointer is only allocated when the element accepted the tag.
	p := reflect.New(u.t.Elem())
	if err := u.elem.Read(r, p.Elem()); err != nil {
		return err
	}
	if !r.Skipped(at) {
		v.Set(p)
	}
	return nil
}
