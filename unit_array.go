package tagwire

import (
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// primitiveArrayUnit writes slices and arrays of scalars as one packed
// payload with no per-element framing.
type primitiveArrayUnit struct {
	t     reflect.Type
	elem  TypeCode
	code  TypeCode
	width int
	// elemUnit decodes element by element when the input is a generic Array.
	elemUnit Unit
}

func newPrimitiveArrayUnit(t reflect.Type, elem TypeCode) (*primitiveArrayUnit, error) {
	code, ok := internal.ArrayOf(elem)
	if !ok {
		return nil, internal.Errorf(ErrUnsupportedType, 0, "%v has no packed array form", elem)
	}
	return &primitiveArrayUnit{t: t, elem: elem, code: code, width: elem.Length()}, nil
}

func (u *primitiveArrayUnit) wire(deps []Unit) error {
	u.elemUnit = deps[0]
	return nil
}

func (u *primitiveArrayUnit) Size(v reflect.Value) int {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return emptySize
	}
	return internal.VarSize(v.Len() * u.width)
}

func (u *primitiveArrayUnit) Write(w *Writer, v reflect.Value) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return writeEmpty(w)
	}
	if err := w.WriteCode(u.code); err != nil {
		return err
	}
	if err := internal.CheckLen(v.Len() * u.width); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(v.Len() * u.width)); err != nil {
		return err
	}
	return internal.PutScalarArray(w, u.elem, v)
}

func (u *primitiveArrayUnit) Read(r *Reader, v reflect.Value) error {
	c, err := r.ReadCode()
	if err != nil {
		return err
	}
	switch c {
	case u.code:
		at := r.Offset()
		n, err := r.ReadLen()
		if err != nil {
			return err
		}
		if n%u.width != 0 {
			return internal.Errorf(ErrBadDataLength, at, "%v payload of %d bytes", c, n)
		}
		count := n / u.width
		dst := u.target(count)
		if err := internal.GetScalarArray(r, u.elem, count, dst); err != nil {
			return err
		}
		v.Set(dst)
		return nil
	case TypeArray:
		return u.readGeneric(r, v)
	case TypeEmpty:
		v.SetZero()
		return nil
	}
	return r.SkipPayload(c)
}

// target returns a value to decode count elements into: a fresh slice, or
// a zeroed copy of the fixed array.
func (u *primitiveArrayUnit) target(count int) reflect.Value {
	if u.t.Kind() == reflect.Slice {
		return reflect.MakeSlice(u.t, count, count)
	}
	return reflect.New(u.t).Elem()
}

func (u *primitiveArrayUnit) readGeneric(r *Reader, v reflect.Value) error {
	n, err := r.ReadLen()
	if err != nil {
		return err
	}
	end := r.Offset() + n
	count, err := r.ReadCount(1)
	if err != nil {
		return err
	}
	dst := u.target(count)
	if err := readElements(r, dst, count, u.elemUnit); err != nil {
		return err
	}
	if err := r.Expect(end); err != nil {
		return err
	}
	v.Set(dst)
	return nil
}

// readElements decodes count values into dst. Values beyond the length of
// a fixed array are skipped.
func readElements(r *Reader, dst reflect.Value, count int, elem Unit) error {
	for i := 0; i < count; i++ {
		if i >= dst.Len() {
			if err := r.SkipValue(); err != nil {
				return err
			}
			continue
		}
		if err := elem.Read(r, dst.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// arrayUnit writes slices and arrays of non-scalar elements, each element
// framed by its own unit.
type arrayUnit struct {
	t    reflect.Type
	elem Unit
}

func (u *arrayUnit) wire(deps []Unit) error {
	u.elem = deps[0]
	return nil
}

func (u *arrayUnit) Size(v reflect.Value) int {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return emptySize
	}
	n := internal.CountSize
	for i := 0; i < v.Len(); i++ {
		n += u.elem.Size(v.Index(i))
	}
	return internal.VarSize(n)
}

func (u *arrayUnit) Write(w *Writer, v reflect.Value) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return writeEmpty(w)
	}
	return writeSequence(w, v.Len(), func(i int) error { return u.elem.Write(w, v.Index(i)) })
}

// writeSequence writes the Array shape: tag, length, count, elements.
func writeSequence(w *Writer, count int, each func(i int) error) error {
	if err := w.WriteCode(TypeArray); err != nil {
		return err
	}
	at, err := w.BeginLen()
	if err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(count)); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := each(i); err != nil {
			return err
		}
	}
	return w.EndLen(at)
}

func (u *arrayUnit) Read(r *Reader, v reflect.Value) error {
	c, err := r.ReadCode()
	if err != nil {
		return err
	}
	switch c {
	case TypeArray:
		n, err := r.ReadLen()
		if err != nil {
			return err
		}
		end := r.Offset() + n
		count, err := r.ReadCount(1)
		if err != nil {
			return err
		}
		dst := u.target(count)
		if err := readElements(r, dst, count, u.elem); err != nil {
			return err
		}
		if err := r.Expect(end); err != nil {
			return err
		}
		v.Set(dst)
		return nil
	case TypeEmpty:
		v.SetZero()
		return nil
	}
	if elem, ok := internal.ElemOf(c); ok {
		return u.readPacked(r, v, elem)
	}
	return r.SkipPayload(c)
}

func (u *arrayUnit) target(count int) reflect.Value {
	if u.t.Kind() == reflect.Slice {
		return reflect.MakeSlice(u.t, count, count)
	}
	return reflect.New(u.t).Elem()
}

// readPacked accepts a packed primitive array when the element type can
// hold the scalar: a pointer to it or an interface.
func (u *arrayUnit) readPacked(r *Reader, v reflect.Value, elem TypeCode) error {
	at := r.Offset()
	n, err := r.ReadLen()
	if err != nil {
		return err
	}
	width := elem.Length()
	if n%width != 0 {
		return internal.Errorf(ErrBadDataLength, at, "packed payload of %d bytes", n)
	}
	if !canHoldScalar(u.t.Elem(), elem) {
		return r.Skip(n)
	}
	count := n / width
	dst := u.target(count)
	for i := 0; i < count; i++ {
		val, err := internal.ReadScalar(r, elem)
		if err != nil {
			return err
		}
		if i < dst.Len() {
			assignScalar(dst.Index(i), val)
		}
	}
	v.Set(dst)
	return nil
}

func canHoldScalar(t reflect.Type, elem TypeCode) bool {
	switch t.Kind() {
	case reflect.Interface:
		return t.NumMethod() == 0
	case reflect.Pointer:
		c, ok := internal.ScalarCode(t.Elem().Kind())
		return ok && c == elem
	}
	c, ok := internal.ScalarCode(t.Kind())
	return ok && c == elem
}

// assignScalar stores a decoded scalar in dst, allocating when dst is a
// pointer.
func assignScalar(dst reflect.Value, val any) {
	rv := reflect.ValueOf(val)
	switch dst.Kind() {
	case reflect.Interface:
		dst.Set(rv)
	case reflect.Pointer:
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(rv.Convert(dst.Type().Elem()))
		dst.Set(p)
	default:
		dst.Set(rv.Convert(dst.Type()))
	}
}
