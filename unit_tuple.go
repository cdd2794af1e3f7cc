package tagwire

import (
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// tupleUnit writes the components of a tuple struct in declaration order
// with no per-component hash.
type tupleUnit struct {
	t      reflect.Type
	fields []int
	elems  []Unit
}

func newTupleUnit(t reflect.Type) (*tupleUnit, error) {
	u := &tupleUnit{t: t}
	for i := 1; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			return nil, internal.Errorf(ErrInvalidTuple, 0, "%v: component %s must be an exported, non-embedded field", t, f.Name)
		}
		u.fields = append(u.fields, i)
	}
	if len(u.fields) == 0 {
		return nil, internal.Errorf(ErrInvalidTuple, 0, "%v has no components", t)
	}
	return u, nil
}

func (u *tupleUnit) dependencies() []reflect.Type {
	deps := make([]reflect.Type, len(u.fields))
	for i, fi := range u.fields {
		deps[i] = u.t.Field(fi).Type
	}
	return deps
}

func (u *tupleUnit) wire(deps []Unit) error {
	u.elems = deps
	return nil
}

func (u *tupleUnit) Size(v reflect.Value) int {
	n := 0
	for i, fi := range u.fields {
		n += u.elems[i].Size(v.Field(fi))
	}
	return internal.VarSize(n)
}

func (u *tupleUnit) Write(w *Writer, v reflect.Value) error {
	if err := w.WriteCode(TypeTuple); err != nil {
		return err
	}
	at, err := w.BeginLen()
	if err != nil {
		return err
	}
	for i, fi := range u.fields {
		if err := u.elems[i].Write(w, v.Field(fi)); err != nil {
			return err
		}
	}
	return w.EndLen(at)
}

// Read builds a fresh tuple from the components present in the payload.
// A shorter payload leaves trailing components zero; extra components are
// skipped.
func (u *tupleUnit) Read(r *Reader, v reflect.Value) error {
	end, ok, err := beginVar(r, v, TypeTuple)
	if !ok || err != nil {
		return err
	}
	out := reflect.New(u.t).Elem()
	for i, fi := range u.fields {
		if r.Offset() >= end {
			break
		}
		if err := u.elems[i].Read(r, out.Field(fi)); err != nil {
			return err
		}
	}
	for r.Offset() < end {
		if err := r.SkipValue(); err != nil {
			return err
		}
	}
	if err := r.Expect(end); err != nil {
		return err
	}
	v.Set(out)
	return nil
}
