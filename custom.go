package tagwire

import (
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// Resolver returns the unit of any type from the registry that is building
// a custom unit. It may only be called from the returned unit's Size,
// Write and Read methods, never from Provide itself.
type Resolver func(reflect.Type) (Unit, error)

// CustomProvider may claim a type and supply its unit. The unit's payload is
// wrapped under the CustomData tag, so it is free to choose its own layout.
// A claimed type's nil values are written as Empty by the framework.
type CustomProvider interface {
	Provide(t reflect.Type, resolve Resolver) (Unit, bool)
}

// Dependent is an optional interface for provided units that want other
// units wired in at build time instead of resolving them lazily.
type Dependent interface {
	Dependencies() []reflect.Type
	Wire(units []Unit) error
}

// customUnit frames a provided unit under CustomData.
type customUnit struct {
	inner Unit
}

func (u *customUnit) dependencies() []reflect.Type {
	if d, ok := u.inner.(Dependent); ok {
		return d.Dependencies()
	}
	return nil
}

func (u *customUnit) wire(deps []Unit) error {
	if d, ok := u.inner.(Dependent); ok {
		return d.Wire(deps)
	}
	return nil
}

func (u *customUnit) Size(v reflect.Value) int {
	if isNull(v) {
		return emptySize
	}
	return internal.VarSize(u.inner.Size(v))
}

func (u *customUnit) Write(w *Writer, v reflect.Value) error {
	if isNull(v) {
		return writeEmpty(w)
	}
	if err := w.WriteCode(TypeCustomData); err != nil {
		return err
	}
	at, err := w.BeginLen()
	if err != nil {
		return err
	}
	if err := u.inner.Write(w, v); err != nil {
		return err
	}
	return w.EndLen(at)
}

func (u *customUnit) Read(r *Reader, v reflect.Value) error {
	end, ok, err := beginVar(r, v, TypeCustomData)
	if !ok || err != nil {
		return err
	}
	if err := u.inner.Read(r, v); err != nil {
		return err
	}
	return r.Expect(end)
}
