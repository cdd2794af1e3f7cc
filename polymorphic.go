package tagwire

import (
	"fmt"
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// Polymorphic is a CustomProvider for one interface type. Each value is
// written as the registered name of its concrete type, as a String,
// followed by the concrete type's own encoding. Names that the reader does
// not know decode to nil.
//
// Register every concrete type before the first Marshal or Unmarshal that
// involves the interface.
type Polymorphic struct {
	iface  reflect.Type
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewPolymorphic returns a provider for iface, registering each sample's
// type under its type name.
func NewPolymorphic(iface reflect.Type, samples ...any) *Polymorphic {
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("tagwire: NewPolymorphic of non-interface type %v", iface))
	}
	p := &Polymorphic{
		iface:  iface,
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
	for _, s := range samples {
		t := reflect.TypeOf(s)
		name := t.Name()
		if t.Kind() == reflect.Pointer {
			name = t.Elem().Name()
		}
		p.Register(name, s)
	}
	return p
}

// Register adds the concrete type of sample under name. It panics if the
// name or type is already registered or the type does not implement the
// interface.
func (p *Polymorphic) Register(name string, sample any) {
	t := reflect.TypeOf(sample)
	switch {
	case t == nil || !t.Implements(p.iface):
		panic(fmt.Sprintf("tagwire: %v does not implement %v", t, p.iface))
	case name == "":
		panic(fmt.Sprintf("tagwire: empty name for %v", t))
	}
	if prev, dup := p.byName[name]; dup {
		panic(fmt.Sprintf("tagwire: name %q registered for both %v and %v", name, prev, t))
	}
	if prev, dup := p.byType[t]; dup {
		panic(fmt.Sprintf("tagwire: %v registered as both %q and %q", t, prev, name))
	}
	p.byName[name] = t
	p.byType[t] = name
}

func (p *Polymorphic) Provide(t reflect.Type, resolve Resolver) (Unit, bool) {
	if t != p.iface {
		return nil, false
	}
	return &polymorphicUnit{p: p, resolve: resolve}, true
}

type polymorphicUnit struct {
	p       *Polymorphic
	resolve Resolver
}

func (u *polymorphicUnit) concrete(v reflect.Value) (string, Unit, reflect.Value, error) {
	dv := v.Elem()
	name, ok := u.p.byType[dv.Type()]
	if !ok {
		return "", nil, dv, internal.Errorf(ErrUnsupportedType, 0, "%v is not registered for %v", dv.Type(), u.p.iface)
	}
	unit, err := u.resolve(dv.Type())
	return name, unit, dv, err
}

func (u *polymorphicUnit) Size(v reflect.Value) int {
	name, unit, dv, err := u.concrete(v)
	if err != nil {
		return 0
	}
	return stringSize(name) + unit.Size(dv)
}

func (u *polymorphicUnit) Write(w *Writer, v reflect.Value) error {
	name, unit, dv, err := u.concrete(v)
	if err != nil {
		return err
	}
	if err := writeString(w, name); err != nil {
		return err
	}
	return unit.Write(w, dv)
}

func (u *polymorphicUnit) Read(r *Reader, v reflect.Value) error {
	at := r.Offset()
	c, err := r.ReadCode()
	if err != nil {
		return err
	}
	if c != TypeString {
		return internal.Errorf(ErrInvalidValue, at, "discriminator is %v, want String", c)
	}
	name, err := readStringPayload(r)
	if err != nil {
		return err
	}
	t, ok := u.p.byName[name]
	if !ok {
		v.SetZero()
		return r.SkipValue()
	}
	unit, err := u.resolve(t)
	if err != nil {
		return err
	}
	out := reflect.New(t).Elem()
	if err := unit.Read(r, out); err != nil {
		return err
	}
	v.Set(out)
	return nil
}
