package tagwire

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/dadrian/tagwire/fieldhash"
	"github.com/dadrian/tagwire/internal"
)

// enumUnit writes the field hash of a member's name. Values that are not
// declared members write Empty; hashes that match no member read as the
// zero value.
type enumUnit struct {
	t       reflect.Type
	signed  bool
	byValue map[int64]uint64
	byHash  map[uint64]int64
}

func newEnumUnit(t reflect.Type) (*enumUnit, error) {
	u := &enumUnit{t: t}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		u.signed = true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, internal.Errorf(ErrInvalidEnum, 0, "%v has kind %v, want an integer", t, t.Kind())
	}
	members := reflect.Zero(t).Interface().(Enum).EnumMembers()
	if len(members) == 0 {
		return nil, internal.Errorf(ErrInvalidEnum, 0, "%v declares no members", t)
	}
	u.byValue = make(map[int64]uint64, len(members))
	u.byHash = make(map[uint64]int64, len(members))
	names := make(map[uint64]string, len(members))
	for _, m := range members {
		h, err := fieldhash.Hash(m.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "enum %v member %q", t, m.Name)
		}
		if prev, dup := names[h]; dup {
			return nil, internal.Errorf(ErrHashCollision, 0, "%v: members %q and %q share hash %#016x", t, prev, m.Name, h)
		}
		names[h] = m.Name
		u.byHash[h] = m.Value
		// The first name declared for a value is the one written.
		if _, ok := u.byValue[m.Value]; !ok {
			u.byValue[m.Value] = h
		}
	}
	return u, nil
}

func (u *enumUnit) value(v reflect.Value) int64 {
	if u.signed {
		return v.Int()
	}
	return int64(v.Uint())
}

func (u *enumUnit) Size(v reflect.Value) int {
	if _, ok := u.byValue[u.value(v)]; !ok {
		return emptySize
	}
	return internal.FixedSize(TypeEnum)
}

func (u *enumUnit) Write(w *Writer, v reflect.Value) error {
	h, ok := u.byValue[u.value(v)]
	if !ok {
		return writeEmpty(w)
	}
	if err := w.WriteCode(TypeEnum); err != nil {
		return err
	}
	return w.WriteUint64(h)
}

func (u *enumUnit) Read(r *Reader, v reflect.Value) error {
	ok, err := begin(r, v, TypeEnum)
	if !ok || err != nil {
		return err
	}
	h, err := r.ReadUint64()
	if err != nil {
		return err
	}
	val, known := u.byHash[h]
	switch {
	case !known:
		v.SetZero()
	case u.signed:
		v.SetInt(val)
	default:
		v.SetUint(uint64(val))
	}
	return nil
}
