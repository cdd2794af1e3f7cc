package tagwire

import (
	"reflect"

	"github.com/dadrian/tagwire/internal"
)

// setUnit handles map[K]struct{}. Sets share the Array shape with slices,
// so decoding goes through the []K unit and accepts whatever that unit
// accepts, packed primitive arrays included.
type setUnit struct {
	t     reflect.Type
	key   Unit
	slice Unit
}

func (u *setUnit) wire(deps []Unit) error {
	u.key, u.slice = deps[0], deps[1]
	return nil
}

func (u *setUnit) Size(v reflect.Value) int {
	if v.IsNil() {
		return emptySize
	}
	n := internal.CountSize
	iter := v.MapRange()
	for iter.Next() {
		n += u.key.Size(iter.Key())
	}
	return internal.VarSize(n)
}

func (u *setUnit) Write(w *Writer, v reflect.Value) error {
	if v.IsNil() {
		return writeEmpty(w)
	}
	keys := v.MapKeys()
	return writeSequence(w, len(keys), func(i int) error { return u.key.Write(w, keys[i]) })
}

func (u *setUnit) Read(r *Reader, v reflect.Value) error {
	tmp, ok, err := readViaSlice(r, v, u.t.Key(), u.slice)
	if !ok || err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(u.t, tmp.Len())
	present := reflect.New(emptyStructType).Elem()
	for i := 0; i < tmp.Len(); i++ {
		k := tmp.Index(i)
		if !k.Comparable() {
			continue
		}
		m.SetMapIndex(k, present)
	}
	v.Set(m)
	return nil
}

// readViaSlice decodes a collection payload into a temporary []elem. An
// Empty tag zeroes v and reports false; a payload the slice unit skipped
// leaves v untouched and also reports false.
func readViaSlice(r *Reader, v reflect.Value, elem reflect.Type, slice Unit) (reflect.Value, bool, error) {
	c, err := r.PeekCode()
	if err != nil {
		return reflect.Value{}, false, err
	}
	if c == TypeEmpty {
		if err := r.Skip(internal.CodeSize); err != nil {
			return reflect.Value{}, false, err
		}
		v.SetZero()
		return reflect.Value{}, false, nil
	}
	tmp := reflect.New(reflect.SliceOf(elem)).Elem()
	if err := slice.Read(r, tmp); err != nil {
		return reflect.Value{}, false, err
	}
	if tmp.IsNil() {
		return reflect.Value{}, false, nil
	}
	return tmp, true, nil
}

// sortedSetUnit handles SortedSet[T].
type sortedSetUnit struct {
	t     reflect.Type
	elem  Unit
	slice Unit
}

func (u *sortedSetUnit) wire(deps []Unit) error {
	u.elem, u.slice = deps[0], deps[1]
	return nil
}

// bridge returns the set behind v, copying v when it is not addressable.
func (u *sortedSetUnit) bridge(v reflect.Value) sortedSetValue {
	if !v.CanAddr() {
		p := reflect.New(u.t)
		p.Elem().Set(v)
		return p.Interface().(sortedSetValue)
	}
	return v.Addr().Interface().(sortedSetValue)
}

func (u *sortedSetUnit) Size(v reflect.Value) int {
	n := internal.CountSize
	u.bridge(v).eachValue(func(e reflect.Value) bool {
		n += u.elem.Size(e)
		return true
	})
	return internal.VarSize(n)
}

func (u *sortedSetUnit) Write(w *Writer, v reflect.Value) error {
	var items []reflect.Value
	u.bridge(v).eachValue(func(e reflect.Value) bool {
		items = append(items, e)
		return true
	})
	return writeSequence(w, len(items), func(i int) error { return u.elem.Write(w, items[i]) })
}

func (u *sortedSetUnit) Read(r *Reader, v reflect.Value) error {
	current := u.bridge(v)
	tmp, ok, err := readViaSlice(r, v, current.elemType(), u.slice)
	if !ok || err != nil {
		return err
	}
	// The decoded set keeps the order of the value it replaces.
	fresh := current.emptied()
	set := fresh.(sortedSetValue)
	if !set.ordered() {
		return internal.Errorf(ErrUnsupportedType, r.Offset(), "%v has no order for its elements", u.t)
	}
	for i := 0; i < tmp.Len(); i++ {
		set.insertValue(tmp.Index(i))
	}
	v.Set(reflect.ValueOf(fresh).Elem())
	return nil
}

// dictUnit handles map[K]V as the Dictionary shape: count, then key and
// value pairs.
type dictUnit struct {
	t     reflect.Type
	key   Unit
	value Unit
}

func (u *dictUnit) wire(deps []Unit) error {
	u.key, u.value = deps[0], deps[1]
	return nil
}

func (u *dictUnit) Size(v reflect.Value) int {
	if v.IsNil() {
		return emptySize
	}
	n := internal.CountSize
	iter := v.MapRange()
	for iter.Next() {
		n += u.key.Size(iter.Key()) + u.value.Size(iter.Value())
	}
	return internal.VarSize(n)
}

func (u *dictUnit) Write(w *Writer, v reflect.Value) error {
	if v.IsNil() {
		return writeEmpty(w)
	}
	if err := w.WriteCode(TypeDictionary); err != nil {
		return err
	}
	at, err := w.BeginLen()
	if err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(v.Len())); err != nil {
		return err
	}
	iter := v.MapRange()
	for iter.Next() {
		if err := u.key.Write(w, iter.Key()); err != nil {
			return err
		}
		if err := u.value.Write(w, iter.Value()); err != nil {
			return err
		}
	}
	return w.EndLen(at)
}

func (u *dictUnit) Read(r *Reader, v reflect.Value) error {
	end, ok, err := beginVar(r, v, TypeDictionary)
	if !ok || err != nil {
		return err
	}
	count, err := r.ReadCount(2)
	if err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(u.t, count)
	for i := 0; i < count; i++ {
		k := reflect.New(u.t.Key()).Elem()
		if err := u.key.Read(r, k); err != nil {
			return err
		}
		val := reflect.New(u.t.Elem()).Elem()
		if err := u.value.Read(r, val); err != nil {
			return err
		}
		// Keys decoded into an interface may hold slices or maps.
		if !k.Comparable() {
			continue
		}
		m.SetMapIndex(k, val)
	}
	if err := r.Expect(end); err != nil {
		return err
	}
	v.Set(m)
	return nil
}
