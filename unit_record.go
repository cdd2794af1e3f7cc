package tagwire

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/dadrian/tagwire/fieldhash"
	"github.com/dadrian/tagwire/internal"
)

type recordField struct {
	name  string
	hash  uint64
	index []int
	typ   reflect.Type
	unit  Unit
}

// recordUnit writes a struct as the Object shape: a stream of (hash, value)
// pairs with no count, bounded by the payload length. Fields are written in
// declaration order and matched by hash on read, so readers tolerate added,
// removed and reordered fields.
type recordUnit struct {
	t      reflect.Type
	fields []recordField
	// byHash indexes fields sorted by hash.
	byHash []int
}

func newRecordUnit(t reflect.Type, extractor MemberExtractor) (*recordUnit, error) {
	members, err := extractor.Members(t)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 && hasUnexported(t) {
		return nil, internal.Errorf(ErrUnsupportedType, 0, "%v has only unexported fields", t)
	}
	u := &recordUnit{t: t, fields: make([]recordField, 0, len(members))}
	seen := make(map[uint64]string, len(members))
	for _, m := range members {
		sf := t.FieldByIndex(m.Index)
		if !sf.IsExported() {
			return nil, internal.Errorf(ErrUnsupportedType, 0, "%v.%s is not exported", t, sf.Name)
		}
		h := m.ID
		if !m.HasID {
			if h, err = fieldhash.Hash(m.Name); err != nil {
				return nil, errors.Wrapf(err, "field %v.%s", t, sf.Name)
			}
		}
		if prev, dup := seen[h]; dup {
			return nil, internal.Errorf(ErrHashCollision, 0, "%v: fields %q and %q share hash %#016x", t, prev, m.Name, h)
		}
		seen[h] = m.Name
		u.fields = append(u.fields, recordField{name: m.Name, hash: h, index: m.Index, typ: sf.Type})
	}
	u.byHash = make([]int, len(u.fields))
	for i := range u.byHash {
		u.byHash[i] = i
	}
	slices.SortFunc(u.byHash, func(a, b int) int {
		return cmp.Compare(u.fields[a].hash, u.fields[b].hash)
	})
	return u, nil
}

func hasUnexported(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

func (u *recordUnit) dependencies() []reflect.Type {
	deps := make([]reflect.Type, len(u.fields))
	for i, f := range u.fields {
		deps[i] = f.typ
	}
	return deps
}

func (u *recordUnit) wire(deps []Unit) error {
	for i := range u.fields {
		u.fields[i].unit = deps[i]
	}
	return nil
}

// lookup finds the field written under hash h.
func (u *recordUnit) lookup(h uint64) (*recordField, bool) {
	i, ok := slices.BinarySearchFunc(u.byHash, h, func(idx int, h uint64) int {
		return cmp.Compare(u.fields[idx].hash, h)
	})
	if !ok {
		return nil, false
	}
	return &u.fields[u.byHash[i]], true
}

func (u *recordUnit) Size(v reflect.Value) int {
	n := 0
	for i := range u.fields {
		f := &u.fields[i]
		fv := v.FieldByIndex(f.index)
		if isNull(fv) {
			continue
		}
		n += internal.HashSize + f.unit.Size(fv)
	}
	return internal.VarSize(n)
}

func (u *recordUnit) Write(w *Writer, v reflect.Value) error {
	if err := w.WriteCode(TypeObject); err != nil {
		return err
	}
	at, err := w.BeginLen()
	if err != nil {
		return err
	}
	for i := range u.fields {
		f := &u.fields[i]
		fv := v.FieldByIndex(f.index)
		// Null fields are omitted; the reader leaves them at their default.
		if isNull(fv) {
			continue
		}
		if err := w.WriteUint64(f.hash); err != nil {
			return err
		}
		if err := f.unit.Write(w, fv); err != nil {
			return err
		}
	}
	return w.EndLen(at)
}

func (u *recordUnit) Read(r *Reader, v reflect.Value) error {
	end, ok, err := beginVar(r, v, TypeObject)
	if !ok || err != nil {
		return err
	}
	for r.Offset() < end {
		h, err := r.ReadUint64()
		if err != nil {
			return err
		}
		f, known := u.lookup(h)
		if !known {
			if err := r.SkipValue(); err != nil {
				return err
			}
			continue
		}
		if err := f.unit.Read(r, v.FieldByIndex(f.index)); err != nil {
			return err
		}
	}
	return r.Expect(end)
}
