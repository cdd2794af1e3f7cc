package tagwire

import (
	"reflect"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/dadrian/tagwire/internal"
)

// anyCanonical is the Go type each tag decodes to in an interface slot.
var anyCanonical = map[TypeCode]reflect.Type{
	TypeBoolean:      reflect.TypeFor[bool](),
	TypeInt8:         reflect.TypeFor[int8](),
	TypeUInt8:        reflect.TypeFor[uint8](),
	TypeInt16:        reflect.TypeFor[int16](),
	TypeUInt16:       reflect.TypeFor[uint16](),
	TypeInt32:        reflect.TypeFor[int32](),
	TypeUInt32:       reflect.TypeFor[uint32](),
	TypeInt64:        reflect.TypeFor[int64](),
	TypeUInt64:       reflect.TypeFor[uint64](),
	TypeSingle:       reflect.TypeFor[float32](),
	TypeDouble:       reflect.TypeFor[float64](),
	TypeString:       reflect.TypeFor[string](),
	TypeGuid:         uuidType,
	TypeDecimal:      decimalType,
	TypeDateTime:     timeType,
	TypeBooleanArray: reflect.TypeFor[[]bool](),
	TypeInt8Array:    reflect.TypeFor[[]int8](),
	TypeUInt8Array:   reflect.TypeFor[[]uint8](),
	TypeInt16Array:   reflect.TypeFor[[]int16](),
	TypeUInt16Array:  reflect.TypeFor[[]uint16](),
	TypeInt32Array:   reflect.TypeFor[[]int32](),
	TypeUInt32Array:  reflect.TypeFor[[]uint32](),
	TypeInt64Array:   reflect.TypeFor[[]int64](),
	TypeUInt64Array:  reflect.TypeFor[[]uint64](),
	TypeSingleArray:  reflect.TypeFor[[]float32](),
	TypeDoubleArray:  reflect.TypeFor[[]float64](),
	TypeArray:        reflect.TypeFor[[]any](),
	TypeDictionary:   reflect.TypeFor[map[any]any](),
}

// anyUniverse lists every runtime type an interface slot can write: the
// canonical types plus a few common Go types that share their tags.
var anyUniverse = func() []reflect.Type {
	codes := lo.Keys(anyCanonical)
	slices.Sort(codes)
	types := lo.Map(codes, func(c TypeCode, _ int) reflect.Type { return anyCanonical[c] })
	return append(types,
		reflect.TypeFor[int](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[[]int](),
		reflect.TypeFor[[]uint](),
		reflect.TypeFor[[]string](),
		reflect.TypeFor[map[string]any](),
	)
}()

// anyUnit handles empty-interface slots over a closed set of runtime
// types. Other runtime types write Empty; unmapped tags read as nil.
type anyUnit struct {
	byType map[reflect.Type]Unit
	log    *zap.Logger
}

func newAnyUnit(log *zap.Logger) *anyUnit {
	return &anyUnit{log: log}
}

func (u *anyUnit) wire(deps []Unit) error {
	u.byType = make(map[reflect.Type]Unit, len(deps))
	for i, t := range anyUniverse {
		u.byType[t] = deps[i]
	}
	return nil
}

// resolve returns the unit for the dynamic value in v and the value to
// hand it, converting named scalar, string and scalar-slice types to
// their unnamed counterparts.
func (u *anyUnit) resolve(v reflect.Value) (Unit, reflect.Value, bool) {
	if v.IsNil() {
		return nil, reflect.Value{}, false
	}
	dv := v.Elem()
	if unit, ok := u.byType[dv.Type()]; ok {
		return unit, dv, true
	}
	if canon := canonicalOf(dv.Type()); canon != nil && dv.Type().ConvertibleTo(canon) {
		if unit, ok := u.byType[canon]; ok {
			return unit, dv.Convert(canon), true
		}
	}
	return nil, reflect.Value{}, false
}

// canonicalOf returns the unnamed type with t's shape, for scalar, string
// and scalar-slice kinds.
func canonicalOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.String {
		return anyCanonical[TypeString]
	}
	if t.Kind() == reflect.Slice {
		if c, ok := internal.ScalarCode(t.Elem().Kind()); ok {
			if arr, ok := internal.ArrayOf(c); ok {
				return anyCanonical[arr]
			}
		}
		return nil
	}
	if c, ok := internal.ScalarCode(t.Kind()); ok {
		return anyCanonical[c]
	}
	return nil
}

func (u *anyUnit) Size(v reflect.Value) int {
	unit, dv, ok := u.resolve(v)
	if !ok {
		return emptySize
	}
	return unit.Size(dv)
}

func (u *anyUnit) Write(w *Writer, v reflect.Value) error {
	unit, dv, ok := u.resolve(v)
	if !ok {
		if !v.IsNil() {
			u.log.Debug("unmapped runtime type written as Empty", zap.Stringer("type", v.Elem().Type()))
		}
		return writeEmpty(w)
	}
	return unit.Write(w, dv)
}

func (u *anyUnit) Read(r *Reader, v reflect.Value) error {
	c, err := r.PeekCode()
	if err != nil {
		return err
	}
	canon, ok := anyCanonical[c]
	if !ok {
		// Empty, records, enums, tuples and custom payloads have no
		// canonical Go type.
		if err := r.SkipValue(); err != nil {
			return err
		}
		v.SetZero()
		return nil
	}
	out := reflect.New(canon).Elem()
	if err := u.byType[canon].Read(r, out); err != nil {
		return err
	}
	v.Set(out)
	return nil
}
