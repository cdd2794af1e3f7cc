package internal

import (
	"reflect"
	"strconv"
	"strings"
)

// FieldTag is the parsed form of `tagwire:"<name>[,id=<n>]"`.
type FieldTag struct {
	Name  string
	ID    uint64
	HasID bool
	Skip  bool
}

// ParseFieldTag parses the struct tag under key. An empty name keeps the
// Go field name; "-" skips the field.
func ParseFieldTag(f reflect.StructField, key string) (FieldTag, error) {
	tag, ok := f.Tag.Lookup(key)
	if !ok {
		return FieldTag{Name: f.Name}, nil
	}
	if tag == "-" {
		return FieldTag{Skip: true}, nil
	}
	parts := strings.Split(tag, ",")
	out := FieldTag{Name: strings.TrimSpace(parts[0])}
	if out.Name == "" {
		out.Name = f.Name
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		switch {
		case strings.HasPrefix(p, "id="):
			id, err := strconv.ParseUint(strings.TrimPrefix(p, "id="), 0, 64)
			if err != nil {
				return FieldTag{}, Errorf(ErrUnsupportedType, 0, "field %s: bad id %q", f.Name, p)
			}
			out.ID, out.HasID = id, true
		case p == "":
		default:
			return FieldTag{}, Errorf(ErrUnsupportedType, 0, "field %s: unknown tag option %q", f.Name, p)
		}
	}
	return out, nil
}

// Nullable reports whether values of kind k can be nil.
func Nullable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

// IsNull reports whether v holds a nil reference.
func IsNull(v reflect.Value) bool {
	return !v.IsValid() || (Nullable(v.Kind()) && v.IsNil())
}
