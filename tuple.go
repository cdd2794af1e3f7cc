package tagwire

import "reflect"

// TupleMarker, embedded as the first field of a struct, makes the struct a
// tuple: its remaining fields are written positionally under the Tuple tag
// instead of by field hash. Every other field must be exported and not
// embedded.
type TupleMarker struct{}

var tupleMarkerType = reflect.TypeFor[TupleMarker]()

type Tuple2[A, B any] struct {
	TupleMarker
	Item1 A
	Item2 B
}

type Tuple3[A, B, C any] struct {
	TupleMarker
	Item1 A
	Item2 B
	Item3 C
}

type Tuple4[A, B, C, D any] struct {
	TupleMarker
	Item1 A
	Item2 B
	Item3 C
	Item4 D
}

func MakeTuple2[A, B any](a A, b B) Tuple2[A, B] {
	return Tuple2[A, B]{Item1: a, Item2: b}
}

func MakeTuple3[A, B, C any](a A, b B, c C) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{Item1: a, Item2: b, Item3: c}
}

func MakeTuple4[A, B, C, D any](a A, b B, c C, d D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{Item1: a, Item2: b, Item3: c, Item4: d}
}

func isTuple(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() == 0 {
		return false
	}
	f := t.Field(0)
	return f.Anonymous && f.Type == tupleMarkerType
}
