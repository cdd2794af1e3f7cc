package tagwire

import (
	"fmt"
	"math"
	"reflect"

	"github.com/google/btree"
)

const sortedSetDegree = 16

// Lesser orders element types that are not ordered by the language, such
// as records.
type Lesser[T any] interface {
	Less(other T) bool
}

// SortedSet is an ordered set backed by a B-tree. The zero value is an
// empty set ready to use when T is an integer, float or string kind or
// implements Lesser[T]; other element types need NewSortedSetFunc. It
// decodes from any Array payload; elements are re-sorted on insertion.
type SortedSet[T any] struct {
	tree *btree.BTreeG[T]
	less func(a, b T) bool
}

func NewSortedSet[T any](items ...T) *SortedSet[T] {
	return NewSortedSetFunc(nil, items...)
}

// NewSortedSetFunc returns a set ordered by less. A nil less uses the
// element type's natural order.
func NewSortedSetFunc[T any](less func(a, b T) bool, items ...T) *SortedSet[T] {
	s := &SortedSet[T]{less: less}
	for _, it := range items {
		s.Insert(it)
	}
	return s
}

func (s *SortedSet[T]) init() {
	if s.tree != nil {
		return
	}
	if s.less == nil {
		s.less = naturalLess[T]()
	}
	if s.less == nil {
		panic(fmt.Sprintf("tagwire: SortedSet[%v] has no order; use NewSortedSetFunc or implement Lesser", reflect.TypeFor[T]()))
	}
	s.tree = btree.NewG[T](sortedSetDegree, s.less)
}

// Insert adds v and reports whether it was not already present.
func (s *SortedSet[T]) Insert(v T) bool {
	s.init()
	_, replaced := s.tree.ReplaceOrInsert(v)
	return !replaced
}

func (s *SortedSet[T]) Has(v T) bool {
	return s.tree != nil && s.tree.Has(v)
}

func (s *SortedSet[T]) Delete(v T) bool {
	if s.tree == nil {
		return false
	}
	_, ok := s.tree.Delete(v)
	return ok
}

func (s *SortedSet[T]) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// Ascend calls fn for each element in order until fn returns false.
func (s *SortedSet[T]) Ascend(fn func(T) bool) {
	if s.tree == nil {
		return
	}
	s.tree.Ascend(btree.ItemIteratorG[T](fn))
}

// Items returns the elements in ascending order.
func (s *SortedSet[T]) Items() []T {
	out := make([]T, 0, s.Len())
	s.Ascend(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// naturalLess returns the order of T, or nil when T has none.
func naturalLess[T any]() func(a, b T) bool {
	var zero T
	if _, ok := any(zero).(Lesser[T]); ok {
		return func(a, b T) bool { return any(a).(Lesser[T]).Less(b) }
	}
	if _, ok := any(&zero).(Lesser[T]); ok {
		return func(a, b T) bool { return any(&a).(Lesser[T]).Less(b) }
	}
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b T) bool { return reflect.ValueOf(a).Int() < reflect.ValueOf(b).Int() }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(a, b T) bool { return reflect.ValueOf(a).Uint() < reflect.ValueOf(b).Uint() }
	case reflect.Float32, reflect.Float64:
		// NaN sorts first, as cmp.Less does.
		return func(a, b T) bool {
			x, y := reflect.ValueOf(a).Float(), reflect.ValueOf(b).Float()
			return (math.IsNaN(x) && !math.IsNaN(y)) || x < y
		}
	case reflect.String:
		return func(a, b T) bool { return reflect.ValueOf(a).String() < reflect.ValueOf(b).String() }
	}
	return nil
}

// sortedSetValue lets the registry handle every instantiation of SortedSet
// through reflection.
type sortedSetValue interface {
	elemType() reflect.Type
	ordered() bool
	// emptied returns a new empty *SortedSet with the same order.
	emptied() any
	insertValue(v reflect.Value)
	eachValue(fn func(reflect.Value) bool)
}

func (s *SortedSet[T]) elemType() reflect.Type { return reflect.TypeFor[T]() }

func (s *SortedSet[T]) ordered() bool { return s.less != nil || naturalLess[T]() != nil }

func (s *SortedSet[T]) emptied() any { return &SortedSet[T]{less: s.less} }

func (s *SortedSet[T]) insertValue(v reflect.Value) { s.Insert(v.Interface().(T)) }

func (s *SortedSet[T]) eachValue(fn func(reflect.Value) bool) {
	s.Ascend(func(v T) bool { return fn(reflect.ValueOf(&v).Elem()) })
}
