package tagwire

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type RegistrySuite struct {
	suite.Suite
	reg *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.reg = NewRegistry(WithLogger(zaptest.NewLogger(s.T())))
}

func (s *RegistrySuite) TestBuildsOncePerType() {
	a, err := s.reg.Unit(reflect.TypeFor[treeNode]())
	s.Require().NoError(err)
	b, err := s.reg.Unit(reflect.TypeFor[treeNode]())
	s.Require().NoError(err)
	s.Same(a, b)

	// treeNode, int32, *treeNode, []*treeNode
	s.Equal(4, s.reg.Len())
	ptrUnit, err := s.reg.Unit(reflect.TypeFor[*treeNode]())
	s.Require().NoError(err)
	s.Same(a, ptrUnit.(*pointerUnit).elem)
	s.Equal(4, s.reg.Len())
}

func (s *RegistrySuite) TestCyclesAreWired() {
	u, err := s.reg.Unit(reflect.TypeFor[department]())
	s.Require().NoError(err)
	rec := u.(*recordUnit)
	for _, f := range rec.fields {
		s.NotNil(f.unit, "field %s", f.name)
	}
	emp, err := s.reg.Unit(reflect.TypeFor[employee]())
	s.Require().NoError(err)
	deptPtr := emp.(*recordUnit).fields[1].unit.(*pointerUnit)
	s.Same(u, deptPtr.elem)
}

func (s *RegistrySuite) TestAnyUnitSharesUniverse() {
	u, err := s.reg.Unit(reflect.TypeFor[any]())
	s.Require().NoError(err)
	list, err := s.reg.Unit(reflect.TypeFor[[]any]())
	s.Require().NoError(err)
	s.Same(list, u.(*anyUnit).byType[reflect.TypeFor[[]any]()])
	s.Same(u, list.(*arrayUnit).elem)
}

func (s *RegistrySuite) TestHashCollision() {
	type pinned struct {
		A int32 `tagwire:",id=7"`
		B int32 `tagwire:",id=7"`
	}
	_, err := s.reg.Unit(reflect.TypeFor[pinned]())
	s.Require().ErrorIs(err, ErrHashCollision)
	s.True(IsConfiguration(err))
	s.False(IsDataCorruption(err))

	type renamed struct {
		A int32
		B int32 `tagwire:"A"`
	}
	_, err = s.reg.Unit(reflect.TypeFor[renamed]())
	s.ErrorIs(err, ErrHashCollision)
}

type duplicateEnum int

func (duplicateEnum) EnumMembers() []EnumMember {
	return []EnumMember{{"On", 1}, {"Off", 0}, {"On", 2}}
}

type stringEnum string

func (stringEnum) EnumMembers() []EnumMember { return []EnumMember{{"A", 0}} }

type emptyEnum uint8

func (emptyEnum) EnumMembers() []EnumMember { return nil }

func (s *RegistrySuite) TestInvalidEnums() {
	_, err := s.reg.Unit(reflect.TypeFor[duplicateEnum]())
	s.ErrorIs(err, ErrHashCollision)
	_, err = s.reg.Unit(reflect.TypeFor[stringEnum]())
	s.ErrorIs(err, ErrInvalidEnum)
	_, err = s.reg.Unit(reflect.TypeFor[emptyEnum]())
	s.ErrorIs(err, ErrInvalidEnum)
}

func (s *RegistrySuite) TestNameTooLong() {
	long := reflect.StructOf([]reflect.StructField{{
		Name: "F",
		Type: reflect.TypeFor[int32](),
		Tag:  reflect.StructTag(fmt.Sprintf(`tagwire:"%s"`, strings.Repeat("n", 1001))),
	}})
	_, err := s.reg.Unit(long)
	s.ErrorIs(err, ErrNameTooLong)
}

func (s *RegistrySuite) TestInvalidTuples() {
	type unexported struct {
		TupleMarker
		Item1 int32
		item2 string
	}
	_, err := s.reg.Unit(reflect.TypeFor[unexported]())
	s.ErrorIs(err, ErrInvalidTuple)

	type embedded struct {
		TupleMarker
		pointV1
	}
	_, err = s.reg.Unit(reflect.TypeFor[embedded]())
	s.ErrorIs(err, ErrInvalidTuple)

	type bare struct{ TupleMarker }
	_, err = s.reg.Unit(reflect.TypeFor[bare]())
	s.ErrorIs(err, ErrInvalidTuple)
}

func (s *RegistrySuite) TestUnsupportedTypes() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[chan int](),
		reflect.TypeFor[func()](),
		reflect.TypeFor[complex128](),
		reflect.TypeFor[fmt.Stringer](),
		reflect.TypeFor[[]chan int](),
	} {
		_, err := s.reg.Unit(t)
		s.ErrorIs(err, ErrUnsupportedType, "%v", t)
	}
	_, err := s.reg.Unit(nil)
	s.ErrorIs(err, ErrUnsupportedType)
}

func (s *RegistrySuite) TestOpaqueStructRejected() {
	type opaque struct {
		n int
		m string
	}
	_, err := s.reg.Unit(reflect.TypeFor[opaque]())
	s.ErrorIs(err, ErrUnsupportedType)

	type empty struct{}
	_, err = s.reg.Unit(reflect.TypeFor[empty]())
	s.NoError(err)
}

func (s *RegistrySuite) TestFailedBuildRollsBack() {
	type broken struct {
		Name  string
		Inner *broken
		Feed  chan int
	}
	_, err := s.reg.Unit(reflect.TypeFor[broken]())
	s.Require().ErrorIs(err, ErrUnsupportedType)
	s.Contains(err.Error(), "build unit for")
	s.Equal(0, s.reg.Len())
	s.Empty(s.reg.entries)

	// The failure is not cached and does not poison shared dependencies.
	_, err = s.reg.Unit(reflect.TypeFor[broken]())
	s.ErrorIs(err, ErrUnsupportedType)
	_, err = s.reg.Unit(reflect.TypeFor[string]())
	s.NoError(err)
	s.Equal(1, s.reg.Len())
}

func (s *RegistrySuite) TestCustomMemberExtractor() {
	reg := NewRegistry(WithMemberExtractor(upperOnly{}))
	ser := &Serializer{reg: reg}
	data, err := ser.Marshal(pointV1{X: 4, Y: "ignored"})
	s.Require().NoError(err)
	got, err := Deserialize[pointV1](New(), data)
	s.Require().NoError(err)
	s.Equal(pointV1{X: 4}, got)
}

// upperOnly serializes only the field named X.
type upperOnly struct{}

func (upperOnly) Members(t reflect.Type) ([]Member, error) {
	var out []Member
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Name == "X" {
			out = append(out, Member{Name: f.Name, Index: f.Index})
		}
	}
	return out, nil
}

func TestRegistryConcurrentBuilds(t *testing.T) {
	reg := NewRegistry(WithLogger(zaptest.NewLogger(t)))
	types := []reflect.Type{
		reflect.TypeFor[treeNode](),
		reflect.TypeFor[*treeNode](),
		reflect.TypeFor[department](),
		reflect.TypeFor[employee](),
		reflect.TypeFor[map[string][]employee](),
		reflect.TypeFor[[]any](),
		reflect.TypeFor[peerOrder](),
		reflect.TypeFor[Tuple2[employee, *treeNode]](),
	}

	const workers = 32
	got := make([][]Unit, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			got[w] = make([]Unit, len(types))
			for i := range types {
				// Each worker walks the list from a different start.
				k := (i + w) % len(types)
				u, err := reg.Unit(types[k])
				assert.NoError(t, err)
				got[w][k] = u
			}
		}(w)
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		for k := range types {
			require.Same(t, got[0][k], got[w][k], "worker %d type %v", w, types[k])
		}
	}

	s := &Serializer{reg: reg}
	var encode sync.WaitGroup
	for w := 0; w < workers; w++ {
		encode.Add(1)
		go func(w int) {
			defer encode.Done()
			d := department{Name: fmt.Sprint("d", w), Staff: []employee{{Name: "e"}}}
			data, err := s.Marshal(d)
			if !assert.NoError(t, err) {
				return
			}
			back, err := Deserialize[department](s, data)
			assert.NoError(t, err)
			assert.Equal(t, d, back)
		}(w)
	}
	encode.Wait()
}
