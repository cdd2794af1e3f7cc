package tagwire

import (
	"reflect"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/dadrian/tagwire/decimal"
	"github.com/dadrian/tagwire/internal"
)

type buildState int

const (
	stateBuilding buildState = iota
	stateBuilt
	stateInitialized
)

func (s buildState) String() string {
	switch s {
	case stateBuilding:
		return "building"
	case stateBuilt:
		return "built"
	case stateInitialized:
		return "initialized"
	}
	return "unknown"
}

type entry struct {
	state buildState
	unit  Unit
	deps  []reflect.Type
	kind  string
}

// Registry resolves types to units. Each type is built at most once per
// registry; initialized units are served without locking.
type Registry struct {
	units *xsync.MapOf[reflect.Type, Unit]

	mu      sync.Mutex
	entries map[reflect.Type]*entry

	opts options
	log  *zap.Logger
}

func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{
		units:   xsync.NewMapOf[reflect.Type, Unit](),
		entries: make(map[reflect.Type]*entry),
		opts:    o,
		log:     o.logger.Named("tagwire.registry"),
	}
}

// Len returns the number of initialized units.
func (g *Registry) Len() int { return g.units.Size() }

// Unit returns the unit for t, building it and everything it depends on
// if needed.
func (g *Registry) Unit(t reflect.Type) (Unit, error) {
	if t == nil {
		return nil, internal.Errorf(ErrUnsupportedType, 0, "nil type")
	}
	if u, ok := g.units.Load(t); ok {
		return u, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// Another caller may have finished the build while we waited.
	if u, ok := g.units.Load(t); ok {
		return u, nil
	}

	start := time.Now()
	var created []reflect.Type
	if err := g.initialize(t, make(map[reflect.Type]bool), &created); err != nil {
		for _, ct := range created {
			delete(g.entries, ct)
		}
		g.log.Warn("build failed", zap.Stringer("type", t), zap.Error(err))
		return nil, errors.Wrapf(err, "build unit for %v", t)
	}
	// Publish only after the whole graph reachable from t is wired.
	for _, ct := range created {
		e := g.entries[ct]
		g.units.Store(ct, e.unit)
		g.log.Debug("unit ready",
			zap.Stringer("type", ct),
			zap.String("kind", e.kind),
			zap.Int("deps", len(e.deps)))
	}
	g.log.Debug("build complete",
		zap.Stringer("root", t),
		zap.Int("units", len(created)),
		zap.Duration("elapsed", time.Since(start)))
	return g.entries[t].unit, nil
}

// ensureBuilt creates the unit body for t if no entry exists yet.
func (g *Registry) ensureBuilt(t reflect.Type, created *[]reflect.Type) (*entry, error) {
	if e, ok := g.entries[t]; ok {
		return e, nil
	}
	e := &entry{state: stateBuilding}
	g.entries[t] = e
	*created = append(*created, t)

	u, deps, kind, err := g.construct(t)
	if err != nil {
		return nil, err
	}
	e.unit, e.deps, e.kind = u, deps, kind
	e.state = stateBuilt
	return e, nil
}

// initialize wires t after every dependency has at least been built.
// Dependencies already on the DFS stack close a cycle; their unit pointer
// is stable, so the edge is wired in place without recursing.
func (g *Registry) initialize(t reflect.Type, onStack map[reflect.Type]bool, created *[]reflect.Type) error {
	e, err := g.ensureBuilt(t, created)
	if err != nil {
		return err
	}
	if e.state == stateInitialized {
		return nil
	}
	onStack[t] = true
	defer delete(onStack, t)

	units := make([]Unit, len(e.deps))
	for i, dt := range e.deps {
		if dt != t && !onStack[dt] {
			if err := g.initialize(dt, onStack, created); err != nil {
				return err
			}
		}
		de, err := g.ensureBuilt(dt, created)
		if err != nil {
			return err
		}
		units[i] = de.unit
	}
	if w, ok := e.unit.(wirer); ok {
		if err := w.wire(units); err != nil {
			return err
		}
	}
	e.state = stateInitialized
	return nil
}

var (
	timeType        = reflect.TypeFor[time.Time]()
	decimalType     = reflect.TypeFor[decimal.Decimal]()
	uuidType        = reflect.TypeFor[uuid.UUID]()
	enumType        = reflect.TypeFor[Enum]()
	sortedSetBridge = reflect.TypeFor[sortedSetValue]()
	emptyStructType = reflect.TypeFor[struct{}]()
)

// construct classifies t and creates its unit body.
func (g *Registry) construct(t reflect.Type) (Unit, []reflect.Type, string, error) {
	if u, ok := g.provide(t); ok {
		cu := &customUnit{inner: u}
		return cu, cu.dependencies(), "custom", nil
	}
	if t.Kind() != reflect.Pointer && t.Implements(enumType) {
		u, err := newEnumUnit(t)
		return u, nil, "enum", err
	}
	switch t {
	case timeType:
		return timeUnit{}, nil, "timestamp", nil
	case decimalType:
		return decimalUnit{}, nil, "decimal", nil
	case uuidType:
		return guidUnit{}, nil, "guid", nil
	}
	if base := interopBase(t); base != nil {
		return &convertUnit{t: t, to: base}, []reflect.Type{base}, "converted", nil
	}
	if c, ok := internal.ScalarCode(t.Kind()); ok {
		return &primitiveUnit{code: c}, nil, "primitive", nil
	}

	switch t.Kind() {
	case reflect.String:
		return stringUnit{}, nil, "string", nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			u := newAnyUnit(g.log)
			return u, anyUniverse, "any", nil
		}
	case reflect.Slice, reflect.Array:
		if c, ok := g.packedElem(t.Elem()); ok {
			u, err := newPrimitiveArrayUnit(t, c)
			return u, []reflect.Type{t.Elem()}, "primitive-array", err
		}
		return &arrayUnit{t: t}, []reflect.Type{t.Elem()}, "array", nil
	case reflect.Map:
		if t.Elem() == emptyStructType {
			return &setUnit{t: t}, []reflect.Type{t.Key(), reflect.SliceOf(t.Key())}, "set", nil
		}
		return &dictUnit{t: t}, []reflect.Type{t.Key(), t.Elem()}, "dictionary", nil
	case reflect.Pointer:
		return &pointerUnit{t: t}, []reflect.Type{t.Elem()}, "pointer", nil
	case reflect.Struct:
		if reflect.PointerTo(t).Implements(sortedSetBridge) {
			elem := reflect.New(t).Interface().(sortedSetValue).elemType()
			return &sortedSetUnit{t: t}, []reflect.Type{elem, reflect.SliceOf(elem)}, "sorted-set", nil
		}
		if isTuple(t) {
			u, err := newTupleUnit(t)
			if err != nil {
				return nil, nil, "", err
			}
			return u, u.dependencies(), "tuple", nil
		}
		u, err := newRecordUnit(t, g.opts.members)
		if err != nil {
			return nil, nil, "", err
		}
		return u, u.dependencies(), "record", nil
	}
	return nil, nil, "", internal.Errorf(ErrUnsupportedType, 0, "%v (%v)", t, t.Kind())
}

// interopBase returns time.Time or decimal.Decimal when t is a distinct
// named type defined from one of them. Their fields are unexported, so
// only such types convert.
func interopBase(t reflect.Type) reflect.Type {
	if t.Kind() != reflect.Struct {
		return nil
	}
	for _, base := range []reflect.Type{timeType, decimalType} {
		if t.ConvertibleTo(base) {
			return base
		}
	}
	return nil
}

func (g *Registry) provide(t reflect.Type) (Unit, bool) {
	for _, p := range g.opts.providers {
		if u, ok := p.Provide(t, g.Unit); ok && u != nil {
			return u, true
		}
	}
	return nil, false
}

// packedElem reports whether a sequence of e is written as a packed
// primitive array.
func (g *Registry) packedElem(e reflect.Type) (TypeCode, bool) {
	c, ok := internal.ScalarCode(e.Kind())
	if !ok || e.Implements(enumType) {
		return 0, false
	}
	if _, claimed := g.provide(e); claimed {
		return 0, false
	}
	return c, true
}
