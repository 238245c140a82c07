// Package mapper builds conversion routines between structurally aligned types.
//
// A routine is built once per (source, destination) type pair and memoized by
// a Mapper for the process lifetime. Routines of nested member pairs are
// referenced through promises, so recursive and mutually recursive type
// graphs are supported: a pair that is still being built hands out its
// in-flight promise, which is fulfilled before any routine can run.
//
// The kind of routine is chosen by Dispatch. Every routine precomputes field
// indices, methods and nested routines; a call only moves data.
package mapper

import (
	"context"
	"reflect"
	"sync"

	"gitlab.com/tozd/go/errors"

	"shape-caster/internal/clog"
	"shape-caster/primitive"
	"shape-caster/promise"
)

var (
	ErrNoConstructor    = errors.New("destination has no construction path")
	ErrCategoryMismatch = errors.New("source and destination shapes differ")
	ErrNoConversion     = errors.New("no conversion between types")
	ErrAlreadyBuilt     = errors.New("mapper already built for the type")
	ErrDuplicateKey     = errors.New("mapped keys collide")
)

// Func converts a source value into a destination value. The argument must
// have the source type of the pair the routine was built for.
type Func func(reflect.Value) reflect.Value

type pair struct {
	src, dst reflect.Type
}

func (p pair) String() string {
	return p.src.String() + " -> " + p.dst.String()
}

type session = promise.Session[pair, Func]

// Mapper memoizes one routine per type pair. It is safe for concurrent use.
type Mapper struct {
	conversions primitive.CategoryEnum
	registry    *promise.Registry[pair, Func]

	mu           sync.Mutex
	casters      map[pair]Func
	consulted    map[pair]struct{}
	constructors map[reflect.Type]reflect.Value
	constructed  map[reflect.Type]struct{}
}

type Option func(*Mapper)

// WithConversions sets the primitive conversion categories available between
// scalar members of different types. The default is CategorySafeNumber.
func WithConversions(categories primitive.CategoryEnum) Option {
	return func(m *Mapper) {
		m.conversions = categories
	}
}

// Default is the engine used by Map.
var Default = New()

func New(opts ...Option) *Mapper {
	m := &Mapper{
		conversions:  primitive.CategorySafeNumber,
		casters:      make(map[pair]Func),
		consulted:    make(map[pair]struct{}),
		constructors: make(map[reflect.Type]reflect.Value),
		constructed:  make(map[reflect.Type]struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.registry = promise.NewRegistry(m.construct)

	return m
}

func (m *Mapper) Conversions() primitive.CategoryEnum {
	return m.conversions
}

// RegisterCaster makes fn the routine of its (source, destination) pair. See
// ParseCaster for the accepted signatures; casters returning an error are
// rejected.
func (m *Mapper) RegisterCaster(fn any) error {
	caster, err := ParseCaster(fn)
	if err != nil {
		return err
	}

	routine, err := caster.Func()
	if err != nil {
		return err
	}

	key := pair{caster.Src, caster.Dst}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, used := m.consulted[key]; used {
		return errors.Errorf("%w: %s", ErrAlreadyBuilt, key)
	}

	m.casters[key] = routine

	return nil
}

// RegisterConstructor sets the construction path of T. It takes precedence
// over the zero value for structs and is the only construction path for
// interface destinations.
func RegisterConstructor[T any](m *Mapper, ctor func() T) error {
	t := reflect.TypeFor[T]()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, used := m.constructed[t]; used {
		return errors.Errorf("%w: %s", ErrAlreadyBuilt, t)
	}

	m.constructors[t] = reflect.ValueOf(ctor)

	return nil
}

// caster returns the registered caster of key and marks key as used.
func (m *Mapper) caster(key pair) (Func, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consulted[key] = struct{}{}
	fn, ok := m.casters[key]

	return fn, ok
}

// constructor returns the registered constructor of t and marks t as used.
func (m *Mapper) constructor(t reflect.Type) (reflect.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.constructed[t] = struct{}{}
	ctor, ok := m.constructors[t]

	return ctor, ok
}

// For returns the routine mapping src values to dst values.
func (m *Mapper) For(src, dst reflect.Type) (Func, error) {
	return m.ForContext(context.Background(), src, dst)
}

// ForContext is For logging through the logger carried by ctx.
func (m *Mapper) ForContext(ctx context.Context, src, dst reflect.Type) (Func, error) {
	key := pair{src, dst}
	if fn, ok := m.registry.Lookup(key); ok {
		return fn, nil
	}

	ctx = clog.WithAttrs(ctx, "request", key.String())

	fn, err := m.registry.Get(ctx, key)
	if err != nil {
		clog.Ctx(ctx).Warn("mapper construction failed", "error", err)
		return nil, err
	}

	return fn, nil
}

// Get returns a typed routine mapping S values to D values.
func Get[S, D any](m *Mapper) (func(S) D, error) {
	fn, err := m.For(reflect.TypeFor[S](), reflect.TypeFor[D]())
	if err != nil {
		return nil, err
	}

	return func(src S) D {
		out, _ := fn(reflect.ValueOf(&src).Elem()).Interface().(D)
		return out
	}, nil
}

// MustGet is Get panicking on construction errors.
func MustGet[S, D any](m *Mapper) func(S) D {
	fn, err := Get[S, D](m)
	if err != nil {
		panic(err)
	}

	return fn
}

// Map converts src with the Default engine.
func Map[S, D any](src S) (D, error) {
	fn, err := Get[S, D](Default)
	if err != nil {
		var zero D
		return zero, err
	}

	return fn(src), nil
}

func (m *Mapper) construct(ctx context.Context, s *session, key pair) (Func, error) {
	if fn, ok := m.caster(key); ok {
		clog.Ctx(ctx).Debug("mapper built", "pair", key.String(), "dispatcher", "caster")
		return fn, nil
	}

	b := &builder{mapper: m, ctx: ctx, session: s, key: key}

	dispatcher := Dispatch(key.src, key.dst, m.conversions)

	var (
		fn  Func
		err error
	)

	switch dispatcher {
	case DispatcherIdentity:
		fn = identity
	case DispatcherMap:
		fn, err = b.mapRoutine()
	case DispatcherSlice:
		fn, err = b.sliceRoutine()
	case DispatcherInterface:
		fn = b.interfaceRoutine()
	case DispatcherNullable:
		fn, err = b.nullableRoutine()
	case DispatcherPointer:
		fn, err = b.pointerRoutine()
	case DispatcherRecord:
		fn, err = b.recordRoutine()
	case DispatcherPrimitive:
		fn, err = b.primitiveRoutine()
	case DispatcherStruct:
		fn, err = b.structRoutine()
	default:
		err = errors.Errorf("%w: %s", ErrNoConversion, key)
	}

	if err != nil {
		return nil, err
	}

	clog.Ctx(ctx).Debug("mapper built", "pair", key.String(), "dispatcher", dispatcher.String())

	return fn, nil
}

func identity(v reflect.Value) reflect.Value {
	return v
}
