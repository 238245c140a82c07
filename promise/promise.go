// Package promise provides forward references used to break recursive
// construction of graph-shaped values.
//
// A Promise is a single-assignment cell. Holders may store it before it is
// fulfilled (that is the whole point: type A can reference B while B is still
// being built), but reading the value before fulfilment is a programmer error
// and panics.
//
// A Registry memoizes one value per key and hands out in-flight promises to
// reentrant requests coming from the construction pass that owns the key.
package promise

import (
	"sync/atomic"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrUnfulfilled      = errors.New("promise dereferenced before fulfilment")
	ErrAlreadyFulfilled = errors.New("promise fulfilled twice")
)

// Promise is safe for concurrent use. Fulfilment is a single atomic publish.
type Promise[T any] struct {
	cell atomic.Pointer[T]
}

func New[T any]() *Promise[T] {
	return &Promise[T]{}
}

// Resolved returns a promise that is already fulfilled with v.
func Resolved[T any](v T) *Promise[T] {
	p := &Promise[T]{}
	p.cell.Store(&v)

	return p
}

// Fulfil publishes v to every holder of p. It panics if p was already fulfilled.
func (p *Promise[T]) Fulfil(v T) {
	if !p.cell.CompareAndSwap(nil, &v) {
		panic(errors.WithStack(ErrAlreadyFulfilled))
	}
}

// Get returns the fulfilled value. It panics with ErrUnfulfilled otherwise.
func (p *Promise[T]) Get() T {
	v := p.cell.Load()
	if v == nil {
		panic(errors.WithStack(ErrUnfulfilled))
	}

	return *v
}

func (p *Promise[T]) TryGet() (T, bool) {
	v := p.cell.Load()
	if v == nil {
		var zero T
		return zero, false
	}

	return *v, true
}

func (p *Promise[T]) Fulfilled() bool {
	return p.cell.Load() != nil
}
