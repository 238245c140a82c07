package promise

import (
	"context"
	"sync"
)

// Construct builds the value for key. Nested values are obtained through
// session.Resolve, which returns in-flight promises for keys that are still
// being built by the same pass.
type Construct[K comparable, V any] func(ctx context.Context, session *Session[K, V], key K) (V, error)

type outcome[V any] struct {
	value V
	err   error
}

// Registry memoizes one canonical value per key for the process lifetime.
//
// Published values are read without locking. Construction is serialized by a
// single lock that is taken once per outermost request; everything reached
// recursively from there runs inside the same Session and never re-locks.
type Registry[K comparable, V any] struct {
	mu        sync.Mutex
	published sync.Map // K -> outcome[V]
	construct Construct[K, V]
}

func NewRegistry[K comparable, V any](construct Construct[K, V]) *Registry[K, V] {
	return &Registry[K, V]{construct: construct}
}

// Lookup returns a published value without constructing anything.
func (r *Registry[K, V]) Lookup(key K) (V, bool) {
	if o, ok := r.published.Load(key); ok {
		res := o.(outcome[V])
		return res.value, res.err == nil
	}

	var zero V
	return zero, false
}

// Settled reports whether key was constructed, successfully or not.
func (r *Registry[K, V]) Settled(key K) bool {
	_, ok := r.published.Load(key)
	return ok
}

// Get returns the canonical value for key, constructing it on first use.
// A construction error is memoized for the failing key and returned on every
// later request.
func (r *Registry[K, V]) Get(ctx context.Context, key K) (V, error) {
	if o, ok := r.published.Load(key); ok {
		res := o.(outcome[V])
		return res.value, res.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session := &Session[K, V]{
		registry: r,
		inflight: make(map[K]*Promise[V]),
		finished: make(map[K]V),
	}

	p, err := session.Resolve(ctx, key)
	session.publish(err == nil)

	if err != nil {
		var zero V
		return zero, err
	}

	return p.Get(), nil
}

// Session is one outermost construction pass. It is owned by the goroutine
// holding the registry lock and is not safe for concurrent use.
type Session[K comparable, V any] struct {
	registry *Registry[K, V]
	inflight map[K]*Promise[V]
	finished map[K]V
	failed   []K
	order    []K
	errs     map[K]error
}

// Resolve returns a promise for key. The promise is already fulfilled unless
// key is an ancestor of the current construction, in which case the in-flight
// promise is returned and will be fulfilled when that ancestor completes.
func (s *Session[K, V]) Resolve(ctx context.Context, key K) (*Promise[V], error) {
	if o, ok := s.registry.published.Load(key); ok {
		res := o.(outcome[V])
		if res.err != nil {
			return nil, res.err
		}

		return Resolved(res.value), nil
	}

	if v, ok := s.finished[key]; ok {
		return Resolved(v), nil
	}

	if err, ok := s.errs[key]; ok {
		return nil, err
	}

	if p, ok := s.inflight[key]; ok {
		return p, nil
	}

	p := New[V]()
	s.inflight[key] = p

	v, err := s.registry.construct(ctx, s, key)
	delete(s.inflight, key)

	if err != nil {
		if s.errs == nil {
			s.errs = make(map[K]error)
		}

		s.errs[key] = err
		s.failed = append(s.failed, key)

		return nil, err
	}

	p.Fulfil(v)
	s.finished[key] = v
	s.order = append(s.order, key)

	return p, nil
}

// Building reports whether key is under construction in this session.
func (s *Session[K, V]) Building(key K) bool {
	_, ok := s.inflight[key]
	return ok
}

// publish makes the session results visible to readers. Successful values of
// a failed pass are dropped: they may hold promises of keys that never got
// fulfilled, and rebuilding them later reproduces the same failure.
func (s *Session[K, V]) publish(ok bool) {
	for _, key := range s.failed {
		s.registry.published.Store(key, outcome[V]{err: s.errs[key]})
	}

	if !ok {
		return
	}

	for _, key := range s.order {
		s.registry.published.Store(key, outcome[V]{value: s.finished[key]})
	}
}
