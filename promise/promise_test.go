package promise_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"shape-caster/promise"
)

func ExamplePromise() {
	p := promise.New[string]()
	_, ok := p.TryGet()
	fmt.Println("before:", ok)

	p.Fulfil("order")
	fmt.Println("after:", p.Get(), p.Fulfilled())

	// Output:
	// before: false
	// after: order true
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()

	fn()

	return nil
}

func TestPromise_Misuse(t *testing.T) {
	t.Parallel()

	t.Run("get before fulfil", func(t *testing.T) {
		t.Parallel()

		p := promise.New[int]()
		err := recoverError(func() { p.Get() })
		assert.ErrorIs(t, err, promise.ErrUnfulfilled)
	})

	t.Run("fulfil twice", func(t *testing.T) {
		t.Parallel()

		p := promise.Resolved(1)
		err := recoverError(func() { p.Fulfil(2) })
		assert.ErrorIs(t, err, promise.ErrAlreadyFulfilled)
		assert.Equal(t, 1, p.Get())
	})
}

// node is a linked structure built through the registry: key n points at n+1
// modulo size, so every key closes a cycle back to the first one requested.
type node struct {
	key  int
	next *promise.Promise[*node]
}

func ringRegistry(size int, builds *atomic.Int32) *promise.Registry[int, *node] {
	return promise.NewRegistry(func(ctx context.Context, s *promise.Session[int, *node], key int) (*node, error) {
		builds.Add(1)

		n := &node{key: key}

		next, err := s.Resolve(ctx, (key+1)%size)
		if err != nil {
			return nil, err
		}

		n.next = next

		return n, nil
	})
}

func TestRegistry_CycleResolvesToInflightPromise(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	reg := ringRegistry(3, &builds)

	first, err := reg.Get(context.Background(), 0)
	require.NoError(t, err)

	second := first.next.Get()
	third := second.next.Get()

	assert.Equal(t, 1, second.key)
	assert.Equal(t, 2, third.key)
	assert.Same(t, first, third.next.Get(), "cycle must close on the canonical value")
	assert.EqualValues(t, 3, builds.Load())

	for key := range 3 {
		v, ok := reg.Lookup(key)
		require.True(t, ok)
		assert.Equal(t, key, v.key)
	}
}

func TestRegistry_ConcurrentFirstRequests(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	reg := ringRegistry(8, &builds)

	results := make([]*node, 64)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			n, err := reg.Get(context.Background(), i%8)
			results[i] = n
			return err
		})
	}

	require.NoError(t, g.Wait())

	assert.EqualValues(t, 8, builds.Load(), "every key is built exactly once")

	for i, n := range results {
		canonical, ok := reg.Lookup(i % 8)
		require.True(t, ok)
		assert.Same(t, canonical, n)
	}
}

var errBroken = errors.New("broken")

func TestRegistry_FailureIsMemoized(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32

	reg := promise.NewRegistry(func(ctx context.Context, s *promise.Session[string, string], key string) (string, error) {
		builds.Add(1)

		switch key {
		case "root":
			if _, err := s.Resolve(ctx, "leaf"); err != nil {
				return "", errors.Errorf("root: %w", err)
			}

			if _, err := s.Resolve(ctx, "broken"); err != nil {
				return "", errors.Errorf("root: %w", err)
			}

			return "root", nil
		case "broken":
			return "", errBroken
		default:
			return key, nil
		}
	})

	_, err := reg.Get(context.Background(), "root")
	require.ErrorIs(t, err, errBroken)

	_, ok := reg.Lookup("leaf")
	assert.False(t, ok, "values of a failed pass are not published")

	_, err = reg.Get(context.Background(), "broken")
	require.ErrorIs(t, err, errBroken)
	assert.True(t, reg.Settled("broken"))
	assert.False(t, reg.Settled("leaf"))

	before := builds.Load()
	_, err = reg.Get(context.Background(), "root")
	require.ErrorIs(t, err, errBroken)
	assert.Equal(t, before, builds.Load(), "failed keys are not rebuilt")

	leaf, err := reg.Get(context.Background(), "leaf")
	require.NoError(t, err)
	assert.Equal(t, "leaf", leaf)
}
