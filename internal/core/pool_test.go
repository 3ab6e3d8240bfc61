package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(size int, timeout time.Duration) *EnginePool {
	registry := NewRegistry()
	registry.Seal()
	return NewEnginePool(size, timeout, func() *Dissector {
		return NewDissector(registry, nil, nil)
	})
}

func TestEnginePoolAcquireRelease(t *testing.T) {
	pool := testPool(2, 50*time.Millisecond)
	assert.Equal(t, 2, pool.Size())
	first, err := pool.Acquire()
	require.NoError(t, err)
	second, err := pool.Acquire()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	pool.Release(first)
	pool.Release(second)
}

func TestEnginePoolExhaustion(t *testing.T) {
	pool := testPool(1, 50*time.Millisecond)
	engine, err := pool.Acquire()
	require.NoError(t, err)

	_, err = pool.Acquire()
	assert.Equal(t, ErrNoEngines, err)
	pool.Release(engine)

	// With the engine back, admission works again.
	engine, err = pool.Acquire()
	require.NoError(t, err)
	pool.Release(engine)
}

func TestEnginePoolReleaseResets(t *testing.T) {
	pool := testPool(1, 50*time.Millisecond)
	engine, err := pool.Acquire()
	require.NoError(t, err)
	root := NewRoot(&File{Name: "a.txt", Content: []byte("hi")}, nil, 0, 0)
	require.NoError(t, engine.Digest(root))
	assert.Same(t, root, engine.Root())

	pool.Release(engine)
	engine, err = pool.Acquire()
	require.NoError(t, err)
	assert.Nil(t, engine.Root())
	pool.Release(engine)
}

func TestEnginePoolMinimumSize(t *testing.T) {
	pool := testPool(0, 50*time.Millisecond)
	assert.Equal(t, 1, pool.Size())
}
