package core

import (
	"time"

	"github.com/pkg/errors"
)

// ErrNoEngines is returned by EnginePool.Acquire when every engine stayed
// busy for the whole admission timeout. The service maps it to INTERNAL.
var ErrNoEngines = errors.New("no available engine instances")

// EnginePool is a fixed-size pool of reusable Dissector instances. Engines
// may carry caches and handles to heavy native resources; reuse amortizes
// those costs, and the bound limits concurrency into non-reentrant
// libraries. The free list is a buffered channel: tunny-style pools process
// closures and cannot lend an exclusive instance across an acquire/release
// span, which is exactly what callers need here.
type EnginePool struct {
	engines chan *Dissector
	timeout time.Duration
}

// NewEnginePool creates size engines with factory and an admission timeout
// for Acquire.
func NewEnginePool(size int, timeout time.Duration, factory func() *Dissector) *EnginePool {
	if size < 1 {
		size = 1
	}
	pool := &EnginePool{
		engines: make(chan *Dissector, size),
		timeout: timeout,
	}
	for i := 0; i < size; i++ {
		pool.engines <- factory()
	}
	return pool
}

// Acquire hands out an engine with exclusive access, blocking up to the
// pool's timeout. It fails with ErrNoEngines on exhaustion.
func (pool *EnginePool) Acquire() (*Dissector, error) {
	select {
	case engine := <-pool.engines:
		return engine, nil
	case <-time.After(pool.timeout):
		return nil, ErrNoEngines
	}
}

// Release resets the engine's per-request state and returns it to the free
// list. The engine must not be used afterwards.
func (pool *EnginePool) Release(engine *Dissector) {
	engine.Reset()
	pool.engines <- engine
}

// Size returns the fixed capacity of the pool.
func (pool *EnginePool) Size() int {
	return cap(pool.engines)
}
