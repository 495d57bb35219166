package status

import (
	"math"
	"sync"
	"sync/atomic"
)

// Metrics holds lazily created counters of one kind keyed by name
// Stages resolve their pointers once; only first use of a key takes the write lock
type Metrics[T any] struct {
	mu     sync.RWMutex
	byName map[string]*T
}

func newMetrics[T any]() *Metrics[T] {
	return &Metrics[T]{byName: make(map[string]*T)}
}

// Get returns the metric for key, creating a zero value on first use
func (m *Metrics[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.byName[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok = m.byName[key]; !ok {
		ptr = new(T)
		m.byName[key] = ptr
	}
	return ptr
}

// export copies every metric into out using read
func (m *Metrics[T]) export(out map[string]float64, read func(*T) float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, ptr := range m.byName {
		out[k] = read(ptr)
	}
}

func (m *Metrics[T]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byName)
}

// Float is an atomically updated float64 gauge, zero value 0.0
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *Float) Load() float64 { return math.Float64frombits(f.bits.Load()) }

// Add accumulates delta with a CAS loop and returns the new total
func (f *Float) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
