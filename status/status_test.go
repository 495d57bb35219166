package status

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsGetIsStable(t *testing.T) {
	r := NewRegistry()

	a := r.Ints.Get(KeyTicks)
	b := r.Ints.Get(KeyTicks)
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())
}

func TestMetricsConcurrentGet(t *testing.T) {
	m := newMetrics[atomic.Int64]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Get("shared").Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1600), m.Get("shared").Load())
	assert.Equal(t, 1, m.len())
}

func TestFloat(t *testing.T) {
	var f Float
	assert.Equal(t, 0.0, f.Load())

	f.Store(1.5)
	assert.Equal(t, 1.5, f.Load())
	assert.Equal(t, 4.0, f.Add(2.5))
}

func TestFloatConcurrentAdd(t *testing.T) {
	var f Float
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				f.Add(0.5)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000.0, f.Load())
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyTicks).Store(7)
	r.Floats.Get(KeyDistance).Store(12.5)

	snap := r.Snapshot()
	assert.Equal(t, map[string]float64{KeyTicks: 7, KeyDistance: 12.5}, snap)
	assert.Equal(t, 2, r.Len())
}
