package font

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic/core"
)

func TestGoMetricsMeasure(t *testing.T) {
	m, err := NewGoMetrics()
	require.NoError(t, err)

	w8, err := m.Measure("501", core.Regular, 8)
	require.NoError(t, err)
	assert.Greater(t, w8, 0.0)

	w16, err := m.Measure("501", core.Regular, 16)
	require.NoError(t, err)
	assert.InDelta(t, 2*w8, w16, 0.1, "width scales with size")

	again, err := m.Measure("501", core.Regular, 8)
	require.NoError(t, err)
	assert.Equal(t, w8, again)

	regular, err := m.Measure("Sensor", core.Regular, 10)
	require.NoError(t, err)
	bold, err := m.Measure("Sensor", core.Bold, 10)
	require.NoError(t, err)
	assert.Greater(t, bold, regular)

	empty, err := m.Measure("", core.Italic, 10)
	require.NoError(t, err)
	assert.Zero(t, empty)

	_, err = m.Measure("x", core.Regular, 0)
	assert.Error(t, err)
}

func TestGoMetricsConcurrent(t *testing.T) {
	m, err := NewGoMetrics()
	require.NoError(t, err)
	want, err := m.Measure("Control block", core.Bold, 9)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Measure("Control block", core.Bold, 9)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestGoMetricsFaceCacheIsBounded(t *testing.T) {
	m, err := NewGoMetrics()
	require.NoError(t, err)
	want, err := m.Measure("501", core.Regular, 8)
	require.NoError(t, err)

	for i := 1; i <= 5000; i++ {
		_, err := m.Measure("501", core.Regular, 8+float64(i)/100)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(m.faces), maxCachedFaces)
	}

	got, err := m.Measure("501", core.Regular, 8)
	require.NoError(t, err)
	assert.Equal(t, want, got, "an evicted face measures the same when rebuilt")
}

func TestMono(t *testing.T) {
	m, err := NewMono()
	require.NoError(t, err)

	w, err := m.Measure("501", core.Bold, 10)
	require.NoError(t, err)
	assert.InDelta(t, 18, w, 1e-9)

	wide, err := m.Measure("日本", core.Regular, 10)
	require.NoError(t, err)
	assert.InDelta(t, 24, wide, 1e-9)

	face, err := m.Face(core.Regular, 12)
	require.NoError(t, err)
	assert.NotNil(t, face)
}

func TestNew(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &GoMetrics{}, p)

	p, err = New(ProviderMono)
	require.NoError(t, err)
	assert.IsType(t, &Mono{}, p)

	_, err = New("helvetica")
	assert.Error(t, err)
}
