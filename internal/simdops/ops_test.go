package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/simd/f64"
)

func TestFor_ReturnsMatchingInstances(t *testing.T) {
	assert.Same(t, Float64Ops(), For[float64]())
	assert.NotNil(t, For[float32]())
}

func TestOps_ScaleInPlace(t *testing.T) {
	ops := For[float64]()
	data := []float64{1, -2, 3, -4, 5}
	ops.Scale(data, data, 0.5)
	assert.Equal(t, []float64{0.5, -1, 1.5, -2, 2.5}, data)
}

func TestOps_SumAndDot(t *testing.T) {
	ops := For[float32]()
	a := []float32{1, 2, 3, 4}
	b := []float32{4, 3, 2, 1}
	assert.InDelta(t, 10, ops.Sum(a), 1e-6)
	assert.InDelta(t, 20, ops.DotProductUnsafe(a, b), 1e-6)
}

func TestOps_Interleave2(t *testing.T) {
	ops := For[float64]()
	left := []float64{1, 2, 3}
	right := []float64{-1, -2, -3}
	dst := make([]float64, 6)
	ops.Interleave2(dst, left, right)
	require.Len(t, dst, 6)
	assert.Equal(t, []float64{1, -1, 2, -2, 3, -3}, dst)
}

func TestBytesPerSample(t *testing.T) {
	assert.Equal(t, 4, BytesPerSample[float32]())
	assert.Equal(t, 8, BytesPerSample[float64]())
}

// BenchmarkDirectF64Scale measures direct SIMD call overhead.
func BenchmarkDirectF64Scale(b *testing.B) {
	a := make([]float64, 512)
	for i := range a {
		a[i] = float64(i) * 0.01
	}

	b.ReportAllocs()
	for b.Loop() {
		f64.Scale(a, a, 1.0000001)
	}
}

// BenchmarkIndirectF64Scale measures indirect call through the Ops struct.
func BenchmarkIndirectF64Scale(b *testing.B) {
	ops := For[float64]()
	a := make([]float64, 512)
	for i := range a {
		a[i] = float64(i) * 0.01
	}

	b.ReportAllocs()
	for b.Loop() {
		ops.Scale(a, a, 1.0000001)
	}
}
