package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ShapeValidation(t *testing.T) {
	t.Parallel()

	t.Run("element count must match shape", func(t *testing.T) {
		t.Parallel()
		_, err := New([]float64{1, 2, 3}, []int{2, 2}, Float64, CPU0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("valid 2x3", func(t *testing.T) {
		t.Parallel()
		tt, err := New([]float64{1, 2, 3, 4, 5, 6}, []int{2, 3}, Float64, CPU0)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, tt.Shape())
		assert.Equal(t, 6.0, tt.At2(1, 2))
	})

	t.Run("input slice is copied", func(t *testing.T) {
		t.Parallel()
		src := []float64{1, 2, 3}
		tt, err := New(src, []int{3}, Float64, CPU0)
		require.NoError(t, err)
		src[0] = 99
		assert.Equal(t, 1.0, tt.At(0))
	})
}

func TestZeros_NegativeDimensionCoerced(t *testing.T) {
	t.Parallel()
	tt := Zeros([]int{-1, 3}, Float64, CPU0)
	assert.Equal(t, []int{0}, tt.Shape())
	assert.Equal(t, 0, tt.Len())
}

func TestAssertShape(t *testing.T) {
	t.Parallel()
	pts, err := New([]float64{0, 0, 0, 1, 1, 1}, []int{2, 3}, Float64, CPU0)
	require.NoError(t, err)

	assert.NoError(t, pts.AssertShape(2, 3))
	assert.NoError(t, pts.AssertShape(-1, 3), "wildcard rows")
	assert.ErrorIs(t, pts.AssertShape(-1, 4), ErrShapeMismatch)
	assert.ErrorIs(t, pts.AssertShape(6), ErrShapeMismatch, "rank mismatch")
}

func TestAssertDevice(t *testing.T) {
	t.Parallel()
	tt := Zeros([]int{3}, Float64, CPU0)
	assert.NoError(t, tt.AssertDevice(CPU0))
	assert.ErrorIs(t, tt.AssertDevice(Device{Type: CUDA}), ErrDeviceMismatch)
}

func TestSlice(t *testing.T) {
	t.Parallel()
	// 4x4 transform layout: rotation block and translation column.
	m, err := New([]float64{
		1, 0, 0, 10,
		0, 1, 0, 20,
		0, 0, 1, 30,
		0, 0, 0, 1,
	}, []int{4, 4}, Float64, CPU0)
	require.NoError(t, err)

	r, err := m.Slice(0, 0, 3)
	require.NoError(t, err)
	r, err = r.Slice(1, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, r.Shape())
	assert.Equal(t, 1.0, r.At2(2, 2))

	tr, err := m.Slice(0, 0, 3)
	require.NoError(t, err)
	tr, err = tr.Slice(1, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, tr.Shape())
	assert.Equal(t, []float64{10}, tr.Row(0))
	assert.Equal(t, []float64{30}, tr.Row(2))

	_, err = m.Slice(0, 2, 5)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRows(t *testing.T) {
	t.Parallel()
	pts := FromRows([][3]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}, Float64, CPU0)

	got, err := pts.Rows([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, got.Shape())
	assert.Equal(t, []float64{2, 2, 2}, got.Row(0))
	assert.Equal(t, []float64{0, 0, 0}, got.Row(1))

	_, err = pts.Rows([]int{3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRows_Rank1(t *testing.T) {
	t.Parallel()
	intensity, err := New([]float64{10, 20, 30, 40}, []int{4}, Float64, CPU0)
	require.NoError(t, err)

	got, err := intensity.Rows([]int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got.Shape())
	assert.Equal(t, 40.0, got.At(0))
	assert.Equal(t, 20.0, got.At(1))
}

func TestTrueIndices(t *testing.T) {
	t.Parallel()
	mask, err := New([]float64{1, 0, 0, 1, 1}, []int{5}, Bool, CPU0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4}, mask.TrueIndices())
}

func TestClone_NoAliasing(t *testing.T) {
	t.Parallel()
	a := Zeros([]int{2, 2}, Float64, CPU0)
	b := a.Clone()
	b.MulScalarInPlace(0) // touch b's storage
	b.data[0] = 7
	assert.Equal(t, 0.0, a.At2(0, 0))
}
