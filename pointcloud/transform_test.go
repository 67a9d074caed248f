package pointcloud

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tensorcloud/tensor"
)

// rigidZ builds a 4x4 homogeneous transform rotating by angle about +Z and
// translating by (tx, ty, tz).
func rigidZ(t *testing.T, angle, tx, ty, tz float64) *tensor.Tensor {
	t.Helper()
	c, s := math.Cos(angle), math.Sin(angle)
	m, err := tensor.New([]float64{
		c, -s, 0, tx,
		s, c, 0, ty,
		0, 0, 1, tz,
		0, 0, 0, 1,
	}, []int{4, 4}, tensor.Float64, tensor.CPU0)
	require.NoError(t, err)
	return m
}

// inverseRigid inverts a rigid transform: R' = R^T, t' = -R^T t.
func inverseRigid(t *testing.T, m *tensor.Tensor) *tensor.Tensor {
	t.Helper()
	inv := make([]float64, 16)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv[i*4+j] = m.At2(j, i)
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv[i*4+3] -= m.At2(j, i) * m.At2(j, 3)
		}
	}
	inv[15] = 1
	out, err := tensor.New(inv, []int{4, 4}, tensor.Float64, tensor.CPU0)
	require.NoError(t, err)
	return out
}

func assertRowsInDelta(t *testing.T, want [][3]float64, got *tensor.Tensor, tol float64) {
	t.Helper()
	require.Equal(t, []int{len(want), 3}, got.Shape())
	for i, w := range want {
		row := got.Row(i)
		for j := 0; j < 3; j++ {
			assert.InDelta(t, w[j], row[j], tol, "row %d axis %d", i, j)
		}
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	t.Parallel()
	pts := [][3]float64{{1, 0, 0}, {0, 2, 0}, {-1, -1, 3}}
	norms := [][3]float64{{1, 0, 0}, {0, 0, 1}, {0, 1, 0}}
	pc, err := FromPoints(points3(t, pts))
	require.NoError(t, err)
	pc.SetNormals(points3(t, norms))

	m := rigidZ(t, 0.7, 2, -1, 4)
	_, err = pc.Transform(m)
	require.NoError(t, err)
	_, err = pc.Transform(inverseRigid(t, m))
	require.NoError(t, err)

	assertRowsInDelta(t, pts, pc.Points(), 1e-9)
	assertRowsInDelta(t, norms, pc.Normals(), 1e-9)
}

func TestTransform_AppliesRotationAndTranslation(t *testing.T) {
	t.Parallel()
	pc, err := FromPoints(points3(t, [][3]float64{{1, 0, 0}}))
	require.NoError(t, err)
	pc.SetNormals(points3(t, [][3]float64{{1, 0, 0}}))

	// Quarter turn about Z plus a shift.
	ret, err := pc.Transform(rigidZ(t, math.Pi/2, 10, 20, 30))
	require.NoError(t, err)
	assert.Same(t, pc, ret, "Transform chains on the receiver")

	assertRowsInDelta(t, [][3]float64{{10, 21, 30}}, pc.Points(), 1e-12)
	// Normals rotate but do not translate.
	assertRowsInDelta(t, [][3]float64{{0, 1, 0}}, pc.Normals(), 1e-12)
}

func TestTransform_Validation(t *testing.T) {
	t.Parallel()
	orig := [][3]float64{{1, 2, 3}}
	pc, err := FromPoints(points3(t, orig))
	require.NoError(t, err)

	t.Run("wrong shape", func(t *testing.T) {
		_, err := pc.Transform(tensor.Zeros([]int{3, 3}, tensor.Float64, tensor.CPU0))
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("wrong device", func(t *testing.T) {
		m := tensor.Zeros([]int{4, 4}, tensor.Float64, tensor.Device{Type: tensor.CUDA})
		_, err := pc.Transform(m)
		assert.ErrorIs(t, err, ErrDeviceMismatch)
	})

	t.Run("failed calls leave the cloud untouched", func(t *testing.T) {
		assertRowsInDelta(t, orig, pc.Points(), 0)
	})

	t.Run("empty cloud", func(t *testing.T) {
		_, err := New(tensor.CPU0).Transform(rigidZ(t, 0, 0, 0, 0))
		assert.ErrorIs(t, err, ErrMissingAttribute)
	})
}

func TestTranslate_Absolute(t *testing.T) {
	t.Parallel()
	// relative=false interprets v as the target centroid.
	pc, err := FromPoints(points3(t, [][3]float64{
		{1, 1, 1}, {-1, -1, -1}, {2, 0, -2}, {-2, 0, 2},
	}))
	require.NoError(t, err)

	_, err = pc.Translate(vec3(t, 1, 2, 3), false)
	require.NoError(t, err)

	c, err := pc.Center()
	require.NoError(t, err)
	assert.InDelta(t, 1, c.At(0), 1e-12)
	assert.InDelta(t, 2, c.At(1), 1e-12)
	assert.InDelta(t, 3, c.At(2), 1e-12)
}

func TestTranslate_Relative(t *testing.T) {
	t.Parallel()
	pc, err := FromPoints(points3(t, [][3]float64{{1, 1, 1}, {5, 5, 5}}))
	require.NoError(t, err)

	_, err = pc.Translate(vec3(t, 1, 2, 3), true)
	require.NoError(t, err)
	assertRowsInDelta(t, [][3]float64{{2, 3, 4}, {6, 7, 8}}, pc.Points(), 1e-12)
}

func TestTranslate_Validation(t *testing.T) {
	t.Parallel()
	pc, err := FromPoints(points3(t, [][3]float64{{0, 0, 0}}))
	require.NoError(t, err)

	bad, err := tensor.New([]float64{1, 2}, []int{2}, tensor.Float64, tensor.CPU0)
	require.NoError(t, err)
	_, err = pc.Translate(bad, true)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	off := tensor.Zeros([]int{3}, tensor.Float64, tensor.Device{Type: tensor.CUDA})
	_, err = pc.Translate(off, true)
	assert.ErrorIs(t, err, ErrDeviceMismatch)
}

func TestScale_RoundTrip(t *testing.T) {
	t.Parallel()
	pts := [][3]float64{{1, 2, 3}, {-4, 0, 2}}
	pc, err := FromPoints(points3(t, pts))
	require.NoError(t, err)
	norms := [][3]float64{{0, 0, 1}, {1, 0, 0}}
	pc.SetNormals(points3(t, norms))

	center := vec3(t, 1, -1, 0)
	_, err = pc.Scale(3, center)
	require.NoError(t, err)
	_, err = pc.Scale(1.0/3, center)
	require.NoError(t, err)

	assertRowsInDelta(t, pts, pc.Points(), 1e-12)
	// Normals are never scaled or renormalized.
	assertRowsInDelta(t, norms, pc.Normals(), 0)
}

func TestScale_AboutCenter(t *testing.T) {
	t.Parallel()
	pc, err := FromPoints(points3(t, [][3]float64{{2, 0, 0}}))
	require.NoError(t, err)

	_, err = pc.Scale(2, vec3(t, 1, 0, 0))
	require.NoError(t, err)
	assertRowsInDelta(t, [][3]float64{{3, 0, 0}}, pc.Points(), 1e-12)
}

func TestRotate(t *testing.T) {
	t.Parallel()
	// Quarter turn about Z.
	r, err := tensor.New([]float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	}, []int{3, 3}, tensor.Float64, tensor.CPU0)
	require.NoError(t, err)

	t.Run("about origin", func(t *testing.T) {
		t.Parallel()
		pc, err := FromPoints(points3(t, [][3]float64{{1, 0, 0}}))
		require.NoError(t, err)
		pc.SetNormals(points3(t, [][3]float64{{0, 1, 0}}))

		_, err = pc.Rotate(r, vec3(t, 0, 0, 0))
		require.NoError(t, err)
		assertRowsInDelta(t, [][3]float64{{0, 1, 0}}, pc.Points(), 1e-12)
		assertRowsInDelta(t, [][3]float64{{-1, 0, 0}}, pc.Normals(), 1e-12)
	})

	t.Run("about offset center", func(t *testing.T) {
		t.Parallel()
		pc, err := FromPoints(points3(t, [][3]float64{{2, 0, 0}}))
		require.NoError(t, err)

		_, err = pc.Rotate(r, vec3(t, 1, 0, 0))
		require.NoError(t, err)
		// (2,0,0)-(1,0,0) rotates to (0,1,0), recentred to (1,1,0).
		assertRowsInDelta(t, [][3]float64{{1, 1, 0}}, pc.Points(), 1e-12)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		pc, err := FromPoints(points3(t, [][3]float64{{0, 0, 0}}))
		require.NoError(t, err)

		_, err = pc.Rotate(tensor.Zeros([]int{4, 4}, tensor.Float64, tensor.CPU0), vec3(t, 0, 0, 0))
		assert.ErrorIs(t, err, ErrShapeMismatch)

		offDevice := tensor.Zeros([]int{3}, tensor.Float64, tensor.Device{Type: tensor.CUDA})
		_, err = pc.Rotate(r, offDevice)
		assert.ErrorIs(t, err, ErrDeviceMismatch)
	})
}
