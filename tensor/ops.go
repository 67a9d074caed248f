package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// binaryCheck validates device affinity and shape compatibility for an
// elementwise binary op. It returns broadcast=true when other is a rank-1
// vector applied across the rows of a rank-2 receiver.
func (t *Tensor) binaryCheck(other *Tensor) (broadcast bool, err error) {
	if err := other.AssertDevice(t.device); err != nil {
		return false, err
	}
	if shapeEqual(t.shape, other.shape) {
		return false, nil
	}
	if len(t.shape) == 2 && len(other.shape) == 1 && other.shape[0] == t.shape[1] {
		return true, nil
	}
	return false, fmt.Errorf("%w: cannot combine shapes %v and %v", ErrShapeMismatch, t.shape, other.shape)
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Add returns t + other. Shapes must match exactly, or other may be a
// rank-1 vector broadcast across the rows of a rank-2 t.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	out := t.Clone()
	if err := out.AddInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInPlace adds other into t, with the same shape rules as Add.
func (t *Tensor) AddInPlace(other *Tensor) error {
	broadcast, err := t.binaryCheck(other)
	if err != nil {
		return err
	}
	if !broadcast {
		for i := range t.data {
			t.data[i] += other.data[i]
		}
		return nil
	}
	cols := t.shape[1]
	for i := range t.data {
		t.data[i] += other.data[i%cols]
	}
	return nil
}

// Sub returns t - other, with the same shape rules as Add.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	out := t.Clone()
	if err := out.SubInPlace(other); err != nil {
		return nil, err
	}
	return out, nil
}

// SubInPlace subtracts other from t, with the same shape rules as Add.
func (t *Tensor) SubInPlace(other *Tensor) error {
	broadcast, err := t.binaryCheck(other)
	if err != nil {
		return err
	}
	if !broadcast {
		for i := range t.data {
			t.data[i] -= other.data[i]
		}
		return nil
	}
	cols := t.shape[1]
	for i := range t.data {
		t.data[i] -= other.data[i%cols]
	}
	return nil
}

// MulScalar returns t scaled by s.
func (t *Tensor) MulScalar(s float64) *Tensor {
	out := t.Clone()
	out.MulScalarInPlace(s)
	return out
}

// MulScalarInPlace scales every element of t by s.
func (t *Tensor) MulScalarInPlace(s float64) {
	for i := range t.data {
		t.data[i] *= s
	}
}

// DivScalar returns t divided elementwise by s. This is a true division,
// not a multiply by reciprocal; quantization paths rely on the extra ulp.
func (t *Tensor) DivScalar(s float64) *Tensor {
	out := t.Clone()
	for i := range out.data {
		out.data[i] /= s
	}
	return out
}

// MatMul returns the rank-2 matrix product t × other. The inner dimensions
// must agree and both operands must share a device.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	if err := other.AssertDevice(t.device); err != nil {
		return nil, err
	}
	if len(t.shape) != 2 || len(other.shape) != 2 {
		return nil, fmt.Errorf("%w: MatMul requires rank 2 operands, got %v and %v",
			ErrShapeMismatch, t.shape, other.shape)
	}
	if t.shape[1] != other.shape[0] {
		return nil, fmt.Errorf("%w: inner dimensions %v x %v", ErrShapeMismatch, t.shape, other.shape)
	}
	m, k, n := t.shape[0], t.shape[1], other.shape[1]
	if m == 0 || n == 0 {
		return Zeros([]int{m, n}, t.dtype, t.device), nil
	}
	a := mat.NewDense(m, k, append([]float64(nil), t.data...))
	b := mat.NewDense(k, n, append([]float64(nil), other.data...))
	var c mat.Dense
	c.Mul(a, b)
	rm := c.RawMatrix()
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		copy(out[i*n:(i+1)*n], rm.Data[i*rm.Stride:i*rm.Stride+n])
	}
	return &Tensor{shape: []int{m, n}, dtype: t.dtype, device: t.device, data: out}, nil
}

// T returns the transpose of a rank-2 tensor.
func (t *Tensor) T() (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("%w: T requires rank 2, got shape %v", ErrShapeMismatch, t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	out := make([]float64, len(t.data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = t.data[i*cols+j]
		}
	}
	return &Tensor{shape: []int{cols, rows}, dtype: t.dtype, device: t.device, data: out}, nil
}

type reduceKind int

const (
	reduceMin reduceKind = iota
	reduceMax
	reduceMean
)

// Min reduces a rank-2 tensor along axis 0, returning the per-column minima.
func (t *Tensor) Min() (*Tensor, error) { return t.reduce0(reduceMin) }

// Max reduces a rank-2 tensor along axis 0, returning the per-column maxima.
func (t *Tensor) Max() (*Tensor, error) { return t.reduce0(reduceMax) }

// Mean reduces a rank-2 tensor along axis 0, returning the per-column means.
func (t *Tensor) Mean() (*Tensor, error) { return t.reduce0(reduceMean) }

func (t *Tensor) reduce0(kind reduceKind) (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("%w: axis reduction requires rank 2, got shape %v", ErrShapeMismatch, t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	if rows == 0 {
		return nil, fmt.Errorf("%w: axis reduction over zero rows", ErrShapeMismatch)
	}
	out := make([]float64, cols)
	copy(out, t.data[:cols])
	for i := 1; i < rows; i++ {
		row := t.data[i*cols : (i+1)*cols]
		for j, v := range row {
			switch kind {
			case reduceMin:
				if v < out[j] {
					out[j] = v
				}
			case reduceMax:
				if v > out[j] {
					out[j] = v
				}
			case reduceMean:
				out[j] += v
			}
		}
	}
	if kind == reduceMean {
		inv := 1 / float64(rows)
		for j := range out {
			out[j] *= inv
		}
	}
	return &Tensor{shape: []int{cols}, dtype: t.dtype, device: t.device, data: out}, nil
}

// Floor returns the elementwise arithmetic floor. Unlike an integer cast,
// Floor rounds toward negative infinity, so -0.1 becomes -1.
func (t *Tensor) Floor() *Tensor {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = math.Floor(v)
	}
	return out
}

// AsType returns a copy of t with the logical element type changed.
// Casting to an integer dtype truncates toward zero; casting to Bool maps
// nonzero to 1. Callers needing floor semantics on negative values must
// apply Floor before the cast.
func (t *Tensor) AsType(dt DType) *Tensor {
	out := t.Clone()
	out.dtype = dt
	switch {
	case dt.IsInteger():
		for i, v := range out.data {
			out.data[i] = math.Trunc(v)
		}
	case dt == Bool:
		for i, v := range out.data {
			if v != 0 {
				out.data[i] = 1
			}
		}
	case dt == Float32:
		for i, v := range out.data {
			out.data[i] = float64(float32(v))
		}
	}
	return out
}
