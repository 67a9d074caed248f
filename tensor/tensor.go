package tensor

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the engine and the geometry layers built on it.
// Callers match with errors.Is.
var (
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrDeviceMismatch = errors.New("device mismatch")
)

// Tensor is a dense row-major array with a shape, a logical element type and
// a device affinity. See the package comment for the storage model.
type Tensor struct {
	shape  []int
	dtype  DType
	device Device
	data   []float64
}

// New builds a tensor over a copy of data. The data length must equal the
// product of the shape dimensions.
func New(data []float64, shape []int, dtype DType, device Device) (*Tensor, error) {
	n := numElements(shape)
	if n < 0 {
		return nil, fmt.Errorf("%w: negative dimension in shape %v", ErrShapeMismatch, shape)
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: %d elements for shape %v (want %d)", ErrShapeMismatch, len(data), shape, n)
	}
	return &Tensor{
		shape:  append([]int(nil), shape...),
		dtype:  dtype,
		device: device,
		data:   append([]float64(nil), data...),
	}, nil
}

// Zeros builds a zero-filled tensor. A shape containing a negative
// dimension is coerced to the empty shape [0]; unlike New, Zeros has no
// caller-supplied data to cross-check, so it stays infallible.
func Zeros(shape []int, dtype DType, device Device) *Tensor {
	n := numElements(shape)
	if n < 0 {
		n = 0
		shape = []int{0}
	}
	return &Tensor{
		shape:  append([]int(nil), shape...),
		dtype:  dtype,
		device: device,
		data:   make([]float64, n),
	}
}

// Scalar builds a rank-0 tensor holding a single value. Scalars participate
// in kernel dispatch marshaling where parameters ride alongside arrays.
func Scalar(v float64, dtype DType, device Device) *Tensor {
	return &Tensor{
		shape:  []int{},
		dtype:  dtype,
		device: device,
		data:   []float64{v},
	}
}

// FromRows builds an N x 3 tensor from host per-point vectors.
func FromRows(rows [][3]float64, dtype DType, device Device) *Tensor {
	data := make([]float64, 0, len(rows)*3)
	for _, r := range rows {
		data = append(data, r[0], r[1], r[2])
	}
	return &Tensor{
		shape:  []int{len(rows), 3},
		dtype:  dtype,
		device: device,
		data:   data,
	}
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return -1
		}
		n *= d
	}
	return n
}

// Shape returns a copy of the tensor's dimensions.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// NumDims returns the tensor's rank.
func (t *Tensor) NumDims() int { return len(t.shape) }

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int { return t.shape[i] }

// Len returns the total element count.
func (t *Tensor) Len() int { return len(t.data) }

// Dtype returns the logical element type.
func (t *Tensor) Dtype() DType { return t.dtype }

// Device returns the device affinity.
func (t *Tensor) Device() Device { return t.device }

// At returns element i of a rank-1 (or rank-0, i==0) tensor.
func (t *Tensor) At(i int) float64 { return t.data[i] }

// At2 returns element (i, j) of a rank-2 tensor.
func (t *Tensor) At2(i, j int) float64 { return t.data[i*t.shape[1]+j] }

// Clone returns a deep copy sharing no storage with the receiver.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape:  append([]int(nil), t.shape...),
		dtype:  t.dtype,
		device: t.device,
		data:   append([]float64(nil), t.data...),
	}
}

// AssertShape checks the tensor's shape against want, where -1 matches any
// size in that dimension. The error wraps ErrShapeMismatch.
func (t *Tensor) AssertShape(want ...int) error {
	if len(t.shape) != len(want) {
		return fmt.Errorf("%w: rank %d, want %d (shape %v vs %v)",
			ErrShapeMismatch, len(t.shape), len(want), t.shape, want)
	}
	for i, w := range want {
		if w >= 0 && t.shape[i] != w {
			return fmt.Errorf("%w: shape %v, want %v", ErrShapeMismatch, t.shape, want)
		}
	}
	return nil
}

// AssertDevice checks the tensor's device affinity. The error wraps
// ErrDeviceMismatch.
func (t *Tensor) AssertDevice(d Device) error {
	if t.device != d {
		return fmt.Errorf("%w: tensor on %s, want %s", ErrDeviceMismatch, t.device, d)
	}
	return nil
}

// Slice copies the half-open range [start, stop) along dim of a rank-2
// tensor into a new tensor.
func (t *Tensor) Slice(dim, start, stop int) (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("%w: Slice requires rank 2, got shape %v", ErrShapeMismatch, t.shape)
	}
	if dim < 0 || dim > 1 || start < 0 || stop > t.shape[dim] || start > stop {
		return nil, fmt.Errorf("%w: slice [%d:%d) of dim %d out of range for shape %v",
			ErrShapeMismatch, start, stop, dim, t.shape)
	}
	rows, cols := t.shape[0], t.shape[1]
	if dim == 0 {
		out := make([]float64, (stop-start)*cols)
		copy(out, t.data[start*cols:stop*cols])
		return &Tensor{shape: []int{stop - start, cols}, dtype: t.dtype, device: t.device, data: out}, nil
	}
	out := make([]float64, rows*(stop-start))
	for i := 0; i < rows; i++ {
		copy(out[i*(stop-start):], t.data[i*cols+start:i*cols+stop])
	}
	return &Tensor{shape: []int{rows, stop - start}, dtype: t.dtype, device: t.device, data: out}, nil
}

// Rows gathers the given indices along dimension 0 of a tensor of any rank,
// in order, into a new tensor. A rank-1 tensor gathers single elements; a
// rank-2 tensor gathers rows. Indices may repeat.
func (t *Tensor) Rows(indices []int) (*Tensor, error) {
	if len(t.shape) < 1 {
		return nil, fmt.Errorf("%w: Rows requires rank >= 1, got shape %v", ErrShapeMismatch, t.shape)
	}
	stride := 1
	for _, d := range t.shape[1:] {
		stride *= d
	}
	out := make([]float64, 0, len(indices)*stride)
	for _, i := range indices {
		if i < 0 || i >= t.shape[0] {
			return nil, fmt.Errorf("%w: row index %d out of range [0,%d)", ErrShapeMismatch, i, t.shape[0])
		}
		out = append(out, t.data[i*stride:(i+1)*stride]...)
	}
	shape := append([]int{len(indices)}, t.shape[1:]...)
	return &Tensor{shape: shape, dtype: t.dtype, device: t.device, data: out}, nil
}

// TrueIndices returns the positions of nonzero elements of a rank-1 Bool
// tensor, in ascending order.
func (t *Tensor) TrueIndices() []int {
	idx := make([]int, 0, len(t.data))
	for i, v := range t.data {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Flatten returns a rank-1 copy of the tensor's elements in row-major order.
func (t *Tensor) Flatten() *Tensor {
	return &Tensor{
		shape:  []int{len(t.data)},
		dtype:  t.dtype,
		device: t.device,
		data:   append([]float64(nil), t.data...),
	}
}

// To returns a copy of the tensor materialized on device d.
func (t *Tensor) To(d Device) *Tensor {
	out := t.Clone()
	out.device = d
	return out
}

// Row returns row i of a rank-2 tensor as a host slice copy.
func (t *Tensor) Row(i int) []float64 {
	cols := t.shape[1]
	return append([]float64(nil), t.data[i*cols:(i+1)*cols]...)
}
