package pointcloud

import (
	"fmt"

	"github.com/banshee-data/tensorcloud/tensor"
)

// Transform applies a 4x4 homogeneous transform to the cloud in place:
// points become R*p + t where R is the upper-left 3x3 rotation block and t
// the 3x1 translation column. Normals, when present, are rotated only
// (directions are translation-invariant). Returns the receiver for
// chaining.
//
// Every argument check and every derived tensor is computed before the first
// attribute is replaced, so a failing call leaves the cloud unchanged.
func (pc *PointCloud) Transform(m *tensor.Tensor) (*PointCloud, error) {
	if err := m.AssertShape(4, 4); err != nil {
		return nil, fmt.Errorf("transformation: %w", err)
	}
	if err := m.AssertDevice(pc.device); err != nil {
		return nil, fmt.Errorf("transformation: %w", err)
	}
	points, err := pc.points()
	if err != nil {
		return nil, err
	}

	top, err := m.Slice(0, 0, 3)
	if err != nil {
		return nil, err
	}
	r, err := top.Slice(1, 0, 3)
	if err != nil {
		return nil, err
	}
	tCol, err := top.Slice(1, 3, 4)
	if err != nil {
		return nil, err
	}

	rt, err := r.T()
	if err != nil {
		return nil, err
	}
	// Row-vector application: p' = p * R^T + t.
	newPoints, err := points.MatMul(rt)
	if err != nil {
		return nil, err
	}
	if err := newPoints.AddInPlace(tCol.Flatten()); err != nil {
		return nil, err
	}

	var newNormals *tensor.Tensor
	if normals := pc.Normals(); normals != nil {
		newNormals, err = normals.MatMul(rt)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	pc.attrs[AttrPoints] = newPoints
	if newNormals != nil {
		pc.attrs[AttrNormals] = newNormals
	}
	return pc, nil
}

// Translate shifts the points by a length-3 vector. With relative true, v is
// added directly; with relative false, v names the target centroid and the
// effective shift is v minus the current centroid.
func (pc *PointCloud) Translate(v *tensor.Tensor, relative bool) (*PointCloud, error) {
	if err := v.AssertShape(3); err != nil {
		return nil, fmt.Errorf("translation: %w", err)
	}
	if err := v.AssertDevice(pc.device); err != nil {
		return nil, fmt.Errorf("translation: %w", err)
	}
	points, err := pc.points()
	if err != nil {
		return nil, err
	}

	shift := v
	if !relative {
		center, err := points.Mean()
		if err != nil {
			return nil, err
		}
		shift, err = v.Sub(center)
		if err != nil {
			return nil, err
		}
	}
	newPoints, err := points.Add(shift)
	if err != nil {
		return nil, err
	}

	pc.attrs[AttrPoints] = newPoints
	return pc, nil
}

// Scale rescales the points about a length-3 center: p' = (p - c)*s + c.
// Normals are deliberately left untouched; they are never renormalized.
func (pc *PointCloud) Scale(s float64, center *tensor.Tensor) (*PointCloud, error) {
	if err := center.AssertShape(3); err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	if err := center.AssertDevice(pc.device); err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	points, err := pc.points()
	if err != nil {
		return nil, err
	}

	newPoints, err := points.Sub(center)
	if err != nil {
		return nil, err
	}
	newPoints.MulScalarInPlace(s)
	if err := newPoints.AddInPlace(center); err != nil {
		return nil, err
	}

	pc.attrs[AttrPoints] = newPoints
	return pc, nil
}

// Rotate applies a 3x3 rotation about a length-3 center: p' = R*(p - c) + c.
// Normals, when present, are rotated without centering.
func (pc *PointCloud) Rotate(r, center *tensor.Tensor) (*PointCloud, error) {
	if err := r.AssertShape(3, 3); err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	if err := r.AssertDevice(pc.device); err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	if err := center.AssertShape(3); err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	if err := center.AssertDevice(pc.device); err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	points, err := pc.points()
	if err != nil {
		return nil, err
	}

	rt, err := r.T()
	if err != nil {
		return nil, err
	}
	centered, err := points.Sub(center)
	if err != nil {
		return nil, err
	}
	newPoints, err := centered.MatMul(rt)
	if err != nil {
		return nil, err
	}
	if err := newPoints.AddInPlace(center); err != nil {
		return nil, err
	}

	var newNormals *tensor.Tensor
	if normals := pc.Normals(); normals != nil {
		newNormals, err = normals.MatMul(rt)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	pc.attrs[AttrPoints] = newPoints
	if newNormals != nil {
		pc.attrs[AttrNormals] = newNormals
	}
	return pc, nil
}
