package pointcloud

import (
	"fmt"

	"github.com/banshee-data/tensorcloud/tensor"
)

// Attribute names with dedicated accessors.
const (
	AttrPoints  = "points"
	AttrColors  = "colors"
	AttrNormals = "normals"
)

// PointCloud is a named collection of row-aligned per-point tensors bound to
// one device. The "points" attribute is N x 3; every other attribute is
// treated as per-point data sharing the cloud's row count.
type PointCloud struct {
	device tensor.Device
	attrs  map[string]*tensor.Tensor
}

// New returns an empty point cloud bound to device.
func New(device tensor.Device) *PointCloud {
	return &PointCloud{
		device: device,
		attrs:  make(map[string]*tensor.Tensor),
	}
}

// FromPoints builds a point cloud from an N x 3 points tensor. The cloud's
// device affinity is taken from points.
func FromPoints(points *tensor.Tensor) (*PointCloud, error) {
	if err := points.AssertShape(-1, 3); err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	pc := New(points.Device())
	pc.attrs[AttrPoints] = points
	return pc, nil
}

// FromAttributes builds a point cloud from a name-to-tensor map. The map
// must contain "points" (N x 3); the device is taken from it. Other entries
// are carried through as-is: their row counts and devices are trusted to
// match the points tensor and are not cross-checked here.
func FromAttributes(attrs map[string]*tensor.Tensor) (*PointCloud, error) {
	points, ok := attrs[AttrPoints]
	if !ok || points == nil {
		return nil, ErrMissingAttribute
	}
	if err := points.AssertShape(-1, 3); err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	pc := New(points.Device())
	for name, t := range attrs {
		pc.attrs[name] = t
	}
	return pc, nil
}

// Device returns the cloud's device affinity.
func (pc *PointCloud) Device() tensor.Device { return pc.device }

// NumPoints returns the row count of the points attribute, or 0 for an
// empty cloud.
func (pc *PointCloud) NumPoints() int {
	points, ok := pc.attrs[AttrPoints]
	if !ok {
		return 0
	}
	return points.Dim(0)
}

// HasAttr reports whether the named attribute is present.
func (pc *PointCloud) HasAttr(name string) bool {
	_, ok := pc.attrs[name]
	return ok
}

// Attr returns the named attribute tensor. Callers that derive a new
// geometry from it must store the result with SetAttr; partial in-place row
// edits are outside the contract.
func (pc *PointCloud) Attr(name string) (*tensor.Tensor, bool) {
	t, ok := pc.attrs[name]
	return t, ok
}

// SetAttr replaces the named attribute wholesale.
func (pc *PointCloud) SetAttr(name string, t *tensor.Tensor) {
	pc.attrs[name] = t
}

// AttrNames returns the names of all present attributes, in no particular
// order.
func (pc *PointCloud) AttrNames() []string {
	names := make([]string, 0, len(pc.attrs))
	for name := range pc.attrs {
		names = append(names, name)
	}
	return names
}

// HasPoints reports whether the points attribute is set.
func (pc *PointCloud) HasPoints() bool { return pc.HasAttr(AttrPoints) }

// HasColors reports whether a colors attribute is set.
func (pc *PointCloud) HasColors() bool { return pc.HasAttr(AttrColors) }

// HasNormals reports whether a normals attribute is set.
func (pc *PointCloud) HasNormals() bool { return pc.HasAttr(AttrNormals) }

// Points returns the points tensor, or nil for an empty cloud.
func (pc *PointCloud) Points() *tensor.Tensor { return pc.attrs[AttrPoints] }

// Colors returns the colors tensor, or nil if absent.
func (pc *PointCloud) Colors() *tensor.Tensor { return pc.attrs[AttrColors] }

// Normals returns the normals tensor, or nil if absent.
func (pc *PointCloud) Normals() *tensor.Tensor { return pc.attrs[AttrNormals] }

// SetPoints replaces the points attribute. The tensor must be N x 3.
func (pc *PointCloud) SetPoints(points *tensor.Tensor) error {
	if err := points.AssertShape(-1, 3); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	pc.attrs[AttrPoints] = points
	return nil
}

// SetColors replaces the colors attribute.
func (pc *PointCloud) SetColors(colors *tensor.Tensor) { pc.attrs[AttrColors] = colors }

// SetNormals replaces the normals attribute.
func (pc *PointCloud) SetNormals(normals *tensor.Tensor) { pc.attrs[AttrNormals] = normals }

// points returns the points tensor or ErrMissingAttribute, for operations
// that require geometry.
func (pc *PointCloud) points() (*tensor.Tensor, error) {
	points, ok := pc.attrs[AttrPoints]
	if !ok {
		return nil, ErrMissingAttribute
	}
	return points, nil
}

// MinBound returns the per-axis minimum of the points as a length-3 tensor.
func (pc *PointCloud) MinBound() (*tensor.Tensor, error) {
	points, err := pc.points()
	if err != nil {
		return nil, err
	}
	return points.Min()
}

// MaxBound returns the per-axis maximum of the points as a length-3 tensor.
func (pc *PointCloud) MaxBound() (*tensor.Tensor, error) {
	points, err := pc.points()
	if err != nil {
		return nil, err
	}
	return points.Max()
}

// Center returns the centroid of the points as a length-3 tensor.
func (pc *PointCloud) Center() (*tensor.Tensor, error) {
	points, err := pc.points()
	if err != nil {
		return nil, err
	}
	return points.Mean()
}
