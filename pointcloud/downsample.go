package pointcloud

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/banshee-data/tensorcloud/internal/logging"
	"github.com/banshee-data/tensorcloud/parhash"
	"github.com/banshee-data/tensorcloud/tensor"
)

// VoxelDownSample returns a new point cloud with at most one point per voxel
// cell of the given size. Points are quantized by an arithmetic floor of
// coordinate/voxelSize per axis (so negative coordinates land in the correct
// cell), deduplicated through a concurrent hash-table insert, and the
// survivors' cell coordinates are rescaled by voxelSize. Output points are
// therefore voxel anchors, not raw input points and not averages.
//
// All other attributes are gathered at the surviving rows, the same row per
// cell across every attribute. Which of several points sharing a cell
// survives is unspecified. The receiver is never mutated and the result
// shares no storage with it.
func (pc *PointCloud) VoxelDownSample(voxelSize float64) (*PointCloud, error) {
	if voxelSize <= 0 {
		return nil, fmt.Errorf("%w: voxel size %v, want > 0", ErrInvalidArgument, voxelSize)
	}
	points, err := pc.points()
	if err != nil {
		return nil, err
	}
	n := points.Dim(0)
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot downsample an empty point cloud", ErrInvalidArgument)
	}

	// Quantize to integer cell coordinates. Floor before the cast: a bare
	// integer cast truncates toward zero and would fold cells -1 and 0
	// together near the origin.
	cells := points.DivScalar(voxelSize).Floor().AsType(tensor.Int64)

	table, err := parhash.New(n, tensor.Int64, tensor.Int32, []int{3}, []int{1}, pc.device)
	if err != nil {
		return nil, err
	}
	_, claimed, err := table.Activate(cells)
	if err != nil {
		return nil, err
	}
	survivors := claimed.TrueIndices()

	anchors, err := cells.Rows(survivors)
	if err != nil {
		return nil, err
	}
	down := map[string]*tensor.Tensor{
		AttrPoints: anchors.AsType(points.Dtype()).MulScalar(voxelSize),
	}
	for name, attr := range pc.attrs {
		if name == AttrPoints {
			continue
		}
		gathered, err := attr.Rows(survivors)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		down[name] = gathered
	}

	logging.L().Debug("voxel downsample",
		zap.Float64("voxel_size", voxelSize),
		zap.Int("points_in", n),
		zap.Int("points_out", len(survivors)))

	return FromAttributes(down)
}
