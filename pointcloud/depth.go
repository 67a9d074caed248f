package pointcloud

import (
	"fmt"

	"github.com/banshee-data/tensorcloud/kernel"
	"github.com/banshee-data/tensorcloud/tensor"
)

// Dispatcher launches a generalized elementwise kernel. It is satisfied by
// *kernel.Registry; tests substitute mocks.
type Dispatcher interface {
	Dispatch(op kernel.Op, srcs map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error)
}

// CreateFromDepthImage builds a point cloud by unprojecting a depth image
// through the default kernel registry. depth is H x W in raw sensor units,
// intrinsics is the 3x3 pinhole matrix, depthScale divides raw units into
// metres, depthMax clips far returns and stride subsamples pixels.
func CreateFromDepthImage(depth, intrinsics *tensor.Tensor, depthScale, depthMax float64, stride int) (*PointCloud, error) {
	return CreateFromDepthImageUsing(kernel.Default, depth, intrinsics, depthScale, depthMax, stride)
}

// CreateFromDepthImageUsing is CreateFromDepthImage against an explicit
// dispatcher. This layer only marshals parameters and validates the output;
// the unprojection math lives behind the dispatch. Intrinsics and the scalar
// parameters are materialized onto the depth image's device before launch.
func CreateFromDepthImageUsing(d Dispatcher, depth, intrinsics *tensor.Tensor, depthScale, depthMax float64, stride int) (*PointCloud, error) {
	device := depth.Device()
	srcs := map[string]*tensor.Tensor{
		"depth":       depth,
		"intrinsics":  intrinsics.To(device),
		"depth_scale": tensor.Scalar(depthScale, tensor.Float32, device),
		"depth_max":   tensor.Scalar(depthMax, tensor.Float32, device),
		"stride":      tensor.Scalar(float64(stride), tensor.Int64, device),
	}

	dsts, err := d.Dispatch(kernel.Unproject, srcs)
	if err != nil {
		return nil, fmt.Errorf("%w: unprojection launch: %w", ErrEngineFailure, err)
	}
	points, ok := dsts["points"]
	if !ok || points == nil {
		return nil, fmt.Errorf("%w: unprojection returned no vertex map", ErrEngineFailure)
	}
	if err := points.AssertShape(-1, 3); err != nil {
		return nil, fmt.Errorf("%w: unprojection output: %v", ErrEngineFailure, err)
	}
	return FromPoints(points)
}
