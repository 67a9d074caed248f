package kernel

import (
	"fmt"

	"github.com/banshee-data/tensorcloud/tensor"
)

// unproject implements the Unproject op. Inputs:
//
//	"depth"       H x W depth image
//	"intrinsics"  3 x 3 pinhole camera matrix [[fx 0 cx] [0 fy cy] [0 0 1]]
//	"depth_scale" scalar divisor turning raw depth units into metres
//	"depth_max"   scalar far clip in metres
//	"stride"      scalar pixel subsampling step (>= 1)
//
// Output "points" is N x 3 Float32 on the depth image's device, one row per
// sampled pixel with a depth in (0, depth_max). Zero and out-of-range depths
// are dropped, so N <= ceil(H/stride) * ceil(W/stride).
func unproject(srcs map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	depth, err := input(srcs, "depth")
	if err != nil {
		return nil, err
	}
	intr, err := input(srcs, "intrinsics")
	if err != nil {
		return nil, err
	}
	scaleT, err := input(srcs, "depth_scale")
	if err != nil {
		return nil, err
	}
	maxT, err := input(srcs, "depth_max")
	if err != nil {
		return nil, err
	}
	strideT, err := input(srcs, "stride")
	if err != nil {
		return nil, err
	}

	if err := depth.AssertShape(-1, -1); err != nil {
		return nil, fmt.Errorf("depth: %w", err)
	}
	if err := intr.AssertShape(3, 3); err != nil {
		return nil, fmt.Errorf("intrinsics: %w", err)
	}
	for name, t := range srcs {
		if err := t.AssertDevice(depth.Device()); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	scale := scaleT.At(0)
	if scale == 0 {
		return nil, fmt.Errorf("depth_scale must be nonzero")
	}
	depthMax := maxT.At(0)
	stride := int(strideT.At(0))
	if stride < 1 {
		return nil, fmt.Errorf("stride %d, want >= 1", stride)
	}

	fx, fy := intr.At2(0, 0), intr.At2(1, 1)
	cx, cy := intr.At2(0, 2), intr.At2(1, 2)
	if fx == 0 || fy == 0 {
		return nil, fmt.Errorf("intrinsics focal lengths must be nonzero")
	}

	h, w := depth.Dim(0), depth.Dim(1)
	pts := make([]float64, 0, 3*(h/stride+1)*(w/stride+1))
	for v := 0; v < h; v += stride {
		for u := 0; u < w; u += stride {
			d := depth.At2(v, u) / scale
			if d <= 0 || d >= depthMax {
				continue
			}
			x := (float64(u) - cx) * d / fx
			y := (float64(v) - cy) * d / fy
			pts = append(pts, x, y, d)
		}
	}

	points, err := tensor.New(pts, []int{len(pts) / 3, 3}, tensor.Float32, depth.Device())
	if err != nil {
		return nil, err
	}
	return map[string]*tensor.Tensor{"points": points}, nil
}

func input(srcs map[string]*tensor.Tensor, name string) (*tensor.Tensor, error) {
	t, ok := srcs[name]
	if !ok || t == nil {
		return nil, fmt.Errorf("missing kernel input %q", name)
	}
	return t, nil
}
