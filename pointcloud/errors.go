package pointcloud

import (
	"errors"

	"github.com/banshee-data/tensorcloud/tensor"
)

// Sentinel errors for the failure taxonomy. Shape and device violations are
// the engine's own sentinels re-exported so callers can match either way.
var (
	// ErrMissingAttribute reports a construction without the required
	// "points" attribute.
	ErrMissingAttribute = errors.New(`point cloud requires a "points" attribute`)

	// ErrShapeMismatch reports a geometric argument whose rank or
	// dimensions violate its contract.
	ErrShapeMismatch = tensor.ErrShapeMismatch

	// ErrDeviceMismatch reports an argument resident on a different
	// device than the cloud.
	ErrDeviceMismatch = tensor.ErrDeviceMismatch

	// ErrEngineFailure reports a kernel dispatch that completed without
	// producing its required output.
	ErrEngineFailure = errors.New("kernel engine failure")

	// ErrInvalidArgument reports an out-of-domain scalar parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)
