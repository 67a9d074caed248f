// Package pointcloud implements a device-resident point cloud as a bundle of
// named, row-aligned attribute tensors, with rigid and similarity transforms,
// voxel-grid downsampling, depth-image unprojection and conversion to and
// from a plain host-side per-point representation.
//
// A PointCloud owns its tensors exclusively: operations never alias storage
// between two live clouds, mutating operations replace whole attribute
// entries, and every geometric argument is validated for shape and device
// affinity before any state changes, so a failed call leaves the cloud
// untouched.
package pointcloud
