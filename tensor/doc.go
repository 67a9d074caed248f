// Package tensor implements the dense array engine the point cloud core is
// built on: device-tagged n-dimensional numeric buffers with shape and dtype
// bookkeeping, elementwise arithmetic (with in-place variants), matrix
// multiply, axis reductions, dtype casts and row gathers.
//
// Storage is host-resident float64 regardless of logical dtype; the DType tag
// records what the elements mean (Float32, Int64, Bool, ...) and controls
// casting behaviour. The Device tag is carried and checked on every binary
// operation so that device-affinity violations surface at the call that
// introduced them rather than propagating silently.
//
// Tensors do not share backing storage: every operation that produces a
// tensor allocates fresh data, and Slice/Rows return copies, never views.
package tensor
