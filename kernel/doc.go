// Package kernel implements a generalized elementwise dispatch: an opcode
// plus a map of named input tensors in, a map of named output tensors out.
// Geometry code uses it where the computation is a per-element kernel rather
// than tensor algebra; the only built-in op is Unproject, which turns a
// depth image and camera intrinsics into a point array.
package kernel
