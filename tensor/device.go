package tensor

import "fmt"

// DeviceType identifies a class of compute target.
type DeviceType int

const (
	// CPU is host memory.
	CPU DeviceType = iota
	// CUDA is an accelerator target. The engine keeps all storage
	// host-resident; the tag exists so affinity rules are exercised the
	// same way they would be with real device buffers.
	CUDA
)

// Device is the compute target an array is resident on. The zero value is
// CPU:0.
type Device struct {
	Type  DeviceType
	Index int
}

// CPU0 is the default host device.
var CPU0 = Device{Type: CPU, Index: 0}

func (d Device) String() string {
	switch d.Type {
	case CPU:
		return fmt.Sprintf("cpu:%d", d.Index)
	case CUDA:
		return fmt.Sprintf("cuda:%d", d.Index)
	default:
		return fmt.Sprintf("device(%d):%d", int(d.Type), d.Index)
	}
}
