package kernel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/banshee-data/tensorcloud/tensor"
)

// Op names a registered kernel.
type Op string

// Unproject back-projects a depth image into 3D points.
const Unproject Op = "Unproject"

// ErrUnknownOp reports a dispatch against an unregistered opcode.
var ErrUnknownOp = errors.New("unknown kernel op")

// Func is a kernel implementation: named tensors in, named tensors out.
// Implementations must not mutate their inputs.
type Func func(srcs map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error)

// Registry maps opcodes to kernel implementations. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	mu  sync.RWMutex
	ops map[Op]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[Op]Func)}
}

// Register installs fn under op, replacing any previous registration.
func (r *Registry) Register(op Op, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op] = fn
}

// Dispatch runs the kernel registered under op. The call is synchronous: it
// returns only once every output tensor is materialized.
func (r *Registry) Dispatch(op Op, srcs map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	r.mu.RLock()
	fn, ok := r.ops[op]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	return fn(srcs)
}

// Default is the process-wide registry with the built-in ops installed.
var Default = NewRegistry()

func init() {
	Default.Register(Unproject, unproject)
}
