package parhash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/tensorcloud/tensor"
)

// ErrInvalidCapacity reports a non-positive table capacity.
var ErrInvalidCapacity = errors.New("hash table capacity must be positive")

// Slot states. A slot moves empty -> claiming -> occupied exactly once; the
// claiming window covers the key publication between the CAS and the final
// store.
const (
	slotEmpty uint32 = iota
	slotClaiming
	slotOccupied
)

// Table is an open-addressed hash table over fixed-width Int64 keys. The
// slot array is sized to at least twice the capacity so linear probing
// terminates, and slots are claimed with an atomic compare-and-swap so that
// concurrent duplicate inserts resolve to a single winner.
type Table struct {
	capacity   int
	keyDims    int
	keyDtype   tensor.DType
	valueDtype tensor.DType
	valueShape []int
	device     tensor.Device

	mask   uint64
	states []atomic.Uint32
	keys   []int64
}

// New constructs a table able to hold up to capacity distinct keys. Keys are
// rank-1 integer tuples of shape keyShape; the value dtype and shape are
// recorded for parity with the engine contract but activation only claims
// slots, it stores no values.
func New(capacity int, keyDtype, valueDtype tensor.DType, keyShape, valueShape []int, device tensor.Device) (*Table, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if keyDtype != tensor.Int64 {
		return nil, fmt.Errorf("unsupported key dtype %s (only int64 keys)", keyDtype)
	}
	if len(keyShape) != 1 || keyShape[0] <= 0 {
		return nil, fmt.Errorf("%w: key shape %v, want rank-1 positive", tensor.ErrShapeMismatch, keyShape)
	}
	slots := nextPow2(2 * capacity)
	return &Table{
		capacity:   capacity,
		keyDims:    keyShape[0],
		keyDtype:   keyDtype,
		valueDtype: valueDtype,
		valueShape: append([]int(nil), valueShape...),
		device:     device,
		mask:       uint64(slots - 1),
		states:     make([]atomic.Uint32, slots),
		keys:       make([]int64, slots*keyShape[0]),
	}, nil
}

func nextPow2(n int) int {
	if n < 2 {
		return 2
	}
	return 1 << bits.Len(uint(n-1))
}

// Capacity returns the maximum number of distinct keys the table accepts.
func (t *Table) Capacity() int { return t.capacity }

// Device returns the device affinity the table was constructed with.
func (t *Table) Device() tensor.Device { return t.device }

// Activate inserts every row of keys (N x keyDims, Int64) and returns an N
// Int32 tensor of slot addresses plus an N Bool claimed mask. Exactly one
// row per distinct key comes back claimed. Rows are processed concurrently
// across shards; the call itself blocks until both outputs are fully
// materialized.
func (t *Table) Activate(keys *tensor.Tensor) (addrs, claimed *tensor.Tensor, err error) {
	if err := keys.AssertShape(-1, t.keyDims); err != nil {
		return nil, nil, err
	}
	if err := keys.AssertDevice(t.device); err != nil {
		return nil, nil, err
	}
	if keys.Dtype() != t.keyDtype {
		return nil, nil, fmt.Errorf("key dtype %s, want %s", keys.Dtype(), t.keyDtype)
	}
	n := keys.Dim(0)
	if n > t.capacity {
		return nil, nil, fmt.Errorf("%d keys exceed table capacity %d", n, t.capacity)
	}

	addrOut := make([]float64, n)
	maskOut := make([]float64, n)

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = 1
	}
	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			buf := make([]byte, 8*t.keyDims)
			key := make([]int64, t.keyDims)
			for i := lo; i < hi; i++ {
				for j := 0; j < t.keyDims; j++ {
					key[j] = int64(keys.At2(i, j))
					binary.LittleEndian.PutUint64(buf[8*j:], uint64(key[j]))
				}
				addr, won := t.insert(xxhash.Sum64(buf), key)
				addrOut[i] = float64(addr)
				if won {
					maskOut[i] = 1
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	addrs, err = tensor.New(addrOut, []int{n}, tensor.Int32, t.device)
	if err != nil {
		return nil, nil, err
	}
	claimed, err = tensor.New(maskOut, []int{n}, tensor.Bool, t.device)
	if err != nil {
		return nil, nil, err
	}
	return addrs, claimed, nil
}

// insert probes for key starting at its hash slot. It returns the slot index
// and whether this call was the one that claimed it.
func (t *Table) insert(h uint64, key []int64) (int, bool) {
	i := h & t.mask
	for {
		switch t.states[i].Load() {
		case slotEmpty:
			if t.states[i].CompareAndSwap(slotEmpty, slotClaiming) {
				copy(t.keys[int(i)*t.keyDims:], key)
				t.states[i].Store(slotOccupied)
				return int(i), true
			}
			// Lost the claim race; re-examine the same slot.
		case slotClaiming:
			// The winner is still publishing its key.
			runtime.Gosched()
		case slotOccupied:
			if t.keyAt(int(i), key) {
				return int(i), false
			}
			i = (i + 1) & t.mask
		}
	}
}

func (t *Table) keyAt(slot int, key []int64) bool {
	base := slot * t.keyDims
	for j, k := range key {
		if t.keys[base+j] != k {
			return false
		}
	}
	return true
}
