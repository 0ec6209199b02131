package physics

import (
	"iter"
	"sync"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3Stride is the stride of a tightly packed native Vec3 array.
const Vec3Stride = 12

// Lease guards the native arrays a status exposes. Views created under a
// lease read native memory directly and fail with ErrStaleView once the lease
// is revoked. A lease is revoked by the status that issued it: on release of
// an engaged lock, when a local callback returns, or when the status is
// re-queried or discarded.
type Lease struct {
	mu      sync.RWMutex
	mode    wire.LockMode
	revoked bool
}

// NewLease issues a live lease for the given lock mode.
func NewLease(mode wire.LockMode) *Lease {
	return &Lease{mode: mode}
}

// Mode returns the lock mode the lease was issued under.
func (l *Lease) Mode() wire.LockMode {
	return l.mode
}

// Live reports whether views under the lease may still be read.
func (l *Lease) Live() bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.revoked
}

// Revoke invalidates every view issued under the lease. It waits for reads
// in progress and is idempotent.
func (l *Lease) Revoke() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.revoked = true
	l.mu.Unlock()
}

// Vec3View is a non-owning, strided view of a native Vec3 array.
type Vec3View struct {
	lease  *Lease
	data   []byte
	stride int
	n      int
}

// MapVec3 resolves a native array of n vectors at addr under lease. A null
// address or non-positive length yields an empty view.
func MapVec3(mem Memory, lease *Lease, addr uint64, n, stride int) (Vec3View, error) {
	if stride <= 0 {
		stride = Vec3Stride
	}
	if addr == 0 || n <= 0 {
		return Vec3View{lease: lease, stride: stride}, nil
	}
	data, err := mem.Alias(addr, stride*(n-1)+Vec3Stride)
	if err != nil {
		return Vec3View{}, err
	}
	return Vec3View{lease: lease, data: data, stride: stride, n: n}, nil
}

// Len returns the number of elements, 0 for an unpopulated view.
func (v Vec3View) Len() int {
	return v.n
}

// Populated reports whether the view refers to native data.
func (v Vec3View) Populated() bool {
	return v.data != nil
}

// At reads element i.
func (v Vec3View) At(i int) (mgl32.Vec3, error) {
	if v.lease == nil {
		return mgl32.Vec3{}, ErrNotPopulated
	}
	v.lease.mu.RLock()
	defer v.lease.mu.RUnlock()
	if v.lease.revoked {
		return mgl32.Vec3{}, ErrStaleView
	}
	if i < 0 || i >= v.n {
		return mgl32.Vec3{}, ErrIndexOutOfRange
	}
	return v.read(i), nil
}

// All iterates the elements. Iteration stops early if the lease is revoked.
func (v Vec3View) All() iter.Seq2[int, mgl32.Vec3] {
	return func(yield func(int, mgl32.Vec3) bool) {
		for i := 0; i < v.n; i++ {
			p, err := v.At(i)
			if err != nil || !yield(i, p) {
				return
			}
		}
	}
}

// Copy snapshots the elements into managed memory that outlives the lease.
func (v Vec3View) Copy() ([]mgl32.Vec3, error) {
	if v.lease == nil {
		return nil, ErrNotPopulated
	}
	v.lease.mu.RLock()
	defer v.lease.mu.RUnlock()
	if v.lease.revoked {
		return nil, ErrStaleView
	}
	out := make([]mgl32.Vec3, v.n)
	for i := range out {
		out[i] = v.read(i)
	}
	return out, nil
}

func (v Vec3View) read(i int) mgl32.Vec3 {
	return wire.GetVec3(v.data[i*v.stride:])
}
