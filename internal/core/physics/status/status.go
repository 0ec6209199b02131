// Package status implements the 27 queries that read state back from a
// physical entity.
//
// A status is built with its New constructor, which stamps the header and
// leaves every optional input absent. Query dispatches it once and reports
// the native verdict; outputs are only meaningful when that verdict is true.
//
// Rope, SoftBodyVertices and Sensors expose native arrays as physics.Vec3View
// values guarded by a physics.Lease. Under LockEngage the native side keeps
// the arrays in place until Release; under LockLocal they are only safe to
// read inside QueryLocal. Views are rejected with physics.ErrStaleView once
// their lease is gone.
package status

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
)

type LockMode = wire.LockMode

const (
	LockRelease = wire.LockRelease
	LockLocal   = wire.LockLocal
	LockEngage  = wire.LockEngage
)

type SimClass = wire.SimClass

type LocationFlags = wire.LocationFlags

const (
	LocalSpace = wire.LocationLocalSpace
	ThreadSafe = wire.LocationThreadSafe
)

type GeomForm = wire.GeomForm

const (
	Edges      = wire.GeomEdges
	Surface    = wire.GeomSurface
	Volume     = wire.GeomVolume
	Projection = wire.GeomProjection
)

// header carries the stamped header of a status. The zero value is invalid.
type header struct {
	hdr wire.Header
}

func newHeader(kind wire.StatusKind) header {
	return header{hdr: wire.NewStatusHeader(kind)}
}

// Header returns the status header.
func (h header) Header() wire.Header {
	return h.hdr
}

func query(e *physics.Entity, s physics.StatusPayload) (bool, error) {
	code, err := e.Query(s)
	if err != nil {
		return false, err
	}
	return code != 0, nil
}

func read[T any](f *wire.Frame) (T, error) {
	var w T
	err := wire.Decode(f.Image, &w)
	return w, err
}

func boolSlot(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// lockable tracks the lease a status hands out for its native arrays.
type lockable struct {
	// Lock is sent with every query. It is fixed by the constructor and
	// Release overrides it for a single dispatch.
	Lock    LockMode
	lease   *physics.Lease
	sending LockMode
}

func newLockable(mode LockMode) lockable {
	return lockable{Lock: mode}
}

// begin prepares a populating dispatch. A still-engaged lease has to be
// released first; any other lease is revoked.
func (l *lockable) begin() error {
	if l.Lock != LockLocal && l.Lock != LockEngage {
		return physics.ContractError("lock", "lock mode %d cannot populate arrays", l.Lock)
	}
	if l.engaged() {
		return physics.NewError(physics.ErrorCodeLeaseHeld, "release the engaged lock before querying again", physics.ErrLeaseHeld)
	}
	l.lease.Revoke()
	l.lease = nil
	l.sending = l.Lock
	return nil
}

// issue hands out a fresh lease for the arrays being decoded.
func (l *lockable) issue() *physics.Lease {
	l.lease = physics.NewLease(l.sending)
	return l.lease
}

func (l *lockable) engaged() bool {
	return l.lease.Live() && l.lease.Mode() == LockEngage
}

func (l *lockable) releasing() bool {
	return l.sending == LockRelease
}

// release dispatches s with LockRelease when an engaged lease is live and
// revokes the lease either way.
func (l *lockable) release(e *physics.Entity, s physics.StatusPayload) error {
	if !l.engaged() {
		l.discard()
		return nil
	}
	l.sending = LockRelease
	defer func() { l.sending = l.Lock }()

	// Views go stale before the native side is allowed to move the arrays.
	l.lease.Revoke()
	l.lease = nil
	_, err := e.Query(s)
	return err
}

// local runs fn with views that are revoked when it returns.
func (l *lockable) local(fetch func() (bool, error), fn func() error) error {
	if l.Lock != LockLocal {
		return physics.ContractError("lock", "local queries require LockLocal, have %d", l.Lock)
	}
	ok, err := fetch()
	defer l.discard()
	if err != nil {
		return err
	}
	if !ok {
		return physics.ErrNotPopulated
	}
	return fn()
}

func (l *lockable) discard() {
	l.lease.Revoke()
	l.lease = nil
}

// drop is the public discard. An engaged lease is still held on the native
// side and has to go through release instead.
func (l *lockable) drop() error {
	if l.engaged() {
		return physics.NewError(physics.ErrorCodeLeaseHeld, "release the engaged lock instead of discarding it", physics.ErrLeaseHeld)
	}
	l.discard()
	return nil
}

// Lease returns the lease guarding the current views, nil before the first
// populating query.
func (l *lockable) Lease() *physics.Lease {
	return l.lease
}
