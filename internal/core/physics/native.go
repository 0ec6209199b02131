// Package physics is the managed side of the physical-entity protocol.
//
// Callers build an action or status value with a kind constructor, then hand
// it to an Entity, which renders the wire image and calls one of the two
// native entry points. Actions are one-shot; statuses come back populated.
//
// Dispatch is synchronous. The native simulation advances on its own schedule
// and may rewrite entity state between calls; only arrays exposed under an
// engaged Lease are protected. Calls issued to one entity from one goroutine
// are observed in order; callers that issue commands to the same entity from
// several goroutines must serialize them themselves.
package physics

import (
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
)

// Handle is an opaque native entity handle. It is never dereferenced on the
// managed side.
type Handle uint64

// NullHandle refers to no entity.
const NullHandle Handle = 0

// Memory resolves native addresses written into status images.
type Memory interface {
	// Alias returns a window of size bytes starting at addr. The window
	// aliases native storage; it is not a copy.
	Alias(addr uint64, size int) ([]byte, error)
}

// Native is the physical-entity call surface owned by the simulation.
type Native interface {
	Memory

	// ActUpon dispatches an action frame. The meaning of the result is
	// kind-specific; 0 generally means the action was not applied.
	ActUpon(h Handle, f *wire.Frame) int32

	// GetStatus dispatches a status frame and populates its image in place.
	// Non-zero generally means populated/true.
	GetStatus(h Handle, f *wire.Frame) int32
}

// Fingerprinter is implemented by natives that can report the layout
// fingerprint of their structs.
type Fingerprinter interface {
	LayoutFingerprint() uint64
}

// ConstraintID identifies a constraint on an entity. 0 is never a valid id.
type ConstraintID int32
