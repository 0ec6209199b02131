package simulated

import (
	"sync"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
)

// Entry is one dispatched action as the native side received it.
type Entry struct {
	Tick   uint64
	Handle physics.Handle
	Kind   wire.ActionKind
	Code   int32
	Image  []byte
}

// journal is a fixed-size ring of the most recent actions.
type journal struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total int
}

func newJournal(size int) *journal {
	if size <= 0 {
		size = 256
	}
	return &journal{ring: make([]Entry, size)}
}

func (j *journal) record(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ring[j.next] = e
	j.next = (j.next + 1) % len(j.ring)
	j.total++
}

func (j *journal) entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := min(j.total, len(j.ring))
	out := make([]Entry, 0, n)
	start := (j.next - n + len(j.ring)) % len(j.ring)
	for i := range n {
		out = append(out, j.ring[(start+i)%len(j.ring)])
	}
	return out
}
