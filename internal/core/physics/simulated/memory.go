package simulated

import (
	"sync"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics"
	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/wire"
)

// memory hands out native addresses for array snapshots. An address packs
// the block id in the high 32 bits and a byte offset in the low 32 bits, so
// block ids start at 1 and 0 stays the null address.
//
// Published blocks are never written again. Freeing a block only unmaps its
// address; views already holding the bytes keep them until their lease says
// otherwise.
type memory struct {
	mu     sync.RWMutex
	next   uint32
	blocks map[uint32][]byte
}

func newMemory() *memory {
	return &memory{blocks: make(map[uint32][]byte)}
}

func (m *memory) publish(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.blocks[m.next] = data
	return uint64(m.next) << 32
}

func (m *memory) publishVec3s(v []wire.Vec3) uint64 {
	return m.publish(wire.PackVec3s(v))
}

func (m *memory) free(addrs ...uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, addr := range addrs {
		delete(m.blocks, uint32(addr>>32))
	}
}

func (m *memory) mapped() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}

// Alias implements physics.Memory.
func (m *memory) Alias(addr uint64, size int) ([]byte, error) {
	id, off := uint32(addr>>32), int(uint32(addr))
	m.mu.RLock()
	block, ok := m.blocks[id]
	m.mu.RUnlock()
	if !ok || size < 0 || off+size > len(block) {
		return nil, physics.ErrAddressNotMapped
	}
	return block[off : off+size : off+size], nil
}
