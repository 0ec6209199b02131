package physics

import (
	"fmt"

	"github.com/RoqueDeicide/CryCIL-sub006/internal/core/physics/unused"
)

// Part selects which part of an entity a command or query targets: one part
// by id, one part by index, or the entire entity. The wire format always
// carries both an id and an index slot; the inactive one holds the unused int.
type Part struct {
	hasID    bool
	id       int32
	hasIndex bool
	index    int32
}

// EntireEntity targets the whole entity.
func EntireEntity() Part {
	return Part{}
}

// PartByID targets the part with the given id.
func PartByID(id int32) Part {
	return Part{hasID: true, id: id}
}

// PartByIndex targets the part at the given index.
func PartByIndex(index int32) Part {
	return Part{hasIndex: true, index: index}
}

// PartFromSlots decodes the id and index slots of an image.
func PartFromSlots(id, index int32) Part {
	switch {
	case !unused.IsInt(id):
		return PartByID(id)
	case !unused.IsInt(index):
		return PartByIndex(index)
	default:
		return EntireEntity()
	}
}

// IsSpecified reports whether a single part is selected.
func (p Part) IsSpecified() bool {
	return p.hasID || p.hasIndex
}

// ID returns the selected part id, if selection is by id.
func (p Part) ID() (int32, bool) {
	return p.id, p.hasID
}

// Index returns the selected part index, if selection is by index.
func (p Part) Index() (int32, bool) {
	return p.index, p.hasIndex
}

// Slots returns the id and index slots as written to the wire.
func (p Part) Slots() (id, index int32) {
	id, index = unused.Int, unused.Int
	if p.hasID {
		id = p.id
	}
	if p.hasIndex {
		index = p.index
	}
	return id, index
}

func (p Part) String() string {
	switch {
	case p.hasID:
		return fmt.Sprintf("part#id=%d", p.id)
	case p.hasIndex:
		return fmt.Sprintf("part#index=%d", p.index)
	default:
		return "entire-entity"
	}
}
