package wire

// Frame is one dispatch: the payload image plus the caller-owned arrays that
// its pointer slots refer to.
//
// In action images a pointer slot holds a relocation, the 1-based index of an
// attachment (0 is null). A host binding pins the attachments and patches the
// slots with real addresses before crossing into native code; the simulated
// and remote natives resolve them through Attached. In status images pointer
// slots hold native addresses, resolved through Native.Alias.
type Frame struct {
	Image       []byte
	Attachments [][]byte
}

// NewFrame wraps an image.
func NewFrame(image []byte) *Frame {
	return &Frame{Image: image}
}

// Attach appends an array and returns the slot value that refers to it.
// Empty arrays are not attached and yield the null slot.
func (f *Frame) Attach(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	f.Attachments = append(f.Attachments, data)
	return uint64(len(f.Attachments))
}

// Attached resolves a relocation slot.
func (f *Frame) Attached(slot uint64) ([]byte, bool) {
	if slot == 0 || slot > uint64(len(f.Attachments)) {
		return nil, false
	}
	return f.Attachments[slot-1], true
}

// Header decodes the frame's leading header.
func (f *Frame) Header() (Header, error) {
	return ReadHeader(f.Image)
}

// Reset clears the frame for reuse, keeping its image capacity.
func (f *Frame) Reset() {
	f.Image = f.Image[:0]
	clear(f.Attachments)
	f.Attachments = f.Attachments[:0]
}
