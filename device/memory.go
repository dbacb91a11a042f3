package device

// Memory is a flat, zero-initialized block of read/write storage.
type Memory struct {
	Data []byte
}

var _ Device = (*Memory)(nil)

// NewMemory allocates size bytes of zeroed memory.
func NewMemory(size uint32) *Memory {
	return &Memory{Data: make([]byte, size)}
}

// Size returns the capacity in bytes.
func (mem *Memory) Size() uint32 {
	return uint32(len(mem.Data))
}

// Reset zeroes the memory contents.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// span returns the slice covering [addr, addr+length), or ErrOutOfBounds if
// any byte of it lies outside the memory.
func (mem *Memory) span(addr uint32, length int) (data []byte, err error) {
	end := uint64(addr) + uint64(length)
	if end > uint64(len(mem.Data)) {
		err = ErrOutOfBounds
		return
	}

	data = mem.Data[addr:end]
	return
}

// Load copies data into memory starting at addr.
func (mem *Memory) Load(addr uint32, data []byte) (err error) {
	span, err := mem.span(addr, len(data))
	if err != nil {
		return
	}

	copy(span, data)
	return
}

func (mem *Memory) GetByte(addr uint32) (value [1]byte, err error) {
	span, err := mem.span(addr, len(value))
	if err != nil {
		return
	}
	copy(value[:], span)
	return
}

func (mem *Memory) GetHalfWord(addr uint32) (value [2]byte, err error) {
	span, err := mem.span(addr, len(value))
	if err != nil {
		return
	}
	copy(value[:], span)
	return
}

func (mem *Memory) GetWord(addr uint32) (value [4]byte, err error) {
	span, err := mem.span(addr, len(value))
	if err != nil {
		return
	}
	copy(value[:], span)
	return
}

func (mem *Memory) SetByte(addr uint32, value [1]byte) error {
	return mem.Load(addr, value[:])
}

func (mem *Memory) SetHalfWord(addr uint32, value [2]byte) error {
	return mem.Load(addr, value[:])
}

func (mem *Memory) SetWord(addr uint32, value [4]byte) error {
	return mem.Load(addr, value[:])
}
