package device

// Rom is read-only memory. Every write is rejected.
type Rom struct {
	Memory
}

var _ Device = (*Rom)(nil)

// NewRom creates a read-only device holding a copy of data.
func NewRom(data []byte) *Rom {
	rom := &Rom{}
	rom.Data = append([]byte(nil), data...)
	return rom
}

func (rom *Rom) SetByte(addr uint32, value [1]byte) error {
	return ErrUnsupportedOperation
}

func (rom *Rom) SetHalfWord(addr uint32, value [2]byte) error {
	return ErrUnsupportedOperation
}

func (rom *Rom) SetWord(addr uint32, value [4]byte) error {
	return ErrUnsupportedOperation
}
