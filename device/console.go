package device

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	CONSOLE_DATA   = 0 // Data register offset.
	CONSOLE_STATUS = 1 // Status register offset.
	CONSOLE_SIZE   = 2 // Number of console registers.

	CONSOLE_STATUS_EOF = 1 << 0 // Input is exhausted.
)

// Console provides sequential byte I/O. Reading the data register consumes
// one byte from Input; writing it emits one byte to Output.
type Console struct {
	Input  io.Reader
	Output io.Writer

	eof bool
}

var _ Device = (*Console)(nil)

// Defines returns an iter of defines for the console.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"CONSOLE_DATA":       fmt.Sprintf("%v", CONSOLE_DATA),
		"CONSOLE_STATUS":     fmt.Sprintf("%v", CONSOLE_STATUS),
		"CONSOLE_STATUS_EOF": fmt.Sprintf("%v", CONSOLE_STATUS_EOF),
	})
}

// Rewind clears the end-of-input state.
func (con *Console) Rewind() {
	con.eof = false
}

// receive reads the next input byte, or zero at end of input.
func (con *Console) receive() (value byte) {
	if con.eof || con.Input == nil {
		con.eof = true
		return
	}

	var one [1]byte
	_, err := io.ReadFull(con.Input, one[:])
	if err != nil {
		con.eof = true
		return
	}

	return one[0]
}

// read returns the register value at addr.
func (con *Console) read(addr uint32) (value byte, err error) {
	switch addr {
	case CONSOLE_DATA:
		value = con.receive()
	case CONSOLE_STATUS:
		if con.eof {
			value |= CONSOLE_STATUS_EOF
		}
	default:
		err = ErrOutOfBounds
	}
	return
}

// write sends value to the register at addr.
func (con *Console) write(addr uint32, value byte) (err error) {
	switch addr {
	case CONSOLE_DATA:
		if con.Output == nil {
			return
		}
		_, err = con.Output.Write([]byte{value})
	case CONSOLE_STATUS:
		err = ErrUnsupportedOperation
	default:
		err = ErrOutOfBounds
	}
	return
}

func (con *Console) GetByte(addr uint32) (value [1]byte, err error) {
	value[0], err = con.read(addr)
	return
}

// GetHalfWord returns the register zero-extended to a half word.
func (con *Console) GetHalfWord(addr uint32) (value [2]byte, err error) {
	b, err := con.read(addr)
	value = HalfWordOf(uint16(b))
	return
}

// GetWord returns the register zero-extended to a word.
func (con *Console) GetWord(addr uint32) (value [4]byte, err error) {
	b, err := con.read(addr)
	value = WordOf(uint32(b))
	return
}

func (con *Console) SetByte(addr uint32, value [1]byte) error {
	return con.write(addr, value[0])
}

// SetHalfWord writes the low byte of the half word.
func (con *Console) SetHalfWord(addr uint32, value [2]byte) error {
	return con.write(addr, value[1])
}

// SetWord writes the low byte of the word.
func (con *Console) SetWord(addr uint32, value [4]byte) error {
	return con.write(addr, value[3])
}
