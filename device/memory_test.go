package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)
	assert.Equal(uint32(16), mem.Size())

	for n := range mem.Size() {
		b, err := mem.GetByte(n)
		assert.NoError(err)
		assert.Equal([1]byte{0}, b)
	}

	err := mem.SetWord(4, [4]byte{0xde, 0xad, 0xbe, 0xef})
	assert.NoError(err)

	word, err := mem.GetWord(4)
	assert.NoError(err)
	assert.Equal([4]byte{0xde, 0xad, 0xbe, 0xef}, word)

	half, err := mem.GetHalfWord(6)
	assert.NoError(err)
	assert.Equal([2]byte{0xbe, 0xef}, half)

	b, err := mem.GetByte(5)
	assert.NoError(err)
	assert.Equal([1]byte{0xad}, b)

	err = mem.SetHalfWord(14, [2]byte{0x12, 0x34})
	assert.NoError(err)
	err = mem.SetByte(0, [1]byte{0x77})
	assert.NoError(err)
	assert.Equal(byte(0x77), mem.Data[0])
	assert.Equal([]byte{0x12, 0x34}, mem.Data[14:])

	mem.Reset()
	assert.Equal(make([]byte, 16), mem.Data)
}

func TestMemory_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)

	table := []struct {
		name string
		op   func() error
	}{
		{"byte", func() error { _, err := mem.GetByte(8); return err }},
		{"half_tail", func() error { _, err := mem.GetHalfWord(7); return err }},
		{"word_tail", func() error { _, err := mem.GetWord(5); return err }},
		{"word_wrap", func() error { _, err := mem.GetWord(0xfffffffe); return err }},
		{"set_byte", func() error { return mem.SetByte(100, [1]byte{1}) }},
		{"set_half", func() error { return mem.SetHalfWord(7, [2]byte{1, 2}) }},
		{"set_word", func() error { return mem.SetWord(6, [4]byte{1, 2, 3, 4}) }},
		{"load", func() error { return mem.Load(4, make([]byte, 5)) }},
	}

	for _, entry := range table {
		assert.ErrorIs(entry.op(), ErrOutOfBounds, entry.name)
	}

	// Failed writes leave memory untouched.
	assert.Equal(make([]byte, 8), mem.Data)

	// Last in-bounds word.
	_, err := mem.GetWord(4)
	assert.NoError(err)
}

func TestMemory_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(64)

	for addr := uint32(0); addr+4 <= mem.Size(); addr++ {
		value := WordOf(addr*0x01010101 + 0x10203)
		assert.NoError(mem.SetWord(addr, value))
		got, err := mem.GetWord(addr)
		assert.NoError(err)
		assert.Equal(value, got)
	}
}

func TestRom(t *testing.T) {
	assert := assert.New(t)

	data := []byte{0x01, 0x02, 0x03, 0x04}
	rom := NewRom(data)
	data[0] = 0xff

	word, err := rom.GetWord(0)
	assert.NoError(err)
	assert.Equal([4]byte{0x01, 0x02, 0x03, 0x04}, word)

	assert.ErrorIs(rom.SetByte(0, [1]byte{0}), ErrUnsupportedOperation)
	assert.ErrorIs(rom.SetHalfWord(0, [2]byte{0, 0}), ErrUnsupportedOperation)
	assert.ErrorIs(rom.SetWord(0, [4]byte{0, 0, 0, 0}), ErrUnsupportedOperation)

	_, err = rom.GetHalfWord(3)
	assert.ErrorIs(err, ErrOutOfBounds)
}

func TestAs(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([2]byte{0x12, 0x34}, HalfWordOf(0x1234))
	assert.Equal([4]byte{0x12, 0x34, 0x56, 0x78}, WordOf(0x12345678))
	assert.Equal(uint16(0xbeef), Uint16([2]byte{0xbe, 0xef}))
	assert.Equal(uint32(0xdeadbeef), Uint32([4]byte{0xde, 0xad, 0xbe, 0xef}))
}
