package device

import (
	"encoding/binary"
)

// Uint16 returns the big-endian value of a half word.
func Uint16(value [2]byte) uint16 {
	return binary.BigEndian.Uint16(value[:])
}

// Uint32 returns the big-endian value of a word.
func Uint32(value [4]byte) uint32 {
	return binary.BigEndian.Uint32(value[:])
}

// HalfWordOf returns the big-endian bytes of a 16-bit value.
func HalfWordOf(value uint16) (out [2]byte) {
	binary.BigEndian.PutUint16(out[:], value)
	return
}

// WordOf returns the big-endian bytes of a 32-bit value.
func WordOf(value uint32) (out [4]byte) {
	binary.BigEndian.PutUint32(out[:], value)
	return
}
