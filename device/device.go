// Package device provides the addressable devices of the mips32 system.
// It includes the device capability (Device), flat read/write memory
// (Memory), read-only memory (Rom), a terminal screen (Screen), and a
// byte-stream console (Console).
package device

// Device defines the interface for anything that can be placed in the
// address space. Addresses are device-local, and all multi-byte values are
// transmitted as big-endian byte sequences.
type Device interface {
	// GetByte reads one byte at addr.
	GetByte(addr uint32) (value [1]byte, err error)
	// GetHalfWord reads two bytes starting at addr.
	GetHalfWord(addr uint32) (value [2]byte, err error)
	// GetWord reads four bytes starting at addr.
	GetWord(addr uint32) (value [4]byte, err error)
	// SetByte writes one byte at addr.
	SetByte(addr uint32, value [1]byte) error
	// SetHalfWord writes two bytes starting at addr.
	SetHalfWord(addr uint32, value [2]byte) error
	// SetWord writes four bytes starting at addr.
	SetWord(addr uint32, value [4]byte) error
}
