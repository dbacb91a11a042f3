package cpu

import (
	"iter"

	"github.com/ezrec/mips32/device"
)

// CodeLink is the kind of label reference an opcode needs resolved: a
// 16-bit pc-relative branch offset, a 26-bit jump pseudo-address, a lui/ori
// pair holding the absolute address, or a data word holding it.
//
//go:generate go tool stringer -linecomment -type=CodeLink
type CodeLink int

const (
	LINK_NONE    = CodeLink(iota) // none
	LINK_BRANCH                   // branch
	LINK_JUMP                     // jump
	LINK_ADDRESS                  // address
	LINK_WORD                     // word
)

// Opcode represents a line of assembled code with its source location and
// generated instructions.
type Opcode struct {
	LineNo    int
	Addr      uint32
	Words     []string
	Codes     []Code
	LinkLabel string
	Link      CodeLink
}

// Program is an assembled instruction stream, placed at Origin.
type Program struct {
	Origin  uint32
	Opcodes []Opcode
}

// Debug locates the source of the instruction at an address.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode containing addr, or a Debug with a nil Opcode.
func (prog *Program) Debug(addr uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+4*uint32(len(op.Codes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr-op.Addr) / 4,
			}
			break
		}
	}

	return
}

// Size returns the program size in bytes.
func (prog *Program) Size() (size uint32) {
	for _, op := range prog.Opcodes {
		size += 4 * uint32(len(op.Codes))
	}
	return
}

// Codes returns an iterator over the address and code of every instruction.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(addr uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Addr+4*uint32(n), code) {
					return
				}
			}
		}
	}
}

// Binary returns the big-endian memory image of the program, starting at
// Origin.
func (prog *Program) Binary() (bin []byte) {
	for _, code := range prog.Codes() {
		word := device.WordOf(uint32(code))
		bin = append(bin, word[:]...)
	}

	return
}
