package cpu

import (
	"fmt"
)

// Code is a single 32-bit instruction word.
type Code uint32

// CodeOp is the primary opcode, bits 31-26.
type CodeOp uint8

const (
	OP_SPECIAL = CodeOp(0o00)
	OP_REGIMM  = CodeOp(0o01)
	OP_J       = CodeOp(0o02)
	OP_JAL     = CodeOp(0o03)
	OP_BEQ     = CodeOp(0o04)
	OP_BNE     = CodeOp(0o05)
	OP_BLEZ    = CodeOp(0o06)
	OP_BGTZ    = CodeOp(0o07)
	OP_ADDI    = CodeOp(0o10)
	OP_ADDIU   = CodeOp(0o11)
	OP_SLTI    = CodeOp(0o12)
	OP_SLTIU   = CodeOp(0o13)
	OP_ANDI    = CodeOp(0o14)
	OP_ORI     = CodeOp(0o15)
	OP_XORI    = CodeOp(0o16)
	OP_LUI     = CodeOp(0o17)
	OP_COP0    = CodeOp(0o20)
	OP_COP1    = CodeOp(0o21)
	OP_COP2    = CodeOp(0o22)
	OP_COP3    = CodeOp(0o23)
	OP_LB      = CodeOp(0o40)
	OP_LHW     = CodeOp(0o41)
	OP_LWL     = CodeOp(0o42)
	OP_LW      = CodeOp(0o43)
	OP_LBU     = CodeOp(0o44)
	OP_LHWU    = CodeOp(0o45)
	OP_LWR     = CodeOp(0o46)
	OP_SB      = CodeOp(0o50)
	OP_SHW     = CodeOp(0o51)
	OP_SWL     = CodeOp(0o52)
	OP_SW      = CodeOp(0o53)
	OP_SWR     = CodeOp(0o56)
	OP_LWC0    = CodeOp(0o60)
	OP_LWC1    = CodeOp(0o61)
	OP_LWC2    = CodeOp(0o62)
	OP_LWC3    = CodeOp(0o63)
	OP_SWC0    = CodeOp(0o70)
	OP_SWC1    = CodeOp(0o71)
	OP_SWC2    = CodeOp(0o72)
	OP_SWC3    = CodeOp(0o73)
)

var opName = map[CodeOp]string{
	OP_SPECIAL: "special", OP_REGIMM: "regimm",
	OP_J: "j", OP_JAL: "jal",
	OP_BEQ: "beq", OP_BNE: "bne", OP_BLEZ: "blez", OP_BGTZ: "bgtz",
	OP_ADDI: "addi", OP_ADDIU: "addiu", OP_SLTI: "slti", OP_SLTIU: "sltiu",
	OP_ANDI: "andi", OP_ORI: "ori", OP_XORI: "xori", OP_LUI: "lui",
	OP_COP0: "cop0", OP_COP1: "cop1", OP_COP2: "cop2", OP_COP3: "cop3",
	OP_LB: "lb", OP_LHW: "lhw", OP_LWL: "lwl", OP_LW: "lw",
	OP_LBU: "lbu", OP_LHWU: "lhwu", OP_LWR: "lwr",
	OP_SB: "sb", OP_SHW: "shw", OP_SWL: "swl", OP_SW: "sw", OP_SWR: "swr",
	OP_LWC0: "lwc0", OP_LWC1: "lwc1", OP_LWC2: "lwc2", OP_LWC3: "lwc3",
	OP_SWC0: "swc0", OP_SWC1: "swc1", OP_SWC2: "swc2", OP_SWC3: "swc3",
}

func (op CodeOp) String() string {
	name, ok := opName[op]
	if !ok {
		return fmt.Sprintf("op(0o%02o)", uint8(op))
	}
	return name
}

// Valid returns true if the opcode has a defined meaning.
func (op CodeOp) Valid() bool {
	_, ok := opName[op]
	return ok
}

// CodeFunct is the R-type function field, bits 5-0.
type CodeFunct uint8

const (
	FUNCT_SLL     = CodeFunct(0o00)
	FUNCT_SRL     = CodeFunct(0o02)
	FUNCT_SRA     = CodeFunct(0o03)
	FUNCT_SLLV    = CodeFunct(0o04)
	FUNCT_SRLV    = CodeFunct(0o06)
	FUNCT_SRAV    = CodeFunct(0o07)
	FUNCT_JR      = CodeFunct(0o10)
	FUNCT_JALR    = CodeFunct(0o11)
	FUNCT_SYSCALL = CodeFunct(0o14)
	FUNCT_BREAK   = CodeFunct(0o15)
	FUNCT_MFHI    = CodeFunct(0o20)
	FUNCT_MTHI    = CodeFunct(0o21)
	FUNCT_MFLO    = CodeFunct(0o22)
	FUNCT_MTLO    = CodeFunct(0o23)
	FUNCT_MULT    = CodeFunct(0o30)
	FUNCT_MULTU   = CodeFunct(0o31)
	FUNCT_DIV     = CodeFunct(0o32)
	FUNCT_DIVU    = CodeFunct(0o33)
	FUNCT_ADD     = CodeFunct(0o40)
	FUNCT_ADDU    = CodeFunct(0o41)
	FUNCT_SUB     = CodeFunct(0o42)
	FUNCT_SUBU    = CodeFunct(0o43)
	FUNCT_AND     = CodeFunct(0o44)
	FUNCT_OR      = CodeFunct(0o45)
	FUNCT_XOR     = CodeFunct(0o46)
	FUNCT_NOR     = CodeFunct(0o47)
	FUNCT_SLT     = CodeFunct(0o52)
	FUNCT_SLTU    = CodeFunct(0o53)
)

var functName = map[CodeFunct]string{
	FUNCT_SLL: "sll", FUNCT_SRL: "srl", FUNCT_SRA: "sra",
	FUNCT_SLLV: "sllv", FUNCT_SRLV: "srlv", FUNCT_SRAV: "srav",
	FUNCT_JR: "jr", FUNCT_JALR: "jalr",
	FUNCT_SYSCALL: "syscall", FUNCT_BREAK: "break",
	FUNCT_MFHI: "mfhi", FUNCT_MTHI: "mthi", FUNCT_MFLO: "mflo", FUNCT_MTLO: "mtlo",
	FUNCT_MULT: "mult", FUNCT_MULTU: "multu", FUNCT_DIV: "div", FUNCT_DIVU: "divu",
	FUNCT_ADD: "add", FUNCT_ADDU: "addu", FUNCT_SUB: "sub", FUNCT_SUBU: "subu",
	FUNCT_AND: "and", FUNCT_OR: "or", FUNCT_XOR: "xor", FUNCT_NOR: "nor",
	FUNCT_SLT: "slt", FUNCT_SLTU: "sltu",
}

func (fn CodeFunct) String() string {
	name, ok := functName[fn]
	if !ok {
		return fmt.Sprintf("funct(0o%02o)", uint8(fn))
	}
	return name
}

// Valid returns true if the function has a defined meaning.
func (fn CodeFunct) Valid() bool {
	_, ok := functName[fn]
	return ok
}

// CodeRegimm is the REGIMM branch selector, held in the rt field.
type CodeRegimm uint8

const (
	REGIMM_BLTZ   = CodeRegimm(0b00000)
	REGIMM_BGEZ   = CodeRegimm(0b00001)
	REGIMM_BLTZAL = CodeRegimm(0b10000)
	REGIMM_BGEZAL = CodeRegimm(0b10001)
)

var regimmName = map[CodeRegimm]string{
	REGIMM_BLTZ:   "bltz",
	REGIMM_BGEZ:   "bgez",
	REGIMM_BLTZAL: "bltzal",
	REGIMM_BGEZAL: "bgezal",
}

func (cond CodeRegimm) String() string {
	name, ok := regimmName[cond]
	if !ok {
		return fmt.Sprintf("regimm(0b%05b)", uint8(cond))
	}
	return name
}

// Valid returns true if the selector has a defined meaning.
func (cond CodeRegimm) Valid() bool {
	_, ok := regimmName[cond]
	return ok
}

// Link returns true if the branch writes the return address to ra.
func (cond CodeRegimm) Link() bool {
	return cond&0b10000 != 0
}

// Bit field layout of an instruction word.
const (
	REGISTER_MASK  = 0x1f
	FUNCT_MASK     = 0x3f
	IMMEDIATE_MASK = 0xffff
	TARGET_MASK    = 0x03ff_ffff
	SEGMENT_MASK   = 0xf000_0000 // Bits of pc kept by a jump.

	SYSCALL_HALT = 10 // Syscall code that halts the processor.
)

// Op returns the primary opcode.
func (code Code) Op() CodeOp {
	return CodeOp(code >> 26)
}

// Rs returns the rs register field.
func (code Code) Rs() uint8 {
	return uint8((code >> 21) & REGISTER_MASK)
}

// Rt returns the rt register field.
func (code Code) Rt() uint8 {
	return uint8((code >> 16) & REGISTER_MASK)
}

// Rd returns the rd register field.
func (code Code) Rd() uint8 {
	return uint8((code >> 11) & REGISTER_MASK)
}

// Shamt returns the shift amount field.
func (code Code) Shamt() uint8 {
	return uint8((code >> 6) & REGISTER_MASK)
}

// Funct returns the R-type function field.
func (code Code) Funct() CodeFunct {
	return CodeFunct(code & FUNCT_MASK)
}

// Immediate returns the 16-bit immediate field.
func (code Code) Immediate() uint16 {
	return uint16(code & IMMEDIATE_MASK)
}

// Target returns the 26-bit jump pseudo-address.
func (code Code) Target() uint32 {
	return uint32(code & TARGET_MASK)
}

// MakeCodeR creates an R-type instruction.
func MakeCodeR(funct CodeFunct, rs, rt, rd, shamt uint8) Code {
	return Code(uint32(OP_SPECIAL)<<26 |
		(uint32(rs)&REGISTER_MASK)<<21 |
		(uint32(rt)&REGISTER_MASK)<<16 |
		(uint32(rd)&REGISTER_MASK)<<11 |
		(uint32(shamt)&REGISTER_MASK)<<6 |
		uint32(funct)&FUNCT_MASK)
}

// MakeCodeI creates an immediate format instruction.
func MakeCodeI(op CodeOp, rs, rt uint8, imm uint16) Code {
	return Code(uint32(op)<<26 |
		(uint32(rs)&REGISTER_MASK)<<21 |
		(uint32(rt)&REGISTER_MASK)<<16 |
		uint32(imm))
}

// MakeCodeRegimm creates a REGIMM branch instruction.
func MakeCodeRegimm(cond CodeRegimm, rs uint8, offset uint16) Code {
	return MakeCodeI(OP_REGIMM, rs, uint8(cond), offset)
}

// MakeCodeJ creates a jump format instruction.
func MakeCodeJ(op CodeOp, target uint32) Code {
	return Code(uint32(op)<<26 | target&TARGET_MASK)
}

// MakeCodeSyscall creates a syscall instruction for code. Only bits 0-4
// and 10-19 of code can be encoded; ok is false if any other bit is set.
func MakeCodeSyscall(code uint32) (out Code, ok bool) {
	shamt := uint8(code & REGISTER_MASK)
	rs := uint8((code >> 10) & REGISTER_MASK)
	rt := uint8((code >> 15) & REGISTER_MASK)

	out = MakeCodeR(FUNCT_SYSCALL, rs, rt, 0, shamt)
	ok = SyscallCode(out) == code
	return
}

// SyscallCode returns the status code carried by a syscall instruction.
func SyscallCode(code Code) uint32 {
	return uint32(code.Rs())<<10 | uint32(code.Rt())<<15 | uint32(code.Shamt())
}

// SignExtend returns the immediate sign-extended to 32 bits.
func SignExtend(imm uint16) uint32 {
	return uint32(int32(int16(imm)))
}

// JumpTarget returns the destination of a jump to the pseudo-address
// target, taken with the program counter at pc.
func JumpTarget(pc uint32, target uint32) uint32 {
	return (target&TARGET_MASK)<<2 | (pc & SEGMENT_MASK)
}
