package cpu

import (
	"fmt"
)

// Instruction is a decoded instruction word. The concrete type is one of
// RType, IType, RegimmType, or JType.
type Instruction interface {
	// Code returns the instruction word that was decoded.
	Code() Code
	// String returns the assembly language form of the instruction.
	String() string
}

// RType is a register-to-register instruction (opcode 0).
type RType struct {
	Word  Code
	Funct CodeFunct
	Rs    uint8
	Rt    uint8
	Rd    uint8
	Shamt uint8
}

// IType is an immediate format instruction.
type IType struct {
	Word      Code
	Op        CodeOp
	Rs        uint8
	Rt        uint8
	Immediate uint16
}

// RegimmType is a REGIMM branch, selected by the rt field.
type RegimmType struct {
	Word   Code
	Cond   CodeRegimm
	Rs     uint8
	Offset uint16
}

// JType is a jump format instruction.
type JType struct {
	Word   Code
	Op     CodeOp
	Target uint32
}

// Decode splits an instruction word into its format's fields.
// Undefined opcodes, functions, and REGIMM selectors return
// ErrIllegalInstruction.
func Decode(code Code) (inst Instruction, err error) {
	op := code.Op()

	switch {
	case op == OP_SPECIAL:
		funct := code.Funct()
		if !funct.Valid() {
			err = ErrIllegalInstruction
			return
		}
		inst = RType{
			Word:  code,
			Funct: funct,
			Rs:    code.Rs(),
			Rt:    code.Rt(),
			Rd:    code.Rd(),
			Shamt: code.Shamt(),
		}
	case op == OP_REGIMM:
		cond := CodeRegimm(code.Rt())
		if !cond.Valid() {
			err = ErrIllegalInstruction
			return
		}
		inst = RegimmType{
			Word:   code,
			Cond:   cond,
			Rs:     code.Rs(),
			Offset: code.Immediate(),
		}
	case op == OP_J || op == OP_JAL:
		inst = JType{
			Word:   code,
			Op:     op,
			Target: code.Target(),
		}
	case op.Valid():
		inst = IType{
			Word:      code,
			Op:        op,
			Rs:        code.Rs(),
			Rt:        code.Rt(),
			Immediate: code.Immediate(),
		}
	default:
		err = ErrIllegalInstruction
	}

	return
}

func (inst RType) Code() Code { return inst.Word }

func (inst IType) Code() Code { return inst.Word }

func (inst RegimmType) Code() Code { return inst.Word }

func (inst JType) Code() Code { return inst.Word }

func (inst RType) String() string {
	rs := RegisterName(inst.Rs)
	rt := RegisterName(inst.Rt)
	rd := RegisterName(inst.Rd)

	switch inst.Funct {
	case FUNCT_SLL, FUNCT_SRL, FUNCT_SRA:
		return fmt.Sprintf("%v %v %v %d", inst.Funct, rd, rt, inst.Shamt)
	case FUNCT_SRAV:
		return fmt.Sprintf("%v %v %v %v", inst.Funct, rd, rt, rs)
	case FUNCT_JR, FUNCT_JALR:
		return fmt.Sprintf("%v %v", inst.Funct, rs)
	case FUNCT_SYSCALL:
		return fmt.Sprintf("%v %d", inst.Funct, SyscallCode(inst.Word))
	case FUNCT_BREAK:
		return inst.Funct.String()
	case FUNCT_MFHI, FUNCT_MFLO, FUNCT_MTHI, FUNCT_MTLO:
		return fmt.Sprintf("%v %v", inst.Funct, rd)
	case FUNCT_MULT, FUNCT_MULTU, FUNCT_DIV, FUNCT_DIVU:
		return fmt.Sprintf("%v %v %v", inst.Funct, rs, rt)
	}

	return fmt.Sprintf("%v %v %v %v", inst.Funct, rd, rs, rt)
}

func (inst IType) String() string {
	rs := RegisterName(inst.Rs)
	rt := RegisterName(inst.Rt)
	signed := int16(inst.Immediate)

	switch inst.Op {
	case OP_ADDI, OP_SLTI:
		return fmt.Sprintf("%v %v %v %d", inst.Op, rt, rs, signed)
	case OP_ADDIU, OP_SLTIU, OP_ANDI, OP_ORI, OP_XORI:
		return fmt.Sprintf("%v %v %v 0x%x", inst.Op, rt, rs, inst.Immediate)
	case OP_LUI:
		return fmt.Sprintf("%v %v 0x%x", inst.Op, rt, inst.Immediate)
	case OP_BEQ, OP_BNE:
		return fmt.Sprintf("%v %v %v %d", inst.Op, rs, rt, signed)
	case OP_BLEZ, OP_BGTZ:
		return fmt.Sprintf("%v %v %d", inst.Op, rs, signed)
	case OP_COP0, OP_COP1, OP_COP2, OP_COP3:
		return fmt.Sprintf("%v 0x%07x", inst.Op, uint32(inst.Word)&TARGET_MASK)
	}

	return fmt.Sprintf("%v %v %d(%v)", inst.Op, rt, signed, rs)
}

func (inst RegimmType) String() string {
	return fmt.Sprintf("%v %v %d", inst.Cond, RegisterName(inst.Rs), int16(inst.Offset))
}

func (inst JType) String() string {
	return fmt.Sprintf("%v 0x%08x", inst.Op, inst.Target<<2)
}
