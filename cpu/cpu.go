package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/mips32/device"
	"github.com/ezrec/mips32/mapper"
)

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Mapper *mapper.Mapper // Address space for fetches, loads, and stores.

	Pc       uint32                 // Program counter.
	Register [REGISTER_COUNT]uint32 // Register bank. Register[0] is always zero.
	Hi       uint32                 // Multiply high word, or divide remainder.
	Lo       uint32                 // Multiply low word, or divide quotient.

	Halted  bool   // Set once a halt syscall executes.
	Syscall uint32 // Code of the most recent syscall.
	Ticks   int    // Instructions executed since reset.
}

// NewCpu creates a new CPU attached to an address space.
func NewCpu(mp *mapper.Mapper) (cpu *Cpu) {
	cpu = &Cpu{
		Mapper: mp,
	}

	return
}

// Reset clears the CPU state, and sets the program counter to pc.
func (cpu *Cpu) Reset(pc uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset pc 0x%08x", pc)
	}

	clear(cpu.Register[:])
	cpu.Pc = pc
	cpu.Hi = 0
	cpu.Lo = 0
	cpu.Halted = false
	cpu.Syscall = 0
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %04X_%04X\n", cpu.Pc>>16, cpu.Pc&0xffff)
	text += fmt.Sprintf("   hi: %04X_%04X\n", cpu.Hi>>16, cpu.Hi&0xffff)
	text += fmt.Sprintf("   lo: %04X_%04X\n", cpu.Lo>>16, cpu.Lo&0xffff)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X_%04X", RegisterAlias(uint8(n)), val>>16, val&0xffff)
		if n%4 == 3 {
			text += "\n"
		} else {
			text += " "
		}
	}

	return
}

// GetRegister returns the value of register n.
func (cpu *Cpu) GetRegister(n uint8) uint32 {
	if n == REG_ZERO {
		return 0
	}
	return cpu.Register[n&REGISTER_MASK]
}

// setRegister writes register n. Register 0 cannot be written.
func (cpu *Cpu) setRegister(n uint8, value uint32) (err error) {
	if n == REG_ZERO {
		err = ErrZeroRegisterWrite
		return
	}

	cpu.Register[n&REGISTER_MASK] = value
	return
}

// branch moves the program counter by a sign-extended offset.
func (cpu *Cpu) branch(offset uint16) {
	cpu.Pc += SignExtend(offset)
}

// Fetch reads the instruction at the program counter, and advances the
// program counter past it.
func (cpu *Cpu) Fetch() (code Code, err error) {
	word, err := cpu.Mapper.GetWord(cpu.Pc)
	if err != nil {
		return
	}

	code = Code(device.Uint32(word))
	cpu.Pc += 4

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// Run executes instructions until the CPU halts, or an error occurs.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single instruction. The program counter must already
// be advanced past the instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	pc := cpu.Pc - 4

	defer func() {
		if err != nil {
			err = &ErrExecute{Pc: pc, Code: code, Err: err}
		}
	}()

	inst, err := Decode(code)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%08x: %08x %v", pc, uint32(code), inst)
	}

	switch inst := inst.(type) {
	case RType:
		err = cpu.executeR(inst)
	case IType:
		err = cpu.executeI(inst)
	case RegimmType:
		err = cpu.executeRegimm(inst)
	case JType:
		err = cpu.executeJ(inst)
	default:
		err = ErrIllegalInstruction
	}
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// executeR executes a register-to-register instruction.
func (cpu *Cpu) executeR(inst RType) (err error) {
	// The syscall status code overlaps the rd field.
	if inst.Funct == FUNCT_SYSCALL {
		cpu.Syscall = SyscallCode(inst.Word)
		if cpu.Syscall == SYSCALL_HALT {
			if cpu.Verbose {
				log.Printf("cpu: halt")
			}
			cpu.Halted = true
		}
		return
	}

	if inst.Rd == REG_ZERO {
		err = ErrZeroRegisterWrite
		return
	}

	rs := cpu.GetRegister(inst.Rs)
	rt := cpu.GetRegister(inst.Rt)

	var result uint32

	switch inst.Funct {
	case FUNCT_ADD:
		result = uint32(int32(rs) + int32(rt))
	case FUNCT_ADDU:
		result = rs + rt
	case FUNCT_SUB:
		result = uint32(int32(rs) - int32(rt))
	case FUNCT_SUBU:
		result = rs - rt
	case FUNCT_MULT:
		product := uint64(int64(int32(rs)) * int64(int32(rt)))
		cpu.Lo = uint32(product)
		cpu.Hi = uint32(product >> 32)
		return
	case FUNCT_MULTU:
		product := uint64(rs) * uint64(rt)
		cpu.Lo = uint32(product)
		cpu.Hi = uint32(product >> 32)
		return
	case FUNCT_DIV:
		if rt == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Lo = uint32(int32(rs) / int32(rt))
		cpu.Hi = uint32(int32(rs) % int32(rt))
		return
	case FUNCT_DIVU:
		if rt == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Lo = rs / rt
		cpu.Hi = rs % rt
		return
	case FUNCT_AND:
		result = rs & rt
	case FUNCT_OR:
		result = rs | rt
	case FUNCT_XOR:
		result = rs ^ rt
	case FUNCT_NOR:
		result = ^(rs | rt)
	case FUNCT_SLL:
		result = rt << inst.Shamt
	case FUNCT_SRL:
		result = rt >> inst.Shamt
	case FUNCT_SRA:
		result = uint32(int32(rt) >> inst.Shamt)
	case FUNCT_SLLV:
		result = rs << (rt & REGISTER_MASK)
	case FUNCT_SRLV:
		result = rs >> (rt & REGISTER_MASK)
	case FUNCT_SRAV:
		result = uint32(int32(rt) >> (rs & REGISTER_MASK))
	case FUNCT_SLT:
		if int32(rs) < int32(rt) {
			result = 1
		}
	case FUNCT_SLTU:
		if rs < rt {
			result = 1
		}
	case FUNCT_JR, FUNCT_JALR:
		cpu.Pc = rs
		return
	case FUNCT_MFHI:
		result = cpu.Hi
	case FUNCT_MFLO:
		result = cpu.Lo
	case FUNCT_MTHI:
		cpu.Hi = cpu.GetRegister(inst.Rd)
		return
	case FUNCT_MTLO:
		cpu.Lo = cpu.GetRegister(inst.Rd)
		return
	case FUNCT_BREAK:
		err = ErrNotImplemented
		return
	default:
		err = ErrIllegalInstruction
		return
	}

	err = cpu.setRegister(inst.Rd, result)
	return
}

// load reads width bytes at addr into register rt, sign-extending if signed.
func (cpu *Cpu) load(rt uint8, addr uint32, width int, signed bool) (err error) {
	// Checked before the access, as a device read may have side effects.
	if rt == REG_ZERO {
		err = ErrZeroRegisterWrite
		return
	}

	var value uint32

	switch width {
	case 1:
		var data [1]byte
		data, err = cpu.Mapper.GetByte(addr)
		value = uint32(data[0])
		if signed {
			value = uint32(int32(int8(data[0])))
		}
	case 2:
		var data [2]byte
		data, err = cpu.Mapper.GetHalfWord(addr)
		value = uint32(device.Uint16(data))
		if signed {
			value = uint32(int32(int16(device.Uint16(data))))
		}
	case 4:
		var data [4]byte
		data, err = cpu.Mapper.GetWord(addr)
		value = device.Uint32(data)
	}
	if err != nil {
		return
	}

	err = cpu.setRegister(rt, value)
	return
}

// executeI executes an immediate format instruction.
func (cpu *Cpu) executeI(inst IType) (err error) {
	rs := cpu.GetRegister(inst.Rs)
	rt := cpu.GetRegister(inst.Rt)
	sext := SignExtend(inst.Immediate)
	zext := uint32(inst.Immediate)
	addr := rs + sext

	switch inst.Op {
	case OP_ADDI:
		err = cpu.setRegister(inst.Rt, uint32(int32(rs)+int32(sext)))
	case OP_ADDIU:
		err = cpu.setRegister(inst.Rt, rs+zext)
	case OP_SLTI:
		var result uint32
		if int32(rs) < int32(sext) {
			result = 1
		}
		err = cpu.setRegister(inst.Rt, result)
	case OP_SLTIU:
		var result uint32
		if rs < zext {
			result = 1
		}
		err = cpu.setRegister(inst.Rt, result)
	case OP_ANDI:
		err = cpu.setRegister(inst.Rt, rs&zext)
	case OP_ORI:
		err = cpu.setRegister(inst.Rt, rs|zext)
	case OP_XORI:
		err = cpu.setRegister(inst.Rt, rs^zext)
	case OP_LUI:
		err = cpu.setRegister(inst.Rt, zext<<16)
	case OP_LB:
		err = cpu.load(inst.Rt, addr, 1, true)
	case OP_LBU:
		err = cpu.load(inst.Rt, addr, 1, false)
	case OP_LHW:
		err = cpu.load(inst.Rt, addr, 2, true)
	case OP_LHWU:
		err = cpu.load(inst.Rt, addr, 2, false)
	case OP_LW:
		err = cpu.load(inst.Rt, addr, 4, false)
	case OP_SB:
		err = cpu.Mapper.SetByte(addr, [1]byte{byte(rt)})
	case OP_SHW:
		err = cpu.Mapper.SetHalfWord(addr, device.HalfWordOf(uint16(rt)))
	case OP_SW:
		err = cpu.Mapper.SetWord(addr, device.WordOf(rt))
	case OP_BEQ:
		if rs == rt {
			cpu.branch(inst.Immediate)
		}
	case OP_BNE:
		if rs != rt {
			cpu.branch(inst.Immediate)
		}
	case OP_BLEZ:
		if int32(rs) <= 0 {
			cpu.branch(inst.Immediate)
		}
	case OP_BGTZ:
		if int32(rs) > 0 {
			cpu.branch(inst.Immediate)
		}
	case OP_LWL, OP_LWR, OP_SWL, OP_SWR,
		OP_COP0, OP_COP1, OP_COP2, OP_COP3,
		OP_LWC0, OP_LWC1, OP_LWC2, OP_LWC3,
		OP_SWC0, OP_SWC1, OP_SWC2, OP_SWC3:
		err = ErrNotImplemented
	default:
		err = ErrIllegalInstruction
	}

	return
}

// executeRegimm executes a REGIMM branch.
func (cpu *Cpu) executeRegimm(inst RegimmType) (err error) {
	rs := int32(cpu.GetRegister(inst.Rs))

	if inst.Cond.Link() {
		cpu.Register[REG_RA] = cpu.Pc
	}

	var taken bool
	switch inst.Cond {
	case REGIMM_BLTZ, REGIMM_BLTZAL:
		taken = rs < 0
	case REGIMM_BGEZ, REGIMM_BGEZAL:
		// Zero does not branch.
		taken = rs > 0
	default:
		err = ErrIllegalInstruction
		return
	}

	if taken {
		cpu.branch(inst.Offset)
	}

	return
}

// executeJ executes a jump format instruction.
func (cpu *Cpu) executeJ(inst JType) (err error) {
	switch inst.Op {
	case OP_J:
	case OP_JAL:
		cpu.Register[REG_RA] = cpu.Pc
	default:
		err = ErrIllegalInstruction
		return
	}

	cpu.Pc = JumpTarget(cpu.Pc, inst.Target)

	return
}
