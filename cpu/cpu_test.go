package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mips32/device"
	"github.com/ezrec/mips32/mapper"
)

const TEST_MEMORY_SIZE = 0x1000

// newTestCpu creates a CPU over a small RAM, with codes loaded at address 0.
func newTestCpu(codes ...Code) (cpu *Cpu, mem *device.Memory) {
	mem = device.NewMemory(TEST_MEMORY_SIZE)
	for n, code := range codes {
		_ = mem.SetWord(uint32(n*4), device.WordOf(uint32(code)))
	}

	mp := mapper.NewMapper()
	mp.Map(mem, 0, TEST_MEMORY_SIZE-1, false)

	cpu = NewCpu(mp)
	cpu.Reset(0)

	return
}

func TestCpu_Sequence(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(
		MakeCodeI(OP_ADDIU, REG_ZERO, 1, 10),
		MakeCodeI(OP_ADDIU, REG_ZERO, 2, 20),
		MakeCodeR(FUNCT_ADD, 1, 2, 5, 0),
	)

	for range 3 {
		assert.NoError(cpu.Tick())
	}

	assert.Equal(uint32(10), cpu.Register[1])
	assert.Equal(uint32(20), cpu.Register[2])
	assert.Equal(uint32(30), cpu.Register[5])
	assert.Equal(uint32(12), cpu.Pc)
	assert.Equal(3, cpu.Ticks)
}

func TestCpu_AddMult(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(
		MakeCodeI(OP_ADDIU, 5, 10, 20),
		MakeCodeI(OP_ADDIU, 5, 3, 10),
		MakeCodeR(FUNCT_ADD, 3, 10, 5, 0),
		MakeCodeR(FUNCT_MULT, 10, 3, REG_AT, 0),
	)

	assert.Equal(uint32(0), cpu.Register[5])

	assert.NoError(cpu.Tick())
	assert.Equal(uint32(20), cpu.Register[10])

	assert.NoError(cpu.Tick())
	assert.Equal(uint32(10), cpu.Register[3])

	assert.NoError(cpu.Tick())
	assert.Equal(uint32(30), cpu.Register[5])

	// MULT of r10 (20) by r3 (10).
	assert.NoError(cpu.Tick())
	assert.Equal(uint32(200), cpu.Lo)
	assert.Equal(uint32(0), cpu.Hi)
}

func TestCpu_Alu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		code     Code
		expected uint32
	}){
		{"add", MakeCodeR(FUNCT_ADD, 1, 2, 3, 0), 0x8000_0000},
		{"addu", MakeCodeR(FUNCT_ADDU, 1, 2, 3, 0), 0x8000_0000},
		{"sub", MakeCodeR(FUNCT_SUB, 2, 1, 3, 0), 0x8000_0002},
		{"subu", MakeCodeR(FUNCT_SUBU, 1, 2, 3, 0), 0x7fff_fffe},
		{"and", MakeCodeR(FUNCT_AND, 1, 4, 3, 0), 0x7fff_fff0},
		{"or", MakeCodeR(FUNCT_OR, 2, 5, 3, 0), 5},
		{"xor", MakeCodeR(FUNCT_XOR, 4, 5, 3, 0), 0xffff_fff4},
		{"nor", MakeCodeR(FUNCT_NOR, 2, 5, 3, 0), 0xffff_fffa},
		{"slt", MakeCodeR(FUNCT_SLT, 4, 2, 3, 0), 1},
		{"sltu", MakeCodeR(FUNCT_SLTU, 4, 2, 3, 0), 0},
		{"sll", MakeCodeR(FUNCT_SLL, 0, 2, 3, 4), 16},
		{"srl", MakeCodeR(FUNCT_SRL, 0, 4, 3, 4), 0x0fff_ffff},
		{"sra", MakeCodeR(FUNCT_SRA, 0, 4, 3, 4), 0xffff_ffff},
		{"sllv", MakeCodeR(FUNCT_SLLV, 2, 5, 3, 0), 16},
		{"srlv", MakeCodeR(FUNCT_SRLV, 4, 5, 3, 0), 0x0fff_ffff},
		{"srav", MakeCodeR(FUNCT_SRAV, 5, 4, 3, 0), 0xffff_ffff},
		{"mfhi", MakeCodeR(FUNCT_MFHI, 0, 0, 3, 0), 0xaa},
		{"mflo", MakeCodeR(FUNCT_MFLO, 0, 0, 3, 0), 0x55},
		{"addi", MakeCodeI(OP_ADDI, 2, 3, 0xffff), 0},
		{"addiu", MakeCodeI(OP_ADDIU, 2, 3, 0xffff), 0x1_0000},
		{"slti", MakeCodeI(OP_SLTI, 4, 3, 0), 1},
		{"slti_eq", MakeCodeI(OP_SLTI, 4, 3, 0xfff0), 0},
		{"sltiu", MakeCodeI(OP_SLTIU, 2, 3, 0xffff), 1},
		{"andi", MakeCodeI(OP_ANDI, 4, 3, 0x00ff), 0xf0},
		{"ori", MakeCodeI(OP_ORI, 2, 3, 0x8000), 0x8001},
		{"xori", MakeCodeI(OP_XORI, 4, 3, 0xffff), 0xffff_000f},
		{"lui", MakeCodeI(OP_LUI, 0, 3, 0x1234), 0x1234_0000},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu()
		cpu.Register[1] = 0x7fff_ffff
		cpu.Register[2] = 1
		cpu.Register[4] = 0xffff_fff0
		cpu.Register[5] = 4
		cpu.Hi = 0xaa
		cpu.Lo = 0x55
		cpu.Pc = 4

		err := cpu.Execute(entry.code)
		assert.NoError(err, entry.name)
		assert.Equal(entry.expected, cpu.Register[3], entry.name)
		assert.Equal(uint32(0), cpu.Register[0], entry.name)
	}
}

func TestCpu_MulDiv(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		funct  CodeFunct
		rs, rt uint32
		hi, lo uint32
	}){
		{"mult", FUNCT_MULT, 10, 20, 0, 200},
		{"mult_neg", FUNCT_MULT, 0xffff_fffe, 3, 0xffff_ffff, 0xffff_fffa},
		{"multu", FUNCT_MULTU, 0xffff_ffff, 2, 1, 0xffff_fffe},
		{"div", FUNCT_DIV, 0xffff_fff9, 2, 0xffff_ffff, 0xffff_fffd},
		{"divu", FUNCT_DIVU, 7, 2, 1, 3},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu()
		cpu.Register[1] = entry.rs
		cpu.Register[2] = entry.rt
		cpu.Pc = 4

		err := cpu.Execute(MakeCodeR(entry.funct, 1, 2, REG_AT, 0))
		assert.NoError(err, entry.name)
		assert.Equal(entry.hi, cpu.Hi, entry.name)
		assert.Equal(entry.lo, cpu.Lo, entry.name)
	}
}

func TestCpu_DivideByZero(t *testing.T) {
	assert := assert.New(t)

	for _, funct := range []CodeFunct{FUNCT_DIV, FUNCT_DIVU} {
		cpu, _ := newTestCpu()
		cpu.Register[1] = 100
		cpu.Hi = 0x1234
		cpu.Lo = 0x5678
		cpu.Pc = 4

		err := cpu.Execute(MakeCodeR(funct, 1, 2, REG_AT, 0))
		assert.ErrorIs(err, ErrDivideByZero, funct.String())
		assert.Equal(uint32(0x1234), cpu.Hi, funct.String())
		assert.Equal(uint32(0x5678), cpu.Lo, funct.String())
	}
}

func TestCpu_HiLoMove(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu()
	cpu.Register[7] = 0xcafe
	cpu.Register[8] = 0xbeef
	cpu.Pc = 4

	assert.NoError(cpu.Execute(MakeCodeR(FUNCT_MTHI, 0, 0, 7, 0)))
	assert.NoError(cpu.Execute(MakeCodeR(FUNCT_MTLO, 0, 0, 8, 0)))
	assert.Equal(uint32(0xcafe), cpu.Hi)
	assert.Equal(uint32(0xbeef), cpu.Lo)
}

func TestCpu_ZeroRegister(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
	}){
		{"add", MakeCodeR(FUNCT_ADD, 1, 2, REG_ZERO, 0)},
		{"mult", MakeCodeR(FUNCT_MULT, 1, 2, REG_ZERO, 0)},
		{"jr", MakeCodeR(FUNCT_JR, 1, 0, REG_ZERO, 0)},
		{"addiu", MakeCodeI(OP_ADDIU, 1, REG_ZERO, 1)},
		{"lui", MakeCodeI(OP_LUI, 0, REG_ZERO, 1)},
		{"lw", MakeCodeI(OP_LW, 0, REG_ZERO, 0x100)},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu()
		cpu.Register[1] = 0x40
		cpu.Register[2] = 2
		cpu.Pc = 0x24

		err := cpu.Execute(entry.code)
		assert.ErrorIs(err, ErrZeroRegisterWrite, entry.name)
		assert.Equal(uint32(0), cpu.Register[0], entry.name)

		var exec *ErrExecute
		if assert.True(errors.As(err, &exec), entry.name) {
			assert.Equal(uint32(0x20), exec.Pc, entry.name)
			assert.Equal(entry.code, exec.Code, entry.name)
		}
	}

	for funct := range functName {
		if funct == FUNCT_SYSCALL || funct == FUNCT_BREAK {
			continue
		}

		cpu, _ := newTestCpu()
		cpu.Register[1] = 0x40
		cpu.Register[2] = 2
		cpu.Hi = 0x1234
		cpu.Lo = 0x5678
		cpu.Pc = 4

		err := cpu.Execute(MakeCodeR(funct, 1, 2, REG_ZERO, 3))
		assert.ErrorIs(err, ErrZeroRegisterWrite, funct.String())
		assert.Equal(uint32(0), cpu.Register[0], funct.String())
		assert.Equal(uint32(0x1234), cpu.Hi, funct.String())
		assert.Equal(uint32(0x5678), cpu.Lo, funct.String())
		assert.Equal(uint32(4), cpu.Pc, funct.String())
	}

	// Syscall carries its status code in the rd field.
	cpu, _ := newTestCpu()
	cpu.Pc = 4
	code, ok := MakeCodeSyscall(0)
	assert.True(ok)
	assert.NoError(cpu.Execute(code))
}

func TestCpu_Memory(t *testing.T) {
	assert := assert.New(t)

	cpu, mem := newTestCpu()
	_ = mem.SetWord(0x100, [4]byte{0x80, 0x81, 0x7f, 0x02})
	cpu.Register[1] = 0x100
	cpu.Register[2] = 0x1234_5678
	cpu.Pc = 4

	table := [](struct {
		name     string
		code     Code
		expected uint32
	}){
		{"lb", MakeCodeI(OP_LB, 1, 3, 0), 0xffff_ff80},
		{"lbu", MakeCodeI(OP_LBU, 1, 3, 0), 0x80},
		{"lb_pos", MakeCodeI(OP_LB, 1, 3, 2), 0x7f},
		{"lhw", MakeCodeI(OP_LHW, 1, 3, 0), 0xffff_8081},
		{"lhwu", MakeCodeI(OP_LHWU, 1, 3, 0), 0x8081},
		{"lw", MakeCodeI(OP_LW, 1, 3, 0), 0x8081_7f02},
		{"lw_neg", MakeCodeI(OP_LW, 1, 3, 0xfffc), 0},
	}

	for _, entry := range table {
		err := cpu.Execute(entry.code)
		assert.NoError(err, entry.name)
		assert.Equal(entry.expected, cpu.Register[3], entry.name)
	}

	assert.NoError(cpu.Execute(MakeCodeI(OP_SW, 1, 2, 8)))
	assert.Equal([]byte{0x12, 0x34, 0x56, 0x78}, mem.Data[0x108:0x10c])
	assert.NoError(cpu.Execute(MakeCodeI(OP_SHW, 1, 2, 12)))
	assert.Equal([]byte{0x56, 0x78}, mem.Data[0x10c:0x10e])
	assert.NoError(cpu.Execute(MakeCodeI(OP_SB, 1, 2, 0xffff)))
	assert.Equal(byte(0x78), mem.Data[0xff])

	err := cpu.Execute(MakeCodeI(OP_LW, 0, 3, 0x8000))
	assert.ErrorIs(err, mapper.ErrUnmappedAddress)
}

func TestCpu_Branch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		code     Code
		expected uint32
	}){
		{"beq_taken", MakeCodeI(OP_BEQ, 1, 1, 8), 0x28},
		{"beq_not", MakeCodeI(OP_BEQ, 1, 2, 8), 0x20},
		{"bne_taken", MakeCodeI(OP_BNE, 1, 2, 0xfff8), 0x18},
		{"blez_neg", MakeCodeI(OP_BLEZ, 2, 0, 8), 0x28},
		{"blez_zero", MakeCodeI(OP_BLEZ, 0, 0, 8), 0x28},
		{"blez_pos", MakeCodeI(OP_BLEZ, 1, 0, 8), 0x20},
		{"bgtz_pos", MakeCodeI(OP_BGTZ, 1, 0, 8), 0x28},
		{"bgtz_zero", MakeCodeI(OP_BGTZ, 0, 0, 8), 0x20},
		{"bltz_neg", MakeCodeRegimm(REGIMM_BLTZ, 2, 8), 0x28},
		{"bltz_pos", MakeCodeRegimm(REGIMM_BLTZ, 1, 8), 0x20},
		{"bgez_pos", MakeCodeRegimm(REGIMM_BGEZ, 1, 8), 0x28},
		{"bgez_zero", MakeCodeRegimm(REGIMM_BGEZ, 0, 8), 0x20},
		{"bltz_zero", MakeCodeRegimm(REGIMM_BLTZ, 0, 8), 0x20},
		{"bgez_neg", MakeCodeRegimm(REGIMM_BGEZ, 2, 8), 0x20},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu()
		cpu.Register[1] = 5
		cpu.Register[2] = 0xffff_ffff
		cpu.Pc = 0x20

		err := cpu.Execute(entry.code)
		assert.NoError(err, entry.name)
		assert.Equal(entry.expected, cpu.Pc, entry.name)
		assert.Equal(uint32(0), cpu.Register[REG_RA], entry.name)
	}
}

func TestCpu_Link(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu()
	cpu.Register[1] = 5
	cpu.Register[2] = 0xffff_ffff

	cpu.Pc = 0x20
	assert.NoError(cpu.Execute(MakeCodeRegimm(REGIMM_BGEZAL, 1, 0x10)))
	assert.Equal(uint32(0x30), cpu.Pc)
	assert.Equal(uint32(0x20), cpu.Register[REG_RA])

	// Link happens whether or not the branch is taken.
	cpu.Pc = 0x40
	assert.NoError(cpu.Execute(MakeCodeRegimm(REGIMM_BLTZAL, 1, 0x10)))
	assert.Equal(uint32(0x40), cpu.Pc)
	assert.Equal(uint32(0x40), cpu.Register[REG_RA])

	cpu.Pc = 0x1000_0004
	assert.NoError(cpu.Execute(MakeCodeJ(OP_JAL, 0x40)))
	assert.Equal(uint32(0x1000_0100), cpu.Pc)
	assert.Equal(uint32(0x1000_0004), cpu.Register[REG_RA])

	cpu.Register[1] = 0x200
	assert.NoError(cpu.Execute(MakeCodeR(FUNCT_JR, 1, 0, REG_AT, 0)))
	assert.Equal(uint32(0x200), cpu.Pc)
}

func TestCpu_Jump(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu()
	cpu.Pc = 0x1000_0004

	assert.NoError(cpu.Execute(MakeCodeJ(OP_J, 0x40)))
	assert.Equal(uint32(0x1000_0100), cpu.Pc)
	assert.Equal(uint32(0), cpu.Register[REG_RA])

	cpu.Pc = 0xf000_0000
	assert.NoError(cpu.Execute(MakeCodeJ(OP_J, TARGET_MASK)))
	assert.Equal(uint32(0xffff_fffc), cpu.Pc)
}

func TestCpu_Syscall(t *testing.T) {
	assert := assert.New(t)

	other, ok := MakeCodeSyscall(5)
	assert.True(ok)
	halt, ok := MakeCodeSyscall(SYSCALL_HALT)
	assert.True(ok)

	cpu, _ := newTestCpu(other, halt, MakeCodeI(OP_ADDIU, 0, 1, 1))

	assert.NoError(cpu.Tick())
	assert.False(cpu.Halted)
	assert.Equal(uint32(5), cpu.Syscall)

	assert.NoError(cpu.Tick())
	assert.True(cpu.Halted)
	assert.Equal(uint32(SYSCALL_HALT), cpu.Syscall)

	assert.ErrorIs(cpu.Tick(), ErrHalted)
	assert.Equal(uint32(8), cpu.Pc)
	assert.Equal(uint32(0), cpu.Register[1])

	cpu.Reset(0)
	assert.NoError(cpu.Run())
	assert.True(cpu.Halted)
	assert.Equal(2, cpu.Ticks)
}

func TestCpu_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		err  error
	}){
		{"op_illegal", Code(0o74 << 26), ErrIllegalInstruction},
		{"funct_illegal", MakeCodeR(CodeFunct(0o05), 1, 2, 3, 0), ErrIllegalInstruction},
		{"regimm_illegal", MakeCodeI(OP_REGIMM, 1, 5, 0), ErrIllegalInstruction},
		{"break", MakeCodeR(FUNCT_BREAK, 0, 0, REG_AT, 0), ErrNotImplemented},
		{"lwl", MakeCodeI(OP_LWL, 1, 2, 0), ErrNotImplemented},
		{"swr", MakeCodeI(OP_SWR, 1, 2, 0), ErrNotImplemented},
		{"cop1", MakeCodeJ(OP_COP1, 0), ErrNotImplemented},
		{"lwc2", MakeCodeI(OP_LWC2, 1, 2, 0), ErrNotImplemented},
		{"swc3", MakeCodeI(OP_SWC3, 1, 2, 0), ErrNotImplemented},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(entry.code)

		err := cpu.Tick()
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(0, cpu.Ticks, entry.name)
	}

	mp := mapper.NewMapper()
	cpu := NewCpu(mp)
	cpu.Reset(0x100)
	assert.ErrorIs(cpu.Tick(), mapper.ErrUnmappedAddress)
	assert.Equal(uint32(0x100), cpu.Pc)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu()
	cpu.Pc = 0x1234_5678
	cpu.Register[REG_RA] = 0xcafe_beef

	text := cpu.String()
	assert.Contains(text, "pc: 1234_5678")
	assert.Contains(text, "ra: CAFE_BEEF")
	assert.Contains(text, "zero: 0000_0000")
}
