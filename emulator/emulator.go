// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator assembles a complete mips32 system: RAM, a screen, a
// console, and a CPU over a shared address space.
package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mips32/cpu"
	"github.com/ezrec/mips32/device"
	"github.com/ezrec/mips32/internal"
	"github.com/ezrec/mips32/mapper"
)

const (
	MEMORY_SIZE = 0x0010_0000 // Bytes of RAM, mapped at address 0.
	TEXT_BASE   = 0x0000_1000 // Load address and entry point of programs.
	STACK_TOP   = MEMORY_SIZE // Initial stack pointer.

	SCREEN_BASE = 0x1000_0000 // First screen cell.
	SCREEN_SIZE = 0x0001_0000 // Screen cells mapped.

	CONSOLE_BASE = 0x1001_0000 // Console data register.
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%#x", MEMORY_SIZE),
	"TEXT_BASE":    fmt.Sprintf("%#x", TEXT_BASE),
	"STACK_TOP":    fmt.Sprintf("%#x", STACK_TOP),
	"SCREEN_BASE":  fmt.Sprintf("%#x", SCREEN_BASE),
	"CONSOLE_BASE": fmt.Sprintf("%#x", CONSOLE_BASE),
}

// Emulator state. CPU + RAM + devices.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Cpu                  // Reference to the CPU simulation.
	Program      *cpu.Program // Reference to the currently running program listing.
	ReadOnlyText bool         // If set, program text is loaded as ROM.

	Memory  *device.Memory // RAM.
	Screen  device.Screen  // Screen device.
	Console device.Console // Console device.

	text *mapper.Region // ROM overlay of the program text, if any.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(mapper.NewMapper()),
		Program: &cpu.Program{Origin: TEXT_BASE},
		Memory:  device.NewMemory(MEMORY_SIZE),
	}

	emu.Screen.Output = io.Discard

	emu.Mapper.Map(emu.Memory, 0, MEMORY_SIZE-1, false)
	emu.Mapper.Map(&emu.Screen, SCREEN_BASE, SCREEN_BASE+SCREEN_SIZE-1, true)
	emu.Mapper.Map(&emu.Console, CONSOLE_BASE, CONSOLE_BASE+device.CONSOLE_SIZE-1, true)

	return
}

// Defines returns an iterator over all of the defines, in name order.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Sorted(internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Screen.Defines(),
		emu.Console.Defines(),
	))
}

// Assemble parses a program, with the emulator defines available to it,
// and makes it the current program.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Origin:  TEXT_BASE,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset clears memory, loads the program, and resets the CPU to the
// program origin.
func (emu *Emulator) Reset() (err error) {
	emu.Mapper.Verbose = emu.Verbose

	if emu.text != nil {
		err = emu.Mapper.Unmap(emu.text)
		if err != nil {
			return
		}
		emu.text = nil
	}

	emu.Memory.Reset()
	emu.Console.Rewind()

	origin := emu.Program.Origin
	bin := emu.Program.Binary()

	if emu.Verbose {
		log.Printf("emulator: load %d bytes at 0x%08x read-only:%v", len(bin), origin, emu.ReadOnlyText)
	}

	if emu.ReadOnlyText {
		if len(bin) > 0 {
			end := origin + uint32(len(bin)) - 1
			emu.text = emu.Mapper.Map(device.NewRom(bin), origin, end, true)
		}
	} else {
		for n := 0; n < len(bin); n += 4 {
			err = emu.Mapper.SetWord(origin+uint32(n), [4]byte(bin[n:n+4]))
			if err != nil {
				return
			}
		}
	}

	emu.Cpu.Reset(origin)
	emu.Cpu.Register[cpu.REG_SP] = STACK_TOP

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	return emu.lineAt(emu.Cpu.Pc)
}

// lineAt returns the source line number for the code at addr, or 0.
func (emu *Emulator) lineAt(addr uint32) int {
	dbg := emu.Program.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: emu.lineAt(pc), Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run ticks the emulator until the program halts or fails.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
