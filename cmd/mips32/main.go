// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/ezrec/mips32/cpu"
	"github.com/ezrec/mips32/emulator"
)

// state is the CPU state reported by the -d option.
type state struct {
	Pc       uint32
	LineNo   int
	Hi       uint32
	Lo       uint32
	Register map[string]string
	Halted   bool
	Syscall  uint32
	Ticks    int
}

func dump(emu *emulator.Emulator) {
	st := state{
		Pc:       emu.Pc,
		LineNo:   emu.LineNo(),
		Hi:       emu.Hi,
		Lo:       emu.Lo,
		Register: map[string]string{},
		Halted:   emu.Halted,
		Syscall:  emu.Syscall,
		Ticks:    emu.Ticks(),
	}
	for n, value := range emu.Register {
		st.Register[cpu.RegisterAlias(uint8(n))] = fmt.Sprintf("0x%08x", value)
	}

	printer := pp.New()
	printer.SetOutput(os.Stderr)
	printer.SetColoringEnabled(term.IsTerminal(int(os.Stderr.Fd())))
	printer.Println(st)
}

func listing(prog *cpu.Program, out io.Writer) {
	for addr, code := range prog.Codes() {
		dbg := prog.Debug(addr)
		text := "???"
		inst, err := cpu.Decode(code)
		if err == nil {
			text = inst.String()
		}
		fmt.Fprintf(out, "%08x: %08x %4d  %v\n", addr, uint32(code), dbg.LineNo, text)
	}
}

func run() (err error) {
	var compile string
	var input string
	var output string
	var screen string
	var width uint
	var rom bool
	var list bool
	var defines bool
	var verbose bool
	var debug bool

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.StringVar(&screen, "S", "", "Screen output (default: stdout, if a terminal)")
	flag.UintVar(&width, "w", 0, "Screen width (default: terminal width)")
	flag.BoolVar(&rom, "r", false, "Load program text as read-only")
	flag.BoolVar(&list, "l", false, "List the assembled program, do not execute")
	flag.BoolVar(&defines, "D", false, "Print the predefined equates, and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&debug, "d", false, "Dump the CPU state on exit")

	flag.Parse()

	if flag.NArg() != 0 {
		err = fmt.Errorf("unknown arguments: %v", flag.Args())
		return
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.ReadOnlyText = rom

	stdout_fd := int(os.Stdout.Fd())
	if width == 0 && term.IsTerminal(stdout_fd) {
		cols, _, size_err := term.GetSize(stdout_fd)
		if size_err == nil && cols > 0 {
			width = uint(cols)
		}
	}
	emu.Screen.Width = uint32(width)

	if defines {
		for key, value := range emu.Defines() {
			fmt.Printf(".equ %v %v\n", key, value)
		}
		return
	}

	if len(compile) == 0 {
		err = errors.New("no program, use -c")
		return
	}

	// Assemble after the screen geometry is known, so SCREEN_WIDTH is right.
	inf, err := os.Open(compile)
	if err != nil {
		return
	}
	defer inf.Close()

	err = emu.Assemble(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", compile, err)
		return
	}

	if list {
		listing(emu.Program, os.Stdout)
		return
	}

	if debug {
		defer dump(emu)
	}

	switch {
	case len(screen) != 0:
		scf, create_err := os.Create(screen)
		if create_err != nil {
			err = create_err
			return
		}
		defer scf.Close()
		emu.Screen.Output = scf
	case term.IsTerminal(stdout_fd):
		emu.Screen.Output = os.Stdout
	}

	if input == "-" {
		stdin_fd := int(os.Stdin.Fd())
		if term.IsTerminal(stdin_fd) {
			// Deliver keys to the console as they are typed.
			old_state, raw_err := term.MakeRaw(stdin_fd)
			if raw_err == nil {
				defer term.Restore(stdin_fd, old_state)
			}
		}
		emu.Console.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			return err
		}
		defer inf.Close()
		emu.Console.Input = inf
	}

	if output == "-" {
		emu.Console.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			return err
		}
		defer ouf.Close()
		emu.Console.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	if err != nil {
		err = fmt.Errorf("%v: %w", compile, err)
		return
	}

	return
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
