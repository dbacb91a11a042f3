package cpu

import (
	"fmt"
)

// Register indexes with a conventional role.
const (
	REG_ZERO = 0  // Always zero.
	REG_AT   = 1  // Assembler temporary.
	REG_SP   = 29 // Stack pointer.
	REG_RA   = 31 // Return address, written by jal, bltzal, and bgezal.

	REGISTER_COUNT = 32
)

// registerName holds the conventional names of the registers.
var registerName = [REGISTER_COUNT]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// RegisterName returns the display name of register n, as accepted by the
// assembler.
func RegisterName(n uint8) string {
	return fmt.Sprintf("r%d", n)
}

// RegisterAlias returns the conventional name of register n.
func RegisterAlias(n uint8) string {
	if int(n) >= len(registerName) {
		return RegisterName(n)
	}
	return registerName[n]
}
