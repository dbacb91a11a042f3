// Package cpu implements the processor and assembler for the mips32 system.
//
// The CPU consists of a program counter (pc), thirty-two 32-bit
// general-purpose registers (r0-r31, where r0 always reads as zero), and the
// hi/lo multiply and divide registers. Instructions are fetched as
// big-endian words through a mapper.Mapper, decoded into one of the
// instruction formats (RType, IType, RegimmType, JType), and executed.
//
// Execution continues until a syscall with code 10 halts the processor, or
// the first error is returned.
//
// The assembler provides a small assembly language for the instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
