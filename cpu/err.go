package cpu

import (
	"errors"

	"github.com/ezrec/mips32/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrZeroRegisterWrite  = errors.New(f("write to zero register"))
	ErrDivideByZero       = errors.New(f("divide by zero"))
	ErrNotImplemented     = errors.New(f("not implemented"))
	ErrHalted             = errors.New(f("halted"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrSyscallCode        = errors.New(f("syscall code not encodable"))
	ErrBranchRange        = errors.New(f("branch target out of range"))
	ErrJumpSegment        = errors.New(f("jump target outside segment"))
)

// ErrExecute indicates the instruction that failed.
type ErrExecute struct {
	Pc   uint32 // Address of the instruction.
	Code Code   // Instruction word.
	Err  error
}

func (err *ErrExecute) Error() string {
	inst, decode_err := Decode(err.Code)
	if decode_err != nil {
		return f("pc 0x%08x code 0x%08x %v", err.Pc, uint32(err.Code), err.Err)
	}
	return f("pc 0x%08x code 0x%08x (%v) %v", err.Pc, uint32(err.Code), inst.String(), err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
