package emulator

import (
	"github.com/ezrec/mips32/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint32
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d pc 0x%08x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
