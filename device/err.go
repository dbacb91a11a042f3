package device

import (
	"errors"

	"github.com/ezrec/mips32/translate"
)

var f = translate.From

var (
	// Device errors
	ErrOutOfBounds          = errors.New(f("out of bounds"))
	ErrUnsupportedOperation = errors.New(f("unsupported operation"))
)
