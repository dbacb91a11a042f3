package mapper

import (
	"errors"

	"github.com/ezrec/mips32/translate"
)

var f = translate.From

var (
	// Mapper errors
	ErrUnmappedAddress = errors.New(f("unmapped address"))
	ErrRegionUnknown   = errors.New(f("region unknown"))
	ErrRegionInvalid   = errors.New(f("region invalid"))
)

// ErrAddress indicates the global address of a failed access.
type ErrAddress struct {
	Address uint32
	Err     error
}

func (err *ErrAddress) Error() string {
	return f("address 0x%08x %v", err.Address, err.Err)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}
