package emulator

import (
	"github.com/ezrec/lcpu/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint32 // Byte address of the faulting instruction.
	LineNo int    // Source line, if a listing is loaded.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d @ %08X %v", err.LineNo, err.Pc, err.Err)
	}
	return f("@ %08X %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
