package emulator

import (
	"github.com/ezrec/ias/translate"
)

var f = translate.From

// ErrRuntime indicates the source line of a machine fault.
type ErrRuntime struct {
	LineNo int // Source line, or 0 if outside the loaded program.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("runtime %v", err.Err)
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
