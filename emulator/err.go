package emulator

import (
	"errors"

	"github.com/ezrec/sim86/translate"
)

var f = translate.From

var (
	// Emulator errors
	ErrLimit = errors.New(f("instruction limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("ip 0x%04x line %d %v", err.Ip, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrWatchExpression is a watch expression that produced no value.
type ErrWatchExpression string

func (err ErrWatchExpression) Error() string {
	return f("'%v' is not a valid expression", string(err))
}
