// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/sim86/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpRange     = errors.New(f("ip outside of code"))
	ErrProgramSize = errors.New(f("program larger than memory"))

	// Instruction execution errors
	ErrOpcodeUnhandled = errors.New(f("unhandled"))
	ErrOpcodeTruncated = errors.New(f("truncated"))
	ErrOpcodeAlu       = errors.New(f("alu"))
	ErrOpcodeCond      = errors.New(f("cond"))
)

// ErrOpcode identifies the first byte of the instruction that failed.
type ErrOpcode uint8

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%02x", uint8(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAluOp identifies an immediate group sub-opcode that is not executed.
type ErrAluOp CodeAluOp

func (ea ErrAluOp) Error() string {
	return f("alu op %v", CodeAluOp(ea).String())
}

func (ea ErrAluOp) Unwrap() error {
	return ErrOpcodeAlu
}
