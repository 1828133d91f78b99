// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
)

// Opcode is one printed instruction of a listing.
type Opcode struct {
	Ip   int    // Offset of the instruction.
	Size int    // Encoded length.
	Text string // Assembler text.
}

// Program is the listing of an instruction stream, decoded from start to end.
type Program struct {
	Opcodes []Opcode
}

// Debug locates an opcode in the listing.
type Debug struct {
	*Opcode
	Index int // Line of the opcode in the listing, from 0.
}

// Disassemble prints all of code, in order, into a listing.
func Disassemble(code []byte) (prog *Program) {
	prog = &Program{}

	for ip := 0; ip < len(code); {
		result := Print(code, ip)
		prog.Opcodes = append(prog.Opcodes, Opcode{
			Ip:   ip,
			Size: result.End - ip,
			Text: result.Code,
		})
		ip = result.End
	}

	return
}

// Debug returns the opcode whose encoding contains ip.
// dbg.Opcode is nil if no opcode does.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+op.Size {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  n,
			}
			break
		}
	}

	return
}

// Lines returns an iterator over the listing text by instruction offset.
func (prog *Program) Lines() iter.Seq2[int, string] {
	return func(yield func(ip int, text string) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Text) {
				return
			}
		}
	}
}
