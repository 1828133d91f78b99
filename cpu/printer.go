// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"
)

// PrintResult is the assembler text of one decoded instruction.
type PrintResult struct {
	Code string // Assembler text, NASM syntax.
	End  int    // Offset just past the instruction.
}

// Print decodes the instruction at code[ip:] into assembler text.
//
// Print never reads past the end of code. Unknown opcodes, and instructions
// truncated by the end of code, are printed as a 'db' directive covering all
// of the remaining bytes.
func Print(code []byte, ip int) (result PrintResult) {
	if ip < 0 || ip >= len(code) {
		result.End = ip
		return
	}

	data := code[ip:]

	text, size, ok := printOpcode(data)
	if !ok {
		text, size = printBytes(data)
	}

	result = PrintResult{Code: text, End: ip + size}

	return
}

// printOpcode dispatches on the first byte of data.
func printOpcode(data []byte) (text string, size int, ok bool) {
	opcode := data[0]

	switch opcode {
	case 0x00, 0x01, 0x02, 0x03, // add r/m,reg
		0x28, 0x29, 0x2a, 0x2b, // sub r/m,reg
		0x38, 0x39, 0x3a, 0x3b: // cmp r/m,reg
		return printRmReg(CodeAluOp(opcode>>3).String(), data)
	case 0x04, 0x05, 0x2c, 0x2d, 0x3c, 0x3d:
		return printRegImm(CodeAluOp(opcode>>3).String(), REG_AX, opcode&1 != 0, data)
	case 0x80, 0x81, 0x82, 0x83:
		return printGroupImm(data)
	case 0x88, 0x89, 0x8a, 0x8b:
		return printRmReg("mov", data)
	case 0xa0, 0xa1, 0xa2, 0xa3:
		return printAccMem("mov", data)
	case 0xb0, 0xb1, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6, 0xb7,
		0xb8, 0xb9, 0xba, 0xbb, 0xbc, 0xbd, 0xbe, 0xbf:
		return printRegImm("mov", opcode&7, opcode&8 != 0, data)
	case 0xc6, 0xc7:
		if len(data) > 1 && ModRM(data[1]).Reg() != 0 {
			return
		}
		return printRmImm("mov", data)
	}

	if jump, is_jump := jumpOf(opcode); is_jump {
		return printJump(jump, data)
	}

	return
}

// printBytes prints all of data as a 'db' directive.
func printBytes(data []byte) (text string, size int) {
	bytes := make([]string, len(data))
	for n, b := range data {
		bytes[n] = fmt.Sprintf("0x%02x", b)
	}

	text = "db " + strings.Join(bytes, ",")
	size = len(data)

	return
}

// format returns the assembler text of an r/m operand.
func (op Operand) format(w bool) string {
	m := op.ModRM
	switch {
	case m.IsRegister():
		return RegisterName(m.Rm(), w)
	case m.IsDirect():
		return fmt.Sprintf("[%#x]", uint16(op.Disp))
	case m.Mod() == MOD_MEM:
		return "[" + eaRegisters[m.Rm()] + "]"
	default:
		return fmt.Sprintf("[%v%+#x]", eaRegisters[m.Rm()], int(op.Disp))
	}
}

// formatSized is format with a size prefix for memory operands, for
// instructions with no register operand to imply the width.
func (op Operand) formatSized(w bool) string {
	if op.ModRM.IsRegister() {
		return op.format(w)
	}
	if w {
		return "word " + op.format(w)
	}
	return "byte " + op.format(w)
}

// printRmReg prints the r/m,reg forms; the d bit selects reg as destination.
func printRmReg(op string, data []byte) (text string, size int, ok bool) {
	w := data[0]&1 != 0
	d := data[0]&2 != 0

	rm, ok := decodeOperand(data[1:])
	if !ok {
		return
	}

	dst := rm.format(w)
	src := RegisterName(rm.ModRM.Reg(), w)
	if d {
		dst, src = src, dst
	}

	text = fmt.Sprintf("%v %v,%v", op, dst, src)
	size = 1 + rm.Size

	return
}

// printRegImm prints a register,immediate form with the immediate following
// the opcode byte.
func printRegImm(op string, reg uint8, w bool, data []byte) (text string, size int, ok bool) {
	size = 2
	if w {
		size = 3
	}
	if len(data) < size {
		return
	}

	immed := uint16(data[1])
	if w {
		immed = readWord(data[1:])
	}

	text = fmt.Sprintf("%v %v,%#x", op, RegisterName(reg, w), immed)
	ok = true

	return
}

// printGroupImm prints the immediate group, naming the operation from the
// reg field.
func printGroupImm(data []byte) (text string, size int, ok bool) {
	if len(data) < 2 {
		return
	}

	op := CodeAluOp(ModRM(data[1]).Reg())

	return printRmImm(op.String(), data)
}

// printRmImm prints an r/m,immediate form. 0x83 carries a sign extended
// byte immediate for a word destination.
func printRmImm(op string, data []byte) (text string, size int, ok bool) {
	opcode := data[0]
	w := opcode&1 != 0

	rm, ok := decodeOperand(data[1:])
	if !ok {
		return
	}

	immed := data[1+rm.Size:]

	var value string
	switch {
	case opcode == 0x83:
		if len(immed) < 1 {
			ok = false
			return
		}
		value = fmt.Sprintf("byte %+#x", int8(immed[0]))
		size = 2 + rm.Size
	case w:
		if len(immed) < 2 {
			ok = false
			return
		}
		value = fmt.Sprintf("%#x", readWord(immed))
		size = 3 + rm.Size
	default:
		if len(immed) < 1 {
			ok = false
			return
		}
		value = fmt.Sprintf("%#x", immed[0])
		size = 2 + rm.Size
	}

	text = fmt.Sprintf("%v %v,%v", op, rm.formatSized(w), value)

	return
}

// printAccMem prints the accumulator to and from direct address forms.
func printAccMem(op string, data []byte) (text string, size int, ok bool) {
	if len(data) < 3 {
		return
	}

	w := data[0]&1 != 0
	acc := RegisterName(REG_AX, w)
	addr := fmt.Sprintf("[%#x]", readWord(data[1:]))

	if data[0]&2 == 0 {
		text = fmt.Sprintf("%v %v,%v", op, acc, addr)
	} else {
		text = fmt.Sprintf("%v %v,%v", op, addr, acc)
	}
	size = 3
	ok = true

	return
}

// printJump prints a short jump relative to '$', the start of the jump.
func printJump(jump CodeJump, data []byte) (text string, size int, ok bool) {
	if len(data) < 2 {
		return
	}

	target := int(int8(data[1])) + 2

	text = fmt.Sprintf("%v $%+#x", jump, target)
	size = 2
	ok = true

	return
}
