// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// CodeAluOp is an arithmetic group operation. It is encoded in bits 3-5 of
// the opcode for the r/m,reg forms, and in the reg field of the mod/reg/r_m
// byte for the immediate group (0x80-0x83).
type CodeAluOp int

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD = CodeAluOp(0) // add
	ALU_OP_OR  = CodeAluOp(1) // or
	ALU_OP_ADC = CodeAluOp(2) // adc
	ALU_OP_SBB = CodeAluOp(3) // sbb
	ALU_OP_AND = CodeAluOp(4) // and
	ALU_OP_SUB = CodeAluOp(5) // sub
	ALU_OP_XOR = CodeAluOp(6) // xor
	ALU_OP_CMP = CodeAluOp(7) // cmp
)

// CodeJump is a short jump, conditional jump or loop instruction.
type CodeJump int

//go:generate go tool stringer -linecomment -type=CodeJump
const (
	JUMP_JO     = CodeJump(0)  // jo
	JUMP_JNO    = CodeJump(1)  // jno
	JUMP_JC     = CodeJump(2)  // jc
	JUMP_JNC    = CodeJump(3)  // jnc
	JUMP_JZ     = CodeJump(4)  // jz
	JUMP_JNZ    = CodeJump(5)  // jnz
	JUMP_JNA    = CodeJump(6)  // jna
	JUMP_JA     = CodeJump(7)  // ja
	JUMP_JS     = CodeJump(8)  // js
	JUMP_JNS    = CodeJump(9)  // jns
	JUMP_JPE    = CodeJump(10) // jpe
	JUMP_JPO    = CodeJump(11) // jpo
	JUMP_JL     = CodeJump(12) // jl
	JUMP_JNL    = CodeJump(13) // jnl
	JUMP_JNG    = CodeJump(14) // jng
	JUMP_JG     = CodeJump(15) // jg
	JUMP_LOOPNZ = CodeJump(16) // loopne
	JUMP_LOOPZ  = CodeJump(17) // loope
	JUMP_LOOP   = CodeJump(18) // loop
	JUMP_JCXZ   = CodeJump(19) // jcxz
)

// jumpOf returns the jump encoded by an opcode byte.
func jumpOf(opcode uint8) (jump CodeJump, ok bool) {
	switch {
	case opcode >= 0x70 && opcode <= 0x7f:
		jump, ok = CodeJump(opcode-0x70), true
	case opcode >= 0xe0 && opcode <= 0xe3:
		jump, ok = JUMP_LOOPNZ+CodeJump(opcode-0xe0), true
	}
	return
}

// Register indexes, in encoding order.
const (
	REG_AX = 0
	REG_CX = 1
	REG_DX = 2
	REG_BX = 3
	REG_SP = 4
	REG_BP = 5
	REG_SI = 6
	REG_DI = 7
)

// Addressing classes of the mod field.
const (
	MOD_MEM        = 0b00 // Memory, no displacement (r_m 110 is direct).
	MOD_MEM_DISP8  = 0b01 // Memory, signed 8-bit displacement.
	MOD_MEM_DISP16 = 0b10 // Memory, 16-bit displacement.
	MOD_REG        = 0b11 // Register direct.

	RM_DIRECT = 0b110 // r_m selecting a direct address when mod is 00.
)

var wideRegisters = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

var byteRegisters = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}

var eaRegisters = [8]string{"bx+si", "bx+di", "bp+si", "bp+di", "si", "di", "bp", "bx"}

// RegisterName returns the assembler name of a register, word sized if w is set.
func RegisterName(reg uint8, w bool) string {
	if w {
		return wideRegisters[reg&7]
	}
	return byteRegisters[reg&7]
}

// ModRM is a mod/reg/r_m byte.
type ModRM uint8

// Mod returns the addressing class.
func (m ModRM) Mod() uint8 {
	return uint8(m) >> 6
}

// Reg returns the register, or the sub-opcode for group instructions.
func (m ModRM) Reg() uint8 {
	return (uint8(m) >> 3) & 0x7
}

// Rm returns the register or base register pair selector.
func (m ModRM) Rm() uint8 {
	return uint8(m) & 0x7
}

// IsRegister is true when the r/m operand is a register.
func (m ModRM) IsRegister() bool {
	return m.Mod() == MOD_REG
}

// IsDirect is true when the r/m operand is a bare 16-bit address.
func (m ModRM) IsDirect() bool {
	return m.Mod() == MOD_MEM && m.Rm() == RM_DIRECT
}

// DisplacementSize returns the number of displacement bytes following the byte.
func (m ModRM) DisplacementSize() int {
	switch m.Mod() {
	case MOD_MEM:
		if m.Rm() == RM_DIRECT {
			return 2
		}
	case MOD_MEM_DISP8:
		return 1
	case MOD_MEM_DISP16:
		return 2
	}
	return 0
}

// Operand is a decoded r/m operand.
type Operand struct {
	ModRM ModRM
	Disp  int16 // Displacement, sign extended for disp8, or the direct address.
	Size  int   // Encoded length, including the mod/reg/r_m byte.
}

// decodeOperand decodes the mod/reg/r_m byte at the start of data and its
// displacement. ok is false if data is too short.
func decodeOperand(data []byte) (op Operand, ok bool) {
	if len(data) < 1 {
		return
	}

	op.ModRM = ModRM(data[0])
	op.Size = 1 + op.ModRM.DisplacementSize()
	if len(data) < op.Size {
		return
	}

	switch op.Size - 1 {
	case 1:
		op.Disp = int16(int8(data[1]))
	case 2:
		op.Disp = int16(readWord(data[1:]))
	}

	ok = true
	return
}

// readWord reads a little-endian word from the start of data.
func readWord(data []byte) uint16 {
	return combine(data[1], data[0])
}

// lowByte returns the low byte of a word.
func lowByte(value uint16) uint8 {
	return uint8(value & 0xff)
}

// highByte returns the high byte of a word.
func highByte(value uint16) uint8 {
	return uint8(value >> 8)
}

// combine builds a word from its high and low bytes.
func combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}
