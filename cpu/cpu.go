// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
)

// MEMORY_SIZE is the size of the addressable memory.
const MEMORY_SIZE = 0x10000

// Flags is the modelled subset of the 8086 flags register.
type Flags uint16

const (
	FLAG_ZERO = Flags(1 << 0) // Result was zero.
	FLAG_SIGN = Flags(1 << 1) // Result had its top bit set.
)

// String renders the flags in a fixed order, '-' for a clear flag.
func (fl Flags) String() string {
	text := []byte("--")
	if fl&FLAG_SIGN != 0 {
		text[0] = 'S'
	}
	if fl&FLAG_ZERO != 0 {
		text[1] = 'Z'
	}
	return string(text)
}

// Cpu is the machine context of the 8086 simulation.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]byte // Addressable memory.
	Register [8]uint16         // ax, cx, dx, bx, sp, bp, si, di.
	Ip       int               // Offset of the next instruction in the code.
	Flags    Flags             // Zero and sign flags.

	Clocks      int // Clocks charged to the last instruction.
	TotalClocks int // Clocks since reset.
}

// NewCpu creates a new, reset, CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Reset the CPU state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Ip = 0
	cpu.Flags = 0
	cpu.Clocks = 0
	cpu.TotalClocks = 0
}

// Load copies an image to the start of memory.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > len(cpu.Memory) {
		err = ErrProgramSize
		return
	}

	copy(cpu.Memory[:], image)

	return
}

// String returns the register and flag state as a string.
func (cpu *Cpu) String() (text string) {
	for reg, name := range wideRegisters {
		val := cpu.Register[reg]
		text += fmt.Sprintf("% 5s: 0x%04x (%d)\n", name, val, val)
	}
	text += fmt.Sprintf("% 5s: 0x%04x (%d)\n", "ip", cpu.Ip, cpu.Ip)
	text += fmt.Sprintf("% 5s: %v\n", "flags", cpu.Flags)

	return
}

// Execute executes the instruction at code[cpu.Ip].
//
// On success the instruction pointer is advanced past the instruction, or
// to the target of a taken jump, and the clock counters are updated. On
// error nothing in the CPU has changed.
func (cpu *Cpu) Execute(code []byte) (err error) {
	if cpu.Ip < 0 || cpu.Ip >= len(code) {
		err = ErrIpRange
		return
	}

	data := code[cpu.Ip:]
	opcode := data[0]

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(opcode), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %02x", cpu.Ip, opcode)
	}

	var size int
	var offset int

	switch opcode {
	case 0x00, 0x01, 0x02, 0x03, // add r/m,reg
		0x28, 0x29, 0x2a, 0x2b, // sub r/m,reg
		0x38, 0x39, 0x3a, 0x3b: // cmp r/m,reg
		size, err = cpu.execAluRm(data)
	case 0x04, 0x05, 0x2c, 0x2d, 0x3c, 0x3d:
		size, err = cpu.execAluAccImm(data)
	case 0x80, 0x81, 0x82, 0x83:
		size, err = cpu.execAluRmImm(data)
	case 0x88, 0x89, 0x8a, 0x8b:
		size, err = cpu.execMovRm(data)
	case 0xa0, 0xa1, 0xa2, 0xa3:
		size, err = cpu.execMovAcc(data)
	case 0xb0, 0xb1, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6, 0xb7,
		0xb8, 0xb9, 0xba, 0xbb, 0xbc, 0xbd, 0xbe, 0xbf:
		size, err = cpu.execMovRegImm(data)
	case 0xc6, 0xc7:
		size, err = cpu.execMovRmImm(data)
	case 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x76, 0x77,
		0x78, 0x79, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f,
		0xe0, 0xe1, 0xe2, 0xe3:
		size, offset, err = cpu.execJump(data)
	default:
		err = ErrOpcodeUnhandled
	}
	if err != nil {
		return
	}

	cpu.Ip += size + offset
	cpu.TotalClocks += cpu.Clocks

	return
}

// location is a resolved operand, either a register or a memory address.
type location struct {
	register bool
	index    uint8
	addr     uint16
}

// registerAt returns the location of a register.
func registerAt(index uint8) location {
	return location{register: true, index: index}
}

// baseAddress returns the base register sum selected by r_m.
func (cpu *Cpu) baseAddress(rm uint8) (addr uint16) {
	reg := &cpu.Register
	switch rm {
	case 0:
		addr = reg[REG_BX] + reg[REG_SI]
	case 1:
		addr = reg[REG_BX] + reg[REG_DI]
	case 2:
		addr = reg[REG_BP] + reg[REG_SI]
	case 3:
		addr = reg[REG_BP] + reg[REG_DI]
	case 4:
		addr = reg[REG_SI]
	case 5:
		addr = reg[REG_DI]
	case 6:
		addr = reg[REG_BP]
	case 7:
		addr = reg[REG_BX]
	}
	return
}

// resolve computes the location of an r/m operand, and the clocks spent
// computing its effective address.
func (cpu *Cpu) resolve(op Operand) (loc location, clocks int) {
	m := op.ModRM
	switch {
	case m.IsRegister():
		loc = registerAt(m.Rm())
		return
	case m.IsDirect():
		loc = location{addr: uint16(op.Disp)}
	default:
		loc = location{addr: cpu.baseAddress(m.Rm()) + uint16(op.Disp)}
	}

	clocks = eaClocks(m.Mod(), m.Rm())

	return
}

// ByteRegister reads al, cl, dl, bl, ah, ch, dh or bh.
func (cpu *Cpu) ByteRegister(reg uint8) uint8 {
	if reg < 4 {
		return lowByte(cpu.Register[reg])
	}
	return highByte(cpu.Register[reg-4])
}

// setByteRegister writes al, cl, dl, bl, ah, ch, dh or bh.
func (cpu *Cpu) setByteRegister(reg uint8, value uint8) {
	if reg < 4 {
		cpu.Register[reg] = combine(highByte(cpu.Register[reg]), value)
	} else {
		cpu.Register[reg-4] = combine(value, lowByte(cpu.Register[reg-4]))
	}
}

// load reads a byte or word from a location. Word accesses wrap at the
// end of memory.
func (cpu *Cpu) load(loc location, w bool) uint16 {
	switch {
	case loc.register && w:
		return cpu.Register[loc.index]
	case loc.register:
		return uint16(cpu.ByteRegister(loc.index))
	case w:
		return combine(cpu.Memory[loc.addr+1], cpu.Memory[loc.addr])
	default:
		return uint16(cpu.Memory[loc.addr])
	}
}

// store writes a byte or word to a location.
func (cpu *Cpu) store(loc location, w bool, value uint16) {
	switch {
	case loc.register && w:
		cpu.Register[loc.index] = value
	case loc.register:
		cpu.setByteRegister(loc.index, lowByte(value))
	case w:
		cpu.Memory[loc.addr] = lowByte(value)
		cpu.Memory[loc.addr+1] = highByte(value)
	default:
		cpu.Memory[loc.addr] = lowByte(value)
	}
}

// setFlags updates the zero and sign flags from a result.
func (cpu *Cpu) setFlags(value uint16, w bool) {
	sign := uint16(0x8000)
	if !w {
		value &= 0xff
		sign = 0x80
	}

	cpu.Flags &^= FLAG_ZERO | FLAG_SIGN
	if value == 0 {
		cpu.Flags |= FLAG_ZERO
	}
	if value&sign != 0 {
		cpu.Flags |= FLAG_SIGN
	}
}

// doAlu performs an arithmetic operation. store is false when the result
// only updates the flags.
func doAlu(op CodeAluOp, input uint16, value uint16) (output uint16, store bool, err error) {
	switch op {
	case ALU_OP_ADD:
		output, store = input+value, true
	case ALU_OP_SUB:
		output, store = input-value, true
	case ALU_OP_CMP:
		output = input - value
	default:
		err = ErrAluOp(op)
	}

	return
}

// execAluRm executes add, sub and cmp in their r/m,reg forms.
func (cpu *Cpu) execAluRm(data []byte) (size int, err error) {
	op := CodeAluOp(data[0] >> 3)
	w := data[0]&1 != 0
	d := data[0]&2 != 0

	rm, ok := decodeOperand(data[1:])
	if !ok {
		err = ErrOpcodeTruncated
		return
	}

	loc, ea := cpu.resolve(rm)
	dst, src := loc, registerAt(rm.ModRM.Reg())
	if d {
		dst, src = src, dst
	}

	output, store, err := doAlu(op, cpu.load(dst, w), cpu.load(src, w))
	if err != nil {
		return
	}

	if store {
		cpu.store(dst, w, output)
	}
	cpu.setFlags(output, w)

	switch {
	case rm.ModRM.IsRegister():
		cpu.Clocks = CLOCKS_ALU_REG_REG
	case d || op == ALU_OP_CMP:
		cpu.Clocks = CLOCKS_ALU_REG_MEM + ea
	default:
		cpu.Clocks = CLOCKS_ALU_MEM_REG + ea
	}

	size = 1 + rm.Size

	return
}

// execAluAccImm executes add, sub and cmp against al or ax.
func (cpu *Cpu) execAluAccImm(data []byte) (size int, err error) {
	op := CodeAluOp(data[0] >> 3)
	w := data[0]&1 != 0

	size = 2
	if w {
		size = 3
	}
	if len(data) < size {
		err = ErrOpcodeTruncated
		return
	}

	value := uint16(data[1])
	if w {
		value = readWord(data[1:])
	}

	acc := registerAt(REG_AX)
	output, store, err := doAlu(op, cpu.load(acc, w), value)
	if err != nil {
		return
	}

	if store {
		cpu.store(acc, w, output)
	}
	cpu.setFlags(output, w)
	cpu.Clocks = CLOCKS_ALU_ACC_IMM

	return
}

// execAluRmImm executes the immediate group. Only add, sub and cmp are
// supported.
func (cpu *Cpu) execAluRmImm(data []byte) (size int, err error) {
	opcode := data[0]
	w := opcode&1 != 0

	rm, ok := decodeOperand(data[1:])
	if !ok {
		err = ErrOpcodeTruncated
		return
	}

	immed := data[1+rm.Size:]

	var value uint16
	switch {
	case opcode == 0x83:
		if len(immed) < 1 {
			err = ErrOpcodeTruncated
			return
		}
		value = uint16(int16(int8(immed[0])))
		size = 2 + rm.Size
	case w:
		if len(immed) < 2 {
			err = ErrOpcodeTruncated
			return
		}
		value = readWord(immed)
		size = 3 + rm.Size
	default:
		if len(immed) < 1 {
			err = ErrOpcodeTruncated
			return
		}
		value = uint16(immed[0])
		size = 2 + rm.Size
	}

	op := CodeAluOp(rm.ModRM.Reg())
	loc, ea := cpu.resolve(rm)

	output, store, err := doAlu(op, cpu.load(loc, w), value)
	if err != nil {
		return
	}

	if store {
		cpu.store(loc, w, output)
	}
	cpu.setFlags(output, w)

	switch {
	case rm.ModRM.IsRegister():
		cpu.Clocks = CLOCKS_ALU_REG_IMM
	case op == ALU_OP_CMP:
		cpu.Clocks = CLOCKS_CMP_MEM_IMM + ea
	default:
		cpu.Clocks = CLOCKS_ALU_MEM_IMM + ea
	}

	return
}

// execMovRm executes mov in its r/m,reg forms.
func (cpu *Cpu) execMovRm(data []byte) (size int, err error) {
	w := data[0]&1 != 0
	d := data[0]&2 != 0

	rm, ok := decodeOperand(data[1:])
	if !ok {
		err = ErrOpcodeTruncated
		return
	}

	loc, ea := cpu.resolve(rm)
	reg := registerAt(rm.ModRM.Reg())

	switch {
	case rm.ModRM.IsRegister():
		cpu.Clocks = CLOCKS_MOV_REG_REG
	case d:
		cpu.Clocks = CLOCKS_MOV_REG_MEM + ea
	default:
		cpu.Clocks = CLOCKS_MOV_MEM_REG + ea
	}

	if d {
		cpu.store(reg, w, cpu.load(loc, w))
	} else {
		cpu.store(loc, w, cpu.load(reg, w))
	}

	size = 1 + rm.Size

	return
}

// execMovAcc executes mov between al or ax and a direct address.
func (cpu *Cpu) execMovAcc(data []byte) (size int, err error) {
	if len(data) < 3 {
		err = ErrOpcodeTruncated
		return
	}

	w := data[0]&1 != 0
	mem := location{addr: readWord(data[1:])}
	acc := registerAt(REG_AX)

	if data[0]&2 == 0 {
		cpu.store(acc, w, cpu.load(mem, w))
	} else {
		cpu.store(mem, w, cpu.load(acc, w))
	}

	cpu.Clocks = CLOCKS_MOV_ACC_MEM
	size = 3

	return
}

// execMovRegImm executes mov reg,immediate.
func (cpu *Cpu) execMovRegImm(data []byte) (size int, err error) {
	w := data[0]&8 != 0
	reg := registerAt(data[0] & 7)

	size = 2
	if w {
		size = 3
	}
	if len(data) < size {
		err = ErrOpcodeTruncated
		return
	}

	value := uint16(data[1])
	if w {
		value = readWord(data[1:])
	}

	cpu.store(reg, w, value)
	cpu.Clocks = CLOCKS_MOV_REG_IMM

	return
}

// execMovRmImm executes mov r/m,immediate.
func (cpu *Cpu) execMovRmImm(data []byte) (size int, err error) {
	w := data[0]&1 != 0

	if len(data) > 1 && ModRM(data[1]).Reg() != 0 {
		err = ErrOpcodeUnhandled
		return
	}

	rm, ok := decodeOperand(data[1:])
	if !ok {
		err = ErrOpcodeTruncated
		return
	}

	immed := data[1+rm.Size:]

	need := 1
	if w {
		need = 2
	}
	if len(immed) < need {
		err = ErrOpcodeTruncated
		return
	}
	size = 1 + rm.Size + need

	value := uint16(immed[0])
	if w {
		value = readWord(immed)
	}

	loc, ea := cpu.resolve(rm)
	cpu.store(loc, w, value)

	if rm.ModRM.IsRegister() {
		cpu.Clocks = CLOCKS_MOV_REG_IMM
	} else {
		cpu.Clocks = CLOCKS_MOV_MEM_IMM + ea
	}

	return
}

// execJump executes the short conditional jumps and the loop family.
// offset is the displacement to apply when the jump is taken.
func (cpu *Cpu) execJump(data []byte) (size int, offset int, err error) {
	if len(data) < 2 {
		err = ErrOpcodeTruncated
		return
	}

	jump, _ := jumpOf(data[0])
	zero := cpu.Flags&FLAG_ZERO != 0
	sign := cpu.Flags&FLAG_SIGN != 0

	clocks := [2]int{CLOCKS_JCC_TAKEN, CLOCKS_JCC_NOT_TAKEN}

	var taken bool
	switch jump {
	case JUMP_JZ:
		taken = zero
	case JUMP_JNZ:
		taken = !zero
	case JUMP_JS:
		taken = sign
	case JUMP_JNS:
		taken = !sign
	case JUMP_LOOP, JUMP_LOOPZ, JUMP_LOOPNZ:
		cx := cpu.Register[REG_CX] - 1
		cpu.Register[REG_CX] = cx
		taken = cx != 0
		if jump == JUMP_LOOPZ {
			taken = taken && zero
		}
		if jump == JUMP_LOOPNZ {
			taken = taken && !zero
		}
		clocks = jumpClocks[jump]
	case JUMP_JCXZ:
		taken = cpu.Register[REG_CX] == 0
		clocks = jumpClocks[jump]
	default:
		// Depends on carry, overflow or parity, which are not modelled.
		err = ErrOpcodeCond
		return
	}

	if taken {
		offset = int(int8(data[1]))
		cpu.Clocks = clocks[0]
	} else {
		cpu.Clocks = clocks[1]
	}

	size = 2

	return
}
