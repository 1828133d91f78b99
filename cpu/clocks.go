// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// Instruction clock costs. Forms marked EA add the effective address cost.
const (
	CLOCKS_MOV_REG_REG = 2
	CLOCKS_MOV_REG_MEM = 8 // + EA
	CLOCKS_MOV_MEM_REG = 9 // + EA
	CLOCKS_MOV_REG_IMM = 4
	CLOCKS_MOV_MEM_IMM = 10 // + EA
	CLOCKS_MOV_ACC_MEM = 10

	CLOCKS_ALU_REG_REG = 3
	CLOCKS_ALU_REG_MEM = 9  // + EA, also cmp mem,reg
	CLOCKS_ALU_MEM_REG = 16 // + EA
	CLOCKS_ALU_REG_IMM = 4
	CLOCKS_ALU_ACC_IMM = 4
	CLOCKS_ALU_MEM_IMM = 17 // + EA
	CLOCKS_CMP_MEM_IMM = 10 // + EA

	CLOCKS_JCC_TAKEN     = 16
	CLOCKS_JCC_NOT_TAKEN = 4
)

// jumpClocks are the taken and not taken costs of the loop family.
var jumpClocks = map[CodeJump][2]int{
	JUMP_LOOP:   {17, 5},
	JUMP_LOOPZ:  {18, 6},
	JUMP_LOOPNZ: {19, 5},
	JUMP_JCXZ:   {18, 6},
}

// eaClocks returns the cost of computing an effective address. Register
// operands cost nothing. 8-bit and 16-bit displacements cost the same.
func eaClocks(mod, rm uint8) (clocks int) {
	switch mod {
	case MOD_MEM:
		switch rm {
		case 0, 3: // bx+si, bp+di
			clocks = 7
		case 1, 2: // bx+di, bp+si
			clocks = 8
		case RM_DIRECT:
			clocks = 6
		default: // si, di, bx
			clocks = 5
		}
	case MOD_MEM_DISP8, MOD_MEM_DISP16:
		switch rm {
		case 0, 3:
			clocks = 11
		case 1, 2:
			clocks = 12
		default: // si, di, bp, bx
			clocks = 9
		}
	}

	return
}
