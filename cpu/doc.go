// Package cpu implements the instruction printer and simulator for a subset
// of the Intel 8086.
//
// Print decodes one instruction of real-mode machine code into NASM syntax.
// Cpu.Execute decodes the same instruction independently and applies it to
// the machine context: eight 16-bit registers, 64KiB of memory, the zero and
// sign flags, and an additive clock count taken from the 8086 timing tables.
//
// Supported are mov, add, sub and cmp in their register, memory and
// immediate forms, plus the short conditional jumps and the loop family.
package cpu
