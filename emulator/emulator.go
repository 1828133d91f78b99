// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives the 8086 printer and simulator over a loaded
// program, one instruction per tick.
package emulator

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/ezrec/sim86/cpu"
	simio "github.com/ezrec/sim86/io"
	"github.com/ezrec/sim86/translate"
)

// Emulator state. CPU + program + listing output.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the loaded code.

	Exec       bool   // Execute instructions as well as printing them.
	ShowClocks bool   // Annotate executed instructions with their clocks.
	Break      string // Stop once this watch expression is true.
	Limit      int    // Fail after this many instructions, if non-zero.

	Listing io.Writer // Printed instructions.

	Code  []byte // Loaded instruction stream.
	Steps int    // Instructions since reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Listing: io.Discard,
	}

	return
}

// Load sets the instruction stream. Code larger than memory is rejected.
func (emu *Emulator) Load(code []byte) (err error) {
	if len(code) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramSize
		return
	}

	emu.Code = slices.Clone(code)
	emu.Program = cpu.Disassemble(emu.Code)

	return
}

// LoadFrom reads the instruction stream from r.
func (emu *Emulator) LoadFrom(r io.Reader) (err error) {
	img := &simio.Image{Capacity: cpu.MEMORY_SIZE}

	_, err = img.ReadFrom(r)
	if err != nil {
		return
	}

	err = emu.Load(img.Data)

	return
}

// Dump writes all of memory to w.
func (emu *Emulator) Dump(w io.Writer) (err error) {
	img := &simio.Image{Data: emu.Cpu.Memory[:]}

	_, err = img.WriteTo(w)

	return
}

// Reset the emulator state, copying the code to the start of memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Code)
	if err != nil {
		return
	}

	emu.Steps = 0

	return
}

// LineNo returns the listing line number for the current instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Index + 1
}

// Tick prints, and optionally executes, a single instruction.
//
// When executing, the next instruction is found from the CPU instruction
// pointer. An instruction the CPU cannot execute is logged, and skipped by
// its printed length.
func (emu *Emulator) Tick() (done bool, err error) {
	ip := emu.Cpu.Ip
	if ip >= len(emu.Code) {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
		}
	}()

	if ip < 0 {
		err = cpu.ErrIpRange
		return
	}

	if emu.Limit > 0 && emu.Steps >= emu.Limit {
		err = ErrLimit
		return
	}

	result := cpu.Print(emu.Code, ip)
	line := result.Code

	if emu.Exec {
		err = emu.Cpu.Execute(emu.Code)
		switch {
		case err == nil:
			if emu.ShowClocks {
				line += fmt.Sprintf(" ; Clocks: +%d = %d", emu.Cpu.Clocks, emu.Cpu.TotalClocks)
			}
		case errors.Is(err, cpu.ErrOpcode(0)):
			translate.Logf("sim86: 0x%04x %v: %v", ip, result.Code, err)
			emu.Cpu.Ip = result.End
			err = nil
		default:
			return
		}
	} else {
		emu.Cpu.Ip = result.End
	}

	emu.Steps++

	_, err = fmt.Fprintln(emu.Listing, line)
	if err != nil {
		return
	}

	if emu.Exec && len(emu.Break) != 0 {
		var hit bool
		hit, err = emu.Watch(emu.Break)
		if err != nil {
			return
		}
		if hit {
			if emu.Verbose {
				log.Printf("emulator: break '%v' at 0x%04x", emu.Break, emu.Cpu.Ip)
			}
			done = true
		}
	}

	return
}

// Run resets the emulator and writes the listing until done. When
// executing, the final register state follows the listing.
func (emu *Emulator) Run() (err error) {
	err = emu.Reset()
	if err != nil {
		return
	}

	_, err = fmt.Fprintln(emu.Listing, "bits 16")
	if err != nil {
		return
	}

	if !emu.Exec {
		err = emu.list()
		return
	}

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintf(emu.Listing, "\nFinal registers:\n%v", emu.Cpu)

	return
}

// list writes the listing decoded by Load, without executing it.
func (emu *Emulator) list() (err error) {
	for ip, text := range emu.Program.Lines() {
		emu.Cpu.Ip = ip
		if emu.Limit > 0 && emu.Steps >= emu.Limit {
			err = &ErrRuntime{Ip: ip, LineNo: emu.LineNo(), Err: ErrLimit}
			return
		}

		_, err = fmt.Fprintln(emu.Listing, text)
		if err != nil {
			return
		}

		emu.Steps++
	}

	emu.Cpu.Ip = len(emu.Code)

	return
}
