// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sim86/cpu"
)

// Watch evaluates a Starlark expression against the machine state.
//
// Registers are named as in the listing (ax, cl, ...), along with ip,
// the zf and sf flags, the total clocks, and the byte(addr) and
// word(addr) memory accessors.
func (emu *Emulator) Watch(expr string) (hit bool, err error) {
	thread := starlark.Thread{Name: "watch"}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "watch", prog, emu.predeclared())
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok || st_rc == starlark.None {
		err = ErrWatchExpression(expr)
		return
	}
	hit = bool(st_rc.Truth())
	return
}

// predeclared returns the machine state as Starlark values.
func (emu *Emulator) predeclared() (pred starlark.StringDict) {
	c := emu.Cpu

	pred = starlark.StringDict{
		"ip":     starlark.MakeInt(c.Ip),
		"zf":     starlark.Bool(c.Flags&cpu.FLAG_ZERO != 0),
		"sf":     starlark.Bool(c.Flags&cpu.FLAG_SIGN != 0),
		"clocks": starlark.MakeInt(c.TotalClocks),
		"steps":  starlark.MakeInt(emu.Steps),
	}

	for reg := range uint8(8) {
		pred[cpu.RegisterName(reg, true)] = starlark.MakeInt(int(c.Register[reg]))
		pred[cpu.RegisterName(reg, false)] = starlark.MakeInt(int(c.ByteRegister(reg)))
	}

	pred["byte"] = starlark.NewBuiltin("byte", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
		var addr int
		err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr)
		if err != nil {
			return
		}
		value = starlark.MakeInt(int(c.Memory[uint16(addr)]))
		return
	})

	pred["word"] = starlark.NewBuiltin("word", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
		var addr int
		err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr)
		if err != nil {
			return
		}
		low := c.Memory[uint16(addr)]
		high := c.Memory[uint16(addr+1)]
		value = starlark.MakeInt(int(high)<<8 | int(low))
		return
	})

	return
}
