package emulator

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sim86/cpu"
	simio "github.com/ezrec/sim86/io"
)

// countdown is "mov cx,0x3 / sub cx,byte +0x1 / jnz $-0x3".
var countdown = []byte{
	0xb9, 0x03, 0x00,
	0x83, 0xe9, 0x01,
	0x75, 0xfb,
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.NotNil(emu.Listing)
	assert.Equal(0, emu.LineNo())
}

func doRun(emu *Emulator, code []byte, t *testing.T) (listing string) {
	assert := assert.New(t)

	err := emu.Load(code)
	assert.NoError(err)

	buff := &bytes.Buffer{}
	emu.Listing = buff

	err = emu.Run()
	assert.NoError(err)
	if err != nil {
		t.Log(emu.Cpu.String())
		t.FailNow()
	}

	listing = buff.String()
	return
}

func TestEmulator_Print(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	listing := doRun(emu, countdown, t)

	assert.Equal("bits 16\nmov cx,0x3\nsub cx,byte +0x1\njnz $-0x3\n", listing)
	assert.Equal(uint16(0), emu.Cpu.Register[cpu.REG_CX])
	assert.Equal(3, emu.Steps)
	assert.Equal(len(countdown), emu.Cpu.Ip)
}

func TestEmulator_PrintLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Limit = 2

	err := emu.Load(countdown)
	assert.NoError(err)

	buff := &bytes.Buffer{}
	emu.Listing = buff

	err = emu.Run()
	assert.True(errors.Is(err, ErrLimit))

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(6, rt.Ip)
	assert.Equal(3, rt.LineNo)
	assert.Equal("bits 16\nmov cx,0x3\nsub cx,byte +0x1\n", buff.String())
}

func TestEmulator_Exec(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	listing := doRun(emu, countdown, t)

	lines := strings.Split(listing, "\n")
	assert.Equal([]string{
		"bits 16",
		"mov cx,0x3",
		"sub cx,byte +0x1",
		"jnz $-0x3",
		"sub cx,byte +0x1",
		"jnz $-0x3",
		"sub cx,byte +0x1",
		"jnz $-0x3",
		"",
		"Final registers:",
	}, lines[:10])
	assert.Contains(listing, "   cx: 0x0000 (0)\n")
	assert.Contains(listing, "flags: -Z\n")
	assert.Equal(7, emu.Steps)
	assert.Equal(4+3*4+2*16+4, emu.Cpu.TotalClocks)
}

func TestEmulator_Clocks(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	emu.ShowClocks = true
	listing := doRun(emu, countdown[:6], t)

	assert.Contains(listing, "mov cx,0x3 ; Clocks: +4 = 4\n")
	assert.Contains(listing, "sub cx,byte +0x1 ; Clocks: +4 = 8\n")
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true

	err := emu.Load(countdown)
	assert.NoError(err)
	err = emu.Reset()
	assert.NoError(err)

	lines := []int{}
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		assert.NoError(err)
		if err != nil {
			break
		}
		lines = append(lines, emu.LineNo())
	}

	assert.Equal([]int{2, 3, 2, 3, 2, 3, 0}, lines)
	assert.Equal(len(countdown), emu.Cpu.Ip)
}

func TestEmulator_Skip(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	emu.ShowClocks = true
	listing := doRun(emu, []byte{
		0x81, 0xc8, 0x01, 0x00, // or ax,0x1
		0xb8, 0x02, 0x00, // mov ax,0x2
	}, t)

	assert.Contains(listing, "\nor ax,0x1\n")
	assert.Contains(listing, "\nmov ax,0x2 ; Clocks: +4 = 4\n")
	assert.Equal(uint16(2), emu.Cpu.Register[cpu.REG_AX])
}

func TestEmulator_Break(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	emu.Break = "cx == 1 and not zf"
	doRun(emu, countdown, t)

	assert.Equal(uint16(1), emu.Cpu.Register[cpu.REG_CX])
	assert.Equal(6, emu.Cpu.Ip)
	assert.Equal(4, emu.Steps)
}

func TestEmulator_Watch(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Cpu.Register[cpu.REG_AX] = 0x1234
	emu.Cpu.Memory[0xffff] = 0xcd
	emu.Cpu.Memory[0x0000] = 0xab
	emu.Cpu.Flags = cpu.FLAG_SIGN

	table := [](struct {
		expr string
		hit  bool
	}){
		{"ax == 0x1234", true},
		{"ah == 0x12 and al == 0x34", true},
		{"sf and not zf", true},
		{"byte(0xffff) == 0xcd", true},
		{"word(0xffff) == 0xabcd", true},
		{"ip", false},
		{"clocks > 0", false},
	}

	for _, entry := range table {
		hit, err := emu.Watch(entry.expr)
		assert.NoError(err, entry.expr)
		assert.Equal(entry.hit, hit, entry.expr)
	}

	_, err := emu.Watch("ax ==")
	assert.Error(err)

	_, err = emu.Watch("nosuch == 1")
	assert.Error(err)

	for _, expr := range []string{"None", "print('x')"} {
		hit, err := emu.Watch(expr)
		var ewe ErrWatchExpression
		assert.True(errors.As(err, &ewe), expr)
		assert.Equal(ErrWatchExpression(expr), ewe, expr)
		assert.False(hit, expr)
	}
}

func TestEmulator_BreakNone(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	emu.Break = "None"

	err := emu.Load(countdown)
	assert.NoError(err)

	err = emu.Run()
	var ewe ErrWatchExpression
	assert.True(errors.As(err, &ewe))
	assert.Equal(1, emu.Steps)
}

func TestEmulator_Limit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	emu.Limit = 10

	err := emu.Load([]byte{0x75, 0xfe}) // jnz $+0x0
	assert.NoError(err)

	err = emu.Run()
	assert.True(errors.Is(err, ErrLimit))

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(0, rt.Ip)
	assert.Equal(1, rt.LineNo)
	assert.Equal(10, emu.Steps)
}

func TestEmulator_IpRange(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true

	err := emu.Load([]byte{0x75, 0x80}) // jnz $-0x7e
	assert.NoError(err)

	err = emu.Run()
	assert.True(errors.Is(err, cpu.ErrIpRange))
}

func TestEmulator_Load(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.Load(make([]byte, cpu.MEMORY_SIZE+1))
	assert.True(errors.Is(err, cpu.ErrProgramSize))

	err = emu.LoadFrom(bytes.NewReader(make([]byte, cpu.MEMORY_SIZE+1)))
	assert.True(errors.Is(err, simio.ErrImageSize))

	err = emu.LoadFrom(bytes.NewReader(countdown))
	assert.NoError(err)
	assert.Equal(countdown, emu.Code)
	assert.Equal(3, len(emu.Program.Opcodes))
}

func TestEmulator_LoadCopy(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	code := slices.Clone(countdown)
	err := emu.Load(code)
	assert.NoError(err)

	code[0] = 0x90
	code[1] = 0x90

	assert.Equal(countdown, emu.Code)
	assert.Equal("mov cx,0x3", emu.Program.Opcodes[0].Text)

	listing := doRun(emu, emu.Code, t)
	assert.Equal("bits 16\nmov cx,0x3\nsub cx,byte +0x1\njnz $-0x3\n", listing)
}

func TestEmulator_Dump(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Exec = true
	doRun(emu, []byte{
		0xb8, 0xcd, 0xab, // mov ax,0xabcd
		0xa3, 0x00, 0x01, // mov [0x100],ax
	}, t)

	buff := &bytes.Buffer{}
	err := emu.Dump(buff)
	assert.NoError(err)

	image := buff.Bytes()
	assert.Equal(cpu.MEMORY_SIZE, len(image))
	assert.Equal(uint8(0xb8), image[0])
	assert.Equal([]byte{0xcd, 0xab}, image[0x100:0x102])
}
