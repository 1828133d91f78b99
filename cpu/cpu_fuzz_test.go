package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzPrint(f *testing.F) {
	f.Add([]byte{0x89, 0xd9}, uint16(0))
	f.Add([]byte{0xc7, 0x85, 0x85, 0x03, 0x5b, 0x01}, uint16(0))
	f.Add([]byte{0x83, 0xe9, 0xfe, 0x75, 0xf8}, uint16(3))
	for opcode := range 256 {
		f.Add([]byte{uint8(opcode), 0x06, 0x00}, uint16(0))
	}

	f.Fuzz(func(t *testing.T, data []byte, start uint16) {
		assert := assert.New(t)

		ip := int(start)
		if ip > len(data) {
			ip = len(data)
		}

		result := Print(data, ip)
		assert.LessOrEqual(result.End, len(data))
		if ip < len(data) {
			assert.Greater(result.End, ip)
			assert.NotEmpty(result.Code)
		} else {
			assert.Equal(ip, result.End)
		}

		assert.Equal(result, Print(data, ip))
	})
}

func FuzzCpu(f *testing.F) {
	f.Add([]byte{0xb8, 0x05, 0x00, 0x29, 0xd8}, uint16(0x1234), uint16(0x0010))
	f.Add([]byte{0x01, 0x87, 0x00, 0x01}, uint16(0xffff), uint16(0xffff))
	f.Add([]byte{0xe2, 0xfe}, uint16(0), uint16(1))

	f.Fuzz(func(t *testing.T, code []byte, bx uint16, cx uint16) {
		assert := assert.New(t)

		if len(code) == 0 {
			return
		}

		cpu := NewCpu()
		cpu.Register[REG_BX] = bx
		cpu.Register[REG_CX] = cx

		prior := *cpu

		err := cpu.Execute(code)

		result := Print(code, 0)

		if err != nil {
			assert.Equal(prior.Ip, cpu.Ip)
			assert.Equal(prior.Register, cpu.Register)
			assert.Equal(prior.Flags, cpu.Flags)
			assert.Equal(prior.TotalClocks, cpu.TotalClocks)
			return
		}

		// A jump may move the ip anywhere within its displacement, any
		// other instruction lands just past its printed encoding.
		if _, is_jump := jumpOf(code[0]); is_jump {
			assert.LessOrEqual(cpu.Ip, result.End+127)
			assert.GreaterOrEqual(cpu.Ip, result.End-128)
		} else {
			assert.Equal(result.End, cpu.Ip)
		}
		assert.Greater(cpu.Clocks, 0)
		assert.Equal(cpu.Clocks, cpu.TotalClocks)
	})
}
