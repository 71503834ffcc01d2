package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for op := range OP_MASK + 1 {
		f.Add(uint32(MakeCode(op, 1, 2, 3, 4)), uint32(0x12345678), uint32(0x9abcdef0))
		f.Add(uint32(MakeCodeImm16(op, 5, 6, 0x8001)), uint32(0), uint32(0xffffffff))
	}

	f.Fuzz(func(t *testing.T, word uint32, a uint32, b uint32) {
		assert := assert.New(t)

		code := Code(word)

		cpu := NewCpu(1024)
		display := &recordDisplay{}
		cpu.SetDisplay(display)
		input := fixedInput{a}
		cpu.SetInput(&input)
		for n := 1; n < REG_PC; n++ {
			if n%2 == 0 {
				cpu.Register.Set(n, a)
			} else {
				cpu.Register.Set(n, b)
			}
		}
		cpu.Register.SetPc(0x100)
		cpu.Memory.StoreWord(0x100>>WORD_SHIFT, word)

		err := cpu.Tick()

		if !code.Opcode().Valid() {
			var decode *ErrDecode
			if assert.True(errors.As(err, &decode)) {
				assert.Equal(code.Opcode(), decode.Opcode)
				assert.Equal(uint32(0x100), decode.Pc)
			}
			assert.Equal(err, cpu.Fault)
			assert.Equal(uint32(0x100), cpu.Register.Pc())
			assert.Equal(0, cpu.Ticks)
			return
		}

		if err != nil {
			// Only loads and stores can leave memory.
			assert.ErrorIs(err, ErrMemory)
			assert.Contains([]Opcode{OP_LW, OP_SW}, code.Opcode())
			assert.Equal(uint32(0x100), cpu.Register.Pc())
			return
		}

		assert.Nil(cpu.Fault)
		assert.Equal(1, cpu.Ticks)
		assert.Equal(uint32(0), cpu.Register.Get(REG_ZERO))

		switch code.Opcode() {
		case OP_JMP, OP_JZ, OP_JNZ, OP_JMPI, OP_JMPIZ, OP_JMPINZ:
		default:
			assert.Equal(uint32(0x104), cpu.Register.Pc())
		}

		if code.Opcode() == OP_DRAW {
			assert.Len(display.pixels, 1)
		}
	})
}

func FuzzDecode(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xffffffff))
	f.Add(uint32(MakeCode(OP_MUL, 1, 2, 3, 4)))

	f.Fuzz(func(t *testing.T, word uint32) {
		assert := assert.New(t)

		code := Code(word)
		fields := code.Decode()

		assert.Equal(code.Opcode(), fields.Opcode)
		assert.Equal(Code(word&0xffffffc0), MakeCode(fields.Opcode, fields.R1, fields.R2, fields.R3, fields.R4))
		assert.Equal(code, MakeCodeImm16(fields.Opcode, fields.R1, fields.R2, fields.Imm16))
		assert.Equal(code, MakeCodeImm26(fields.Opcode, fields.Imm26))

		assert.NotEmpty(code.String())
	})
}
