package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the 6-bit operation selector in bits 31-26 of a Code.
type Opcode uint8

const (
	OP_NOT    = Opcode(0x00) // not
	OP_XOR    = Opcode(0x01) // xor
	OP_OR     = Opcode(0x02) // or
	OP_AND    = Opcode(0x03) // and
	OP_SHL    = Opcode(0x04) // shl
	OP_SHR    = Opcode(0x05) // shr
	OP_ROTL   = Opcode(0x06) // rotl
	OP_ROTR   = Opcode(0x07) // rotr
	OP_ADD    = Opcode(0x08) // add
	OP_SUB    = Opcode(0x09) // sub
	OP_INC    = Opcode(0x0A) // inc
	OP_DEC    = Opcode(0x0B) // dec
	OP_MUL    = Opcode(0x0C) // mul
	OP_ORI    = Opcode(0x12) // ori
	OP_ANDI   = Opcode(0x13) // andi
	OP_ADDI   = Opcode(0x18) // addi
	OP_MOV    = Opcode(0x20) // mov
	OP_SW     = Opcode(0x25) // sw
	OP_LW     = Opcode(0x27) // lw
	OP_JMP    = Opcode(0x28) // jmp
	OP_JZ     = Opcode(0x2A) // jz
	OP_JNZ    = Opcode(0x2B) // jnz
	OP_MOVH   = Opcode(0x30) // movh
	OP_JMPI   = Opcode(0x38) // jmpi
	OP_JMPIZ  = Opcode(0x3A) // jmpiz
	OP_JMPINZ = Opcode(0x3B) // jmpinz
	OP_READ   = Opcode(0x3C) // read
	OP_DRAW   = Opcode(0x3E) // draw
	OP_CLEAR  = Opcode(0x3F) // clear

	OP_MASK = Opcode(0x3F)
)

// OP_HALT is not an operation. Test images use it to stop execution with a
// decode fault.
const OP_HALT = Opcode(0x3D)

// CodeFormat is the operand layout an opcode uses for assembly and
// disassembly. Decoding itself never depends on it.
type CodeFormat int

const (
	FORMAT_NONE   = CodeFormat(iota) // clear
	FORMAT_R1                        // op r1
	FORMAT_R1R2                      // op r1 r2
	FORMAT_R1R2R3                    // op r1 r2 r3
	FORMAT_MUL                       // op r1 r2 r3 r4
	FORMAT_R1R2I                     // op r1 r2 imm16
	FORMAT_R1I                       // op r1 imm16
	FORMAT_TARGET                    // op imm26<<2
)

type opcodeInfo struct {
	name   string
	format CodeFormat
}

var opcodeTable = map[Opcode]opcodeInfo{
	OP_NOT:    {"not", FORMAT_R1R2},
	OP_XOR:    {"xor", FORMAT_R1R2R3},
	OP_OR:     {"or", FORMAT_R1R2R3},
	OP_AND:    {"and", FORMAT_R1R2R3},
	OP_SHL:    {"shl", FORMAT_R1R2},
	OP_SHR:    {"shr", FORMAT_R1R2},
	OP_ROTL:   {"rotl", FORMAT_R1R2},
	OP_ROTR:   {"rotr", FORMAT_R1R2},
	OP_ADD:    {"add", FORMAT_R1R2R3},
	OP_SUB:    {"sub", FORMAT_R1R2R3},
	OP_INC:    {"inc", FORMAT_R1R2},
	OP_DEC:    {"dec", FORMAT_R1R2},
	OP_MUL:    {"mul", FORMAT_MUL},
	OP_ORI:    {"ori", FORMAT_R1R2I},
	OP_ANDI:   {"andi", FORMAT_R1R2I},
	OP_ADDI:   {"addi", FORMAT_R1R2I},
	OP_MOV:    {"mov", FORMAT_R1R2},
	OP_SW:     {"sw", FORMAT_R1R2},
	OP_LW:     {"lw", FORMAT_R1R2},
	OP_JMP:    {"jmp", FORMAT_R1},
	OP_JZ:     {"jz", FORMAT_R1},
	OP_JNZ:    {"jnz", FORMAT_R1},
	OP_MOVH:   {"movh", FORMAT_R1I},
	OP_JMPI:   {"jmpi", FORMAT_TARGET},
	OP_JMPIZ:  {"jmpiz", FORMAT_TARGET},
	OP_JMPINZ: {"jmpinz", FORMAT_TARGET},
	OP_READ:   {"read", FORMAT_R1},
	OP_DRAW:   {"draw", FORMAT_R1R2},
	OP_CLEAR:  {"clear", FORMAT_NONE},
}

// opcodeNames maps mnemonics back to opcodes.
var opcodeNames = func() (names map[string]Opcode) {
	names = make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		names[info.name] = op
	}
	return
}()

// Valid returns true if the opcode selects a defined operation.
func (op Opcode) Valid() (ok bool) {
	_, ok = opcodeTable[op]
	return
}

// Format returns the operand layout of the opcode.
func (op Opcode) Format() CodeFormat {
	return opcodeTable[op].format
}

func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("Opcode(0x%02x)", uint8(op))
	}
	return info.name
}

// Code is a single 32-bit instruction word.
type Code uint32

// Fields is a fully decoded instruction word.
type Fields struct {
	Opcode Opcode
	R1     int
	R2     int
	R3     int
	R4     int
	Imm16  uint16
	Imm26  uint32
}

// Opcode returns bits 31-26.
func (code Code) Opcode() Opcode {
	return Opcode((code >> 26) & 0x3f)
}

// R1 returns bits 25-21.
func (code Code) R1() int {
	return int((code >> 21) & 0x1f)
}

// R2 returns bits 20-16.
func (code Code) R2() int {
	return int((code >> 16) & 0x1f)
}

// R3 returns bits 15-11.
func (code Code) R3() int {
	return int((code >> 11) & 0x1f)
}

// R4 returns bits 10-6.
func (code Code) R4() int {
	return int((code >> 6) & 0x1f)
}

// Imm16 returns bits 15-0.
func (code Code) Imm16() uint16 {
	return uint16(code & 0xffff)
}

// Imm26 returns bits 25-0.
func (code Code) Imm26() uint32 {
	return uint32(code & 0x03ffffff)
}

// Decode extracts every field of the word. No field is validated.
func (code Code) Decode() Fields {
	return Fields{
		Opcode: code.Opcode(),
		R1:     code.R1(),
		R2:     code.R2(),
		R3:     code.R3(),
		R4:     code.R4(),
		Imm16:  code.Imm16(),
		Imm26:  code.Imm26(),
	}
}

// MakeCode creates a register form instruction.
func MakeCode(op Opcode, r1, r2, r3, r4 int) Code {
	return Code(uint32(op&OP_MASK)<<26 |
		uint32(r1&0x1f)<<21 |
		uint32(r2&0x1f)<<16 |
		uint32(r3&0x1f)<<11 |
		uint32(r4&0x1f)<<6)
}

// MakeCodeImm16 creates an instruction with a 16-bit immediate.
func MakeCodeImm16(op Opcode, r1, r2 int, imm uint16) Code {
	return MakeCode(op, r1, r2, 0, 0) | Code(imm)
}

// MakeCodeImm26 creates a jump with a 26-bit word target.
func MakeCodeImm26(op Opcode, imm uint32) Code {
	return Code(uint32(op&OP_MASK)<<26 | (imm & 0x03ffffff))
}

// MakeCodeHalt creates the conventional halt word.
func MakeCodeHalt() Code {
	return MakeCode(OP_HALT, 0, 0, 0, 0)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Opcode()
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	var args []string
	switch info.format {
	case FORMAT_NONE:
	case FORMAT_R1:
		args = append(args, RegisterName(code.R1()))
	case FORMAT_R1R2:
		args = append(args, RegisterName(code.R1()), RegisterName(code.R2()))
	case FORMAT_R1R2R3:
		args = append(args, RegisterName(code.R1()), RegisterName(code.R2()), RegisterName(code.R3()))
	case FORMAT_MUL:
		args = append(args, RegisterName(code.R1()), RegisterName(code.R2()), RegisterName(code.R3()), RegisterName(code.R4()))
	case FORMAT_R1R2I:
		args = append(args, RegisterName(code.R1()), RegisterName(code.R2()), fmt.Sprintf("0x%04x", code.Imm16()))
	case FORMAT_R1I:
		args = append(args, RegisterName(code.R1()), fmt.Sprintf("0x%04x", code.Imm16()))
	case FORMAT_TARGET:
		args = append(args, fmt.Sprintf("0x%08x", code.Imm26()<<WORD_SHIFT))
	}

	out = info.name
	if len(args) != 0 {
		out += " " + strings.Join(args, " ")
	}

	return
}
