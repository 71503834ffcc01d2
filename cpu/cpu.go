package cpu

import (
	"errors"
	"fmt"
	"log"
	"math/bits"
)

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   *Memory      // Shared instruction and data memory.
	Register RegisterFile // Register bank, including PC and flags.

	Display Display // Framebuffer sink for DRAW and CLEAR.
	Input   Input   // Value source for READ.

	History History // Recently executed PCs.
	Fault   error   // Terminal fault, if any.

	Ticks     int // Executed instruction counter.
	DrawCalls int // DRAW instruction counter.
	Presents  int // Presentations requested by DRAW and CLEAR.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(size uint) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:  NewMemory(size),
		Display: nullDisplay{},
		Input:   zeroInput{},
	}

	return
}

// SetDisplay attaches a framebuffer sink. A nil display drops all output.
func (cpu *Cpu) SetDisplay(display Display) {
	if display == nil {
		display = nullDisplay{}
	}
	cpu.Display = display
}

// SetInput attaches a READ value source. A nil input always reads 0.
func (cpu *Cpu) SetInput(input Input) {
	if input == nil {
		input = zeroInput{}
	}
	cpu.Input = input
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n := range REG_COUNT {
		val := cpu.Register.Get(n)
		text += fmt.Sprintf("% 6s: %04X_%04X", RegisterName(n), val>>16, val&0xffff)
		if n%4 == 3 {
			text += "\n"
		} else {
			text += "  "
		}
	}

	zero := "false"
	if cpu.Register.Zero() {
		zero = "true"
	}
	text += fmt.Sprintf("  zero: %v\n", zero)
	text += fmt.Sprintf(" ticks: %v\n", cpu.Ticks)
	text += fmt.Sprintf("  draw: %v\n", cpu.DrawCalls)
	text += fmt.Sprintf("frames: %v\n", cpu.Presents)

	if !cpu.History.Empty() {
		text += "  history:"
		for _, pc := range cpu.History.Data {
			text += fmt.Sprintf(" %08x", pc)
		}
		text += "\n"
	}

	return
}

// Reset the CPU state.
// - Clears the registers, so execution restarts at address 0.
// - Zeros statistics counters and history.
// - Clears any terminal fault.
//
// Memory is left intact.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Register.Reset()
	cpu.History.Reset()
	cpu.Fault = nil
	cpu.Ticks = 0
	cpu.DrawCalls = 0
	cpu.Presents = 0
}

// FetchCode fetches the instruction word at the PC.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	pc := cpu.Register.Pc()

	word, ok := cpu.Memory.Fetch(pc)
	if !ok {
		err = &ErrMemoryFault{Address: uint64(pc), Pc: pc}
		return
	}

	code = Code(word)
	return
}

// Tick executes a single fetch-decode-execute cycle.
//
// Decode and memory faults are terminal: they are recorded in Fault, and
// every later Tick returns the same error without executing.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Fault != nil {
		return cpu.Fault
	}

	pc := cpu.Register.Pc()

	code, err := cpu.FetchCode()
	if err != nil {
		cpu.Fault = err
		return
	}

	cpu.History.Push(pc)

	next_pc, err := cpu.Execute(pc, code)
	if err != nil && !errors.Is(err, ErrDisplay) {
		cpu.Fault = err
		return
	}

	cpu.Register.SetPc(next_pc)
	cpu.Ticks += 1

	return
}

// Execute executes a single decoded instruction fetched from pc, and returns
// the address of the next instruction to fetch.
func (cpu *Cpu) Execute(pc uint32, code Code) (next_pc uint32, err error) {
	if cpu.Verbose {
		log.Printf("%08x: %v", pc, code)
	}

	reg := &cpu.Register

	next_pc = pc + WORD_SIZE

	op := code.Opcode()
	r1, r2, r3, r4 := code.R1(), code.R2(), code.R3(), code.R4()

	// ALU result: written to r1, and sets the zero flag.
	result := func(value uint32) {
		reg.Set(r1, value)
		reg.UpdateZero(value)
	}

	jump_if := func(taken bool, target uint32) {
		if taken {
			next_pc = target
		}
	}

	switch op {
	case OP_NOT:
		result(^reg.Get(r2))
	case OP_XOR:
		result(reg.Get(r2) ^ reg.Get(r3))
	case OP_OR:
		result(reg.Get(r2) | reg.Get(r3))
	case OP_AND:
		result(reg.Get(r2) & reg.Get(r3))
	case OP_SHL:
		result(reg.Get(r2) << 1)
	case OP_SHR:
		result(reg.Get(r2) >> 1)
	case OP_ROTL:
		result(bits.RotateLeft32(reg.Get(r2), 1))
	case OP_ROTR:
		result(bits.RotateLeft32(reg.Get(r2), -1))
	case OP_ADD:
		result(reg.Get(r2) + reg.Get(r3))
	case OP_SUB:
		result(reg.Get(r2) - reg.Get(r3))
	case OP_INC:
		result(reg.Get(r2) + 1)
	case OP_DEC:
		result(reg.Get(r2) - 1)
	case OP_MUL:
		hi, lo := bits.Mul32(reg.Get(r3), reg.Get(r4))
		reg.Set(r1, lo)
		reg.Set(r2, hi)
		reg.UpdateZero(lo)
	case OP_ORI:
		result(reg.Get(r2) | uint32(code.Imm16()))
	case OP_ANDI:
		result(reg.Get(r2) & uint32(code.Imm16()))
	case OP_ADDI:
		result(reg.Get(r2) + uint32(int32(int16(code.Imm16()))))
	case OP_MOV:
		reg.Set(r1, reg.Get(r2))
	case OP_SW:
		index := reg.Get(r1)
		if !cpu.Memory.StoreWord(index, reg.Get(r2)) {
			err = &ErrMemoryFault{Address: uint64(index) << WORD_SHIFT, Pc: pc}
			return
		}
	case OP_LW:
		index := reg.Get(r2)
		value, ok := cpu.Memory.LoadWord(index)
		if !ok {
			err = &ErrMemoryFault{Address: uint64(index) << WORD_SHIFT, Pc: pc}
			return
		}
		reg.Set(r1, value)
	case OP_JMP:
		jump_if(true, reg.Get(r1))
	case OP_JZ:
		jump_if(reg.Zero(), reg.Get(r1))
	case OP_JNZ:
		jump_if(!reg.Zero(), reg.Get(r1))
	case OP_MOVH:
		reg.Set(r1, uint32(code.Imm16())<<16)
	case OP_JMPI:
		jump_if(true, code.Imm26()<<WORD_SHIFT)
	case OP_JMPIZ:
		jump_if(reg.Zero(), code.Imm26()<<WORD_SHIFT)
	case OP_JMPINZ:
		jump_if(!reg.Zero(), code.Imm26()<<WORD_SHIFT)
	case OP_READ:
		reg.Set(r1, cpu.Input.Next())
	case OP_DRAW:
		xy := reg.Get(r1)
		rgb := reg.Get(r2) & 0xffffff
		cpu.Display.SetPixel(uint8(xy), uint8(xy>>8), rgb)
		cpu.DrawCalls += 1
		if cpu.DrawCalls%DRAW_PRESENT_INTERVAL == 0 {
			cpu.Presents += 1
			err = cpu.Display.Present()
		}
	case OP_CLEAR:
		cpu.Presents += 1
		err = cpu.Display.Clear()
	default:
		err = &ErrDecode{Opcode: op, Pc: pc}
		return
	}

	if err != nil {
		err = errors.Join(ErrDisplay, err)
	}

	return
}
