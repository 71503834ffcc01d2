package cpu

import (
	"fmt"
)

// RegisterFile holds the 32 architectural registers.
// Slot 0 is hard-wired to zero, slot 30 is the PC and slot 31 the flags.
type RegisterFile [REG_COUNT]uint32

// Get reads a register. Register 0 always reads as zero.
func (rf *RegisterFile) Get(index int) uint32 {
	if index == REG_ZERO {
		return 0
	}

	return rf[index&(REG_COUNT-1)]
}

// Set writes a register. Writes to register 0 are discarded.
func (rf *RegisterFile) Set(index int, value uint32) {
	if index == REG_ZERO {
		return
	}

	rf[index&(REG_COUNT-1)] = value
}

// Pc returns the program counter.
func (rf *RegisterFile) Pc() uint32 {
	return rf[REG_PC]
}

// SetPc sets the program counter.
func (rf *RegisterFile) SetPc(pc uint32) {
	rf[REG_PC] = pc
}

// Zero returns the zero flag.
func (rf *RegisterFile) Zero() bool {
	return (rf[REG_FLAGS] & FLAG_ZERO) != 0
}

// UpdateZero sets the zero flag if result is 0, and clears it otherwise.
// All other flag bits are left unchanged.
func (rf *RegisterFile) UpdateZero(result uint32) {
	if result == 0 {
		rf[REG_FLAGS] |= FLAG_ZERO
	} else {
		rf[REG_FLAGS] &^= FLAG_ZERO
	}
}

// Reset clears all registers.
func (rf *RegisterFile) Reset() {
	clear(rf[:])
}

// RegisterName returns the assembler name of a register index.
func RegisterName(index int) string {
	switch index {
	case REG_PC:
		return "pc"
	case REG_FLAGS:
		return "flags"
	default:
		return fmt.Sprintf("r%d", index)
	}
}
