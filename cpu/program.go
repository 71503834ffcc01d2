package cpu

import (
	"encoding/binary"
	"iter"
)

// Line is a line of assembled code with its source location and generated
// instruction words.
type Line struct {
	LineNo    int
	Address   uint32 // Byte address of the first code.
	Words     []string
	Codes     []Code
	LinkLabel string
	LinkKind  LinkKind
}

// LinkKind selects how a label address is patched into a Line's codes.
type LinkKind int

const (
	LINK_NONE   = LinkKind(iota)
	LINK_TARGET // imm26 of the last code holds the label's word index.
	LINK_IMM32  // movh/ori pair holds the label's byte address.
	LINK_WORD   // the only code is the label's byte address.
)

// End returns the byte address following the line.
func (line *Line) End() uint32 {
	return line.Address + uint32(len(line.Codes))*WORD_SIZE
}

// Program is an assembled listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the code at a byte address.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Address && pc < line.End() {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(pc-line.Address) / WORD_SIZE,
			}
			break
		}
	}

	return
}

// Size returns the image size in bytes.
func (prog *Program) Size() (size uint32) {
	for _, line := range prog.Lines {
		size = max(size, line.End())
	}
	return
}

// Binary returns the big-endian program image, loadable at offset 0.
// Gaps between lines are zero filled.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, prog.Size())
	for address, code := range prog.Codes() {
		binary.BigEndian.PutUint32(bin[address:], uint32(code))
	}

	return
}

// Codes iterates over every code, keyed by byte address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(address uint32, code Code) bool) {
		for _, line := range prog.Lines {
			for n, code := range line.Codes {
				if !yield(line.Address+uint32(n)*WORD_SIZE, code) {
					return
				}
			}
		}
	}
}
