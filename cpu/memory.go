package cpu

import (
	"encoding/binary"
)

// Memory is the flat byte store shared by instruction fetch and data access.
type Memory struct {
	Data []byte
}

// NewMemory creates a zero-filled memory of size bytes.
func NewMemory(size uint) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, size),
	}

	return
}

// Size returns the capacity in bytes.
func (mem *Memory) Size() int {
	return len(mem.Data)
}

// Reset zero-fills the memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// Load copies an image verbatim to offset 0.
// Returns the number of bytes copied, which is short if the image does not
// fit.
func (mem *Memory) Load(image []byte) int {
	return copy(mem.Data, image)
}

// span returns the 4 bytes at the byte offset, or false if any of them is
// outside of memory.
func (mem *Memory) span(offset uint64) (word []byte, ok bool) {
	if offset > uint64(len(mem.Data)) || uint64(len(mem.Data))-offset < WORD_SIZE {
		return
	}

	return mem.Data[offset : offset+WORD_SIZE], true
}

// Fetch reads the big-endian word at a byte address.
func (mem *Memory) Fetch(address uint32) (value uint32, ok bool) {
	word, ok := mem.span(uint64(address))
	if !ok {
		return
	}

	value = binary.BigEndian.Uint32(word)
	return
}

// LoadWord reads the big-endian word at a word index.
func (mem *Memory) LoadWord(index uint32) (value uint32, ok bool) {
	word, ok := mem.span(uint64(index) << WORD_SHIFT)
	if !ok {
		return
	}

	value = binary.BigEndian.Uint32(word)
	return
}

// StoreWord writes the big-endian word at a word index.
func (mem *Memory) StoreWord(index uint32, value uint32) (ok bool) {
	word, ok := mem.span(uint64(index) << WORD_SHIFT)
	if !ok {
		return
	}

	binary.BigEndian.PutUint32(word, value)
	return
}
