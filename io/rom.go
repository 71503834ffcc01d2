package io

import (
	"io"
	"os"

	"github.com/ezrec/lcpu/cpu"
)

// Rom is a program image, copied verbatim to memory offset 0.
type Rom struct {
	Data []byte
}

// ReadFrom reads the whole image from a reader.
func (rom *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	rom.Data = data
	n = int64(len(data))
	return
}

// ReadFile reads the whole image from a file.
func (rom *Rom) ReadFile(path string) (n int64, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return rom.ReadFrom(inf)
}

// Install copies the image to offset 0 of memory, and returns the number of
// bytes copied. Memory beyond the image is untouched.
func (rom *Rom) Install(mem *cpu.Memory) (count int, err error) {
	if len(rom.Data) > mem.Size() {
		err = ErrRomTooLarge
		return
	}

	count = mem.Load(rom.Data)
	return
}
