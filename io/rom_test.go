package io

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/lcpu/cpu"
)

func TestRom_Install(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	n, err := rom.ReadFrom(bytes.NewReader([]byte{0x20, 0x00, 0x00, 0x00, 0xf4, 0x00, 0x00, 0x00}))
	assert.NoError(err)
	assert.Equal(int64(8), n)

	mem := cpu.NewMemory(16)
	mem.Data[12] = 0xaa

	count, err := rom.Install(mem)
	assert.NoError(err)
	assert.Equal(8, count)

	word, ok := mem.Fetch(4)
	assert.True(ok)
	assert.Equal(uint32(0xf4000000), word)

	// Memory past the image is untouched.
	assert.Equal(byte(0xaa), mem.Data[12])
}

func TestRom_Install_Exact(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: make([]byte, 16)}
	count, err := rom.Install(cpu.NewMemory(16))
	assert.NoError(err)
	assert.Equal(16, count)
}

func TestRom_Install_TooLarge(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: make([]byte, 17)}
	mem := cpu.NewMemory(16)
	mem.Data[0] = 0x55

	count, err := rom.Install(mem)
	assert.ErrorIs(err, ErrRomTooLarge)
	assert.Equal(0, count)
	assert.Equal(byte(0x55), mem.Data[0])
}

func TestRom_ReadFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644))

	rom := &Rom{}
	n, err := rom.ReadFile(path)
	assert.NoError(err)
	assert.Equal(int64(4), n)
	assert.Equal([]byte{1, 2, 3, 4}, rom.Data)

	_, err = rom.ReadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(err, os.ErrNotExist)
}
