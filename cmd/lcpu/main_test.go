package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/lcpu/cpu"
	"github.com/ezrec/lcpu/io"
)

func TestWriteMemviz(t *testing.T) {
	assert := assert.New(t)

	state := cpu.NewCpu(64)
	state.Register.Set(1, 0x1234)
	state.History.Push(0x40)

	path := filepath.Join(t.TempDir(), "state.dot")
	require.NoError(t, writeMemviz(path, state))

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Contains(string(data), "digraph")

	err = writeMemviz(filepath.Join(t.TempDir(), "missing", "state.dot"), state)
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestWritePNG(t *testing.T) {
	assert := assert.New(t)

	frame := io.NewFrame()
	frame.SetPixel(2, 3, 0xff0000)
	require.NoError(t, frame.Present())

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, writePNG(path, frame))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, _, _, _ := img.At(2, 3).RGBA()
	assert.Equal(uint32(0xffff), r)

	err = writePNG(filepath.Join(t.TempDir(), "missing", "frame.png"), frame)
	assert.ErrorIs(err, os.ErrNotExist)
}
