package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	assert := assert.New(t)

	for range 4 {
		assert.Equal(uint32(0), Zero{}.Next())
	}
}

func TestTape_Next(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: bytes.NewReader([]byte{
		0x12, 0x34, 0x56, 0x78,
		0xde, 0xad, 0xbe, 0xef,
		0xff, 0xff,
	})}

	assert.Equal(uint32(0x12345678), tape.Next())
	assert.False(tape.Ended())
	assert.Equal(uint32(0xdeadbeef), tape.Next())

	// Trailing partial word ends the tape.
	assert.Equal(uint32(0), tape.Next())
	assert.True(tape.Ended())
	assert.Equal(uint32(0), tape.Next())
	assert.Equal(2, tape.Reads)
}

func TestTape_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.Equal(uint32(0), tape.Next())
	assert.True(tape.Ended())
}
