package io

import (
	"encoding/binary"
	"io"
)

// Zero is the default READ source; it always reads 0.
type Zero struct{}

func (Zero) Next() uint32 { return 0 }

// Tape provides READ values from a byte stream, as big-endian words.
// Once the stream ends, or a trailing partial word is found, every read
// returns 0.
type Tape struct {
	Input io.Reader

	Reads int // Words read from Input.
	ended bool
}

// Ended returns true once the input stream is exhausted.
func (tc *Tape) Ended() bool {
	return tc.ended
}

// Next returns the next word from the input stream.
func (tc *Tape) Next() (value uint32) {
	if tc.ended || tc.Input == nil {
		tc.ended = true
		return
	}

	var word [4]byte
	_, err := io.ReadFull(tc.Input, word[:])
	if err != nil {
		tc.ended = true
		return
	}

	tc.Reads++
	value = binary.BigEndian.Uint32(word[:])
	return
}
