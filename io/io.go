// Package io provides the host-side collaborators for the lcpu emulator:
// program image loading (Rom), READ value sources (Zero, Tape), an in-memory
// framebuffer (Frame), and cancellation sources (Quit, Keyboard).
package io

import (
	"github.com/ezrec/lcpu/cpu"
)

var (
	_ cpu.Input   = Zero{}
	_ cpu.Input   = (*Tape)(nil)
	_ cpu.Display = (*Frame)(nil)
)
