package io

import (
	"io"
	"sync/atomic"

	"github.com/pkg/term"
)

const (
	KEY_QUIT   = 'q'
	KEY_ESCAPE = 0x1b
)

// Keyboard watches a terminal for a quit key, `q` or ESC.
type Keyboard struct {
	tty  *term.Term
	quit atomic.Bool
	done chan struct{}
}

// OpenKeyboard puts a terminal device, usually /dev/tty, into cbreak mode and
// watches it for the quit key.
func OpenKeyboard(path string) (kb *Keyboard, err error) {
	tty, err := term.Open(path, term.CBreakMode)
	if err != nil {
		return
	}

	kb = WatchKeyboard(tty)
	kb.tty = tty

	return
}

// WatchKeyboard watches any byte stream for the quit key.
func WatchKeyboard(input io.Reader) (kb *Keyboard) {
	kb = &Keyboard{
		done: make(chan struct{}),
	}

	go func() {
		defer close(kb.done)

		var key [1]byte
		for {
			_, err := input.Read(key[:])
			if err != nil {
				return
			}
			switch key[0] {
			case KEY_QUIT, 'Q', KEY_ESCAPE:
				kb.quit.Store(true)
				return
			}
		}
	}()

	return
}

// QuitRequested returns true once the quit key was pressed.
func (kb *Keyboard) QuitRequested() bool {
	return kb.quit.Load()
}

// Done is closed when the keyboard stops watching its input.
func (kb *Keyboard) Done() <-chan struct{} {
	return kb.done
}

// Close restores the terminal mode, and closes the terminal.
func (kb *Keyboard) Close() (err error) {
	if kb.tty == nil {
		return
	}

	err = kb.tty.Restore()
	cerr := kb.tty.Close()
	if err == nil {
		err = cerr
	}
	kb.tty = nil

	return
}
