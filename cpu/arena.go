package cpu

const (
	MEMORY_SIZE = 1 << 20 // Default memory capacity, in bytes.
	WORD_SIZE   = 4       // Bytes per word.
	WORD_SHIFT  = 2       // Word index to byte offset scaling.

	SCREEN_WIDTH  = 256 // Framebuffer width, in pixels.
	SCREEN_HEIGHT = 256 // Framebuffer height, in pixels.

	DRAW_PRESENT_INTERVAL = 256 // DRAW calls per forced presentation.
)

// Register file roles.
const (
	REG_ZERO  = 0  // Hard-wired zero.
	REG_PC    = 30 // Program counter, as a byte address.
	REG_FLAGS = 31 // Flags. Bit 0 is the zero flag.

	REG_COUNT = 32

	FLAG_ZERO = uint32(1 << 0)
)
