package cpu

// Display is the framebuffer sink used by DRAW and CLEAR.
type Display interface {
	// SetPixel buffers a 0xRRGGBB pixel at x, y.
	SetPixel(x, y uint8, rgb uint32)
	// Present makes buffered pixels visible.
	Present() error
	// Clear fills the framebuffer with black and presents it.
	Clear() error
}

// Input is the value source used by READ.
type Input interface {
	// Next returns the next input value.
	Next() uint32
}

// nullDisplay drops all pixel output.
type nullDisplay struct{}

func (nullDisplay) SetPixel(x, y uint8, rgb uint32) {}
func (nullDisplay) Present() error                  { return nil }
func (nullDisplay) Clear() error                    { return nil }

// zeroInput always reads 0.
type zeroInput struct{}

func (zeroInput) Next() uint32 { return 0 }
