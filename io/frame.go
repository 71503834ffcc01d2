package io

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/ezrec/lcpu/cpu"
)

// Frame is an in-memory framebuffer. Pixels written by SetPixel become
// visible in Image only when presented.
type Frame struct {
	Image    *image.RGBA // Presented frame.
	Presents int         // Number of presentations.
	Clears   int         // Number of clears.

	mutex sync.Mutex
	back  *image.RGBA
}

// NewFrame creates a black frame of the CPU screen size.
func NewFrame() (frame *Frame) {
	bounds := image.Rect(0, 0, cpu.SCREEN_WIDTH, cpu.SCREEN_HEIGHT)
	frame = &Frame{
		Image: image.NewRGBA(bounds),
		back:  image.NewRGBA(bounds),
	}
	frame.fillBlack(frame.Image)
	frame.fillBlack(frame.back)

	return
}

func (frame *Frame) fillBlack(img *image.RGBA) {
	for n := 0; n < len(img.Pix); n += 4 {
		img.Pix[n+0] = 0
		img.Pix[n+1] = 0
		img.Pix[n+2] = 0
		img.Pix[n+3] = 0xff
	}
}

// SetPixel buffers a 0xRRGGBB pixel.
func (frame *Frame) SetPixel(x, y uint8, rgb uint32) {
	frame.mutex.Lock()
	defer frame.mutex.Unlock()

	frame.back.SetRGBA(int(x), int(y), color.RGBA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 0xff,
	})
}

// Present copies the buffered pixels to Image.
func (frame *Frame) Present() error {
	frame.mutex.Lock()
	defer frame.mutex.Unlock()

	copy(frame.Image.Pix, frame.back.Pix)
	frame.Presents++

	return nil
}

// Clear fills both buffers with black and presents the result.
func (frame *Frame) Clear() error {
	frame.mutex.Lock()
	frame.fillBlack(frame.back)
	frame.Clears++
	frame.mutex.Unlock()

	return frame.Present()
}

// RGB returns the presented 0xRRGGBB pixel at x, y.
func (frame *Frame) RGB(x, y uint8) uint32 {
	frame.mutex.Lock()
	defer frame.mutex.Unlock()

	c := frame.Image.RGBAAt(int(x), int(y))
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// WritePNG encodes the presented frame as a PNG image.
func (frame *Frame) WritePNG(w io.Writer) error {
	frame.mutex.Lock()
	defer frame.mutex.Unlock()

	return png.Encode(w, frame.Image)
}
