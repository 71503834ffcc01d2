// Package display presents the lcpu framebuffer in an SDL window.
package display

import (
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/lcpu/cpu"
	"github.com/ezrec/lcpu/io"
)

const pixelDepth = 4

// Window is an SDL window showing a 256x256 framebuffer, scaled up.
// Every method must be called from the goroutine that created it.
type Window struct {
	Verbose bool

	*io.Frame

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	quit bool
}

var _ cpu.Display = (*Window)(nil)

// NewWindow opens a window with the framebuffer scaled by scale.
func NewWindow(title string, scale int) (win *Window, err error) {
	if scale < 1 {
		scale = 1
	}

	err = sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return
	}

	win = &Window{
		Frame: io.NewFrame(),
	}

	defer func() {
		if err != nil {
			win.Close()
			win = nil
		}
	}()

	win.window, err = sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cpu.SCREEN_WIDTH*scale), int32(cpu.SCREEN_HEIGHT*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return
	}

	win.renderer, err = sdl.CreateRenderer(win.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return
	}

	win.texture, err = win.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		cpu.SCREEN_WIDTH,
		cpu.SCREEN_HEIGHT)
	if err != nil {
		return
	}

	err = win.Present()
	return
}

// Present presents the frame, and shows it in the window.
func (win *Window) Present() (err error) {
	err = win.Frame.Present()
	if err != nil {
		return
	}

	return win.show()
}

// Clear blanks the framebuffer and the window.
func (win *Window) Clear() (err error) {
	err = win.Frame.Clear()
	if err != nil {
		return
	}

	return win.show()
}

// show uploads the presented frame to the texture, and renders it.
func (win *Window) show() (err error) {
	pixels, pitch, err := win.texture.Lock(nil)
	if err != nil {
		return
	}
	img := win.Frame.Image
	for y := range cpu.SCREEN_HEIGHT {
		row := img.Pix[y*img.Stride : y*img.Stride+cpu.SCREEN_WIDTH*pixelDepth]
		copy(pixels[y*pitch:], row)
	}
	win.texture.Unlock()

	err = win.renderer.Copy(win.texture, nil, nil)
	if err != nil {
		return
	}

	win.renderer.Present()

	return
}

// QuitRequested drains pending SDL events. The window asks to quit when it
// is closed, or on the Escape key.
func (win *Window) QuitRequested() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			win.quit = true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				win.quit = true
			}
		}
	}

	if win.quit && win.Verbose {
		log.Printf("display: quit requested")
	}

	return win.quit
}

// Close destroys the window, and shuts down SDL.
func (win *Window) Close() {
	if win.texture != nil {
		_ = win.texture.Destroy()
		win.texture = nil
	}
	if win.renderer != nil {
		_ = win.renderer.Destroy()
		win.renderer = nil
	}
	if win.window != nil {
		_ = win.window.Destroy()
		win.window = nil
	}

	sdl.Quit()
}
