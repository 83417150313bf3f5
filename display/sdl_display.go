// Package display implements vic.Display over an SDL2 window: a streaming
// texture sized to the full 504x312 raster, flipped once per scan line,
// with host input draining for window-close/Escape shutdown requests.
package display

import (
	"unsafe"

	"github.com/jaaket/c64emu/c64/vic"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	surfaceWidth  = vic.DotsPerLine
	surfaceHeight = vic.LinesPerFrame
)

// SDLDisplay owns the window, renderer, and backing pixel buffer.
type SDLDisplay struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
}

// New opens a window scaled by factor (1 shows the raw 504x312 surface).
func New(title string, factor int) (*SDLDisplay, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(surfaceWidth*factor), int32(surfaceHeight*factor),
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, err
	}

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888),
		sdl.TEXTUREACCESS_STREAMING,
		surfaceWidth, surfaceHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}

	return &SDLDisplay{
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, surfaceWidth*surfaceHeight*4),
	}, nil
}

// SetPixel stamps one pixel into the backing buffer; out-of-range
// coordinates are ignored.
func (d *SDLDisplay) SetPixel(x, y int, c vic.Color) {
	if x < 0 || x >= surfaceWidth || y < 0 || y >= surfaceHeight {
		return
	}
	offset := (y*surfaceWidth + x) * 4
	d.pixels[offset+0] = c.R
	d.pixels[offset+1] = c.G
	d.pixels[offset+2] = c.B
	d.pixels[offset+3] = 0xFF
}

// Present flips the backing buffer to the texture and renders it scaled to
// the window.
func (d *SDLDisplay) Present() {
	if err := d.texture.Update(nil, unsafe.Pointer(&d.pixels[0]), surfaceWidth*4); err != nil {
		return
	}
	d.renderer.Clear()
	d.renderer.Copy(d.texture, nil, nil)
	d.renderer.Present()
}

// PollEvents drains pending SDL events and reports whether the host
// requested a shutdown via window close or Escape.
func (d *SDLDisplay) PollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		}
	}
	return false
}

// Close releases the SDL resources.
func (d *SDLDisplay) Close() {
	d.texture.Destroy()
	d.renderer.Destroy()
	d.window.Destroy()
	sdl.Quit()
}
