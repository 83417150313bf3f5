// Package vic implements the raster engine of the video chip: dot/line
// counters, the fixed text-mode display window, and the 16-color palette.
// Sprites, bitmap and multicolor modes, and raster interrupts are not
// modeled; see the package-level non-goals in the design notes.
package vic

// Raster timing (PAL-like).
const (
	DotsPerLine   = 504
	LinesPerFrame = 312
)

// Display window: the rectangle in which character data is fetched and
// rendered instead of border color.
const (
	firstDisplayLine = 51
	lastDisplayLine  = 250
	firstDisplayX    = 96
	lastDisplayX     = 415
)

// Visible frame: the rectangle painted with border color outside the
// display window; everything beyond it is blanking and emits nothing.
const (
	firstVisibleLine = 8
	lastVisibleLine  = 312
	firstVisibleX    = 52
	lastVisibleX     = 454
)

// Fixed screen-matrix and character-generator fetch addresses, bank-relative.
// The minimum core does not parameterize these through $D018.
const (
	screenMatrixBase = 0x0400
	charGenBase      = 0x1000
)

const borderColorRegister = 0x20

// Color is an RGB triple. The palette below supplies the 16 fixed values a
// border-color or display-window pixel can resolve to.
type Color struct {
	R, G, B uint8
}

// Palette holds the canonical C64 colors, indexed 0-15.
var Palette = [16]Color{
	{0x00, 0x00, 0x00}, // black
	{0xff, 0xff, 0xff}, // white
	{0x81, 0x33, 0x38}, // red
	{0x75, 0xce, 0xc8}, // cyan
	{0x8e, 0x3c, 0x97}, // purple
	{0x56, 0xac, 0x4d}, // green
	{0x2e, 0x2c, 0x9b}, // blue
	{0xed, 0xf1, 0x71}, // yellow
	{0x8e, 0x50, 0x29}, // orange
	{0x55, 0x38, 0x00}, // brown
	{0xc4, 0x6c, 0x71}, // light red
	{0x4a, 0x4a, 0x4a}, // dark grey
	{0x7b, 0x7b, 0x7b}, // grey
	{0xa9, 0xff, 0x9f}, // light green
	{0x70, 0x6d, 0xeb}, // light blue
	{0xb2, 0xb2, 0xb2}, // light grey
}

// MemoryView is the read-only, bank-relative capability the VIC needs from
// the bus; c64/bus.VICView satisfies it structurally.
type MemoryView interface {
	Read(addr uint16) uint8
}

// Display is the capability the VIC needs from the host window: a place to
// put pixels, a way to flush them, and a way to drain input events.
type Display interface {
	SetPixel(x, y int, c Color)
	Present()
	// PollEvents drains pending host events and reports whether a shutdown
	// was requested (window close or Escape).
	PollEvents() bool
}

// VIC is the raster engine: dot/line counters plus the 47-register file
// mapped at 0xD000-0xD02E (mirrored every 64 bytes through 0xD3FF).
type VIC struct {
	x, line uint16

	registers [64]uint8
}

func NewVIC() *VIC {
	return &VIC{}
}

// ReadRegister returns the last-written value of register index (0-63);
// this core has no dynamically-computed registers, so a plain read-back
// satisfies §4.1's "reading an unimplemented register returns last-written
// value or 0".
func (v *VIC) ReadRegister(index uint8) uint8 {
	return v.registers[index&0x3F]
}

func (v *VIC) WriteRegister(index uint8, value uint8) {
	v.registers[index&0x3F] = value
}

func (v *VIC) borderColor() Color {
	return Palette[v.registers[borderColorRegister]&0x0F]
}

// Tick advances the raster beam by one dot group (8 pixels), fetching and
// rendering from mem when inside the display window, painting border color
// when inside the visible frame but outside it, and emitting nothing
// otherwise. It reports whether the host requested a shutdown.
func (v *VIC) Tick(mem MemoryView, display Display) bool {
	x, line := v.x, v.line

	switch {
	case v.inDisplayWindow(x, line):
		charY := (line - firstDisplayLine) / 8
		charX := (x - firstDisplayX) / 8
		screenAddr := uint16(screenMatrixBase) + 40*charY + charX
		screenByte := mem.Read(screenAddr)
		rowInChar := (line - firstDisplayLine) & 7
		charData := mem.Read(uint16(charGenBase) + 8*uint16(screenByte) + rowInChar)

		for i := uint(0); i < 8; i++ {
			var c Color
			if charData&(0x80>>i) != 0 {
				c = Palette[1] // white
			} else {
				c = Palette[0] // black
			}
			display.SetPixel(int(x)+int(i), int(line), c)
		}

	case v.inVisibleFrame(x, line):
		c := v.borderColor()
		for i := 0; i < 8; i++ {
			display.SetPixel(int(x)+i, int(line), c)
		}
	}

	v.advance()

	if v.x == 0 {
		display.Present()
	}
	return display.PollEvents()
}

func (v *VIC) inDisplayWindow(x, line uint16) bool {
	return line >= firstDisplayLine && line <= lastDisplayLine &&
		x >= firstDisplayX && x <= lastDisplayX
}

func (v *VIC) inVisibleFrame(x, line uint16) bool {
	if v.inDisplayWindow(x, line) {
		return false
	}
	return line >= firstVisibleLine && line < lastVisibleLine &&
		x >= firstVisibleX && x < lastVisibleX
}

func (v *VIC) advance() {
	v.x += 8
	if v.x >= DotsPerLine {
		v.x = 0
		v.line++
		if v.line >= LinesPerFrame {
			v.line = 0
		}
	}
}

// Position reports the current (x, line) for tests and debugger inspection.
func (v *VIC) Position() (x, line uint16) {
	return v.x, v.line
}
