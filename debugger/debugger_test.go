package debugger

import (
	"strings"
	"testing"

	"github.com/jaaket/c64emu/c64/machine"
	"github.com/jaaket/c64emu/c64/vic"
	"github.com/stretchr/testify/assert"
)

type nullDisplay struct{}

func (nullDisplay) SetPixel(x, y int, c vic.Color) {}
func (nullDisplay) Present()                       {}
func (nullDisplay) PollEvents() bool { return false }

func writeProgram(m *machine.Machine, addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.WriteBus(addr+uint16(i), b)
	}
}

func TestStepAdvancesOneInstructionAtATime(t *testing.T) {
	assert := assert.New(t)
	m := machine.New(nullDisplay{})
	m.CPU.PC = 0x8000
	writeProgram(m, 0x8000, 0xA9, 0x42) // LDA #$42

	var out strings.Builder
	d := New(m, strings.NewReader("\n"), &out)
	code := d.Run()

	assert.Equal(0, code)
	assert.Equal(uint8(0x42), m.CPU.A)
}

func TestInspectPrintsByteAtAddress(t *testing.T) {
	assert := assert.New(t)
	m := machine.New(nullDisplay{})
	writeProgram(m, 0x0010, 0x99)

	var out strings.Builder
	d := New(m, strings.NewReader("i 10\n"), &out)
	d.Run()

	assert.Contains(out.String(), "$0010: 99")
}

func TestBreakpointStopsRunBeforeExecutingTargetPC(t *testing.T) {
	assert := assert.New(t)
	m := machine.New(nullDisplay{})
	m.CPU.PC = 0x8000
	writeProgram(m, 0x8000, 0x18) // CLC
	writeProgram(m, 0x8001, 0x18) // CLC

	var out strings.Builder
	d := New(m, strings.NewReader("b 8001\nr\n"), &out)
	code := d.Run()

	assert.Equal(0, code)
	assert.Contains(out.String(), "breakpoint hit: $8001")
}

func TestUnknownOpcodeExitsNonzero(t *testing.T) {
	assert := assert.New(t)
	m := machine.New(nullDisplay{})
	m.CPU.PC = 0x8000
	writeProgram(m, 0x8000, 0xFF)

	var out strings.Builder
	d := New(m, strings.NewReader("\n"), &out)
	code := d.Run()

	assert.NotEqual(0, code)
	assert.Contains(out.String(), "fatal: unknown opcode")
}

func TestEOFExitsCleanly(t *testing.T) {
	assert := assert.New(t)
	m := machine.New(nullDisplay{})
	var out strings.Builder
	d := New(m, strings.NewReader(""), &out)
	assert.Equal(0, d.Run())
}

func TestWatchpointReportsOnWrite(t *testing.T) {
	assert := assert.New(t)
	m := machine.New(nullDisplay{})
	m.CPU.PC = 0x8000
	writeProgram(m, 0x8000, 0xA9, 0x7F) // LDA #$7F
	writeProgram(m, 0x8002, 0x85, 0x20) // STA $20

	var out strings.Builder
	d := New(m, strings.NewReader("w 20\n\n\n\n"), &out)
	d.Run()

	assert.Contains(out.String(), "watchpoint hit: $0020 = 7F")
}
