// Package machine wires the CPU, VIC-II, CIA and the address-decoded bus
// into one cycle-driven system: Machine owns every backing store and
// device, and advances them one system cycle at a time.
package machine

import (
	"fmt"

	"github.com/jaaket/c64emu/c64/bus"
	"github.com/jaaket/c64emu/c64/cia"
	"github.com/jaaket/c64emu/c64/vic"
	"github.com/jaaket/c64emu/cpu"
)

// ROM region boundaries, per the §6 loader contract.
const (
	basicROMBase  = 0xA000
	basicROMSize  = 0x2000
	kernalROMBase = 0xE000
	kernalROMSize = 0x2000
	charROMSize   = 0x1000
)

// WriteEffect mirrors cpu.Effect: the last store's address/value, surfaced
// to the debugger for watchpoints.
type WriteEffect = cpu.Effect

// Machine owns every backing store and device. The bus views it builds
// each tick borrow these stores for the duration of a single call and are
// never retained, per the cross-device wiring note in the design notes.
type Machine struct {
	ram      [65536]uint8
	io       [65536]uint8
	colorRAM [1024]uint8
	charROM  [4096]uint8

	bankBase      uint16
	overlayEnable bool

	CPU *cpu.CPU
	VIC *vic.VIC
	CIA *cia.CIA

	display vic.Display
}

// New builds a Machine whose VIC presents to display.
func New(display vic.Display) *Machine {
	return &Machine{
		CPU:     cpu.NewCPU(),
		VIC:     vic.NewVIC(),
		CIA:     cia.NewCIA(),
		display: display,
	}
}

// LoadROM copies data into the region named by tag ("basic", "kernal", or
// "char"), per the §6 file-input contract.
func (m *Machine) LoadROM(tag string, data []byte) error {
	switch tag {
	case "basic":
		if len(data) != basicROMSize {
			return fmt.Errorf("basic ROM: expected %d bytes, got %d", basicROMSize, len(data))
		}
		copy(m.ram[basicROMBase:basicROMBase+basicROMSize], data)
	case "kernal":
		if len(data) != kernalROMSize {
			return fmt.Errorf("kernal ROM: expected %d bytes, got %d", kernalROMSize, len(data))
		}
		copy(m.ram[kernalROMBase:kernalROMBase+kernalROMSize], data)
	case "char":
		if len(data) != charROMSize {
			return fmt.Errorf("char ROM: expected %d bytes, got %d", charROMSize, len(data))
		}
		copy(m.charROM[:], data)
	default:
		return fmt.Errorf("unknown ROM region %q", tag)
	}
	return nil
}

func (m *Machine) cpuView() *bus.CPUView {
	return &bus.CPUView{
		RAM:           &m.ram,
		IO:            &m.io,
		ColorRAM:      &m.colorRAM,
		VIC:           m.VIC,
		CIA:           m.CIA,
		BankBase:      &m.bankBase,
		OverlayEnable: &m.overlayEnable,
	}
}

func (m *Machine) vicView() *bus.VICView {
	return &bus.VICView{
		RAM:           &m.ram,
		CharROM:       &m.charROM,
		BankBase:      m.bankBase,
		OverlayEnable: m.overlayEnable,
	}
}

// Reset reloads the CPU's PC from the reset vector through the bus view.
func (m *Machine) Reset() {
	m.CPU.Reset(m.cpuView())
}

// Tick advances the system by one cycle: VIC first, then CPU, with the
// CIA's IRQ level sampled for the CPU and the CIA ticked on the same
// clock. It returns the last-dispatched instruction's mnemonic (empty if
// none dispatched this tick), an optional write-effect, a shutdown request
// from the host window, and a fatal decode error if one occurred.
func (m *Machine) Tick() (mnemonic string, effect *WriteEffect, shutdown bool, err error) {
	shutdown = m.VIC.Tick(m.vicView(), m.display)

	mnemonic, effect, err = m.CPU.Tick(m.cpuView(), m.CIA.IRQLine())
	if err != nil {
		return mnemonic, effect, shutdown, err
	}

	m.CIA.Tick()

	return mnemonic, effect, shutdown, nil
}

// ReadBus reads a byte through the CPU's address-decoded view, for the
// debugger's inspect command.
func (m *Machine) ReadBus(addr uint16) uint8 {
	return m.cpuView().Read(addr)
}

// WriteBus writes a byte through the CPU's address-decoded view. Used by
// test setup and any future debugger command that pokes memory; subject to
// the same ROM-window/register side effects as a real CPU store.
func (m *Machine) WriteBus(addr uint16, value uint8) {
	m.cpuView().Write(addr, value)
}
