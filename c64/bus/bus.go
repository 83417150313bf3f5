// Package bus implements the MemoryBus address decoder shared by the CPU
// and the VIC-II: a 16-bit read/write view for the CPU, and a bank-relative
// read-only view for the VIC. Both views are small structs built per access
// by c64/machine.Machine; neither is ever retained past a single call.
package bus

import "github.com/jaaket/c64emu/c64/cia"

// VICRegisters is the capability c64/vic.VIC exposes back to the bus for
// CPU-side register reads/writes (0xD000-0xD3FF).
type VICRegisters interface {
	ReadRegister(index uint8) uint8
	WriteRegister(index uint8, value uint8)
}

// CPUView implements cpu.Bus: the full 16-bit address-decoded view a CPU
// instruction sees. All fields are owned by the Machine and merely borrowed
// here for the duration of one instruction dispatch.
type CPUView struct {
	RAM      *[65536]uint8
	IO       *[65536]uint8
	ColorRAM *[1024]uint8
	VIC      VICRegisters
	CIA      *cia.CIA

	BankBase      *uint16
	OverlayEnable *bool
}

func (v *CPUView) Read(addr uint16) uint8 {
	switch {
	case addr >= 0xD000 && addr <= 0xD3FF:
		return v.VIC.ReadRegister(addr & 0x3F)
	case addr >= 0xD400 && addr <= 0xD7FF:
		return v.IO[addr]
	case addr >= 0xD800 && addr <= 0xDBFF:
		return v.ColorRAM[addr-0xD800]
	case addr >= 0xDC00 && addr <= 0xDCFF:
		return v.CIA.ReadRegister(addr & 0x0F)
	case addr >= 0xDD00 && addr <= 0xDFFF:
		return v.IO[addr]
	default:
		return v.RAM[addr]
	}
}

func (v *CPUView) Write(addr uint16, value uint8) {
	switch {
	case addr >= 0xA000 && addr <= 0xBFFF, addr >= 0xE000:
		// ROM windows: writes silently dropped (simplified bank model).
		return
	case addr >= 0xD000 && addr <= 0xD3FF:
		v.VIC.WriteRegister(addr&0x3F, value)
	case addr >= 0xD400 && addr <= 0xD7FF:
		v.IO[addr] = value
	case addr == 0xDD00:
		v.IO[addr] = value
		*v.BankBase = 0x4000 * uint16(3-(value&3))
		*v.OverlayEnable = value&1 != 0
	case addr >= 0xDD01 && addr <= 0xDFFF:
		v.IO[addr] = value
	case addr >= 0xD800 && addr <= 0xDBFF:
		v.ColorRAM[addr-0xD800] = value
	case addr >= 0xDC00 && addr <= 0xDCFF:
		v.CIA.WriteRegister(addr&0x0F, value)
	default:
		v.RAM[addr] = value
	}
}

// VICView implements vic.MemoryView: a 14-bit bank-relative read-only view
// with the character ROM overlaid at 0x1000-0x1FFF when enabled.
type VICView struct {
	RAM           *[65536]uint8
	CharROM       *[4096]uint8
	BankBase      uint16
	OverlayEnable bool
}

func (v *VICView) Read(addr uint16) uint8 {
	addr &= 0x3FFF
	if v.OverlayEnable && addr >= 0x1000 && addr <= 0x1FFF {
		return v.CharROM[addr-0x1000]
	}
	return v.RAM[v.BankBase|addr]
}
