package cpu

import "fmt"

// The naming convention uses the instruction name followed by the addressing mode:
//
// IMM: Immediate
// ZP: Zero Page
// ZPX: Zero Page,X
// ABS: Absolute
// ABX: Absolute,X
// ABY: Absolute,Y
// IND: Indirect
// INY: (Indirect),Y
// ACC: Accumulator (for shifts)
//
// Only the opcodes actually required by this core are defined below; an
// opcode outside this set decodes as DecodeError.
const (
	LDA_IMM = 0xA9
	LDA_ZP  = 0xA5
	LDA_ZPX = 0xB5
	LDA_ABS = 0xAD
	LDA_ABX = 0xBD
	LDA_ABY = 0xB9
	LDA_INY = 0xB1

	LDX_IMM = 0xA2
	LDX_ZP  = 0xA6
	LDX_ABS = 0xAE

	LDY_IMM = 0xA0
	LDY_ZP  = 0xA4
	LDY_ZPX = 0xB4
	LDY_ABS = 0xAC

	STA_ZP  = 0x85
	STA_ZPX = 0x95
	STA_ABS = 0x8D
	STA_ABX = 0x9D
	STA_ABY = 0x99
	STA_INY = 0x91

	STX_ZP  = 0x86
	STX_ABS = 0x8E

	STY_ZP  = 0x84
	STY_ZPX = 0x94
	STY_ABS = 0x8C

	TAX = 0xAA
	TAY = 0xA8
	TXA = 0x8A
	TYA = 0x98
	TSX = 0xBA
	TXS = 0x9A

	PHA = 0x48
	PHP = 0x08
	PLA = 0x68
	PLP = 0x28

	ADC_IMM = 0x69
	ADC_ZP  = 0x65
	ADC_ABY = 0x79

	SBC_IMM = 0xE9
	SBC_ZP  = 0xE5

	ORA_IMM = 0x09
	ORA_ZP  = 0x05
	ORA_ABS = 0x0D

	AND_IMM = 0x29

	EOR_IMM = 0x49
	EOR_ZP  = 0x45

	BIT_ZP  = 0x24
	BIT_ABS = 0x2C

	ASL_ACC = 0x0A
	ASL_ZP  = 0x06
	ASL_ZPX = 0x16

	LSR_ACC = 0x4A
	LSR_ZP  = 0x46
	LSR_ZPX = 0x56

	ROL_ACC = 0x2A

	ROR_ACC = 0x6A
	ROR_ZP  = 0x66
	ROR_ZPX = 0x76

	CMP_IMM = 0xC9
	CMP_ZP  = 0xC5
	CMP_ABS = 0xCD
	CMP_ABX = 0xDD
	CMP_INY = 0xD1

	CPX_IMM = 0xE0
	CPX_ZP  = 0xE4
	CPX_ABS = 0xEC

	CPY_IMM = 0xC0
	CPY_ZP  = 0xC4

	INC_ZP = 0xE6
	DEC_ZP = 0xC6

	INX = 0xE8
	INY = 0xC8
	DEX = 0xCA
	DEY = 0x88

	CLC = 0x18
	SEC = 0x38
	CLI = 0x58
	SEI = 0x78
	CLD = 0xD8

	JMP_ABS = 0x4C
	JMP_IND = 0x6C
	JSR_ABS = 0x20
	RTS     = 0x60
	RTI     = 0x40

	BPL = 0x10
	BMI = 0x30
	BVS = 0x70
	BCC = 0x90
	BCS = 0xB0
	BNE = 0xD0
	BEQ = 0xF0
)

// Status flag bits. Canonical layout: C=0, Z=1, I=2, D=3, B=4, unused=5, V=6, N=7.
const (
	FlagC uint8 = 0x01
	FlagZ uint8 = 0x02
	FlagI uint8 = 0x04
	FlagD uint8 = 0x08
	FlagB uint8 = 0x10
	FlagV uint8 = 0x40
	FlagN uint8 = 0x80
)

// Bus is the capability the CPU needs from its memory view: read and write
// a byte at a 16-bit address. The Machine constructs one per access; the
// CPU never retains it past a single Tick.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Effect is the side-effect record a dispatched instruction may produce.
// Only store instructions emit one.
type Effect struct {
	Addr  uint16
	Value uint8
}

// DecodeError reports an opcode with no entry in the instruction table.
type DecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

// CPU is a MOS6510 instruction interpreter. It owns no memory; every access
// goes through the Bus passed to Tick.
type CPU struct {
	A, X, Y uint8
	PC      uint16
	SP      uint8
	P       uint8

	waitCycles int
}

// NewCPU creates a powered-on, zeroed CPU. Call Reset to load PC from the
// reset vector once a bus is available.
func NewCPU() *CPU {
	return &CPU{}
}

// Reset reloads PC from the vector at 0xFFFC/0xFFFD, clears the flags, and
// zeroes waitCycles. SP is left untouched; the ROM's own startup code is
// expected to set it (traditionally via LDX #$FF; TXS).
func (c *CPU) Reset(bus Bus) {
	c.PC = read16(bus, 0xFFFC)
	c.P = 0
	c.waitCycles = 0
}

// Tick advances the CPU by one system cycle. If an instruction is still
// mid-flight, it only drains waitCycles and returns no mnemonic. When
// waitCycles reaches zero or below, it either enters an IRQ (if irqLine is
// asserted and the I flag is clear) or fetches, decodes, and executes the
// next instruction, returning its mnemonic and any WriteMem effect.
func (c *CPU) Tick(bus Bus, irqLine bool) (string, *Effect, error) {
	c.waitCycles--
	if c.waitCycles > 0 {
		return "", nil, nil
	}

	if irqLine && c.P&FlagI == 0 {
		c.push16(bus, c.PC)
		c.push(bus, c.P&^FlagB)
		c.P |= FlagI
		c.PC = read16(bus, 0xFFFE)
		c.waitCycles = 7
		return "IRQ", nil, nil
	}

	opcode := bus.Read(c.PC)
	c.PC++

	mnemonic, effect, cycles, err := c.execute(bus, opcode)
	if err != nil {
		c.waitCycles = 0
		return "", nil, err
	}
	c.waitCycles = int(cycles)
	return mnemonic, effect, nil
}

func (c *CPU) execute(bus Bus, opcode uint8) (string, *Effect, uint8, error) {
	switch opcode {

	// Load
	case LDA_IMM:
		v := c.readImmediate(bus)
		c.A = v
		c.updateZN(c.A)
		return fmt.Sprintf("LDA #$%02X", v), nil, 2, nil
	case LDA_ZP:
		addr := c.zpAddr(bus)
		c.A = bus.Read(uint16(addr))
		c.updateZN(c.A)
		return fmt.Sprintf("LDA $%02X", addr), nil, 3, nil
	case LDA_ZPX:
		addr := c.zpAddr(bus)
		c.A = bus.Read(uint16((addr + c.X) & 0xFF))
		c.updateZN(c.A)
		return fmt.Sprintf("LDA $%02X,X", addr), nil, 4, nil
	case LDA_ABS:
		addr := c.absAddr(bus)
		c.A = bus.Read(addr)
		c.updateZN(c.A)
		return fmt.Sprintf("LDA $%04X", addr), nil, 4, nil
	case LDA_ABX:
		v, _, cross := c.readAbsIndexed(bus, c.X)
		c.A = v
		c.updateZN(c.A)
		return "LDA abs,X", nil, cyclesWithCross(4, cross), nil
	case LDA_ABY:
		v, _, cross := c.readAbsIndexed(bus, c.Y)
		c.A = v
		c.updateZN(c.A)
		return "LDA abs,Y", nil, cyclesWithCross(4, cross), nil
	case LDA_INY:
		v, _, cross := c.readIndY(bus)
		c.A = v
		c.updateZN(c.A)
		return "LDA (zp),Y", nil, cyclesWithCross(5, cross), nil

	case LDX_IMM:
		c.X = c.readImmediate(bus)
		c.updateZN(c.X)
		return fmt.Sprintf("LDX #$%02X", c.X), nil, 2, nil
	case LDX_ZP:
		addr := c.zpAddr(bus)
		c.X = bus.Read(uint16(addr))
		c.updateZN(c.X)
		return fmt.Sprintf("LDX $%02X", addr), nil, 3, nil
	case LDX_ABS:
		addr := c.absAddr(bus)
		c.X = bus.Read(addr)
		c.updateZN(c.X)
		return fmt.Sprintf("LDX $%04X", addr), nil, 4, nil

	case LDY_IMM:
		c.Y = c.readImmediate(bus)
		c.updateZN(c.Y)
		return fmt.Sprintf("LDY #$%02X", c.Y), nil, 2, nil
	case LDY_ZP:
		addr := c.zpAddr(bus)
		c.Y = bus.Read(uint16(addr))
		c.updateZN(c.Y)
		return fmt.Sprintf("LDY $%02X", addr), nil, 3, nil
	case LDY_ZPX:
		addr := c.zpAddr(bus)
		c.Y = bus.Read(uint16((addr + c.X) & 0xFF))
		c.updateZN(c.Y)
		return fmt.Sprintf("LDY $%02X,X", addr), nil, 4, nil
	case LDY_ABS:
		addr := c.absAddr(bus)
		c.Y = bus.Read(addr)
		c.updateZN(c.Y)
		return fmt.Sprintf("LDY $%04X", addr), nil, 4, nil

	// Store
	case STA_ZP:
		addr := uint16(c.zpAddr(bus))
		bus.Write(addr, c.A)
		return fmt.Sprintf("STA $%02X", addr), &Effect{addr, c.A}, 3, nil
	case STA_ZPX:
		addr := uint16((c.zpAddr(bus) + c.X) & 0xFF)
		bus.Write(addr, c.A)
		return fmt.Sprintf("STA $%02X,X", addr), &Effect{addr, c.A}, 4, nil
	case STA_ABS:
		addr := c.absAddr(bus)
		bus.Write(addr, c.A)
		return fmt.Sprintf("STA $%04X", addr), &Effect{addr, c.A}, 4, nil
	case STA_ABX:
		addr := c.absAddr(bus) + uint16(c.X)
		bus.Write(addr, c.A)
		return fmt.Sprintf("STA $%04X,X", addr), &Effect{addr, c.A}, 5, nil
	case STA_ABY:
		addr := c.absAddr(bus) + uint16(c.Y)
		bus.Write(addr, c.A)
		return fmt.Sprintf("STA $%04X,Y", addr), &Effect{addr, c.A}, 5, nil
	case STA_INY:
		zp := c.zpAddr(bus)
		addr := c.indAddr(bus, zp) + uint16(c.Y)
		bus.Write(addr, c.A)
		return fmt.Sprintf("STA ($%02X),Y", zp), &Effect{addr, c.A}, 6, nil

	case STX_ZP:
		addr := uint16(c.zpAddr(bus))
		bus.Write(addr, c.X)
		return fmt.Sprintf("STX $%02X", addr), &Effect{addr, c.X}, 3, nil
	case STX_ABS:
		addr := c.absAddr(bus)
		bus.Write(addr, c.X)
		return fmt.Sprintf("STX $%04X", addr), &Effect{addr, c.X}, 4, nil

	case STY_ZP:
		addr := uint16(c.zpAddr(bus))
		bus.Write(addr, c.Y)
		return fmt.Sprintf("STY $%02X", addr), &Effect{addr, c.Y}, 3, nil
	case STY_ZPX:
		addr := uint16((c.zpAddr(bus) + c.X) & 0xFF)
		bus.Write(addr, c.Y)
		return fmt.Sprintf("STY $%02X,X", addr), &Effect{addr, c.Y}, 4, nil
	case STY_ABS:
		addr := c.absAddr(bus)
		bus.Write(addr, c.Y)
		return fmt.Sprintf("STY $%04X", addr), &Effect{addr, c.Y}, 4, nil

	// Transfer
	case TAX:
		c.X = c.A
		c.updateZN(c.X)
		return "TAX", nil, 2, nil
	case TAY:
		c.Y = c.A
		c.updateZN(c.Y)
		return "TAY", nil, 2, nil
	case TXA:
		c.A = c.X
		c.updateZN(c.A)
		return "TXA", nil, 2, nil
	case TYA:
		c.A = c.Y
		c.updateZN(c.A)
		return "TYA", nil, 2, nil
	case TSX:
		c.X = c.SP
		c.updateZN(c.X)
		return "TSX", nil, 2, nil
	case TXS:
		c.SP = c.X // TXS does not affect flags
		return "TXS", nil, 2, nil

	// Stack
	case PHA:
		c.push(bus, c.A)
		return "PHA", nil, 3, nil
	case PHP:
		c.push(bus, c.P|FlagB)
		return "PHP", nil, 3, nil
	case PLA:
		c.A = c.pull(bus)
		c.updateZN(c.A)
		return "PLA", nil, 4, nil
	case PLP:
		keepB := c.P & FlagB
		c.P = (c.pull(bus) &^ FlagB) | keepB
		return "PLP", nil, 4, nil

	// Arithmetic
	case ADC_IMM:
		v := c.readImmediate(bus)
		c.adc(v)
		return fmt.Sprintf("ADC #$%02X", v), nil, 2, nil
	case ADC_ZP:
		addr := c.zpAddr(bus)
		c.adc(bus.Read(uint16(addr)))
		return fmt.Sprintf("ADC $%02X", addr), nil, 3, nil
	case ADC_ABY:
		v, _, cross := c.readAbsIndexed(bus, c.Y)
		c.adc(v)
		return "ADC abs,Y", nil, cyclesWithCross(4, cross), nil

	case SBC_IMM:
		v := c.readImmediate(bus)
		c.sbc(v)
		return fmt.Sprintf("SBC #$%02X", v), nil, 2, nil
	case SBC_ZP:
		addr := c.zpAddr(bus)
		c.sbc(bus.Read(uint16(addr)))
		return fmt.Sprintf("SBC $%02X", addr), nil, 3, nil

	// Logical
	case ORA_IMM:
		c.A |= c.readImmediate(bus)
		c.updateZN(c.A)
		return "ORA #imm", nil, 2, nil
	case ORA_ZP:
		addr := c.zpAddr(bus)
		c.A |= bus.Read(uint16(addr))
		c.updateZN(c.A)
		return fmt.Sprintf("ORA $%02X", addr), nil, 3, nil
	case ORA_ABS:
		addr := c.absAddr(bus)
		c.A |= bus.Read(addr)
		c.updateZN(c.A)
		return fmt.Sprintf("ORA $%04X", addr), nil, 4, nil

	case AND_IMM:
		c.A &= c.readImmediate(bus)
		c.updateZN(c.A)
		return "AND #imm", nil, 2, nil

	case EOR_IMM:
		c.A ^= c.readImmediate(bus)
		c.updateZN(c.A)
		return "EOR #imm", nil, 2, nil
	case EOR_ZP:
		addr := c.zpAddr(bus)
		c.A ^= bus.Read(uint16(addr))
		c.updateZN(c.A)
		return fmt.Sprintf("EOR $%02X", addr), nil, 3, nil

	case BIT_ZP:
		addr := c.zpAddr(bus)
		c.bit(bus.Read(uint16(addr)))
		return fmt.Sprintf("BIT $%02X", addr), nil, 3, nil
	case BIT_ABS:
		addr := c.absAddr(bus)
		c.bit(bus.Read(addr))
		return fmt.Sprintf("BIT $%04X", addr), nil, 4, nil

	// Shift/rotate
	case ASL_ACC:
		c.A = c.asl(c.A)
		return "ASL A", nil, 2, nil
	case ASL_ZP:
		addr := uint16(c.zpAddr(bus))
		bus.Write(addr, c.asl(bus.Read(addr)))
		return fmt.Sprintf("ASL $%02X", addr), nil, 5, nil
	case ASL_ZPX:
		addr := uint16((c.zpAddr(bus) + c.X) & 0xFF)
		bus.Write(addr, c.asl(bus.Read(addr)))
		return fmt.Sprintf("ASL $%02X,X", addr), nil, 6, nil

	case LSR_ACC:
		c.A = c.lsr(c.A)
		return "LSR A", nil, 2, nil
	case LSR_ZP:
		addr := uint16(c.zpAddr(bus))
		bus.Write(addr, c.lsr(bus.Read(addr)))
		return fmt.Sprintf("LSR $%02X", addr), nil, 5, nil
	case LSR_ZPX:
		addr := uint16((c.zpAddr(bus) + c.X) & 0xFF)
		bus.Write(addr, c.lsr(bus.Read(addr)))
		return fmt.Sprintf("LSR $%02X,X", addr), nil, 6, nil

	case ROL_ACC:
		c.A = c.rol(c.A)
		return "ROL A", nil, 2, nil

	case ROR_ACC:
		c.A = c.ror(c.A)
		return "ROR A", nil, 2, nil
	case ROR_ZP:
		addr := uint16(c.zpAddr(bus))
		bus.Write(addr, c.ror(bus.Read(addr)))
		return fmt.Sprintf("ROR $%02X", addr), nil, 5, nil
	case ROR_ZPX:
		addr := uint16((c.zpAddr(bus) + c.X) & 0xFF)
		bus.Write(addr, c.ror(bus.Read(addr)))
		return fmt.Sprintf("ROR $%02X,X", addr), nil, 6, nil

	// Compare
	case CMP_IMM:
		c.compare(c.A, c.readImmediate(bus))
		return "CMP #imm", nil, 2, nil
	case CMP_ZP:
		addr := c.zpAddr(bus)
		c.compare(c.A, bus.Read(uint16(addr)))
		return fmt.Sprintf("CMP $%02X", addr), nil, 3, nil
	case CMP_ABS:
		addr := c.absAddr(bus)
		c.compare(c.A, bus.Read(addr))
		return fmt.Sprintf("CMP $%04X", addr), nil, 4, nil
	case CMP_ABX:
		v, _, cross := c.readAbsIndexed(bus, c.X)
		c.compare(c.A, v)
		return "CMP abs,X", nil, cyclesWithCross(4, cross), nil
	case CMP_INY:
		v, _, cross := c.readIndY(bus)
		c.compare(c.A, v)
		return "CMP (zp),Y", nil, cyclesWithCross(5, cross), nil

	case CPX_IMM:
		c.compare(c.X, c.readImmediate(bus))
		return "CPX #imm", nil, 2, nil
	case CPX_ZP:
		addr := c.zpAddr(bus)
		c.compare(c.X, bus.Read(uint16(addr)))
		return fmt.Sprintf("CPX $%02X", addr), nil, 3, nil
	case CPX_ABS:
		addr := c.absAddr(bus)
		c.compare(c.X, bus.Read(addr))
		return fmt.Sprintf("CPX $%04X", addr), nil, 4, nil

	case CPY_IMM:
		c.compare(c.Y, c.readImmediate(bus))
		return "CPY #imm", nil, 2, nil
	case CPY_ZP:
		addr := c.zpAddr(bus)
		c.compare(c.Y, bus.Read(uint16(addr)))
		return fmt.Sprintf("CPY $%02X", addr), nil, 3, nil

	// Inc/Dec
	case INC_ZP:
		addr := uint16(c.zpAddr(bus))
		v := bus.Read(addr) + 1
		bus.Write(addr, v)
		c.updateZN(v)
		return fmt.Sprintf("INC $%02X", addr), nil, 5, nil
	case DEC_ZP:
		addr := uint16(c.zpAddr(bus))
		v := bus.Read(addr) - 1
		bus.Write(addr, v)
		c.updateZN(v)
		return fmt.Sprintf("DEC $%02X", addr), nil, 5, nil

	case INX:
		c.X++
		c.updateZN(c.X)
		return "INX", nil, 2, nil
	case INY:
		c.Y++
		c.updateZN(c.Y)
		return "INY", nil, 2, nil
	case DEX:
		c.X--
		c.updateZN(c.X)
		return "DEX", nil, 2, nil
	case DEY:
		c.Y--
		c.updateZN(c.Y)
		return "DEY", nil, 2, nil

	// Flags
	case CLC:
		c.P &^= FlagC
		return "CLC", nil, 2, nil
	case SEC:
		c.P |= FlagC
		return "SEC", nil, 2, nil
	case CLI:
		c.P &^= FlagI
		return "CLI", nil, 2, nil
	case SEI:
		c.P |= FlagI
		return "SEI", nil, 2, nil
	case CLD:
		c.P &^= FlagD
		return "CLD", nil, 2, nil

	// Jumps & calls
	case JMP_ABS:
		addr := c.absAddr(bus)
		c.PC = addr
		return fmt.Sprintf("JMP $%04X", addr), nil, 3, nil
	case JMP_IND:
		ptr := c.absAddr(bus)
		var addr uint16
		if ptr&0xFF == 0xFF {
			// 6502 indirect-jump page-wrap bug: high byte is re-fetched from
			// the start of the same page, not the next page.
			addr = uint16(bus.Read(ptr)) | uint16(bus.Read(ptr&0xFF00))<<8
		} else {
			addr = uint16(bus.Read(ptr)) | uint16(bus.Read(ptr+1))<<8
		}
		c.PC = addr
		return fmt.Sprintf("JMP ($%04X)", ptr), nil, 5, nil
	case JSR_ABS:
		addr := c.absAddr(bus)
		c.push16(bus, c.PC-1)
		c.PC = addr
		return fmt.Sprintf("JSR $%04X", addr), nil, 6, nil
	case RTS:
		c.PC = c.pull16(bus) + 1
		return "RTS", nil, 6, nil
	case RTI:
		keepB := c.P & FlagB
		c.P = (c.pull(bus) &^ FlagB) | keepB
		c.PC = c.pull16(bus)
		return "RTI", nil, 6, nil

	// Branches
	case BPL:
		return c.branch(bus, "BPL", c.P&FlagN == 0)
	case BMI:
		return c.branch(bus, "BMI", c.P&FlagN != 0)
	case BVS:
		return c.branch(bus, "BVS", c.P&FlagV != 0)
	case BCC:
		return c.branch(bus, "BCC", c.P&FlagC == 0)
	case BCS:
		return c.branch(bus, "BCS", c.P&FlagC != 0)
	case BNE:
		return c.branch(bus, "BNE", c.P&FlagZ == 0)
	case BEQ:
		return c.branch(bus, "BEQ", c.P&FlagZ != 0)

	default:
		return "", nil, 0, &DecodeError{Opcode: opcode, PC: c.PC - 1}
	}
}

func (c *CPU) branch(bus Bus, mnemonic string, taken bool) (string, *Effect, uint8, error) {
	offset := int8(c.readImmediate(bus))
	target := uint16(int32(c.PC) + int32(offset))
	text := fmt.Sprintf("%s $%04X", mnemonic, target)
	if !taken {
		return text, nil, 2, nil
	}
	oldPC := c.PC
	c.PC = target
	if (oldPC & 0xFF00) != (c.PC & 0xFF00) {
		return text, nil, 4, nil
	}
	return text, nil, 3, nil
}

func cyclesWithCross(base uint8, crossed bool) uint8 {
	if crossed {
		return base + 1
	}
	return base
}

// --- addressing helpers ---

func (c *CPU) readImmediate(bus Bus) uint8 {
	v := bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) zpAddr(bus Bus) uint8 {
	a := bus.Read(c.PC)
	c.PC++
	return a
}

func (c *CPU) absAddr(bus Bus) uint16 {
	lo := uint16(bus.Read(c.PC))
	c.PC++
	hi := uint16(bus.Read(c.PC))
	c.PC++
	return hi<<8 | lo
}

func (c *CPU) readAbsIndexed(bus Bus, index uint8) (value uint8, effAddr uint16, pageCrossed bool) {
	base := c.absAddr(bus)
	effAddr = base + uint16(index)
	pageCrossed = (base & 0xFF00) != (effAddr & 0xFF00)
	return bus.Read(effAddr), effAddr, pageCrossed
}

func (c *CPU) indAddr(bus Bus, zp uint8) uint16 {
	lo := uint16(bus.Read(uint16(zp)))
	hi := uint16(bus.Read(uint16((zp + 1) & 0xFF)))
	return hi<<8 | lo
}

func (c *CPU) readIndY(bus Bus) (value uint8, effAddr uint16, pageCrossed bool) {
	zp := c.zpAddr(bus)
	base := c.indAddr(bus, zp)
	effAddr = base + uint16(c.Y)
	pageCrossed = (base & 0xFF00) != (effAddr & 0xFF00)
	return bus.Read(effAddr), effAddr, pageCrossed
}

func read16(bus Bus, addr uint16) uint16 {
	lo := uint16(bus.Read(addr))
	hi := uint16(bus.Read(addr + 1))
	return hi<<8 | lo
}

// --- stack helpers ---

func (c *CPU) push(bus Bus, v uint8) {
	bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull(bus Bus) uint8 {
	c.SP++
	return bus.Read(0x0100 | uint16(c.SP))
}

func (c *CPU) push16(bus Bus, v uint16) {
	c.push(bus, uint8(v>>8))
	c.push(bus, uint8(v))
}

func (c *CPU) pull16(bus Bus) uint16 {
	lo := uint16(c.pull(bus))
	hi := uint16(c.pull(bus))
	return hi<<8 | lo
}

// --- ALU helpers ---

func (c *CPU) adc(value uint8) {
	sum := uint16(c.A) + uint16(value) + uint16(c.P&FlagC)

	if sum > 0xFF {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}

	if ((c.A^value)&0x80) == 0 && ((c.A^uint8(sum))&0x80) != 0 {
		c.P |= FlagV
	} else {
		c.P &^= FlagV
	}

	c.A = uint8(sum)
	c.updateZN(c.A)
}

// sbc is ADC of the one's complement, the standard 6502 identity; decimal
// mode is not implemented (non-goal).
func (c *CPU) sbc(value uint8) {
	c.adc(^value)
}

func (c *CPU) compare(reg, value uint8) {
	result := reg - value
	if reg >= value {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	c.updateZN(result)
}

func (c *CPU) bit(value uint8) {
	result := c.A & value
	if result == 0 {
		c.P |= FlagZ
	} else {
		c.P &^= FlagZ
	}
	if value&0x80 != 0 {
		c.P |= FlagN
	} else {
		c.P &^= FlagN
	}
	if value&0x40 != 0 {
		c.P |= FlagV
	} else {
		c.P &^= FlagV
	}
}

func (c *CPU) asl(value uint8) uint8 {
	if value&0x80 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	result := value << 1
	c.updateZN(result)
	return result
}

func (c *CPU) lsr(value uint8) uint8 {
	if value&0x01 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	result := value >> 1
	c.updateZN(result)
	return result
}

func (c *CPU) rol(value uint8) uint8 {
	oldCarry := c.P & FlagC
	if value&0x80 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	result := value << 1
	if oldCarry != 0 {
		result |= 0x01
	}
	c.updateZN(result)
	return result
}

func (c *CPU) ror(value uint8) uint8 {
	oldCarry := c.P & FlagC
	if value&0x01 != 0 {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
	result := value >> 1
	if oldCarry != 0 {
		result |= 0x80
	}
	c.updateZN(result)
	return result
}

func (c *CPU) updateZN(value uint8) {
	if value == 0 {
		c.P |= FlagZ
	} else {
		c.P &^= FlagZ
	}
	if value&0x80 != 0 {
		c.P |= FlagN
	} else {
		c.P &^= FlagN
	}
}
