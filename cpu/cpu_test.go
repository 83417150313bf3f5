package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// runUntilDispatch ticks the CPU until an instruction actually dispatches
// (mnemonic != ""), returning that mnemonic.
func runUntilDispatch(t *testing.T, c *CPU, bus Bus) string {
	t.Helper()
	for i := 0; i < 16; i++ {
		mnemonic, _, err := c.Tick(bus, false)
		assert.NoError(t, err)
		if mnemonic != "" {
			return mnemonic
		}
	}
	t.Fatal("no instruction dispatched within 16 ticks")
	return ""
}

func TestScenario_LDAImmediateThenSTAZeroPage(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	bus.mem[0x8000] = LDA_IMM
	bus.mem[0x8001] = 0x42
	bus.mem[0x8002] = STA_ZP
	bus.mem[0x8003] = 0x10

	c := NewCPU()
	c.PC = 0x8000

	mnemonic := runUntilDispatch(t, c, bus)
	assert.Equal("LDA #$42", mnemonic)
	consumed := c.waitCycles

	mnemonic = runUntilDispatch(t, c, bus)
	assert.Equal("STA $10", mnemonic)
	consumed += c.waitCycles

	assert.Equal(uint8(0x42), c.A)
	assert.Equal(uint8(0x42), bus.mem[0x10])
	assert.False(c.P&FlagZ != 0)
	assert.False(c.P&FlagN != 0)
	assert.Equal(uint16(0x8004), c.PC)
	assert.Equal(5, consumed, "total waitCycles consumed across both instructions")
}

func TestScenario_BranchPageCross(t *testing.T) {
	assert := assert.New(t)

	t.Run("taken across page boundary", func(t *testing.T) {
		bus := newFlatBus()
		bus.mem[0x80FD] = BNE
		bus.mem[0x80FE] = 0x05
		c := NewCPU()
		c.PC = 0x80FD
		c.P = 0 // Z clear, branch taken

		mnemonic, _, err := c.Tick(bus, false)
		assert.NoError(err)
		assert.Equal("BNE $8104", mnemonic)
		assert.Equal(uint16(0x8104), c.PC)
		assert.Equal(4, c.waitCycles)
	})

	t.Run("not taken", func(t *testing.T) {
		bus := newFlatBus()
		bus.mem[0x80FD] = BNE
		bus.mem[0x80FE] = 0x05
		c := NewCPU()
		c.PC = 0x80FD
		c.P = FlagZ // Z set, BNE does not branch

		_, _, err := c.Tick(bus, false)
		assert.NoError(err)
		assert.Equal(uint16(0x80FF), c.PC)
		assert.Equal(2, c.waitCycles)
	})
}

func TestScenario_ADCOverflow(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	bus.mem[0x0000] = ADC_IMM
	bus.mem[0x0001] = 0x50
	c := NewCPU()
	c.A = 0x50
	c.P = 0 // C clear

	_, _, err := c.Tick(bus, false)
	assert.NoError(err)
	assert.Equal(uint8(0xA0), c.A)
	assert.True(c.P&FlagN != 0)
	assert.True(c.P&FlagV != 0)
	assert.False(c.P&FlagC != 0)
	assert.False(c.P&FlagZ != 0)
}

func TestFlagDerivation(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		value  uint8
		wantZ  bool
		wantN  bool
	}{
		{0x00, true, false},
		{0x01, false, false},
		{0x80, false, true},
		{0xFF, false, true},
	}
	for _, tt := range tests {
		c := NewCPU()
		c.updateZN(tt.value)
		assert.Equal(tt.wantZ, c.P&FlagZ != 0, "Z for 0x%02X", tt.value)
		assert.Equal(tt.wantN, c.P&FlagN != 0, "N for 0x%02X", tt.value)
	}
}

func TestStackDiscipline(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	bus.mem[0x0000] = PHA
	bus.mem[0x0001] = PLA
	c := NewCPU()
	c.A = 0x77
	c.SP = 0xFD
	startSP := c.SP
	bus.mem[0x0100|uint16(startSP)-1] = 0xAA // sentinel just below the pushed slot

	_, _, err := c.Tick(bus, false) // PHA
	assert.NoError(err)
	assert.Equal(startSP-1, c.SP)
	assert.Equal(uint8(0x77), bus.mem[0x0100|uint16(startSP)])

	c.A = 0x00
	mnemonic := runUntilDispatch(t, c, bus) // PLA, once PHA's cycles have drained
	assert.Equal("PLA", mnemonic)
	assert.Equal(startSP, c.SP)
	assert.Equal(uint8(0x77), c.A)
	assert.Equal(uint8(0xAA), bus.mem[0x0100|uint16(startSP)-1], "memory outside the pushed slot is untouched")
}

func TestResetDeterminism(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0xE0

	c := NewCPU()
	c.Reset(bus)

	assert.Equal(uint16(0xE000), c.PC)
	assert.Equal(0, c.waitCycles)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	// 0x8000: JSR 0x9000; 0x8003 is the return address (left empty, never executed)
	bus.mem[0x8000] = JSR_ABS
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x90
	bus.mem[0x9000] = RTS

	c := NewCPU()
	c.PC = 0x8000
	c.SP = 0xFF
	startSP := c.SP

	mnemonic := runUntilDispatch(t, c, bus) // JSR
	assert.Equal("JSR $9000", mnemonic)
	assert.Equal(uint16(0x9000), c.PC)

	mnemonic = runUntilDispatch(t, c, bus) // RTS
	assert.Equal("RTS", mnemonic)
	assert.Equal(uint16(0x8003), c.PC)
	assert.Equal(startSP, c.SP)
}

func TestIRQEntryUsesVector(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x90

	c := NewCPU()
	c.PC = 0x8000
	c.SP = 0xFF
	c.P = 0 // I flag clear

	mnemonic, effect, err := c.Tick(bus, true)
	assert.NoError(err)
	assert.Nil(effect)
	assert.Equal("IRQ", mnemonic)
	assert.Equal(uint16(0x9000), c.PC)
	assert.True(c.P&FlagI != 0)
	assert.Equal(uint8(0xFC), c.SP, "pushed PC (2 bytes) then P (1 byte)")

	// Masked IRQ is ignored.
	c2 := NewCPU()
	c2.PC = 0x8000
	c2.P = FlagI
	bus.mem[0x8000] = CLC
	mnemonic, _, err = c2.Tick(bus, true)
	assert.NoError(err)
	assert.Equal("CLC", mnemonic)
}

func TestUnknownOpcodeIsFatal(t *testing.T) {
	assert := assert.New(t)
	bus := newFlatBus()
	bus.mem[0x8000] = 0xFF // not in the required opcode set
	c := NewCPU()
	c.PC = 0x8000

	_, _, err := c.Tick(bus, false)
	assert.Error(err)
	var decodeErr *DecodeError
	assert.ErrorAs(err, &decodeErr)
	assert.Equal(uint8(0xFF), decodeErr.Opcode)
	assert.Equal(uint16(0x8000), decodeErr.PC)
}
