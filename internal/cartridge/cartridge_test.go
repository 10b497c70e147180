package cartridge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildINES(mapperID uint8, prgBanks, chrBanks int, mirrorVertical bool, prg, chr []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(uint8(prgBanks))
	buf.WriteByte(uint8(chrBanks))
	flags6 := (mapperID & 0x0F) << 4
	if mirrorVertical {
		flags6 |= 0x01
	}
	buf.WriteByte(flags6)
	buf.WriteByte(mapperID & 0xF0)
	buf.Write(make([]byte, 8)) // PRG-RAM size + reserved bytes
	if prg == nil {
		prg = make([]byte, prgBanks*prgBankUnit)
	}
	buf.Write(prg)
	if chrBanks > 0 {
		if chr == nil {
			chr = make([]byte, chrBanks*chrBankUnit)
		}
		buf.Write(chr)
	}
	return buf.Bytes()
}

func TestHeaderRoundTrip(t *testing.T) {
	raw := buildINES(4, 2, 1, true, nil, nil)
	h, err := parseHeader(bytes.NewReader(raw[:headerSize]))
	require.NoError(t, err)
	require.Equal(t, raw[:headerSize], h.Bytes()[:])
}

func TestLoadRejectsBadMagic(t *testing.T) {
	raw := buildINES(0, 1, 1, false, nil, nil)
	raw[0] = 'X'
	_, err := Load(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestLoadRejectsNES20Version(t *testing.T) {
	raw := buildINES(0, 1, 1, false, nil, nil)
	raw[7] |= 0x08
	_, err := Load(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	raw := buildINES(5, 1, 1, false, nil, nil)
	_, err := Load(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrUnsupportedMapper)
}

func TestLoadRejectsTruncatedRom(t *testing.T) {
	raw := buildINES(0, 2, 1, false, nil, nil)
	truncated := raw[:len(raw)-100]
	_, err := Load(bytes.NewReader(truncated))
	require.True(t, errors.Is(err, ErrTruncatedRom))
}

func TestNROMMirrorsHalfBankAcrossFullWindow(t *testing.T) {
	prg := make([]byte, prgBankUnit)
	prg[0] = 0x42
	prg[prgBankUnit-1] = 0x99
	raw := buildINES(0, 1, 1, false, prg, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Equal(t, uint8(0x42), cart.ReadPRG(0x8000))
	require.Equal(t, uint8(0x99), cart.ReadPRG(0xBFFF))
	require.Equal(t, uint8(0x42), cart.ReadPRG(0xC000), "16KB bank must mirror into the upper half")
	require.Equal(t, uint8(0x99), cart.ReadPRG(0xFFFF))
}

func TestNROMPRGRAMWriteSetsSaveDirty(t *testing.T) {
	raw := buildINES(0, 1, 1, false, nil, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	require.False(t, cart.BatteryDirty())
	cart.WritePRG(0x6000, 0x55)
	require.Equal(t, uint8(0x55), cart.ReadPRG(0x6000))
	require.True(t, cart.saveDirty, "a PRG-RAM write must set the save-dirty flag")
}

func TestCNROMChrBankSelectWraps(t *testing.T) {
	chr := make([]byte, 2*chrBankUnit)
	chr[0] = 0x11
	chr[chrBankUnit] = 0x22
	raw := buildINES(3, 1, 2, false, nil, chr)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	cart.WritePRG(0x8000, 0) // select bank 0
	require.Equal(t, uint8(0x11), cart.ReadCHR(0))

	cart.WritePRG(0x8000, 1) // select bank 1
	require.Equal(t, uint8(0x22), cart.ReadCHR(0))

	cart.WritePRG(0x8000, 5) // out-of-range value must wrap modulo bank count
	require.Equal(t, uint8(0x22), cart.ReadCHR(0))
}

func TestUxROMFixesLastBankAtC000(t *testing.T) {
	prg := make([]byte, 4*prgBankUnit)
	prg[0] = 0xAA                 // bank 0, $8000
	prg[3*prgBankUnit] = 0xBB     // bank 3 (last), $C000
	raw := buildINES(2, 4, 0, false, prg, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Equal(t, uint8(0xBB), cart.ReadPRG(0xC000))
	cart.WritePRG(0x8000, 0)
	require.Equal(t, uint8(0xAA), cart.ReadPRG(0x8000))
	require.Equal(t, uint8(0xBB), cart.ReadPRG(0xC000), "last bank stays fixed regardless of the switchable bank")
}

// TestMMC1ShiftRegisterFill exercises the 5-write shift sequence: a reset
// write (bit 7 set) followed by five serial bit writes should land exactly
// one value in the control register, computed by shifting each write's bit
// 0 into bit 4 and right-shifting the rest.
func TestMMC1ShiftRegisterFill(t *testing.T) {
	raw := buildINES(1, 2, 0, false, nil, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	m := cart.mapper.(*mapper1)

	cart.WritePRG(0x8000, 0x80) // reset
	require.Equal(t, uint8(0x10), m.shift)
	require.Equal(t, uint8(0), m.shiftCount)

	bits := []uint8{0, 0, 1, 0, 0}
	for i, b := range bits {
		m.writeLockout = 0 // test drives writes back-to-back without Tick
		cart.WritePRG(0x8000, b)
		if i < 4 {
			require.Equal(t, uint8(i+1), m.shiftCount)
		}
	}

	require.Equal(t, uint8(0), m.shiftCount, "register commits and resets after the 5th write")
	require.Equal(t, uint8(0x04), m.control)
	require.Equal(t, uint8(1), m.prgMode())
}

func TestMMC1WriteLockoutIgnoresSameCycleWrites(t *testing.T) {
	raw := buildINES(1, 2, 0, false, nil, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)
	m := cart.mapper.(*mapper1)

	cart.WritePRG(0x8000, 0x80)
	m.writeLockout = 0
	cart.WritePRG(0x8000, 1) // first real bit, arms the lockout
	require.Equal(t, uint8(1), m.shiftCount)

	cart.WritePRG(0x8000, 1) // same-cycle second write must be ignored
	require.Equal(t, uint8(1), m.shiftCount)

	cart.Tick(1)
	cart.WritePRG(0x8000, 1)
	require.Equal(t, uint8(2), m.shiftCount)
}

func TestMMC3BankSwapModeSelectsPRGWindow(t *testing.T) {
	// 2 PRG banks of 16KB = four 8KB windows, each stamped with its index.
	prg := make([]byte, 2*prgBankUnit)
	for window := 0; window < 4; window++ {
		for i := 0; i < 0x2000; i++ {
			prg[window*0x2000+i] = byte(window)
		}
	}
	raw := buildINES(4, 2, 1, false, prg, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	// PRG mode 0 (bankSelect bit 6 = 0): R6 selects $8000, bank 2 fixed at $C000.
	cart.WritePRG(0x8000, 0x06) // select register R6
	cart.WritePRG(0x8001, 0)    // R6 = physical bank 0
	require.Equal(t, uint8(0), cart.ReadPRG(0x8000))
	require.Equal(t, uint8(2), cart.ReadPRG(0xC000), "second-to-last bank is fixed at $C000 in mode 0")

	// PRG mode 1 (bit 6 = 1): $8000 and $C000 swap roles.
	cart.WritePRG(0x8000, 0x46)
	require.Equal(t, uint8(2), cart.ReadPRG(0x8000), "second-to-last bank now fixed at $8000 in mode 1")
	require.Equal(t, uint8(0), cart.ReadPRG(0xC000), "R6 now controls $C000 in mode 1")

	// $E000-$FFFF is always the last bank regardless of mode.
	require.Equal(t, uint8(3), cart.ReadPRG(0xE000))
}

func TestMMC3IRQFiresOnA12RisingEdgeAfterCountdown(t *testing.T) {
	raw := buildINES(4, 2, 1, false, nil, nil)
	cart, err := Load(bytes.NewReader(raw))
	require.NoError(t, err)

	cart.WritePRG(0xC000, 2) // IRQ latch = 2
	cart.WritePRG(0xC001, 0) // request reload on next clock
	cart.WritePRG(0xE001, 0) // enable IRQ

	// Falling edge then rising edge is what actually clocks the counter.
	cart.NotifyPPUAddress(0x0000) // A12 low
	cart.NotifyPPUAddress(0x1000) // A12 rising edge #1: reload to latch (2)
	require.False(t, cart.IRQPending())

	cart.NotifyPPUAddress(0x0000)
	cart.NotifyPPUAddress(0x1000) // edge #2: counter 2 -> 1
	require.False(t, cart.IRQPending())

	cart.NotifyPPUAddress(0x0000)
	cart.NotifyPPUAddress(0x1000) // edge #3: counter 1 -> 0, IRQ asserted
	require.True(t, cart.IRQPending())

	cart.AckIRQ()
	require.False(t, cart.IRQPending())
}
