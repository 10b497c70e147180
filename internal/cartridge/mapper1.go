package cartridge

// mapper1 implements MMC1 / SxROM (iNES mapper 1): a 5-bit shift register
// fed one bit per CPU write to $8000-$FFFF. After 5 writes the accumulated
// value is copied into one of four internal registers selected by the
// address of the 5th write (control, chr0, chr1, prg). A write with bit 7
// set resets the shift register and forces PRG mode 3 (fix last bank).
//
// Consecutive writes issued within the same CPU cycle are ignored by real
// hardware; that is modeled here as a write-lockout counter decremented by
// Tick, grounded on how real MMC1 boards filter RMW instructions that write
// twice per CPU cycle (e.g. INC $8000).
type mapper1 struct {
	baseMapper

	prgBanks int // number of 16KB PRG banks

	shift      uint8
	shiftCount uint8

	control uint8 // mirroring(2) | prgMode(2) | chrMode(1)
	chrBank [2]uint8
	prgBank uint8

	writeLockout uint8
}

func newMapper1(prgBanks int, mirror Mirroring) *mapper1 {
	return &mapper1{
		baseMapper: baseMapper{mirroring: mirror},
		prgBanks:   prgBanks,
		shift:      0x10,
		control:    0x0C, // power-on: PRG mode 3 (fix last), CHR mode 0
	}
}

func (m *mapper1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mapper1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mapper1) Tick(cpuCycles uint64) {
	if m.writeLockout > 0 {
		if cpuCycles >= uint64(m.writeLockout) {
			m.writeLockout = 0
		} else {
			m.writeLockout -= uint8(cpuCycles)
		}
	}
}

func (m *mapper1) CPUReadPRG(prgROM, prgRAM []byte, addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return prgRAM[addr-0x6000], true
	case addr >= 0x8000 && addr < 0xC000:
		bank := m.prgBank
		switch m.prgMode() {
		case 0, 1:
			bank &^= 1 // 32KB mode: low half of an even/odd pair
		case 2:
			bank = 0 // fix first bank at $8000
		case 3:
			// switchable
		}
		return prgROM[m.prgOffset(bank, addr-0x8000)], true
	case addr >= 0xC000:
		bank := m.prgBank
		switch m.prgMode() {
		case 0, 1:
			bank = (bank &^ 1) | 1
		case 2:
			// switchable at $C000
		case 3:
			bank = uint8(m.prgBanks - 1) // fix last bank at $C000
		}
		return prgROM[m.prgOffset(bank, addr-0xC000)], true
	}
	return 0, false
}

func (m *mapper1) prgOffset(bank uint8, within uint16) int {
	banks := m.prgBanks
	if banks == 0 {
		banks = 1
	}
	return (int(bank)%banks)*prgBankUnit + int(within)
}

func (m *mapper1) CPUWritePRG(prgRAM []byte, addr uint16, value uint8) (int, bool) {
	if addr >= 0x6000 && addr < 0x8000 {
		off := int(addr - 0x6000)
		prgRAM[off] = value
		return off, true
	}
	if addr < 0x8000 {
		return 0, false
	}
	if m.writeLockout > 0 {
		return 0, false
	}
	if value&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.control |= 0x0C
		m.writeLockout = 1
		return 0, false
	}
	m.shift = (m.shift >> 1) | ((value & 1) << 4)
	m.shiftCount++
	if m.shiftCount == 5 {
		m.writeRegister(addr, m.shift)
		m.shift = 0x10
		m.shiftCount = 0
	}
	m.writeLockout = 1
	return 0, false
}

func (m *mapper1) writeRegister(addr uint16, value uint8) {
	value &= 0x1F
	switch {
	case addr < 0xA000:
		m.control = value
		switch value & 0x03 {
		case 0:
			m.mirroring = MirrorSingleScreenLower
		case 1:
			m.mirroring = MirrorSingleScreenUpper
		case 2:
			m.mirroring = MirrorVertical
		case 3:
			m.mirroring = MirrorHorizontal
		}
	case addr < 0xC000:
		m.chrBank[0] = value
	case addr < 0xE000:
		m.chrBank[1] = value
	default:
		m.prgBank = value & 0x0F
	}
}

func (m *mapper1) PPUReadCHR(chrMem []byte, addr uint16) (uint8, bool) {
	if addr >= 0x2000 {
		return 0, false
	}
	return chrMem[m.chrOffset(chrMem, addr)], true
}

func (m *mapper1) PPUWriteCHR(chrMem []byte, addr uint16, value uint8) {
	if addr < 0x2000 {
		chrMem[m.chrOffset(chrMem, addr)] = value
	}
}

func (m *mapper1) chrOffset(chrMem []byte, addr uint16) int {
	banks4k := len(chrMem) / 4096
	if banks4k == 0 {
		banks4k = 1
	}
	if m.chrMode() == 0 {
		// 8KB mode: chrBank[0] selects an 8KB-aligned pair, low bit ignored.
		bank := (m.chrBank[0] &^ 1) % uint8(banks4k)
		return int(bank)*4096 + int(addr)
	}
	// 4KB mode: two independently switched 4KB halves.
	if addr < 0x1000 {
		bank := m.chrBank[0] % uint8(banks4k)
		return int(bank)*4096 + int(addr)
	}
	bank := m.chrBank[1] % uint8(banks4k)
	return int(bank)*4096 + int(addr-0x1000)
}
