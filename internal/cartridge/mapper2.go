package cartridge

// mapper2 implements UxROM (iNES mapper 2): a single 16KB bank switchable
// at $8000-$BFFF, with the last 16KB bank fixed at $C000-$FFFF. CHR is
// always RAM (8KB, no banking). Mirroring is header-fixed.
type mapper2 struct {
	baseMapper
	prgBanks int
	prgBank  uint8
}

func newMapper2(prgBanks int, mirror Mirroring) *mapper2 {
	return &mapper2{baseMapper: baseMapper{mirroring: mirror}, prgBanks: prgBanks}
}

func (m *mapper2) CPUReadPRG(prgROM, prgRAM []byte, addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return prgRAM[addr-0x6000], true
	case addr >= 0x8000 && addr < 0xC000:
		banks := m.prgBanks
		if banks == 0 {
			banks = 1
		}
		bank := int(m.prgBank) % banks
		return prgROM[bank*prgBankUnit+int(addr-0x8000)], true
	case addr >= 0xC000:
		last := m.prgBanks - 1
		if last < 0 {
			last = 0
		}
		return prgROM[last*prgBankUnit+int(addr-0xC000)], true
	}
	return 0, false
}

func (m *mapper2) CPUWritePRG(prgRAM []byte, addr uint16, value uint8) (int, bool) {
	if addr >= 0x6000 && addr < 0x8000 {
		off := int(addr - 0x6000)
		prgRAM[off] = value
		return off, true
	}
	if addr >= 0x8000 {
		m.prgBank = value
	}
	return 0, false
}

func (m *mapper2) PPUReadCHR(chrMem []byte, addr uint16) (uint8, bool) {
	if addr < 0x2000 && len(chrMem) > 0 {
		return chrMem[int(addr)%len(chrMem)], true
	}
	return 0, false
}

func (m *mapper2) PPUWriteCHR(chrMem []byte, addr uint16, value uint8) {
	if addr < 0x2000 && len(chrMem) > 0 {
		chrMem[int(addr)%len(chrMem)] = value
	}
}
