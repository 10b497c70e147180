package cartridge

// mapper0 implements NROM (iNES mapper 0): no bank switching. 16KB PRG is
// mirrored to fill the 32KB $8000-$FFFF window; CHR is a flat 8KB bank
// (ROM or RAM). Mirroring is fixed by the header.
type mapper0 struct {
	baseMapper
}

func newMapper0(mirror Mirroring) *mapper0 {
	return &mapper0{baseMapper{mirroring: mirror}}
}

func (m *mapper0) CPUReadPRG(prgROM, prgRAM []byte, addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return prgRAM[addr-0x6000], true
	case addr >= 0x8000:
		if len(prgROM) == 0 {
			return 0, false
		}
		off := int(addr-0x8000) % len(prgROM)
		return prgROM[off], true
	}
	return 0, false
}

func (m *mapper0) CPUWritePRG(prgRAM []byte, addr uint16, value uint8) (int, bool) {
	if addr >= 0x6000 && addr < 0x8000 {
		off := int(addr - 0x6000)
		prgRAM[off] = value
		return off, true
	}
	// Writes to $8000-$FFFF never mutate PRG-ROM and NROM has no registers.
	return 0, false
}

func (m *mapper0) PPUReadCHR(chrMem []byte, addr uint16) (uint8, bool) {
	if addr < 0x2000 && len(chrMem) > 0 {
		return chrMem[int(addr)%len(chrMem)], true
	}
	return 0, false
}

func (m *mapper0) PPUWriteCHR(chrMem []byte, addr uint16, value uint8) {
	if addr < 0x2000 && len(chrMem) > 0 {
		chrMem[int(addr)%len(chrMem)] = value
	}
}
