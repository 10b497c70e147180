// Package memory implements the NES CPU and PPU address-space dispatch:
// work RAM, register mirroring, nametable mirroring, and palette RAM.
package memory

// MirrorMode mirrors cartridge.Mirroring's encoding so this package
// doesn't need to import the cartridge package just for one enum.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// PPUInterface is the CPU-facing view of the PPU's eight memory-mapped
// registers ($2000-$2007, mirrored through $3FFF).
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface is the CPU-facing view of the APU's register file.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface is the CPU-facing view of the controller ports.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface is the subset of cartridge.Cartridge the memory map
// needs: PRG access plus a live mirroring query so mapper-driven
// mirroring changes (MMC1, MMC3) take effect without a cache to invalidate.
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirroring() MirrorMode
	NotifyPPUAddress(address uint16)
}

// Memory is the CPU's view of the 64KB address space.
type Memory struct {
	ram [0x800]uint8

	ppuRegisters PPUInterface
	apuRegisters APUInterface
	inputSystem  InputInterface
	cartridge    CartridgeInterface

	dmaCallback func(uint8)

	openBusValue uint8
}

// New creates a Memory wired to the given components. SetInputSystem and
// SetDMACallback may be called afterward once those pieces exist.
func New(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *Memory {
	m := &Memory{
		ppuRegisters: ppu,
		apuRegisters: apu,
		cartridge:    cart,
	}
	m.initializePowerUpRAM()
	return m
}

func (m *Memory) SetInputSystem(input InputInterface) { m.inputSystem = input }
func (m *Memory) SetDMACallback(callback func(uint8)) { m.dmaCallback = callback }

// WorkRAM returns a copy of the 2KB internal work RAM, for save states.
func (m *Memory) WorkRAM() [0x800]uint8 { return m.ram }

// RestoreWorkRAM overwrites work RAM from a save state.
func (m *Memory) RestoreWorkRAM(ram [0x800]uint8) { m.ram = ram }

// initializePowerUpRAM seeds work RAM with the non-uniform pattern real
// NES hardware exhibits at power-on, rather than all zeros: several
// well-known titles read uninitialized RAM before their own init code
// runs, and an all-zero reset behaves differently than real hardware.
func (m *Memory) initializePowerUpRAM() {
	for i := 0; i < 0x800; i++ {
		switch {
		case i < 0x100:
			if i%2 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		case i < 0x200:
			if i%16 < 2 {
				m.ram[i] = 0xFF
			} else {
				m.ram[i] = 0x00
			}
		case i < 0x300:
			if (i/8)%2 == (i%8)/4 {
				m.ram[i] = 0xAA
			} else {
				m.ram[i] = 0x55
			}
		case i < 0x400:
			if i%8 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		default:
			switch i % 4 {
			case 0:
				m.ram[i] = 0x00
			case 1:
				m.ram[i] = 0xFF
			case 2:
				m.ram[i] = 0xAA
			case 3:
				m.ram[i] = 0x55
			}
		}
	}
}

// Read dispatches a CPU-space read across RAM, PPU/APU registers,
// controller ports, and cartridge space, tracking open-bus behavior for
// unmapped regions.
func (m *Memory) Read(address uint16) uint8 {
	var value uint8

	switch {
	case address < 0x2000:
		value = m.ram[address&0x07FF]

	case address < 0x4000:
		value = m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))

	case address < 0x4020:
		switch {
		case address == 0x4015:
			value = m.apuRegisters.ReadStatus()
		case address == 0x4016 || address == 0x4017:
			if m.inputSystem != nil {
				value = m.inputSystem.Read(address)
			}
		default:
			value = m.openBusValue
		}

	case address >= 0x6000 && address < 0x8000:
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			value = m.openBusValue
		}

	case address < 0x8000:
		value = m.openBusValue

	default:
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			value = m.openBusValue
		}
	}

	m.openBusValue = value
	return value
}

// Write dispatches a CPU-space write, including triggering OAM DMA on a
// $4014 write.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)

	case address < 0x4020:
		switch {
		case address == 0x4014:
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			} else {
				m.performOAMDMA(value)
			}
		case address == 0x4016:
			if m.inputSystem != nil {
				m.inputSystem.Write(address, value)
			}
		case address >= 0x4000 && address <= 0x4013, address == 0x4015, address == 0x4017:
			m.apuRegisters.WriteRegister(address, value)
		}

	case address >= 0x6000 && address < 0x8000:
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}

	case address < 0x8000:
		// unmapped expansion area, writes ignored

	default:
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}
	}
}

// performOAMDMA is the fallback used when no CPU-stall-aware DMA callback
// has been installed; it still performs the 256-byte copy into OAM.
func (m *Memory) performOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		m.ppuRegisters.WriteRegister(0x2004, m.Read(base+i))
	}
}

// PPUMemory is the PPU's view of its own 14-bit address space: pattern
// tables (delegated to the cartridge), nametables, and palette RAM.
type PPUMemory struct {
	vram       [0x1000]uint8
	paletteRAM [32]uint8
	cartridge  CartridgeInterface
}

// NewPPUMemory creates a PPUMemory backed by cart, with palette
// background-color slots pre-seeded black as real hardware leaves them.
func NewPPUMemory(cart CartridgeInterface) *PPUMemory {
	pm := &PPUMemory{cartridge: cart}
	for i := 0; i < 32; i += 4 {
		pm.paletteRAM[i] = 0x0F
	}
	return pm
}

// NotifyAddress forwards a PPU bus address to the cartridge so A12-edge
// driven mappers (MMC3) can clock their scanline IRQ counter.
func (pm *PPUMemory) NotifyAddress(address uint16) {
	pm.cartridge.NotifyPPUAddress(address & 0x3FFF)
}

// VRAM returns a copy of the 4KB nametable RAM, for save states.
func (pm *PPUMemory) VRAM() [0x1000]uint8 { return pm.vram }

// RestoreVRAM overwrites nametable RAM from a save state.
func (pm *PPUMemory) RestoreVRAM(vram [0x1000]uint8) { pm.vram = vram }

// Palette returns a copy of the 32-byte palette RAM, for save states.
func (pm *PPUMemory) Palette() [32]uint8 { return pm.paletteRAM }

// RestorePalette overwrites palette RAM from a save state.
func (pm *PPUMemory) RestorePalette(pal [32]uint8) { pm.paletteRAM = pal }

func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF
	pm.cartridge.NotifyPPUAddress(address)
	switch {
	case address < 0x2000:
		return pm.cartridge.ReadCHR(address)
	case address < 0x3000:
		return pm.readNametable(address)
	case address < 0x3F00:
		return pm.readNametable(address - 0x1000)
	default:
		return pm.readPalette(address)
	}
}

func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF
	pm.cartridge.NotifyPPUAddress(address)
	switch {
	case address < 0x2000:
		pm.cartridge.WriteCHR(address, value)
	case address < 0x3000:
		pm.writeNametable(address, value)
	case address < 0x3F00:
		pm.writeNametable(address-0x1000, value)
	default:
		pm.writePalette(address, value)
	}
}

func (pm *PPUMemory) readNametable(address uint16) uint8 {
	return pm.vram[pm.nametableIndex(address)]
}

func (pm *PPUMemory) writeNametable(address uint16, value uint8) {
	pm.vram[pm.nametableIndex(address)] = value
}

// nametableIndex resolves a $2000-$2FFF address to a physical VRAM offset
// per the cartridge's current mirroring mode, queried live so mapper
// writes (MMC1 control register, MMC3 mirroring bit) take effect
// immediately rather than only at cartridge-load time.
func (pm *PPUMemory) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 3
	offset := address & 0x3FF

	switch pm.cartridge.Mirroring() {
	case MirrorHorizontal:
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset
	case MirrorVertical:
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset
	case MirrorSingleScreen0:
		return offset
	case MirrorSingleScreen1:
		return 0x400 + offset
	case MirrorFourScreen:
		return nametable*0x400 + offset
	default:
		return offset
	}
}

func (pm *PPUMemory) readPalette(address uint16) uint8 {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return pm.paletteRAM[index]
}

func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	pm.paletteRAM[index] = value
}
