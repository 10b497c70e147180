package cartridge

import (
	"io"
	"os"
)

// Cartridge owns the PRG/CHR storage and the mapper variant that
// interprets bus addresses into banks. It is created once at load time
// and lives for the program's lifetime (spec.md 3's lifecycle rule).
type Cartridge struct {
	prgROM []byte
	chrMem []byte
	prgRAM []byte

	chrIsRAM   bool
	hasBattery bool
	mapperID   uint8

	mapper Mapper

	saveDirty bool
}

// Load parses an iNES ROM image from r and builds the Cartridge, including
// constructing the mapper named by the header. All failures are fatal at
// load time per spec.md 7's error taxonomy.
func Load(r io.Reader) (*Cartridge, error) {
	header, err := parseHeader(r)
	if err != nil {
		return nil, err
	}

	mapperID := header.mapperID()

	if header.hasTrainer() {
		trainer := make([]byte, trainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, errTruncated("trainer", err)
		}
	}

	prgSize := int(header.PRGBanks) * prgBankUnit
	if prgSize == 0 {
		return nil, ErrInvalidHeader
	}
	prgROM := make([]byte, prgSize)
	if _, err := io.ReadFull(r, prgROM); err != nil {
		return nil, errTruncated("prg rom", err)
	}

	chrIsRAM := header.CHRBanks == 0
	var chrMem []byte
	if chrIsRAM {
		chrMem = make([]byte, chrBankUnit)
	} else {
		chrMem = make([]byte, int(header.CHRBanks)*chrBankUnit)
		if _, err := io.ReadFull(r, chrMem); err != nil {
			return nil, errTruncated("chr rom", err)
		}
	}

	mapper, err := newMapper(mapperID, int(header.PRGBanks), int(header.CHRBanks)*8, chrIsRAM, header.mirroring())
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		prgROM:     prgROM,
		chrMem:     chrMem,
		prgRAM:     make([]byte, prgRAMSize),
		chrIsRAM:   chrIsRAM,
		hasBattery: header.hasBattery(),
		mapperID:   mapperID,
		mapper:     mapper,
	}, nil
}

// LoadFromFile opens path and parses it as an iNES ROM image.
func LoadFromFile(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func errTruncated(what string, cause error) error {
	return &truncatedError{what: what, cause: cause}
}

type truncatedError struct {
	what  string
	cause error
}

func (e *truncatedError) Error() string {
	return "cartridge: truncated rom data reading " + e.what + ": " + e.cause.Error()
}

func (e *truncatedError) Unwrap() error { return ErrTruncatedRom }

// ReadPRG reads from CPU-visible cartridge space ($4020-$FFFF). Unmapped
// reads return 0, matching the open-bus behavior spec.md 7 calls for.
func (c *Cartridge) ReadPRG(addr uint16) uint8 {
	v, _ := c.mapper.CPUReadPRG(c.prgROM, c.prgRAM, addr)
	return v
}

// WritePRG writes to CPU-visible cartridge space. Writes that land in
// PRG-RAM set the save-dirty flag; writes to $8000-$FFFF are always
// interpreted as mapper register writes and never touch prgROM.
func (c *Cartridge) WritePRG(addr uint16, value uint8) {
	if _, ok := c.mapper.CPUWritePRG(c.prgRAM, addr, value); ok {
		c.saveDirty = true
	}
}

// ReadCHR reads from PPU pattern-table space (<$2000).
func (c *Cartridge) ReadCHR(addr uint16) uint8 {
	v, _ := c.mapper.PPUReadCHR(c.chrMem, addr)
	return v
}

// WriteCHR writes to PPU pattern-table space; only effective on CHR-RAM.
func (c *Cartridge) WriteCHR(addr uint16, value uint8) {
	if c.chrIsRAM {
		c.mapper.PPUWriteCHR(c.chrMem, addr, value)
	}
}

// NotifyPPUAddress forwards every PPU bus address to the mapper so MMC3
// can detect A12 rising edges.
func (c *Cartridge) NotifyPPUAddress(addr uint16) { c.mapper.NotifyPPUAddress(addr) }

// Tick advances mapper-internal per-cycle state (MMC1 write lockout).
func (c *Cartridge) Tick(cpuCycles uint64) { c.mapper.Tick(cpuCycles) }

// Mirroring reports the cartridge's current nametable mirroring mode.
func (c *Cartridge) Mirroring() Mirroring { return c.mapper.Mirroring() }

// IRQPending reports whether the mapper (MMC3) has a pending IRQ.
func (c *Cartridge) IRQPending() bool { return c.mapper.IRQPending() }

// AckIRQ clears the mapper's pending IRQ line.
func (c *Cartridge) AckIRQ() { c.mapper.AckIRQ() }

// BatteryDirty reports whether PRG-RAM has been written since the last
// LoadBattery/DumpBattery call.
func (c *Cartridge) BatteryDirty() bool { return c.hasBattery && c.saveDirty }

// HasBattery reports whether the header marked this cartridge battery-backed.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// DumpBattery returns a copy of the PRG-RAM image for persistence by the host.
func (c *Cartridge) DumpBattery() []byte {
	out := make([]byte, len(c.prgRAM))
	copy(out, c.prgRAM)
	c.saveDirty = false
	return out
}

// LoadBattery restores a previously-dumped PRG-RAM image.
func (c *Cartridge) LoadBattery(data []byte) {
	copy(c.prgRAM, data)
	c.saveDirty = false
}

// MapperID returns the iNES mapper number this cartridge was built from.
func (c *Cartridge) MapperID() uint8 { return c.mapperID }
