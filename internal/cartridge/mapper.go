package cartridge

// Mapper is the contract every supported cartridge variant implements. It
// follows spec.md 4.5's operation table: CPU/PPU reads and writes return
// optional mapped offsets (ok=false means "not handled here, fall through
// to open-bus / RAM"), and mirroring/tick/irq round out the bank-switching
// state machine.
//
// Implementations never own the underlying PRG/CHR/RAM byte slices — those
// live on the Cartridge — so a Mapper only ever computes offsets into them.
// This keeps the hot PPU/CPU read paths free of interface dispatch beyond
// a single call into the Mapper itself (spec.md 9's "avoids dynamic dispatch
// on the hot path" is honored one level up, at the Cartridge boundary).
type Mapper interface {
	// CPUReadPRG resolves a CPU-space address ($4020-$FFFF) to a byte from
	// prgROM/prgRAM, or ok=false if nothing is mapped there.
	CPUReadPRG(prgROM, prgRAM []byte, addr uint16) (value uint8, ok bool)

	// CPUWritePRG handles a CPU-space write. If it lands in PRG-RAM, the
	// mapper stores the value and returns its offset with ok=true so the
	// caller can set the save-dirty flag; writes absorbed as mapper register writes
	// return ok=false after mutating mapper state as a side effect.
	CPUWritePRG(prgRAM []byte, addr uint16, value uint8) (offset int, ok bool)

	// PPUReadCHR resolves a PPU address (<$2000) to a byte from chrMem.
	PPUReadCHR(chrMem []byte, addr uint16) (value uint8, ok bool)

	// PPUWriteCHR writes to CHR-RAM if present; no-op on CHR-ROM.
	PPUWriteCHR(chrMem []byte, addr uint16, value uint8)

	// Mirroring reports the current nametable mirroring mode.
	Mirroring() Mirroring

	// Tick advances mapper-internal cycle-gated state (MMC1's shift
	// register write lockout) by the given number of CPU cycles.
	Tick(cpuCycles uint64)

	// NotifyPPUAddress is called on every PPU bus address change and is
	// used by MMC3 to detect A12 rising edges for its scanline IRQ.
	NotifyPPUAddress(addr uint16)

	// IRQPending reports whether the mapper has raised an IRQ line.
	IRQPending() bool

	// AckIRQ clears a pending mapper IRQ line.
	AckIRQ()
}

// baseMapper provides the "default set of no-ops" spec.md 9 calls for, so
// each concrete mapper only overrides what it actually uses.
type baseMapper struct {
	mirroring Mirroring
}

func (b *baseMapper) Mirroring() Mirroring         { return b.mirroring }
func (b *baseMapper) Tick(uint64)                  {}
func (b *baseMapper) NotifyPPUAddress(uint16)       {}
func (b *baseMapper) IRQPending() bool              { return false }
func (b *baseMapper) AckIRQ()                       {}

func newMapper(id uint8, prgBanks, chrBanks int, chrIsRAM bool, mirror Mirroring) (Mapper, error) {
	switch id {
	case 0:
		return newMapper0(mirror), nil
	case 1:
		return newMapper1(prgBanks, mirror), nil
	case 2:
		return newMapper2(prgBanks, mirror), nil
	case 3:
		return newMapper3(mirror), nil
	case 4:
		return newMapper4(prgBanks*2, chrBanks, chrIsRAM, mirror), nil
	default:
		return nil, ErrUnsupportedMapper
	}
}
