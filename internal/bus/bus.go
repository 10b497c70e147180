// Package bus wires the CPU, PPU, APU, cartridge, and controllers
// together into a single runnable NES system, and exposes the host-facing
// API frontends (cmd/gones, internal/app) drive.
package bus

import (
	"io"

	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// cartAdapter satisfies memory.CartridgeInterface on top of
// *cartridge.Cartridge: every method is promoted by embedding except
// Mirroring, whose return type (cartridge.Mirroring) is a distinct named
// type from memory.MirrorMode even though the two enums share the same
// underlying values and ordering.
type cartAdapter struct {
	*cartridge.Cartridge
}

func (a cartAdapter) Mirroring() memory.MirrorMode {
	return memory.MirrorMode(a.Cartridge.Mirroring())
}

// Bus is the NES system bus: it owns every component and drives the
// CPU/PPU/APU clock relationship (1 CPU cycle : 3 PPU cycles : 1 APU cycle).
type Bus struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	APU    *apu.APU
	Memory *memory.Memory
	Input  *input.Pair

	cart *cartridge.Cartridge

	cpuCycles  uint64
	frameCount uint64
}

// New creates a Bus with no cartridge loaded; Load must be called before
// StepFrame will do anything useful.
func New() *Bus {
	b := &Bus{
		PPU:   ppu.New(),
		APU:   apu.New(),
		Input: input.NewPair(),
	}
	b.Memory = memory.New(b.PPU, b.APU, noCartridge{})
	b.Memory.SetInputSystem(b.Input)
	b.CPU = cpu.New(b.Memory)
	b.wireCallbacks()
	b.Reset()
	return b
}

func (b *Bus) wireCallbacks() {
	b.PPU.SetNMICallback(func() { b.CPU.SetNMILine() })
	b.PPU.SetFrameCompleteCallback(func() { b.frameCount = b.PPU.GetFrameCount() })
	b.Memory.SetDMACallback(b.runOAMDMA)
}

// Reset returns every component to its power-up state without unloading
// the cartridge.
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
	b.cpuCycles = 0
	b.frameCount = 0
	b.PPU.SetFrameCount(0)
}

// Load parses an iNES ROM image and wires it into the bus, replacing any
// previously loaded cartridge.
func (b *Bus) Load(r io.Reader) error {
	cart, err := cartridge.Load(r)
	if err != nil {
		return err
	}
	b.LoadCartridge(cart)
	return nil
}

// LoadCartridge wires an already-parsed cartridge into the bus, replacing
// any previously loaded one. Useful when the caller needs the *Cartridge
// itself (e.g. to track its file path) alongside the bus.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart

	adapter := cartAdapter{cart}
	b.Memory = memory.New(b.PPU, b.APU, adapter)
	b.Memory.SetInputSystem(b.Input)
	b.CPU = cpu.New(b.Memory)
	b.PPU.SetMemory(memory.NewPPUMemory(adapter))
	b.wireCallbacks()
	b.Reset()
}

// LoadBattery restores a previously dumped PRG-RAM save image.
func (b *Bus) LoadBattery(data []byte) {
	if b.cart != nil {
		b.cart.LoadBattery(data)
	}
}

// DumpBattery returns the current PRG-RAM image for persistence, or nil
// if no battery-backed cartridge is loaded.
func (b *Bus) DumpBattery() []byte {
	if b.cart == nil || !b.cart.HasBattery() {
		return nil
	}
	return b.cart.DumpBattery()
}

// BatteryDirty reports whether PRG-RAM has changed since the last dump.
func (b *Bus) BatteryDirty() bool {
	return b.cart != nil && b.cart.BatteryDirty()
}

// SetButton updates one button on controller 1 or 2 (1-indexed, matching
// the two physical front-panel ports).
func (b *Bus) SetButton(controller int, button input.Button, pressed bool) {
	switch controller {
	case 1:
		b.Input.P1.SetButton(button, pressed)
	case 2:
		b.Input.P2.SetButton(button, pressed)
	}
}

// SetButtons updates all eight buttons on one controller at once, in
// A/B/Select/Start/Up/Down/Left/Right order.
func (b *Bus) SetButtons(controller int, pressed [8]bool) {
	switch controller {
	case 1:
		b.Input.P1.SetButtons(pressed)
	case 2:
		b.Input.P2.SetButtons(pressed)
	}
}

// StepFrame runs the system until the PPU completes one frame.
func (b *Bus) StepFrame() {
	target := b.PPU.GetFrameCount() + 1
	for b.PPU.GetFrameCount() < target {
		b.step()
	}
}

// StepInstruction executes exactly one CPU instruction (or one cycle of
// a pending DMA stall), for callers that need per-instruction granularity
// such as the -trace flag's nestest-style trace log.
func (b *Bus) StepInstruction() {
	b.step()
}

// Framebuffer returns the 256x240 RGB frame most recently completed.
func (b *Bus) Framebuffer() [256 * 240]uint32 {
	return b.PPU.GetFrameBuffer()
}

// PullAudio drains and returns all audio samples generated so far.
func (b *Bus) PullAudio() []float32 {
	return b.APU.GetSamples()
}

// step executes exactly one CPU instruction (or one cycle of DMA stall)
// and advances the PPU/APU/mapper in lockstep.
func (b *Bus) step() {
	b.runDMCDMA()

	if b.cart != nil && b.cart.IRQPending() {
		b.CPU.SetIRQLine(true)
	} else if b.APU.GetFrameIRQ() || b.APU.GetDMCIRQ() {
		b.CPU.SetIRQLine(true)
	} else {
		b.CPU.SetIRQLine(false)
	}

	cycles := b.CPU.Tick()

	for i := uint64(0); i < cycles*3; i++ {
		b.PPU.Step()
	}
	for i := uint64(0); i < cycles; i++ {
		b.APU.Step()
	}
	if b.cart != nil {
		b.cart.Tick(cycles)
	}

	b.cpuCycles += cycles
}

// runOAMDMA performs the 256-byte OAM copy and charges the CPU the
// 513/514-cycle stall real hardware incurs, depending on whether DMA
// starts on an even or odd CPU cycle.
func (b *Bus) runOAMDMA(sourcePage uint8) {
	stallCycles := uint64(513)
	if b.cpuCycles%2 == 1 {
		stallCycles = 514
	}
	b.CPU.Stall(stallCycles)

	base := uint16(sourcePage) << 8
	for i := 0; i < 256; i++ {
		b.PPU.WriteOAM(uint8(i), b.Memory.Read(base+uint16(i)))
	}
}

// runDMCDMA services a pending DMC sample-byte fetch: it reads the byte
// off the CPU bus and hands it back to the APU, then charges the CPU a
// 3-or-4-cycle stall for the stolen bus cycle, mirroring in spirit the
// larger stall OAM DMA charges.
func (b *Bus) runDMCDMA() {
	if !b.APU.DMCWantsFetch() {
		return
	}

	value := b.Memory.Read(b.APU.DMCFetchAddress())
	b.APU.CompleteDMCFetch(value)

	stallCycles := uint64(4)
	if b.cpuCycles%2 == 1 {
		stallCycles = 3
	}
	b.CPU.Stall(stallCycles)
}

// noCartridge is the Bus's placeholder cartridge before Load is called;
// every access behaves as unmapped open bus.
type noCartridge struct{}

func (noCartridge) ReadPRG(uint16) uint8          { return 0 }
func (noCartridge) WritePRG(uint16, uint8)        {}
func (noCartridge) ReadCHR(uint16) uint8          { return 0 }
func (noCartridge) WriteCHR(uint16, uint8)        {}
func (noCartridge) Mirroring() memory.MirrorMode  { return memory.MirrorHorizontal }
func (noCartridge) NotifyPPUAddress(uint16)       {}
