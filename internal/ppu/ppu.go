// Package ppu implements the NES Picture Processing Unit (2C02): the
// 341-dot x 262-scanline NTSC timing grid, the v/t/x/w "loopy" scroll
// registers, background and sprite rendering, and the register file the
// CPU sees at $2000-$2007.
package ppu

import "gones/internal/memory"

// PPU is the 2C02. Memory is injected after cartridge load via SetMemory
// since the cartridge (and its mirroring) isn't known at construction.
type PPU struct {
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002
	oamAddr uint8 // $2003

	v uint16 // current VRAM address (loopy v)
	t uint16 // temporary VRAM address (loopy t)
	x uint8  // fine X scroll
	w bool   // write-toggle latch

	readBuffer uint8 // buffered $2007 read

	oam         [256]uint8
	spriteSlots [8]spriteSlot
	spriteCount int

	scanline int // -1 (pre-render) .. 260
	cycle    int // 0..340
	frameCount uint64
	oddFrame   bool

	sprite0Hit     bool
	spriteOverflow bool

	backgroundEnabled bool
	spritesEnabled    bool

	frameBuffer [256 * 240]uint32

	mem *memory.PPUMemory

	nmiCallback           func()
	frameCompleteCallback func()

	cycleCount uint64
}

// New creates a PPU at the pre-render scanline, powered up but with no
// memory attached yet.
func New() *PPU {
	return &PPU{scanline: -1}
}

// Reset returns the PPU to its power-up state.
func (p *PPU) Reset() {
	*p = PPU{
		scanline: -1,
		mem:      p.mem,
		nmiCallback:           p.nmiCallback,
		frameCompleteCallback: p.frameCompleteCallback,
	}
	p.status = 0xA0
}

func (p *PPU) SetMemory(mem *memory.PPUMemory)      { p.mem = mem }
func (p *PPU) Memory() *memory.PPUMemory            { return p.mem }
func (p *PPU) SetNMICallback(cb func())             { p.nmiCallback = cb }
func (p *PPU) SetFrameCompleteCallback(cb func())   { p.frameCompleteCallback = cb }
func (p *PPU) SetFrameCount(n uint64)               { p.frameCount = n }
func (p *PPU) GetFrameCount() uint64                { return p.frameCount }
func (p *PPU) GetScanline() int                     { return p.scanline }
func (p *PPU) GetCycle() int                        { return p.cycle }
func (p *PPU) GetCycleCount() uint64                { return p.cycleCount }
func (p *PPU) IsRenderingEnabled() bool             { return p.backgroundEnabled || p.spritesEnabled }
func (p *PPU) IsVBlank() bool                       { return p.status&0x80 != 0 }

// GetFrameBuffer returns the 256x240 RGB frame buffer for the most
// recently completed (or in-progress) frame.
func (p *PPU) GetFrameBuffer() [256 * 240]uint32 { return p.frameBuffer }

// WriteOAM writes directly into OAM, used by the bus's OAM DMA.
func (p *PPU) WriteOAM(address uint8, value uint8) { p.oam[address] = value }

// OAM returns a copy of the 256-byte sprite attribute table, for save states.
func (p *PPU) OAM() [256]uint8 { return p.oam }

// Registers returns the register and loopy-address state needed to restore
// a PPU snapshot: ctrl, mask, status, oamAddr, v, t, x, w.
func (p *PPU) Registers() (ctrl, mask, status, oamAddr uint8, v, t uint16, x uint8, w bool) {
	return p.ctrl, p.mask, p.status, p.oamAddr, p.v, p.t, p.x, p.w
}

// Restore overwrites the PPU's register/loopy state and OAM contents, used
// when loading a save state. The current scanline and dot are left as they are.
func (p *PPU) Restore(ctrl, mask, status, oamAddr uint8, v, t uint16, x uint8, w bool, oam [256]uint8) {
	p.ctrl, p.mask, p.status, p.oamAddr = ctrl, mask, status, oamAddr
	p.v, p.t, p.x, p.w = v, t, x, w
	p.oam = oam
	p.backgroundEnabled = mask&0x08 != 0
	p.spritesEnabled = mask&0x10 != 0
}

// ReadRegister handles a CPU read of $2000-$2007 (already demapped from
// its $2000-$3FFF mirror by the caller).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		status := p.status
		p.status &= 0x7F // clear VBL; sprite-0-hit/overflow persist until next frame's clear
		p.w = false
		return status
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readPPUData()
	default: // write-only registers return open bus in the low 5 bits
		return p.status & 0x1F
	}
}

// WriteRegister handles a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		prevNMIEnable := p.ctrl&0x80 != 0
		p.ctrl = value
		p.t = (p.t & 0xF3FF) | ((uint16(value) & 0x03) << 10)
		// Enabling NMI generation while VBlank is already active fires
		// immediately (real hardware re-evaluates the AND gate every cycle).
		if !prevNMIEnable && value&0x80 != 0 && p.status&0x80 != 0 {
			p.fireNMI()
		}
	case 0x2001:
		p.mask = value
		p.backgroundEnabled = value&0x08 != 0
		p.spritesEnabled = value&0x10 != 0
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		if !p.w {
			p.t = (p.t & 0xFFE0) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t & 0x8FFF) | (uint16(value&0x07) << 12)
			p.t = (p.t & 0xFC1F) | (uint16(value&0xF8) << 2)
		}
		p.w = !p.w
	case 0x2006:
		if !p.w {
			p.t = (p.t & 0x80FF) | (uint16(value&0x3F) << 8)
		} else {
			p.t = (p.t & 0xFF00) | uint16(value)
			p.v = p.t
			if p.mem != nil {
				p.mem.NotifyAddress(p.v)
			}
		}
		p.w = !p.w
	case 0x2007:
		p.writePPUData(value)
	}
}

func (p *PPU) fireNMI() {
	if p.nmiCallback != nil {
		p.nmiCallback()
	}
}

func (p *PPU) readPPUData() uint8 {
	var data uint8
	if p.mem != nil {
		if p.v >= 0x3F00 {
			data = p.mem.Read(p.v)
			p.readBuffer = p.mem.Read(p.v & 0x2FFF)
		} else {
			data = p.readBuffer
			p.readBuffer = p.mem.Read(p.v)
		}
	}
	p.advanceVRAMAddr()
	return data
}

func (p *PPU) writePPUData(value uint8) {
	if p.mem != nil {
		p.mem.Write(p.v, value)
	}
	p.advanceVRAMAddr()
}

func (p *PPU) advanceVRAMAddr() {
	if p.ctrl&0x04 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x3FFF
	if p.mem != nil {
		p.mem.NotifyAddress(p.v)
	}
}

// Step advances the PPU by exactly one dot, per the 341x262 NTSC grid.
func (p *PPU) Step() {
	p.cycleCount++
	renderingOn := p.backgroundEnabled || p.spritesEnabled

	if p.scanline == -1 && p.cycle == 339 && p.oddFrame && renderingOn {
		// Odd-frame skip: the idle dot 339 is omitted on rendering-enabled
		// odd frames, shortening the pre-render line by one dot.
		p.cycle = 340
	}

	if p.scanline >= -1 && p.scanline < 240 {
		p.renderDot()
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback()
			}
		}
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.status |= 0x80
		if p.ctrl&0x80 != 0 {
			p.fireNMI()
		}
	}
	if p.scanline == -1 && p.cycle == 1 {
		p.status &^= 0xE0 // clear VBlank, sprite-0-hit, sprite-overflow
		p.sprite0Hit = false
		p.spriteOverflow = false
	}
}

// renderDot performs the scroll-register bookkeeping and, on visible
// scanlines, renders one pixel. The per-pixel fetch reads the nametable/
// attribute/pattern tables directly from the current v register rather
// than maintaining literal shift registers — the v register is advanced
// at the authentic dots, so horizontal and vertical mid-frame scroll
// splits still take effect at the right pixel.
func (p *PPU) renderDot() {
	renderingOn := p.backgroundEnabled || p.spritesEnabled

	// Plot using the v register as it stands for this dot's tile group,
	// then advance it — mirrors the hardware order where the increment at
	// the end of an 8-pixel group prepares the NEXT group's fetch rather
	// than affecting the pixel just drawn.
	if p.scanline >= 0 && p.cycle >= 1 && p.cycle <= 256 && p.mem != nil {
		pixelX := p.cycle - 1
		pixelY := p.scanline

		bg := transparentPixel()
		if p.backgroundEnabled {
			bg = p.backgroundPixelAt(pixelX)
		}
		sp := transparentPixel()
		if p.spritesEnabled {
			sp = p.spritePixelAt(pixelX, pixelY)
		}

		p.frameBuffer[pixelY*256+pixelX] = p.composite(bg, sp, pixelX)
	}

	if renderingOn {
		if p.cycle >= 1 && p.cycle <= 256 && p.cycle%8 == 0 {
			p.incrementCoarseX()
		}
		if p.cycle == 256 {
			p.incrementY()
		}
		if p.cycle == 257 {
			p.copyX()
			if p.scanline >= 0 {
				p.evaluateSprites(p.scanline)
			}
		}
		if p.scanline == -1 && p.cycle >= 280 && p.cycle <= 304 {
			p.copyY()
		}
		if p.cycle >= 321 && p.cycle <= 336 && p.cycle%8 == 0 {
			p.incrementCoarseX()
		}
	}
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyX() { p.v = (p.v & 0xFBE0) | (p.t & 0x041F) }
func (p *PPU) copyY() { p.v = (p.v & 0x841F) | (p.t & 0x7BE0) }
