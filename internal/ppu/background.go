package ppu

// pixel is an intermediate rendering result: a palette color index plus
// metadata needed for background/sprite priority compositing and
// sprite-zero-hit detection.
type pixel struct {
	colorIndex uint8
	opaque     bool
	isSprite0  bool
	behindBG   bool
}

func transparentPixel() pixel { return pixel{} }

// backgroundPixelAt renders the background pixel at screen column pixelX
// on the current scanline, fetching nametable/attribute/pattern bytes
// directly from the current v register rather than maintaining literal
// 2C02 shift registers.
func (p *PPU) backgroundPixelAt(pixelX int) pixel {
	fineX := (uint16(p.x) + uint16(pixelX)) & 0x07
	// Tiles before the current 8-pixel group that fineX's carry pushed us
	// into belong to the NEXT tile fetch; since v already tracks coarse X
	// per 8-pixel group (see renderDot), only the fine-X overflow within
	// the current group needs no further adjustment here.
	v := p.v

	tileAddr := 0x2000 | (v & 0x0FFF)
	nametableByte := p.mem.Read(tileAddr)

	attrAddr := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	attrByte := p.mem.Read(attrAddr)

	coarseX := v & 0x1F
	coarseY := (v >> 5) & 0x1F
	shift := uint((coarseX&0x02)>>1)*2 + uint((coarseY&0x02))*2
	paletteHigh := (attrByte >> shift) & 0x03

	fineY := (v >> 12) & 0x07
	patternBase := uint16(0)
	if p.ctrl&0x10 != 0 {
		patternBase = 0x1000
	}
	patternAddr := patternBase + uint16(nametableByte)*16 + fineY

	lowPlane := p.mem.Read(patternAddr)
	highPlane := p.mem.Read(patternAddr + 8)

	bitIndex := 7 - fineX
	lowBit := (lowPlane >> bitIndex) & 1
	highBit := (highPlane >> bitIndex) & 1
	patternValue := lowBit | (highBit << 1)

	if patternValue == 0 {
		return pixel{colorIndex: rgbPaletteIndex(0, 0), opaque: false}
	}
	colorIndex := rgbPaletteIndex(paletteHigh, patternValue)
	return pixel{colorIndex: colorIndex, opaque: true}
}

// rgbPaletteIndex resolves a palette-group (0-3) and pattern value (1-3,
// or 0 for backdrop) into a palette RAM index for backgrounds.
func rgbPaletteIndex(paletteGroup, patternValue uint8) uint8 {
	if patternValue == 0 {
		return 0
	}
	return paletteGroup*4 + patternValue
}

// composite resolves background/sprite priority for one pixel, reading
// palette RAM to get the final RGB color and recording sprite-zero-hit
// when applicable.
func (p *PPU) composite(bg, sp pixel, pixelX int) uint32 {
	if !bg.opaque && !sp.opaque {
		return rgbFor(p.readPaletteDirect(0))
	}
	if sp.opaque && sp.isSprite0 && bg.opaque && pixelX != 255 {
		p.sprite0Hit = true
		p.status |= 0x40
	}
	switch {
	case sp.opaque && (!bg.opaque || !sp.behindBG):
		return rgbFor(p.readPaletteDirect(0x10 + sp.colorIndex))
	case bg.opaque:
		return rgbFor(p.readPaletteDirect(bg.colorIndex))
	default:
		return rgbFor(p.readPaletteDirect(0))
	}
}

func (p *PPU) readPaletteDirect(index uint8) uint8 {
	if p.mem == nil {
		return 0x0F
	}
	return p.mem.Read(0x3F00 + uint16(index))
}
