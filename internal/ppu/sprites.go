package ppu

// spriteSlot is one entry of secondary OAM after evaluation: enough to
// render the sprite's row without re-reading primary OAM per pixel.
type spriteSlot struct {
	x         uint8
	lowPlane  uint8
	highPlane uint8
	attrs     uint8
	isSprite0 bool
}

// evaluateSprites scans primary OAM for sprites visible on the given
// scanline (evaluated at dot 257 for the NEXT scanline's row, same as
// hardware, though this implementation performs the full scan in one
// step rather than across dots 65-256/257-320).
func (p *PPU) evaluateSprites(scanline int) {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}

	count := 0
	for i := 0; i < 64; i++ {
		oamY := p.oam[i*4]
		row := scanline - int(oamY)
		if row < 0 || row >= height {
			continue
		}
		if count == 8 {
			p.spriteOverflow = true
			p.status |= 0x20
			break
		}

		tile := p.oam[i*4+1]
		attrs := p.oam[i*4+2]
		x := p.oam[i*4+3]

		if attrs&0x80 != 0 { // flip vertical
			row = height - 1 - row
		}

		var patternAddr uint16
		if height == 16 {
			table := uint16(tile&1) * 0x1000
			tileIndex := uint16(tile &^ 1)
			if row >= 8 {
				tileIndex++
				row -= 8
			}
			patternAddr = table + tileIndex*16 + uint16(row)
		} else {
			table := uint16(0)
			if p.ctrl&0x08 != 0 {
				table = 0x1000
			}
			patternAddr = table + uint16(tile)*16 + uint16(row)
		}

		low := p.mem.Read(patternAddr)
		high := p.mem.Read(patternAddr + 8)
		if attrs&0x40 != 0 { // flip horizontal
			low = reverseBits(low)
			high = reverseBits(high)
		}

		p.spriteSlots[count] = spriteSlot{
			x:         x,
			lowPlane:  low,
			highPlane: high,
			attrs:     attrs,
			isSprite0: i == 0,
		}
		count++
	}

	p.spriteCount = count
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spritePixelAt returns the first (highest-priority) opaque sprite pixel
// covering screen column pixelX, or a transparent pixel if none.
func (p *PPU) spritePixelAt(pixelX, pixelY int) pixel {
	for i := 0; i < p.spriteCount; i++ {
		s := p.spriteSlots[i]
		offset := pixelX - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		bitIndex := uint(7 - offset)
		lowBit := (s.lowPlane >> bitIndex) & 1
		highBit := (s.highPlane >> bitIndex) & 1
		value := lowBit | (highBit << 1)
		if value == 0 {
			continue
		}
		paletteGroup := s.attrs & 0x03
		return pixel{
			colorIndex: paletteGroup*4 + value,
			opaque:     true,
			isSprite0:  s.isSprite0,
			behindBG:   s.attrs&0x20 != 0,
		}
	}
	return transparentPixel()
}
