package cpu

// AddressingMode identifies how an instruction's operand address is formed.
type AddressingMode uint8

const (
	ModeImplied AddressingMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX // (zp,X)
	ModeIndirectY // (zp),Y
	ModeRelative
)

// resolve consumes the operand bytes this mode needs (advancing PC) and
// returns the effective address plus whether a page boundary was crossed
// while indexing on *X/*Y/(ind),Y modes. Memory-reading instructions add a
// cycle when it is set; read-modify-write and store instructions ignore it.
func (c *CPU) resolve(mode AddressingMode) (addr uint16, pageCrossed bool) {
	switch mode {
	case ModeImplied, ModeAccumulator:
		return 0, false
	case ModeImmediate:
		addr = c.PC
		c.PC++
		return addr, false
	case ModeZeroPage:
		return uint16(c.fetch()), false
	case ModeZeroPageX:
		return uint16(c.fetch() + c.X), false
	case ModeZeroPageY:
		return uint16(c.fetch() + c.Y), false
	case ModeAbsolute:
		return c.fetch16(), false
	case ModeAbsoluteX:
		base := c.fetch16()
		addr = base + uint16(c.X)
		return addr, pageCross(base, addr)
	case ModeAbsoluteY:
		base := c.fetch16()
		addr = base + uint16(c.Y)
		return addr, pageCross(base, addr)
	case ModeIndirect:
		ptr := c.fetch16()
		return c.read16Bugged(ptr), false
	case ModeIndirectX:
		zp := c.fetch() + c.X
		lo := uint16(c.read(uint16(zp)))
		hi := uint16(c.read(uint16(zp + 1)))
		return lo | hi<<8, false
	case ModeIndirectY:
		zp := c.fetch()
		lo := uint16(c.read(uint16(zp)))
		hi := uint16(c.read(uint16(zp + 1)))
		base := lo | hi<<8
		addr = base + uint16(c.Y)
		return addr, pageCross(base, addr)
	case ModeRelative:
		offset := int8(c.fetch())
		return uint16(int32(c.PC) + int32(offset)), false
	}
	return 0, false
}

func pageCross(a, b uint16) bool { return a&0xFF00 != b&0xFF00 }

// read16Bugged reproduces the famous 6502 indirect-JMP page-wrap bug: if
// the low byte of ptr is $FF, the high byte is fetched from the start of
// the same page rather than the next page.
func (c *CPU) read16Bugged(ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi := uint16(c.read(hiAddr))
	return lo | hi<<8
}
