package cpu

// step fetches and executes exactly one instruction, returning the cycle
// cost including any addressing-mode page-cross penalty and any taken-
// branch penalty. The dispatch is a flat switch over the opcode byte
// rather than a function-pointer table: the NES's documented opcodes plus
// the handful of undocumented ones real cartridges rely on (SLO, RLA,
// SRE, RRA, SAX, LAX, DCP, ISC, ANC, ALR, ARR, AXS, LAS, and the
// multi-byte NOPs) all fit comfortably in one table.
func (c *CPU) step() uint64 {
	op := c.fetch()
	c.opcode = op

	switch op {
	// ---- load/store ----
	case 0xA9:
		return c.ld(&c.A, ModeImmediate, 2, false)
	case 0xA5:
		return c.ld(&c.A, ModeZeroPage, 3, false)
	case 0xB5:
		return c.ld(&c.A, ModeZeroPageX, 4, false)
	case 0xAD:
		return c.ld(&c.A, ModeAbsolute, 4, false)
	case 0xBD:
		return c.ld(&c.A, ModeAbsoluteX, 4, true)
	case 0xB9:
		return c.ld(&c.A, ModeAbsoluteY, 4, true)
	case 0xA1:
		return c.ld(&c.A, ModeIndirectX, 6, false)
	case 0xB1:
		return c.ld(&c.A, ModeIndirectY, 5, true)

	case 0xA2:
		return c.ld(&c.X, ModeImmediate, 2, false)
	case 0xA6:
		return c.ld(&c.X, ModeZeroPage, 3, false)
	case 0xB6:
		return c.ld(&c.X, ModeZeroPageY, 4, false)
	case 0xAE:
		return c.ld(&c.X, ModeAbsolute, 4, false)
	case 0xBE:
		return c.ld(&c.X, ModeAbsoluteY, 4, true)

	case 0xA0:
		return c.ld(&c.Y, ModeImmediate, 2, false)
	case 0xA4:
		return c.ld(&c.Y, ModeZeroPage, 3, false)
	case 0xB4:
		return c.ld(&c.Y, ModeZeroPageX, 4, false)
	case 0xAC:
		return c.ld(&c.Y, ModeAbsolute, 4, false)
	case 0xBC:
		return c.ld(&c.Y, ModeAbsoluteX, 4, true)

	case 0x85:
		return c.st(c.A, ModeZeroPage, 3)
	case 0x95:
		return c.st(c.A, ModeZeroPageX, 4)
	case 0x8D:
		return c.st(c.A, ModeAbsolute, 4)
	case 0x9D:
		return c.st(c.A, ModeAbsoluteX, 5)
	case 0x99:
		return c.st(c.A, ModeAbsoluteY, 5)
	case 0x81:
		return c.st(c.A, ModeIndirectX, 6)
	case 0x91:
		return c.st(c.A, ModeIndirectY, 6)

	case 0x86:
		return c.st(c.X, ModeZeroPage, 3)
	case 0x96:
		return c.st(c.X, ModeZeroPageY, 4)
	case 0x8E:
		return c.st(c.X, ModeAbsolute, 4)

	case 0x84:
		return c.st(c.Y, ModeZeroPage, 3)
	case 0x94:
		return c.st(c.Y, ModeZeroPageX, 4)
	case 0x8C:
		return c.st(c.Y, ModeAbsolute, 4)

	// ---- transfers ----
	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
		return 2
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
		return 2
	case 0x8A:
		c.A = c.X
		c.setZN(c.A)
		return 2
	case 0x98:
		c.A = c.Y
		c.setZN(c.A)
		return 2
	case 0xBA:
		c.X = c.SP
		c.setZN(c.X)
		return 2
	case 0x9A:
		c.SP = c.X
		return 2

	// ---- stack ----
	case 0x48:
		c.push(c.A)
		return 3
	case 0x68:
		c.A = c.pop()
		c.setZN(c.A)
		return 4
	case 0x08:
		c.push(c.P | FlagB | FlagU)
		return 3
	case 0x28:
		c.P = (c.pop() &^ FlagB) | FlagU
		return 4

	// ---- arithmetic ----
	case 0x69:
		return c.adc(ModeImmediate, 2, false)
	case 0x65:
		return c.adc(ModeZeroPage, 3, false)
	case 0x75:
		return c.adc(ModeZeroPageX, 4, false)
	case 0x6D:
		return c.adc(ModeAbsolute, 4, false)
	case 0x7D:
		return c.adc(ModeAbsoluteX, 4, true)
	case 0x79:
		return c.adc(ModeAbsoluteY, 4, true)
	case 0x61:
		return c.adc(ModeIndirectX, 6, false)
	case 0x71:
		return c.adc(ModeIndirectY, 5, true)

	case 0xE9, 0xEB: // SBC, plus the illegal duplicate opcode $EB
		return c.sbc(ModeImmediate, 2, false)
	case 0xE5:
		return c.sbc(ModeZeroPage, 3, false)
	case 0xF5:
		return c.sbc(ModeZeroPageX, 4, false)
	case 0xED:
		return c.sbc(ModeAbsolute, 4, false)
	case 0xFD:
		return c.sbc(ModeAbsoluteX, 4, true)
	case 0xF9:
		return c.sbc(ModeAbsoluteY, 4, true)
	case 0xE1:
		return c.sbc(ModeIndirectX, 6, false)
	case 0xF1:
		return c.sbc(ModeIndirectY, 5, true)

	// ---- logic ----
	case 0x29:
		return c.logic(ModeImmediate, 2, false, func(a, v uint8) uint8 { return a & v })
	case 0x25:
		return c.logic(ModeZeroPage, 3, false, func(a, v uint8) uint8 { return a & v })
	case 0x35:
		return c.logic(ModeZeroPageX, 4, false, func(a, v uint8) uint8 { return a & v })
	case 0x2D:
		return c.logic(ModeAbsolute, 4, false, func(a, v uint8) uint8 { return a & v })
	case 0x3D:
		return c.logic(ModeAbsoluteX, 4, true, func(a, v uint8) uint8 { return a & v })
	case 0x39:
		return c.logic(ModeAbsoluteY, 4, true, func(a, v uint8) uint8 { return a & v })
	case 0x21:
		return c.logic(ModeIndirectX, 6, false, func(a, v uint8) uint8 { return a & v })
	case 0x31:
		return c.logic(ModeIndirectY, 5, true, func(a, v uint8) uint8 { return a & v })

	case 0x09:
		return c.logic(ModeImmediate, 2, false, func(a, v uint8) uint8 { return a | v })
	case 0x05:
		return c.logic(ModeZeroPage, 3, false, func(a, v uint8) uint8 { return a | v })
	case 0x15:
		return c.logic(ModeZeroPageX, 4, false, func(a, v uint8) uint8 { return a | v })
	case 0x0D:
		return c.logic(ModeAbsolute, 4, false, func(a, v uint8) uint8 { return a | v })
	case 0x1D:
		return c.logic(ModeAbsoluteX, 4, true, func(a, v uint8) uint8 { return a | v })
	case 0x19:
		return c.logic(ModeAbsoluteY, 4, true, func(a, v uint8) uint8 { return a | v })
	case 0x01:
		return c.logic(ModeIndirectX, 6, false, func(a, v uint8) uint8 { return a | v })
	case 0x11:
		return c.logic(ModeIndirectY, 5, true, func(a, v uint8) uint8 { return a | v })

	case 0x49:
		return c.logic(ModeImmediate, 2, false, func(a, v uint8) uint8 { return a ^ v })
	case 0x45:
		return c.logic(ModeZeroPage, 3, false, func(a, v uint8) uint8 { return a ^ v })
	case 0x55:
		return c.logic(ModeZeroPageX, 4, false, func(a, v uint8) uint8 { return a ^ v })
	case 0x4D:
		return c.logic(ModeAbsolute, 4, false, func(a, v uint8) uint8 { return a ^ v })
	case 0x5D:
		return c.logic(ModeAbsoluteX, 4, true, func(a, v uint8) uint8 { return a ^ v })
	case 0x59:
		return c.logic(ModeAbsoluteY, 4, true, func(a, v uint8) uint8 { return a ^ v })
	case 0x41:
		return c.logic(ModeIndirectX, 6, false, func(a, v uint8) uint8 { return a ^ v })
	case 0x51:
		return c.logic(ModeIndirectY, 5, true, func(a, v uint8) uint8 { return a ^ v })

	// ---- compare ----
	case 0xC9:
		return c.cmp(c.A, ModeImmediate, 2, false)
	case 0xC5:
		return c.cmp(c.A, ModeZeroPage, 3, false)
	case 0xD5:
		return c.cmp(c.A, ModeZeroPageX, 4, false)
	case 0xCD:
		return c.cmp(c.A, ModeAbsolute, 4, false)
	case 0xDD:
		return c.cmp(c.A, ModeAbsoluteX, 4, true)
	case 0xD9:
		return c.cmp(c.A, ModeAbsoluteY, 4, true)
	case 0xC1:
		return c.cmp(c.A, ModeIndirectX, 6, false)
	case 0xD1:
		return c.cmp(c.A, ModeIndirectY, 5, true)

	case 0xE0:
		return c.cmp(c.X, ModeImmediate, 2, false)
	case 0xE4:
		return c.cmp(c.X, ModeZeroPage, 3, false)
	case 0xEC:
		return c.cmp(c.X, ModeAbsolute, 4, false)

	case 0xC0:
		return c.cmp(c.Y, ModeImmediate, 2, false)
	case 0xC4:
		return c.cmp(c.Y, ModeZeroPage, 3, false)
	case 0xCC:
		return c.cmp(c.Y, ModeAbsolute, 4, false)

	// ---- bit ----
	case 0x24:
		return c.bit(ModeZeroPage, 3)
	case 0x2C:
		return c.bit(ModeAbsolute, 4)

	// ---- inc/dec memory ----
	case 0xE6:
		return c.incDecMem(ModeZeroPage, 5, 1)
	case 0xF6:
		return c.incDecMem(ModeZeroPageX, 6, 1)
	case 0xEE:
		return c.incDecMem(ModeAbsolute, 6, 1)
	case 0xFE:
		return c.incDecMem(ModeAbsoluteX, 7, 1)
	case 0xC6:
		return c.incDecMem(ModeZeroPage, 5, -1)
	case 0xD6:
		return c.incDecMem(ModeZeroPageX, 6, -1)
	case 0xCE:
		return c.incDecMem(ModeAbsolute, 6, -1)
	case 0xDE:
		return c.incDecMem(ModeAbsoluteX, 7, -1)

	case 0xE8:
		c.X++
		c.setZN(c.X)
		return 2
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
		return 2
	case 0xCA:
		c.X--
		c.setZN(c.X)
		return 2
	case 0x88:
		c.Y--
		c.setZN(c.Y)
		return 2

	// ---- shifts/rotates ----
	case 0x0A:
		c.A = c.asl(c.A)
		return 2
	case 0x06:
		return c.rmw(ModeZeroPage, 5, c.asl)
	case 0x16:
		return c.rmw(ModeZeroPageX, 6, c.asl)
	case 0x0E:
		return c.rmw(ModeAbsolute, 6, c.asl)
	case 0x1E:
		return c.rmw(ModeAbsoluteX, 7, c.asl)

	case 0x4A:
		c.A = c.lsr(c.A)
		return 2
	case 0x46:
		return c.rmw(ModeZeroPage, 5, c.lsr)
	case 0x56:
		return c.rmw(ModeZeroPageX, 6, c.lsr)
	case 0x4E:
		return c.rmw(ModeAbsolute, 6, c.lsr)
	case 0x5E:
		return c.rmw(ModeAbsoluteX, 7, c.lsr)

	case 0x2A:
		c.A = c.rol(c.A)
		return 2
	case 0x26:
		return c.rmw(ModeZeroPage, 5, c.rol)
	case 0x36:
		return c.rmw(ModeZeroPageX, 6, c.rol)
	case 0x2E:
		return c.rmw(ModeAbsolute, 6, c.rol)
	case 0x3E:
		return c.rmw(ModeAbsoluteX, 7, c.rol)

	case 0x6A:
		c.A = c.ror(c.A)
		return 2
	case 0x66:
		return c.rmw(ModeZeroPage, 5, c.ror)
	case 0x76:
		return c.rmw(ModeZeroPageX, 6, c.ror)
	case 0x6E:
		return c.rmw(ModeAbsolute, 6, c.ror)
	case 0x7E:
		return c.rmw(ModeAbsoluteX, 7, c.ror)

	// ---- control flow ----
	case 0x4C:
		addr, _ := c.resolve(ModeAbsolute)
		c.PC = addr
		return 3
	case 0x6C:
		addr, _ := c.resolve(ModeIndirect)
		c.PC = addr
		return 5
	case 0x20:
		addr, _ := c.resolve(ModeAbsolute)
		c.push16(c.PC - 1)
		c.PC = addr
		return 6
	case 0x60:
		c.PC = c.pop16() + 1
		return 6
	case 0x00:
		c.PC++ // BRK's operand byte is skipped even though unused
		c.serviceInterrupt(irqVector, true)
		return 7
	case 0x40:
		c.P = (c.pop() &^ FlagB) | FlagU
		c.PC = c.pop16()
		return 6

	// ---- branches ----
	case 0x90:
		return c.branch(!c.flag(FlagC))
	case 0xB0:
		return c.branch(c.flag(FlagC))
	case 0xF0:
		return c.branch(c.flag(FlagZ))
	case 0xD0:
		return c.branch(!c.flag(FlagZ))
	case 0x30:
		return c.branch(c.flag(FlagN))
	case 0x10:
		return c.branch(!c.flag(FlagN))
	case 0x50:
		return c.branch(!c.flag(FlagV))
	case 0x70:
		return c.branch(c.flag(FlagV))

	// ---- flag ops ----
	case 0x18:
		c.setFlag(FlagC, false)
		return 2
	case 0x38:
		c.setFlag(FlagC, true)
		return 2
	case 0x58:
		c.setFlag(FlagI, false)
		return 2
	case 0x78:
		c.setFlag(FlagI, true)
		return 2
	case 0xB8:
		c.setFlag(FlagV, false)
		return 2
	case 0xD8:
		c.setFlag(FlagD, false)
		return 2
	case 0xF8:
		c.setFlag(FlagD, true)
		return 2

	case 0xEA:
		return 2

	// ---- undocumented: SLO (ASL then ORA) ----
	case 0x07:
		return c.rmwCombine(ModeZeroPage, 5, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case 0x17:
		return c.rmwCombine(ModeZeroPageX, 6, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case 0x0F:
		return c.rmwCombine(ModeAbsolute, 6, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case 0x1F:
		return c.rmwCombine(ModeAbsoluteX, 7, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case 0x1B:
		return c.rmwCombine(ModeAbsoluteY, 7, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case 0x03:
		return c.rmwCombine(ModeIndirectX, 8, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case 0x13:
		return c.rmwCombine(ModeIndirectY, 8, c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })

	// ---- undocumented: RLA (ROL then AND) ----
	case 0x27:
		return c.rmwCombine(ModeZeroPage, 5, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case 0x37:
		return c.rmwCombine(ModeZeroPageX, 6, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case 0x2F:
		return c.rmwCombine(ModeAbsolute, 6, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case 0x3F:
		return c.rmwCombine(ModeAbsoluteX, 7, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case 0x3B:
		return c.rmwCombine(ModeAbsoluteY, 7, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case 0x23:
		return c.rmwCombine(ModeIndirectX, 8, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case 0x33:
		return c.rmwCombine(ModeIndirectY, 8, c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })

	// ---- undocumented: SRE (LSR then EOR) ----
	case 0x47:
		return c.rmwCombine(ModeZeroPage, 5, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case 0x57:
		return c.rmwCombine(ModeZeroPageX, 6, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case 0x4F:
		return c.rmwCombine(ModeAbsolute, 6, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case 0x5F:
		return c.rmwCombine(ModeAbsoluteX, 7, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case 0x5B:
		return c.rmwCombine(ModeAbsoluteY, 7, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case 0x43:
		return c.rmwCombine(ModeIndirectX, 8, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case 0x53:
		return c.rmwCombine(ModeIndirectY, 8, c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })

	// ---- undocumented: RRA (ROR then ADC) ----
	case 0x67:
		return c.rmwCombine(ModeZeroPage, 5, c.ror, c.adcValue)
	case 0x77:
		return c.rmwCombine(ModeZeroPageX, 6, c.ror, c.adcValue)
	case 0x6F:
		return c.rmwCombine(ModeAbsolute, 6, c.ror, c.adcValue)
	case 0x7F:
		return c.rmwCombine(ModeAbsoluteX, 7, c.ror, c.adcValue)
	case 0x7B:
		return c.rmwCombine(ModeAbsoluteY, 7, c.ror, c.adcValue)
	case 0x63:
		return c.rmwCombine(ModeIndirectX, 8, c.ror, c.adcValue)
	case 0x73:
		return c.rmwCombine(ModeIndirectY, 8, c.ror, c.adcValue)

	// ---- undocumented: SAX (store A & X) ----
	case 0x87:
		return c.st(c.A&c.X, ModeZeroPage, 3)
	case 0x97:
		return c.st(c.A&c.X, ModeZeroPageY, 4)
	case 0x8F:
		return c.st(c.A&c.X, ModeAbsolute, 4)
	case 0x83:
		return c.st(c.A&c.X, ModeIndirectX, 6)

	// ---- undocumented: LAX (load A and X together) ----
	case 0xA7:
		return c.lax(ModeZeroPage, 3, false)
	case 0xB7:
		return c.lax(ModeZeroPageY, 4, false)
	case 0xAF:
		return c.lax(ModeAbsolute, 4, false)
	case 0xBF:
		return c.lax(ModeAbsoluteY, 4, true)
	case 0xA3:
		return c.lax(ModeIndirectX, 6, false)
	case 0xB3:
		return c.lax(ModeIndirectY, 5, true)

	// ---- undocumented: DCP (DEC then CMP) ----
	case 0xC7:
		return c.rmwCombine(ModeZeroPage, 5, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })
	case 0xD7:
		return c.rmwCombine(ModeZeroPageX, 6, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })
	case 0xCF:
		return c.rmwCombine(ModeAbsolute, 6, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })
	case 0xDF:
		return c.rmwCombine(ModeAbsoluteX, 7, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })
	case 0xDB:
		return c.rmwCombine(ModeAbsoluteY, 7, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })
	case 0xC3:
		return c.rmwCombine(ModeIndirectX, 8, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })
	case 0xD3:
		return c.rmwCombine(ModeIndirectY, 8, c.decOnly, func(v uint8) { c.compareTo(c.A, v) })

	// ---- undocumented: ISC/ISB (INC then SBC) ----
	case 0xE7:
		return c.rmwCombine(ModeZeroPage, 5, c.incOnly, c.sbcValue)
	case 0xF7:
		return c.rmwCombine(ModeZeroPageX, 6, c.incOnly, c.sbcValue)
	case 0xEF:
		return c.rmwCombine(ModeAbsolute, 6, c.incOnly, c.sbcValue)
	case 0xFF:
		return c.rmwCombine(ModeAbsoluteX, 7, c.incOnly, c.sbcValue)
	case 0xFB:
		return c.rmwCombine(ModeAbsoluteY, 7, c.incOnly, c.sbcValue)
	case 0xE3:
		return c.rmwCombine(ModeIndirectX, 8, c.incOnly, c.sbcValue)
	case 0xF3:
		return c.rmwCombine(ModeIndirectY, 8, c.incOnly, c.sbcValue)

	// ---- undocumented: immediate-mode combos ----
	case 0x0B, 0x2B: // ANC
		addr, _ := c.resolve(ModeImmediate)
		c.A &= c.read(addr)
		c.setZN(c.A)
		c.setFlag(FlagC, c.A&0x80 != 0)
		return 2
	case 0x4B: // ALR: AND then LSR
		addr, _ := c.resolve(ModeImmediate)
		c.A &= c.read(addr)
		c.A = c.lsr(c.A)
		return 2
	case 0x6B: // ARR: AND then ROR, with quirky flag outputs
		addr, _ := c.resolve(ModeImmediate)
		c.A &= c.read(addr)
		c.A = c.ror(c.A)
		c.setFlag(FlagC, c.A&0x40 != 0)
		c.setFlag(FlagV, (c.A>>6)&1^(c.A>>5)&1 != 0)
		return 2
	case 0xCB: // AXS/SBX: X = (A&X) - imm, no borrow-in, sets C like CMP
		addr, _ := c.resolve(ModeImmediate)
		v := c.read(addr)
		t := c.A & c.X
		result := t - v
		c.setFlag(FlagC, t >= v)
		c.X = result
		c.setZN(c.X)
		return 2
	case 0xBB: // LAS: AND memory with SP, load into A/X/SP
		addr, pc := c.resolve(ModeAbsoluteY)
		v := c.read(addr) & c.SP
		c.A, c.X, c.SP = v, v, v
		c.setZN(v)
		if pc {
			return 5
		}
		return 4

	// ---- undocumented: NOP family (various widths, no effect) ----
	case 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		return 2
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		c.resolve(ModeImmediate)
		return 2
	case 0x04, 0x44, 0x64:
		c.resolve(ModeZeroPage)
		return 3
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		c.resolve(ModeZeroPageX)
		return 4
	case 0x0C:
		c.resolve(ModeAbsolute)
		return 4
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		_, pc := c.resolve(ModeAbsoluteX)
		if pc {
			return 5
		}
		return 4

	// ---- KIL/JAM: documented-undefined, locks the CPU on real hardware ----
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		c.PC--
		return 2
	}

	return 2
}

func (c *CPU) ld(reg *uint8, mode AddressingMode, cycles uint64, pageCheck bool) uint64 {
	addr, pc := c.resolve(mode)
	*reg = c.read(addr)
	c.setZN(*reg)
	if pageCheck && pc {
		return cycles + 1
	}
	return cycles
}

func (c *CPU) st(v uint8, mode AddressingMode, cycles uint64) uint64 {
	addr, _ := c.resolve(mode)
	c.write(addr, v)
	return cycles
}

func (c *CPU) lax(mode AddressingMode, cycles uint64, pageCheck bool) uint64 {
	addr, pc := c.resolve(mode)
	v := c.read(addr)
	c.A, c.X = v, v
	c.setZN(v)
	if pageCheck && pc {
		return cycles + 1
	}
	return cycles
}

func (c *CPU) logic(mode AddressingMode, cycles uint64, pageCheck bool, op func(a, v uint8) uint8) uint64 {
	addr, pc := c.resolve(mode)
	c.A = op(c.A, c.read(addr))
	c.setZN(c.A)
	if pageCheck && pc {
		return cycles + 1
	}
	return cycles
}

func (c *CPU) adc(mode AddressingMode, cycles uint64, pageCheck bool) uint64 {
	addr, pc := c.resolve(mode)
	c.adcValue(c.read(addr))
	if pageCheck && pc {
		return cycles + 1
	}
	return cycles
}

func (c *CPU) adcValue(v uint8) {
	carry := uint16(0)
	if c.flag(FlagC) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(v) + carry
	result := uint8(sum)
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) sbc(mode AddressingMode, cycles uint64, pageCheck bool) uint64 {
	addr, pc := c.resolve(mode)
	c.sbcValue(c.read(addr))
	if pageCheck && pc {
		return cycles + 1
	}
	return cycles
}

func (c *CPU) sbcValue(v uint8) { c.adcValue(v ^ 0xFF) }

func (c *CPU) cmp(reg uint8, mode AddressingMode, cycles uint64, pageCheck bool) uint64 {
	addr, pc := c.resolve(mode)
	c.compareTo(reg, c.read(addr))
	if pageCheck && pc {
		return cycles + 1
	}
	return cycles
}

func (c *CPU) compareTo(reg, v uint8) {
	result := reg - v
	c.setFlag(FlagC, reg >= v)
	c.setZN(result)
}

func (c *CPU) bit(mode AddressingMode, cycles uint64) uint64 {
	addr, _ := c.resolve(mode)
	v := c.read(addr)
	c.setFlag(FlagZ, c.A&v == 0)
	c.setFlag(FlagV, v&0x40 != 0)
	c.setFlag(FlagN, v&0x80 != 0)
	return cycles
}

func (c *CPU) incDecMem(mode AddressingMode, cycles uint64, delta int8) uint64 {
	addr, _ := c.resolve(mode)
	v := c.read(addr) + uint8(delta)
	c.write(addr, v)
	c.setZN(v)
	return cycles
}

func (c *CPU) incOnly(v uint8) uint8 { return v + 1 }
func (c *CPU) decOnly(v uint8) uint8 { return v - 1 }

func (c *CPU) asl(v uint8) uint8 {
	c.setFlag(FlagC, v&0x80 != 0)
	r := v << 1
	c.setZN(r)
	return r
}

func (c *CPU) lsr(v uint8) uint8 {
	c.setFlag(FlagC, v&0x01 != 0)
	r := v >> 1
	c.setZN(r)
	return r
}

func (c *CPU) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	c.setFlag(FlagC, v&0x80 != 0)
	r := (v << 1) | carryIn
	c.setZN(r)
	return r
}

func (c *CPU) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 0x80
	}
	c.setFlag(FlagC, v&0x01 != 0)
	r := (v >> 1) | carryIn
	c.setZN(r)
	return r
}

// rmw performs a read-modify-write: read the operand, apply op, write it
// back. Real hardware writes the original value back before the modified
// one (double write); not externally observable for our memory model.
func (c *CPU) rmw(mode AddressingMode, cycles uint64, op func(uint8) uint8) uint64 {
	addr, _ := c.resolve(mode)
	v := op(c.read(addr))
	c.write(addr, v)
	return cycles
}

// rmwCombine performs an undocumented read-modify-write-then-combine
// instruction (SLO/RLA/SRE/RRA/DCP/ISC): modify the memory operand with
// modify, write it back, then feed the modified value into combine which
// updates A/flags.
func (c *CPU) rmwCombine(mode AddressingMode, cycles uint64, modify func(uint8) uint8, combine func(uint8)) uint64 {
	addr, _ := c.resolve(mode)
	v := modify(c.read(addr))
	c.write(addr, v)
	combine(v)
	return cycles
}

// branch resolves the relative operand unconditionally (it must always be
// consumed) and, if taken, jumps and adds 1 cycle, plus another if the
// jump crosses a page boundary.
func (c *CPU) branch(taken bool) uint64 {
	target, _ := c.resolve(ModeRelative)
	if !taken {
		return 2
	}
	cycles := uint64(3)
	if pageCross(c.PC, target) {
		cycles++
	}
	c.PC = target
	return cycles
}
