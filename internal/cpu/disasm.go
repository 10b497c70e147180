package cpu

import "fmt"

// Snapshot captures register state for a single instruction boundary,
// formatted in the traditional nestest trace-log layout used to diff an
// implementation against a known-good trace.
type Snapshot struct {
	PC      uint16
	Opcode  uint8
	A, X, Y uint8
	P, SP   uint8
	Cycle   uint64
}

// Snapshot reports the CPU's state as of the start of the instruction
// currently at PC (call before Tick to capture the pre-execution state).
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		PC:     c.PC,
		Opcode: c.mem.Read(c.PC),
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		P:      c.P,
		SP:     c.SP,
		Cycle:  c.totalCycles,
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%04X  %02X  A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		s.PC, s.Opcode, s.A, s.X, s.Y, s.P, s.SP, s.Cycle)
}

// opcodeEntry names the mnemonic and addressing mode used to disassemble
// one opcode byte, independent of the execution dispatch in opcodes.go.
type opcodeEntry struct {
	mnemonic string
	mode     AddressingMode
}

// opcodeTable maps every opcode byte step() dispatches on to the mnemonic
// and addressing mode DisassembleAt needs to format it. Entries left at
// the zero value (mnemonic "") correspond to bytes that fall through
// step()'s switch to its one-byte-NOP default and are rendered as "???".
var opcodeTable = [256]opcodeEntry{
	// load/store
	0xA9: {"LDA", ModeImmediate}, 0xA5: {"LDA", ModeZeroPage}, 0xB5: {"LDA", ModeZeroPageX},
	0xAD: {"LDA", ModeAbsolute}, 0xBD: {"LDA", ModeAbsoluteX}, 0xB9: {"LDA", ModeAbsoluteY},
	0xA1: {"LDA", ModeIndirectX}, 0xB1: {"LDA", ModeIndirectY},

	0xA2: {"LDX", ModeImmediate}, 0xA6: {"LDX", ModeZeroPage}, 0xB6: {"LDX", ModeZeroPageY},
	0xAE: {"LDX", ModeAbsolute}, 0xBE: {"LDX", ModeAbsoluteY},

	0xA0: {"LDY", ModeImmediate}, 0xA4: {"LDY", ModeZeroPage}, 0xB4: {"LDY", ModeZeroPageX},
	0xAC: {"LDY", ModeAbsolute}, 0xBC: {"LDY", ModeAbsoluteX},

	0x85: {"STA", ModeZeroPage}, 0x95: {"STA", ModeZeroPageX}, 0x8D: {"STA", ModeAbsolute},
	0x9D: {"STA", ModeAbsoluteX}, 0x99: {"STA", ModeAbsoluteY},
	0x81: {"STA", ModeIndirectX}, 0x91: {"STA", ModeIndirectY},

	0x86: {"STX", ModeZeroPage}, 0x96: {"STX", ModeZeroPageY}, 0x8E: {"STX", ModeAbsolute},
	0x84: {"STY", ModeZeroPage}, 0x94: {"STY", ModeZeroPageX}, 0x8C: {"STY", ModeAbsolute},

	// transfers
	0xAA: {"TAX", ModeImplied}, 0xA8: {"TAY", ModeImplied},
	0x8A: {"TXA", ModeImplied}, 0x98: {"TYA", ModeImplied},
	0xBA: {"TSX", ModeImplied}, 0x9A: {"TXS", ModeImplied},

	// stack
	0x48: {"PHA", ModeImplied}, 0x68: {"PLA", ModeImplied},
	0x08: {"PHP", ModeImplied}, 0x28: {"PLP", ModeImplied},

	// arithmetic
	0x69: {"ADC", ModeImmediate}, 0x65: {"ADC", ModeZeroPage}, 0x75: {"ADC", ModeZeroPageX},
	0x6D: {"ADC", ModeAbsolute}, 0x7D: {"ADC", ModeAbsoluteX}, 0x79: {"ADC", ModeAbsoluteY},
	0x61: {"ADC", ModeIndirectX}, 0x71: {"ADC", ModeIndirectY},

	0xE9: {"SBC", ModeImmediate}, 0xEB: {"SBC", ModeImmediate},
	0xE5: {"SBC", ModeZeroPage}, 0xF5: {"SBC", ModeZeroPageX},
	0xED: {"SBC", ModeAbsolute}, 0xFD: {"SBC", ModeAbsoluteX}, 0xF9: {"SBC", ModeAbsoluteY},
	0xE1: {"SBC", ModeIndirectX}, 0xF1: {"SBC", ModeIndirectY},

	// logic
	0x29: {"AND", ModeImmediate}, 0x25: {"AND", ModeZeroPage}, 0x35: {"AND", ModeZeroPageX},
	0x2D: {"AND", ModeAbsolute}, 0x3D: {"AND", ModeAbsoluteX}, 0x39: {"AND", ModeAbsoluteY},
	0x21: {"AND", ModeIndirectX}, 0x31: {"AND", ModeIndirectY},

	0x09: {"ORA", ModeImmediate}, 0x05: {"ORA", ModeZeroPage}, 0x15: {"ORA", ModeZeroPageX},
	0x0D: {"ORA", ModeAbsolute}, 0x1D: {"ORA", ModeAbsoluteX}, 0x19: {"ORA", ModeAbsoluteY},
	0x01: {"ORA", ModeIndirectX}, 0x11: {"ORA", ModeIndirectY},

	0x49: {"EOR", ModeImmediate}, 0x45: {"EOR", ModeZeroPage}, 0x55: {"EOR", ModeZeroPageX},
	0x4D: {"EOR", ModeAbsolute}, 0x5D: {"EOR", ModeAbsoluteX}, 0x59: {"EOR", ModeAbsoluteY},
	0x41: {"EOR", ModeIndirectX}, 0x51: {"EOR", ModeIndirectY},

	// compare
	0xC9: {"CMP", ModeImmediate}, 0xC5: {"CMP", ModeZeroPage}, 0xD5: {"CMP", ModeZeroPageX},
	0xCD: {"CMP", ModeAbsolute}, 0xDD: {"CMP", ModeAbsoluteX}, 0xD9: {"CMP", ModeAbsoluteY},
	0xC1: {"CMP", ModeIndirectX}, 0xD1: {"CMP", ModeIndirectY},

	0xE0: {"CPX", ModeImmediate}, 0xE4: {"CPX", ModeZeroPage}, 0xEC: {"CPX", ModeAbsolute},
	0xC0: {"CPY", ModeImmediate}, 0xC4: {"CPY", ModeZeroPage}, 0xCC: {"CPY", ModeAbsolute},

	0x24: {"BIT", ModeZeroPage}, 0x2C: {"BIT", ModeAbsolute},

	// inc/dec
	0xE6: {"INC", ModeZeroPage}, 0xF6: {"INC", ModeZeroPageX},
	0xEE: {"INC", ModeAbsolute}, 0xFE: {"INC", ModeAbsoluteX},
	0xC6: {"DEC", ModeZeroPage}, 0xD6: {"DEC", ModeZeroPageX},
	0xCE: {"DEC", ModeAbsolute}, 0xDE: {"DEC", ModeAbsoluteX},
	0xE8: {"INX", ModeImplied}, 0xC8: {"INY", ModeImplied},
	0xCA: {"DEX", ModeImplied}, 0x88: {"DEY", ModeImplied},

	// shifts/rotates
	0x0A: {"ASL", ModeAccumulator}, 0x06: {"ASL", ModeZeroPage}, 0x16: {"ASL", ModeZeroPageX},
	0x0E: {"ASL", ModeAbsolute}, 0x1E: {"ASL", ModeAbsoluteX},
	0x4A: {"LSR", ModeAccumulator}, 0x46: {"LSR", ModeZeroPage}, 0x56: {"LSR", ModeZeroPageX},
	0x4E: {"LSR", ModeAbsolute}, 0x5E: {"LSR", ModeAbsoluteX},
	0x2A: {"ROL", ModeAccumulator}, 0x26: {"ROL", ModeZeroPage}, 0x36: {"ROL", ModeZeroPageX},
	0x2E: {"ROL", ModeAbsolute}, 0x3E: {"ROL", ModeAbsoluteX},
	0x6A: {"ROR", ModeAccumulator}, 0x66: {"ROR", ModeZeroPage}, 0x76: {"ROR", ModeZeroPageX},
	0x6E: {"ROR", ModeAbsolute}, 0x7E: {"ROR", ModeAbsoluteX},

	// control flow
	0x4C: {"JMP", ModeAbsolute}, 0x6C: {"JMP", ModeIndirect},
	0x20: {"JSR", ModeAbsolute}, 0x60: {"RTS", ModeImplied},
	0x00: {"BRK", ModeImplied}, 0x40: {"RTI", ModeImplied},

	// branches
	0x90: {"BCC", ModeRelative}, 0xB0: {"BCS", ModeRelative},
	0xF0: {"BEQ", ModeRelative}, 0xD0: {"BNE", ModeRelative},
	0x30: {"BMI", ModeRelative}, 0x10: {"BPL", ModeRelative},
	0x50: {"BVC", ModeRelative}, 0x70: {"BVS", ModeRelative},

	// flag ops
	0x18: {"CLC", ModeImplied}, 0x38: {"SEC", ModeImplied},
	0x58: {"CLI", ModeImplied}, 0x78: {"SEI", ModeImplied},
	0xB8: {"CLV", ModeImplied}, 0xD8: {"CLD", ModeImplied}, 0xF8: {"SED", ModeImplied},

	0xEA: {"NOP", ModeImplied},

	// undocumented
	0x07: {"SLO", ModeZeroPage}, 0x17: {"SLO", ModeZeroPageX}, 0x0F: {"SLO", ModeAbsolute},
	0x1F: {"SLO", ModeAbsoluteX}, 0x1B: {"SLO", ModeAbsoluteY},
	0x03: {"SLO", ModeIndirectX}, 0x13: {"SLO", ModeIndirectY},

	0x27: {"RLA", ModeZeroPage}, 0x37: {"RLA", ModeZeroPageX}, 0x2F: {"RLA", ModeAbsolute},
	0x3F: {"RLA", ModeAbsoluteX}, 0x3B: {"RLA", ModeAbsoluteY},
	0x23: {"RLA", ModeIndirectX}, 0x33: {"RLA", ModeIndirectY},

	0x47: {"SRE", ModeZeroPage}, 0x57: {"SRE", ModeZeroPageX}, 0x4F: {"SRE", ModeAbsolute},
	0x5F: {"SRE", ModeAbsoluteX}, 0x5B: {"SRE", ModeAbsoluteY},
	0x43: {"SRE", ModeIndirectX}, 0x53: {"SRE", ModeIndirectY},

	0x67: {"RRA", ModeZeroPage}, 0x77: {"RRA", ModeZeroPageX}, 0x6F: {"RRA", ModeAbsolute},
	0x7F: {"RRA", ModeAbsoluteX}, 0x7B: {"RRA", ModeAbsoluteY},
	0x63: {"RRA", ModeIndirectX}, 0x73: {"RRA", ModeIndirectY},

	0x87: {"SAX", ModeZeroPage}, 0x97: {"SAX", ModeZeroPageY},
	0x8F: {"SAX", ModeAbsolute}, 0x83: {"SAX", ModeIndirectX},

	0xA7: {"LAX", ModeZeroPage}, 0xB7: {"LAX", ModeZeroPageY}, 0xAF: {"LAX", ModeAbsolute},
	0xBF: {"LAX", ModeAbsoluteY}, 0xA3: {"LAX", ModeIndirectX}, 0xB3: {"LAX", ModeIndirectY},

	0xC7: {"DCP", ModeZeroPage}, 0xD7: {"DCP", ModeZeroPageX}, 0xCF: {"DCP", ModeAbsolute},
	0xDF: {"DCP", ModeAbsoluteX}, 0xDB: {"DCP", ModeAbsoluteY},
	0xC3: {"DCP", ModeIndirectX}, 0xD3: {"DCP", ModeIndirectY},

	0xE7: {"ISC", ModeZeroPage}, 0xF7: {"ISC", ModeZeroPageX}, 0xEF: {"ISC", ModeAbsolute},
	0xFF: {"ISC", ModeAbsoluteX}, 0xFB: {"ISC", ModeAbsoluteY},
	0xE3: {"ISC", ModeIndirectX}, 0xF3: {"ISC", ModeIndirectY},

	0x0B: {"ANC", ModeImmediate}, 0x2B: {"ANC", ModeImmediate},
	0x4B: {"ALR", ModeImmediate}, 0x6B: {"ARR", ModeImmediate},
	0xCB: {"AXS", ModeImmediate}, 0xBB: {"LAS", ModeAbsoluteY},

	0x1A: {"NOP", ModeImplied}, 0x3A: {"NOP", ModeImplied}, 0x5A: {"NOP", ModeImplied},
	0x7A: {"NOP", ModeImplied}, 0xDA: {"NOP", ModeImplied}, 0xFA: {"NOP", ModeImplied},
	0x80: {"NOP", ModeImmediate}, 0x82: {"NOP", ModeImmediate}, 0x89: {"NOP", ModeImmediate},
	0xC2: {"NOP", ModeImmediate}, 0xE2: {"NOP", ModeImmediate},
	0x04: {"NOP", ModeZeroPage}, 0x44: {"NOP", ModeZeroPage}, 0x64: {"NOP", ModeZeroPage},
	0x14: {"NOP", ModeZeroPageX}, 0x34: {"NOP", ModeZeroPageX}, 0x54: {"NOP", ModeZeroPageX},
	0x74: {"NOP", ModeZeroPageX}, 0xD4: {"NOP", ModeZeroPageX}, 0xF4: {"NOP", ModeZeroPageX},
	0x0C: {"NOP", ModeAbsolute},
	0x1C: {"NOP", ModeAbsoluteX}, 0x3C: {"NOP", ModeAbsoluteX}, 0x5C: {"NOP", ModeAbsoluteX},
	0x7C: {"NOP", ModeAbsoluteX}, 0xDC: {"NOP", ModeAbsoluteX}, 0xFC: {"NOP", ModeAbsoluteX},

	0x02: {"KIL", ModeImplied}, 0x12: {"KIL", ModeImplied}, 0x22: {"KIL", ModeImplied},
	0x32: {"KIL", ModeImplied}, 0x42: {"KIL", ModeImplied}, 0x52: {"KIL", ModeImplied},
	0x62: {"KIL", ModeImplied}, 0x72: {"KIL", ModeImplied}, 0x92: {"KIL", ModeImplied},
	0xB2: {"KIL", ModeImplied}, 0xD2: {"KIL", ModeImplied}, 0xF2: {"KIL", ModeImplied},
}

// operandLength returns the number of operand bytes (excluding the opcode
// itself) an addressing mode consumes.
func operandLength(mode AddressingMode) int {
	switch mode {
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeIndirect:
		return 2
	case ModeImplied, ModeAccumulator:
		return 0
	default:
		return 1
	}
}

// DisassembleAt formats the instruction at pc in a nestest-log-compatible
// layout (address, raw opcode/operand bytes, mnemonic and operand) without
// mutating any CPU state; used by the -trace flag and golden-trace tests.
func (c *CPU) DisassembleAt(pc uint16) string {
	op := c.mem.Read(pc)
	entry := opcodeTable[op]
	mnemonic := entry.mnemonic
	if mnemonic == "" {
		mnemonic = "???"
	}
	length := operandLength(entry.mode)

	raw := fmt.Sprintf("%02X", op)
	var operand [2]uint8
	for i := 0; i < length; i++ {
		operand[i] = c.mem.Read(pc + 1 + uint16(i))
		raw += fmt.Sprintf(" %02X", operand[i])
	}

	return fmt.Sprintf("%04X  %-8s  %s%s", pc, raw, mnemonic, formatOperand(entry.mode, pc, operand))
}

// formatOperand renders an addressing mode's operand bytes in 6502
// assembly syntax. Relative branches are shown as their resolved absolute
// target, matching how nestest-style traces log them.
func formatOperand(mode AddressingMode, pc uint16, b [2]uint8) string {
	switch mode {
	case ModeAccumulator:
		return " A"
	case ModeImmediate:
		return fmt.Sprintf(" #$%02X", b[0])
	case ModeZeroPage:
		return fmt.Sprintf(" $%02X", b[0])
	case ModeZeroPageX:
		return fmt.Sprintf(" $%02X,X", b[0])
	case ModeZeroPageY:
		return fmt.Sprintf(" $%02X,Y", b[0])
	case ModeAbsolute:
		return fmt.Sprintf(" $%04X", uint16(b[0])|uint16(b[1])<<8)
	case ModeAbsoluteX:
		return fmt.Sprintf(" $%04X,X", uint16(b[0])|uint16(b[1])<<8)
	case ModeAbsoluteY:
		return fmt.Sprintf(" $%04X,Y", uint16(b[0])|uint16(b[1])<<8)
	case ModeIndirect:
		return fmt.Sprintf(" ($%04X)", uint16(b[0])|uint16(b[1])<<8)
	case ModeIndirectX:
		return fmt.Sprintf(" ($%02X,X)", b[0])
	case ModeIndirectY:
		return fmt.Sprintf(" ($%02X),Y", b[0])
	case ModeRelative:
		target := uint16(int32(pc+2) + int32(int8(b[0])))
		return fmt.Sprintf(" $%04X", target)
	default:
		return ""
	}
}
