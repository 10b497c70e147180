package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A handful of known-good nestest-style instruction lines, covering the
// addressing modes most likely to be mis-formatted: implied, immediate,
// zero page indexed, absolute indexed, indirect, and relative (which must
// show the resolved branch target rather than the raw signed offset).
func TestDisassembleAtKnownInstructions(t *testing.T) {
	c, _ := newTestCPU([]uint8{
		0xA9, 0x42, // $8000 LDA #$42
		0x8D, 0x00, 0x02, // $8002 STA $0200
		0xB5, 0x10, // $8005 LDA $10,X
		0x4C, 0x00, 0x80, // $8007 JMP $8000
		0xEA, // $800A NOP
	})

	require.Equal(t, "8000  A9 42     LDA #$42", c.DisassembleAt(0x8000))
	require.Equal(t, "8002  8D 00 02  STA $0200", c.DisassembleAt(0x8002))
	require.Equal(t, "8005  B5 10     LDA $10,X", c.DisassembleAt(0x8005))
	require.Equal(t, "8007  4C 00 80  JMP $8000", c.DisassembleAt(0x8007))
	require.Equal(t, "800A  EA        NOP", c.DisassembleAt(0x800A))
}

func TestDisassembleAtBranchShowsResolvedTarget(t *testing.T) {
	c, mem := newTestCPU(nil)
	mem[0x8000] = 0xF0 // BEQ
	mem[0x8001] = 0xFB // -5, target = 8002 + (-5) = 7FFD

	require.Equal(t, "8000  F0 FB     BEQ $7FFD", c.DisassembleAt(0x8000))
}

func TestDisassembleAtDoesNotMutateCPUState(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x42})
	pcBefore, aBefore := c.PC, c.A

	c.DisassembleAt(c.PC)

	require.Equal(t, pcBefore, c.PC, "peeking the disassembly must not advance PC")
	require.Equal(t, aBefore, c.A, "peeking the disassembly must not execute the instruction")
}

func TestDisassembleAtUnmappedOpcodeShowsPlaceholder(t *testing.T) {
	c, mem := newTestCPU(nil)
	mem[0x8000] = 0x9B // SHS/TAS: not in opcodeTable, falls through step()'s default

	require.Equal(t, "8000  9B        ???", c.DisassembleAt(0x8000))
}
