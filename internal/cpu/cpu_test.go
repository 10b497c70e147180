package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// flatMemory is a plain 64KB array satisfying Memory, used to isolate CPU
// behavior from the rest of the bus in unit tests.
type flatMemory [65536]uint8

func (m *flatMemory) Read(addr uint16) uint8     { return m[addr] }
func (m *flatMemory) Write(addr uint16, v uint8) { m[addr] = v }

func newTestCPU(program []uint8) (*CPU, *flatMemory) {
	mem := &flatMemory{}
	copy(mem[0x8000:], program)
	mem[0xFFFC] = 0x00
	mem[0xFFFD] = 0x80
	c := New(mem)
	c.Reset()
	return c, mem
}

func run(c *CPU, steps int) uint64 {
	var total uint64
	for i := 0; i < steps; i++ {
		total += c.Tick()
	}
	return total
}

func TestResetVectorAndStatus(t *testing.T) {
	c, _ := newTestCPU(nil)
	require.Equal(t, uint16(0x8000), c.PC)
	require.Equal(t, uint8(0xFD), c.SP)
	require.True(t, c.flag(FlagI))
}

func TestLDAImmediateSetsZeroAndNegative(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x00, 0xA9, 0x80})
	run(c, 1)
	require.Equal(t, uint8(0), c.A)
	require.True(t, c.flag(FlagZ))
	run(c, 1)
	require.Equal(t, uint8(0x80), c.A)
	require.True(t, c.flag(FlagN))
}

func TestPushPullIsRoundTrip(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x7E, 0x48, 0xA9, 0x00, 0x68})
	run(c, 4)
	require.Equal(t, uint8(0x7E), c.A)
}

func TestIncDecRegistersRoundTrip(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA2, 0x10, 0xE8, 0xCA})
	run(c, 3)
	require.Equal(t, uint8(0x10), c.X)
}

func TestADCSetsOverflowWithoutCarry(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x7F, 0x69, 0x01})
	run(c, 2)
	require.Equal(t, uint8(0x80), c.A)
	require.True(t, c.flag(FlagV), "signed overflow: 127+1 must set V")
	require.False(t, c.flag(FlagC))
}

func TestSBCBorrow(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x38, 0xA9, 0x05, 0xE9, 0x06})
	run(c, 3)
	require.Equal(t, uint8(0xFF), c.A)
	require.False(t, c.flag(FlagC), "carry clear signals a borrow occurred")
}

func TestAbsoluteXPageCrossAddsCycle(t *testing.T) {
	c, mem := newTestCPU([]uint8{0xA2, 0xFF, 0xBD, 0x01, 0x80})
	mem[0x8100] = 0x55
	run(c, 1)
	cycles := c.Tick()
	require.Equal(t, uint64(5), cycles, "crossing from page $80 to $81 costs the extra cycle")
	require.Equal(t, uint8(0x55), c.A)
}

func TestBranchTakenAddsOneCycle(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0x00, 0xF0, 0x02, 0xA9, 0xFF, 0xA9, 0x11})
	run(c, 1)
	cycles := c.Tick()
	require.Equal(t, uint64(3), cycles)
	require.Equal(t, uint8(0), c.A)
	run(c, 1)
	require.Equal(t, uint8(0x11), c.A)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, _ := newTestCPU([]uint8{
		0x20, 0x06, 0x80, // JSR $8006
		0xA9, 0x01, // (skipped) LDA #1
		0x00,       // padding
		0xA9, 0x02, // LDA #2
		0x60, // RTS
	})
	run(c, 3) // JSR, LDA #2, RTS
	require.Equal(t, uint16(0x8003), c.PC)
	require.Equal(t, uint8(0x02), c.A)
}

func TestStackOverflowWraps(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x48})
	c.SP = 0x00
	run(c, 1)
	require.Equal(t, uint8(0xFF), c.SP)
}

func TestNMITakesPriorityOverIRQAndPushesState(t *testing.T) {
	mem := &flatMemory{}
	mem[0xFFFC], mem[0xFFFD] = 0x00, 0x80
	mem[0xFFFA], mem[0xFFFB] = 0x00, 0x90 // NMI vector
	mem[0xFFFE], mem[0xFFFF] = 0x00, 0xA0 // IRQ vector
	mem[0x8000] = 0xEA                    // NOP, so a Tick without interrupts is observable
	c := New(mem)
	c.Reset()
	c.SetIRQLine(true)
	c.SetNMILine()

	cycles := c.Tick()
	require.Equal(t, uint64(7), cycles)
	require.Equal(t, uint16(0x9000), c.PC, "NMI must preempt a pending level IRQ")
	require.True(t, c.flag(FlagI))
}

func TestIRQIgnoredWhileInterruptsDisabled(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x78, 0xEA}) // SEI, NOP
	run(c, 1)
	c.SetIRQLine(true)
	cycles := c.Tick()
	require.Equal(t, uint64(2), cycles, "masked IRQ must not preempt the NOP")
}

func TestBRKSetsBreakFlagInPushedCopyOnly(t *testing.T) {
	mem := &flatMemory{}
	mem[0xFFFC], mem[0xFFFD] = 0x00, 0x80
	mem[0xFFFE], mem[0xFFFF] = 0x00, 0x90
	mem[0x8000] = 0x00 // BRK
	c := New(mem)
	c.Reset()
	c.Tick()
	require.False(t, c.flag(FlagB), "B is never actually set in the live P register")
	pushedP := mem[0x0100+int(c.SP)+1]
	require.NotZero(t, pushedP&FlagB, "the copy pushed to the stack must have B set")
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	mem := &flatMemory{}
	mem[0xFFFC], mem[0xFFFD] = 0x00, 0x80
	mem[0x8000] = 0x6C
	mem[0x8001], mem[0x8002] = 0xFF, 0x81 // pointer = $81FF
	mem[0x81FF] = 0x34                    // low byte of target
	mem[0x8200] = 0x12                    // correct (non-wrapped) high byte: must NOT be used
	mem[0x8100] = 0x21                    // wrapped high byte, read from $8100 (start of same page)
	c := New(mem)
	c.Reset()
	c.Tick()
	require.Equal(t, uint16(0x2134), c.PC, "must read the high byte from $8100, not $8200")
}

func TestLAXLoadsBothAAndX(t *testing.T) {
	c, mem := newTestCPU([]uint8{0xA7, 0x10})
	mem[0x0010] = 0x42
	run(c, 1)
	require.Equal(t, uint8(0x42), c.A)
	require.Equal(t, uint8(0x42), c.X)
}

func TestDCPDecrementsThenCompares(t *testing.T) {
	c, mem := newTestCPU([]uint8{0xA9, 0x05, 0xC7, 0x10})
	mem[0x0010] = 0x06
	run(c, 2)
	require.Equal(t, uint8(0x05), mem[0x0010])
	require.True(t, c.flag(FlagC), "A(5) >= decremented memory(5) sets carry")
	require.True(t, c.flag(FlagZ))
}
