package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gones/internal/memory"
)

type fakeCart struct {
	chr       [0x2000]uint8
	mirroring memory.MirrorMode
}

func (f *fakeCart) ReadPRG(uint16) uint8        { return 0 }
func (f *fakeCart) WritePRG(uint16, uint8)      {}
func (f *fakeCart) ReadCHR(addr uint16) uint8   { return f.chr[addr] }
func (f *fakeCart) WriteCHR(addr uint16, v uint8) { f.chr[addr] = v }
func (f *fakeCart) Mirroring() memory.MirrorMode { return f.mirroring }
func (f *fakeCart) NotifyPPUAddress(uint16)      {}

func newTestPPU() *PPU {
	p := New()
	cart := &fakeCart{mirroring: memory.MirrorHorizontal}
	p.SetMemory(memory.NewPPUMemory(cart))
	return p
}

func TestVBlankFlagSetsAtScanline241Cycle1(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 242*341+1; i++ { // pre-render line, scanlines 0-240, then dot 1 of 241
		p.Step()
	}
	require.True(t, p.IsVBlank())
}

func TestNMIFiresOnVBlankWhenEnabled(t *testing.T) {
	p := newTestPPU()
	fired := false
	p.SetNMICallback(func() { fired = true })
	p.WriteRegister(0x2000, 0x80)
	for i := 0; i < 242*341+1; i++ { // pre-render line, scanlines 0-240, then dot 1 of 241
		p.Step()
	}
	require.True(t, fired)
}

func TestEnablingNMIDuringActiveVBlankFiresImmediately(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 242*341+1; i++ { // pre-render line, scanlines 0-240, then dot 1 of 241
		p.Step()
	}
	require.True(t, p.IsVBlank())
	fired := false
	p.SetNMICallback(func() { fired = true })
	p.WriteRegister(0x2000, 0x80)
	require.True(t, fired)
}

func TestPPUStatusReadClearsVBlankAndWriteLatch(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 242*341+1; i++ { // pre-render line, scanlines 0-240, then dot 1 of 241
		p.Step()
	}
	require.True(t, p.IsVBlank())
	status := p.ReadRegister(0x2002)
	require.NotZero(t, status&0x80)
	require.False(t, p.IsVBlank())
	require.False(t, p.w)
}

func TestPPUAddrWriteSequenceSetsVRAMAddress(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(0x2006, 0x23)
	p.WriteRegister(0x2006, 0x45)
	require.Equal(t, uint16(0x2345), p.v)
}

func TestPPUDataReadIsBufferedExceptPalette(t *testing.T) {
	p := newTestPPU()
	p.mem.Write(0x2345, 0x77)
	p.WriteRegister(0x2006, 0x23)
	p.WriteRegister(0x2006, 0x45)
	first := p.ReadRegister(0x2007)
	require.NotEqual(t, uint8(0x77), first, "first read returns stale buffer")
	second := p.ReadRegister(0x2007)
	require.Equal(t, uint8(0x77), second)
}

func TestPPUDataIncrementsByThirtyTwoWhenCtrlBitSet(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(0x2000, 0x04)
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x11)
	require.Equal(t, uint16(0x2020), p.v)
}

func TestScrollWriteSetsCoarseAndFineX(t *testing.T) {
	p := newTestPPU()
	p.WriteRegister(0x2005, 0x7D) // coarse X = 15, fine X = 5
	require.Equal(t, uint16(15), p.t&0x1F)
	require.Equal(t, uint8(5), p.x)
}

func TestCopyYHappensDuringPreRenderScanline(t *testing.T) {
	p := newTestPPU()
	p.backgroundEnabled = true
	p.t = 0x7BE0
	p.scanline = -1
	p.cycle = 280
	p.Step() // runs bookkeeping for cycle 280, within the 280-304 copyY window
	require.Equal(t, uint16(0x7BE0), p.v&0x7BE0)
}

func TestOddFrameSkipsIdleDotWhenRenderingEnabled(t *testing.T) {
	p := newTestPPU()
	p.backgroundEnabled = true
	p.oddFrame = true
	p.scanline = -1
	p.cycle = 339
	p.Step()
	require.Equal(t, 0, p.scanline, "skipping dot 339 rolls directly into scanline 0")
}

func TestSpriteOverflowSetsFlagAfterEightSprites(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 9; i++ {
		p.oam[i*4] = 10 // Y
		p.oam[i*4+1] = 1
		p.oam[i*4+2] = 0
		p.oam[i*4+3] = uint8(i * 8)
	}
	p.evaluateSprites(10)
	require.True(t, p.spriteOverflow)
	require.Equal(t, 8, p.spriteCount)
}

func TestSprite0HitDetectedWhenBothOpaque(t *testing.T) {
	p := newTestPPU()
	bg := pixel{colorIndex: 5, opaque: true}
	sp := pixel{colorIndex: 3, opaque: true, isSprite0: true}
	p.composite(bg, sp, 100)
	require.True(t, p.sprite0Hit)
	require.NotZero(t, p.status&0x40)
}

func TestSprite0HitNotDetectedAtPixel255(t *testing.T) {
	p := newTestPPU()
	bg := pixel{colorIndex: 5, opaque: true}
	sp := pixel{colorIndex: 3, opaque: true, isSprite0: true}
	p.composite(bg, sp, 255)
	require.False(t, p.sprite0Hit, "sprite-zero-hit never fires at x=255")
}

func TestResetRestoresPowerUpStatus(t *testing.T) {
	p := newTestPPU()
	p.status = 0x00
	p.Reset()
	require.Equal(t, uint8(0xA0), p.status)
}
