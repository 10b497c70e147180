package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mockPPU struct {
	regs [8]uint8
}

func (m *mockPPU) ReadRegister(addr uint16) uint8      { return m.regs[addr&7] }
func (m *mockPPU) WriteRegister(addr uint16, v uint8)  { m.regs[addr&7] = v }

type mockAPU struct {
	status    uint8
	lastWrite uint16
}

func (m *mockAPU) WriteRegister(addr uint16, v uint8) { m.lastWrite = addr }
func (m *mockAPU) ReadStatus() uint8                  { return m.status }

type mockInput struct {
	lastWriteAddr uint16
	lastWriteVal  uint8
	readValue     uint8
}

func (m *mockInput) Read(addr uint16) uint8 { return m.readValue }
func (m *mockInput) Write(addr uint16, v uint8) {
	m.lastWriteAddr, m.lastWriteVal = addr, v
}

type mockCartridge struct {
	prg       [0x10000]uint8
	chr       [0x2000]uint8
	mirroring MirrorMode
}

func (m *mockCartridge) ReadPRG(addr uint16) uint8      { return m.prg[addr] }
func (m *mockCartridge) WritePRG(addr uint16, v uint8)  { m.prg[addr] = v }
func (m *mockCartridge) ReadCHR(addr uint16) uint8      { return m.chr[addr] }
func (m *mockCartridge) WriteCHR(addr uint16, v uint8)  { m.chr[addr] = v }
func (m *mockCartridge) Mirroring() MirrorMode          { return m.mirroring }
func (m *mockCartridge) NotifyPPUAddress(addr uint16)   {}

func TestRAMMirroredAcrossFourPages(t *testing.T) {
	m := New(&mockPPU{}, &mockAPU{}, &mockCartridge{})
	m.Write(0x0001, 0x42)
	require.Equal(t, uint8(0x42), m.Read(0x0801))
	require.Equal(t, uint8(0x42), m.Read(0x1001))
	require.Equal(t, uint8(0x42), m.Read(0x1801))
}

func TestPPURegistersMirroredEveryEightBytes(t *testing.T) {
	ppu := &mockPPU{}
	m := New(ppu, &mockAPU{}, &mockCartridge{})
	m.Write(0x2000, 0x11)
	require.Equal(t, uint8(0x11), ppu.regs[0])
	m.Write(0x2008, 0x22)
	require.Equal(t, uint8(0x22), ppu.regs[0])
	require.Equal(t, uint8(0x22), m.Read(0x3FF8))
}

func TestAPUStatusReadRoutesTo4015(t *testing.T) {
	apu := &mockAPU{status: 0x5A}
	m := New(&mockPPU{}, apu, &mockCartridge{})
	require.Equal(t, uint8(0x5A), m.Read(0x4015))
}

func TestControllerReadWriteRouting(t *testing.T) {
	in := &mockInput{readValue: 1}
	m := New(&mockPPU{}, &mockAPU{}, &mockCartridge{})
	m.SetInputSystem(in)
	m.Write(0x4016, 1)
	require.Equal(t, uint16(0x4016), in.lastWriteAddr)
	require.Equal(t, uint8(1), m.Read(0x4016))
}

func TestOAMDMACopiesFullPage(t *testing.T) {
	ppu := &mockPPU{}
	m := New(ppu, &mockAPU{}, &mockCartridge{})
	for i := 0; i < 256; i++ {
		m.Write(0x0200+uint16(i), uint8(i))
	}
	var written []uint8
	m.SetDMACallback(func(page uint8) {
		base := uint16(page) << 8
		for i := uint16(0); i < 256; i++ {
			written = append(written, m.Read(base+i))
		}
	})
	m.Write(0x4014, 0x02)
	require.Len(t, written, 256)
	require.Equal(t, uint8(0x7F), written[0x7F])
}

func TestPRGRAMAndROMRouteToCartridge(t *testing.T) {
	cart := &mockCartridge{}
	m := New(&mockPPU{}, &mockAPU{}, cart)
	m.Write(0x6000, 0x99)
	require.Equal(t, uint8(0x99), m.Read(0x6000))
	require.Equal(t, uint8(0x99), cart.prg[0x6000])
}

func TestOpenBusLingersOnUnmappedRead(t *testing.T) {
	m := New(&mockPPU{}, &mockAPU{}, &mockCartridge{})
	m.Write(0x6000, 0x00) // not open-bus-setting itself since it's a valid region
	_ = m.Read(0x6000)
	v := m.Read(0x5000) // unmapped expansion region
	require.Equal(t, uint8(0x00), v)
}

func TestNametableMirroringHorizontal(t *testing.T) {
	cart := &mockCartridge{mirroring: MirrorHorizontal}
	pm := NewPPUMemory(cart)
	pm.Write(0x2000, 0x11)
	require.Equal(t, uint8(0x11), pm.Read(0x2400), "top two nametables share physical page 0")
	pm.Write(0x2800, 0x22)
	require.Equal(t, uint8(0x22), pm.Read(0x2C00))
	require.NotEqual(t, pm.Read(0x2000), pm.Read(0x2800))
}

func TestNametableMirroringVertical(t *testing.T) {
	cart := &mockCartridge{mirroring: MirrorVertical}
	pm := NewPPUMemory(cart)
	pm.Write(0x2000, 0x11)
	require.Equal(t, uint8(0x11), pm.Read(0x2800), "left two nametables share physical page 0")
	pm.Write(0x2400, 0x22)
	require.Equal(t, uint8(0x22), pm.Read(0x2C00))
}

func TestNametableMirroringIsLiveNotCached(t *testing.T) {
	cart := &mockCartridge{mirroring: MirrorHorizontal}
	pm := NewPPUMemory(cart)
	pm.Write(0x2000, 0x11)
	cart.mirroring = MirrorVertical
	pm.Write(0x2400, 0x33)
	require.Equal(t, uint8(0x11), pm.Read(0x2000))
	require.NotEqual(t, uint8(0x11), pm.Read(0x2400), "mirroring change must affect subsequent nametable lookups")
}

func TestPaletteBackgroundColorMirroring(t *testing.T) {
	pm := NewPPUMemory(&mockCartridge{})
	pm.Write(0x3F00, 0x0A)
	require.Equal(t, uint8(0x0A), pm.Read(0x3F10))
	require.Equal(t, uint8(0x0F), pm.Read(0x3F04), "$3F04 is its own entry; only $3F10/$14/$18/$1C alias $3F00/$04/$08/$0C")
}

func TestPaletteDefaultsToBlackBackground(t *testing.T) {
	pm := NewPPUMemory(&mockCartridge{})
	require.Equal(t, uint8(0x0F), pm.Read(0x3F00))
}

func TestPatternTableDelegatesToCartridge(t *testing.T) {
	cart := &mockCartridge{}
	pm := NewPPUMemory(cart)
	pm.Write(0x0010, 0x7E)
	require.Equal(t, uint8(0x7E), cart.chr[0x0010])
	require.Equal(t, uint8(0x7E), pm.Read(0x0010))
}
