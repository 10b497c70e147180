package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrobeHighAlwaysReturnsButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonB, true)
	c.Write(1) // strobe high

	require.Equal(t, uint8(1), c.Read())
	require.Equal(t, uint8(1), c.Read(), "strobe held high re-samples button A every read")
}

func TestEightBitReadSequenceMatchesButtonOrder(t *testing.T) {
	c := New()
	// A, Start pressed; order is A B Select Start Up Down Left Right.
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.Write(1)
	c.Write(0) // latch on the falling edge

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, w := range want {
		require.Equal(t, w, c.Read()&1, "bit %d", i)
	}
}

func TestReadsPastEighthBitReturnOne(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	require.Equal(t, uint8(1), c.Read()&1)
	require.Equal(t, uint8(1), c.Read()&1)
}

func TestSetButtonsArrayOrder(t *testing.T) {
	c := New()
	c.SetButtons([8]bool{false, true, false, false, true, false, false, false})
	c.Write(1)
	c.Write(0)

	require.Equal(t, uint8(0), c.Read()&1) // A
	require.Equal(t, uint8(1), c.Read()&1) // B
	require.Equal(t, uint8(0), c.Read()&1) // Select
	require.Equal(t, uint8(0), c.Read()&1) // Start
	require.Equal(t, uint8(1), c.Read()&1) // Up
}

func TestPairRead4017HasBit6Set(t *testing.T) {
	p := NewPair()
	v := p.Read(0x4017)
	require.NotZero(t, v&0x40)
}

func TestPairWriteStrobesBothControllers(t *testing.T) {
	p := NewPair()
	p.P1.SetButton(ButtonA, true)
	p.P2.SetButton(ButtonB, true)
	p.Write(0x4016, 1)
	p.Write(0x4016, 0)

	require.Equal(t, uint8(1), p.Read(0x4016)&1)
	require.Equal(t, uint8(0), p.Read(0x4017)&1, "P2 shifts out A first, which is not pressed")
	require.Equal(t, uint8(1), p.Read(0x4017)&1, "P2 then shifts out B")
}

func TestResetClearsState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1)
	c.Reset()
	require.Equal(t, uint8(0), c.buttons)
	require.False(t, c.strobe)
}
