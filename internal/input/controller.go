// Package input implements standard NES controller shift registers.
package input

// Button identifies one of the eight standard controller buttons.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models the 4021 shift register behind $4016/$4017: while
// strobe is high the register continuously reloads from live button
// state; on the high-to-low transition it latches, and each subsequent
// read shifts one button bit out, padding with 1s past the 8th read.
type Controller struct {
	buttons uint8
	shift   uint8
	strobe  bool
}

// New creates a Controller with no buttons pressed.
func New() *Controller { return &Controller{} }

// SetButton sets or clears a single button's live state.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons sets all eight buttons at once, in A/B/Select/Start/Up/Down/
// Left/Right order.
func (c *Controller) SetButtons(pressed [8]bool) {
	var v uint8
	for i, p := range pressed {
		if p {
			v |= 1 << uint(i)
		}
	}
	c.buttons = v
}

// Write handles a write to $4016: bit 0 is the strobe line.
func (c *Controller) Write(value uint8) {
	strobe := value&1 != 0
	if strobe {
		c.shift = c.buttons
	} else if c.strobe && !strobe {
		c.shift = c.buttons
	}
	c.strobe = strobe
}

// Read returns the next serial bit, open-bus padded with 1s after the
// 8th read. While strobe is held high, every read re-samples button A.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.shift = c.buttons
		return c.shift & 1
	}
	bit := c.shift & 1
	c.shift = c.shift>>1 | 0x80
	return bit
}

// Reset clears all button and shift-register state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shift = 0
	c.strobe = false
}

// Pair bundles the two front-panel controller ports.
type Pair struct {
	P1 *Controller
	P2 *Controller
}

// NewPair creates a Pair with both controllers idle.
func NewPair() *Pair { return &Pair{P1: New(), P2: New()} }

func (p *Pair) Reset() {
	p.P1.Reset()
	p.P2.Reset()
}

// Read dispatches $4016/$4017 reads. Bit 6 of $4017 always reads back
// set: on real hardware this is the expansion-port open-bus bit that
// every game relying on a fixed $4016/$4017 read pattern expects.
func (p *Pair) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return p.P1.Read()
	case 0x4017:
		return p.P2.Read() | 0x40
	default:
		return 0
	}
}

// Write strobes both controller shift registers simultaneously; real
// hardware wires $4016's strobe bit to both ports.
func (p *Pair) Write(address uint16, value uint8) {
	if address == 0x4016 {
		p.P1.Write(value)
		p.P2.Write(value)
	}
}
