package nes

// Zapper is the light gun plugged into controller port 2. Its trigger and
// light-sensor lines are exposed to the CPU through the same serial port as
// a pad, so the bus writes them straight into the port 2 shift register.
type Zapper struct {
	X, Y    int  // Aim point in emulated-screen pixels, 256x240.
	Trigger bool // Trigger pulled.

	// Light sensor line, active low: true means no light detected.
	LightSensed bool
}

// SetZapper connects or disconnects the light gun on port 2. The PPU needs
// to know too, so it can run hit tests against the rendered frame.
func (b *Bus) SetZapper(connected bool) {
	b.zapperConnected = connected
	b.Ppu.SetZapper(connected)
}

func (b *Bus) ZapperConnected() bool {
	return b.zapperConnected
}

// UpdateZapperCoordinates aims the gun and pulls the trigger. The trigger
// line goes up in the port 2 register; the sensor and unused pad bits are
// cleared.
func (b *Bus) UpdateZapperCoordinates(x, y int) {
	b.zapper.X = x
	b.zapper.Y = y
	b.zapper.Trigger = true

	b.shiftPad2 &= 0xE6
	setBit(&b.shiftPad2, zapperTriggerBit, 1)
}

// FireZapper releases the trigger, runs the PPU hit test against the pixel
// currently rendered at the aim point and reports the result onto the
// sensor line.
func (b *Bus) FireZapper() {
	b.zapper.Trigger = false
	setBit(&b.shiftPad2, zapperTriggerBit, 0)

	b.SetLightSensed(b.Ppu.CheckTargetHit(b.zapper.X, b.zapper.Y))
}

// SetLightSensed reports the hit test result back onto the sensor line.
// The line is active low, so a hit clears the register bit.
func (b *Bus) SetLightSensed(hit bool) {
	b.zapper.LightSensed = !hit

	if b.zapper.LightSensed {
		setBit(&b.shiftPad2, zapperLightBit, 1)
	} else {
		setBit(&b.shiftPad2, zapperLightBit, 0)
	}
}
