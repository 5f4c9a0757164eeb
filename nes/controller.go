package nes

import (
	"sync/atomic"

	"github.com/faiface/pixel/pixelgl"
)

// Controller button bit positions, shared by both pads. The latch order is
// fixed by hardware: games read A first and Right last.
const (
	bitA = iota
	bitB
	bitSelect
	bitStart
	bitUp
	bitDown
	bitLeft
	bitRight
)

// InputState is the external controller bitmask: one bit per button across
// up to two virtual pads, port 1 in the low byte, port 2 in the high byte.
// The presentation side is the only writer; the bus samples it at strobe
// time. Only the latest value matters, just like real pad hardware.
type InputState struct {
	pads atomic.Uint32
}

// SetButtons publishes the current state of both pads.
func (in *InputState) SetButtons(pads uint16) {
	in.pads.Store(uint32(pads))
}

// Buttons samples the latest published pad state.
func (in *InputState) Buttons() uint16 {
	return uint16(in.pads.Load())
}

// Keyboard binds for pad 1:
/*
	A      ---> J
	B      ---> K
	Select ---> Right Shift
	Start  ---> Enter
	Up     ---> W
	Down   ---> S
	Left   ---> A
	Right  ---> D
*/
var pad1Keys = map[int]pixelgl.Button{
	bitA:      pixelgl.KeyJ,
	bitB:      pixelgl.KeyK,
	bitSelect: pixelgl.KeyRightShift,
	bitStart:  pixelgl.KeyEnter,
	bitUp:     pixelgl.KeyW,
	bitDown:   pixelgl.KeyS,
	bitLeft:   pixelgl.KeyA,
	bitRight:  pixelgl.KeyD,
}

// Keyboard binds for pad 2, arrow keys plus the numpad corner.
var pad2Keys = map[int]pixelgl.Button{
	bitA:      pixelgl.KeyKP2,
	bitB:      pixelgl.KeyKP3,
	bitSelect: pixelgl.KeyKP0,
	bitStart:  pixelgl.KeyKPEnter,
	bitUp:     pixelgl.KeyUp,
	bitDown:   pixelgl.KeyDown,
	bitLeft:   pixelgl.KeyLeft,
	bitRight:  pixelgl.KeyRight,
}

// pollPads builds the 16-bit pad bitmask from the current keyboard state.
func pollPads(win *pixelgl.Window) uint16 {
	var pads uint16

	for bit, key := range pad1Keys {
		if win.Pressed(key) {
			pads |= 1 << bit
		}
	}
	for bit, key := range pad2Keys {
		if win.Pressed(key) {
			pads |= 1 << (bit + 8)
		}
	}

	return pads
}
