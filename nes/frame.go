package nes

import "sync"

const (
	// Main NES display resolution.
	ScreenWidth  = 256
	ScreenHeight = 240

	screenPixels = ScreenWidth * ScreenHeight
)

// FrameBuffer is the handoff point between the emulation thread and the
// presentation thread: one completed 256x240 frame of packed RGBA pixels.
// Ownership transfers by copy under the mutex, never by aliasing, so the
// consumer can never observe a partially written frame. The critical
// sections are copy-only.
type FrameBuffer struct {
	mu     sync.Mutex
	pixels [screenPixels]uint32
}

// Commit copies a completed frame in. Called once per frame tick by the
// emulation thread.
func (f *FrameBuffer) Commit(src []uint32) {
	f.mu.Lock()
	copy(f.pixels[:], src)
	f.mu.Unlock()
}

// CopyOut copies the latest committed frame into dst, which must hold
// 256*240 pixels. Called by the presentation thread.
func (f *FrameBuffer) CopyOut(dst []uint32) {
	f.mu.Lock()
	copy(dst, f.pixels[:])
	f.mu.Unlock()
}
