package nes

import (
	"testing"
	"time"
)

func newTestMachine(t *testing.T) (*Machine, *fakeScreenPpu) {
	t.Helper()

	ppu := &fakeScreenPpu{}
	m := NewMachine(&CpuNil{}, ppu, &ApuNil{})

	cart, err := newCartridgeFromBytes(makeTestRom(1, 1, 0))
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	m.InsertCartridge(cart)

	return m, ppu
}

// fakeScreenPpu completes a frame per step and paints the whole screen with
// the frame number, so tests can see which frames reached the handoff.
type fakeScreenPpu struct {
	PpuNil
	frames uint32
}

func (p *fakeScreenPpu) BeginFrame() {
	p.frames++
	for i := range p.screen {
		p.screen[i] = p.frames
	}
	p.PpuNil.BeginFrame()
}

func (p *fakeScreenPpu) Step() {
	p.frameComplete = true
}

func TestMachineRunsAndStops(t *testing.T) {
	m, ppu := newTestMachine(t)
	m.SetFrameTime(time.Millisecond)

	m.Start()
	if !m.Running() {
		t.Fatal("machine not running after Start")
	}

	time.Sleep(100 * time.Millisecond)
	m.Stop()

	if m.Running() {
		t.Error("machine still running after Stop")
	}
	if ppu.frames == 0 {
		t.Error("no frames emulated while running")
	}

	// The last committed frame made it through the handoff intact.
	dst := make([]uint32, screenPixels)
	m.Frame.CopyOut(dst)

	first := dst[0]
	if first == 0 {
		t.Fatal("no frame committed to the handoff")
	}
	for i, p := range dst {
		if p != first {
			t.Fatalf("torn frame in handoff: pixel 0 = %d, pixel %d = %d", first, i, p)
		}
	}
}

func TestMachinePauseStopsStepping(t *testing.T) {
	m, ppu := newTestMachine(t)
	m.SetFrameTime(time.Millisecond)

	m.TogglePause()
	if !m.Paused() {
		t.Fatal("machine not paused after toggle")
	}

	m.Start()
	time.Sleep(50 * time.Millisecond)

	if ppu.frames != 0 {
		t.Errorf("emulated %d frames while paused, want 0", ppu.frames)
	}

	m.TogglePause()
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	if ppu.frames == 0 {
		t.Error("no frames emulated after unpausing")
	}
}

func TestMachineFrameTimeRetarget(t *testing.T) {
	m, _ := newTestMachine(t)

	if got := m.FrameTime(); got != time.Second/defaultFPS {
		t.Errorf("default frame time = %v, want %v", got, time.Second/defaultFPS)
	}

	m.SetFrameTime(2 * time.Second / defaultFPS)
	if got := m.FrameTime(); got != 2*time.Second/defaultFPS {
		t.Errorf("frame time = %v after retarget, want %v", got, 2*time.Second/defaultFPS)
	}
}

// fakeAudioApu produces one sample per step, like a real core streaming
// into the ring as a side effect of being clocked.
type fakeAudioApu struct {
	ApuNil
	ring *AudioRing
}

func (a *fakeAudioApu) ConnectAudio(ring *AudioRing) { a.ring = ring }
func (a *fakeAudioApu) Step()                        { a.ring.WriteSample(0x7F) }

// The machine hands the APU its sample ring, and clocking the bus streams
// samples all the way through to the speaker's consumer side.
func TestMachineConnectsApuToAudioRing(t *testing.T) {
	apu := &fakeAudioApu{}
	m := NewMachine(&CpuNil{}, &PpuNil{}, apu)

	if apu.ring != m.Audio {
		t.Fatal("APU not connected to the machine's audio ring")
	}

	// The APU steps on every third bus clock.
	for i := 0; i < 6; i++ {
		m.Bus.Clock()
	}

	if got := m.Audio.Buffered(); got != 2 {
		t.Fatalf("Buffered() = %d after 6 bus clocks, want 2", got)
	}

	out := make([]int16, 2)
	if !m.Audio.ReadInto(out) {
		t.Fatal("ring read reported underrun")
	}
	for i, s := range out {
		if s != 0x7F {
			t.Errorf("sample %d = %#02X, want 0x7F", i, s)
		}
	}
}

func TestMachineToggleZapper(t *testing.T) {
	m, _ := newTestMachine(t)

	if m.Bus.ZapperConnected() {
		t.Fatal("zapper connected by default")
	}

	m.ToggleZapper()
	if !m.Bus.ZapperConnected() {
		t.Error("zapper not connected after toggle")
	}

	m.ToggleZapper()
	if m.Bus.ZapperConnected() {
		t.Error("zapper still connected after second toggle")
	}
}
