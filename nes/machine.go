package nes

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Frames per second driven by the pacing loop.
	defaultFPS = 60

	// Margin subtracted from the pacing sleep so the loop never oversleeps
	// past the next tick.
	sleepMargin = time.Millisecond
)

// Machine owns every subsystem and all the state shared across threads: the
// running flag, the frame handoff, the audio ring and the pad bitmask.
// Everything the emulation loop, the bus and the presentation adapter touch
// hangs off this one context object.
type Machine struct {
	Bus   *Bus
	Input *InputState
	Frame *FrameBuffer
	Audio *AudioRing

	speaker *Speaker // nil when running muted or headless.

	running   atomic.Bool
	paused    atomic.Bool
	frameTime atomic.Int64 // Target frame period in nanoseconds.
	fps       atomic.Int32 // Frames completed in the last wall second.

	loaded bool // Cartridge inserted; set before the loop starts.

	wg sync.WaitGroup
}

// NewMachine wires the given cores onto a fresh bus and allocates the
// frame and audio buffers, which live for the rest of the process.
func NewMachine(cpu Cpu, ppu Ppu, apu Apu) *Machine {
	m := &Machine{
		Input: &InputState{},
		Frame: &FrameBuffer{},
		Audio: &AudioRing{},
	}
	m.Bus = NewBus(cpu, ppu, apu, m.Input)
	m.frameTime.Store(int64(time.Second / defaultFPS))

	// The APU produces straight into the shared ring; the speaker's device
	// callback is the only consumer.
	apu.ConnectAudio(m.Audio)

	return m
}

// InsertCartridge loads a game onto the bus. Must happen before Start.
func (m *Machine) InsertCartridge(cart *Cartridge) {
	m.Bus.InsertCartridge(cart)
	m.loaded = true
}

// ConnectSpeaker attaches a host audio device draining the sample ring.
func (m *Machine) ConnectSpeaker(s *Speaker) {
	m.speaker = s
}

// Start launches the emulation thread. The loop runs until Stop flips the
// running flag.
func (m *Machine) Start() {
	m.running.Store(true)
	if m.speaker != nil {
		m.speaker.Play()
	}

	m.wg.Add(1)
	go m.runEmulation()
}

// Stop requests cooperative shutdown and joins the emulation thread.
func (m *Machine) Stop() {
	m.running.Store(false)
	m.wg.Wait()

	if m.speaker != nil {
		m.speaker.Close()
	}
}

// Running reports whether the machine has not been shut down. The
// presentation side polls this once per render pass.
func (m *Machine) Running() bool {
	return m.running.Load()
}

// The pacing loop: one logical frame of emulation per iteration, frame
// handoff under lock, an FPS snapshot once per wall second, then sleep off
// the rest of the frame period. Drift is only recovered within a single
// iteration.
func (m *Machine) runEmulation() {
	defer m.wg.Done()

	lastSecond := time.Now()
	frames := 0

	for m.running.Load() {
		frameStart := time.Now()

		if m.loaded && !m.paused.Load() {
			m.Bus.RunFrame()
		}

		m.Frame.Commit(m.Bus.Ppu.Screen())

		frames++
		if now := time.Now(); now.Sub(lastSecond) >= time.Second {
			m.fps.Store(int32(frames))
			frames = 0
			lastSecond = now
		}

		elapsed := time.Since(frameStart)
		if target := m.FrameTime(); elapsed+sleepMargin < target {
			time.Sleep(target - elapsed - sleepMargin)
		}
	}
}

// FrameTime returns the target frame period.
func (m *Machine) FrameTime() time.Duration {
	return time.Duration(m.frameTime.Load())
}

// SetFrameTime retargets the pacing loop at runtime. The loop picks the new
// period up on its next iteration without any handshake.
func (m *Machine) SetFrameTime(d time.Duration) {
	m.frameTime.Store(int64(d))
}

// TogglePause suspends or resumes emulation. The loop keeps ticking so the
// presentation side still gets frames; stepping and audio stop.
func (m *Machine) TogglePause() {
	paused := !m.paused.Load()
	m.paused.Store(paused)

	if m.speaker != nil {
		if paused {
			m.speaker.Pause()
		} else {
			m.speaker.Play()
		}
	}
}

func (m *Machine) Paused() bool {
	return m.paused.Load()
}

// SoftReset clears transient protocol state and restarts the loaded game.
func (m *Machine) SoftReset() {
	m.Bus.SoftReset()
}

// ToggleZapper connects or disconnects the light gun on port 2.
func (m *Machine) ToggleZapper() {
	m.Bus.SetZapper(!m.Bus.ZapperConnected())
}

// FPS returns the frame count from the last completed wall second.
func (m *Machine) FPS() int {
	return int(m.fps.Load())
}

// GameLoaded reports whether a cartridge has been inserted.
func (m *Machine) GameLoaded() bool {
	return m.loaded
}
