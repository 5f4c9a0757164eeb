package nes

// Null cores. They satisfy the device interfaces with the cheapest behavior
// that keeps the machine, the pacing loop and the handoff paths running, so
// the harness works headless and before real cores are plugged in.

type CpuNil struct {
	nmi   bool
	steps int
}

func (c *CpuNil) Step()                  { c.steps++ }
func (c *CpuNil) SetNMI(active bool)     { c.nmi = active }
func (c *CpuNil) IsNewInstruction() bool { return true }

// PpuNil counts through real frame geometry (262 scanlines of 341 cycles)
// so the pacing loop sees frames of plausible length, and renders nothing.
type PpuNil struct {
	cycle         int
	scanline      int
	frameComplete bool

	screen [screenPixels]uint32
}

func (p *PpuNil) CpuRead(reg uint16) byte        { return 0 }
func (p *PpuNil) CpuWrite(reg uint16, data byte) {}

func (p *PpuNil) Step() {
	p.cycle++
	if p.cycle >= 341 {
		p.cycle = 0
		p.scanline++

		if p.scanline >= 262 {
			p.scanline = 0
			p.frameComplete = true
		}
	}
}

func (p *PpuNil) BeginFrame()         { p.frameComplete = false }
func (p *PpuNil) FrameComplete() bool { return p.frameComplete }
func (p *PpuNil) Screen() []uint32    { return p.screen[:] }

func (p *PpuNil) CheckTargetHit(x, y int) bool { return false }

func (p *PpuNil) SetZapper(connected bool)     {}
func (p *PpuNil) SetIRQLatch(value byte)       {}
func (p *PpuNil) SetIRQEnable(enabled bool)    {}
func (p *PpuNil) SetIRQReload()                {}
func (p *PpuNil) SetMapper(id byte)            {}
func (p *PpuNil) SetMirroringMode(mode Mirror) {}

type ApuNil struct{}

func (a *ApuNil) Read(addr uint16) byte        { return 0 }
func (a *ApuNil) Write(addr uint16, data byte) {}
func (a *ApuNil) Step()                        {}
func (a *ApuNil) ConnectAudio(ring *AudioRing) {}
