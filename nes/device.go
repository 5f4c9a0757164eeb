package nes

// The CPU, PPU and APU cores are pluggable. The bus and the machine only
// depend on the narrow surface below; any core satisfying it can be wired in.

// Cpu is the instruction-execution core as seen from the bus.
type Cpu interface {
	// Step advances the core by one cycle.
	Step()

	// SetNMI drives the non-maskable interrupt line.
	SetNMI(active bool)

	// IsNewInstruction reports whether the core is at an instruction
	// boundary, used to scope per-instruction catch-up.
	IsNewInstruction() bool
}

// Ppu is the scanline rendering core as seen from the bus.
type Ppu interface {
	// Register access relayed from CPU addresses $2000-$3FFF, reg is the
	// register index 0-7 after mirroring.
	CpuRead(reg uint16) byte
	CpuWrite(reg uint16, data byte)

	// Step advances the core by one PPU clock.
	Step()

	// BeginFrame readies the core for a new frame; FrameComplete reports
	// whether the current frame has finished rendering.
	BeginFrame()
	FrameComplete() bool

	// Screen returns the rendered frame as 256x240 packed RGBA pixels.
	// The returned slice is owned by the PPU and only valid to read on the
	// emulation thread; callers copy it out through the frame buffer.
	Screen() []uint32

	// CheckTargetHit tests the currently rendered pixel at the given
	// screen coordinates for light-gun detection.
	CheckTargetHit(x, y int) bool

	// Mapper plumbing relayed through the bus.
	SetZapper(connected bool)
	SetIRQLatch(value byte)
	SetIRQEnable(enabled bool)
	SetIRQReload()
	SetMapper(id byte)
	SetMirroringMode(mode Mirror)
}

// Apu is the sound-synthesis core as seen from the bus. Stepping it streams
// samples into the machine's audio ring as a side effect.
type Apu interface {
	Read(addr uint16) byte
	Write(addr uint16, data byte)
	Step()

	// ConnectAudio hands the core the shared sample ring it produces
	// into. Called once by the machine before the loop starts.
	ConnectAudio(ring *AudioRing)
}

// Mirror is the nametable mirroring arrangement requested by the cartridge.
type Mirror byte

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorSingleLow
	MirrorSingleHigh
)
