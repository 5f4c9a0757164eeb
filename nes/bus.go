package nes

// Main bus used by the CPU. Decodes addresses into subsystem calls, owns the
// controller-port shift registers and the aggregated IRQ line.
type Bus struct {
	Cpu  Cpu        // Instruction core.
	Ppu  Ppu        // Picture processing unit.
	Apu  Apu        // Audio processing unit.
	Cart *Cartridge // NES Cartridge.

	input *InputState // External pad bitmask, written by the presentation side.

	// Controller port state.
	strobe    bool
	shiftPad1 byte // Port 1 shift register.
	shiftPad2 byte // Port 2 shift register, doubles as the zapper lines.

	zapperConnected bool
	zapper          Zapper

	irqLine IRQSource

	// Diagnostics: accesses that fell outside every mapped range.
	unmappedReads  uint64
	unmappedWrites uint64

	clockCount int
}

const (
	// PPU registers, 8 bytes mirrored through $2000-$3FFF.
	ppuMinAddr   uint16 = 0x2000
	ppuMaxAddr   uint16 = 0x3FFF
	ppuRegMirror uint16 = 0x0007

	// APU and I/O registers.
	ioMinAddr   uint16 = 0x4000
	ioMaxAddr   uint16 = 0x4017
	padPortAddr uint16 = 0x4016 // Controller port 1.
	gunPortAddr uint16 = 0x4017 // Controller port 2 / light gun.

	// Cartridge space.
	cartMinAddr uint16 = 0x4020

	// Reads of the controller ports carry leftover bus voltage on bit 6.
	openBusBit byte = 0x40
)

// Light-gun line positions within the port 2 register.
const (
	zapperLightBit   = 3 // Light sensor, active low.
	zapperTriggerBit = 4 // Trigger.
)

// IRQSource identifies one interrupt source's bit on the shared IRQ line.
type IRQSource byte

const (
	IRQMapper IRQSource = 1 << iota
	IRQFrameCounter
	IRQDMC
)

func NewBus(cpu Cpu, ppu Ppu, apu Apu, input *InputState) *Bus {
	return &Bus{
		Cpu:   cpu,
		Ppu:   ppu,
		Apu:   apu,
		input: input,
	}
}

// Used by the CPU to read data from the main bus at a specified address.
func (b *Bus) CpuRead(addr uint16) byte {
	var data byte

	switch {
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		data = b.Ppu.CpuRead(addr & ppuRegMirror)
	case addr >= ioMinAddr && addr <= ioMaxAddr:
		switch addr {
		case padPortAddr:
			data = b.readPad1()
		case gunPortAddr:
			data = b.readPad2()
		default:
			data = b.Apu.Read(addr)
		}
	case addr >= cartMinAddr:
		data = b.Cart.CpuRead(addr)
	default:
		// Unmapped: reads as zero.
		b.unmappedReads++
	}

	return data
}

// Used by the CPU to write data to the main bus at a specified address.
func (b *Bus) CpuWrite(addr uint16, data byte) {
	switch {
	case addr >= ppuMinAddr && addr <= ppuMaxAddr:
		b.Ppu.CpuWrite(addr&ppuRegMirror, data)
	case addr >= ioMinAddr && addr <= ioMaxAddr:
		if addr == padPortAddr {
			b.writeStrobe(data)
		} else {
			b.Apu.Write(addr, data)
		}
	case addr >= cartMinAddr:
		b.Cart.CpuWrite(addr, data)
	default:
		b.unmappedWrites++
	}
}

// Port 1 serializes the pad 1 shift register one bit per read. While the
// strobe is held high the register is not shifted and every read returns the
// current state of the A button.
func (b *Bus) readPad1() byte {
	data := b.shiftPad1 & 1
	if !b.strobe {
		b.shiftPad1 >>= 1
	}
	return data | openBusBit
}

// Port 2 carries either the pad 2 shift register or, when a light gun is
// connected, the gun's trigger and sensor lines. Gun reads return the whole
// register without shifting and rearm the sensor line as a side effect of
// the read itself, matching the hardware's photodiode behavior.
func (b *Bus) readPad2() byte {
	var data byte

	switch {
	case b.zapperConnected:
		data = b.shiftPad2
		b.zapper.LightSensed = true
	case b.strobe:
		data = b.shiftPad2 & 1
	default:
		data = b.shiftPad2 & 1
		b.shiftPad2 >>= 1
	}

	return data | openBusBit
}

// Writes to $4016 drive the strobe line. The rising transition latches the
// external pad bitmask into the shift registers: low byte into port 1, high
// byte into port 2 unless the light gun owns that port.
func (b *Bus) writeStrobe(data byte) {
	strobe := data&1 != 0

	if strobe && !b.strobe {
		pads := b.input.Buttons()
		b.shiftPad1 = byte(pads)
		if !b.zapperConnected {
			b.shiftPad2 = byte(pads >> 8)
		}
	}

	b.strobe = strobe
}

// Used by the PPU to fetch pattern table data through the cartridge.
func (b *Bus) PpuRead(addr uint16) byte {
	var data byte

	if addr <= chrMaxAddr {
		data = b.Cart.PpuRead(addr)
	}

	return data
}

// Used by the PPU to write pattern table data through the cartridge.
func (b *Bus) PpuWrite(addr uint16, data byte) {
	b.Cart.PpuWrite(addr, data)
}

// AssertIRQ raises one source's bit on the shared IRQ line. Sources assert
// independently; the line stays high until every source has acknowledged.
func (b *Bus) AssertIRQ(src IRQSource) {
	b.irqLine |= src
}

// AckIRQ clears one source's bit, leaving the other sources asserted.
func (b *Bus) AckIRQ(src IRQSource) {
	b.irqLine &^= src
}

// IRQ returns the raw aggregated bitmask. Nonzero means at least one source
// wants CPU attention.
func (b *Bus) IRQ() IRQSource {
	return b.irqLine
}

// NMI relay from the PPU to the CPU core.
func (b *Bus) SetNMI(active bool) {
	b.Cpu.SetNMI(active)
}

func (b *Bus) IsNewInstruction() bool {
	return b.Cpu.IsNewInstruction()
}

// Mapper plumbing relayed to the PPU.
func (b *Bus) SetIRQLatch(value byte)    { b.Ppu.SetIRQLatch(value) }
func (b *Bus) SetIRQEnable(enabled bool) { b.Ppu.SetIRQEnable(enabled) }
func (b *Bus) SetIRQReload()             { b.Ppu.SetIRQReload() }
func (b *Bus) SetMapper(id byte)         { b.Ppu.SetMapper(id) }
func (b *Bus) SetMirroringMode(m Mirror) { b.Ppu.SetMirroringMode(m) }

// Load a cartridge onto the bus. The cartridge is visible from both the CPU
// and PPU sides and may assert mapper IRQs back through the bus.
func (b *Bus) InsertCartridge(cart *Cartridge) {
	b.Cart = cart
	cart.assertIRQ = b.AssertIRQ
}

// SoftReset clears transient protocol state without reallocating: the shift
// registers, the strobe, the IRQ line and any pending NMI.
func (b *Bus) SoftReset() {
	b.Cpu.SetNMI(false)
	b.shiftPad1 = 0
	b.shiftPad2 = 0
	b.strobe = false
	b.irqLine = 0
}

// RunFrame advances emulation by exactly one logical video frame.
func (b *Bus) RunFrame() {
	b.Ppu.BeginFrame()
	for !b.Ppu.FrameComplete() {
		b.Clock()
	}
}

// 1 NES clock cycle. The CPU and APU run 3 times slower than the PPU.
func (b *Bus) Clock() {
	b.Ppu.Step()

	if b.clockCount%3 == 0 {
		b.Cpu.Step()
		b.Apu.Step()
	}

	b.clockCount++
}

// UnmappedReads and UnmappedWrites expose how many accesses decoded to no
// device. Degrading silently is the emulation-compatible behavior; the
// counters make it at least observable.
func (b *Bus) UnmappedReads() uint64  { return b.unmappedReads }
func (b *Bus) UnmappedWrites() uint64 { return b.unmappedWrites }
