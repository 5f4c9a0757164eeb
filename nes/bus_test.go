package nes

import (
	"testing"
)

// Recording fakes built on the null cores.

type fakeCpu struct {
	CpuNil
	nmiCalls []bool
}

func (c *fakeCpu) SetNMI(active bool) {
	c.nmiCalls = append(c.nmiCalls, active)
	c.CpuNil.SetNMI(active)
}

type ppuAccess struct {
	reg  uint16
	data byte
}

type fakePpu struct {
	PpuNil
	reads  []uint16
	writes []ppuAccess
	hits   [][2]int
	hit    bool // result reported by the next hit test
}

func (p *fakePpu) CpuRead(reg uint16) byte {
	p.reads = append(p.reads, reg)
	return 0
}

func (p *fakePpu) CpuWrite(reg uint16, data byte) {
	p.writes = append(p.writes, ppuAccess{reg, data})
}

func (p *fakePpu) CheckTargetHit(x, y int) bool {
	p.hits = append(p.hits, [2]int{x, y})
	return p.hit
}

type fakeApu struct {
	ApuNil
	reads  []uint16
	writes []ppuAccess
}

func (a *fakeApu) Read(addr uint16) byte {
	a.reads = append(a.reads, addr)
	return 0
}

func (a *fakeApu) Write(addr uint16, data byte) {
	a.writes = append(a.writes, ppuAccess{addr, data})
}

func newTestBus(t *testing.T) (*Bus, *fakeCpu, *fakePpu, *fakeApu) {
	t.Helper()

	cpu := &fakeCpu{}
	ppu := &fakePpu{}
	apu := &fakeApu{}

	bus := NewBus(cpu, ppu, apu, &InputState{})

	cart, err := newCartridgeFromBytes(makeTestRom(1, 1, 0))
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	bus.InsertCartridge(cart)

	return bus, cpu, ppu, apu
}

// Every address decodes to exactly one of PPU, controller ports, APU,
// cartridge or unmapped.
func TestBusReadRouting(t *testing.T) {
	tests := []struct {
		addr uint16
		want string
	}{
		{0x0000, "unmapped"},
		{0x1FFF, "unmapped"},
		{0x2000, "ppu"},
		{0x2008, "ppu"}, // mirrored
		{0x3FFF, "ppu"},
		{0x4000, "apu"},
		{0x4015, "apu"},
		{0x4016, "pad"},
		{0x4017, "pad"},
		{0x4018, "unmapped"},
		{0x401F, "unmapped"},
		{0x4020, "cart"},
		{0x8000, "cart"},
		{0xFFFF, "cart"},
	}

	for _, test := range tests {
		bus, _, ppu, apu := newTestBus(t)
		unmappedBefore := bus.UnmappedReads()

		data := bus.CpuRead(test.addr)

		var got string
		switch {
		case len(ppu.reads) > 0:
			got = "ppu"
		case len(apu.reads) > 0:
			got = "apu"
		case data&openBusBit != 0:
			got = "pad"
		case bus.UnmappedReads() > unmappedBefore:
			got = "unmapped"
		default:
			got = "cart"
		}

		if got != test.want {
			t.Errorf("read %#04X routed to %s, want %s", test.addr, got, test.want)
		}
	}
}

func TestBusWriteRouting(t *testing.T) {
	bus, _, ppu, apu := newTestBus(t)

	bus.CpuWrite(0x2001, 0xAB)
	if len(ppu.writes) != 1 || ppu.writes[0] != (ppuAccess{0x0001, 0xAB}) {
		t.Errorf("PPU write not routed: %v", ppu.writes)
	}

	bus.CpuWrite(0x4000, 0xCD)
	if len(apu.writes) != 1 || apu.writes[0] != (ppuAccess{0x4000, 0xCD}) {
		t.Errorf("APU write not routed: %v", apu.writes)
	}

	bus.CpuWrite(0x1000, 0xEF)
	if bus.UnmappedWrites() != 1 {
		t.Errorf("unmapped write not counted, got %d", bus.UnmappedWrites())
	}
}

// PPU register mirroring: $2000-$3FFF exposes 8 registers repeated.
func TestBusPpuRegisterMirroring(t *testing.T) {
	bus, _, ppu, _ := newTestBus(t)

	for _, addr := range []uint16{0x2002, 0x200A, 0x3FFA} {
		bus.CpuRead(addr)
	}

	for i, reg := range ppu.reads {
		if reg != 0x0002 {
			t.Errorf("read %d decoded register %#X, want 0x2", i, reg)
		}
	}
}

// The documented example: A pressed, latched via strobe. The first read of
// $4016 returns 0x41, the second 0x40.
func TestControllerExampleScenario(t *testing.T) {
	bus, _, _, _ := newTestBus(t)
	bus.input.SetButtons(0b00000001)

	bus.CpuWrite(0x4016, 1)
	bus.CpuWrite(0x4016, 0)

	if got := bus.CpuRead(0x4016); got != 0x41 {
		t.Errorf("first read = %#02X, want 0x41", got)
	}
	if got := bus.CpuRead(0x4016); got != 0x40 {
		t.Errorf("second read = %#02X, want 0x40", got)
	}
}

// Eight reads serialize the latched byte least-significant bit first, each
// carrying the open bus bit. A ninth read shifts out zeros.
func TestControllerSerialization(t *testing.T) {
	const pads = 0xA5

	bus, _, _, _ := newTestBus(t)
	bus.input.SetButtons(pads)

	bus.CpuWrite(0x4016, 1)
	bus.CpuWrite(0x4016, 0)

	for i := 0; i < 8; i++ {
		want := (byte(pads)>>i)&1 | openBusBit
		if got := bus.CpuRead(0x4016); got != want {
			t.Errorf("read %d = %#02X, want %#02X", i, got, want)
		}
	}

	if got := bus.CpuRead(0x4016); got != openBusBit {
		t.Errorf("ninth read = %#02X, want %#02X", got, openBusBit)
	}
}

// While the strobe is held high, reads keep returning the A button without
// shifting.
func TestControllerStrobeHigh(t *testing.T) {
	bus, _, _, _ := newTestBus(t)
	bus.input.SetButtons(0x01)

	bus.CpuWrite(0x4016, 1)

	for i := 0; i < 4; i++ {
		if got := bus.CpuRead(0x4016); got != 0x41 {
			t.Errorf("strobed read %d = %#02X, want 0x41", i, got)
		}
	}
}

// The high byte of the pad bitmask latches into port 2.
func TestControllerPort2(t *testing.T) {
	bus, _, _, _ := newTestBus(t)
	bus.input.SetButtons(0x0300) // pad 2: A and B

	bus.CpuWrite(0x4016, 1)
	bus.CpuWrite(0x4016, 0)

	if got := bus.CpuRead(0x4017); got != 0x41 {
		t.Errorf("port 2 first read = %#02X, want 0x41", got)
	}
	if got := bus.CpuRead(0x4017); got != 0x41 {
		t.Errorf("port 2 second read = %#02X, want 0x41", got)
	}
	if got := bus.CpuRead(0x4017); got != 0x40 {
		t.Errorf("port 2 third read = %#02X, want 0x40", got)
	}
}

// Latching only happens on the rising strobe edge.
func TestControllerLatchOnRisingEdge(t *testing.T) {
	bus, _, _, _ := newTestBus(t)

	bus.input.SetButtons(0x01)
	bus.CpuWrite(0x4016, 1)

	// Button state changes while the strobe stays high; a second write of 1
	// is not a rising edge, so the register keeps the first latch.
	bus.input.SetButtons(0x00)
	bus.CpuWrite(0x4016, 1)
	bus.CpuWrite(0x4016, 0)

	if got := bus.CpuRead(0x4016); got != 0x41 {
		t.Errorf("first read = %#02X, want 0x41 from the original latch", got)
	}
}

func TestIRQAggregation(t *testing.T) {
	bus, _, _, _ := newTestBus(t)

	bus.AssertIRQ(IRQMapper)
	bus.AssertIRQ(IRQFrameCounter)

	if got := bus.IRQ(); got != IRQMapper|IRQFrameCounter {
		t.Errorf("IRQ line = %#02X, want both sources", got)
	}

	bus.AckIRQ(IRQMapper)
	if got := bus.IRQ(); got != IRQFrameCounter {
		t.Errorf("IRQ line after ack = %#02X, want %#02X", got, IRQFrameCounter)
	}

	bus.AckIRQ(IRQFrameCounter)
	if got := bus.IRQ(); got != 0 {
		t.Errorf("IRQ line = %#02X, want 0 after all sources acknowledged", got)
	}

	// Re-acknowledging an inactive source stays a no-op.
	bus.AckIRQ(IRQDMC)
	if got := bus.IRQ(); got != 0 {
		t.Errorf("IRQ line = %#02X, want 0", got)
	}
}

func TestSoftResetClearsProtocolState(t *testing.T) {
	bus, cpu, _, _ := newTestBus(t)

	bus.input.SetButtons(0xFFFF)
	bus.CpuWrite(0x4016, 1)
	bus.AssertIRQ(IRQMapper)

	bus.SoftReset()

	if bus.shiftPad1 != 0 || bus.shiftPad2 != 0 {
		t.Error("shift registers survived soft reset")
	}
	if bus.strobe {
		t.Error("strobe survived soft reset")
	}
	if bus.IRQ() != 0 {
		t.Error("IRQ line survived soft reset")
	}
	if n := len(cpu.nmiCalls); n == 0 || cpu.nmiCalls[n-1] != false {
		t.Error("soft reset did not clear the pending NMI")
	}
}

// The PPU-side relay forwards pattern table addresses to the cartridge and
// nothing else.
func TestBusPpuRelay(t *testing.T) {
	bus, _, _, _ := newTestBus(t)

	if got := bus.PpuRead(0x0000); got != bus.Cart.PpuRead(0x0000) {
		t.Errorf("pattern table read = %#02X, want cartridge data", got)
	}
	if got := bus.PpuRead(0x2000); got != 0 {
		t.Errorf("read above CHR space = %#02X, want 0", got)
	}
}

func TestBusClockRatio(t *testing.T) {
	bus, cpu, _, _ := newTestBus(t)

	for i := 0; i < 9; i++ {
		bus.Clock()
	}

	if cpu.steps != 3 {
		t.Errorf("CPU stepped %d times over 9 PPU clocks, want 3", cpu.steps)
	}
}
