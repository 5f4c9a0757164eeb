package nes

// Mapper translates bus addresses into ROM offsets. The bool reports whether
// the given address was successfully mapped.
type Mapper interface {
	cpuMapRead(addr uint16) (uint16, bool)
	cpuMapWrite(addr uint16) (uint16, bool)
	ppuMapRead(addr uint16) (uint16, bool)
	ppuMapWrite(addr uint16) (uint16, bool)
}
