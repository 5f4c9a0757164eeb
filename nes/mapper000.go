package nes

type Mapper000 struct {
	PrgBanks byte
	ChrBanks byte
}

func NewMapper000(prgRomChunks, chrRomChunks byte) Mapper000 {
	return Mapper000{
		PrgBanks: prgRomChunks,
		ChrBanks: chrRomChunks,
	}
}

// Address Mapping
//
// if 16KB ROM size:
// 	 0x8000-0xBFFF -> 0x0000-0x3FFF
//   0xC000-0xFFFF -> 0x0000-0x3FFF (mirror)
//
// if 32KB ROM size:
//   0x8000-0xFFFF -> 0x0000-0x7FFF

func (m Mapper000) cpuMapRead(addr uint16) (uint16, bool) {
	if addr >= prgRomAddr {
		if m.PrgBanks > 1 {
			return addr & 0x7FFF, true // 32KB ROM
		}
		return addr & 0x3FFF, true // 16KB ROM, need to mirror
	}

	return 0, false
}

func (m Mapper000) cpuMapWrite(addr uint16) (uint16, bool) {
	// PRG is ROM, writes never map.
	return 0, false
}

func (m Mapper000) ppuMapRead(addr uint16) (uint16, bool) {
	if addr <= chrMaxAddr {
		return addr, true
	}

	return 0, false
}

func (m Mapper000) ppuMapWrite(addr uint16) (uint16, bool) {
	// CHR writes only land on boards with CHR RAM; the cartridge gates
	// that, the address maps straight through.
	if addr <= chrMaxAddr {
		return addr, true
	}

	return 0, false
}
