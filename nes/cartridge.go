package nes

import (
	"os"

	"github.com/pkg/errors"
)

const (
	// CHR / pattern table space on the PPU side.
	chrMinAddr uint16 = 0x0000
	chrMaxAddr uint16 = 0x1FFF

	// PRG ROM window on the CPU side.
	prgRomAddr uint16 = 0x8000

	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024

	inesHeaderSize = 16
)

// iNES file magic: "NES" followed by an MS-DOS EOF.
var inesMagic = [4]byte{'N', 'E', 'S', 0x1A}

// Cartridge holds the program and character ROM of a loaded .nes image and
// the mapper translating bus addresses into bank offsets.
type Cartridge struct {
	PrgRom []byte
	ChrRom []byte

	PrgBanks byte
	ChrBanks byte
	MapperID byte

	mirror Mirror
	mapper Mapper
	chrRAM bool // CHR is RAM, writable through the PPU side.

	// Set by the bus on insertion; mappers with scanline counters raise
	// their interrupt through here.
	assertIRQ func(IRQSource)
}

// NewCartridge loads an iNES image from disk.
func NewCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rom %s", path)
	}

	cart, err := newCartridgeFromBytes(data)
	return cart, errors.Wrapf(err, "loading rom %s", path)
}

func newCartridgeFromBytes(data []byte) (*Cartridge, error) {
	if len(data) < inesHeaderSize {
		return nil, errors.New("image shorter than the iNES header")
	}
	if [4]byte(data[:4]) != inesMagic {
		return nil, errors.New("missing iNES magic")
	}

	prgBanks := data[4]
	chrBanks := data[5]
	flags6 := data[6]
	flags7 := data[7]

	offset := inesHeaderSize
	if flags6&0x04 != 0 {
		// 512-byte trainer precedes the PRG data.
		offset += 512
	}

	prgSize := int(prgBanks) * prgBankSize
	chrSize := int(chrBanks) * chrBankSize
	if len(data) < offset+prgSize+chrSize {
		return nil, errors.Errorf("image truncated: want %d PRG + %d CHR bytes",
			prgSize, chrSize)
	}

	cart := &Cartridge{
		PrgBanks: prgBanks,
		ChrBanks: chrBanks,
		MapperID: (flags7 & 0xF0) | (flags6 >> 4),
	}

	cart.PrgRom = make([]byte, prgSize)
	copy(cart.PrgRom, data[offset:offset+prgSize])

	if chrBanks == 0 {
		// No CHR ROM: the board carries 8KB of CHR RAM instead.
		cart.ChrRom = make([]byte, chrBankSize)
		cart.chrRAM = true
	} else {
		cart.ChrRom = make([]byte, chrSize)
		copy(cart.ChrRom, data[offset+prgSize:offset+prgSize+chrSize])
	}

	if flags6&0x01 != 0 {
		cart.mirror = MirrorVertical
	} else {
		cart.mirror = MirrorHorizontal
	}

	switch cart.MapperID {
	case 0:
		cart.mapper = NewMapper000(prgBanks, chrBanks)
	default:
		return nil, errors.Errorf("unsupported mapper %d", cart.MapperID)
	}

	return cart, nil
}

// Mirroring returns the nametable arrangement requested by the image.
func (c *Cartridge) Mirroring() Mirror {
	return c.mirror
}

// Communicate with main (CPU) bus.
func (c *Cartridge) CpuRead(addr uint16) byte {
	if mapped, ok := c.mapper.cpuMapRead(addr); ok {
		return c.PrgRom[mapped]
	}
	return 0
}

func (c *Cartridge) CpuWrite(addr uint16, data byte) {
	// PRG is ROM on every supported board; mapper registers would decode
	// here for bank-switching boards.
}

// Communicate with PPU bus.
func (c *Cartridge) PpuRead(addr uint16) byte {
	if mapped, ok := c.mapper.ppuMapRead(addr); ok {
		return c.ChrRom[mapped]
	}
	return 0
}

func (c *Cartridge) PpuWrite(addr uint16, data byte) {
	if !c.chrRAM {
		return
	}
	if mapped, ok := c.mapper.ppuMapWrite(addr); ok {
		c.ChrRom[mapped] = data
	}
}
