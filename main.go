package main

import (
	"flag"
	"log"

	"github.com/pmonteleone/nesgo/nes"

	"github.com/faiface/pixel/pixelgl"
)

// Command line flags
var (
	flagRom    string
	flagScale  float64
	flagZapper bool
	flagMute   bool
)

func main() {
	parseFlags()

	// The machine runs with the null cores until real CPU/PPU/APU cores
	// are plugged in through the nes device interfaces.
	machine := nes.NewMachine(&nes.CpuNil{}, &nes.PpuNil{}, &nes.ApuNil{})

	if flagRom != "" {
		cart, err := nes.NewCartridge(flagRom)
		if err != nil {
			log.Fatalf("Unable to load cartridge: %v\n", err)
		}
		machine.InsertCartridge(cart)
	}

	if !flagMute {
		speaker, err := nes.NewSpeaker(machine.Audio)
		if err != nil {
			log.Fatalf("Unable to open audio device: %v\n", err)
		}
		machine.ConnectSpeaker(speaker)
	}

	if flagZapper {
		machine.Bus.SetZapper(true)
	}

	pixelgl.Run(func() {
		display, err := nes.NewDisplay(flagScale)
		if err != nil {
			log.Fatalf("Unable to create window: %v\n", err)
		}

		machine.Start()
		display.Run(machine)
	})
}

func parseFlags() {
	flag.StringVar(&flagRom, "rom", "", "path to an iNES rom image")
	flag.Float64Var(&flagScale, "scale", 3, "window scale factor")
	flag.BoolVar(&flagZapper, "zapper", false, "connect the light gun on port 2")
	flag.BoolVar(&flagMute, "mute", false, "disable audio output")

	flag.Parse()
}
