package nes

import (
	"io"

	"github.com/ebitengine/oto/v3"
)

// Speaker drives the host audio device from the machine's sample ring. The
// oto player pulls data by calling Read from its own goroutine, which is the
// asynchronous audio-callback context: it drains the ring at the device's
// cadence, independent of the emulation and presentation threads.
type Speaker struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *AudioRing

	scratch []int16
}

var _ io.Reader = (*Speaker)(nil)

func NewSpeaker(ring *AudioRing) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &Speaker{
		ctx:     ctx,
		ring:    ring,
		scratch: make([]int16, 2048),
	}
	s.player = ctx.NewPlayer(s)

	return s, nil
}

// Read is the device callback. It never blocks and never errors: an
// underrun comes out as a full buffer of silence, courtesy of the ring.
func (s *Speaker) Read(p []byte) (int, error) {
	n := len(p) / 2
	if len(s.scratch) < n {
		s.scratch = make([]int16, n)
	}
	samples := s.scratch[:n]

	s.ring.ReadInto(samples)

	for i, v := range samples {
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
	}

	return n * 2, nil
}

func (s *Speaker) Play() {
	s.player.Play()
}

func (s *Speaker) Pause() {
	s.player.Pause()
}

func (s *Speaker) Close() error {
	return s.player.Close()
}
