package nes

import "sync/atomic"

const (
	// Ring capacity in samples. Power of two so positions wrap by masking;
	// about 185ms of mono 16-bit audio at 44.1kHz, generous enough that
	// overruns just overwrite the oldest samples.
	audioRingSize = 8192
	audioRingMask = audioRingSize - 1

	// SampleRate is the audio stream rate in Hz.
	SampleRate = 44100
)

// AudioRing is a single-producer/single-consumer circular buffer of signed
// 16-bit samples. The emulation thread is the only writer of writePos and
// the audio-device callback is the only reader advancing readPos; that
// ownership split is what makes the ring lock-free, so it must not gain a
// second writer or reader. Positions count samples monotonically and are
// wrapped by masking on access, which keeps write-read an exact unread
// count with no full/empty ambiguity.
type AudioRing struct {
	buf [audioRingSize]int16

	writePos atomic.Uint32 // Advanced only by the producer.
	readPos  atomic.Uint32 // Advanced only by the consumer.

	underruns atomic.Uint64
}

// Write appends one frame tick's worth of samples. There is no backpressure:
// if the consumer has fallen more than a full ring behind, the oldest
// samples are overwritten.
func (r *AudioRing) Write(samples []int16) {
	w := r.writePos.Load()
	for _, s := range samples {
		r.buf[w&audioRingMask] = s
		w++
	}
	r.writePos.Store(w)
}

// WriteSample appends a single sample, for cores that emit one at a time.
func (r *AudioRing) WriteSample(s int16) {
	w := r.writePos.Load()
	r.buf[w&audioRingMask] = s
	r.writePos.Store(w + 1)
}

// ReadInto fills out from the ring. When enough samples are buffered the
// copy is split in two around the wraparound point and readPos advances;
// on underrun the whole request is silence-filled and readPos is left
// untouched so the stream resumes where it left off.
func (r *AudioRing) ReadInto(out []int16) bool {
	w := r.writePos.Load()
	rd := r.readPos.Load()

	// A request larger than the ring can never be served from it, even
	// when a lapped producer makes write-read look big enough.
	n := uint32(len(out))
	if n > audioRingSize || w-rd < n {
		r.underruns.Add(1)
		for i := range out {
			out[i] = 0
		}
		return false
	}

	start := rd & audioRingMask
	if start+n > audioRingSize {
		first := audioRingSize - start
		copy(out, r.buf[start:])
		copy(out[first:], r.buf[:n-first])
	} else {
		copy(out, r.buf[start:start+n])
	}

	r.readPos.Store(rd + n)
	return true
}

// Buffered returns the number of unread samples.
func (r *AudioRing) Buffered() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Underruns returns how many read requests have been silence-filled.
func (r *AudioRing) Underruns() uint64 {
	return r.underruns.Load()
}
