package main

import "sync"

// sampleStream adapts the float32 mono samples EmulateFrame returns into
// the little-endian 16-bit stereo PCM stream ebiten's audio.Context
// reads from. It implements io.Reader.
type sampleStream struct {
	mu     sync.Mutex
	buf    []byte
	volume float64
}

func newSampleStream(volume float64) *sampleStream {
	return &sampleStream{volume: volume}
}

// push appends one frame's worth of samples, converting mono float32
// in [-1, 1] to interleaved stereo int16.
func (s *sampleStream) push(samples []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range samples {
		v := float64(f) * s.volume
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		sample := int16(v * 32767)
		lo, hi := byte(sample), byte(sample>>8)
		s.buf = append(s.buf, lo, hi, lo, hi)
	}
}

// Read drains buffered PCM, emitting silence when the emulator hasn't
// produced a frame's samples yet (e.g. during startup).
func (s *sampleStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
