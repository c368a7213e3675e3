// Package clock implements the six-slot master tick sequencer that
// drives the PPU, CPU, and APU at their fixed ratio, per spec.md §4.1.
package clock

// Ticker is any component advanced by one unit of its own clock.
type Ticker interface {
	Tick()
}

// Sequencer rotates through a six-tick group per spec.md §4.1: the PPU
// ticks every master tick, the CPU every third master tick (the
// standard 3:1 PPU:CPU ratio), and the APU every sixth master tick
// (half the CPU rate).
type Sequencer struct {
	ppu   Ticker
	cpu   Ticker
	apu   Ticker
	count uint64
}

// New creates a sequencer driving the given components.
func New(ppu, cpu, apu Ticker) *Sequencer {
	return &Sequencer{ppu: ppu, cpu: cpu, apu: apu}
}

// Reset returns the sequencer to the start of a six-tick group.
func (s *Sequencer) Reset() { s.count = 0 }

// Tick advances one master tick.
func (s *Sequencer) Tick() {
	s.count++
	s.ppu.Tick()
	if s.count%3 == 0 {
		s.cpu.Tick()
	}
	if s.count%6 == 0 {
		s.apu.Tick()
	}
}
