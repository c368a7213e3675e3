package apu

// frameSequencer clocks the envelope/linear-counter and length/sweep
// units on a fixed schedule, in either 4-step or 5-step mode, per
// spec.md §4.5. Counts are in APU cycles: the clock sequencer drives
// APU.Tick once every sixth master tick (every second CPU cycle), so
// these match spec.md's literal 3728/7456/11185/14914/18640 figures.
type frameSequencer struct {
	mode       uint8 // 0 = four-step, 1 = five-step
	irqInhibit bool
	irqFlag    bool
	cycle      uint32
}

const (
	seqStep1 = 3728
	seqStep2 = 7456
	seqStep3 = 11185
	seqStep4 = 14914
	seqStep5 = 18640
)

func (s *frameSequencer) write(value uint8, a *APU) {
	s.mode = value >> 7
	s.irqInhibit = value&0x40 != 0
	if s.irqInhibit {
		s.irqFlag = false
	}
	s.cycle = 0
	// A write resets the divider; if in five-step mode it immediately
	// clocks both units, matching the real 2A03's documented behavior.
	if s.mode == 1 {
		a.clockEnvelopesAndLinear()
		a.clockLengthAndSweep()
	}
}

func (s *frameSequencer) tick(a *APU) {
	s.cycle++
	if s.mode == 0 {
		switch s.cycle {
		case seqStep1:
			a.clockEnvelopesAndLinear()
		case seqStep2:
			a.clockEnvelopesAndLinear()
			a.clockLengthAndSweep()
		case seqStep3:
			a.clockEnvelopesAndLinear()
		case seqStep4:
			if !s.irqInhibit {
				s.irqFlag = true
				a.irqRequested = true
			}
			a.clockEnvelopesAndLinear()
			a.clockLengthAndSweep()
			s.cycle = 0
		}
		return
	}
	switch s.cycle {
	case seqStep1:
		a.clockEnvelopesAndLinear()
	case seqStep2:
		a.clockEnvelopesAndLinear()
		a.clockLengthAndSweep()
	case seqStep3:
		a.clockEnvelopesAndLinear()
	case seqStep4:
		// no-op step in five-step mode
	case seqStep5:
		a.clockEnvelopesAndLinear()
		a.clockLengthAndSweep()
		s.cycle = 0
	}
}
