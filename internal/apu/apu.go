// Package apu implements the five-channel Audio Processing Unit: channel
// generators, the frame sequencer, and the non-linear mixer, per
// spec.md §4.5.
package apu

// Bus is the APU's view of CPU memory, used only by the DMC channel to
// fetch delta-modulated sample bytes (spec.md §4.7).
type Bus interface {
	Read(addr uint16) uint8
}

// APU drives the five channel generators from a shared frame sequencer
// and mixes their outputs into one sample per CPU tick.
type APU struct {
	bus Bus

	pulse1, pulse2 pulseChannel
	triangle       triangleChannel
	noise          noiseChannel
	dmc            dmcChannel

	seq frameSequencer

	irqRequested bool // set when the DMC or frame sequencer wants a CPU IRQ

	samples []float32
}

// New creates an APU wired to the given CPU bus (for DMC sample fetches).
func New(bus Bus) *APU {
	a := &APU{bus: bus}
	a.noise.shiftRegister = 1
	a.samples = make([]float32, 0, 4096)
	return a
}

// Reset returns the APU to its post-power-up state.
func (a *APU) Reset() {
	*a = APU{bus: a.bus, samples: a.samples[:0]}
	a.noise.shiftRegister = 1
}

// TakeSamples drains and returns the samples mixed since the last call,
// per spec.md §6's per-frame SampleBuffer output.
func (a *APU) TakeSamples() []float32 {
	out := a.samples
	a.samples = make([]float32, 0, 4096)
	return out
}

// Tick advances the APU by one APU cycle. The clock sequencer calls this
// once every sixth master tick — i.e. every second CPU cycle — per
// spec.md §4.1. Pulse/noise/DMC timers tick once per call; the triangle,
// which runs at the CPU rate, ticks twice, per spec.md §4.5, and one
// mixed sample is taken after each of its ticks (one per CPU cycle).
func (a *APU) Tick() {
	a.seq.tick(a)

	tickPulse(&a.pulse1)
	tickPulse(&a.pulse2)
	a.noise.tickTimer()
	a.tickDMC()

	for i := 0; i < 2; i++ {
		a.triangle.tickTimer()
		a.samples = append(a.samples, a.mix())
	}
}

func (a *APU) mix() float32 {
	p1 := a.pulse1.output()
	p2 := a.pulse2.output()
	t := a.triangle.output()
	n := a.noise.output()
	d := a.dmc.outputLevel

	pulseOut := pulseTable[p1+p2]
	tndOut := tndTable[3*uint16(t)+2*uint16(n)+uint16(d)]
	return pulseOut + tndOut
}

// IRQRequested reports whether the frame sequencer or DMC has asserted
// IRQ since the last read.
func (a *APU) IRQRequested() bool { return a.irqRequested }

// ReadStatus implements $4015 reads: channel-active bits plus the
// frame-IRQ and DMC-IRQ flags; reading clears the frame-IRQ flag.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.pulse1.lengthCounter > 0 {
		v |= 0x01
	}
	if a.pulse2.lengthCounter > 0 {
		v |= 0x02
	}
	if a.triangle.lengthCounter > 0 {
		v |= 0x04
	}
	if a.noise.lengthCounter > 0 {
		v |= 0x08
	}
	if a.dmc.bytesRemaining > 0 {
		v |= 0x10
	}
	if a.seq.irqFlag {
		v |= 0x40
	}
	if a.dmc.irqFlag {
		v |= 0x80
	}
	a.seq.irqFlag = false
	a.irqRequested = a.dmc.irqFlag
	return v
}

// WriteStatus implements $4015 writes: per-channel enable, which also
// silences a disabled channel's length counter immediately.
func (a *APU) WriteStatus(value uint8) {
	if value&0x01 == 0 {
		a.pulse1.lengthCounter = 0
	}
	if value&0x02 == 0 {
		a.pulse2.lengthCounter = 0
	}
	if value&0x04 == 0 {
		a.triangle.lengthCounter = 0
	}
	if value&0x08 == 0 {
		a.noise.lengthCounter = 0
	}
	if value&0x10 != 0 {
		if a.dmc.bytesRemaining == 0 {
			a.dmc.restart()
		}
	} else {
		a.dmc.bytesRemaining = 0
	}
	a.dmc.irqFlag = false
}

// WriteRegister dispatches a CPU write to $4000-$4013 to the owning
// channel or the DMC.
func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		writePulseRegister(&a.pulse1, addr-0x4000, value)
	case addr >= 0x4004 && addr <= 0x4007:
		writePulseRegister(&a.pulse2, addr-0x4004, value)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.writeRegister(addr-0x4008, value)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.writeRegister(addr-0x400C, value)
	case addr >= 0x4010 && addr <= 0x4013:
		a.dmc.writeRegister(addr-0x4010, value)
	case addr == 0x4017:
		a.seq.write(value, a)
	}
}

func (a *APU) tickDMC() {
	if a.dmc.tickTimer() {
		if a.dmc.sampleBufferEmpty && a.dmc.bytesRemaining > 0 {
			a.dmc.sampleBuffer = a.bus.Read(a.dmc.currentAddress)
			a.dmc.sampleBufferEmpty = false
			a.dmc.currentAddress++
			if a.dmc.currentAddress == 0 {
				a.dmc.currentAddress = 0x8000
			}
			a.dmc.bytesRemaining--
			if a.dmc.bytesRemaining == 0 {
				if a.dmc.loop {
					a.dmc.restart()
				} else if a.dmc.irqEnable {
					a.dmc.irqFlag = true
					a.irqRequested = true
				}
			}
		}
	}
}

// clockEnvelopesAndLinear clocks the envelope units and the triangle's
// linear counter, the sequencer's "EnvelopeAndLinear" event.
func (a *APU) clockEnvelopesAndLinear() {
	a.pulse1.envelope.clock(a.pulse1.lengthHalt)
	a.pulse2.envelope.clock(a.pulse2.lengthHalt)
	a.noise.envelope.clock(a.noise.lengthHalt)
	a.triangle.clockLinear()
}

// clockLengthAndSweep clocks the length counters and sweep units, the
// sequencer's "LengthAndSweep" event.
func (a *APU) clockLengthAndSweep() {
	clockLength(&a.pulse1.lengthCounter, a.pulse1.lengthHalt)
	clockLength(&a.pulse2.lengthCounter, a.pulse2.lengthHalt)
	clockLength(&a.triangle.lengthCounter, a.triangle.lengthHalt)
	clockLength(&a.noise.lengthCounter, a.noise.lengthHalt)
	a.pulse1.sweep.clock(&a.pulse1.timer, false)
	a.pulse2.sweep.clock(&a.pulse2.timer, true)
}

func clockLength(counter *uint8, halt bool) {
	if !halt && *counter > 0 {
		*counter--
	}
}
