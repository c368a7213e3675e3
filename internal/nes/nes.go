// Package nes assembles the CPU, PPU, APU, joypad, cartridge, and clock
// into the system container described by spec.md §6's public API.
package nes

import (
	"nesemu/internal/apu"
	"nesemu/internal/bus"
	"nesemu/internal/cartridge"
	"nesemu/internal/clock"
	"nesemu/internal/cpu"
	"nesemu/internal/input"
	"nesemu/internal/ppu"
)

const (
	scanlinesPerFrame   = 262
	dotsPerScanline     = 341
	masterTicksPerFrame = scanlinesPerFrame * dotsPerScanline
)

// indirectAPUBus lets the APU be constructed before the CPU bus it
// reads DMC samples through exists.
type indirectAPUBus struct {
	cpuBus *bus.CPUBus
}

func (b *indirectAPUBus) Read(addr uint16) uint8 { return b.cpuBus.Read(addr) }

// Nes is the top-level emulator container. It owns every component and
// routes bus accesses through the CPU/PPU/APU view objects rather than
// letting components hold back-pointers to one another, per spec.md §9.
type Nes struct {
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	apu    *apu.APU
	joypad *input.Joypad

	cpuBus *bus.CPUBus
	ppuBus *bus.PPUBus

	clock *clock.Sequencer

	cart *cartridge.Cartridge
}

// New creates an emulator and inserts the given cartridge image.
func New(cart []byte) (*Nes, error) {
	n := &Nes{}

	n.ppuBus = bus.NewPPUBus()
	n.ppu = ppu.New(n.ppuBus)

	n.joypad = input.NewJoypad()

	// The APU's DMC channel reads sample bytes through the CPU bus, but
	// the CPU bus also routes $4015/$4000-4017 to the APU — a cyclic
	// dependency. indirectAPUBus breaks the cycle: it's constructed
	// first and pointed at the CPU bus once that's built below, per
	// spec.md §9's container-routing resolution for the CPU<->PPU<->APU
	// cycle.
	apuBus := &indirectAPUBus{}
	n.apu = apu.New(apuBus)
	n.cpuBus = bus.NewCPUBus(n.ppu, n.apu, n.joypad)
	apuBus.cpuBus = n.cpuBus

	n.cpu = cpu.New(n.cpuBus)
	n.ppu.SetNMICallback(n.cpu.TriggerNMI)

	n.clock = clock.New(n.ppu, n.cpu, n.apu)

	if len(cart) > 0 {
		if err := n.Insert(cart); err != nil {
			return nil, err
		}
	}

	n.cpu.Reset()
	n.ppu.Reset()
	n.apu.Reset()
	n.joypad.Reset()
	n.clock.Reset()

	return n, nil
}

// Insert parses and attaches a cartridge image, replacing any
// previously inserted cartridge.
func (n *Nes) Insert(raw []byte) error {
	cart, err := cartridge.Load(raw)
	if err != nil {
		return err
	}
	n.cart = cart
	n.cpuBus.SetCartridge(cart)
	n.ppuBus.SetCartridge(cart)
	return nil
}

// LoadBatteryRAM copies previously ejected save data into the
// cartridge's work-RAM window, per spec.md §6's persistence contract.
// Must be called after Insert.
func (n *Nes) LoadBatteryRAM(data []byte) {
	if n.cart != nil {
		n.cart.LoadWorkRAM(data)
	}
}

// Eject returns the cartridge's battery-backed work RAM ($6000-$7FFF).
func (n *Nes) Eject() []byte {
	if n.cart == nil {
		return nil
	}
	ram := n.cart.WorkRAM()
	out := make([]byte, len(ram))
	copy(out, ram)
	return out
}

// SetEntry overrides the CPU's program counter, used by test harnesses
// that need a fixed entry point (e.g. nestest's $C000).
func (n *Nes) SetEntry(pc uint16) { n.cpu.SetPC(pc) }

// SetDebug toggles debug-mode invariant panics (unknown opcodes).
func (n *Nes) SetDebug(on bool) { n.cpu.SetDebug(on) }

// EmulateFrame runs exactly one frame's worth of master ticks and
// returns the rendered frame buffer and the audio samples produced
// since the previous call, per spec.md §8 property 7.
func (n *Nes) EmulateFrame() ([]byte, []float32) {
	for i := 0; i < masterTicksPerFrame; i++ {
		n.clock.Tick()
	}
	return n.ppu.FrameBuffer(), n.apu.TakeSamples()
}

// Input sets a button's pressed state on controller 1.
func (n *Nes) Input(button input.Button, pressed bool) {
	n.joypad.Port1.SetButton(button, pressed)
}

// ControllerInput sets a button's pressed state on the given
// controller (1 or 2).
func (n *Nes) ControllerInput(which int, button input.Button, pressed bool) {
	switch which {
	case 1:
		n.joypad.Port1.SetButton(button, pressed)
	case 2:
		n.joypad.Port2.SetButton(button, pressed)
	}
}

// RunUntil steps master ticks until the CPU's program counter equals
// pc, for use by test harnesses (e.g. the nestest scenario).
func (n *Nes) RunUntil(pc uint16) {
	for n.cpu.PCValue() != pc {
		n.clock.Tick()
	}
}

// GetProgramCounter returns the CPU's current program counter.
func (n *Nes) GetProgramCounter() uint16 { return n.cpu.PCValue() }

// ReadCPURAM reads a byte through the CPU's address space.
func (n *Nes) ReadCPURAM(addr uint16) uint8 { return n.cpuBus.Read(addr) }

// ReadPPUMemory reads a byte through the PPU's address space.
func (n *Nes) ReadPPUMemory(addr uint16) uint8 { return n.ppuBus.Read(addr) }

// ReadTile returns the nametable byte (tile index) at the given tile
// column/row within one of the four logical nametables.
func (n *Nes) ReadTile(nametable int, x, y int) uint8 {
	base := uint16(0x2000 + nametable*0x400)
	return n.ppuBus.Read(base + uint16(y)*32 + uint16(x))
}

// SetInstructionSink attaches (or, with nil, detaches) the optional
// per-instruction event subscriber, per spec.md §6.
func (n *Nes) SetInstructionSink(sink cpu.InstructionSink) {
	n.cpu.SetInstructionSink(sink)
}
