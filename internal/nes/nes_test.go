package nes

import (
	"testing"

	"nesemu/internal/cpu"
)

// instructionCounter counts retired instructions through the CPU's
// optional event sink.
type instructionCounter struct{ n int }

func (c *instructionCounter) OnInstruction(cpu.InstructionEvent) { c.n++ }

// buildNROM constructs a minimal one-bank NROM image with a reset
// vector pointing at the start of PRG-ROM.
func buildNROM() []byte {
	raw := make([]byte, 16+0x4000+0x2000)
	copy(raw, []byte{0x4E, 0x45, 0x53, 0x1A})
	raw[4] = 1 // 16 KiB PRG
	raw[5] = 1 // 8 KiB CHR
	prg := raw[16 : 16+0x4000]
	prg[0x3FFC] = 0x00 // reset vector low -> $8000
	prg[0x3FFD] = 0x80
	return raw
}

func TestEmulateFrameProducesCorrectlySizedBuffer(t *testing.T) {
	n, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	frame, _ := n.EmulateFrame()
	if len(frame) != 256*240*3 {
		t.Fatalf("frame buffer size = %d, want %d", len(frame), 256*240*3)
	}
}

func TestEmulateFrameAdvancesCPUByExpectedTicks(t *testing.T) {
	n, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	before := n.GetProgramCounter()
	_ = before
	// The all-zero PRG, IRQ vector and RAM decode as BRK, which retires in
	// 7 cycles and jumps to $0000, so the CPU loops on BRK. One frame is
	// masterTicksPerFrame/3 = 29780 CPU ticks, which retires 29780/7 = 4254
	// instructions (the last 2 ticks start a 4255th).
	counter := &instructionCounter{}
	n.SetInstructionSink(counter)
	n.SetEntry(0x8000)
	n.EmulateFrame()
	if n.GetProgramCounter() == 0x8000 {
		t.Fatal("expected PC to have advanced after a frame of execution")
	}
	if want := (masterTicksPerFrame / 3) / 7; counter.n != want {
		t.Fatalf("retired %d BRKs in one frame, want %d (%d CPU ticks)", counter.n, want, masterTicksPerFrame/3)
	}
}

func TestInsertAndEjectRoundTripsBatteryRAM(t *testing.T) {
	n, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	n.cpuBus.Write(0x6000, 0x77)
	data := n.Eject()
	if len(data) == 0 || data[0] != 0x77 {
		t.Fatalf("Eject()[0] = %#02x, want 0x77", data[0])
	}
}

func TestInputSetsControllerOneButton(t *testing.T) {
	n, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	n.Input(1, true) // ButtonA
	if !n.joypad.Port1.IsPressed(1) {
		t.Fatal("expected controller 1 button A pressed")
	}
}

func TestReadCPURAMReflectsWrites(t *testing.T) {
	n, err := New(buildNROM())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	n.cpuBus.Write(0x0010, 0x99)
	if got := n.ReadCPURAM(0x0010); got != 0x99 {
		t.Fatalf("ReadCPURAM = %#02x, want 0x99", got)
	}
}
