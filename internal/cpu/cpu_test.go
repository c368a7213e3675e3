package cpu

import "testing"

// mockBus is a flat 64KB address space standing in for the real bus
// adapter, following the teacher's MockMemory pattern.
type mockBus struct {
	data [0x10000]uint8
}

func (m *mockBus) Read(addr uint16) uint8       { return m.data[addr] }
func (m *mockBus) Write(addr uint16, v uint8)   { m.data[addr] = v }
func (m *mockBus) setBytes(addr uint16, vs ...uint8) {
	for i, v := range vs {
		m.data[addr+uint16(i)] = v
	}
}

// newTestCPU wires a CPU to a fresh mock bus with the reset vector pointed
// at 0x8000, then runs it through Reset.
func newTestCPU() (*CPU, *mockBus) {
	bus := &mockBus{}
	bus.setBytes(0xFFFC, 0x00, 0x80)
	c := New(bus)
	c.Reset()
	return c, bus
}

// run ticks the CPU until it returns to phaseFetch for the nth time,
// i.e. until n instructions have fully retired.
func run(c *CPU, instructions int) {
	for i := 0; i < instructions; i++ {
		c.Tick() // fetch
		for c.phase == phaseExecute {
			c.Tick()
		}
	}
}

func TestResetVectorAndInitialState(t *testing.T) {
	c, _ := newTestCPU()
	if c.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want 0x8000", c.PC)
	}
	if c.SP != 0xFD {
		t.Fatalf("SP = %#02x, want 0xFD", c.SP)
	}
	if c.P&flagU == 0 {
		t.Fatal("unused flag should be set after reset")
	}
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA9, 0x00, 0xA9, 0x80)
	run(c, 1)
	if c.A != 0 || c.P&flagZ == 0 {
		t.Fatalf("LDA #0: A=%#02x P=%#02x, want A=0 Z set", c.A, c.P)
	}
	run(c, 1)
	if c.A != 0x80 || c.P&flagN == 0 {
		t.Fatalf("LDA #$80: A=%#02x P=%#02x, want A=0x80 N set", c.A, c.P)
	}
}

func TestADCCarryAndOverflow(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA9, 0x7F, 0x69, 0x01) // LDA #$7F; ADC #$01
	run(c, 2)
	if c.A != 0x80 {
		t.Fatalf("A = %#02x, want 0x80", c.A)
	}
	if c.P&flagV == 0 {
		t.Fatal("expected overflow flag set on signed 127+1")
	}
	if c.P&flagC != 0 {
		t.Fatal("expected no carry out of 127+1")
	}
}

func TestSBCBorrow(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA9, 0x00, 0x38, 0xE9, 0x01) // LDA #0; SEC; SBC #1
	run(c, 3)
	if c.A != 0xFF {
		t.Fatalf("A = %#02x, want 0xFF", c.A)
	}
	if c.P&flagC != 0 {
		t.Fatal("expected carry clear (borrow occurred)")
	}
}

func TestBranchNotTakenCostsTwoCycles(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x38, 0xD0, 0x05) // SEC; BNE +5
	run(c, 1)
	c.P |= flagZ // BNE branches on Z clear, so this forces not-taken
	c.Tick() // fetch BNE
	if c.cur.budget != 2 {
		t.Fatalf("budget = %d, want 2 for a not-taken branch", c.cur.budget)
	}
}

func TestBranchTakenWithPageCrossCostsFourCycles(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x80FD, 0xF0, 0x05) // BEQ +5, from near a page boundary
	c.SetPC(0x80FD)
	c.P |= flagZ
	c.phase = phaseFetch
	c.Tick()
	if c.cur.budget != 4 {
		t.Fatalf("budget = %d, want 4 for taken+page-cross branch", c.cur.budget)
	}
}

// Property 1 of the status register: bit 5 is always set in the pushed
// form, and SP always stays within the stack page's 8-bit range.
func TestStatusBit5AlwaysSetWhenPushed(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x08) // PHP
	c.P = 0x00
	run(c, 1)
	pushed := bus.Read(0x0100 + uint16(c.SP+1))
	if pushed&flagU == 0 {
		t.Fatal("pushed status must have bit 5 set")
	}
}

func TestStackPointerWrapsWithinPage(t *testing.T) {
	c, bus := newTestCPU()
	c.SP = 0x00
	bus.setBytes(0x8000, 0x48) // PHA
	run(c, 1)
	if c.SP != 0xFF {
		t.Fatalf("SP = %#02x, want wraparound to 0xFF", c.SP)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	bus.setBytes(0x9000, 0x60)             // RTS
	run(c, 1)
	if c.PC != 0x9000 {
		t.Fatalf("PC = %#04x after JSR, want 0x9000", c.PC)
	}
	run(c, 1)
	if c.PC != 0x8003 {
		t.Fatalf("PC = %#04x after RTS, want 0x8003", c.PC)
	}
}

func TestNMIServicedAtFetchBoundary(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0xFFFA, 0x00, 0x70) // NMI vector -> $7000
	bus.setBytes(0x8000, 0xEA)       // NOP
	c.TriggerNMI()
	c.Tick() // fetch phase sees pending NMI instead of decoding NOP
	if c.PC != 0x7000 {
		t.Fatalf("PC = %#04x after NMI, want 0x7000", c.PC)
	}
	if c.irq.nmi {
		t.Fatal("NMI latch should clear once serviced")
	}
}

func TestUnofficialLAX(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xA7, 0x10) // LAX $10 (zero page)
	bus.data[0x10] = 0x42
	run(c, 1)
	if c.A != 0x42 || c.X != 0x42 {
		t.Fatalf("A=%#02x X=%#02x, want both 0x42", c.A, c.X)
	}
}

func TestUnofficialDCP(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0xC7, 0x10) // DCP $10
	bus.data[0x10] = 0x05
	c.A = 0x04
	run(c, 1)
	if bus.data[0x10] != 0x04 {
		t.Fatalf("memory = %#02x, want decremented to 0x04", bus.data[0x10])
	}
	if c.P&flagZ == 0 {
		t.Fatal("expected Z set: A(4) == decremented memory(4)")
	}
}

func TestUnknownOpcodeFallsBackToNOPWhenNotDebugging(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x02) // KIL/JAM, unimplemented
	run(c, 1)
	if c.PC != 0x8001 {
		t.Fatalf("PC = %#04x, want 0x8001 after falling back to a 2-cycle NOP", c.PC)
	}
}

func TestUnknownOpcodePanicsInDebugMode(t *testing.T) {
	c, bus := newTestCPU()
	bus.setBytes(0x8000, 0x02)
	c.SetDebug(true)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown opcode in debug mode")
		}
	}()
	c.Tick()
}
