package bus

import "testing"

type stubPPU struct {
	regs     [8]uint8
	oam      [256]uint8
	oamWrite int
}

func (s *stubPPU) ReadRegister(reg uint16) uint8       { return s.regs[reg-0x2000] }
func (s *stubPPU) WriteRegister(reg uint16, v uint8)   { s.regs[reg-0x2000] = v }
func (s *stubPPU) WriteOAM(index uint8, v uint8)       { s.oam[index] = v; s.oamWrite++ }

type stubAPU struct {
	lastWrite uint16
	status    uint8
}

func (s *stubAPU) WriteRegister(addr uint16, v uint8) { s.lastWrite = addr }
func (s *stubAPU) ReadStatus() uint8                  { return s.status }
func (s *stubAPU) WriteStatus(v uint8)                { s.status = v }

type stubJoypad struct{ written uint8 }

func (s *stubJoypad) Read(addr uint16) uint8     { return 0x01 }
func (s *stubJoypad) Write(addr uint16, v uint8) { s.written = v }

func TestCPUBusRAMMirroring(t *testing.T) {
	b := NewCPUBus(&stubPPU{}, &stubAPU{}, &stubJoypad{})
	b.Write(0x0000, 0x42)
	if got := b.Read(0x0800); got != 0x42 {
		t.Fatalf("mirrored RAM read = %#02x, want 0x42", got)
	}
}

func TestCPUBusPPURegisterMirroring(t *testing.T) {
	p := &stubPPU{}
	b := NewCPUBus(p, &stubAPU{}, &stubJoypad{})
	b.Write(0x2000, 0x80)
	b.Write(0x2008, 0x10) // mirrors $2000
	if p.regs[0] != 0x10 {
		t.Fatalf("PPU register 0 = %#02x, want 0x10 (mirrored write)", p.regs[0])
	}
}

func TestOAMDMATransfers256Bytes(t *testing.T) {
	p := &stubPPU{}
	b := NewCPUBus(p, &stubAPU{}, &stubJoypad{})
	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}
	b.Write(0x4014, 0x00) // page 0 -> zero page, mirrored into RAM
	if p.oamWrite != 256 {
		t.Fatalf("oamWrite = %d, want 256", p.oamWrite)
	}
	if p.oam[0x42] != 0x42 {
		t.Fatalf("oam[0x42] = %#02x, want 0x42", p.oam[0x42])
	}
}

func TestAPUStatusRoutedThroughBus(t *testing.T) {
	a := &stubAPU{status: 0x55}
	b := NewCPUBus(&stubPPU{}, a, &stubJoypad{})
	if got := b.Read(0x4015); got != 0x55 {
		t.Fatalf("status read = %#02x, want 0x55", got)
	}
	b.Write(0x4015, 0x0F)
	if a.status != 0x0F {
		t.Fatalf("status write = %#02x, want 0x0F", a.status)
	}
}

func TestJoypadRoutedThroughBus(t *testing.T) {
	j := &stubJoypad{}
	b := NewCPUBus(&stubPPU{}, &stubAPU{}, j)
	b.Write(0x4016, 0x01)
	if j.written != 0x01 {
		t.Fatalf("joypad write = %#02x, want 0x01", j.written)
	}
	if got := b.Read(0x4016); got != 0x01 {
		t.Fatalf("joypad read = %#02x, want 0x01", got)
	}
}

func TestCartridgeRegionUnmappedWithoutCartridge(t *testing.T) {
	b := NewCPUBus(&stubPPU{}, &stubAPU{}, &stubJoypad{})
	if got := b.Read(0x8000); got != 0 {
		t.Fatalf("unmapped cartridge read = %#02x, want 0", got)
	}
}

func TestPPUBusUnmappedWithoutCartridge(t *testing.T) {
	b := NewPPUBus()
	if got := b.Read(0x0000); got != 0 {
		t.Fatalf("unmapped PPU read = %#02x, want 0", got)
	}
	b.Write(0x0000, 0xFF) // must not panic
}
