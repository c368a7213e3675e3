// Package bus implements the three view-object address routers — CPU,
// PPU, and APU — that connect the system's components per spec.md §4.7.
package bus

import (
	"nesemu/internal/apu"
	"nesemu/internal/cartridge"
	"nesemu/internal/ppu"
)

// PPURegisters is the CPU bus's view of the PPU's eight memory-mapped
// registers, mirrored every 8 bytes across $2000-$3FFF.
type PPURegisters interface {
	ReadRegister(reg uint16) uint8
	WriteRegister(reg uint16, value uint8)
	WriteOAM(index uint8, value uint8)
}

// APURegisters is the CPU bus's view of the APU's register file.
type APURegisters interface {
	WriteRegister(addr uint16, value uint8)
	ReadStatus() uint8
	WriteStatus(value uint8)
}

// Joypad is the CPU bus's view of the two controller ports.
type Joypad interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// CPUBus is the CPU's address-space router: 2 KiB internal RAM mirrored
// through $1FFF, PPU registers mirrored every 8 bytes through $3FFF,
// APU and joypad registers at $4000-$4017, the explicit $4014 OAM-DMA
// handler, and the cartridge (mapper, PRG, work RAM) from $4020 up.
type CPUBus struct {
	ram       [0x800]uint8
	ppu       PPURegisters
	apu       APURegisters
	joypad    Joypad
	cartridge *cartridge.Cartridge

	// dmaRead is called by triggerOAMDMA once per byte to source the
	// 256-byte OAM transfer from CPU address space.
	dmaRead func(addr uint16) uint8
}

// NewCPUBus wires a CPU bus to its PPU, APU, and joypad views. The
// cartridge is attached later via SetCartridge once a ROM is loaded.
func NewCPUBus(p PPURegisters, a APURegisters, j Joypad) *CPUBus {
	b := &CPUBus{ppu: p, apu: a, joypad: j}
	b.dmaRead = b.Read
	return b
}

// SetCartridge attaches (or detaches, with nil) the inserted cartridge.
func (b *CPUBus) SetCartridge(c *cartridge.Cartridge) { b.cartridge = c }

// Read implements cpu.Bus.
func (b *CPUBus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(0x2000 + (addr & 0x0007))
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr == 0x4016, addr == 0x4017:
		return b.joypad.Read(addr)
	case addr < 0x4020:
		return 0 // remaining APU/IO registers are write-only or unmapped
	default:
		if b.cartridge == nil {
			return 0
		}
		return b.cartridge.ReadCPU(addr)
	}
}

// Write implements cpu.Bus.
func (b *CPUBus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(0x2000+(addr&0x0007), value)
	case addr == 0x4014:
		b.triggerOAMDMA(value)
	case addr == 0x4015:
		b.apu.WriteStatus(value)
	case addr == 0x4016:
		b.joypad.Write(addr, value)
	case addr == 0x4017:
		b.apu.WriteRegister(addr, value) // frame-counter register; joypad only reads this port
	case addr < 0x4020:
		b.apu.WriteRegister(addr, value)
	default:
		if b.cartridge != nil {
			b.cartridge.WriteCPU(addr, value)
		}
	}
}

// triggerOAMDMA implements the $4014 handler: 256 bytes are copied from
// page (value<<8) of CPU address space into OAM, per spec.md §4.7. This
// is the explicit handler spec.md's design notes prefer over an implicit
// trigger on PPU writes whose address high byte is $FF.
func (b *CPUBus) triggerOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAM(uint8(i), b.dmaRead(base+uint16(i)))
	}
}

// PPUBus is the PPU's address-space router: pattern tables and
// nametable/palette RAM all live behind the cartridge wrapper, which
// already owns mirroring and palette aliasing.
type PPUBus struct {
	cartridge *cartridge.Cartridge
}

// NewPPUBus creates a PPU bus with no cartridge attached yet.
func NewPPUBus() *PPUBus { return &PPUBus{} }

// SetCartridge attaches (or detaches, with nil) the inserted cartridge.
func (b *PPUBus) SetCartridge(c *cartridge.Cartridge) { b.cartridge = c }

// Read implements ppu.Bus.
func (b *PPUBus) Read(addr uint16) uint8 {
	if b.cartridge == nil {
		return 0
	}
	return b.cartridge.ReadPPU(addr)
}

// Write implements ppu.Bus.
func (b *PPUBus) Write(addr uint16, value uint8) {
	if b.cartridge != nil {
		b.cartridge.WritePPU(addr, value)
	}
}

// APUBus is the APU's view of CPU address space, used only by the DMC
// channel to fetch delta-modulated sample bytes.
type APUBus struct {
	cpu *CPUBus
}

// NewAPUBus wraps a CPU bus for DMC sample reads.
func NewAPUBus(cpu *CPUBus) *APUBus { return &APUBus{cpu: cpu} }

// Read implements apu.Bus.
func (b *APUBus) Read(addr uint16) uint8 { return b.cpu.Read(addr) }

var _ apu.Bus = (*APUBus)(nil)
var _ ppu.Bus = (*PPUBus)(nil)
