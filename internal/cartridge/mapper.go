// Package cartridge parses iNES cartridge images and implements the mapper
// variants that translate CPU/PPU addresses into banked ROM/RAM regions.
package cartridge

// Mirroring selects how the PPU's four logical nametables fold onto the
// console's 2 KiB of physical nametable RAM.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleLow
	MirrorSingleHigh
	MirrorFourScreen
)

// Mapper is the polymorphic cartridge-side logic that banks PRG/CHR memory
// and, for some variants, overrides nametable mirroring dynamically. A
// tagged set of concrete structs implements it (NROM, MMC1, UNROM, CNROM,
// AxROM) rather than a virtual-call hierarchy, so the hot CPU/PPU read
// paths dispatch through a single interface call with no further branching.
type Mapper interface {
	// ReadPRG/WritePRG cover the CPU's $6000-$FFFF window (work RAM plus
	// the banked PRG ROM). The core never raises an "unmapped" error here;
	// every address in range resolves to a byte.
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)

	// ReadCHR/WriteCHR cover the PPU's $0000-$1FFF pattern-table window.
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)

	// Mirroring reports a dynamic mirroring override. ok is false for
	// mappers whose mirroring is fixed by the header (NROM, UNROM, CNROM).
	Mirroring() (mode Mirroring, ok bool)
}

// Cartridge wraps a concrete Mapper with the memory every variant shares:
// 4 KiB of nametable RAM, 32 bytes of palette RAM, and the mirroring
// resolution that sits in front of both. This is the "common wrapper" of
// spec.md §3/§4.4 — it owns the PPU-side address space the mapper doesn't.
type Cartridge struct {
	header Header
	mapper Mapper

	nametables [0x1000]uint8
	palette    [32]uint8
}

func newCartridge(h Header, prg, chr []uint8) (*Cartridge, error) {
	c := &Cartridge{header: h}
	m, err := newMapper(h, prg, chr)
	if err != nil {
		return nil, err
	}
	c.mapper = m
	return c, nil
}

func newMapper(h Header, prg, chr []uint8) (Mapper, error) {
	switch h.Mapper {
	case 0:
		return newNROM(prg, chr), nil
	case 1:
		return newMMC1(prg, chr), nil
	case 2:
		return newUNROM(prg, chr), nil
	case 3:
		return newCNROM(prg, chr), nil
	case 7:
		return newAxROM(prg, chr), nil
	default:
		return nil, ErrUnsupportedMapper
	}
}

// Mirroring resolves the cartridge's effective nametable mirroring:
// the mapper's dynamic override, if it reports one, otherwise the
// header's static flag (or four-screen, which disables mirroring
// translation entirely).
func (c *Cartridge) Mirroring() Mirroring {
	if mode, ok := c.mapper.Mirroring(); ok {
		return mode
	}
	return c.header.Mirroring
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header { return c.header }

// BatteryBacked is implemented by mapper variants that expose $6000-$7FFF
// work RAM (NROM, MMC1). The top-level emulator uses it to persist and
// restore battery-backed save data per spec.md §6 eject()/insert().
type BatteryBacked interface {
	WorkRAM() []uint8
}

// WorkRAM returns the mapper's battery-backed work RAM, or nil if this
// mapper variant has none.
func (c *Cartridge) WorkRAM() []uint8 {
	if wr, ok := c.mapper.(BatteryBacked); ok {
		return wr.WorkRAM()
	}
	return nil
}

// LoadWorkRAM copies persisted battery-backed RAM into the mapper's work
// RAM, as the host does alongside the ROM at the next load (spec.md §6).
func (c *Cartridge) LoadWorkRAM(data []uint8) {
	if wr := c.WorkRAM(); wr != nil {
		copy(wr, data)
	}
}

// HasBattery reports whether the cartridge declares battery-backed work RAM.
func (c *Cartridge) HasBattery() bool { return c.header.Battery }

// ReadCPU services the CPU bus's $4020-$FFFF window.
func (c *Cartridge) ReadCPU(addr uint16) uint8 {
	return c.mapper.ReadPRG(addr)
}

// WriteCPU services the CPU bus's $4020-$FFFF window.
func (c *Cartridge) WriteCPU(addr uint16, value uint8) {
	c.mapper.WritePRG(addr, value)
}

// ReadPPU services the full PPU view ($0000-$3FFF): pattern tables from the
// mapper, nametables through mirroring, palette RAM with its own aliasing.
func (c *Cartridge) ReadPPU(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return c.mapper.ReadCHR(addr)
	case addr < 0x3F00:
		return c.nametables[c.nametableIndex(addr)]
	default:
		return c.palette[paletteIndex(addr)]
	}
}

// WritePPU is the write counterpart of ReadPPU.
func (c *Cartridge) WritePPU(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		c.mapper.WriteCHR(addr, value)
	case addr < 0x3F00:
		c.nametables[c.nametableIndex(addr)] = value
	default:
		c.palette[paletteIndex(addr)] = value & 0x3F
	}
}

// nametableIndex maps a $2000-$3EFF PPU address to an offset within the
// console's 2 KiB of physical nametable RAM (the upper half of the 4 KiB
// array is only used in four-screen mode), per spec.md §4.3 "Mirroring".
func (c *Cartridge) nametableIndex(addr uint16) uint16 {
	rel := (addr - 0x2000) & 0x0FFF
	table := rel / 0x400
	offset := rel % 0x400

	switch c.Mirroring() {
	case MirrorVertical:
		// Table 0 aliases table 2, table 1 aliases table 3.
		return rel & 0x7FF
	case MirrorHorizontal:
		// Table 0 aliases table 1, table 2 aliases table 3.
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	case MirrorSingleLow:
		return offset
	case MirrorSingleHigh:
		return 0x400 + offset
	case MirrorFourScreen:
		return rel
	default:
		return offset
	}
}

// paletteIndex folds a $3F00-$3FFF palette address to [0,31], aliasing the
// four background-color mirrors per spec.md §3/§4.3.
func paletteIndex(addr uint16) uint16 {
	idx := (addr - 0x3F00) & 0x1F
	if idx&0x13 == 0x10 { // $3F10/$3F14/$3F18/$3F1C
		idx &= 0x0F
	}
	return idx
}
