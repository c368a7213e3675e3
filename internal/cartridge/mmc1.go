package cartridge

// mmc1 implements mapper 1 (MMC1): a 5-bit serial shift register fed by
// successive writes to $8000-$FFFF, dispatching the assembled 5-bit value
// to one of four internal registers (control, CHR bank 0, CHR bank 1, PRG
// bank) selected by which address quadrant received the fifth write. A
// write with bit 7 set resets the shift register and forces PRG mode 3.
// Grounded on andrewthecodertx-go-nes-emulator's Mapper1, re-expressed
// against this repo's Mapper interface and mirroring-override hook.
type mmc1 struct {
	prg []uint8
	chr []uint8
	ram [0x2000]uint8

	chrIsRAM bool
	prgBanks uint8
	chrBanks uint8

	shift      uint8
	shiftCount uint8

	mirrorSel uint8 // 0=single-low 1=single-high 2=vertical 3=horizontal
	prgMode   uint8 // 0/1=32K 2=fix-low 3=fix-high
	chrMode   uint8 // 0=8K 1=two 4K

	chrBank0, chrBank1, prgBank uint8
	ramEnabled                  bool
}

func newMMC1(prg, chr []uint8) *mmc1 {
	m := &mmc1{
		prg:        prg,
		shift:      0x10,
		prgMode:    3,
		ramEnabled: true,
		prgBanks:   uint8(len(prg) / 0x4000),
	}
	if len(chr) == 0 {
		m.chr = make([]uint8, 0x2000)
		m.chrIsRAM = true
		m.chrBanks = 2
	} else {
		m.chr = chr
		m.chrBanks = uint8(len(chr) / 0x1000)
	}
	return m
}

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramEnabled {
			return m.ram[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xC000:
		return m.prgAt(m.lowBank(), addr-0x8000)
	case addr >= 0xC000:
		return m.prgAt(m.highBank(), addr-0xC000)
	default:
		return 0
	}
}

func (m *mmc1) lowBank() uint8 {
	switch m.prgMode {
	case 0, 1:
		return m.prgBank &^ 1
	case 2:
		return 0
	default: // 3
		return m.prgBank
	}
}

func (m *mmc1) highBank() uint8 {
	switch m.prgMode {
	case 0, 1:
		return (m.prgBank &^ 1) | 1
	case 2:
		return m.prgBank
	default: // 3
		if m.prgBanks == 0 {
			return 0
		}
		return m.prgBanks - 1
	}
}

func (m *mmc1) prgAt(bank uint8, off uint16) uint8 {
	i := uint32(bank)*0x4000 + uint32(off)
	if int(i) < len(m.prg) {
		return m.prg[i]
	}
	return 0
}

func (m *mmc1) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.ramEnabled {
			m.ram[addr-0x6000] = value
		}
		return
	}
	if addr < 0x8000 {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.prgMode = 3
		return
	}

	m.shift = (m.shift >> 1) | ((value & 1) << 4)
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	result := m.shift
	m.shift = 0x10
	m.shiftCount = 0

	switch {
	case addr < 0xA000:
		m.mirrorSel = result & 0x03
		m.prgMode = (result >> 2) & 0x03
		m.chrMode = (result >> 4) & 0x01
	case addr < 0xC000:
		m.chrBank0 = result & 0x1F
	case addr < 0xE000:
		m.chrBank1 = result & 0x1F
	default:
		m.prgBank = result & 0x0F
		m.ramEnabled = result&0x10 == 0
	}
}

func (m *mmc1) ReadCHR(addr uint16) uint8 {
	off := m.chrOffset(addr)
	if int(off) < len(m.chr) {
		return m.chr[off]
	}
	return 0
}

func (m *mmc1) WriteCHR(addr uint16, value uint8) {
	if !m.chrIsRAM {
		return
	}
	off := m.chrOffset(addr)
	if int(off) < len(m.chr) {
		m.chr[off] = value
	}
}

func (m *mmc1) chrOffset(addr uint16) uint32 {
	if m.chrMode == 0 {
		bank := m.chrBank0 &^ 1
		if addr >= 0x1000 {
			bank |= 1
		}
		return uint32(bank)*0x1000 + uint32(addr&0x0FFF)
	}
	if addr < 0x1000 {
		return uint32(m.chrBank0)*0x1000 + uint32(addr)
	}
	return uint32(m.chrBank1)*0x1000 + uint32(addr-0x1000)
}

func (m *mmc1) Mirroring() (Mirroring, bool) {
	switch m.mirrorSel {
	case 0:
		return MirrorSingleLow, true
	case 1:
		return MirrorSingleHigh, true
	case 2:
		return MirrorVertical, true
	default:
		return MirrorHorizontal, true
	}
}

func (m *mmc1) WorkRAM() []uint8 { return m.ram[:] }
