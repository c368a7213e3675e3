package cpu

// Instruction describes one decoded opcode: its mnemonic (used for both
// the dispatch switch in invoke and instruction-event tracing), its
// addressing mode, its base cycle budget, whether a page-crossing
// indexed/indirect-indexed address adds a cycle, and — for the eight
// relative-mode branches — the condition that decides whether it's taken.
type Instruction struct {
	Name             string
	Mode             AddressingMode
	Cycles           uint8
	ExtraOnPageCross bool
	Branch           func(*CPU) bool
}

func ins(name string, mode AddressingMode, cycles uint8, extra bool) Instruction {
	return Instruction{Name: name, Mode: mode, Cycles: cycles, ExtraOnPageCross: extra}
}

func branch(name string, cond func(*CPU) bool) Instruction {
	return Instruction{Name: name, Mode: Relative, Cycles: 2, Branch: cond}
}

// opcodeTable is the 56-official-plus-unofficial 6502 decode table.
// Entries left zero-valued (Name == "") are opcodes this revision does
// not model (KIL/JAM and the unstable undocumented stores/loads XAA,
// LXA, AHX, TAS, LAS) — fetch() panics on them in debug mode and falls
// back to a 2-cycle NOP otherwise, per spec.md §7.
var opcodeTable = [256]Instruction{
	0x00: ins("BRK", Implied, 7, false),
	0x01: ins("ORA", IndexedIndirect, 6, false),
	0x03: ins("SLO", IndexedIndirect, 8, false),
	0x04: ins("NOP", ZeroPage, 3, false),
	0x05: ins("ORA", ZeroPage, 3, false),
	0x06: ins("ASL", ZeroPage, 5, false),
	0x07: ins("SLO", ZeroPage, 5, false),
	0x08: ins("PHP", Implied, 3, false),
	0x09: ins("ORA", Immediate, 2, false),
	0x0A: ins("ASL", Accumulator, 2, false),
	0x0B: ins("ANC", Immediate, 2, false),
	0x0C: ins("NOP", Absolute, 4, false),
	0x0D: ins("ORA", Absolute, 4, false),
	0x0E: ins("ASL", Absolute, 6, false),
	0x0F: ins("SLO", Absolute, 6, false),

	0x10: branch("BPL", func(c *CPU) bool { return !c.flag(flagN) }),
	0x11: ins("ORA", IndirectIndexed, 5, true),
	0x13: ins("SLO", IndirectIndexed, 8, false),
	0x14: ins("NOP", ZeroPageX, 4, false),
	0x15: ins("ORA", ZeroPageX, 4, false),
	0x16: ins("ASL", ZeroPageX, 6, false),
	0x17: ins("SLO", ZeroPageX, 6, false),
	0x18: ins("CLC", Implied, 2, false),
	0x19: ins("ORA", AbsoluteY, 4, true),
	0x1A: ins("NOP", Implied, 2, false),
	0x1B: ins("SLO", AbsoluteY, 7, false),
	0x1C: ins("NOP", AbsoluteX, 4, true),
	0x1D: ins("ORA", AbsoluteX, 4, true),
	0x1E: ins("ASL", AbsoluteX, 7, false),
	0x1F: ins("SLO", AbsoluteX, 7, false),

	0x20: ins("JSR", Absolute, 6, false),
	0x21: ins("AND", IndexedIndirect, 6, false),
	0x23: ins("RLA", IndexedIndirect, 8, false),
	0x24: ins("BIT", ZeroPage, 3, false),
	0x25: ins("AND", ZeroPage, 3, false),
	0x26: ins("ROL", ZeroPage, 5, false),
	0x27: ins("RLA", ZeroPage, 5, false),
	0x28: ins("PLP", Implied, 4, false),
	0x29: ins("AND", Immediate, 2, false),
	0x2A: ins("ROL", Accumulator, 2, false),
	0x2B: ins("ANC", Immediate, 2, false),
	0x2C: ins("BIT", Absolute, 4, false),
	0x2D: ins("AND", Absolute, 4, false),
	0x2E: ins("ROL", Absolute, 6, false),
	0x2F: ins("RLA", Absolute, 6, false),

	0x30: branch("BMI", func(c *CPU) bool { return c.flag(flagN) }),
	0x31: ins("AND", IndirectIndexed, 5, true),
	0x33: ins("RLA", IndirectIndexed, 8, false),
	0x34: ins("NOP", ZeroPageX, 4, false),
	0x35: ins("AND", ZeroPageX, 4, false),
	0x36: ins("ROL", ZeroPageX, 6, false),
	0x37: ins("RLA", ZeroPageX, 6, false),
	0x38: ins("SEC", Implied, 2, false),
	0x39: ins("AND", AbsoluteY, 4, true),
	0x3A: ins("NOP", Implied, 2, false),
	0x3B: ins("RLA", AbsoluteY, 7, false),
	0x3C: ins("NOP", AbsoluteX, 4, true),
	0x3D: ins("AND", AbsoluteX, 4, true),
	0x3E: ins("ROL", AbsoluteX, 7, false),
	0x3F: ins("RLA", AbsoluteX, 7, false),

	0x40: ins("RTI", Implied, 6, false),
	0x41: ins("EOR", IndexedIndirect, 6, false),
	0x43: ins("SRE", IndexedIndirect, 8, false),
	0x44: ins("NOP", ZeroPage, 3, false),
	0x45: ins("EOR", ZeroPage, 3, false),
	0x46: ins("LSR", ZeroPage, 5, false),
	0x47: ins("SRE", ZeroPage, 5, false),
	0x48: ins("PHA", Implied, 3, false),
	0x49: ins("EOR", Immediate, 2, false),
	0x4A: ins("LSR", Accumulator, 2, false),
	0x4B: ins("ALR", Immediate, 2, false),
	0x4C: ins("JMP", Absolute, 3, false),
	0x4D: ins("EOR", Absolute, 4, false),
	0x4E: ins("LSR", Absolute, 6, false),
	0x4F: ins("SRE", Absolute, 6, false),

	0x50: branch("BVC", func(c *CPU) bool { return !c.flag(flagV) }),
	0x51: ins("EOR", IndirectIndexed, 5, true),
	0x53: ins("SRE", IndirectIndexed, 8, false),
	0x54: ins("NOP", ZeroPageX, 4, false),
	0x55: ins("EOR", ZeroPageX, 4, false),
	0x56: ins("LSR", ZeroPageX, 6, false),
	0x57: ins("SRE", ZeroPageX, 6, false),
	0x58: ins("CLI", Implied, 2, false),
	0x59: ins("EOR", AbsoluteY, 4, true),
	0x5A: ins("NOP", Implied, 2, false),
	0x5B: ins("SRE", AbsoluteY, 7, false),
	0x5C: ins("NOP", AbsoluteX, 4, true),
	0x5D: ins("EOR", AbsoluteX, 4, true),
	0x5E: ins("LSR", AbsoluteX, 7, false),
	0x5F: ins("SRE", AbsoluteX, 7, false),

	0x60: ins("RTS", Implied, 6, false),
	0x61: ins("ADC", IndexedIndirect, 6, false),
	0x63: ins("RRA", IndexedIndirect, 8, false),
	0x64: ins("NOP", ZeroPage, 3, false),
	0x65: ins("ADC", ZeroPage, 3, false),
	0x66: ins("ROR", ZeroPage, 5, false),
	0x67: ins("RRA", ZeroPage, 5, false),
	0x68: ins("PLA", Implied, 4, false),
	0x69: ins("ADC", Immediate, 2, false),
	0x6A: ins("ROR", Accumulator, 2, false),
	0x6B: ins("ARR", Immediate, 2, false),
	0x6C: ins("JMP", Indirect, 5, false),
	0x6D: ins("ADC", Absolute, 4, false),
	0x6E: ins("ROR", Absolute, 6, false),
	0x6F: ins("RRA", Absolute, 6, false),

	0x70: branch("BVS", func(c *CPU) bool { return c.flag(flagV) }),
	0x71: ins("ADC", IndirectIndexed, 5, true),
	0x73: ins("RRA", IndirectIndexed, 8, false),
	0x74: ins("NOP", ZeroPageX, 4, false),
	0x75: ins("ADC", ZeroPageX, 4, false),
	0x76: ins("ROR", ZeroPageX, 6, false),
	0x77: ins("RRA", ZeroPageX, 6, false),
	0x78: ins("SEI", Implied, 2, false),
	0x79: ins("ADC", AbsoluteY, 4, true),
	0x7A: ins("NOP", Implied, 2, false),
	0x7B: ins("RRA", AbsoluteY, 7, false),
	0x7C: ins("NOP", AbsoluteX, 4, true),
	0x7D: ins("ADC", AbsoluteX, 4, true),
	0x7E: ins("ROR", AbsoluteX, 7, false),
	0x7F: ins("RRA", AbsoluteX, 7, false),

	0x80: ins("NOP", Immediate, 2, false),
	0x81: ins("STA", IndexedIndirect, 6, false),
	0x82: ins("NOP", Immediate, 2, false),
	0x83: ins("SAX", IndexedIndirect, 6, false),
	0x84: ins("STY", ZeroPage, 3, false),
	0x85: ins("STA", ZeroPage, 3, false),
	0x86: ins("STX", ZeroPage, 3, false),
	0x87: ins("SAX", ZeroPage, 3, false),
	0x88: ins("DEY", Implied, 2, false),
	0x89: ins("NOP", Immediate, 2, false),
	0x8A: ins("TXA", Implied, 2, false),
	0x8C: ins("STY", Absolute, 4, false),
	0x8D: ins("STA", Absolute, 4, false),
	0x8E: ins("STX", Absolute, 4, false),
	0x8F: ins("SAX", Absolute, 4, false),

	0x90: branch("BCC", func(c *CPU) bool { return !c.flag(flagC) }),
	0x91: ins("STA", IndirectIndexed, 6, false),
	0x94: ins("STY", ZeroPageX, 4, false),
	0x95: ins("STA", ZeroPageX, 4, false),
	0x96: ins("STX", ZeroPageY, 4, false),
	0x97: ins("SAX", ZeroPageY, 4, false),
	0x98: ins("TYA", Implied, 2, false),
	0x99: ins("STA", AbsoluteY, 5, false),
	0x9A: ins("TXS", Implied, 2, false),
	0x9C: ins("SHY", AbsoluteX, 5, false),
	0x9D: ins("STA", AbsoluteX, 5, false),
	0x9E: ins("SHX", AbsoluteY, 5, false),

	0xA0: ins("LDY", Immediate, 2, false),
	0xA1: ins("LDA", IndexedIndirect, 6, false),
	0xA2: ins("LDX", Immediate, 2, false),
	0xA3: ins("LAX", IndexedIndirect, 6, false),
	0xA4: ins("LDY", ZeroPage, 3, false),
	0xA5: ins("LDA", ZeroPage, 3, false),
	0xA6: ins("LDX", ZeroPage, 3, false),
	0xA7: ins("LAX", ZeroPage, 3, false),
	0xA8: ins("TAY", Implied, 2, false),
	0xA9: ins("LDA", Immediate, 2, false),
	0xAA: ins("TAX", Implied, 2, false),
	0xAC: ins("LDY", Absolute, 4, false),
	0xAD: ins("LDA", Absolute, 4, false),
	0xAE: ins("LDX", Absolute, 4, false),
	0xAF: ins("LAX", Absolute, 4, false),

	0xB0: branch("BCS", func(c *CPU) bool { return c.flag(flagC) }),
	0xB1: ins("LDA", IndirectIndexed, 5, true),
	0xB3: ins("LAX", IndirectIndexed, 5, true),
	0xB4: ins("LDY", ZeroPageX, 4, false),
	0xB5: ins("LDA", ZeroPageX, 4, false),
	0xB6: ins("LDX", ZeroPageY, 4, false),
	0xB7: ins("LAX", ZeroPageY, 4, false),
	0xB8: ins("CLV", Implied, 2, false),
	0xB9: ins("LDA", AbsoluteY, 4, true),
	0xBA: ins("TSX", Implied, 2, false),
	0xBC: ins("LDY", AbsoluteX, 4, true),
	0xBD: ins("LDA", AbsoluteX, 4, true),
	0xBE: ins("LDX", AbsoluteY, 4, true),
	0xBF: ins("LAX", AbsoluteY, 4, true),

	0xC0: ins("CPY", Immediate, 2, false),
	0xC1: ins("CMP", IndexedIndirect, 6, false),
	0xC2: ins("NOP", Immediate, 2, false),
	0xC3: ins("DCP", IndexedIndirect, 8, false),
	0xC4: ins("CPY", ZeroPage, 3, false),
	0xC5: ins("CMP", ZeroPage, 3, false),
	0xC6: ins("DEC", ZeroPage, 5, false),
	0xC7: ins("DCP", ZeroPage, 5, false),
	0xC8: ins("INY", Implied, 2, false),
	0xC9: ins("CMP", Immediate, 2, false),
	0xCA: ins("DEX", Implied, 2, false),
	0xCB: ins("AXS", Immediate, 2, false),
	0xCC: ins("CPY", Absolute, 4, false),
	0xCD: ins("CMP", Absolute, 4, false),
	0xCE: ins("DEC", Absolute, 6, false),
	0xCF: ins("DCP", Absolute, 6, false),

	0xD0: branch("BNE", func(c *CPU) bool { return !c.flag(flagZ) }),
	0xD1: ins("CMP", IndirectIndexed, 5, true),
	0xD3: ins("DCP", IndirectIndexed, 8, false),
	0xD4: ins("NOP", ZeroPageX, 4, false),
	0xD5: ins("CMP", ZeroPageX, 4, false),
	0xD6: ins("DEC", ZeroPageX, 6, false),
	0xD7: ins("DCP", ZeroPageX, 6, false),
	0xD8: ins("CLD", Implied, 2, false),
	0xD9: ins("CMP", AbsoluteY, 4, true),
	0xDA: ins("NOP", Implied, 2, false),
	0xDB: ins("DCP", AbsoluteY, 7, false),
	0xDC: ins("NOP", AbsoluteX, 4, true),
	0xDD: ins("CMP", AbsoluteX, 4, true),
	0xDE: ins("DEC", AbsoluteX, 7, false),
	0xDF: ins("DCP", AbsoluteX, 7, false),

	0xE0: ins("CPX", Immediate, 2, false),
	0xE1: ins("SBC", IndexedIndirect, 6, false),
	0xE2: ins("NOP", Immediate, 2, false),
	0xE3: ins("ISB", IndexedIndirect, 8, false),
	0xE4: ins("CPX", ZeroPage, 3, false),
	0xE5: ins("SBC", ZeroPage, 3, false),
	0xE6: ins("INC", ZeroPage, 5, false),
	0xE7: ins("ISB", ZeroPage, 5, false),
	0xE8: ins("INX", Implied, 2, false),
	0xE9: ins("SBC", Immediate, 2, false),
	0xEA: ins("NOP", Implied, 2, false),
	0xEB: ins("SBC", Immediate, 2, false),
	0xEC: ins("CPX", Absolute, 4, false),
	0xED: ins("SBC", Absolute, 4, false),
	0xEE: ins("INC", Absolute, 6, false),
	0xEF: ins("ISB", Absolute, 6, false),

	0xF0: branch("BEQ", func(c *CPU) bool { return c.flag(flagZ) }),
	0xF1: ins("SBC", IndirectIndexed, 5, true),
	0xF3: ins("ISB", IndirectIndexed, 8, false),
	0xF4: ins("NOP", ZeroPageX, 4, false),
	0xF5: ins("SBC", ZeroPageX, 4, false),
	0xF6: ins("INC", ZeroPageX, 6, false),
	0xF7: ins("ISB", ZeroPageX, 6, false),
	0xF8: ins("SED", Implied, 2, false),
	0xF9: ins("SBC", AbsoluteY, 4, true),
	0xFA: ins("NOP", Implied, 2, false),
	0xFB: ins("ISB", AbsoluteY, 7, false),
	0xFC: ins("NOP", AbsoluteX, 4, true),
	0xFD: ins("SBC", AbsoluteX, 4, true),
	0xFE: ins("INC", AbsoluteX, 7, false),
	0xFF: ins("ISB", AbsoluteX, 7, false),
}

var unknownOpcode = Instruction{Name: "NOP", Mode: Implied, Cycles: 2}
