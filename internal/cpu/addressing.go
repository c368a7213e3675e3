package cpu

// AddressingMode enumerates the 6502 addressing modes the CPU decodes,
// per spec.md §4.2.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // ($zp,X)
	IndirectIndexed // ($zp),Y
	Relative
)

// operandKind tells invoke() how to interpret the resolved operand: an
// immediate byte, a memory address to read/write, a branch offset, or
// nothing (implied/accumulator).
type operandKind int

const (
	kindImplied operandKind = iota
	kindAccumulator
	kindByte
	kindAddress
	kindOffset
)

// resolveOperand reads the mode's operand bytes (0, 1, or 2) from PC,
// advances PC past them, and resolves the effective address (the
// immediate value is left in operand[0] for Immediate; Relative resolves
// to the branch target address). It reports whether the
// computed address crosses a page boundary from its un-indexed base,
// which the Fetch phase uses to add a cycle for qualifying instructions.
func (c *CPU) resolveOperand(mode AddressingMode, operand *[2]uint8) (addr uint16, kind operandKind, pageCross bool) {
	switch mode {
	case Implied:
		return 0, kindImplied, false

	case Accumulator:
		return 0, kindAccumulator, false

	case Immediate:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		return 0, kindByte, false

	case ZeroPage:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		return uint16(operand[0]), kindAddress, false

	case ZeroPageX:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		return uint16(operand[0]+c.X) & 0xFF, kindAddress, false

	case ZeroPageY:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		return uint16(operand[0]+c.Y) & 0xFF, kindAddress, false

	case Absolute:
		operand[0] = c.bus.Read(c.PC)
		operand[1] = c.bus.Read(c.PC + 1)
		c.PC += 2
		return uint16(operand[0]) | uint16(operand[1])<<8, kindAddress, false

	case AbsoluteX:
		operand[0] = c.bus.Read(c.PC)
		operand[1] = c.bus.Read(c.PC + 1)
		c.PC += 2
		base := uint16(operand[0]) | uint16(operand[1])<<8
		addr = base + uint16(c.X)
		return addr, kindAddress, (base & 0xFF00) != (addr & 0xFF00)

	case AbsoluteY:
		operand[0] = c.bus.Read(c.PC)
		operand[1] = c.bus.Read(c.PC + 1)
		c.PC += 2
		base := uint16(operand[0]) | uint16(operand[1])<<8
		addr = base + uint16(c.Y)
		return addr, kindAddress, (base & 0xFF00) != (addr & 0xFF00)

	case Indirect:
		operand[0] = c.bus.Read(c.PC)
		operand[1] = c.bus.Read(c.PC + 1)
		c.PC += 2
		ptr := uint16(operand[0]) | uint16(operand[1])<<8
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr & 0xFF00) | ((ptr + 1) & 0x00FF)))
		return lo | hi<<8, kindAddress, false

	case IndexedIndirect:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		ptr := uint16(operand[0]+c.X) & 0xFF
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr + 1) & 0xFF))
		return lo | hi<<8, kindAddress, false

	case IndirectIndexed:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		ptr := uint16(operand[0])
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr + 1) & 0xFF))
		base := lo | hi<<8
		addr = base + uint16(c.Y)
		return addr, kindAddress, (base & 0xFF00) != (addr & 0xFF00)

	case Relative:
		operand[0] = c.bus.Read(c.PC)
		c.PC++
		offset := int8(operand[0])
		target := uint16(int32(c.PC) + int32(offset))
		return target, kindOffset, (c.PC & 0xFF00) != (target & 0xFF00)

	default:
		return 0, kindImplied, false
	}
}

// operandByte returns the resolved operand as a byte value: the
// immediate literal, or a memory read through addr.
func (c *CPU) operandByte(kind operandKind, addr uint16, operand [2]uint8) uint8 {
	switch kind {
	case kindByte:
		return operand[0]
	case kindAccumulator:
		return c.A
	default:
		return c.bus.Read(addr)
	}
}

// branchTaken evaluates a relative-mode instruction's branch condition
// against the CPU's current flags. Flags cannot change between Fetch and
// the condition check, so this is safe to call during Fetch itself,
// which is how the extra taken/page-cross cycles get folded into the
// Execute budget up front.
func (c *CPU) branchTaken(instr *Instruction) bool {
	if instr.Branch == nil {
		return false
	}
	return instr.Branch(c)
}
