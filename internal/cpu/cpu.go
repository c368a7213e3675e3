// Package cpu implements the 6502-family interpreter at the heart of the
// console: its addressing-mode pipeline, official and unofficial
// instruction set, and the three-phase Reset/Fetch/Execute state machine
// described in spec.md §4.2.
package cpu

import (
	"fmt"
	"log"
)

// Bus is the CPU's view of the address space (internal RAM, PPU/APU/
// joypad registers, and the cartridge mapper), supplied by the top-level
// bus adapter. Addresses are never unmapped from the CPU's perspective;
// out-of-range reads/writes are the bus's problem, not the CPU's.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// phase is the CPU's internal pipeline state, per spec.md §3/§4.2.
type phase int

const (
	phaseReset phase = iota
	phaseFetch
	phaseExecute
)

// Flags bit positions within the status byte.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // always set when pushed
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// InstructionEvent describes one retired instruction for the optional
// event-subscription hook of spec.md §6.
type InstructionEvent struct {
	Opcode         uint8
	Mode           AddressingMode
	Operand        [2]uint8
	Addr           uint16
	A, X, Y, P, SP uint8
	PC             uint16
}

// InstructionSink receives one InstructionEvent per retired instruction.
// A nil sink costs nothing on the hot path, per spec.md §9.
type InstructionSink interface {
	OnInstruction(InstructionEvent)
}

// pending is the CPU's single-slot interrupt latch. It holds only NMI; IRQ
// is never latched or delivered in this revision (spec.md §4.2/§9).
type pending struct {
	nmi bool
}

// execState carries the decoded instruction across Execute ticks.
type execState struct {
	opcode    uint8
	instr     *Instruction
	operand   [2]uint8
	addr      uint16
	kind      operandKind
	pageCross bool
	cycle     uint8
	budget    uint8
}

// CPU is the 6502 interpreter. Flags are tracked as a packed status byte
// (the P register) with named bit constants for readability at call
// sites, the way real 6502 documentation and the teacher repo both do.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	bus   Bus
	phase phase
	cur   execState
	irq   pending

	debug bool
	log   *log.Logger
	sink  InstructionSink
}

// New creates a CPU wired to the given bus. Call Reset to bring it to the
// power-up pipeline state before ticking it.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, log: log.Default()}
}

// SetInstructionSink attaches (or, with nil, detaches) the optional
// per-instruction event sink.
func (c *CPU) SetInstructionSink(sink InstructionSink) { c.sink = sink }

// SetDebug toggles instruction tracing to the attached logger.
func (c *CPU) SetDebug(on bool) { c.debug = on }

// Reset drives the CPU to its post-reset pipeline state: registers at
// their power-up values, PC loaded from the reset vector, phase Fetch.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = flagU | flagI
	c.PC = c.readWord(resetVector)
	c.phase = phaseFetch
	c.cur = execState{}
	c.irq = pending{}
}

// SetPC forcibly overrides the program counter, used by test harnesses
// (spec.md §6 set_entry) to start execution at a fixed address such as
// nestest's $C000 automation entry point.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// PCValue returns the current program counter (spec.md §6
// get_program_counter).
func (c *CPU) PCValue() uint16 { return c.PC }

// TriggerNMI latches a pending non-maskable interrupt; it is serviced the
// next time the CPU phase is Fetch. Only one interrupt may be pending at
// a time (spec.md §3).
func (c *CPU) TriggerNMI() { c.irq.nmi = true }

// Tick advances the CPU pipeline by exactly one CPU cycle. The clock
// sequencer (internal/clock) calls this once for every three master
// ticks, per spec.md §4.1.
func (c *CPU) Tick() {
	switch c.phase {
	case phaseReset:
		c.Reset()
	case phaseFetch:
		c.fetch()
	case phaseExecute:
		c.execute()
	}
}

func (c *CPU) fetch() {
	if c.irq.nmi {
		c.serviceNMI()
		return
	}

	opcode := c.bus.Read(c.PC)
	c.PC++
	instr := &opcodeTable[opcode]
	if instr.Name == "" {
		if c.debug {
			panic(fmt.Sprintf("cpu: unknown opcode %#02x at %#04x", opcode, c.PC-1))
		}
		instr = &unknownOpcode
	}

	var operand [2]uint8
	addr, kind, pageCross := c.resolveOperand(instr.Mode, &operand)

	budget := instr.Cycles
	if instr.Mode == Relative && c.branchTaken(instr) {
		budget++
		if pageCross {
			budget++
		}
	} else if pageCross && instr.ExtraOnPageCross {
		budget++
	}

	c.cur = execState{
		opcode:    opcode,
		instr:     instr,
		operand:   operand,
		addr:      addr,
		kind:      kind,
		pageCross: pageCross,
		cycle:     1,
		budget:    budget,
	}
	c.phase = phaseExecute
}

func (c *CPU) execute() {
	c.cur.cycle++
	if c.cur.cycle < c.cur.budget {
		return
	}

	if c.sink != nil || c.debug {
		ev := InstructionEvent{
			Opcode: c.cur.opcode, Mode: c.cur.instr.Mode, Operand: c.cur.operand,
			Addr: c.cur.addr, A: c.A, X: c.X, Y: c.Y, P: c.P, SP: c.SP, PC: c.PC,
		}
		if c.sink != nil {
			c.sink.OnInstruction(ev)
		}
		if c.debug {
			c.log.Printf("%04X %-4s A:%02X X:%02X Y:%02X P:%02X SP:%02X", ev.PC, c.cur.instr.Name, ev.A, ev.X, ev.Y, ev.P, ev.SP)
		}
	}

	c.invoke(c.cur.instr, c.cur.addr, c.cur.kind, c.cur.pageCross)
	c.phase = phaseFetch
}

// serviceNMI pushes PC and status and jumps to the NMI vector. It
// consumes the current Fetch tick entirely; the pushed status has the B
// flag clear, since this is a hardware-initiated interrupt, not BRK.
func (c *CPU) serviceNMI() {
	c.pushWord(c.PC)
	c.push((c.P | flagU) &^ flagB)
	c.P |= flagI
	c.PC = c.readWord(nmiVector)
	c.irq.nmi = false
}

func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return lo | hi<<8
}

func (c *CPU) push(v uint8) {
	c.bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return lo | hi<<8
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool { return c.P&mask != 0 }

func (c *CPU) setZN(v uint8) {
	c.setFlag(flagZ, v == 0)
	c.setFlag(flagN, v&0x80 != 0)
}
