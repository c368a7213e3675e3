// Package ppu implements the Picture Processing Unit: the scanline/dot
// pipeline that composes background and sprite pixels into one RGB frame
// per spec.md §4.3.
package ppu

// Bus is the PPU's view of the address space: pattern tables, nametable
// RAM, and palette RAM, all owned by the cartridge mapper wrapper
// (internal/cartridge). The PPU never special-cases mirroring itself —
// that lives in the mapper wrapper, per spec.md §4.3's mirroring table.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const (
	scanlinesPerFrame = 262
	dotsPerScanline   = 341
	visibleWidth      = 256
	visibleHeight     = 240
)

// cachedSprite is one entry of the eight-slot secondary-OAM cache built by
// sprite evaluation at dot 257 of the preceding scanline.
type cachedSprite struct {
	y, tile, attr, x uint8
	slot             int // original OAM index 0-63, for sprite-0 hit tracking
}

// spriteUnit is one of the eight output units loaded at dot 321: an
// x-counter, two 8-bit pattern planes, and static palette/priority/slot
// fields, per spec.md §3's PPU state model.
type spriteUnit struct {
	xCounter  uint8
	patternLo uint8
	patternHi uint8
	palette   uint8
	priority  bool // true = behind background
	slot      int
	active    bool
}

// PPU is the 2C02-style rendering pipeline.
type PPU struct {
	bus Bus

	// CPU-visible registers.
	ctrl, mask, status uint8
	oamAddr            uint8
	lastWrite          uint8

	// Scroll/address latch (v/t/x/w), named per the canonical nesdev
	// convention the teacher repo also uses.
	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8

	oam [256]uint8

	scanline int
	dot      int
	oddFrame bool

	// Background pipeline: 16-bit pattern shift registers plus an 8-bit
	// attribute shift register pair, fed from latches reloaded every 8
	// dots.
	bgPatternLo, bgPatternHi uint16
	bgAttrLo, bgAttrHi       uint8
	latchNT, latchAT         uint8
	latchPtLo, latchPtHi     uint8

	spriteCache [8]cachedSprite
	spriteCount int
	spriteUnits [8]spriteUnit

	sprite0Hit     bool
	spriteOverflow bool

	frame [visibleWidth * visibleHeight * 3]uint8

	nmiCallback func()
}

// New creates a PPU wired to the given bus.
func New(bus Bus) *PPU {
	return &PPU{bus: bus, scanline: scanlinesPerFrame - 1}
}

// SetNMICallback installs the function invoked when vblank starts with
// NMI-on-vblank enabled in CTRL.
func (p *PPU) SetNMICallback(cb func()) { p.nmiCallback = cb }

// Reset returns the PPU to its post-power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.scanline = scanlinesPerFrame - 1
	p.dot = 0
	p.oddFrame = false
	p.sprite0Hit = false
	p.spriteOverflow = false
}

// FrameBuffer returns the last completed frame as packed RGB8 triples,
// row-major, per spec.md §6.
func (p *PPU) FrameBuffer() []uint8 { return p.frame[:] }

func (p *PPU) renderingEnabled() bool  { return p.mask&0x18 != 0 }
func (p *PPU) backgroundEnabled() bool { return p.mask&0x08 != 0 }
func (p *PPU) spritesEnabled() bool    { return p.mask&0x10 != 0 }

// Tick advances the PPU by one dot. The clock sequencer calls this once
// per master tick, per spec.md §4.1.
func (p *PPU) Tick() {
	visible := p.scanline >= 0 && p.scanline < visibleHeight
	preRender := p.scanline == scanlinesPerFrame-1

	if visible || preRender {
		p.renderTick(preRender)
	}

	if p.scanline == visibleHeight+1 && p.dot == 1 {
		p.status |= 0x80
		if p.ctrl&0x80 != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	}
	if preRender && p.dot == 1 {
		p.status &^= 0xE0
		p.sprite0Hit = false
		p.spriteOverflow = false
	}

	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) renderTick(preRender bool) {
	if !p.renderingEnabled() {
		return
	}

	fetchPhase := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if fetchPhase {
		p.backgroundFetchStep()
	}
	if p.dot >= 2 && p.dot <= 257 {
		p.shiftBackgroundRegisters()
	}

	if !preRender && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel(p.dot-1, p.scanline)
		p.shiftSprites()
	}

	if p.dot == 256 {
		p.incrementY()
	}
	if p.dot == 257 {
		p.copyX()
		if !preRender {
			p.evaluateSprites()
		}
	}
	if p.dot == 321 {
		p.loadSpriteUnits()
	}
	if preRender && p.dot >= 280 && p.dot <= 304 {
		p.copyY()
	}
}

// backgroundFetchStep performs one of the four sub-fetches of the 8-dot
// tile cycle (nametable byte, attribute byte, pattern low, pattern high),
// reloading the shift registers' low bytes at the cycle boundary. Spec.md's
// non-goal of sub-dot register-read accuracy licenses collapsing the
// classic two-dots-per-fetch timing into one step per sub-fetch.
func (p *PPU) backgroundFetchStep() {
	switch p.dot % 8 {
	case 1:
		ntAddr := 0x2000 | (p.v & 0x0FFF)
		p.latchNT = p.bus.Read(ntAddr)
	case 3:
		atAddr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		shift := ((p.v >> 4) & 4) | (p.v & 2)
		p.latchAT = (p.bus.Read(atAddr) >> shift) & 0x03
	case 5:
		base := p.backgroundPatternBase()
		fineY := (p.v >> 12) & 0x07
		p.latchPtLo = p.bus.Read(base + uint16(p.latchNT)*16 + fineY)
	case 7:
		base := p.backgroundPatternBase()
		fineY := (p.v >> 12) & 0x07
		p.latchPtHi = p.bus.Read(base + uint16(p.latchNT)*16 + fineY + 8)
	case 0:
		p.bgPatternLo = (p.bgPatternLo & 0xFF00) | uint16(p.latchPtLo)
		p.bgPatternHi = (p.bgPatternHi & 0xFF00) | uint16(p.latchPtHi)
		if p.latchAT&1 != 0 {
			p.bgAttrLo = 0xFF
		} else {
			p.bgAttrLo = 0x00
		}
		if p.latchAT&2 != 0 {
			p.bgAttrHi = 0xFF
		} else {
			p.bgAttrHi = 0x00
		}
		p.incrementX()
	}
}

func (p *PPU) backgroundPatternBase() uint16 {
	if p.ctrl&0x10 != 0 {
		return 0x1000
	}
	return 0x0000
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bgPatternLo <<= 1
	p.bgPatternHi <<= 1
	p.bgAttrLo <<= 1
	p.bgAttrHi <<= 1
}

func (p *PPU) shiftSprites() {
	for i := range p.spriteUnits {
		u := &p.spriteUnits[i]
		if u.xCounter > 0 {
			u.xCounter--
			if u.xCounter == 0 {
				u.active = true
			}
			continue
		}
		if u.active {
			u.patternLo <<= 1
			u.patternHi <<= 1
		}
	}
}

// renderPixel composes the background and sprite pixel for (x, y) per the
// multiplexer table in spec.md §4.3 and writes the RGB8 triple into the
// frame buffer.
func (p *PPU) renderPixel(x, y int) {
	bgPixel, bgPalette := uint8(0), uint8(0)
	if p.backgroundEnabled() {
		mask := uint16(0x8000) >> p.x
		bit0, bit1 := uint8(0), uint8(0)
		if p.bgPatternLo&mask != 0 {
			bit0 = 1
		}
		if p.bgPatternHi&mask != 0 {
			bit1 = 1
		}
		bgPixel = bit1<<1 | bit0

		attrMask := uint8(0x80) >> p.x
		aLo, aHi := uint8(0), uint8(0)
		if p.bgAttrLo&attrMask != 0 {
			aLo = 1
		}
		if p.bgAttrHi&attrMask != 0 {
			aHi = 1
		}
		bgPalette = aHi<<1 | aLo
	}

	spPixel, spPalette, spPriority, spSlot := uint8(0), uint8(0), false, -1
	if p.spritesEnabled() {
		for i := range p.spriteUnits {
			u := &p.spriteUnits[i]
			if !u.active {
				continue
			}
			bit0 := (u.patternLo >> 7) & 1
			bit1 := (u.patternHi >> 7) & 1
			v := bit1<<1 | bit0
			if v != 0 {
				spPixel = v
				spPalette = u.palette
				spPriority = u.priority
				spSlot = u.slot
				break
			}
		}
	}

	if bgPixel != 0 && spPixel != 0 && spSlot == 0 && x != 255 {
		p.sprite0Hit = true
		p.status |= 0x40
	}

	var group, palette, pattern uint8
	switch {
	case bgPixel == 0 && spPixel == 0:
		group, palette, pattern = 0, 0, 0
	case bgPixel == 0:
		group, palette, pattern = 0x10, spPalette, spPixel
	case spPixel == 0:
		group, palette, pattern = 0, bgPalette, bgPixel
	case spPriority:
		group, palette, pattern = 0, bgPalette, bgPixel
	default:
		group, palette, pattern = 0x10, spPalette, spPixel
	}

	paletteAddr := 0x3F00 | uint16(group) | uint16(palette)<<2 | uint16(pattern)
	colorIndex := p.bus.Read(paletteAddr) & 0x3F
	r, g, b := rgbPalette[colorIndex][0], rgbPalette[colorIndex][1], rgbPalette[colorIndex][2]
	i := (y*visibleWidth + x) * 3
	p.frame[i], p.frame[i+1], p.frame[i+2] = r, g, b
}

// evaluateSprites scans primary OAM for sprites visible on the next
// scanline, per spec.md §4.3 (run at dot 257 of scanline N for scanline
// N+1). Sprites beyond eight are dropped without setting an overflow flag
// (overflow detection is explicitly out of scope per spec.md §9).
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	target := p.scanline + 1

	p.spriteCount = 0
	for slot := 0; slot < 64 && p.spriteCount < 8; slot++ {
		base := slot * 4
		y := int(p.oam[base])
		if target < y+1 || target >= y+1+height {
			continue
		}
		p.spriteCache[p.spriteCount] = cachedSprite{
			y:    p.oam[base],
			tile: p.oam[base+1],
			attr: p.oam[base+2],
			x:    p.oam[base+3],
			slot: slot,
		}
		p.spriteCount++
	}
}

// loadSpriteUnits fetches pattern bytes for each cached sprite and loads
// the eight output units, per spec.md §4.3 (dot 321).
func (p *PPU) loadSpriteUnits() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	target := p.scanline + 1

	for i := 0; i < 8; i++ {
		u := &p.spriteUnits[i]
		*u = spriteUnit{slot: -1}
		if i >= p.spriteCount {
			continue
		}
		s := p.spriteCache[i]
		row := target - (int(s.y) + 1)
		if s.attr&0x80 != 0 {
			row = height - 1 - row
		}

		var base uint16
		tile := s.tile
		if height == 16 {
			if tile&1 != 0 {
				base = 0x1000
			}
			tile &^= 1
			if row >= 8 {
				tile++
				row -= 8
			}
		} else if p.ctrl&0x08 != 0 {
			base = 0x1000
		}

		lo := p.bus.Read(base + uint16(tile)*16 + uint16(row))
		hi := p.bus.Read(base + uint16(tile)*16 + uint16(row) + 8)
		if s.attr&0x40 != 0 {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		u.xCounter = s.x
		u.patternLo = lo
		u.patternHi = hi
		u.palette = s.attr & 0x03
		u.priority = s.attr&0x20 != 0
		u.slot = s.slot
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// incrementX advances coarse X in v, wrapping into the adjacent nametable.
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY advances fine Y, then coarse Y, wrapping per the 30-row
// nametable quirk (rows 29-31 wrap without necessarily flipping
// nametables, matching real hardware).
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyX() { p.v = (p.v & 0xFBE0) | (p.t & 0x041F) }
func (p *PPU) copyY() { p.v = (p.v & 0x841F) | (p.t & 0x7BE0) }
