package cartridge

// Load parses a complete iNES cartridge image (header, optional trainer,
// PRG banks, CHR banks) and builds the Cartridge, including its concrete
// mapper. The byte slice is owned by the caller; this function only reads
// from it. Grounded on the teacher's LoadFromReader, restructured to parse
// an in-memory slice (the host, not the core, is responsible for reading
// the file — spec.md §1 places the cartridge file reader out of scope).
func Load(raw []uint8) (*Cartridge, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	pos := 16
	if h.HasTrainer {
		pos += 512
	}

	prgSize := int(h.PRGBanks) * 0x4000
	if pos+prgSize > len(raw) {
		return nil, ErrHeaderSize
	}
	prg := raw[pos : pos+prgSize]
	pos += prgSize

	var chr []uint8
	if h.CHRBanks > 0 {
		chrSize := int(h.CHRBanks) * 0x2000
		if pos+chrSize > len(raw) {
			return nil, ErrHeaderSize
		}
		chr = raw[pos : pos+chrSize]
	}

	return newCartridge(h, prg, chr)
}
