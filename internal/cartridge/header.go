package cartridge

// Header is the parsed 16-byte iNES header, plus the derived attributes the
// rest of the core needs (mapper number, mirroring, battery, trainer,
// NES 2.0). The TV-system region is not decoded.
//
// Offsets follow the format documented in spec.md §6: 4-byte signature,
// PRG/CHR bank counts, two flag bytes, and 8 bytes that are either all-zero
// (classic iNES) or carry NES 2.0 extensions.
type Header struct {
	PRGBanks  uint8 // 16 KiB units
	CHRBanks  uint8 // 8 KiB units; 0 means CHR RAM
	Mapper    uint8
	Mirroring Mirroring
	FourScreen bool
	Battery   bool
	HasTrainer bool
	NES20     bool
}

var signature = [4]byte{0x4E, 0x45, 0x53, 0x1A} // "NES\x1A"

// parseHeader validates and decodes the 16-byte iNES header from raw.
func parseHeader(raw []byte) (Header, error) {
	if len(raw) < 16 {
		return Header{}, ErrHeaderSize
	}
	if raw[0] != signature[0] || raw[1] != signature[1] || raw[2] != signature[2] || raw[3] != signature[3] {
		return Header{}, ErrHeaderSignature
	}

	flags6 := raw[6]
	flags7 := raw[7]

	nes20 := flags7&0x0C == 0x08
	if !nes20 {
		for _, b := range raw[12:16] {
			if b != 0 {
				return Header{}, ErrHeaderFormat
			}
		}
	}

	h := Header{
		PRGBanks:   raw[4],
		CHRBanks:   raw[5],
		Mapper:     (flags6 >> 4) | (flags7 & 0xF0),
		FourScreen: flags6&0x08 != 0,
		Battery:    flags6&0x02 != 0,
		HasTrainer: flags6&0x04 != 0,
		NES20:      nes20,
	}
	if h.FourScreen {
		h.Mirroring = MirrorFourScreen
	} else if flags6&0x01 != 0 {
		h.Mirroring = MirrorVertical
	} else {
		h.Mirroring = MirrorHorizontal
	}
	return h, nil
}
