package cartridge

import "errors"

// Sentinel errors returned by Load. Once a cartridge is accepted, the core
// never returns an error from emulation again.
var (
	ErrHeaderSize      = errors.New("cartridge: image shorter than the 16-byte header or its declared PRG/CHR data")
	ErrHeaderSignature = errors.New("cartridge: missing \"NES\\x1A\" signature")
	ErrHeaderFormat    = errors.New("cartridge: classic header has non-zero trailing bytes")
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper number")
)
