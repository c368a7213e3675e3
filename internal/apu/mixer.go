package apu

// pulseTable and tndTable are the non-linear mixer lookups from the
// NES APU's documented mixing formulae:
//
//	pulse_out = 95.88 / (8128/(p1+p2) + 100)
//	tnd_out   = 159.79 / (1 / (t/8227 + n/12241 + d/22638) + 100)
//
// Precomputing both as lookup tables avoids floating-point division in
// the per-tick mix path.
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for i := range pulseTable {
		if i == 0 {
			continue
		}
		pulseTable[i] = float32(95.88 / (8128.0/float64(i) + 100.0))
	}
	for i := range tndTable {
		if i == 0 {
			continue
		}
		// The combined index i = 3*triangle + 2*noise + dmc admits the
		// same single-variable approximation nesdev documents in place
		// of the full three-term reciprocal.
		tndTable[i] = float32(163.67 / (24329.0/float64(i) + 100.0))
	}
}
