package audio

import "math"

// encode quantizes float samples in [-1,1] to raw PCM bytes in the given
// format, repeating each sample across all channels. Unsupported depth and
// type combinations fall back to 16-bit signed, keeping the requested byte
// order, so encoding never fails.
func encode(samples []float64, f Format) []byte {
	depth, typ := f.BitDepth, f.Type
	switch {
	case typ == Float && depth == 32:
	case typ != Float && (depth == 8 || depth == 16 || depth == 24 || depth == 32):
	default:
		depth, typ = 16, SignedInt
	}
	stride := depth / 8

	out := make([]byte, len(samples)*f.Channels*stride)
	pos := 0
	for _, s := range samples {
		s = clampUnit(s)
		var word uint32
		switch typ {
		case Float:
			word = math.Float32bits(float32(s))
		case UnsignedInt:
			max := float64(uint64(1)<<depth - 1)
			word = uint32(uint64(math.Round((s*0.5 + 0.5) * max)))
		default:
			max := float64(int64(1)<<(depth-1) - 1)
			word = uint32(int32(math.Round(s * max)))
		}
		for ch := 0; ch < f.Channels; ch++ {
			putWord(out[pos:pos+stride], word, f.BigEndian)
			pos += stride
		}
	}
	return out
}

func putWord(b []byte, w uint32, bigEndian bool) {
	for i := range b {
		shift := 8 * i
		if bigEndian {
			shift = 8 * (len(b) - 1 - i)
		}
		b[i] = byte(w >> shift)
	}
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
