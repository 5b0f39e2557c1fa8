package audio

import (
	"fmt"
	"math"
	"strings"
)

// ClickTone selects the metronome click sound.
type ClickTone int

const (
	ToneSineHigh ClickTone = iota
	ToneSineLow
	ToneTriangle
	ToneWoodblock
)

func (t ClickTone) String() string {
	switch t {
	case ToneSineLow:
		return "sine-low"
	case ToneTriangle:
		return "triangle"
	case ToneWoodblock:
		return "woodblock"
	default:
		return "sine-high"
	}
}

// ParseClickTone accepts the tone names shown in the REPL.
func ParseClickTone(s string) (ClickTone, error) {
	switch strings.ToLower(s) {
	case "high", "sine-high", "sine":
		return ToneSineHigh, nil
	case "low", "sine-low":
		return ToneSineLow, nil
	case "triangle":
		return ToneTriangle, nil
	case "woodblock", "wood":
		return ToneWoodblock, nil
	default:
		return ToneSineHigh, fmt.Errorf("unknown click tone: %v", s)
	}
}

// ClickTones lists the selectable tones in display order.
var ClickTones = []ClickTone{ToneSineHigh, ToneSineLow, ToneTriangle, ToneWoodblock}

// clickParams returns the synthesis parameters for a tone. Accent clicks are
// pitched up, longer and louder than their normal counterpart.
func clickParams(tone ClickTone, accent bool) (freq, ms, vol float64, wave string) {
	freq, ms, vol, wave = 2200, 12, 0.6, "sine"
	if accent {
		freq, ms, vol = 2800, 16, 0.9
	}
	switch tone {
	case ToneSineLow:
		freq, ms = 880, 20
		if accent {
			freq = 1100
		}
	case ToneTriangle:
		freq, ms, wave = 1200, 15, "triangle"
		if accent {
			freq = 1600
		}
	case ToneWoodblock:
		freq, ms, vol = 500, 40, 0.8
		if accent {
			freq, vol = 750, 1.0
		}
	}
	return freq, ms, vol, wave
}

// renderClick synthesizes a short click burst. Unlike drum voices the decay
// constant tracks the click length so every tone dies out inside its buffer.
func renderClick(freq, ms, volume float64, wave string, sampleRate int) []float64 {
	sr := float64(sampleRate)
	n := int(sr * ms / 1000)
	if n < 1 {
		n = 1
	}
	tau := float64(n) / 6
	if tau < 1 {
		tau = 1
	}
	samples := make([]float64, n)
	for i := range samples {
		phase := 2 * math.Pi * freq * float64(i) / sr
		var v float64
		switch wave {
		case "triangle":
			v = (2 / math.Pi) * math.Asin(clampUnit(math.Sin(phase)))
		case "square":
			if math.Sin(phase) > 0 {
				v = 1
			} else {
				v = -1
			}
		default:
			v = math.Sin(phase)
		}
		samples[i] = v * math.Exp(-float64(i)/tau) * volume
	}
	return samples
}
