package audio

import (
	"math"
	"math/rand"
)

// Timbre holds the synthesis recipe for one percussion voice. Lengths are in
// milliseconds, frequencies in Hz, filter coefficients and mixes in [0,1].
type Timbre struct {
	Wave     string  // sine, square, triangle, noise, mix, hihat, cymbal
	Freq     float64 // 0 for pure-noise voices
	FreqEnd  float64 // sweep target, 0 disables the sweep
	LengthMs float64
	Volume   float64
	DecayMs  float64
	AttackMs float64
	NoiseMix float64   // sine vs noise blend for the mix wave
	NoiseHP  float64   // one-pole high-pass coefficient for the noise stage
	NoiseLP  float64   // one-pole low-pass coefficient for the noise stage
	ToneMix  float64   // noise vs partial-bank blend for hihat and cymbal
	Partials []float64 // additive bank for hihat and cymbal
	Variants int
}

var (
	defaultHihatPartials  = []float64{4600, 6000, 7600, 9200, 11200}
	defaultCymbalPartials = []float64{3200, 4100, 5200, 6400, 7800, 9300, 11100, 12900}
)

// renderVoice synthesizes one variant of a voice as floats in roughly [-1,1].
// Hard clamping is left to the encoder and mixer. Partial jitter and phases
// are drawn once per call so repeated hits of a multi-variant voice differ
// without sounding comb-filtered.
func renderVoice(t Timbre, sampleRate int, rng *rand.Rand) []float64 {
	sr := float64(sampleRate)
	n := int(sr * t.LengthMs / 1000)
	if n < 1 {
		n = 1
	}
	tau := sr * t.DecayMs / 1000
	if tau < 1 {
		tau = 1
	}
	duration := t.LengthMs / 1000
	if duration < 0.001 {
		duration = 0.001
	}
	attackSamples := 0
	if t.AttackMs > 0 {
		attackSamples = int(sr * t.AttackMs / 1000)
	}
	noiseMix := clamp01(t.NoiseMix)
	toneMix := clamp01(t.ToneMix)
	hp := clampCoeff(t.NoiseHP)
	lp := clampCoeff(t.NoiseLP)

	var partials, phases []float64
	if t.Wave == "hihat" || t.Wave == "cymbal" {
		base, jitter := t.Partials, 0.03
		if t.Wave == "cymbal" {
			jitter = 0.04
			if base == nil {
				base = defaultCymbalPartials
			}
		} else if base == nil {
			base = defaultHihatPartials
		}
		partials = make([]float64, len(base))
		phases = make([]float64, len(base))
		for i, f := range base {
			partials[i] = f * (1 + jitter*(rng.Float64()*2-1))
			phases[i] = rng.Float64() * 2 * math.Pi
		}
	}

	var hpState, lpState float64
	filteredNoise := func() float64 {
		x := rng.Float64()*2 - 1
		if hp > 0 {
			hpState += (x - hpState) * hp
			x -= hpState
		}
		if lp > 0 {
			lpState += (x - lpState) * lp
			x = lpState
		}
		return x
	}

	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		tSec := float64(i) / sr
		env := math.Exp(-float64(i) / tau)
		if attackSamples > 0 {
			if ramp := float64(i) / float64(attackSamples); ramp < 1 {
				env *= ramp
			}
		}

		f := t.Freq
		if t.FreqEnd != 0 && t.Freq > 0 {
			f = t.Freq * math.Pow(t.FreqEnd/t.Freq, tSec/duration)
		}
		phase := 0.0
		if f > 0 {
			phase = 2 * math.Pi * f * tSec
		}

		var base float64
		switch t.Wave {
		case "hihat", "cymbal":
			noise := filteredNoise()
			metal := 0.0
			if len(partials) > 0 {
				for k, pf := range partials {
					metal += math.Sin(2*math.Pi*pf*tSec + phases[k])
				}
				metal /= float64(len(partials))
			}
			base = (1-toneMix)*noise + toneMix*metal
		case "noise":
			base = filteredNoise()
		case "square":
			if math.Sin(phase) >= 0 {
				base = 1
			} else {
				base = -1
			}
		case "triangle":
			base = (2 / math.Pi) * math.Asin(clampUnit(math.Sin(phase)))
		case "mix":
			base = (1-noiseMix)*math.Sin(phase) + noiseMix*filteredNoise()
		default:
			base = math.Sin(phase)
		}
		samples[i] = base * env * t.Volume
	}
	return samples
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampCoeff(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 0.99 {
		return 0.99
	}
	return v
}
