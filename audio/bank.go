package audio

import "math/rand"

// AccentGain boosts accented hits after synthesis, before encoding. Tuned by
// ear rather than derived; treat as adjustable.
const AccentGain = 1.25

// Bank owns every synthesized drum voice plus the click pair, pre-encoded for
// the active format. It is confined to the goroutine that feeds the sinks:
// parameter changes from elsewhere must be handed to that goroutine, so the
// bank itself takes no locks.
type Bank struct {
	format Format
	mode   SynthMode
	tone   ClickTone
	volume float64
	rng    *rand.Rand
	gen    uint64

	voices map[string]*voiceSamples
	click  [2][]byte // normal, accent
}

// voiceSamples keeps the float variants alongside their encodings so the
// mixer can re-sum without another synthesis pass.
type voiceSamples struct {
	floats [][]float64
	plain  [][]byte
	accent [][]byte
}

// NewBank renders the full kit for the given format. The caller supplies the
// random source so tests can seed variant synthesis and selection.
func NewBank(f Format, rng *rand.Rand) *Bank {
	b := &Bank{mode: FullKit, tone: ToneSineHigh, volume: 1, rng: rng}
	b.Rebuild(f)
	return b
}

// Rebuild regenerates and re-encodes every voice and click for f, discarding
// all previous buffers. Mix caches keyed on the old buffers notice via
// Generation and drop their entries.
func (b *Bank) Rebuild(f Format) {
	b.format = f
	b.gen++
	b.voices = make(map[string]*voiceSamples)
	kit := timbres(b.mode)
	for _, name := range Voices {
		t, ok := kit[name]
		if !ok {
			continue
		}
		variants := t.Variants
		if variants < 1 {
			variants = 1
		}
		vs := &voiceSamples{}
		for i := 0; i < variants; i++ {
			s := renderVoice(t, f.SampleRate, b.rng)
			scale(s, b.volume)
			vs.floats = append(vs.floats, s)
			vs.plain = append(vs.plain, encode(s, f))
			vs.accent = append(vs.accent, encode(scaled(s, AccentGain), f))
		}
		b.voices[name] = vs
	}
	for i, accent := range []bool{false, true} {
		freq, ms, vol, wave := clickParams(b.tone, accent)
		b.click[i] = encode(renderClick(freq, ms, vol*b.volume, wave, f.SampleRate), f)
	}
}

// Click returns the encoded click sample.
func (b *Bank) Click(accent bool) []byte {
	if accent {
		return b.click[1]
	}
	return b.click[0]
}

// Voice returns a pre-encoded buffer for the named voice, choosing a random
// variant when the voice has several. ok is false for unknown names.
func (b *Bank) Voice(name string, accent bool) ([]byte, bool) {
	vs, ok := b.voices[CanonicalVoice(name)]
	if !ok {
		return nil, false
	}
	i := 0
	if len(vs.plain) > 1 {
		i = b.rng.Intn(len(vs.plain))
	}
	if accent {
		return vs.accent[i], true
	}
	return vs.plain[i], true
}

// VariantCount reports how many samples exist for a voice, 0 for unknown names.
func (b *Bank) VariantCount(name string) int {
	vs, ok := b.voices[CanonicalVoice(name)]
	if !ok {
		return 0
	}
	return len(vs.floats)
}

// Generation increments on every Rebuild. Callers holding buffers or caches
// compare it to decide whether their copies are stale.
func (b *Bank) Generation() uint64 { return b.gen }

func (b *Bank) Format() Format { return b.format }

func (b *Bank) Mode() SynthMode { return b.mode }

// SetMode switches timbre tables and rebuilds when the mode actually changes.
func (b *Bank) SetMode(m SynthMode) {
	if m == b.mode {
		return
	}
	b.mode = m
	b.Rebuild(b.format)
}

func (b *Bank) Tone() ClickTone { return b.tone }

// SetClickTone rebuilds the click pair when the tone actually changes.
func (b *Bank) SetClickTone(t ClickTone) {
	if t == b.tone {
		return
	}
	b.tone = t
	b.Rebuild(b.format)
}

func (b *Bank) Volume() float64 { return b.volume }

// SetVolume bakes a master volume in [0,1] into every rendered buffer.
func (b *Bank) SetVolume(v float64) {
	v = clamp01(v)
	if v == b.volume {
		return
	}
	b.volume = v
	b.Rebuild(b.format)
}

func scale(samples []float64, gain float64) {
	if gain == 1 {
		return
	}
	for i := range samples {
		samples[i] *= gain
	}
}

func scaled(samples []float64, gain float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s * gain
	}
	return out
}
