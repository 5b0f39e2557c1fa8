package audio

// SynthMode selects which timbre table the bank renders from.
type SynthMode int

const (
	// FullKit uses layered noise, sweeps and partial banks, with several
	// variants per voice so repeated hits are not carbon copies.
	FullKit SynthMode = iota
	// SimplifiedKit uses single-variant sine and noise voices. It is cheap
	// to render and keeps note clusters cacheable.
	SimplifiedKit
)

func (m SynthMode) String() string {
	if m == SimplifiedKit {
		return "simplified"
	}
	return "full"
}

// Voices lists every drum voice in display order.
var Voices = []string{
	"kick", "snare", "hihat_closed", "hihat_open",
	"ride", "crash", "tom1", "tom2", "tom3",
}

// CanonicalVoice resolves voice aliases to timbre table names.
func CanonicalVoice(name string) string {
	if name == "hihat" {
		return "hihat_closed"
	}
	return name
}

// KnownVoice reports whether name resolves to a drum voice.
func KnownVoice(name string) bool {
	name = CanonicalVoice(name)
	for _, v := range Voices {
		if v == name {
			return true
		}
	}
	return false
}

func timbres(mode SynthMode) map[string]Timbre {
	if mode == SimplifiedKit {
		return simplifiedKit
	}
	return fullKit
}

var (
	hihatPartials = []float64{4200, 5600, 7200, 8800, 10400}
	ridePartials  = []float64{2800, 3600, 4500, 5600, 6800, 8100, 9600, 11400}
	crashPartials = []float64{3200, 4100, 5200, 6400, 7800, 9300, 11100, 12900, 14600}
)

var fullKit = map[string]Timbre{
	"kick": {
		Wave: "mix", Freq: 150, FreqEnd: 55, LengthMs: 120, Volume: 0.9,
		DecayMs: 170, AttackMs: 2, NoiseMix: 0.08, NoiseHP: 0.25, Variants: 2,
	},
	"snare": {
		Wave: "mix", Freq: 200, FreqEnd: 170, LengthMs: 120, Volume: 0.72,
		DecayMs: 160, AttackMs: 2, NoiseMix: 0.7, NoiseHP: 0.14, NoiseLP: 0.32, Variants: 3,
	},
	"hihat_closed": {
		Wave: "hihat", LengthMs: 35, Volume: 0.28, DecayMs: 40, AttackMs: 2,
		NoiseHP: 0.22, NoiseLP: 0.45, ToneMix: 0.52, Partials: hihatPartials, Variants: 4,
	},
	"hihat_open": {
		Wave: "hihat", LengthMs: 220, Volume: 0.3, DecayMs: 260, AttackMs: 5,
		NoiseHP: 0.12, NoiseLP: 0.4, ToneMix: 0.6, Partials: hihatPartials, Variants: 4,
	},
	"ride": {
		Wave: "cymbal", LengthMs: 260, Volume: 0.3, DecayMs: 420, AttackMs: 3,
		NoiseHP: 0.1, NoiseLP: 0.28, ToneMix: 0.5, Partials: ridePartials, Variants: 3,
	},
	"crash": {
		Wave: "cymbal", LengthMs: 520, Volume: 0.4, DecayMs: 900, AttackMs: 2,
		NoiseHP: 0.18, NoiseLP: 0.28, ToneMix: 0.62, Partials: crashPartials, Variants: 3,
	},
	"tom1": {
		Wave: "mix", Freq: 240, FreqEnd: 170, LengthMs: 140, Volume: 0.7,
		DecayMs: 200, AttackMs: 2, NoiseMix: 0.12, NoiseHP: 0.08, NoiseLP: 0.25, Variants: 2,
	},
	"tom2": {
		Wave: "mix", Freq: 180, FreqEnd: 130, LengthMs: 150, Volume: 0.7,
		DecayMs: 210, AttackMs: 2, NoiseMix: 0.1, NoiseHP: 0.08, NoiseLP: 0.25, Variants: 2,
	},
	"tom3": {
		Wave: "mix", Freq: 140, FreqEnd: 95, LengthMs: 170, Volume: 0.75,
		DecayMs: 230, AttackMs: 2, NoiseMix: 0.1, NoiseHP: 0.07, NoiseLP: 0.25, Variants: 2,
	},
}

var simplifiedKit = map[string]Timbre{
	"kick": {
		Wave: "sine", Freq: 120, FreqEnd: 70, LengthMs: 60, Volume: 0.85,
		DecayMs: 80, AttackMs: 1, Variants: 1,
	},
	"snare": {
		Wave: "noise", LengthMs: 60, Volume: 0.6, DecayMs: 70, AttackMs: 1,
		NoiseHP: 0.18, NoiseLP: 0.35, Variants: 1,
	},
	"hihat_closed": {
		Wave: "noise", LengthMs: 25, Volume: 0.22, DecayMs: 30, AttackMs: 1,
		NoiseHP: 0.3, NoiseLP: 0.55, Variants: 1,
	},
	"hihat_open": {
		Wave: "noise", LengthMs: 80, Volume: 0.24, DecayMs: 110, AttackMs: 2,
		NoiseHP: 0.2, NoiseLP: 0.5, Variants: 1,
	},
	"ride": {
		Wave: "noise", LengthMs: 120, Volume: 0.2, DecayMs: 140, AttackMs: 2,
		NoiseHP: 0.2, NoiseLP: 0.4, Variants: 1,
	},
	"crash": {
		Wave: "noise", LengthMs: 160, Volume: 0.26, DecayMs: 190, AttackMs: 2,
		NoiseHP: 0.15, NoiseLP: 0.4, Variants: 1,
	},
	"tom1": {
		Wave: "sine", Freq: 240, FreqEnd: 160, LengthMs: 80, Volume: 0.6,
		DecayMs: 100, AttackMs: 1, Variants: 1,
	},
	"tom2": {
		Wave: "sine", Freq: 180, FreqEnd: 120, LengthMs: 90, Volume: 0.6,
		DecayMs: 110, AttackMs: 1, Variants: 1,
	},
	"tom3": {
		Wave: "sine", Freq: 140, FreqEnd: 100, LengthMs: 100, Volume: 0.6,
		DecayMs: 120, AttackMs: 1, Variants: 1,
	},
}
