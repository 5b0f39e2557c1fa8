package groove

import "strings"

// The built-in library. Every preset runs one bar of four beats; only the
// subdivision differs.

func preset(name string, subdivision int, notes []Note) *Groove {
	g := &Groove{
		Name:        name,
		BeatsPerBar: 4,
		Bars:        1,
		Subdivision: subdivision,
		Notes:       notes,
	}
	g.reindex()
	return g
}

func n(voice string, beat, tick int) Note {
	return Note{Voice: voice, Beat: beat, Tick: tick}
}

func na(voice string, beat, tick int) Note {
	return Note{Voice: voice, Beat: beat, Tick: tick, Accent: true}
}

func halfTimeNotes() []Note {
	var notes []Note
	for beat := 0; beat < 4; beat++ {
		for tick := 0; tick < 4; tick++ {
			notes = append(notes, n("hihat", beat, tick))
		}
	}
	return append(notes, na("kick", 0, 0), na("snare", 2, 0))
}

var presets = []*Groove{
	preset("Basic Rock Beat", 2, []Note{
		n("hihat", 0, 0), n("hihat", 0, 1), n("hihat", 1, 0), n("hihat", 1, 1),
		n("hihat", 2, 0), n("hihat", 2, 1), n("hihat", 3, 0), n("hihat", 3, 1),
		na("kick", 0, 0), n("kick", 2, 0),
		na("snare", 1, 0), na("snare", 3, 0),
	}),
	preset("Rock with Kick Variations", 4, []Note{
		n("hihat", 0, 0), n("hihat", 0, 2), n("hihat", 1, 0), n("hihat", 1, 2),
		n("hihat", 2, 0), n("hihat", 2, 2), n("hihat", 3, 0), n("hihat", 3, 2),
		na("kick", 0, 0), n("kick", 1, 3), n("kick", 2, 0), n("kick", 3, 2),
		na("snare", 1, 0), na("snare", 3, 0),
	}),
	preset("Motown Groove", 4, []Note{
		na("hihat", 0, 0), na("hihat", 1, 0), na("hihat", 2, 0), na("hihat", 3, 0),
		na("kick", 0, 0), n("kick", 1, 2), n("kick", 2, 1), n("kick", 3, 3),
		na("snare", 1, 0), na("snare", 3, 0),
	}),
	preset("Jazz Swing Pattern", 3, []Note{
		na("ride", 0, 0), n("ride", 0, 2), na("ride", 1, 0), n("ride", 1, 2),
		na("ride", 2, 0), n("ride", 2, 2), na("ride", 3, 0), n("ride", 3, 2),
		n("hihat", 1, 0), n("hihat", 3, 0),
		n("kick", 0, 0), n("kick", 2, 1),
	}),
	preset("Linear Groove", 4, []Note{
		na("kick", 0, 0), n("hihat", 0, 1), n("snare", 0, 2), n("hihat", 0, 3),
		n("kick", 1, 0), n("hihat", 1, 1), na("snare", 1, 2), n("hihat", 1, 3),
		n("kick", 2, 0), n("hihat", 2, 1), n("snare", 2, 2), n("hihat", 2, 3),
		n("kick", 3, 0), n("hihat", 3, 1), na("snare", 3, 2), n("kick", 3, 3),
	}),
	preset("Basic Tom Fill", 4, []Note{
		n("hihat", 0, 0), n("hihat", 0, 2), n("hihat", 1, 0), n("hihat", 1, 2),
		n("hihat", 2, 0), n("hihat", 2, 2),
		na("kick", 0, 0), n("kick", 2, 0),
		na("snare", 1, 0),
		na("tom1", 3, 0), n("tom1", 3, 1), n("tom2", 3, 2), n("tom3", 3, 3),
	}),
	preset("Half-time Groove", 4, halfTimeNotes()),
	preset("Shuffle Pattern", 3, []Note{
		na("hihat", 0, 0), n("hihat", 0, 2), n("hihat", 1, 0), n("hihat", 1, 2),
		na("hihat", 2, 0), n("hihat", 2, 2), n("hihat", 3, 0), n("hihat", 3, 2),
		na("kick", 0, 0), n("kick", 2, 0),
		na("snare", 1, 0), na("snare", 3, 0),
	}),
	preset("Paradiddle Groove", 4, []Note{
		na("hihat", 0, 0), n("snare", 0, 1), n("hihat", 0, 2), n("snare", 0, 3),
		na("snare", 1, 0), n("hihat", 1, 1), n("snare", 1, 2), n("snare", 1, 3),
		n("hihat", 2, 0), n("snare", 2, 1), n("hihat", 2, 2), n("snare", 2, 3),
		n("snare", 3, 0), n("hihat", 3, 1), n("snare", 3, 2), n("snare", 3, 3),
		na("kick", 0, 0), n("kick", 2, 0),
	}),
}

// Presets returns the built-in grooves in display order.
func Presets() []*Groove {
	return presets
}

// PresetNames lists the built-in groove names in display order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, g := range presets {
		names[i] = g.Name
	}
	return names
}

// Preset finds a built-in groove by name, ignoring case.
func Preset(name string) (*Groove, bool) {
	for _, g := range presets {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return nil, false
}
