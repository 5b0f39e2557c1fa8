// Package groove models drum patterns: which voice sounds on which
// subdivision of which bar, plus the preset library and saved-groove storage.
package groove

import (
	"log"

	"github.com/velle/stix/audio"
)

// Note places one drum voice at a position in the pattern. Tick indexes the
// subdivision within the beat. Hand is optional sticking guidance shown when
// practicing the pattern.
type Note struct {
	Voice  string `json:"voice"`
	Bar    int    `json:"bar"`
	Beat   int    `json:"beat"`
	Tick   int    `json:"subdivision"`
	Accent bool   `json:"accent"`
	Hand   string `json:"hand,omitempty"`
}

const (
	DefaultBeatsPerBar = 4
	DefaultBars        = 1
	DefaultSubdivision = 4

	maxBeatsPerBar = 12
	maxSubdivision = 12
)

// Groove is a named pattern spanning one or more bars. Notes holds the raw
// pattern as loaded or authored; the unexported index holds only the notes
// that fit the grid and is what playback reads.
type Groove struct {
	Name        string `json:"name"`
	BeatsPerBar int    `json:"beats_per_bar"`
	Bars        int    `json:"bars"`
	Subdivision int    `json:"subdivision"`
	Notes       []Note `json:"notes"`

	index map[slot][]Note
}

type slot struct{ bar, beat, tick int }

// New returns an empty groove on the default grid.
func New(name string) *Groove {
	g := &Groove{
		Name:        name,
		BeatsPerBar: DefaultBeatsPerBar,
		Bars:        DefaultBars,
		Subdivision: DefaultSubdivision,
	}
	g.reindex()
	return g
}

func (g *Groove) normalize() {
	if g.BeatsPerBar < 1 {
		g.BeatsPerBar = DefaultBeatsPerBar
	}
	if g.BeatsPerBar > maxBeatsPerBar {
		g.BeatsPerBar = maxBeatsPerBar
	}
	if g.Bars < 1 {
		g.Bars = DefaultBars
	}
	if g.Subdivision < 1 {
		g.Subdivision = DefaultSubdivision
	}
	if g.Subdivision > maxSubdivision {
		g.Subdivision = maxSubdivision
	}
}

// reindex rebuilds the position lookup. Notes naming an unknown voice or
// falling outside the grid are logged and left out, never played.
func (g *Groove) reindex() {
	g.normalize()
	g.index = make(map[slot][]Note, len(g.Notes))
	for _, n := range g.Notes {
		switch {
		case !audio.KnownVoice(n.Voice):
			log.Printf("groove %q: unknown voice %q", g.Name, n.Voice)
		case n.Bar < 0 || n.Bar >= g.Bars,
			n.Beat < 0 || n.Beat >= g.BeatsPerBar,
			n.Tick < 0 || n.Tick >= g.Subdivision:
			log.Printf("groove %q: note off the grid: %+v", g.Name, n)
		default:
			s := slot{n.Bar, n.Beat, n.Tick}
			g.index[s] = append(g.index[s], n)
		}
	}
}

// NotesAt returns the notes sounding at a position. Bars beyond the groove
// length wrap around, so a caller can feed it a running bar counter.
func (g *Groove) NotesAt(bar, beat, tick int) []Note {
	if g.index == nil || g.Bars < 1 {
		return nil
	}
	return g.index[slot{bar % g.Bars, beat, tick}]
}

// SetGrid resizes the pattern grid and reindexes the notes against it.
func (g *Groove) SetGrid(beatsPerBar, bars, subdivision int) {
	g.BeatsPerBar = beatsPerBar
	g.Bars = bars
	g.Subdivision = subdivision
	g.reindex()
}

// SetNotes replaces the pattern.
func (g *Groove) SetNotes(notes []Note) {
	g.Notes = notes
	g.reindex()
}

// Renamed returns a copy of the groove under a new name, sharing the notes.
func (g *Groove) Renamed(name string) *Groove {
	out := *g
	out.Name = name
	return &out
}
