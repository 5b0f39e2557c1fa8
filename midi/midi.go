// Package midi turns drum hits into notes on a General MIDI percussion
// channel, for driving an external sound module instead of the built-in
// synth.
package midi

import (
	"log"
	"math"
	"sync"
	"time"
)

// Channel is the zero-based GM percussion channel.
const Channel = 9

// noteLength is how long a drum note is held before note-off. Percussion
// modules gate the sound themselves; the off just releases the voice.
const noteLength = 60 * time.Millisecond

// accentGain scales the mapped velocity for accented hits.
const accentGain = 1.25

// Sound is the MIDI note and base velocity a voice plays at.
type Sound struct {
	Note     int `json:"note"`
	Velocity int `json:"velocity"`
}

// DefaultMapping returns the GM drum mapping for every known voice.
func DefaultMapping() map[string]Sound {
	return map[string]Sound{
		"kick":         {36, 100},
		"snare":        {38, 100},
		"hihat_closed": {42, 90},
		"hihat_open":   {46, 90},
		"ride":         {51, 90},
		"crash":        {49, 100},
		"tom1":         {50, 95},
		"tom2":         {47, 95},
		"tom3":         {45, 95},
	}
}

// Port is a MIDI output device.
type Port interface {
	NoteOn(channel, note, velocity int) error
	NoteOff(channel, note int) error
	Close() error
}

// Writer schedules drum notes on a port. Note-offs fire from timer
// goroutines, so port access is serialized here.
type Writer struct {
	mu      sync.Mutex
	port    Port
	mapping map[string]Sound
	after   func(time.Duration, func())
}

func NewWriter(port Port) *Writer {
	return &Writer{
		port:    port,
		mapping: DefaultMapping(),
		after:   func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Note plays one drum voice. Unknown voices are dropped; accents scale the
// velocity, clamped into valid MIDI range either way.
func (w *Writer) Note(voice string, accent bool) {
	w.mu.Lock()
	s, ok := w.mapping[canonical(voice)]
	w.mu.Unlock()
	if !ok {
		return
	}
	vel := s.Velocity
	if accent {
		vel = int(math.Round(float64(vel) * accentGain))
	}
	vel = clamp(vel, 1, 127)

	w.mu.Lock()
	err := w.port.NoteOn(Channel, s.Note, vel)
	w.mu.Unlock()
	if err != nil {
		log.Printf("midi: note on: %v", err)
		return
	}
	w.after(noteLength, func() {
		w.mu.Lock()
		err := w.port.NoteOff(Channel, s.Note)
		w.mu.Unlock()
		if err != nil {
			log.Printf("midi: note off: %v", err)
		}
	})
}

// SetSound remaps a voice. Empty names are ignored; note and velocity are
// clamped into MIDI range.
func (w *Writer) SetSound(voice string, note, velocity int) {
	if voice == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mapping[canonical(voice)] = Sound{
		Note:     clamp(note, 0, 127),
		Velocity: clamp(velocity, 1, 127),
	}
}

// Sounds returns a copy of the active mapping.
func (w *Writer) Sounds() map[string]Sound {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]Sound, len(w.mapping))
	for k, v := range w.mapping {
		out[k] = v
	}
	return out
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.port.Close()
}

func canonical(voice string) string {
	if voice == "hihat" {
		return "hihat_closed"
	}
	return voice
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
