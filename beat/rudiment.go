package beat

import (
	"math/rand"
	"strings"
	"sync/atomic"
)

// Rudiment is a named sticking pattern. Upper case marks full strokes, lower
// case grace notes.
type Rudiment struct {
	Name     string
	Sticking string
}

// Rudiments is the built-in library, in display order.
var Rudiments = []Rudiment{
	{"Quarter Notes", "R L R L"},
	{"Eighth Notes", "RL RL RL RL"},
	{"16th Notes", "RLRL RLRL RLRL RLRL"},
	{"Triplets", "RLR LRL RLR LRL"},
	{"Paradiddle", "RLRR LRLL RLRR LRLL"},
	{"Flam", "lR rL lR rL"},
	{"Double Paradiddle", "RLRLRR LRLRLL"},
}

// Lead selects which hand starts the sticking.
type Lead int

const (
	LeadRight Lead = iota
	LeadLeft
	LeadMixed
)

func (l Lead) String() string {
	switch l {
	case LeadLeft:
		return "left"
	case LeadMixed:
		return "mixed"
	default:
		return "right"
	}
}

// ParseLead accepts the lead names shown in the REPL.
func ParseLead(s string) (Lead, bool) {
	switch strings.ToLower(s) {
	case "r", "right":
		return LeadRight, true
	case "l", "left":
		return LeadLeft, true
	case "m", "mixed", "random":
		return LeadMixed, true
	}
	return LeadRight, false
}

// RudimentTrainer cycles through sticking patterns while the click runs,
// showing the current pattern and the one coming up next. It never touches
// the engine timing; reading is the player's job.
type RudimentTrainer struct {
	engine *Engine
	rng    *rand.Rand

	enabled []Rudiment
	lead    Lead
	barsPer int

	running bool
	counter int
	current Rudiment
	next    Rudiment

	onActive []func(bool)
	onChange []func(current, next Rudiment)

	state atomic.Pointer[TrainerState]
}

// TrainerState is an immutable copy of the trainer settings and phase.
type TrainerState struct {
	Running         bool
	Lead            Lead
	BarsPerRudiment int
	Current         Rudiment
	Next            Rudiment
	Enabled         []string
}

func NewRudimentTrainer(e *Engine, rng *rand.Rand) *RudimentTrainer {
	r := &RudimentTrainer{
		engine:  e,
		rng:     rng,
		enabled: Rudiments,
		lead:    LeadRight,
		barsPer: 4,
	}
	r.publish()
	e.OnBar(r.onBar)
	return r
}

func (r *RudimentTrainer) State() TrainerState { return *r.state.Load() }

// SetEnabled restricts the rotation to the named rudiments, matched without
// case. Unknown names are ignored; an empty result keeps the full library.
func (r *RudimentTrainer) SetEnabled(names []string) {
	r.engine.do(func() {
		var picked []Rudiment
		for _, rd := range Rudiments {
			for _, name := range names {
				if strings.EqualFold(rd.Name, name) {
					picked = append(picked, rd)
					break
				}
			}
		}
		if len(picked) == 0 {
			picked = Rudiments
		}
		r.enabled = picked
		r.publish()
	})
}

func (r *RudimentTrainer) SetLead(l Lead) {
	r.engine.do(func() {
		r.lead = l
		r.publish()
	})
}

func (r *RudimentTrainer) SetBarsPerRudiment(n int) {
	r.engine.do(func() {
		if n < 1 {
			n = 1
		}
		r.barsPer = n
		r.publish()
	})
}

// Start picks the first pair of rudiments and begins counting bars.
func (r *RudimentTrainer) Start() {
	r.engine.do(func() {
		r.running = true
		r.counter = 0
		r.current = r.pick()
		r.next = r.pick()
		r.publish()
		for _, fn := range r.onActive {
			fn(true)
		}
		for _, fn := range r.onChange {
			fn(r.current, r.next)
		}
	})
}

func (r *RudimentTrainer) Stop() {
	r.engine.do(func() {
		if !r.running {
			return
		}
		r.running = false
		r.publish()
		for _, fn := range r.onActive {
			fn(false)
		}
	})
}

func (r *RudimentTrainer) OnActive(fn func(bool)) {
	r.engine.do(func() { r.onActive = append(r.onActive, fn) })
}

// OnChange registers a handler for rotation: it receives the pattern to play
// now and the one queued after it.
func (r *RudimentTrainer) OnChange(fn func(current, next Rudiment)) {
	r.engine.do(func() { r.onChange = append(r.onChange, fn) })
}

func (r *RudimentTrainer) onBar(int) {
	if !r.running {
		return
	}
	r.counter++
	if r.counter < r.barsPer {
		return
	}
	r.counter = 0
	r.current = r.next
	r.next = r.pick()
	r.publish()
	for _, fn := range r.onChange {
		fn(r.current, r.next)
	}
}

// pick draws a random enabled rudiment and applies the lead hand. A mixed
// lead flips a coin per draw.
func (r *RudimentTrainer) pick() Rudiment {
	rd := r.enabled[r.rng.Intn(len(r.enabled))]
	switch r.lead {
	case LeadLeft:
		rd.Sticking = invertSticking(rd.Sticking)
	case LeadMixed:
		if r.rng.Intn(2) == 1 {
			rd.Sticking = invertSticking(rd.Sticking)
		}
	}
	return rd
}

// invertSticking swaps hands, preserving the grace-note case.
func invertSticking(s string) string {
	swapped := []rune(s)
	for i, c := range swapped {
		switch c {
		case 'R':
			swapped[i] = 'L'
		case 'L':
			swapped[i] = 'R'
		case 'r':
			swapped[i] = 'l'
		case 'l':
			swapped[i] = 'r'
		}
	}
	return string(swapped)
}

func (r *RudimentTrainer) publish() {
	names := make([]string, len(r.enabled))
	for i, rd := range r.enabled {
		names[i] = rd.Name
	}
	r.state.Store(&TrainerState{
		Running:         r.running,
		Lead:            r.lead,
		BarsPerRudiment: r.barsPer,
		Current:         r.current,
		Next:            r.next,
		Enabled:         names,
	})
}
