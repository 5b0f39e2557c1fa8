package beat

import (
	"sync/atomic"

	"github.com/velle/stix/groove"
)

// GroovePlayer reads a groove against the engine clock, announcing the notes
// under every tick. It aligns the engine grid with the groove but leaves the
// transport alone: when the groove detaches the click keeps running.
type GroovePlayer struct {
	engine *Engine

	groove *groove.Groove
	loops  int

	active      bool
	barInGroove int
	barsPlayed  int

	onActive []func(bool)
	onNotes  []func(Tick, []groove.Note)

	state atomic.Pointer[PlayerState]
}

// PlayerState is an immutable copy of the player settings and position.
type PlayerState struct {
	Active      bool
	GrooveName  string
	Loops       int
	BarInGroove int
	BarsPlayed  int
}

func NewGroovePlayer(e *Engine) *GroovePlayer {
	p := &GroovePlayer{engine: e}
	p.publish()
	e.OnTick(p.onTick)
	e.OnBar(p.onBar)
	return p
}

func (p *GroovePlayer) State() PlayerState { return *p.state.Load() }

// SetGroove selects the pattern and aligns the engine meter and subdivision
// with it. A nil groove clears the selection and detaches playback.
func (p *GroovePlayer) SetGroove(g *groove.Groove) {
	p.engine.do(func() {
		p.groove = g
		if g != nil {
			p.engine.setBeatsPerBar(g.BeatsPerBar)
			p.engine.setSubdivision(g.Subdivision)
		} else if p.active {
			p.deactivate()
			return
		}
		p.publish()
	})
}

// SetLoops bounds playback to n passes through the groove. Zero keeps it
// looping until stopped.
func (p *GroovePlayer) SetLoops(n int) {
	p.engine.do(func() {
		if n < 0 {
			n = 0
		}
		p.loops = n
		p.publish()
	})
}

// Start begins reading from the top of the groove. Without a selected groove
// it does nothing.
func (p *GroovePlayer) Start() {
	p.engine.do(func() {
		if p.groove == nil {
			return
		}
		p.active = true
		p.barInGroove = 0
		p.barsPlayed = 0
		p.publish()
		for _, fn := range p.onActive {
			fn(true)
		}
	})
}

// Stop detaches the groove. The engine and its click are not touched.
func (p *GroovePlayer) Stop() {
	p.engine.do(func() { p.deactivate() })
}

func (p *GroovePlayer) OnActive(fn func(bool)) {
	p.engine.do(func() { p.onActive = append(p.onActive, fn) })
}

// OnNotes registers a handler receiving the tick and the notes under it,
// empty on ticks where the groove rests. On detach it fires once more with
// no notes so displays can clear.
func (p *GroovePlayer) OnNotes(fn func(Tick, []groove.Note)) {
	p.engine.do(func() { p.onNotes = append(p.onNotes, fn) })
}

func (p *GroovePlayer) onTick(t Tick) {
	if !p.active || p.groove == nil {
		return
	}
	notes := p.groove.NotesAt(p.barInGroove, t.Beat, t.Step%p.engine.subdivision)
	for _, fn := range p.onNotes {
		fn(t, notes)
	}
}

func (p *GroovePlayer) onBar(int) {
	if !p.active || p.groove == nil {
		return
	}
	p.barsPlayed++
	p.barInGroove = (p.barInGroove + 1) % p.groove.Bars
	if p.loops > 0 && p.barsPlayed >= p.groove.Bars*p.loops {
		p.deactivate()
		return
	}
	p.publish()
}

func (p *GroovePlayer) deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.publish()
	for _, fn := range p.onActive {
		fn(false)
	}
	for _, fn := range p.onNotes {
		fn(Tick{}, nil)
	}
}

func (p *GroovePlayer) publish() {
	name := ""
	if p.groove != nil {
		name = p.groove.Name
	}
	p.state.Store(&PlayerState{
		Active:      p.active,
		GrooveName:  name,
		Loops:       p.loops,
		BarInGroove: p.barInGroove,
		BarsPlayed:  p.barsPlayed,
	})
}
