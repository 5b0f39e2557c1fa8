package beat

import "sync/atomic"

// Ladder walks the tempo from a start toward an end bpm in fixed increments,
// holding each tempo for a number of bars. It follows the bars the engine
// actually plays, so pausing the transport pauses the ramp too.
type Ladder struct {
	engine *Engine

	startBpm    int
	endBpm      int
	stepBpm     int
	barsPerStep int

	active     bool
	barCounter int

	onActive   []func(bool)
	onComplete []func()

	state atomic.Pointer[LadderState]
}

// LadderState is an immutable copy of the ladder settings and phase.
type LadderState struct {
	StartBpm    int
	EndBpm      int
	StepBpm     int
	BarsPerStep int
	Active      bool
}

func NewLadder(e *Engine) *Ladder {
	l := &Ladder{
		engine:      e,
		startBpm:    80,
		endBpm:      120,
		stepBpm:     5,
		barsPerStep: 4,
	}
	l.publish()
	e.OnBar(l.onBar)
	return l
}

func (l *Ladder) State() LadderState { return *l.state.Load() }

// Configure sets the ramp. Tempi are clamped to the engine range, the
// increment and bar count to at least one.
func (l *Ladder) Configure(start, end, step, bars int) {
	l.engine.do(func() {
		l.startBpm = clampInt(start, MinBpm, MaxBpm)
		l.endBpm = clampInt(end, MinBpm, MaxBpm)
		if step < 1 {
			step = 1
		}
		l.stepBpm = step
		if bars < 1 {
			bars = 1
		}
		l.barsPerStep = bars
		l.publish()
	})
}

// Start jumps the engine to the start tempo and begins counting bars. The
// transport itself is left alone.
func (l *Ladder) Start() {
	l.engine.do(func() {
		l.active = true
		l.barCounter = 0
		l.engine.setBpm(l.startBpm)
		l.publish()
		for _, fn := range l.onActive {
			fn(true)
		}
	})
}

// Stop abandons the ramp, keeping whatever tempo it reached.
func (l *Ladder) Stop() {
	l.engine.do(func() { l.deactivate() })
}

func (l *Ladder) OnActive(fn func(bool)) {
	l.engine.do(func() { l.onActive = append(l.onActive, fn) })
}

// OnComplete registers a handler for the moment the ramp lands on the end
// tempo.
func (l *Ladder) OnComplete(fn func()) {
	l.engine.do(func() { l.onComplete = append(l.onComplete, fn) })
}

func (l *Ladder) onBar(int) {
	if !l.active {
		return
	}
	l.barCounter++
	if l.barCounter < l.barsPerStep {
		return
	}
	l.barCounter = 0
	next := l.engine.bpm
	if l.startBpm <= l.endBpm {
		next += l.stepBpm
		if next > l.endBpm {
			next = l.endBpm
		}
	} else {
		next -= l.stepBpm
		if next < l.endBpm {
			next = l.endBpm
		}
	}
	l.engine.setBpm(next)
	if next != l.endBpm {
		return
	}
	l.deactivate()
	for _, fn := range l.onComplete {
		fn()
	}
}

func (l *Ladder) deactivate() {
	if !l.active {
		return
	}
	l.active = false
	l.barCounter = 0
	l.publish()
	for _, fn := range l.onActive {
		fn(false)
	}
}

func (l *Ladder) publish() {
	l.state.Store(&LadderState{
		StartBpm:    l.startBpm,
		EndBpm:      l.endBpm,
		StepBpm:     l.stepBpm,
		BarsPerStep: l.barsPerStep,
		Active:      l.active,
	})
}
