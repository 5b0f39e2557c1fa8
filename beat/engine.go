// Package beat drives the metronome clock. One goroutine owns all engine
// state; everything else talks to it through queued closures and reads the
// last published snapshot.
package beat

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	MinBpm     = 20
	MaxBpm     = 400
	DefaultBpm = 100

	MinBeatsPerBar     = 1
	MaxBeatsPerBar     = 12
	DefaultBeatsPerBar = 4

	MinSubdivision     = 1
	MaxSubdivision     = 12
	DefaultSubdivision = 1

	MinMuteBarsOn      = 1
	MaxMuteBars        = 64
	DefaultMuteBarsOn  = 4
	DefaultMuteBarsOff = 0
)

// Tick describes one metronome step at the moment it sounds, before any
// counters advance. Step counts subdivisions from the top of the bar.
type Tick struct {
	Step    int
	Beat    int
	Bar     int
	IsBeat  bool
	Accent  bool
	Audible bool // false while mute bars silence the output
	Click   bool // whether the metronome itself sounds on this tick
}

// Snapshot is an immutable copy of the engine settings, safe to read from any
// goroutine.
type Snapshot struct {
	Bpm         int
	BeatsPerBar int
	Subdivision int
	AccentOnOne bool
	MuteBarsOn  int
	MuteBarsOff int
	Running     bool
	Bar         int
}

// Engine produces ticks on a drift-corrected schedule. All mutating methods
// queue onto the engine goroutine and return immediately; handlers run on
// that goroutine and must not block.
type Engine struct {
	cmds chan func()
	quit chan struct{}
	once sync.Once

	timer  *time.Timer
	now    func() time.Time
	reset  func(time.Duration)
	cancel func()

	bpm         int
	beatsPerBar int
	subdivision int
	accentOnOne bool
	muteOn      int
	muteOff     int

	running   bool
	step      time.Duration
	nextDue   time.Time
	stepIndex int
	beatIndex int
	barIndex  int

	onTick    []func(Tick)
	onBar     []func(int)
	onBpm     []func(int)
	onRunning []func(bool)

	snap atomic.Pointer[Snapshot]
}

// newEngine builds an engine without the goroutine or timer. Queued closures
// run inline, and tests drive ticks by hand through injected now and reset.
func newEngine() *Engine {
	e := &Engine{
		bpm:         DefaultBpm,
		beatsPerBar: DefaultBeatsPerBar,
		subdivision: DefaultSubdivision,
		accentOnOne: true,
		muteOn:      DefaultMuteBarsOn,
		muteOff:     DefaultMuteBarsOff,
		now:         time.Now,
		reset:       func(time.Duration) {},
		cancel:      func() {},
	}
	e.step = stepInterval(e.bpm, e.subdivision)
	e.publish()
	return e
}

// New starts the engine goroutine. Close releases it.
func New() *Engine {
	e := newEngine()
	e.cmds = make(chan func(), 64)
	e.quit = make(chan struct{})
	e.timer = time.NewTimer(time.Hour)
	if !e.timer.Stop() {
		<-e.timer.C
	}
	e.reset = func(d time.Duration) { e.timer.Reset(d) }
	e.cancel = func() {
		if !e.timer.Stop() {
			select {
			case <-e.timer.C:
			default:
			}
		}
	}
	go e.loop()
	return e
}

func (e *Engine) loop() {
	for {
		select {
		case <-e.timer.C:
			e.tick()
		case fn := <-e.cmds:
			fn()
		case <-e.quit:
			return
		}
	}
}

// Close stops the engine goroutine. The timer is left for the collector.
func (e *Engine) Close() {
	if e.quit == nil {
		return
	}
	e.once.Do(func() { close(e.quit) })
}

// do hands fn to the engine goroutine. A full queue drops the command rather
// than block the caller; at 64 pending commands the UI is wedged anyway.
func (e *Engine) do(fn func()) {
	if e.cmds == nil {
		fn()
		return
	}
	select {
	case e.cmds <- fn:
	default:
		log.Print("beat: command queue full, dropped")
	}
}

// Do runs fn on the engine goroutine, serialized with ticks and settings
// changes. Other packages use it to touch handler state without extra locks.
func (e *Engine) Do(fn func()) { e.do(fn) }

// OnTick registers a handler for every tick, called before counters advance.
func (e *Engine) OnTick(fn func(Tick)) {
	e.do(func() { e.onTick = append(e.onTick, fn) })
}

// OnBar registers a handler called with the new bar index each time a bar
// completes.
func (e *Engine) OnBar(fn func(int)) {
	e.do(func() { e.onBar = append(e.onBar, fn) })
}

// OnBpmChange registers a handler for effective tempo changes.
func (e *Engine) OnBpmChange(fn func(int)) {
	e.do(func() { e.onBpm = append(e.onBpm, fn) })
}

// OnRunningChange registers a handler for transport state changes.
func (e *Engine) OnRunningChange(fn func(bool)) {
	e.do(func() { e.onRunning = append(e.onRunning, fn) })
}

func (e *Engine) Start()                { e.do(e.start) }
func (e *Engine) Stop()                 { e.do(e.stop) }
func (e *Engine) SetBpm(v int)          { e.do(func() { e.setBpm(v) }) }
func (e *Engine) SetBeatsPerBar(v int)  { e.do(func() { e.setBeatsPerBar(v) }) }
func (e *Engine) SetSubdivision(v int)  { e.do(func() { e.setSubdivision(v) }) }
func (e *Engine) SetAccentOnOne(v bool) { e.do(func() { e.setAccentOnOne(v) }) }
func (e *Engine) SetMuteBars(on, off int) {
	e.do(func() { e.setMuteBars(on, off) })
}

// Snapshot returns the engine settings as of the last completed change.
func (e *Engine) Snapshot() Snapshot { return *e.snap.Load() }

func (e *Engine) start() {
	if e.running {
		return
	}
	e.nextDue = e.now().Add(e.step)
	e.reset(e.step.Truncate(time.Millisecond))
	e.running = true
	e.publish()
	for _, fn := range e.onRunning {
		fn(true)
	}
}

func (e *Engine) stop() {
	e.cancel()
	e.running = false
	e.publish()
	for _, fn := range e.onRunning {
		fn(false)
	}
}

func (e *Engine) setBpm(v int) {
	v = clampInt(v, MinBpm, MaxBpm)
	if v == e.bpm {
		return
	}
	e.bpm = v
	e.step = stepInterval(e.bpm, e.subdivision)
	e.publish()
	for _, fn := range e.onBpm {
		fn(v)
	}
}

// setBeatsPerBar rewinds to the top of a fresh bar so the accent pattern
// stays aligned. The step interval only depends on bpm and subdivision.
func (e *Engine) setBeatsPerBar(v int) {
	v = clampInt(v, MinBeatsPerBar, MaxBeatsPerBar)
	if v == e.beatsPerBar {
		return
	}
	e.beatsPerBar = v
	e.rewind()
	e.publish()
}

func (e *Engine) setSubdivision(v int) {
	v = clampInt(v, MinSubdivision, MaxSubdivision)
	if v == e.subdivision {
		return
	}
	e.subdivision = v
	e.step = stepInterval(e.bpm, e.subdivision)
	e.rewind()
	e.publish()
}

func (e *Engine) setAccentOnOne(v bool) {
	e.accentOnOne = v
	e.publish()
}

func (e *Engine) setMuteBars(on, off int) {
	e.muteOn = clampInt(on, MinMuteBarsOn, MaxMuteBars)
	e.muteOff = clampInt(off, 0, MaxMuteBars)
	e.publish()
}

func (e *Engine) rewind() {
	e.stepIndex = 0
	e.beatIndex = 0
	e.barIndex = 0
}

// tick fires one step: report it, advance the counters, then line up the
// next step against the ideal schedule.
func (e *Engine) tick() {
	if !e.running {
		return
	}
	isBeat := e.stepIndex%e.subdivision == 0
	accent := e.accentOnOne && isBeat && e.beatIndex == 0
	audible := e.audible()
	t := Tick{
		Step:    e.stepIndex,
		Beat:    e.beatIndex,
		Bar:     e.barIndex,
		IsBeat:  isBeat,
		Accent:  accent,
		Audible: audible,
		Click:   audible && (isBeat || e.subdivision > 1),
	}
	for _, fn := range e.onTick {
		fn(t)
	}

	if isBeat {
		e.beatIndex = (e.beatIndex + 1) % e.beatsPerBar
	}
	e.stepIndex++
	if e.stepIndex >= e.beatsPerBar*e.subdivision {
		e.stepIndex = 0
		e.beatIndex = 0
		e.barIndex++
		e.publish()
		for _, fn := range e.onBar {
			fn(e.barIndex)
		}
	}
	if !e.running {
		return
	}
	e.schedule()
}

// schedule advances the due time by one ideal step. When the process fell
// behind a whole step or more the missed ticks are skipped, not replayed, so
// the click stays on the grid instead of machine-gunning to catch up.
func (e *Engine) schedule() {
	e.nextDue = e.nextDue.Add(e.step)
	now := e.now()
	if behind := now.Sub(e.nextDue); behind >= 0 {
		missed := behind/e.step + 1
		e.nextDue = e.nextDue.Add(missed * e.step)
	}
	delay := e.nextDue.Sub(now)
	if delay < 0 {
		delay = 0
	}
	e.reset(delay.Truncate(time.Millisecond))
}

// audible applies the mute-bars practice cycle: muteOn sounding bars followed
// by muteOff silent ones. An off count of zero disables the cycle.
func (e *Engine) audible() bool {
	if e.muteOff == 0 {
		return true
	}
	return e.barIndex%(e.muteOn+e.muteOff) < e.muteOn
}

func (e *Engine) publish() {
	e.snap.Store(&Snapshot{
		Bpm:         e.bpm,
		BeatsPerBar: e.beatsPerBar,
		Subdivision: e.subdivision,
		AccentOnOne: e.accentOnOne,
		MuteBarsOn:  e.muteOn,
		MuteBarsOff: e.muteOff,
		Running:     e.running,
		Bar:         e.barIndex,
	})
}

func stepInterval(bpm, subdivision int) time.Duration {
	return time.Minute / time.Duration(bpm*subdivision)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
