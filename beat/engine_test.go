package beat

import (
	"reflect"
	"testing"
	"time"
)

// engineHarness drives a loopless engine by hand: reset calls are recorded
// instead of arming a timer, and fire advances the fake clock to the due time
// before ticking.
type engineHarness struct {
	*Engine
	now    time.Time
	delays []time.Duration
	ticks  []Tick
	bars   []int
	bpms   []int
	runs   []bool
}

func newHarness() *engineHarness {
	h := &engineHarness{now: time.Unix(1000, 0)}
	e := newEngine()
	e.now = func() time.Time { return h.now }
	e.reset = func(d time.Duration) { h.delays = append(h.delays, d) }
	e.OnTick(func(tk Tick) { h.ticks = append(h.ticks, tk) })
	e.OnBar(func(b int) { h.bars = append(h.bars, b) })
	e.OnBpmChange(func(b int) { h.bpms = append(h.bpms, b) })
	e.OnRunningChange(func(r bool) { h.runs = append(h.runs, r) })
	h.Engine = e
	return h
}

func (h *engineHarness) fire() {
	h.now = h.nextDue
	h.tick()
}

func TestEngineDefaults(t *testing.T) {
	e := newEngine()
	want := Snapshot{
		Bpm:         100,
		BeatsPerBar: 4,
		Subdivision: 1,
		AccentOnOne: true,
		MuteBarsOn:  4,
		MuteBarsOff: 0,
	}
	if got := e.Snapshot(); got != want {
		t.Errorf("wrong defaults:\nwant: %+v\ngot:  %+v", want, got)
	}
	if want, got := 600*time.Millisecond, e.step; want != got {
		t.Errorf("wrong step interval: want %v, got %v", want, got)
	}
}

func TestEngineStartStop(t *testing.T) {
	h := newHarness()
	h.Start()
	if !h.Snapshot().Running {
		t.Fatal("engine not running after start")
	}
	if want, got := h.now.Add(600*time.Millisecond), h.nextDue; want != got {
		t.Errorf("wrong due time: want %v, got %v", want, got)
	}
	if want := []time.Duration{600 * time.Millisecond}; !reflect.DeepEqual(want, h.delays) {
		t.Errorf("wrong delays: want %v, got %v", want, h.delays)
	}

	h.Start() // no-op while running
	if want, got := 1, len(h.delays); want != got {
		t.Errorf("second start armed the timer again: %v delays", got)
	}

	h.Stop()
	if h.Snapshot().Running {
		t.Fatal("engine running after stop")
	}
	if want := []bool{true, false}; !reflect.DeepEqual(want, h.runs) {
		t.Errorf("wrong running events: want %v, got %v", want, h.runs)
	}
}

func TestEngineTickSequence(t *testing.T) {
	h := newHarness()
	h.Start()
	for i := 0; i < 6; i++ {
		h.fire()
	}
	want := []Tick{
		{Step: 0, Beat: 0, Bar: 0, IsBeat: true, Accent: true, Audible: true, Click: true},
		{Step: 1, Beat: 1, Bar: 0, IsBeat: true, Audible: true, Click: true},
		{Step: 2, Beat: 2, Bar: 0, IsBeat: true, Audible: true, Click: true},
		{Step: 3, Beat: 3, Bar: 0, IsBeat: true, Audible: true, Click: true},
		{Step: 0, Beat: 0, Bar: 1, IsBeat: true, Accent: true, Audible: true, Click: true},
		{Step: 1, Beat: 1, Bar: 1, IsBeat: true, Audible: true, Click: true},
	}
	if !reflect.DeepEqual(want, h.ticks) {
		t.Errorf("wrong ticks:\nwant: %+v\ngot:  %+v", want, h.ticks)
	}
	if want := []int{1}; !reflect.DeepEqual(want, h.bars) {
		t.Errorf("wrong bars: want %v, got %v", want, h.bars)
	}
}

func TestEngineSubdividedTicks(t *testing.T) {
	h := newHarness()
	h.SetSubdivision(2)
	if want, got := 300*time.Millisecond, h.step; want != got {
		t.Fatalf("wrong step interval: want %v, got %v", want, got)
	}
	h.Start()
	for i := 0; i < 4; i++ {
		h.fire()
	}
	want := []Tick{
		{Step: 0, Beat: 0, IsBeat: true, Accent: true, Audible: true, Click: true},
		{Step: 1, Beat: 0, Audible: true, Click: true},
		{Step: 2, Beat: 1, IsBeat: true, Audible: true, Click: true},
		{Step: 3, Beat: 1, Audible: true, Click: true},
	}
	if !reflect.DeepEqual(want, h.ticks) {
		t.Errorf("wrong ticks:\nwant: %+v\ngot:  %+v", want, h.ticks)
	}
}

func TestEngineAccentOff(t *testing.T) {
	h := newHarness()
	h.SetAccentOnOne(false)
	h.Start()
	for i := 0; i < 5; i++ {
		h.fire()
	}
	for i, tk := range h.ticks {
		if tk.Accent {
			t.Errorf("tick %v accented with accent disabled", i)
		}
	}
}

func TestEngineSetBpm(t *testing.T) {
	h := newHarness()
	h.SetBpm(10)
	if want, got := MinBpm, h.Snapshot().Bpm; want != got {
		t.Errorf("wrong clamped bpm: want %v, got %v", want, got)
	}
	h.SetBpm(500)
	if want, got := MaxBpm, h.Snapshot().Bpm; want != got {
		t.Errorf("wrong clamped bpm: want %v, got %v", want, got)
	}
	h.SetBpm(400) // unchanged, no event
	if want := []int{20, 400}; !reflect.DeepEqual(want, h.bpms) {
		t.Errorf("wrong bpm events: want %v, got %v", want, h.bpms)
	}
}

func TestEngineBpmChangeTakesEffectNextTick(t *testing.T) {
	h := newHarness()
	h.Start()
	due := h.nextDue
	h.SetBpm(200)
	if h.nextDue != due {
		t.Fatal("bpm change moved the pending due time")
	}
	if want, got := 1, len(h.delays); want != got {
		t.Fatalf("bpm change re-armed the timer: %v delays", got)
	}
	h.fire()
	if want, got := 300*time.Millisecond, h.delays[len(h.delays)-1]; want != got {
		t.Errorf("wrong delay after bpm change: want %v, got %v", want, got)
	}
}

func TestEngineBeatsPerBarRewinds(t *testing.T) {
	h := newHarness()
	h.Start()
	h.fire()
	h.fire()
	h.SetBeatsPerBar(3)
	if want, got := 3, h.Snapshot().BeatsPerBar; want != got {
		t.Fatalf("wrong beats per bar: want %v, got %v", want, got)
	}
	h.fire()
	last := h.ticks[len(h.ticks)-1]
	want := Tick{Step: 0, Beat: 0, Bar: 0, IsBeat: true, Accent: true, Audible: true, Click: true}
	if last != want {
		t.Errorf("wrong tick after meter change:\nwant: %+v\ngot:  %+v", want, last)
	}

	h.SetBeatsPerBar(0)
	if want, got := MinBeatsPerBar, h.Snapshot().BeatsPerBar; want != got {
		t.Errorf("wrong clamped beats per bar: want %v, got %v", want, got)
	}
	h.SetBeatsPerBar(99)
	if want, got := MaxBeatsPerBar, h.Snapshot().BeatsPerBar; want != got {
		t.Errorf("wrong clamped beats per bar: want %v, got %v", want, got)
	}
}

func TestEngineSubdivisionRewinds(t *testing.T) {
	h := newHarness()
	h.Start()
	h.fire()
	h.fire()
	h.SetSubdivision(4)
	h.fire()
	last := h.ticks[len(h.ticks)-1]
	want := Tick{Step: 0, Beat: 0, Bar: 0, IsBeat: true, Accent: true, Audible: true, Click: true}
	if last != want {
		t.Errorf("wrong tick after subdivision change:\nwant: %+v\ngot:  %+v", want, last)
	}
}

func TestEngineDriftCorrection(t *testing.T) {
	h := newHarness()
	h.Start()

	// On time: the full step is armed.
	h.fire()
	if want, got := 600*time.Millisecond, h.delays[len(h.delays)-1]; want != got {
		t.Fatalf("wrong on-time delay: want %v, got %v", want, got)
	}

	// 50ms late: the next delay shrinks to keep the grid.
	h.now = h.nextDue.Add(50 * time.Millisecond)
	h.tick()
	if want, got := 550*time.Millisecond, h.delays[len(h.delays)-1]; want != got {
		t.Fatalf("wrong late delay: want %v, got %v", want, got)
	}

	// More than two steps late: missed ticks are skipped, the due time lands
	// on the next future grid point.
	due := h.nextDue
	h.now = due.Add(1300 * time.Millisecond)
	h.tick()
	if want, got := due.Add(1800*time.Millisecond), h.nextDue; want != got {
		t.Fatalf("wrong due time after stall: want %v, got %v", want, got)
	}
	if want, got := 500*time.Millisecond, h.delays[len(h.delays)-1]; want != got {
		t.Errorf("wrong delay after stall: want %v, got %v", want, got)
	}
}

func TestEngineMuteBars(t *testing.T) {
	h := newHarness()
	h.SetBeatsPerBar(1)
	h.SetMuteBars(2, 2)
	h.Start()
	var audible []bool
	for i := 0; i < 6; i++ {
		h.fire()
		tk := h.ticks[len(h.ticks)-1]
		audible = append(audible, tk.Audible)
		if tk.Click != tk.Audible {
			t.Errorf("bar %v: click %v with audible %v", i, tk.Click, tk.Audible)
		}
	}
	want := []bool{true, true, false, false, true, true}
	if !reflect.DeepEqual(want, audible) {
		t.Errorf("wrong mute cycle: want %v, got %v", want, audible)
	}
}

func TestEngineMuteBarsClamp(t *testing.T) {
	h := newHarness()
	h.SetMuteBars(0, -1)
	s := h.Snapshot()
	if s.MuteBarsOn != MinMuteBarsOn || s.MuteBarsOff != 0 {
		t.Errorf("wrong clamped mute bars: got on=%v off=%v", s.MuteBarsOn, s.MuteBarsOff)
	}
	h.SetMuteBars(100, 100)
	s = h.Snapshot()
	if s.MuteBarsOn != MaxMuteBars || s.MuteBarsOff != MaxMuteBars {
		t.Errorf("wrong clamped mute bars: got on=%v off=%v", s.MuteBarsOn, s.MuteBarsOff)
	}
}

func TestEngineStopFromBarHandler(t *testing.T) {
	h := newHarness()
	h.OnBar(func(int) { h.stop() })
	h.Start()
	for i := 0; i < 4; i++ {
		h.fire()
	}
	if h.Snapshot().Running {
		t.Fatal("engine still running")
	}
	// start + three on-time reschedules; the bar tick must not re-arm.
	if want, got := 4, len(h.delays); want != got {
		t.Errorf("wrong number of delays: want %v, got %v", want, got)
	}
	if want, got := 1, h.Snapshot().Bar; want != got {
		t.Errorf("wrong bar: want %v, got %v", want, got)
	}
}

func TestStepInterval(t *testing.T) {
	for _, tt := range []struct {
		bpm, sub int
		want     time.Duration
	}{
		{100, 1, 600 * time.Millisecond},
		{120, 1, 500 * time.Millisecond},
		{100, 2, 300 * time.Millisecond},
		{60, 1, time.Second},
		{90, 3, 222222222 * time.Nanosecond},
	} {
		if got := stepInterval(tt.bpm, tt.sub); got != tt.want {
			t.Errorf("wrong interval for %v bpm / %v: want %v, got %v", tt.bpm, tt.sub, tt.want, got)
		}
	}
}
