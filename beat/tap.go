package beat

import (
	"math"
	"time"
)

const (
	tapTimeout = 2500 * time.Millisecond
	tapWindow  = 8
)

// Tap derives a tempo from spaced presses. A pause longer than the timeout
// starts a fresh measurement. Not safe for concurrent use; the REPL owns it.
type Tap struct {
	now   func() time.Time
	times []time.Time
}

func NewTap() *Tap {
	return &Tap{now: time.Now}
}

// Tap records a press and returns the running estimate, 0 until two presses
// land inside the timeout.
func (t *Tap) Tap() int {
	now := t.now()
	if n := len(t.times); n > 0 && now.Sub(t.times[n-1]) > tapTimeout {
		t.times = t.times[:0]
	}
	t.times = append(t.times, now)
	return t.Bpm()
}

// Bpm averages the intervals between the most recent presses, eight at most,
// and clamps the result to the engine tempo range.
func (t *Tap) Bpm() int {
	times := t.times
	if len(times) > tapWindow {
		times = times[len(times)-tapWindow:]
	}
	if len(times) < 2 {
		return 0
	}
	avg := times[len(times)-1].Sub(times[0]).Seconds() / float64(len(times)-1)
	if avg <= 0 {
		return 0
	}
	return clampInt(int(math.Round(60/avg)), MinBpm, MaxBpm)
}

func (t *Tap) Reset() {
	t.times = t.times[:0]
}
