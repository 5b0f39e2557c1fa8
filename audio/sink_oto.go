package audio

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows one context per process, so all oto sinks share it. The first
// sink fixes the context's rate and channel count.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func otoContext(f Format) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		if f.Type == Float && f.BitDepth == 32 {
			op.Format = oto.FormatFloat32LE
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// OtoSink plays the ring through an oto player, which pulls from Read on its
// own goroutine and pads with silence when the ring runs dry.
type OtoSink struct {
	format Format
	ring   *byteRing
	player *oto.Player
}

func NewOtoSink(f Format) (*OtoSink, error) {
	if f.Type == Float && f.BitDepth == 32 {
		f.BigEndian = false
	} else {
		f.BitDepth = 16
		f.Type = SignedInt
		f.BigEndian = false
	}
	ctx, err := otoContext(f)
	if err != nil {
		return nil, err
	}
	s := &OtoSink{format: f, ring: newByteRing(ringSize)}
	s.player = ctx.NewPlayer(s)
	s.player.SetBufferSize(f.Bytes(50 * time.Millisecond))
	return s, nil
}

// Read feeds the player, zero-filling whatever the ring cannot supply.
func (s *OtoSink) Read(p []byte) (int, error) {
	n := s.ring.pop(p)
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Write queues p and nudges the player back into its playing state if the
// device stopped underneath it.
func (s *OtoSink) Write(p []byte) error {
	s.ring.push(p)
	if !s.player.IsPlaying() {
		s.player.Play()
	}
	return nil
}

func (s *OtoSink) Format() Format { return s.format }

func (s *OtoSink) Close() error { return s.player.Close() }
