package audio

import "fmt"

// Sink is a playback endpoint for encoded buffers. Write queues one whole
// buffer without blocking; implementations restart a stopped device before
// queueing so a hiccup never silences the rest of a session. The format a
// sink reports may differ from the one requested, callers encode for the
// reported one.
type Sink interface {
	Write(p []byte) error
	Format() Format
	Close() error
}

// Open returns a sink for the named driver: portaudio, oto or null.
// device narrows output device selection for drivers that support it.
func Open(driver, device string, f Format) (Sink, error) {
	switch driver {
	case "", "portaudio":
		return NewPortAudioSink(device, f)
	case "oto":
		return NewOtoSink(f)
	case "null":
		return NewNullSink(f), nil
	default:
		return nil, fmt.Errorf("unknown audio driver: %v", driver)
	}
}

// NullSink swallows audio. It backs -driver null and keeps tests silent.
type NullSink struct {
	format Format
}

func NewNullSink(f Format) *NullSink { return &NullSink{format: f} }

func (s *NullSink) Write([]byte) error { return nil }
func (s *NullSink) Format() Format     { return s.format }
func (s *NullSink) Close() error       { return nil }
