package audio

import (
	"fmt"
	"time"
)

// SampleType selects the PCM quantization family for encoded buffers.
type SampleType int

const (
	SignedInt SampleType = iota
	UnsignedInt
	Float
)

// Format describes the wire layout of encoded audio: mono source samples are
// fanned out to Channels interleaved channels at the given rate and depth.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Type       SampleType
	BigEndian  bool
}

// DefaultFormat is the baseline every sink is asked for first. Sinks may
// negotiate away from it and report the result from their Format method.
func DefaultFormat() Format {
	return Format{SampleRate: 44100, Channels: 1, BitDepth: 16, Type: SignedInt}
}

func (f Format) bytesPerSample() int {
	switch f.BitDepth {
	case 8, 16, 24, 32:
		return f.BitDepth / 8
	default:
		return 2
	}
}

// FrameSize returns the number of bytes holding one sample across all channels.
func (f Format) FrameSize() int {
	return f.Channels * f.bytesPerSample()
}

// Bytes returns the encoded size of d worth of audio, rounded down to whole frames.
func (f Format) Bytes(d time.Duration) int {
	frames := int(d * time.Duration(f.SampleRate) / time.Second)
	return frames * f.FrameSize()
}

func (f Format) String() string {
	t := "int"
	switch f.Type {
	case UnsignedInt:
		t = "uint"
	case Float:
		t = "float"
	}
	order := "le"
	if f.BigEndian {
		order = "be"
	}
	return fmt.Sprintf("%dHz %dch %dbit %s %s", f.SampleRate, f.Channels, f.BitDepth, t, order)
}
