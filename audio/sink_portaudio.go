package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

const (
	ringSize       = 1 << 18
	framesPerWrite = 512
)

// PortAudioSink streams the ring through a portaudio callback as interleaved
// 16-bit little-endian PCM, the layout every backend negotiates without fuss.
type PortAudioSink struct {
	format  Format
	ring    *byteRing
	stream  *portaudio.Stream
	scratch []byte
	started bool
}

// NewPortAudioSink opens the default output, or the first output whose name
// contains device when one is named. Channel count is clamped to what the
// device offers; bit depth and byte order are always renegotiated to s16le.
func NewPortAudioSink(device string, f Format) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	f.BitDepth = 16
	f.Type = SignedInt
	f.BigEndian = false

	s := &PortAudioSink{ring: newByteRing(ringSize)}
	var (
		stream *portaudio.Stream
		err    error
	)
	if device == "" {
		stream, err = portaudio.OpenDefaultStream(0, f.Channels, float64(f.SampleRate), framesPerWrite, s.process)
	} else {
		var dev *portaudio.DeviceInfo
		dev, err = findOutputDevice(device)
		if err == nil {
			if f.Channels > dev.MaxOutputChannels {
				f.Channels = dev.MaxOutputChannels
			}
			params := portaudio.LowLatencyParameters(nil, dev)
			params.Output.Channels = f.Channels
			params.SampleRate = float64(f.SampleRate)
			params.FramesPerBuffer = framesPerWrite
			stream, err = portaudio.OpenStream(params, s.process)
		}
	}
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.format = f
	s.stream = stream
	s.scratch = make([]byte, framesPerWrite*f.FrameSize())
	return s, nil
}

func (s *PortAudioSink) process(out []int16) {
	want := 2 * len(out)
	if want > len(s.scratch) {
		s.scratch = make([]byte, want)
	}
	n := s.ring.pop(s.scratch[:want])
	for i := range out {
		if 2*i+1 < n {
			out[i] = int16(uint16(s.scratch[2*i]) | uint16(s.scratch[2*i+1])<<8)
		} else {
			out[i] = 0
		}
	}
}

// Write starts the stream on first use or after a stop, then queues p. A full
// ring drops the buffer whole rather than stalling the caller.
func (s *PortAudioSink) Write(p []byte) error {
	if !s.started {
		if err := s.stream.Start(); err != nil {
			return err
		}
		s.started = true
	}
	s.ring.push(p)
	return nil
}

func (s *PortAudioSink) Format() Format { return s.format }

func (s *PortAudioSink) Close() error {
	if s.started {
		s.stream.Stop()
	}
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

// Devices lists the names of all output-capable portaudio devices.
func Devices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range devices {
		if d.MaxOutputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}

func findOutputDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.MaxOutputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no output device matching %q", name)
}
