package midi

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rakyll/portmidi"
)

// portmidi carries no init refcount, so the library is brought up once and
// left up for the life of the process. Streams still close individually.
var (
	initOnce sync.Once
	initErr  error
)

func initialize() error {
	initOnce.Do(func() { initErr = portmidi.Initialize() })
	return initErr
}

type portmidiPort struct {
	stream *portmidi.Stream
}

// Open connects to a MIDI output. An empty name takes the system default,
// otherwise the first output whose name contains the string, without case.
func Open(name string) (Port, error) {
	if err := initialize(); err != nil {
		return nil, err
	}
	id, err := findOutput(name)
	if err != nil {
		return nil, err
	}
	stream, err := portmidi.NewOutputStream(id, 1024, 0)
	if err != nil {
		return nil, err
	}
	return &portmidiPort{stream: stream}, nil
}

// Devices lists the available MIDI output names.
func Devices() ([]string, error) {
	if err := initialize(); err != nil {
		return nil, err
	}
	var names []string
	for i := 0; i < portmidi.CountDevices(); i++ {
		info := portmidi.Info(portmidi.DeviceID(i))
		if info != nil && info.IsOutputAvailable {
			names = append(names, info.Name)
		}
	}
	return names, nil
}

func findOutput(name string) (portmidi.DeviceID, error) {
	if name == "" {
		id := portmidi.DefaultOutputDeviceID()
		if id < 0 {
			return 0, errors.New("no default midi output")
		}
		return id, nil
	}
	for i := 0; i < portmidi.CountDevices(); i++ {
		id := portmidi.DeviceID(i)
		info := portmidi.Info(id)
		if info != nil && info.IsOutputAvailable &&
			strings.Contains(strings.ToLower(info.Name), strings.ToLower(name)) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("no midi output matching %q", name)
}

func (p *portmidiPort) NoteOn(channel, note, velocity int) error {
	return p.stream.WriteShort(int64(0x90|channel), int64(note), int64(velocity))
}

func (p *portmidiPort) NoteOff(channel, note int) error {
	return p.stream.WriteShort(int64(0x80|channel), int64(note), 0)
}

func (p *portmidiPort) Close() error {
	return p.stream.Close()
}
