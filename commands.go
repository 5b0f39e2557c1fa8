package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/velle/stix/audio"
	"github.com/velle/stix/beat"
	"github.com/velle/stix/groove"
	"github.com/velle/stix/midi"
)

// errExit tells the repl to wind down.
var errExit = errors.New("exit")

type command struct {
	name    string
	usage   string
	help    string
	run     func(a *App, args []string) error
	minArgs int
}

var commands = []command{
	{"start", "start", "start the metronome", cmdStart, 0},
	{"stop", "stop", "stop the metronome", cmdStop, 0},
	{"bpm", "bpm [TEMPO]", "show or set the tempo", cmdBpm, 0},
	{"tap", "tap", "tap repeatedly to set the tempo", cmdTap, 0},
	{"sig", "sig BEATS", "set beats per bar", cmdSig, 1},
	{"sub", "sub N", "set clicks per beat", cmdSub, 1},
	{"accent", "accent on|off", "accent the first beat of the bar", cmdAccent, 1},
	{"mute", "mute BARS_ON BARS_OFF | mute off", "click for some bars, stay silent for others", cmdMute, 1},
	{"vol", "vol [0-1]", "show or set the volume", cmdVol, 0},
	{"click", "click [TONE]", "show or set the click tone", cmdClick, 0},
	{"mode", "mode [full|simplified]", "show or set the drum synth mode", cmdMode, 0},
	{"groove", "groove list|load NAME|save NAME|delete NAME|show|loops N|stop", "play drum grooves", cmdGroove, 1},
	{"ladder", "ladder [START END STEP BARS | stop]", "ramp the tempo over time", cmdLadder, 0},
	{"rudiment", "rudiment [start|stop|list|bars N|use NAMES|lead r|l|m]", "practice rudiments", cmdRudiment, 0},
	{"hit", "hit VOICE [accent]", "preview a drum voice", cmdHit, 1},
	{"status", "status", "show the full state", cmdStatus, 0},
	{"devices", "devices", "list audio and MIDI outputs", cmdDevices, 0},
	{"help", "help", "show this list", cmdHelp, 0},
	{"exit", "exit", "quit", cmdExit, 0},
}

func (a *App) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]
	if name == "quit" {
		name = "exit"
	}
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if len(args) < cmd.minArgs {
			return fmt.Errorf("usage: %s", cmd.usage)
		}
		return cmd.run(a, args)
	}
	return fmt.Errorf("unknown command: %v (try help)", name)
}

func cmdStart(a *App, args []string) error {
	a.engine.Start()
	return nil
}

func cmdStop(a *App, args []string) error {
	a.engine.Stop()
	return nil
}

func cmdBpm(a *App, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, a.engine.Snapshot().Bpm)
		return nil
	}
	v, err := intArg("tempo", args[0])
	if err != nil {
		return err
	}
	a.engine.SetBpm(v)
	return nil
}

func cmdTap(a *App, args []string) error {
	bpm := a.tap.Tap()
	if bpm == 0 {
		fmt.Fprintln(a.out, "keep tapping...")
		return nil
	}
	a.engine.SetBpm(bpm)
	fmt.Fprintln(a.out, bpm)
	return nil
}

func cmdSig(a *App, args []string) error {
	v, err := intArg("beats per bar", args[0])
	if err != nil {
		return err
	}
	a.engine.SetBeatsPerBar(v)
	return nil
}

func cmdSub(a *App, args []string) error {
	v, err := intArg("subdivision", args[0])
	if err != nil {
		return err
	}
	a.engine.SetSubdivision(v)
	return nil
}

func cmdAccent(a *App, args []string) error {
	on, err := onOffArg(args[0])
	if err != nil {
		return err
	}
	a.engine.SetAccentOnOne(on)
	return nil
}

func cmdMute(a *App, args []string) error {
	if args[0] == "off" {
		a.engine.SetMuteBars(a.engine.Snapshot().MuteBarsOn, 0)
		return nil
	}
	if len(args) < 2 {
		return errors.New("usage: mute BARS_ON BARS_OFF | mute off")
	}
	on, err := intArg("bars on", args[0])
	if err != nil {
		return err
	}
	off, err := intArg("bars off", args[1])
	if err != nil {
		return err
	}
	a.engine.SetMuteBars(on, off)
	return nil
}

func cmdVol(a *App, args []string) error {
	if len(args) == 0 {
		var v float64
		a.withAudio(func() { v = a.bank.Volume() })
		fmt.Fprintf(a.out, "%.2f\n", v)
		return nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("not a volume: %v", args[0])
	}
	a.withAudio(func() { a.bank.SetVolume(v) })
	return nil
}

func cmdClick(a *App, args []string) error {
	if len(args) == 0 {
		var t audio.ClickTone
		a.withAudio(func() { t = a.bank.Tone() })
		fmt.Fprintln(a.out, t)
		return nil
	}
	tone, err := audio.ParseClickTone(args[0])
	if err != nil {
		return err
	}
	a.withAudio(func() { a.bank.SetClickTone(tone) })
	return nil
}

func cmdMode(a *App, args []string) error {
	if len(args) == 0 {
		var m audio.SynthMode
		a.withAudio(func() { m = a.bank.Mode() })
		fmt.Fprintln(a.out, m)
		return nil
	}
	mode, err := parseSynthMode(args[0])
	if err != nil {
		return err
	}
	a.withAudio(func() { a.bank.SetMode(mode) })
	return nil
}

func cmdGroove(a *App, args []string) error {
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fmt.Fprintln(a.out, "presets:")
		for _, name := range groove.PresetNames() {
			fmt.Fprintf(a.out, "  %s\n", name)
		}
		saved := a.store.List()
		if len(saved) > 0 {
			fmt.Fprintln(a.out, "saved:")
			for _, name := range saved {
				fmt.Fprintf(a.out, "  %s\n", name)
			}
		}
		return nil
	case "load":
		if len(rest) == 0 {
			return errors.New("usage: groove load NAME")
		}
		name := strings.Join(rest, " ")
		g, ok := groove.Preset(name)
		if !ok {
			var err error
			g, err = a.store.Load(name)
			if err != nil {
				return err
			}
		}
		a.current = g
		a.player.SetGroove(g)
		a.player.Start()
		renderGroove(a.out, g)
		return nil
	case "save":
		if len(rest) == 0 {
			return errors.New("usage: groove save NAME")
		}
		if a.current == nil {
			return errors.New("no groove loaded")
		}
		g := a.current.Renamed(strings.Join(rest, " "))
		if err := a.store.Save(g); err != nil {
			return err
		}
		a.current = g
		return nil
	case "delete":
		if len(rest) == 0 {
			return errors.New("usage: groove delete NAME")
		}
		return a.store.Delete(strings.Join(rest, " "))
	case "show":
		if a.current == nil {
			return errors.New("no groove loaded")
		}
		renderGroove(a.out, a.current)
		return nil
	case "loops":
		if len(rest) == 0 {
			return errors.New("usage: groove loops N (0 loops forever)")
		}
		n, err := intArg("loop count", rest[0])
		if err != nil {
			return err
		}
		a.player.SetLoops(n)
		return nil
	case "stop":
		a.player.Stop()
		return nil
	default:
		return fmt.Errorf("unknown groove command: %v", sub)
	}
}

func cmdLadder(a *App, args []string) error {
	switch {
	case len(args) == 0:
		renderLadder(a.out, a.ladder.State())
		return nil
	case args[0] == "stop":
		a.ladder.Stop()
		return nil
	case len(args) >= 4:
		start, err := intArg("start tempo", args[0])
		if err != nil {
			return err
		}
		end, err := intArg("end tempo", args[1])
		if err != nil {
			return err
		}
		step, err := intArg("step", args[2])
		if err != nil {
			return err
		}
		bars, err := intArg("bars per step", args[3])
		if err != nil {
			return err
		}
		a.ladder.Configure(start, end, step, bars)
		a.ladder.Start()
		a.engine.Start()
		return nil
	default:
		return errors.New("usage: ladder START END STEP BARS | ladder stop")
	}
}

func cmdRudiment(a *App, args []string) error {
	if len(args) == 0 {
		renderTrainer(a.out, a.trainer.State())
		return nil
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "start":
		a.trainer.Start()
		a.engine.Start()
		return nil
	case "stop":
		a.trainer.Stop()
		return nil
	case "list":
		enabled := make(map[string]bool)
		for _, name := range a.trainer.State().Enabled {
			enabled[name] = true
		}
		for _, r := range beat.Rudiments {
			mark := " "
			if enabled[r.Name] {
				mark = "*"
			}
			fmt.Fprintf(a.out, "%s %-18s %s\n", mark, r.Name, r.Sticking)
		}
		return nil
	case "bars":
		if len(rest) == 0 {
			return errors.New("usage: rudiment bars N")
		}
		n, err := intArg("bar count", rest[0])
		if err != nil {
			return err
		}
		a.trainer.SetBarsPerRudiment(n)
		return nil
	case "use":
		if len(rest) == 0 {
			return errors.New("usage: rudiment use NAME[,NAME...]")
		}
		var names []string
		for _, name := range strings.Split(strings.Join(rest, " "), ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		a.trainer.SetEnabled(names)
		return nil
	case "lead":
		if len(rest) == 0 {
			return errors.New("usage: rudiment lead r|l|m")
		}
		lead, ok := beat.ParseLead(rest[0])
		if !ok {
			return fmt.Errorf("unknown lead: %v", rest[0])
		}
		a.trainer.SetLead(lead)
		return nil
	default:
		return fmt.Errorf("unknown rudiment command: %v", sub)
	}
}

func cmdHit(a *App, args []string) error {
	voice := args[0]
	if !audio.KnownVoice(voice) {
		return fmt.Errorf("unknown voice: %v", voice)
	}
	accent := len(args) > 1 && args[1] == "accent"
	var err error
	a.withAudio(func() {
		if buf, ok := a.bank.Voice(voice, accent); ok {
			err = a.kit.Write(buf)
		}
	})
	return err
}

func cmdStatus(a *App, args []string) error {
	var st appStatus
	st.engine = a.engine.Snapshot()
	st.ladder = a.ladder.State()
	st.trainer = a.trainer.State()
	st.player = a.player.State()
	a.withAudio(func() {
		st.volume = a.bank.Volume()
		st.mode = a.bank.Mode()
		st.tone = a.bank.Tone()
	})
	st.midi = a.midi != nil
	st.remote = a.server != nil
	st.name = a.name
	renderStatus(a.out, st)
	return nil
}

func cmdDevices(a *App, args []string) error {
	outs, err := audio.Devices()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "audio outputs:")
	for _, name := range outs {
		fmt.Fprintf(a.out, "  %s\n", name)
	}
	ports, err := midi.Devices()
	if err != nil {
		return err
	}
	if len(ports) > 0 {
		fmt.Fprintln(a.out, "midi outputs:")
		for _, name := range ports {
			fmt.Fprintf(a.out, "  %s\n", name)
		}
	}
	return nil
}

func cmdHelp(a *App, args []string) error {
	for _, cmd := range commands {
		fmt.Fprintf(a.out, "%-52s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func cmdExit(a *App, args []string) error {
	return errExit
}

func intArg(what, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a valid %s: %v", what, s)
	}
	return v, nil
}

func onOffArg(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %v", s)
	}
}
