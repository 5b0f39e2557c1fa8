package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/velle/stix/audio"
	"github.com/velle/stix/beat"
	"github.com/velle/stix/groove"
)

// spacePerCell is the rendered width of one grid cell: an emoji square plus
// two trailing spaces.
const spacePerCell = 4

func renderGroove(w io.Writer, g *groove.Groove) {
	bars := "bar"
	if g.Bars > 1 {
		bars = "bars"
	}
	fmt.Fprintf(w, "%s  %d beats, subdivision %d, %d %s\n",
		colorize(g.Name, colorBlue), g.BeatsPerBar, g.Subdivision, g.Bars, bars)

	voices := grooveVoices(g)
	if len(voices) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	var maxNameLen int
	for _, v := range voices {
		if len(v) > maxNameLen {
			maxNameLen = len(v)
		}
	}

	for bar := 0; bar < g.Bars; bar++ {
		if g.Bars > 1 {
			fmt.Fprintf(w, "bar %d\n", bar+1)
		}
		renderBar(w, g, bar, voices, maxNameLen)
	}
}

// grooveVoices lists the drum voices a groove actually uses, in kit order.
func grooveVoices(g *groove.Groove) []string {
	used := make(map[string]bool)
	for bar := 0; bar < g.Bars; bar++ {
		for bt := 0; bt < g.BeatsPerBar; bt++ {
			for tick := 0; tick < g.Subdivision; tick++ {
				for _, n := range g.NotesAt(bar, bt, tick) {
					used[audio.CanonicalVoice(n.Voice)] = true
				}
			}
		}
	}
	var voices []string
	for _, v := range audio.Voices {
		if used[v] {
			voices = append(voices, v)
		}
	}
	return voices
}

func renderBar(w io.Writer, g *groove.Groove, bar int, voices []string, maxNameLen int) {
	var icons []string
	for bt := 1; bt <= g.BeatsPerBar; bt++ {
		icons = append(icons, numIcon(bt))
	}
	spacing := g.Subdivision*spacePerCell - 1
	fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", maxNameLen), strings.Join(icons, strings.Repeat(" ", spacing)))

	hands := make([]string, g.BeatsPerBar*g.Subdivision)
	haveHands := false

	for _, voice := range voices {
		var steps string
		for bt := 0; bt < g.BeatsPerBar; bt++ {
			for tick := 0; tick < g.Subdivision; tick++ {
				cell := "⬜️"
				for _, n := range g.NotesAt(bar, bt, tick) {
					if audio.CanonicalVoice(n.Voice) != voice {
						continue
					}
					cell = "⬛️"
					if n.Accent {
						cell = "🟥"
					}
					if n.Hand != "" {
						hands[bt*g.Subdivision+tick] = n.Hand
						haveHands = true
					}
				}
				steps += cell + "  "
			}
		}
		fmt.Fprintf(w, "%s  %s\n", colorizePad(voice, maxNameLen), steps)
	}

	if haveHands {
		var row string
		for _, h := range hands {
			if h == "" {
				h = "·"
			}
			row += fmt.Sprintf("%-*s", spacePerCell, h)
		}
		fmt.Fprintf(w, "%s  %s\n", strings.Repeat(" ", maxNameLen), colorize(row, colorMagenta))
	}
}

// colorizePad colors text without letting the escape codes confuse width
// formatting.
func colorizePad(text string, width int) string {
	pad := width - len(text)
	if pad < 0 {
		pad = 0
	}
	return colorize(text, colorGreen) + strings.Repeat(" ", pad)
}

func renderLadder(w io.Writer, st beat.LadderState) {
	state := "idle"
	if st.Active {
		state = "active"
	}
	sign := "+"
	if st.EndBpm < st.StartBpm {
		sign = "-"
	}
	bars := "bars"
	if st.BarsPerStep == 1 {
		bars = "bar"
	}
	fmt.Fprintf(w, "ladder: %d -> %d bpm, %s%d every %d %s (%s)\n",
		st.StartBpm, st.EndBpm, sign, st.StepBpm, st.BarsPerStep, bars, state)
}

func renderTrainer(w io.Writer, st beat.TrainerState) {
	if !st.Running {
		fmt.Fprintf(w, "rudiments: stopped (%d bars each, lead %s)\n", st.BarsPerRudiment, st.Lead)
		return
	}
	fmt.Fprintf(w, "rudiments: running, %d bars each, lead %s\n", st.BarsPerRudiment, st.Lead)
	fmt.Fprintf(w, "  %s\n", formatRudimentPair(st.Current, st.Next))
}

func formatRudimentPair(current, next beat.Rudiment) string {
	return fmt.Sprintf("now: %s  %s   next: %s  %s",
		colorize(current.Name, colorGreen), current.Sticking,
		colorize(next.Name, colorBlue), next.Sticking)
}

// appStatus gathers everything the status command shows.
type appStatus struct {
	name    string
	engine  beat.Snapshot
	ladder  beat.LadderState
	trainer beat.TrainerState
	player  beat.PlayerState
	volume  float64
	mode    audio.SynthMode
	tone    audio.ClickTone
	midi    bool
	remote  bool
}

func renderStatus(w io.Writer, st appStatus) {
	run := "stopped"
	if st.engine.Running {
		run = "running"
	}
	fmt.Fprintf(w, "%-10s %s\n", "name", st.name)
	fmt.Fprintf(w, "%-10s %d bpm (%s)\n", "tempo", st.engine.Bpm, run)
	fmt.Fprintf(w, "%-10s %d beats, subdivision %d\n", "meter", st.engine.BeatsPerBar, st.engine.Subdivision)
	fmt.Fprintf(w, "%-10s %s\n", "accent", onOff(st.engine.AccentOnOne))
	if st.engine.MuteBarsOff > 0 {
		fmt.Fprintf(w, "%-10s %d bars on, %d bars off\n", "mute", st.engine.MuteBarsOn, st.engine.MuteBarsOff)
	} else {
		fmt.Fprintf(w, "%-10s off\n", "mute")
	}
	fmt.Fprintf(w, "%-10s %.2f\n", "volume", st.volume)
	fmt.Fprintf(w, "%-10s %s\n", "synth", st.mode)
	fmt.Fprintf(w, "%-10s %s\n", "click", st.tone)
	if st.player.GrooveName != "" {
		loops := "forever"
		if st.player.Loops > 0 {
			loops = fmt.Sprintf("%d loops", st.player.Loops)
		}
		state := "stopped"
		if st.player.Active {
			state = fmt.Sprintf("bar %d, played %d", st.player.BarInGroove+1, st.player.BarsPlayed)
		}
		fmt.Fprintf(w, "%-10s %s (%s, %s)\n", "groove", st.player.GrooveName, state, loops)
	} else {
		fmt.Fprintf(w, "%-10s none\n", "groove")
	}
	renderLadder(w, st.ladder)
	renderTrainer(w, st.trainer)
	fmt.Fprintf(w, "%-10s %s\n", "midi", onOff(st.midi))
	fmt.Fprintf(w, "%-10s %s\n", "remote", onOff(st.remote))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func numIcon(n int) string {
	// https://www.unicode.org/emoji/charts/full-emoji-list.html#0030_fe0f_20e3
	return string([]byte{48 + byte(n%10), 239, 184, 143, 226, 131, 163})
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
