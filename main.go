// stix is a practice metronome with a synthesized drum kit. It keeps time,
// plays grooves and rudiments, and can be driven over the network by a
// remote on the same LAN.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/velle/stix/audio"
	"github.com/velle/stix/beat"
	"github.com/velle/stix/groove"
	"github.com/velle/stix/midi"
	"github.com/velle/stix/remote"
)

func main() {
	var (
		bpm      = flag.Int("bpm", beat.DefaultBpm, "starting tempo")
		sig      = flag.Int("sig", beat.DefaultBeatsPerBar, "beats per bar")
		sub      = flag.Int("sub", beat.DefaultSubdivision, "clicks per beat")
		driver   = flag.String("driver", "portaudio", "audio driver: portaudio, oto or null")
		device   = flag.String("device", "", "pick the audio output whose name contains this")
		mode     = flag.String("mode", "full", "drum synth mode: full or simplified")
		tone     = flag.String("click", "sine-high", "click tone: sine-high, sine-low, triangle or woodblock")
		vol      = flag.Float64("vol", 1.0, "output volume, 0 to 1")
		serve    = flag.Bool("remote", false, "serve the network remote and answer discovery probes")
		midiOut  = flag.String("midi", "", "forward groove notes to a MIDI output; use \"default\" or a device name")
		name     = flag.String("name", "", "advertised instance name, generated when empty")
		storeDir = flag.String("dir", "", "groove storage directory, defaults to ~/.stix/grooves")
	)
	flag.Parse()

	log.SetFlags(0)

	synthMode, err := parseSynthMode(*mode)
	if err != nil {
		log.Fatal(err)
	}
	clickTone, err := audio.ParseClickTone(*tone)
	if err != nil {
		log.Fatal(err)
	}

	dir := *storeDir
	if dir == "" {
		dir, err = groove.DefaultDir()
		if err != nil {
			log.Fatal(err)
		}
	}

	clickSink, err := audio.Open(*driver, *device, audio.DefaultFormat())
	if err != nil {
		log.Fatal(err)
	}
	// Grooves get their own sink so drum buffers and click buffers play
	// simultaneously instead of queueing behind each other.
	kitSink, err := audio.Open(*driver, *device, audio.DefaultFormat())
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	bank := audio.NewBank(kitSink.Format(), rng)
	bank.SetMode(synthMode)
	bank.SetClickTone(clickTone)
	bank.SetVolume(*vol)

	eng := beat.New()
	eng.SetBpm(*bpm)
	eng.SetBeatsPerBar(*sig)
	eng.SetSubdivision(*sub)

	app := &App{
		name:    *name,
		out:     os.Stdout,
		engine:  eng,
		tap:     beat.NewTap(),
		ladder:  beat.NewLadder(eng),
		trainer: beat.NewRudimentTrainer(eng, rng),
		player:  beat.NewGroovePlayer(eng),
		store:   groove.NewStore(dir),
		bank:    bank,
		mixer:   audio.NewMixer(bank),
		click:   clickSink,
		kit:     kitSink,
	}
	if app.name == "" {
		app.name = remote.InstanceName()
	}

	if *midiOut != "" {
		sel := *midiOut
		if sel == "default" {
			sel = ""
		}
		port, err := midi.Open(sel)
		if err != nil {
			log.Fatal(err)
		}
		app.midi = midi.NewWriter(port)
	}

	app.wire()

	if *serve {
		ctrl := remoteController{app}
		app.server = remote.NewServer(ctrl, remote.HTTPPort)
		go func() {
			if err := app.server.ListenAndServe(); err != nil {
				log.Printf("remote: %v", err)
			}
		}()
		app.discovery = remote.NewDiscovery(ctrl, remote.HTTPPort)
		if err := app.discovery.Start(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("remote: %s listening on :%d\n", app.name, remote.HTTPPort)
	}

	err = app.repl()
	app.Close()
	if err != nil && err != io.EOF {
		fmt.Println(err)
		os.Exit(1)
	}
}

// App owns the long-lived pieces and ties the clock to the speakers. The
// bank and mixer are confined to the engine goroutine: tick handlers touch
// them there, commands reach them through withAudio.
type App struct {
	name string
	out  io.Writer

	engine  *beat.Engine
	tap     *beat.Tap
	ladder  *beat.Ladder
	trainer *beat.RudimentTrainer
	player  *beat.GroovePlayer
	store   *groove.Store

	bank  *audio.Bank
	mixer *audio.Mixer
	click audio.Sink
	kit   audio.Sink

	midi *midi.Writer

	server    *remote.Server
	discovery *remote.Discovery

	// current is the groove selected with "groove load", REPL goroutine only.
	current *groove.Groove
}

// wire connects engine ticks to sound output.
func (a *App) wire() {
	a.engine.OnTick(func(t beat.Tick) {
		if !t.Click {
			return
		}
		if err := a.click.Write(a.bank.Click(t.Accent)); err != nil {
			log.Printf("click: %v", err)
		}
	})

	a.player.OnNotes(func(t beat.Tick, notes []groove.Note) {
		if !t.Audible || len(notes) == 0 {
			return
		}
		hits := make([]audio.Hit, len(notes))
		for i, n := range notes {
			hits[i] = audio.Hit{Voice: n.Voice, Accent: n.Accent}
		}
		if buf := a.mixer.Mix(hits); buf != nil {
			if err := a.kit.Write(buf); err != nil {
				log.Printf("groove: %v", err)
			}
		}
		if a.midi != nil {
			for _, n := range notes {
				a.midi.Note(n.Voice, n.Accent)
			}
		}
	})

	a.ladder.OnComplete(func() {
		fmt.Fprintf(a.out, "\nladder: reached %d bpm\n", a.engine.Snapshot().Bpm)
	})

	a.trainer.OnChange(func(current, next beat.Rudiment) {
		fmt.Fprintf(a.out, "\n%s\n", formatRudimentPair(current, next))
	})
}

// withAudio runs fn on the engine goroutine and waits for it, so commands
// can touch the bank and mixer without racing the tick handlers.
func (a *App) withAudio(fn func()) {
	done := make(chan struct{})
	a.engine.Do(func() {
		fn()
		close(done)
	})
	<-done
}

func (a *App) Close() {
	if a.discovery != nil {
		a.discovery.Close()
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		a.server.Shutdown(ctx)
		cancel()
	}
	a.engine.Close()
	if a.midi != nil {
		a.midi.Close()
	}
	a.click.Close()
	a.kit.Close()
}

func parseSynthMode(s string) (audio.SynthMode, error) {
	switch s {
	case "full":
		return audio.FullKit, nil
	case "simplified":
		return audio.SimplifiedKit, nil
	default:
		return audio.FullKit, fmt.Errorf("unknown synth mode: %v", s)
	}
}

// remoteController adapts the app for the network remote. Every mutation
// waits for the engine to apply it, so responses report what they caused.
type remoteController struct {
	app *App
}

func (r remoteController) Status() remote.Status {
	s := r.app.engine.Snapshot()
	return remote.Status{
		Name:     r.app.name,
		Bpm:      s.Bpm,
		Running:  s.Running,
		HTTPPort: remote.HTTPPort,
	}
}

func (r remoteController) Start() {
	r.app.engine.Start()
	r.app.withAudio(func() {})
}

func (r remoteController) Stop() {
	r.app.engine.Stop()
	r.app.withAudio(func() {})
}

func (r remoteController) SetBpm(bpm int) {
	r.app.engine.SetBpm(bpm)
	r.app.withAudio(func() {})
}
