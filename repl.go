package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/velle/stix/audio"
	"github.com/velle/stix/groove"
)

func (a *App) repl() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "stix> ",
		HistoryFile:     historyFile(),
		AutoComplete:    a.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	// Route command output through readline so prints from tick handlers
	// don't mangle the prompt.
	a.out = rl.Stdout()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := a.exec(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintln(a.out, err)
		}
	}
}

func (a *App) completer() *readline.PrefixCompleter {
	grooveNames := readline.PcItemDynamic(func(string) []string {
		return append(groove.PresetNames(), a.store.List()...)
	})
	var tones []readline.PrefixCompleterInterface
	for _, t := range audio.ClickTones {
		tones = append(tones, readline.PcItem(t.String()))
	}
	var voices []readline.PrefixCompleterInterface
	for _, v := range audio.Voices {
		voices = append(voices, readline.PcItem(v))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("start"),
		readline.PcItem("stop"),
		readline.PcItem("bpm"),
		readline.PcItem("tap"),
		readline.PcItem("sig"),
		readline.PcItem("sub"),
		readline.PcItem("accent", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("mute", readline.PcItem("off")),
		readline.PcItem("vol"),
		readline.PcItem("click", tones...),
		readline.PcItem("mode", readline.PcItem("full"), readline.PcItem("simplified")),
		readline.PcItem("groove",
			readline.PcItem("list"),
			readline.PcItem("load", grooveNames),
			readline.PcItem("save"),
			readline.PcItem("delete", grooveNames),
			readline.PcItem("show"),
			readline.PcItem("loops"),
			readline.PcItem("stop"),
		),
		readline.PcItem("ladder", readline.PcItem("stop")),
		readline.PcItem("rudiment",
			readline.PcItem("start"),
			readline.PcItem("stop"),
			readline.PcItem("list"),
			readline.PcItem("bars"),
			readline.PcItem("use"),
			readline.PcItem("lead",
				readline.PcItem("r"),
				readline.PcItem("l"),
				readline.PcItem("m"),
			),
		),
		readline.PcItem("hit", voices...),
		readline.PcItem("status"),
		readline.PcItem("devices"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".stix")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
