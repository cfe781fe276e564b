// main.go - Intuition CHIP-8 entry point

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionChip8
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nCHIP-8 on a long persistence phosphor screen.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionChip8")
	fmt.Println("License: GPLv3 or later")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

// cliOptions holds the parsed command line. Zero values for the numeric
// overrides mean "use the settings file".
type cliOptions struct {
	romPath     string
	configPath  string
	writeConfig bool
	scale       int
	cycles      int
	fps         int
	seed        uint64
	maxFrames   uint64
	terminal    bool
	mute        bool
	record      bool
	scriptPath  string
	statePath   string
	disasm      bool
	trace       bool
	debug       bool
	quiet       bool
	version     bool
}

func parseFlags(args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	flagSet := flag.NewFlagSet("intuition_chip8", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.configPath, "config", DEFAULT_SETTINGS_FILE, "TOML settings file")
	flagSet.BoolVar(&opts.writeConfig, "write-config", false, "write the effective settings to -config and exit")
	flagSet.IntVar(&opts.scale, "scale", 0, "window scale factor")
	flagSet.IntVar(&opts.cycles, "cycles", 0, "instructions per frame")
	flagSet.IntVar(&opts.fps, "fps", 0, "frames per second")
	flagSet.Uint64Var(&opts.seed, "seed", 0, "random seed for CXNN, 0 picks one")
	flagSet.Uint64Var(&opts.maxFrames, "frames", 0, "stop after this many frames")
	flagSet.BoolVar(&opts.terminal, "term", false, "render on the terminal instead of a window")
	flagSet.BoolVar(&opts.mute, "mute", false, "disable the beeper")
	flagSet.BoolVar(&opts.record, "record", false, "start GIF recording immediately")
	flagSet.StringVar(&opts.scriptPath, "script", "", "Lua script to run alongside the ROM")
	flagSet.StringVar(&opts.statePath, "state", "", "save state file for F5/F8 (default <rom>.c8s)")
	flagSet.BoolVar(&opts.disasm, "disasm", false, "print a disassembly of the ROM and exit")
	flagSet.BoolVar(&opts.trace, "trace", false, "log every executed instruction (implies -debug)")
	flagSet.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flagSet.BoolVar(&opts.quiet, "quiet", false, "only log errors")
	flagSet.BoolVar(&opts.version, "version", false, "print version and exit")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_chip8 [options] rom.ch8")
		flagSet.PrintDefaults()
		fmt.Printf("\nKeys: %s, P pause, Esc quit\n", keypadLegend())
		fmt.Println("Window: F5 save, F8 load, F9 screenshot, F10 reset, Ctrl+R record, F11 fullscreen, F12 status bar")
		fmt.Println("Terminal: Ctrl+S save, Ctrl+L load, Ctrl+E reset, Ctrl+R record, Ctrl+C quit")
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.Usage()
		}
		return nil, err
	}
	if opts.trace {
		opts.debug = true
	}
	opts.romPath = flagSet.Arg(0)
	if opts.romPath == "" && !opts.version && !opts.writeConfig {
		return nil, errors.New("no ROM file given")
	}
	return opts, nil
}

// applyTo overlays command line overrides onto the settings file.
func (o *cliOptions) applyTo(s *Settings) {
	if o.scale > 0 {
		s.Display.Scale = o.scale
	}
	if o.cycles > 0 {
		s.CPU.CyclesPerFrame = o.cycles
	}
	if o.fps > 0 {
		s.CPU.TargetFPS = o.fps
	}
	if o.mute {
		s.Audio.Enabled = false
	}
}

func (o *cliOptions) randomSource() RandomSource {
	if o.seed != 0 {
		return NewSeededRandomSource(o.seed)
	}
	return NewRandomSource()
}

func romName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if opts.version {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return
	}
	if !opts.quiet && !opts.disasm {
		boilerPlate()
	}

	logger := newLogger(opts.debug, opts.quiet)
	if err := run(opts, logger); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(opts *cliOptions, logger *log.Logger) error {
	settings, err := LoadSettings(opts.configPath)
	if err != nil {
		return err
	}
	opts.applyTo(&settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	if opts.writeConfig {
		if err := SaveSettings(opts.configPath, settings); err != nil {
			return err
		}
		logger.Info("Settings written", log.String("file", opts.configPath))
		return nil
	}

	rom, err := os.ReadFile(opts.romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	if opts.disasm {
		return WriteROMListing(os.Stdout, rom)
	}

	emu, err := NewEmulator(EmulatorConfig{
		Settings:  settings,
		ROMName:   romName(opts.romPath),
		ROM:       rom,
		StatePath: opts.statePath,
		MaxFrames: opts.maxFrames,
		Random:    opts.randomSource(),
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("Loaded ROM",
		log.String("file", opts.romPath),
		log.Int("bytes", len(rom)),
		log.Int("cycles_per_frame", settings.CPU.CyclesPerFrame),
		log.Int("fps", settings.CPU.TargetFPS))
	if opts.trace {
		emu.EnableTrace()
	}

	backend := VIDEO_BACKEND_EBITEN
	if opts.terminal {
		backend = VIDEO_BACKEND_TERMINAL
	}
	video, err := NewVideoOutput(backend, logger)
	if err != nil {
		return err
	}
	if err := video.SetDisplayConfig(DisplayConfig{
		Width:       C8_DISPLAY_WIDTH,
		Height:      C8_DISPLAY_HEIGHT,
		Scale:       settings.Display.Scale,
		RefreshRate: settings.CPU.TargetFPS,
	}); err != nil {
		return err
	}
	emu.AttachVideo(video)
	if err := video.Start(); err != nil {
		return err
	}
	defer video.Close()

	if tv, ok := video.(*TerminalOutput); ok {
		host := NewTerminalHost(tv.Keypad())
		if err := host.Start(); err != nil {
			return err
		}
		defer host.Stop()
	}

	if settings.Audio.Enabled {
		player, err := NewBeepPlayer(emu.Beeper())
		if err != nil {
			logger.Warn("Audio unavailable, running silent", log.Err(err))
		} else {
			player.Play()
			defer player.Close()
		}
	}

	if opts.scriptPath != "" {
		script := NewScriptHost(emu, logger)
		if err := script.LoadFile(opts.scriptPath); err != nil {
			script.Close()
			return err
		}
		emu.AttachScript(script)
	}

	if opts.record {
		if err := emu.ToggleRecording(time.Now()); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := emu.Run(ctx)
	return errors.Join(runErr, emu.Close())
}
