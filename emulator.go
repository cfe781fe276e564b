// emulator.go - Frame scheduler gluing the CHIP-8 core to its host

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
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	INPUT_QUEUE_SIZE  = 256
	DEFAULT_STATE_EXT = ".c8s"
)

type hostInputKind uint8

const (
	inputKeyDown hostInputKind = iota
	inputKeyUp
	inputAction
)

type hostInput struct {
	kind   hostInputKind
	key    byte
	action HostAction
}

// EmulatorConfig describes one run of a ROM.
type EmulatorConfig struct {
	Settings  Settings
	ROMName   string // base name used for recordings and the status bar
	ROM       []byte
	StatePath string // F5/F8 save state file
	MaxFrames uint64 // stop after this many frames, 0 runs until quit
	Random    RandomSource
}

// Emulator owns the CPU and drives it one frame at a time: a fixed number
// of instruction ticks, one timer tick and one render. Input arrives from
// frontend goroutines through a queue and is applied at frame start, so
// the CPU itself is only ever touched by the goroutine calling RunFrame.
type Emulator struct {
	cpu      *Chip8CPU
	settings Settings
	logger   *log.Logger

	video    VideoOutput
	beeper   *Beeper
	recorder *GIFRecorder
	script   *ScriptHost

	romName   string
	rom       []byte
	statePath string
	maxFrames uint64

	frame      []byte
	frameCount uint64
	paused     bool
	quit       bool

	inputs chan hostInput
}

func NewEmulator(cfg EmulatorConfig, logger *log.Logger) (*Emulator, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	e := &Emulator{
		cpu:       NewChip8CPU(cfg.Random, cfg.Settings.Phosphor()),
		settings:  cfg.Settings,
		logger:    logger,
		beeper:    NewBeeper(cfg.Settings.Audio.Frequency, cfg.Settings.Audio.Volume),
		recorder:  NewGIFRecorder(cfg.Settings.Recording, logger),
		romName:   cfg.ROMName,
		rom:       cfg.ROM,
		statePath: cfg.StatePath,
		maxFrames: cfg.MaxFrames,
		frame:     make([]byte, C8_FRAME_SIZE),
		inputs:    make(chan hostInput, INPUT_QUEUE_SIZE),
	}
	if e.statePath == "" {
		e.statePath = cfg.ROMName + DEFAULT_STATE_EXT
	}
	if err := e.cpu.LoadROM(cfg.ROM); err != nil {
		return nil, err
	}
	runtimeStatus.setROM(cfg.ROMName)
	return e, nil
}

func (e *Emulator) CPU() *Chip8CPU {
	return e.cpu
}

func (e *Emulator) Beeper() *Beeper {
	return e.beeper
}

func (e *Emulator) Recorder() *GIFRecorder {
	return e.recorder
}

// AttachVideo sets the frontend and routes its input here.
func (e *Emulator) AttachVideo(v VideoOutput) {
	e.video = v
	if v != nil {
		v.SetInputHandler(e)
	}
}

// AttachScript installs the per-frame script hook.
func (e *Emulator) AttachScript(s *ScriptHost) {
	e.script = s
}

// EnableTrace logs every executed instruction at debug level.
func (e *Emulator) EnableTrace() {
	e.cpu.SetTrace(func(pc uint16, ins Instruction) {
		e.logger.Debug("Trace",
			log.Hex("pc", pc),
			log.Hex("op", ins.Raw),
			log.Stringer("asm", ins))
	})
}

func (e *Emulator) FrameCount() uint64 {
	return e.frameCount
}

// Frame is the most recent render. It is reused between frames.
func (e *Emulator) Frame() []byte {
	return e.frame
}

func (e *Emulator) Paused() bool {
	return e.paused
}

// Quitting reports whether a quit was requested by input, script or frame limit.
func (e *Emulator) Quitting() bool {
	return e.quit
}

func (e *Emulator) RequestQuit() {
	e.quit = true
}

// KeyDown, KeyUp and Action implement InputHandler. They only enqueue;
// a full queue drops the event rather than stall the frontend.
func (e *Emulator) KeyDown(key byte) {
	e.enqueue(hostInput{kind: inputKeyDown, key: key & C8_KEY_MASK})
}

func (e *Emulator) KeyUp(key byte) {
	e.enqueue(hostInput{kind: inputKeyUp, key: key & C8_KEY_MASK})
}

func (e *Emulator) Action(a HostAction) {
	e.enqueue(hostInput{kind: inputAction, action: a})
}

func (e *Emulator) enqueue(in hostInput) {
	select {
	case e.inputs <- in:
	default:
	}
}

func (e *Emulator) drainInputs() {
	for {
		select {
		case in := <-e.inputs:
			e.applyInput(in)
		default:
			return
		}
	}
}

func (e *Emulator) applyInput(in hostInput) {
	switch in.kind {
	case inputKeyDown:
		e.cpu.Press(in.key)
	case inputKeyUp:
		e.cpu.Release(in.key)
	case inputAction:
		e.handleAction(in.action)
	}
}

func (e *Emulator) handleAction(a HostAction) {
	switch a {
	case HOST_ACTION_QUIT:
		e.quit = true
	case HOST_ACTION_PAUSE:
		e.paused = !e.paused
		e.logger.Info("Pause", log.String("state", onOff(e.paused)))
	case HOST_ACTION_RESET:
		if err := e.Reset(); err != nil {
			e.logger.Error("Reset failed", log.Err(err))
		}
	case HOST_ACTION_SAVE_STATE:
		if err := e.SaveState(e.statePath); err != nil {
			e.logger.Error("Saving state failed", log.Err(err))
		}
	case HOST_ACTION_LOAD_STATE:
		if err := e.LoadState(e.statePath); err != nil {
			e.logger.Error("Loading state failed", log.Err(err))
		}
	case HOST_ACTION_TOGGLE_RECORDING:
		if err := e.ToggleRecording(time.Now()); err != nil {
			e.logger.Error("Recording failed", log.Err(err))
		}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Reset reloads the ROM into a power-on machine.
func (e *Emulator) Reset() error {
	if err := e.cpu.LoadROM(e.rom); err != nil {
		return err
	}
	e.logger.Info("Machine reset", log.String("rom", e.romName))
	return nil
}

func (e *Emulator) SaveState(path string) error {
	if err := SaveSnapshotToFile(TakeSnapshot(e.cpu), path); err != nil {
		return err
	}
	e.logger.Info("State saved", log.String("file", path))
	return nil
}

func (e *Emulator) LoadState(path string) error {
	snap, err := LoadSnapshotFromFile(path)
	if err != nil {
		return err
	}
	if err := RestoreSnapshot(e.cpu, snap); err != nil {
		return err
	}
	e.logger.Info("State loaded", log.String("file", path))
	return nil
}

// ToggleRecording starts a GIF named from the recording settings, or
// stops and finalises the current one.
func (e *Emulator) ToggleRecording(now time.Time) error {
	if e.recorder.IsRecording() {
		return e.recorder.Stop()
	}
	rec := e.settings.Recording
	return e.recorder.Start(GenerateRecordingFilename(e.romName, rec.OutputDir, rec.FilenamePattern, now))
}

// RunFrame advances the machine by one frame. The returned error is a
// fatal CPU fault or a script failure; either ends the run.
func (e *Emulator) RunFrame() error {
	e.drainInputs()
	if e.quit {
		return nil
	}

	if !e.paused {
		for i := 0; i < e.settings.CPU.CyclesPerFrame; i++ {
			if err := e.cpu.Tick(); err != nil {
				e.beeper.SetActive(false)
				return err
			}
		}
		e.cpu.TickTimers()
		if err := e.cpu.Render(e.frame); err != nil {
			return err
		}
	}

	if e.video != nil {
		if err := e.video.UpdateFrame(e.frame); err != nil {
			return err
		}
	}
	if !e.paused {
		e.recorder.AddFrame(e.frame)
	}
	e.beeper.SetActive(!e.paused && e.cpu.Timers().SoundActive())

	e.frameCount++
	runtimeStatus.publish(e.cpu, e.frameCount, e.paused, e.recorder.IsRecording())

	if e.script != nil {
		if err := e.script.OnFrame(e.frameCount); err != nil {
			return err
		}
	}
	if e.maxFrames > 0 && e.frameCount >= e.maxFrames {
		e.quit = true
	}
	return nil
}

// Run drives RunFrame at the configured frame rate until quit, the
// frontend closes, ctx is cancelled or a frame fails. Cancellation and
// a closed frontend are clean exits.
func (e *Emulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(e.settings.CPU.TargetFPS))
	defer ticker.Stop()

	var closed <-chan struct{}
	if e.video != nil {
		closed = e.video.Done()
	}

	for !e.quit {
		select {
		case <-ctx.Done():
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
		}
		if err := e.RunFrame(); err != nil {
			var fault *Chip8Fault
			if errors.As(err, &fault) {
				e.logger.Error("CPU fault", log.Err(fault.Kind),
					log.Hex("pc", fault.PC),
					log.Hex("opcode", fault.Opcode))
			}
			return err
		}
	}
	return nil
}

// Close finalises any recording and silences the beeper.
func (e *Emulator) Close() error {
	e.beeper.SetActive(false)
	var err error
	if e.recorder.IsRecording() {
		err = e.recorder.Stop()
	}
	if e.script != nil {
		e.script.Close()
	}
	return err
}
