package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// fakeVideo is an in-memory VideoOutput.
type fakeVideo struct {
	started bool
	config  DisplayConfig
	frames  uint64
	last    []byte
	handler InputHandler
	done    chan struct{}
}

func newFakeVideo() *fakeVideo {
	return &fakeVideo{done: make(chan struct{})}
}

func (f *fakeVideo) Start() error                           { f.started = true; return nil }
func (f *fakeVideo) Stop() error                            { f.started = false; return nil }
func (f *fakeVideo) Close() error                           { return f.Stop() }
func (f *fakeVideo) IsStarted() bool                        { return f.started }
func (f *fakeVideo) Done() <-chan struct{}                  { return f.done }
func (f *fakeVideo) SetDisplayConfig(c DisplayConfig) error { f.config = c; return nil }
func (f *fakeVideo) GetDisplayConfig() DisplayConfig        { return f.config }
func (f *fakeVideo) GetFrameCount() uint64                  { return f.frames }
func (f *fakeVideo) SetInputHandler(h InputHandler)         { f.handler = h }

func (f *fakeVideo) UpdateFrame(buffer []byte) error {
	f.last = append(f.last[:0], buffer...)
	f.frames++
	return nil
}

func newTestEmulator(t *testing.T, logger *log.Logger, mutate func(*EmulatorConfig), words ...uint16) (*Emulator, *fakeVideo) {
	t.Helper()
	cfg := EmulatorConfig{
		Settings:  DefaultSettings(),
		ROMName:   "test",
		ROM:       wordsToROM(words...),
		StatePath: filepath.Join(t.TempDir(), "test.c8s"),
		Random:    fixedRandom(0),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	emu, err := NewEmulator(cfg, logger)
	assert.NoError(t, err)
	video := newFakeVideo()
	emu.AttachVideo(video)
	t.Cleanup(func() { _ = emu.Close() })
	return emu, video
}

func TestEmulator_RunFrame(t *testing.T) {
	// Draw glyph A at (0,0) then spin.
	emu, video := newTestEmulator(t, log.NewTestLogger(t), nil, 0x600A, 0xF029, 0x6000, 0xD005, 0x1208)
	assert.True(t, video.handler != nil, "emulator registers as input handler")

	assert.NoError(t, emu.RunFrame())
	assert.Equal(t, uint64(1), emu.FrameCount())
	assert.Equal(t, uint64(DEFAULT_CYCLES_PER_FRAME), emu.CPU().Cycles())
	assert.Equal(t, uint64(1), video.frames)
	assert.Equal(t, C8_FRAME_SIZE, len(video.last))
	assert.Equal(t, []byte{63, 255, 31, 255}, pixelAt(video.last, 0, 0))

	status := runtimeStatus.snapshot()
	assert.Equal(t, uint64(1), status.frame)
	assert.Equal(t, "test", status.romName)
}

func TestEmulator_InputIsAppliedAtFrameStart(t *testing.T) {
	emu, video := newTestEmulator(t, log.NewTestLogger(t), nil, 0x1200)
	video.handler.KeyDown(0x15) // masked to key 5
	assert.False(t, emu.CPU().Input().IsPressed(5), "queued, not applied")

	assert.NoError(t, emu.RunFrame())
	assert.True(t, emu.CPU().Input().IsPressed(5))

	video.handler.KeyUp(5)
	assert.NoError(t, emu.RunFrame())
	assert.False(t, emu.CPU().Input().IsPressed(5))
}

func TestEmulator_PauseFreezesMachine(t *testing.T) {
	emu, video := newTestEmulator(t, log.NewTestLogger(t), nil, 0x7001, 0x1200)
	assert.NoError(t, emu.RunFrame())
	cycles := emu.CPU().Cycles()

	emu.Action(HOST_ACTION_PAUSE)
	assert.NoError(t, emu.RunFrame())
	assert.True(t, emu.Paused())
	assert.Equal(t, cycles, emu.CPU().Cycles())
	assert.Equal(t, uint64(2), video.frames, "the last frame is still presented")

	emu.Action(HOST_ACTION_PAUSE)
	assert.NoError(t, emu.RunFrame())
	assert.False(t, emu.Paused())
	assert.Equal(t, 2*cycles, emu.CPU().Cycles())
}

func TestEmulator_QuitAction(t *testing.T) {
	emu, _ := newTestEmulator(t, log.NewTestLogger(t), nil, 0x1200)
	emu.Action(HOST_ACTION_QUIT)
	assert.NoError(t, emu.RunFrame())
	assert.True(t, emu.Quitting())
	assert.Equal(t, uint64(0), emu.FrameCount())
}

func TestEmulator_SoundGate(t *testing.T) {
	emu, _ := newTestEmulator(t, log.NewTestLogger(t), nil, 0x6A05, 0xFA18, 0x1204)
	for frame := 1; frame <= 4; frame++ {
		assert.NoError(t, emu.RunFrame())
		assert.True(t, emu.Beeper().IsActive())
	}
	assert.NoError(t, emu.RunFrame())
	assert.False(t, emu.Beeper().IsActive())
}

func TestEmulator_FaultStopsFrame(t *testing.T) {
	emu, video := newTestEmulator(t, log.NewNop(), nil, 0x00EE)
	err := emu.RunFrame()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint64(0), video.frames)

	emu, _ = newTestEmulator(t, log.NewNop(), nil, 0x00EE)
	assert.True(t, errors.Is(emu.Run(context.Background()), ErrStackUnderflow))
}

func TestEmulator_RunStopsAtFrameLimit(t *testing.T) {
	emu, video := newTestEmulator(t, log.NewTestLogger(t), func(c *EmulatorConfig) {
		c.MaxFrames = 3
		c.Settings.CPU.TargetFPS = MAX_TARGET_FPS
	}, 0x1200)

	assert.NoError(t, emu.Run(context.Background()))
	assert.Equal(t, uint64(3), emu.FrameCount())
	assert.Equal(t, uint64(3), video.frames)
}

func TestEmulator_RunEndsOnCancelOrClose(t *testing.T) {
	emu, _ := newTestEmulator(t, log.NewTestLogger(t), nil, 0x1200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, emu.Run(ctx))

	emu, video := newTestEmulator(t, log.NewTestLogger(t), nil, 0x1200)
	close(video.done)
	assert.NoError(t, emu.Run(context.Background()))
}

func TestEmulator_ResetReloadsROM(t *testing.T) {
	emu, _ := newTestEmulator(t, log.NewTestLogger(t), nil, 0x7001, 0x1200)
	assert.NoError(t, emu.RunFrame())
	emu.CPU().WriteMemory(0x200, []byte{0, 0})

	emu.Action(HOST_ACTION_RESET)
	emu.Action(HOST_ACTION_PAUSE) // keep the machine still to inspect it
	assert.NoError(t, emu.RunFrame())

	assert.Equal(t, uint16(C8_PROGRAM_START), emu.CPU().PC())
	assert.Equal(t, uint64(0), emu.CPU().Cycles())
	assert.Equal(t, []byte{0x70, 0x01}, emu.CPU().ReadMemory(0x200, 2))
}

func TestEmulator_SaveAndLoadStateActions(t *testing.T) {
	emu, _ := newTestEmulator(t, log.NewTestLogger(t), nil, 0x7001, 0x1200)
	assert.NoError(t, emu.RunFrame())
	v0, _ := emu.CPU().Registers().V(0)

	emu.Action(HOST_ACTION_SAVE_STATE)
	emu.Action(HOST_ACTION_PAUSE)
	assert.NoError(t, emu.RunFrame())
	_, err := os.Stat(emu.statePath)
	assert.NoError(t, err)

	emu.CPU().SetRegister("V0", 0)
	emu.Action(HOST_ACTION_LOAD_STATE)
	assert.NoError(t, emu.RunFrame())
	restored, _ := emu.CPU().Registers().V(0)
	assert.Equal(t, v0, restored)
}

func TestEmulator_LoadMissingStateIsNotFatal(t *testing.T) {
	emu, _ := newTestEmulator(t, log.NewNop(), nil, 0x1200)
	emu.Action(HOST_ACTION_LOAD_STATE)
	assert.NoError(t, emu.RunFrame())
	assert.False(t, emu.Quitting())
}

func TestEmulator_ToggleRecording(t *testing.T) {
	dir := t.TempDir()
	emu, _ := newTestEmulator(t, log.NewTestLogger(t), func(c *EmulatorConfig) {
		c.ROMName = "pong"
		c.Settings.Recording.OutputDir = dir
		c.Settings.Recording.FilenamePattern = "rec_{rom_name}"
	}, 0x1200)

	assert.NoError(t, emu.ToggleRecording(time.Unix(0, 0)))
	assert.True(t, emu.Recorder().IsRecording())
	for i := 0; i < 8; i++ {
		assert.NoError(t, emu.RunFrame())
	}
	assert.True(t, runtimeStatus.snapshot().recording)

	assert.NoError(t, emu.ToggleRecording(time.Unix(0, 0)))
	assert.False(t, emu.Recorder().IsRecording())
	info, err := os.Stat(filepath.Join(dir, "rec_pong.gif"))
	assert.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestNewEmulator_Rejects(t *testing.T) {
	s := DefaultSettings()
	s.CPU.CyclesPerFrame = 0
	_, err := NewEmulator(EmulatorConfig{Settings: s, ROM: []byte{0x12, 0x00}}, log.NewNop())
	assert.ErrorContains(t, err, "cpu.cycles_per_frame must be 1-10000, got 0")

	_, err = NewEmulator(EmulatorConfig{Settings: DefaultSettings(), ROM: make([]byte, C8_MAX_ROM_SIZE+1)}, log.NewNop())
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestNewEmulator_DefaultStatePath(t *testing.T) {
	emu, err := NewEmulator(EmulatorConfig{Settings: DefaultSettings(), ROMName: "brix", ROM: []byte{0x12, 0x00}}, log.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, "brix"+DEFAULT_STATE_EXT, emu.statePath)
}
