//go:build !headless

// video_backend_ebiten.go - Ebiten window, keypad input and status bar

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
	"fmt"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrogolib/log"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// Physical key positions for the hex keypad, same layout as qwertyKeypad.
var ebitenKeypad = [C8_NUM_KEYS]ebiten.Key{
	ebiten.KeyX, ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyA,
	ebiten.KeyS, ebiten.KeyD, ebiten.KeyZ, ebiten.KeyC,
	ebiten.Key4, ebiten.KeyR, ebiten.KeyF, ebiten.KeyV,
}

// hotkey binds a window key to a frontend command. Chords with ctrl set
// only fire while Control is held; the others fire either way.
type hotkey struct {
	key   ebiten.Key
	ctrl  bool
	label string
	run   func(eo *EbitenOutput)
}

func sendAction(a HostAction) func(*EbitenOutput) {
	return func(eo *EbitenOutput) { eo.emitAction(a) }
}

var ebitenHotkeys = []hotkey{
	{key: ebiten.KeyEscape, run: sendAction(HOST_ACTION_QUIT)},
	{key: ebiten.KeyP, label: "P Pause", run: sendAction(HOST_ACTION_PAUSE)},
	{key: ebiten.KeyF5, label: "F5 Save", run: sendAction(HOST_ACTION_SAVE_STATE)},
	{key: ebiten.KeyF8, label: "F8 Load", run: sendAction(HOST_ACTION_LOAD_STATE)},
	{key: ebiten.KeyF9, label: "F9 Shot", run: (*EbitenOutput).copyScreenshotToClipboard},
	{key: ebiten.KeyF10, label: "F10 Reset", run: sendAction(HOST_ACTION_RESET)},
	{key: ebiten.KeyR, ctrl: true, label: "^R Rec", run: sendAction(HOST_ACTION_TOGGLE_RECORDING)},
	{key: ebiten.KeyF11, run: (*EbitenOutput).toggleFullscreen},
	{key: ebiten.KeyF12, label: "F12 Bar", run: (*EbitenOutput).toggleStatusBar},
}

func hotkeyLegend() string {
	labels := make([]string, 0, len(ebitenHotkeys))
	for _, hk := range ebitenHotkeys {
		if hk.label != "" {
			labels = append(labels, hk.label)
		}
	}
	return strings.Join(labels, "  ")
}

const STATUS_BAR_HEIGHT = 44

var (
	statusBarBackground = color.RGBA{0, 0, 0, 180}
	statusLabelColor    = color.RGBA{190, 190, 190, 255}
	statusDimColor      = color.RGBA{120, 120, 120, 255}
	statusLitColor      = color.RGBA{0, 220, 90, 255}
	statusLegendColor   = color.RGBA{160, 160, 160, 255}
)

// EbitenOutput shows the emulator framebuffer in a window. ebiten owns the
// Update/Draw goroutine; UpdateFrame only swaps bytes under mu.
type EbitenOutput struct {
	logger *log.Logger

	mu        sync.RWMutex
	cfg       DisplayConfig
	pixels    []byte
	surface   *ebiten.Image
	input     InputHandler
	statusBar bool

	running   atomic.Bool
	frames    atomic.Uint64
	firstDraw chan struct{}
	done      chan struct{}
	doneOnce  sync.Once

	clipboardOnce sync.Once
	clipboardErr  error
}

func NewEbitenOutput(logger *log.Logger) (VideoOutput, error) {
	return &EbitenOutput{
		logger: logger,
		cfg: DisplayConfig{
			Width:       C8_DISPLAY_WIDTH,
			Height:      C8_DISPLAY_HEIGHT,
			Scale:       DEFAULT_WINDOW_SCALE,
			RefreshRate: DEFAULT_TARGET_FPS,
		},
		pixels:    make([]byte, C8_FRAME_SIZE),
		statusBar: true,
		firstDraw: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start opens the window and blocks until it has drawn once.
func (eo *EbitenOutput) Start() error {
	if !eo.running.CompareAndSwap(false, true) {
		return nil
	}
	cfg := eo.GetDisplayConfig()
	ebiten.SetWindowTitle("Intuition CHIP-8")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(cfg.RefreshRate)
	applyWindowMode(cfg)

	go func() {
		defer eo.finish()
		if err := ebiten.RunGame(eo); err != nil {
			eo.logger.Error("Window closed with error", log.Err(err))
		}
	}()

	select {
	case <-eo.firstDraw:
		return nil
	case <-eo.done:
		return &VideoError{Operation: "start", Details: "window closed before first frame"}
	}
}

func applyWindowMode(cfg DisplayConfig) {
	ebiten.SetFullscreen(cfg.Fullscreen)
	if !cfg.Fullscreen {
		ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	}
}

func (eo *EbitenOutput) finish() {
	eo.running.Store(false)
	eo.doneOnce.Do(func() { close(eo.done) })
}

// Stop asks the game loop to terminate on its next Update.
func (eo *EbitenOutput) Stop() error {
	eo.running.Store(false)
	return nil
}

func (eo *EbitenOutput) Close() error          { return eo.Stop() }
func (eo *EbitenOutput) Done() <-chan struct{} { return eo.done }
func (eo *EbitenOutput) IsStarted() bool       { return eo.running.Load() }
func (eo *EbitenOutput) GetFrameCount() uint64 { return eo.frames.Load() }

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.mu.Lock()
	defer eo.mu.Unlock()
	if len(data) != len(eo.pixels) {
		return &VideoError{
			Operation: "frame update",
			Details:   fmt.Sprintf("expected %d bytes, got %d", len(eo.pixels), len(data)),
		}
	}
	copy(eo.pixels, data)
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.mu.Lock()
	defer eo.mu.Unlock()

	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = eo.cfg.Width, eo.cfg.Height
	}
	if config.RefreshRate <= 0 {
		config.RefreshRate = eo.cfg.RefreshRate
	}
	config.Scale = ClampScale(config.Scale)
	eo.cfg = config

	if size := config.Width * config.Height * C8_BYTES_PER_PIXEL; len(eo.pixels) != size {
		eo.pixels = make([]byte, size)
	}
	if eo.surface != nil {
		eo.surface.Dispose()
		eo.surface = nil
	}
	if eo.running.Load() {
		applyWindowMode(config)
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.cfg
}

// GetSnapshot copies the last frame handed to UpdateFrame.
func (eo *EbitenOutput) GetSnapshot() FrameSnapshot {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return FrameSnapshot{
		Buffer:    append([]byte(nil), eo.pixels...),
		Width:     eo.cfg.Width,
		Height:    eo.cfg.Height,
		Timestamp: time.Now(),
	}
}

func (eo *EbitenOutput) SetInputHandler(h InputHandler) {
	eo.mu.Lock()
	eo.input = h
	eo.mu.Unlock()
}

func (eo *EbitenOutput) handler() InputHandler {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.input
}

func (eo *EbitenOutput) emitAction(a HostAction) {
	if h := eo.handler(); h != nil {
		h.Action(a)
	}
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || !eo.running.Load() {
		eo.emitAction(HOST_ACTION_QUIT)
		return ebiten.Termination
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	for _, hk := range ebitenHotkeys {
		if (!hk.ctrl || ctrl) && inpututil.IsKeyJustPressed(hk.key) {
			hk.run(eo)
		}
	}
	eo.forwardKeypad(ctrl)
	return nil
}

// forwardKeypad sends edges only. A press made with Control held belongs
// to a hotkey chord and is not sent; releases always are.
func (eo *EbitenOutput) forwardKeypad(ctrl bool) {
	h := eo.handler()
	if h == nil {
		return
	}
	for key, k := range ebitenKeypad {
		if !ctrl && inpututil.IsKeyJustPressed(k) {
			h.KeyDown(byte(key))
		}
		if inpututil.IsKeyJustReleased(k) {
			h.KeyUp(byte(key))
		}
	}
}

func (eo *EbitenOutput) toggleFullscreen() {
	eo.mu.Lock()
	eo.cfg.Fullscreen = !eo.cfg.Fullscreen
	cfg := eo.cfg
	eo.mu.Unlock()
	applyWindowMode(cfg)
}

func (eo *EbitenOutput) toggleStatusBar() {
	eo.mu.Lock()
	eo.statusBar = !eo.statusBar
	eo.mu.Unlock()
}

func (eo *EbitenOutput) copyScreenshotToClipboard() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardErr = clipboard.Init()
	})
	if eo.clipboardErr != nil {
		eo.logger.Warn("Clipboard unavailable", log.Err(eo.clipboardErr))
		return
	}
	snap := eo.GetSnapshot()
	data, err := encodeScreenshotPNG(snap.Buffer, snap.Width, snap.Height, eo.GetDisplayConfig().Scale)
	if err != nil {
		eo.logger.Error("Encoding screenshot failed", log.Err(err))
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
	eo.logger.Info("Screenshot copied to clipboard")
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.mu.Lock()
	if eo.surface == nil {
		eo.surface = ebiten.NewImage(eo.cfg.Width, eo.cfg.Height)
	}
	eo.surface.WritePixels(eo.pixels)
	scale := float64(eo.cfg.Scale)
	statusBar := eo.statusBar
	eo.mu.Unlock()

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(eo.surface, &op)
	if statusBar {
		drawStatusBar(screen, runtimeStatus.snapshot())
	}

	eo.frames.Add(1)
	select {
	case eo.firstDraw <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	cfg := eo.GetDisplayConfig()
	return cfg.Width * cfg.Scale, cfg.Height * cfg.Scale
}

func drawStatusBar(screen *ebiten.Image, s runtimeStatusSnapshot) {
	face := basicfont.Face7x13
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if STATUS_BAR_HEIGHT >= h {
		return
	}
	top := h - STATUS_BAR_HEIGHT
	ebitenutil.DrawRect(screen, 0, float64(top), float64(w), STATUS_BAR_HEIGHT, statusBarBackground)

	baseline := top + 13
	for _, line := range s.lines() {
		text.Draw(screen, line.label, face, 6, baseline, statusLabelColor)
		x := 6 + text.BoundString(face, line.label).Dx() + 6
		for _, tok := range line.tokens {
			c := statusDimColor
			if tok.lit {
				c = statusLitColor
			}
			text.Draw(screen, tok.text, face, x, baseline, c)
			x += text.BoundString(face, tok.text).Dx() + 8
		}
		baseline += 13
	}

	legend := hotkeyLegend()
	x := max(w-text.BoundString(face, legend).Dx()-6, 6)
	text.Draw(screen, legend, face, x, baseline, statusLegendColor)
}
