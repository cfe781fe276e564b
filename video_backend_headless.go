//go:build headless

package main

import (
	"sync"
	"sync/atomic"

	"github.com/retroenv/retrogolib/log"
)

// HeadlessVideoOutput keeps the last frame in memory instead of opening a
// window. It is what -frames runs and CI use.
type HeadlessVideoOutput struct {
	frames  atomic.Uint64
	started atomic.Bool
	done    chan struct{}
	closed  sync.Once

	mu    sync.Mutex
	cfg   DisplayConfig
	last  []byte
	input InputHandler
}

// NewEbitenOutput stands in for the window frontend in headless builds.
func NewEbitenOutput(_ *log.Logger) (VideoOutput, error) {
	return &HeadlessVideoOutput{
		cfg: DisplayConfig{
			Width:       C8_DISPLAY_WIDTH,
			Height:      C8_DISPLAY_HEIGHT,
			Scale:       1,
			RefreshRate: DEFAULT_TARGET_FPS,
		},
		done: make(chan struct{}),
	}, nil
}

func (h *HeadlessVideoOutput) Start() error          { h.started.Store(true); return nil }
func (h *HeadlessVideoOutput) Stop() error           { h.started.Store(false); return nil }
func (h *HeadlessVideoOutput) IsStarted() bool       { return h.started.Load() }
func (h *HeadlessVideoOutput) Done() <-chan struct{} { return h.done }
func (h *HeadlessVideoOutput) GetFrameCount() uint64 { return h.frames.Load() }

// Close also closes Done, as a user closing the window would.
func (h *HeadlessVideoOutput) Close() error {
	h.started.Store(false)
	h.closed.Do(func() { close(h.done) })
	return nil
}

func (h *HeadlessVideoOutput) SetDisplayConfig(cfg DisplayConfig) error {
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	return nil
}

func (h *HeadlessVideoOutput) GetDisplayConfig() DisplayConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg
}

func (h *HeadlessVideoOutput) UpdateFrame(buffer []byte) error {
	h.mu.Lock()
	h.last = append(h.last[:0], buffer...)
	h.mu.Unlock()
	h.frames.Add(1)
	return nil
}

func (h *HeadlessVideoOutput) SetInputHandler(in InputHandler) {
	h.mu.Lock()
	h.input = in
	h.mu.Unlock()
}

// LastFrame returns a copy of the most recent frame.
func (h *HeadlessVideoOutput) LastFrame() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.last...)
}
