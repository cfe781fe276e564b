// video_interface.go - Video output and host input interfaces

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
	"time"

	"github.com/retroenv/retrogolib/log"
)

// VideoError is returned by frontends. Err is optional.
type VideoError struct {
	Operation string
	Details   string
	Err       error
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error {
	return e.Err
}

// FrameSnapshot is a copy of the last RGBA frame handed to a backend
type FrameSnapshot struct {
	Buffer    []byte
	Width     int
	Height    int
	Timestamp time.Time
}

// DisplayConfig describes the logical frame and how a frontend presents
// it. Width and Height are in CHIP-8 pixels.
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int // window pixels per CHIP-8 pixel
	RefreshRate int // frames per second
	Fullscreen  bool
}

// VideoOutput is a frontend the emulator pushes RGBA frames into and
// receives input from.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool
	Done() <-chan struct{} // Closed when the user closes the output

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error // RGBA, Width*Height*4 bytes
	GetFrameCount() uint64

	// SetInputHandler routes keypad and hotkey events to the emulator
	SetInputHandler(h InputHandler)
}

// HostAction is a hotkey request from the frontend to the emulator.
type HostAction int

const (
	HOST_ACTION_QUIT HostAction = iota
	HOST_ACTION_PAUSE
	HOST_ACTION_RESET
	HOST_ACTION_SAVE_STATE
	HOST_ACTION_LOAD_STATE
	HOST_ACTION_TOGGLE_RECORDING
)

func (a HostAction) String() string {
	switch a {
	case HOST_ACTION_QUIT:
		return "quit"
	case HOST_ACTION_PAUSE:
		return "pause"
	case HOST_ACTION_RESET:
		return "reset"
	case HOST_ACTION_SAVE_STATE:
		return "save-state"
	case HOST_ACTION_LOAD_STATE:
		return "load-state"
	case HOST_ACTION_TOGGLE_RECORDING:
		return "toggle-recording"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// InputHandler receives frontend input. Backends call it from their own
// goroutine, so implementations must be safe for concurrent use.
type InputHandler interface {
	KeyDown(key byte)
	KeyUp(key byte)
	Action(a HostAction)
}

// Frontend selectors for NewVideoOutput.
const (
	VIDEO_BACKEND_EBITEN   = iota // Pure Go Ebiten backend
	VIDEO_BACKEND_TERMINAL        // Half-block rendering on a raw terminal
)

// NewVideoOutput creates the frontend for backend. Window backends report
// host-side failures through logger.
func NewVideoOutput(backend int, logger *log.Logger) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput(logger)
	case VIDEO_BACKEND_TERMINAL:
		return NewTerminalOutput(), nil
	}
	return nil, &VideoError{
		Operation: "open",
		Details:   fmt.Sprintf("no frontend %d", backend),
	}
}

// ClampScale keeps a window scale factor inside the supported range.
func ClampScale(scale int) int {
	if scale < 1 {
		return 1
	}
	if scale > MAX_WINDOW_SCALE {
		return MAX_WINDOW_SCALE
	}
	return scale
}
