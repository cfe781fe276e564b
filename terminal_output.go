// terminal_output.go - Half-block rendering of the display on a terminal

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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
)

// TerminalOutput draws each pair of display rows as one line of upper
// half blocks: the foreground colour is the top pixel and the background
// colour the bottom one. It implements VideoOutput for -term runs.
type TerminalOutput struct {
	mutex      sync.Mutex
	w          *bufio.Writer
	fd         int
	started    bool
	config     DisplayConfig
	frameCount uint64
	keypad     *TerminalKeypad
	done       chan struct{}
	doneOnce   sync.Once
}

// NewTerminalOutput creates a terminal renderer writing to stdout
func NewTerminalOutput() *TerminalOutput {
	return newTerminalOutputTo(os.Stdout, int(os.Stdout.Fd()))
}

func newTerminalOutputTo(w io.Writer, fd int) *TerminalOutput {
	return &TerminalOutput{
		w:  bufio.NewWriterSize(w, 64*1024),
		fd: fd,
		config: DisplayConfig{
			Width:       C8_DISPLAY_WIDTH,
			Height:      C8_DISPLAY_HEIGHT,
			Scale:       1,
			RefreshRate: DEFAULT_TARGET_FPS,
		},
		keypad: NewTerminalKeypad(nil),
		done:   make(chan struct{}),
	}
}

// Keypad is the input state machine the terminal host should feed.
func (t *TerminalOutput) Keypad() *TerminalKeypad {
	return t.keypad
}

func (t *TerminalOutput) Start() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.started {
		return nil
	}
	if term.IsTerminal(t.fd) {
		cols, rows, err := term.GetSize(t.fd)
		if err == nil && (cols < C8_DISPLAY_WIDTH || rows < C8_DISPLAY_HEIGHT/2+1) {
			return &VideoError{
				Operation: "start",
				Details:   fmt.Sprintf("terminal is %dx%d, need at least %dx%d", cols, rows, C8_DISPLAY_WIDTH, C8_DISPLAY_HEIGHT/2+1),
			}
		}
	}
	// Clear screen, hide cursor
	t.w.WriteString("\x1b[2J\x1b[?25l")
	t.started = true
	return t.w.Flush()
}

func (t *TerminalOutput) Stop() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.started {
		return nil
	}
	t.started = false
	// Reset colours, show cursor, park below the picture
	fmt.Fprintf(t.w, "\x1b[0m\x1b[?25h\x1b[%d;1H\r\n", C8_DISPLAY_HEIGHT/2+2)
	return t.w.Flush()
}

func (t *TerminalOutput) Close() error {
	err := t.Stop()
	t.doneOnce.Do(func() { close(t.done) })
	return err
}

func (t *TerminalOutput) IsStarted() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.started
}

func (t *TerminalOutput) Done() <-chan struct{} {
	return t.done
}

func (t *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if config.Width != C8_DISPLAY_WIDTH || config.Height != C8_DISPLAY_HEIGHT {
		return &VideoError{
			Operation: "configure",
			Details:   fmt.Sprintf("terminal output is fixed at %dx%d", C8_DISPLAY_WIDTH, C8_DISPLAY_HEIGHT),
		}
	}
	t.config = config
	return nil
}

func (t *TerminalOutput) GetDisplayConfig() DisplayConfig {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.config
}

func (t *TerminalOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&t.frameCount)
}

func (t *TerminalOutput) SetInputHandler(h InputHandler) {
	t.keypad.SetHandler(h)
}

// UpdateFrame redraws the whole picture. Colour escapes are only emitted
// when a cell's colours differ from the previous cell.
func (t *TerminalOutput) UpdateFrame(buffer []byte) error {
	if len(buffer) != C8_FRAME_SIZE {
		return &VideoError{
			Operation: "frame update",
			Details:   fmt.Sprintf("expected %d bytes, got %d", C8_FRAME_SIZE, len(buffer)),
		}
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.started {
		return nil
	}

	t.w.WriteString("\x1b[H")
	var fg, bg [3]byte
	first := true
	for row := 0; row < C8_DISPLAY_HEIGHT; row += 2 {
		for x := 0; x < C8_DISPLAY_WIDTH; x++ {
			top := (row*C8_DISPLAY_WIDTH + x) * C8_BYTES_PER_PIXEL
			bottom := top + C8_DISPLAY_WIDTH*C8_BYTES_PER_PIXEL
			cfg := [3]byte{buffer[top], buffer[top+1], buffer[top+2]}
			cbg := [3]byte{buffer[bottom], buffer[bottom+1], buffer[bottom+2]}
			if first || cfg != fg {
				writeTrueColor(t.w, 38, cfg)
				fg = cfg
			}
			if first || cbg != bg {
				writeTrueColor(t.w, 48, cbg)
				bg = cbg
			}
			first = false
			t.w.WriteString("▀")
		}
		t.w.WriteString("\x1b[0m\r\n")
		first = true
	}
	atomic.AddUint64(&t.frameCount, 1)
	return t.w.Flush()
}

func writeTrueColor(w *bufio.Writer, layer int, c [3]byte) {
	w.WriteString("\x1b[")
	w.WriteString(strconv.Itoa(layer))
	w.WriteString(";2;")
	w.WriteString(strconv.Itoa(int(c[0])))
	w.WriteByte(';')
	w.WriteString(strconv.Itoa(int(c[1])))
	w.WriteByte(';')
	w.WriteString(strconv.Itoa(int(c[2])))
	w.WriteByte('m')
}
