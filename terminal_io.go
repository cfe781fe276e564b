package main

import (
	"sync"
	"time"
)

const (
	TERM_KEY_HOLD = 150 * time.Millisecond // terminals report no key-up, so presses expire

	TERM_CTRL_C = 0x03
	TERM_CTRL_E = 0x05
	TERM_CTRL_L = 0x0C
	TERM_CTRL_R = 0x12
	TERM_CTRL_S = 0x13
	TERM_ESC    = 0x1B
)

// TerminalKeypad is a pure state machine that turns raw terminal input
// into keypad edges and host actions. Tests feed it bytes and a clock; the
// host adapter (TerminalHost) feeds it stdin.
//
// A terminal only reports characters, so a press is synthesised as
// KeyDown followed by KeyUp once no repeat of that key has arrived for
// TERM_KEY_HOLD.
type TerminalKeypad struct {
	mu       sync.Mutex
	handler  InputHandler
	hold     time.Duration
	deadline [C8_NUM_KEYS]time.Time // zero when the key is up
}

func NewTerminalKeypad(handler InputHandler) *TerminalKeypad {
	return &TerminalKeypad{
		handler: handler,
		hold:    TERM_KEY_HOLD,
	}
}

func (tk *TerminalKeypad) SetHandler(h InputHandler) {
	tk.mu.Lock()
	tk.handler = h
	tk.mu.Unlock()
}

// RouteChunk handles one read from the terminal. A lone ESC quits, while
// ESC followed by more bytes is an escape sequence and is ignored.
func (tk *TerminalKeypad) RouteChunk(chunk []byte, now time.Time) {
	if len(chunk) > 1 && chunk[0] == TERM_ESC {
		return
	}
	for _, b := range chunk {
		tk.RouteHostKey(b, now)
	}
}

// RouteHostKey handles a single byte.
func (tk *TerminalKeypad) RouteHostKey(b byte, now time.Time) {
	tk.mu.Lock()
	h := tk.handler
	if h == nil {
		tk.mu.Unlock()
		return
	}

	switch b {
	case TERM_ESC, TERM_CTRL_C:
		tk.mu.Unlock()
		h.Action(HOST_ACTION_QUIT)
		return
	case TERM_CTRL_E:
		tk.mu.Unlock()
		h.Action(HOST_ACTION_RESET)
		return
	case TERM_CTRL_L:
		tk.mu.Unlock()
		h.Action(HOST_ACTION_LOAD_STATE)
		return
	case TERM_CTRL_R:
		tk.mu.Unlock()
		h.Action(HOST_ACTION_TOGGLE_RECORDING)
		return
	case TERM_CTRL_S:
		tk.mu.Unlock()
		h.Action(HOST_ACTION_SAVE_STATE)
		return
	case 'p', 'P':
		tk.mu.Unlock()
		h.Action(HOST_ACTION_PAUSE)
		return
	}

	key, ok := keypadForRune(rune(b))
	if !ok {
		tk.mu.Unlock()
		return
	}
	wasDown := !tk.deadline[key].IsZero()
	tk.deadline[key] = now.Add(tk.hold)
	tk.mu.Unlock()

	if !wasDown {
		h.KeyDown(key)
	}
}

// Expire releases every key whose hold time has run out.
func (tk *TerminalKeypad) Expire(now time.Time) {
	tk.mu.Lock()
	h := tk.handler
	var released []byte
	for key, d := range tk.deadline {
		if !d.IsZero() && !now.Before(d) {
			tk.deadline[key] = time.Time{}
			released = append(released, byte(key))
		}
	}
	tk.mu.Unlock()

	if h == nil {
		return
	}
	for _, key := range released {
		h.KeyUp(key)
	}
}

// ReleaseAll lifts every held key, used when the host stops.
func (tk *TerminalKeypad) ReleaseAll() {
	tk.mu.Lock()
	h := tk.handler
	var released []byte
	for key, d := range tk.deadline {
		if !d.IsZero() {
			tk.deadline[key] = time.Time{}
			released = append(released, byte(key))
		}
	}
	tk.mu.Unlock()

	if h == nil {
		return
	}
	for _, key := range released {
		h.KeyUp(key)
	}
}

// Held reports whether key is currently considered down.
func (tk *TerminalKeypad) Held(key byte) bool {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return !tk.deadline[key&C8_KEY_MASK].IsZero()
}
