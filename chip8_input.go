// chip8_input.go - Hex keypad latch and FX0A key-wait state machine

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

// KeyWaitState is the phase of a pending FX0A instruction.
type KeyWaitState int

const (
	KEY_WAIT_IDLE KeyWaitState = iota
	KEY_WAIT_AWAITING_PRESS
	KEY_WAIT_AWAITING_RELEASE
)

func (s KeyWaitState) String() string {
	switch s {
	case KEY_WAIT_IDLE:
		return "idle"
	case KEY_WAIT_AWAITING_PRESS:
		return "awaiting-press"
	case KEY_WAIT_AWAITING_RELEASE:
		return "awaiting-release"
	}
	return "unknown"
}

// InputLatch tracks which keypad keys are down. Press and Release update
// the pressed set at any time; the key-wait machine only moves when the
// CPU polls it, once per tick.
//
// A wait resolves when a key pressed after the wait began is released,
// matching the COSMAC VIP behaviour that ROMs expect.
type InputLatch struct {
	down      uint16 // bit k set while key k is held
	pressed   uint16 // press edges since the last poll
	waitState KeyWaitState
	waitKey   byte
}

func (l *InputLatch) Press(key byte) {
	bit := uint16(1) << (key & C8_KEY_MASK)
	l.down |= bit
	l.pressed |= bit
}

func (l *InputLatch) Release(key byte) {
	l.down &^= uint16(1) << (key & C8_KEY_MASK)
}

func (l *InputLatch) IsPressed(key byte) bool {
	return l.down&(uint16(1)<<(key&C8_KEY_MASK)) != 0
}

// Down returns the pressed set as a bitmask, bit k for key k.
func (l *InputLatch) Down() uint16 {
	return l.down
}

func (l *InputLatch) WaitState() (KeyWaitState, byte) {
	return l.waitState, l.waitKey
}

// PollKeyWait advances the wait machine by one step and reports the
// resolved key once the wait completes.
func (l *InputLatch) PollKeyWait() (byte, bool) {
	edges := l.pressed
	l.pressed = 0

	switch l.waitState {
	case KEY_WAIT_IDLE:
		// Presses that happened before the wait began do not count.
		l.waitState = KEY_WAIT_AWAITING_PRESS
		return 0, false

	case KEY_WAIT_AWAITING_PRESS:
		if edges == 0 {
			return 0, false
		}
		l.waitKey = lowestKey(edges)
		l.waitState = KEY_WAIT_AWAITING_RELEASE
		return 0, false

	case KEY_WAIT_AWAITING_RELEASE:
		if l.IsPressed(l.waitKey) {
			return 0, false
		}
		key := l.waitKey
		l.waitState = KEY_WAIT_IDLE
		l.waitKey = 0
		return key, true
	}
	return 0, false
}

// CancelKeyWait drops any pending wait, used on machine reset.
func (l *InputLatch) CancelKeyWait() {
	l.waitState = KEY_WAIT_IDLE
	l.waitKey = 0
	l.pressed = 0
}

func lowestKey(mask uint16) byte {
	for k := byte(0); k < C8_NUM_KEYS; k++ {
		if mask&(1<<k) != 0 {
			return k
		}
	}
	return 0
}
