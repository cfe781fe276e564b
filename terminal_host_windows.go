//go:build windows

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

const TERMINAL_EXPIRE_INTERVAL = 10 * time.Millisecond

// TerminalHost puts the console into raw mode and pumps stdin into a
// TerminalKeypad. Console reads block, so key expiry runs on a separate
// ticker and Stop never waits for the reader.
type TerminalHost struct {
	keypad *TerminalKeypad
	fd     int
	saved  *term.State
	cancel context.CancelFunc
}

func NewTerminalHost(keypad *TerminalKeypad) *TerminalHost {
	return &TerminalHost{keypad: keypad, fd: int(os.Stdin.Fd())}
}

func (h *TerminalHost) Start() error {
	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("terminal host: raw mode: %w", err)
	}
	h.saved = saved

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.expire(ctx)
	go h.pump(ctx)
	return nil
}

func (h *TerminalHost) expire(ctx context.Context) {
	ticker := time.NewTicker(TERMINAL_EXPIRE_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.keypad.Expire(now)
		}
	}
}

func (h *TerminalHost) pump(ctx context.Context) {
	buf := make([]byte, 32)
	for ctx.Err() == nil {
		n, err := os.Stdin.Read(buf)
		if n > 0 && ctx.Err() == nil {
			h.keypad.RouteChunk(buf[:n], time.Now())
		}
		if err != nil {
			return
		}
	}
}

func (h *TerminalHost) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	h.cancel = nil

	h.keypad.ReleaseAll()
	_ = term.Restore(h.fd, h.saved)
	h.saved = nil
}
