//go:build !windows

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

const TERMINAL_POLL_INTERVAL = 5 * time.Millisecond

// TerminalHost puts the controlling terminal into raw mode and pumps stdin
// into a TerminalKeypad until stopped. Only main.go creates one.
type TerminalHost struct {
	keypad *TerminalKeypad
	fd     int
	saved  *term.State
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTerminalHost(keypad *TerminalKeypad) *TerminalHost {
	return &TerminalHost{keypad: keypad, fd: int(os.Stdin.Fd())}
}

// Start switches stdin to raw non-blocking mode. Stop undoes both.
func (h *TerminalHost) Start() error {
	if !term.IsTerminal(h.fd) {
		return errors.New("terminal host: stdin is not a terminal")
	}
	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("terminal host: raw mode: %w", err)
	}
	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, saved)
		return fmt.Errorf("terminal host: nonblocking stdin: %w", err)
	}
	h.saved = saved

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.wg.Add(1)
	go h.pump(ctx)
	return nil
}

// pump polls stdin. Every pass gives the keypad an expiry tick, so held
// keys are released even while nothing is typed.
func (h *TerminalHost) pump(ctx context.Context) {
	defer h.wg.Done()
	buf := make([]byte, 32)
	for ctx.Err() == nil {
		n, err := syscall.Read(h.fd, buf)
		now := time.Now()
		if n > 0 {
			h.keypad.RouteChunk(buf[:n], now)
		}
		h.keypad.Expire(now)

		if err != nil && !wouldBlock(err) {
			return
		}
		if n <= 0 {
			time.Sleep(TERMINAL_POLL_INTERVAL)
		}
	}
}

func wouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EWOULDBLOCK) ||
		errors.Is(err, syscall.EINTR)
}

func (h *TerminalHost) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	h.wg.Wait()
	h.cancel = nil

	h.keypad.ReleaseAll()
	_ = syscall.SetNonblock(h.fd, false)
	_ = term.Restore(h.fd, h.saved)
	h.saved = nil
}
