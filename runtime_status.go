package main

import (
	"fmt"
	"sync"
)

// runtimeStatusSnapshot is what the emulator last published for the
// window's status bar.
type runtimeStatusSnapshot struct {
	romName       string
	pc            uint16
	index         uint16
	frame         uint64
	cycles        uint64
	paused        bool
	recording     bool
	soundActive   bool
	waitingForKey bool
}

type runtimeStatusStore struct {
	mu   sync.RWMutex
	last runtimeStatusSnapshot
}

func (s *runtimeStatusStore) setROM(name string) {
	s.mu.Lock()
	s.last.romName = name
	s.mu.Unlock()
}

// publish records machine and host state once per frame.
func (s *runtimeStatusStore) publish(cpu *Chip8CPU, frame uint64, paused, recording bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last.pc = cpu.PC()
	s.last.index = cpu.Registers().I()
	s.last.cycles = cpu.Cycles()
	s.last.soundActive = cpu.Timers().SoundActive()
	s.last.waitingForKey = cpu.WaitingForKey()
	s.last.frame = frame
	s.last.paused = paused
	s.last.recording = recording
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

var runtimeStatus = &runtimeStatusStore{}

type statusToken struct {
	text string
	lit  bool
}

type statusLine struct {
	label  string
	tokens []statusToken
}

var statusSeparator = statusToken{text: "|"}

// lines lays out the two status bar rows. Register values are dimmed
// while paused.
func (s runtimeStatusSnapshot) lines() []statusLine {
	running := !s.paused
	rom := s.romName
	if rom == "" {
		rom = "-"
	}
	return []statusLine{
		{label: "CPU  ", tokens: []statusToken{
			{text: fmt.Sprintf("PC %03X", s.pc), lit: running},
			{text: fmt.Sprintf("I %03X", s.index), lit: running},
			statusSeparator,
			{text: "KEY WAIT", lit: s.waitingForKey},
			statusSeparator,
			{text: "PAUSED", lit: s.paused},
		}},
		{label: "HOST ", tokens: []statusToken{
			{text: rom, lit: true},
			{text: fmt.Sprintf("FRAME %d", s.frame), lit: true},
			statusSeparator,
			{text: "BEEP", lit: s.soundActive},
			statusSeparator,
			{text: "REC", lit: s.recording},
		}},
	}
}
