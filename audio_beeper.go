// audio_beeper.go - Square wave beeper gated by the CHIP-8 sound timer

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
	"encoding/binary"
	"math"
	"sync/atomic"
)

const (
	SAMPLE_RATE = 44100
)

// Beeper produces a fixed-pitch square wave while the gate is open. The
// emulator opens the gate whenever the sound timer is non-zero; the audio
// backend pulls samples from its own goroutine.
type Beeper struct {
	gate      atomic.Bool
	amplitude float32
	step      float64 // phase increment per sample, in cycles
	phase     float64 // only touched by the audio goroutine
}

func NewBeeper(frequency, volume float64) *Beeper {
	return &Beeper{
		amplitude: float32(volume),
		step:      frequency / SAMPLE_RATE,
	}
}

// SetActive opens or closes the gate.
func (b *Beeper) SetActive(on bool) {
	b.gate.Store(on)
}

func (b *Beeper) IsActive() bool {
	return b.gate.Load()
}

// ReadSample returns the next sample. A closed gate yields silence and
// restarts the waveform at the top of the next beep.
func (b *Beeper) ReadSample() float32 {
	if !b.gate.Load() {
		b.phase = 0
		return 0
	}
	s := b.amplitude
	if b.phase >= 0.5 {
		s = -s
	}
	b.phase += b.step
	b.phase -= math.Floor(b.phase)
	return s
}

// Fill writes consecutive samples into buf.
func (b *Beeper) Fill(buf []float32) {
	for i := range buf {
		buf[i] = b.ReadSample()
	}
}

// Read encodes samples as little-endian float32, the format the audio
// device is opened with. Only whole samples are written.
func (b *Beeper) Read(p []byte) (int, error) {
	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(b.ReadSample()))
	}
	return n, nil
}
