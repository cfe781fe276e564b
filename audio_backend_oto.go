//go:build !headless

// audio_backend_oto.go - Oto audio output for the beeper

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
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const AUDIO_DEVICE_BUFFER = 40 * time.Millisecond

// BeepPlayer streams a Beeper to the default audio device as mono
// float32. The device pulls samples on its own goroutine; the emulator
// only ever flips the beeper gate.
type BeepPlayer struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	playing bool
}

func NewBeepPlayer(beeper *Beeper) (*BeepPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SAMPLE_RATE,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   AUDIO_DEVICE_BUFFER,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &BeepPlayer{
		ctx:    ctx,
		player: ctx.NewPlayer(beeper),
	}, nil
}

func (bp *BeepPlayer) Play() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.player != nil && !bp.playing {
		bp.player.Play()
		bp.playing = true
	}
}

// Close stops playback and releases the player. The oto context itself
// lives for the rest of the process.
func (bp *BeepPlayer) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.player == nil {
		return nil
	}
	if bp.playing {
		bp.player.Pause()
		bp.playing = false
	}
	err := bp.player.Close()
	bp.player = nil
	return err
}
