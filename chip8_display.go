// chip8_display.go - 64x32 XOR frame buffer with phosphor persistence

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
	"errors"
	"fmt"
)

var ErrFrameSize = errors.New("frame buffer too small")

// PhosphorConfig controls how phosphor brightness turns into colour.
type PhosphorConfig struct {
	Decay        byte    // Brightness lost per Render call by an unlit pixel
	Max          byte    // Brightness of a freshly lit pixel
	RedDivisor   byte    // Channel = brightness / divisor, 0 disables the channel
	GreenDivisor byte
	BlueDivisor  byte
	Background   [4]byte // RGBA used where phosphor has fully decayed
}

func DefaultPhosphorConfig() PhosphorConfig {
	return PhosphorConfig{
		Decay:        C8_PHOSPHOR_DECAY,
		Max:          C8_PHOSPHOR_MAX,
		RedDivisor:   C8_PHOSPHOR_RED_DIVISOR,
		GreenDivisor: C8_PHOSPHOR_GREEN_DIVISOR,
		BlueDivisor:  C8_PHOSPHOR_BLUE_DIVISOR,
		Background:   [4]byte{0, 0, 0, 255},
	}
}

// Display keeps logical pixel state and a parallel phosphor grid. Only
// Draw and Clear touch logical state; phosphor only affects rendering.
type Display struct {
	pixels   [C8_DISPLAY_PIXELS]bool
	phosphor [C8_DISPLAY_PIXELS]byte
	config   PhosphorConfig
}

func NewDisplay(cfg PhosphorConfig) *Display {
	return &Display{config: cfg}
}

// Draw XORs an 8-pixel-wide sprite onto the screen at (x, y). Coordinates
// wrap on both axes. The result is true if any lit pixel was turned off
// anywhere in the sprite.
func (d *Display) Draw(x, y byte, rows []byte) bool {
	collision := false
	for r, row := range rows {
		py := (int(y) + r) % C8_DISPLAY_HEIGHT
		for c := 0; c < C8_SPRITE_WIDTH; c++ {
			if (row>>(7-c))&1 == 0 {
				continue
			}
			px := (int(x) + c) % C8_DISPLAY_WIDTH
			idx := py*C8_DISPLAY_WIDTH + px
			if d.pixels[idx] {
				collision = true
			}
			d.pixels[idx] = !d.pixels[idx]
			if d.pixels[idx] {
				d.phosphor[idx] = d.config.Max
			}
		}
	}
	return collision
}

// Clear turns every logical pixel off. Phosphor is left alone so cleared
// pixels fade out over the following renders.
func (d *Display) Clear() {
	for i := range d.pixels {
		d.pixels[i] = false
	}
}

// Render decays the phosphor of unlit pixels by one step and then writes
// RGBA colour for every pixel into dst. A dst shorter than C8_FRAME_SIZE
// is rejected before any phosphor state changes.
func (d *Display) Render(dst []byte) error {
	if len(dst) < C8_FRAME_SIZE {
		return fmt.Errorf("%w: %d bytes, want %d", ErrFrameSize, len(dst), C8_FRAME_SIZE)
	}
	cfg := d.config
	for i := 0; i < C8_DISPLAY_PIXELS; i++ {
		if !d.pixels[i] && d.phosphor[i] > 0 {
			if d.phosphor[i] > cfg.Decay {
				d.phosphor[i] -= cfg.Decay
			} else {
				d.phosphor[i] = 0
			}
		}

		o := i * C8_BYTES_PER_PIXEL
		p := d.phosphor[i]
		if p == 0 {
			copy(dst[o:o+4], cfg.Background[:])
			continue
		}
		dst[o] = scaleChannel(p, cfg.RedDivisor)
		dst[o+1] = scaleChannel(p, cfg.GreenDivisor)
		dst[o+2] = scaleChannel(p, cfg.BlueDivisor)
		dst[o+3] = 0xFF
	}
	return nil
}

func scaleChannel(p, divisor byte) byte {
	if divisor == 0 {
		return 0
	}
	return p / divisor
}

func (d *Display) Pixel(x, y int) bool {
	return d.pixels[(y%C8_DISPLAY_HEIGHT)*C8_DISPLAY_WIDTH+(x%C8_DISPLAY_WIDTH)]
}

func (d *Display) Phosphor(x, y int) byte {
	return d.phosphor[(y%C8_DISPLAY_HEIGHT)*C8_DISPLAY_WIDTH+(x%C8_DISPLAY_WIDTH)]
}

// LitCount returns how many logical pixels are on.
func (d *Display) LitCount() int {
	n := 0
	for _, on := range d.pixels {
		if on {
			n++
		}
	}
	return n
}
