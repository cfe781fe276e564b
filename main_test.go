package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags([]string{"games/pong.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "games/pong.ch8", opts.romPath)
	assert.Equal(t, DEFAULT_SETTINGS_FILE, opts.configPath)
	assert.False(t, opts.terminal)
	assert.False(t, opts.debug)
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-scale", "4", "-cycles", "20", "-fps", "30", "-seed", "7",
		"-frames", "100", "-term", "-mute", "-trace", "rom.ch8",
	})
	assert.NoError(t, err)
	assert.True(t, opts.terminal)
	assert.True(t, opts.debug, "-trace implies -debug")
	assert.Equal(t, uint64(100), opts.maxFrames)

	s := DefaultSettings()
	opts.applyTo(&s)
	assert.Equal(t, 4, s.Display.Scale)
	assert.Equal(t, 20, s.CPU.CyclesPerFrame)
	assert.Equal(t, 30, s.CPU.TargetFPS)
	assert.False(t, s.Audio.Enabled)

	a, b := opts.randomSource(), NewSeededRandomSource(7)
	assert.Equal(t, b.RandomByte(), a.RandomByte())
}

func TestParseFlags_ZeroOverridesKeepSettings(t *testing.T) {
	opts, err := parseFlags([]string{"rom.ch8"})
	assert.NoError(t, err)
	s := DefaultSettings()
	opts.applyTo(&s)
	assert.Equal(t, DefaultSettings(), s)
}

func TestParseFlags_NeedsROM(t *testing.T) {
	_, err := parseFlags(nil)
	assert.ErrorContains(t, err, "no ROM file given")

	opts, err := parseFlags([]string{"-version"})
	assert.NoError(t, err)
	assert.True(t, opts.version)

	_, err = parseFlags([]string{"-write-config"})
	assert.NoError(t, err)

	_, err = parseFlags([]string{"-bogus", "rom.ch8"})
	assert.True(t, err != nil)
}

func TestROMName(t *testing.T) {
	assert.Equal(t, "pong", romName("/roms/pong.ch8"))
	assert.Equal(t, "BRIX", romName("BRIX"))
	assert.Equal(t, "space.invaders", romName("space.invaders.c8"))
}
