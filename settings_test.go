package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func writeSettingsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DEFAULT_SETTINGS_FILE)
	assert.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestSettings_DefaultsValid(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.Equal(t, DefaultPhosphorConfig(), s.Phosphor())
	assert.Equal(t, 10, s.CPU.CyclesPerFrame)
	assert.Equal(t, 60, s.CPU.TargetFPS)
}

func TestLoadSettings_MissingFileGivesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_PartialOverride(t *testing.T) {
	path := writeSettingsFile(t, `
[display]
decay_rate = 40
background = [16, 16, 32, 255]

[cpu]
cycles_per_frame = 20

[audio]
enabled = false
`)
	s, err := LoadSettings(path)
	assert.NoError(t, err)
	assert.Equal(t, uint8(40), s.Display.DecayRate)
	assert.Equal(t, [4]byte{16, 16, 32, 255}, s.Display.Background)
	assert.Equal(t, 20, s.CPU.CyclesPerFrame)
	assert.False(t, s.Audio.Enabled)

	// untouched keys keep their defaults
	assert.Equal(t, DEFAULT_TARGET_FPS, s.CPU.TargetFPS)
	assert.Equal(t, DEFAULT_WINDOW_SCALE, s.Display.Scale)
	assert.Equal(t, DEFAULT_GIF_FILENAME, s.Recording.FilenamePattern)
}

func TestLoadSettings_UnknownKey(t *testing.T) {
	path := writeSettingsFile(t, "[cpu]\nspeed = 3\n")
	_, err := LoadSettings(path)
	assert.ErrorContains(t, err, fmt.Sprintf("unknown settings key %q in %s", "cpu.speed", path))
}

func TestLoadSettings_InvalidValue(t *testing.T) {
	path := writeSettingsFile(t, "[display]\nscale = 0\n")
	_, err := LoadSettings(path)
	assert.ErrorContains(t, err, fmt.Sprintf("settings %s: display.scale must be 1-32, got 0", path))
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		mutate func(*Settings)
		want   string
	}{
		{func(s *Settings) { s.CPU.CyclesPerFrame = 0 }, "cpu.cycles_per_frame must be 1-10000, got 0"},
		{func(s *Settings) { s.CPU.TargetFPS = 5000 }, "cpu.target_fps must be 1-1000, got 5000"},
		{func(s *Settings) { s.Audio.Volume = 1.5 }, "audio.volume must be 0-1, got 1.5"},
		{func(s *Settings) { s.Audio.Frequency = 0 }, "audio.frequency must be in (0, 20000], got 0"},
		{func(s *Settings) { s.Recording.Scale = 33 }, "recording.scale must be 1-32, got 33"},
		{func(s *Settings) { s.Recording.FrameSkip = -1 }, "recording.frame_skip must not be negative, got -1"},
	}
	for _, tt := range tests {
		s := DefaultSettings()
		tt.mutate(&s)
		assert.ErrorContains(t, s.Validate(), tt.want)
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Display.Scale = 6
	s.Display.Background = [4]byte{1, 2, 3, 255}
	s.Recording.OutputDir = "gifs"
	s.Audio.Volume = 0.25

	path := filepath.Join(t.TempDir(), DEFAULT_SETTINGS_FILE)
	assert.NoError(t, SaveSettings(path, s))

	got, err := LoadSettings(path)
	assert.NoError(t, err)
	assert.Equal(t, s, got)
}
