// settings.go - TOML settings file for display, audio, timing and recording

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
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DEFAULT_SETTINGS_FILE = "chip8_config.toml"

	DEFAULT_WINDOW_SCALE     = 10
	DEFAULT_BEEP_FREQUENCY   = 440.0
	DEFAULT_BEEP_VOLUME      = 0.05
	DEFAULT_TARGET_FPS       = 60
	DEFAULT_CYCLES_PER_FRAME = 10

	DEFAULT_GIF_SCALE       = 8
	DEFAULT_GIF_FRAME_DELAY = 4 // hundredths of a second
	DEFAULT_GIF_FRAME_SKIP  = 3
	DEFAULT_GIF_OUTPUT_DIR  = "."
	DEFAULT_GIF_FILENAME    = "chip8_{rom_name}_{timestamp}"

	MAX_WINDOW_SCALE      = 32
	MAX_CYCLES_PER_FRAME  = 10000
	MAX_TARGET_FPS        = 1000
	MAX_GIF_SCALE         = 32
	MAX_BEEP_FREQUENCY_HZ = 20000.0
)

// DisplaySettings controls the phosphor compositor and window.
type DisplaySettings struct {
	Scale        int     `toml:"scale"`
	DecayRate    uint8   `toml:"decay_rate"`
	MaxPhosphor  uint8   `toml:"max_phosphor"`
	RedDivisor   uint8   `toml:"red_divisor"`
	GreenDivisor uint8   `toml:"green_divisor"`
	BlueDivisor  uint8   `toml:"blue_divisor"`
	Background   [4]byte `toml:"background"`
}

type AudioSettings struct {
	Enabled   bool    `toml:"enabled"`
	Frequency float64 `toml:"frequency"`
	Volume    float64 `toml:"volume"`
}

type CPUSettings struct {
	TargetFPS      int `toml:"target_fps"`
	CyclesPerFrame int `toml:"cycles_per_frame"`
}

type RecordingSettings struct {
	Scale           int    `toml:"scale"`
	FrameDelay      int    `toml:"frame_delay"`
	FrameSkip       int    `toml:"frame_skip"`
	OutputDir       string `toml:"output_dir"`
	FilenamePattern string `toml:"filename_pattern"`
}

// Settings is the on-disk configuration. Command line flags override it.
type Settings struct {
	Display   DisplaySettings   `toml:"display"`
	Audio     AudioSettings     `toml:"audio"`
	CPU       CPUSettings       `toml:"cpu"`
	Recording RecordingSettings `toml:"recording"`
}

func DefaultSettings() Settings {
	p := DefaultPhosphorConfig()
	return Settings{
		Display: DisplaySettings{
			Scale:        DEFAULT_WINDOW_SCALE,
			DecayRate:    p.Decay,
			MaxPhosphor:  p.Max,
			RedDivisor:   p.RedDivisor,
			GreenDivisor: p.GreenDivisor,
			BlueDivisor:  p.BlueDivisor,
			Background:   p.Background,
		},
		Audio: AudioSettings{
			Enabled:   true,
			Frequency: DEFAULT_BEEP_FREQUENCY,
			Volume:    DEFAULT_BEEP_VOLUME,
		},
		CPU: CPUSettings{
			TargetFPS:      DEFAULT_TARGET_FPS,
			CyclesPerFrame: DEFAULT_CYCLES_PER_FRAME,
		},
		Recording: RecordingSettings{
			Scale:           DEFAULT_GIF_SCALE,
			FrameDelay:      DEFAULT_GIF_FRAME_DELAY,
			FrameSkip:       DEFAULT_GIF_FRAME_SKIP,
			OutputDir:       DEFAULT_GIF_OUTPUT_DIR,
			FilenamePattern: DEFAULT_GIF_FILENAME,
		},
	}
}

// Phosphor converts the display section into the compositor config.
func (s Settings) Phosphor() PhosphorConfig {
	return PhosphorConfig{
		Decay:        s.Display.DecayRate,
		Max:          s.Display.MaxPhosphor,
		RedDivisor:   s.Display.RedDivisor,
		GreenDivisor: s.Display.GreenDivisor,
		BlueDivisor:  s.Display.BlueDivisor,
		Background:   s.Display.Background,
	}
}

// Validate rejects values the frame scheduler or recorder cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.Display.Scale < 1 || s.Display.Scale > MAX_WINDOW_SCALE:
		return fmt.Errorf("display.scale must be 1-%d, got %d", MAX_WINDOW_SCALE, s.Display.Scale)
	case s.CPU.TargetFPS < 1 || s.CPU.TargetFPS > MAX_TARGET_FPS:
		return fmt.Errorf("cpu.target_fps must be 1-%d, got %d", MAX_TARGET_FPS, s.CPU.TargetFPS)
	case s.CPU.CyclesPerFrame < 1 || s.CPU.CyclesPerFrame > MAX_CYCLES_PER_FRAME:
		return fmt.Errorf("cpu.cycles_per_frame must be 1-%d, got %d", MAX_CYCLES_PER_FRAME, s.CPU.CyclesPerFrame)
	case s.Audio.Frequency <= 0 || s.Audio.Frequency > MAX_BEEP_FREQUENCY_HZ:
		return fmt.Errorf("audio.frequency must be in (0, %.0f], got %g", MAX_BEEP_FREQUENCY_HZ, s.Audio.Frequency)
	case s.Audio.Volume < 0 || s.Audio.Volume > 1:
		return fmt.Errorf("audio.volume must be 0-1, got %g", s.Audio.Volume)
	case s.Recording.Scale < 1 || s.Recording.Scale > MAX_GIF_SCALE:
		return fmt.Errorf("recording.scale must be 1-%d, got %d", MAX_GIF_SCALE, s.Recording.Scale)
	case s.Recording.FrameDelay < 0:
		return fmt.Errorf("recording.frame_delay must not be negative, got %d", s.Recording.FrameDelay)
	case s.Recording.FrameSkip < 0:
		return fmt.Errorf("recording.frame_skip must not be negative, got %d", s.Recording.FrameSkip)
	}
	return nil
}

// LoadSettings reads path over the defaults. A missing file is not an
// error and yields the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return s, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return s, fmt.Errorf("unknown settings key %q in %s", undecoded[0].String(), path)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes s as TOML, replacing any existing file.
func SaveSettings(path string, s Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating settings %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("writing settings %s: %w", path, err)
	}
	return f.Close()
}
