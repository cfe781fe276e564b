// gif_recorder.go - Background GIF recording of the CHIP-8 display

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
	"image"
	"image/color"
	"image/color/palette"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/draw"
)

const (
	RECORDING_BUFFER_SIZE = 30 // frames queued for the encoder before new ones are dropped
)

var ErrAlreadyRecording = errors.New("already recording")

// GIFRecorder hands frames to a worker goroutine through a bounded queue.
// AddFrame never blocks the emulator: when the queue is full the frame is
// dropped. Start, AddFrame and Stop are called from the emulator goroutine.
type GIFRecorder struct {
	settings RecordingSettings
	logger   *log.Logger

	frames  chan []byte
	done    chan struct{}
	err     error // set by the worker before done is closed
	path    string
	offered uint64
	dropped atomic.Uint64
}

func NewGIFRecorder(settings RecordingSettings, logger *log.Logger) *GIFRecorder {
	return &GIFRecorder{
		settings: settings,
		logger:   logger,
	}
}

// GenerateRecordingFilename expands {rom_name} and {timestamp} (unix
// seconds) in pattern and places the result in dir with a .gif suffix.
func GenerateRecordingFilename(romName, dir, pattern string, now time.Time) string {
	name := strings.NewReplacer(
		"{rom_name}", romName,
		"{timestamp}", strconv.FormatInt(now.Unix(), 10),
	).Replace(pattern)
	return filepath.Join(dir, name+".gif")
}

func (r *GIFRecorder) IsRecording() bool {
	return r.frames != nil
}

// Path is the file of the current or most recent recording.
func (r *GIFRecorder) Path() string {
	return r.path
}

// Dropped counts frames discarded because the queue was full.
func (r *GIFRecorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Start creates path and launches the encoder. The file is created up
// front so a bad output directory is reported immediately.
func (r *GIFRecorder) Start(path string) error {
	if r.IsRecording() {
		return ErrAlreadyRecording
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording %s: %w", path, err)
	}

	r.path = path
	r.offered = 0
	r.dropped.Store(0)
	r.err = nil
	r.frames = make(chan []byte, RECORDING_BUFFER_SIZE)
	r.done = make(chan struct{})

	go r.encode(f, r.frames)

	r.logger.Info("Started GIF recording", log.String("file", path))
	return nil
}

// AddFrame offers an RGBA frame. With frame skip N only every (N+1)th
// offered frame is queued. It reports whether the frame was queued.
func (r *GIFRecorder) AddFrame(frame []byte) bool {
	if !r.IsRecording() {
		return false
	}
	r.offered++
	if r.offered%uint64(r.settings.FrameSkip+1) != 0 {
		return false
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)

	select {
	case r.frames <- buf:
		return true
	default:
		r.dropped.Add(1)
		r.logger.Debug("Recording buffer full, skipping frame")
		return false
	}
}

// Stop flushes queued frames, finalises the file and returns the first
// error the encoder hit. Stopping an idle recorder is a no-op.
func (r *GIFRecorder) Stop() error {
	if !r.IsRecording() {
		return nil
	}
	close(r.frames)
	<-r.done
	r.frames = nil

	if r.err != nil {
		return r.err
	}
	r.logger.Info("GIF recording saved",
		log.String("file", r.path),
		log.Int("dropped", int(r.dropped.Load())))
	return nil
}

func (r *GIFRecorder) encode(f *os.File, frames <-chan []byte) {
	defer close(r.done)

	scale := r.settings.Scale
	out := newGIFStream(f)
	var convErr error
	for frame := range frames {
		if convErr != nil {
			continue
		}
		img, err := quantizeFrame(frame, scale)
		if err == nil {
			err = out.WriteFrame(img, r.settings.FrameDelay)
		}
		if err != nil {
			convErr = err
		}
	}
	if convErr != nil {
		f.Close()
		r.err = fmt.Errorf("recording %s: %w", r.path, convErr)
		return
	}
	if out.Frames() == 0 {
		// An empty GIF is not valid; keep a single blank frame.
		blank := image.NewPaletted(
			image.Rect(0, 0, C8_DISPLAY_WIDTH*scale, C8_DISPLAY_HEIGHT*scale),
			color.Palette{color.RGBA{0, 0, 0, 0xFF}})
		if err := out.WriteFrame(blank, r.settings.FrameDelay); err != nil {
			f.Close()
			r.err = fmt.Errorf("encoding %s: %w", r.path, err)
			return
		}
	}

	if err := out.Close(); err != nil {
		f.Close()
		r.err = fmt.Errorf("writing %s: %w", r.path, err)
		return
	}
	if err := f.Close(); err != nil {
		r.err = fmt.Errorf("closing %s: %w", r.path, err)
	}
}

// quantizeFrame scales a CHIP-8 RGBA frame and converts it to a paletted
// image. Phosphor output never has more than 256 colours, so the palette
// is normally exact; anything richer is dithered onto Plan 9.
func quantizeFrame(frame []byte, scale int) (*image.Paletted, error) {
	src, err := scaleFrame(frame, C8_DISPLAY_WIDTH, C8_DISPLAY_HEIGHT, scale)
	if err != nil {
		return nil, err
	}

	index := make(map[color.RGBA]uint8)
	var pal color.Palette
	exact := true
	for i := 0; i < len(frame) && exact; i += 4 {
		c := color.RGBA{frame[i], frame[i+1], frame[i+2], frame[i+3]}
		if _, ok := index[c]; ok {
			continue
		}
		if len(pal) == 256 {
			exact = false
			break
		}
		index[c] = uint8(len(pal))
		pal = append(pal, c)
	}

	if !exact {
		dst := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
		return dst, nil
	}

	dst := image.NewPaletted(src.Bounds(), pal)
	for i, j := 0, 0; i < len(src.Pix); i, j = i+4, j+1 {
		dst.Pix[j] = index[color.RGBA{src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]}]
	}
	return dst, nil
}
