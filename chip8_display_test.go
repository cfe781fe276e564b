package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func pixelAt(frame []byte, x, y int) []byte {
	o := (y*C8_DISPLAY_WIDTH + x) * C8_BYTES_PER_PIXEL
	return frame[o : o+4]
}

func TestDisplay_DrawXOR(t *testing.T) {
	d := NewDisplay(DefaultPhosphorConfig())
	assert.False(t, d.Draw(0, 0, []byte{0xF0}))
	assert.Equal(t, 4, d.LitCount())

	// Overlap on two pixels: collision, overlapping pixels go dark.
	assert.True(t, d.Draw(2, 0, []byte{0xF0}))
	assert.False(t, d.Pixel(2, 0))
	assert.False(t, d.Pixel(3, 0))
	assert.True(t, d.Pixel(1, 0))
	assert.True(t, d.Pixel(5, 0))
	assert.Equal(t, 4, d.LitCount())
}

func TestDisplay_DrawWraps(t *testing.T) {
	d := NewDisplay(DefaultPhosphorConfig())
	d.Draw(62, 31, []byte{0xC3, 0x81})

	for _, p := range [][2]int{{62, 31}, {63, 31}, {4, 31}, {5, 31}, {62, 0}, {5, 0}} {
		if !d.Pixel(p[0], p[1]) {
			t.Fatalf("pixel (%d,%d) should be lit", p[0], p[1])
		}
	}
	assert.Equal(t, 6, d.LitCount())

	// Start coordinates wrap too.
	d = NewDisplay(DefaultPhosphorConfig())
	d.Draw(64+3, 32+1, []byte{0x80})
	assert.True(t, d.Pixel(3, 1))
}

func TestDisplay_PhosphorDecay(t *testing.T) {
	d := NewDisplay(DefaultPhosphorConfig())
	frame := make([]byte, C8_FRAME_SIZE)

	d.Draw(0, 0, []byte{0x80})
	d.Render(frame)
	assert.Equal(t, []byte{63, 255, 31, 255}, pixelAt(frame, 0, 0), "lit pixels do not decay")
	assert.Equal(t, []byte{0, 0, 0, 255}, pixelAt(frame, 1, 0))

	d.Draw(0, 0, []byte{0x80})
	d.Render(frame)
	assert.Equal(t, byte(240), d.Phosphor(0, 0))
	assert.Equal(t, []byte{60, 240, 30, 255}, pixelAt(frame, 0, 0))

	for i := 0; i < 15; i++ {
		d.Render(frame)
	}
	assert.Equal(t, byte(15), d.Phosphor(0, 0))
	d.Render(frame)
	assert.Equal(t, byte(0), d.Phosphor(0, 0))
	assert.Equal(t, []byte{0, 0, 0, 255}, pixelAt(frame, 0, 0))

	// Further renders stay at zero.
	d.Render(frame)
	assert.Equal(t, byte(0), d.Phosphor(0, 0))
}

func TestDisplay_DecaySaturates(t *testing.T) {
	cfg := DefaultPhosphorConfig()
	cfg.Decay = 100
	d := NewDisplay(cfg)
	frame := make([]byte, C8_FRAME_SIZE)

	d.Draw(0, 0, []byte{0x80})
	d.Clear()
	d.Render(frame)
	d.Render(frame)
	assert.Equal(t, byte(55), d.Phosphor(0, 0))
	d.Render(frame)
	assert.Equal(t, byte(0), d.Phosphor(0, 0))
}

func TestDisplay_ClearKeepsPhosphor(t *testing.T) {
	d := NewDisplay(DefaultPhosphorConfig())
	d.Draw(10, 10, []byte{0x80})
	d.Clear()

	assert.False(t, d.Pixel(10, 10))
	assert.Equal(t, 0, d.LitCount())
	assert.Equal(t, byte(C8_PHOSPHOR_MAX), d.Phosphor(10, 10))
}

func TestDisplay_CustomColours(t *testing.T) {
	cfg := DefaultPhosphorConfig()
	cfg.RedDivisor = 0
	cfg.GreenDivisor = 2
	cfg.BlueDivisor = 1
	cfg.Background = [4]byte{10, 20, 30, 255}
	d := NewDisplay(cfg)
	frame := make([]byte, C8_FRAME_SIZE)

	d.Draw(0, 0, []byte{0x80})
	d.Render(frame)
	assert.Equal(t, []byte{0, 127, 255, 255}, pixelAt(frame, 0, 0))
	assert.Equal(t, []byte{10, 20, 30, 255}, pixelAt(frame, 63, 31))
}

func TestDisplay_ResetBlanksPhosphor(t *testing.T) {
	d := NewDisplay(DefaultPhosphorConfig())
	d.Draw(0, 0, []byte{0xFF})
	d.Reset()
	assert.Equal(t, 0, d.LitCount())
	assert.Equal(t, byte(0), d.Phosphor(0, 0))
}

func TestDisplay_RenderRejectsShortBuffer(t *testing.T) {
	d := NewDisplay(DefaultPhosphorConfig())
	d.Draw(0, 0, []byte{0x80})
	d.Clear()

	err := d.Render(make([]byte, C8_FRAME_SIZE-1))
	assert.ErrorIs(t, err, ErrFrameSize)
	assert.Equal(t, byte(C8_PHOSPHOR_MAX), d.Phosphor(0, 0), "rejected render must not decay")

	assert.NoError(t, d.Render(make([]byte, C8_FRAME_SIZE)))
	assert.Less(t, d.Phosphor(0, 0), byte(C8_PHOSPHOR_MAX))
}
