package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRuntimeStatus_Lines(t *testing.T) {
	s := runtimeStatusSnapshot{
		romName:     "pong.ch8",
		pc:          0x2A4,
		index:       0x30,
		frame:       12,
		paused:      true,
		soundActive: true,
	}
	lines := s.lines()
	assert.Equal(t, 2, len(lines))

	cpu := lines[0].tokens
	assert.Equal(t, statusToken{text: "PC 2A4"}, cpu[0])
	assert.Equal(t, statusToken{text: "I 030"}, cpu[1])
	assert.Equal(t, statusToken{text: "PAUSED", lit: true}, cpu[5])

	host := lines[1].tokens
	assert.Equal(t, statusToken{text: "pong.ch8", lit: true}, host[0])
	assert.Equal(t, statusToken{text: "FRAME 12", lit: true}, host[1])
	assert.Equal(t, statusToken{text: "BEEP", lit: true}, host[3])
	assert.Equal(t, statusToken{text: "REC"}, host[5])
}

func TestRuntimeStatus_UnnamedROM(t *testing.T) {
	lines := runtimeStatusSnapshot{}.lines()
	assert.Equal(t, "-", lines[1].tokens[0].text)
	assert.True(t, lines[0].tokens[0].lit, "registers lit while running")
}
