package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestInputLatch_PressRelease(t *testing.T) {
	var l InputLatch
	l.Press(0xA)
	l.Press(0x1F) // masked to key F
	assert.True(t, l.IsPressed(0xA))
	assert.True(t, l.IsPressed(0xF))
	assert.Equal(t, uint16(1<<0xA|1<<0xF), l.Down())

	l.Release(0xA)
	assert.False(t, l.IsPressed(0xA))
	l.Release(0xA) // releasing an up key is harmless
	assert.Equal(t, uint16(1<<0xF), l.Down())
}

func TestInputLatch_KeyWaitResolvesOnRelease(t *testing.T) {
	var l InputLatch

	_, ok := l.PollKeyWait()
	assert.False(t, ok)
	state, _ := l.WaitState()
	assert.Equal(t, KEY_WAIT_AWAITING_PRESS, state)

	l.Press(3)
	_, ok = l.PollKeyWait()
	assert.False(t, ok)
	state, key := l.WaitState()
	assert.Equal(t, KEY_WAIT_AWAITING_RELEASE, state)
	assert.Equal(t, byte(3), key)

	_, ok = l.PollKeyWait()
	assert.False(t, ok, "key still held")

	l.Release(3)
	key, ok = l.PollKeyWait()
	assert.True(t, ok)
	assert.Equal(t, byte(3), key)
	state, _ = l.WaitState()
	assert.Equal(t, KEY_WAIT_IDLE, state)
}

func TestInputLatch_PressBeforeWaitIgnored(t *testing.T) {
	var l InputLatch
	l.Press(2)
	l.PollKeyWait()
	l.Release(2)

	_, ok := l.PollKeyWait()
	assert.False(t, ok)
	state, _ := l.WaitState()
	assert.Equal(t, KEY_WAIT_AWAITING_PRESS, state)
}

func TestInputLatch_TapBetweenPolls(t *testing.T) {
	var l InputLatch
	l.PollKeyWait()

	// A full press and release between two ticks still counts.
	l.Press(9)
	l.Release(9)
	_, ok := l.PollKeyWait()
	assert.False(t, ok)
	key, ok := l.PollKeyWait()
	assert.True(t, ok)
	assert.Equal(t, byte(9), key)
}

func TestInputLatch_LowestKeyWins(t *testing.T) {
	var l InputLatch
	l.PollKeyWait()
	l.Press(0xC)
	l.Press(0x4)
	l.PollKeyWait()
	_, key := l.WaitState()
	assert.Equal(t, byte(4), key)
}

func TestInputLatch_Cancel(t *testing.T) {
	var l InputLatch
	l.PollKeyWait()
	l.Press(1)
	l.CancelKeyWait()
	state, _ := l.WaitState()
	assert.Equal(t, KEY_WAIT_IDLE, state)
	assert.True(t, l.IsPressed(1), "cancel leaves held keys alone")
	assert.Equal(t, "idle", state.String())
}
