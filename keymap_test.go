package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeymap_Layout(t *testing.T) {
	rows := []string{"1234", "qwer", "asdf", "zxcv"}
	pad := keypadRows
	for r, row := range rows {
		for c, ch := range row {
			key, ok := keypadForRune(ch)
			assert.True(t, ok, string(ch))
			assert.Equal(t, pad[r][c], key, string(ch))
			assert.Equal(t, ch, runeForKeypad(key))
		}
	}
}

func TestKeymap_CaseAndUnmapped(t *testing.T) {
	key, ok := keypadForRune('Q')
	assert.True(t, ok)
	assert.Equal(t, byte(4), key)

	for _, r := range []rune{'p', '5', ' ', 'y', '\x1b'} {
		_, ok := keypadForRune(r)
		assert.False(t, ok, string(r))
	}
}

func TestKeymap_Legend(t *testing.T) {
	assert.Equal(t, "1234/QWER/ASDF/ZXCV = 123C/456D/789E/A0BF", keypadLegend())
}
