//go:build headless

package main

// BeepPlayer without an audio device. The beeper gate still follows the
// sound timer, nothing is pulled from it.
type BeepPlayer struct {
	beeper  *Beeper
	playing bool
}

func NewBeepPlayer(beeper *Beeper) (*BeepPlayer, error) {
	return &BeepPlayer{beeper: beeper}, nil
}

func (bp *BeepPlayer) Play() {
	bp.playing = true
}

func (bp *BeepPlayer) Close() error {
	bp.playing = false
	return nil
}
