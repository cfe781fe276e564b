// component_reset.go - Reset() methods for all machine components (hard reset support)

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

// Memory.Reset zeroes RAM and re-seeds the font.
func (m *Memory) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
	m.LoadFont()
}

// Stack.Reset drops every return address.
func (s *Stack) Reset() {
	for i := range s.entries {
		s.entries[i] = 0
	}
	s.depth = 0
}

// RegisterFile.Reset clears V0-VF and I.
func (r *RegisterFile) Reset() {
	for i := range r.v {
		r.v[i] = 0
	}
	r.i = 0
}

// Timers.Reset stops both countdowns.
func (t *Timers) Reset() {
	t.delay = 0
	t.sound = 0
}

// Display.Reset blanks pixels and phosphor. Unlike Clear, nothing fades.
func (d *Display) Reset() {
	for i := range d.pixels {
		d.pixels[i] = false
		d.phosphor[i] = 0
	}
}

// InputLatch.Reset releases all keys and cancels any key wait.
func (l *InputLatch) Reset() {
	l.down = 0
	l.CancelKeyWait()
}

// Chip8CPU.Reset restores power-on state. The loaded program is lost.
func (c *Chip8CPU) Reset() {
	c.mem.Reset()
	c.stack.Reset()
	c.regs.Reset()
	c.timers.Reset()
	c.display.Reset()
	c.input.Reset()
	c.pc = C8_PROGRAM_START
	c.cycles = 0
}
