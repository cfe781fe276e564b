// chip8_cpu.go - CHIP-8 fetch/decode/execute driver

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
	"math/rand/v2"
)

// RandomSource supplies uniformly distributed bytes for CXNN.
type RandomSource interface {
	RandomByte() byte
}

type pcgRandomSource struct {
	rng *rand.Rand
}

// NewRandomSource returns the default generator, seeded from the runtime.
func NewRandomSource() RandomSource {
	return &pcgRandomSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededRandomSource returns a reproducible generator for scripted runs.
func NewSeededRandomSource(seed uint64) RandomSource {
	return &pcgRandomSource{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (r *pcgRandomSource) RandomByte() byte {
	return byte(r.rng.UintN(256))
}

// TraceFunc observes every decoded instruction before it executes.
type TraceFunc func(pc uint16, ins Instruction)

// Chip8CPU owns the whole machine state. It is single threaded: the host
// calls Tick, TickTimers, Render, Press and Release from one goroutine.
type Chip8CPU struct {
	mem     *Memory
	regs    RegisterFile
	stack   Stack
	timers  Timers
	display *Display
	input   InputLatch
	rng     RandomSource

	pc     uint16
	cycles uint64
	trace  TraceFunc
}

func NewChip8CPU(rng RandomSource, phosphor PhosphorConfig) *Chip8CPU {
	if rng == nil {
		rng = NewRandomSource()
	}
	return &Chip8CPU{
		mem:     NewMemory(),
		display: NewDisplay(phosphor),
		rng:     rng,
		pc:      C8_PROGRAM_START,
	}
}

// LoadROM resets the machine and places the program at 0x200.
func (c *Chip8CPU) LoadROM(rom []byte) error {
	c.Reset()
	return c.mem.LoadROM(rom)
}

func (c *Chip8CPU) SetTrace(fn TraceFunc) {
	c.trace = fn
}

// Tick runs exactly one instruction attempt. A pending FX0A counts as an
// attempt and leaves PC on the same instruction.
func (c *Chip8CPU) Tick() error {
	pc := c.pc
	word, err := c.mem.Read16(pc)
	if err != nil {
		return attachContext(err, pc, 0)
	}
	c.pc += C8_INSTRUCTION_SIZE

	ins, err := Decode(word)
	if err != nil {
		return attachContext(err, pc, word)
	}
	if c.trace != nil {
		c.trace(pc, ins)
	}
	if err := c.execute(ins); err != nil {
		return attachContext(err, pc, word)
	}
	c.cycles++
	return nil
}

// TickTimers is the 60Hz timer cadence, driven by the host independently
// of how many instructions run per frame.
func (c *Chip8CPU) TickTimers() {
	c.timers.Tick()
}

// Render composites the phosphor grid into an RGBA frame.
func (c *Chip8CPU) Render(dst []byte) error {
	return c.display.Render(dst)
}

func (c *Chip8CPU) Press(key byte) {
	c.input.Press(key)
}

func (c *Chip8CPU) Release(key byte) {
	c.input.Release(key)
}

func (c *Chip8CPU) SoundTimer() byte {
	return c.timers.Sound()
}

func (c *Chip8CPU) DelayTimer() byte {
	return c.timers.Delay()
}

func (c *Chip8CPU) PC() uint16 {
	return c.pc
}

func (c *Chip8CPU) SetPC(pc uint16) {
	c.pc = pc
}

func (c *Chip8CPU) Cycles() uint64 {
	return c.cycles
}

func (c *Chip8CPU) Registers() *RegisterFile {
	return &c.regs
}

func (c *Chip8CPU) Memory() *Memory {
	return c.mem
}

func (c *Chip8CPU) Display() *Display {
	return c.display
}

func (c *Chip8CPU) Stack() *Stack {
	return &c.stack
}

func (c *Chip8CPU) Input() *InputLatch {
	return &c.input
}

func (c *Chip8CPU) Timers() *Timers {
	return &c.timers
}

// WaitingForKey reports whether an FX0A is currently pending.
func (c *Chip8CPU) WaitingForKey() bool {
	state, _ := c.input.WaitState()
	return state != KEY_WAIT_IDLE
}
