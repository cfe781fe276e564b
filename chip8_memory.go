// chip8_memory.go - 4KB CHIP-8 address space and return stack

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

// Memory is the flat 4KB CHIP-8 address space. Every access is bounds
// checked; there is no mirroring or wraparound.
type Memory struct {
	data [C8_MEMORY_SIZE]byte
}

func NewMemory() *Memory {
	m := &Memory{}
	m.LoadFont()
	return m
}

func (m *Memory) Read(addr uint16) (byte, error) {
	if int(addr) >= C8_MEMORY_SIZE {
		return 0, newFault(ErrMemoryBounds, int(addr))
	}
	return m.data[addr], nil
}

func (m *Memory) Write(addr uint16, value byte) error {
	if int(addr) >= C8_MEMORY_SIZE {
		return newFault(ErrMemoryBounds, int(addr))
	}
	m.data[addr] = value
	return nil
}

// Read16 fetches a big-endian instruction word.
func (m *Memory) Read16(addr uint16) (uint16, error) {
	if int(addr)+1 >= C8_MEMORY_SIZE {
		return 0, newFault(ErrMemoryBounds, int(addr)+1)
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// Slice returns a copy of n bytes starting at addr.
func (m *Memory) Slice(addr uint16, n int) ([]byte, error) {
	if n < 0 || int(addr)+n > C8_MEMORY_SIZE {
		return nil, newFault(ErrMemoryBounds, int(addr)+n-1)
	}
	out := make([]byte, n)
	copy(out, m.data[addr:int(addr)+n])
	return out, nil
}

// LoadFont seeds the hexadecimal glyphs at C8_FONT_BASE.
func (m *Memory) LoadFont() {
	copy(m.data[C8_FONT_BASE:], c8FontSet[:])
}

// LoadROM places the program verbatim at C8_PROGRAM_START.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) > C8_MAX_ROM_SIZE {
		return newFault(ErrROMTooLarge, len(rom))
	}
	copy(m.data[C8_PROGRAM_START:], rom)
	return nil
}

// Stack holds subroutine return addresses.
type Stack struct {
	entries [C8_STACK_DEPTH]uint16
	depth   int
}

func (s *Stack) Push(addr uint16) error {
	if s.depth == C8_STACK_DEPTH {
		return newFault(ErrStackOverflow, int(addr))
	}
	s.entries[s.depth] = addr
	s.depth++
	return nil
}

// Pop returns the most recent return address. Popping an empty stack is a
// fatal ErrStackUnderflow fault.
func (s *Stack) Pop() (uint16, error) {
	if s.depth == 0 {
		return 0, newFault(ErrStackUnderflow, 0)
	}
	s.depth--
	addr := s.entries[s.depth]
	s.entries[s.depth] = 0
	return addr, nil
}

func (s *Stack) Depth() int {
	return s.depth
}

// Entries returns the live return addresses, oldest first.
func (s *Stack) Entries() []uint16 {
	out := make([]uint16, s.depth)
	copy(out, s.entries[:s.depth])
	return out
}
