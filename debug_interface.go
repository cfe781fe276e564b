// debug_interface.go - Register and disassembly views of the CHIP-8 machine

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
	"fmt"
	"strconv"
	"strings"
)

// RegisterInfo describes a single CPU register for display and snapshots.
type RegisterInfo struct {
	Name     string // "PC", "V3", "I"
	BitWidth int    // 8 or 16
	Value    uint64
	Group    string // "general", "index", "timer", "stack"
}

// DisassembledLine represents one disassembled instruction.
type DisassembledLine struct {
	Address  uint64
	HexBytes string
	Mnemonic string
	Size     int
	IsPC     bool // true if this is the current PC
}

func (c *Chip8CPU) CPUName() string {
	return "CHIP-8"
}

// GetRegisters lists every architectural register, including the stack
// slots as S0..S11 and the stack depth as SP.
func (c *Chip8CPU) GetRegisters() []RegisterInfo {
	regs := make([]RegisterInfo, 0, C8_NUM_REGISTERS+5+C8_STACK_DEPTH)
	for i := 0; i < C8_NUM_REGISTERS; i++ {
		regs = append(regs, RegisterInfo{Name: fmt.Sprintf("V%X", i), BitWidth: 8, Value: uint64(c.regs.v[i]), Group: "general"})
	}
	regs = append(regs,
		RegisterInfo{Name: "I", BitWidth: 16, Value: uint64(c.regs.i), Group: "index"},
		RegisterInfo{Name: "PC", BitWidth: 16, Value: uint64(c.pc), Group: "index"},
		RegisterInfo{Name: "DT", BitWidth: 8, Value: uint64(c.timers.delay), Group: "timer"},
		RegisterInfo{Name: "ST", BitWidth: 8, Value: uint64(c.timers.sound), Group: "timer"},
		RegisterInfo{Name: "SP", BitWidth: 8, Value: uint64(c.stack.depth), Group: "stack"},
	)
	for i := 0; i < C8_STACK_DEPTH; i++ {
		regs = append(regs, RegisterInfo{Name: fmt.Sprintf("S%d", i), BitWidth: 16, Value: uint64(c.stack.entries[i]), Group: "stack"})
	}
	return regs
}

func (c *Chip8CPU) GetRegister(name string) (uint64, bool) {
	name = strings.ToUpper(name)
	for _, r := range c.GetRegisters() {
		if r.Name == name {
			return r.Value, true
		}
	}
	return 0, false
}

// SetRegister writes a register by name. Values are truncated to the
// register width and I is masked to 12 bits. PC must be an even address
// inside memory and SP at most the stack depth; anything else is refused.
func (c *Chip8CPU) SetRegister(name string, value uint64) bool {
	name = strings.ToUpper(name)
	switch {
	case name == "I":
		c.regs.i = uint16(value) & C8_ADDRESS_MASK
	case name == "PC":
		if value > C8_ADDRESS_MASK || value%C8_INSTRUCTION_SIZE != 0 {
			return false
		}
		c.pc = uint16(value)
	case name == "DT":
		c.timers.delay = byte(value)
	case name == "ST":
		c.timers.sound = byte(value)
	case name == "SP":
		if value > C8_STACK_DEPTH {
			return false
		}
		c.stack.depth = int(value)
	case len(name) == 2 && name[0] == 'V':
		idx, err := strconv.ParseUint(name[1:], 16, 8)
		if err != nil {
			return false
		}
		c.regs.v[idx] = byte(value)
	case len(name) >= 2 && name[0] == 'S':
		idx, err := strconv.Atoi(name[1:])
		if err != nil || idx < 0 || idx >= C8_STACK_DEPTH {
			return false
		}
		c.stack.entries[idx] = uint16(value)
	default:
		return false
	}
	return true
}

// ReadMemory returns up to size bytes from addr, clipped at the top of memory.
func (c *Chip8CPU) ReadMemory(addr uint64, size int) []byte {
	if addr >= C8_MEMORY_SIZE || size <= 0 {
		return nil
	}
	end := int(addr) + size
	if end > C8_MEMORY_SIZE {
		end = C8_MEMORY_SIZE
	}
	out := make([]byte, end-int(addr))
	copy(out, c.mem.data[addr:end])
	return out
}

// WriteMemory copies data to addr, dropping bytes past the top of memory.
func (c *Chip8CPU) WriteMemory(addr uint64, data []byte) {
	if addr >= C8_MEMORY_SIZE {
		return
	}
	copy(c.mem.data[addr:], data)
}

func (c *Chip8CPU) Disassemble(addr uint64, count int) []DisassembledLine {
	lines := DisassembleChip8(c.mem.data[:], uint16(addr), count)
	for i := range lines {
		lines[i].IsPC = lines[i].Address == uint64(c.pc)
	}
	return lines
}
