// debug_disasm_chip8.go - CHIP-8 disassembler for the monitor, trace and -disasm

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
	"io"
)

// DisassembleChip8 decodes count instruction words starting at addr.
// Words that are not legal instructions are rendered as DW data.
func DisassembleChip8(mem []byte, addr uint16, count int) []DisassembledLine {
	lines := make([]DisassembledLine, 0, count)
	for i := 0; i < count; i++ {
		if int(addr)+1 >= len(mem) {
			break
		}
		word := uint16(mem[addr])<<8 | uint16(mem[addr+1])
		mnemonic := fmt.Sprintf("DW $%04X", word)
		if ins, err := Decode(word); err == nil {
			mnemonic = ins.String()
		}
		lines = append(lines, DisassembledLine{
			Address:  uint64(addr),
			HexBytes: fmt.Sprintf("%02X %02X", mem[addr], mem[addr+1]),
			Mnemonic: mnemonic,
			Size:     C8_INSTRUCTION_SIZE,
		})
		addr += C8_INSTRUCTION_SIZE
	}
	return lines
}

// WriteROMListing prints a linear listing of a ROM as loaded at 0x200.
// An odd trailing byte is listed as DB.
func WriteROMListing(w io.Writer, rom []byte) error {
	mem := make([]byte, C8_PROGRAM_START+len(rom))
	copy(mem[C8_PROGRAM_START:], rom)

	for _, line := range DisassembleChip8(mem, C8_PROGRAM_START, len(rom)/2) {
		if _, err := fmt.Fprintf(w, "%03X  %s  %s\n", line.Address, line.HexBytes, line.Mnemonic); err != nil {
			return err
		}
	}
	if len(rom)%2 == 1 {
		last := C8_PROGRAM_START + len(rom) - 1
		if _, err := fmt.Fprintf(w, "%03X  %02X     DB $%02X\n", last, mem[last], mem[last]); err != nil {
			return err
		}
	}
	return nil
}
