// chip8_constants.go - CHIP-8 machine constants and font table

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

const (
	// Memory map
	C8_MEMORY_SIZE   = 0x1000
	C8_ADDRESS_MASK  = 0x0FFF
	C8_FONT_BASE     = 0x050
	C8_PROGRAM_START = 0x200
	C8_MAX_ROM_SIZE  = C8_MEMORY_SIZE - C8_PROGRAM_START

	// Instruction format
	C8_INSTRUCTION_SIZE = 2

	// Register file
	C8_NUM_REGISTERS = 16
	C8_FLAG_REGISTER = 0xF

	// Return stack depth of the original COSMAC VIP interpreter
	C8_STACK_DEPTH = 12

	// Keypad
	C8_NUM_KEYS = 16
	C8_KEY_MASK = 0x0F
)

const (
	C8_DISPLAY_WIDTH   = 64
	C8_DISPLAY_HEIGHT  = 32
	C8_DISPLAY_PIXELS  = C8_DISPLAY_WIDTH * C8_DISPLAY_HEIGHT
	C8_SPRITE_WIDTH    = 8
	C8_BYTES_PER_PIXEL = 4
	C8_FRAME_SIZE      = C8_DISPLAY_PIXELS * C8_BYTES_PER_PIXEL

	// Phosphor defaults
	C8_PHOSPHOR_MAX           = 255
	C8_PHOSPHOR_DECAY         = 15
	C8_PHOSPHOR_RED_DIVISOR   = 4
	C8_PHOSPHOR_GREEN_DIVISOR = 1
	C8_PHOSPHOR_BLUE_DIVISOR  = 8
)

const (
	C8_FONT_GLYPHS      = 16
	C8_FONT_GLYPH_BYTES = 5
)

// c8FontSet holds the 4x5 hexadecimal glyphs 0-F, one byte per row.
var c8FontSet = [C8_FONT_GLYPHS * C8_FONT_GLYPH_BYTES]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
