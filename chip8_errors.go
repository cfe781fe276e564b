// chip8_errors.go - Fatal fault reporting for the CHIP-8 core

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
	"errors"
	"fmt"
)

// Fault kinds. A fault aborts the run; the core never retries one.
var (
	ErrMemoryBounds           = errors.New("memory access out of bounds")
	ErrRegisterIndex          = errors.New("invalid register index")
	ErrAddressRegister        = errors.New("address register out of range")
	ErrUnknownOpcode          = errors.New("unknown opcode")
	ErrStackOverflow          = errors.New("stack overflow")
	ErrStackUnderflow         = errors.New("stack underflow")
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	ErrROMTooLarge            = errors.New("rom does not fit in program memory")
)

// Chip8Fault carries the machine context of a fatal fault.
type Chip8Fault struct {
	Kind   error  // One of the Err* sentinels above
	PC     uint16 // Address of the faulting instruction, when known
	Opcode uint16 // Raw instruction word, when known
	Value  int    // Offending address, index or value
	inCPU  bool   // PC/Opcode have been filled in by the CPU driver
}

func (f *Chip8Fault) Error() string {
	if f.inCPU {
		return fmt.Sprintf("chip8 fault at PC=0x%03X opcode=0x%04X: %v (0x%X)", f.PC, f.Opcode, f.Kind, f.Value)
	}
	return fmt.Sprintf("chip8 fault: %v (0x%X)", f.Kind, f.Value)
}

func (f *Chip8Fault) Unwrap() error {
	return f.Kind
}

func newFault(kind error, value int) *Chip8Fault {
	return &Chip8Fault{Kind: kind, Value: value}
}

// attachContext stamps the instruction context onto a fault raised by a
// component during execution. Non-fault errors pass through unchanged.
func attachContext(err error, pc, opcode uint16) error {
	var fault *Chip8Fault
	if errors.As(err, &fault) && !fault.inCPU {
		fault.PC = pc
		fault.Opcode = opcode
		fault.inCPU = true
	}
	return err
}
