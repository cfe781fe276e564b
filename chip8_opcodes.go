// chip8_opcodes.go - CHIP-8 instruction decoder

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
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op tags one of the 35 legal CHIP-8 instruction shapes.
type Op uint8

const (
	OP_INVALID Op = iota
	OP_SYS        // 0NNN  machine routine call (unsupported)
	OP_CLS        // 00E0  clear display
	OP_RET        // 00EE  return
	OP_JP         // 1NNN  PC = NNN
	OP_CALL       // 2NNN  call NNN
	OP_SE_IMM     // 3XNN  skip if Vx == NN
	OP_SNE_IMM    // 4XNN  skip if Vx != NN
	OP_SE_REG     // 5XY0  skip if Vx == Vy
	OP_LD_IMM     // 6XNN  Vx = NN
	OP_ADD_IMM    // 7XNN  Vx += NN, VF untouched
	OP_LD_REG     // 8XY0  Vx = Vy
	OP_OR         // 8XY1  Vx |= Vy
	OP_AND        // 8XY2  Vx &= Vy
	OP_XOR        // 8XY3  Vx ^= Vy
	OP_ADD_REG    // 8XY4  Vx += Vy, VF = carry
	OP_SUB        // 8XY5  Vx -= Vy, VF = no borrow
	OP_SHR        // 8XY6  Vx >>= 1, VF = old bit 0
	OP_SUBN       // 8XY7  Vx = Vy - Vx, VF = no borrow
	OP_SHL        // 8XYE  Vx <<= 1, VF = old bit 7
	OP_SNE_REG    // 9XY0  skip if Vx != Vy
	OP_LD_I       // ANNN  I = NNN
	OP_JP_V0      // BNNN  PC = NNN + V0
	OP_RND        // CXNN  Vx = rand & NN
	OP_DRW        // DXYN  draw N-row sprite at (Vx, Vy)
	OP_SKP        // EX9E  skip if key Vx down
	OP_SKNP       // EXA1  skip if key Vx up
	OP_LD_VX_DT   // FX07  Vx = delay
	OP_LD_VX_K    // FX0A  Vx = key (blocking)
	OP_LD_DT_VX   // FX15  delay = Vx
	OP_LD_ST_VX   // FX18  sound = Vx
	OP_ADD_I      // FX1E  I += Vx
	OP_LD_F       // FX29  I = glyph address of Vx
	OP_LD_B       // FX33  BCD of Vx at I..I+2
	OP_LD_I_VX    // FX55  store V0..Vx at I
	OP_LD_VX_I    // FX65  load V0..Vx from I
)

// C8_NUM_OPS is the number of legal instruction shapes.
const C8_NUM_OPS = int(OP_LD_VX_I)

// sysOpcode is the legacy 0NNN machine call. The shared opcode tables
// leave it out since no modern interpreter runs it.
var sysOpcode = chip8.OpcodeInfo{Value: 0x0000, Mask: 0xF000}

// opcodes binds every Op to its mnemonic and bit pattern.
var opcodes = [...]struct {
	inst *chip8.Instruction
	info chip8.OpcodeInfo
}{
	OP_SYS:      {nil, sysOpcode},
	OP_CLS:      {chip8.ClsInst, chip8.Opcode00E0},
	OP_RET:      {chip8.RetInst, chip8.Opcode00EE},
	OP_JP:       {chip8.JpInst, chip8.Opcode1000},
	OP_CALL:     {chip8.CallInst, chip8.Opcode2000},
	OP_SE_IMM:   {chip8.SeInst, chip8.Opcode3000},
	OP_SNE_IMM:  {chip8.SneInst, chip8.Opcode4000},
	OP_SE_REG:   {chip8.SeInst, chip8.Opcode5000},
	OP_LD_IMM:   {chip8.LdInst, chip8.Opcode6000},
	OP_ADD_IMM:  {chip8.AddInst, chip8.Opcode7000},
	OP_LD_REG:   {chip8.LdInst, chip8.Opcode8000},
	OP_OR:       {chip8.OrInst, chip8.Opcode8001},
	OP_AND:      {chip8.AndInst, chip8.Opcode8002},
	OP_XOR:      {chip8.XorInst, chip8.Opcode8003},
	OP_ADD_REG:  {chip8.AddInst, chip8.Opcode8004},
	OP_SUB:      {chip8.SubInst, chip8.Opcode8005},
	OP_SHR:      {chip8.ShrInst, chip8.Opcode8006},
	OP_SUBN:     {chip8.SubnInst, chip8.Opcode8007},
	OP_SHL:      {chip8.ShlInst, chip8.Opcode800E},
	OP_SNE_REG:  {chip8.SneInst, chip8.Opcode9000},
	OP_LD_I:     {chip8.LdInst, chip8.OpcodeA000},
	OP_JP_V0:    {chip8.JpInst, chip8.OpcodeB000},
	OP_RND:      {chip8.RndInst, chip8.OpcodeC000},
	OP_DRW:      {chip8.DrwInst, chip8.OpcodeD000},
	OP_SKP:      {chip8.SkpInst, chip8.OpcodeE09E},
	OP_SKNP:     {chip8.SknpInst, chip8.OpcodeE0A1},
	OP_LD_VX_DT: {chip8.LdInst, chip8.OpcodeF007},
	OP_LD_VX_K:  {chip8.LdInst, chip8.OpcodeF00A},
	OP_LD_DT_VX: {chip8.LdInst, chip8.OpcodeF015},
	OP_LD_ST_VX: {chip8.LdInst, chip8.OpcodeF018},
	OP_ADD_I:    {chip8.AddInst, chip8.OpcodeF01E},
	OP_LD_F:     {chip8.LdInst, chip8.OpcodeF029},
	OP_LD_B:     {chip8.LdInst, chip8.OpcodeF033},
	OP_LD_I_VX:  {chip8.LdInst, chip8.OpcodeF055},
	OP_LD_VX_I:  {chip8.LdInst, chip8.OpcodeF065},
}

// opByPattern maps an opcode pattern value back to its Op. Pattern values
// are unique across the table.
var opByPattern = func() map[uint16]Op {
	m := make(map[uint16]Op, len(opcodes))
	for op, oc := range opcodes {
		if Op(op) != OP_INVALID && Op(op) != OP_SYS {
			m[oc.info.Value] = Op(op)
		}
	}
	return m
}()

// Name is the upper-case mnemonic.
func (o Op) Name() string {
	switch {
	case o == OP_SYS:
		return "SYS"
	case int(o) < len(opcodes) && opcodes[o].inst != nil:
		return strings.ToUpper(opcodes[o].inst.Name)
	}
	return "???"
}

// Pattern returns the opcode value and the mask of the bits that select o.
func (o Op) Pattern() (value, mask uint16) {
	if int(o) >= len(opcodes) {
		return 0, 0
	}
	return opcodes[o].info.Value, opcodes[o].info.Mask
}

// Instruction is one decoded instruction word. Op selects the variant;
// the operand fields are always populated from the word and each variant
// reads only the ones its shape defines.
type Instruction struct {
	Op  Op
	Raw uint16
	X   uint8  // second nibble
	Y   uint8  // third nibble
	N   uint8  // low nibble
	NN  uint8  // low byte
	NNN uint16 // low 12 bits
}

// Decode classifies a 16-bit word. Every word either yields one of the
// legal instruction shapes or an ErrUnknownOpcode fault.
func Decode(word uint16) (Instruction, error) {
	ins := Instruction{
		Raw: word,
		X:   uint8(word>>8) & 0xF,
		Y:   uint8(word>>4) & 0xF,
		N:   uint8(word) & 0xF,
		NN:  uint8(word),
		NNN: word & C8_ADDRESS_MASK,
	}

	nibble := word >> 12
	for _, oc := range chip8.Opcodes[nibble] {
		if word&oc.Info.Mask == oc.Info.Value {
			ins.Op = opByPattern[oc.Info.Value]
			break
		}
	}
	if ins.Op == OP_INVALID && nibble == 0x0 {
		ins.Op = OP_SYS
	}

	if ins.Op == OP_INVALID {
		return ins, newFault(ErrUnknownOpcode, int(word))
	}
	return ins, nil
}

// String renders the instruction in Cowgod-style assembler syntax.
func (ins Instruction) String() string {
	name := ins.Op.Name()
	switch ins.Op {
	case OP_CLS, OP_RET:
		return name
	case OP_SYS, OP_JP, OP_CALL:
		return fmt.Sprintf("%s $%03X", name, ins.NNN)
	case OP_SE_IMM, OP_SNE_IMM, OP_LD_IMM, OP_ADD_IMM, OP_RND:
		return fmt.Sprintf("%s V%X, $%02X", name, ins.X, ins.NN)
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SUBN:
		return fmt.Sprintf("%s V%X, V%X", name, ins.X, ins.Y)
	case OP_SHR, OP_SHL, OP_SKP, OP_SKNP:
		return fmt.Sprintf("%s V%X", name, ins.X)
	case OP_LD_I:
		return fmt.Sprintf("%s I, $%03X", name, ins.NNN)
	case OP_JP_V0:
		return fmt.Sprintf("%s V0, $%03X", name, ins.NNN)
	case OP_DRW:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, ins.X, ins.Y, ins.N)
	case OP_LD_VX_DT:
		return fmt.Sprintf("%s V%X, DT", name, ins.X)
	case OP_LD_VX_K:
		return fmt.Sprintf("%s V%X, K", name, ins.X)
	case OP_LD_DT_VX:
		return fmt.Sprintf("%s DT, V%X", name, ins.X)
	case OP_LD_ST_VX:
		return fmt.Sprintf("%s ST, V%X", name, ins.X)
	case OP_ADD_I:
		return fmt.Sprintf("%s I, V%X", name, ins.X)
	case OP_LD_F:
		return fmt.Sprintf("%s F, V%X", name, ins.X)
	case OP_LD_B:
		return fmt.Sprintf("%s B, V%X", name, ins.X)
	case OP_LD_I_VX:
		return fmt.Sprintf("%s [I], V%X", name, ins.X)
	case OP_LD_VX_I:
		return fmt.Sprintf("%s V%X, [I]", name, ins.X)
	}
	return fmt.Sprintf("DW $%04X", ins.Raw)
}
