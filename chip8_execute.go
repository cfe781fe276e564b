// chip8_execute.go - CHIP-8 instruction semantics

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

// execute applies one decoded instruction. PC already points past it.
// Arithmetic writes Vx before VF, so VF holds the flag when X is F.
func (c *Chip8CPU) execute(ins Instruction) error {
	r := &c.regs
	x, y := ins.X, ins.Y
	vx, vy := r.v[x], r.v[y]

	switch ins.Op {
	case OP_SYS:
		return newFault(ErrUnsupportedInstruction, int(ins.NNN))

	case OP_CLS:
		c.display.Clear()

	case OP_RET:
		addr, err := c.stack.Pop()
		if err != nil {
			return err
		}
		c.pc = addr

	case OP_JP:
		c.pc = ins.NNN

	case OP_CALL:
		if err := c.stack.Push(c.pc); err != nil {
			return err
		}
		c.pc = ins.NNN

	case OP_SE_IMM:
		c.skipIf(vx == ins.NN)

	case OP_SNE_IMM:
		c.skipIf(vx != ins.NN)

	case OP_SE_REG:
		c.skipIf(vx == vy)

	case OP_SNE_REG:
		c.skipIf(vx != vy)

	case OP_LD_IMM:
		r.v[x] = ins.NN

	case OP_ADD_IMM:
		r.v[x] = vx + ins.NN

	case OP_LD_REG:
		r.v[x] = vy

	case OP_OR:
		r.v[x] = vx | vy

	case OP_AND:
		r.v[x] = vx & vy

	case OP_XOR:
		r.v[x] = vx ^ vy

	case OP_ADD_REG:
		sum := uint16(vx) + uint16(vy)
		r.v[x] = byte(sum)
		r.setFlag(sum > 0xFF)

	case OP_SUB:
		r.v[x] = vx - vy
		r.setFlag(vx >= vy)

	case OP_SUBN:
		r.v[x] = vy - vx
		r.setFlag(vy >= vx)

	case OP_SHR:
		r.v[x] = vx >> 1
		r.setFlag(vx&0x01 != 0)

	case OP_SHL:
		r.v[x] = vx << 1
		r.setFlag(vx&0x80 != 0)

	case OP_LD_I:
		return r.SetI(ins.NNN)

	case OP_JP_V0:
		c.pc = ins.NNN + uint16(r.v[0])

	case OP_RND:
		r.v[x] = c.rng.RandomByte() & ins.NN

	case OP_DRW:
		rows, err := c.mem.Slice(r.i, int(ins.N))
		if err != nil {
			return err
		}
		r.setFlag(c.display.Draw(vx, vy, rows))

	case OP_SKP:
		c.skipIf(c.input.IsPressed(vx & C8_KEY_MASK))

	case OP_SKNP:
		c.skipIf(!c.input.IsPressed(vx & C8_KEY_MASK))

	case OP_LD_VX_DT:
		r.v[x] = c.timers.Delay()

	case OP_LD_VX_K:
		key, ok := c.input.PollKeyWait()
		if !ok {
			// Re-issue this instruction on the next tick.
			c.pc -= C8_INSTRUCTION_SIZE
			return nil
		}
		r.v[x] = key

	case OP_LD_DT_VX:
		c.timers.SetDelay(vx)

	case OP_LD_ST_VX:
		c.timers.SetSound(vx)

	case OP_ADD_I:
		return r.SetI(r.i + uint16(vx))

	case OP_LD_F:
		return r.SetI(C8_FONT_BASE + uint16(vx&C8_KEY_MASK)*C8_FONT_GLYPH_BYTES)

	case OP_LD_B:
		digits := [3]byte{vx / 100, (vx / 10) % 10, vx % 10}
		for i, d := range digits {
			if err := c.mem.Write(r.i+uint16(i), d); err != nil {
				return err
			}
		}

	case OP_LD_I_VX:
		for idx := uint8(0); idx <= x; idx++ {
			if err := c.mem.Write(r.i+uint16(idx), r.v[idx]); err != nil {
				return err
			}
		}

	case OP_LD_VX_I:
		for idx := uint8(0); idx <= x; idx++ {
			b, err := c.mem.Read(r.i + uint16(idx))
			if err != nil {
				return err
			}
			r.v[idx] = b
		}

	default:
		return newFault(ErrUnknownOpcode, int(ins.Raw))
	}
	return nil
}

func (c *Chip8CPU) skipIf(cond bool) {
	if cond {
		c.pc += C8_INSTRUCTION_SIZE
	}
}
