package main

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type fixedRandom byte

func (f fixedRandom) RandomByte() byte {
	return byte(f)
}

func wordsToROM(words ...uint16) []byte {
	rom := make([]byte, 0, len(words)*2)
	for _, w := range words {
		rom = append(rom, byte(w>>8), byte(w))
	}
	return rom
}

func newTestCPU(t *testing.T, words ...uint16) *Chip8CPU {
	t.Helper()
	cpu := NewChip8CPU(fixedRandom(0xAB), DefaultPhosphorConfig())
	assert.NoError(t, cpu.LoadROM(wordsToROM(words...)))
	return cpu
}

func step(t *testing.T, cpu *Chip8CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := cpu.Tick(); err != nil {
			t.Fatalf("tick %d at PC=0x%03X: %v", i, cpu.PC(), err)
		}
	}
}

func faultOf(t *testing.T, err error) *Chip8Fault {
	t.Helper()
	var fault *Chip8Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected *Chip8Fault, got %T: %v", err, err)
	}
	return fault
}

func TestChip8_PowerOnState(t *testing.T) {
	cpu := newTestCPU(t)
	assert.Equal(t, uint16(C8_PROGRAM_START), cpu.PC())
	assert.Equal(t, uint16(0), cpu.Registers().I())
	assert.Equal(t, 0, cpu.Stack().Depth())
	assert.Equal(t, uint64(0), cpu.Cycles())
	assert.False(t, cpu.WaitingForKey())
}

func TestChip8_LoadAndAddImmediate(t *testing.T) {
	cpu := newTestCPU(t, 0x6F55, 0x6AFE, 0x7A03)
	step(t, cpu, 3)

	va, _ := cpu.Registers().V(0xA)
	vf, _ := cpu.Registers().V(0xF)
	assert.Equal(t, byte(0x01), va, "7XNN wraps modulo 256")
	assert.Equal(t, byte(0x55), vf, "7XNN never touches VF")
}

func TestChip8_AddRegisterCarry(t *testing.T) {
	tests := []struct {
		vx, vy, want, flag byte
	}{
		{0x10, 0x20, 0x30, 0},
		{0xFF, 0x01, 0x00, 1},
		{0x80, 0x80, 0x00, 1},
		{0xFF, 0xFF, 0xFE, 1},
		{0x00, 0x00, 0x00, 0},
	}
	for _, tt := range tests {
		cpu := newTestCPU(t, 0x6000|uint16(tt.vx), 0x6100|uint16(tt.vy), 0x8014)
		step(t, cpu, 3)
		v0, _ := cpu.Registers().V(0)
		vf, _ := cpu.Registers().V(0xF)
		if v0 != tt.want || vf != tt.flag {
			t.Fatalf("0x%02X+0x%02X: got V0=0x%02X VF=%d, want V0=0x%02X VF=%d", tt.vx, tt.vy, v0, vf, tt.want, tt.flag)
		}
	}
}

func TestChip8_SubtractBorrow(t *testing.T) {
	tests := []struct {
		vx, vy, want, flag byte
	}{
		{5, 3, 2, 1},
		{3, 5, 0xFE, 0},
		{7, 7, 0, 1},
		{0, 0xFF, 0x01, 0},
	}
	for _, tt := range tests {
		cpu := newTestCPU(t, 0x6000|uint16(tt.vx), 0x6100|uint16(tt.vy), 0x8015)
		step(t, cpu, 3)
		v0, _ := cpu.Registers().V(0)
		vf, _ := cpu.Registers().V(0xF)
		if v0 != tt.want || vf != tt.flag {
			t.Fatalf("0x%02X-0x%02X: got V0=0x%02X VF=%d, want V0=0x%02X VF=%d", tt.vx, tt.vy, v0, vf, tt.want, tt.flag)
		}
	}
}

func TestChip8_AddSubtractAllOperands(t *testing.T) {
	cpu := newTestCPU(t, 0x8014, 0x8015)
	regs := cpu.Registers()
	exec := func(pc uint16, vx, vy byte) (byte, byte) {
		assert.NoError(t, regs.SetV(0, vx))
		assert.NoError(t, regs.SetV(1, vy))
		cpu.SetPC(pc)
		if err := cpu.Tick(); err != nil {
			t.Fatalf("PC=0x%03X V0=0x%02X V1=0x%02X: %v", pc, vx, vy, err)
		}
		v0, _ := regs.V(0)
		vf, _ := regs.V(0xF)
		return v0, vf
	}

	for x := 0; x < 256; x++ {
		for y := 0; y < 256; y++ {
			vx, vy := byte(x), byte(y)

			sum, carry := exec(C8_PROGRAM_START, vx, vy)
			wantCarry := byte(0)
			if x+y > 0xFF {
				wantCarry = 1
			}
			if sum != vx+vy || carry != wantCarry {
				t.Fatalf("0x%02X+0x%02X: got 0x%02X VF=%d", vx, vy, sum, carry)
			}

			diff, noBorrow := exec(C8_PROGRAM_START+2, vx, vy)
			wantNoBorrow := byte(0)
			if x >= y {
				wantNoBorrow = 1
			}
			if diff != vx-vy || noBorrow != wantNoBorrow {
				t.Fatalf("0x%02X-0x%02X: got 0x%02X VF=%d", vx, vy, diff, noBorrow)
			}
		}
	}
}

func TestChip8_SubtractNegated(t *testing.T) {
	tests := []struct {
		vx, vy, want, flag byte
	}{
		{3, 5, 2, 1},
		{5, 3, 0xFE, 0},
		{9, 9, 0, 1},
	}
	for _, tt := range tests {
		cpu := newTestCPU(t, 0x6000|uint16(tt.vx), 0x6100|uint16(tt.vy), 0x8017)
		step(t, cpu, 3)
		v0, _ := cpu.Registers().V(0)
		vf, _ := cpu.Registers().V(0xF)
		if v0 != tt.want || vf != tt.flag {
			t.Fatalf("0x%02X=-0x%02X: got V0=0x%02X VF=%d, want V0=0x%02X VF=%d", tt.vx, tt.vy, v0, vf, tt.want, tt.flag)
		}
	}
}

func TestChip8_ShiftsUseVx(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		vx   byte
		want byte
		flag byte
	}{
		{"SHR odd", 0x8016, 0x05, 0x02, 1},
		{"SHR even", 0x8016, 0x04, 0x02, 0},
		{"SHL high", 0x801E, 0x81, 0x02, 1},
		{"SHL low", 0x801E, 0x40, 0x80, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// V1 is deliberately different so a Vy-based shift would show.
			cpu := newTestCPU(t, 0x6000|uint16(tt.vx), 0x61FF, tt.op)
			step(t, cpu, 3)
			v0, _ := cpu.Registers().V(0)
			vf, _ := cpu.Registers().V(0xF)
			v1, _ := cpu.Registers().V(1)
			assert.Equal(t, tt.want, v0)
			assert.Equal(t, tt.flag, vf)
			assert.Equal(t, byte(0xFF), v1)
		})
	}
}

func TestChip8_FlagWinsWhenTargetIsVF(t *testing.T) {
	cpu := newTestCPU(t, 0x6FFF, 0x6101, 0x8F14)
	step(t, cpu, 3)
	vf, _ := cpu.Registers().V(0xF)
	assert.Equal(t, byte(1), vf, "carry flag overwrites the sum")

	cpu = newTestCPU(t, 0x6F01, 0x6102, 0x8F15)
	step(t, cpu, 3)
	vf, _ = cpu.Registers().V(0xF)
	assert.Equal(t, byte(0), vf, "borrow flag overwrites the difference")
}

func TestChip8_LogicLeavesVF(t *testing.T) {
	cpu := newTestCPU(t, 0x6F07, 0x6012, 0x6134, 0x8011, 0x6256, 0x8212, 0x6378, 0x8313)
	step(t, cpu, 8)
	r := cpu.Registers()
	v0, _ := r.V(0)
	v2, _ := r.V(2)
	v3, _ := r.V(3)
	vf, _ := r.V(0xF)
	assert.Equal(t, byte(0x36), v0)
	assert.Equal(t, byte(0x56&0x34), v2)
	assert.Equal(t, byte(0x78^0x34), v3)
	assert.Equal(t, byte(0x07), vf)
}

func TestChip8_CallAndReturn(t *testing.T) {
	cpu := newTestCPU(t, 0x2206, 0x1202, 0x0000, 0x00EE)
	step(t, cpu, 1)
	assert.Equal(t, uint16(0x206), cpu.PC())
	assert.Equal(t, []uint16{0x202}, cpu.Stack().Entries())

	step(t, cpu, 1)
	assert.Equal(t, uint16(0x202), cpu.PC())
	assert.Equal(t, 0, cpu.Stack().Depth())
}

func TestChip8_ReturnOnEmptyStackFaults(t *testing.T) {
	cpu := newTestCPU(t, 0x00EE)
	err := cpu.Tick()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	fault := faultOf(t, err)
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0x00EE), fault.Opcode)
}

func TestChip8_StackOverflowAfterTwelveCalls(t *testing.T) {
	cpu := newTestCPU(t, 0x2200)
	step(t, cpu, C8_STACK_DEPTH)
	assert.Equal(t, C8_STACK_DEPTH, cpu.Stack().Depth())

	err := cpu.Tick()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestChip8_UnknownAndUnsupportedOpcodes(t *testing.T) {
	cpu := newTestCPU(t, 0x5121)
	err := cpu.Tick()
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, uint16(0x200), faultOf(t, err).PC)

	cpu = newTestCPU(t, 0x0123)
	err = cpu.Tick()
	assert.True(t, errors.Is(err, ErrUnsupportedInstruction))
	assert.Equal(t, 0x123, faultOf(t, err).Value)
}

func TestChip8_FetchPastEndOfMemoryFaults(t *testing.T) {
	cpu := newTestCPU(t)
	cpu.SetPC(0xFFF)
	err := cpu.Tick()
	assert.True(t, errors.Is(err, ErrMemoryBounds))
}

func TestChip8_SkipInstructions(t *testing.T) {
	tests := []struct {
		name  string
		words []uint16
		skip  bool
	}{
		{"3XNN equal", []uint16{0x6005, 0x3005}, true},
		{"3XNN differ", []uint16{0x6005, 0x3006}, false},
		{"4XNN differ", []uint16{0x6005, 0x4006}, true},
		{"5XY0 differ", []uint16{0x6005, 0x5010}, false},
		{"9XY0 differ", []uint16{0x6005, 0x9010}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := newTestCPU(t, tt.words...)
			step(t, cpu, 2)
			want := uint16(0x204)
			if tt.skip {
				want = 0x206
			}
			assert.Equal(t, want, cpu.PC())
		})
	}
}

func TestChip8_KeySkips(t *testing.T) {
	prog := []uint16{0x6005, 0xE09E, 0x6111, 0x6222}

	cpu := newTestCPU(t, prog...)
	cpu.Press(5)
	step(t, cpu, 3)
	v1, _ := cpu.Registers().V(1)
	assert.Equal(t, byte(0), v1, "EX9E skips when the key is down")

	cpu = newTestCPU(t, prog...)
	step(t, cpu, 3)
	v1, _ = cpu.Registers().V(1)
	assert.Equal(t, byte(0x11), v1)

	// EXA1 only looks at the low nibble of Vx
	cpu = newTestCPU(t, 0x60F5, 0xE0A1, 0x6111)
	cpu.Press(5)
	step(t, cpu, 3)
	v1, _ = cpu.Registers().V(1)
	assert.Equal(t, byte(0x11), v1)
}

func TestChip8_JumpWithOffsetAndRandom(t *testing.T) {
	cpu := newTestCPU(t, 0x6004, 0xB300)
	step(t, cpu, 2)
	assert.Equal(t, uint16(0x304), cpu.PC())

	cpu = newTestCPU(t, 0xC00F)
	step(t, cpu, 1)
	v0, _ := cpu.Registers().V(0)
	assert.Equal(t, byte(0x0B), v0, "CXNN masks the random byte")
}

func TestChip8_BCD(t *testing.T) {
	for _, tt := range []struct {
		value  byte
		digits []byte
	}{
		{254, []byte{2, 5, 4}},
		{0, []byte{0, 0, 0}},
		{9, []byte{0, 0, 9}},
		{100, []byte{1, 0, 0}},
	} {
		cpu := newTestCPU(t, 0x6000|uint16(tt.value), 0xA300, 0xF033)
		step(t, cpu, 3)
		got, err := cpu.Memory().Slice(0x300, 3)
		assert.NoError(t, err)
		assert.Equal(t, tt.digits, got)
		assert.Equal(t, uint16(0x300), cpu.Registers().I())
	}
}

func TestChip8_FontAddress(t *testing.T) {
	cpu := newTestCPU(t, 0x600A, 0xF029)
	step(t, cpu, 2)
	assert.Equal(t, uint16(C8_FONT_BASE+10*C8_FONT_GLYPH_BYTES), cpu.Registers().I())

	glyph, err := cpu.Memory().Slice(cpu.Registers().I(), C8_FONT_GLYPH_BYTES)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x90, 0xF0, 0x90, 0x90}, glyph)
}

func TestChip8_StoreAndLoadRegisters(t *testing.T) {
	cpu := newTestCPU(t,
		0x6011, 0x6122, 0x6233, 0xA300, 0xF255,
		0x6000, 0x6100, 0x6200, 0xF265,
	)
	step(t, cpu, 5)
	stored, _ := cpu.Memory().Slice(0x300, 4)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x00}, stored, "FX55 stores V0..VX inclusive")
	assert.Equal(t, uint16(0x300), cpu.Registers().I(), "I is unchanged")

	step(t, cpu, 4)
	for x, want := range []byte{0x11, 0x22, 0x33} {
		v, _ := cpu.Registers().V(uint8(x))
		assert.Equal(t, want, v)
	}
}

func TestChip8_AddToIndex(t *testing.T) {
	cpu := newTestCPU(t, 0xA100, 0x6010, 0xF01E)
	step(t, cpu, 3)
	assert.Equal(t, uint16(0x110), cpu.Registers().I())

	cpu = newTestCPU(t, 0xAFFF, 0x6001, 0xF01E)
	step(t, cpu, 2)
	err := cpu.Tick()
	assert.True(t, errors.Is(err, ErrAddressRegister))
	fault := faultOf(t, err)
	assert.Equal(t, uint16(0x204), fault.PC)
	assert.Equal(t, uint16(0xF01E), fault.Opcode)
}

func TestChip8_DrawCollision(t *testing.T) {
	cpu := newTestCPU(t, 0x6000, 0x6100, 0xA300, 0xD011, 0xD011)
	assert.NoError(t, cpu.Memory().Write(0x300, 0xFF))

	step(t, cpu, 4)
	vf, _ := cpu.Registers().V(0xF)
	assert.Equal(t, byte(0), vf)
	assert.Equal(t, 8, cpu.Display().LitCount())

	step(t, cpu, 1)
	vf, _ = cpu.Registers().V(0xF)
	assert.Equal(t, byte(1), vf)
	assert.Equal(t, 0, cpu.Display().LitCount())
}

func TestChip8_DrawZeroRows(t *testing.T) {
	cpu := newTestCPU(t, 0x6F01, 0xA300, 0xD010)
	step(t, cpu, 3)
	vf, _ := cpu.Registers().V(0xF)
	assert.Equal(t, byte(0), vf)
	assert.Equal(t, 0, cpu.Display().LitCount())
}

func TestChip8_DrawPastEndOfMemoryFaults(t *testing.T) {
	cpu := newTestCPU(t, 0xAFFE, 0xD00F)
	step(t, cpu, 1)
	err := cpu.Tick()
	assert.True(t, errors.Is(err, ErrMemoryBounds))
}

func TestChip8_Timers(t *testing.T) {
	cpu := newTestCPU(t, 0x6A3C, 0xFA15, 0xFB07, 0x6A02, 0xFA18)
	step(t, cpu, 3)
	vb, _ := cpu.Registers().V(0xB)
	assert.Equal(t, byte(0x3C), vb)

	cpu.TickTimers()
	assert.Equal(t, byte(0x3B), cpu.DelayTimer())

	step(t, cpu, 2)
	assert.True(t, cpu.Timers().SoundActive())
	cpu.TickTimers()
	cpu.TickTimers()
	cpu.TickTimers()
	assert.Equal(t, byte(0), cpu.SoundTimer(), "timers stop at zero")
	assert.False(t, cpu.Timers().SoundActive())
}

func TestChip8_DelayReachesZeroAfterExactTicks(t *testing.T) {
	cpu := newTestCPU(t, 0x6A05, 0xFA15)
	step(t, cpu, 2)
	assert.Equal(t, byte(5), cpu.DelayTimer())

	for i := 1; i <= 5; i++ {
		assert.NotEqual(t, byte(0), cpu.DelayTimer(), "zero before tick %d", i)
		cpu.TickTimers()
		assert.Equal(t, byte(5-i), cpu.DelayTimer())
	}
	cpu.TickTimers()
	assert.Equal(t, byte(0), cpu.DelayTimer())
}

func TestChip8_KeyWaitThroughTick(t *testing.T) {
	cpu := newTestCPU(t, 0x6A10, 0xFA15, 0xF10A, 0x1206)
	step(t, cpu, 2)

	// Held before the wait began: does not satisfy it.
	cpu.Press(5)
	step(t, cpu, 1)
	assert.Equal(t, uint16(0x204), cpu.PC())
	assert.True(t, cpu.WaitingForKey())

	step(t, cpu, 1)
	assert.Equal(t, uint16(0x204), cpu.PC())

	cpu.Release(5)
	cpu.Press(7)
	step(t, cpu, 1)
	state, key := cpu.Input().WaitState()
	assert.Equal(t, KEY_WAIT_AWAITING_RELEASE, state)
	assert.Equal(t, byte(7), key)

	// Timers keep running while the CPU is parked.
	cpu.TickTimers()
	cpu.TickTimers()
	assert.Equal(t, byte(0x0E), cpu.DelayTimer())

	step(t, cpu, 1)
	assert.Equal(t, uint16(0x204), cpu.PC(), "still held")

	cpu.Release(7)
	step(t, cpu, 1)
	v1, _ := cpu.Registers().V(1)
	assert.Equal(t, byte(7), v1)
	assert.Equal(t, uint16(0x206), cpu.PC())
	assert.False(t, cpu.WaitingForKey())
	assert.Equal(t, uint64(7), cpu.Cycles(), "every wait attempt is a tick")
}

func TestChip8_ClearScreenKeepsPhosphor(t *testing.T) {
	cpu := newTestCPU(t, 0xA300, 0xD001, 0x00E0)
	assert.NoError(t, cpu.Memory().Write(0x300, 0x80))
	step(t, cpu, 3)

	assert.False(t, cpu.Display().Pixel(0, 0))
	assert.Equal(t, byte(C8_PHOSPHOR_MAX), cpu.Display().Phosphor(0, 0))
}

func TestChip8_LoadROMLimits(t *testing.T) {
	cpu := NewChip8CPU(fixedRandom(0), DefaultPhosphorConfig())
	assert.NoError(t, cpu.LoadROM(make([]byte, C8_MAX_ROM_SIZE)))

	err := cpu.LoadROM(make([]byte, C8_MAX_ROM_SIZE+1))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestChip8_LoadROMResetsMachine(t *testing.T) {
	cpu := newTestCPU(t, 0x6042, 0x2200)
	step(t, cpu, 2)
	assert.NoError(t, cpu.LoadROM(wordsToROM(0x1200)))

	v0, _ := cpu.Registers().V(0)
	assert.Equal(t, byte(0), v0)
	assert.Equal(t, 0, cpu.Stack().Depth())
	assert.Equal(t, uint16(C8_PROGRAM_START), cpu.PC())
	b, _ := cpu.Memory().Read(0x202)
	assert.Equal(t, byte(0), b, "old program bytes are gone")
}

func TestChip8_TraceSeesEveryInstruction(t *testing.T) {
	cpu := newTestCPU(t, 0x6001, 0x7001, 0x1200)
	var seen []string
	cpu.SetTrace(func(pc uint16, ins Instruction) {
		seen = append(seen, ins.String())
	})
	step(t, cpu, 4)
	assert.Equal(t, []string{"LD V0, $01", "ADD V0, $01", "JP $200", "LD V0, $01"}, seen)
}
