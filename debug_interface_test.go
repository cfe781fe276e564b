package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestChip8CPU_RegisterView(t *testing.T) {
	cpu := newTestCPU(t, 0x6A42, 0xA123, 0x2206, 0x0000, 0x6B07)
	step(t, cpu, 3)

	regs := cpu.GetRegisters()
	assert.Equal(t, C8_NUM_REGISTERS+5+C8_STACK_DEPTH, len(regs))
	assert.Equal(t, "V0", regs[0].Name)
	assert.Equal(t, "VF", regs[15].Name)

	for name, want := range map[string]uint64{
		"VA": 0x42,
		"va": 0x42,
		"I":  0x123,
		"PC": 0x206,
		"SP": 1,
		"S0": 0x206,
	} {
		got, ok := cpu.GetRegister(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := cpu.GetRegister("XYZ")
	assert.False(t, ok)
	assert.Equal(t, "CHIP-8", cpu.CPUName())
}

func TestChip8CPU_SetRegister(t *testing.T) {
	cpu := newTestCPU(t)

	assert.True(t, cpu.SetRegister("v3", 0x1FF))
	v3, _ := cpu.Registers().V(3)
	assert.Equal(t, byte(0xFF), v3, "truncated to 8 bits")

	assert.True(t, cpu.SetRegister("I", 0x1234))
	assert.Equal(t, uint16(0x234), cpu.Registers().I())

	assert.True(t, cpu.SetRegister("PC", 0x300))
	assert.Equal(t, uint16(0x300), cpu.PC())
	assert.False(t, cpu.SetRegister("PC", 0x301), "odd PC")
	assert.False(t, cpu.SetRegister("PC", 0x1000), "PC past memory")
	assert.Equal(t, uint16(0x300), cpu.PC())

	assert.True(t, cpu.SetRegister("DT", 9))
	assert.Equal(t, byte(9), cpu.DelayTimer())

	assert.False(t, cpu.SetRegister("SP", C8_STACK_DEPTH+1))
	assert.False(t, cpu.SetRegister("S12", 0))
	assert.False(t, cpu.SetRegister("VG", 0))
	assert.False(t, cpu.SetRegister("Q", 0))
}

func TestChip8CPU_MemoryView(t *testing.T) {
	cpu := newTestCPU(t)
	cpu.WriteMemory(0xFFE, []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2}, cpu.ReadMemory(0xFFE, 8))
	assert.Equal(t, 0, len(cpu.ReadMemory(0x1000, 1)))
}
