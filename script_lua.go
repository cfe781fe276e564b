// script_lua.go - Lua automation scripts driving the emulator

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

	"github.com/retroenv/retrogolib/log"
	lua "github.com/yuin/gopher-lua"
)

// ScriptHost runs a Lua script against an emulator. The script's top level
// runs once at load; a global on_frame(n) function, if defined, is called
// after every frame. Everything runs on the emulator goroutine.
//
// The chip8 table exposes:
//
//	press(k) release(k)          keypad 0-15
//	reg(name) set_reg(name, v)   V0-VF, I, PC, DT, ST, SP, S0-S11
//	pc() peek(a) poke(a, v)      program counter and RAM
//	pixel(x, y)                  logical pixel state
//	frame()                      frames completed so far
//	disasm(a, n)                 table of "AAA  XX XX  MNEMONIC" lines
//	save_state(p) load_state(p)  snapshots; return true or nil, err
//	screenshot(p [, scale])      PNG of the last frame
//	log(msg) quit()
type ScriptHost struct {
	L       *lua.LState
	emu     *Emulator
	logger  *log.Logger
	onFrame *lua.LFunction
}

func NewScriptHost(emu *Emulator, logger *log.Logger) *ScriptHost {
	s := &ScriptHost{
		L:      lua.NewState(),
		emu:    emu,
		logger: logger,
	}
	tbl := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"press":      s.luaPress,
		"release":    s.luaRelease,
		"reg":        s.luaReg,
		"set_reg":    s.luaSetReg,
		"pc":         s.luaPC,
		"peek":       s.luaPeek,
		"poke":       s.luaPoke,
		"pixel":      s.luaPixel,
		"frame":      s.luaFrame,
		"disasm":     s.luaDisasm,
		"save_state": s.luaSaveState,
		"load_state": s.luaLoadState,
		"screenshot": s.luaScreenshot,
		"log":        s.luaLog,
		"quit":       s.luaQuit,
	})
	s.L.SetGlobal("chip8", tbl)
	return s
}

// LoadFile runs a script file and picks up its on_frame hook.
func (s *ScriptHost) LoadFile(path string) error {
	if err := s.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	s.bindHooks()
	return nil
}

// LoadString is LoadFile for inline source.
func (s *ScriptHost) LoadString(src string) error {
	if err := s.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	s.bindHooks()
	return nil
}

func (s *ScriptHost) bindHooks() {
	if fn, ok := s.L.GetGlobal("on_frame").(*lua.LFunction); ok {
		s.onFrame = fn
	}
}

// OnFrame calls on_frame(n). Script errors end the run.
func (s *ScriptHost) OnFrame(frame uint64) error {
	if s.onFrame == nil {
		return nil
	}
	err := s.L.CallByParam(lua.P{Fn: s.onFrame, NRet: 0, Protect: true}, lua.LNumber(frame))
	if err != nil {
		return fmt.Errorf("script on_frame(%d): %w", frame, err)
	}
	return nil
}

func (s *ScriptHost) Close() {
	s.L.Close()
}

func checkKey(L *lua.LState, n int) byte {
	k := L.CheckInt(n)
	if k < 0 || k >= C8_NUM_KEYS {
		L.ArgError(n, "key must be 0-15")
	}
	return byte(k)
}

func checkAddr(L *lua.LState, n int) uint64 {
	a := L.CheckInt(n)
	if a < 0 || a >= C8_MEMORY_SIZE {
		L.ArgError(n, "address out of range")
	}
	return uint64(a)
}

func (s *ScriptHost) luaPress(L *lua.LState) int {
	s.emu.cpu.Press(checkKey(L, 1))
	return 0
}

func (s *ScriptHost) luaRelease(L *lua.LState) int {
	s.emu.cpu.Release(checkKey(L, 1))
	return 0
}

func (s *ScriptHost) luaReg(L *lua.LState) int {
	v, ok := s.emu.cpu.GetRegister(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *ScriptHost) luaSetReg(L *lua.LState) int {
	name := L.CheckString(1)
	v := L.CheckInt(2)
	if v < 0 || !s.emu.cpu.SetRegister(name, uint64(v)) {
		L.ArgError(1, "cannot set register "+name)
	}
	return 0
}

func (s *ScriptHost) luaPC(L *lua.LState) int {
	L.Push(lua.LNumber(s.emu.cpu.PC()))
	return 1
}

func (s *ScriptHost) luaPeek(L *lua.LState) int {
	b := s.emu.cpu.ReadMemory(checkAddr(L, 1), 1)
	L.Push(lua.LNumber(b[0]))
	return 1
}

func (s *ScriptHost) luaPoke(L *lua.LState) int {
	addr := checkAddr(L, 1)
	v := L.CheckInt(2)
	if v < 0 || v > 0xFF {
		L.ArgError(2, "value must be 0-255")
	}
	s.emu.cpu.WriteMemory(addr, []byte{byte(v)})
	return 0
}

func (s *ScriptHost) luaPixel(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	if x < 0 || x >= C8_DISPLAY_WIDTH || y < 0 || y >= C8_DISPLAY_HEIGHT {
		L.ArgError(1, "pixel out of range")
	}
	L.Push(lua.LBool(s.emu.cpu.Display().Pixel(x, y)))
	return 1
}

func (s *ScriptHost) luaFrame(L *lua.LState) int {
	L.Push(lua.LNumber(s.emu.FrameCount()))
	return 1
}

func (s *ScriptHost) luaDisasm(L *lua.LState) int {
	addr := checkAddr(L, 1)
	count := L.OptInt(2, 1)
	out := L.NewTable()
	for _, line := range s.emu.cpu.Disassemble(addr, count) {
		out.Append(lua.LString(fmt.Sprintf("%03X  %s  %s", line.Address, line.HexBytes, line.Mnemonic)))
	}
	L.Push(out)
	return 1
}

func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (s *ScriptHost) luaSaveState(L *lua.LState) int {
	return pushResult(L, s.emu.SaveState(L.CheckString(1)))
}

func (s *ScriptHost) luaLoadState(L *lua.LState) int {
	return pushResult(L, s.emu.LoadState(L.CheckString(1)))
}

func (s *ScriptHost) luaScreenshot(L *lua.LState) int {
	path := L.CheckString(1)
	scale := L.OptInt(2, s.emu.settings.Recording.Scale)
	return pushResult(L, SaveScreenshot(path, s.emu.Frame(), ClampScale(scale)))
}

func (s *ScriptHost) luaLog(L *lua.LState) int {
	s.logger.Info("Script", log.String("message", L.CheckString(1)))
	return 0
}

func (s *ScriptHost) luaQuit(L *lua.LState) int {
	s.emu.RequestQuit()
	return 0
}
