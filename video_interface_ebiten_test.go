//go:build !headless

package main

import (
	"testing"

	"github.com/retroenv/retrogolib/log"
)

func TestVideoOutput_BackendsImplement(t *testing.T) {
	var _ VideoOutput = &EbitenOutput{}
	var _ VideoOutput = &TerminalOutput{}

	if _, err := NewVideoOutput(42, log.NewNop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	v, err := NewVideoOutput(VIDEO_BACKEND_TERMINAL, log.NewNop())
	if err != nil {
		t.Fatalf("terminal backend: %v", err)
	}
	if _, ok := v.(*TerminalOutput); !ok {
		t.Fatalf("expected *TerminalOutput, got %T", v)
	}
}

func TestHostAction_String(t *testing.T) {
	want := map[HostAction]string{
		HOST_ACTION_QUIT:             "quit",
		HOST_ACTION_PAUSE:            "pause",
		HOST_ACTION_RESET:            "reset",
		HOST_ACTION_SAVE_STATE:       "save-state",
		HOST_ACTION_LOAD_STATE:       "load-state",
		HOST_ACTION_TOGGLE_RECORDING: "toggle-recording",
	}
	for a, s := range want {
		if a.String() != s {
			t.Fatalf("%d: expected %q, got %q", a, s, a.String())
		}
	}
	if ClampScale(0) != 1 || ClampScale(7) != 7 {
		t.Fatal("ClampScale out of range handling")
	}
}
