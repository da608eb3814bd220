package core

import "testing"

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ActionNone)
	f.Set(ActionRotate)
	f.Set(ActionLeft)

	want := []Action{ActionLeft, ActionRotate, ActionLeft}
	if len(f.Actions) != len(want) {
		t.Fatalf("Actions = %v, want %v", f.Actions, want)
	}
	for i := range want {
		if f.Actions[i] != want[i] {
			t.Errorf("Actions[%d] = %v, want %v", i, f.Actions[i], want[i])
		}
	}

	if !f.Has(ActionRotate) || f.Has(ActionHold) {
		t.Error("Has() reports wrong membership")
	}

	clone := f.Clone()
	f.Clear()
	if !f.Empty() {
		t.Error("Clear() should empty the frame")
	}
	if len(clone.Actions) != 3 {
		t.Error("Clone() should not share storage with the original")
	}
}

func TestParseActionRoundTrip(t *testing.T) {
	for a := ActionNone; a <= ActionPause; a++ {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("ParseAction(%q) = %v, want %v", a.String(), got, a)
		}
	}
	if ParseAction("Jump") != ActionNone {
		t.Error("unknown names should parse to ActionNone")
	}
}
