package focus

import (
	"testing"
	"time"
)

func TestDoubleClickWithinWindow(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	target := ClickTarget{Path: "/Projects"}
	t0 := time.Now()

	if a.Observe(target, t0) {
		t.Fatal("first click must not fire")
	}
	if !a.Observe(target, t0.Add(150*time.Millisecond)) {
		t.Fatal("second click inside window must fire")
	}
}

func TestDoubleClickWindowBoundary(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	target := ClickTarget{Path: "/Projects"}
	t0 := time.Now()

	a.Observe(target, t0)
	if !a.Observe(target, t0.Add(300*time.Millisecond)) {
		t.Error("click at exactly the window must still fire")
	}

	a.Observe(target, t0)
	if a.Observe(target, t0.Add(301*time.Millisecond)) {
		t.Error("click past the window must not fire")
	}
}

func TestExpiredClickReArms(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	target := ClickTarget{Path: "/Projects"}
	t0 := time.Now()

	a.Observe(target, t0)
	// Too late to complete, but it re-arms...
	if a.Observe(target, t0.Add(time.Second)) {
		t.Fatal("late click fired")
	}
	// ...so the next quick click completes against it.
	if !a.Observe(target, t0.Add(time.Second+100*time.Millisecond)) {
		t.Fatal("click after re-arm did not fire")
	}
}

func TestTripleClickNeedsNewCycle(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	target := ClickTarget{Path: "/Projects"}
	t0 := time.Now()

	a.Observe(target, t0)
	if !a.Observe(target, t0.Add(100*time.Millisecond)) {
		t.Fatal("double did not fire")
	}
	// The third click starts a fresh cycle, it must not fire...
	if a.Observe(target, t0.Add(200*time.Millisecond)) {
		t.Fatal("third click chained into a second double")
	}
	// ...and the fourth completes the new cycle.
	if !a.Observe(target, t0.Add(250*time.Millisecond)) {
		t.Fatal("fourth click did not complete the new cycle")
	}
}

func TestTargetSwitchReArms(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	t0 := time.Now()

	a.Observe(ClickTarget{Path: "/Projects"}, t0)
	if a.Observe(ClickTarget{Path: "/Archive"}, t0.Add(50*time.Millisecond)) {
		t.Fatal("click on a different row fired")
	}
	if !a.Observe(ClickTarget{Path: "/Archive"}, t0.Add(100*time.Millisecond)) {
		t.Fatal("double on the new row did not fire")
	}
}

func TestEmptySpaceIsItsOwnTarget(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	t0 := time.Now()

	a.Observe(ClickTarget{Path: "/Projects"}, t0)
	if a.Observe(EmptyTarget, t0.Add(50*time.Millisecond)) {
		t.Fatal("row click + empty click fired")
	}
	if !a.Observe(EmptyTarget, t0.Add(100*time.Millisecond)) {
		t.Fatal("double on empty space did not fire")
	}
}

func TestResetDisarms(t *testing.T) {
	a := NewClickArbiter(300 * time.Millisecond)
	target := ClickTarget{Path: "/Projects"}
	t0 := time.Now()

	a.Observe(target, t0)
	a.Reset()
	if a.Observe(target, t0.Add(50*time.Millisecond)) {
		t.Fatal("click after Reset fired")
	}
}

func TestZeroWindowUsesDefault(t *testing.T) {
	a := NewClickArbiter(0)
	if a.Window() != DefaultDoubleClickWindow {
		t.Errorf("Window = %v, want %v", a.Window(), DefaultDoubleClickWindow)
	}
}
