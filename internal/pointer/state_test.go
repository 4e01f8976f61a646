package pointer

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/frudas24/pinchpoint/internal/testutil"
)

// expectCalls fails the test unless the fake recorded exactly want.
func expectCalls(t *testing.T, inj *testutil.FakeInjector, want ...testutil.Call) {
	t.Helper()
	got := inj.Snapshot()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected calls %#v, got %#v", want, got)
	}
}

func move(x, y int) testutil.Call { return testutil.Call{Name: "MoveAbs", X: x, Y: y} }

var (
	down = testutil.Call{Name: "LeftDown"}
	up   = testutil.Call{Name: "LeftUp"}
)

// TestHandleMouseAction_MoveWithoutPinch verifies a plain move issues no button event.
func TestHandleMouseAction_MoveWithoutPinch(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	if err := s.HandleMouseAction(100, 100, false); err != nil {
		t.Fatalf("HandleMouseAction failed: %v", err)
	}
	expectCalls(t, inj, move(100, 100))
	if s.ButtonDown() {
		t.Fatalf("expected button up")
	}
}

// TestHandleMouseAction_PinchSequence walks press, drag, and release.
func TestHandleMouseAction_PinchSequence(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	if err := s.HandleMouseAction(100, 100, true); err != nil {
		t.Fatalf("press failed: %v", err)
	}
	expectCalls(t, inj, move(100, 100), down)
	if !s.ButtonDown() {
		t.Fatalf("expected button down after press")
	}

	inj.Reset()
	if err := s.HandleMouseAction(150, 150, true); err != nil {
		t.Fatalf("drag failed: %v", err)
	}
	expectCalls(t, inj, move(150, 150))
	if !s.ButtonDown() {
		t.Fatalf("expected button still down while dragging")
	}

	inj.Reset()
	if err := s.HandleMouseAction(150, 150, false); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	expectCalls(t, inj, move(150, 150), up)
	if s.ButtonDown() {
		t.Fatalf("expected button up after release")
	}
}

// TestHandleMouseAction_FirstCallAtOrigin verifies the initial state is up.
func TestHandleMouseAction_FirstCallAtOrigin(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	if err := s.HandleMouseAction(0, 0, false); err != nil {
		t.Fatalf("HandleMouseAction failed: %v", err)
	}
	expectCalls(t, inj, move(0, 0))
	if s.ButtonDown() {
		t.Fatalf("expected button up")
	}
}

// TestHandleMouseAction_OutOfRangeForwarded verifies coordinates are not clamped.
func TestHandleMouseAction_OutOfRangeForwarded(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	if err := s.HandleMouseAction(-50, 99999, false); err != nil {
		t.Fatalf("HandleMouseAction failed: %v", err)
	}
	expectCalls(t, inj, move(-50, 99999))
}

// TestHandleMouseAction_Idempotent verifies repeated pinch values issue one transition.
func TestHandleMouseAction_Idempotent(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	for i := 0; i < 5; i++ {
		if err := s.HandleMouseAction(int32(i), 0, true); err != nil {
			t.Fatalf("press %d failed: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := s.HandleMouseAction(int32(i), 0, false); err != nil {
			t.Fatalf("release %d failed: %v", i, err)
		}
	}

	downs, ups, moves := 0, 0, 0
	for _, name := range inj.Names() {
		switch name {
		case "LeftDown":
			downs++
		case "LeftUp":
			ups++
		case "MoveAbs":
			moves++
		}
	}
	if downs != 1 || ups != 1 || moves != 10 {
		t.Fatalf("expected 1 down, 1 up, 10 moves; got %d, %d, %d", downs, ups, moves)
	}
}

// TestHandleMouseAction_MoveFailureSkipsButton verifies a failed move aborts the call.
func TestHandleMouseAction_MoveFailureSkipsButton(t *testing.T) {
	inj := &testutil.FakeInjector{}
	inj.SetFail("MoveAbs", errors.New("no display"))
	s := New(inj)

	if err := s.HandleMouseAction(10, 10, true); err == nil {
		t.Fatalf("expected move error")
	}
	expectCalls(t, inj)
	if s.ButtonDown() {
		t.Fatalf("expected button to stay up")
	}
}

// TestHandleMouseAction_DownFailureKeepsUp verifies the flag only flips on success.
func TestHandleMouseAction_DownFailureKeepsUp(t *testing.T) {
	boom := errors.New("permission denied")
	inj := &testutil.FakeInjector{}
	inj.SetFail("LeftDown", boom)
	s := New(inj)

	err := s.HandleMouseAction(10, 10, true)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped injector error, got %v", err)
	}
	if s.ButtonDown() {
		t.Fatalf("expected button to stay up after failed press")
	}

	inj.SetFail("LeftDown", nil)
	inj.Reset()
	if err := s.HandleMouseAction(10, 10, true); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	expectCalls(t, inj, move(10, 10), down)
}

// TestHandleMouseAction_UpFailureKeepsDown verifies a failed release stays held.
func TestHandleMouseAction_UpFailureKeepsDown(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)
	if err := s.HandleMouseAction(1, 1, true); err != nil {
		t.Fatalf("press failed: %v", err)
	}

	inj.SetFail("LeftUp", errors.New("gone"))
	if err := s.HandleMouseAction(1, 1, false); err == nil {
		t.Fatalf("expected release error")
	}
	if !s.ButtonDown() {
		t.Fatalf("expected button to stay down after failed release")
	}
}

// TestRelease verifies Release lifts a held button once.
func TestRelease(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	if err := s.Release(); err != nil {
		t.Fatalf("Release on up state failed: %v", err)
	}
	expectCalls(t, inj)

	_ = s.HandleMouseAction(5, 5, true)
	inj.Reset()
	if err := s.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("second Release failed: %v", err)
	}
	expectCalls(t, inj, up)
	if s.ButtonDown() {
		t.Fatalf("expected button up after Release")
	}
}

// TestHandleMouseAction_ConcurrentPairing verifies downs and ups alternate under contention.
func TestHandleMouseAction_ConcurrentPairing(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(inj)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = s.HandleMouseAction(int32(g), int32(i), (g+i)%3 == 0)
			}
		}(g)
	}
	wg.Wait()

	held := false
	for _, name := range inj.Names() {
		switch name {
		case "LeftDown":
			if held {
				t.Fatalf("two downs without an intervening up")
			}
			held = true
		case "LeftUp":
			if !held {
				t.Fatalf("up without a preceding down")
			}
			held = false
		}
	}
	if held != s.ButtonDown() {
		t.Fatalf("recorded state %v disagrees with ButtonDown %v", held, s.ButtonDown())
	}
}
