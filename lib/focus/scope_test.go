// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package focus

import (
	"testing"
	"time"

	"github.com/waymark-travel/waymark/lib/clock"
	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/testutil"
)

type fixture struct {
	doc       *document.Document
	clock     *clock.FakeClock
	queue     *schedule.Queue
	scheduler *schedule.Scheduler

	opener  *document.Node
	dialog  *document.Node
	buttons []*document.Node
}

// newFixture builds a page with an opener button and a dialog
// container holding count buttons.
func newFixture(count int) *fixture {
	fake := clock.Fake(time.Unix(0, 0))
	queue := schedule.NewQueue()
	f := &fixture{
		doc:       document.New(nil),
		clock:     fake,
		queue:     queue,
		scheduler: schedule.New(fake, queue.Post),
	}
	f.opener = f.doc.Append(nil, document.NewButton("opener", "Open"))
	f.doc.Append(nil, document.NewButton("footer", "Footer link"))
	f.dialog = f.doc.Append(nil, document.NewNode("dialog", "Dialog", document.RoleDialog))
	f.dialog.SetTabIndex(-1)
	for index := range count {
		button := document.NewButton(string(rune('a'+index)), "Button")
		f.buttons = append(f.buttons, f.doc.Append(f.dialog, button))
	}
	return f
}

func TestTrapCycleClosure(t *testing.T) {
	for _, count := range []int{1, 2, 5} {
		f := newFixture(count)
		f.doc.Focus(f.opener)
		scope := Activate(f.doc, f.dialog, Options{AutoFocus: true, Trap: true}, nil)
		defer scope.Deactivate()

		if f.doc.Active() != f.buttons[0] {
			t.Fatalf("count %d: auto-focus went to %v", count, f.doc.Active())
		}
		for range count {
			f.doc.HandleTab(false)
			if !f.dialog.Contains(f.doc.Active()) {
				t.Fatalf("count %d: focus escaped to %s", count, f.doc.Active().ID)
			}
		}
		if f.doc.Active() != f.buttons[0] {
			t.Errorf("count %d: %d Tabs ended on %s, want first", count, count, f.doc.Active().ID)
		}

		f.doc.HandleTab(true)
		if f.doc.Active() != f.buttons[count-1] {
			t.Errorf("count %d: Shift+Tab from first ended on %s, want last", count, f.doc.Active().ID)
		}
	}
}

func TestTrapFromContainerOrOutside(t *testing.T) {
	f := newFixture(3)
	scope := Activate(f.doc, f.dialog, Options{Trap: true}, nil)
	defer scope.Deactivate()

	f.doc.Focus(f.dialog)
	f.doc.HandleTab(false)
	if f.doc.Active() != f.buttons[0] {
		t.Errorf("Tab from container = %s, want first", f.doc.Active().ID)
	}

	f.doc.Focus(f.opener)
	f.doc.HandleTab(true)
	if f.doc.Active() != f.buttons[2] {
		t.Errorf("Shift+Tab from outside = %s, want last", f.doc.Active().ID)
	}
}

func TestTrapWithoutTabbablesPassesThrough(t *testing.T) {
	f := newFixture(0)
	f.doc.Focus(f.opener)
	scope := Activate(f.doc, f.dialog, Options{AutoFocus: true, Trap: true, RestoreOnDeactivate: true}, nil)

	if f.doc.Active() != f.dialog {
		t.Fatalf("auto-focus with no descendants = %v, want container", f.doc.Active())
	}
	f.doc.HandleTab(false)
	if f.doc.Active() != f.opener {
		t.Errorf("Tab with empty trap = %s, want default traversal to opener", f.doc.Active().ID)
	}
	scope.Deactivate()
}

func TestRestoreOnDeactivate(t *testing.T) {
	f := newFixture(2)
	f.doc.Focus(f.opener)
	scope := Activate(f.doc, f.dialog, Options{AutoFocus: true, Trap: true, RestoreOnDeactivate: true}, nil)
	f.doc.HandleTab(false)

	scope.Deactivate()
	if f.doc.Active() != f.opener {
		t.Errorf("focus after deactivate = %v, want opener", f.doc.Active())
	}

	// The trap is gone: default traversal resumes.
	f.doc.Focus(f.buttons[1])
	f.doc.HandleTab(false)
	if f.doc.Active() != f.opener {
		t.Errorf("Tab after deactivate = %s, want wrap to opener", f.doc.Active().ID)
	}

	scope.Deactivate()
	if f.doc.Active() != f.opener {
		t.Error("second Deactivate moved focus")
	}
}

func TestRestoreSkipsDetachedNode(t *testing.T) {
	f := newFixture(2)
	f.doc.Focus(f.opener)
	scope := Activate(f.doc, f.dialog, Options{AutoFocus: true, RestoreOnDeactivate: true}, nil)

	f.doc.Remove(f.opener)
	scope.Deactivate()
	if f.doc.Active() != nil {
		t.Errorf("focus after deactivate = %s, want cleared", f.doc.Active().ID)
	}
}

func TestAutoFocusWaitsForYield(t *testing.T) {
	f := newFixture(2)
	f.doc.Focus(f.opener)
	initial := f.buttons[1]
	scope := Activate(f.doc, f.dialog, Options{
		AutoFocus: true,
		Initial:   initial,
		Yield:     10 * time.Millisecond,
	}, f.scheduler)
	defer scope.Deactivate()

	if f.doc.Active() != f.opener {
		t.Fatal("focus moved before the yield elapsed")
	}
	f.clock.Advance(10 * time.Millisecond)
	testutil.Pump(t, f.queue, scope)
	if f.doc.Active() != initial {
		t.Errorf("focus after yield = %v, want initial target", f.doc.Active())
	}
}

func TestDeactivateCancelsPendingYield(t *testing.T) {
	f := newFixture(2)
	f.doc.Focus(f.opener)
	scope := Activate(f.doc, f.dialog, Options{AutoFocus: true, Yield: 10 * time.Millisecond}, f.scheduler)

	// Fire the timer, but deactivate before the message is delivered.
	f.clock.Advance(10 * time.Millisecond)
	scope.Deactivate()
	testutil.Pump(t, f.queue, scope)

	if f.doc.Active() != f.opener {
		t.Errorf("stale yield moved focus to %v", f.doc.Active())
	}
	if f.clock.Pending() != 0 {
		t.Errorf("%d timers still pending", f.clock.Pending())
	}
}

func TestInitialOutsideContainerIgnored(t *testing.T) {
	f := newFixture(2)
	scope := Activate(f.doc, f.dialog, Options{AutoFocus: true, Initial: f.opener}, nil)
	defer scope.Deactivate()

	if f.doc.Active() != f.buttons[0] {
		t.Errorf("auto-focus = %v, want first descendant", f.doc.Active())
	}
}
