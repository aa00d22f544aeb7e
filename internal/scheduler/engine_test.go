package scheduler

import (
	"fmt"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(Trigger{ID: "later", At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Trigger{ID: "sooner", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitTrigger(t, engine.C(), time.Second)
	second := waitTrigger(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", engine.Pending())
	}
}

func TestEngineHoldsTriggersForSlowConsumer(t *testing.T) {
	engine := NewEngine(0)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(10 * time.Millisecond)
	const total = 25
	for i := 0; i < total; i++ {
		if err := engine.Schedule(Trigger{ID: fmt.Sprintf("evt-%d", i), At: at}); err != nil {
			t.Fatalf("schedule trigger: %v", err)
		}
	}

	// Nobody reads while every trigger comes due.
	time.Sleep(100 * time.Millisecond)

	seen := make(map[string]bool, total)
	for len(seen) < total {
		tr := waitTrigger(t, engine.C(), time.Second)
		seen[tr.ID] = true
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", engine.Pending())
	}
}

func TestScheduleSameIDMovesTrigger(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Trigger{ID: "daily", At: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Trigger{ID: "daily", Name: "moved", At: time.Now().Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one pending trigger, got %d", engine.Pending())
	}

	tr := waitTrigger(t, engine.C(), time.Second)
	if tr.Name != "moved" {
		t.Fatalf("expected moved trigger, got %+v", tr)
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("unexpected second delivery: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelRemovesPendingTrigger(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Trigger{ID: "gone", At: time.Now().Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !engine.Cancel("gone") {
		t.Fatal("expected cancel to find the trigger")
	}
	if engine.Cancel("gone") {
		t.Fatal("second cancel should report nothing pending")
	}
	select {
	case tr := <-engine.C():
		t.Fatalf("cancelled trigger delivered: %+v", tr)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Trigger{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Trigger{ID: "late", At: time.Now()}); err != ErrEngineStopped {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected C to be closed after Stop")
	}
}

func TestStopUnblocksPendingDelivery(t *testing.T) {
	engine := NewEngine(0)
	engine.Start()
	if err := engine.Schedule(Trigger{ID: "stuck", At: time.Now()}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		engine.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on an undelivered trigger")
	}
}

func waitTrigger(t *testing.T, ch <-chan Trigger, timeout time.Duration) Trigger {
	t.Helper()
	select {
	case tr := <-ch:
		return tr
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for trigger")
		return Trigger{}
	}
}
