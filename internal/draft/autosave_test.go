package draft

import (
	"context"
	"testing"
	"time"

	"github.com/readmedraft/readmed/internal/document"
)

func TestAutosave_DebouncesBurstsIntoOneSave(t *testing.T) {
	backend := &fakeBackend{}
	s := NewStore(backend, testLogger(), 30*time.Millisecond, true)

	// A burst of edits inside the debounce window.
	s.AddSection(document.Section{ID: "a", Title: "A", Content: "1"})
	s.AddSection(document.Section{ID: "b", Title: "B", Content: "2"})
	title := "A!"
	if err := s.UpdateSection("a", &title, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if backend.saveCount() != 0 {
		t.Fatalf("save fired before the debounce elapsed: %d", backend.saveCount())
	}

	waitFor(t, 2*time.Second, func() bool { return backend.saveCount() == 1 })

	snap := s.Snapshot()
	if snap.Dirty {
		t.Error("expected dirty cleared after autosave")
	}
	if snap.SaveStatus != StatusSaved {
		t.Errorf("expected saved status, got %q", snap.SaveStatus)
	}

	// The persisted draft reflects the last edit of the burst.
	backend.mu.Lock()
	saved := backend.last
	backend.mu.Unlock()
	if saved == nil {
		t.Fatal("nothing persisted")
	}
	if sec := saved.Section("a"); sec == nil || sec.Title != "A!" {
		t.Errorf("persisted draft is stale: %+v", saved)
	}
}

func TestAutosave_EachEditRestartsTimer(t *testing.T) {
	backend := &fakeBackend{}
	s := NewStore(backend, testLogger(), 60*time.Millisecond, true)

	s.AddSection(document.Section{ID: "a", Title: "A", Content: "1"})
	// Keep editing faster than the debounce; no save should land meanwhile.
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		c := "updated"
		if err := s.UpdateSection("a", nil, &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backend.saveCount() != 0 {
			t.Fatal("save fired while edits were still arriving")
		}
	}

	waitFor(t, 2*time.Second, func() bool { return backend.saveCount() == 1 })
}

func TestAutosave_ResetCancelsPendingSave(t *testing.T) {
	backend := &fakeBackend{}
	s := NewStore(backend, testLogger(), 30*time.Millisecond, true)

	s.AddSection(document.Section{ID: "a", Title: "A", Content: "1"})
	s.Reset()

	time.Sleep(100 * time.Millisecond)
	if backend.saveCount() != 0 {
		t.Errorf("cancelled timer still saved: %d", backend.saveCount())
	}
}

func TestAutosave_ManualSaveCancelsTimer(t *testing.T) {
	backend := &fakeBackend{}
	s := NewStore(backend, testLogger(), 30*time.Millisecond, true)

	s.AddSection(document.Section{ID: "a", Title: "A", Content: "1"})
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if backend.saveCount() != 1 {
		t.Errorf("expected exactly one save, got %d", backend.saveCount())
	}
}

func TestAutosave_DisabledNeverSaves(t *testing.T) {
	backend := &fakeBackend{}
	s := NewStore(backend, testLogger(), 10*time.Millisecond, false)

	s.AddSection(document.Section{ID: "a", Title: "A", Content: "1"})
	time.Sleep(60 * time.Millisecond)
	if backend.saveCount() != 0 {
		t.Errorf("autosave fired while disabled: %d", backend.saveCount())
	}
	if !s.Snapshot().Dirty {
		t.Error("draft should stay dirty without autosave")
	}
}

func TestScheduler_CancelWithoutArm(t *testing.T) {
	sched := NewScheduler(time.Millisecond, true, func() {})
	// Must not panic with no timer armed.
	sched.Cancel()
}

func TestScheduler_SetEnabled(t *testing.T) {
	fired := make(chan struct{}, 1)
	sched := NewScheduler(10*time.Millisecond, true, func() { fired <- struct{}{} })

	sched.Arm()
	sched.SetEnabled(false)
	select {
	case <-fired:
		t.Error("disabling should cancel the pending timer")
	case <-time.After(50 * time.Millisecond):
	}

	if sched.Enabled() {
		t.Error("expected disabled")
	}
	sched.Arm() // no-op while disabled
	select {
	case <-fired:
		t.Error("arm while disabled should not schedule")
	case <-time.After(30 * time.Millisecond):
	}

	sched.SetEnabled(true)
	sched.Arm()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Error("expected timer to fire after re-enabling")
	}
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
