package registry

import (
	"fmt"
	"sync"
	"testing"
)

func TestCreateListInsertionOrder(t *testing.T) {
	r := New()
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Create(id); err != nil {
			t.Fatalf("Create(%q): %v", id, err)
		}
	}
	got := r.List()
	if len(got) != 3 {
		t.Fatalf("len=%d", len(got))
	}
	for i, want := range []string{"c", "a", "b"} {
		if got[i].ID != want || got[i].State != StateStopped {
			t.Fatalf("item %d = %+v, want id=%s state=stopped", i, got[i], want)
		}
	}
}

func TestListIsSnapshot(t *testing.T) {
	r := New()
	_ = r.Create("a")
	snap := r.List()
	if _, err := r.Toggle("a"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if snap[0].State != StateStopped {
		t.Fatalf("snapshot mutated: %+v", snap[0])
	}
}

func TestCreateDuplicate(t *testing.T) {
	r := New()
	if err := r.Create("a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Create("a"); !IsDuplicateID(err) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestIDsNotReusedAfterRemove(t *testing.T) {
	r := New()
	_ = r.Create("a")
	if !r.Remove("a") {
		t.Fatalf("expected remove to report true")
	}
	if err := r.Create("a"); !IsDuplicateID(err) {
		t.Fatalf("expected retired id to be refused, got %v", err)
	}
}

func TestToggleIsInvolution(t *testing.T) {
	r := New()
	_ = r.Create("a")
	s, err := r.Toggle("a")
	if err != nil || s != StateStarted {
		t.Fatalf("first toggle = %v, %v", s, err)
	}
	s, err = r.Toggle("a")
	if err != nil || s != StateStopped {
		t.Fatalf("second toggle = %v, %v", s, err)
	}
}

func TestToggleNotFound(t *testing.T) {
	r := New()
	if _, err := r.Toggle("missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	r := New()
	_ = r.Create("a")
	_ = r.Create("b")
	_ = r.Create("c")
	if !r.Remove("b") {
		t.Fatalf("remove b")
	}
	if r.Remove("b") {
		t.Fatalf("second remove should report false")
	}
	if r.Remove("zzz") {
		t.Fatalf("remove of unknown id should report false")
	}
	got := r.List()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if _, ok := r.Get("b"); ok {
		t.Fatalf("b still present")
	}
}

func TestWire(t *testing.T) {
	w := Instance{ID: "x", State: StateStarted}.Wire()
	if w.ID != "x" || w.State != "started" {
		t.Fatalf("unexpected wire: %+v", w)
	}
}

func TestConcurrentCreateAndList(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Create(fmt.Sprintf("id-%d", i))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
		}()
	}
	wg.Wait()
	if r.Len() != 50 {
		t.Fatalf("len=%d", r.Len())
	}
}
