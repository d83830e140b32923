package bio

import (
	"sync"
	"testing"
	"time"
)

type fakeCloser struct {
	name   string
	closed bool
}

func (f *fakeCloser) Close() error {
	f.closed = true
	return nil
}

// TestManager_S5LazyFreeOrdering is spec §8 scenario S5: after WaitOne
// returns once per submitted job, all jobs of that kind must have
// completed in submission order.
func TestManager_S5LazyFreeOrdering(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()

	var mu sync.Mutex
	var order []string

	files := []*fakeCloser{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, f := range files {
		f := f
		m.Submit(Job{
			Kind: CloseFile,
			CloseFile: CloseFileArgs{File: closerFunc(func() error {
				mu.Lock()
				order = append(order, f.name)
				mu.Unlock()
				return f.Close()
			})},
		})
	}

	for i := 0; i < len(files); i++ {
		m.WaitOne(CloseFile)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 {
		t.Fatalf("expected 3 completions, got %d: %v", len(order), order)
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("completion order = %v, want %v", order, want)
		}
	}
	for _, f := range files {
		if !f.closed {
			t.Fatalf("file %s was not closed", f.name)
		}
	}
}

func TestManager_PendingDropsAfterWaitOne(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()

	done := make(chan struct{})
	m.Submit(Job{Kind: SyncFile, SyncFile: SyncFileArgs{Sync: func() error {
		<-done
		return nil
	}}})

	if p := m.Pending(SyncFile); p != 1 {
		t.Fatalf("Pending() = %d, want 1", p)
	}

	close(done)
	m.WaitOne(SyncFile)

	if p := m.Pending(SyncFile); p != 0 {
		t.Fatalf("Pending() = %d after drain, want 0", p)
	}
}

func TestManager_FreeValueDispatch(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()

	freed := make(chan FreeTarget, 1)
	m.SubmitFreeValue(FreeDatabase, func() { freed <- FreeDatabase })

	select {
	case got := <-freed:
		if got != FreeDatabase {
			t.Fatalf("got target %v, want FreeDatabase", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for free-value job")
	}
}

func TestManager_CloseDrainsQueues(t *testing.T) {
	m := NewManager(Options{})
	var n int
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		m.SubmitFreeValue(FreeSingleValue, func() {
			mu.Lock()
			n++
			mu.Unlock()
		})
	}
	m.Close()

	mu.Lock()
	defer mu.Unlock()
	if n != 10 {
		t.Fatalf("n = %d, want 10 after Close drained the queue", n)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
