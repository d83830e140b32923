package bio

import (
	"log/slog"
	"sync"
	"time"
)

// Manager owns the three fixed job queues and their worker goroutines
// (spec §4.3). The zero value is not usable; construct with NewManager.
type Manager struct {
	logger *slog.Logger
	queues [numKinds]*queue
	wg     sync.WaitGroup

	now func() time.Time
}

// Options configures a Manager. Zero value is valid.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (o Options) norm() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NewManager starts one worker goroutine per kind and returns the running
// Manager.
func NewManager(opts Options) *Manager {
	opts = opts.norm()
	m := &Manager{logger: opts.Logger, now: opts.Now}
	for k := 0; k < numKinds; k++ {
		m.queues[k] = newQueue()
	}
	for k := 0; k < numKinds; k++ {
		kind, q := Kind(k), m.queues[k]
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			runWorker(kind, q, m.logger)
		}()
	}
	return m
}

// Submit appends a job to its kind's queue and returns immediately (spec
// §4.3 "Contract": "append to the kind's queue and signal new-job. Returns
// immediately").
func (m *Manager) Submit(j Job) {
	if j.Created.IsZero() {
		j.Created = m.now()
	}
	m.queues[j.Kind].submit(j)
}

// SubmitCloseFile is a convenience wrapper for the common close-file case.
func (m *Manager) SubmitCloseFile(f Closer) {
	m.Submit(Job{Kind: CloseFile, CloseFile: CloseFileArgs{File: f}})
}

// SubmitSyncFile is a convenience wrapper for the common sync-file case.
func (m *Manager) SubmitSyncFile(sync func() error) {
	m.Submit(Job{Kind: SyncFile, SyncFile: SyncFileArgs{Sync: sync}})
}

// SubmitFreeValue is a convenience wrapper for deferred destruction.
func (m *Manager) SubmitFreeValue(target FreeTarget, destroy func()) {
	m.Submit(Job{Kind: FreeValue, FreeValue: FreeValueArgs{Target: target, Destroy: destroy}})
}

// Pending reports the queued-plus-in-flight job count for kind (spec §4.3
// "Contract": "Pending(kind): number of queued + in-flight jobs of that
// kind").
func (m *Manager) Pending(kind Kind) int {
	return m.queues[kind].pendingCount()
}

// WaitOne blocks until at least one job of kind completes (spec §4.3
// "Contract": "Wait-one(kind): block the caller until at least one job of
// that kind completes").
func (m *Manager) WaitOne(kind Kind) {
	m.queues[kind].waitOne()
}

// Close drains every queue (lets in-flight and already-queued jobs finish)
// and waits for all worker goroutines to exit (spec §4.3 "Cancellation /
// teardown": "Normal shutdown drains the queues before exiting"). Close
// does not accept new jobs submitted concurrently with the call; callers
// must stop calling Submit before calling Close.
func (m *Manager) Close() {
	for _, q := range m.queues {
		for q.pendingCount() > 0 {
			q.waitOne()
		}
		q.close()
	}
	m.wg.Wait()
}
