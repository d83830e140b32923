package store

import (
	"log/slog"
	"sync/atomic"
)

// Process-wide allocator accounting (spec §6): a used-memory counter and an
// out-of-memory handler. Updates round up to word alignment and use atomic
// adds. Only bucket-table arrays are accounted; entries, keys and values
// are not, and the bio workers never update the counter when they free a
// value.
var (
	usedMemory  atomic.Int64
	memoryLimit atomic.Int64 // 0 = unlimited
	oomHandler  atomic.Pointer[func()]
)

func init() {
	defaultHandler := defaultOOMHandler
	oomHandler.Store(&defaultHandler)
}

func defaultOOMHandler() {
	slog.Error("store: out of memory", "used_bytes", usedMemory.Load(), "limit_bytes", memoryLimit.Load())
	panic("store: out of memory")
}

// SetOOMHandler installs a process-wide replacement for the default
// log-then-abort out-of-memory handler (spec §6: "by default logs and
// aborts; rewritable by the host").
func SetOOMHandler(f func()) {
	oomHandler.Store(&f)
}

// SetMemoryLimit configures the ceiling (in bytes) that triggers the
// out-of-memory handler on the next accounted allocation. Zero means
// unlimited; this is a testing/embedding hook, since Go's runtime does not
// expose true allocation failure the way a C allocator would.
func SetMemoryLimit(n int64) { memoryLimit.Store(n) }

// UsedMemory reports the process-wide accounted allocation total.
func UsedMemory() int64 { return usedMemory.Load() }

const wordSize = 8

func roundUpWord(n int) int64 {
	return int64((n + wordSize - 1) &^ (wordSize - 1))
}

func accountAlloc(n int) {
	rounded := roundUpWord(n)
	newTotal := usedMemory.Add(rounded)
	if limit := memoryLimit.Load(); limit > 0 && newTotal > limit {
		usedMemory.Add(-rounded)
		(*oomHandler.Load())()
	}
}

func accountFree(n int) {
	usedMemory.Add(-roundUpWord(n))
}
