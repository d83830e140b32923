package journal

import (
	"os"
	"testing"

	"github.com/kvengine/store/bio"
)

// TestJournal_QueueOffloadsSyncAndClose exercises the Queue-aware path
// added to Options/Journal: with Queue set, Commit submits a sync-file job
// and FinishWriting submits a close-file job instead of blocking inline.
func TestJournal_QueueOffloadsSyncAndClose(t *testing.T) {
	dir := t.TempDir()
	q := bio.NewManager(bio.Options{})
	defer q.Close()

	j := New(dir, Options{FileName: "j*.wal", Queue: q})
	j.StartWriting()

	if err := j.WriteRecord(0, []byte("hello")); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := j.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	q.WaitOne(bio.SyncFile)

	j.FinishWriting()
	q.WaitOne(bio.CloseFile)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 segment file, got %d", len(entries))
	}
}
