package rdb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kvengine/store"
	"github.com/kvengine/store/bio"
)

// BackgroundSaver writes a snapshot file through a temp file and an atomic
// rename (spec §4.2 "Fork-based background save"). It does not fork and
// takes no copy-on-write snapshot: Run serializes the live store with Save
// on the calling goroutine, and the caller waits until the file has been
// written, synced, closed and renamed.
type BackgroundSaver struct {
	bio     *bio.Manager
	dir     string
	dstName string
}

// NewBackgroundSaver returns a saver that writes temp files into dir and
// renames them to dstName on success (spec §6 "Background-save temp
// file": "temp-<pid>.rdb ... atomically renamed to the configured
// filename on success").
func NewBackgroundSaver(b *bio.Manager, dir, dstName string) *BackgroundSaver {
	return &BackgroundSaver{bio: b, dir: dir, dstName: dstName}
}

// Run performs one save: it creates temp-<pid>.rdb in the saver's
// directory, writes the snapshot into it with Save (which walks each
// database with a safe iterator), submits the fsync and then the close to
// the bio queues and waits for each to finish, renames the temp file to
// the destination name, and resets the store's dirty counter (spec §4.2
// "fsyncs, atomically renames"). It returns only once all of this is done.
func (s *BackgroundSaver) Run(st *store.Store, aux AuxFields, opts WriteOptions) error {
	tmpName := filepath.Join(s.dir, fmt.Sprintf("temp-%d.rdb", os.Getpid()))
	f, err := os.Create(tmpName)
	if err != nil {
		return err
	}

	if err := Save(f, st, aux, opts); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}

	s.bio.SubmitSyncFile(func() error {
		return f.Sync()
	})
	s.bio.WaitOne(bio.SyncFile)

	s.bio.SubmitCloseFile(f)
	s.bio.WaitOne(bio.CloseFile)

	if err := os.Rename(tmpName, filepath.Join(s.dir, s.dstName)); err != nil {
		return err
	}

	st.ResetDirty(time.Now())
	return nil
}

// SaveToSocket writes a snapshot straight to an io.Writer. Unlike Run,
// this does not involve bio or a temp file. It is a plain Save: the output
// carries no `$EOF:` framing; WriteSocketSnapshot adds that framing for
// socket-based transfer (spec §6 "Socket-based snapshot transfer").
func SaveToSocket(w io.Writer, st *store.Store, aux AuxFields, opts WriteOptions) error {
	return Save(w, st, aux, opts)
}
