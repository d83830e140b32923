package bio

import "log/slog"

// runWorker is the per-kind worker loop (spec §4.3 "Worker loop"). It runs
// until the queue is closed and fully drained.
func runWorker(kind Kind, q *queue, logger *slog.Logger) {
	for {
		job, ok := q.popFront()
		if !ok {
			return
		}
		dispatch(kind, job, logger)
		q.complete()
	}
}

// dispatch executes one job. Background workers cannot propagate errors
// to any caller (jobs are fire-and-forget, spec §7 "Propagation rule"), so
// failures are logged and the loop continues.
func dispatch(kind Kind, job Job, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("bio: job panicked", "kind", kind.String(), "recovered", r)
		}
	}()

	switch kind {
	case CloseFile:
		if job.CloseFile.File == nil {
			return
		}
		if err := job.CloseFile.File.Close(); err != nil {
			logger.Error("bio: close-file job failed", "err", err)
		}

	case SyncFile:
		if job.SyncFile.Sync == nil {
			return
		}
		if err := job.SyncFile.Sync(); err != nil {
			logger.Error("bio: sync-file job failed", "err", err)
		}

	case FreeValue:
		if job.FreeValue.Destroy == nil {
			return
		}
		job.FreeValue.Destroy()

	default:
		logger.Error("bio: unknown job kind", "kind", int(kind))
	}
}
