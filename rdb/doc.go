/*
Package rdb implements the snapshot serializer: a single self-contained
binary file format that captures an entire multi-database store so it can
be reloaded into a fresh process to identical semantics (spec §4.2).

Save walks each non-empty database with a safe iterator (suspending
incremental rehash for its duration) and emits one tagged record per
entry: optional expiry/idle/frequency metadata, a value-type tag, the key,
and the value in the encoding chosen for that type. Load does the reverse,
dispatching on each opcode until it reaches the end-of-file marker and
verifying the trailing CRC64.

BackgroundSaver writes a snapshot to a temp file and atomically renames it
into place. It does not fork and takes no copy-on-write snapshot: it runs
Save on the live store from the calling goroutine; see backgroundsave.go.
*/
package rdb
