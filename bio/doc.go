/*
Package bio implements the background work queue that keeps slow,
blocking operations off the request-serving path: closing files, syncing
them to disk, and freeing large aggregate values (spec §4.3).

One worker goroutine owns each of the three fixed job kinds. Each kind has
its own FIFO queue guarded by a mutex and two condition variables ("new
job" and "step done"); there is no ordering guarantee across kinds, but
completion order within one kind always matches submission order.

Jobs are fire-and-forget: Submit never blocks on completion, and there is
no completion callback. A caller that needs to know a kind has drained
calls WaitOne, which blocks until at least one job of that kind finishes.
*/
package bio
