// Package workers runs background jobs next to the HTTP server.
//
// A [Worker] is started once with a context and stopped on shutdown.
// [Workers] groups them so the server can start and stop them together.
package workers

import "context"

// Worker is a background job.
//
// Start must not block; the job runs on its own goroutine until ctx is
// cancelled or Stop is called. Stop blocks until the goroutine has exited
// and is a no-op when the worker is not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
