package port

import (
	"context"

	"hls-service/ddd/domain/vo"
)

// Execution is a handle on a running transcode process. Lines must be drained
// concurrently with the process or it may stall on a full stderr pipe.
type Execution interface {
	// Lines streams diagnostic output line by line; closed on process exit.
	Lines() <-chan string
	// Wait blocks until the process exits. A non-zero exit is returned as an
	// error carrying the captured diagnostic tail.
	Wait() error
	// Cancel terminates the process. Safe to call more than once.
	Cancel()
}

// TranscodeInvoker builds and launches one transcode invocation covering all
// renditions of a job.
type TranscodeInvoker interface {
	Start(ctx context.Context, input string, specs []vo.RenditionSpec, workspace string) (Execution, error)
}
