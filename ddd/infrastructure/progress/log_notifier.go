package progress

import (
	"context"
	"sync"

	"hls-service/pkg/logger"
)

// LogNotifier is the in-process ProgressNotifier. The first Notify for a job
// "creates" the status message, later calls "edit" it, mirroring chat
// transports that support message edits. A real transport adapter can replace
// this without touching the pipeline.
type LogNotifier struct {
	mu      sync.Mutex
	created map[string]bool
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{created: make(map[string]bool)}
}

func (n *LogNotifier) Notify(ctx context.Context, jobID, text string) error {
	n.mu.Lock()
	first := !n.created[jobID]
	n.created[jobID] = true
	n.mu.Unlock()

	if first {
		logger.Infof("progress message created job_id=%s text=%s", jobID, text)
	} else {
		logger.Infof("progress message edited job_id=%s text=%s", jobID, text)
	}
	return nil
}

func (n *LogNotifier) Result(ctx context.Context, jobID, text string) error {
	n.mu.Lock()
	delete(n.created, jobID)
	n.mu.Unlock()

	logger.Infof("result message job_id=%s text=%s", jobID, text)
	return nil
}
