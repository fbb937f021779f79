package port

import "context"

// ProgressNotifier delivers human-readable job updates to the requester's
// channel. The first Notify for a job creates a message; later calls edit it
// in place when the channel supports edits. Delivery is best-effort: errors
// are reported back but callers must never abort the job because of them.
type ProgressNotifier interface {
	Notify(ctx context.Context, jobID, text string) error
	// Result delivers the terminal success/failure message as a new message.
	Result(ctx context.Context, jobID, text string) error
}
