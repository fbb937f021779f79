package port

import "context"

// Publisher makes a completed job workspace retrievable and returns the
// public master playlist URL.
type Publisher interface {
	Publish(ctx context.Context, jobID, workspace string) (string, error)
	// KeepLocal reports whether the workspace itself is the publication
	// target and must survive job cleanup.
	KeepLocal() bool
}
