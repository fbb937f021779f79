package port

import (
	"context"

	"hls-service/ddd/domain/entity"
)

// ProgressRelay consumes a transcode diagnostic stream and forwards throttled
// snapshots to the requester. Relay returns once the stream is closed; it must
// run concurrently with the process so the stderr pipe never fills up.
type ProgressRelay interface {
	Relay(ctx context.Context, job *entity.ConversionJob, lines <-chan string)
}
