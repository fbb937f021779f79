package publisher

import (
	"context"
	"fmt"
	"os"
	"strings"

	"hls-service/ddd/domain/service"
	"hls-service/pkg/errno"
)

// LocalPublisher serves jobs straight from the output directory via the
// static HLS route. Publication is a no-op beyond a sanity check; the
// workspace itself is the published artifact, so it must not be cleaned up.
type LocalPublisher struct {
	baseURL string
}

// NewLocalPublisher 的 baseURL 形如 http://host:port/hls，末尾斜杠可有可无。
func NewLocalPublisher(baseURL string) *LocalPublisher {
	return &LocalPublisher{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

func (p *LocalPublisher) Publish(ctx context.Context, jobID, workspace string) (string, error) {
	if _, err := os.Stat(workspace); err != nil {
		return "", fmt.Errorf("%w: workspace missing: %v", errno.ErrPublishFailed, err)
	}
	return p.baseURL + "/" + jobID + "/" + service.MasterPlaylistName, nil
}

func (p *LocalPublisher) KeepLocal() bool { return true }
