package progress

import (
	"context"
	"strings"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/port"
	"hls-service/pkg/logger"
)

const (
	defaultInterval = 3 * time.Second
	defaultMaxChars = 400
)

// ThrottledRelay forwards transcode diagnostics to the notifier at most once
// per interval. Every line is still recorded on the job so the query surface
// sees the latest snapshot even between notifications.
type ThrottledRelay struct {
	notifier port.ProgressNotifier
	sink     *RedisSink
	interval time.Duration
	maxChars int
}

func NewThrottledRelay(notifier port.ProgressNotifier, sink *RedisSink, interval time.Duration, maxChars int) *ThrottledRelay {
	if interval <= 0 {
		interval = defaultInterval
	}
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &ThrottledRelay{notifier: notifier, sink: sink, interval: interval, maxChars: maxChars}
}

func (r *ThrottledRelay) Relay(ctx context.Context, job *entity.ConversionJob, lines <-chan string) {
	var lastSent time.Time
	for line := range lines {
		snap := job.RecordProgress(line, renditionIndex(line, job))
		if r.sink != nil {
			r.sink.StoreProgress(ctx, job.JobID(), snap)
		}

		if time.Since(lastSent) < r.interval {
			continue
		}
		lastSent = time.Now()

		if err := r.notifier.Notify(ctx, job.JobID(), truncateLine(line, r.maxChars)); err != nil {
			// 通知失败不影响任务本身
			logger.Warnf("progress notify failed job_id=%s err=%v", job.JobID(), err)
		}
	}
}

// renditionIndex 根据行内出现的清晰度目录名猜测所属变体，猜不到返回 -1。
func renditionIndex(line string, job *entity.ConversionJob) int {
	for idx, spec := range job.Renditions() {
		if strings.Contains(line, "/"+spec.PathFragment+"/") {
			return idx
		}
	}
	return -1
}

func truncateLine(line string, maxChars int) string {
	runes := []rune(line)
	if len(runes) <= maxChars {
		return line
	}
	return string(runes[:maxChars])
}
