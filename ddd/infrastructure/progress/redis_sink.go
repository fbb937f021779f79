package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hls-service/ddd/domain/vo"
	"hls-service/pkg/logger"
)

const snapshotTTL = 24 * time.Hour

// RedisSink mirrors the latest progress snapshot and terminal outcome of each
// job into redis so other instances (or an operator poking around) can read
// them without hitting the owning process. Best-effort only.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	if client == nil {
		return nil
	}
	return &RedisSink{client: client}
}

func (s *RedisSink) StoreProgress(ctx context.Context, jobID string, snap vo.ProgressSnapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, progressKey(jobID), payload, snapshotTTL).Err(); err != nil {
		logger.Debugf("redis progress mirror failed job_id=%s err=%v", jobID, err)
	}
}

// StoreOutcome 记录终态：成功写 master 地址，失败写错误描述。
func (s *RedisSink) StoreOutcome(ctx context.Context, jobID, state, detail string) {
	payload, err := json.Marshal(map[string]string{"state": state, "detail": detail})
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, outcomeKey(jobID), payload, snapshotTTL).Err(); err != nil {
		logger.Debugf("redis outcome mirror failed job_id=%s err=%v", jobID, err)
	}
}

func progressKey(jobID string) string { return fmt.Sprintf("hls:job:%s:progress", jobID) }
func outcomeKey(jobID string) string  { return fmt.Sprintf("hls:job:%s:outcome", jobID) }
