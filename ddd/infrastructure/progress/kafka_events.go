package progress

import (
	"context"
	"encoding/json"
	"time"

	pkgkafka "hls-service/pkg/kafka"
	"hls-service/pkg/logger"
)

// KafkaEventSink 将任务终态事件发布到 Kafka，供下游服务订阅而无需轮询 HTTP 接口。
// 发布失败只记日志，不影响任务结果。
type KafkaEventSink struct {
	topic string
}

func NewKafkaEventSink(topic string) *KafkaEventSink {
	if topic == "" {
		return nil
	}
	return &KafkaEventSink{topic: topic}
}

type outcomeEvent struct {
	JobID  string `json:"job_id"`
	State  string `json:"state"`
	Detail string `json:"detail"`
	At     string `json:"at"`
}

// PublishOutcome 发布一条终态事件。detail 为成功时的 master playlist 地址，
// 失败时为错误摘要。
func (s *KafkaEventSink) PublishOutcome(ctx context.Context, jobID, state, detail string) {
	if s == nil {
		return
	}
	payload := encodeOutcomeEvent(jobID, state, detail, time.Now())
	if err := pkgkafka.DefaultClient().Produce(ctx, s.topic, []byte(jobID), payload); err != nil {
		logger.Warnf("Failed to publish job outcome event job_id=%s topic=%s error=%v", jobID, s.topic, err)
	}
}

func encodeOutcomeEvent(jobID, state, detail string, at time.Time) []byte {
	data, _ := json.Marshal(outcomeEvent{
		JobID:  jobID,
		State:  state,
		Detail: detail,
		At:     at.UTC().Format(time.RFC3339),
	})
	return data
}
