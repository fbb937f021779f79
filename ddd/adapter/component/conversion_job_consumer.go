package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"hls-service/ddd/adapter/command"
	appsvc "hls-service/ddd/application/app"
	"hls-service/ddd/application/cqe"
	"hls-service/pkg/config"
	"hls-service/pkg/errno"
	pkgkafka "hls-service/pkg/kafka"
	"hls-service/pkg/logger"
)

const (
	defaultJobsTopic     = "hls.jobs"
	defaultConsumerGroup = "hls-service-group"
)

// ConversionJobConsumer 从 Kafka 接收转换请求，和 HTTP 入口走同一受理路径。
type ConversionJobConsumer struct {
	app    appsvc.ConvertApp
	ctx    context.Context
	cancel context.CancelFunc
}

func NewConversionJobConsumer(app appsvc.ConvertApp) *ConversionJobConsumer {
	return &ConversionJobConsumer{app: app}
}

// decodeSubmission 同时接受两种消息格式：JSON 对象
// {"source_url":..,"qualities":[..]}，以及 "/convert <url> [q1,q2]" 文本指令。
// /start 不产生任务，返回带用法说明的错误由调用方记日志。
func decodeSubmission(value []byte) (*cqe.CreateConversionJobReq, error) {
	text := strings.TrimSpace(string(value))
	if strings.HasPrefix(text, "{") {
		var m struct {
			SourceURL string   `json:"source_url"`
			Qualities []string `json:"qualities"`
		}
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", errno.ErrInvalidRequest, err)
		}
		return &cqe.CreateConversionJobReq{SourceURL: m.SourceURL, Qualities: m.Qualities}, nil
	}
	if command.IsStart(text) {
		return nil, fmt.Errorf("%w: %s", errno.ErrInvalidRequest, command.Usage())
	}
	cmd, err := command.ParseConvert(text)
	if err != nil {
		return nil, err
	}
	return &cqe.CreateConversionJobReq{SourceURL: cmd.SourceURL, Qualities: cmd.Qualities}, nil
}

func (c *ConversionJobConsumer) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)
	topic := defaultJobsTopic
	group := defaultConsumerGroup
	if cfg := config.GetGlobalConfig(); cfg != nil {
		if cfg.Kafka.Topics.ConvertJobs != "" {
			topic = cfg.Kafka.Topics.ConvertJobs
		}
		if cfg.Kafka.GroupID != "" {
			group = cfg.Kafka.GroupID
		}
	}
	reader := pkgkafka.DefaultClient().Reader(topic, group)
	go func() {
		defer reader.Close()
		logger.Infof("Kafka consumer started topic=%s group=%s", topic, group)
		for {
			msg, err := reader.ReadMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "EOF") {
					logger.Debugf("Kafka reader EOF")
				} else {
					logger.Warnf("Kafka read error error=%s", err.Error())
				}
				continue
			}
			req, err := decodeSubmission(msg.Value)
			if err != nil {
				logger.Warnf("Kafka message rejected error=%s", err.Error())
				continue
			}
			if job, err := c.app.SubmitConversion(context.Background(), req); err != nil {
				logger.Warnf("SubmitConversion failed error=%s source=%s", err.Error(), req.SourceURL)
			} else {
				logger.Infof("Kafka conversion accepted job_id=%s source=%s", job.JobID, req.SourceURL)
			}
		}
	}()
	return nil
}

func (c *ConversionJobConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *ConversionJobConsumer) Name() string { return "conversionJobConsumer" }
