package resource

import (
	"hls-service/pkg/kafka"
)

type KafkaResource struct{}

func (r *KafkaResource) MustOpen() { kafka.DefaultClient().MustOpen() }

func (r *KafkaResource) Close() { kafka.DefaultClient().Close() }
