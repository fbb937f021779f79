package service

import (
	"fmt"
	"sort"
	"strings"

	"hls-service/ddd/domain/vo"
	"hls-service/pkg/errno"
)

// RenditionPlanner 将请求的清晰度标签解析为具体的编码档位
type RenditionPlanner interface {
	Plan(labels []string) ([]vo.RenditionSpec, error)
}

type renditionPlannerImpl struct {
	audioBitrate string
}

// NewRenditionPlanner 创建档位规划器。audioBitrate 为所有档位共享的音频码率。
func NewRenditionPlanner(audioBitrate string) RenditionPlanner {
	if strings.TrimSpace(audioBitrate) == "" {
		audioBitrate = "128k"
	}
	return &renditionPlannerImpl{audioBitrate: audioBitrate}
}

// Plan 去重、校验并按目标高度升序排列，保证下游顺序确定。
// 标签不在固定档位表内时整个请求失败，不做静默回退。
func (p *renditionPlannerImpl) Plan(labels []string) ([]vo.RenditionSpec, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: empty quality set", errno.ErrInvalidRequest)
	}

	seen := make(map[string]bool, len(labels))
	specs := make([]vo.RenditionSpec, 0, len(labels))
	for _, label := range labels {
		spec, ok := vo.LookupQuality(label)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errno.ErrInvalidQuality, label)
		}
		if seen[spec.Label] {
			continue
		}
		seen[spec.Label] = true
		spec.AudioBitrate = p.audioBitrate
		spec.PathFragment = spec.Label
		specs = append(specs, spec)
	}

	sort.Slice(specs, func(i, k int) bool { return specs[i].Height < specs[k].Height })
	return specs, nil
}
