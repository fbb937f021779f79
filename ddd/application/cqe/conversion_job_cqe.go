package cqe

import (
	"fmt"
	"strings"

	"hls-service/pkg/errno"
)

// CreateConversionJobReq 创建转换任务请求
type CreateConversionJobReq struct {
	SourceURL string   `json:"source_url" binding:"required"` // 源视频地址
	Qualities []string `json:"qualities"`                     // 清晰度列表，空则用服务默认
}

func (req *CreateConversionJobReq) Validate() error {
	if strings.TrimSpace(req.SourceURL) == "" {
		return fmt.Errorf("%w: source_url is required", errno.ErrInvalidRequest)
	}
	return nil
}

// QueryConversionJobReq 查询转换任务请求
type QueryConversionJobReq struct {
	JobID string `uri:"job_id" binding:"required"`
}

func (req *QueryConversionJobReq) Validate() error {
	if strings.TrimSpace(req.JobID) == "" {
		return fmt.Errorf("%w: job_id is required", errno.ErrInvalidRequest)
	}
	return nil
}
