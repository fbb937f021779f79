package vo

import (
	"fmt"
	"strings"
	"time"

	"hls-service/pkg/errno"
)

// JobRequest 一次转换请求。接受后不可变。
type JobRequest struct {
	SourceRef string    `json:"source_ref"`
	Qualities []string  `json:"qualities"`
	CreatedAt time.Time `json:"created_at"`
}

// 允许的来源协议。http(s) 由 ffmpeg 直接拉流，minio 先经存储网关下载。
var recognizedSchemes = []string{"http://", "https://", "minio://"}

// NewJobRequest 校验来源协议并构造请求；qualities 为空时由上层填入默认档位。
func NewJobRequest(sourceRef string, qualities []string) (JobRequest, error) {
	ref := strings.TrimSpace(sourceRef)
	if ref == "" {
		return JobRequest{}, fmt.Errorf("%w: empty source reference", errno.ErrInvalidRequest)
	}
	recognized := false
	for _, scheme := range recognizedSchemes {
		if strings.HasPrefix(ref, scheme) {
			recognized = true
			break
		}
	}
	if !recognized {
		return JobRequest{}, fmt.Errorf("%w: unrecognized source scheme: %s", errno.ErrInvalidRequest, ref)
	}
	return JobRequest{
		SourceRef: ref,
		Qualities: qualities,
		CreatedAt: time.Now(),
	}, nil
}

// IsRemoteHTTP 判断来源是否可由转码器直接拉流
func (r JobRequest) IsRemoteHTTP() bool {
	return strings.HasPrefix(r.SourceRef, "http://") || strings.HasPrefix(r.SourceRef, "https://")
}

// ObjectKey 返回 minio:// 来源的对象键，非对象存储来源返回空串。
func (r JobRequest) ObjectKey() string {
	if strings.HasPrefix(r.SourceRef, "minio://") {
		return strings.TrimPrefix(r.SourceRef, "minio://")
	}
	return ""
}
