package dto

import (
	"time"

	"hls-service/ddd/domain/entity"
)

// ConversionJobDto 转换任务数据传输对象
type ConversionJobDto struct {
	JobID        string         `json:"job_id"`
	SourceURL    string         `json:"source_url"`
	State        string         `json:"state"`
	Renditions   []RenditionDto `json:"renditions,omitempty"`
	Progress     *ProgressDto   `json:"progress,omitempty"`
	MasterURL    string         `json:"master_url,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RenditionDto 单个清晰度档位
type RenditionDto struct {
	Label      string `json:"label"`
	Resolution string `json:"resolution"`
	Bandwidth  int    `json:"bandwidth"`
}

// ProgressDto 最近一条转码输出
type ProgressDto struct {
	Seq            int64     `json:"seq"`
	Line           string    `json:"line"`
	RenditionIndex int       `json:"rendition_index"`
	At             time.Time `json:"at"`
}

// WorkerStatsDto 工作池运行统计
type WorkerStatsDto struct {
	ProcessedJobs    uint64    `json:"processed_jobs"`
	SuccessfulJobs   uint64    `json:"successful_jobs"`
	FailedJobs       uint64    `json:"failed_jobs"`
	CurrentlyRunning int       `json:"currently_running"`
	StartTime        time.Time `json:"start_time"`
}

// NewConversionJobDto 从实体创建DTO
func NewConversionJobDto(job *entity.ConversionJob) *ConversionJobDto {
	if job == nil {
		return nil
	}
	d := &ConversionJobDto{
		JobID:     job.JobID(),
		SourceURL: job.Request().SourceRef,
		State:     string(job.State()),
		MasterURL: job.ResultURL(),
		CreatedAt: job.CreatedAt(),
	}
	for _, spec := range job.Renditions() {
		d.Renditions = append(d.Renditions, RenditionDto{
			Label:      spec.Label,
			Resolution: spec.Resolution(),
			Bandwidth:  spec.BandwidthBps(),
		})
	}
	if snap := job.LastProgress(); snap != nil {
		d.Progress = &ProgressDto{
			Seq:            snap.Seq,
			Line:           snap.Line,
			RenditionIndex: snap.RenditionIndex,
			At:             snap.At,
		}
	}
	if failure := job.Failure(); failure != nil {
		d.ErrorMessage = failure.Error()
	}
	return d
}
