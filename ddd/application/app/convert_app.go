package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"hls-service/ddd/application/cqe"
	"hls-service/ddd/application/dto"
	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
	"hls-service/ddd/infrastructure/queue"
	"hls-service/pkg/config"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

type ConvertApp interface {
	// SubmitConversion 受理转换请求：校验、建工作目录、入队。
	SubmitConversion(ctx context.Context, req *cqe.CreateConversionJobReq) (*dto.ConversionJobDto, error)
	// GetConversionJob 查询任务当前状态
	GetConversionJob(ctx context.Context, jobID string) (*dto.ConversionJobDto, error)
	// ListConversionJobs 列出本实例持有的全部任务
	ListConversionJobs(ctx context.Context) []*dto.ConversionJobDto
}

type convertAppImpl struct {
	cfg      *config.Config
	jobQueue queue.ConversionJobQueue
	jobs     sync.Map // jobID -> *entity.ConversionJob
}

func NewConvertApp(cfg *config.Config, jobQueue queue.ConversionJobQueue) ConvertApp {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &convertAppImpl{cfg: cfg, jobQueue: jobQueue}
}

func (a *convertAppImpl) SubmitConversion(ctx context.Context, req *cqe.CreateConversionJobReq) (*dto.ConversionJobDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	qualities := req.Qualities
	if len(qualities) == 0 {
		qualities = a.cfg.Convert.DefaultQualities
	}
	jobRequest, err := vo.NewJobRequest(req.SourceURL, qualities)
	if err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	workspace := filepath.Join(a.cfg.Publish.OutputDir, jobID)
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create workspace: %v", errno.ErrLaunch, err)
	}

	job := entity.NewConversionJob(jobID, jobRequest, workspace)
	a.jobs.Store(jobID, job)

	if err := a.jobQueue.Enqueue(ctx, job); err != nil {
		a.jobs.Delete(jobID)
		_ = os.RemoveAll(workspace)
		return nil, err
	}

	logger.Infof("conversion accepted job_id=%s source=%s qualities=%v", jobID, req.SourceURL, qualities)
	return dto.NewConversionJobDto(job), nil
}

func (a *convertAppImpl) GetConversionJob(ctx context.Context, jobID string) (*dto.ConversionJobDto, error) {
	value, ok := a.jobs.Load(jobID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrJobNotFound, jobID)
	}
	return dto.NewConversionJobDto(value.(*entity.ConversionJob)), nil
}

func (a *convertAppImpl) ListConversionJobs(ctx context.Context) []*dto.ConversionJobDto {
	out := make([]*dto.ConversionJobDto, 0, 16)
	a.jobs.Range(func(_, value any) bool {
		out = append(out, dto.NewConversionJobDto(value.(*entity.ConversionJob)))
		return true
	})
	return out
}
