package http

import (
	"github.com/gin-gonic/gin"

	"hls-service/ddd/application/app"
	"hls-service/ddd/application/cqe"
	"hls-service/ddd/application/dto"
	"hls-service/ddd/infrastructure/worker"
	"hls-service/pkg/restapi"
)

// ConversionController 转换任务控制器
type ConversionController struct {
	convertApp    app.ConvertApp
	convertWorker worker.ConvertWorker
}

// NewConversionController 创建转换任务控制器
func NewConversionController(convertApp app.ConvertApp, convertWorker worker.ConvertWorker) *ConversionController {
	return &ConversionController{
		convertApp:    convertApp,
		convertWorker: convertWorker,
	}
}

// CreateJob 受理转换请求
func (c *ConversionController) CreateJob(ctx *gin.Context) {
	var req cqe.CreateConversionJobReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.convertApp.SubmitConversion(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}

	restapi.Success(ctx, resp)
}

// GetJob 查询任务详情
func (c *ConversionController) GetJob(ctx *gin.Context) {
	req := cqe.QueryConversionJobReq{JobID: ctx.Param("job_id")}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.convertApp.GetConversionJob(ctx.Request.Context(), req.JobID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}

	restapi.Success(ctx, resp)
}

// ListJobs 列出本实例持有的任务
func (c *ConversionController) ListJobs(ctx *gin.Context) {
	restapi.Success(ctx, c.convertApp.ListConversionJobs(ctx.Request.Context()))
}

// GetWorkerStats 工作池统计
func (c *ConversionController) GetWorkerStats(ctx *gin.Context) {
	stats := c.convertWorker.GetStats()
	restapi.Success(ctx, dto.WorkerStatsDto{
		ProcessedJobs:    stats.ProcessedJobs,
		SuccessfulJobs:   stats.SuccessfulJobs,
		FailedJobs:       stats.FailedJobs,
		CurrentlyRunning: stats.CurrentlyRunning,
		StartTime:        stats.StartTime,
	})
}
