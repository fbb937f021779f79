package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/gateway"
	"hls-service/ddd/domain/port"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/errno"
	"hls-service/pkg/logger"
)

// Orchestrator 驱动单个任务走完
// Accepted → Planning → Transcoding → Assembling → Publishing → Succeeded/Failed。
// 任一阶段失败即短路到 Failed，不做自动重试，工作目录在所有退出路径上回收。
type Orchestrator struct {
	planner    RenditionPlanner
	invoker    port.TranscodeInvoker
	relay      port.ProgressRelay
	assembler  PlaylistAssembler
	publisher  port.Publisher
	notifier   port.ProgressNotifier
	storage    gateway.StorageGateway
	jobTimeout time.Duration
}

func NewOrchestrator(
	planner RenditionPlanner,
	invoker port.TranscodeInvoker,
	relay port.ProgressRelay,
	assembler PlaylistAssembler,
	publisher port.Publisher,
	notifier port.ProgressNotifier,
	storage gateway.StorageGateway,
	jobTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		planner:    planner,
		invoker:    invoker,
		relay:      relay,
		assembler:  assembler,
		publisher:  publisher,
		notifier:   notifier,
		storage:    storage,
		jobTimeout: jobTimeout,
	}
}

// Run 执行任务直至终态，返回终态错误（成功时为nil）。
func (o *Orchestrator) Run(ctx context.Context, job *entity.ConversionJob) error {
	if o.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.jobTimeout)
		defer cancel()
	}

	defer o.cleanup(job)

	if err := o.run(ctx, job); err != nil {
		job.Fail(err)
		o.deliverResult(job, fmt.Sprintf("Conversion %s failed: %s", job.JobID(), err.Error()))
		return err
	}

	o.deliverResult(job, fmt.Sprintf("Conversion finished. Master playlist: %s", job.ResultURL()))
	return nil
}

func (o *Orchestrator) run(ctx context.Context, job *entity.ConversionJob) error {
	if err := job.Transition(vo.StatePlanning); err != nil {
		return err
	}
	specs, err := o.planner.Plan(job.Request().Qualities)
	if err != nil {
		return err
	}
	job.SetRenditions(specs)

	input, err := o.resolveInput(ctx, job)
	if err != nil {
		return err
	}

	if err := job.Transition(vo.StateTranscoding); err != nil {
		return err
	}
	exec, err := o.invoker.Start(ctx, input, specs, job.Workspace())
	if err != nil {
		return err
	}

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		o.relay.Relay(ctx, job, exec.Lines())
	}()

	waitErr := exec.Wait()
	<-relayDone
	if waitErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", errno.ErrCancelled, ctx.Err())
		}
		return waitErr
	}

	if err := job.Transition(vo.StateAssembling); err != nil {
		return err
	}
	if err := o.assembler.Assemble(job.Workspace(), specs); err != nil {
		return err
	}

	if err := job.Transition(vo.StatePublishing); err != nil {
		return err
	}
	masterURL, err := o.publisher.Publish(ctx, job.JobID(), job.Workspace())
	if err != nil {
		return err
	}

	return job.Succeed(masterURL)
}

// resolveInput 返回转码器的输入。http(s) 来源由转码器直接拉流，
// 对象存储来源先下载到工作目录，随工作目录一起回收。
func (o *Orchestrator) resolveInput(ctx context.Context, job *entity.ConversionJob) (string, error) {
	req := job.Request()
	if req.IsRemoteHTTP() {
		return req.SourceRef, nil
	}

	key := req.ObjectKey()
	if key == "" {
		return "", fmt.Errorf("%w: %s", errno.ErrInvalidRequest, req.SourceRef)
	}
	if o.storage == nil {
		return "", fmt.Errorf("%w: object storage not configured", errno.ErrLaunch)
	}

	localInput := filepath.Join(job.Workspace(), "source"+filepath.Ext(key))
	if err := o.storage.DownloadFile(ctx, key, localInput); err != nil {
		return "", fmt.Errorf("%w: fetch source: %v", errno.ErrLaunch, err)
	}
	return localInput, nil
}

// deliverResult 下发终态消息。通知通道不可达时只记日志，不影响任务结果。
func (o *Orchestrator) deliverResult(job *entity.ConversionJob, text string) {
	if o.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.notifier.Result(ctx, job.JobID(), text); err != nil {
		logger.Warnf("result delivery failed job_id=%s error=%s", job.JobID(), err.Error())
	}
}

// cleanup 回收工作目录；本地静态发布成功时工作目录即发布产物，予以保留。
func (o *Orchestrator) cleanup(job *entity.ConversionJob) {
	if job.State() == vo.StateSucceeded && o.publisher != nil && o.publisher.KeepLocal() {
		return
	}
	workspace := job.Workspace()
	if strings.TrimSpace(workspace) == "" || workspace == string(os.PathSeparator) {
		return
	}
	if err := os.RemoveAll(workspace); err != nil {
		logger.Warnf("workspace cleanup failed job_id=%s path=%s error=%s", job.JobID(), workspace, err.Error())
	}
}

// Classify 将任意阶段错误归入错误码表，供上层构造用户可见消息。
func Classify(err error) *errno.Errno {
	var e *errno.Errno
	if errors.As(err, &e) {
		return e
	}
	return errno.ErrUnknown
}
