package entity

import (
	"fmt"
	"sync"
	"time"

	"hls-service/ddd/domain/vo"
)

// ConversionJob 一次端到端的转换任务。工作目录为该任务独占，
// 生命周期内不与其他任务共享。
type ConversionJob struct {
	mu           sync.RWMutex
	jobID        string
	request      vo.JobRequest
	workspace    string
	renditions   []vo.RenditionSpec
	state        vo.JobState
	progressSeq  int64
	lastProgress *vo.ProgressSnapshot
	resultURL    string
	failure      error
	createdAt    time.Time
	updatedAt    time.Time
}

func NewConversionJob(jobID string, request vo.JobRequest, workspace string) *ConversionJob {
	now := time.Now()
	return &ConversionJob{
		jobID:     jobID,
		request:   request,
		workspace: workspace,
		state:     vo.StateAccepted,
		createdAt: now,
		updatedAt: now,
	}
}

func (j *ConversionJob) JobID() string          { return j.jobID }
func (j *ConversionJob) Request() vo.JobRequest { return j.request }
func (j *ConversionJob) Workspace() string      { return j.workspace }
func (j *ConversionJob) CreatedAt() time.Time   { return j.createdAt }

func (j *ConversionJob) State() vo.JobState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

func (j *ConversionJob) Renditions() []vo.RenditionSpec {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.renditions
}

func (j *ConversionJob) ResultURL() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.resultURL
}

func (j *ConversionJob) Failure() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.failure
}

// LastProgress 返回最新的进度快照，可能为nil。
func (j *ConversionJob) LastProgress() *vo.ProgressSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastProgress
}

// Transition 推进任务状态。状态只能前进，违反约束时返回错误且状态不变。
func (j *ConversionJob) Transition(to vo.JobState) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.state.CanTransition(to) {
		return fmt.Errorf("illegal state transition %s -> %s", j.state, to)
	}
	j.state = to
	j.updatedAt = time.Now()
	return nil
}

// SetRenditions 记录规划结果，顺序即后续转码与播放列表的顺序。
func (j *ConversionJob) SetRenditions(specs []vo.RenditionSpec) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.renditions = specs
	j.updatedAt = time.Now()
}

// RecordProgress 记录最新进度，旧快照被覆盖。
func (j *ConversionJob) RecordProgress(line string, renditionIndex int) vo.ProgressSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progressSeq++
	snap := vo.ProgressSnapshot{
		Seq:            j.progressSeq,
		Line:           line,
		RenditionIndex: renditionIndex,
		At:             time.Now(),
	}
	j.lastProgress = &snap
	j.updatedAt = snap.At
	return snap
}

// Succeed 记录最终结果地址并进入终态。
func (j *ConversionJob) Succeed(masterURL string) error {
	if err := j.Transition(vo.StateSucceeded); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.resultURL = masterURL
	j.updatedAt = time.Now()
	return nil
}

// Fail 记录失败原因并进入终态。已处于终态时保持不变。
func (j *ConversionJob) Fail(cause error) {
	if err := j.Transition(vo.StateFailed); err != nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failure = cause
	j.updatedAt = time.Now()
}
