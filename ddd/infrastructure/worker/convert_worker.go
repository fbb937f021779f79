package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hls-service/ddd/domain/service"
	"hls-service/ddd/infrastructure/progress"
	"hls-service/ddd/infrastructure/queue"
	"hls-service/pkg/logger"
)

type WorkerStats struct {
	ProcessedJobs    uint64
	SuccessfulJobs   uint64
	FailedJobs       uint64
	CurrentlyRunning int
	StartTime        time.Time
	LastJobTime      time.Time
}

type ConvertWorker interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	GetStats() WorkerStats
}

// convertWorkerImpl 固定并发度的转换工作池，从内存队列取任务交给编排器。
type convertWorkerImpl struct {
	id           string
	orchestrator *service.Orchestrator
	jobQueue     queue.ConversionJobQueue
	sink         *progress.RedisSink
	events       *progress.KafkaEventSink
	workerCount  int
	running      bool
	cancel       context.CancelFunc
	stats        WorkerStats
	mu           sync.RWMutex
	wg           sync.WaitGroup
}

func NewConvertWorker(id string, orchestrator *service.Orchestrator, jobQueue queue.ConversionJobQueue, sink *progress.RedisSink, events *progress.KafkaEventSink, workerCount int) ConvertWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &convertWorkerImpl{
		id:           id,
		orchestrator: orchestrator,
		jobQueue:     jobQueue,
		sink:         sink,
		events:       events,
		workerCount:  workerCount,
		stats:        WorkerStats{StartTime: time.Now()},
	}
}

func (w *convertWorkerImpl) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("worker %s is already running", w.id)
	}
	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.stats.StartTime = time.Now()

	w.wg.Add(w.workerCount)
	for i := 0; i < w.workerCount; i++ {
		go w.workerLoop(workerCtx)
	}
	logger.Infof("convert worker started id=%s concurrency=%d", w.id, w.workerCount)
	return nil
}

func (w *convertWorkerImpl) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.running = false
	logger.Infof("convert worker stopped id=%s", w.id)
	return nil
}

func (w *convertWorkerImpl) Name() string { return "convertWorker-" + w.id }

func (w *convertWorkerImpl) IsRunning() bool      { w.mu.RLock(); defer w.mu.RUnlock(); return w.running }
func (w *convertWorkerImpl) GetStats() WorkerStats { w.mu.RLock(); defer w.mu.RUnlock(); return w.stats }

func (w *convertWorkerImpl) workerLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		job, err := w.jobQueue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if job == nil {
			continue
		}

		w.updateStats(func(s *WorkerStats) {
			s.ProcessedJobs++
			s.CurrentlyRunning++
			s.LastJobTime = time.Now()
		})
		runErr := w.orchestrator.Run(ctx, job)
		w.updateStats(func(s *WorkerStats) {
			s.CurrentlyRunning--
			if runErr != nil {
				s.FailedJobs++
			} else {
				s.SuccessfulJobs++
			}
		})
		if runErr != nil {
			logger.Warnf("conversion failed job_id=%s err=%v", job.JobID(), runErr)
		}
		detail := job.ResultURL()
		if runErr != nil {
			detail = runErr.Error()
		}
		if w.sink != nil {
			w.sink.StoreOutcome(ctx, job.JobID(), string(job.State()), detail)
		}
		w.events.PublishOutcome(ctx, job.JobID(), string(job.State()), detail)
	}
}

func (w *convertWorkerImpl) updateStats(f func(*WorkerStats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f(&w.stats)
}
