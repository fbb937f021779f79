package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/port"
	"hls-service/ddd/domain/service"
	"hls-service/ddd/domain/vo"
	"hls-service/ddd/infrastructure/queue"
	"hls-service/pkg/errno"
)

type stubExecution struct{ lines chan string }

func (e *stubExecution) Lines() <-chan string { return e.lines }
func (e *stubExecution) Wait() error          { return nil }
func (e *stubExecution) Cancel()              {}

type stubInvoker struct {
	fail  bool
	delay time.Duration
}

func (s *stubInvoker) Start(ctx context.Context, input string, specs []vo.RenditionSpec, workspace string) (port.Execution, error) {
	if s.fail {
		return nil, fmt.Errorf("%w: no such binary", errno.ErrLaunch)
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	for _, spec := range specs {
		dir := filepath.Join(workspace, spec.PathFragment)
		_ = os.MkdirAll(dir, 0o755)
		_ = os.WriteFile(filepath.Join(dir, "prog.m3u8"), []byte("#EXTM3U\n"), 0o644)
		_ = os.WriteFile(filepath.Join(dir, "seg000.ts"), []byte{0x47}, 0o644)
	}
	e := &stubExecution{lines: make(chan string)}
	close(e.lines)
	return e, nil
}

type stubRelay struct{}

func (stubRelay) Relay(ctx context.Context, job *entity.ConversionJob, lines <-chan string) {
	for range lines {
	}
}

type stubNotifier struct{}

func (stubNotifier) Notify(ctx context.Context, jobID, text string) error { return nil }
func (stubNotifier) Result(ctx context.Context, jobID, text string) error { return nil }

type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, jobID, workspace string) (string, error) {
	return "http://h/hls/" + jobID + "/master.m3u8", nil
}
func (stubPublisher) KeepLocal() bool { return true }

func newOrchestrator(invoker port.TranscodeInvoker) *service.Orchestrator {
	return service.NewOrchestrator(
		service.NewRenditionPlanner("128k"),
		invoker,
		stubRelay{},
		service.NewPlaylistAssembler(),
		stubPublisher{},
		stubNotifier{},
		nil,
		0,
	)
}

func enqueueJob(t *testing.T, q queue.ConversionJobQueue) *entity.ConversionJob {
	t.Helper()
	req, err := vo.NewJobRequest("https://example.com/v.mp4", []string{"480"})
	if err != nil {
		t.Fatal(err)
	}
	workspace := filepath.Join(t.TempDir(), "job")
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		t.Fatal(err)
	}
	job := entity.NewConversionJob("job-w", req, workspace)
	if err := q.Enqueue(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	return job
}

func waitTerminal(t *testing.T, job *entity.ConversionJob) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job.State().IsTerminal() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job stuck in %s", job.State())
}

func TestWorkerProcessesQueuedJob(t *testing.T) {
	q := queue.NewMemoryConversionJobQueue(4)
	w := NewConvertWorker("test", newOrchestrator(&stubInvoker{}), q, nil, nil, 1)
	job := enqueueJob(t, q)

	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	waitTerminal(t, job)
	if job.State() != vo.StateSucceeded {
		t.Fatalf("state %s failure=%v", job.State(), job.Failure())
	}

	stats := w.GetStats()
	if stats.ProcessedJobs != 1 || stats.SuccessfulJobs != 1 {
		t.Fatalf("stats %+v", stats)
	}
}

func TestWorkerCountsFailures(t *testing.T) {
	q := queue.NewMemoryConversionJobQueue(4)
	w := NewConvertWorker("test", newOrchestrator(&stubInvoker{fail: true}), q, nil, nil, 1)
	job := enqueueJob(t, q)

	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	waitTerminal(t, job)
	if job.State() != vo.StateFailed {
		t.Fatalf("state %s", job.State())
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.GetStats().FailedJobs == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("stats %+v", w.GetStats())
}

func TestWorkerIsolatesConcurrentJobWorkspaces(t *testing.T) {
	q := queue.NewMemoryConversionJobQueue(4)
	w := NewConvertWorker("test", newOrchestrator(&stubInvoker{delay: 50 * time.Millisecond}), q, nil, nil, 2)

	base := t.TempDir()
	qualities := map[string]string{"job-a": "360", "job-b": "720"}
	jobs := make(map[string]*entity.ConversionJob, len(qualities))
	for id, quality := range qualities {
		req, err := vo.NewJobRequest("https://example.com/"+id+".mp4", []string{quality})
		if err != nil {
			t.Fatal(err)
		}
		workspace := filepath.Join(base, id)
		if err := os.MkdirAll(workspace, 0o755); err != nil {
			t.Fatal(err)
		}
		job := entity.NewConversionJob(id, req, workspace)
		if err := q.Enqueue(context.Background(), job); err != nil {
			t.Fatal(err)
		}
		jobs[id] = job
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for _, job := range jobs {
		waitTerminal(t, job)
		if job.State() != vo.StateSucceeded {
			t.Fatalf("job %s state %s failure=%v", job.JobID(), job.State(), job.Failure())
		}
	}

	for id, job := range jobs {
		ownLabel := qualities[id] + "p"
		if _, err := os.Stat(filepath.Join(job.Workspace(), ownLabel, "prog.m3u8")); err != nil {
			t.Fatalf("job %s missing own rendition %s: %v", id, ownLabel, err)
		}
		for otherID, otherQuality := range qualities {
			if otherID == id {
				continue
			}
			foreign := filepath.Join(job.Workspace(), otherQuality+"p")
			if _, err := os.Stat(foreign); !os.IsNotExist(err) {
				t.Fatalf("job %s workspace contains foreign rendition dir %s", id, foreign)
			}
		}
	}
}

func TestWorkerStartTwice(t *testing.T) {
	q := queue.NewMemoryConversionJobQueue(1)
	w := NewConvertWorker("test", newOrchestrator(&stubInvoker{}), q, nil, nil, 2)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("second start must fail")
	}
	if !w.IsRunning() {
		t.Fatal("worker should be running")
	}
}
