package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
	"hls-service/pkg/errno"
)

func queueJob(t *testing.T, id string) *entity.ConversionJob {
	t.Helper()
	req, err := vo.NewJobRequest("https://example.com/v.mp4", []string{"480"})
	if err != nil {
		t.Fatal(err)
	}
	return entity.NewConversionJob(id, req, t.TempDir())
}

func TestEnqueueDequeueOrder(t *testing.T) {
	q := NewMemoryConversionJobQueue(4)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, queueJob(t, id)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		job, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if job.JobID() != want {
			t.Fatalf("expected %s, got %s", want, job.JobID())
		}
	}
}

func TestEnqueueFullRejectsWithQueueFull(t *testing.T) {
	q := NewMemoryConversionJobQueue(1)
	ctx := context.Background()
	if err := q.Enqueue(ctx, queueJob(t, "a")); err != nil {
		t.Fatal(err)
	}
	err := q.Enqueue(ctx, queueJob(t, "b"))
	if !errors.Is(err, errno.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDequeueHonorsContext(t *testing.T) {
	q := NewMemoryConversionJobQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := q.Dequeue(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestCloseStopsQueue(t *testing.T) {
	q := NewMemoryConversionJobQueue(1)
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if !q.IsClosed() {
		t.Fatal("queue should report closed")
	}
	if err := q.Enqueue(context.Background(), queueJob(t, "a")); err == nil {
		t.Fatal("enqueue after close must fail")
	}
}
