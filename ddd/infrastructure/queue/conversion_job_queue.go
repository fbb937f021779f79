package queue

import (
	"context"
	"fmt"
	"sync"

	"hls-service/ddd/domain/entity"
	"hls-service/pkg/errno"
)

type ConversionJobQueue interface {
	Enqueue(ctx context.Context, job *entity.ConversionJob) error
	Dequeue(ctx context.Context) (*entity.ConversionJob, error)
	Size() int
	Close() error
	IsClosed() bool
}

type memoryConversionJobQueue struct {
	queue  chan *entity.ConversionJob
	closed bool
	mu     sync.RWMutex
}

func NewMemoryConversionJobQueue(capacity int) ConversionJobQueue {
	if capacity <= 0 {
		capacity = 100
	}
	return &memoryConversionJobQueue{queue: make(chan *entity.ConversionJob, capacity)}
}

// Enqueue 满了立即拒绝，不阻塞接收端
func (q *memoryConversionJobQueue) Enqueue(ctx context.Context, job *entity.ConversionJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("queue is closed")
	}
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	select {
	case q.queue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %d jobs pending", errno.ErrQueueFull, len(q.queue))
	}
}

func (q *memoryConversionJobQueue) Dequeue(ctx context.Context) (*entity.ConversionJob, error) {
	q.mu.RLock()
	ch := q.queue
	closed := q.closed
	q.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("queue is closed")
	}
	select {
	case job, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("queue is closed")
		}
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *memoryConversionJobQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return 0
	}
	return len(q.queue)
}

func (q *memoryConversionJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.queue)
	return nil
}

func (q *memoryConversionJobQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
