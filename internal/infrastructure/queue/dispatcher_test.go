package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

type recordingService struct {
	mu   sync.Mutex
	jobs []ports.CompensationJob
	done chan struct{}
}

func (s *recordingService) Compensate(_ context.Context, job ports.CompensationJob) error {
	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func TestDispatcher_ProcessesEnqueuedJobs(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}, 4)}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.CompensationJob{CustomerID: 42, SessionID: "s1"})
	d.Enqueue(ports.CompensationJob{CustomerID: 43, SessionID: "s2"})

	for i := 0; i < 2; i++ {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for job %d", i)
		}
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.jobs) != 2 {
		t.Fatalf("expected 2 jobs processed, got %d", len(svc.jobs))
	}
}

func TestDispatcher_StopDrainsQueuedJobs(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}, 16)}
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(context.Background())

	for id := int64(1); id <= 10; id++ {
		d.Enqueue(ports.CompensationJob{CustomerID: id})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	svc.mu.Lock()
	processed := len(svc.jobs)
	svc.mu.Unlock()
	if processed != 10 {
		t.Fatalf("expected all 10 queued jobs processed before Stop returned, got %d", processed)
	}

	d.Enqueue(ports.CompensationJob{CustomerID: 99})
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("second Stop returned error: %v", err)
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if len(svc.jobs) != 10 {
		t.Fatalf("job enqueued after Stop must not run, got %d jobs", len(svc.jobs))
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	first := d.shardIndex(12345)
	for i := 0; i < 10; i++ {
		if got := d.shardIndex(12345); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
