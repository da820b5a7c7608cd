package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/metrics"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes compensation jobs to a fixed set of workers using
// consistent hashing on the customer id, so retries for one customer never
// run concurrently.
type Dispatcher struct {
	workers []chan ports.CompensationJob
	service ports.CompensationService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.CompensationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CompensationJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CompensationJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Stop has drained
// their queues, or immediately when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go func() {
			defer d.wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}
}

// Stop refuses new jobs and waits for queued ones to finish. It returns
// ctx.Err() if the queues are not drained before ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands the job to the worker responsible for its customer. When that
// worker's buffer is full the job is dropped and logged rather than blocking
// the request that produced it.
func (d *Dispatcher) Enqueue(job ports.CompensationJob) {
	idx := d.shardIndex(job.CustomerID)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		metrics.CompensationsTotal.WithLabelValues("dropped").Inc()
		d.log.Error().Int64("customer_id", job.CustomerID).Msg("dispatcher stopped, compensation job dropped")
		return
	}
	select {
	case d.workers[idx] <- job:
		metrics.CompensationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.CompensationsTotal.WithLabelValues("dropped").Inc()
		d.log.Error().
			Int64("customer_id", job.CustomerID).
			Int("worker_id", idx).
			Msg("compensation queue full, job dropped")
	}
}

// shardIndex maps a customer id deterministically to a worker index.
func (d *Dispatcher) shardIndex(customerID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(customerID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CompensationJob) {
	depth := metrics.CompensationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.service.Compensate(ctx, job); err != nil {
				metrics.CompensationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Int64("customer_id", job.CustomerID).
					Int("worker_id", id).
					Msg("compensation failed")
				continue
			}
			metrics.CompensationsTotal.WithLabelValues("compensated").Inc()
		}
	}
}
