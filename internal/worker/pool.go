package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueClicks = "jobs:clicks"

	defaultMaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HandlerFunc processes the payload of one job type. A returned error makes
// the pool retry the job, then dead-letter it.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueClick pushes one click event to Redis.
func (d *Dispatcher) EnqueueClick(ctx context.Context, payload ClickPayload) error {
	return d.enqueue(ctx, QueueClicks, JobClick, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb         *redis.Client
	queues      []string
	handlers    map[string]HandlerFunc
	maxAttempts int
	backoff     time.Duration
	deadLetter  func(ctx context.Context, queue string, job Job, reason string, attempts int)
}

func NewPool(rdb *redis.Client) *Pool {
	p := &Pool{
		rdb:         rdb,
		queues:      []string{QueueClicks},
		handlers:    make(map[string]HandlerFunc),
		maxAttempts: defaultMaxAttempts,
		backoff:     200 * time.Millisecond,
	}
	p.deadLetter = func(ctx context.Context, queue string, job Job, reason string, attempts int) {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, reason, attempts)
	}
	return p
}

// Handle registers fn for jobType. Must be called before Start.
func (p *Pool) Handle(jobType string, fn HandlerFunc) {
	p.handlers[jobType] = fn
}

// Start launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

// process runs one raw job through its handler with up to maxAttempts tries.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	fn, ok := p.handlers[job.Type]
	if !ok {
		p.deadLetter(ctx, queue, job, fmt.Sprintf("no handler for job type %q", job.Type), 0)
		return
	}

	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err = fn(ctx, job.Payload); err == nil {
			log.Debug().Str("type", job.Type).Str("queue", queue).Int("attempt", attempt).Msg("job processed")
			return
		}
		log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempt).Msg("job failed")
		if attempt < p.maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.backoff * time.Duration(attempt)):
			}
		}
	}
	p.deadLetter(ctx, queue, job, err.Error(), p.maxAttempts)
}
