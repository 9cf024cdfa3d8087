package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrine/catalog-admin/internal/api/metrics"
	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes activities to a fixed set of workers using consistent
// hashing on the actor email, so entries of one actor are persisted in the
// order they were recorded.
type Dispatcher struct {
	workers []chan domain.Activity
	repo    ports.ActivityRepository
	log     zerolog.Logger
}

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, repo, log)
}

func newDispatcher(numWorkers, buffer int, repo ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Activity, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Activity, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands the activity to the worker responsible for its actor. It never
// blocks: when that worker's channel is full the activity is dropped.
func (d *Dispatcher) Record(activity domain.Activity) {
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = time.Now().UTC()
	}

	idx := d.shardIndex(activity.Actor)
	select {
	case d.workers[idx] <- activity:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("actor", activity.Actor).
			Str("action", activity.Action).
			Int("worker_id", idx).
			Msg("activity queue full, dropping entry")
	}
}

// shardIndex maps an actor deterministically to a worker index.
func (d *Dispatcher) shardIndex(actor string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actor))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Activity) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case activity, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.persist(ctx, id, activity)
		}
	}
}

func (d *Dispatcher) persist(ctx context.Context, id int, activity domain.Activity) {
	start := time.Now()

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result := "ok"
	if err := d.repo.InsertActivity(writeCtx, &activity); err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("actor", activity.Actor).
			Str("action", activity.Action).
			Int("worker_id", id).
			Msg("activity persistence failed")
	}
	metrics.ActivityWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
