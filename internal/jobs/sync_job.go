package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/queue"
	"github.com/buildmart-as/inventory-api/internal/syncer"
)

// SyncJobName is the name of the offline queue drain job
const SyncJobName = "queue_drain"

// SyncJob drains the offline action queue to the remote backend. Actions
// are pushed strictly in queue order; the drain stops at the first failure
// so that a later action can never overtake an earlier one.
type SyncJob struct {
	queue   *queue.Queue
	client  *syncer.Client
	logger  *zap.Logger
	timeout time.Duration

	mu            sync.Mutex
	lastDrainedAt *time.Time
}

// NewSyncJob creates a new queue drain job.
func NewSyncJob(q *queue.Queue, client *syncer.Client, logger *zap.Logger, timeout time.Duration) *SyncJob {
	return &SyncJob{
		queue:   q,
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the drain job. This is called by the scheduler.
func (j *SyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.Drain(ctx); err != nil {
		j.logger.Warn("queue drain stopped early", zap.Error(err))
	}
}

// Drain pushes queued actions oldest first, removing each one only after
// the remote backend accepts it. It returns the number of actions pushed
// and the error that stopped the drain, if any.
func (j *SyncJob) Drain(ctx context.Context) (int, error) {
	if !j.client.Ping(ctx) {
		j.logger.Debug("remote backend unreachable, skipping drain")
		return 0, nil
	}

	pending, err := j.queue.All(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		j.markDrained()
		return 0, nil
	}

	start := time.Now()
	pushed := 0
	for _, queued := range pending {
		action, err := queued.Action()
		if err != nil {
			// A corrupt row would wedge the queue forever; drop it and
			// move on.
			j.logger.Error("dropping undecodable queued action",
				zap.Uint64("seq", queued.Seq),
				zap.Error(err))
			if err := j.queue.Remove(ctx, queued.Seq); err != nil {
				return pushed, err
			}
			continue
		}

		if err := j.client.PushAction(ctx, action); err != nil {
			j.logger.Warn("push failed, keeping remaining actions queued",
				zap.Uint64("seq", queued.Seq),
				zap.String("type", string(action.Type)),
				zap.Int("pushed", pushed),
				zap.Error(err))
			return pushed, err
		}

		if err := j.queue.Remove(ctx, queued.Seq); err != nil {
			return pushed, err
		}
		pushed++
	}

	j.markDrained()
	j.logger.Info("drained offline action queue",
		zap.Int("pushed", pushed),
		zap.Duration("duration", time.Since(start)))
	return pushed, nil
}

// LastDrainedAt returns when the queue last reached empty, or nil if it
// has not yet this process lifetime.
func (j *SyncJob) LastDrainedAt() *time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastDrainedAt
}

func (j *SyncJob) markDrained() {
	now := time.Now().UTC()
	j.mu.Lock()
	j.lastDrainedAt = &now
	j.mu.Unlock()
}

// RegisterSyncJob registers the queue drain job with the scheduler.
func RegisterSyncJob(scheduler *Scheduler, job *SyncJob, cronExpr string) error {
	return scheduler.AddJob(SyncJobName, cronExpr, job.Run)
}
