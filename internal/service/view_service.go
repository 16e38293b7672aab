package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/pkg/config"
	"github.com/noah-isme/portal-berita-api/pkg/jobs"
)

type articleViewRepository interface {
	IncrementViews(ctx context.Context, id int64) error
}

// ViewCounter records article views through a background queue so the
// read path never waits on the write.
type ViewCounter struct {
	repo    articleViewRepository
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewViewCounter constructs the counter and its queue.
func NewViewCounter(repo articleViewRepository, metrics *MetricsService, cfg config.ViewsConfig, logger *zap.Logger) *ViewCounter {
	if logger == nil {
		logger = zap.NewNop()
	}
	vc := &ViewCounter{repo: repo, metrics: metrics, logger: logger}
	vc.queue = jobs.NewQueue("article-views", vc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return vc
}

// Start launches the queue workers.
func (v *ViewCounter) Start(ctx context.Context) {
	v.queue.Start(ctx)
}

// Stop drains the workers.
func (v *ViewCounter) Stop() {
	v.queue.Stop()
}

// Record enqueues a view increment. Failures are logged and dropped;
// a lost view is acceptable, a blocked read is not.
func (v *ViewCounter) Record(articleID int64) {
	err := v.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "increment-views",
		Payload: articleID,
	})
	if err != nil {
		v.logger.Warn("failed to enqueue view increment",
			zap.Int64("article_id", articleID),
			zap.Error(err))
	}
}

func (v *ViewCounter) handle(ctx context.Context, job jobs.Job) error {
	articleID, ok := job.Payload.(int64)
	if !ok {
		return fmt.Errorf("unexpected view payload %T", job.Payload)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := v.repo.IncrementViews(ctx, articleID); err != nil {
		return err
	}
	v.metrics.ObserveArticleView()
	return nil
}
