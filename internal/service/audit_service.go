package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/pkg/jobs"
)

type auditLogWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditTrail persists audit entries through a background queue so
// request handling never waits on the trail.
type AuditTrail struct {
	repo   auditLogWriter
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditTrail constructs the trail and its queue.
func NewAuditTrail(repo auditLogWriter, workers int, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &AuditTrail{repo: repo, logger: logger}
	t.queue = jobs.NewQueue("audit-trail", t.handle, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return t
}

// Start launches the queue workers.
func (t *AuditTrail) Start(ctx context.Context) {
	t.queue.Start(ctx)
}

// Stop drains the workers.
func (t *AuditTrail) Stop() {
	t.queue.Stop()
}

// Record enqueues an audit entry. Failures are logged and dropped.
func (t *AuditTrail) Record(entry models.AuditLog) {
	err := t.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "audit-log",
		Payload: entry,
	})
	if err != nil {
		t.logger.Warn("failed to enqueue audit entry",
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

func (t *AuditTrail) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return t.repo.CreateAuditLog(ctx, &entry)
}
