package audit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/tutorrito/arrival-notifier/internal/rabbitmq/queue"
	"github.com/tutorrito/arrival-notifier/internal/repository/notification"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/audit/mock.go -package=mocks
type recordService interface {
	MarkRecordSent(ctx context.Context, strategy retry.Strategy, id uuid.UUID, key string) error
}

// Handler consumes audit-repair jobs and re-applies the delivery record.
type Handler struct {
	service recordService
}

func NewHandler(svc recordService) *Handler {
	return &Handler{
		service: svc,
	}
}

// HandleJob retries the record write for one delivered-but-unrecorded
// notification. Exhausted jobs are left to the queue's DLQ routing.
func (h *Handler) HandleJob(ctx context.Context, job queue.RepairJob, strategy retry.Strategy) {
	zlog.Logger.Info().Msgf("Handle Job: repairing audit record %s", job.RecordID)

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return h.service.MarkRecordSent(ctx, strategy, job.RecordID, job.IdempotencyKey)
		}
	}, strategy)

	if err != nil {
		if errors.Is(err, notification.ErrRecordNotFound) {
			zlog.Logger.Warn().Interface("id", job.RecordID).Err(err).Msg("record no longer exists, dropping repair job")
			return
		}

		zlog.Logger.Printf("Handle Job: repair for %s failed, moving to DLQ: %v", job.RecordID, err)
		return
	}

	zlog.Logger.Info().Msgf("Handle Job: audit record %s repaired", job.RecordID)
}
