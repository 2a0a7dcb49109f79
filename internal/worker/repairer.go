package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/tutorrito/arrival-notifier/internal/model"
	"github.com/tutorrito/arrival-notifier/internal/rabbitmq/queue"
)

//go:generate mockgen -source=repairer.go -destination=../mocks/worker/mock.go -package=mocks

type auditQueue interface {
	Consume(ctx context.Context, out chan<- queue.RepairJob, strategy retry.Strategy) error
}

type jobHandler interface {
	HandleJob(ctx context.Context, job queue.RepairJob, strategy retry.Strategy)
}

type recordService interface {
	GetRecordStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
}

// Repairer drains the audit-repair queue with a pool of workers.
type Repairer struct {
	queue   auditQueue
	handler jobHandler
	service recordService
}

func NewRepairer(q auditQueue, h jobHandler, s recordService) *Repairer {
	return &Repairer{
		queue:   q,
		handler: h,
		service: s,
	}
}

func (r *Repairer) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	var wg sync.WaitGroup
	jobChan := make(chan queue.RepairJob, workerCount*10)

	go func() {
		if err := r.queue.Consume(ctx, jobChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume repair jobs")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("repair-worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("repair-worker-%d shutting down", id)
					return
				case job, ok := <-jobChan:
					if !ok {
						zlog.Logger.Printf("repair-worker-%d channel closed, shutting down", id)
						return
					}

					status, err := r.service.GetRecordStatusByID(ctx, strategy, job.RecordID)
					if err != nil {
						zlog.Logger.Printf("failed to get status for %s: %v", job.RecordID, err)
						continue
					}

					if status == model.StatusSent {
						zlog.Logger.Printf("record %s already repaired, skipping", job.RecordID)
						continue
					}

					r.handler.HandleJob(ctx, job, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("repairer stopped")
}
