package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/tutorrito/arrival-notifier/internal/mocks/rabbitmq/handlers/audit"
	"github.com/tutorrito/arrival-notifier/internal/rabbitmq/queue"
)

func TestHandleJob_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockrecordService(ctrl)
	h := NewHandler(mockService)

	strategy := retry.Strategy{Attempts: 3, Delay: time.Millisecond}
	job := queue.RepairJob{RecordID: uuid.New(), IdempotencyKey: "abc123"}

	mockService.EXPECT().
		MarkRecordSent(gomock.Any(), strategy, job.RecordID, job.IdempotencyKey).
		Return(nil)

	h.HandleJob(context.Background(), job, strategy)
}

func TestHandleJob_RetriesThenGivesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockrecordService(ctrl)
	h := NewHandler(mockService)

	strategy := retry.Strategy{Attempts: 2, Delay: time.Millisecond}
	job := queue.RepairJob{RecordID: uuid.New(), IdempotencyKey: "abc123"}

	mockService.EXPECT().
		MarkRecordSent(gomock.Any(), strategy, job.RecordID, job.IdempotencyKey).
		Return(errors.New("db down")).
		Times(2)

	h.HandleJob(context.Background(), job, strategy)
}
