package notification

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"

	"github.com/tutorrito/arrival-notifier/internal/model"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

const claimQuery = `
		INSERT INTO notifications (
		    recipient_id, kind, message, estimated_time, channel, status, idempotency_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id;
    `

func testRecord() model.NotificationRecord {
	return model.NotificationRecord{
		RecipientID:    uuid.New(),
		Kind:           model.KindArrivalUpdate,
		Message:        "On my way",
		EstimatedTime:  "15 min",
		Channel:        model.ChannelEmail,
		Status:         model.StatusPending,
		IdempotencyKey: "abc123",
	}
}

func TestClaimRecord_Created(t *testing.T) {
	repo, mock := setupMockDB(t)

	rec := testRecord()
	recordID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(claimQuery)).
		WithArgs(rec.RecipientID, rec.Kind, rec.Message, rec.EstimatedTime, rec.Channel, rec.Status, rec.IdempotencyKey).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(recordID))

	id, created, err := repo.ClaimRecord(context.Background(), rec)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, recordID, id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRecord_Conflict(t *testing.T) {
	repo, mock := setupMockDB(t)

	rec := testRecord()

	// ON CONFLICT DO NOTHING yields no row when the key already exists.
	mock.ExpectQuery(regexp.QuoteMeta(claimQuery)).
		WithArgs(rec.RecipientID, rec.Kind, rec.Message, rec.EstimatedTime, rec.Channel, rec.Status, rec.IdempotencyKey).
		WillReturnError(sql.ErrNoRows)

	id, created, err := repo.ClaimRecord(context.Background(), rec)
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uuid.Nil, id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTakeOverFailed(t *testing.T) {
	repo, mock := setupMockDB(t)

	recordID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE notifications
		SET status = 'pending', updated_at = now()
		WHERE idempotency_key = $1 AND status = 'failed'
		RETURNING id;
    `)).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(recordID))

	id, err := repo.TakeOverFailed(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.Equal(t, recordID, id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTakeOverFailed_AlreadyClaimed(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("UPDATE notifications").
		WithArgs("abc123").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.TakeOverFailed(context.Background(), "abc123")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE notifications
		SET status = $1, updated_at = now()
		WHERE id = $2;
    `)).
		WithArgs(model.StatusSent, id).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateStatus(context.Background(), id, model.StatusSent)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec("UPDATE notifications").
		WithArgs(model.StatusSent, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, model.StatusSent)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatusByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT status
		FROM notifications
		WHERE id = $1;
    `)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusSent))

	status, err := repo.GetStatusByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusSent, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatusByID_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery("SELECT status").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetStatusByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIdempotencyKey(t *testing.T) {
	repo, mock := setupMockDB(t)

	recordID := uuid.New()
	recipientID := uuid.New()

	now := time.Now()

	mock.ExpectQuery("SELECT id, recipient_id").
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recipient_id", "kind", "message", "estimated_time", "channel", "status", "idempotency_key", "created_at", "updated_at",
		}).AddRow(recordID, recipientID, model.KindArrivalUpdate, "On my way", "15 min", model.ChannelEmail, model.StatusSent, "abc123", now, now))

	rec, err := repo.GetByIdempotencyKey(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.Equal(t, recordID, rec.ID)
	assert.Equal(t, model.StatusSent, rec.Status)
}
