package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/tutorrito/arrival-notifier/internal/model"
)

var (
	ErrRecordNotFound = errors.New("notification record not found")
	ErrNoRecordsFound = errors.New("no notification records found")
)

// Repository provides methods to interact with the notifications table.
//
// Deduplication is enforced by a unique index on idempotency_key; the claim
// insert relies on it rather than on a check-then-insert sequence, so
// concurrent attempts for the same logical notification resolve at the
// storage layer.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// ClaimRecord inserts a pending record for the given idempotency key.
//
// It returns the new record id and created=true when this call won the
// claim, or created=false when a record with the same key already exists.
func (r *Repository) ClaimRecord(ctx context.Context, rec model.NotificationRecord) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO notifications (
		    recipient_id, kind, message, estimated_time, channel, status, idempotency_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id;
    `

	var id uuid.UUID
	err := r.db.Master.QueryRowContext(
		ctx, query,
		rec.RecipientID, rec.Kind, rec.Message, rec.EstimatedTime, rec.Channel, rec.Status, rec.IdempotencyKey,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, false, nil
		}

		return uuid.Nil, false, fmt.Errorf("failed to claim notification record: %w", err)
	}

	return id, true, nil
}

// GetByIdempotencyKey retrieves the record owning the given idempotency key.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (model.NotificationRecord, error) {
	query := `
		SELECT id, recipient_id, kind, message, estimated_time, channel, status, idempotency_key, created_at, updated_at
		FROM notifications
		WHERE idempotency_key = $1;
    `

	var rec model.NotificationRecord
	err := r.db.Master.QueryRowContext(ctx, query, key).Scan(
		&rec.ID,
		&rec.RecipientID,
		&rec.Kind,
		&rec.Message,
		&rec.EstimatedTime,
		&rec.Channel,
		&rec.Status,
		&rec.IdempotencyKey,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NotificationRecord{}, ErrRecordNotFound
		}

		return model.NotificationRecord{}, fmt.Errorf("failed to get notification record: %w", err)
	}

	return rec, nil
}

// TakeOverFailed atomically re-claims a failed record for a retried attempt.
//
// Only a record still in status "failed" can be taken over; losing the race
// to a concurrent claimant returns ErrRecordNotFound.
func (r *Repository) TakeOverFailed(ctx context.Context, key string) (uuid.UUID, error) {
	query := `
		UPDATE notifications
		SET status = 'pending', updated_at = now()
		WHERE idempotency_key = $1 AND status = 'failed'
		RETURNING id;
    `

	var id uuid.UUID
	err := r.db.Master.QueryRowContext(ctx, query, key).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrRecordNotFound
		}

		return uuid.Nil, fmt.Errorf("failed to take over failed record: %w", err)
	}

	return id, nil
}

// UpdateStatus updates the status of a notification record by its ID.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE notifications
		SET status = $1, updated_at = now()
		WHERE id = $2;
    `

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update notification record: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// GetStatusByID retrieves the delivery status of a record by its ID.
func (r *Repository) GetStatusByID(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT status
		FROM notifications
		WHERE id = $1;
    `

	var status string
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRecordNotFound
		}

		return "", fmt.Errorf("failed to get notification record status: %w", err)
	}

	return status, nil
}

// GetAll retrieves all notification records ordered by creation time descending.
func (r *Repository) GetAll(ctx context.Context) ([]model.NotificationRecord, error) {
	query := `
		SELECT id, recipient_id, kind, message, estimated_time, channel, status, idempotency_key, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC;
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all notification records: %w", err)
	}
	defer rows.Close()

	var records []model.NotificationRecord
	for rows.Next() {
		var rec model.NotificationRecord
		if err := rows.Scan(
			&rec.ID, &rec.RecipientID, &rec.Kind, &rec.Message, &rec.EstimatedTime,
			&rec.Channel, &rec.Status, &rec.IdempotencyKey, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRecordsFound
	}

	return records, nil
}
