package session

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
	// ErrTutorNotFound is returned when the tutor identifier does not exist.
	ErrTutorNotFound = errors.New("tutor not found")

	// ErrNoUpcomingSession is returned when the tutor has no confirmed future
	// session. This is an expected outcome, not an infrastructure failure.
	ErrNoUpcomingSession = errors.New("no upcoming session")
)

// Repository provides read access to sessions and student profiles.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new session repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// NextConfirmed returns the nearest-future confirmed session for the tutor,
// with the student recipient projection joined in. Sessions are ordered by
// ascending start time, ties broken by session id.
func (r *Repository) NextConfirmed(ctx context.Context, tutorID uuid.UUID) (model.Session, error) {
	existsQuery := `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1);
    `

	var exists bool
	if err := r.db.Master.QueryRowContext(ctx, existsQuery, tutorID).Scan(&exists); err != nil {
		return model.Session{}, fmt.Errorf("failed to check tutor: %w", err)
	}

	if !exists {
		return model.Session{}, ErrTutorNotFound
	}

	query := `
		SELECT s.id, s.tutor_id, s.student_id, s.start_at, s.status,
		       p.full_name, COALESCE(p.email, ''), COALESCE(p.telegram_chat_id, '')
		FROM sessions s
		JOIN profiles p ON p.id = s.student_id
		WHERE s.tutor_id = $1
		  AND s.status = 'confirmed'
		  AND s.start_at >= now()
		ORDER BY s.start_at, s.id
		LIMIT 1;
    `

	var sess model.Session
	err := r.db.Master.QueryRowContext(ctx, query, tutorID).Scan(
		&sess.ID,
		&sess.TutorID,
		&sess.StudentID,
		&sess.StartAt,
		&sess.Status,
		&sess.Student.Name,
		&sess.Student.Email,
		&sess.Student.TelegramChatID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, ErrNoUpcomingSession
		}

		return model.Session{}, fmt.Errorf("failed to get next confirmed session: %w", err)
	}

	sess.Student.ID = sess.StudentID

	return sess, nil
}
