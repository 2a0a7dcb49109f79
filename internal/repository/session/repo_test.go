package session

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

const existsQuery = `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1);
    `

func TestNextConfirmed(t *testing.T) {
	repo, mock := setupMockDB(t)

	tutorID := uuid.New()
	sessionID := uuid.New()
	studentID := uuid.New()
	startAt := time.Now().Add(2 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(tutorID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT s.id, s.tutor_id, s.student_id, s.start_at, s.status,
		       p.full_name, COALESCE(p.email, ''), COALESCE(p.telegram_chat_id, '')
		FROM sessions s
		JOIN profiles p ON p.id = s.student_id
		WHERE s.tutor_id = $1
		  AND s.status = 'confirmed'
		  AND s.start_at >= now()
		ORDER BY s.start_at, s.id
		LIMIT 1;
    `)).
		WithArgs(tutorID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tutor_id", "student_id", "start_at", "status", "full_name", "email", "telegram_chat_id",
		}).AddRow(sessionID, tutorID, studentID, startAt, "confirmed", "Sara", "s1@example.com", ""))

	sess, err := repo.NextConfirmed(context.Background(), tutorID)
	assert.NoError(t, err)
	assert.Equal(t, sessionID, sess.ID)
	assert.Equal(t, studentID, sess.Student.ID)
	assert.Equal(t, "s1@example.com", sess.Student.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextConfirmed_TutorNotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	tutorID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(tutorID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.NextConfirmed(context.Background(), tutorID)
	assert.ErrorIs(t, err, ErrTutorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextConfirmed_NoUpcomingSession(t *testing.T) {
	repo, mock := setupMockDB(t)

	tutorID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(tutorID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT s.id").
		WithArgs(tutorID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.NextConfirmed(context.Background(), tutorID)
	assert.ErrorIs(t, err, ErrNoUpcomingSession)

	assert.NoError(t, mock.ExpectationsWereMet())
}
