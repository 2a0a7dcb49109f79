// Package dispatch coordinates end-to-end delivery of arrival notifications:
// session lookup, payload composition, transport send and the durable audit
// record, with retry and idempotency around the external calls.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/tutorrito/arrival-notifier/internal/model"
	"github.com/tutorrito/arrival-notifier/internal/rabbitmq/queue"
	notifrepo "github.com/tutorrito/arrival-notifier/internal/repository/notification"
	sessionrepo "github.com/tutorrito/arrival-notifier/internal/repository/session"
	"github.com/tutorrito/arrival-notifier/internal/service/compose"
)

// ErrUnknownChannel is returned for a request naming a channel no transport
// is registered for.
var ErrUnknownChannel = errors.New("unknown delivery channel")

//go:generate mockgen -source=service.go -destination=../../mocks/service/dispatch/mock.go -package=mocks

type sessionRepository interface {
	NextConfirmed(ctx context.Context, tutorID uuid.UUID) (model.Session, error)
}

type notificationRepository interface {
	ClaimRecord(ctx context.Context, rec model.NotificationRecord) (uuid.UUID, bool, error)
	GetByIdempotencyKey(ctx context.Context, key string) (model.NotificationRecord, error)
	TakeOverFailed(ctx context.Context, key string) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	GetStatusByID(ctx context.Context, id uuid.UUID) (string, error)
	GetAll(ctx context.Context) ([]model.NotificationRecord, error)
}

// Transport sends a rendered payload through an external delivery service.
//
// Permanent refusals are reported wrapped in model.ErrDeliveryRejected;
// every other error is treated as transient.
type Transport interface {
	Send(ctx context.Context, p model.Payload) error
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

type repairPublisher interface {
	Publish(job queue.RepairJob, strategy retry.Strategy) error
}

// Service is the delivery coordinator and the unit of retry/idempotency.
type Service struct {
	sessions   sessionRepository
	records    notificationRepository
	transports map[string]Transport
	cache      cache
	repairs    repairPublisher
}

func NewService(
	sessions sessionRepository,
	records notificationRepository,
	transports map[string]Transport,
	cache cache,
	repairs repairPublisher,
) *Service {
	return &Service{
		sessions:   sessions,
		records:    records,
		transports: transports,
		cache:      cache,
		repairs:    repairs,
	}
}

// Dispatch runs the pipeline for one notification request and maps every
// outcome to a stable DispatchResult status.
//
// Caller errors (unknown tutor, invalid message, missing contact address)
// are returned as errors for the HTTP layer to translate; everything else
// is encoded in the result status.
func (s *Service) Dispatch(ctx context.Context, strategy retry.Strategy, req model.NotificationRequest) (model.DispatchResult, error) {
	channel := req.Channel
	if channel == "" {
		channel = model.ChannelEmail
	}

	transport, ok := s.transports[channel]
	if !ok {
		return model.DispatchResult{}, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}

	sess, res, err := s.resolveSession(ctx, strategy, req.TutorID)
	if err != nil || res.Status != "" {
		return res, err
	}

	payload, err := compose.Arrival(sess.Student, channel, req.Message, req.EstimatedTime)
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("compose payload: %w", err)
	}

	key := Key(req.TutorID, sess.ID, req.Message)

	// Fast path: a previous attempt already delivered this notification.
	cached, err := s.cache.GetWithRetry(ctx, strategy, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to get delivery status from cache")
	}
	if cached == model.StatusSent {
		return model.DispatchResult{Status: model.ResultAlreadySent}, nil
	}

	recordID, res := s.claimRecord(ctx, strategy, sess, channel, key, req)
	if res.Status != "" {
		return res, nil
	}

	// The caller may abandon the request mid-flight; a send that succeeds
	// externally must still be recorded, so the remainder of the pipeline
	// does not inherit the caller's cancellation.
	sendCtx := context.WithoutCancel(ctx)

	return s.sendAndRecord(sendCtx, strategy, transport, payload, recordID, key), nil
}

// resolveSession looks up the nearest confirmed future session, retrying
// only infrastructure faults. A non-empty result status is terminal.
func (s *Service) resolveSession(ctx context.Context, strategy retry.Strategy, tutorID uuid.UUID) (model.Session, model.DispatchResult, error) {
	var (
		sess    model.Session
		termErr error
	)

	err := retry.Do(func() error {
		var lookupErr error
		sess, lookupErr = s.sessions.NextConfirmed(ctx, tutorID)
		if lookupErr == nil {
			return nil
		}

		// Expected outcomes must not burn retry attempts.
		if errors.Is(lookupErr, sessionrepo.ErrTutorNotFound) || errors.Is(lookupErr, sessionrepo.ErrNoUpcomingSession) {
			termErr = lookupErr
			return nil
		}

		return lookupErr
	}, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("tutor_id", tutorID.String()).Msg("session lookup failed")
		return model.Session{}, model.DispatchResult{
			Status: model.ResultDependencyUnavailable,
			Detail: "session lookup failed",
		}, nil
	}

	if errors.Is(termErr, sessionrepo.ErrNoUpcomingSession) {
		return model.Session{}, model.DispatchResult{Status: model.ResultNoUpcomingSession}, nil
	}
	if termErr != nil {
		return model.Session{}, model.DispatchResult{}, termErr
	}

	return sess, model.DispatchResult{}, nil
}

// claimRecord inserts the pending audit record, resolving idempotency-key
// conflicts. A non-empty result status is terminal.
func (s *Service) claimRecord(ctx context.Context, strategy retry.Strategy, sess model.Session, channel, key string, req model.NotificationRequest) (uuid.UUID, model.DispatchResult) {
	rec := model.NotificationRecord{
		RecipientID:    sess.StudentID,
		Kind:           model.KindArrivalUpdate,
		Message:        req.Message,
		EstimatedTime:  req.EstimatedTime,
		Channel:        channel,
		Status:         model.StatusPending,
		IdempotencyKey: key,
	}

	var (
		id      uuid.UUID
		created bool
	)

	err := retry.Do(func() error {
		var claimErr error
		id, created, claimErr = s.records.ClaimRecord(ctx, rec)
		return claimErr
	}, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to claim notification record")
		return uuid.Nil, model.DispatchResult{
			Status: model.ResultDependencyUnavailable,
			Detail: "notification store unavailable",
		}
	}

	if created {
		return id, model.DispatchResult{}
	}

	existing, err := s.records.GetByIdempotencyKey(ctx, key)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to load existing notification record")
		return uuid.Nil, model.DispatchResult{
			Status: model.ResultDependencyUnavailable,
			Detail: "notification store unavailable",
		}
	}

	switch existing.Status {
	case model.StatusSent:
		if cErr := s.cache.SetWithRetry(ctx, strategy, key, model.StatusSent); cErr != nil {
			zlog.Logger.Error().Err(cErr).Str("key", key).Msg("failed to cache delivery status")
		}
		return uuid.Nil, model.DispatchResult{Status: model.ResultAlreadySent}

	case model.StatusFailed:
		id, err = s.records.TakeOverFailed(ctx, key)
		if err != nil {
			if errors.Is(err, notifrepo.ErrRecordNotFound) {
				// A concurrent attempt took the record over first.
				return uuid.Nil, model.DispatchResult{Status: model.ResultAlreadySent}
			}

			zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to take over failed record")
			return uuid.Nil, model.DispatchResult{
				Status: model.ResultDependencyUnavailable,
				Detail: "notification store unavailable",
			}
		}
		return id, model.DispatchResult{}

	default:
		// Pending: another invocation holds the claim and will send.
		return uuid.Nil, model.DispatchResult{Status: model.ResultAlreadySent}
	}
}

// sendAndRecord performs the transport send and the durable status write.
func (s *Service) sendAndRecord(ctx context.Context, strategy retry.Strategy, transport Transport, payload model.Payload, recordID uuid.UUID, key string) model.DispatchResult {
	var rejectErr error

	err := retry.Do(func() error {
		sendErr := transport.Send(ctx, payload)
		if sendErr == nil {
			return nil
		}

		// Permanent refusals must not be retried.
		if errors.Is(sendErr, model.ErrDeliveryRejected) {
			rejectErr = sendErr
			return nil
		}

		return sendErr
	}, strategy)

	if rejectErr != nil {
		s.markFailed(ctx, recordID, key)
		return model.DispatchResult{
			Status: model.ResultRejected,
			Detail: rejectErr.Error(),
		}
	}

	if err != nil {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("transport send exhausted retries")
		s.markFailed(ctx, recordID, key)
		return model.DispatchResult{
			Status: model.ResultDependencyUnavailable,
			Detail: "delivery transport unavailable",
		}
	}

	// The message is out. Suppress duplicates even if the record write below
	// does not land.
	if cErr := s.cache.SetWithRetry(ctx, strategy, key, model.StatusSent); cErr != nil {
		zlog.Logger.Error().Err(cErr).Str("key", key).Msg("failed to cache delivery status")
	}

	err = retry.Do(func() error {
		return s.records.UpdateStatus(ctx, recordID, model.StatusSent)
	}, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", recordID.String()).Msg("failed to record delivery, scheduling repair")

		job := queue.RepairJob{RecordID: recordID, IdempotencyKey: key}
		if pErr := s.repairs.Publish(job, strategy); pErr != nil {
			zlog.Logger.Error().Err(pErr).Str("id", recordID.String()).Msg("failed to publish repair job")
		}

		return model.DispatchResult{
			Status: model.ResultPartialFailure,
			Detail: "message delivered, audit record pending",
		}
	}

	return model.DispatchResult{Status: model.ResultSent}
}

func (s *Service) markFailed(ctx context.Context, id uuid.UUID, key string) {
	if err := s.records.UpdateStatus(ctx, id, model.StatusFailed); err != nil {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to mark record failed")
	}
}

// MarkRecordSent re-applies the sent status for a delivered notification
// whose original record write failed. Used by the audit-repair worker.
func (s *Service) MarkRecordSent(ctx context.Context, strategy retry.Strategy, id uuid.UUID, key string) error {
	if err := s.records.UpdateStatus(ctx, id, model.StatusSent); err != nil {
		return fmt.Errorf("update record status: %w", err)
	}

	if err := s.cache.SetWithRetry(ctx, strategy, key, model.StatusSent); err != nil {
		zlog.Logger.Error().Err(err).Str("key", key).Msg("failed to cache delivery status")
	}

	// The status endpoint caches by record id; refresh that entry too so a
	// pre-repair "pending" read does not stick around.
	if err := s.cache.SetWithRetry(ctx, strategy, id.String(), model.StatusSent); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache record status")
	}

	return nil
}

// GetRecordStatusByID returns a record's delivery status, cache first.
func (s *Service) GetRecordStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error) {
	status, err := s.cache.GetWithRetry(ctx, strategy, id.String())
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get record status from cache")
	}

	if errors.Is(err, redis.Nil) || status == "" {
		status, err = s.records.GetStatusByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("get record status: %w", err)
		}

		if cErr := s.cache.SetWithRetry(ctx, strategy, id.String(), status); cErr != nil {
			zlog.Logger.Error().Err(cErr).Str("id", id.String()).Msg("failed to cache record status")
		}
	}

	return status, nil
}

// GetAllRecords returns every notification record.
func (s *Service) GetAllRecords(ctx context.Context) ([]model.NotificationRecord, error) {
	records, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all records: %w", err)
	}

	return records, nil
}
