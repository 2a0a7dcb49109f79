package arrival

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/tutorrito/arrival-notifier/internal/api/respond"
	"github.com/tutorrito/arrival-notifier/internal/config"
	"github.com/tutorrito/arrival-notifier/internal/model"
	"github.com/tutorrito/arrival-notifier/internal/repository/notification"
	"github.com/tutorrito/arrival-notifier/internal/repository/session"
	"github.com/tutorrito/arrival-notifier/internal/service/compose"
	"github.com/tutorrito/arrival-notifier/internal/service/dispatch"
)

// dispatchService defines the interface that the Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/arrival/mock.go -package=mocks
type dispatchService interface {
	Dispatch(ctx context.Context, strategy retry.Strategy, req model.NotificationRequest) (model.DispatchResult, error)
	GetRecordStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
	GetAllRecords(ctx context.Context) ([]model.NotificationRecord, error)
}

// Handler handles HTTP requests for the arrival notification pipeline.
type Handler struct {
	service   dispatchService
	validator *validator.Validate
	cfg       *config.Config
}

// NewHandler creates a new Handler instance.
//
// Parameters:
//   - s: implementation of dispatchService
//   - v: validator instance for request validation
//   - cfg: configuration instance
func NewHandler(
	s dispatchService,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, validator: v, cfg: cfg}
}

// NotifyRequest represents the JSON body expected by the notify endpoint.
type NotifyRequest struct {
	TutorID       string `json:"tutor_id" validate:"required,uuid"`
	Message       string `json:"message" validate:"required"`
	EstimatedTime string `json:"estimated_time" validate:"omitempty,max=100"`
	Channel       string `json:"channel" validate:"omitempty,oneof=email telegram"`
}

// Notify handles HTTP POST requests to dispatch an arrival notification.
//
// It validates the request body, runs the dispatch pipeline, and maps the
// result status onto an HTTP status code.
func (h *Handler) Notify(c *ginext.Context) {
	var req NotifyRequest

	// Decode JSON request body into NotifyRequest struct.
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	// Validate request fields using go-playground/validator.
	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	tutorID, err := uuid.Parse(req.TutorID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("tutor_id", req.TutorID).Msg("failed to parse tutor id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid tutor id"))
		return
	}

	res, err := h.service.Dispatch(c.Request.Context(), h.cfg.Retry, model.NotificationRequest{
		TutorID:       tutorID,
		Message:       req.Message,
		EstimatedTime: req.EstimatedTime,
		Channel:       req.Channel,
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrTutorNotFound):
			zlog.Logger.Warn().Str("tutor_id", req.TutorID).Msg("tutor not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("tutor not found"))
		case errors.Is(err, compose.ErrEmptyMessage),
			errors.Is(err, compose.ErrNoContactAddress),
			errors.Is(err, dispatch.ErrUnknownChannel):
			zlog.Logger.Warn().Err(err).Msg("invalid notification request")
			respond.Fail(c.Writer, http.StatusBadRequest, err)
		default:
			zlog.Logger.Error().Err(err).Str("tutor_id", req.TutorID).Msg("failed to dispatch notification")
			respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		}
		return
	}

	respond.JSON(c.Writer, statusCodeFor(res.Status), res)
}

// statusCodeFor maps a dispatch result status onto an HTTP status code.
func statusCodeFor(status string) int {
	switch status {
	case model.ResultSent, model.ResultAlreadySent:
		return http.StatusOK
	case model.ResultNoUpcomingSession:
		return http.StatusNotFound
	case model.ResultRejected:
		return http.StatusUnprocessableEntity
	case model.ResultDependencyUnavailable:
		return http.StatusServiceUnavailable
	case model.ResultPartialFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GetStatus handles HTTP GET requests to retrieve the delivery status of a
// notification record.
func (h *Handler) GetStatus(c *ginext.Context) {
	// Extract record ID from URL parameters.
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}

	if id == uuid.Nil {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	status, err := h.service.GetRecordStatusByID(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, notification.ErrRecordNotFound) {
			zlog.Logger.Warn().Interface("id", id).Err(err).Msg("record not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("record not found"))
			return
		}

		zlog.Logger.Error().Err(err).Interface("id", id).Msg("failed to get record status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}

// GetAll handles HTTP GET requests to retrieve all notification records.
func (h *Handler) GetAll(c *ginext.Context) {
	records, err := h.service.GetAllRecords(c.Request.Context())
	if err != nil {
		if errors.Is(err, notification.ErrNoRecordsFound) {
			zlog.Logger.Warn().Err(err).Msg("no records found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("no records found"))
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to get records")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, records)
}
