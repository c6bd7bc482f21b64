// Package recorded decorates a remote user service with call metrics and an
// optional persistent journal of call outcomes.
package recorded

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"user-sync/internal/adapter/metrics"
	"user-sync/internal/adapter/remote/jsonplaceholder"
	"user-sync/internal/domain/journal"
	domain "user-sync/internal/domain/user"
	usecase "user-sync/internal/usecase/user"
	apperrors "user-sync/pkg/errors"
	"user-sync/pkg/logger"
)

// JournalWriter persists one call outcome.
type JournalWriter interface {
	Append(ctx context.Context, e *journal.Entry) error
}

// Service implements usecase.RemoteService by delegating to next and recording
// every call. Recording never changes the result returned to the caller.
type Service struct {
	next    usecase.RemoteService
	journal JournalWriter
	log     *zap.Logger
	now     func() time.Time
}

var _ usecase.RemoteService = (*Service)(nil)

// NewService wraps next. A nil journal disables journaling.
func NewService(next usecase.RemoteService, journal JournalWriter, log *zap.Logger) *Service {
	return &Service{
		next:    next,
		journal: journal,
		log:     log,
		now:     time.Now,
	}
}

// ListUsers delegates to the wrapped service.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, _ = logger.EnsureRequestID(ctx)
	start := s.now()
	users, err := s.next.ListUsers(ctx)
	s.record(ctx, jsonplaceholder.OpList, http.MethodGet, 0, start, err)
	return users, err
}

// CreateUser delegates to the wrapped service.
func (s *Service) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, _ = logger.EnsureRequestID(ctx)
	start := s.now()
	created, err := s.next.CreateUser(ctx, u)
	s.record(ctx, jsonplaceholder.OpCreate, http.MethodPost, 0, start, err)
	return created, err
}

// UpdateUser delegates to the wrapped service.
func (s *Service) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, _ = logger.EnsureRequestID(ctx)
	start := s.now()
	updated, err := s.next.UpdateUser(ctx, u)
	s.record(ctx, jsonplaceholder.OpUpdate, http.MethodPut, u.ID, start, err)
	return updated, err
}

// DeleteUser delegates to the wrapped service.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	ctx, _ = logger.EnsureRequestID(ctx)
	start := s.now()
	err := s.next.DeleteUser(ctx, id)
	s.record(ctx, jsonplaceholder.OpDelete, http.MethodDelete, id, start, err)
	return err
}

func (s *Service) record(ctx context.Context, op, method string, userID int64, start time.Time, err error) {
	elapsed := s.now().Sub(start)
	outcome := Outcome(err)

	metrics.RemoteRequestsTotal.WithLabelValues(op, outcome).Inc()
	metrics.RemoteRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if s.journal == nil {
		return
	}

	entry := &journal.Entry{
		Op:         op,
		Method:     method,
		Path:       path(op, userID),
		UserID:     userID,
		Outcome:    outcome,
		DurationMS: float64(elapsed.Microseconds()) / 1e3,
		RequestID:  logger.GetRequestID(ctx),
	}
	// The journal outlives a cancelled call.
	if jerr := s.journal.Append(context.WithoutCancel(ctx), entry); jerr != nil {
		logger.WithContext(ctx, s.log).Warn("failed to journal remote call", zap.String("op", op), zap.Error(jerr))
	}
}

// Outcome is journal.OutcomeOK for a nil error, otherwise the error's kind name.
func Outcome(err error) string {
	if err == nil {
		return journal.OutcomeOK
	}
	return apperrors.KindOf(err).String()
}

func path(op string, userID int64) string {
	if op == jsonplaceholder.OpUpdate || op == jsonplaceholder.OpDelete {
		return "/users/" + strconv.FormatInt(userID, 10)
	}
	return "/users"
}
