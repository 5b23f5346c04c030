package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"staffdesk/internal/domain"
	"staffdesk/internal/events"
	leaveerrors "staffdesk/internal/leave/errors"
	"staffdesk/internal/messaging/kafka"
	"staffdesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, actorID string) ([]LeaveResponse, error)
	ListAll(ctx context.Context) ([]LeaveResponse, error)
	Approve(ctx context.Context, actorID string, actorRole domain.Role, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID string, actorRole domain.Role, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actorID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	requesterID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	l := &Leave{
		ID:          uuid.New(),
		RequesterID: requesterID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("requester_id", actorID),
	)

	created, err := s.repo.FindByID(ctx, l.ID.String())
	if err != nil {
		return mapToResponse(*l), nil
	}
	return mapToResponse(*created), nil
}

func (s *service) ListMine(ctx context.Context, actorID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	leaves, err := s.repo.FindByRequester(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Approve(ctx context.Context, actorID string, actorRole domain.Role, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, actorRole, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actorID string, actorRole domain.Role, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, actorRole, id, StatusRejected)
}

// decide moves a PENDING request to a terminal state. The status
// machine is consulted here and nowhere else; a decided request is
// rejected with INVALID_STATE rather than silently re-applied. The
// entity write and the outbox insert share one transaction, so a
// decision is never persisted without its event.
func (s *service) decide(ctx context.Context, actorID string, actorRole domain.Role, id string, targetStatus Status) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("leave decision requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus.String()),
	)

	if !actorRole.CanReview() {
		return LeaveResponse{}, leaveerrors.ErrDecisionNotAllowed
	}
	reviewerID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("leave decision begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !CanTransition(l.Status, targetStatus) {
		log.Warn("leave decision invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status.String()),
			zap.String("to_status", targetStatus.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.ReviewerID = &reviewerID
	l.DecidedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("leave decision persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueDecidedEvent(ctx, tx, l); err != nil {
			log.Error("leave decision outbox failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("leave decision commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave decision success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus.String()),
		zap.String("reviewer_id", actorID),
	)

	decided, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapToResponse(*l), nil
	}
	return mapToResponse(*decided), nil
}

func (s *service) enqueueDecidedEvent(ctx context.Context, tx *sql.Tx, l *Leave) error {
	event := events.LeaveDecidedEvent{
		EventType:   "leave.decided",
		LeaveID:     l.ID.String(),
		RequesterID: l.RequesterID.String(),
		ReviewerID:  l.ReviewerID.String(),
		Status:      l.Status.String(),
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		RequesterID: l.RequesterID.String(),
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		Reason:      l.Reason,
		Status:      l.Status,
		SubmittedAt: l.SubmittedAt.Format(time.RFC3339),
	}
	if l.Requester != nil {
		resp.RequesterName = l.Requester.FullName
	}
	if l.ReviewerID != nil {
		v := l.ReviewerID.String()
		resp.ReviewerID = &v
	}
	if l.Reviewer != nil {
		v := l.Reviewer.FullName
		resp.ReviewerName = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
