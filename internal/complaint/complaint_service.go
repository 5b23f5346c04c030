package complaint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	complainterrors "staffdesk/internal/complaint/errors"
	"staffdesk/internal/domain"
	"staffdesk/internal/events"
	"staffdesk/internal/messaging/kafka"
	"staffdesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=complaint_service.go -destination=mock/complaint_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitComplaintRequest) (ComplaintResponse, error)
	ListMine(ctx context.Context, actorID string) ([]ComplaintResponse, error)
	ListAll(ctx context.Context) ([]ComplaintResponse, error)
	Assign(ctx context.Context, actorID string, actorRole domain.Role, id string) (ComplaintResponse, error)
	UpdateStatus(ctx context.Context, actorID string, actorRole domain.Role, id string, req UpdateComplaintRequest) (ComplaintResponse, error)
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
	l := zap.L().Named("complaint.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("complaint.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitComplaintRequest) (ComplaintResponse, error) {
	authorID, err := uuid.Parse(actorID)
	if err != nil {
		return ComplaintResponse{}, complainterrors.ErrInvalidActorID
	}

	// A new complaint is always OPEN with no assignee.
	c := &Complaint{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      StatusOpen,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("submit complaint persist failed", zap.Error(err))
		return ComplaintResponse{}, err
	}

	s.logger.Info("submit complaint success",
		zap.String("complaint_id", c.ID.String()),
		zap.String("author_id", actorID),
		zap.String("priority", c.Priority.String()),
	)

	created, err := s.repo.FindByID(ctx, c.ID.String())
	if err != nil {
		return mapToResponse(*c), nil
	}
	return mapToResponse(*created), nil
}

func (s *service) ListMine(ctx context.Context, actorID string) ([]ComplaintResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, complainterrors.ErrInvalidActorID
	}
	complaints, err := s.repo.FindByAuthor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(complaints), nil
}

func (s *service) ListAll(ctx context.Context) ([]ComplaintResponse, error) {
	complaints, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(complaints), nil
}

// Assign moves an OPEN complaint to IN_PROGRESS with the acting
// identity as assignee. Assigning anything that has left OPEN is a
// conflict, never a reassignment.
func (s *service) Assign(ctx context.Context, actorID string, actorRole domain.Role, id string) (ComplaintResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !actorRole.CanReview() {
		return ComplaintResponse{}, complainterrors.ErrUpdateNotAllowed
	}
	assigneeID, err := uuid.Parse(actorID)
	if err != nil {
		return ComplaintResponse{}, complainterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ComplaintResponse{}, complainterrors.ErrInvalidComplaintID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("assign complaint begin tx failed", zap.Error(err))
		return ComplaintResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ComplaintResponse{}, complainterrors.ErrComplaintNotFound
		}
		return ComplaintResponse{}, err
	}

	if c.Status != StatusOpen {
		log.Warn("assign complaint rejected",
			zap.String("complaint_id", id),
			zap.String("status", c.Status.String()),
		)
		return ComplaintResponse{}, complainterrors.ErrNotAssignable
	}

	fromStatus := c.Status
	c.Status = StatusInProgress
	c.AssigneeID = &assigneeID

	if err := qtx.Update(ctx, c); err != nil {
		log.Error("assign complaint persist failed", zap.String("complaint_id", id), zap.Error(err))
		return ComplaintResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueStatusEvent(ctx, tx, c, actorID, fromStatus); err != nil {
			log.Error("assign complaint outbox failed", zap.String("complaint_id", id), zap.Error(err))
			return ComplaintResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("assign complaint commit failed", zap.Error(err))
		return ComplaintResponse{}, err
	}

	log.Info("assign complaint success",
		zap.String("complaint_id", id),
		zap.String("assignee_id", actorID),
	)

	assigned, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapToResponse(*c), nil
	}
	return mapToResponse(*assigned), nil
}

// UpdateStatus drives the forward lifecycle. RESOLVED requires a
// resolution text; CLOSED is reachable from any non-CLOSED state.
func (s *service) UpdateStatus(ctx context.Context, actorID string, actorRole domain.Role, id string, req UpdateComplaintRequest) (ComplaintResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update complaint requested",
		zap.String("complaint_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.Status.String()),
	)

	if !actorRole.CanReview() {
		return ComplaintResponse{}, complainterrors.ErrUpdateNotAllowed
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return ComplaintResponse{}, complainterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ComplaintResponse{}, complainterrors.ErrInvalidComplaintID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update complaint begin tx failed", zap.Error(err))
		return ComplaintResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ComplaintResponse{}, complainterrors.ErrComplaintNotFound
		}
		return ComplaintResponse{}, err
	}

	if !CanTransition(c.Status, req.Status) {
		log.Warn("update complaint invalid transition",
			zap.String("complaint_id", id),
			zap.String("from_status", c.Status.String()),
			zap.String("to_status", req.Status.String()),
		)
		return ComplaintResponse{}, complainterrors.ErrInvalidStatusTransition
	}

	fromStatus := c.Status
	c.Status = req.Status

	if req.Status == StatusResolved {
		if req.Resolution == nil || *req.Resolution == "" {
			return ComplaintResponse{}, complainterrors.ErrResolutionRequired
		}
		now := time.Now().UTC()
		c.Resolution = req.Resolution
		c.ResolvedAt = &now
	}

	if err := qtx.Update(ctx, c); err != nil {
		log.Error("update complaint persist failed", zap.String("complaint_id", id), zap.Error(err))
		return ComplaintResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueStatusEvent(ctx, tx, c, actorID, fromStatus); err != nil {
			log.Error("update complaint outbox failed", zap.String("complaint_id", id), zap.Error(err))
			return ComplaintResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("update complaint commit failed", zap.Error(err))
		return ComplaintResponse{}, err
	}

	log.Info("update complaint success",
		zap.String("complaint_id", id),
		zap.String("status", req.Status.String()),
	)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapToResponse(*c), nil
	}
	return mapToResponse(*updated), nil
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, c *Complaint, actorID string, fromStatus Status) error {
	event := events.ComplaintStatusChangedEvent{
		EventType:   "complaint.status_changed",
		ComplaintID: c.ID.String(),
		AuthorID:    c.AuthorID.String(),
		ActorID:     actorID,
		FromStatus:  fromStatus.String(),
		ToStatus:    c.Status.String(),
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "complaint",
		AggregateID:   c.ID.String(),
		EventType:     event.EventType,
		Topic:         events.ComplaintStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(c Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID.String(),
		AuthorID:    c.AuthorID.String(),
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Priority:    c.Priority,
		Status:      c.Status,
		SubmittedAt: c.SubmittedAt.Format(time.RFC3339),
	}
	if c.Author != nil {
		resp.AuthorName = c.Author.FullName
	}
	if c.AssigneeID != nil {
		v := c.AssigneeID.String()
		resp.AssigneeID = &v
	}
	if c.Assignee != nil {
		v := c.Assignee.FullName
		resp.AssigneeName = &v
	}
	resp.Resolution = c.Resolution
	if c.ResolvedAt != nil {
		v := c.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	return resp
}

func mapToListResponse(complaints []Complaint) []ComplaintResponse {
	resp := make([]ComplaintResponse, len(complaints))
	for i, c := range complaints {
		resp[i] = mapToResponse(c)
	}
	return resp
}
