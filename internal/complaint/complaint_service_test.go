package complaint

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"staffdesk/internal/auth"
	complainterrors "staffdesk/internal/complaint/errors"
	"staffdesk/internal/domain"
	"staffdesk/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn       func(tx *sql.Tx) Repository
	createFn       func(ctx context.Context, c *Complaint) error
	findAllFn      func(ctx context.Context) ([]Complaint, error)
	findByAuthorFn func(ctx context.Context, authorID string) ([]Complaint, error)
	findByIDFn     func(ctx context.Context, id string) (*Complaint, error)
	updateFn       func(ctx context.Context, c *Complaint) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, c *Complaint) error { return f.createFn(ctx, c) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]Complaint, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) FindByAuthor(ctx context.Context, authorID string) ([]Complaint, error) {
	return f.findByAuthorFn(ctx, authorID)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Complaint, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, c *Complaint) error { return f.updateFn(ctx, c) }

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func openComplaint(author uuid.UUID) *Complaint {
	return &Complaint{
		ID:          uuid.New(),
		AuthorID:    author,
		Author:      &auth.User{ID: author, FullName: "Dana Employee"},
		Title:       "Broken desk",
		Description: "my desk wobbles badly",
		Category:    "FACILITIES",
		Priority:    PriorityMedium,
		Status:      StatusOpen,
		SubmittedAt: time.Now().UTC(),
	}
}

func TestService_Submit(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	actorID := uuid.New().String()

	var saved *Complaint
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, c *Complaint) error { saved = c; return nil }
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return saved, nil }

	svc := NewService(db, repo)
	resp, err := svc.Submit(context.Background(), actorID, SubmitComplaintRequest{
		Title:       "Broken desk",
		Description: "my desk wobbles badly",
		Category:    "FACILITIES",
		Priority:    PriorityHigh,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusOpen, resp.Status)
	assert.Nil(t, resp.AssigneeID, "a new complaint starts unassigned")
	assert.Equal(t, actorID, resp.AuthorID)
}

func TestService_Assign(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	reviewerID := uuid.New()
	c := openComplaint(uuid.New())

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }
	repo.updateFn = func(ctx context.Context, updated *Complaint) error { c = updated; return nil }

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Assign(context.Background(), reviewerID.String(), domain.RoleManager, c.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusInProgress, resp.Status)
	assert.Equal(t, reviewerID.String(), *resp.AssigneeID, "assignee is always the acting identity")
	assert.Len(t, outbox.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Assign_WritesThroughTransaction(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	c := openComplaint(uuid.New())

	updatedInTx := false
	txRepo := &fakeRepo{}
	txRepo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }
	txRepo.updateFn = func(ctx context.Context, updated *Complaint) error {
		updatedInTx = true
		c = updated
		return nil
	}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository {
		assert.NotNil(t, tx)
		return txRepo
	}
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }
	repo.updateFn = func(ctx context.Context, c *Complaint) error {
		t.Fatal("the assign write must run on the transaction")
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Assign(context.Background(), uuid.New().String(), domain.RoleManager, c.ID.String())
	assert.NoError(t, err)
	assert.True(t, updatedInTx, "entity write and outbox insert share the transaction")
	assert.Len(t, outbox.created, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Assign_NotOpen(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	c := openComplaint(uuid.New())
	c.Status = StatusInProgress
	existing := uuid.New()
	c.AssigneeID = &existing

	updated := false
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }
	repo.updateFn = func(ctx context.Context, c *Complaint) error { updated = true; return nil }

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Assign(context.Background(), uuid.New().String(), domain.RoleManager, c.ID.String())
	assert.ErrorIs(t, err, complainterrors.ErrNotAssignable)
	assert.False(t, updated)
	assert.Equal(t, existing, *c.AssigneeID, "a failed assign must not steal ownership")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateStatus_SkippingForbidden(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	c := openComplaint(uuid.New())

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	resolution := "fixed"
	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), domain.RoleAdmin, c.ID.String(),
		UpdateComplaintRequest{Status: StatusResolved, Resolution: &resolution})
	assert.ErrorIs(t, err, complainterrors.ErrInvalidStatusTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateStatus_ResolveRequiresResolution(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	c := openComplaint(uuid.New())
	c.Status = StatusInProgress

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), domain.RoleManager, c.ID.String(),
		UpdateComplaintRequest{Status: StatusResolved})
	assert.ErrorIs(t, err, complainterrors.ErrResolutionRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateStatus_Resolve(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	c := openComplaint(uuid.New())
	c.Status = StatusInProgress

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Complaint, error) { return c, nil }
	repo.updateFn = func(ctx context.Context, updated *Complaint) error { c = updated; return nil }

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resolution := "replaced the desk"
	resp, err := svc.UpdateStatus(context.Background(), uuid.New().String(), domain.RoleManager, c.ID.String(),
		UpdateComplaintRequest{Status: StatusResolved, Resolution: &resolution})
	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, resp.Status)
	assert.Equal(t, "replaced the desk", *resp.Resolution)
	assert.NotNil(t, resp.ResolvedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateStatus_EmployeeForbidden(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	svc := NewService(db, repo)
	_, err := svc.UpdateStatus(context.Background(), uuid.New().String(), domain.RoleEmployee, uuid.New().String(),
		UpdateComplaintRequest{Status: StatusClosed})
	assert.ErrorIs(t, err, complainterrors.ErrUpdateNotAllowed)
}
