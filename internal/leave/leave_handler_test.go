package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staffdesk/internal/domain"
	"staffdesk/internal/leave"
	leaveerrors "staffdesk/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	submitFn   func(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	listMineFn func(ctx context.Context, actorID string) ([]leave.LeaveResponse, error)
	listAllFn  func(ctx context.Context) ([]leave.LeaveResponse, error)
	approveFn  func(ctx context.Context, actorID string, actorRole domain.Role, id string) (leave.LeaveResponse, error)
	rejectFn   func(ctx context.Context, actorID string, actorRole domain.Role, id string) (leave.LeaveResponse, error)
}

func (f *fakeService) Submit(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, actorID, req)
}
func (f *fakeService) ListMine(ctx context.Context, actorID string) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, actorID)
}
func (f *fakeService) ListAll(ctx context.Context) ([]leave.LeaveResponse, error) {
	return f.listAllFn(ctx)
}
func (f *fakeService) Approve(ctx context.Context, actorID string, actorRole domain.Role, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, actorRole, id)
}
func (f *fakeService) Reject(ctx context.Context, actorID string, actorRole domain.Role, id string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actorID, actorRole, id)
}

func TestHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()

	svc := &fakeService{
		submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, "2026-09-01", req.StartDate)
			return leave.LeaveResponse{ID: uuid.New().String(), Status: leave.StatusPending}, nil
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", actorID)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/submit",
		strings.NewReader(`{"startDate":"2026-09-01","endDate":"2026-09-03","reason":"family event"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Submit(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
}

func TestHandler_Submit_MissingField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{
		submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
			t.Fatal("invalid payload must not reach the service")
			return leave.LeaveResponse{}, nil
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/submit",
		strings.NewReader(`{"startDate":"2026-09-01"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code"`)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestHandler_Approve_Conflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{
		approveFn: func(ctx context.Context, actorID string, actorRole domain.Role, id string) (leave.LeaveResponse, error) {
			assert.Equal(t, domain.RoleManager, actorRole)
			return leave.LeaveResponse{}, leaveerrors.ErrAlreadyDecided
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.New().String())
	c.Set("role", "MANAGER")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPut, "/leave/x/approve", nil)

	h.Approve(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestHandler_ListAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{
		listAllFn: func(ctx context.Context) ([]leave.LeaveResponse, error) {
			return []leave.LeaveResponse{{ID: uuid.New().String()}, {ID: uuid.New().String()}}, nil
		},
	}
	h := leave.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leave/all", nil)

	h.ListAll(c)
	assert.Equal(t, http.StatusOK, w.Code)
	// The contract is a bare array, no envelope.
	assert.True(t, strings.HasPrefix(w.Body.String(), "["))
}
