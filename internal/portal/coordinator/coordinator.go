package coordinator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"staffdesk/internal/complaint"
	"staffdesk/internal/leave"
	"staffdesk/internal/portal/api"
	"staffdesk/internal/portal/session"
	"staffdesk/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	leavesKey     = "leaves"
	complaintsKey = "complaints"
)

// Coordinator owns the cached list snapshots and is the only path for
// remote mutations. Every mutation is exactly one request; only a
// successful response triggers a refetch of the affected list, so a
// failed mutation can never disturb the cached snapshot. Concurrent
// refetches collapse into a single request.
type Coordinator struct {
	client  *api.Client
	session *session.Store
	sf      singleflight.Group
	logger  *zap.Logger

	mu         sync.RWMutex
	leaves     []leave.LeaveResponse
	complaints []complaint.ComplaintResponse
}

func New(client *api.Client, store *session.Store, logger ...*zap.Logger) *Coordinator {
	l := zap.L().Named("portal.coordinator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("portal.coordinator")
	}
	c := &Coordinator{client: client, session: store, logger: l}

	// A session transition invalidates everything we cached for the
	// previous identity.
	store.Subscribe(func(identity *session.Identity) {
		c.mu.Lock()
		c.leaves = nil
		c.complaints = nil
		c.mu.Unlock()
	})

	return c
}

// Leaves returns the cached leave snapshot.
func (c *Coordinator) Leaves() []leave.LeaveResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]leave.LeaveResponse, len(c.leaves))
	copy(out, c.leaves)
	return out
}

// Complaints returns the cached complaint snapshot.
func (c *Coordinator) Complaints() []complaint.ComplaintResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]complaint.ComplaintResponse, len(c.complaints))
	copy(out, c.complaints)
	return out
}

// RefreshLeaves fetches the leave list for the current identity.
// Reviewers see every request, employees only their own.
func (c *Coordinator) RefreshLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	if err := c.refetchLeaves(ctx); err != nil {
		return nil, err
	}
	return c.Leaves(), nil
}

// RefreshComplaints fetches the complaint list for the current identity.
func (c *Coordinator) RefreshComplaints(ctx context.Context) ([]complaint.ComplaintResponse, error) {
	if err := c.refetchComplaints(ctx); err != nil {
		return nil, err
	}
	return c.Complaints(), nil
}

func (c *Coordinator) refetchLeaves(ctx context.Context) error {
	_, err, _ := c.sf.Do(leavesKey, func() (any, error) {
		path := "/leave/my-requests"
		if identity := c.session.Current(); identity != nil && identity.Role.CanReview() {
			path = "/leave/all"
		}

		var fetched []leave.LeaveResponse
		if err := c.client.Get(ctx, path, &fetched); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.leaves = fetched
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

func (c *Coordinator) refetchComplaints(ctx context.Context) error {
	_, err, _ := c.sf.Do(complaintsKey, func() (any, error) {
		path := "/complaints/my"
		if identity := c.session.Current(); identity != nil && identity.Role.CanReview() {
			path = "/complaints/all"
		}

		var fetched []complaint.ComplaintResponse
		if err := c.client.Get(ctx, path, &fetched); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.complaints = fetched
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// SubmitLeave validates the date range locally, then submits. The
// range check here mirrors the server's so obviously bad input never
// costs a round trip.
func (c *Coordinator) SubmitLeave(ctx context.Context, startDate, endDate, reason string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return apperror.New(apperror.CodeInvalidInput, "start date must use the YYYY-MM-DD format", http.StatusBadRequest)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return apperror.New(apperror.CodeInvalidInput, "end date must use the YYYY-MM-DD format", http.StatusBadRequest)
	}
	if end.Before(start) {
		return apperror.New(apperror.CodeInvalidInput, "end date must be after start date", http.StatusBadRequest)
	}
	if reason == "" {
		return apperror.RequiredField("reason")
	}

	body := leave.SubmitLeaveRequest{StartDate: startDate, EndDate: endDate, Reason: reason}
	if err := c.client.Post(ctx, "/leave/submit", body, nil); err != nil {
		return err
	}
	return c.refetchLeaves(ctx)
}

// ApproveLeave decides a pending request in the requester's favor.
func (c *Coordinator) ApproveLeave(ctx context.Context, id string) error {
	return c.decideLeave(ctx, id, "approve")
}

// RejectLeave declines a pending request.
func (c *Coordinator) RejectLeave(ctx context.Context, id string) error {
	return c.decideLeave(ctx, id, "reject")
}

func (c *Coordinator) decideLeave(ctx context.Context, id, verb string) error {
	if err := c.requireReviewer(); err != nil {
		return err
	}

	// A decided request is terminal; if the cache already knows that,
	// fail before the network. An unknown id goes through and the
	// server stays the authority.
	if cached, ok := c.cachedLeave(id); ok && leave.IsTerminal(cached.Status) {
		return apperror.New(apperror.CodeInvalidState,
			"this leave request has already been decided", http.StatusConflict)
	}

	if err := c.client.Put(ctx, "/leave/"+id+"/"+verb, nil, nil); err != nil {
		return err
	}
	return c.refetchLeaves(ctx)
}

// SubmitComplaint validates locally, then submits. An empty priority
// defaults to MEDIUM.
func (c *Coordinator) SubmitComplaint(ctx context.Context, title, description, category, priority string) error {
	if title == "" {
		return apperror.RequiredField("title")
	}
	if len(description) < 10 {
		return apperror.New(apperror.CodeInvalidInput,
			"description must be at least 10 characters", http.StatusBadRequest)
	}
	if category == "" {
		return apperror.RequiredField("category")
	}
	p := complaint.Priority(priority)
	if priority == "" {
		p = complaint.PriorityMedium
	}
	if !complaint.ValidPriority(p) {
		return apperror.InvalidField("priority")
	}

	body := complaint.SubmitComplaintRequest{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    p,
	}
	if err := c.client.Post(ctx, "/complaints", body, nil); err != nil {
		return err
	}
	return c.refetchComplaints(ctx)
}

// AssignComplaint puts an open complaint under the current reviewer's
// ownership. The server always records the caller as the assignee.
func (c *Coordinator) AssignComplaint(ctx context.Context, id string) error {
	if err := c.requireReviewer(); err != nil {
		return err
	}

	if cached, ok := c.cachedComplaint(id); ok && cached.Status != complaint.StatusOpen {
		return apperror.New(apperror.CodeInvalidState,
			"complaint can only be assigned while it is open", http.StatusConflict)
	}

	identity := c.session.Current()
	if err := c.client.Put(ctx, "/complaints/"+id+"/assign/"+identity.UserID, nil, nil); err != nil {
		return err
	}
	return c.refetchComplaints(ctx)
}

// UpdateComplaintStatus moves a complaint along its lifecycle.
// Resolving requires a resolution note.
func (c *Coordinator) UpdateComplaintStatus(ctx context.Context, id string, status complaint.Status, resolution string) error {
	if err := c.requireReviewer(); err != nil {
		return err
	}
	if !complaint.ValidStatus(status) {
		return apperror.InvalidField("status")
	}
	if status == complaint.StatusResolved && resolution == "" {
		return apperror.New(apperror.CodeInvalidInput,
			"a resolution is required to resolve a complaint", http.StatusBadRequest)
	}

	if cached, ok := c.cachedComplaint(id); ok && !complaint.CanTransition(cached.Status, status) {
		return apperror.New(apperror.CodeInvalidState,
			"complaint cannot move from "+cached.Status.String()+" to "+status.String(), http.StatusConflict)
	}

	body := complaint.UpdateComplaintRequest{Status: status}
	if resolution != "" {
		body.Resolution = &resolution
	}
	if err := c.client.Put(ctx, "/complaints/"+id, body, nil); err != nil {
		return err
	}
	return c.refetchComplaints(ctx)
}

func (c *Coordinator) requireReviewer() error {
	identity := c.session.Current()
	if identity == nil {
		return apperror.New(apperror.CodeUnauthorized, "you are not signed in", http.StatusUnauthorized)
	}
	if !identity.Role.CanReview() {
		return apperror.New(apperror.CodeForbidden,
			"your role does not allow this action", http.StatusForbidden)
	}
	return nil
}

func (c *Coordinator) cachedLeave(id string) (leave.LeaveResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, record := range c.leaves {
		if record.ID == id {
			return record, true
		}
	}
	return leave.LeaveResponse{}, false
}

func (c *Coordinator) cachedComplaint(id string) (complaint.ComplaintResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, record := range c.complaints {
		if record.ID == id {
			return record, true
		}
	}
	return complaint.ComplaintResponse{}, false
}
