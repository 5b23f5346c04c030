package session

import (
	"context"
	"sync"

	"staffdesk/internal/auth"
	"staffdesk/internal/domain"
	"staffdesk/internal/portal/api"

	"go.uber.org/zap"
)

// Identity is who the portal believes is signed in. It mirrors the
// auth response minus the token.
type Identity struct {
	UserID   string      `json:"userId"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"fullName"`
}

// Store owns the current session. All transitions (restore, login,
// register, logout) go through it, and every transition is published
// synchronously to subscribers before the triggering call returns.
type Store struct {
	mu          sync.RWMutex
	file        *CredentialsFile
	client      *api.Client
	token       string
	current     *Identity
	subscribers []func(*Identity)
	logger      *zap.Logger
}

func NewStore(file *CredentialsFile, logger ...*zap.Logger) *Store {
	l := zap.L().Named("portal.session")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("portal.session")
	}
	return &Store{file: file, logger: l}
}

// Bind attaches the API client the store authenticates through. The
// store is the client's token source, and a rejected token on any
// authenticated request resets the session. Rejected credentials on
// login or register do not; those requests carry no token.
func (s *Store) Bind(client *api.Client) {
	s.client = client
	client.OnUnauthorized = func() { s.Logout() }
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns a copy of the signed-in identity, or nil.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Restore loads the persisted session without any network call. The
// stored identity is trusted as-is; a stale token surfaces as a 401 on
// the first authenticated request, which resets the session. A missing
// or malformed file means no session.
func (s *Store) Restore() *Identity {
	creds, err := s.file.Load()
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.current = nil
		s.mu.Unlock()
		return nil
	}

	identity := creds.Identity
	s.mu.Lock()
	s.token = creds.Token
	s.current = &identity
	s.mu.Unlock()

	s.publish()
	copied := identity
	return &copied
}

// Login authenticates, persists the session, and publishes it. On any
// failure the store is left exactly as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*Identity, error) {
	return s.authenticate(ctx, "/auth/login", auth.LoginRequest{
		Email:    email,
		Password: password,
	})
}

// Register creates an account and signs it in immediately. New
// accounts always start as employees; the server decides the role.
func (s *Store) Register(ctx context.Context, req auth.RegisterRequest) (*Identity, error) {
	return s.authenticate(ctx, "/auth/register", req)
}

func (s *Store) authenticate(ctx context.Context, path string, body any) (*Identity, error) {
	var resp auth.AuthResponse
	if err := s.client.PostPublic(ctx, path, body, &resp); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(resp.Role)
	if err != nil {
		return nil, err
	}

	identity := Identity{
		UserID:   resp.UserID,
		Email:    resp.Email,
		Role:     role,
		FullName: resp.FullName,
	}

	if err := s.file.Save(credentials{Token: resp.Token, Identity: identity}); err != nil {
		s.logger.Warn("credentials persist failed, session is memory-only", zap.Error(err))
	}

	s.mu.Lock()
	s.token = resp.Token
	s.current = &identity
	s.mu.Unlock()

	s.publish()
	copied := identity
	return &copied, nil
}

// Logout clears the session unconditionally. Calling it with no
// session is a no-op that still succeeds.
func (s *Store) Logout() {
	if err := s.file.Clear(); err != nil {
		s.logger.Warn("credentials clear failed", zap.Error(err))
	}

	s.mu.Lock()
	hadSession := s.current != nil || s.token != ""
	s.token = ""
	s.current = nil
	s.mu.Unlock()

	if hadSession {
		s.publish()
	}
}

// Subscribe registers a listener for session transitions. Listeners
// run synchronously on the goroutine performing the transition.
func (s *Store) Subscribe(fn func(*Identity)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) publish() {
	s.mu.RLock()
	subscribers := make([]func(*Identity), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	identity := s.Current()
	for _, fn := range subscribers {
		fn(identity)
	}
}
