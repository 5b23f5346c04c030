package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"staffdesk/internal/auth"
	"staffdesk/internal/domain"
	"staffdesk/internal/portal/api"
	"staffdesk/internal/portal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newBackend(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	userID := uuid.New().String()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req auth.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "hunter2-hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code":  "INVALID_CREDENTIALS",
				"error": "invalid email or password",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(auth.AuthResponse{
			Token:    "token-123",
			UserID:   userID,
			Email:    req.Email,
			Role:     "EMPLOYEE",
			FullName: "Dana Employee",
		})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req auth.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(auth.AuthResponse{
			Token:    "token-456",
			UserID:   uuid.New().String(),
			Email:    req.Email,
			Role:     "EMPLOYEE",
			FullName: req.FullName,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStore(t *testing.T, baseURL, credentialsPath string) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewCredentialsFile(credentialsPath))
	client := api.NewClient(baseURL, store)
	store.Bind(client)
	return store
}

func TestStore_LoginRestoreRoundTrip(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, &requests)
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := newStore(t, srv.URL, path)
	identity, err := store.Login(context.Background(), "dana@company.com", "hunter2-hunter2")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, identity.Role)
	assert.Equal(t, "token-123", store.Token())
	assert.EqualValues(t, 1, requests.Load())

	// A fresh process restores the same session without any request.
	restored := newStore(t, srv.URL, path)
	identity2 := restored.Restore()
	assert.NotNil(t, identity2)
	assert.Equal(t, identity.UserID, identity2.UserID)
	assert.Equal(t, identity.Role, identity2.Role)
	assert.Equal(t, "token-123", restored.Token())
	assert.EqualValues(t, 1, requests.Load(), "restore must not hit the network")
}

func TestStore_LoginFailureLeavesSessionUntouched(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, &requests)
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := newStore(t, srv.URL, path)
	_, err := store.Login(context.Background(), "dana@company.com", "wrong")
	assert.Error(t, err)
	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no credentials may be written on failure")
}

func TestStore_FailedReloginKeepsExistingSession(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, &requests)
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := newStore(t, srv.URL, path)
	identity, err := store.Login(context.Background(), "dana@company.com", "hunter2-hunter2")
	assert.NoError(t, err)

	// Rejected credentials are not a rejected token; the signed-in
	// session must come through untouched.
	_, err = store.Login(context.Background(), "dana@company.com", "wrong")
	assert.Error(t, err)
	assert.NotNil(t, store.Current())
	assert.Equal(t, identity.UserID, store.Current().UserID)
	assert.Equal(t, "token-123", store.Token())

	restored := newStore(t, srv.URL, path)
	assert.NotNil(t, restored.Restore(), "the credentials file must survive the failed login")
	assert.Equal(t, "token-123", restored.Token())
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, &requests)
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := newStore(t, srv.URL, path)
	_, err := store.Login(context.Background(), "dana@company.com", "hunter2-hunter2")
	assert.NoError(t, err)

	store.Logout()
	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())

	// Again, with nothing to clear.
	store.Logout()
	assert.Nil(t, store.Current())

	restored := newStore(t, srv.URL, path)
	assert.Nil(t, restored.Restore(), "logout must survive a restart")
}

func TestStore_RestoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := newStore(t, "http://127.0.0.1:0", path)
	assert.Nil(t, store.Restore())
	assert.Empty(t, store.Token())
}

func TestStore_SubscribePublishesSynchronously(t *testing.T) {
	var requests atomic.Int64
	srv := newBackend(t, &requests)
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := newStore(t, srv.URL, path)

	var seen []*session.Identity
	store.Subscribe(func(identity *session.Identity) {
		seen = append(seen, identity)
	})

	_, err := store.Login(context.Background(), "dana@company.com", "hunter2-hunter2")
	assert.NoError(t, err)
	assert.Len(t, seen, 1, "login publishes before returning")
	assert.NotNil(t, seen[0])

	store.Logout()
	assert.Len(t, seen, 2)
	assert.Nil(t, seen[1], "logout publishes the absence")
}
