package authz_test

import (
	"testing"

	"staffdesk/internal/domain"
	"staffdesk/internal/portal/authz"
	"staffdesk/internal/portal/session"

	"github.com/stretchr/testify/assert"
)

func identity(role domain.Role) *session.Identity {
	return &session.Identity{UserID: "u1", Email: "u@company.com", Role: role, FullName: "U"}
}

func TestCanRender(t *testing.T) {
	managers := []domain.Role{domain.RoleManager, domain.RoleAdmin}

	cases := []struct {
		name     string
		identity *session.Identity
		required []domain.Role
		want     bool
	}{
		{"nil identity, open view", nil, nil, false},
		{"nil identity, gated view", nil, managers, false},
		{"employee, open view", identity(domain.RoleEmployee), nil, true},
		{"employee, empty requirement slice", identity(domain.RoleEmployee), []domain.Role{}, true},
		{"employee, manager view", identity(domain.RoleEmployee), managers, false},
		{"manager, manager view", identity(domain.RoleManager), managers, true},
		{"admin, manager view", identity(domain.RoleAdmin), managers, true},
		{"admin, admin-only view", identity(domain.RoleAdmin), []domain.Role{domain.RoleAdmin}, true},
		{"manager, admin-only view", identity(domain.RoleManager), []domain.Role{domain.RoleAdmin}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, authz.CanRender(tc.identity, tc.required))
		})
	}
}

func TestGuestOnly(t *testing.T) {
	assert.True(t, authz.GuestOnly(nil))
	assert.False(t, authz.GuestOnly(identity(domain.RoleEmployee)))
}
