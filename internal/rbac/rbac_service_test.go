package rbac

import (
	"testing"

	"staffdesk/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestEnforce(t *testing.T) {
	enforcer, err := NewEnforcer()
	assert.NoError(t, err)
	svc := NewService(enforcer)

	cases := []struct {
		role     domain.Role
		resource string
		action   string
		allowed  bool
	}{
		{domain.RoleEmployee, "leave", "create", true},
		{domain.RoleEmployee, "leave", "read_own", true},
		{domain.RoleEmployee, "leave", "read_all", false},
		{domain.RoleEmployee, "leave", "approve", false},
		{domain.RoleEmployee, "complaint", "assign", false},
		{domain.RoleEmployee, "admin", "read", false},

		// Managers inherit everything employees can do.
		{domain.RoleManager, "leave", "create", true},
		{domain.RoleManager, "leave", "read_all", true},
		{domain.RoleManager, "leave", "approve", true},
		{domain.RoleManager, "complaint", "assign", true},
		{domain.RoleManager, "complaint", "update", true},
		{domain.RoleManager, "admin", "read", false},
		{domain.RoleManager, "admin", "write", false},

		// Admins inherit the manager surface plus the admin one.
		{domain.RoleAdmin, "leave", "approve", true},
		{domain.RoleAdmin, "complaint", "create", true},
		{domain.RoleAdmin, "admin", "read", true},
		{domain.RoleAdmin, "admin", "write", true},
	}

	for _, tc := range cases {
		allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
		assert.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}
