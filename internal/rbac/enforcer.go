package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the static permission table. Roles inherit downward:
// an admin can do everything a manager can, a manager everything an
// employee can.
var policies = [][]string{
	{"EMPLOYEE", "leave", "create"},
	{"EMPLOYEE", "leave", "read_own"},
	{"EMPLOYEE", "complaint", "create"},
	{"EMPLOYEE", "complaint", "read_own"},
	{"MANAGER", "leave", "read_all"},
	{"MANAGER", "leave", "approve"},
	{"MANAGER", "complaint", "read_all"},
	{"MANAGER", "complaint", "assign"},
	{"MANAGER", "complaint", "update"},
	{"ADMIN", "admin", "read"},
	{"ADMIN", "admin", "write"},
}

var roleInheritance = [][]string{
	{"MANAGER", "EMPLOYEE"},
	{"ADMIN", "MANAGER"},
}

// NewEnforcer builds an in-memory Casbin enforcer carrying the portal's
// fixed role/permission table.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
