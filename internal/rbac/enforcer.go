package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
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

// policies is the full permission table for the two fixed roles. The
// manager role inherits every employee permission through the grouping
// rule below.
var policies = [][]string{
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "create"},
	{RoleManager, "leave", "approve"},
	{RoleManager, "leave", "reset"},
	{RoleManager, "account", "read_all"},
}

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

// NewService builds the in-memory enforcer and loads the static policy
// table. Both roles are fixed, so a storage adapter buys nothing here; a
// broken policy line fails startup instead of a request.
func NewService() (Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("rbac policy %v: %w", p, err)
		}
	}
	if _, err := e.AddGroupingPolicy(RoleManager, RoleEmployee); err != nil {
		return nil, fmt.Errorf("rbac grouping: %w", err)
	}

	return &service{enforcer: e}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}

// ValidRole reports whether the stored role string is one the policy
// table knows about.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleManager
}
