// Package authz decides whether a role may call an API route. Policies are
// casbin RBAC rules held in memory.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
)

// Roles carried in the JWT role claim.
const (
	RoleViewer     = "viewer"
	RoleDispatcher = "dispatcher"
	RoleAdmin      = "admin"
)

const (
	apiV1Prefix = "/api/v1"
	rolePrefix  = "role:"
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
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy is one allow rule. Object is a keyMatch2 pattern relative to /api/v1.
type Policy struct {
	Role   string
	Object string
	Action string
}

// writableCollections are the resources a dispatcher may change.
var writableCollections = []string{"/loads", "/trucks", "/drivers", "/customers"}

// DefaultPolicies grants reads to viewers, registry and load writes to
// dispatchers, and everything to admins. Roles inherit in that order.
func DefaultPolicies() []Policy {
	policies := []Policy{
		{Role: RoleViewer, Object: "/*", Action: "GET"},
		{Role: RoleAdmin, Object: "/*", Action: "*"},
	}
	for _, collection := range writableCollections {
		for _, action := range []string{"POST", "PUT", "PATCH", "DELETE"} {
			policies = append(policies,
				Policy{Role: RoleDispatcher, Object: collection, Action: action},
				Policy{Role: RoleDispatcher, Object: collection + "/*", Action: action},
			)
		}
	}
	return policies
}

// Service wraps a synced casbin enforcer.
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService builds an enforcer loaded with policies and the role hierarchy
// admin > dispatcher > viewer.
func NewService(policies []Policy) (*Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	for _, p := range policies {
		if _, err = enforcer.AddPolicy(subject(p.Role), NormalizeObject(p.Object), NormalizeAction(p.Action)); err != nil {
			return nil, fmt.Errorf("add policy %s %s %s: %w", p.Role, p.Object, p.Action, err)
		}
	}
	inherit := [][2]string{{RoleDispatcher, RoleViewer}, {RoleAdmin, RoleDispatcher}}
	for _, pair := range inherit {
		if _, err = enforcer.AddGroupingPolicy(subject(pair[0]), subject(pair[1])); err != nil {
			return nil, fmt.Errorf("add role %s: %w", pair[0], err)
		}
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce reports whether role may perform action on path. path may carry the
// /api/v1 prefix.
func (s *Service) Enforce(role, path, action string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false, nil
	}
	return s.enforcer.Enforce(subject(role), NormalizeObject(path), NormalizeAction(action))
}

// IsKnownRole reports whether role is one of the built-in roles.
func IsKnownRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleViewer, RoleDispatcher, RoleAdmin:
		return true
	}
	return false
}

// NormalizeObject strips the API prefix and ensures a leading slash.
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if normalized == "" {
		return "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	return normalized
}

func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}

func subject(role string) string {
	return rolePrefix + role
}
