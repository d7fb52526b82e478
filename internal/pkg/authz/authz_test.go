package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/pkg/authz"
)

func TestService_DefaultPolicies(t *testing.T) {
	svc, err := authz.NewService(authz.DefaultPolicies())
	require.NoError(t, err)

	tests := []struct {
		name   string
		role   string
		path   string
		action string
		want   bool
	}{
		{"viewer reads loads", authz.RoleViewer, "/api/v1/loads", "GET", true},
		{"viewer reads reports", authz.RoleViewer, "/api/v1/reports/revenue/trucks", "get", true},
		{"viewer cannot create load", authz.RoleViewer, "/api/v1/loads", "POST", false},
		{"dispatcher creates load", authz.RoleDispatcher, "/api/v1/loads", "POST", true},
		{"dispatcher dispatches", authz.RoleDispatcher, "/api/v1/loads/42/dispatch", "POST", true},
		{"dispatcher changes truck status", authz.RoleDispatcher, "/api/v1/trucks/7/status", "PATCH", true},
		{"dispatcher inherits reads", authz.RoleDispatcher, "/api/v1/reports/on-time", "GET", true},
		{"dispatcher cannot write elsewhere", authz.RoleDispatcher, "/api/v1/reports/export", "POST", false},
		{"admin writes anything", authz.RoleAdmin, "/api/v1/reports/export", "POST", true},
		{"unknown role", "guest", "/api/v1/loads", "GET", false},
		{"empty role", "", "/api/v1/loads", "GET", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tt.role, tt.path, tt.action)

			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestService_NilIsUnavailable(t *testing.T) {
	var svc *authz.Service

	_, err := svc.Enforce(authz.RoleAdmin, "/loads", "GET")

	assert.Error(t, err)
}

func TestNormalizeObject(t *testing.T) {
	assert.Equal(t, "/", authz.NormalizeObject(""))
	assert.Equal(t, "/", authz.NormalizeObject("/api/v1"))
	assert.Equal(t, "/loads", authz.NormalizeObject("/api/v1/loads"))
	assert.Equal(t, "/loads", authz.NormalizeObject("loads"))
}

func TestIsKnownRole(t *testing.T) {
	assert.True(t, authz.IsKnownRole(" Admin "))
	assert.False(t, authz.IsKnownRole("owner"))
}
