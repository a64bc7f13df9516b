package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkala/shule/core/user"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		role          string
		wantAllowed   map[Route]bool
		wantDefault   Route
	}{
		{
			name:        "unauthenticated",
			wantAllowed: map[Route]bool{RouteLogin: true},
			wantDefault: RouteLogin,
		},
		{
			name:          "unauthenticated with stale role",
			role:          user.RoleAdmin,
			wantAllowed:   map[Route]bool{RouteLogin: true},
			wantDefault:   RouteLogin,
			authenticated: false,
		},
		{
			name:          "student",
			authenticated: true,
			role:          user.RoleStudent,
			wantAllowed:   map[Route]bool{RouteStudentDashboard: true},
			wantDefault:   RouteStudentDashboard,
		},
		{
			name:          "teacher",
			authenticated: true,
			role:          user.RoleTeacher,
			wantAllowed:   map[Route]bool{RouteTeacherDashboard: true},
			wantDefault:   RouteTeacherDashboard,
		},
		{
			name:          "admin",
			authenticated: true,
			role:          user.RoleAdmin,
			wantAllowed:   map[Route]bool{RouteAdminDashboard: true, RouteRegister: true},
			wantDefault:   RouteAdminDashboard,
		},
		{
			name:          "accounts",
			authenticated: true,
			role:          user.RoleAccounts,
			wantAllowed:   map[Route]bool{RouteAccountsDashboard: true},
			wantDefault:   RouteAccountsDashboard,
		},
		{
			name:          "empty role",
			authenticated: true,
			wantAllowed:   map[Route]bool{},
			wantDefault:   RouteDashboard,
		},
		{
			name:          "unrecognized role",
			authenticated: true,
			role:          "janitor",
			wantAllowed:   map[Route]bool{},
			wantDefault:   RouteDashboard,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.authenticated, tt.role)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			assert.Equal(t, tt.wantDefault, got.Default)
		})
	}
}

func TestPolicyAllows(t *testing.T) {
	pol := Resolve(true, user.RoleAdmin)
	assert.True(t, pol.Allows(RouteAdminDashboard))
	assert.True(t, pol.Allows(RouteRegister))
	assert.False(t, pol.Allows(RouteStudentDashboard))
	assert.False(t, pol.Allows(RouteLogin))
}

func TestFallback(t *testing.T) {
	assert.Equal(t, RouteLogin, Fallback(false))
	assert.Equal(t, RouteDashboard, Fallback(true))
}
