// Package access decides, from an authentication state and a role, which
// views a principal may reach. It is a pure derivation with no storage; the
// role is re-resolved by callers on every request, never cached here.
package access

import "github.com/mkala/shule/core/user"

// Route identifies a navigable view.
type Route string

const (
	RouteLogin             Route = "login"
	RouteRegister          Route = "register"
	RouteDashboard         Route = "dashboard"
	RouteStudentDashboard  Route = "student-dashboard"
	RouteTeacherDashboard  Route = "teacher-dashboard"
	RouteAdminDashboard    Route = "admin-dashboard"
	RouteAccountsDashboard Route = "accounts-dashboard"
)

// Policy is the set of routes a principal may reach plus the route they land
// on by default.
type Policy struct {
	Allowed map[Route]bool `json:"allowed"`
	Default Route          `json:"default"`
}

func (p Policy) Allows(r Route) bool { return p.Allowed[r] }

// Resolve computes the Policy for an (authenticated, role) pair.
// An unrecognized or empty role on an authenticated session yields an empty
// allowed set, not an error; absence of a role is a representable state.
func Resolve(authenticated bool, role string) Policy {
	if !authenticated {
		return Policy{
			Allowed: map[Route]bool{RouteLogin: true},
			Default: RouteLogin,
		}
	}

	switch role {
	case user.RoleStudent:
		return Policy{
			Allowed: map[Route]bool{RouteStudentDashboard: true},
			Default: RouteStudentDashboard,
		}
	case user.RoleTeacher:
		return Policy{
			Allowed: map[Route]bool{RouteTeacherDashboard: true},
			Default: RouteTeacherDashboard,
		}
	case user.RoleAdmin:
		return Policy{
			Allowed: map[Route]bool{RouteAdminDashboard: true, RouteRegister: true},
			Default: RouteAdminDashboard,
		}
	case user.RoleAccounts:
		return Policy{
			Allowed: map[Route]bool{RouteAccountsDashboard: true},
			Default: RouteAccountsDashboard,
		}
	}

	// unrecognized role: no route matches, callers fall through to Fallback
	return Policy{
		Allowed: map[Route]bool{},
		Default: RouteDashboard,
	}
}

// Fallback is the catch-all redirect for unmatched paths. It is evaluated
// only after all role-specific routes fail to match, never before.
func Fallback(authenticated bool) Route {
	if !authenticated {
		return RouteLogin
	}
	return RouteDashboard
}
