package application

import (
	"context"
	"testing"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/stretchr/testify/assert"
)

var guardTestPaths = []string{
	"/",
	"/login",
	"/register",
	"/dashboard",
	"/dashboard/users",
	"/dashboard/warehouses",
	"/dashboard/operation-logs",
	"/nowhere",
}

func TestGuardDuplicateNavigationAlwaysProceeds(t *testing.T) {
	t.Parallel()

	for _, loggedIn := range []bool{false, true} {
		guard := NewGuard(domain.DefaultRouteTable(), staticAuth(loggedIn), "", nil)
		for _, path := range guardTestPaths {
			decision := guard.Decide(context.Background(), domain.Transition{From: path, To: path})
			assert.Equal(t, domain.ActionProceed, decision.Action, "path %s logged in %v", path, loggedIn)
		}
	}
}

func TestGuardLateralMoveBetweenAuthPages(t *testing.T) {
	t.Parallel()

	for _, loggedIn := range []bool{false, true} {
		guard := NewGuard(domain.DefaultRouteTable(), staticAuth(loggedIn), "", nil)

		assert.Equal(t, domain.ActionProceed, guard.Decide(context.Background(), domain.Transition{From: "/login", To: "/register"}).Action)
		assert.Equal(t, domain.ActionProceed, guard.Decide(context.Background(), domain.Transition{From: "/register", To: "/login"}).Action)
	}
}

func TestGuardRedirectsAnonymousUsersToLogin(t *testing.T) {
	t.Parallel()

	guard := NewGuard(domain.DefaultRouteTable(), staticAuth(false), "", nil)

	for _, to := range []string{"/dashboard/users", "/dashboard/goods", "/dashboard/inventory", "/dashboard/environment/"} {
		decision := guard.Decide(context.Background(), domain.Transition{From: "/", To: to})
		assert.Equal(t, domain.Redirect(domain.PathLogin, "authentication required"), decision, to)
	}
}

func TestGuardInheritsAuthRequirementFromAncestors(t *testing.T) {
	t.Parallel()

	routes := domain.RouteTable{Routes: []domain.Route{
		{Name: "Login", Path: "/login"},
		{Name: "Admin", Path: "/admin", RequiresAuth: true, Children: []domain.Route{
			{Name: "Audit", Path: "audit"},
		}},
		{Name: "Public", Path: "/public"},
	}}
	guard := NewGuard(routes, staticAuth(false), "/admin", nil)

	decision := guard.Decide(context.Background(), domain.Transition{From: "/public", To: "/admin/audit"})
	assert.True(t, decision.IsRedirect())
	assert.Equal(t, domain.PathLogin, decision.Path)

	decision = guard.Decide(context.Background(), domain.Transition{From: "/admin/audit", To: "/public"})
	assert.Equal(t, domain.ActionProceed, decision.Action)
}

func TestGuardTreatsUnresolvableTargetsAsProtected(t *testing.T) {
	t.Parallel()

	routes := domain.RouteTable{Routes: []domain.Route{{Name: "Login", Path: "/login"}}}
	guard := NewGuard(routes, staticAuth(false), "", nil)

	decision := guard.Decide(context.Background(), domain.Transition{From: "/login", To: "/ghost"})
	assert.Equal(t, domain.PathLogin, decision.Path)
}

func TestGuardSendsAuthenticatedUsersToLanding(t *testing.T) {
	t.Parallel()

	guard := NewGuard(domain.DefaultRouteTable(), staticAuth(true), "", nil)

	for _, to := range []string{"/login", "/register"} {
		decision := guard.Decide(context.Background(), domain.Transition{From: "/dashboard/goods", To: to})
		assert.Equal(t, domain.ActionRedirect, decision.Action)
		assert.Equal(t, domain.DefaultLandingPath, decision.Path)
	}

	custom := NewGuard(domain.DefaultRouteTable(), staticAuth(true), "/dashboard/devices/", nil)
	decision := custom.Decide(context.Background(), domain.Transition{From: "/", To: "/login"})
	assert.Equal(t, "/dashboard/devices", decision.Path)
}

func TestGuardDefaultProceeds(t *testing.T) {
	t.Parallel()

	loggedIn := NewGuard(domain.DefaultRouteTable(), staticAuth(true), "", nil)
	assert.Equal(t, domain.ActionProceed, loggedIn.Decide(context.Background(), domain.Transition{From: "/login", To: "/dashboard/shelves"}).Action)

	anonymous := NewGuard(domain.DefaultRouteTable(), staticAuth(false), "", nil)
	assert.Equal(t, domain.ActionProceed, anonymous.Decide(context.Background(), domain.Transition{From: "/dashboard/goods", To: "/register"}).Action)
}

type countingAuth struct {
	calls    int
	loggedIn bool
}

func (a *countingAuth) PersistedLoggedIn(context.Context) bool {
	a.calls++
	return a.loggedIn
}

func TestGuardReadsAuthStateOnEveryDecision(t *testing.T) {
	t.Parallel()

	auth := &countingAuth{}
	guard := NewGuard(domain.DefaultRouteTable(), auth, "", nil)

	assert.True(t, guard.Decide(context.Background(), domain.Transition{From: "/", To: "/dashboard/goods"}).IsRedirect())

	auth.loggedIn = true
	assert.False(t, guard.Decide(context.Background(), domain.Transition{From: "/", To: "/dashboard/goods"}).IsRedirect())
	assert.Equal(t, 2, auth.calls)

	guard.Decide(context.Background(), domain.Transition{From: "/login", To: "/login"})
	assert.Equal(t, 2, auth.calls)
}
