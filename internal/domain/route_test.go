package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteTableResolve(t *testing.T) {
	t.Parallel()

	table := DefaultRouteTable()
	tests := []struct {
		name      string
		path      string
		wantNames []string
		redirect  string
		auth      bool
	}{
		{name: "root redirects to login", path: "/", wantNames: []string{""}, redirect: PathLogin},
		{name: "login", path: "/login", wantNames: []string{"Login"}},
		{name: "register with trailing slash", path: "/register/", wantNames: []string{"Register"}},
		{name: "dashboard resolves empty child", path: "/dashboard", wantNames: []string{"Dashboard", ""}, redirect: DefaultLandingPath, auth: true},
		{name: "nested view", path: "/dashboard/goods", wantNames: []string{"Dashboard", "Goods"}, auth: true},
		{name: "query string ignored", path: "/dashboard/devices?page=2", wantNames: []string{"Dashboard", "Devices"}, auth: true},
		{name: "unknown nested path hits catch-all", path: "/dashboard/nope", wantNames: []string{""}, redirect: PathLogin},
		{name: "unknown path hits catch-all", path: "/totally/unknown", wantNames: []string{""}, redirect: PathLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chain, err := table.Resolve(tt.path)
			require.NoError(t, err)

			names := make([]string, 0, len(chain))
			for _, route := range chain {
				names = append(names, route.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.redirect, chain[len(chain)-1].Redirect)
			assert.Equal(t, tt.auth, RequiresAuth(chain))
		})
	}
}

func TestRequiresAuthIsInheritedFromAncestors(t *testing.T) {
	t.Parallel()

	table := RouteTable{Routes: []Route{
		{Name: "Admin", Path: "/admin", RequiresAuth: true, Children: []Route{
			{Name: "Audit", Path: "audit"},
		}},
	}}

	chain, err := table.Resolve("/admin/audit")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.False(t, chain[1].RequiresAuth)
	assert.True(t, RequiresAuth(chain))
}

func TestRouteTableResolveWithoutCatchAll(t *testing.T) {
	t.Parallel()

	table := RouteTable{Routes: []Route{{Name: "Login", Path: PathLogin}}}

	_, err := table.Resolve("/missing")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", NormalizePath(""))
	assert.Equal(t, "/", NormalizePath("/"))
	assert.Equal(t, "/login", NormalizePath("login"))
	assert.Equal(t, "/dashboard/goods", NormalizePath(" /dashboard/goods/ "))
	assert.Equal(t, "/dashboard", NormalizePath("/dashboard#top"))
}

func TestViewPath(t *testing.T) {
	t.Parallel()

	table := DefaultRouteTable()

	path, ok := table.ViewPath(ResourceShelf)
	require.True(t, ok)
	assert.Equal(t, "/dashboard/shelves", path)

	_, ok = table.ViewPath("inventory")
	assert.False(t, ok)
}
