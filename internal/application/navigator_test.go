package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigator(storage *inMemoryStorage, loggedIn bool) *Navigator {
	routes := domain.DefaultRouteTable()
	return NewNavigator(routes, NewGuard(routes, staticAuth(loggedIn), "", nil), storage, nil)
}

func TestNavigatorAnonymousRootEndsAtLogin(t *testing.T) {
	t.Parallel()

	storage := newInMemoryStorage(nil)
	nav, err := newTestNavigator(storage, false).Navigate(context.Background(), "/")
	require.NoError(t, err)

	assert.Equal(t, domain.PathRoot, nav.From)
	assert.Equal(t, domain.PathLogin, nav.Path)
	assert.Equal(t, "Login", nav.Leaf().Name)
	assert.Equal(t, []Hop{{From: "/", To: "/login", Reason: "route redirect"}}, nav.Hops)

	current, err := storage.Get(context.Background(), domain.StorageKeyRoute)
	require.NoError(t, err)
	assert.Equal(t, domain.PathLogin, current)
}

func TestNavigatorAnonymousProtectedViewRedirectsToLogin(t *testing.T) {
	t.Parallel()

	storage := newInMemoryStorage(map[string]string{domain.StorageKeyRoute: "/register"})
	nav, err := newTestNavigator(storage, false).Navigate(context.Background(), "/dashboard/goods")
	require.NoError(t, err)

	assert.Equal(t, domain.PathLogin, nav.Path)
	require.Len(t, nav.Hops, 1)
	assert.Equal(t, "authentication required", nav.Hops[0].Reason)
}

func TestNavigatorAuthenticatedDashboardLandsOnDefaultView(t *testing.T) {
	t.Parallel()

	storage := newInMemoryStorage(map[string]string{domain.StorageKeyRoute: "/login"})
	nav, err := newTestNavigator(storage, true).Navigate(context.Background(), "/dashboard")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultLandingPath, nav.Path)
	assert.Equal(t, domain.ResourceWarehouse, nav.Leaf().Resource)
	assert.True(t, nav.Redirected())
}

func TestNavigatorUnknownPaths(t *testing.T) {
	t.Parallel()

	nav, err := newTestNavigator(newInMemoryStorage(nil), false).Navigate(context.Background(), "/does/not/exist")
	require.NoError(t, err)
	assert.Equal(t, domain.PathLogin, nav.Path)

	storage := newInMemoryStorage(map[string]string{domain.StorageKeyRoute: "/dashboard/goods"})
	nav, err = newTestNavigator(storage, true).Navigate(context.Background(), "/does/not/exist")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLandingPath, nav.Path)
}

func TestNavigatorMountsRequestedViewWhenAllowed(t *testing.T) {
	t.Parallel()

	storage := newInMemoryStorage(map[string]string{domain.StorageKeyRoute: "/dashboard/warehouses"})
	nav, err := newTestNavigator(storage, true).Navigate(context.Background(), "/dashboard/devices")
	require.NoError(t, err)

	assert.Equal(t, domain.PathRoot, nav.From)
	assert.Equal(t, "/dashboard/devices", nav.Path)
	assert.False(t, nav.Redirected())
	assert.Equal(t, []string{"Dashboard", "Devices"}, []string{nav.Chain[0].Name, nav.Chain[1].Name})
}

type alwaysRedirect struct{}

func (alwaysRedirect) Decide(_ context.Context, transition domain.Transition) domain.Decision {
	if transition.To == "/login" {
		return domain.Redirect("/register", "ping")
	}
	return domain.Redirect("/login", "pong")
}

func TestNavigatorStopsRunawayRedirects(t *testing.T) {
	t.Parallel()

	routes := domain.DefaultRouteTable()
	navigator := NewNavigator(routes, alwaysRedirect{}, newInMemoryStorage(nil), nil)

	_, err := navigator.Navigate(context.Background(), "/login")
	require.ErrorIs(t, err, domain.ErrRedirectLoop)
}

func TestNavigatorFailsWhenLoginCannotResolve(t *testing.T) {
	t.Parallel()

	routes := domain.RouteTable{Routes: []domain.Route{{Name: "Home", Path: "/home"}}}
	navigator := NewNavigator(routes, NewGuard(routes, staticAuth(false), "/home", nil), newInMemoryStorage(nil), nil)

	_, err := navigator.Navigate(context.Background(), "/missing")
	require.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestNavigatorCurrentPropagatesStorageErrors(t *testing.T) {
	t.Parallel()

	storage := mocks.NewMockStorage(t)
	storage.EXPECT().Get(mockAnyContext(), domain.StorageKeyRoute).Return("", errors.New("io error")).Once()

	routes := domain.DefaultRouteTable()
	navigator := NewNavigator(routes, NewGuard(routes, staticAuth(false), "", nil), storage, nil)

	_, err := navigator.Current(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "load current route")
}

func TestNavigatorStaleProtectedRouteWithoutTokenRedirectsToLogin(t *testing.T) {
	t.Parallel()

	storage := newInMemoryStorage(map[string]string{domain.StorageKeyRoute: "/dashboard/users"})
	nav, err := newTestNavigator(storage, false).Navigate(context.Background(), "/dashboard/users")
	require.NoError(t, err)

	assert.Equal(t, domain.PathRoot, nav.From)
	assert.Equal(t, domain.PathLogin, nav.Path)
	assert.Equal(t, []Hop{{From: "/dashboard/users", To: "/login", Reason: "authentication required"}}, nav.Hops)
}

func TestNavigatorContinuesFromLastViewInSameProcess(t *testing.T) {
	t.Parallel()

	navigator := newTestNavigator(newInMemoryStorage(nil), true)

	_, err := navigator.Navigate(context.Background(), "/dashboard/goods")
	require.NoError(t, err)

	nav, err := navigator.Navigate(context.Background(), "/dashboard/goods")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/goods", nav.From)
	assert.Equal(t, "/dashboard/goods", nav.Path)
	assert.False(t, nav.Redirected())
}
