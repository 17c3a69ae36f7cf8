package domain

import (
	"fmt"
	"strings"
)

const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"

	DefaultLandingPath = "/dashboard/warehouses"
)

type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
	// Redirect sends the navigation elsewhere before any guard runs.
	Redirect string
	// Resource names the catalogue entry the view lists when mounted.
	Resource string
	CatchAll bool
	Children []Route
}

type RouteTable struct {
	Routes []Route
}

// Resolve returns the matched chain for path, root first. Nested routes are tried
// before their parent so an empty child path wins over the parent itself.
func (t RouteTable) Resolve(path string) ([]Route, error) {
	target := NormalizePath(path)
	if chain := matchRoutes(t.Routes, "", target); chain != nil {
		return chain, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, target)
}

// RequiresAuth reports whether any route in the chain requires authentication.
func RequiresAuth(chain []Route) bool {
	for _, route := range chain {
		if route.RequiresAuth {
			return true
		}
	}
	return false
}

// FullPath joins a child segment onto its parent's path.
func FullPath(parent, segment string) string {
	switch {
	case strings.HasPrefix(segment, "/"):
		return NormalizePath(segment)
	case segment == "":
		return NormalizePath(parent)
	default:
		return NormalizePath(strings.TrimSuffix(parent, "/") + "/" + segment)
	}
}

func NormalizePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	if trimmed == "" {
		return PathRoot
	}
	return trimmed
}

func matchRoutes(routes []Route, parent, target string) []Route {
	for _, route := range routes {
		if route.CatchAll {
			return []Route{route}
		}

		full := FullPath(parent, route.Path)
		if len(route.Children) > 0 && (full == target || strings.HasPrefix(target, strings.TrimSuffix(full, "/")+"/")) {
			if chain := matchRoutes(route.Children, full, target); chain != nil {
				return append([]Route{route}, chain...)
			}
		}
		if full == target {
			return []Route{route}
		}
	}
	return nil
}

// Walk visits every route depth first with its resolved full path.
func (t RouteTable) Walk(visit func(route Route, fullPath string, depth int, inheritedAuth bool)) {
	var walk func(routes []Route, parent string, depth int, inherited bool)
	walk = func(routes []Route, parent string, depth int, inherited bool) {
		for _, route := range routes {
			full := "*"
			if !route.CatchAll {
				full = FullPath(parent, route.Path)
			}
			requires := inherited || route.RequiresAuth
			visit(route, full, depth, requires)
			walk(route.Children, full, depth+1, requires)
		}
	}
	walk(t.Routes, "", 0, false)
}

// DefaultRouteTable mirrors the admin console's router.
func DefaultRouteTable() RouteTable {
	dashboardChild := func(name, path, resource string) Route {
		return Route{Name: name, Path: path, RequiresAuth: true, Resource: resource}
	}

	return RouteTable{Routes: []Route{
		{Path: PathRoot, Redirect: PathLogin},
		{Name: "Login", Path: PathLogin},
		{Name: "Register", Path: PathRegister},
		{
			Name:         "Dashboard",
			Path:         "/dashboard",
			RequiresAuth: true,
			Children: []Route{
				{Path: "", Redirect: DefaultLandingPath},
				dashboardChild("Users", "users", ResourceUser),
				dashboardChild("Warehouses", "warehouses", ResourceWarehouse),
				dashboardChild("Goods", "goods", ResourceGoods),
				dashboardChild("Shelves", "shelves", ResourceShelf),
				dashboardChild("Devices", "devices", ResourceDevice),
				dashboardChild("Inventory", "inventory", ""),
				dashboardChild("Permissions", "permissions", ""),
				dashboardChild("Environment", "environment", ResourceEnvironment),
				dashboardChild("OperationLogs", "operation-logs", ""),
			},
		},
		{Path: "/:pathMatch(.*)*", CatchAll: true, Redirect: PathLogin},
	}}
}

// ViewPath returns the full path of the route bound to resource.
func (t RouteTable) ViewPath(resource string) (string, bool) {
	found := ""
	t.Walk(func(route Route, fullPath string, _ int, _ bool) {
		if found == "" && route.Resource == resource && resource != "" {
			found = fullPath
		}
	})
	return found, found != ""
}
