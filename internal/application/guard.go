package application

import (
	"context"
	"log/slog"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
)

// AuthState reports whether a session token is currently persisted.
type AuthState interface {
	PersistedLoggedIn(ctx context.Context) bool
}

type Guard struct {
	routes  domain.RouteTable
	auth    AuthState
	landing string
	logger  *slog.Logger
}

func NewGuard(routes domain.RouteTable, auth AuthState, landing string, logger *slog.Logger) *Guard {
	if landing == "" {
		landing = domain.DefaultLandingPath
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Guard{
		routes:  routes,
		auth:    auth,
		landing: domain.NormalizePath(landing),
		logger:  logger,
	}
}

// Decide evaluates one transition. Rule order matters: the first two rules
// keep a redirecting guard from re-entering itself.
func (g *Guard) Decide(ctx context.Context, transition domain.Transition) domain.Decision {
	from := domain.NormalizePath(transition.From)
	to := domain.NormalizePath(transition.To)

	decision := g.decide(ctx, from, to)
	g.logger.Debug("navigation decided",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("action", string(decision.Action)),
		slog.String("redirect", decision.Path),
		slog.String("reason", decision.Reason),
	)

	return decision
}

func (g *Guard) decide(ctx context.Context, from, to string) domain.Decision {
	if from == to {
		return domain.Proceed("duplicate navigation")
	}

	toAuthRoute := isAuthPath(to)
	if toAuthRoute && isAuthPath(from) {
		return domain.Proceed("switching between auth pages")
	}

	loggedIn := g.auth.PersistedLoggedIn(ctx)

	if g.requiresAuth(to) && !loggedIn {
		return domain.Redirect(domain.PathLogin, "authentication required")
	}

	if loggedIn && toAuthRoute {
		return domain.Redirect(g.landing, "already authenticated")
	}

	return domain.Proceed("allowed")
}

func (g *Guard) requiresAuth(path string) bool {
	chain, err := g.routes.Resolve(path)
	if err != nil {
		return true
	}
	return domain.RequiresAuth(chain)
}

func isAuthPath(path string) bool {
	return path == domain.PathLogin || path == domain.PathRegister
}
