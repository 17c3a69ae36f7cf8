package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

const maxNavigationHops = 10

type Decider interface {
	Decide(ctx context.Context, transition domain.Transition) domain.Decision
}

type Hop struct {
	From   string
	To     string
	Reason string
}

type Navigation struct {
	From  string
	Path  string
	Chain []domain.Route
	Hops  []Hop
}

// Leaf is the route whose view gets mounted.
func (n Navigation) Leaf() domain.Route {
	if len(n.Chain) == 0 {
		return domain.Route{}
	}
	return n.Chain[len(n.Chain)-1]
}

func (n Navigation) Redirected() bool {
	return len(n.Hops) > 0
}

// Navigator applies route redirects and guard decisions until a view can mount,
// then remembers it as the current route. Every process starts navigating from /,
// the way a page reload does; the stored route is only reported by Current.
type Navigator struct {
	routes  domain.RouteTable
	guard   Decider
	storage ports.Storage
	logger  *slog.Logger
	at      string
}

func NewNavigator(routes domain.RouteTable, guard Decider, storage ports.Storage, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Navigator{routes: routes, guard: guard, storage: storage, logger: logger}
}

func (n *Navigator) Current(ctx context.Context) (string, error) {
	current, err := n.storage.Get(ctx, domain.StorageKeyRoute)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return domain.PathRoot, nil
		}
		return "", fmt.Errorf("load current route: %w", err)
	}
	if current == "" {
		return domain.PathRoot, nil
	}
	return domain.NormalizePath(current), nil
}

func (n *Navigator) Navigate(ctx context.Context, to string) (Navigation, error) {
	from := n.at
	if from == "" {
		from = domain.PathRoot
	}

	nav := Navigation{From: from}
	target := domain.NormalizePath(to)

	for {
		if len(nav.Hops) > maxNavigationHops {
			return Navigation{}, fmt.Errorf("%w: navigating from %s to %s", domain.ErrRedirectLoop, from, to)
		}

		chain, err := n.routes.Resolve(target)
		if err != nil {
			if target == domain.PathLogin {
				return Navigation{}, err
			}
			nav.Hops = append(nav.Hops, Hop{From: target, To: domain.PathLogin, Reason: "no matching route"})
			target = domain.PathLogin
			continue
		}

		leaf := chain[len(chain)-1]
		if leaf.Redirect != "" {
			next := domain.NormalizePath(leaf.Redirect)
			nav.Hops = append(nav.Hops, Hop{From: target, To: next, Reason: "route redirect"})
			target = next
			continue
		}

		decision := n.guard.Decide(ctx, domain.Transition{From: from, To: target})
		if decision.IsRedirect() {
			next := domain.NormalizePath(decision.Path)
			nav.Hops = append(nav.Hops, Hop{From: target, To: next, Reason: decision.Reason})
			target = next
			continue
		}

		if err := n.storage.Put(ctx, domain.StorageKeyRoute, target); err != nil {
			return Navigation{}, fmt.Errorf("store current route: %w", err)
		}

		n.at = target
		nav.Path = target
		nav.Chain = chain
		n.logger.Debug("navigated", slog.String("from", from), slog.String("to", target), slog.Int("hops", len(nav.Hops)))
		return nav, nil
	}
}
