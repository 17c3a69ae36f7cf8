package ports

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
)

type Request struct {
	Method string
	Path   string
	Body   any
	Query  url.Values
}

// ResourceClient issues REST calls against the warehouse server.
// Non-2xx responses and network failures come back as *domain.TransportError.
type ResourceClient interface {
	Do(ctx context.Context, req Request) (domain.Envelope, error)
	Raw(ctx context.Context, req Request) (json.RawMessage, error)
}
