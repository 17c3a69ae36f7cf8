package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

const (
	defaultPageNo   = 1
	defaultPageSize = 10
)

// ResourceService runs the envelope-style CRUD calls for every catalogue resource.
type ResourceService struct {
	client     ports.ResourceClient
	codes      domain.SuccessCodes
	searchMode SearchMode
	logger     *slog.Logger
}

func NewResourceService(client ports.ResourceClient, codes domain.SuccessCodes, searchMode SearchMode, logger *slog.Logger) *ResourceService {
	if len(codes) == 0 {
		codes = domain.DefaultMutationSuccessCodes
	}
	if !searchMode.Valid() {
		searchMode = SearchModeFiltered
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ResourceService{client: client, codes: codes, searchMode: searchMode, logger: logger}
}

func (s *ResourceService) List(ctx context.Context, resource domain.Resource) (json.RawMessage, error) {
	return s.call(ctx, resource, "list", ports.Request{Method: http.MethodGet, Path: resource.ListPath})
}

func (s *ResourceService) Add(ctx context.Context, resource domain.Resource, record domain.Record) (json.RawMessage, error) {
	return s.call(ctx, resource, "add", ports.Request{Method: http.MethodPost, Path: resource.AddPath, Body: record})
}

func (s *ResourceService) Update(ctx context.Context, resource domain.Resource, record domain.Record) (json.RawMessage, error) {
	return s.call(ctx, resource, "update", ports.Request{Method: http.MethodPost, Path: resource.UpdatePath, Body: record})
}

func (s *ResourceService) Delete(ctx context.Context, resource domain.Resource, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("delete %s: id is required", resource.Name)
	}

	query := url.Values{}
	query.Set(resource.IDParam, id)
	return s.call(ctx, resource, "delete", ports.Request{Method: http.MethodPost, Path: resource.DeletePath, Query: query})
}

func (s *ResourceService) Search(ctx context.Context, resource domain.Resource, criteria domain.Record) (json.RawMessage, error) {
	body := criteria
	if resource.Name == domain.ResourceUser && s.searchMode == SearchModeFiltered {
		body = filteredUserSearch(criteria)
	}
	if body == nil {
		body = domain.Record{}
	}

	return s.call(ctx, resource, "search", ports.Request{Method: http.MethodPost, Path: resource.SearchPath, Body: body})
}

// UpdatePasswordByEmail resets a user's password; both values travel as query parameters.
func (s *ResourceService) UpdatePasswordByEmail(ctx context.Context, email, password string) (json.RawMessage, error) {
	user, _ := domain.LookupResource(domain.ResourceUser)

	query := url.Values{}
	query.Set("email", email)
	query.Set("password", password)
	return s.call(ctx, user, "update password", ports.Request{Method: http.MethodPost, Path: "/user/updateByEmail", Query: query})
}

func (s *ResourceService) call(ctx context.Context, resource domain.Resource, op string, req ports.Request) (json.RawMessage, error) {
	envelope, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, resource.Name, err)
	}
	if !s.codes.Accepts(envelope.Code) {
		s.logger.Info("resource call rejected",
			slog.String("resource", resource.Name),
			slog.String("op", op),
			slog.Int("code", envelope.Code),
		)
		return nil, fmt.Errorf("%s %s: %w", op, resource.Name, &domain.EnvelopeError{Code: envelope.Code, Msg: envelope.Msg})
	}

	return envelope.Data, nil
}

func filteredUserSearch(criteria domain.Record) domain.Record {
	params := domain.Record{
		"pageNo":   positiveOr(criteria["pageNo"], defaultPageNo),
		"pageSize": positiveOr(criteria["pageSize"], defaultPageSize),
	}

	if username, ok := criteria["username"].(string); ok && strings.TrimSpace(username) != "" {
		params["username"] = strings.TrimSpace(username)
	}
	if role := domain.Profile(criteria).String("role"); role != "" {
		params["role"] = criteria["role"]
	}

	return params
}

func positiveOr(value any, fallback int) any {
	switch typed := value.(type) {
	case int:
		if typed > 0 {
			return typed
		}
	case int64:
		if typed > 0 {
			return typed
		}
	case float64:
		if typed > 0 {
			return typed
		}
	case string:
		if typed != "" && typed != "0" {
			return typed
		}
	}
	return fallback
}
