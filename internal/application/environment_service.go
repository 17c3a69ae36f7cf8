package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

const environmentPath = "/environment"

var ErrIncompleteReading = errors.New("environment reading needs sensorId and timestamp")

// EnvironmentService talks to the sensor API, which answers with plain JSON rather than envelopes.
type EnvironmentService struct {
	client ports.ResourceClient
}

func NewEnvironmentService(client ports.ResourceClient) *EnvironmentService {
	return &EnvironmentService{client: client}
}

func (s *EnvironmentService) List(ctx context.Context) (json.RawMessage, error) {
	return s.raw(ctx, "list readings", ports.Request{Method: http.MethodGet, Path: environmentPath})
}

func (s *EnvironmentService) GetBySensor(ctx context.Context, sensorID string) (json.RawMessage, error) {
	if sensorID == "" {
		return nil, errors.New("sensor id is required")
	}
	return s.raw(ctx, "get sensor readings", ports.Request{Method: http.MethodGet, Path: environmentPath + "/" + url.PathEscape(sensorID)})
}

func (s *EnvironmentService) Search(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return s.raw(ctx, "search readings", ports.Request{Method: http.MethodGet, Path: environmentPath + "/search", Query: params})
}

func (s *EnvironmentService) Add(ctx context.Context, reading domain.EnvironmentReading) (json.RawMessage, error) {
	return s.raw(ctx, "add reading", ports.Request{Method: http.MethodPost, Path: environmentPath, Body: reading})
}

func (s *EnvironmentService) Update(ctx context.Context, reading domain.EnvironmentReading) (json.RawMessage, error) {
	path, err := readingPath(reading.SensorID(), reading.Timestamp())
	if err != nil {
		return nil, err
	}
	return s.raw(ctx, "update reading", ports.Request{Method: http.MethodPut, Path: path, Body: reading})
}

func (s *EnvironmentService) Delete(ctx context.Context, sensorID, timestamp string) (json.RawMessage, error) {
	path, err := readingPath(sensorID, timestamp)
	if err != nil {
		return nil, err
	}
	return s.raw(ctx, "delete reading", ports.Request{Method: http.MethodDelete, Path: path})
}

func (s *EnvironmentService) Stats(ctx context.Context) (json.RawMessage, error) {
	return s.raw(ctx, "environment stats", ports.Request{Method: http.MethodGet, Path: environmentPath + "/stats"})
}

func (s *EnvironmentService) raw(ctx context.Context, op string, req ports.Request) (json.RawMessage, error) {
	payload, err := s.client.Raw(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payload, nil
}

func readingPath(sensorID, timestamp string) (string, error) {
	if sensorID == "" || timestamp == "" {
		return "", ErrIncompleteReading
	}
	return environmentPath + "/" + url.PathEscape(sensorID) + "/" + url.PathEscape(timestamp), nil
}
