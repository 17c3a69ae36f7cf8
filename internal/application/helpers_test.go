package application

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

type inMemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func newInMemoryStorage(seed map[string]string) *inMemoryStorage {
	values := map[string]string{}
	for k, v := range seed {
		values[k] = v
	}
	return &inMemoryStorage{values: values}
}

func (s *inMemoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func (s *inMemoryStorage) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *inMemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *inMemoryStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[key]
	return ok
}

type recordingClient struct {
	requests []ports.Request
	envelope domain.Envelope
	raw      json.RawMessage
	err      error
}

func (c *recordingClient) Do(_ context.Context, req ports.Request) (domain.Envelope, error) {
	c.requests = append(c.requests, req)
	return c.envelope, c.err
}

func (c *recordingClient) Raw(_ context.Context, req ports.Request) (json.RawMessage, error) {
	c.requests = append(c.requests, req)
	return c.raw, c.err
}

func (c *recordingClient) last() ports.Request {
	if len(c.requests) == 0 {
		return ports.Request{}
	}
	return c.requests[len(c.requests)-1]
}

type staticAuth bool

func (a staticAuth) PersistedLoggedIn(context.Context) bool {
	return bool(a)
}

func mockAnyContext() interface{} {
	return mock.Anything
}

func envelope(code int, data string, msg string) domain.Envelope {
	env := domain.Envelope{Code: code, Msg: msg}
	if data != "" {
		env.Data = json.RawMessage(data)
	}
	return env
}
