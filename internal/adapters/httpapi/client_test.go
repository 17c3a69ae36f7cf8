package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens map[string]string

func (s staticTokens) Get(_ context.Context, key string) (string, error) {
	value, ok := s[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func TestClientDoDecodesEnvelopeAndSendsHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/iot-warehouse/goods/delGoods", r.URL.Path)
		assert.Equal(t, "g-1", r.URL.Query().Get("goodsId"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":true,"msg":"ok"}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{
		BaseURL:    server.URL + "/iot-warehouse/",
		HTTPClient: server.Client(),
		Tokens:     staticTokens{domain.StorageKeyToken: "tok-1"},
	}

	env, err := client.Do(context.Background(), ports.Request{
		Method: http.MethodPost,
		Path:   "/goods/delGoods",
		Query:  url.Values{"goodsId": []string{"g-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, "ok", env.Msg)
	assert.JSONEq(t, "true", string(env.Data))
}

func TestClientSendsJSONBodyWithoutTokenWhenAnonymous(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"username":"alice","password":"pw"}`, string(raw))

		_, _ = w.Write([]byte(`{"code":20000,"data":{"token":"t"}}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client(), Tokens: staticTokens{}}
	env, err := UserAPI{Client: client}.Login(context.Background(), ports.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 20000, env.Code)
}

func TestClientMapsNon2xxToTransportError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "envelope body", body: `{"code":401,"msg":"invalid credentials"}`, wantMsg: "invalid credentials"},
		{name: "message body", body: `{"message":"gateway down"}`, wantMsg: "gateway down"},
		{name: "plain text body", body: `oops`, wantMsg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}
			_, err := client.Do(context.Background(), ports.Request{Path: "/user/getAllUsers"})

			var transportErr *domain.TransportError
			require.True(t, errors.As(err, &transportErr))
			assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
			assert.Equal(t, tt.wantMsg, transportErr.Msg)
		})
	}
}

func TestClientNetworkFailureHasNoStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := &Client{BaseURL: baseURL, RequestTimeout: time.Second}
	_, err := client.Do(context.Background(), ports.Request{Path: "/user/login"})

	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Zero(t, transportErr.StatusCode)
	assert.Error(t, transportErr.Err)
}

func TestClientTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"code":200}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client(), RequestTimeout: 20 * time.Millisecond}
	_, err := client.Do(context.Background(), ports.Request{Path: "/warehouse/getAllWarehouses"})

	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClientRawKeepsEscapedPathAndQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/environment/s-1/2026-10-16%2008:00:00", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"updated":1}`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL + "/api", HTTPClient: server.Client()}
	payload, err := client.Raw(context.Background(), ports.Request{
		Method: http.MethodPut,
		Path:   "/environment/s-1/2026-10-16%2008:00:00",
		Body:   map[string]any{"sensorId": "s-1"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"updated":1}`, string(payload))
}

func TestClientRawRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL, HTTPClient: server.Client()}
	_, err := client.Raw(context.Background(), ports.Request{Path: "/environment"})
	assert.ErrorContains(t, err, "invalid json")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(empty.Close)

	client = &Client{BaseURL: empty.URL, HTTPClient: empty.Client()}
	payload, err := client.Raw(context.Background(), ports.Request{Method: http.MethodDelete, Path: "/environment/s/t"})
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("null"), payload)
}

func TestBuildURLValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		path    string
		want    string
		wantErr string
	}{
		{name: "keeps base prefix", baseURL: "http://host:8080/iot-warehouse", path: "/user/login", want: "http://host:8080/iot-warehouse/user/login"},
		{name: "trailing slash base", baseURL: "https://host/", path: "user/login", want: "https://host/user/login"},
		{name: "missing base", path: "/x", wantErr: "api base url is required"},
		{name: "bad scheme", baseURL: "ftp://host", path: "/x", wantErr: "http or https"},
		{name: "missing host", baseURL: "http://", path: "/x", wantErr: "host is required"},
		{name: "missing path", baseURL: "http://host", wantErr: "api path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildURL(tt.baseURL, tt.path, nil)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserAPIRegisterDuplicatesPassword(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/register", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"username":        "bob",
			"passwordHash":    "secret",
			"passwordConfirm": "secret",
			"email":           "bob@example.com",
			"biometricToken":  "",
			"role":            "operator",
		}, body)
		_, _ = w.Write([]byte(`{"code":200}`))
	}))
	t.Cleanup(server.Close)

	api := UserAPI{Client: &Client{BaseURL: server.URL, HTTPClient: server.Client()}}
	env, err := api.Register(context.Background(), ports.Registration{
		Username:     "bob",
		PasswordHash: "secret",
		Email:        "bob@example.com",
		Role:         "operator",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, env.Code)
}

func TestUserAPIUpdateUserPostsProfile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/updateUser", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["userId"])
		_, _ = w.Write([]byte(`{"code":500,"msg":"nope"}`))
	}))
	t.Cleanup(server.Close)

	api := UserAPI{Client: &Client{BaseURL: server.URL, HTTPClient: server.Client()}}
	env, err := api.UpdateUser(context.Background(), domain.Profile{"userId": "u-1", "email": "x@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.Envelope{Code: 500, Msg: "nope"}, env)
}
