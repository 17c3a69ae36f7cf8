package httpapi

import (
	"context"
	"net/http"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

type UserAPI struct {
	Client ports.ResourceClient
}

var _ ports.UserAPI = UserAPI{}

type registerPayload struct {
	ports.Registration
	PasswordConfirm string `json:"passwordConfirm"`
}

func (a UserAPI) Login(ctx context.Context, credentials ports.Credentials) (domain.Envelope, error) {
	return a.Client.Do(ctx, ports.Request{Method: http.MethodPost, Path: "/user/login", Body: credentials})
}

// Register sends passwordConfirm equal to passwordHash; the server insists on both.
func (a UserAPI) Register(ctx context.Context, registration ports.Registration) (domain.Envelope, error) {
	return a.Client.Do(ctx, ports.Request{
		Method: http.MethodPost,
		Path:   "/user/register",
		Body:   registerPayload{Registration: registration, PasswordConfirm: registration.PasswordHash},
	})
}

func (a UserAPI) UpdateUser(ctx context.Context, profile domain.Profile) (domain.Envelope, error) {
	return a.Client.Do(ctx, ports.Request{Method: http.MethodPost, Path: "/user/updateUser", Body: profile})
}
