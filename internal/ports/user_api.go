package ports

import (
	"context"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username       string `json:"username"`
	PasswordHash   string `json:"passwordHash"`
	Email          string `json:"email"`
	BiometricToken string `json:"biometricToken"`
	Role           string `json:"role"`
}

// UserAPI is the slice of the user endpoints the session store depends on.
type UserAPI interface {
	Login(ctx context.Context, credentials Credentials) (domain.Envelope, error)
	Register(ctx context.Context, registration Registration) (domain.Envelope, error)
	UpdateUser(ctx context.Context, profile domain.Profile) (domain.Envelope, error)
}
