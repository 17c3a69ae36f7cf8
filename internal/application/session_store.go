package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/iot-warehouse-cli/internal/domain"
	"github.com/bnema/iot-warehouse-cli/internal/ports"
)

const (
	msgLoginFailed         = "login failed"
	msgLoginNetwork        = "login failed, please check your network connection"
	msgRegisterSucceeded   = "registration succeeded"
	msgRegisterFailed      = "registration failed"
	msgUpdateSucceeded     = "update succeeded"
	msgUpdateFailed        = "update failed"
	msgUpdateNetwork       = "failed to update user info"
	msgSessionNotPersisted = "the session could not be saved locally"
)

// SessionStore owns the authentication token and user profile. Every mutation
// writes through to storage before the in-memory session changes.
type SessionStore struct {
	users   ports.UserAPI
	storage ports.Storage
	policy  SuccessPolicy
	logger  *slog.Logger
	session domain.Session
}

// NewSessionStore hydrates the session from storage.
func NewSessionStore(ctx context.Context, users ports.UserAPI, storage ports.Storage, policy SuccessPolicy, logger *slog.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &SessionStore{
		users:   users,
		storage: storage,
		policy:  policy.withDefaults(),
		logger:  logger,
		session: domain.Session{Profile: domain.Profile{}},
	}

	token, err := s.read(ctx, domain.StorageKeyToken)
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	rawProfile, err := s.read(ctx, domain.StorageKeyUser)
	if err != nil {
		return nil, fmt.Errorf("load session profile: %w", err)
	}

	s.session.Token = token
	if rawProfile != "" {
		var profile domain.Profile
		if err := json.Unmarshal([]byte(rawProfile), &profile); err != nil {
			logger.Warn("discarding malformed stored profile", slog.Any("error", err))
		} else if profile != nil {
			s.session.Profile = profile
		}
	}

	return s, nil
}

func (s *SessionStore) Token() string {
	return s.session.Token
}

func (s *SessionStore) Profile() domain.Profile {
	return s.session.Profile.Clone()
}

func (s *SessionStore) IsLoggedIn() bool {
	return s.session.IsLoggedIn()
}

func (s *SessionStore) Username() string {
	return s.session.Profile.Username()
}

func (s *SessionStore) Role() string {
	return s.session.Profile.Role()
}

// PersistedLoggedIn reads the token from storage instead of memory, so changes made
// by another process are observed.
func (s *SessionStore) PersistedLoggedIn(ctx context.Context) bool {
	token, err := s.read(ctx, domain.StorageKeyToken)
	if err != nil {
		s.logger.Warn("read stored token", slog.Any("error", err))
		return false
	}
	return token != ""
}

func (s *SessionStore) Login(ctx context.Context, username, password string) Result {
	envelope, err := s.users.Login(ctx, ports.Credentials{Username: username, Password: password})
	if err != nil {
		s.logger.Warn("login request failed", slog.String("username", username), slog.Any("error", err))
		return failed(transportMessage(err, msgLoginNetwork))
	}
	if !s.policy.Login.Accepts(envelope.Code) {
		s.logger.Info("login rejected", slog.String("username", username), slog.Int("code", envelope.Code))
		return failed(envelopeMessage(envelope, msgLoginFailed))
	}

	var profile domain.Profile
	if err := envelope.DecodeData(&profile); err != nil {
		s.logger.Warn("login response data is not an object", slog.Any("error", err))
		return failed(msgLoginFailed)
	}
	if profile == nil {
		profile = domain.Profile{}
	}

	token := profile.Token()
	if token == "" {
		s.logger.Warn("login response carried no token, using placeholder", slog.String("username", username))
		token = domain.SentinelToken
	}

	next := domain.Session{Token: token, Profile: profile}
	if err := s.persist(ctx, next); err != nil {
		s.logger.Error("persist session after login", slog.Any("error", err))
		return failed(msgSessionNotPersisted)
	}
	s.session = next

	s.logger.Info("user logged in", slog.String("username", profile.Username()), slog.String("role", profile.Role()))
	return succeeded("", profile.Clone())
}

// Logout always clears the in-memory session. Storage failures are returned
// after the fact so the caller can report them.
func (s *SessionStore) Logout(ctx context.Context) error {
	username := s.session.Profile.Username()
	s.session = domain.Session{Profile: domain.Profile{}}

	var errs []error
	if err := s.storage.Delete(ctx, domain.StorageKeyToken); err != nil {
		errs = append(errs, fmt.Errorf("delete stored token: %w", err))
	}
	if err := s.storage.Delete(ctx, domain.StorageKeyUser); err != nil {
		errs = append(errs, fmt.Errorf("delete stored profile: %w", err))
	}

	s.logger.Info("user logged out", slog.String("username", username))
	return errors.Join(errs...)
}

func (s *SessionStore) Register(ctx context.Context, cmd RegisterCommand) Result {
	envelope, err := s.users.Register(ctx, ports.Registration{
		Username:       cmd.Username,
		PasswordHash:   cmd.PasswordHash,
		Email:          cmd.Email,
		BiometricToken: cmd.BiometricToken,
		Role:           cmd.Role,
	})
	if err != nil {
		s.logger.Warn("register request failed", slog.String("username", cmd.Username), slog.Any("error", err))
		return failed(transportMessage(err, msgRegisterFailed))
	}
	if !s.policy.Mutation.Accepts(envelope.Code) {
		return failed(envelopeMessage(envelope, msgRegisterFailed))
	}

	s.logger.Info("user registered", slog.String("username", cmd.Username))
	return succeeded(msgRegisterSucceeded, nil)
}

// UpdateUserInfo sends the partial profile to the server. The local session is
// refreshed only when the update targets the logged-in user.
func (s *SessionStore) UpdateUserInfo(ctx context.Context, partial domain.Profile) Result {
	envelope, err := s.users.UpdateUser(ctx, partial)
	if err != nil {
		s.logger.Warn("update user request failed", slog.String("user_id", partial.Identity()), slog.Any("error", err))
		return failed(transportMessage(err, msgUpdateNetwork))
	}
	if !s.policy.Mutation.Accepts(envelope.Code) {
		return failed(envelopeMessage(envelope, msgUpdateFailed))
	}

	if !partial.SameIdentity(s.session.Profile) {
		return succeeded(msgUpdateSucceeded, nil)
	}

	merged := s.session.Profile.Merge(partial)
	if err := s.putProfile(ctx, merged); err != nil {
		s.logger.Error("persist profile after update", slog.Any("error", err))
		return failed(msgSessionNotPersisted)
	}
	s.session.Profile = merged

	return succeeded(msgUpdateSucceeded, merged.Clone())
}

// SetUserInfo replaces the profile wholesale. The token changes only when the
// profile carries one.
func (s *SessionStore) SetUserInfo(ctx context.Context, profile domain.Profile) error {
	if profile == nil {
		profile = domain.Profile{}
	}
	profile = profile.Clone()
	previous := s.session.Profile

	if err := s.putProfile(ctx, profile); err != nil {
		return err
	}

	token := s.session.Token
	if incoming := profile.Token(); incoming != "" {
		if err := s.storage.Put(ctx, domain.StorageKeyToken, incoming); err != nil {
			if rollbackErr := s.putProfile(ctx, previous); rollbackErr != nil {
				return fmt.Errorf("store token and rollback profile: %w", errors.Join(err, rollbackErr))
			}
			return fmt.Errorf("store token: %w", err)
		}
		token = incoming
	}

	s.session = domain.Session{Token: token, Profile: profile}
	return nil
}

func (s *SessionStore) persist(ctx context.Context, next domain.Session) error {
	previousToken := s.session.Token

	if err := s.storage.Put(ctx, domain.StorageKeyToken, next.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	if err := s.putProfile(ctx, next.Profile); err != nil {
		if rollbackErr := s.restoreToken(ctx, previousToken); rollbackErr != nil {
			return fmt.Errorf("store profile and rollback token: %w", errors.Join(err, rollbackErr))
		}
		return err
	}

	return nil
}

func (s *SessionStore) putProfile(ctx context.Context, profile domain.Profile) error {
	if profile == nil {
		profile = domain.Profile{}
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.storage.Put(ctx, domain.StorageKeyUser, string(encoded)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

func (s *SessionStore) restoreToken(ctx context.Context, token string) error {
	if token == "" {
		return s.storage.Delete(ctx, domain.StorageKeyToken)
	}
	return s.storage.Put(ctx, domain.StorageKeyToken, token)
}

func (s *SessionStore) read(ctx context.Context, key string) (string, error) {
	value, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func transportMessage(err error, fallback string) string {
	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) && transportErr.Msg != "" {
		return transportErr.Msg
	}
	return fallback
}

func envelopeMessage(envelope domain.Envelope, fallback string) string {
	if envelope.Msg != "" {
		return envelope.Msg
	}
	return fallback
}
