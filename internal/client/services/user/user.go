// Package user is the client of the user/auth service.
package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yndnr/hireflow-go/internal/client/apiclient"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services"
)

// KeyMe is the query key of the signed-in user.
var KeyMe = query.Key{"me"}

// User is an account on the user service.
type User struct {
	ID    services.ID `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
	Phone string      `json:"phone,omitempty"`
	Role  string      `json:"role,omitempty"`
}

// SendOTPRequest asks for a one-time code by SMS.
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

// SendOTPResponse acknowledges a sent code.
type SendOTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"`
}

// VerifyOTPRequest exchanges a one-time code for a session.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// LoginRequest signs in with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,e164"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is returned by every call that starts a session.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionStore persists the session.
type SessionStore interface {
	Set(token string, userID any) error
	Teardown() error
}

// ErrNoToken is returned when the service accepts credentials but sends
// no token back.
var ErrNoToken = errors.New("user: response carried no token")

// Service calls the user service.
type Service struct {
	client *apiclient.Client
	store  SessionStore
	cache  *query.Cache
	logger *slog.Logger
}

// New creates a Service. cache may be nil.
func New(client *apiclient.Client, store SessionStore, cache *query.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, store: store, cache: cache, logger: logger}
}

// SendOTP sends a one-time code to the phone number.
func (s *Service) SendOTP(ctx context.Context, req SendOTPRequest) (SendOTPResponse, error) {
	return apiclient.Post[SendOTPResponse](ctx, s.client, "/auth/otp/send", req)
}

// VerifyOTP checks the code and persists the resulting session.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (AuthResponse, error) {
	resp, err := apiclient.Post[AuthResponse](ctx, s.client, "/auth/otp/verify", req)
	if err != nil {
		return resp, err
	}
	return resp, s.persist(resp)
}

// Login signs in and persists the resulting session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	resp, err := apiclient.Post[AuthResponse](ctx, s.client, "/auth/login", req)
	if err != nil {
		return resp, err
	}
	return resp, s.persist(resp)
}

// Register creates an account and persists the resulting session.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	resp, err := apiclient.Post[AuthResponse](ctx, s.client, "/auth/register", req)
	if err != nil {
		return resp, err
	}
	return resp, s.persist(resp)
}

// Me returns the signed-in user.
func (s *Service) Me(ctx context.Context) (User, error) {
	return apiclient.Get[User](ctx, s.client, "/users/me")
}

// Logout ends the session. The server call is best effort: the local
// session and the cache are cleared even when it fails, and its error is
// returned afterwards.
func (s *Service) Logout(ctx context.Context) error {
	_, callErr := apiclient.Post[any](ctx, s.client, "/auth/logout", nil)
	if callErr != nil {
		s.logger.Warn("logout call failed, clearing local session", "error", callErr)
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	if err := s.store.Teardown(); err != nil {
		return errors.Join(callErr, err)
	}
	return callErr
}

func (s *Service) persist(resp AuthResponse) error {
	if resp.Token == "" {
		return ErrNoToken
	}

	// A new session must not see the previous user's cached reads.
	if s.cache != nil {
		s.cache.Clear()
	}

	var userID any
	if !resp.User.ID.IsZero() {
		userID = resp.User.ID.String()
	}
	if err := s.store.Set(resp.Token, userID); err != nil {
		return err
	}

	if s.cache != nil && !resp.User.ID.IsZero() {
		s.cache.SetData(KeyMe, resp.User)
	}
	s.logger.Debug("session started", "user_id", resp.User.ID)
	return nil
}
