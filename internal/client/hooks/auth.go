package hooks

import (
	"context"

	"github.com/yndnr/hireflow-go/internal/client/callstate"
	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/client/query"
	"github.com/yndnr/hireflow-go/internal/client/services/user"
)

// Session reports whether a session is present.
type Session interface {
	IsAuthenticated() bool
}

// Auth signs users in and out.
type Auth struct {
	base
	svc     *user.Service
	session Session
}

// NewAuth creates the auth hook.
func NewAuth(svc *user.Service, session Session, cache *query.Cache, n notify.Notifier) *Auth {
	return &Auth{base: newBase(cache, n), svc: svc, session: session}
}

// IsAuthenticated reports whether a session token is stored.
func (a *Auth) IsAuthenticated() bool {
	return a.session.IsAuthenticated()
}

// SendOTP sends a sign-in code to phone.
func (a *Auth) SendOTP(ctx context.Context, phone string) (user.SendOTPResponse, error) {
	resp, err := callstate.Run(ctx, &a.state, func(ctx context.Context) (user.SendOTPResponse, error) {
		return a.svc.SendOTP(ctx, user.SendOTPRequest{Phone: phone})
	})
	if err == nil {
		msg := resp.Message
		if msg == "" {
			msg = "Verification code sent"
		}
		a.notifier.Notify(notify.Success, msg)
	}
	return resp, err
}

// VerifyOTP signs in with a code.
func (a *Auth) VerifyOTP(ctx context.Context, phone, code string) (user.User, error) {
	return a.signIn(ctx, func(ctx context.Context) (user.AuthResponse, error) {
		return a.svc.VerifyOTP(ctx, user.VerifyOTPRequest{Phone: phone, Code: code})
	})
}

// Login signs in with email and password.
func (a *Auth) Login(ctx context.Context, email, password string) (user.User, error) {
	return a.signIn(ctx, func(ctx context.Context) (user.AuthResponse, error) {
		return a.svc.Login(ctx, user.LoginRequest{Email: email, Password: password})
	})
}

// Register creates an account and signs in.
func (a *Auth) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	return a.signIn(ctx, func(ctx context.Context) (user.AuthResponse, error) {
		return a.svc.Register(ctx, req)
	})
}

// Me returns the signed-in user.
func (a *Auth) Me(ctx context.Context) (user.User, error) {
	return read(ctx, &a.base, user.KeyMe, a.svc.Me)
}

// Logout ends the session. The local session is gone when Logout
// returns, even if the error is non-nil.
func (a *Auth) Logout(ctx context.Context) error {
	_, err := callstate.Run(ctx, &a.state, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.svc.Logout(ctx)
	})
	a.notifier.Notify(notify.Success, "Signed out")
	return err
}

func (a *Auth) signIn(ctx context.Context, call func(context.Context) (user.AuthResponse, error)) (user.User, error) {
	resp, err := callstate.Run(ctx, &a.state, call)
	if err != nil {
		return user.User{}, err
	}

	name := resp.User.Name
	if name == "" {
		name = resp.User.Email
	}
	if name != "" {
		a.notifier.Notify(notify.Success, "Welcome, "+name)
	} else {
		a.notifier.Notify(notify.Success, "Signed in")
	}
	return resp.User, nil
}
