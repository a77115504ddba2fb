// Package auth holds the authentication state of one browser session.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/models"
)

// Session is built per request from the session-backed token store. It is
// never shared between requests.
type Session struct {
	api *apiclient.Client
	log *slog.Logger

	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// New restores the persisted user snapshot. IsAuthenticated stays false
// until FetchUser confirms the token.
func New(api *apiclient.Client, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		api:  api,
		log:  log,
		User: api.Tokens().User(),
	}
}

func (s *Session) API() *apiclient.Client { return s.api }

// Role is empty when nobody is logged in.
func (s *Session) Role() models.UserRole {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s *Session) HasRole(roles ...models.UserRole) bool {
	return s.IsAuthenticated && s.Role().In(roles...)
}

// FetchUser confirms the stored token against /auth/me. Without a token it
// makes no call. Any failure is treated as an invalid session.
func (s *Session) FetchUser(ctx context.Context) error {
	store := s.api.Tokens()
	if store.AccessToken() == "" {
		s.reset()
		return nil
	}

	s.IsLoading = true
	u, err := s.api.Me(ctx)
	s.IsLoading = false
	if err != nil {
		s.log.Warn("fetch user failed", "err", err)
		if clearErr := store.Clear(); clearErr != nil {
			s.log.Error("clear tokens", "err", clearErr)
		}
		s.reset()
		return err
	}

	s.User = u
	s.IsAuthenticated = true
	if err := store.SetUser(u); err != nil {
		s.log.Error("persist user snapshot", "err", err)
	}
	return nil
}

// Login stores the token pair and loads the user. On failure Error is set and
// the error returned so the form can show it.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.IsLoading = true
	s.Error = ""
	defer func() { s.IsLoading = false }()

	if _, err := s.api.Login(ctx, username, password); err != nil {
		return s.fail(err, "Đăng nhập thất bại")
	}
	if err := s.FetchUser(ctx); err != nil {
		return s.fail(err, "Đăng nhập thất bại")
	}
	if !s.IsAuthenticated {
		return s.fail(errors.New("login: session not established"), "Đăng nhập thất bại")
	}
	return nil
}

// Register creates the account and signs in with the returned token.
func (s *Session) Register(ctx context.Context, req models.RegisterRequest) error {
	s.IsLoading = true
	s.Error = ""
	defer func() { s.IsLoading = false }()

	if _, err := s.api.Register(ctx, req); err != nil {
		return s.fail(err, "Đăng ký thất bại")
	}
	if err := s.FetchUser(ctx); err != nil {
		return s.fail(err, "Đăng ký thất bại")
	}
	return nil
}

func (s *Session) Logout() error {
	s.reset()
	s.Error = ""
	return s.api.Tokens().Clear()
}

func (s *Session) reset() {
	s.User = nil
	s.IsAuthenticated = false
	s.IsLoading = false
}

func (s *Session) fail(err error, fallback string) error {
	s.Error = apiclient.Message(err, fallback)
	s.IsAuthenticated = false
	return err
}
