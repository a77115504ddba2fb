package apiclient

import (
	"context"
	"errors"
	"net/http"

	"studio-dashboard/internal/models"
)

// Login posts credentials and, on success, stores the returned token as both
// access and refresh token. The backend issues a single token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out, false); err != nil {
		return nil, err
	}
	if err := c.storeToken(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out, false); err != nil {
		return nil, err
	}
	if err := c.storeToken(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.Get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) storeToken(resp *models.AuthResponse) error {
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token in response"
		}
		return &APIError{Status: http.StatusUnauthorized, Message: msg}
	}
	return c.tokens.SetTokens(resp.Token, resp.Token)
}

// IsAuth reports whether err means the user must log in again.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}
