package api

import (
	"context"
	"errors"

	"github.com/assistant-app/console/internal/model/account"
)

// LoginResponse carries the signed-in user and bearer token.
type LoginResponse struct {
	User  account.UserRecord `json:"user"`
	Token string             `json:"token"`
}

// RegisterResponse is the confirmation payload after sign-up.
type RegisterResponse struct {
	Message string             `json:"message"`
	User    account.UserRecord `json:"user"`
}

// ValidateResponse reports whether the current token is still accepted.
type ValidateResponse struct {
	IsTokenValid bool `json:"isTokenValid"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return nil, asAuthError(err)
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out RegisterResponse
	if err := c.post(ctx, "/auth/register", body, &out); err != nil {
		return nil, asAuthError(err)
	}
	return &out, nil
}

// ValidateToken checks the stored credential against the server. Token
// validity is only ever established by this round trip; nothing is checked
// locally.
func (c *Client) ValidateToken(ctx context.Context) (*ValidateResponse, error) {
	var out ValidateResponse
	if err := c.get(ctx, "/auth/validate", &out); err != nil {
		return nil, asAuthError(err)
	}
	return &out, nil
}

func asAuthError(err error) error {
	var server *ServerError
	if errors.As(err, &server) {
		return &AuthError{Detail: server.Detail}
	}
	return &AuthError{Detail: err.Error()}
}
