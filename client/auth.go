package client

import (
	"context"
	"net/http"

	"github.com/rizia-events/rizia-backend/internal/auth"
)

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

type AuthResponse struct {
	User    *auth.User   `json:"user"`
	Profile *auth.User   `json:"profile"`
	Session auth.Session `json:"session"`
	IsAdmin bool         `json:"isAdmin"`
}

type SessionInfo struct {
	User    *auth.User `json:"user"`
	IsAdmin bool       `json:"isAdmin"`
}

// SignUp registers an account and keeps its access token.
func (c *Client) SignUp(ctx context.Context, in SignUpInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Session.AccessToken)
	return &out, nil
}

// SignIn logs in and keeps the access token. asAdmin selects the admin
// login type, which the server rejects for non-admin accounts.
func (c *Client) SignIn(ctx context.Context, email, password string, asAdmin bool) (*AuthResponse, error) {
	loginType := auth.LoginTypeUser
	if asAdmin {
		loginType = auth.LoginTypeAdmin
	}
	body := map[string]any{
		"email":     email,
		"password":  password,
		"loginType": loginType,
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Session.AccessToken)
	return &out, nil
}

// Refresh exchanges a refresh token and keeps the new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	var out struct {
		Session auth.Session `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, map[string]string{"refresh_token": refreshToken}, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Session.AccessToken)
	return &out.Session, nil
}

func (c *Client) Session(ctx context.Context) (*SessionInfo, error) {
	var out SessionInfo
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut revokes the session server-side. The local token is cleared
// even when the call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil, nil)
	c.SetToken("")
	return err
}
