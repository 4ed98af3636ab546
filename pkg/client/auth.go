package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/naveenspark/shopfront/pkg/domain"
)

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. It never sends a stored token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      LoginRequest{Email: email, Password: password},
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/register",
		body:      RegisterRequest{Name: name, Email: email, Password: password},
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}
