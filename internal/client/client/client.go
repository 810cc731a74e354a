package client

import (
	"context"
	"time"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Password  string `json:"password"`
}

// Profile mirrors the server's public user projection.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req RegisterRequest) error
	Me(ctx context.Context, token string) (*Profile, error)
}
