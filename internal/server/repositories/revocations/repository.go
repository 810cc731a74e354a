// Package revocations stores token ids that were revoked before their
// natural expiry. Entries only need to live as long as the token would.
package revocations

import (
	"context"
	"time"
)

type Repository interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoopRepository never revokes anything. It is used when no Redis URL is
// configured, which keeps tokens valid until they expire.
type NoopRepository struct{}

func (NoopRepository) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRepository) IsRevoked(context.Context, string) (bool, error) { return false, nil }
