package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// RepositoryManager vends the repositories the server needs and owns their
// underlying connections.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Revocations() revocations.Repository
	Close() error
}
