package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data does not
// survive a restart.
type MemoryRepositoryManager struct {
	users       *users.MemoryRepository
	revocations revocations.Repository
}

func NewMemoryRepositoryManager(rev revocations.Repository) *MemoryRepositoryManager {
	if rev == nil {
		rev = revocations.NoopRepository{}
	}
	return &MemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		revocations: rev,
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Revocations() revocations.Repository { return m.revocations }

func (m *MemoryRepositoryManager) Close() error { return closeIfCloser(m.revocations) }
