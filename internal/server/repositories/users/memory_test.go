package users

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u, err := repo.Create(ctx, newAlice())
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	byName, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)
	assert.Equal(t, []byte("hash"), byID.PasswordHash)
}

func TestMemoryRepository_DuplicateDoesNotWrite(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, newAlice())
	require.NoError(t, err)

	dup := &models.User{UserName: "alice", FirstName: "X", LastName: "Y", PasswordHash: []byte("other")}
	_, err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	stored, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "A", stored.FirstName)
	assert.Len(t, repo.byID, 1)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetUserByID(context.Background(), "ghost-id")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_ReturnedCopiesAreIsolated(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newAlice())
	require.NoError(t, err)

	got, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	got.PasswordHash[0] = 'X'
	got.FirstName = "mutated"

	again, err := repo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("hash"), again.PasswordHash)
	assert.Equal(t, "A", again.FirstName)
}

func TestMemoryRepository_ConcurrentCreateSameName(t *testing.T) {
	repo := NewMemoryRepository()
	const workers = 32

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.Create(context.Background(), &models.User{UserName: "bob", FirstName: "B", LastName: "M", PasswordHash: []byte("h")})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, common.ErrAlreadyExists):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
}

func TestMemoryRepository_CreateHonoursCancelledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, newAlice())
	require.ErrorIs(t, err, context.Canceled)
	_, err = repo.GetUserByLogin(context.Background(), "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
