package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/internal/testutil"
)

// 两个后端共用同一组行为用例
func followBackends(t *testing.T) map[string]func(t *testing.T) FollowRepository {
	return map[string]func(t *testing.T) FollowRepository{
		"db": func(t *testing.T) FollowRepository {
			return NewFollowRepository(testutil.NewDB(t))
		},
		"redis": func(t *testing.T) FollowRepository {
			_, client := testutil.NewRedis(t)
			return NewRedisFollowRepository(client)
		},
	}
}

func TestFollowRepository_CreateIsDirected(t *testing.T) {
	for name, newRepo := range followBackends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			require.NoError(t, repo.Create(ctx, "a", "b"))

			ok, err := repo.Exists(ctx, "a", "b")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = repo.Exists(ctx, "b", "a")
			require.NoError(t, err)
			assert.False(t, ok, "reverse edge must not exist")

			following, err := repo.ListFollowingIDs(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, following)

			followers, err := repo.ListFollowerIDs(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, followers)

			followers, err = repo.ListFollowerIDs(ctx, "a")
			require.NoError(t, err)
			assert.Empty(t, followers)
		})
	}
}

func TestFollowRepository_DuplicateCreate(t *testing.T) {
	for name, newRepo := range followBackends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			require.NoError(t, repo.Create(ctx, "a", "b"))
			assert.ErrorIs(t, repo.Create(ctx, "a", "b"), ErrDuplicate)

			following, err := repo.ListFollowingIDs(ctx, "a")
			require.NoError(t, err)
			assert.Len(t, following, 1)
		})
	}
}

func TestFollowRepository_ConcurrentDuplicateCreate(t *testing.T) {
	for name, newRepo := range followBackends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			const n = 8
			errs := make([]error, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = repo.Create(ctx, "a", "b")
				}(i)
			}
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				assert.ErrorIs(t, err, ErrDuplicate)
			}
			assert.Equal(t, 1, succeeded)

			followers, err := repo.ListFollowerIDs(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, followers)
		})
	}
}

func TestFollowRepository_Delete(t *testing.T) {
	for name, newRepo := range followBackends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			require.NoError(t, repo.Create(ctx, "a", "b"))
			require.NoError(t, repo.Delete(ctx, "a", "b"))

			ok, err := repo.Exists(ctx, "a", "b")
			require.NoError(t, err)
			assert.False(t, ok)

			followers, err := repo.ListFollowerIDs(ctx, "b")
			require.NoError(t, err)
			assert.Empty(t, followers)

			assert.ErrorIs(t, repo.Delete(ctx, "a", "b"), ErrNotFound)
		})
	}
}

func TestFollowRepository_FollowAgainAfterDelete(t *testing.T) {
	for name, newRepo := range followBackends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			require.NoError(t, repo.Create(ctx, "a", "b"))
			require.NoError(t, repo.Delete(ctx, "a", "b"))
			require.NoError(t, repo.Create(ctx, "a", "b"))

			ok, err := repo.Exists(ctx, "a", "b")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}
