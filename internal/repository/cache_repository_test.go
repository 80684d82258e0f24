package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheRepository(client), srv
}

func TestCacheRepositorySetGet(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, repo.Set(ctx, "report:dashboard", payload{Name: "dashboard", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, repo.Get(ctx, "report:dashboard", &got))
	assert.Equal(t, "dashboard", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCacheRepositoryMiss(t *testing.T) {
	repo, _ := newCacheRepo(t)

	var got map[string]string
	err := repo.Get(context.Background(), "missing", &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryTTLExpiry(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "report:dashboard", "payload", time.Minute))
	srv.FastForward(2 * time.Minute)

	var got string
	err := repo.Get(ctx, "report:dashboard", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "report:dashboard", "a", time.Minute))
	require.NoError(t, repo.Set(ctx, "report:students", "b", time.Minute))
	require.NoError(t, repo.Set(ctx, "session:u1", "c", time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "report:*"))

	assert.False(t, srv.Exists("report:dashboard"))
	assert.False(t, srv.Exists("report:students"))
	assert.True(t, srv.Exists("session:u1"))
}

func TestCacheRepositoryDeleteByPatternNoMatches(t *testing.T) {
	repo, _ := newCacheRepo(t)
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "report:*"))
}
