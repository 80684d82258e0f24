package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/institute-hq/institute-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries         map[string][]byte
	lastTTL         time.Duration
	deletedPatterns []string
	getErr          error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	payload, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	m.lastTTL = ttl
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	return nil
}

func TestCacheServiceGetMissThenHit(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var got string
	hit, err := svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", "value", 0))
	assert.Equal(t, time.Minute, repo.lastTTL)

	hit, err = svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "value", got)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", "value", time.Minute))
	assert.Empty(t, repo.entries)

	var got string
	hit, err := svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.False(t, svc.Enabled())
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	require.NoError(t, svc.Invalidate(context.Background(), "report:*"))
	assert.Equal(t, []string{"report:*"}, repo.deletedPatterns)
}

func TestCacheServiceRecordsMetrics(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var got string
	_, _ = svc.Get(ctx, "k", &got)
	require.NoError(t, svc.Set(ctx, "k", "value", time.Minute))
	_, _ = svc.Get(ctx, "k", &got)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.Equal(t, 0.5, snap.CacheHitRatio)
}
