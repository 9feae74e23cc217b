package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

type cacheRepoStub struct {
	getErr    error
	setErr    error
	deleteErr error
	lastTTL   time.Duration
	sets      int
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	return s.getErr
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets++
	s.lastTTL = ttl
	return s.setErr
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	return s.deleteErr
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := &cacheRepoStub{}
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	var dest []string
	assert.False(t, svc.Get(context.Background(), "k", &dest))
	svc.Set(context.Background(), "k", []string{"a"}, 0)
	assert.Zero(t, repo.sets)
	assert.NoError(t, svc.Invalidate(context.Background(), "k"))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Get(context.Background(), "k", &dest))
}

func TestCacheServiceTreatsErrorsAsMiss(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(&cacheRepoStub{getErr: errors.New("connection reset")}, metrics, time.Minute, nil, true)

	var dest []string
	assert.False(t, svc.Get(context.Background(), "k", &dest))

	svc = NewCacheService(&cacheRepoStub{getErr: appErrors.ErrCacheMiss}, metrics, time.Minute, nil, true)
	assert.False(t, svc.Get(context.Background(), "k", &dest))
	assert.EqualValues(t, 2, metrics.Snapshot().CacheMisses)
}

func TestCacheServiceSetUsesDefaultTTL(t *testing.T) {
	repo := &cacheRepoStub{}
	svc := NewCacheService(repo, nil, 5*time.Minute, nil, true)

	svc.Set(context.Background(), "k", "v", 0)
	require.Equal(t, 1, repo.sets)
	assert.Equal(t, 5*time.Minute, repo.lastTTL)

	svc.Set(context.Background(), "k", "v", time.Second)
	assert.Equal(t, time.Second, repo.lastTTL)
}

func TestCacheServiceInvalidateReturnsError(t *testing.T) {
	svc := NewCacheService(&cacheRepoStub{deleteErr: errors.New("boom")}, nil, time.Minute, nil, true)
	assert.Error(t, svc.Invalidate(context.Background(), "rooms:*"))
}
