package spaces

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/constants"
	"github.com/harshnandal981/Advermo-sub000/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	spaces map[string]Space
	calls  int
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Space, error) {
	r.calls++
	s, ok := r.spaces[id]
	if !ok {
		return nil, apperrors.NotFound("space %s not found", id)
	}
	return &s, nil
}

func (r *fakeRepo) ListActive(ctx context.Context, limit, offset int) ([]Space, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Upsert(ctx context.Context, space *Space) error {
	r.spaces[space.ID] = *space
	return nil
}

// mapCache is a cache.Service that keeps JSON blobs in memory.
type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *mapCache) DeletePattern(ctx context.Context, pattern string) error {
	c.data = make(map[string][]byte)
	return nil
}

func (c *mapCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *mapCache) Ping(ctx context.Context) error { return nil }

func newRepo() *fakeRepo {
	return &fakeRepo{spaces: map[string]Space{
		"spc-1": {
			ID:                 "spc-1",
			Name:               "Atrium LED wall",
			OwnerID:            uuid.New(),
			DailyFootfall:      5000,
			MonthlyImpressions: 150000,
			MonthlyPrice:       3750,
			IsActive:           true,
		},
		"spc-off": {ID: "spc-off", MonthlyImpressions: 1000, IsActive: false},
	}}
}

func TestGetSpaceDerivesRate(t *testing.T) {
	c := NewCatalog(newRepo(), nil, 0)

	info, err := c.GetSpace(context.Background(), "spc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), info.DailyReach)
	assert.InDelta(t, 25.0, info.RatePerThousand, 1e-9)
}

func TestGetSpaceUsesCache(t *testing.T) {
	repo := newRepo()
	store := newMapCache()
	c := NewCatalog(repo, store, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := c.GetSpace(context.Background(), "spc-1")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, store.data, constants.BuildSpaceDetailKey("spc-1"))
}

func TestGetSpaceNotFound(t *testing.T) {
	c := NewCatalog(newRepo(), newMapCache(), time.Minute)

	_, err := c.GetSpace(context.Background(), "spc-off")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = c.GetSpace(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = c.GetSpace(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestToInfoRejectsMissingImpressions(t *testing.T) {
	_, err := ToInfo(&Space{ID: "spc-x", MonthlyPrice: 100})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
