package spaces

import (
	"context"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/constants"
	"github.com/harshnandal981/Advermo-sub000/pkg/cache"
)

// Catalog resolves a space id into the data needed for pricing and ownership checks.
type Catalog interface {
	GetSpace(ctx context.Context, id string) (*SpaceInfo, error)
}

type catalog struct {
	repo  Repository
	cache cache.Service
	ttl   time.Duration
}

// NewCatalog returns a catalog backed by repo. cacheSvc may be nil.
func NewCatalog(repo Repository, cacheSvc cache.Service, ttl time.Duration) Catalog {
	if ttl <= 0 {
		ttl = constants.TTL_SPACE_DETAIL
	}
	return &catalog{repo: repo, cache: cacheSvc, ttl: ttl}
}

func (c *catalog) GetSpace(ctx context.Context, id string) (*SpaceInfo, error) {
	if id == "" {
		return nil, apperrors.Validation("space id is required")
	}

	if c.cache == nil {
		return c.load(ctx, id)
	}

	var info SpaceInfo
	err := c.cache.GetOrSet(ctx, constants.BuildSpaceDetailKey(id), c.ttl, func() (interface{}, error) {
		return c.load(ctx, id)
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *catalog) load(ctx context.Context, id string) (*SpaceInfo, error) {
	space, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, apperrors.NotFound("space %s is not available", id)
	}
	return ToInfo(space)
}

// ToInfo derives the cost per thousand impressions from the monthly price.
func ToInfo(space *Space) (*SpaceInfo, error) {
	if space.MonthlyImpressions <= 0 {
		return nil, apperrors.Validation("space %s has no impression data", space.ID)
	}
	if space.MonthlyPrice < 0 || space.DailyFootfall < 0 {
		return nil, apperrors.Validation("space %s has negative pricing data", space.ID)
	}

	return &SpaceInfo{
		ID:                 space.ID,
		Name:               space.Name,
		VenueName:          space.VenueName,
		OwnerID:            space.OwnerID,
		OwnerEmail:         space.OwnerEmail,
		DailyReach:         space.DailyFootfall,
		MonthlyImpressions: space.MonthlyImpressions,
		MonthlyPrice:       space.MonthlyPrice,
		RatePerThousand:    space.MonthlyPrice / float64(space.MonthlyImpressions) * 1000,
	}, nil
}
