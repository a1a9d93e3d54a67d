package recommendation

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/RezenkovD/TravelAiApi/internal/types"
)

var _ Repository = (*CachedRepository)(nil)

// CachedRepository keeps recently saved or fetched rows in memory so that
// refinement chains do not hit the database for the base record. Stored rows
// never change, so entries only expire, they are never invalidated.
// History listing always reads through.
type CachedRepository struct {
	next   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

func NewCachedRepository(next Repository, ttl, cleanupInterval time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		cache:  cache.New(ttl, cleanupInterval),
		logger: logger,
	}
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (c *CachedRepository) Save(ctx context.Context, req *types.TravelRequest) (*types.TravelRequest, error) {
	saved, err := c.next.Save(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKey(saved.ID), *saved)
	return saved, nil
}

func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*types.TravelRequest, error) {
	if v, ok := c.cache.Get(cacheKey(id)); ok {
		req := v.(types.TravelRequest)
		c.logger.DebugContext(ctx, "Travel request served from cache", slog.Int64("id", id))
		return &req, nil
	}

	req, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(cacheKey(id), *req)
	return req, nil
}

func (c *CachedRepository) ListAll(ctx context.Context) ([]types.TravelRequest, error) {
	return c.next.ListAll(ctx)
}
