package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/salesmap/internal/cache"
	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/andresuchdata/salesmap/internal/repository"
	"github.com/rs/zerolog/log"
)

// PriceGroupService owns the saved M-2 price table.
type PriceGroupService struct {
	repo  repository.PriceGroupRepository
	cache cache.PriceGroupCache
	now   func() time.Time
}

func NewPriceGroupService(repo repository.PriceGroupRepository, c cache.PriceGroupCache) *PriceGroupService {
	if c == nil {
		c = cache.NewNoopPriceGroupCache()
	}
	return &PriceGroupService{repo: repo, cache: c, now: time.Now}
}

// Get returns the saved groups, or the default single group when nothing
// has been saved yet.
func (s *PriceGroupService) Get(ctx context.Context) (domain.PriceGroups, error) {
	if groups, ok, err := s.cache.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("price group cache read failed")
	} else if ok {
		return groups, nil
	}

	groups, err := s.repo.GetPriceGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price groups: %w", err)
	}
	if len(groups) == 0 {
		return domain.DefaultPriceGroups(s.now()), nil
	}

	if err := s.cache.Set(ctx, groups); err != nil {
		log.Warn().Err(err).Msg("price group cache write failed")
	}
	return groups, nil
}

// Replace validates and stores a new table, replacing the old one.
func (s *PriceGroupService) Replace(ctx context.Context, groups domain.PriceGroups) error {
	if err := groups.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, dups := groups.Table(); len(dups) > 0 {
		log.Warn().Ints("months", dups).Msg("price groups repeat a month, the last price wins")
	}

	if err := s.repo.ReplacePriceGroups(ctx, groups); err != nil {
		return fmt.Errorf("failed to save price groups: %w", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("price group cache invalidation failed")
	}
	return nil
}
