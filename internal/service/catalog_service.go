package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablebook/internal/cache"
	"tablebook/internal/errors"
	"tablebook/internal/model"
	"tablebook/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

const (
	cuisinesCacheKey  = "tablebook:restaurants:cuisines"
	locationsCacheKey = "tablebook:restaurants:locations"
)

// CatalogService handles read-only restaurant queries.
type CatalogService interface {
	Search(ctx context.Context, filter repository.RestaurantFilter, page repository.Page) ([]model.Restaurant, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Restaurant, error)
	Cuisines(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
}

type catalogService struct {
	repo  repository.RestaurantRepository
	cache *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.RestaurantRepository, cache *cache.Client) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cache,
	}
}

func (s *catalogService) cacheKey(id uint) string {
	return fmt.Sprintf("tablebook:restaurant:%d", id)
}

// Search returns one page of matching restaurants and the filtered total.
func (s *catalogService) Search(ctx context.Context, filter repository.RestaurantFilter, page repository.Page) ([]model.Restaurant, int64, error) {
	items, total, err := s.repo.Search(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("search restaurants: %w", err)
	}
	return items, total, nil
}

// GetByID retrieves a restaurant by ID with caching.
func (s *catalogService) GetByID(ctx context.Context, id uint) (*model.Restaurant, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Restaurant
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}

	if payload, err := json.Marshal(restaurant); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, catalogCacheTTL)
	}
	return restaurant, nil
}

// Cuisines returns the sorted distinct cuisines.
func (s *catalogService) Cuisines(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, cuisinesCacheKey, s.repo.DistinctCuisines)
}

// Locations returns the sorted distinct locations.
func (s *catalogService) Locations(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, locationsCacheKey, s.repo.DistinctLocations)
}

func (s *catalogService) distinct(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []string
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	values, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if values == nil {
		values = []string{}
	}

	if payload, err := json.Marshal(values); err == nil {
		_ = s.cache.Set(ctx, key, payload, catalogCacheTTL)
	}
	return values, nil
}
