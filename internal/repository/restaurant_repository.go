package repository

import (
	"context"

	"gorm.io/gorm"

	"tablebook/internal/model"
)

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository.
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// Search returns one page of the filtered catalog and the filtered total.
func (r *restaurantRepository) Search(ctx context.Context, filter RestaurantFilter, page Page) ([]model.Restaurant, int64, error) {
	query := func() *gorm.DB {
		return filter.scope(r.db.WithContext(ctx).Model(&model.Restaurant{}))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	restaurants := make([]model.Restaurant, 0, page.Size)
	if err := query().
		Order(restaurantOrder).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

// FindByID finds a restaurant by ID.
func (r *restaurantRepository) FindByID(ctx context.Context, id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

// DistinctCuisines lists the non-empty cuisine tags in ascending order.
func (r *restaurantRepository) DistinctCuisines(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "cuisine")
}

// DistinctLocations lists the non-empty locations in ascending order.
func (r *restaurantRepository) DistinctLocations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "location")
}

func (r *restaurantRepository) distinct(ctx context.Context, column string) ([]string, error) {
	values := make([]string, 0)
	if err := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where(column+" <> ''").
		Distinct(column).
		Order(column+" ASC").
		Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Count returns the catalog size.
func (r *restaurantRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Restaurant{}).Count(&count).Error
	return count, err
}

// CreateBatch inserts catalog entries in batches of 100.
func (r *restaurantRepository) CreateBatch(ctx context.Context, restaurants []model.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(restaurants, 100).Error)
}
