// Package catalog gives read access to restaurants and their dishes, plus the
// few writes an owner needs to publish a menu.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-api/models"

	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrDishNotFound       = errors.New("dish not found")
)

// Reader is the read side the order core depends on.
type Reader interface {
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	GetDish(ctx context.Context, id uint) (*models.Dish, error)
}

// Store is the gorm-backed catalog.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant %d: %w", id, err)
	}
	return &restaurant, nil
}

func (s *Store) GetDish(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("get dish %d: %w", id, err)
	}
	return &dish, nil
}

// ListRestaurants returns all restaurants, optionally filtered by a name
// substring.
func (s *Store) ListRestaurants(ctx context.Context, search string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	query := s.db.WithContext(ctx).Order("id")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// Menu returns the dishes of restaurantID.
func (s *Store) Menu(ctx context.Context, restaurantID uint) ([]models.Dish, error) {
	if _, err := s.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	var dishes []models.Dish
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id").Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("menu of restaurant %d: %w", restaurantID, err)
	}
	return dishes, nil
}

func (s *Store) CreateRestaurant(ctx context.Context, r *models.Restaurant) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

func (s *Store) AddDish(ctx context.Context, d *models.Dish) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("add dish: %w", err)
	}
	return nil
}
