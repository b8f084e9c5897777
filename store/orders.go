// Package store is the authoritative home of order aggregates.
package store

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyAssigned = errors.New("order already has a driver")
)

// OrderStore persists orders, their items and their status history.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Driver").
		Preload("Restaurant").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id")
		})
}

// Create commits the order and all of its items in one transaction. Items
// must be fully built by the caller; nothing is written if any insert fails.
func (s *OrderStore) Create(ctx context.Context, customerID, restaurantID uint, items []models.OrderItem, total decimal.Decimal) (*models.Order, error) {
	order := models.Order{
		CustomerID:   &customerID,
		RestaurantID: &restaurantID,
		Items:        items,
		Total:        total,
		Status:       models.StatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: customerID,
			Note:      "order placed",
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.Get(ctx, order.ID)
}

// Get loads an order with its relations and status history.
func (s *OrderStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := withRelations(s.db.WithContext(ctx)).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_histories.id")
		}).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

// ListByCustomer returns the orders placed by customerID.
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID uint, status *models.OrderStatus) ([]models.Order, error) {
	return s.list(ctx, status, "customer_id = ?", customerID)
}

// ListByDriver returns the orders assigned to driverID.
func (s *OrderStore) ListByDriver(ctx context.Context, driverID uint, status *models.OrderStatus) ([]models.Order, error) {
	return s.list(ctx, status, "driver_id = ?", driverID)
}

// ListByRestaurantOwner returns the orders of every restaurant ownerID owns.
func (s *OrderStore) ListByRestaurantOwner(ctx context.Context, ownerID uint, status *models.OrderStatus) ([]models.Order, error) {
	owned := s.db.WithContext(ctx).Model(&models.Restaurant{}).Select("id").Where("owner_id = ?", ownerID)
	return s.list(ctx, status, "restaurant_id IN (?)", owned)
}

func (s *OrderStore) list(ctx context.Context, status *models.OrderStatus, cond string, args ...any) ([]models.Order, error) {
	query := withRelations(s.db.WithContext(ctx)).Where(cond, args...)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	orders := []models.Order{}
	if err := query.Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus overwrites the status column only. The total and every other
// field are left as they are.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actorID uint) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := tx.Select("id", "status").First(&current, id).Error; err != nil {
			return err
		}
		from := current.Status
		if err := tx.Model(&models.Order{}).Where("id = ?", id).UpdateColumn("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: from,
			ToStatus:   status,
			ChangedBy:  actorID,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update status of order %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// AssignDriver sets the driver if none is set yet. The update is
// conditional on driver_id being NULL, so of two concurrent callers exactly
// one wins and the other gets ErrAlreadyAssigned.
func (s *OrderStore) AssignDriver(ctx context.Context, id, driverID uint) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND driver_id IS NULL", id).
			UpdateColumn("driver_id", driverID)
		if res.Error != nil {
			return res.Error
		}

		var current models.Order
		if err := tx.Select("id", "status").First(&current, id).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyAssigned
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: current.Status,
			ToStatus:   current.Status,
			ChangedBy:  driverID,
			Note:       "driver assigned",
		}).Error
	})
	switch {
	case err == nil:
		return s.Get(ctx, id)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrOrderNotFound
	case errors.Is(err, ErrAlreadyAssigned):
		return nil, ErrAlreadyAssigned
	}
	return nil, fmt.Errorf("assign driver to order %d: %w", id, err)
}
