package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the states of a food order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCooking   OrderStatus = "Cooking"
	StatusPickedUp  OrderStatus = "PickedUp"
	StatusDelivered OrderStatus = "Delivered"

	// StatusCooked is accepted as an edit target from the restaurant but is
	// never stored. It only triggers the cooked-order broadcast.
	StatusCooked OrderStatus = "Cooked"
)

// Valid reports whether s names a known status, Cooked included.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCooking, StatusCooked, StatusPickedUp, StatusDelivered:
		return true
	}
	return false
}

// Stored maps an edit target to the value kept in the orders table.
func (s OrderStatus) Stored() OrderStatus {
	if s == StatusCooked {
		return StatusCooking
	}
	return s
}

// Order is the aggregate root. Customer, driver and restaurant are nullable:
// when one of them is deleted the order stays as a historical record.
type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	CustomerID    *uint                `json:"customer_id" gorm:"index"`
	Customer      *User                `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	DriverID      *uint                `json:"driver_id" gorm:"index"`
	Driver        *User                `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL"`
	RestaurantID  *uint                `json:"restaurant_id" gorm:"index"`
	Restaurant    *Restaurant          `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:SET NULL"`
	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total         decimal.Decimal      `json:"total" gorm:"type:decimal(12,2);not null"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'Pending';index"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `json:"-" gorm:"index"`
}

// OwnerID returns the id of the owner of the order's restaurant, or 0 when
// the restaurant is gone or was not loaded.
func (o *Order) OwnerID() uint {
	if o.Restaurant == nil {
		return 0
	}
	return o.Restaurant.OwnerID
}

// IsCustomer reports whether userID placed the order.
func (o *Order) IsCustomer(userID uint) bool {
	return o.CustomerID != nil && *o.CustomerID == userID
}

// IsDriver reports whether userID is the assigned driver.
func (o *Order) IsDriver(userID uint) bool {
	return o.DriverID != nil && *o.DriverID == userID
}

// OrderItemOption is a customer's selection: an option name and, for
// options with choices, the chosen value.
type OrderItemOption struct {
	Name   string  `json:"name" binding:"required"`
	Choice *string `json:"choice,omitempty"`
}

// OrderItem is immutable once created. Name and Price snapshot the dish at
// order time so the item survives dish removal.
type OrderItem struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	OrderID   uint              `json:"order_id" gorm:"not null;index"`
	DishID    *uint             `json:"dish_id"`
	Dish      *Dish             `json:"-" gorm:"foreignKey:DishID;constraint:OnDelete:SET NULL"`
	Name      string            `json:"name"`
	Price     decimal.Decimal   `json:"price" gorm:"type:decimal(12,2);not null"`
	Options   []OrderItemOption `json:"options,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time         `json:"created_at"`
}

// OrderStatusHistory tracks every change to an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
