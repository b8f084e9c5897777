package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"not null;index"`
	Owner       *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name        string    `json:"name" gorm:"not null"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Menu        []Dish    `json:"menu,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DishChoice is one named value of an option, e.g. "Large" under "Size".
type DishChoice struct {
	Name  string           `json:"name"`
	Extra *decimal.Decimal `json:"extra,omitempty"`
}

// DishOption is a customization of a dish. It carries either a flat Extra
// or choices with their own extras, never both.
type DishOption struct {
	Name    string           `json:"name"`
	Extra   *decimal.Decimal `json:"extra,omitempty"`
	Choices []DishChoice     `json:"choices,omitempty"`
}

type Dish struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	RestaurantID uint            `json:"restaurant_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Options      []DishOption    `json:"options,omitempty" gorm:"serializer:json"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Option returns the dish option called name.
func (d *Dish) Option(name string) (DishOption, bool) {
	for _, o := range d.Options {
		if o.Name == name {
			return o, true
		}
	}
	return DishOption{}, false
}

// Choice returns the choice called name under o.
func (o DishOption) Choice(name string) (DishChoice, bool) {
	for _, c := range o.Choices {
		if c.Name == name {
			return c, true
		}
	}
	return DishChoice{}, false
}
