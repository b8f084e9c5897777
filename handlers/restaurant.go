package handlers

import (
	"errors"
	"net/http"

	"food-ordering-api/catalog"
	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

// CreateRestaurant lets an owner open a restaurant
func (h *Handler) CreateRestaurant(c *gin.Context) {
	owner := middleware.MustAuthUser(c)
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	restaurant := models.Restaurant{
		OwnerID:     owner.ID,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	}
	if err := h.catalog.CreateRestaurant(c.Request.Context(), &restaurant); err != nil {
		h.log.ErrorContext(c.Request.Context(), "create restaurant failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to create restaurant"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "restaurant": restaurant})
}

type CreateDishRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Options     []models.DishOption `json:"options"`
}

func nonNegative(d *decimal.Decimal) bool {
	return d == nil || !d.IsNegative()
}

func (r *CreateDishRequest) validate() error {
	if !r.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	for _, o := range r.Options {
		if o.Name == "" {
			return errors.New("option name is required")
		}
		if !nonNegative(o.Extra) {
			return errors.New("option extra must not be negative")
		}
		for _, ch := range o.Choices {
			if ch.Name == "" || !nonNegative(ch.Extra) {
				return errors.New("choices need a name and a non-negative extra")
			}
		}
	}
	return nil
}

// AddDish adds a dish to a restaurant the caller owns
func (h *Handler) AddDish(c *gin.Context) {
	owner := middleware.MustAuthUser(c)
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.catalog.GetRestaurant(c.Request.Context(), restaurantID)
	if errors.Is(err, catalog.ErrRestaurantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": "RestaurantNotFound", "error": "Restaurant not found"})
		return
	}
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "get restaurant failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to add dish"})
		return
	}
	if restaurant.OwnerID != owner.ID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "code": "Forbidden", "error": "You don't own this restaurant"})
		return
	}

	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	dish := models.Dish{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Options:      req.Options,
	}
	if err := h.catalog.AddDish(c.Request.Context(), &dish); err != nil {
		h.log.ErrorContext(c.Request.Context(), "add dish failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to add dish"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "dish": dish})
}
