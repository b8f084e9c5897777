package handlers

import (
	"errors"
	"net/http"

	"food-ordering-api/catalog"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns all restaurants (public)
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.catalog.ListRestaurants(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "list restaurants failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not list restaurants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(restaurants), "restaurants": restaurants})
}

// GetRestaurant returns a single restaurant
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.catalog.GetRestaurant(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrRestaurantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": "RestaurantNotFound", "error": "Restaurant not found"})
		return
	}
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "get restaurant failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not get restaurant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant (public)
func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	menu, err := h.catalog.Menu(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrRestaurantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": "RestaurantNotFound", "error": "Restaurant not found"})
		return
	}
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "get menu failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not get menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(menu), "menu": menu})
}

// GetStateMachineInfo returns who may set which status
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	targets := make(map[models.UserRole][]models.OrderStatus)
	for _, role := range []models.UserRole{models.RoleClient, models.RoleOwner, models.RoleDelivery} {
		targets[role] = statemachine.ValidTargetsFor(role)
		if targets[role] == nil {
			targets[role] = []models.OrderStatus{}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"transitions":     statemachine.GetAllTransitions(),
		"targets_by_role": targets,
		"initial_state":   "Pending",
		"terminal_states": []string{"Delivered"},
		"notes":           "Cooked is announced to drivers but stored as Cooking",
	})
}
