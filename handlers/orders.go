package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/orders"

	"github.com/gin-gonic/gin"
)

// CreateOrder places an order for the calling client
func (h *Handler) CreateOrder(c *gin.Context) {
	var in orders.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	out := h.orders.CreateOrder(c.Request.Context(), middleware.MustAuthUser(c), in)
	c.JSON(statusFor(out.Result, http.StatusCreated), out)
}

// GetOrders lists the caller's orders, optionally filtered by ?status=
func (h *Handler) GetOrders(c *gin.Context) {
	var status *models.OrderStatus
	if q := c.Query("status"); q != "" {
		s := models.OrderStatus(q)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, orders.Result{Code: orders.CodeInvalidStatus, Error: "Unknown order status"})
			return
		}
		status = &s
	}
	out := h.orders.GetOrders(c.Request.Context(), middleware.MustAuthUser(c), status)
	c.JSON(statusFor(out.Result, http.StatusOK), out)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out := h.orders.GetOrder(c.Request.Context(), middleware.MustAuthUser(c), id)
	c.JSON(statusFor(out.Result, http.StatusOK), out)
}

type EditOrderRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// EditOrder changes an order's status
func (h *Handler) EditOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res := h.orders.EditOrder(c.Request.Context(), middleware.MustAuthUser(c), id, req.Status)
	c.JSON(statusFor(res, http.StatusOK), res)
}

// TakeOrder assigns the calling driver to an order
func (h *Handler) TakeOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res := h.orders.TakeOrder(c.Request.Context(), middleware.MustAuthUser(c), id)
	c.JSON(statusFor(res, http.StatusOK), res)
}
