package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/orders"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// PendingOrders streams new orders of the owner's restaurants as
// Server-Sent Events.
func (h *Handler) PendingOrders(c *gin.Context) {
	user := middleware.MustAuthUser(c)
	h.stream(c, func(ctx context.Context) (<-chan models.Order, error) {
		return h.orders.PendingOrders(ctx, user)
	})
}

// CookedOrders streams orders ready for pickup to drivers.
func (h *Handler) CookedOrders(c *gin.Context) {
	user := middleware.MustAuthUser(c)
	h.stream(c, func(ctx context.Context) (<-chan models.Order, error) {
		return h.orders.CookedOrders(ctx, user)
	})
}

// OrderUpdates streams changes to one order.
func (h *Handler) OrderUpdates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := middleware.MustAuthUser(c)
	h.stream(c, func(ctx context.Context) (<-chan models.Order, error) {
		return h.orders.OrderUpdates(ctx, user, id)
	})
}

// stream holds the connection open until the client goes away; the request
// context then ends the subscription.
func (h *Handler) stream(c *gin.Context, open func(context.Context) (<-chan models.Order, error)) {
	ch, err := open(c.Request.Context())
	if errors.Is(err, orders.ErrForbidden) {
		c.JSON(http.StatusForbidden, orders.Result{Code: orders.CodeForbidden, Error: "You can not subscribe to this"})
		return
	}
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "subscribe failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, orders.Result{Code: orders.CodeInternal, Error: "Could not subscribe"})
		return
	}

	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		order, ok := <-ch
		if !ok {
			return false
		}
		c.Render(-1, sse.Event{
			Id:    strconv.FormatUint(uint64(order.ID), 10),
			Event: "order",
			Data:  order,
		})
		return true
	})
}
