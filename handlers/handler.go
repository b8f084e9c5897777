package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"food-ordering-api/catalog"
	"food-ordering-api/middleware"
	"food-ordering-api/orders"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler holds the dependencies of every HTTP endpoint.
type Handler struct {
	db       *gorm.DB
	catalog  *catalog.Store
	orders   *orders.Service
	identity *middleware.Identity
	log      *slog.Logger
}

func New(db *gorm.DB, cat *catalog.Store, svc *orders.Service, identity *middleware.Identity, log *slog.Logger) *Handler {
	return &Handler{db: db, catalog: cat, orders: svc, identity: identity, log: log}
}

// statusFor maps an operation result to an HTTP status.
func statusFor(res orders.Result, success int) int {
	if res.OK {
		return success
	}
	switch res.Code {
	case orders.CodeRestaurantNotFound, orders.CodeDishNotFound, orders.CodeOrderNotFound:
		return http.StatusNotFound
	case orders.CodeForbidden:
		return http.StatusForbidden
	case orders.CodeAlreadyAssigned:
		return http.StatusConflict
	case orders.CodeInvalidStatus:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
