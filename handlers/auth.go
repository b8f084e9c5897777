package handlers

import (
	"errors"
	"net/http"

	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userBody(u *models.User) gin.H {
	return gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
}

// Register creates a new user account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !req.Role.Valid() {
		badRequest(c, "Invalid role. Must be: Client, Owner, or Delivery")
		return
	}

	// Check email uniqueness
	var existing models.User
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "Email already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.ErrorContext(c.Request.Context(), "lookup user failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to create user"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		h.log.ErrorContext(c.Request.Context(), "create user failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to create user"})
		return
	}

	token, err := h.identity.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "token": token, "user": userBody(&user)})
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid email or password"})
		return
	}

	token, err := h.identity.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "user": userBody(&user)})
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	caller := middleware.MustAuthUser(c)
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, caller.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": userBody(&user)})
}
