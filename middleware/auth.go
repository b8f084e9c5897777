package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authUserKey = "authUser"

type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity issues and resolves signed user tokens.
type Identity struct {
	secret []byte
	ttl    time.Duration
}

func NewIdentity(secret []byte, ttl time.Duration) *Identity {
	return &Identity{secret: secret, ttl: ttl}
}

// GenerateToken creates a signed JWT for a given user
func (i *Identity) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Resolve verifies token and returns the identity it carries.
func (i *Identity) Resolve(token string) (models.AuthUser, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.AuthUser{}, err
	}
	if !parsed.Valid || !claims.Role.Valid() {
		return models.AuthUser{}, errors.New("invalid token claims")
	}
	return models.AuthUser{ID: claims.UserID, Role: claims.Role}, nil
}

// tokenFrom accepts a bearer token, the x-jwt header, or a token query
// parameter for EventSource clients that cannot set headers.
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if h := c.GetHeader("x-jwt"); h != "" {
		return h
	}
	return c.Query("token")
}

// AuthRequired validates the JWT and injects the caller into context
func (i *Identity) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Authorization required (Bearer <token>)"})
			return
		}
		user, err := i.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid or expired token"})
			return
		}
		c.Set(authUserKey, user)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetAuthUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "Role not found in context"})
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"ok":    false,
			"code":  "Forbidden",
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetAuthUser extracts the caller resolved by AuthRequired
func GetAuthUser(c *gin.Context) (models.AuthUser, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return models.AuthUser{}, false
	}
	user, ok := val.(models.AuthUser)
	return user, ok
}

// MustAuthUser is GetAuthUser for handlers mounted behind AuthRequired.
func MustAuthUser(c *gin.Context) models.AuthUser {
	user, _ := GetAuthUser(c)
	return user
}
