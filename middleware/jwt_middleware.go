// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by the JWT gate.
const (
	ContextUserID = "userId"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// TokenQueryParam carries the bearer token on websocket upgrades.
const TokenQueryParam = "token"

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

// ActiveCheck reports whether the account behind a token may still act.
type ActiveCheck func(ctx context.Context, userID string) bool

// JWT signs tokens and guards routes with them.
type JWT struct {
	secret []byte
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewJWT(secret string, ttl time.Duration, log logrus.FieldLogger) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, log: log}
}

// GenerateJWT signs an HS256 token for the user, valid for the configured TTL.
func (j *JWT) GenerateJWT(userID, email string, role models.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)
	claims := &JwtCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// JWTMiddleware accepts a bearer token from the Authorization header. When
// active is non-nil, tokens of deactivated or deleted accounts are rejected.
func (j *JWT) JWTMiddleware(active ActiveCheck) echo.MiddlewareFunc {
	return j.gate("header:"+echo.HeaderAuthorization, active)
}

// StreamMiddleware is JWTMiddleware for websocket upgrades, which cannot
// carry headers from a browser, so it also reads the token query parameter.
func (j *JWT) StreamMiddleware(active ActiveCheck) echo.MiddlewareFunc {
	return j.gate("header:"+echo.HeaderAuthorization+",query:"+TokenQueryParam, active)
}

func (j *JWT) gate(lookup string, active ActiveCheck) echo.MiddlewareFunc {
	gate := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    j.secret,
		SigningMethod: middleware.AlgorithmHS256,
		Claims:        &JwtCustomClaims{},
		TokenLookup:   lookup,
		SuccessHandler: func(c echo.Context) {
			claims := c.Get("user").(*jwt.Token).Claims.(*JwtCustomClaims)
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextRole, claims.Role)
		},
		ErrorHandler: func(err error) error {
			j.log.WithError(err).Debug("JWT validation failed")
			return echo.NewHTTPError(http.StatusUnauthorized, "Please provide valid credentials")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		checked := func(c echo.Context) error {
			if active != nil && !active(c.Request().Context(), GetUserIDFromToken(c)) {
				return echo.NewHTTPError(http.StatusUnauthorized, "User account is inactive")
			}
			return next(c)
		}
		return gate(checked)
	}
}

// GetUserFromToken extracts the claims stored by the JWT gate.
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

func GetUserIDFromToken(c echo.Context) string {
	if userID, ok := c.Get(ContextUserID).(string); ok && userID != "" {
		return userID
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// ExtractUserID returns the caller's id as an ObjectID.
func ExtractUserID(c echo.Context) (primitive.ObjectID, error) {
	userID := GetUserIDFromToken(c)
	if userID == "" {
		return primitive.NilObjectID, errors.New("missing user id in token")
	}
	return primitive.ObjectIDFromHex(userID)
}

// ExtractRole safely extracts the role from the context
func ExtractRole(c echo.Context) models.Role {
	if role, ok := c.Get(ContextRole).(models.Role); ok && role != "" {
		return role
	}
	if claims := GetUserFromToken(c); claims != nil {
		return claims.Role
	}
	return ""
}

func IsAdmin(c echo.Context) bool {
	return ExtractRole(c) == models.RoleAdmin
}
