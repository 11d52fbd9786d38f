package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/docvault/docvault/pkg/config"
	"github.com/docvault/docvault/pkg/types"
)

// Service issues and validates access tokens. There is no user database: the
// deployment's admin key (stored bcrypt-hashed in configuration) is exchanged
// for a short-lived JWT, and document routes require a valid token.
type Service struct {
	config  *config.AuthConfig
	keyHash string
}

// NewService creates a new auth service. When only a plaintext admin key is
// configured, it is hashed here with the configured bcrypt cost.
func NewService(cfg *config.AuthConfig) *Service {
	keyHash := cfg.AdminKeyHash
	if keyHash == "" && cfg.AdminKey != "" {
		cost := cfg.BCryptCost
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		if hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminKey), cost); err == nil {
			keyHash = string(hash)
		}
	}
	return &Service{config: cfg, keyHash: keyHash}
}

// ExchangeToken validates the admin key and issues a signed JWT
func (s *Service) ExchangeToken(adminKey string) (*types.AuthToken, error) {
	if s.keyHash == "" {
		return nil, fmt.Errorf("token exchange is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.keyHash), []byte(adminKey)); err != nil {
		return nil, fmt.Errorf("invalid admin key")
	}

	expiresAt := time.Now().Add(s.config.JWTExpiration)
	claims := jwt.MapClaims{
		"sub": "admin",
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &types.AuthToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken verifies a JWT's signature and expiry
func (s *Service) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// Middleware rejects requests without a valid Bearer token
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, types.APIResponse{
				Success: false,
				Error:   "Missing authorization header",
			})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, types.APIResponse{
				Success: false,
				Error:   "Invalid authorization format",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if err := s.ValidateToken(token); err != nil {
			c.JSON(http.StatusUnauthorized, types.APIResponse{
				Success: false,
				Error:   "Invalid credentials",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
