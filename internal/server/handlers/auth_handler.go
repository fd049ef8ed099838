package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/montwater/internal/auth"
)

// Authenticator exchanges the shared password for a capability token.
type Authenticator interface {
	Login(password string) (string, time.Time, error)
}

// AuthHandler serves the login route.
type AuthHandler struct {
	authn  Authenticator
	logger *zap.Logger
}

// NewAuthHandler constructs the login handler.
func NewAuthHandler(authn Authenticator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{authn: authn, logger: logger}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login returns an admin token when the password matches.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	token, expiresAt, err := h.authn.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			h.logger.Info("login rejected", zap.String("client_ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"role":      auth.RoleAdmin,
		"expiresAt": expiresAt,
	})
}
