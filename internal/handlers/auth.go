package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/rverbytskyi/planora/internal/auth"
	"github.com/rverbytskyi/planora/internal/middleware"
	"github.com/rverbytskyi/planora/internal/models"
	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/errors"
	"github.com/rverbytskyi/planora/pkg/response"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	db      *gorm.DB
	service *services.AuthService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	service, err := services.NewAuthService(db, jwt)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{db: db, service: service}, nil
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload services.RegisterInput
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Register(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload services.LoginInput
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Login(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var user models.User
	if err := h.db.WithContext(requestContext(c)).Where("id = ?", userID).First(&user).Error; err != nil {
		response.Error(c, errors.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, user)
}
