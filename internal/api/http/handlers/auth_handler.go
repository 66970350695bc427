package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

const (
	msgRegistered         = "user registered successfully"
	msgRegisterFailed     = "user registration failed"
	msgInvalidCredentials = "invalid credentials"
	msgAccessGranted      = "access granted"
)

// AuthHandler exposes register, login and the protected route.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, logger: logger}
}

// Register handles POST /register. Any failure is a 400 that carries the
// underlying error text as details.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(msgRegisterFailed, err.Error())
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(msgRegisterFailed, err.Error())
	}

	if _, err := h.auth.RegisterUser(c.UserContext(), req.Email, req.Password); err != nil {
		h.logger.Info("registration rejected", zap.Error(err))
		return apperrors.NewValidationError(msgRegisterFailed, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: msgRegistered})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	token, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		return apperrors.NewInternalError(err)
	}

	return c.JSON(dto.TokenResponse{Token: token})
}

// Protected handles GET /protected. It runs behind auth.AuthMiddleware.
func (h *AuthHandler) Protected(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.UnauthorizedMessage)
	}
	return c.JSON(dto.ProtectedResponse{Message: msgAccessGranted, Usuario: claims})
}
