package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

const claimsKey = "auth_claims"

// UnauthorizedMessage is the only message returned for rejected tokens.
const UnauthorizedMessage = "unauthorized"

// AuthMiddleware validates bearer tokens and exposes their claims to handlers.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		m.reject(c, err)
		return apperrors.NewUnauthorized(UnauthorizedMessage)
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		m.reject(c, err)
		return apperrors.NewUnauthorized(UnauthorizedMessage)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, err error) {
	fields := []zap.Field{zap.String("path", c.Path()), zap.Error(err)}
	var tokenErr *TokenError
	if errors.As(err, &tokenErr) {
		fields = append(fields, zap.String("reason", string(tokenErr.Reason)))
	}
	m.logger.Debug("token rejected", fields...)
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}

// ClaimsFromContext retrieves the authenticated identity.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
