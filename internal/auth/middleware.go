package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLookup
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle enforces authentication for protected routes. Role lookup failures are not
// rejected here; they ride on the principal so authorization can fail closed.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	identity, err := m.tokens.VerifyToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	principal := ResolvePrincipal(c.UserContext(), *identity, m.users)
	if principal.RoleErr != nil {
		m.logger.Warn("role lookup failed", zap.String("user_id", principal.ID), zap.Error(principal.RoleErr))
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
