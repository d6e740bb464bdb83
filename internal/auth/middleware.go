package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/staff-directory/pkg/util"
)

const claimsKey = "auth_claims"

// OperatorMiddleware guards operator endpoints with a bearer token. A nil
// token manager lets every request through.
type OperatorMiddleware struct {
	tokens *TokenManager
}

// NewOperatorMiddleware constructs middleware.
func NewOperatorMiddleware(tokens *TokenManager) *OperatorMiddleware {
	return &OperatorMiddleware{tokens: tokens}
}

// Handle enforces an operator token when one is configured.
func (m *OperatorMiddleware) Handle(c *fiber.Ctx) error {
	if m == nil || m.tokens == nil {
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Role != OperatorRole {
		return apperrors.NewForbidden("operator role required")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified operator claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}
