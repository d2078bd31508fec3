package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/types"
)

// Locals keys set by Protected for downstream handlers.
const (
	LocalsClaims = "claims"
)

// Protected validates the bearer token and stores its claims in the request
// context. Missing tokens get 401, invalid or expired ones 403, matching the
// behavior clients already rely on for the login redirect.
func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access token required",
				Type:    "auth.token.missing",
			}
		}

		claims, err := services.ParseToken(secret, tokenString)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid or expired token",
				Type:    "auth.token.invalid",
			}
		}

		c.Locals(LocalsClaims, claims)
		return c.Next()
	}
}

// RequireRoles rejects requests whose token role is not in the allowed set.
// It must run after Protected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access token required",
				Type:    "auth.token.missing",
			}
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "You do not have permission to perform this action",
			Type:    "auth.role",
		}
	}
}

// Claims returns the token claims stored by Protected, or nil.
func Claims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(LocalsClaims).(*services.Claims)
	return claims
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
