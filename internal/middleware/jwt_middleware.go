package middleware

import (
	"log"
	"strings"

	"booktank/internal/apperrors"
	"booktank/internal/permissions"
	"booktank/internal/services"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// TokenValidator turns a bearer token into the principal it was issued to.
type TokenValidator interface {
	ValidateToken(token string) (permissions.Principal, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// principal is stored in the request locals for later handlers.
func AuthRequired(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := tokens.ValidateToken(bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			log.Printf("JWT validation failed for %s %s: %v", c.Method(), c.Path(), err)
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>". Anything else yields
// an empty token, reported as missing.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFrom returns the principal stored by AuthRequired.
func PrincipalFrom(c *fiber.Ctx) (permissions.Principal, error) {
	p, ok := c.Locals(principalKey).(permissions.Principal)
	if !ok {
		return permissions.Principal{}, apperrors.Authentication(services.ErrTokenMissing)
	}
	return p, nil
}
