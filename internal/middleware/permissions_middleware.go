package middleware

import (
	"booktank/internal/permissions"

	"github.com/gofiber/fiber/v2"
)

// Require runs after AuthRequired and lets the request through only when the
// policy built for it allows.
func Require(build func(p permissions.Principal, c *fiber.Ctx) (permissions.Policy, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := PrincipalFrom(c)
		if err != nil {
			return err
		}
		policy, err := build(p, c)
		if err != nil {
			return err
		}
		if err := permissions.Authorize(policy); err != nil {
			return err
		}
		return c.Next()
	}
}

func AdminOnly() fiber.Handler {
	return Require(func(p permissions.Principal, _ *fiber.Ctx) (permissions.Policy, error) {
		return permissions.AdminOnly{Principal: p}, nil
	})
}

func AuthorOrAdmin() fiber.Handler {
	return Require(func(p permissions.Principal, _ *fiber.Ctx) (permissions.Policy, error) {
		return permissions.AuthorOrAdmin{Principal: p}, nil
	})
}

// SelfOnly compares the principal against the integer path parameter param.
func SelfOnly(param string) fiber.Handler {
	return Require(func(p permissions.Principal, c *fiber.Ctx) (permissions.Policy, error) {
		target, err := permissions.ParseTargetID(c.Params(param))
		if err != nil {
			return nil, err
		}
		return permissions.SelfOnly{Principal: p, TargetID: target}, nil
	})
}

// SelfOrAdmin compares the principal against the integer path parameter param.
func SelfOrAdmin(param string) fiber.Handler {
	return Require(func(p permissions.Principal, c *fiber.Ctx) (permissions.Policy, error) {
		target, err := permissions.ParseTargetID(c.Params(param))
		if err != nil {
			return nil, err
		}
		return permissions.SelfOrAdmin{Principal: p, TargetID: target}, nil
	})
}
