package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/offer-service/internal/auth"
	apperrors "github.com/spec-kit/offer-service/pkg/util/errorutil"
	"github.com/spec-kit/offer-service/pkg/util/validation"
)

// principal returns the authenticated caller or nil. Services reject nil as unauthenticated.
func principal(c *fiber.Ctx) *auth.Principal {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return p
}

// authorize checks action before the request body is decoded, so denied callers never
// see validation details.
func authorize(c *fiber.Ctx, action auth.Action, res auth.Resource) error {
	return auth.Authorize(principal(c), action, res)
}

// ownResource is the caller's own record, or an unowned resource when there is no caller.
func ownResource(c *fiber.Ctx) auth.Resource {
	if p := principal(c); p != nil {
		return auth.OwnedBy(p.ID)
	}
	return auth.Resource{}
}

// bind decodes the JSON body into v and runs its validation tags.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validation.Struct(v)
}

func limitParam(c *fiber.Ctx) int {
	return c.QueryInt("limit", 0)
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
