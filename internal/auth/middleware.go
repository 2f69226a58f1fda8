package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// PermissionsLocalsKey is where AddPermissionsToLocals stores the acting
// user's permission names for template use.
const PermissionsLocalsKey = "permissions"

// RequirePermission returns a middleware that only lets the request pass
// when the logged in user's role carries the named permission. Anonymous
// requests and missing permissions render the forbidden page.
func RequirePermission(service *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := session.FromCtx(c)
		if data == nil {
			return fiber.ErrForbidden
		}

		allowed, err := service.HasPermission(&data.User, permission)
		if err != nil {
			log.Error().Err(err).Str("permission", permission).Msg("permission check failed")

			return fiber.ErrInternalServerError
		}

		if !allowed {
			log.Debug().
				Str("username", data.User.Username).
				Str("permission", permission).
				Msg("permission denied")

			return fiber.ErrForbidden
		}

		return c.Next()
	}
}

// RequireAnyPermission lets the request pass when the user holds at least
// one of the named permissions.
func RequireAnyPermission(service *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := session.FromCtx(c)
		if data == nil {
			return fiber.ErrForbidden
		}

		for _, permission := range permissions {
			allowed, err := service.HasPermission(&data.User, permission)
			if err != nil {
				log.Error().Err(err).Str("permission", permission).Msg("permission check failed")

				return fiber.ErrInternalServerError
			}

			if allowed {
				return c.Next()
			}
		}

		return fiber.ErrForbidden
	}
}

// AddPermissionsToLocals resolves the user's permission set once per request
// so templates can decide which navigation entries to show.
func AddPermissionsToLocals(service *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := session.FromCtx(c)
		if data == nil {
			return c.Next()
		}

		names, err := service.UserPermissions(&data.User)
		if err != nil {
			log.Error().Err(err).Msg("resolving user permissions")

			return c.Next()
		}

		set := make(map[string]bool, len(names))
		for _, name := range names {
			set[name] = true
		}

		c.Locals(PermissionsLocalsKey, set)

		return c.Next()
	}
}

// PermissionsFromCtx returns the permission set AddPermissionsToLocals
// stored, or an empty set.
func PermissionsFromCtx(c *fiber.Ctx) map[string]bool {
	set, ok := c.Locals(PermissionsLocalsKey).(map[string]bool)
	if !ok {
		return map[string]bool{}
	}

	return set
}
