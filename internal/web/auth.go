package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// publicPrefixes are reachable without a session.
var publicPrefixes = []string{
	"/login",
	"/register",
	"/static",
}

// AuthMiddleware decodes the session cookie and stores the session in the
// request locals. Requests without a valid session are sent to the login
// page, except for the public paths.
func AuthMiddleware(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		id := c.Cookies(session.CookieName)
		if id == "" {
			return c.Redirect("/login")
		}

		data, err := session.Read(store, id)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error().Err(err).Msg("reading session")
			}

			c.ClearCookie(session.CookieName)

			return c.Redirect("/login")
		}

		c.Locals(session.LocalsKey, data)

		return c.Next()
	}
}
