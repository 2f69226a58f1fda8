package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	"github.com/AlphaAutos/AlphaAutos/internal/web/navigation"
	"github.com/AlphaAutos/AlphaAutos/internal/web/session"
)

// Render draws the template inside the base layout, adding the data every
// page needs: the acting user, the navigation bar and the flash message
// carried in the success query parameter.
func Render(c *fiber.Ctx, cfg *config.Config, template string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	if sess := session.FromCtx(c); sess != nil {
		data["User"] = sess.User
		data["PageViews"] = sess.PageViews
		data["FirstVisit"] = sess.FirstVisit
	}

	data["Nav"] = navigation.Build(auth.PermissionsFromCtx(c), c.Path())
	data["AppTitle"] = cfg.Title

	if _, ok := data["Title"]; !ok {
		data["Title"] = cfg.Title
	}

	if success := c.Query("success"); success != "" {
		data["Success"] = success
	}

	return c.Render(template, data, BaseLayout)
}
