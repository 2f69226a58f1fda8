// Package web assembles the fiber application: template engine, middleware,
// the handler packages and the HTTP server lifecycle.
package web

import (
	"embed"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
	fiberlogger "github.com/AlphaAutos/AlphaAutos/internal/logger/adapter/fiber"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler"
	adminuser "github.com/AlphaAutos/AlphaAutos/internal/web/handler/admin/user"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/brand"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/buyer"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/dealership"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/employee"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/home"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/insurer"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/login"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/logout"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/maintenance"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/policy"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/register"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/sale"
	"github.com/AlphaAutos/AlphaAutos/internal/web/handler/vehicle"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// handlers lists every handler package that registers routes.
var handlers = []handler.Handler{
	&login.Handler,
	&logout.Handler,
	&register.Handler,
	&home.Handler,
	&dealership.Handler,
	&brand.Handler,
	&employee.Handler,
	&vehicle.Handler,
	&buyer.Handler,
	&insurer.Handler,
	&policy.Handler,
	&maintenance.Handler,
	&sale.Handler,
	&adminuser.Handler,
}

// Server is the web frontend.
type Server struct {
	app *fiber.App
	cfg *config.Config
}

// New builds the fiber application with all middleware and routes wired.
func New(cfg *config.Config, db *gorm.DB, store storage.Storage) *Server {
	engine := html.NewFileSystem(http.FS(templatesFS), ".gohtml")
	engine.Directory = "/templates"

	if cfg.DevMode {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.Title,
		Views:                 engine,
		ViewsLayout:           handler.BaseLayout,
		DisableStartupMessage: !cfg.DevMode,
		ErrorHandler:          errorHandler(cfg),
	})

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: cfg.Webserver.CookieEncryptionKey,
		}))
	}

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(staticFS),
		PathPrefix: "static",
		MaxAge:     3600,
	}))

	app.Use(AuthMiddleware(store))

	authService := auth.NewService(db)
	app.Use(auth.AddPermissionsToLocals(authService))

	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(home.Path)
	})

	for _, h := range handlers {
		h.Init(app, cfg, db, authService, store)
	}

	return &Server{app: app, cfg: cfg}
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Str("url", s.cfg.Webserver.URL).Msg("web server starting")

	return s.app.Listen(addr)
}

// Shutdown drains connections within the configured grace period.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
}

// errorHandler renders the themed error pages for the well known status
// codes and falls back to the generic one otherwise.
func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		template := "errors/500"
		switch code {
		case fiber.StatusForbidden:
			template = "errors/403"
		case fiber.StatusNotFound:
			template = "errors/404"
		}

		if code == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		renderErr := c.Status(code).Render(template, fiber.Map{
			"Title":    fmt.Sprintf("Error %d", code),
			"AppTitle": cfg.Title,
			"Code":     code,
		}, handler.BaseLayout)
		if renderErr != nil {
			return c.Status(code).SendString(http.StatusText(code))
		}

		return nil
	}
}
