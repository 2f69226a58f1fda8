// Package handler defines the contract every web handler package fulfills
// and the constants they share.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/config"
)

// Handler is implemented by every handler package's Service. Init wires the
// package's routes into the fiber app.
type Handler interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, store storage.Storage)
}
