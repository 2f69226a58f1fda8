package auth

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// Service answers permission questions for the web layer.
type Service struct {
	db *gorm.DB
}

// NewService returns a permission service backed by the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission reports whether the user's role carries the named
// permission.
func (s *Service) HasPermission(user *models.User, permission string) (bool, error) {
	var count int64

	err := s.db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ? AND permissions.name = ?", user.RoleID, permission).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "querying permission")
	}

	return count > 0, nil
}

// UserPermissions returns every permission name attached to the user's role.
func (s *Service) UserPermissions(user *models.User) ([]string, error) {
	var names []string

	err := s.db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", user.RoleID).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying user permissions")
	}

	return names, nil
}
