package auth

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// LocalProvider authenticates users against the local user table.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider returns an authentication provider backed by the given
// database.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// Authenticate checks the credentials and returns the matching user with
// its role preloaded. The password is always verified, even for unknown
// usernames, so response timing does not leak which part failed.
func (p *LocalProvider) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := p.db.Preload("Role").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user.VerifyPassword(password)

			return nil, ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "loading user")
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserDisabled
	}

	return &user, nil
}

// CreateUserInput is the data needed to register a new account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     models.RoleName
	// Phone creates a buyer profile when the role is buyer.
	Phone string
}

// CreateUser registers a new active account with the given role. For buyer
// accounts the buyer profile is created in the same transaction.
func (p *LocalProvider) CreateUser(in CreateUserInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, ErrUnknownRole
	}

	var user *models.User

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var count int64

		err := tx.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error
		if err != nil {
			return errors.Wrap(err, "checking username")
		}

		if count > 0 {
			return ErrUserExists
		}

		var role models.Role

		err = tx.Where("name = ?", string(in.Role)).First(&role).Error
		if err != nil {
			return errors.Wrap(err, "loading role")
		}

		user = &models.User{
			Active:   true,
			Username: in.Username,
			Email:    in.Email,
			Password: models.HashPassword(in.Password),
			RoleID:   role.ID,
		}

		err = tx.Create(user).Error
		if err != nil {
			return errors.Wrap(err, "inserting user")
		}

		if in.Role == models.RoleBuyer {
			buyer := models.Buyer{UserID: user.ID, Phone: in.Phone}

			err = tx.Create(&buyer).Error
			if err != nil {
				return errors.Wrap(err, "inserting buyer profile")
			}
		}

		user.Role = role

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword replaces the user's password hash.
func (p *LocalProvider) ChangePassword(userID uint64, password string) error {
	err := p.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", models.HashPassword(password)).Error
	if err != nil {
		return errors.Wrap(err, "updating password")
	}

	return nil
}
