package daemon

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AlphaAutos/AlphaAutos/internal/auth"
	"github.com/AlphaAutos/AlphaAutos/internal/db/models"
)

// DefaultAdminUsername is the account created on first start.
const DefaultAdminUsername = "admin"

// defaultAdminPassword is only set when the admin account does not exist
// yet. It must be changed after the first login.
const defaultAdminPassword = "changeme"

// rolePermissions maps each system role to the permissions it carries.
// Managers maintain all dealership data but cannot touch accounts; buyers
// only record and search their own purchase.
var rolePermissions = map[models.RoleName][]string{
	models.RoleAdmin: auth.AllPermissions,
	models.RoleManager: {
		auth.PermDealershipManage,
		auth.PermVehicleManage,
		auth.PermBrandManage,
		auth.PermEmployeeManage,
		auth.PermBuyerManage,
		auth.PermInsurerManage,
		auth.PermPolicyManage,
		auth.PermMaintenanceManage,
		auth.PermSaleManage,
		auth.PermSaleCreate,
		auth.PermSaleSearch,
	},
	models.RoleBuyer: {
		auth.PermSaleCreate,
		auth.PermSaleSearch,
	},
}

var roleDescriptions = map[models.RoleName]string{
	models.RoleAdmin:   "Full access including account management",
	models.RoleManager: "Maintains dealership data and records sales",
	models.RoleBuyer:   "Records and views their own purchase",
}

// Seed creates the system roles, their permissions and the default admin
// account. It is idempotent and safe to run on every start.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		permissionIDs := map[string]uint{}

		for _, name := range auth.AllPermissions {
			parts := strings.SplitN(name, ".", 2)

			permission := models.Permission{
				Name:     name,
				Resource: parts[0],
				Action:   parts[1],
			}

			err := tx.Where(models.Permission{Name: name}).FirstOrCreate(&permission).Error
			if err != nil {
				return errors.Wrapf(err, "seeding permission %s", name)
			}

			permissionIDs[name] = permission.ID
		}

		for roleName, permissions := range rolePermissions {
			role := models.Role{
				Name:        string(roleName),
				Description: roleDescriptions[roleName],
				IsSystem:    true,
			}

			err := tx.Where(models.Role{Name: string(roleName)}).FirstOrCreate(&role).Error
			if err != nil {
				return errors.Wrapf(err, "seeding role %s", roleName)
			}

			for _, permission := range permissions {
				mapping := models.RolePermission{
					RoleID:       role.ID,
					PermissionID: permissionIDs[permission],
				}

				err = tx.Where(mapping).FirstOrCreate(&mapping).Error
				if err != nil {
					return errors.Wrapf(err, "mapping %s to %s", permission, roleName)
				}
			}
		}

		return seedAdmin(tx)
	})
}

func seedAdmin(tx *gorm.DB) error {
	var count int64

	err := tx.Model(&models.User{}).Where("username = ?", DefaultAdminUsername).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "checking admin account")
	}

	if count > 0 {
		return nil
	}

	var adminRole models.Role

	err = tx.Where("name = ?", string(models.RoleAdmin)).First(&adminRole).Error
	if err != nil {
		return errors.Wrap(err, "loading admin role")
	}

	admin := models.User{
		Active:   true,
		Username: DefaultAdminUsername,
		Password: models.HashPassword(defaultAdminPassword),
		RoleID:   adminRole.ID,
	}

	err = tx.Create(&admin).Error
	if err != nil {
		return errors.Wrap(err, "creating admin account")
	}

	log.Warn().
		Str("username", DefaultAdminUsername).
		Msg("default admin account created, change its password")

	return nil
}
