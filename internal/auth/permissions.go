package auth

// Permission names used throughout the web layer. "manage" covers the
// create, edit and delete pages; listing and searching an entity is part of
// being logged in.
const (
	PermDealershipManage  = "dealership.manage"
	PermVehicleManage     = "vehicle.manage"
	PermBrandManage       = "brand.manage"
	PermEmployeeManage    = "employee.manage"
	PermBuyerManage       = "buyer.manage"
	PermInsurerManage     = "insurer.manage"
	PermPolicyManage      = "policy.manage"
	PermMaintenanceManage = "maintenance.manage"
	PermSaleManage        = "sale.manage"
	PermSaleCreate        = "sale.create"
	PermSaleSearch        = "sale.search"
	PermUserAdmin         = "admin.users"
)

// AllPermissions lists every permission the seeder must create.
var AllPermissions = []string{
	PermDealershipManage,
	PermVehicleManage,
	PermBrandManage,
	PermEmployeeManage,
	PermBuyerManage,
	PermInsurerManage,
	PermPolicyManage,
	PermMaintenanceManage,
	PermSaleManage,
	PermSaleCreate,
	PermSaleSearch,
	PermUserAdmin,
}
