// Package rbac maps POS roles to explicit capability sets. Evaluation is
// a pure lookup so middleware and tests can call it without any wiring.
package rbac

// Role is one of the four staff roles known to the POS.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
	RoleKitchen Role = "kitchen"
)

// Permission names a resource/action pair.
type Permission struct {
	Resource string
	Action   string
}

var (
	UsersView       = Permission{"users", "view"}
	UsersCreate     = Permission{"users", "create"}
	UsersEdit       = Permission{"users", "edit"}
	UsersDelete     = Permission{"users", "delete"}
	UsersDeactivate = Permission{"users", "deactivate"}

	OrdersView   = Permission{"orders", "view"}
	OrdersCreate = Permission{"orders", "create"}
	OrdersEdit   = Permission{"orders", "edit"}

	InventoryView = Permission{"inventory", "view"}
	InventoryEdit = Permission{"inventory", "edit"}

	SuppliersView = Permission{"suppliers", "view"}
	SuppliersEdit = Permission{"suppliers", "edit"}

	TablesMerge = Permission{"tables", "merge"}

	ReportsView = Permission{"reports", "view"}

	SettingsView = Permission{"settings", "view"}
	SettingsEdit = Permission{"settings", "edit"}

	AuditView = Permission{"audit", "view"}
)

// hierarchy orders the roles; a higher number may manage a lower one.
var hierarchy = map[Role]int{
	RoleAdmin:   4,
	RoleManager: 3,
	RoleCashier: 2,
	RoleKitchen: 1,
}

var grants = map[Role][]Permission{
	RoleAdmin: {
		UsersView, UsersCreate, UsersEdit, UsersDelete, UsersDeactivate,
		OrdersView, OrdersCreate, OrdersEdit,
		InventoryView, InventoryEdit,
		SuppliersView, SuppliersEdit,
		TablesMerge,
		ReportsView,
		SettingsView, SettingsEdit,
		AuditView,
	},
	RoleManager: {
		UsersView, UsersCreate, UsersEdit, UsersDeactivate,
		OrdersView, OrdersEdit,
		InventoryView, InventoryEdit,
		SuppliersView,
		TablesMerge,
		ReportsView,
		AuditView,
	},
	RoleCashier: {
		OrdersView, OrdersCreate, OrdersEdit,
		InventoryView,
	},
	RoleKitchen: {
		OrdersView,
	},
}

// Valid reports whether r names a known role.
func Valid(r Role) bool {
	_, ok := hierarchy[r]
	return ok
}

// HasPermission reports whether the role is granted the permission.
// Unknown roles have no permissions.
func HasPermission(r Role, p Permission) bool {
	for _, granted := range grants[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// CanManageUser reports whether actor may manage target. Management is
// strictly downward: equals cannot manage each other.
func CanManageUser(actor, target Role) bool {
	return hierarchy[actor] > hierarchy[target]
}

// AllRoles lists the known roles in descending hierarchy order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleCashier, RoleKitchen}
}
