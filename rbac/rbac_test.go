package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionMatrix(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, UsersDelete))
	assert.True(t, HasPermission(RoleAdmin, SettingsEdit))

	assert.True(t, HasPermission(RoleAdmin, TablesMerge))
	assert.True(t, HasPermission(RoleManager, TablesMerge))
	assert.False(t, HasPermission(RoleCashier, TablesMerge))

	assert.True(t, HasPermission(RoleManager, UsersDeactivate))
	assert.False(t, HasPermission(RoleManager, UsersDelete))
	assert.False(t, HasPermission(RoleManager, SettingsEdit))

	assert.True(t, HasPermission(RoleCashier, OrdersCreate))
	assert.True(t, HasPermission(RoleCashier, OrdersEdit))
	assert.True(t, HasPermission(RoleCashier, InventoryView))
	assert.False(t, HasPermission(RoleCashier, InventoryEdit))
	assert.False(t, HasPermission(RoleCashier, SuppliersView))

	assert.True(t, HasPermission(RoleKitchen, OrdersView))
	assert.False(t, HasPermission(RoleKitchen, OrdersCreate))
}

func TestUnknownRoleHasNothing(t *testing.T) {
	assert.False(t, Valid(Role("waiter")))
	assert.False(t, HasPermission(Role("waiter"), OrdersView))
}

func TestCanManageUser(t *testing.T) {
	assert.True(t, CanManageUser(RoleAdmin, RoleManager))
	assert.True(t, CanManageUser(RoleManager, RoleCashier))
	assert.False(t, CanManageUser(RoleManager, RoleManager))
	assert.False(t, CanManageUser(RoleCashier, RoleAdmin))
	assert.False(t, CanManageUser(RoleKitchen, RoleKitchen))
}

func TestAllRolesAreValid(t *testing.T) {
	for _, role := range AllRoles() {
		assert.True(t, Valid(role), "role %s", role)
	}
}
