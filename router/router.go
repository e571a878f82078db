package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restopos/backend/controllers"
	"github.com/restopos/backend/middlewares"
	"github.com/restopos/backend/rbac"
)

// SetupRouter builds the route table. The limiter must be attached here,
// before any route registration: gin snapshots each route's handler chain
// when the route is added, so middleware applied afterwards never runs.
func SetupRouter(db *gorm.DB, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(limiter.RateLimit())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	inventoryCtrl := controllers.NewInventoryController(db)
	supplierCtrl := controllers.NewSupplierController(db)
	poCtrl := controllers.NewPurchaseOrderController(db)
	activityCtrl := controllers.NewActivityController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Live event feed for cashier screens
	r.GET("/events/ws", controllers.EventsHandler)

	// Menu browsing needs no login
	r.GET("/menus", menuCtrl.GetAllMenuItems)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.POST("/auth/setup-2fa", userCtrl.Setup2FA)
		auth.POST("/auth/verify-2fa", userCtrl.Verify2FA)

		// Orders
		auth.POST("/orders", middlewares.RequirePermission(rbac.OrdersCreate), orderCtrl.CreateOrder)
		auth.GET("/orders", middlewares.RequirePermission(rbac.OrdersView), orderCtrl.GetOrders)
		auth.GET("/orders/:order_id", middlewares.RequirePermission(rbac.OrdersView), orderCtrl.GetOrderByID)
		auth.PATCH("/orders", middlewares.RequirePermission(rbac.OrdersEdit), orderCtrl.PatchOrder)

		// Tables
		auth.GET("/tables", middlewares.RequirePermission(rbac.OrdersView), tableCtrl.GetAllTables)
		auth.POST("/tables", middlewares.RequirePermission(rbac.SettingsEdit), tableCtrl.CreateTable)
		auth.DELETE("/tables", middlewares.RequirePermission(rbac.SettingsEdit), tableCtrl.DeleteTable)
		auth.POST("/tables/merge", middlewares.RequirePermission(rbac.TablesMerge), tableCtrl.MergeTables)
		auth.PATCH("/tables/:table_id/guests", middlewares.RequirePermission(rbac.OrdersEdit), tableCtrl.SetTableGuests)

		// Menu administration
		auth.POST("/menus", middlewares.RequirePermission(rbac.SettingsEdit), menuCtrl.CreateMenuItem)
		auth.PATCH("/menus/:menu_id", middlewares.RequirePermission(rbac.SettingsEdit), menuCtrl.UpdateMenuItem)
		auth.DELETE("/menus/:menu_id", middlewares.RequirePermission(rbac.SettingsEdit), menuCtrl.DeleteMenuItem)

		// Inventory
		auth.GET("/inventory", middlewares.RequirePermission(rbac.InventoryView), inventoryCtrl.GetInventory)
		auth.POST("/inventory", middlewares.RequirePermission(rbac.InventoryEdit), inventoryCtrl.CreateInventoryItem)
		auth.GET("/inventory/low-stock", middlewares.RequirePermission(rbac.InventoryView), inventoryCtrl.GetLowStock)
		auth.GET("/inventory/:item_id/movements", middlewares.RequirePermission(rbac.InventoryView), inventoryCtrl.GetMovements)
		auth.POST("/inventory/:item_id/movements", middlewares.RequirePermission(rbac.InventoryEdit), inventoryCtrl.RecordMovement)

		// Suppliers
		auth.GET("/suppliers", middlewares.RequirePermission(rbac.SuppliersView), supplierCtrl.GetAllSuppliers)
		auth.GET("/suppliers/:supplier_id", middlewares.RequirePermission(rbac.SuppliersView), supplierCtrl.GetSupplierByID)
		auth.POST("/suppliers", middlewares.RequirePermission(rbac.SuppliersEdit), supplierCtrl.CreateSupplier)
		auth.PATCH("/suppliers/:supplier_id", middlewares.RequirePermission(rbac.SuppliersEdit), supplierCtrl.UpdateSupplier)
		auth.DELETE("/suppliers/:supplier_id", middlewares.RequirePermission(rbac.SuppliersEdit), supplierCtrl.DeleteSupplier)

		// Purchase orders
		auth.GET("/purchase-orders", middlewares.RequirePermission(rbac.SuppliersView), poCtrl.GetPurchaseOrders)
		auth.GET("/purchase-orders/:po_id", middlewares.RequirePermission(rbac.SuppliersView), poCtrl.GetPurchaseOrderByID)
		auth.POST("/purchase-orders", middlewares.RequirePermission(rbac.SuppliersEdit), poCtrl.CreatePurchaseOrder)
		auth.PATCH("/purchase-orders/:po_id", middlewares.RequirePermission(rbac.SuppliersEdit), poCtrl.PatchPurchaseOrder)

		// Users & audit
		auth.GET("/users", middlewares.RequirePermission(rbac.UsersView), userCtrl.GetAllUsers)
		auth.PATCH("/users/:user_id", middlewares.RequirePermission(rbac.UsersEdit), userCtrl.UpdateUser)
		auth.GET("/activity", middlewares.RequirePermission(rbac.AuditView), activityCtrl.GetActivity)
	}

	return r
}
