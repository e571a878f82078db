package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/restopos/backend/billing"
	"github.com/restopos/backend/middlewares"
	"github.com/restopos/backend/models"
	"github.com/restopos/backend/router"
	"github.com/restopos/backend/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("No .env file found, relying on environment variables")
	}

	if raw := os.Getenv("TAX_RATE"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			utils.ErrorLogger.Fatalf("TAX_RATE %q is not a rate in [0,1]", raw)
		}
		billing.DefaultTaxRate = rate
	}

	db, err := openDatabase()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	autoMigrate(db)

	// 50 requests per second per IP across the whole API
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, rateLimiter)

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// openDatabase picks the driver from DB_DRIVER. SQLite is the default so
// a fresh checkout runs without a MySQL instance.
func openDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_DSN")

	switch os.Getenv("DB_DRIVER") {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		if dsn == "" {
			dsn = "restopos.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.BillSplitPerson{},
		&models.BillSplitItem{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.PurchaseOrder{},
		&models.POLineItem{},
		&models.ActivityLog{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
