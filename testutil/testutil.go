package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"stock-app/config"
	"stock-app/controllers/idgen"
	"stock-app/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSchema = "test_stock"

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// SetupTestDB creates a test database connection using a dedicated test
// schema. Each test gets an isolated schema that is dropped afterwards.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()
	config.LoadConfig()
	idgen.Init()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "stock_app")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so all pooled connections use the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Warehouse{},
		&models.Supplier{},
		&models.Product{},
		&models.PackagingRequirement{},
		&models.ComboProduct{},
		&models.ComboComponent{},
		&models.ComboPackagingRequirement{},
		&models.StockRecord{},
		&models.ComboStockRecord{},
		&models.StockTransaction{},
		&models.BatchShipment{},
		&models.BatchShipmentLine{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.FileLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// CreateWarehouse inserts a warehouse and returns it.
func CreateWarehouse(t *testing.T, db *gorm.DB, code string) *models.Warehouse {
	t.Helper()
	warehouse := &models.Warehouse{Code: code, Name: "Warehouse " + code}
	if err := db.Create(warehouse).Error; err != nil {
		t.Fatalf("Failed to create warehouse: %v", err)
	}
	return warehouse
}

// CreateProduct inserts a product with the given sale type.
func CreateProduct(t *testing.T, db *gorm.DB, sku, saleType string) *models.Product {
	t.Helper()
	product := &models.Product{Sku: sku, Name: "Product " + sku, SaleType: saleType}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return product
}

// SetPackaging configures the packaging requirements of one product.
func SetPackaging(t *testing.T, db *gorm.DB, productID uint, lines map[uint]int) {
	t.Helper()
	for packagingID, qty := range lines {
		req := models.PackagingRequirement{ProductID: productID, PackagingID: packagingID, Quantity: qty}
		if err := db.Create(&req).Error; err != nil {
			t.Fatalf("Failed to create packaging requirement: %v", err)
		}
	}
}

// CreateCombo inserts a combo product with components and optional packaging.
func CreateCombo(t *testing.T, db *gorm.DB, sku string, components map[uint]int, packaging map[uint]int) *models.ComboProduct {
	t.Helper()
	combo := &models.ComboProduct{Sku: sku, Name: "Combo " + sku}
	for baseID, qty := range components {
		combo.Components = append(combo.Components, models.ComboComponent{BaseProductID: baseID, Quantity: qty})
	}
	for packagingID, qty := range packaging {
		combo.PackagingRequirements = append(combo.PackagingRequirements, models.ComboPackagingRequirement{PackagingID: packagingID, Quantity: qty})
	}
	if err := db.Create(combo).Error; err != nil {
		t.Fatalf("Failed to create combo product: %v", err)
	}
	return combo
}

// SeedStock writes a stock record with the given bucket values directly.
func SeedStock(t *testing.T, db *gorm.DB, productID, warehouseID uint, inTransit, semiFinished, finished, shipped int) {
	t.Helper()
	rec := models.StockRecord{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		InTransit:    inTransit,
		SemiFinished: semiFinished,
		Finished:     finished,
		Shipped:      shipped,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("Failed to seed stock record: %v", err)
	}
}
