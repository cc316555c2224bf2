package migration

import (
	"stock-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
}
