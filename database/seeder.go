package database

import (
	"log"
	"stock-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedUserMaster(db)
	SeedWarehouse(db)
}

func SeedUserMaster(db *gorm.DB) {
	var existing models.User
	if err := db.Where("username = ?", "admin").First(&existing).Error; err != gorm.ErrRecordNotFound {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	admin := models.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "Administrator",
		Email:    "admin@local",
		Role:     "admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
	}
}

func SeedWarehouse(db *gorm.DB) {
	warehouses := []models.Warehouse{
		{Code: "MAIN", Name: "Main Warehouse"},
	}

	for _, w := range warehouses {
		var existing models.Warehouse
		if err := db.Where("code = ?", w.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&w)
			}
		}
	}
}
