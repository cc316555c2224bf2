package models

import (
	"time"

	"gorm.io/gorm"
)

type ComboProduct struct {
	gorm.Model
	Sku       string `json:"sku" gorm:"unique" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Remarks   string `json:"remarks"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Components            []ComboComponent            `json:"components" gorm:"foreignKey:ComboProductID"`
	PackagingRequirements []ComboPackagingRequirement `json:"packaging_requirements" gorm:"foreignKey:ComboProductID"`
}

// ComboComponent is one BOM line: assembling one combo consumes Quantity
// units of the base product's semi finished stock.
type ComboComponent struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	ComboProductID uint `json:"combo_product_id" gorm:"not null;uniqueIndex:uq_combo_component"`
	BaseProductID  uint `json:"base_product_id" gorm:"not null;uniqueIndex:uq_combo_component"`
	Quantity       int  `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	CreatedAt      time.Time

	BaseProduct Product `json:"base_product" gorm:"foreignKey:BaseProductID"`
}

// ComboPackagingRequirement is packaging consumed at combo level when the
// combo is assembled, on top of whatever the components already consumed.
type ComboPackagingRequirement struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	ComboProductID uint `json:"combo_product_id" gorm:"not null;uniqueIndex:uq_combo_packaging"`
	PackagingID    uint `json:"packaging_id" gorm:"not null;uniqueIndex:uq_combo_packaging"`
	Quantity       int  `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	CreatedAt      time.Time

	Packaging Product `json:"packaging" gorm:"foreignKey:PackagingID"`
}
