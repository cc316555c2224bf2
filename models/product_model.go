package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SaleTypeProduct   = "product"
	SaleTypePackaging = "packaging"
)

type Product struct {
	gorm.Model
	Sku       string `json:"sku" gorm:"unique" validate:"required"`
	Name      string `json:"name" validate:"required"`
	SaleType  string `json:"sale_type" gorm:"default:'product'"` // product | packaging
	Uom       string `json:"uom"`
	Remarks   string `json:"remarks"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

// PackagingRequirement declares how many units of a packaging product are
// consumed each time one unit of the owning product is packaged. A product
// may require several different packaging materials.
type PackagingRequirement struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	ProductID   uint `json:"product_id" gorm:"not null;uniqueIndex:uq_product_packaging"`
	PackagingID uint `json:"packaging_id" gorm:"not null;uniqueIndex:uq_product_packaging"`
	Quantity    int  `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	CreatedAt   time.Time
	CreatedBy   int

	Packaging Product `json:"packaging" gorm:"foreignKey:PackagingID"`
}
