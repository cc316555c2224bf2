package models

import "gorm.io/gorm"

const (
	OrderStatusPending   = "pending"
	OrderStatusPartial   = "partial"
	OrderStatusCompleted = "completed"
)

type PurchaseOrder struct {
	gorm.Model
	OrderNo     string `json:"order_no" gorm:"unique"`
	SupplierID  uint   `json:"supplier_id" validate:"required"`
	WarehouseID uint   `json:"warehouse_id" validate:"required"`
	Status      string `json:"status" gorm:"default:'pending'"`
	Notes       string `json:"notes" gorm:"size:500"`
	CreatedBy   int
	UpdatedBy   int
	DeletedBy   int

	Supplier Supplier            `json:"supplier" gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID"`
}

type PurchaseOrderItem struct {
	ID               uint `json:"id" gorm:"primaryKey"`
	PurchaseOrderID  uint `json:"purchase_order_id" gorm:"index"`
	ProductID        uint `json:"product_id" gorm:"not null" validate:"required"`
	Quantity         int  `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	ReceivedQuantity int  `json:"received_quantity" gorm:"default:0"`

	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}
